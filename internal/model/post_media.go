package model

type PostMedia struct {
	ID              uint64    `gorm:"primaryKey" json:"-"`
	PostID          string    `gorm:"type:varchar(36);not null;index:idx_post_id_sort" json:"-"`
	SortOrder       int       `gorm:"not null;default:0;index:idx_post_id_sort" json:"sort_order"`
	RemoteRef       string    `gorm:"type:varchar(512);not null" json:"remote_ref"`
	Kind            MediaKind `gorm:"type:varchar(16);not null" json:"kind"`
	Width           int       `gorm:"not null;default:0" json:"width"`
	Height          int       `gorm:"not null;default:0" json:"height"`
	DurationSeconds float64   `gorm:"not null;default:0" json:"duration_seconds"`
}

func (PostMedia) TableName() string {
	return "post_media"
}
