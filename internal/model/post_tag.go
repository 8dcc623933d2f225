package model

type PostTag struct {
	ID        uint64 `gorm:"primaryKey" json:"-"`
	PostID    string `gorm:"type:varchar(36);not null;index:idx_post_tag" json:"-"`
	SortOrder int    `gorm:"not null;default:0" json:"-"`
	Name      string `gorm:"type:varchar(100);not null;index:idx_tag_name" json:"name"`
}

func (PostTag) TableName() string {
	return "post_tags"
}
