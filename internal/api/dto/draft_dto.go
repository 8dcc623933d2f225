package dto

// DraftMetadataDTO 草稿文字信息，tags 为逗号分隔的原始输入
type DraftMetadataDTO struct {
	Caption  string    `json:"caption" form:"caption" validate:"max=10000"`
	Location string    `json:"location" form:"location" validate:"max=255"`
	Tags     string    `json:"tags" form:"tags" validate:"max=2000"`
	Audio    *AudioDTO `json:"audio,omitempty"`
}

// DraftReorderDTO 把 from 位置的媒体移到 to
type DraftReorderDTO struct {
	From *int `json:"from" binding:"required" validate:"min=0"`
	To   *int `json:"to" binding:"required" validate:"min=0"`
}

// DraftMediaDTO 草稿中的媒体
type DraftMediaDTO struct {
	ID              string   `json:"id"`
	Kind            string   `json:"kind"`
	OriginalName    string   `json:"original_name"`
	Width           *int     `json:"width,omitempty"`
	Height          *int     `json:"height,omitempty"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty"`
	FileSizeBytes   *int64   `json:"file_size_bytes,omitempty"`
}

// DraftFailedDTO 上传失败的媒体
type DraftFailedDTO struct {
	Index        int    `json:"index"`
	MediaID      string `json:"media_id"`
	ErrorMessage string `json:"error_message"`
}

// DraftDTO 草稿与上传进度
type DraftDTO struct {
	ID             string            `json:"id"`
	State          string            `json:"state"`
	Medias         []*DraftMediaDTO  `json:"medias"`
	Metadata       *DraftMetadataDTO `json:"metadata"`
	Progress       float64           `json:"progress"`
	CompletedCount int               `json:"completed_count"`
	TotalCount     int               `json:"total_count"`
	Retrying       bool              `json:"retrying"`
	SucceededCount int               `json:"succeeded_count"`
	Failed         []*DraftFailedDTO `json:"failed"`
	PostID         string            `json:"post_id,omitempty"`
	LastError      string            `json:"last_error,omitempty"`
	UpdatedAt      string            `json:"updated_at"`
}
