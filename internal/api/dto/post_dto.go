package dto

// PostDTO 帖子
type PostDTO struct {
	ID        string          `json:"id"`
	Caption   string          `json:"caption"`
	Location  *string         `json:"location"`
	Tags      []string        `json:"tags" copier:"-"`
	Audio     *AudioDTO       `json:"audio,omitempty" copier:"-"`
	Medias    []*PostMediaDTO `json:"medias" copier:"-"`
	CreatedAt string          `json:"created_at" copier:"-"`
}

// PostMediaDTO 媒体
type PostMediaDTO struct {
	Kind            string  `json:"kind"`
	URL             string  `json:"url" copier:"-"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// AudioDTO 背景音乐
type AudioDTO struct {
	ID    string `json:"id" validate:"max=64"`
	URI   string `json:"uri" validate:"max=512"`
	Title string `json:"title" validate:"max=255"`
}

// PostWaterfallDTO 最新帖子列表
type PostWaterfallDTO struct {
	List    []*PostDTO `json:"list"`
	HasMore bool       `json:"has_more"`
}
