package model

// MediaKind 媒体类型
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// MediaItem 用户选中的本地媒体
// ID 在重排序后保持不变，顺序由所在切片决定
type MediaItem struct {
	ID              string    `json:"id"`
	LocalURI        string    `json:"localUri"`
	OriginalURI     string    `json:"originalUri"`
	Kind            MediaKind `json:"kind"`
	Width           *int      `json:"width,omitempty"`
	Height          *int      `json:"height,omitempty"`
	DurationSeconds *float64  `json:"durationSeconds,omitempty"`
	FileSizeBytes   *int64    `json:"fileSizeBytes,omitempty"`
}

// AudioRef 背景音乐
type AudioRef struct {
	ID    string `json:"id"`
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// PostMetadata 帖子文字信息，Tags 为逗号分隔的原始输入
type PostMetadata struct {
	Caption  string    `json:"caption"`
	Location string    `json:"location"`
	Tags     string    `json:"tags"`
	Audio    *AudioRef `json:"audio,omitempty"`
}
