package dto

// MediaTempMetadata 已上传对象的临时记录，帖子发布后删除
type MediaTempMetadata struct {
	MimeType  string `json:"mime_type"`
	Kind      string `json:"kind"`
	Size      int64  `json:"size"`
	Bucket    string `json:"bucket"`
	CreatedAt int64  `json:"created_at"`
}
