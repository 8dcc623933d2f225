package model

// UploadOutcome 单个媒体一次上传尝试的结果
type UploadOutcome struct {
	ItemIndex    int            `json:"itemIndex"`
	Success      bool           `json:"success"`
	RemoteResult map[string]any `json:"remoteResult,omitempty"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
}

// UploadMeta 随媒体一起交给上传通道的信息
type UploadMeta struct {
	Index       int
	Kind        MediaKind
	FileName    string
	ContentType string
	Size        int64
}

// IndexedItem 带原始下标的媒体
type IndexedItem struct {
	Index int
	Item  MediaItem
}

// SucceededUpload 成功上传
type SucceededUpload struct {
	Index        int            `json:"index"`
	RemoteResult map[string]any `json:"remoteResult"`
}

// FailedUpload 失败上传，保留媒体以便重试
type FailedUpload struct {
	Index        int       `json:"index"`
	Item         MediaItem `json:"item"`
	ErrorMessage string    `json:"errorMessage"`
}

// BatchResult 一个批次的结果，两个列表均按下标升序
type BatchResult struct {
	Succeeded []SucceededUpload `json:"succeeded"`
	Failed    []FailedUpload    `json:"failed"`
}

// UploadBatchState 批次进度
type UploadBatchState struct {
	TotalCount      int                   `json:"totalCount"`
	CompletedCount  int                   `json:"completedCount"`
	Outcomes        map[int]UploadOutcome `json:"outcomes"`
	ProgressPercent float64               `json:"progressPercent"`
}
