package dto

// EventBoxDTO 会话通知返回对象
type EventBoxDTO struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	PostID      string `json:"post_id,omitempty"`
	FailedCount int    `json:"failed_count"`
	TotalCount  int    `json:"total_count"`
	Content     string `json:"content"`
	IsRead      bool   `json:"is_read"`
	CreatedAt   string `json:"created_at"`
}

// EventBoxUnreadDTO 未读数返回
type EventBoxUnreadDTO struct {
	UnreadCount int64 `json:"unread_count"`
}
