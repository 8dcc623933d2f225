package model

import "time"

// EventType 通知事件类型
type EventType string

const (
	EventBatchSucceeded       EventType = "batch_succeeded"
	EventBatchPartiallyFailed EventType = "batch_partially_failed"
	EventBatchError           EventType = "batch_error"
	EventNoMediaSelected      EventType = "no_media_selected"
)

// Event 发给通知端口的事件
type Event struct {
	Type        EventType `json:"type"`
	SessionID   string    `json:"sessionId"`
	PostID      string    `json:"postId,omitempty"`
	FailedCount int       `json:"failedCount"`
	TotalCount  int       `json:"totalCount"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"createdAt"`
}
