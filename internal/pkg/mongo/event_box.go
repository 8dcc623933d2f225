package mongo

import (
	"Shutter/internal/model"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventBoxModel 分享会话的通知记录
type EventBoxModel struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID   string             `bson:"session_id" json:"sessionId"`
	Type        string             `bson:"type" json:"type"`
	PostID      string             `bson:"post_id,omitempty" json:"postId,omitempty"`
	FailedCount int                `bson:"failed_count" json:"failedCount"`
	TotalCount  int                `bson:"total_count" json:"totalCount"`
	Content     string             `bson:"content" json:"content"`
	IsRead      bool               `bson:"is_read" json:"isRead"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

// NewEventBoxModel 由会话事件构造通知
func NewEventBoxModel(evt model.Event) *EventBoxModel {
	createdAt := evt.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return &EventBoxModel{
		SessionID:   evt.SessionID,
		Type:        string(evt.Type),
		PostID:      evt.PostID,
		FailedCount: evt.FailedCount,
		TotalCount:  evt.TotalCount,
		Content:     evt.Message,
		CreatedAt:   createdAt,
	}
}
