package mongo

import (
	"Shutter/internal/model"
	"context"
	log "log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EventBoxRepo interface {
	CreateEvent(ctx context.Context, msg *EventBoxModel) error
	GetEventList(ctx context.Context, sessionID string, limit, offset int64) ([]*EventBoxModel, error)
	MarkAllAsRead(ctx context.Context, sessionID string) error
	GetUnreadCount(ctx context.Context, sessionID string) (int64, error)
}

type eventBoxRepoImpl struct {
	col *mongo.Collection
}

func NewEventBoxRepo(db *mongo.Database) EventBoxRepo {
	return &eventBoxRepoImpl{
		col: db.Collection("event_box"),
	}
}

// CreateEvent 插入新通知
func (s *eventBoxRepoImpl) CreateEvent(ctx context.Context, msg *EventBoxModel) error {
	_, err := s.col.InsertOne(ctx, msg)
	return err
}

// GetEventList 分页获取会话的通知列表 (按时间倒序)
func (s *eventBoxRepoImpl) GetEventList(ctx context.Context, sessionID string, limit, offset int64) ([]*EventBoxModel, error) {
	filter := bson.M{"session_id": sessionID}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*EventBoxModel
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *eventBoxRepoImpl) MarkAllAsRead(ctx context.Context, sessionID string) error {
	filter := bson.M{"session_id": sessionID, "is_read": false}
	update := bson.M{"$set": bson.M{"is_read": true}}
	_, err := s.col.UpdateMany(ctx, filter, update)
	return err
}

func (s *eventBoxRepoImpl) GetUnreadCount(ctx context.Context, sessionID string) (int64, error) {
	filter := bson.M{"session_id": sessionID, "is_read": false}
	return s.col.CountDocuments(ctx, filter)
}

// InboxNotifier 直接把事件写入通知箱，未配置 kafka 时使用
type InboxNotifier struct {
	repo EventBoxRepo
}

func NewInboxNotifier(repo EventBoxRepo) *InboxNotifier {
	return &InboxNotifier{repo: repo}
}

func (n *InboxNotifier) Notify(ctx context.Context, evt model.Event) {
	if err := n.repo.CreateEvent(ctx, NewEventBoxModel(evt)); err != nil {
		log.ErrorContext(ctx, "failed to save event", "session_id", evt.SessionID, "type", evt.Type, "err", err)
	}
}
