package kafka

import (
	"Shutter/internal/pkg/mongo"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// EventBoxHandler 消费会话事件并写入通知箱
type EventBoxHandler struct {
	eventBoxRepo mongo.EventBoxRepo
}

func NewEventBoxHandler(repo mongo.EventBoxRepo) *EventBoxHandler {
	return &EventBoxHandler{
		eventBoxRepo: repo,
	}
}

func (s *EventBoxHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("event box consumer setup")
	return nil
}

func (s *EventBoxHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("event box consumer cleanup")
	return nil
}

func (s *EventBoxHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-event consume claim")
	err := consumeInBatches(session, claim, s.logic)
	if err != nil {
		log.Error("topic-event process batch error", "err", err)
		return err
	}
	return nil
}

func (s *EventBoxHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	evt, err := ToEvent(msg)
	if err != nil {
		// 格式错误的消息重试也无意义，直接跳过
		log.Warn("skip malformed event message", "offset", msg.Offset, "err", err)
		return nil
	}
	return s.eventBoxRepo.CreateEvent(ctx, mongo.NewEventBoxModel(*evt))
}
