package kafka

import (
	"Shutter/internal/api/config"
	"Shutter/internal/model"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// NewEventProducer 创建同步生产者
func NewEventProducer(cfg config.KafkaConfig) (sarama.SyncProducer, error) {
	return sarama.NewSyncProducer(cfg.Brokers, newSaramaConfig(cfg))
}

// EventNotifier 把会话事件投递到 kafka，同一会话的事件落在同一分区
type EventNotifier struct {
	producer sarama.SyncProducer
	topic    string
}

func NewEventNotifier(producer sarama.SyncProducer, topic string) *EventNotifier {
	return &EventNotifier{
		producer: producer,
		topic:    topic,
	}
}

func (n *EventNotifier) Notify(ctx context.Context, evt model.Event) {
	b, err := json.Marshal(evt)
	if err != nil {
		log.ErrorContext(ctx, "marshal event error", "err", err)
		return
	}

	partition, offset, err := n.producer.SendMessage(&sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(evt.SessionID),
		Value: sarama.ByteEncoder(b),
	})
	if err != nil {
		log.ErrorContext(ctx, "send event error", "session_id", evt.SessionID, "type", evt.Type, "err", err)
		return
	}
	log.DebugContext(ctx, "event sent", "topic", n.topic, "partition", partition, "offset", offset)
}

func (n *EventNotifier) Close() error {
	return n.producer.Close()
}
