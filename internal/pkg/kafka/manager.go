package kafka

import (
	"Shutter/internal/api/config"
	"Shutter/internal/pkg/mongo"
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
)

const rejoinBackoff = 2 * time.Second

// ConsumerManager 事件消费者，把会话事件落到通知箱
type ConsumerManager struct {
	topic   string
	group   sarama.ConsumerGroup
	handler sarama.ConsumerGroupHandler
	groupID string
}

func NewConsumerManager(cfg *config.Config, eventBoxRepo mongo.EventBoxRepo) (*ConsumerManager, error) {
	group, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.Kafka.Consumer.GroupID, newSaramaConfig(cfg.Kafka))
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		topic:   cfg.Kafka.EventTopic,
		group:   group,
		handler: NewEventBoxHandler(eventBoxRepo),
		groupID: cfg.Kafka.Consumer.GroupID,
	}, nil
}

// Start 阻塞到 ctx 结束；rebalance 后重新加入消费组
func (m *ConsumerManager) Start(ctx context.Context) error {
	// Consumer.Return.Errors 开启后必须消费错误通道
	go func() {
		for err := range m.group.Errors() {
			log.Error("event consumer error", "group", m.groupID, "err", err)
		}
	}()

	go func() {
		log.Info("Event consumer started", "topic", m.topic, "group", m.groupID)
		for {
			if err := m.group.Consume(ctx, []string{m.topic}, m.handler); err != nil {
				log.Error("event consumer session ended", "err", err)
				select {
				case <-ctx.Done():
				case <-time.After(rejoinBackoff):
				}
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")
	if err := m.group.Close(); err != nil {
		log.Error("Failed to close event consumer", "err", err)
		return err
	}
	return nil
}
