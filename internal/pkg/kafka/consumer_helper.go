package kafka

import (
	"Shutter/internal/model"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

const (
	batchSize      = 32
	batchTimeout   = 1 * time.Second
	maxAttempts    = 5
	retryBaseDelay = 100 * time.Millisecond
	retryMaxDelay  = 2 * time.Second
)

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// consumeInBatches 攒批处理，满 batchSize 条或每 batchTimeout 刷一次
func consumeInBatches(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc) error {
	batch := make([]*sarama.ConsumerMessage, 0, batchSize)
	ticker := time.NewTicker(batchTimeout)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		handleBatch(session.Context(), batch, logic)
		session.MarkMessage(batch[len(batch)-1], "")
		session.Commit()
		batch = make([]*sarama.ConsumerMessage, 0, batchSize)
	}

	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				flush()
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				flush()
				ticker.Reset(batchTimeout)
			}
		case <-ticker.C:
			flush()
		case <-session.Context().Done():
			return nil
		}
	}
}

// handleBatch 同一会话的事件按 offset 顺序串行处理，不同会话并发
func handleBatch(ctx context.Context, messages []*sarama.ConsumerMessage, logic LogicFunc) {
	groups := make(map[string][]*sarama.ConsumerMessage)
	order := make([]string, 0)
	for _, m := range messages {
		key := string(m.Key)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], m)
	}

	var g errgroup.Group
	for _, key := range order {
		msgs := groups[key]
		g.Go(func() error {
			for _, m := range msgs {
				if err := withRetry(ctx, func() error { return logic(ctx, m) }); err != nil {
					log.Error("drop event message after retries",
						"topic", m.Topic, "partition", m.Partition, "offset", m.Offset, "err", err)
				}
			}
			return nil
		})
	}
	_ = g.Wait()
}

// withRetry 指数退避，最多 maxAttempts 次
func withRetry(ctx context.Context, fn func() error) error {
	delay := retryBaseDelay
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}
		log.Warn("process event message failed, retrying", "attempt", attempt, "err", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = min(delay*2, retryMaxDelay)
	}
	return fmt.Errorf("after %d attempts: %w", maxAttempts, err)
}

// ToEvent 解析事件消息，缺少会话或类型的视为无效
func ToEvent(msg *sarama.ConsumerMessage) (*model.Event, error) {
	var evt model.Event
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		return nil, fmt.Errorf("unmarshal event message: %w", err)
	}
	if evt.SessionID == "" || evt.Type == "" {
		return nil, errors.New("event is incomplete")
	}
	return &evt, nil
}
