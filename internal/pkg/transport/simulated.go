package transport

import (
	"Shutter/internal/model"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Simulated 本地演示用的上传通道：随机延迟，按概率失败
type Simulated struct {
	minDelay    time.Duration
	maxDelay    time.Duration
	failureRate float64

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSimulated(minDelay, maxDelay time.Duration, failureRate float64) *Simulated {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Simulated{
		minDelay:    minDelay,
		maxDelay:    maxDelay,
		failureRate: failureRate,
		rnd:         rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
	}
}

func (s *Simulated) Upload(ctx context.Context, blob io.Reader, meta model.UploadMeta) (map[string]any, error) {
	n, err := io.Copy(io.Discard, blob)
	if err != nil {
		return nil, fmt.Errorf("read media: %w", err)
	}

	delay, fail := s.roll()
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	if fail {
		return nil, fmt.Errorf("upload failed: simulated error for item %d", meta.Index)
	}

	return map[string]any{
		"ref":   "sim://" + uuid.NewString() + "/" + meta.FileName,
		"index": meta.Index,
		"kind":  string(meta.Kind),
		"size":  n,
	}, nil
}

func (s *Simulated) roll() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delay := s.minDelay
	if span := s.maxDelay - s.minDelay; span > 0 {
		delay += time.Duration(s.rnd.Int64N(int64(span)))
	}
	return delay, s.rnd.Float64() < s.failureRate
}
