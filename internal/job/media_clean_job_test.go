package job

import (
	"Shutter/internal/api/dto"
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeTempStore struct {
	items     map[string]dto.MediaTempMetadata
	deleted   []string
	released  []string
	deleteErr map[string]error
}

func (f *fakeTempStore) List(context.Context) (map[string]dto.MediaTempMetadata, error) {
	return f.items, nil
}

func (f *fakeTempStore) Release(_ context.Context, keys []string) error {
	f.released = append(f.released, keys...)
	return nil
}

func (f *fakeTempStore) Delete(_ context.Context, key string) error {
	if err := f.deleteErr[key]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeRefs struct {
	used []string
	err  error
}

func (f fakeRefs) ListMediaRefs(_ context.Context, refs []string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.used, nil
}

type fakeStaging struct{ calls []time.Duration }

func (f *fakeStaging) CleanupStaging(_ context.Context, olderThan time.Duration) (int, error) {
	f.calls = append(f.calls, olderThan)
	return 2, nil
}

type fakePruner struct {
	calls   []time.Duration
	pending []string
}

func (f *fakePruner) PruneSessions(_ context.Context, olderThan time.Duration) int {
	f.calls = append(f.calls, olderThan)
	return 1
}

func (f *fakePruner) PendingRefs(context.Context) []string {
	return f.pending
}

func TestMediaCleanupJobRun(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-48 * time.Hour).Unix()
	store := &fakeTempStore{
		items: map[string]dto.MediaTempMetadata{
			"orphan":   {CreatedAt: old},
			"attached": {CreatedAt: old},
			"broken":   {CreatedAt: old},
			"fresh":    {CreatedAt: now.Add(-time.Hour).Unix()},
		},
		deleteErr: map[string]error{"broken": errors.New("minio down")},
	}
	staging := &fakeStaging{}
	pruner := &fakePruner{}

	j := NewMediaCleanupJob(store, fakeRefs{used: []string{"attached"}}, staging, pruner, MediaCleanupOptions{
		TempObjectTTL: 24 * time.Hour,
		StagingTTL:    30 * 24 * time.Hour,
		SessionTTL:    24 * time.Hour,
	})
	j.now = func() time.Time { return now }
	j.Run()

	assert.Equal(t, []string{"orphan"}, store.deleted)
	sort.Strings(store.released)
	assert.Equal(t, []string{"attached", "orphan"}, store.released)
	assert.Equal(t, []time.Duration{30 * 24 * time.Hour}, staging.calls)
	assert.Equal(t, []time.Duration{24 * time.Hour}, pruner.calls)
}

func TestMediaCleanupJobSkipsWhenRefsUnknown(t *testing.T) {
	store := &fakeTempStore{
		items: map[string]dto.MediaTempMetadata{"k": {CreatedAt: 0}},
	}
	j := NewMediaCleanupJob(store, fakeRefs{err: errors.New("db down")}, nil, nil, MediaCleanupOptions{
		TempObjectTTL: time.Hour,
	})

	assert.Equal(t, 0, j.cleanTempMedia(context.Background()))
	assert.Empty(t, store.deleted)
	assert.Empty(t, store.released)
}

func TestMediaCleanupJobWithoutTempStore(t *testing.T) {
	pruner := &fakePruner{}
	j := NewMediaCleanupJob(nil, nil, nil, pruner, MediaCleanupOptions{SessionTTL: time.Minute})
	j.Run()
	assert.Len(t, pruner.calls, 1)
}

func TestMediaCleanupJobKeepsPendingRefs(t *testing.T) {
	store := &fakeTempStore{
		items: map[string]dto.MediaTempMetadata{
			"orphan": {CreatedAt: 0},
			"draft":  {CreatedAt: 0},
		},
	}
	pruner := &fakePruner{pending: []string{"draft"}}
	j := NewMediaCleanupJob(store, fakeRefs{}, nil, pruner, MediaCleanupOptions{TempObjectTTL: time.Hour})

	assert.Equal(t, 1, j.cleanTempMedia(context.Background()))
	assert.Equal(t, []string{"orphan"}, store.deleted)
	assert.Equal(t, []string{"orphan"}, store.released)
}
