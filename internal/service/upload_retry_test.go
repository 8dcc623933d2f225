package service

import (
	"Shutter/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryOnlyFailedSubset(t *testing.T) {
	items := writeMediaItems(t, 4)
	uploader := newFakeUploader(failIndexOnce(1, 2))
	coordinator := NewUploadBatchCoordinator(NewMediaUploadTask(uploader))
	retry := NewRetryController(coordinator)

	first := coordinator.RunAll(context.Background(), items, nil)
	require.Len(t, first.Failed, 2)

	var last model.UploadBatchState
	latest := retry.Retry(context.Background(), first.Failed, len(items), func(s model.UploadBatchState) { last = s })

	assert.Len(t, latest.Succeeded, 2)
	assert.Empty(t, latest.Failed)
	assert.Equal(t, 2, last.TotalCount)
	assert.Equal(t, 100.0, last.ProgressPercent)

	assert.Equal(t, 1, uploader.attemptsFor(0))
	assert.Equal(t, 2, uploader.attemptsFor(1))
	assert.Equal(t, 2, uploader.attemptsFor(2))
	assert.Equal(t, 1, uploader.attemptsFor(3))

	merged := Merge(first, latest)
	require.Len(t, merged.Succeeded, 4)
	assert.Empty(t, merged.Failed)
	for i, s := range merged.Succeeded {
		assert.Equal(t, i, s.Index)
	}
}

func TestRetryEmpty(t *testing.T) {
	retry := NewRetryController(NewUploadBatchCoordinator(NewMediaUploadTask(newFakeUploader(nil))))

	result := retry.Retry(context.Background(), nil, 3, func(model.UploadBatchState) {
		t.Fatal("progress must not be reported for an empty retry")
	})
	assert.Empty(t, result.Succeeded)
	assert.Empty(t, result.Failed)
}

func TestRetryDuplicateIndexUploadedOnce(t *testing.T) {
	items := writeMediaItems(t, 3)
	uploader := newFakeUploader(nil)
	retry := NewRetryController(NewUploadBatchCoordinator(NewMediaUploadTask(uploader)))

	failed := []model.FailedUpload{
		{Index: 1, Item: items[1]},
		{Index: 1, Item: items[1]},
		{Index: 2, Item: items[2]},
	}
	var states []model.UploadBatchState
	result := retry.Retry(context.Background(), failed, len(items), func(s model.UploadBatchState) { states = append(states, s) })

	require.Len(t, result.Succeeded, 2)
	assert.Equal(t, 1, result.Succeeded[0].Index)
	assert.Equal(t, 2, result.Succeeded[1].Index)
	assert.Equal(t, 1, uploader.attemptsFor(1))

	require.Len(t, states, 2)
	last := states[len(states)-1]
	assert.Equal(t, 2, last.TotalCount)
	assert.Equal(t, 2, last.CompletedCount)
	assert.Equal(t, 100.0, last.ProgressPercent)
}

func TestMergeLatestWins(t *testing.T) {
	prior := model.BatchResult{
		Succeeded: []model.SucceededUpload{{Index: 0}, {Index: 2}},
		Failed:    []model.FailedUpload{{Index: 1, ErrorMessage: "a"}, {Index: 3, ErrorMessage: "b"}},
	}
	latest := model.BatchResult{
		Succeeded: []model.SucceededUpload{{Index: 3}},
		Failed:    []model.FailedUpload{{Index: 1, ErrorMessage: "again"}},
	}

	merged := Merge(prior, latest)
	require.Len(t, merged.Succeeded, 3)
	assert.Equal(t, []int{0, 2, 3}, []int{merged.Succeeded[0].Index, merged.Succeeded[1].Index, merged.Succeeded[2].Index})
	require.Len(t, merged.Failed, 1)
	assert.Equal(t, "again", merged.Failed[0].ErrorMessage)
}
