package service

import (
	"Shutter/internal/model"
	"context"
	"sort"
)

// RetryController 只对上次失败的子集重新上传
type RetryController struct {
	coordinator *UploadBatchCoordinator
}

func NewRetryController(coordinator *UploadBatchCoordinator) *RetryController {
	return &RetryController{coordinator: coordinator}
}

// Retry 重新上传 previousFailed，下标保持原序列中的位置；
// 进度以本次重试的数量为分母
func (s *RetryController) Retry(ctx context.Context, previousFailed []model.FailedUpload, total int, onProgress ProgressFunc) model.BatchResult {
	if len(previousFailed) == 0 {
		return emptyBatchResult()
	}

	items := make([]model.IndexedItem, len(previousFailed))
	for i, f := range previousFailed {
		items[i] = model.IndexedItem{Index: f.Index, Item: f.Item}
	}
	return s.coordinator.RunBatch(ctx, items, total, onProgress)
}

// Merge 按下标合并两次尝试，latest 中出现的下标覆盖 prior
func Merge(prior, latest model.BatchResult) model.BatchResult {
	type entry struct {
		ok     *model.SucceededUpload
		failed *model.FailedUpload
	}
	byIndex := make(map[int]entry)
	put := func(r model.BatchResult) {
		for i := range r.Succeeded {
			byIndex[r.Succeeded[i].Index] = entry{ok: &r.Succeeded[i]}
		}
		for i := range r.Failed {
			byIndex[r.Failed[i].Index] = entry{failed: &r.Failed[i]}
		}
	}
	put(prior)
	put(latest)

	indexes := make([]int, 0, len(byIndex))
	for idx := range byIndex {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	merged := emptyBatchResult()
	for _, idx := range indexes {
		e := byIndex[idx]
		if e.ok != nil {
			merged.Succeeded = append(merged.Succeeded, *e.ok)
		} else {
			merged.Failed = append(merged.Failed, *e.failed)
		}
	}
	return merged
}
