package service

import (
	"Shutter/internal/model"
	"context"
	log "log/slog"
	"sort"

	"golang.org/x/sync/errgroup"
)

// ProgressFunc 每个任务落定后调用一次，按落定顺序而非下标顺序
type ProgressFunc func(state model.UploadBatchState)

// UploadBatchCoordinator 并发上传一批媒体，等待全部落定后返回
type UploadBatchCoordinator struct {
	task *MediaUploadTask
}

func NewUploadBatchCoordinator(task *MediaUploadTask) *UploadBatchCoordinator {
	return &UploadBatchCoordinator{task: task}
}

// RunAll 按切片顺序编号后上传整个序列
func (s *UploadBatchCoordinator) RunAll(ctx context.Context, items []model.MediaItem, onProgress ProgressFunc) model.BatchResult {
	return s.RunBatch(ctx, IndexItems(items), len(items), onProgress)
}

// RunBatch 上传 items，total 为完整序列长度，用于校验下标；同一下标只上传一次。
// 单个失败不会中断其它任务；批次状态只在本 goroutine 内修改。
func (s *UploadBatchCoordinator) RunBatch(ctx context.Context, items []model.IndexedItem, total int, onProgress ProgressFunc) model.BatchResult {
	items = uniqueByIndex(items)
	if len(items) == 0 {
		return emptyBatchResult()
	}

	settled := make(chan model.UploadOutcome, len(items))
	var g errgroup.Group
	for _, it := range items {
		g.Go(func() error {
			// 失败已记录在 outcome 中，这里不返回错误，保证其它任务照常执行
			settled <- s.task.Upload(ctx, it.Item, it.Index, total)
			return nil
		})
	}

	state := NewBatchState(len(items))
	for range items {
		outcome := <-settled
		state.Record(outcome)
		if onProgress != nil {
			onProgress(state.Snapshot())
		}
	}
	_ = g.Wait()

	result := collectResult(items, state.Outcomes)
	log.InfoContext(ctx, "upload batch settled",
		"total", len(items), "succeeded", len(result.Succeeded), "failed", len(result.Failed))
	return result
}

// uniqueByIndex 重复下标保留第一次出现
func uniqueByIndex(items []model.IndexedItem) []model.IndexedItem {
	seen := make(map[int]struct{}, len(items))
	out := make([]model.IndexedItem, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.Index]; ok {
			continue
		}
		seen[it.Index] = struct{}{}
		out = append(out, it)
	}
	return out
}

// BatchState 批次进度，非并发安全，只由协调者持有
type BatchState struct {
	model.UploadBatchState
}

func NewBatchState(total int) *BatchState {
	return &BatchState{model.UploadBatchState{
		TotalCount: total,
		Outcomes:   make(map[int]model.UploadOutcome, total),
	}}
}

// Record 记录一个落定结果，同一下标以最后一次为准
func (s *BatchState) Record(outcome model.UploadOutcome) {
	if _, seen := s.Outcomes[outcome.ItemIndex]; !seen {
		s.CompletedCount++
	}
	s.Outcomes[outcome.ItemIndex] = outcome
	if s.CompletedCount >= s.TotalCount {
		s.ProgressPercent = 100
		return
	}
	s.ProgressPercent = float64(s.CompletedCount) / float64(s.TotalCount) * 100
}

// Snapshot 拷贝当前状态，便于交给回调方
func (s *BatchState) Snapshot() model.UploadBatchState {
	out := s.UploadBatchState
	out.Outcomes = make(map[int]model.UploadOutcome, len(s.Outcomes))
	for k, v := range s.Outcomes {
		out.Outcomes[k] = v
	}
	return out
}

// IndexItems 以切片位置作为下标
func IndexItems(items []model.MediaItem) []model.IndexedItem {
	out := make([]model.IndexedItem, len(items))
	for i, item := range items {
		out[i] = model.IndexedItem{Index: i, Item: item}
	}
	return out
}

func collectResult(items []model.IndexedItem, outcomes map[int]model.UploadOutcome) model.BatchResult {
	ordered := make([]model.IndexedItem, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	result := emptyBatchResult()
	for _, it := range ordered {
		outcome := outcomes[it.Index]
		if outcome.Success {
			result.Succeeded = append(result.Succeeded, model.SucceededUpload{
				Index:        it.Index,
				RemoteResult: outcome.RemoteResult,
			})
			continue
		}
		result.Failed = append(result.Failed, model.FailedUpload{
			Index:        it.Index,
			Item:         it.Item,
			ErrorMessage: outcome.ErrorMessage,
		})
	}
	return result
}

func emptyBatchResult() model.BatchResult {
	return model.BatchResult{
		Succeeded: []model.SucceededUpload{},
		Failed:    []model.FailedUpload{},
	}
}
