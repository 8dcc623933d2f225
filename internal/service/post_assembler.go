package service

import (
	"Shutter/internal/model"
	"Shutter/internal/pkg/util"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// remoteRefKeys 远端结果中可作为媒体引用的字段，按优先级排列
var remoteRefKeys = []string{"ref", "url", "key", "id"}

// PostAssembler 把上传结果与文字信息组装成帖子。
// 调用方需保证本批次没有失败项，这里不再校验。
type PostAssembler struct {
	newID func() string
	now   func() time.Time
}

// NewPostAssembler newID/now 为空时使用 uuid 与系统时钟
func NewPostAssembler(newID func() string, now func() time.Time) *PostAssembler {
	if newID == nil {
		newID = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	return &PostAssembler{newID: newID, now: now}
}

// Assemble mediaRefs 与 items 的下标顺序一致
func (s *PostAssembler) Assemble(items []model.MediaItem, uploads []model.SucceededUpload, meta model.PostMetadata) *model.Post {
	results := make(map[int]map[string]any, len(uploads))
	for _, u := range uploads {
		results[u.Index] = u.RemoteResult
	}

	post := &model.Post{
		ID:        s.newID(),
		Caption:   meta.Caption,
		Location:  NormalizeLocation(meta.Location),
		CreatedAt: s.now(),
	}

	post.MediaRefs = make([]model.PostMedia, len(items))
	for i, item := range items {
		post.MediaRefs[i] = model.PostMedia{
			PostID:          post.ID,
			SortOrder:       i,
			RemoteRef:       RemoteRef(results[i], i),
			Kind:            item.Kind,
			Width:           util.ValueOr(item.Width, 0),
			Height:          util.ValueOr(item.Height, 0),
			DurationSeconds: util.ValueOr(item.DurationSeconds, 0),
		}
	}

	tags := ParseTags(meta.Tags)
	post.Tags = make([]model.PostTag, len(tags))
	for i, name := range tags {
		post.Tags[i] = model.PostTag{PostID: post.ID, SortOrder: i, Name: name}
	}

	if meta.Audio != nil {
		post.AudioID = nonEmpty(meta.Audio.ID)
		post.AudioURI = nonEmpty(meta.Audio.URI)
		post.AudioTitle = nonEmpty(meta.Audio.Title)
	}

	return post
}

// ParseTags 逗号分隔，去掉首尾空白与空项，保持顺序，不去重
func ParseTags(raw string) []string {
	tags := make([]string, 0)
	for _, piece := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(piece); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// NormalizeLocation 空白地点视为未填写
func NormalizeLocation(location string) *string {
	if strings.TrimSpace(location) == "" {
		return nil
	}
	return &location
}

// RemoteRef 从远端结果中取出媒体引用
func RemoteRef(result map[string]any, index int) string {
	for _, key := range remoteRefKeys {
		if v, ok := result[key]; ok {
			if s := fmt.Sprint(v); s != "" {
				return s
			}
		}
	}
	return fmt.Sprintf("media_%d", index)
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
