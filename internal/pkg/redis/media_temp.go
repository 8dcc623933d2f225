package redis

import (
	"Shutter/internal/api/dto"
	"Shutter/internal/pkg/consts"
	"context"
	"fmt"

	"github.com/goccy/go-json"
)

// RecordTempMedia 记录一个尚未挂到帖子上的对象
func RecordTempMedia(ctx context.Context, objectKey string, meta dto.MediaTempMetadata) error {
	if Rdb == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return HSet(ctx, consts.MediaTempKey, objectKey, string(b))
}

// ReleaseTempMedia 帖子落库后移除记录
func ReleaseTempMedia(ctx context.Context, objectKeys ...string) error {
	if Rdb == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return HDel(ctx, consts.MediaTempKey, objectKeys...)
}

// ListTempMedia 返回全部临时对象，格式错误的记录以零值返回
func ListTempMedia(ctx context.Context) (map[string]dto.MediaTempMetadata, error) {
	if Rdb == nil {
		return nil, fmt.Errorf("redis client is not initialized")
	}
	raw, err := HGetAll(ctx, consts.MediaTempKey)
	if err != nil {
		return nil, err
	}
	out := make(map[string]dto.MediaTempMetadata, len(raw))
	for key, val := range raw {
		var meta dto.MediaTempMetadata
		_ = json.Unmarshal([]byte(val), &meta)
		out[key] = meta
	}
	return out, nil
}
