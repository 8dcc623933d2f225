package redis

import (
	"Shutter/internal/api/dto"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniRedis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	Rdb = goredis.NewClient(&goredis.Options{
		Addr:     mr.Addr(),
		Protocol: 2,
		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	})
	t.Cleanup(func() {
		_ = Rdb.Close()
		Rdb = nil
	})
}

func TestTempMediaLifecycle(t *testing.T) {
	setupMiniRedis(t)
	ctx := context.Background()

	require.NoError(t, RecordTempMedia(ctx, "2026/01/02/a.jpg", dto.MediaTempMetadata{MimeType: "image/jpeg", CreatedAt: 100}))
	require.NoError(t, RecordTempMedia(ctx, "2026/01/02/b.mp4", dto.MediaTempMetadata{MimeType: "video/mp4", CreatedAt: 200}))

	all, err := ListTempMedia(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "video/mp4", all["2026/01/02/b.mp4"].MimeType)
	assert.Equal(t, int64(100), all["2026/01/02/a.jpg"].CreatedAt)

	require.NoError(t, ReleaseTempMedia(ctx, "2026/01/02/a.jpg"))
	all, err = ListTempMedia(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Contains(t, all, "2026/01/02/b.mp4")
}

func TestReleaseNothingIsNoop(t *testing.T) {
	setupMiniRedis(t)
	assert.NoError(t, ReleaseTempMedia(context.Background()))
}

func TestTempMediaWithoutClient(t *testing.T) {
	Rdb = nil
	_, err := ListTempMedia(context.Background())
	assert.Error(t, err)
}
