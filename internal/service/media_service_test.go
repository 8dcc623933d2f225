package service

import (
	"Shutter/internal/model"
	"bytes"
	"context"
	"errors"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	duration float64
	err      error
}

func (p fakeProber) Duration(context.Context, string) (float64, error) {
	return p.duration, p.err
}

func (p fakeProber) Dimensions(context.Context, string) (int, int, error) {
	return 1920, 1080, p.err
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	require.NoError(t, err)
	return n
}

func newTestMediaService(t *testing.T, prober MediaProber) (MediaService, string) {
	dir := t.TempDir()
	return NewMediaService(MediaOptions{
		StagingDir:      dir,
		MaxCount:        3,
		MaxVideoSeconds: 15,
		TargetWidth:     1080,
		TargetQuality:   80,
	}, prober), dir
}

func TestImportResizesWideImage(t *testing.T) {
	svc, dir := newTestMediaService(t, nil)

	items, err := svc.Import(context.Background(), []ImportFile{
		{FileName: "wide.png", Reader: bytes.NewReader(pngBytes(t, 2000, 1000))},
		{FileName: "small.PNG", Reader: bytes.NewReader(pngBytes(t, 400, 300))},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)

	wide := items[0]
	assert.Equal(t, model.MediaKindImage, wide.Kind)
	assert.Equal(t, "wide.png", wide.OriginalURI)
	require.NotNil(t, wide.Width)
	assert.Equal(t, 1080, *wide.Width)
	assert.Equal(t, 540, *wide.Height)
	assert.True(t, strings.HasSuffix(wide.LocalURI, ".jpg"))
	assert.FileExists(t, LocalPath(wide.LocalURI))

	small := items[1]
	assert.Equal(t, 400, *small.Width)
	assert.Equal(t, 300, *small.Height)
	assert.True(t, strings.HasSuffix(small.LocalURI, ".png"))
	assert.NotEqual(t, wide.ID, small.ID)

	assert.Equal(t, 2, countFiles(t, dir))
}

func TestImportVideo(t *testing.T) {
	svc, _ := newTestMediaService(t, fakeProber{duration: 9.5})

	items, err := svc.Import(context.Background(), []ImportFile{
		{FileName: "clip.mp4", Reader: strings.NewReader("not really a video")},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.MediaKindVideo, items[0].Kind)
	require.NotNil(t, items[0].DurationSeconds)
	assert.Equal(t, 9.5, *items[0].DurationSeconds)
	assert.Equal(t, 1920, *items[0].Width)
}

func TestImportVideoProbeFailure(t *testing.T) {
	svc, _ := newTestMediaService(t, fakeProber{err: errors.New("ffprobe missing")})

	items, err := svc.Import(context.Background(), []ImportFile{
		{FileName: "clip.mov", Reader: strings.NewReader("data")},
	})
	require.NoError(t, err)
	assert.Nil(t, items[0].DurationSeconds)
	assert.Nil(t, items[0].Width)
}

func TestImportRollsBackOnFailure(t *testing.T) {
	svc, dir := newTestMediaService(t, fakeProber{duration: 30})

	_, err := svc.Import(context.Background(), []ImportFile{
		{FileName: "ok.png", Reader: bytes.NewReader(pngBytes(t, 10, 10))},
		{FileName: "long.mp4", Reader: strings.NewReader("video")},
	})
	assert.ErrorIs(t, err, ErrVideoTooLong)
	assert.Equal(t, 0, countFiles(t, dir))

	_, err = svc.Import(context.Background(), []ImportFile{
		{FileName: "notes.txt", Reader: strings.NewReader("hello")},
	})
	assert.ErrorIs(t, err, ErrFileNotSupported)

	_, err = svc.Import(context.Background(), []ImportFile{
		{FileName: "broken.jpg", Reader: strings.NewReader("not an image")},
	})
	assert.ErrorIs(t, err, ErrFileNotSupported)
	assert.Equal(t, 0, countFiles(t, dir))
}

func TestImportTooMany(t *testing.T) {
	svc, dir := newTestMediaService(t, nil)

	files := make([]ImportFile, 4)
	for i := range files {
		files[i] = ImportFile{FileName: "a.png", Reader: bytes.NewReader(pngBytes(t, 4, 4))}
	}
	_, err := svc.Import(context.Background(), files)
	assert.ErrorIs(t, err, ErrTooManyMedia)
	assert.Equal(t, 0, countFiles(t, dir))
}

func TestCleanupStaging(t *testing.T) {
	svc, dir := newTestMediaService(t, nil)

	_, err := svc.Import(context.Background(), []ImportFile{
		{FileName: "a.png", Reader: bytes.NewReader(pngBytes(t, 4, 4))},
	})
	require.NoError(t, err)

	removed, err := svc.CleanupStaging(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	svc.(*mediaServiceImpl).now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	removed, err = svc.CleanupStaging(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, countFiles(t, dir))

	require.NoError(t, os.RemoveAll(dir))
	removed, err = svc.CleanupStaging(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestReorderAndRemoveItems(t *testing.T) {
	items := []model.MediaItem{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	out, err := ReorderItems(items, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, itemIDs(out))
	assert.Equal(t, []string{"a", "b", "c"}, itemIDs(items))

	out, err = ReorderItems(items, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, itemIDs(out))

	_, err = ReorderItems(items, -1, 0)
	assert.ErrorIs(t, err, ErrParamInvalid)

	out, err = RemoveItem(items, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, itemIDs(out))
	assert.Len(t, items, 3)

	_, err = RemoveItem(items, "z")
	assert.ErrorIs(t, err, ErrMediaNotFound)
}

func TestDiscard(t *testing.T) {
	svc, dir := newTestMediaService(t, nil)

	items, err := svc.Import(context.Background(), []ImportFile{
		{FileName: "a.png", Reader: bytes.NewReader(pngBytes(t, 4, 4))},
		{FileName: "b.png", Reader: bytes.NewReader(pngBytes(t, 4, 4))},
	})
	require.NoError(t, err)
	require.Equal(t, 2, countFiles(t, dir))

	svc.Discard(context.Background(), items)
	assert.Equal(t, 0, countFiles(t, dir))

	// 重复删除不报错
	svc.Discard(context.Background(), items)
}
