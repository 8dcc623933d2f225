package service

import (
	"Shutter/internal/model"
	"Shutter/internal/pkg/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c d"}, ParseTags(" a, b ,,c d,"))
	assert.Equal(t, []string{"x", "x"}, ParseTags("x,x"))
	assert.Empty(t, ParseTags(""))
	assert.Empty(t, ParseTags(" , ,"))
}

func TestNormalizeLocation(t *testing.T) {
	assert.Nil(t, NormalizeLocation(""))
	assert.Nil(t, NormalizeLocation("   "))
	loc := NormalizeLocation("Tokyo")
	require.NotNil(t, loc)
	assert.Equal(t, "Tokyo", *loc)
}

func TestRemoteRef(t *testing.T) {
	assert.Equal(t, "r", RemoteRef(map[string]any{"url": "u", "ref": "r"}, 0))
	assert.Equal(t, "u", RemoteRef(map[string]any{"url": "u"}, 0))
	assert.Equal(t, "42", RemoteRef(map[string]any{"id": 42}, 0))
	assert.Equal(t, "media_3", RemoteRef(map[string]any{"ref": ""}, 3))
	assert.Equal(t, "media_1", RemoteRef(nil, 1))
}

func TestAssemble(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	assembler := NewPostAssembler(func() string { return "post-1" }, func() time.Time { return created })

	items := []model.MediaItem{
		{ID: "a", Kind: model.MediaKindImage, Width: util.Ptr(1080), Height: util.Ptr(720)},
		{ID: "b", Kind: model.MediaKindVideo, DurationSeconds: util.Ptr(9.5), FileSizeBytes: util.Ptr[int64](2048)},
	}
	// 成功列表顺序与落定顺序无关
	uploads := []model.SucceededUpload{
		{Index: 1, RemoteResult: map[string]any{"ref": "remote-b"}},
		{Index: 0, RemoteResult: map[string]any{"url": "remote-a"}},
	}
	meta := model.PostMetadata{
		Caption:  "hello",
		Location: " ",
		Tags:     "sea, sky",
		Audio:    &model.AudioRef{ID: "song", Title: "Song"},
	}

	post := assembler.Assemble(items, uploads, meta)

	assert.Equal(t, "post-1", post.ID)
	assert.Equal(t, created, post.CreatedAt)
	assert.Equal(t, "hello", post.Caption)
	assert.Nil(t, post.Location)
	require.Len(t, post.MediaRefs, 2)
	assert.Equal(t, "remote-a", post.MediaRefs[0].RemoteRef)
	assert.Equal(t, 1080, post.MediaRefs[0].Width)
	assert.Equal(t, "remote-b", post.MediaRefs[1].RemoteRef)
	assert.Equal(t, model.MediaKindVideo, post.MediaRefs[1].Kind)
	assert.Equal(t, 9.5, post.MediaRefs[1].DurationSeconds)
	assert.Equal(t, 1, post.MediaRefs[1].SortOrder)
	assert.Equal(t, []string{"sea", "sky"}, post.TagNames())
	require.NotNil(t, post.AudioID)
	assert.Equal(t, "song", *post.AudioID)
	assert.Nil(t, post.AudioURI)
}

func TestAssembleDefaults(t *testing.T) {
	post := NewPostAssembler(nil, nil).Assemble(nil, nil, model.PostMetadata{})
	assert.Len(t, post.ID, 36)
	assert.False(t, post.CreatedAt.IsZero())
	assert.Empty(t, post.MediaRefs)
	assert.Empty(t, post.Tags)
	assert.Nil(t, post.AudioID)
}
