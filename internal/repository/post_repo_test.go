package repository

import (
	"Shutter/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Post{}, &model.PostMedia{}, &model.PostTag{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newPost(id string, createdAt time.Time, refs ...string) *model.Post {
	post := &model.Post{ID: id, Caption: "caption " + id, CreatedAt: createdAt}
	for i, ref := range refs {
		post.MediaRefs = append(post.MediaRefs, model.PostMedia{
			PostID:    id,
			SortOrder: i,
			RemoteRef: ref,
			Kind:      model.MediaKindImage,
		})
	}
	post.Tags = []model.PostTag{
		{PostID: id, SortOrder: 0, Name: "b"},
		{PostID: id, SortOrder: 1, Name: "a"},
	}
	return post
}

func TestPostRepoSaveAndGet(t *testing.T) {
	repo := NewPostRepository(newTestDB(t))
	ctx := context.Background()

	location := "Paris"
	post := newPost("p-1", time.Now(), "r-0", "r-1", "r-2")
	post.Location = &location
	require.NoError(t, repo.SavePost(ctx, post))

	got, err := repo.GetPost(ctx, "p-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "caption p-1", got.Caption)
	require.NotNil(t, got.Location)
	assert.Equal(t, "Paris", *got.Location)
	require.Len(t, got.MediaRefs, 3)
	for i, m := range got.MediaRefs {
		assert.Equal(t, i, m.SortOrder)
	}
	assert.Equal(t, "r-2", got.MediaRefs[2].RemoteRef)
	assert.Equal(t, []string{"b", "a"}, got.TagNames())

	missing, err := repo.GetPost(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPostRepoLatestAndDelete(t *testing.T) {
	repo := NewPostRepository(newTestDB(t))
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SavePost(ctx, newPost("old", base, "o")))
	require.NoError(t, repo.SavePost(ctx, newPost("mid", base.Add(time.Hour), "m")))
	require.NoError(t, repo.SavePost(ctx, newPost("new", base.Add(2*time.Hour), "n")))

	posts, err := repo.GetLatestPosts(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "new", posts[0].ID)
	assert.Equal(t, "mid", posts[1].ID)

	require.NoError(t, repo.DeletePost(ctx, "mid"))
	assert.ErrorIs(t, repo.DeletePost(ctx, "mid"), gorm.ErrRecordNotFound)

	posts, err = repo.GetLatestPosts(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "old", posts[1].ID)

	deleted, err := repo.GetPost(ctx, "mid")
	require.NoError(t, err)
	assert.Nil(t, deleted)
}

func TestPostRepoListMediaRefs(t *testing.T) {
	repo := NewPostRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SavePost(ctx, newPost("p", time.Now(), "k-1", "k-2")))

	used, err := repo.ListMediaRefs(ctx, []string{"k-1", "k-3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"k-1"}, used)

	used, err = repo.ListMediaRefs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, used)
}
