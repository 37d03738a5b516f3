package localstore

import (
	"context"
	"testing"
	"time"

	"global-gist/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavedPostsRoundTrip(t *testing.T) {
	ctx := context.Background()
	d := New(NewMemory())

	posts, err := d.SavedPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)

	p := model.BlogPost{ID: "custom-1", Title: "T", Topic: "Lifestyle"}
	require.NoError(t, d.SavePost(ctx, p))
	require.NoError(t, d.SavePost(ctx, p)) // duplicate save is a no-op

	posts, err = d.SavedPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	require.NoError(t, d.RemoveSavedPost(ctx, "custom-1"))
	posts, err = d.SavedPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestAutoApproveDefaultsOff(t *testing.T) {
	ctx := context.Background()
	d := New(NewMemory())

	on, err := d.AutoApprove(ctx)
	require.NoError(t, err)
	assert.False(t, on)

	require.NoError(t, d.SetAutoApprove(ctx, true))
	on, err = d.AutoApprove(ctx)
	require.NoError(t, err)
	assert.True(t, on)
}

func TestCommentCachePerPost(t *testing.T) {
	ctx := context.Background()
	d := New(NewMemory())

	cached, err := d.CachedComments(ctx, "custom-1")
	require.NoError(t, err)
	assert.Nil(t, cached)

	comments := []model.Comment{{ID: "comment-1", PostID: "custom-1", Status: model.CommentApproved}}
	require.NoError(t, d.CacheComments(ctx, "custom-1", comments))

	cached, err = d.CachedComments(ctx, "custom-1")
	require.NoError(t, err)
	require.Len(t, cached, 1)

	other, err := d.CachedComments(ctx, "custom-2")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestSeededTodayMarksDay(t *testing.T) {
	ctx := context.Background()
	d := New(NewMemory())
	day := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	seeded, err := d.SeededToday(ctx, day)
	require.NoError(t, err)
	assert.False(t, seeded)

	seeded, err = d.SeededToday(ctx, day)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = d.SeededToday(ctx, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.False(t, seeded)
}
