package blog

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"global-gist/internal/ai"
	"global-gist/internal/localstore"
	"global-gist/internal/model"
	"global-gist/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store for service tests.
type fakeStore struct {
	posts    []model.BlogPost
	comments []model.Comment
}

func (f *fakeStore) ListPostsByTopic(_ context.Context, topic string, page, limit int) ([]model.BlogPost, error) {
	matched := []model.BlogPost{}
	for _, p := range f.posts {
		if p.Topic == topic {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	off := (page - 1) * limit
	if off >= len(matched) {
		return []model.BlogPost{}, nil
	}
	end := off + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[off:end], nil
}

func (f *fakeStore) GetPostByID(_ context.Context, id string) (model.BlogPost, error) {
	for _, p := range f.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return model.BlogPost{}, storage.ErrNotFound
}

func (f *fakeStore) ListPostIndex(_ context.Context) ([]model.PostRef, error) {
	refs := []model.PostRef{}
	for _, p := range f.posts {
		refs = append(refs, model.PostRef{ID: p.ID, Title: p.Title, Topic: p.Topic})
	}
	return refs, nil
}

func (f *fakeStore) InsertPosts(_ context.Context, posts ...model.BlogPost) error {
	f.posts = append(f.posts, posts...)
	return nil
}

func (f *fakeStore) UpdatePost(_ context.Context, p model.BlogPost) (model.BlogPost, error) {
	for i := range f.posts {
		if f.posts[i].ID == p.ID {
			p.CreatedAt = f.posts[i].CreatedAt
			f.posts[i] = p
			return p, nil
		}
	}
	return model.BlogPost{}, storage.ErrNotFound
}

func (f *fakeStore) DeletePost(_ context.Context, id string) error {
	kept := f.posts[:0]
	for _, p := range f.posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.posts = kept
	return nil
}

func (f *fakeStore) ListCommentsForPost(_ context.Context, postID string) ([]model.Comment, error) {
	out := []model.Comment{}
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAllComments(_ context.Context) ([]model.Comment, error) {
	return append([]model.Comment{}, f.comments...), nil
}

func (f *fakeStore) InsertComment(_ context.Context, c model.Comment) (model.Comment, error) {
	f.comments = append(f.comments, c)
	return c, nil
}

func (f *fakeStore) GetComment(_ context.Context, id string) (model.Comment, error) {
	for _, c := range f.comments {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Comment{}, storage.ErrNotFound
}

func (f *fakeStore) UpdateCommentStatus(_ context.Context, id string, status model.CommentStatus) (model.Comment, error) {
	for i := range f.comments {
		if f.comments[i].ID == id {
			f.comments[i].Status = status
			return f.comments[i], nil
		}
	}
	return model.Comment{}, storage.ErrNotFound
}

// fakeGen returns canned drafts.
type fakeGen struct {
	calls int
}

func (g *fakeGen) GeneratePosts(_ context.Context, topic string, count int, excludeTitle string) ([]ai.Draft, []model.GroundingSource, error) {
	g.calls++
	drafts := make([]ai.Draft, 0, count)
	for i := 0; i < count; i++ {
		title := fmt.Sprintf("%s draft %d", topic, i)
		if title == excludeTitle {
			continue
		}
		drafts = append(drafts, ai.Draft{Title: title, Summary: "s", Content: "c"})
	}
	return drafts, []model.GroundingSource{{Title: "Ref", URI: "https://ref"}}, nil
}

func (g *fakeGen) FindYouTubeVideoID(context.Context, string) (string, error) {
	return "dQw4w9WgXcQ", nil
}

func (g *fakeGen) ExtractKeywords(context.Context, string) ([]string, error) {
	return []string{"one", "two", "three"}, nil
}

func newTestService(t *testing.T) (*Service, *fakeStore, *fakeGen) {
	t.Helper()
	fs := &fakeStore{}
	fg := &fakeGen{}
	svc := &Service{
		Store: fs,
		Gen:   fg,
		Local: localstore.New(localstore.NewMemory()),
		Now:   func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) },
	}
	return svc, fs, fg
}

func TestCreatePostAssignsIdentity(t *testing.T) {
	svc, _, _ := newTestService(t)
	post, err := svc.CreatePost(context.Background(), model.BlogPost{
		Topic: "Lifestyle", Title: "Hand-written", Summary: "s", Content: "c",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^custom-\d+$`, post.ID)
	assert.Equal(t, model.DefaultAuthor, post.Author)
	assert.Empty(t, post.Sources)
	assert.False(t, post.CreatedAt.IsZero())
	assert.NotEmpty(t, post.ImageURL)
}

func TestUpdatePostPreservesIdentity(t *testing.T) {
	svc, fs, _ := newTestService(t)
	created, err := svc.CreatePost(context.Background(), model.BlogPost{Topic: "Tourism", Title: "Before"})
	require.NoError(t, err)

	updated := created
	updated.Title = "After"
	out, err := svc.UpdatePost(context.Background(), updated)
	require.NoError(t, err)
	assert.Equal(t, created.ID, out.ID)
	assert.Equal(t, created.CreatedAt, out.CreatedAt)
	assert.Equal(t, "After", fs.posts[0].Title)
}

func TestSearchAndGeneratePostStoresOne(t *testing.T) {
	svc, fs, _ := newTestService(t)
	post, err := svc.SearchAndGeneratePost(context.Background(), "fusion energy")
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "fusion energy", post.Topic)
	assert.Regexp(t, `^fusion-energy-0-\d+$`, post.ID)
	assert.Len(t, fs.posts, 1)
	assert.Equal(t, []model.GroundingSource{{Title: "Ref", URI: "https://ref"}}, post.Sources)
}

func TestGetRelatedPostsExcludesCurrentTitle(t *testing.T) {
	svc, fs, _ := newTestService(t)
	fs.posts = append(fs.posts, model.BlogPost{ID: "current", Title: "ai, robots draft 0"})

	posts, err := svc.GetRelatedPosts(context.Background(), []string{"ai", "robots"}, "current")
	require.NoError(t, err)
	for _, p := range posts {
		assert.NotEqual(t, "ai, robots draft 0", p.Title)
	}
}

func TestAddCommentPendingByDefault(t *testing.T) {
	svc, _, _ := newTestService(t)
	c, err := svc.AddComment(context.Background(), model.Comment{PostID: "custom-1", Author: "Ada", Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, model.CommentPending, c.Status)
	assert.Regexp(t, `^comment-\d+$`, c.ID)
	assert.Equal(t, c.CreatedAt.UnixMilli(), c.Timestamp)
}

func TestAddCommentAutoApprove(t *testing.T) {
	svc, _, _ := newTestService(t)
	require.NoError(t, svc.Local.SetAutoApprove(context.Background(), true))
	c, err := svc.AddComment(context.Background(), model.Comment{PostID: "custom-1", Author: "Ada", Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, model.CommentApproved, c.Status)
}

func TestCommentStatusTransitions(t *testing.T) {
	svc, fs, _ := newTestService(t)
	fs.comments = []model.Comment{{ID: "comment-1", PostID: "p", Status: model.CommentPending}}

	out, err := svc.UpdateCommentStatus(context.Background(), "comment-1", model.CommentApproved)
	require.NoError(t, err)
	assert.Equal(t, model.CommentApproved, out.Status)

	// approved → rejected is not a legal transition
	_, err = svc.UpdateCommentStatus(context.Background(), "comment-1", model.CommentRejected)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// re-asserting the current status is a no-op
	out, err = svc.UpdateCommentStatus(context.Background(), "comment-1", model.CommentApproved)
	require.NoError(t, err)
	assert.Equal(t, model.CommentApproved, out.Status)
}

func TestSeedNewContentUpsertsFlagshipOnce(t *testing.T) {
	svc, fs, _ := newTestService(t)
	svc.Topics = []string{"Tourism", "Lifestyle"}

	res, err := svc.SeedNewContent(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Len(t, res.SeededTopics, 2)

	count := 0
	for _, p := range fs.posts {
		if p.ID == flagshipPost.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)

	// a second run must not duplicate the flagship article
	_, err = svc.SeedNewContent(context.Background(), 1, 1)
	require.NoError(t, err)
	count = 0
	for _, p := range fs.posts {
		if p.ID == flagshipPost.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestGeneratorUnavailable(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.Gen = nil
	_, err := svc.SearchAndGeneratePost(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrGeneratorUnavailable)
	_, err = svc.FindYouTubeVideoID(context.Background(), "q")
	assert.ErrorIs(t, err, ErrGeneratorUnavailable)
}
