// Package blog implements the action semantics behind the API: post CRUD,
// on-demand article generation, comment moderation, and content seeding.
package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"global-gist/internal/ai"
	"global-gist/internal/imagegen"
	"global-gist/internal/localstore"
	"global-gist/internal/model"
	"global-gist/internal/storage"
)

var (
	// ErrGeneratorUnavailable is returned for AI-backed actions when no
	// generator is configured.
	ErrGeneratorUnavailable = errors.New("blog: generative service not configured")
	// ErrInvalidTransition is returned when a comment moderation update
	// would leave the pending → approved/rejected lattice.
	ErrInvalidTransition = errors.New("blog: invalid comment status transition")
	// ErrValidation is wrapped around malformed inputs.
	ErrValidation = errors.New("blog: validation failed")
)

// Store is the persistence surface the service needs; *storage.PostgresStore
// implements it.
type Store interface {
	ListPostsByTopic(ctx context.Context, topic string, page, limit int) ([]model.BlogPost, error)
	GetPostByID(ctx context.Context, id string) (model.BlogPost, error)
	ListPostIndex(ctx context.Context) ([]model.PostRef, error)
	InsertPosts(ctx context.Context, posts ...model.BlogPost) error
	UpdatePost(ctx context.Context, p model.BlogPost) (model.BlogPost, error)
	DeletePost(ctx context.Context, id string) error
	ListCommentsForPost(ctx context.Context, postID string) ([]model.Comment, error)
	ListAllComments(ctx context.Context) ([]model.Comment, error)
	InsertComment(ctx context.Context, c model.Comment) (model.Comment, error)
	GetComment(ctx context.Context, id string) (model.Comment, error)
	UpdateCommentStatus(ctx context.Context, id string, status model.CommentStatus) (model.Comment, error)
}

var _ Store = (*storage.PostgresStore)(nil)

// Service owns the blog's behavior over its collaborators. Gen and Covers
// are optional; without Gen the generation actions fail cleanly.
type Service struct {
	Store     Store
	Gen       ai.Generator
	Local     *localstore.Data
	Covers    imagegen.Generator
	CoversDir string
	Topics    []string
	PageSize  int

	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *Service) pageSize() int {
	if s.PageSize > 0 {
		return s.PageSize
	}
	return model.PostsPerPage
}

// GetPosts returns one page of a topic's posts, newest first.
func (s *Service) GetPosts(ctx context.Context, topic string, page, limit int) ([]model.BlogPost, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("%w: topic is required", ErrValidation)
	}
	if limit <= 0 {
		limit = s.pageSize()
	}
	return s.Store.ListPostsByTopic(ctx, topic, page, limit)
}

// GetPostByID returns a post, or nil when the id is unknown.
func (s *Service) GetPostByID(ctx context.Context, postID string) (*model.BlogPost, error) {
	p, err := s.Store.GetPostByID(ctx, postID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// TopicPostRef is the getAllPosts listing shape.
type TopicPostRef struct {
	Post  model.PostRef `json:"post"`
	Topic string        `json:"topic"`
}

// GetAllPosts returns the compact listing of every post, newest first.
func (s *Service) GetAllPosts(ctx context.Context) ([]TopicPostRef, error) {
	refs, err := s.Store.ListPostIndex(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TopicPostRef, 0, len(refs))
	for _, r := range refs {
		out = append(out, TopicPostRef{Post: r, Topic: r.Topic})
	}
	return out, nil
}

// SearchAndGeneratePost generates, stores, and returns one fresh article for
// an ad-hoc topic. Returns nil when the generator produced nothing.
func (s *Service) SearchAndGeneratePost(ctx context.Context, topic string) (*model.BlogPost, error) {
	posts, err := s.generateAndSave(ctx, topic, 1, "")
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return &posts[0], nil
}

// GetRelatedPosts generates up to 3 articles around the given keywords,
// excluding a title match to the current post.
func (s *Service) GetRelatedPosts(ctx context.Context, keywords []string, currentPostID string) ([]model.BlogPost, error) {
	if len(keywords) == 0 {
		return nil, fmt.Errorf("%w: keywords are required", ErrValidation)
	}
	excludeTitle := ""
	if current, err := s.GetPostByID(ctx, currentPostID); err == nil && current != nil {
		excludeTitle = current.Title
	}
	return s.generateAndSave(ctx, strings.Join(keywords, ", "), 3, excludeTitle)
}

// CreatePost stores a manually authored post. Id, author, sources, and
// created_at are assigned here; the id never changes afterwards.
func (s *Service) CreatePost(ctx context.Context, draft model.BlogPost) (model.BlogPost, error) {
	if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.Topic) == "" {
		return model.BlogPost{}, fmt.Errorf("%w: title and topic are required", ErrValidation)
	}
	now := s.now()
	draft.ID = model.CustomPostID(now)
	draft.Author = model.DefaultAuthor
	draft.Sources = []model.GroundingSource{}
	draft.CreatedAt = now
	if draft.ImageURL == "" {
		draft.ImageURL = s.coverURL(ctx, draft.ID, draft.Title, draft.Summary)
	}
	if err := s.Store.InsertPosts(ctx, draft); err != nil {
		return model.BlogPost{}, err
	}
	return draft, nil
}

// UpdatePost rewrites a post's content fields.
func (s *Service) UpdatePost(ctx context.Context, post model.BlogPost) (model.BlogPost, error) {
	if strings.TrimSpace(post.ID) == "" {
		return model.BlogPost{}, fmt.Errorf("%w: post id is required", ErrValidation)
	}
	return s.Store.UpdatePost(ctx, post)
}

// DeletePost removes a post.
func (s *Service) DeletePost(ctx context.Context, postID string) error {
	if strings.TrimSpace(postID) == "" {
		return fmt.Errorf("%w: post id is required", ErrValidation)
	}
	return s.Store.DeletePost(ctx, postID)
}

// GetComments returns every comment on a post, oldest first. Status
// filtering is the reading side's concern; the admin surface needs all of
// them.
func (s *Service) GetComments(ctx context.Context, postID string) ([]model.Comment, error) {
	return s.Store.ListCommentsForPost(ctx, postID)
}

// GetAllComments returns every comment, newest first.
func (s *Service) GetAllComments(ctx context.Context) ([]model.Comment, error) {
	return s.Store.ListAllComments(ctx)
}

// AddComment stores a new comment. When the auto-approve flag is enabled the
// comment is approved at creation; otherwise it starts pending.
func (s *Service) AddComment(ctx context.Context, c model.Comment) (model.Comment, error) {
	if strings.TrimSpace(c.PostID) == "" || strings.TrimSpace(c.Author) == "" || strings.TrimSpace(c.Text) == "" {
		return model.Comment{}, fmt.Errorf("%w: postId, author, and text are required", ErrValidation)
	}
	now := s.now()
	c.ID = model.CommentID(now)
	c.Timestamp = now.UnixMilli()
	c.CreatedAt = now
	c.Status = model.CommentPending
	if on, err := s.Local.AutoApprove(ctx); err == nil && on {
		c.Status = model.CommentApproved
	}
	return s.Store.InsertComment(ctx, c)
}

// UpdateCommentStatus moves a comment through moderation. Only
// pending → approved and pending → rejected are allowed; re-asserting the
// current status is a no-op.
func (s *Service) UpdateCommentStatus(ctx context.Context, commentID string, status model.CommentStatus) (model.Comment, error) {
	if !status.Valid() {
		return model.Comment{}, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	current, err := s.Store.GetComment(ctx, commentID)
	if err != nil {
		return model.Comment{}, err
	}
	if current.Status == status {
		return current, nil
	}
	if current.Status != model.CommentPending {
		return model.Comment{}, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, current.Status, status)
	}
	if status == model.CommentPending {
		return model.Comment{}, fmt.Errorf("%w: cannot return to pending", ErrInvalidTransition)
	}
	return s.Store.UpdateCommentStatus(ctx, commentID, status)
}

// FindYouTubeVideoID asks the generator for a video id matching a query.
func (s *Service) FindYouTubeVideoID(ctx context.Context, query string) (string, error) {
	if s.Gen == nil {
		return "", ErrGeneratorUnavailable
	}
	return s.Gen.FindYouTubeVideoID(ctx, query)
}

// ExtractKeywords asks the generator for 3-5 tags describing content.
func (s *Service) ExtractKeywords(ctx context.Context, content string) ([]string, error) {
	if s.Gen == nil {
		return nil, ErrGeneratorUnavailable
	}
	return s.Gen.ExtractKeywords(ctx, content)
}

// SeedResult reports what a seeding run did.
type SeedResult struct {
	Success      bool     `json:"success"`
	SeededTopics []string `json:"seededTopics"`
}

// SeedNewContent keeps the blog fresh: it upserts the flagship article and
// generates a batch of posts for a few random topics.
func (s *Service) SeedNewContent(ctx context.Context, topicsPerRun, postsPerTopic int) (SeedResult, error) {
	if err := s.ensureFlagshipPost(ctx); err != nil {
		slog.Error("seed: flagship article insert failed", "err", err)
	}

	topics := s.Topics
	if len(topics) == 0 {
		topics = model.DefaultTopics
	}
	if topicsPerRun <= 0 {
		topicsPerRun = 3
	}
	if postsPerTopic <= 0 {
		postsPerTopic = 5
	}
	picked := pickRandomTopics(topics, topicsPerRun)
	seeded := make([]string, 0, len(picked))
	for _, topic := range picked {
		slog.Info("seed: generating content", "topic", topic, "count", postsPerTopic)
		if _, err := s.generateAndSave(ctx, topic, postsPerTopic, ""); err != nil {
			return SeedResult{SeededTopics: seeded}, fmt.Errorf("seed topic %s: %w", topic, err)
		}
		seeded = append(seeded, topic)
	}
	return SeedResult{Success: true, SeededTopics: seeded}, nil
}

func (s *Service) ensureFlagshipPost(ctx context.Context) error {
	existing, err := s.GetPostByID(ctx, flagshipPost.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	post := flagshipPost
	post.CreatedAt = s.now()
	return s.Store.InsertPosts(ctx, post)
}

func pickRandomTopics(topics []string, n int) []string {
	if n > len(topics) {
		n = len(topics)
	}
	perm := rand.Perm(len(topics))
	out := make([]string, 0, n)
	for _, i := range perm[:n] {
		out = append(out, topics[i])
	}
	return out
}

// generateAndSave turns generator drafts into stored posts.
func (s *Service) generateAndSave(ctx context.Context, topic string, count int, excludeTitle string) ([]model.BlogPost, error) {
	if s.Gen == nil {
		return nil, ErrGeneratorUnavailable
	}
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("%w: topic is required", ErrValidation)
	}
	drafts, sources, err := s.Gen.GeneratePosts(ctx, topic, count, excludeTitle)
	if err != nil {
		return nil, err
	}
	if sources == nil {
		sources = []model.GroundingSource{}
	}
	now := s.now()
	posts := make([]model.BlogPost, 0, len(drafts))
	for i, d := range drafts {
		id := model.GeneratedPostID(topic, i, now)
		posts = append(posts, model.BlogPost{
			ID:        id,
			Topic:     topic,
			Title:     d.Title,
			Summary:   d.Summary,
			Content:   d.Content,
			ImageURL:  s.coverURL(ctx, id, d.Title, d.Summary),
			Sources:   sources,
			Author:    model.DefaultAuthor,
			CreatedAt: now,
		})
	}
	if len(posts) == 0 {
		return []model.BlogPost{}, nil
	}
	if err := s.Store.InsertPosts(ctx, posts...); err != nil {
		return nil, err
	}
	return posts, nil
}

// coverURL produces a generated cover when a generator is configured, else a
// deterministic placeholder derived from the title.
func (s *Service) coverURL(ctx context.Context, postID, title, summary string) string {
	if s.Covers == nil {
		return model.PlaceholderImageURL(title)
	}
	out := filepath.Join(s.CoversDir, postID+".webp")
	if err := s.Covers.GenerateCover(ctx, title, summary, out); err != nil {
		slog.Error("cover generation failed, using placeholder", "post", postID, "err", err)
		return model.PlaceholderImageURL(title)
	}
	return "/covers/" + postID + ".webp"
}
