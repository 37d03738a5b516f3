// Package browse holds the reader-facing session: which topic is open,
// which page the reader has scrolled to, and the post currently being read.
package browse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"global-gist/internal/gateway"
	"global-gist/internal/localstore"
	"global-gist/internal/model"
)

var _ API = (*gateway.Client)(nil)

const featuredCount = 3

// API is the slice of the gateway client the session needs.
type API interface {
	FetchPostsForTopic(ctx context.Context, topic string, page int) ([]model.BlogPost, error)
	FetchPostByID(ctx context.Context, postID string) (*model.BlogPost, error)
	SearchAndGeneratePost(ctx context.Context, topic string) (*model.BlogPost, error)
	FetchCommentsForPost(ctx context.Context, postID string) ([]model.Comment, error)
	AddComment(ctx context.Context, comment model.Comment) (model.Comment, error)
}

// Session tracks one reader's browsing state. Methods are safe for
// concurrent use; a fetch that finishes after the reader has moved on to
// another topic is discarded rather than applied.
type Session struct {
	api      API
	local    *localstore.Data
	pageSize int
	timeout  time.Duration

	mu               sync.Mutex
	gen              uint64
	currentTopic     string
	currentPage      int
	posts            []model.BlogPost
	featured         []model.BlogPost
	hasMorePosts     bool
	isInitialLoading bool
	isAppending      bool
	err              error
}

// NewSession creates a session over the given API. local may be nil, in
// which case saved posts and comment caching are disabled.
func NewSession(api API, local *localstore.Data, pageSize int, timeout time.Duration) *Session {
	if pageSize <= 0 {
		pageSize = model.PostsPerPage
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Session{api: api, local: local, pageSize: pageSize, timeout: timeout}
}

// Snapshot is a consistent copy of the session's visible state.
type Snapshot struct {
	CurrentTopic     string
	CurrentPage      int
	Posts            []model.BlogPost
	Featured         []model.BlogPost
	HasMorePosts     bool
	IsInitialLoading bool
	IsAppending      bool
	Err              error
}

// State returns a copy of the current state.
func (s *Session) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		CurrentTopic:     s.currentTopic,
		CurrentPage:      s.currentPage,
		Posts:            append([]model.BlogPost(nil), s.posts...),
		Featured:         append([]model.BlogPost(nil), s.featured...),
		HasMorePosts:     s.hasMorePosts,
		IsInitialLoading: s.isInitialLoading,
		IsAppending:      s.isAppending,
		Err:              s.err,
	}
}

// SelectTopic switches the session to a topic and loads its first page.
// Reselecting the already current topic keeps the list on screen but still
// refetches page one. On failure the previous posts stay visible.
func (s *Session) SelectTopic(ctx context.Context, topic string) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	if topic != s.currentTopic {
		s.posts = nil
		s.featured = nil
		s.currentPage = 1
		// optimistic; only a short page turns this off
		s.hasMorePosts = true
	}
	s.currentTopic = topic
	s.isInitialLoading = true
	s.isAppending = false
	s.err = nil
	s.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	posts, err := s.api.FetchPostsForTopic(fetchCtx, topic, 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil
	}
	s.isInitialLoading = false
	if err != nil {
		slog.Error("topic load failed", "topic", topic, "error", err)
		s.err = fmt.Errorf("failed to load posts for %s", topic)
		return s.err
	}
	s.posts = posts
	s.currentPage = 1
	if len(posts) > featuredCount {
		s.featured = posts[:featuredCount]
	} else {
		s.featured = posts
	}
	s.hasMorePosts = len(posts) >= s.pageSize
	return nil
}

// LoadMore appends the next page. It is a no-op while another append is in
// flight or when the last page was short. The page counter only advances
// after a successful fetch.
func (s *Session) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	if s.isAppending || !s.hasMorePosts {
		s.mu.Unlock()
		return nil
	}
	gen := s.gen
	topic := s.currentTopic
	next := s.currentPage + 1
	s.isAppending = true
	s.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	posts, err := s.api.FetchPostsForTopic(fetchCtx, topic, next)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil
	}
	s.isAppending = false
	if err != nil {
		slog.Error("page load failed", "topic", topic, "page", next, "error", err)
		s.err = errors.New("failed to load more posts")
		return s.err
	}
	s.posts = append(s.posts, posts...)
	s.currentPage = next
	s.hasMorePosts = len(posts) >= s.pageSize
	return nil
}

// Search replaces the list with one freshly generated article under a
// synthetic topic label. Search results are a single page.
func (s *Session) Search(ctx context.Context, query string) error {
	label := model.SearchTopicLabel(query)

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.currentTopic = label
	s.currentPage = 1
	s.posts = nil
	s.featured = nil
	s.hasMorePosts = false
	s.isInitialLoading = true
	s.isAppending = false
	s.err = nil
	s.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	post, err := s.api.SearchAndGeneratePost(fetchCtx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil
	}
	s.isInitialLoading = false
	if err != nil {
		slog.Error("search failed", "query", query, "error", err)
		s.err = fmt.Errorf("failed to generate a post for %q", query)
		return s.err
	}
	if post != nil {
		s.posts = []model.BlogPost{*post}
		s.featured = s.posts
	}
	return nil
}

// Reading is a post opened for reading, with its visible comments.
type Reading struct {
	Post     *model.BlogPost
	Comments []model.Comment
}

// OpenPost fetches a post and its approved comments. The comment list is
// cached locally so a reopened post shows comments even when the fetch
// fails.
func (s *Session) OpenPost(ctx context.Context, postID string) (*Reading, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	post, err := s.api.FetchPostByID(fetchCtx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("post %s not found", postID)
	}

	comments, err := s.api.FetchCommentsForPost(fetchCtx, postID)
	if err != nil {
		slog.Warn("comment fetch failed, using cached copy", "postId", postID, "error", err)
		if s.local != nil {
			comments, _ = s.local.CachedComments(fetchCtx, postID)
		}
	} else if s.local != nil {
		if cacheErr := s.local.CacheComments(fetchCtx, postID, comments); cacheErr != nil {
			slog.Warn("comment cache write failed", "postId", postID, "error", cacheErr)
		}
	}

	visible := comments[:0:0]
	for _, c := range comments {
		if c.Status == model.CommentApproved {
			visible = append(visible, c)
		}
	}
	return &Reading{Post: post, Comments: visible}, nil
}

// AddComment submits a comment on a post. The returned comment carries the
// status moderation assigned to it.
func (s *Session) AddComment(ctx context.Context, postID, author, text string) (model.Comment, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.api.AddComment(fetchCtx, model.Comment{
		PostID: postID,
		Author: author,
		Text:   text,
	})
}

// SavePost bookmarks a post for later reading.
func (s *Session) SavePost(ctx context.Context, post model.BlogPost) error {
	if s.local == nil {
		return errors.New("no local store configured")
	}
	return s.local.SavePost(ctx, post)
}

// RemoveSavedPost drops a bookmark.
func (s *Session) RemoveSavedPost(ctx context.Context, postID string) error {
	if s.local == nil {
		return errors.New("no local store configured")
	}
	return s.local.RemoveSavedPost(ctx, postID)
}

// SavedPosts lists bookmarked posts.
func (s *Session) SavedPosts(ctx context.Context) ([]model.BlogPost, error) {
	if s.local == nil {
		return nil, nil
	}
	return s.local.SavedPosts(ctx)
}
