// Package localstore is the reading side's device storage: saved posts, the
// per-post comment cache, and the moderation auto-approve flag. Values are
// JSON-encoded and read/written wholesale. The capability interface keeps the
// browse session and admin paths off any concrete backend.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"global-gist/internal/model"
)

// Store is a minimal key-value capability over whole JSON values.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error) // nil when absent
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

const (
	savedPostsKey  = "saved_posts"
	commentsKeyFmt = "comments:%s"
	autoApproveKey = "auto_approve"
	seedMarkFmt    = "seeded:%s"
)

// Data wraps a Store with the typed accessors the rest of the system uses.
type Data struct {
	store Store
}

func New(store Store) *Data {
	return &Data{store: store}
}

// SavedPosts returns the saved-for-later list, empty when none.
func (d *Data) SavedPosts(ctx context.Context) ([]model.BlogPost, error) {
	b, err := d.store.Get(ctx, savedPostsKey)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return []model.BlogPost{}, nil
	}
	var posts []model.BlogPost
	if err := json.Unmarshal(b, &posts); err != nil {
		return nil, fmt.Errorf("decode saved posts: %w", err)
	}
	return posts, nil
}

// SavePost appends a post to the saved list; saving an already-saved id is a
// no-op.
func (d *Data) SavePost(ctx context.Context, post model.BlogPost) error {
	posts, err := d.SavedPosts(ctx)
	if err != nil {
		return err
	}
	for _, p := range posts {
		if p.ID == post.ID {
			return nil
		}
	}
	posts = append(posts, post)
	return d.writeJSON(ctx, savedPostsKey, posts)
}

// RemoveSavedPost drops a post from the saved list.
func (d *Data) RemoveSavedPost(ctx context.Context, postID string) error {
	posts, err := d.SavedPosts(ctx)
	if err != nil {
		return err
	}
	kept := posts[:0]
	for _, p := range posts {
		if p.ID != postID {
			kept = append(kept, p)
		}
	}
	return d.writeJSON(ctx, savedPostsKey, kept)
}

// CachedComments returns the locally cached comment list for a post, nil
// when the post has no cache entry.
func (d *Data) CachedComments(ctx context.Context, postID string) ([]model.Comment, error) {
	b, err := d.store.Get(ctx, fmt.Sprintf(commentsKeyFmt, postID))
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	var comments []model.Comment
	if err := json.Unmarshal(b, &comments); err != nil {
		return nil, fmt.Errorf("decode comment cache: %w", err)
	}
	return comments, nil
}

// CacheComments replaces the comment cache entry for a post.
func (d *Data) CacheComments(ctx context.Context, postID string, comments []model.Comment) error {
	return d.writeJSON(ctx, fmt.Sprintf(commentsKeyFmt, postID), comments)
}

// AutoApprove reports whether new comments skip moderation. Absent means
// disabled.
func (d *Data) AutoApprove(ctx context.Context) (bool, error) {
	b, err := d.store.Get(ctx, autoApproveKey)
	if err != nil {
		return false, err
	}
	if b == nil {
		return false, nil
	}
	var on bool
	if err := json.Unmarshal(b, &on); err != nil {
		return false, fmt.Errorf("decode auto-approve flag: %w", err)
	}
	return on, nil
}

// SetAutoApprove stores the moderation flag.
func (d *Data) SetAutoApprove(ctx context.Context, on bool) error {
	return d.writeJSON(ctx, autoApproveKey, on)
}

// SeededToday reports whether content seeding already ran for the given UTC
// day, and marks the day when it has not.
func (d *Data) SeededToday(ctx context.Context, day time.Time) (bool, error) {
	key := fmt.Sprintf(seedMarkFmt, day.UTC().Format("2006-01-02"))
	b, err := d.store.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if b != nil {
		return true, nil
	}
	return false, d.writeJSON(ctx, key, true)
}

func (d *Data) writeJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return d.store.Set(ctx, key, b)
}

// Memory is an in-process Store for tests and single-run commands.
type Memory struct {
	mu sync.Mutex
	m  map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{m: map[string][]byte{}}
}

func (s *Memory) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.m[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (s *Memory) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := make([]byte, len(value))
	copy(b, value)
	s.m[key] = b
	return nil
}

func (s *Memory) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}
