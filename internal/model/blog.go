package model

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// PostsPerPage is the page size for topic listings.
const PostsPerPage = 9

// GroundingSource is a web citation attached to generated content.
type GroundingSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Author is denormalized onto each post; there is no authors table.
type Author struct {
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatarUrl"`
}

// BlogPost is a single blog entry. Content is raw Markdown.
type BlogPost struct {
	ID               string            `json:"id"`
	Topic            string            `json:"topic"`
	Title            string            `json:"title"`
	Summary          string            `json:"summary"`
	Content          string            `json:"content"`
	ImageURL         string            `json:"imageUrl"`
	ImageDescription string            `json:"imageDescription,omitempty"`
	YouTubeVideoID   string            `json:"youtubeVideoId,omitempty"`
	Sources          []GroundingSource `json:"sources"`
	Author           Author            `json:"author"`
	CommentCount     int               `json:"commentCount,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

// PostRef is the compact listing shape returned by the getAllPosts action.
type PostRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Topic string `json:"topic"`
}

// CommentStatus is the moderation state of a comment.
type CommentStatus string

const (
	CommentPending  CommentStatus = "pending"
	CommentApproved CommentStatus = "approved"
	CommentRejected CommentStatus = "rejected"
)

// Valid reports whether s is one of the known moderation states.
func (s CommentStatus) Valid() bool {
	switch s {
	case CommentPending, CommentApproved, CommentRejected:
		return true
	}
	return false
}

// Comment is a reader comment on a post. Timestamp duplicates CreatedAt in
// unix milliseconds; it is kept for local sorting on the reading side.
type Comment struct {
	ID        string        `json:"id"`
	PostID    string        `json:"postId"`
	Author    string        `json:"author"`
	Text      string        `json:"text"`
	Timestamp int64         `json:"timestamp"`
	Status    CommentStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// DefaultTopics is the fixed browsing taxonomy. The first entry is the
// landing topic.
var DefaultTopics = []string{
	"Global News",
	"Breakthrough Tech Innovations",
	"Lifestyle",
	"Tourism",
	"Historical Stories",
	"Science & Discovery",
	"Finance & Economy",
}

// DefaultAuthor is attributed to manually created and generated posts.
var DefaultAuthor = Author{
	Name:      "Global Gist Blog",
	Bio:       `Global Gist Blog, popularly known as "GGB", is an independent journalism desk distilling the world's most fascinating stories, trends, and facts into clear, engaging blog posts.`,
	AvatarURL: "https://picsum.photos/seed/global-gist-blog-avatar/100/100",
}

// SearchTopicLabel builds the synthetic topic label for an ad-hoc search
// session.
func SearchTopicLabel(query string) string {
	return fmt.Sprintf("Search: %q", query)
}

var slugStrip = regexp.MustCompile(`\s+`)

// GeneratedPostID builds the id for the index-th post generated for a topic.
// The timestamp keeps ids unique across generations of the same topic.
func GeneratedPostID(topic string, index int, now time.Time) string {
	slug := slugStrip.ReplaceAllString(strings.TrimSpace(topic), "-")
	return fmt.Sprintf("%s-%d-%d", slug, index, now.UnixMilli())
}

// CustomPostID builds the id for a manually authored post.
func CustomPostID(now time.Time) string {
	return fmt.Sprintf("custom-%d", now.UnixMilli())
}

// CommentID builds the id for a new comment.
func CommentID(now time.Time) string {
	return fmt.Sprintf("comment-%d", now.UnixMilli())
}

// PlaceholderImageURL derives a stable cover image URL from a post title,
// used when no cover generator is configured.
func PlaceholderImageURL(title string) string {
	return "https://picsum.photos/seed/" + url.QueryEscape(strings.TrimSpace(title)) + "/600/400"
}
