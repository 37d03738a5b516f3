// Package gateway is the reading side's single choke point for talking to
// the blog API: every read and write goes through the action-dispatch
// endpoint via this client.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"global-gist/internal/blog"
	"global-gist/internal/model"
)

// Client calls the POST /api action endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a gateway client. baseURL is the server root, e.g.
// "http://localhost:8080" (no trailing slash).
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type request struct {
	Action  string `json:"action"`
	Payload any    `json:"payload"`
}

type apiError struct {
	Error string `json:"error"`
}

// call performs one action round trip, decoding the response into out when
// out is non-nil. Non-2xx responses surface the server's error message.
func (c *Client) call(ctx context.Context, action string, payload, out any) error {
	if c == nil {
		return errors.New("nil gateway client")
	}
	if payload == nil {
		payload = map[string]any{}
	}
	body, err := json.Marshal(request{Action: action, Payload: payload})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ae apiError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&ae); decodeErr == nil && ae.Error != "" {
			return fmt.Errorf("%s: %s", action, ae.Error)
		}
		return fmt.Errorf("%s: status %d", action, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// FetchPostsForTopic returns one page of a topic's posts.
func (c *Client) FetchPostsForTopic(ctx context.Context, topic string, page int) ([]model.BlogPost, error) {
	var posts []model.BlogPost
	err := c.call(ctx, "getPosts", map[string]any{
		"topic": topic, "page": page, "limit": model.PostsPerPage,
	}, &posts)
	return posts, err
}

// FetchPostByID returns a post, or nil when unknown.
func (c *Client) FetchPostByID(ctx context.Context, postID string) (*model.BlogPost, error) {
	var post *model.BlogPost
	err := c.call(ctx, "getPostById", map[string]any{"postId": postID}, &post)
	return post, err
}

// FetchAllPosts returns the compact admin listing.
func (c *Client) FetchAllPosts(ctx context.Context) ([]blog.TopicPostRef, error) {
	var refs []blog.TopicPostRef
	err := c.call(ctx, "getAllPosts", nil, &refs)
	return refs, err
}

// SearchAndGeneratePost asks the server for one fresh article on a query.
func (c *Client) SearchAndGeneratePost(ctx context.Context, topic string) (*model.BlogPost, error) {
	var post *model.BlogPost
	err := c.call(ctx, "searchAndGeneratePost", map[string]any{"topic": topic}, &post)
	return post, err
}

// FetchRelatedPosts returns generated articles related to keywords.
func (c *Client) FetchRelatedPosts(ctx context.Context, keywords []string, currentPostID string) ([]model.BlogPost, error) {
	var posts []model.BlogPost
	err := c.call(ctx, "getRelatedPosts", map[string]any{
		"keywords": keywords, "currentPostId": currentPostID,
	}, &posts)
	return posts, err
}

// CreatePost stores a manually authored post.
func (c *Client) CreatePost(ctx context.Context, post model.BlogPost) (model.BlogPost, error) {
	var out model.BlogPost
	err := c.call(ctx, "createPost", map[string]any{"post": post}, &out)
	return out, err
}

// UpdatePost rewrites a post.
func (c *Client) UpdatePost(ctx context.Context, post model.BlogPost) (model.BlogPost, error) {
	var out model.BlogPost
	err := c.call(ctx, "updatePost", map[string]any{"post": post}, &out)
	return out, err
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.call(ctx, "deletePost", map[string]any{"postId": postID}, nil)
}

// FetchCommentsForPost returns a post's comments, oldest first.
func (c *Client) FetchCommentsForPost(ctx context.Context, postID string) ([]model.Comment, error) {
	var comments []model.Comment
	err := c.call(ctx, "getComments", map[string]any{"postId": postID}, &comments)
	return comments, err
}

// FetchAllComments returns every comment, newest first.
func (c *Client) FetchAllComments(ctx context.Context) ([]model.Comment, error) {
	var comments []model.Comment
	err := c.call(ctx, "getAllComments", nil, &comments)
	return comments, err
}

// AddComment submits a comment; the returned status reflects moderation.
func (c *Client) AddComment(ctx context.Context, comment model.Comment) (model.Comment, error) {
	var out model.Comment
	err := c.call(ctx, "addComment", map[string]any{"comment": comment}, &out)
	return out, err
}

// UpdateCommentStatus moves a comment through moderation.
func (c *Client) UpdateCommentStatus(ctx context.Context, commentID string, status model.CommentStatus) (model.Comment, error) {
	var out model.Comment
	err := c.call(ctx, "updateCommentStatus", map[string]any{
		"commentId": commentID, "status": status,
	}, &out)
	return out, err
}

// FindYouTubeVideoID returns a video id for a query, empty when none.
func (c *Client) FindYouTubeVideoID(ctx context.Context, query string) (string, error) {
	var id *string
	if err := c.call(ctx, "findYouTubeVideoId", map[string]any{"query": query}, &id); err != nil {
		return "", err
	}
	if id == nil {
		return "", nil
	}
	return *id, nil
}

// ExtractKeywords returns 3-5 keyword tags for content.
func (c *Client) ExtractKeywords(ctx context.Context, content string) ([]string, error) {
	var tags []string
	err := c.call(ctx, "extractKeywordsFromContent", map[string]any{"content": content}, &tags)
	return tags, err
}
