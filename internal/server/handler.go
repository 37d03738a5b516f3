package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"global-gist/internal/blog"
	"global-gist/internal/model"
	"global-gist/internal/storage"

	"github.com/labstack/echo/v4"
)

// BlogService is the behavior surface the HTTP layer dispatches into;
// *blog.Service implements it.
type BlogService interface {
	GetPosts(ctx context.Context, topic string, page, limit int) ([]model.BlogPost, error)
	GetPostByID(ctx context.Context, postID string) (*model.BlogPost, error)
	GetAllPosts(ctx context.Context) ([]blog.TopicPostRef, error)
	SearchAndGeneratePost(ctx context.Context, topic string) (*model.BlogPost, error)
	GetRelatedPosts(ctx context.Context, keywords []string, currentPostID string) ([]model.BlogPost, error)
	CreatePost(ctx context.Context, draft model.BlogPost) (model.BlogPost, error)
	UpdatePost(ctx context.Context, post model.BlogPost) (model.BlogPost, error)
	DeletePost(ctx context.Context, postID string) error
	GetComments(ctx context.Context, postID string) ([]model.Comment, error)
	GetAllComments(ctx context.Context) ([]model.Comment, error)
	AddComment(ctx context.Context, c model.Comment) (model.Comment, error)
	UpdateCommentStatus(ctx context.Context, commentID string, status model.CommentStatus) (model.Comment, error)
	FindYouTubeVideoID(ctx context.Context, query string) (string, error)
	ExtractKeywords(ctx context.Context, content string) ([]string, error)
	SeedNewContent(ctx context.Context, topicsPerRun, postsPerTopic int) (blog.SeedResult, error)
}

// Handler serves the action-dispatch API.
type Handler struct {
	svc           BlogService
	topicsPerRun  int
	postsPerTopic int
}

func NewHandler(svc BlogService, topicsPerRun, postsPerTopic int) *Handler {
	return &Handler{svc: svc, topicsPerRun: topicsPerRun, postsPerTopic: postsPerTopic}
}

// envelope is the request shape of POST /api.
type envelope struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// Typed payloads, one per action. The dispatch switch below is the whole set
// of recognized actions; anything else is a 400.
type (
	getPostsPayload struct {
		Topic string `json:"topic"`
		Page  int    `json:"page"`
		Limit int    `json:"limit"`
	}
	postIDPayload struct {
		PostID string `json:"postId"`
	}
	topicPayload struct {
		Topic string `json:"topic"`
	}
	relatedPayload struct {
		Keywords      []string `json:"keywords"`
		CurrentPostID string   `json:"currentPostId"`
	}
	postPayload struct {
		Post model.BlogPost `json:"post"`
	}
	commentPayload struct {
		Comment model.Comment `json:"comment"`
	}
	commentStatusPayload struct {
		CommentID string              `json:"commentId"`
		Status    model.CommentStatus `json:"status"`
	}
	queryPayload struct {
		Query string `json:"query"`
	}
	contentPayload struct {
		Content string `json:"content"`
	}
)

// HandleAction is the single POST /api entry point.
func (h *Handler) HandleAction(c echo.Context) error {
	var env envelope
	if err := c.Bind(&env); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "malformed request body"})
	}
	if env.Action == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing action"})
	}
	status, result, err := h.dispatch(c.Request().Context(), env)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(status, result)
}

// HandleCron is the GET maintenance trigger; it re-dispatches to the
// seedNewContent action.
func (h *Handler) HandleCron(c echo.Context) error {
	status, result, err := h.dispatch(c.Request().Context(), envelope{Action: "seedNewContent"})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(status, result)
}

func (h *Handler) dispatch(ctx context.Context, env envelope) (int, any, error) {
	switch env.Action {
	case "getPosts":
		var p getPostsPayload
		if err := decode(env.Payload, &p); err != nil {
			return 0, nil, err
		}
		posts, err := h.svc.GetPosts(ctx, p.Topic, p.Page, p.Limit)
		return http.StatusOK, posts, err

	case "getPostById":
		var p postIDPayload
		if err := decode(env.Payload, &p); err != nil {
			return 0, nil, err
		}
		post, err := h.svc.GetPostByID(ctx, p.PostID)
		return http.StatusOK, post, err

	case "getAllPosts":
		refs, err := h.svc.GetAllPosts(ctx)
		return http.StatusOK, refs, err

	case "searchAndGeneratePost":
		var p topicPayload
		if err := decode(env.Payload, &p); err != nil {
			return 0, nil, err
		}
		post, err := h.svc.SearchAndGeneratePost(ctx, p.Topic)
		return http.StatusOK, post, err

	case "getRelatedPosts":
		var p relatedPayload
		if err := decode(env.Payload, &p); err != nil {
			return 0, nil, err
		}
		posts, err := h.svc.GetRelatedPosts(ctx, p.Keywords, p.CurrentPostID)
		return http.StatusOK, posts, err

	case "createPost":
		var p postPayload
		if err := decode(env.Payload, &p); err != nil {
			return 0, nil, err
		}
		post, err := h.svc.CreatePost(ctx, p.Post)
		return http.StatusCreated, post, err

	case "updatePost":
		var p postPayload
		if err := decode(env.Payload, &p); err != nil {
			return 0, nil, err
		}
		post, err := h.svc.UpdatePost(ctx, p.Post)
		return http.StatusOK, post, err

	case "deletePost":
		var p postIDPayload
		if err := decode(env.Payload, &p); err != nil {
			return 0, nil, err
		}
		if err := h.svc.DeletePost(ctx, p.PostID); err != nil {
			return 0, nil, err
		}
		return http.StatusOK, echo.Map{"success": true}, nil

	case "getComments":
		var p postIDPayload
		if err := decode(env.Payload, &p); err != nil {
			return 0, nil, err
		}
		comments, err := h.svc.GetComments(ctx, p.PostID)
		return http.StatusOK, comments, err

	case "getAllComments":
		comments, err := h.svc.GetAllComments(ctx)
		return http.StatusOK, comments, err

	case "addComment":
		var p commentPayload
		if err := decode(env.Payload, &p); err != nil {
			return 0, nil, err
		}
		comment, err := h.svc.AddComment(ctx, p.Comment)
		return http.StatusCreated, comment, err

	case "updateCommentStatus":
		var p commentStatusPayload
		if err := decode(env.Payload, &p); err != nil {
			return 0, nil, err
		}
		comment, err := h.svc.UpdateCommentStatus(ctx, p.CommentID, p.Status)
		return http.StatusOK, comment, err

	case "findYouTubeVideoId":
		var p queryPayload
		if err := decode(env.Payload, &p); err != nil {
			return 0, nil, err
		}
		id, err := h.svc.FindYouTubeVideoID(ctx, p.Query)
		if err != nil {
			return 0, nil, err
		}
		if id == "" {
			return http.StatusOK, nil, nil
		}
		return http.StatusOK, id, nil

	case "extractKeywordsFromContent":
		var p contentPayload
		if err := decode(env.Payload, &p); err != nil {
			return 0, nil, err
		}
		tags, err := h.svc.ExtractKeywords(ctx, p.Content)
		if tags == nil {
			tags = []string{}
		}
		return http.StatusOK, tags, err

	case "seedNewContent":
		res, err := h.svc.SeedNewContent(ctx, h.topicsPerRun, h.postsPerTopic)
		return http.StatusOK, res, err

	default:
		return 0, nil, fmt.Errorf("%w: invalid action %q", blog.ErrValidation, env.Action)
	}
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing payload", blog.ErrValidation)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", blog.ErrValidation, err)
	}
	return nil
}

// writeError maps service failures onto the wire taxonomy: validation 400,
// generative-service unavailability 502, everything else 500. The body is
// always {"error": message}.
func writeError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, blog.ErrValidation), errors.Is(err, blog.ErrInvalidTransition):
		status = http.StatusBadRequest
	case errors.Is(err, blog.ErrGeneratorUnavailable):
		status = http.StatusBadGateway
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusInternalServerError
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}
