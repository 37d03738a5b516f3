package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"global-gist/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

// Draft is one generated article before ids, covers, and authorship are
// assigned.
type Draft struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content"`
}

// Generator defines the generative text interface used by the blog service.
type Generator interface {
	// GeneratePosts writes count article drafts about topic, skipping any
	// draft that would reuse excludeTitle. Grounding sources may be empty.
	GeneratePosts(ctx context.Context, topic string, count int, excludeTitle string) ([]Draft, []model.GroundingSource, error)
	// FindYouTubeVideoID looks up a video id for a query; empty when none.
	FindYouTubeVideoID(ctx context.Context, query string) (string, error)
	// ExtractKeywords returns 3-5 keyword tags for a piece of content.
	ExtractKeywords(ctx context.Context, content string) ([]string, error)
}

// OpenAIClient implements Generator using an OpenAI-compatible Chat
// Completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional
}

func NewOpenAI(cfg Config) *OpenAIClient {
	var c *openai.Client
	if cfg.BaseURL != "" {
		cc := openai.DefaultConfig(cfg.APIKey)
		cc.BaseURL = cfg.BaseURL
		c = openai.NewClientWithConfig(cc)
	} else {
		c = openai.NewClient(cfg.APIKey)
	}
	m := cfg.Model
	if m == "" {
		panic("generator model must be specified")
	}
	return &OpenAIClient{client: c, model: m}
}

type generatedBatch struct {
	Posts   []Draft                 `json:"posts"`
	Sources []model.GroundingSource `json:"sources"`
}

func (o *OpenAIClient) GeneratePosts(ctx context.Context, topic string, count int, excludeTitle string) ([]Draft, []model.GroundingSource, error) {
	// article generation is the slowest call; give it the long timeout tier
	ctx, cancel := context.WithTimeout(ctx, 300*time.Second)
	defer cancel()

	sys := `You are an editorial engine for a general-interest blog. You write comprehensive, factual, journalistic articles in Markdown and you only ever reply with a single JSON object.`

	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d high-quality, comprehensive blog posts about %q. ", count, topic)
	b.WriteString("The articles should be written in a journalistic, factual style. Each post must be at least 7-9 detailed paragraphs of Markdown. Integrate citations like [Source Title](https://source.example). ")
	if excludeTitle != "" {
		fmt.Fprintf(&b, "Do NOT generate a post with the title %q. ", excludeTitle)
	}
	b.WriteString(`Output a JSON object of the shape {"posts":[{"title":string,"summary":string,"content":string}],"sources":[{"title":string,"uri":string}]} where "sources" lists the web references the articles are grounded in. Ensure all string values are properly escaped.`)

	out, err := o.create(ctx, sys, b.String())
	if err != nil {
		slog.Error("ai: generate posts error", "topic", topic, "err", err)
		return nil, nil, err
	}
	var batch generatedBatch
	if err := json.Unmarshal([]byte(cleanJSONString(out)), &batch); err != nil {
		return nil, nil, fmt.Errorf("parse generated posts: %w", err)
	}
	if len(batch.Posts) > count {
		batch.Posts = batch.Posts[:count]
	}
	return batch.Posts, batch.Sources, nil
}

func (o *OpenAIClient) FindYouTubeVideoID(ctx context.Context, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()
	user := fmt.Sprintf(`Find a YouTube video ID for: %q. Respond with a JSON object {"videoId":string}; use an empty string if you cannot name a real video.`, query)
	out, err := o.create(ctx, "You reply with a single JSON object and nothing else.", user)
	if err != nil {
		slog.Error("ai: youtube lookup error", "err", err)
		return "", err
	}
	var res struct {
		VideoID string `json:"videoId"`
	}
	if err := json.Unmarshal([]byte(cleanJSONString(out)), &res); err != nil {
		return "", fmt.Errorf("parse video id: %w", err)
	}
	return strings.TrimSpace(res.VideoID), nil
}

func (o *OpenAIClient) ExtractKeywords(ctx context.Context, content string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()
	// Trim input to keep tokens reasonable
	content = strings.TrimSpace(content)
	if len([]rune(content)) > 1000 {
		content = string([]rune(content)[:1000])
	}
	user := fmt.Sprintf(`Extract 3-5 keywords from: %q... Respond with a JSON object {"tags":[string]}.`, content)
	out, err := o.create(ctx, "You reply with a single JSON object and nothing else.", user)
	if err != nil {
		slog.Error("ai: extract keywords error", "err", err)
		return nil, err
	}
	var res struct {
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(cleanJSONString(out)), &res); err != nil {
		return nil, fmt.Errorf("parse keywords: %w", err)
	}
	return res.Tags, nil
}

func (o *OpenAIClient) create(ctx context.Context, system, user string) (string, error) {
	// Default timeout guard, if caller didn't set one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 300*time.Second)
		defer cancel()
	}
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.4,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// cleanJSONString strips a markdown code fence some models wrap around JSON
// output even in JSON mode.
func cleanJSONString(text string) string {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "```json") && strings.HasSuffix(t, "```") {
		return strings.TrimSpace(t[7 : len(t)-3])
	}
	if strings.HasPrefix(t, "```") && strings.HasSuffix(t, "```") && len(t) > 6 {
		return strings.TrimSpace(t[3 : len(t)-3])
	}
	return t
}
