package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chai2010/webp"
)

// Generator produces article cover images.
type Generator interface {
	// GenerateCover writes a WebP cover for a post to outPath.
	GenerateCover(ctx context.Context, title, summary, outPath string) error
}

// Config holds settings for the image generation API (OpenAI-compatible
// /images/generations endpoint returning b64_json).
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	WebPQuality int
}

// Client implements Generator. New returns nil when essential config is
// missing; a nil client means covers fall back to placeholder URLs.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	webPQuality int
	httpClient  *http.Client
}

func New(cfg Config) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-image-1"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	quality := cfg.WebPQuality
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       model,
		webPQuality: quality,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type generationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size,omitempty"`
	ResponseFormat string `json:"response_format"`
}

type generationResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

const coverPrompt = `Create a clean, modern editorial cover image for a blog article.

Requirements:
- Title: %q.
- Summary: %q.
- Style: photographic or flat illustration, high-contrast palette, no logos, no watermarks, no text overlay.`

// GenerateCover renders a cover from the post title and summary and writes
// it as WebP to outPath.
func (c *Client) GenerateCover(ctx context.Context, title, summary, outPath string) error {
	if c == nil {
		return errors.New("nil cover generator")
	}
	if strings.TrimSpace(title) == "" {
		return errors.New("title is empty")
	}
	start := time.Now()

	body, err := json.Marshal(generationRequest{
		Model:          c.model,
		Prompt:         fmt.Sprintf(coverPrompt, title, summary),
		N:              1,
		Size:           "1024x1024",
		ResponseFormat: "b64_json",
	})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("imagegen request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("imagegen status=%d body=%s", resp.StatusCode, string(b))
	}
	var parsed generationResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Data) == 0 || strings.TrimSpace(parsed.Data[0].B64JSON) == "" {
		return errors.New("imagegen returned empty image data")
	}
	raw, err := base64.StdEncoding.DecodeString(parsed.Data[0].B64JSON)
	if err != nil {
		return fmt.Errorf("decode base64 image: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create cover dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create cover file: %w", err)
	}
	defer f.Close()
	if err := webp.Encode(f, img, &webp.Options{Quality: float32(c.webPQuality)}); err != nil {
		return fmt.Errorf("encode webp: %w", err)
	}
	slog.Info("imagegen: cover saved", "path", outPath, "duration", time.Since(start))
	return nil
}
