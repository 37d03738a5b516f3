package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"global-gist/internal/markdown"

	"github.com/spf13/cobra"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every post as a Markdown file with YAML frontmatter",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		app, err := buildEnv(ctx, cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := os.MkdirAll(exportDir, 0o755); err != nil {
			return err
		}

		refs, err := app.Service.GetAllPosts(ctx)
		if err != nil {
			return err
		}
		for _, ref := range refs {
			post, err := app.Service.GetPostByID(ctx, ref.Post.ID)
			if err != nil {
				return err
			}
			if post == nil {
				continue
			}
			doc := markdown.Document{
				Frontmatter: map[string]any{
					"title":      post.Title,
					"topic":      post.Topic,
					"summary":    post.Summary,
					"imageUrl":   post.ImageURL,
					"author":     post.Author.Name,
					"created_at": post.CreatedAt.Format(time.RFC3339),
				},
				Body: post.Content,
			}
			out := filepath.Join(exportDir, post.ID+".md")
			if err := markdown.WriteFile(out, doc); err != nil {
				return fmt.Errorf("%s: %w", out, err)
			}
		}
		fmt.Printf("exported %d posts to %s\n", len(refs), exportDir)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", "./export", "output directory")
	rootCmd.AddCommand(exportCmd)
}
