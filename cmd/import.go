package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"global-gist/internal/markdown"
	"global-gist/internal/model"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [files or globs...]",
	Short: "Import Markdown files with YAML frontmatter as posts",
	Long: `Each file needs frontmatter with at least "title" and "topic".
Optional keys: summary, imageUrl, author_name, author_avatar.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		app, err := buildEnv(ctx, cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		var paths []string
		for _, arg := range args {
			matches, err := filepath.Glob(arg)
			if err != nil {
				return fmt.Errorf("bad pattern %q: %w", arg, err)
			}
			paths = append(paths, matches...)
		}
		if len(paths) == 0 {
			return fmt.Errorf("no files matched")
		}

		for _, path := range paths {
			doc, err := markdown.ParseFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			draft := model.BlogPost{
				Title:   fmString(doc, "title"),
				Topic:   fmString(doc, "topic"),
				Summary: fmString(doc, "summary"),
				Content: doc.Body,
			}
			if img := fmString(doc, "imageUrl"); img != "" {
				draft.ImageURL = img
			}
			created, err := app.Service.CreatePost(ctx, draft)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if name := fmString(doc, "author_name"); name != "" {
				created.Author = model.Author{Name: name, AvatarURL: fmString(doc, "author_avatar")}
				if created.Author.AvatarURL == "" {
					created.Author.AvatarURL = model.DefaultAuthor.AvatarURL
				}
				if _, err := app.Service.UpdatePost(ctx, created); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			fmt.Printf("imported %s as %s\n", path, created.ID)
		}
		return nil
	},
}

func fmString(doc markdown.Document, key string) string {
	if v, ok := doc.Frontmatter[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func init() {
	rootCmd.AddCommand(importCmd)
}
