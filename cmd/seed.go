package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run one content seeding pass and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		app, err := buildEnv(ctx, cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		res, err := app.Service.SeedNewContent(ctx, cfg.Seeder.TopicsPerRun, cfg.Seeder.PostsPerTopic)
		if err != nil {
			return err
		}
		fmt.Printf("seeded topics: %v\n", res.SeededTopics)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
