package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check Postgres and Redis connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		app, err := buildEnv(ctx, cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Store.Touch(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		fmt.Println("postgres: ok")

		if app.Redis != nil {
			if err := app.Redis.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			fmt.Println("redis: ok")
		} else {
			fmt.Println("redis: not configured, using in-memory device store")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
