package cmd

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"global-gist/internal/server"
	"global-gist/worker"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the blog API server and content seeder",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		app, err := buildEnv(ctx, cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		h := server.NewHandler(app.Service, cfg.Seeder.TopicsPerRun, cfg.Seeder.PostsPerTopic)
		e := server.New(h, cfg.Server.CoversDir)

		errc := make(chan error, 2)
		go func() {
			errc <- server.Run(ctx, e, cfg.Server.Addr)
		}()

		if cfg.Seeder.Enabled {
			interval, err := time.ParseDuration(cfg.Seeder.Interval)
			if err != nil {
				return err
			}
			seeder := &worker.Seeder{
				Service:       app.Service,
				Local:         app.Local,
				Interval:      interval,
				TopicsPerRun:  cfg.Seeder.TopicsPerRun,
				PostsPerTopic: cfg.Seeder.PostsPerTopic,
			}
			mgr := worker.NewManager(seeder)
			go func() {
				errc <- mgr.Start(ctx)
			}()
			slog.Info("seeder enabled", "interval", interval)
		}

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			log.Printf("received signal: %s, shutting down", s)
			cancel()
		}()

		return <-errc
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
