/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/newswire/apiserver/config"
	"github.com/newswire/apiserver/internal/db"
	"github.com/newswire/apiserver/internal/events"
	"github.com/newswire/apiserver/internal/notify"
	"github.com/newswire/apiserver/internal/social"
	"github.com/newswire/apiserver/internal/store"
	"github.com/newswire/apiserver/internal/worker"
	"github.com/spf13/cobra"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Starts the side-effect worker",
	Long: `Starts the background worker that consumes approval events from
the configured broker and sends reader notifications and social posts.
Requires EVENTS_BACKEND to name a broker (rabbitmq or pubsub); with
the inline backend the API server runs the side effects itself. Usage:

	newswire worker
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadConfig()

		if cfg.Events.Backend == "" || cfg.Events.Backend == "inline" {
			fmt.Fprintln(os.Stderr, "worker requires a broker events backend, got inline")
			os.Exit(1)
		}

		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		slog.SetDefault(logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		dbConn, err := db.Open(ctx, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
			os.Exit(1)
		}
		defer dbConn.Close()

		backend, err := events.NewBackend(ctx, cfg.Events, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to connect events backend: %v\n", err)
			os.Exit(1)
		}
		bus := events.NewBus(backend)
		defer bus.Close()

		notifier := &notify.Notifier{}
		err = notifier.Init(
			notify.WithSender(cfg.Mail.Sender),
			notify.WithKeys(cfg.Mail.PublicKey, cfg.Mail.PrivateKey),
			notify.WithLogger(logger),
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to init notifier: %v\n", err)
			os.Exit(1)
		}

		consumer := &worker.ApprovalConsumer{
			Bus: bus,
			Effects: &worker.SideEffects{
				Recipients:  store.NewSubscriptionRepository(dbConn),
				Connections: store.NewConnectionRepository(dbConn),
				Notifier:    notifier,
				Poster:      social.NewPoster(),
				Logger:      logger,
			},
		}

		logger.Info("worker started", "backend", cfg.Events.Backend)
		if err := worker.NewManager(consumer).Start(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "worker error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
