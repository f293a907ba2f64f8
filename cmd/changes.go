/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/adminboard/apiserver/config"
	"github.com/adminboard/apiserver/internal/logging"
	"github.com/adminboard/apiserver/internal/mq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// changesCmd represents the changes command.
var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Work with record change notifications",
}

var changesWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Log change notifications published by the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		logger, err := logging.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		broker, err := mq.NewFromConfig(ctx, cfg.MQ)
		if err != nil {
			if errors.Is(err, mq.ErrNoBackend) {
				return errors.New("no message queue backend configured (set MQ_BACKEND)")
			}
			return err
		}
		defer func() { _ = broker.Close() }()

		logger.Info("watching for changes", zap.String("channel", cfg.MQ.Channel))
		notifier := mq.NewNotifier(broker, cfg.MQ.Channel)
		err = notifier.Watch(ctx, func(event mq.ChangeEvent) error {
			logger.Info("change",
				zap.String("kind", event.Kind),
				zap.String("action", event.Action),
				zap.Int("id", event.ID),
				zap.Time("at", event.At),
			)
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("watch %s: %w", cfg.MQ.Channel, err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(changesCmd)
	changesCmd.AddCommand(changesWatchCmd)
}
