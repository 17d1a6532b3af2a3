package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"job-tracker/domain"
	"job-tracker/infrastructure"
)

var errEventsDisabled = errors.New("rabbitmq_url is not configured")

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Log application events from RabbitMQ until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.EventsEnabled() {
			return errEventsDisabled
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rmq, err := infrastructure.NewRabbitMQ(cfg.RabbitMQURL, cfg.RabbitMQQueue, log)
		if err != nil {
			return err
		}
		defer rmq.Close()

		err = rmq.Consume(ctx, func(event domain.ApplicationEvent) {
			log.WithFields(logrus.Fields{
				"type":           event.Type,
				"application_id": event.ApplicationID,
				"company":        event.Company,
				"status":         event.Status,
				"occurred_at":    event.OccurredAt,
			}).Info("📥 application event")
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}
