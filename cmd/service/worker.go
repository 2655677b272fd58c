package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"taskgame_service/internal/service"
	"taskgame_service/pkg/kafka"
	"taskgame_service/pkg/logging"
)

// ReminderWorker periodically publishes reminders for events that are
// about to end, so participants can finish their outstanding tasks.
type ReminderWorker struct {
	eventRepo service.EventRepository
	producer  *kafka.Producer
	logger    *logging.Logger
	interval  time.Duration
}

func NewReminderWorker(
	eventRepo service.EventRepository,
	producer *kafka.Producer,
	logger *logging.Logger,
) *ReminderWorker {
	return &ReminderWorker{
		eventRepo: eventRepo,
		producer:  producer,
		logger:    logger,
		interval:  time.Hour,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "reminder worker stopped")
			return
		case <-ticker.C:
			w.processReminders(ctx)
		}
	}
}

func (w *ReminderWorker) processReminders(ctx context.Context) {
	events, err := w.eventRepo.ListEndingSoon(ctx, 24*time.Hour)
	if err != nil {
		w.logger.Error(ctx, "failed to list events ending soon", zap.Error(err))
		return
	}

	for _, event := range events {
		message := map[string]interface{}{
			"event_id":   event.ID,
			"event_name": event.Name,
			"end_date":   event.EndDate,
		}

		if err := w.producer.Send(ctx, kafka.TopicEventReminders, message); err != nil {
			w.logger.Error(ctx, "failed to send event reminder",
				zap.String("event_id", event.ID.String()),
				zap.Error(err),
			)
			continue
		}

		w.logger.Info(ctx, "sent event reminder", zap.String("event_id", event.ID.String()))
	}
}
