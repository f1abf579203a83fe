package consumer

import (
	"context"
	"encoding/json"

	"go-pto/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Notifier delivers a resolution notice to the requester (mail, chat, ...).
type Notifier interface {
	NotifyLeaveResolved(ctx context.Context, event events.LeaveRequestResolvedEvent) error
}

func ConsumeLeaveRequestResolved(
	ctx context.Context,
	reader *kafkago.Reader,
	notifier Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_resolved")
	log.Info("leave resolved consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave resolved consumer stopped")
				return
			}
			log.Error("fetch leave resolved message failed", zap.Error(err))
			continue
		}

		var event events.LeaveRequestResolvedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave_request_resolved event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := notifier.NotifyLeaveResolved(ctx, event); err != nil {
			log.Error("notify leave resolved failed",
				zap.String("leave_request_id", event.LeaveRequestID),
				zap.String("status", event.Status),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave resolved message failed", zap.Error(err))
			continue
		}

		log.Info("leave resolution notified",
			zap.String("leave_request_id", event.LeaveRequestID),
			zap.String("status", event.Status),
		)
	}
}

// LogNotifier is the default Notifier; it only records the resolution.
type LogNotifier struct{}

func (LogNotifier) NotifyLeaveResolved(ctx context.Context, event events.LeaveRequestResolvedEvent) error {
	zap.L().Named("notification").Info("leave request resolved",
		zap.String("leave_request_id", event.LeaveRequestID),
		zap.String("request_number", event.RequestNumber),
		zap.String("employee_id", event.EmployeeID),
		zap.String("status", event.Status),
	)
	return nil
}
