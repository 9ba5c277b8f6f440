package service

import (
	"context"
	"pscafe/infras/kafka"
	"pscafe/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	eventSessionStarted = "session_started"
	eventSessionStopped = "session_stopped"
	eventProductAdded   = "product_added"
	eventProductRemoved = "product_removed"
	eventReceiptCreated = "receipt_created"
	eventTableReset     = "table_reset"
)

// billingEvent is the payload published to the billing topic on every
// lifecycle change, keyed by table so events for one table stay ordered.
type billingEvent struct {
	EventType     string    `json:"event_type"`
	TableID       string    `json:"table_id"`
	TableName     string    `json:"table_name"`
	SessionID     string    `json:"session_id,omitempty"`
	ReceiptNumber string    `json:"receipt_number,omitempty"`
	Amount        string    `json:"amount,omitempty"`
	Operator      string    `json:"operator"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func (s *serviceImpl) publishEvent(ctx context.Context, event billingEvent) {
	event.OccurredAt = timezone.Now()

	go func() {
		c := context.WithoutCancel(ctx)

		err := s.kafka.SendMessages(c, s.cfg.Kafka.BillingTopic, kafka.Message{
			Key:   event.TableID,
			Value: event,
		})
		if err != nil {
			log.Error().Err(err).Str("eventType", event.EventType).Msg("failed to publish billing event")
		}
	}()
}
