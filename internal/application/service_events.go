package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Ademileke12/examfever-affiliate-service/internal/contracts"
	"github.com/Ademileke12/examfever-affiliate-service/internal/domain"
	"github.com/Ademileke12/examfever-affiliate-service/internal/ports"
	"github.com/google/uuid"
)

// FlushOutbox drains pending domain events through the configured publisher.
// The worker loops this on a ticker; tests call it directly.
func (s *Service) FlushOutbox(ctx context.Context) error {
	if s.outbox == nil || s.publisher == nil {
		return nil
	}
	pending, err := s.outbox.FetchUnpublished(ctx, s.cfg.OutboxBatchSize)
	if err != nil {
		return err
	}
	for _, rec := range pending {
		now := s.nowFn()
		if err := s.publisher.Publish(ctx, rec.EventType, rec.Payload, rec.PartitionKey); err != nil {
			_ = s.outbox.MarkFailed(ctx, rec.OutboxID, err.Error(), now)
			return err
		}
		if err := s.outbox.MarkPublished(ctx, rec.OutboxID, now); err != nil {
			return err
		}
	}
	return nil
}

// warnSideEffect records a failed non-blocking side effect (fraud trail
// append, event enqueue). The primary operation already succeeded; the
// failure must still leave a trace instead of vanishing.
func (s *Service) warnSideEffect(ctx context.Context, operation string, err error) {
	if err == nil {
		return
	}
	slog.Default().WarnContext(ctx, "side effect failed",
		"module", "application",
		"layer", "application",
		"operation", operation,
		"outcome", "warning",
		"error", err,
	)
}

func (s *Service) enqueueEvent(ctx context.Context, eventType, partitionKey string, data any, now time.Time) error {
	if s.outbox == nil {
		return nil
	}
	if !domain.IsEmittedEvent(eventType) {
		return domain.ErrInvalidInput
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return domain.ErrInvalidInput
	}
	return s.outbox.Enqueue(ctx, ports.OutboxEvent{
		EventID:          "evt_" + uuid.NewString(),
		EventType:        eventType,
		PartitionKey:     partitionKey,
		PartitionKeyPath: domain.PartitionKeyPath(eventType),
		Payload:          payload,
		SchemaVersion:    "v1",
		TraceID:          uuid.NewString(),
		OccurredAt:       now,
	})
}

func (s *Service) enqueueReferralSignedUp(ctx context.Context, row domain.ReferralRecord, flagged bool, now time.Time) error {
	return s.enqueueEvent(ctx, domain.EventReferralSignedUp, row.ReferrerID, contracts.ReferralSignedUpPayload{
		ReferralID: row.ReferralID, ReferrerID: row.ReferrerID, ReferredUserID: row.ReferredUserID,
		Flagged: flagged, SignedUpAt: now.UTC().Format(time.RFC3339),
	}, now)
}

func (s *Service) enqueueReferralConverted(ctx context.Context, row domain.ReferralRecord, now time.Time) error {
	return s.enqueueEvent(ctx, domain.EventReferralConverted, row.ReferrerID, contracts.ReferralConvertedPayload{
		ReferralID: row.ReferralID, ReferrerID: row.ReferrerID, ReferredUserID: row.ReferredUserID,
		ConvertedAt: now.UTC().Format(time.RFC3339),
	}, now)
}

func (s *Service) enqueueCommissionAwarded(ctx context.Context, row domain.CommissionRecord, now time.Time) error {
	return s.enqueueEvent(ctx, domain.EventCommissionAwarded, row.ReferrerID, contracts.CommissionAwardedPayload{
		CommissionID: row.CommissionID, ReferrerID: row.ReferrerID, ReferredUserID: row.ReferredUserID,
		Amount: row.Amount, PaymentReference: row.PaymentReference, AwardedAt: now.UTC().Format(time.RFC3339),
	}, now)
}

func (s *Service) enqueueFraudFlagged(ctx context.Context, referrerID, referredUserID, reason string, now time.Time) error {
	return s.enqueueEvent(ctx, domain.EventFraudFlagged, referrerID, contracts.FraudFlaggedPayload{
		ReferrerID: referrerID, ReferredUserID: referredUserID, Reason: reason,
		FlaggedAt: now.UTC().Format(time.RFC3339),
	}, now)
}
