package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Ademileke12/examfever-affiliate-service/internal/domain"
	"github.com/google/uuid"
)

// AwardCommissionIfEligible awards the referral commission for a qualifying
// payment at most once. A nil result means "correctly did nothing": no
// eligible referral, or the referrer is gone or suspended. Once eligibility
// is confirmed and the referral flips to converted, any failure propagates to
// the payment pipeline instead of being swallowed.
//
// Re-invoking after a successful award returns nil: the referral is no longer
// signed_up, so duplicate webhook delivery cannot double-pay.
func (s *Service) AwardCommissionIfEligible(ctx context.Context, referredUserID string, amountPaid float64, paymentReference string) (*CommissionResult, error) {
	referredUserID = strings.TrimSpace(referredUserID)
	if referredUserID == "" {
		return nil, domain.ErrInvalidInput
	}
	if amountPaid < 0 {
		return nil, domain.ErrInvalidInput
	}

	referral, err := s.referrals.GetByReferredUserAndStatus(ctx, referredUserID, domain.ReferralStatusSignedUp)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	referrer, err := s.affiliates.GetByUserID(ctx, referral.ReferrerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !referrer.IsActive {
		return nil, nil
	}

	commission := domain.CommissionFor(amountPaid, s.cfg.CommissionRate)
	now := s.nowFn()

	// The guarded status flip is the at-most-once gate: a concurrent award for
	// the same referral loses the update and exits here without side effects.
	if err := s.referrals.AdvanceStatus(ctx, referral.ReferralID, domain.ReferralStatusSignedUp, domain.ReferralStatusConverted, now); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("convert referral %s: %w", referral.ReferralID, err)
	}
	record := domain.CommissionRecord{
		CommissionID:     "com_" + uuid.NewString(),
		ReferrerID:       referrer.UserID,
		ReferredUserID:   referredUserID,
		PaymentReference: strings.TrimSpace(paymentReference),
		Amount:           commission,
		Status:           domain.CommissionStatusPaid,
		CreatedAt:        now,
	}
	if err := s.commissions.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("record commission for referral %s: %w", referral.ReferralID, err)
	}
	if err := s.affiliates.IncrementBalance(ctx, referrer.UserID, commission, now); err != nil {
		return nil, fmt.Errorf("credit balance for referrer %s: %w", referrer.UserID, err)
	}

	s.warnSideEffect(ctx, "enqueue_referral_converted", s.enqueueReferralConverted(ctx, referral, now))
	s.warnSideEffect(ctx, "enqueue_commission_awarded", s.enqueueCommissionAwarded(ctx, record, now))
	return &CommissionResult{Commission: commission, ReferrerID: referrer.UserID}, nil
}
