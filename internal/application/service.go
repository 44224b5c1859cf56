package application

import (
	"context"
	"errors"
	"strings"

	"github.com/Ademileke12/examfever-affiliate-service/internal/domain"
	"github.com/google/uuid"
)

// ClaimReferralCode lazily creates the caller's affiliate profile. Claiming is
// idempotent per user: an existing profile returns its existing code.
func (s *Service) ClaimReferralCode(ctx context.Context, actor Actor) (domain.AffiliateProfile, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.AffiliateProfile{}, domain.ErrUnauthorized
	}
	return s.ensureAffiliate(ctx, actor.SubjectID)
}

// RegisterSignup records a referrer-to-referred relationship from a referral
// code, logs the signup attempt, and runs the advisory fraud check against the
// referrer's history. A suspicious result flags the attempt; it never blocks
// the signup itself.
func (s *Service) RegisterSignup(ctx context.Context, actor Actor, in RegisterSignupInput) (RegisterSignupResult, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return RegisterSignupResult{}, domain.ErrUnauthorized
	}
	in.ReferralCode = strings.TrimSpace(in.ReferralCode)
	if in.ReferralCode == "" {
		return RegisterSignupResult{}, domain.ErrInvalidInput
	}
	referrer, err := s.affiliates.GetByCode(ctx, in.ReferralCode)
	if err != nil {
		return RegisterSignupResult{}, err
	}
	if referrer.UserID == actor.SubjectID {
		return RegisterSignupResult{}, domain.ErrSelfReferral
	}
	if !referrer.IsActive {
		return RegisterSignupResult{}, domain.ErrAffiliateSuspended
	}
	if _, err := s.referrals.GetByReferredUser(ctx, actor.SubjectID); err == nil {
		return RegisterSignupResult{}, domain.ErrConflict
	} else if !errors.Is(err, domain.ErrNotFound) {
		return RegisterSignupResult{}, err
	}

	now := s.nowFn()
	if err := s.LogSignupAttempt(ctx, actor.SubjectID, in.ClientIP, in.DeviceFingerprint); err != nil {
		return RegisterSignupResult{}, err
	}
	assessment, err := s.CheckFraudRisk(ctx, referrer.UserID, actor.SubjectID, in.ClientIP, in.DeviceFingerprint)
	if err != nil {
		return RegisterSignupResult{}, err
	}

	row := domain.ReferralRecord{
		ReferralID:     "ref_" + uuid.NewString(),
		ReferrerID:     referrer.UserID,
		ReferredUserID: actor.SubjectID,
		ReferralCode:   in.ReferralCode,
		Status:         domain.ReferralStatusSignedUp,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.referrals.Create(ctx, row); err != nil {
		return RegisterSignupResult{}, err
	}
	if err := s.affiliates.IncrementReferredCount(ctx, referrer.UserID, now); err != nil {
		return RegisterSignupResult{}, err
	}
	if assessment.Fraudulent {
		s.warnSideEffect(ctx, "log_fraud_attempt", s.LogFraudAttempt(ctx, referrer.UserID, in.ClientIP, in.DeviceFingerprint, assessment.Reason))
		s.warnSideEffect(ctx, "enqueue_fraud_flagged", s.enqueueFraudFlagged(ctx, referrer.UserID, actor.SubjectID, assessment.Reason, now))
	}
	s.warnSideEffect(ctx, "enqueue_referral_signed_up", s.enqueueReferralSignedUp(ctx, row, assessment.Fraudulent, now))
	return RegisterSignupResult{
		ReferralID: row.ReferralID,
		ReferrerID: row.ReferrerID,
		Status:     string(row.Status),
		Flagged:    assessment.Fraudulent,
		Reason:     assessment.Reason,
	}, nil
}

// GetStats returns the caller's own affiliate view. The scope is always the
// authenticated identity; there is no way to request another user's stats.
func (s *Service) GetStats(ctx context.Context, actor Actor) (AffiliateStats, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return AffiliateStats{}, domain.ErrUnauthorized
	}
	profile, err := s.affiliates.GetByUserID(ctx, actor.SubjectID)
	if err != nil {
		return AffiliateStats{}, err
	}
	rows, err := s.commissions.ListByReferrer(ctx, actor.SubjectID)
	if err != nil {
		return AffiliateStats{}, err
	}
	items := make([]CommissionItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, CommissionItem{
			CommissionID:     row.CommissionID,
			ReferredUserID:   row.ReferredUserID,
			PaymentReference: row.PaymentReference,
			Amount:           row.Amount,
			Status:           string(row.Status),
			CreatedAt:        row.CreatedAt,
		})
	}
	return AffiliateStats{
		UserID:        profile.UserID,
		ReferralCode:  profile.ReferralCode,
		IsActive:      profile.IsActive,
		Balance:       profile.Balance,
		ReferredCount: profile.ReferredCount,
		Commissions:   items,
	}, nil
}

// DeactivateAffiliate suspends future commission eligibility without deleting
// history. Admin only.
func (s *Service) DeactivateAffiliate(ctx context.Context, actor Actor, userID string) (domain.AffiliateProfile, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.AffiliateProfile{}, domain.ErrUnauthorized
	}
	if !isAdmin(actor) {
		return domain.AffiliateProfile{}, domain.ErrForbidden
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.AffiliateProfile{}, domain.ErrInvalidInput
	}
	if err := s.affiliates.SetActive(ctx, userID, false, s.nowFn()); err != nil {
		return domain.AffiliateProfile{}, err
	}
	return s.affiliates.GetByUserID(ctx, userID)
}

func (s *Service) ensureAffiliate(ctx context.Context, userID string) (domain.AffiliateProfile, error) {
	if row, err := s.affiliates.GetByUserID(ctx, userID); err == nil {
		return row, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.AffiliateProfile{}, err
	}
	now := s.nowFn()
	row := domain.AffiliateProfile{
		UserID:       userID,
		ReferralCode: s.newReferralCode(),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.affiliates.Create(ctx, row); err != nil {
		// Lost a race with a concurrent claim for the same user.
		if ex, err2 := s.affiliates.GetByUserID(ctx, userID); err2 == nil {
			return ex, nil
		}
		return domain.AffiliateProfile{}, err
	}
	return row, nil
}

func (s *Service) newReferralCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	if len(raw) > s.cfg.ReferralCodeLength {
		raw = raw[:s.cfg.ReferralCodeLength]
	}
	return raw
}

func isAdmin(actor Actor) bool { return strings.ToLower(strings.TrimSpace(actor.Role)) == "admin" }
