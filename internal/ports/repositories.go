package ports

import (
	"context"
	"time"

	"github.com/Ademileke12/examfever-affiliate-service/internal/domain"
)

type ReferralRepository interface {
	Create(ctx context.Context, row domain.ReferralRecord) error
	GetByReferredUser(ctx context.Context, referredUserID string) (domain.ReferralRecord, error)
	GetByReferredUserAndStatus(ctx context.Context, referredUserID string, status domain.ReferralStatus) (domain.ReferralRecord, error)
	// AdvanceStatus flips a referral from one status to the next in a single
	// guarded update. It returns domain.ErrNotFound when no row currently
	// holds the expected status, which is what makes duplicate conversion
	// attempts a no-op instead of a double award.
	AdvanceStatus(ctx context.Context, referralID string, from, to domain.ReferralStatus, at time.Time) error
	CountByReferrer(ctx context.Context, referrerID string) (int, error)
}

type AffiliateRepository interface {
	Create(ctx context.Context, row domain.AffiliateProfile) error
	GetByUserID(ctx context.Context, userID string) (domain.AffiliateProfile, error)
	GetByCode(ctx context.Context, referralCode string) (domain.AffiliateProfile, error)
	SetActive(ctx context.Context, userID string, active bool, at time.Time) error
	// IncrementBalance must be a database-side atomic increment, never a
	// read-modify-write round trip. Concurrent payments for the same referrer
	// are the realistic failure scenario this guards against.
	IncrementBalance(ctx context.Context, userID string, delta float64, at time.Time) error
	IncrementReferredCount(ctx context.Context, userID string, at time.Time) error
}

type CommissionRepository interface {
	Create(ctx context.Context, row domain.CommissionRecord) error
	ListByReferrer(ctx context.Context, referrerID string) ([]domain.CommissionRecord, error)
}

type FraudLogRepository interface {
	Append(ctx context.Context, row domain.FraudLogEntry) error
	// ListRecentByUser returns at most limit entries, newest first.
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]domain.FraudLogEntry, error)
	// LatestByUserAndEvent returns nil (not an error) when the user has no
	// entry of the given event type.
	LatestByUserAndEvent(ctx context.Context, userID, eventType string) (*domain.FraudLogEntry, error)
}
