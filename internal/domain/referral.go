package domain

import (
	"math"
	"time"
)

type ReferralStatus string

const (
	ReferralStatusPending   ReferralStatus = "pending"
	ReferralStatusSignedUp  ReferralStatus = "signed_up"
	ReferralStatusConverted ReferralStatus = "converted"
)

// statusRank orders the referral lifecycle. Status only ever moves forward.
func statusRank(s ReferralStatus) int {
	switch s {
	case ReferralStatusPending:
		return 0
	case ReferralStatusSignedUp:
		return 1
	case ReferralStatusConverted:
		return 2
	default:
		return -1
	}
}

// CanAdvanceTo reports whether a transition respects the forward-only lifecycle.
func (s ReferralStatus) CanAdvanceTo(next ReferralStatus) bool {
	cur, nxt := statusRank(s), statusRank(next)
	return cur >= 0 && nxt >= 0 && nxt > cur
}

// ReferralRecord is one referrer-to-referred relationship.
// At most one active record exists per referred user; records are never deleted.
type ReferralRecord struct {
	ReferralID     string         `json:"referral_id"`
	ReferrerID     string         `json:"referrer_id"`
	ReferredUserID string         `json:"referred_user_id"`
	ReferralCode   string         `json:"referral_code"`
	Status         ReferralStatus `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// AffiliateProfile exists for every user who has ever claimed a referral code.
// Balance moves only through atomic increments issued by the commission engine.
type AffiliateProfile struct {
	UserID        string    `json:"user_id"`
	ReferralCode  string    `json:"referral_code"`
	IsActive      bool      `json:"is_active"`
	Balance       float64   `json:"balance"`
	ReferredCount int       `json:"referred_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CommissionStatus string

const (
	CommissionStatusPaid CommissionStatus = "paid"
	CommissionStatusVoid CommissionStatus = "void"
)

// CommissionRecord is an immutable ledger entry. Exactly one paid record exists
// per referred user's first qualifying payment; only status may later flip to void.
type CommissionRecord struct {
	CommissionID     string           `json:"commission_id"`
	ReferrerID       string           `json:"referrer_id"`
	ReferredUserID   string           `json:"referred_user_id"`
	PaymentReference string           `json:"payment_reference"`
	Amount           float64          `json:"amount"`
	Status           CommissionStatus `json:"status"`
	CreatedAt        time.Time        `json:"created_at"`
}

// CommissionFor computes the commission owed on a payment, rounded to the
// nearest whole currency unit. No fractional sub-units are retained.
func CommissionFor(amountPaid, rate float64) float64 {
	if amountPaid <= 0 || rate <= 0 {
		return 0
	}
	return math.Round(amountPaid * rate)
}
