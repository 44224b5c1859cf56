package application

import (
	"time"

	"github.com/Ademileke12/examfever-affiliate-service/internal/ports"
)

// RateLimitPolicy is one route class's admission budget.
type RateLimitPolicy struct {
	Limit  int
	Window time.Duration
}

// Route classes. Each class counts in its own namespace; a caller's usage of
// one class never consumes another's budget.
const (
	RateLimitClassAuth      = "auth"
	RateLimitClassExpensive = "expensive"
	RateLimitClassAPI       = "api"
)

type Config struct {
	ServiceName        string
	CommissionRate     float64
	FraudLogLookback   int
	ReferralCodeLength int
	OutboxBatchSize    int
	RateLimits         map[string]RateLimitPolicy
}

// Actor is the authenticated caller. SubjectID comes from the verified session
// token only; identifiers carried in request payloads are never trusted.
type Actor struct {
	SubjectID string
	Role      string
	RequestID string
}

type RegisterSignupInput struct {
	ReferralCode      string
	ClientIP          string
	DeviceFingerprint string
}

type RegisterSignupResult struct {
	ReferralID string
	ReferrerID string
	Status     string
	Flagged    bool
	Reason     string
}

type CommissionResult struct {
	Commission float64
	ReferrerID string
}

type AffiliateStats struct {
	UserID        string
	ReferralCode  string
	IsActive      bool
	Balance       float64
	ReferredCount int
	Commissions   []CommissionItem
}

type CommissionItem struct {
	CommissionID     string
	ReferredUserID   string
	PaymentReference string
	Amount           float64
	Status           string
	CreatedAt        time.Time
}

type Service struct {
	cfg Config

	referrals   ports.ReferralRepository
	affiliates  ports.AffiliateRepository
	commissions ports.CommissionRepository
	fraudLogs   ports.FraudLogRepository
	outbox      ports.OutboxRepository
	publisher   ports.EventPublisher
	rateLimits  ports.RateLimitStore

	nowFn func() time.Time
}

type Dependencies struct {
	Config Config

	Referrals   ports.ReferralRepository
	Affiliates  ports.AffiliateRepository
	Commissions ports.CommissionRepository
	FraudLogs   ports.FraudLogRepository
	Outbox      ports.OutboxRepository
	Publisher   ports.EventPublisher
	RateLimits  ports.RateLimitStore
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "examfever-affiliate-service"
	}
	if cfg.CommissionRate <= 0 {
		cfg.CommissionRate = 0.13
	}
	if cfg.FraudLogLookback <= 0 {
		cfg.FraudLogLookback = 10
	}
	if cfg.ReferralCodeLength <= 0 {
		cfg.ReferralCodeLength = 8
	}
	if cfg.OutboxBatchSize <= 0 {
		cfg.OutboxBatchSize = 100
	}
	if cfg.RateLimits == nil {
		cfg.RateLimits = DefaultRateLimits()
	}
	return &Service{
		cfg:         cfg,
		referrals:   deps.Referrals,
		affiliates:  deps.Affiliates,
		commissions: deps.Commissions,
		fraudLogs:   deps.FraudLogs,
		outbox:      deps.Outbox,
		publisher:   deps.Publisher,
		rateLimits:  deps.RateLimits,
		nowFn:       func() time.Time { return time.Now().UTC() },
	}
}

// DefaultRateLimits is the reference policy table: authentication routes get
// the tightest budget, expensive processing routes an even smaller one, and
// everything else a moderate default over the same window.
func DefaultRateLimits() map[string]RateLimitPolicy {
	return map[string]RateLimitPolicy{
		RateLimitClassAuth:      {Limit: 5, Window: time.Minute},
		RateLimitClassExpensive: {Limit: 3, Window: time.Minute},
		RateLimitClassAPI:       {Limit: 60, Window: time.Minute},
	}
}
