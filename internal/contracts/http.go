package contracts

type SuccessResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

type ErrorResponse struct {
	Status     string `json:"status"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after_seconds,omitempty"`
}

type ClaimReferralCodeResponse struct {
	ReferralCode string `json:"referral_code"`
	IsActive     bool   `json:"is_active"`
}

type RegisterSignupRequest struct {
	ReferralCode string `json:"referral_code"`
}

type RegisterSignupResponse struct {
	ReferralID string `json:"referral_id"`
	ReferrerID string `json:"referrer_id"`
	Status     string `json:"status"`
	Flagged    bool   `json:"flagged"`
	Reason     string `json:"reason,omitempty"`
}

type PaymentCompletedRequest struct {
	UserID           string  `json:"user_id"`
	AmountPaid       float64 `json:"amount_paid"`
	PaymentReference string  `json:"payment_reference"`
}

type PaymentCompletedResponse struct {
	Awarded    bool    `json:"awarded"`
	Commission float64 `json:"commission,omitempty"`
	ReferrerID string  `json:"referrer_id,omitempty"`
}

type CommissionItem struct {
	CommissionID     string  `json:"commission_id"`
	ReferredUserID   string  `json:"referred_user_id"`
	PaymentReference string  `json:"payment_reference"`
	Amount           float64 `json:"amount"`
	Status           string  `json:"status"`
	CreatedAt        string  `json:"created_at"`
}

type AffiliateStatsResponse struct {
	UserID        string           `json:"user_id"`
	ReferralCode  string           `json:"referral_code"`
	IsActive      bool             `json:"is_active"`
	Balance       float64          `json:"balance"`
	ReferredCount int              `json:"referred_count"`
	Commissions   []CommissionItem `json:"commissions"`
}

type DeactivateAffiliateResponse struct {
	UserID    string `json:"user_id"`
	IsActive  bool   `json:"is_active"`
	UpdatedAt string `json:"updated_at"`
}
