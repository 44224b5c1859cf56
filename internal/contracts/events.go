package contracts

type ReferralSignedUpPayload struct {
	ReferralID     string `json:"referral_id"`
	ReferrerID     string `json:"referrer_id"`
	ReferredUserID string `json:"referred_user_id"`
	Flagged        bool   `json:"flagged"`
	SignedUpAt     string `json:"signed_up_at"`
}

type ReferralConvertedPayload struct {
	ReferralID     string `json:"referral_id"`
	ReferrerID     string `json:"referrer_id"`
	ReferredUserID string `json:"referred_user_id"`
	ConvertedAt    string `json:"converted_at"`
}

type CommissionAwardedPayload struct {
	CommissionID     string  `json:"commission_id"`
	ReferrerID       string  `json:"referrer_id"`
	ReferredUserID   string  `json:"referred_user_id"`
	Amount           float64 `json:"amount"`
	PaymentReference string  `json:"payment_reference"`
	AwardedAt        string  `json:"awarded_at"`
}

type FraudFlaggedPayload struct {
	ReferrerID     string `json:"referrer_id"`
	ReferredUserID string `json:"referred_user_id"`
	Reason         string `json:"reason"`
	FlaggedAt      string `json:"flagged_at"`
}
