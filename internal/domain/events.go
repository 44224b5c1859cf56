package domain

const (
	EventReferralSignedUp  = "referral.signed_up"
	EventReferralConverted = "referral.converted"
	EventCommissionAwarded = "commission.awarded"
	EventFraudFlagged      = "fraud.flagged"
)

func IsEmittedEvent(eventType string) bool {
	switch eventType {
	case EventReferralSignedUp, EventReferralConverted, EventCommissionAwarded, EventFraudFlagged:
		return true
	default:
		return false
	}
}

func PartitionKeyPath(eventType string) string {
	if IsEmittedEvent(eventType) {
		return "data.referrer_id"
	}
	return ""
}
