package domain

import (
	"strconv"
	"strings"
	"time"
)

const (
	FraudEventSignupAttempt   = "signup_attempt"
	FraudEventReferralAttempt = "referral_attempt"
)

// FraudLogEntry is an append-only observation used for retrospective
// correlation. Entries are never updated or deleted.
type FraudLogEntry struct {
	EntryID           string            `json:"entry_id"`
	UserID            string            `json:"user_id"`
	IPAddress         string            `json:"ip_address,omitempty"`
	DeviceFingerprint string            `json:"device_fingerprint"`
	EventType         string            `json:"event_type"`
	Flagged           bool              `json:"flagged"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// FraudAssessment is advisory. Callers decide what to do with it; the engine
// never blocks an operation itself.
type FraudAssessment struct {
	Fraudulent bool   `json:"fraudulent"`
	Reason     string `json:"reason,omitempty"`
}

// DeriveDeviceFingerprint hashes request header values into a weak device
// identity. Identical header sets always produce the same fingerprint; that
// collision tolerance is the matching signal, not a defect.
func DeriveDeviceFingerprint(userAgent, acceptLanguage, acceptEncoding, accept string) string {
	raw := strings.Join([]string{userAgent, acceptLanguage, acceptEncoding, accept}, "|")
	var h int32
	for _, b := range []byte(raw) {
		h = h*31 + int32(b)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 36)
}

// AssessReferralRisk correlates a referrer's recent history against the
// referred user's logged signup attempt. Missing data on either side resolves
// as not fraudulent: absence of evidence is not evidence of fraud.
//
// The IP rule wins over the device rule; the two reasons are reported
// distinctly, never merged.
func AssessReferralRisk(referrerLogs []FraudLogEntry, referredSignup *FraudLogEntry, currentIP, currentFingerprint string) FraudAssessment {
	if referredSignup == nil || len(referrerLogs) == 0 {
		return FraudAssessment{}
	}
	if currentIP != "" && referredSignup.IPAddress != "" {
		for _, entry := range referrerLogs {
			if entry.IPAddress != "" && entry.IPAddress == referredSignup.IPAddress {
				return FraudAssessment{Fraudulent: true, Reason: "IP address match between referrer and referred user"}
			}
		}
	}
	fingerprint := referredSignup.DeviceFingerprint
	if fingerprint == "" {
		fingerprint = currentFingerprint
	}
	if fingerprint != "" {
		for _, entry := range referrerLogs {
			if entry.DeviceFingerprint == fingerprint {
				return FraudAssessment{Fraudulent: true, Reason: "device fingerprint match between referrer and referred user"}
			}
		}
	}
	return FraudAssessment{}
}
