package application

import (
	"context"
	"strings"

	"github.com/Ademileke12/examfever-affiliate-service/internal/domain"
	"github.com/google/uuid"
)

// CheckFraudRisk decides whether a referrer and a referred user are
// suspiciously correlated. It is a pure read: it never writes an observation
// and never blocks anything itself. Missing logs on either side resolve as
// not fraudulent.
func (s *Service) CheckFraudRisk(ctx context.Context, referrerID, referredUserID, currentIP, currentFingerprint string) (domain.FraudAssessment, error) {
	referrerID = strings.TrimSpace(referrerID)
	referredUserID = strings.TrimSpace(referredUserID)
	if referrerID == "" || referredUserID == "" || referrerID == referredUserID {
		return domain.FraudAssessment{}, domain.ErrInvalidInput
	}
	referrerLogs, err := s.fraudLogs.ListRecentByUser(ctx, referrerID, s.cfg.FraudLogLookback)
	if err != nil {
		return domain.FraudAssessment{}, err
	}
	signup, err := s.fraudLogs.LatestByUserAndEvent(ctx, referredUserID, domain.FraudEventSignupAttempt)
	if err != nil {
		return domain.FraudAssessment{}, err
	}
	return domain.AssessReferralRisk(referrerLogs, signup, currentIP, currentFingerprint), nil
}

// LogSignupAttempt appends the referred user's signup observation. Logging is
// always an explicit call by the flow that owns the request, never a side
// effect of the risk check.
func (s *Service) LogSignupAttempt(ctx context.Context, userID, clientIP, fingerprint string) error {
	return s.appendFraudLog(ctx, userID, clientIP, fingerprint, domain.FraudEventSignupAttempt, false, nil)
}

// LogFraudAttempt appends a flagged observation against the referrer with the
// assessment's reason, preserving the append-only fraud trail.
func (s *Service) LogFraudAttempt(ctx context.Context, userID, clientIP, fingerprint, reason string) error {
	return s.appendFraudLog(ctx, userID, clientIP, fingerprint, domain.FraudEventReferralAttempt, true, map[string]string{"reason": reason})
}

func (s *Service) appendFraudLog(ctx context.Context, userID, clientIP, fingerprint, eventType string, flagged bool, metadata map[string]string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrInvalidInput
	}
	return s.fraudLogs.Append(ctx, domain.FraudLogEntry{
		EntryID:           "flog_" + uuid.NewString(),
		UserID:            userID,
		IPAddress:         strings.TrimSpace(clientIP),
		DeviceFingerprint: strings.TrimSpace(fingerprint),
		EventType:         eventType,
		Flagged:           flagged,
		Metadata:          metadata,
		CreatedAt:         s.nowFn(),
	})
}
