// Package memory provides process-local implementations of the repository
// ports. They back unit tests and store-less local runs; production wiring
// swaps in the postgres package.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Ademileke12/examfever-affiliate-service/internal/domain"
	"github.com/Ademileke12/examfever-affiliate-service/internal/ports"
)

type Repositories struct {
	Referrals   *ReferralRepository
	Affiliates  *AffiliateRepository
	Commissions *CommissionRepository
	FraudLogs   *FraudLogRepository
	Outbox      *OutboxRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		Referrals:   &ReferralRepository{byID: map[string]domain.ReferralRecord{}, byReferredUser: map[string]string{}},
		Affiliates:  &AffiliateRepository{byUserID: map[string]domain.AffiliateProfile{}, byCode: map[string]string{}},
		Commissions: &CommissionRepository{byID: map[string]domain.CommissionRecord{}, byReferrer: map[string][]string{}},
		FraudLogs:   &FraudLogRepository{},
		Outbox:      &OutboxRepository{rows: map[string]ports.OutboxRecord{}},
	}
}

type ReferralRepository struct {
	mu             sync.Mutex
	byID           map[string]domain.ReferralRecord
	byReferredUser map[string]string
}

func (r *ReferralRepository) Create(_ context.Context, row domain.ReferralRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[row.ReferralID]; ok {
		return domain.ErrConflict
	}
	if _, ok := r.byReferredUser[row.ReferredUserID]; ok {
		return domain.ErrConflict
	}
	r.byID[row.ReferralID] = row
	r.byReferredUser[row.ReferredUserID] = row.ReferralID
	return nil
}

func (r *ReferralRepository) GetByReferredUser(_ context.Context, referredUserID string) (domain.ReferralRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byReferredUser[strings.TrimSpace(referredUserID)]
	if !ok {
		return domain.ReferralRecord{}, domain.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *ReferralRepository) GetByReferredUserAndStatus(_ context.Context, referredUserID string, status domain.ReferralStatus) (domain.ReferralRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byReferredUser[strings.TrimSpace(referredUserID)]
	if !ok {
		return domain.ReferralRecord{}, domain.ErrNotFound
	}
	row := r.byID[id]
	if row.Status != status {
		return domain.ReferralRecord{}, domain.ErrNotFound
	}
	return row, nil
}

func (r *ReferralRepository) AdvanceStatus(_ context.Context, referralID string, from, to domain.ReferralStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.byID[referralID]
	if !ok || row.Status != from {
		return domain.ErrNotFound
	}
	if !from.CanAdvanceTo(to) {
		return domain.ErrConflict
	}
	row.Status = to
	row.UpdatedAt = at
	r.byID[referralID] = row
	return nil
}

func (r *ReferralRepository) CountByReferrer(_ context.Context, referrerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, row := range r.byID {
		if row.ReferrerID == referrerID {
			n++
		}
	}
	return n, nil
}

type AffiliateRepository struct {
	mu       sync.Mutex
	byUserID map[string]domain.AffiliateProfile
	byCode   map[string]string
}

func (r *AffiliateRepository) Create(_ context.Context, row domain.AffiliateProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUserID[row.UserID]; ok {
		return domain.ErrConflict
	}
	if _, ok := r.byCode[row.ReferralCode]; ok {
		return domain.ErrConflict
	}
	r.byUserID[row.UserID] = row
	r.byCode[row.ReferralCode] = row.UserID
	return nil
}

func (r *AffiliateRepository) GetByUserID(_ context.Context, userID string) (domain.AffiliateProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.byUserID[strings.TrimSpace(userID)]
	if !ok {
		return domain.AffiliateProfile{}, domain.ErrNotFound
	}
	return row, nil
}

func (r *AffiliateRepository) GetByCode(_ context.Context, referralCode string) (domain.AffiliateProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	userID, ok := r.byCode[strings.TrimSpace(referralCode)]
	if !ok {
		return domain.AffiliateProfile{}, domain.ErrNotFound
	}
	return r.byUserID[userID], nil
}

func (r *AffiliateRepository) SetActive(_ context.Context, userID string, active bool, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.byUserID[strings.TrimSpace(userID)]
	if !ok {
		return domain.ErrNotFound
	}
	row.IsActive = active
	row.UpdatedAt = at
	r.byUserID[row.UserID] = row
	return nil
}

func (r *AffiliateRepository) IncrementBalance(_ context.Context, userID string, delta float64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.byUserID[strings.TrimSpace(userID)]
	if !ok {
		return domain.ErrNotFound
	}
	row.Balance += delta
	row.UpdatedAt = at
	r.byUserID[row.UserID] = row
	return nil
}

func (r *AffiliateRepository) IncrementReferredCount(_ context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.byUserID[strings.TrimSpace(userID)]
	if !ok {
		return domain.ErrNotFound
	}
	row.ReferredCount++
	row.UpdatedAt = at
	r.byUserID[row.UserID] = row
	return nil
}

type CommissionRepository struct {
	mu         sync.Mutex
	byID       map[string]domain.CommissionRecord
	byReferrer map[string][]string
}

func (r *CommissionRepository) Create(_ context.Context, row domain.CommissionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[row.CommissionID]; ok {
		return domain.ErrConflict
	}
	r.byID[row.CommissionID] = row
	r.byReferrer[row.ReferrerID] = append(r.byReferrer[row.ReferrerID], row.CommissionID)
	return nil
}

func (r *CommissionRepository) ListByReferrer(_ context.Context, referrerID string) ([]domain.CommissionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.byReferrer[strings.TrimSpace(referrerID)]
	out := make([]domain.CommissionRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type FraudLogRepository struct {
	mu   sync.Mutex
	rows []domain.FraudLogEntry
}

func (r *FraudLogRepository) Append(_ context.Context, row domain.FraudLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, row)
	return nil
}

func (r *FraudLogRepository) ListRecentByUser(_ context.Context, userID string, limit int) ([]domain.FraudLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	userID = strings.TrimSpace(userID)
	out := make([]domain.FraudLogEntry, 0, limit)
	for i := len(r.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if r.rows[i].UserID == userID {
			out = append(out, r.rows[i])
		}
	}
	return out, nil
}

func (r *FraudLogRepository) LatestByUserAndEvent(_ context.Context, userID, eventType string) (*domain.FraudLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	userID = strings.TrimSpace(userID)
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].UserID == userID && r.rows[i].EventType == eventType {
			entry := r.rows[i]
			return &entry, nil
		}
	}
	return nil, nil
}

type OutboxRepository struct {
	mu    sync.Mutex
	rows  map[string]ports.OutboxRecord
	order []string
}

func (r *OutboxRepository) Enqueue(_ context.Context, event ports.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[event.EventID]; ok {
		return domain.ErrConflict
	}
	r.rows[event.EventID] = ports.OutboxRecord{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      event.Payload,
		FirstSeenAt:  event.OccurredAt,
	}
	r.order = append(r.order, event.EventID)
	return nil
}

func (r *OutboxRepository) FetchUnpublished(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.OutboxRecord, 0, limit)
	for _, id := range r.order {
		row := r.rows[id]
		if row.PublishedAt != nil {
			continue
		}
		out = append(out, row)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *OutboxRepository) MarkPublished(_ context.Context, outboxID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[outboxID]
	if !ok {
		return domain.ErrNotFound
	}
	row.PublishedAt = &at
	r.rows[outboxID] = row
	return nil
}

func (r *OutboxRepository) MarkFailed(_ context.Context, outboxID string, _ string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[outboxID]
	if !ok {
		return domain.ErrNotFound
	}
	row.RetryCount++
	r.rows[outboxID] = row
	return nil
}
