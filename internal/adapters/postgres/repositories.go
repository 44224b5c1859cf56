package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Ademileke12/examfever-affiliate-service/internal/domain"
	"github.com/Ademileke12/examfever-affiliate-service/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Referrals   *ReferralRepository
	Affiliates  *AffiliateRepository
	Commissions *CommissionRepository
	FraudLogs   *FraudLogRepository
	Outbox      *OutboxRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Referrals:   &ReferralRepository{db: db},
		Affiliates:  &AffiliateRepository{db: db},
		Commissions: &CommissionRepository{db: db},
		FraudLogs:   &FraudLogRepository{db: db},
		Outbox:      &OutboxRepository{db: db},
	}
}

type ReferralRepository struct {
	db *gorm.DB
}

func (r *ReferralRepository) Create(ctx context.Context, row domain.ReferralRecord) error {
	rec := referralModel{
		ReferralID:     row.ReferralID,
		ReferrerID:     row.ReferrerID,
		ReferredUserID: row.ReferredUserID,
		ReferralCode:   row.ReferralCode,
		Status:         string(row.Status),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
	err := r.db.WithContext(ctx).Create(&rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrConflict
	}
	return err
}

func (r *ReferralRepository) GetByReferredUser(ctx context.Context, referredUserID string) (domain.ReferralRecord, error) {
	var rec referralModel
	err := r.db.WithContext(ctx).Where("referred_user_id = ?", referredUserID).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ReferralRecord{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.ReferralRecord{}, err
	}
	return referralFromModel(rec), nil
}

func (r *ReferralRepository) GetByReferredUserAndStatus(ctx context.Context, referredUserID string, status domain.ReferralStatus) (domain.ReferralRecord, error) {
	var rec referralModel
	err := r.db.WithContext(ctx).Where("referred_user_id = ? AND status = ?", referredUserID, string(status)).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ReferralRecord{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.ReferralRecord{}, err
	}
	return referralFromModel(rec), nil
}

// AdvanceStatus is a single guarded UPDATE. Zero affected rows means the
// referral was not in the expected status, which callers treat as "someone
// else already moved it" rather than a failure.
func (r *ReferralRepository) AdvanceStatus(ctx context.Context, referralID string, from, to domain.ReferralStatus, at time.Time) error {
	if !from.CanAdvanceTo(to) {
		return domain.ErrConflict
	}
	res := r.db.WithContext(ctx).
		Model(&referralModel{}).
		Where("referral_id = ? AND status = ?", referralID, string(from)).
		Updates(map[string]any{"status": string(to), "updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReferralRepository) CountByReferrer(ctx context.Context, referrerID string) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&referralModel{}).Where("referrer_id = ?", referrerID).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

type AffiliateRepository struct {
	db *gorm.DB
}

func (r *AffiliateRepository) Create(ctx context.Context, row domain.AffiliateProfile) error {
	rec := affiliateModel{
		UserID:        row.UserID,
		ReferralCode:  row.ReferralCode,
		IsActive:      row.IsActive,
		Balance:       row.Balance,
		ReferredCount: row.ReferredCount,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	err := r.db.WithContext(ctx).Create(&rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrConflict
	}
	return err
}

func (r *AffiliateRepository) GetByUserID(ctx context.Context, userID string) (domain.AffiliateProfile, error) {
	var rec affiliateModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.AffiliateProfile{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.AffiliateProfile{}, err
	}
	return affiliateFromModel(rec), nil
}

func (r *AffiliateRepository) GetByCode(ctx context.Context, referralCode string) (domain.AffiliateProfile, error) {
	var rec affiliateModel
	err := r.db.WithContext(ctx).Where("referral_code = ?", referralCode).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.AffiliateProfile{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.AffiliateProfile{}, err
	}
	return affiliateFromModel(rec), nil
}

func (r *AffiliateRepository) SetActive(ctx context.Context, userID string, active bool, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&affiliateModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"is_active": active, "updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IncrementBalance pushes the addition into the database so concurrent awards
// for the same referrer cannot lose updates.
func (r *AffiliateRepository) IncrementBalance(ctx context.Context, userID string, delta float64, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&affiliateModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"balance":    gorm.Expr("balance + ?", delta),
			"updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AffiliateRepository) IncrementReferredCount(ctx context.Context, userID string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&affiliateModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"referred_count": gorm.Expr("referred_count + 1"),
			"updated_at":     at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type CommissionRepository struct {
	db *gorm.DB
}

func (r *CommissionRepository) Create(ctx context.Context, row domain.CommissionRecord) error {
	rec := commissionModel{
		CommissionID:     row.CommissionID,
		ReferrerID:       row.ReferrerID,
		ReferredUserID:   row.ReferredUserID,
		PaymentReference: row.PaymentReference,
		Amount:           row.Amount,
		Status:           string(row.Status),
		CreatedAt:        row.CreatedAt,
	}
	err := r.db.WithContext(ctx).Create(&rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrConflict
	}
	return err
}

func (r *CommissionRepository) ListByReferrer(ctx context.Context, referrerID string) ([]domain.CommissionRecord, error) {
	var rows []commissionModel
	if err := r.db.WithContext(ctx).Where("referrer_id = ?", referrerID).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.CommissionRecord, 0, len(rows))
	for _, rec := range rows {
		out = append(out, domain.CommissionRecord{
			CommissionID:     rec.CommissionID,
			ReferrerID:       rec.ReferrerID,
			ReferredUserID:   rec.ReferredUserID,
			PaymentReference: rec.PaymentReference,
			Amount:           rec.Amount,
			Status:           domain.CommissionStatus(rec.Status),
			CreatedAt:        rec.CreatedAt,
		})
	}
	return out, nil
}

type FraudLogRepository struct {
	db *gorm.DB
}

func (r *FraudLogRepository) Append(ctx context.Context, row domain.FraudLogEntry) error {
	meta := "{}"
	if len(row.Metadata) > 0 {
		if raw, err := json.Marshal(row.Metadata); err == nil {
			meta = string(raw)
		}
	}
	rec := fraudLogModel{
		EntryID:           row.EntryID,
		UserID:            row.UserID,
		DeviceFingerprint: row.DeviceFingerprint,
		EventType:         row.EventType,
		Flagged:           row.Flagged,
		Metadata:          meta,
		CreatedAt:         row.CreatedAt,
	}
	if row.IPAddress != "" {
		ip := row.IPAddress
		rec.IPAddress = &ip
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *FraudLogRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]domain.FraudLogEntry, error) {
	var rows []fraudLogModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.FraudLogEntry, 0, len(rows))
	for _, rec := range rows {
		out = append(out, fraudLogFromModel(rec))
	}
	return out, nil
}

func (r *FraudLogRepository) LatestByUserAndEvent(ctx context.Context, userID, eventType string) (*domain.FraudLogEntry, error) {
	var rec fraudLogModel
	err := r.db.WithContext(ctx).Where("user_id = ? AND event_type = ?", userID, eventType).Order("created_at desc").Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	entry := fraudLogFromModel(rec)
	return &entry, nil
}

type OutboxRepository struct {
	db *gorm.DB
}

func (r *OutboxRepository) Enqueue(ctx context.Context, event ports.OutboxEvent) error {
	rec := outboxModel{
		OutboxID:         event.EventID,
		EventType:        event.EventType,
		PartitionKey:     event.PartitionKey,
		PartitionKeyPath: event.PartitionKeyPath,
		Payload:          string(event.Payload),
		SchemaVersion:    event.SchemaVersion,
		TraceID:          event.TraceID,
		CreatedAt:        event.OccurredAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *OutboxRepository) FetchUnpublished(ctx context.Context, limit int) ([]ports.OutboxRecord, error) {
	var rows []outboxModel
	if err := r.db.WithContext(ctx).Where("published_at IS NULL").Order("created_at asc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.OutboxRecord, 0, len(rows))
	for _, rec := range rows {
		out = append(out, ports.OutboxRecord{
			OutboxID:     rec.OutboxID,
			EventType:    rec.EventType,
			PartitionKey: rec.PartitionKey,
			Payload:      []byte(rec.Payload),
			RetryCount:   rec.RetryCount,
			PublishedAt:  rec.PublishedAt,
			FirstSeenAt:  rec.CreatedAt,
		})
	}
	return out, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, outboxID string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&outboxModel{}).Where("outbox_id = ?", outboxID).Update("published_at", at).Error
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, outboxID string, errMsg string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&outboxModel{}).Where("outbox_id = ?", outboxID).Updates(map[string]any{
		"retry_count":   gorm.Expr("retry_count + 1"),
		"last_error":    errMsg,
		"last_error_at": at,
	}).Error
}

func referralFromModel(rec referralModel) domain.ReferralRecord {
	return domain.ReferralRecord{
		ReferralID:     rec.ReferralID,
		ReferrerID:     rec.ReferrerID,
		ReferredUserID: rec.ReferredUserID,
		ReferralCode:   rec.ReferralCode,
		Status:         domain.ReferralStatus(rec.Status),
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
}

func affiliateFromModel(rec affiliateModel) domain.AffiliateProfile {
	return domain.AffiliateProfile{
		UserID:        rec.UserID,
		ReferralCode:  rec.ReferralCode,
		IsActive:      rec.IsActive,
		Balance:       rec.Balance,
		ReferredCount: rec.ReferredCount,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}

func fraudLogFromModel(rec fraudLogModel) domain.FraudLogEntry {
	entry := domain.FraudLogEntry{
		EntryID:           rec.EntryID,
		UserID:            rec.UserID,
		DeviceFingerprint: rec.DeviceFingerprint,
		EventType:         rec.EventType,
		Flagged:           rec.Flagged,
		CreatedAt:         rec.CreatedAt,
	}
	if rec.IPAddress != nil {
		entry.IPAddress = *rec.IPAddress
	}
	if rec.Metadata != "" && rec.Metadata != "{}" {
		meta := map[string]string{}
		if json.Unmarshal([]byte(rec.Metadata), &meta) == nil {
			entry.Metadata = meta
		}
	}
	return entry
}
