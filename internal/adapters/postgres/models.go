package postgres

import "time"

type referralModel struct {
	ReferralID     string    `gorm:"column:referral_id;primaryKey"`
	ReferrerID     string    `gorm:"column:referrer_id;index"`
	ReferredUserID string    `gorm:"column:referred_user_id;uniqueIndex"`
	ReferralCode   string    `gorm:"column:referral_code"`
	Status         string    `gorm:"column:status;index"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (referralModel) TableName() string { return "referrals" }

type affiliateModel struct {
	UserID        string    `gorm:"column:user_id;primaryKey"`
	ReferralCode  string    `gorm:"column:referral_code;uniqueIndex"`
	IsActive      bool      `gorm:"column:is_active"`
	Balance       float64   `gorm:"column:balance"`
	ReferredCount int       `gorm:"column:referred_count"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (affiliateModel) TableName() string { return "affiliate_profiles" }

type commissionModel struct {
	CommissionID     string    `gorm:"column:commission_id;primaryKey"`
	ReferrerID       string    `gorm:"column:referrer_id;index"`
	ReferredUserID   string    `gorm:"column:referred_user_id"`
	PaymentReference string    `gorm:"column:payment_reference"`
	Amount           float64   `gorm:"column:amount"`
	Status           string    `gorm:"column:status"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (commissionModel) TableName() string { return "commission_records" }

type fraudLogModel struct {
	EntryID           string    `gorm:"column:entry_id;primaryKey"`
	UserID            string    `gorm:"column:user_id;index"`
	IPAddress         *string   `gorm:"column:ip_address"`
	DeviceFingerprint string    `gorm:"column:device_fingerprint"`
	EventType         string    `gorm:"column:event_type"`
	Flagged           bool      `gorm:"column:flagged"`
	Metadata          string    `gorm:"column:metadata"`
	CreatedAt         time.Time `gorm:"column:created_at"`
}

func (fraudLogModel) TableName() string { return "fraud_logs" }

type outboxModel struct {
	OutboxID         string     `gorm:"column:outbox_id;primaryKey"`
	EventType        string     `gorm:"column:event_type"`
	PartitionKey     string     `gorm:"column:partition_key"`
	PartitionKeyPath string     `gorm:"column:partition_key_path"`
	Payload          string     `gorm:"column:payload"`
	SchemaVersion    string     `gorm:"column:schema_version"`
	TraceID          string     `gorm:"column:trace_id"`
	RetryCount       int        `gorm:"column:retry_count"`
	LastError        *string    `gorm:"column:last_error"`
	LastErrorAt      *time.Time `gorm:"column:last_error_at"`
	PublishedAt      *time.Time `gorm:"column:published_at"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
}

func (outboxModel) TableName() string { return "event_outbox" }
