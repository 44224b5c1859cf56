package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

type Config struct {
	ServiceID          string
	HTTPPort           int
	GRPCPort           int
	DatabaseURL        string
	RedisURL           string
	KafkaBrokers       []string
	AuthTokenSecret    string
	CommissionRate     float64
	FraudLogLookback   int
	ReferralCodeLength int
	OutboxBatchSize    int
	OutboxFlush        time.Duration
	RateLimits         map[string]RateLimitConfig
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL  string   `yaml:"postgres_url"`
		RedisURL     string   `yaml:"redis_url"`
		KafkaBrokers []string `yaml:"kafka_brokers"`
	} `yaml:"dependencies"`
	Auth struct {
		TokenSecret string `yaml:"token_secret"`
	} `yaml:"auth"`
	Affiliate struct {
		CommissionRate     float64 `yaml:"commission_rate"`
		FraudLogLookback   int     `yaml:"fraud_log_lookback"`
		ReferralCodeLength int     `yaml:"referral_code_length"`
	} `yaml:"affiliate"`
	Runtime struct {
		OutboxFlushBatchSize int `yaml:"outbox_flush_batch_size"`
		OutboxFlushSeconds   int `yaml:"outbox_flush_seconds"`
	} `yaml:"runtime"`
	RateLimits map[string]struct {
		Limit         int `yaml:"limit"`
		WindowSeconds int `yaml:"window_seconds"`
	} `yaml:"rate_limits"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:          "examfever-affiliate-service",
		HTTPPort:           8080,
		GRPCPort:           9090,
		CommissionRate:     0.13,
		FraudLogLookback:   10,
		ReferralCodeLength: 8,
		OutboxBatchSize:    100,
		OutboxFlush:        2 * time.Second,
		RateLimits: map[string]RateLimitConfig{
			"auth":      {Limit: 5, Window: time.Minute},
			"expensive": {Limit: 3, Window: time.Minute},
			"api":       {Limit: 60, Window: time.Minute},
		},
	}
	if raw, err := os.ReadFile(path); err == nil {
		var f configFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = f.Dependencies.KafkaBrokers
		}
		if f.Auth.TokenSecret != "" {
			cfg.AuthTokenSecret = f.Auth.TokenSecret
		}
		if f.Affiliate.CommissionRate > 0 {
			cfg.CommissionRate = f.Affiliate.CommissionRate
		}
		if f.Affiliate.FraudLogLookback > 0 {
			cfg.FraudLogLookback = f.Affiliate.FraudLogLookback
		}
		if f.Affiliate.ReferralCodeLength > 0 {
			cfg.ReferralCodeLength = f.Affiliate.ReferralCodeLength
		}
		if f.Runtime.OutboxFlushBatchSize > 0 {
			cfg.OutboxBatchSize = f.Runtime.OutboxFlushBatchSize
		}
		if f.Runtime.OutboxFlushSeconds > 0 {
			cfg.OutboxFlush = time.Duration(f.Runtime.OutboxFlushSeconds) * time.Second
		}
		for class, rl := range f.RateLimits {
			if rl.Limit <= 0 || rl.WindowSeconds <= 0 {
				continue
			}
			cfg.RateLimits[class] = RateLimitConfig{Limit: rl.Limit, Window: time.Duration(rl.WindowSeconds) * time.Second}
		}
	}
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.DatabaseURL = envString("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisURL = envString("REDIS_URL", cfg.RedisURL)
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		cfg.KafkaBrokers = splitBrokers(raw)
	}
	cfg.AuthTokenSecret = envString("AUTH_TOKEN_SECRET", cfg.AuthTokenSecret)
	cfg.CommissionRate = envFloat("COMMISSION_RATE", cfg.CommissionRate)
	cfg.FraudLogLookback = envInt("FRAUD_LOG_LOOKBACK", cfg.FraudLogLookback)
	cfg.ReferralCodeLength = envInt("REFERRAL_CODE_LENGTH", cfg.ReferralCodeLength)
	cfg.OutboxBatchSize = envInt("OUTBOX_FLUSH_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.OutboxFlush = time.Duration(envInt("OUTBOX_FLUSH_SECONDS", int(cfg.OutboxFlush.Seconds()))) * time.Second
	return cfg, nil
}

func splitBrokers(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func envInt(name string, fallback int) int {
	if raw := os.Getenv(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

func envFloat(name string, fallback float64) float64 {
	if raw := os.Getenv(name); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return fallback
}

func envString(name, fallback string) string {
	if raw := os.Getenv(name); raw != "" {
		return raw
	}
	return fallback
}
