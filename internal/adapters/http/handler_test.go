package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	eventadapter "github.com/Ademileke12/examfever-affiliate-service/internal/adapters/events"
	"github.com/Ademileke12/examfever-affiliate-service/internal/adapters/memory"
	"github.com/Ademileke12/examfever-affiliate-service/internal/application"
	"github.com/Ademileke12/examfever-affiliate-service/internal/domain"
	"github.com/Ademileke12/examfever-affiliate-service/internal/ports"
)

// stubVerifier accepts tokens of the form "user-id|role".
type stubVerifier struct{}

func (stubVerifier) Verify(raw string) (ports.AuthClaims, error) {
	parts := strings.SplitN(raw, "|", 2)
	if len(parts) != 2 || parts[0] == "" {
		return ports.AuthClaims{}, errors.New("invalid token")
	}
	return ports.AuthClaims{UserID: parts[0], Role: parts[1], ExpiresAt: time.Now().Add(time.Hour)}, nil
}

// probingAffiliates records whether any repository method was reached.
type probingAffiliates struct {
	inner   ports.AffiliateRepository
	touched bool
}

func (p *probingAffiliates) Create(ctx context.Context, row domain.AffiliateProfile) error {
	p.touched = true
	return p.inner.Create(ctx, row)
}
func (p *probingAffiliates) GetByUserID(ctx context.Context, userID string) (domain.AffiliateProfile, error) {
	p.touched = true
	return p.inner.GetByUserID(ctx, userID)
}
func (p *probingAffiliates) GetByCode(ctx context.Context, code string) (domain.AffiliateProfile, error) {
	p.touched = true
	return p.inner.GetByCode(ctx, code)
}
func (p *probingAffiliates) SetActive(ctx context.Context, userID string, active bool, at time.Time) error {
	p.touched = true
	return p.inner.SetActive(ctx, userID, active, at)
}
func (p *probingAffiliates) IncrementBalance(ctx context.Context, userID string, delta float64, at time.Time) error {
	p.touched = true
	return p.inner.IncrementBalance(ctx, userID, delta, at)
}
func (p *probingAffiliates) IncrementReferredCount(ctx context.Context, userID string, at time.Time) error {
	p.touched = true
	return p.inner.IncrementReferredCount(ctx, userID, at)
}

type envelope struct {
	Status  string          `json:"status"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) (*httptest.Server, *probingAffiliates) {
	t.Helper()
	repos := memory.NewRepositories()
	probe := &probingAffiliates{inner: repos.Affiliates}
	svc := application.NewService(application.Dependencies{
		Referrals: repos.Referrals, Affiliates: probe, Commissions: repos.Commissions,
		FraudLogs: repos.FraudLogs, Outbox: repos.Outbox,
		Publisher:  eventadapter.NewMemoryPublisher(),
		RateLimits: memory.NewSlidingWindowStore(),
	})
	server := httptest.NewServer(NewRouter(NewHandler(svc), stubVerifier{}))
	t.Cleanup(server.Close)
	return server, probe
}

func doJSON(t *testing.T, method, url, token string, body any, extraHeaders map[string]string) (*http.Response, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp, env
}

func TestUnauthenticatedRejectedBeforeDataAccess(t *testing.T) {
	server, probe := newTestServer(t)

	resp, env := doJSON(t, http.MethodGet, server.URL+"/api/v1/affiliate/stats", "", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if env.Code != "unauthorized" {
		t.Fatalf("expected unauthorized code, got %s", env.Code)
	}
	if probe.touched {
		t.Fatalf("repository must not be reached for an unauthenticated request")
	}

	resp, _ = doJSON(t, http.MethodGet, server.URL+"/api/v1/affiliate/stats", "", nil, map[string]string{"Authorization": "Bearer "})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("empty bearer token: expected 401, got %d", resp.StatusCode)
	}
	if probe.touched {
		t.Fatalf("repository must not be reached for an empty token")
	}
}

func TestStatsIgnoresForeignUserIDParam(t *testing.T) {
	server, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/v1/affiliate/code", "user-a|affiliate", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("claim code: expected 200, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/v1/affiliate/code", "user-b|affiliate", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("claim code: expected 200, got %d", resp.StatusCode)
	}

	resp, env := doJSON(t, http.MethodGet, server.URL+"/api/v1/affiliate/stats?user_id=user-b", "user-a|affiliate", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d", resp.StatusCode)
	}
	var data struct {
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if data.UserID != "user-a" {
		t.Fatalf("stats scope must come from the token, got %s", data.UserID)
	}
}

func TestSignupRateLimited(t *testing.T) {
	server, _ := newTestServer(t)

	resp, env := doJSON(t, http.MethodPost, server.URL+"/api/v1/affiliate/code", "user-ref|affiliate", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("claim code: expected 200, got %d", resp.StatusCode)
	}
	var claim struct {
		ReferralCode string `json:"referral_code"`
	}
	if err := json.Unmarshal(env.Data, &claim); err != nil {
		t.Fatalf("decode claim: %v", err)
	}

	body := map[string]string{"referral_code": claim.ReferralCode}
	for i := 0; i < 5; i++ {
		resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/v1/referrals/signup", "buyer|user", body, nil)
		if resp.StatusCode == http.StatusTooManyRequests {
			t.Fatalf("call %d must not be rate limited", i+1)
		}
	}
	resp, env = doJSON(t, http.MethodPost, server.URL+"/api/v1/referrals/signup", "buyer|user", body, nil)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("sixth call within the window must be rejected, got %d", resp.StatusCode)
	}
	if env.Code != "rate_limited" {
		t.Fatalf("expected rate_limited code, got %s", env.Code)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Fatalf("429 must carry a Retry-After header")
	}
	if resp.Header.Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("expected remaining 0, got %q", resp.Header.Get("X-RateLimit-Remaining"))
	}
}

func TestPaymentWebhookAwardsCommission(t *testing.T) {
	server, _ := newTestServer(t)

	resp, env := doJSON(t, http.MethodPost, server.URL+"/api/v1/affiliate/code", "user-ref|affiliate", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("claim code: expected 200, got %d", resp.StatusCode)
	}
	var claim struct {
		ReferralCode string `json:"referral_code"`
	}
	if err := json.Unmarshal(env.Data, &claim); err != nil {
		t.Fatalf("decode claim: %v", err)
	}

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/v1/referrals/signup", "buyer|user",
		map[string]string{"referral_code": claim.ReferralCode},
		map[string]string{"X-Forwarded-For": "198.51.100.7", "User-Agent": "test-agent"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d", resp.StatusCode)
	}

	resp, env = doJSON(t, http.MethodPost, server.URL+"/api/v1/webhooks/payments", "payments-svc|service",
		map[string]any{"user_id": "buyer", "amount_paid": 10000, "payment_reference": "pay-1"}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("webhook: expected 200, got %d", resp.StatusCode)
	}
	var award struct {
		Awarded    bool    `json:"awarded"`
		Commission float64 `json:"commission"`
		ReferrerID string  `json:"referrer_id"`
	}
	if err := json.Unmarshal(env.Data, &award); err != nil {
		t.Fatalf("decode award: %v", err)
	}
	if !award.Awarded || award.Commission != 1300 || award.ReferrerID != "user-ref" {
		t.Fatalf("unexpected award: %+v", award)
	}

	// Redelivery of the same payment must not pay twice.
	resp, env = doJSON(t, http.MethodPost, server.URL+"/api/v1/webhooks/payments", "payments-svc|service",
		map[string]any{"user_id": "buyer", "amount_paid": 10000, "payment_reference": "pay-1"}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("webhook redelivery: expected 200, got %d", resp.StatusCode)
	}
	if err := json.Unmarshal(env.Data, &award); err != nil {
		t.Fatalf("decode redelivery: %v", err)
	}
	if award.Awarded {
		t.Fatalf("redelivered payment must not award again")
	}
}

func TestDeactivateRequiresAdminRole(t *testing.T) {
	server, _ := newTestServer(t)
	resp, env := doJSON(t, http.MethodPost, server.URL+"/api/v1/admin/affiliates/user-x/deactivate", "user-y|affiliate", nil, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if env.Code != "forbidden" {
		t.Fatalf("expected forbidden code, got %s", env.Code)
	}
}

func TestClientIPPrecedence(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.1, 10.0.0.1")
	req.Header.Set("X-Real-IP", "203.0.113.2")
	req.Header.Set("CF-Connecting-IP", "203.0.113.3")
	if ip := clientIP(req); ip != "203.0.113.1" {
		t.Fatalf("X-Forwarded-For first hop must win, got %s", ip)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "203.0.113.2")
	req.Header.Set("CF-Connecting-IP", "203.0.113.3")
	if ip := clientIP(req); ip != "203.0.113.2" {
		t.Fatalf("X-Real-IP must beat CF-Connecting-IP, got %s", ip)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-Connecting-IP", "203.0.113.3")
	if ip := clientIP(req); ip != "203.0.113.3" {
		t.Fatalf("CF-Connecting-IP is the last fallback, got %s", ip)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	if ip := clientIP(req); ip != "" {
		t.Fatalf("no proxy headers must resolve to empty, got %s", ip)
	}
}
