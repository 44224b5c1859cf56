package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Ademileke12/examfever-affiliate-service/internal/application"
	"github.com/Ademileke12/examfever-affiliate-service/internal/contracts"
	"github.com/Ademileke12/examfever-affiliate-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

type Handler struct{ service *application.Service }

func NewHandler(service *application.Service) *Handler { return &Handler{service: service} }

func (h *Handler) claimReferralCode(w http.ResponseWriter, r *http.Request) {
	row, err := h.service.ClaimReferralCode(r.Context(), actorFromContext(r.Context()))
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, contracts.ClaimReferralCodeResponse{
		ReferralCode: row.ReferralCode,
		IsActive:     row.IsActive,
	})
}

func (h *Handler) registerSignup(w http.ResponseWriter, r *http.Request) {
	var req contracts.RegisterSignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body")
		return
	}
	out, err := h.service.RegisterSignup(r.Context(), actorFromContext(r.Context()), application.RegisterSignupInput{
		ReferralCode:      strings.TrimSpace(req.ReferralCode),
		ClientIP:          clientIP(r),
		DeviceFingerprint: deviceFingerprint(r),
	})
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error())
		return
	}
	writeSuccess(w, http.StatusCreated, contracts.RegisterSignupResponse{
		ReferralID: out.ReferralID,
		ReferrerID: out.ReferrerID,
		Status:     out.Status,
		Flagged:    out.Flagged,
		Reason:     out.Reason,
	})
}

// getStats returns the calling affiliate's own stats. The subject comes from
// the verified token only; query or body identifiers are ignored.
func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.GetStats(r.Context(), actorFromContext(r.Context()))
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error())
		return
	}
	items := make([]contracts.CommissionItem, 0, len(out.Commissions))
	for _, row := range out.Commissions {
		items = append(items, contracts.CommissionItem{
			CommissionID:     row.CommissionID,
			ReferredUserID:   row.ReferredUserID,
			PaymentReference: row.PaymentReference,
			Amount:           row.Amount,
			Status:           row.Status,
			CreatedAt:        row.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeSuccess(w, http.StatusOK, contracts.AffiliateStatsResponse{
		UserID:        out.UserID,
		ReferralCode:  out.ReferralCode,
		IsActive:      out.IsActive,
		Balance:       out.Balance,
		ReferredCount: out.ReferredCount,
		Commissions:   items,
	})
}

func (h *Handler) paymentCompleted(w http.ResponseWriter, r *http.Request) {
	var req contracts.PaymentCompletedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body")
		return
	}
	out, err := h.service.AwardCommissionIfEligible(r.Context(), strings.TrimSpace(req.UserID), req.AmountPaid, strings.TrimSpace(req.PaymentReference))
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error())
		return
	}
	if out == nil {
		writeSuccess(w, http.StatusOK, contracts.PaymentCompletedResponse{Awarded: false})
		return
	}
	writeSuccess(w, http.StatusOK, contracts.PaymentCompletedResponse{
		Awarded:    true,
		Commission: out.Commission,
		ReferrerID: out.ReferrerID,
	})
}

func (h *Handler) deactivateAffiliate(w http.ResponseWriter, r *http.Request) {
	row, err := h.service.DeactivateAffiliate(r.Context(), actorFromContext(r.Context()), chi.URLParam(r, "user_id"))
	if err != nil {
		code, c := mapDomainError(err)
		writeError(w, code, c, err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, contracts.DeactivateAffiliateResponse{
		UserID:    row.UserID,
		IsActive:  row.IsActive,
		UpdatedAt: row.UpdatedAt.UTC().Format(time.RFC3339),
	})
}

// clientIP resolves the caller address from proxy headers in fixed precedence:
// first X-Forwarded-For hop, then X-Real-IP, then CF-Connecting-IP. Empty when
// none are present.
func clientIP(r *http.Request) string {
	if raw := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); raw != "" {
		parts := strings.Split(raw, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if raw := strings.TrimSpace(r.Header.Get("X-Real-IP")); raw != "" {
		return raw
	}
	if raw := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); raw != "" {
		return raw
	}
	return ""
}

func deviceFingerprint(r *http.Request) string {
	return domain.DeriveDeviceFingerprint(
		r.UserAgent(),
		r.Header.Get("Accept-Language"),
		r.Header.Get("Accept-Encoding"),
		r.Header.Get("Accept"),
	)
}
