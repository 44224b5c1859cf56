package domain

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	// Keeping this sentinel in domain allows adapters to map it consistently to 404/NOT_FOUND.
	ErrNotFound = errors.New("resource not found")
	// ErrUnauthorized signals a request with no resolvable authenticated identity.
	// Authorization always resolves from the session token, never from request payloads.
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrRateLimited  = errors.New("rate limited")
	// ErrSelfReferral rejects a signup that names the caller's own referral code.
	ErrSelfReferral = errors.New("self referral not allowed")
	// ErrAffiliateSuspended is returned when an operation requires an active affiliate profile.
	ErrAffiliateSuspended = errors.New("affiliate suspended")
)
