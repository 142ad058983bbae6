package domain

import "net/http"

// DenialReason classifies why an authorization check did not grant access.
type DenialReason string

const (
	// DenialNotFound means the target entity could not be resolved at all.
	DenialNotFound DenialReason = "NOT_FOUND"
	// DenialNoAccess means the entity exists but the caller holds no
	// membership for it. Reported to clients exactly like not-found so an
	// outsider cannot probe which ids exist.
	DenialNoAccess DenialReason = "NO_ACCESS"
	// DenialInsufficientPermission means the caller has a membership but
	// below the required level.
	DenialInsufficientPermission DenialReason = "INSUFFICIENT_PERMISSION"
)

// AccessDecision is the result of an authorization check. It is returned as
// a value, never as an error: callers must branch on Allowed explicitly.
// Storage failures are the one exception and travel as ordinary errors.
type AccessDecision struct {
	Allowed    bool         `json:"allowed"`
	Permission Permission   `json:"permission,omitempty"` // effective permission when allowed
	IsOwner    bool         `json:"is_owner,omitempty"`
	Reason     DenialReason `json:"reason,omitempty"` // set when not allowed
}

// Allow builds a positive decision carrying the effective permission.
func Allow(permission Permission, isOwner bool) AccessDecision {
	return AccessDecision{Allowed: true, Permission: permission, IsOwner: isOwner}
}

// Deny builds a negative decision with the given reason.
func Deny(reason DenialReason) AccessDecision {
	return AccessDecision{Allowed: false, Reason: reason}
}

// HTTPStatus suggests the transport status for this decision.
// Missing entities and invisible entities both map to 404; only a caller
// with a real-but-insufficient membership sees 403.
func (d AccessDecision) HTTPStatus() int {
	if d.Allowed {
		return http.StatusOK
	}
	switch d.Reason {
	case DenialInsufficientPermission:
		return http.StatusForbidden
	default:
		return http.StatusNotFound
	}
}

// BookAccess describes a user's standing access to one book, as returned by
// the access evaluator's evaluate operation and by accessible-listing calls.
type BookAccess struct {
	HasAccess  bool       `json:"has_access"`
	Permission Permission `json:"permission"`
	IsOwner    bool       `json:"is_owner"`
}
