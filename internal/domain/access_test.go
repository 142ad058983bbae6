package domain

import (
	"net/http"
	"testing"
)

func TestAccessDecision_HTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		decision AccessDecision
		want     int
	}{
		{"allowed", Allow(PermissionWrite, true), http.StatusOK},
		{"not found", Deny(DenialNotFound), http.StatusNotFound},
		// No membership is indistinguishable from not-found to avoid
		// leaking which ids exist.
		{"no access", Deny(DenialNoAccess), http.StatusNotFound},
		{"insufficient permission", Deny(DenialInsufficientPermission), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.decision.HTTPStatus(); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAllowDeny(t *testing.T) {
	a := Allow(PermissionRead, false)
	if !a.Allowed || a.Permission != PermissionRead || a.IsOwner {
		t.Errorf("unexpected allow decision: %+v", a)
	}

	d := Deny(DenialNoAccess)
	if d.Allowed || d.Reason != DenialNoAccess {
		t.Errorf("unexpected deny decision: %+v", d)
	}
}
