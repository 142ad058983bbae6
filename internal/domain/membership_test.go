package domain

import "testing"

func TestPermission_String(t *testing.T) {
	tests := []struct {
		perm Permission
		want string
	}{
		{PermissionRead, "read"},
		{PermissionWrite, "write"},
		{Permission(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.perm.String(); got != tt.want {
			t.Errorf("Permission(%d).String() = %q, want %q", tt.perm, got, tt.want)
		}
	}
}

func TestParsePermission(t *testing.T) {
	tests := []struct {
		input  string
		want   Permission
		wantOK bool
	}{
		{"read", PermissionRead, true},
		{"write", PermissionWrite, true},
		{"admin", PermissionRead, false},
		{"", PermissionRead, false},
	}

	for _, tt := range tests {
		got, ok := ParsePermission(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParsePermission(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestPermission_Satisfies(t *testing.T) {
	tests := []struct {
		name     string
		held     Permission
		required Permission
		want     bool
	}{
		{"read satisfies read", PermissionRead, PermissionRead, true},
		{"write satisfies read", PermissionWrite, PermissionRead, true},
		{"write satisfies write", PermissionWrite, PermissionWrite, true},
		{"read does not satisfy write", PermissionRead, PermissionWrite, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.held.Satisfies(tt.required); got != tt.want {
				t.Errorf("%v.Satisfies(%v) = %v, want %v", tt.held, tt.required, got, tt.want)
			}
		})
	}
}

func TestPermission_CanReadCanWrite(t *testing.T) {
	if !PermissionRead.CanRead() {
		t.Error("read permission should allow reading")
	}
	if PermissionRead.CanWrite() {
		t.Error("read permission should not allow writing")
	}
	if !PermissionWrite.CanRead() {
		t.Error("write permission should allow reading")
	}
	if !PermissionWrite.CanWrite() {
		t.Error("write permission should allow writing")
	}
}
