package domain

import "time"

// Session represents a refresh-token session for one device.
type Session struct {
	Syncable
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"-"` // Never serialized to clients
	DeviceType       string    `json:"device_type,omitempty"`
	DeviceName       string    `json:"device_name,omitempty"`
	ClientName       string    `json:"client_name,omitempty"`
	IPAddress        string    `json:"ip_address,omitempty"`
	LastUsedAt       time.Time `json:"last_used_at"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// IsExpired returns true if the session's refresh token can no longer be used.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
