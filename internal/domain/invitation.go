package domain

import (
	"strings"
	"time"
)

// InvitationStatus is the lifecycle state of an invitation.
type InvitationStatus string

const (
	// InvitationPending is the initial state; the only state transitions happen from.
	InvitationPending InvitationStatus = "pending"
	// InvitationAccepted means the invitee took the offer; a membership exists.
	InvitationAccepted InvitationStatus = "accepted"
	// InvitationDeclined means the invitee turned the offer down.
	InvitationDeclined InvitationStatus = "declined"
	// InvitationRevoked means the inviter withdrew the offer.
	InvitationRevoked InvitationStatus = "revoked"
	// InvitationExpired is set by the background sweep for pending invitations
	// past their deadline. A pending invitation past expires_at behaves
	// identically whether or not the sweep has run yet.
	InvitationExpired InvitationStatus = "expired"
)

// Invitation represents an outstanding or resolved offer of recipe book
// access to a specific email-identified invitee. The invitee is matched by
// email rather than user id because they may not have an account yet;
// InvitedUserID is populated only at acceptance time.
type Invitation struct {
	Syncable
	BookID           string           `json:"book_id"`
	InvitedByUserID  string           `json:"invited_by_user_id"`
	InvitedUserEmail string           `json:"invited_user_email"`
	InvitedUserID    string           `json:"invited_user_id,omitempty"`
	Permission       Permission       `json:"permission"`
	Status           InvitationStatus `json:"status"`
	ExpiresAt        time.Time        `json:"expires_at"`
}

// IsPending returns true if the invitation has not reached a terminal state.
// Note this is a pure status check; a pending invitation may still have lapsed.
func (i *Invitation) IsPending() bool {
	return i.Status == InvitationPending
}

// IsExpired returns true if the invitation has passed its deadline, or the
// sweep has already moved it to the stored expired status.
func (i *Invitation) IsExpired() bool {
	if i.Status == InvitationExpired {
		return true
	}
	return time.Now().After(i.ExpiresAt)
}

// IsOpen returns true if the invitation can still be accepted or declined.
func (i *Invitation) IsOpen() bool {
	return i.IsPending() && !i.IsExpired()
}

// IsAddressedTo reports whether the invitation was sent to the given email.
// Matching is case-insensitive since email local/domain casing is unreliable.
func (i *Invitation) IsAddressedTo(email string) bool {
	return strings.EqualFold(i.InvitedUserEmail, email)
}

// IsParty reports whether the actor (by id or email) is the inviter or the
// invitee. Only parties to the invitation may delete it.
func (i *Invitation) IsParty(userID, email string) bool {
	return i.InvitedByUserID == userID || i.IsAddressedTo(email)
}
