package domain

// RecipeBook is a container for recipes owned by a single user. Other users
// gain access to the book's recipes only through a Membership, which is
// granted by accepting an Invitation from a member with write access.
type RecipeBook struct {
	Syncable
	OwnerID     string `json:"owner_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// IsOwnedBy reports whether the given user created this book.
func (b *RecipeBook) IsOwnedBy(userID string) bool {
	return b.OwnerID == userID
}
