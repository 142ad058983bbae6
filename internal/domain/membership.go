package domain

// Membership represents one user's standing access to one recipe book.
// At most one membership exists per (book, user) pair; the book owner gets
// an implicit write membership when the book is created.
type Membership struct {
	Syncable
	BookID     string     `json:"book_id"`
	UserID     string     `json:"user_id"`
	Permission Permission `json:"permission"`
}

// Permission defines the level of access granted by a membership.
type Permission int

const (
	// PermissionRead allows viewing recipes in the book.
	PermissionRead Permission = iota
	// PermissionWrite allows adding, editing, and removing recipes,
	// and inviting other users to the book.
	PermissionWrite
)

// String returns the string representation of the permission level.
func (p Permission) String() string {
	switch p {
	case PermissionRead:
		return "read"
	case PermissionWrite:
		return "write"
	default:
		return "unknown"
	}
}

// ParsePermission converts a string to Permission.
func ParsePermission(s string) (Permission, bool) {
	switch s {
	case "read":
		return PermissionRead, true
	case "write":
		return PermissionWrite, true
	default:
		return PermissionRead, false
	}
}

// CanRead returns true if the permission allows reading.
func (p Permission) CanRead() bool {
	return p == PermissionRead || p == PermissionWrite
}

// CanWrite returns true if the permission allows writing.
func (p Permission) CanWrite() bool {
	return p == PermissionWrite
}

// Satisfies reports whether this permission meets the required level.
// A write requirement is satisfied only by write; a read requirement is
// satisfied by either read or write.
func (p Permission) Satisfies(required Permission) bool {
	if required == PermissionWrite {
		return p.CanWrite()
	}
	return p.CanRead()
}
