package models

// Identity is the authenticated caller of a single request.
// The zero value is an anonymous visitor.
type Identity struct {
	UserID   string
	Username string
}

// Authenticated reports whether the identity belongs to a logged-in user
func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

// Is reports whether the identity is the given user
func (i Identity) Is(userID string) bool {
	return i.Authenticated() && i.UserID == userID
}

// IdentityOf builds the identity of a stored user
func IdentityOf(u User) Identity {
	return Identity{UserID: u.UserID, Username: u.Username}
}
