package customers

import (
	"fmt"
	"strings"
)

// syntheticDomain suffixes emails minted for callers without a real address.
const syntheticDomain = "kfc.local"

// Identity is the resolved caller identity: either an authenticated user or
// a guest keyed by session.
type Identity struct {
	Authenticated bool
	UserID        string
	Username      string
	Email         string
	SessionKey    string
}

// Authenticated builds an identity for a logged-in user. email may be empty,
// in which case a synthetic user-<id> address is derived.
func Authenticated(userID, username, email string) Identity {
	return Identity{Authenticated: true, UserID: userID, Username: username, Email: email}
}

// Guest builds an identity for an anonymous session.
func Guest(sessionKey string) Identity {
	return Identity{SessionKey: sessionKey}
}

// KeyEmail maps the identity deterministically to the customer lookup key.
func (id Identity) KeyEmail() string {
	if id.Authenticated {
		if id.Email != "" {
			return id.Email
		}
		ref := id.UserID
		if ref == "" {
			ref = id.Username
		}
		return fmt.Sprintf("user-%s@%s", ref, syntheticDomain)
	}
	return fmt.Sprintf("guest-%s@%s", id.SessionKey, syntheticDomain)
}

// DisplayName returns the name to record for a freshly created customer.
func (id Identity) DisplayName() string {
	if id.Authenticated {
		if id.Username != "" {
			return id.Username
		}
		return "Customer"
	}
	return "Guest"
}

// IsPlaceholderName reports whether a stored name carries no real information
// and may be overwritten by authenticated user data.
func IsPlaceholderName(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "guest", "customer":
		return true
	}
	return false
}

// IsSyntheticEmail reports whether an email was minted by KeyEmail rather
// than supplied by a user. Synthetic addresses are hidden from display.
func IsSyntheticEmail(email string) bool {
	return strings.HasSuffix(email, "@"+syntheticDomain)
}
