package domain

import (
	"slices"
	"time"
)

// RoleAdmin is the role code granting administrator authority.
const RoleAdmin = "admin"

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID int64
	Admin  bool
}

// Principal is the identity carried by a verified bearer token.
type Principal struct {
	UserID int64
	Email  string
	Roles  []string
}

// Actor converts the principal into the service-level caller.
func (p Principal) Actor() Actor {
	return Actor{UserID: p.UserID, Admin: slices.Contains(p.Roles, RoleAdmin)}
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID int64, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated principal.
type TokenVerifier interface {
	Verify(token string) (*Principal, error)
}
