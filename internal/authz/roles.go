package authz

import "taskmanager/internal/apperr"

const (
	RoleMember = 10
	RoleAdmin  = 50
)

// Principal is the caller identity extracted from a verified token.
type Principal struct {
	UserID int
	RoleID int
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.RoleID == RoleAdmin
}

// RequireAuthenticated fails unless a verified identity is present.
func RequireAuthenticated(p *Principal) error {
	if p == nil {
		return apperr.ErrAuthenticationRequired
	}
	return nil
}

// RequireAdmin fails with ErrAuthenticationRequired for anonymous callers
// and ErrAuthorizationDenied for authenticated non-admins.
func RequireAdmin(p *Principal) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if !p.IsAdmin() {
		return apperr.ErrAuthorizationDenied
	}
	return nil
}
