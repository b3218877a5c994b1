package policy

import "chronicle/models"

// Verdict is the outcome of authorizing a mutation.
type Verdict int

const (
	// Permitted lets the mutation proceed.
	Permitted Verdict = iota
	// LoginRequired denies an anonymous viewer; the handler redirects to
	// the login page, preserving the requested path for post-login return.
	LoginRequired
	// NotOwner denies an authenticated viewer who does not own the
	// resource; the handler redirects to the underlying post's detail
	// page. Denial is never a hard error.
	NotOwner
)

// Guard authorizes mutations on one resource. It is built from an
// ownership predicate and a redirect-target resolver, and handlers invoke
// it explicitly before every update or delete.
type Guard struct {
	owns   func(*models.User) bool
	target func() string
}

// NewGuard returns a guard for a resource. owns reports whether a viewer
// owns the resource; target resolves the detail path the viewer is sent
// to when denied as a non-owner (for a comment, its parent post's page).
func NewGuard(owns func(*models.User) bool, target func() string) Guard {
	return Guard{owns: owns, target: target}
}

// Authorize decides whether viewer may mutate the guarded resource.
func (g Guard) Authorize(viewer *models.User) Verdict {
	switch {
	case viewer == nil:
		return LoginRequired
	case !g.owns(viewer):
		return NotOwner
	default:
		return Permitted
	}
}

// DeniedTarget is the redirect destination for a NotOwner verdict.
func (g Guard) DeniedTarget() string {
	return g.target()
}

// CanCreate reports whether viewer may create posts or comments: any
// authenticated user may, there is no ownership to check yet.
func CanCreate(viewer *models.User) bool {
	return viewer != nil
}
