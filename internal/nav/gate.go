// Package nav decides which surface of the application a guardian
// belongs on. The decision is a pure function of the session lifecycle
// snapshot and whether the guardian has registered any children, so it
// is trivially testable and free of ordering hazards.
package nav

import "github.com/bambini-app/bambini-api/internal/session"

// Route is a navigation destination.
type Route string

const (
	// RouteHold means the session check is still in flight and no
	// redirect should happen yet.
	RouteHold Route = "hold"
	// RoutePreAuth is the sign-in / sign-up surface.
	RoutePreAuth Route = "pre_auth"
	// RouteOnboarding is the add-first-child surface, shown to
	// authenticated guardians with no children yet.
	RouteOnboarding Route = "onboarding"
	// RouteMain is the main application surface.
	RouteMain Route = "main"
)

// Resolve maps a lifecycle snapshot and the guardian's child count onto
// a destination. An unauthenticated guardian always lands on the
// pre-auth surface regardless of hasChildren; a pending email
// confirmation never produces a session, so it keeps the guardian on
// pre-auth through the same rule.
func Resolve(snap session.Snapshot, hasChildren bool) Route {
	switch snap.State {
	case session.StateUnknown, session.StateChecking:
		return RouteHold
	case session.StateAuthenticated:
		if !hasChildren {
			return RouteOnboarding
		}
		return RouteMain
	default:
		return RoutePreAuth
	}
}
