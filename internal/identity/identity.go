// Package identity defines the contract between the application and its
// identity provider: the session and principal types, the provider
// operations, and the authentication error taxonomy. The session
// manager consumes this contract; internal/service/auth implements it
// locally.
package identity

import (
	"context"
	"time"

	"github.com/bambini-app/bambini-api/internal/domain"
	"github.com/google/uuid"
)

// Principal is the authenticated guardian as seen by the rest of the
// system: an opaque subject id plus the metadata the provider carries
// for it. The metadata bag of the wire protocol is coerced into typed
// fields at this boundary.
type Principal struct {
	ID       uuid.UUID   `json:"id"`
	Email    string      `json:"email"`
	FullName string      `json:"full_name"`
	Role     domain.Role `json:"role"`
}

// TokenMetadata carries the token material of an established session.
type TokenMetadata struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Session is an established authentication session: a principal plus
// its token metadata. The absence of a session is represented by a nil
// *Session throughout.
type Session struct {
	Principal Principal     `json:"principal"`
	Token     TokenMetadata `json:"token"`
}

// Profile carries the sign-up fields beyond credentials.
type Profile struct {
	FullName string      `json:"full_name"`
	Role     domain.Role `json:"role"`
}

// SignUpOutcome is the result of a successful sign-up. Exactly one of
// the two shapes applies: a session was established immediately, or the
// provider requires email confirmation and no session exists yet.
type SignUpOutcome struct {
	// Session is non-nil when the provider established a session
	// immediately.
	Session *Session

	// ConfirmationPending is true when the guardian must confirm their
	// email address before a session can exist.
	ConfirmationPending bool
}

// Unsubscribe detaches a previously registered session listener.
type Unsubscribe func()

// Provider is the identity provider contract. Implementations must
// deliver session-change notifications strictly in emission order; a
// stale notification re-applied after a newer one would revert the
// session incorrectly.
type Provider interface {
	// CurrentSession returns the currently established session, or nil
	// if none exists. Used once at start-up for session restoration.
	CurrentSession(ctx context.Context) (*Session, error)

	// Subscribe registers a listener for session changes. The listener
	// receives the new session (nil on sign-out) for every change, in
	// order. The returned Unsubscribe detaches the listener.
	Subscribe(onChange func(*Session)) Unsubscribe

	// SignIn authenticates with email and password and establishes a
	// session. Returns ErrInvalidCredentials when the credentials are
	// rejected and ErrEmailNotConfirmed when confirmation is still
	// outstanding.
	SignIn(ctx context.Context, email, password string) (*Session, error)

	// SignUp registers a new guardian. Depending on provider policy the
	// outcome is either an established session or confirmation-pending.
	SignUp(ctx context.Context, email, password string, profile Profile) (*SignUpOutcome, error)

	// SignOut tears down the current session. Implementations emit the
	// session-loss notification before attempting any remote work, so
	// that local state is never left authenticated after a failed remote
	// call.
	SignOut(ctx context.Context) error
}
