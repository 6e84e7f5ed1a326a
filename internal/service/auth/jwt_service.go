package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Token types carried in the "type" claim. Confirmation tokens are only
// ever valid for the email-confirmation endpoint.
const (
	TokenTypeAccess       = "access"
	TokenTypeRefresh      = "refresh"
	TokenTypeConfirmation = "confirm"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the guardian.
	GenerateToken(ctx context.Context, guardianID uuid.UUID) (string, error)

	// ValidateToken validates an access token string and extracts the
	// claims. Returns identity.ErrExpiredToken, identity.ErrInvalidToken
	// or identity.ErrWrongTokenType on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed JWT refresh token. Refresh
	// tokens have a longer lifetime and are used to obtain new access
	// tokens.
	GenerateRefreshToken(ctx context.Context, guardianID uuid.UUID) (string, error)

	// ValidateRefreshToken validates a refresh token string and extracts
	// the claims.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateConfirmationToken creates the single-purpose token embedded
	// in sign-up confirmation emails.
	GenerateConfirmationToken(ctx context.Context, guardianID uuid.UUID) (string, error)

	// ValidateConfirmationToken validates a confirmation token string and
	// extracts the claims.
	ValidateConfirmationToken(ctx context.Context, tokenString string) (*Claims, error)

	// AccessTokenLifetime reports how long generated access tokens live,
	// used to compute session expiry timestamps.
	AccessTokenLifetime() time.Duration
}

// Claims represents the custom claims structure for the JWT tokens.
type Claims struct {
	// GuardianID is the unique identifier of the guardian the token was
	// issued for.
	GuardianID uuid.UUID `json:"uid,omitempty"`

	// TokenType indicates the purpose of the token ("access", "refresh"
	// or "confirm"). Used to prevent token misuse across contexts.
	TokenType string `json:"type,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
