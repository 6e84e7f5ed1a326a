package identity

import "errors"

// Authentication errors surfaced by identity providers.
var (
	// ErrInvalidCredentials indicates the email/password pair was rejected.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailExists indicates a guardian with the given email is already
	// registered.
	ErrEmailExists = errors.New("email is already registered")

	// ErrEmailNotConfirmed indicates sign-in was attempted before the
	// guardian confirmed their email address.
	ErrEmailNotConfirmed = errors.New("email address not confirmed")

	// ErrInvalidToken indicates a token's format or signature is invalid.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates a token has expired.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrWrongTokenType indicates a token was presented in the wrong
	// context (e.g., a refresh token where an access token is expected).
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrNoSession indicates an operation requiring an established
	// session was called without one.
	ErrNoSession = errors.New("no active session")
)
