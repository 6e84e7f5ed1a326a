package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Guardian validation errors.
var (
	ErrEmptyGuardianID     = errors.New("guardian ID cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrEmptyFullName       = errors.New("full name cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// Role classifies a guardian as either a parent or a teacher.
type Role string

const (
	RoleParent  Role = "parent"
	RoleTeacher Role = "teacher"
)

// IsValid reports whether the role is one of the known roles.
func (r Role) IsValid() bool {
	return r == RoleParent || r == RoleTeacher
}

// Guardian represents an authenticated principal responsible for one or
// more children. It doubles as the credential record for the local
// identity provider.
type Guardian struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext password, used transiently during sign-up
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	FullName       string    `json:"full_name"`
	Role           Role      `json:"role"`
	EmailConfirmed bool      `json:"email_confirmed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewGuardian creates a new Guardian with the given sign-up details.
// It generates a new UUID and sets the creation/update timestamps.
// Returns an error if validation fails.
//
// NOTE: the plaintext password is only carried here; the caller is
// responsible for hashing it before the guardian is stored.
func NewGuardian(email, password, fullName string, role Role) (*Guardian, error) {
	g := &Guardian{
		ID:        uuid.New(),
		Email:     strings.TrimSpace(email),
		Password:  password,
		FullName:  strings.TrimSpace(fullName),
		Role:      role,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

// Validate checks if the Guardian has valid data.
// Returns an error if any field fails validation.
func (g *Guardian) Validate() error {
	if g.ID == uuid.Nil {
		return ErrEmptyGuardianID
	}

	if g.Email == "" {
		return ErrEmptyEmail
	}

	if !validEmailFormat(g.Email) {
		return ErrInvalidEmail
	}

	if g.FullName == "" {
		return ErrEmptyFullName
	}

	if !g.Role.IsValid() {
		return ErrInvalidRole
	}

	if g.Password != "" {
		if len(g.Password) < 8 {
			return ErrPasswordTooShort
		}
		// bcrypt truncates input beyond 72 bytes
		if len(g.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if g.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// validEmailFormat performs basic structural validation of an email
// address: a non-empty local part, an @, and a dotted domain part.
func validEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}

	dom := email[at+1:]
	dot := strings.IndexByte(dom, '.')
	if dot <= 0 || dot == len(dom)-1 {
		return false
	}

	return true
}
