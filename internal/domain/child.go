package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Child validation errors.
var (
	ErrEmptyChildID   = errors.New("child ID cannot be empty")
	ErrEmptyChildName = errors.New("child name cannot be empty")
	ErrEmptyChildDOB  = errors.New("child date of birth cannot be empty")
)

// Child represents a child whose development is tracked by one or more
// guardians. SchoolID is nil until the child is linked to a school.
type Child struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	DOB       time.Time  `json:"dob"`
	Gender    string     `json:"gender,omitempty"`
	PhotoURL  string     `json:"photo_url,omitempty"`
	SchoolID  *uuid.UUID `json:"school_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ChildDraft carries the guardian-entered fields used to create a Child.
// Name and DOB are required; gender and photo are optional.
type ChildDraft struct {
	Name     string    `json:"name"`
	DOB      time.Time `json:"dob"`
	Gender   string    `json:"gender,omitempty"`
	PhotoURL string    `json:"photo_url,omitempty"`
}

// NewChild creates a Child from a draft, generating its ID and
// timestamps. Returns a validation error before any ID is handed out if
// required fields are missing or the date of birth lies in the future.
func NewChild(draft ChildDraft) (*Child, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return nil, NewValidationError("name", "is required", ErrEmptyChildName)
	}
	if draft.DOB.IsZero() {
		return nil, NewValidationError("dob", "is required", ErrEmptyChildDOB)
	}
	if draft.DOB.After(time.Now()) {
		return nil, NewValidationError("dob", "cannot be in the future", ErrInvalidDate)
	}

	now := time.Now().UTC()
	return &Child{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(draft.Name),
		DOB:       draft.DOB,
		Gender:    strings.TrimSpace(draft.Gender),
		PhotoURL:  strings.TrimSpace(draft.PhotoURL),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Validate checks if the Child has valid data.
func (c *Child) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyChildID
	}
	if c.Name == "" {
		return ErrEmptyChildName
	}
	if c.DOB.IsZero() {
		return ErrEmptyChildDOB
	}
	if c.DOB.After(time.Now()) {
		return ErrInvalidDate
	}
	return nil
}

// GuardianChildLink associates a guardian with a child. The pair is
// unique; a child with zero links is considered orphaned.
type GuardianChildLink struct {
	GuardianID uuid.UUID `json:"guardian_id"`
	ChildID    uuid.UUID `json:"child_id"`
	CreatedAt  time.Time `json:"created_at"`
}
