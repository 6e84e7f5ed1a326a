package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/bambini-app/bambini-api/internal/domain"
)

// Common request/response structures

// SignUpRequest defines the payload for the guardian sign-up endpoint.
type SignUpRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required,min=1,max=200"`
	Role     string `json:"role"      validate:"required,oneof=parent teacher"`
}

// SignInRequest defines the payload for the guardian sign-in endpoint.
type SignInRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// RefreshRequest defines the payload for the token refresh endpoint.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ConfirmRequest defines the payload for the email confirmation endpoint.
type ConfirmRequest struct {
	Token string `json:"token" validate:"required"`
}

// SessionResponse defines the session payload returned by
// authentication endpoints.
type SessionResponse struct {
	GuardianID   uuid.UUID `json:"guardian_id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    string    `json:"expires_at"`
}

// SignUpResponse defines the response for the sign-up endpoint. Session
// is absent when email confirmation is still pending.
type SignUpResponse struct {
	Session             *SessionResponse `json:"session,omitempty"`
	ConfirmationPending bool             `json:"confirmation_pending"`
}

// AddChildRequest defines the payload for creating a child profile.
// DOB uses the YYYY-MM-DD date form; SchoolCode is optional.
type AddChildRequest struct {
	Name       string `json:"name"        validate:"required,min=1,max=200"`
	DOB        string `json:"dob"         validate:"required,datetime=2006-01-02"`
	Gender     string `json:"gender"      validate:"omitempty,max=50"`
	PhotoURL   string `json:"photo_url"   validate:"omitempty,url,max=2000"`
	SchoolCode string `json:"school_code" validate:"omitempty,max=20"`
}

// ChildResponse defines the child payload.
type ChildResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	DOB       string     `json:"dob"`
	Gender    string     `json:"gender,omitempty"`
	PhotoURL  string     `json:"photo_url,omitempty"`
	SchoolID  *uuid.UUID `json:"school_id,omitempty"`
	AgeMonths *int       `json:"age_months,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// AddChildResponse defines the response for a successful add.
type AddChildResponse struct {
	Child             ChildResponse   `json:"child"`
	School            *SchoolResponse `json:"school,omitempty"`
	SchoolCodeUnknown bool            `json:"school_code_unknown,omitempty"`
}

// LinkFailedResponse is the error body for a partially-completed add:
// the child exists but linking failed. The client retries the link with
// the returned child id.
type LinkFailedResponse struct {
	Error   string    `json:"error"`
	ChildID uuid.UUID `json:"child_id"`
	TraceID string    `json:"trace_id,omitempty"`
}

// SchoolResponse defines the school payload.
type SchoolResponse struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
	Name string    `json:"name"`
}

// ActivityResponse defines the activity payload.
type ActivityResponse struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Domain       string    `json:"domain"`
	AgeBand      string    `json:"age_band,omitempty"`
	Instructions []string  `json:"instructions"`
	Materials    []string  `json:"materials"`
	MinAgeMonths int       `json:"min_age_months"`
	MaxAgeMonths int       `json:"max_age_months"`
}

// StateResponse reports the caller's lifecycle state and the surface
// they belong on.
type StateResponse struct {
	State       string           `json:"state"`
	Route       string           `json:"route"`
	Session     *SessionResponse `json:"session,omitempty"`
	HasChildren bool             `json:"has_children"`
}

func newChildResponse(c *domain.Child) ChildResponse {
	return ChildResponse{
		ID:        c.ID,
		Name:      c.Name,
		DOB:       c.DOB.Format("2006-01-02"),
		Gender:    c.Gender,
		PhotoURL:  c.PhotoURL,
		SchoolID:  c.SchoolID,
		CreatedAt: c.CreatedAt,
	}
}

func newSchoolResponse(s *domain.School) *SchoolResponse {
	if s == nil {
		return nil
	}
	return &SchoolResponse{ID: s.ID, Code: s.Code, Name: s.Name}
}

func newActivityResponse(a *domain.Activity) ActivityResponse {
	materials := a.Materials
	if materials == nil {
		materials = []string{}
	}
	return ActivityResponse{
		ID:           a.ID,
		Title:        a.Title,
		Description:  a.Description,
		Domain:       string(a.Domain),
		AgeBand:      a.AgeBand,
		Instructions: a.Instructions,
		Materials:    materials,
		MinAgeMonths: a.MinAgeMonths,
		MaxAgeMonths: a.MaxAgeMonths,
	}
}
