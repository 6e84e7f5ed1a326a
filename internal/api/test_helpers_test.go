package api

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/bambini-app/bambini-api/internal/api/shared"
	"github.com/bambini-app/bambini-api/internal/domain"
	"github.com/bambini-app/bambini-api/internal/identity"
	"github.com/bambini-app/bambini-api/internal/service"
	"github.com/bambini-app/bambini-api/internal/store"
)

// memChildStore is an in-memory ChildStore for handler tests.
type memChildStore struct {
	children map[uuid.UUID]*domain.Child
	links    map[uuid.UUID][]uuid.UUID
	linkErr  error
}

func newMemChildStore() *memChildStore {
	return &memChildStore{
		children: make(map[uuid.UUID]*domain.Child),
		links:    make(map[uuid.UUID][]uuid.UUID),
	}
}

func (m *memChildStore) Create(ctx context.Context, child *domain.Child) error {
	copied := *child
	m.children[child.ID] = &copied
	return nil
}

func (m *memChildStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Child, error) {
	c, ok := m.children[id]
	if !ok {
		return nil, store.ErrChildNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *memChildStore) Link(ctx context.Context, guardianID, childID uuid.UUID) error {
	if m.linkErr != nil {
		return m.linkErr
	}
	for _, id := range m.links[guardianID] {
		if id == childID {
			return store.ErrLinkExists
		}
	}
	m.links[guardianID] = append(m.links[guardianID], childID)
	return nil
}

func (m *memChildStore) SetSchool(ctx context.Context, childID, schoolID uuid.UUID) error {
	c, ok := m.children[childID]
	if !ok {
		return store.ErrChildNotFound
	}
	c.SchoolID = &schoolID
	return nil
}

func (m *memChildStore) ListByGuardian(ctx context.Context, guardianID uuid.UUID) ([]domain.Child, error) {
	out := make([]domain.Child, 0)
	for _, id := range m.links[guardianID] {
		if c, ok := m.children[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memChildStore) WithTx(tx *sql.Tx) store.ChildStore { return m }

// memSchoolStore serves schools keyed by code.
type memSchoolStore struct {
	byCode map[string]*domain.School
}

func (m *memSchoolStore) GetByCode(ctx context.Context, code string) (*domain.School, error) {
	s, ok := m.byCode[code]
	if !ok {
		return nil, store.ErrSchoolNotFound
	}
	return s, nil
}

func (m *memSchoolStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.School, error) {
	for _, s := range m.byCode {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, store.ErrSchoolNotFound
}

func (m *memSchoolStore) WithTx(tx *sql.Tx) store.SchoolStore { return m }

// memActivityStore serves a fixed catalog.
type memActivityStore struct {
	catalog []domain.Activity
}

func (m *memActivityStore) Create(ctx context.Context, activity *domain.Activity) error {
	m.catalog = append(m.catalog, *activity)
	return nil
}

func (m *memActivityStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	for i := range m.catalog {
		if m.catalog[i].ID == id {
			a := m.catalog[i]
			return &a, nil
		}
	}
	return nil, store.ErrActivityNotFound
}

func (m *memActivityStore) List(ctx context.Context) ([]domain.Activity, error) {
	out := make([]domain.Activity, len(m.catalog))
	copy(out, m.catalog)
	return out, nil
}

func (m *memActivityStore) WithTx(tx *sql.Tx) store.ActivityStore { return m }

// stubIdentity is a scripted IdentityService for auth handler tests.
type stubIdentity struct {
	signInSession *identity.Session
	signInErr     error
	signUpOutcome *identity.SignUpOutcome
	signUpErr     error
	refreshErr    error
	confirmErr    error
}

func (s *stubIdentity) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	return s.signInSession, s.signInErr
}

func (s *stubIdentity) SignUp(ctx context.Context, email, password string, profile identity.Profile) (*identity.SignUpOutcome, error) {
	return s.signUpOutcome, s.signUpErr
}

func (s *stubIdentity) SignOut(ctx context.Context) error { return nil }

func (s *stubIdentity) Refresh(ctx context.Context, refreshToken string) (*identity.Session, error) {
	return s.signInSession, s.refreshErr
}

func (s *stubIdentity) ConfirmEmail(ctx context.Context, token string) error {
	return s.confirmErr
}

// stubAuthenticator resolves one fixed token to one fixed principal.
type stubAuthenticator struct {
	token     string
	principal *identity.Principal
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, accessToken string) (*identity.Principal, error) {
	if s.principal != nil && accessToken == s.token {
		return s.principal, nil
	}
	return nil, identity.ErrInvalidToken
}

func testIdentitySession(guardianID uuid.UUID) *identity.Session {
	return &identity.Session{
		Principal: identity.Principal{
			ID:       guardianID,
			Email:    "parent@example.com",
			FullName: "Test Guardian",
			Role:     domain.RoleParent,
		},
		Token: identity.TokenMetadata{
			AccessToken:  "access-token",
			RefreshToken: "refresh-token",
			ExpiresAt:    time.Now().Add(15 * time.Minute),
		},
	}
}

func newTestRegistry(t *testing.T, children store.ChildStore, schools store.SchoolStore) *service.RegistryService {
	t.Helper()
	if children == nil {
		children = newMemChildStore()
	}
	if schools == nil {
		schools = &memSchoolStore{byCode: map[string]*domain.School{}}
	}
	registry, err := service.NewRegistryService(children, schools, nil, nil)
	require.NoError(t, err)
	return registry
}

// monthsAgo returns a date the given number of months before now.
func monthsAgo(months int) time.Time {
	return time.Now().AddDate(0, -months, 0)
}

// authedRequest builds a request whose context carries the guardian id,
// as the authentication middleware would have left it.
func authedRequest(method, target string, body string, guardianID uuid.UUID) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := context.WithValue(r.Context(), shared.GuardianIDContextKey, guardianID)
	return r.WithContext(ctx)
}

// withPathParam attaches a chi route parameter to the request context.
func withPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
