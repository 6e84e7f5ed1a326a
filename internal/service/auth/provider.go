package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bambini-app/bambini-api/internal/domain"
	"github.com/bambini-app/bambini-api/internal/identity"
	"github.com/bambini-app/bambini-api/internal/platform/email"
	"github.com/bambini-app/bambini-api/internal/platform/logger"
	"github.com/bambini-app/bambini-api/internal/platform/metrics"
	"github.com/bambini-app/bambini-api/internal/store"
)

// Service is the local identity provider: guardian credentials live in
// the guardian store, sessions are JWT token pairs, and session-change
// notifications are dispatched in strict emission order. It implements
// identity.Provider and additionally exposes the server-side operations
// (token refresh, email confirmation, per-request authentication) the
// HTTP layer needs.
type Service struct {
	guardians           store.GuardianStore
	jwt                 JWTService
	passwords           *BcryptHasher
	sender              email.ConfirmationSender
	metrics             *metrics.Metrics
	requireConfirmation bool
	logger              *slog.Logger

	// mu guards the process-wide session value and the listener set, and
	// is held across listener dispatch so notifications are observed in
	// emission order and never interleaved.
	mu        sync.Mutex
	current   *identity.Session
	listeners map[int]func(*identity.Session)
	nextID    int
}

// ServiceConfig carries the dependencies of the identity provider.
type ServiceConfig struct {
	Guardians           store.GuardianStore
	JWT                 JWTService
	Passwords           *BcryptHasher
	Sender              email.ConfirmationSender
	Metrics             *metrics.Metrics
	RequireConfirmation bool
	Logger              *slog.Logger
}

// NewService creates the local identity provider.
// It returns an error if any required dependency is nil.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Guardians == nil {
		return nil, errors.New("guardian store cannot be nil")
	}
	if cfg.JWT == nil {
		return nil, errors.New("jwt service cannot be nil")
	}
	if cfg.Passwords == nil {
		return nil, errors.New("password hasher cannot be nil")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		guardians:           cfg.Guardians,
		jwt:                 cfg.JWT,
		passwords:           cfg.Passwords,
		sender:              cfg.Sender,
		metrics:             cfg.Metrics,
		requireConfirmation: cfg.RequireConfirmation,
		logger:              log.With(slog.String("component", "identity_provider")),
		listeners:           make(map[int]func(*identity.Session)),
	}, nil
}

// Ensure Service implements identity.Provider
var _ identity.Provider = (*Service)(nil)

// CurrentSession implements identity.Provider.CurrentSession
// For the local provider this is the most recently established session
// in this process, nil before any sign-in.
func (s *Service) CurrentSession(ctx context.Context) (*identity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, nil
}

// Subscribe implements identity.Provider.Subscribe
func (s *Service) Subscribe(onChange func(*identity.Session)) identity.Unsubscribe {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = onChange

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// setSession updates the process-wide session and notifies listeners.
// Callers must NOT hold mu.
func (s *Service) setSession(session *identity.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = session
	for _, fn := range s.listeners {
		fn(session)
	}
}

// SignIn implements identity.Provider.SignIn
func (s *Service) SignIn(ctx context.Context, emailAddr, password string) (*identity.Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	guardian, err := s.guardians.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, store.ErrGuardianNotFound) {
			s.countAuthFailure()
			return nil, identity.ErrInvalidCredentials
		}
		log.Error("failed to load guardian for sign-in",
			slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.passwords.Compare(guardian.HashedPassword, password); err != nil {
		s.countAuthFailure()
		return nil, identity.ErrInvalidCredentials
	}

	if s.requireConfirmation && !guardian.EmailConfirmed {
		return nil, identity.ErrEmailNotConfirmed
	}

	session, err := s.establishSession(ctx, guardian)
	if err != nil {
		return nil, err
	}

	log.Info("guardian signed in",
		slog.String("guardian_id", guardian.ID.String()))
	return session, nil
}

// SignUp implements identity.Provider.SignUp
func (s *Service) SignUp(
	ctx context.Context,
	emailAddr, password string,
	profile identity.Profile,
) (*identity.SignUpOutcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	guardian, err := domain.NewGuardian(emailAddr, password, profile.FullName, profile.Role)
	if err != nil {
		return nil, err
	}

	hashed, err := s.passwords.Hash(password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	guardian.HashedPassword = hashed
	guardian.Password = ""
	guardian.EmailConfirmed = !s.requireConfirmation

	if err := s.guardians.Create(ctx, guardian); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, identity.ErrEmailExists
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SignUps.Inc()
	}

	if s.requireConfirmation {
		if err := s.sendConfirmation(ctx, guardian); err != nil {
			// The account exists; a failed delivery should not strand the
			// sign-up. The guardian can request sign-in later and the
			// operator can resend.
			log.Error("failed to send confirmation email",
				slog.String("error", err.Error()),
				slog.String("guardian_id", guardian.ID.String()))
		}
		log.Info("guardian signed up, confirmation pending",
			slog.String("guardian_id", guardian.ID.String()))
		return &identity.SignUpOutcome{ConfirmationPending: true}, nil
	}

	session, err := s.establishSession(ctx, guardian)
	if err != nil {
		return nil, err
	}

	log.Info("guardian signed up",
		slog.String("guardian_id", guardian.ID.String()))
	return &identity.SignUpOutcome{Session: session}, nil
}

// SignOut implements identity.Provider.SignOut
// Local state is cleared unconditionally before any remote work, so the
// caller is never left with an authenticated view after asking to leave.
// The local provider has no remote teardown; token pairs simply age out.
func (s *Service) SignOut(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.setSession(nil)
	if s.metrics != nil {
		s.metrics.ActiveSessions.Set(0)
	}

	log.Info("guardian signed out")
	return nil
}

// Refresh validates a refresh token and issues a new token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*identity.Session, error) {
	claims, err := s.jwt.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		s.countAuthFailure()
		return nil, err
	}

	guardian, err := s.guardians.GetByID(ctx, claims.GuardianID)
	if err != nil {
		if errors.Is(err, store.ErrGuardianNotFound) {
			return nil, identity.ErrInvalidToken
		}
		return nil, err
	}

	session, err := s.buildSession(ctx, guardian)
	if err != nil {
		return nil, err
	}

	// A refresh only moves the process-wide session forward when it
	// belongs to the same principal; otherwise it is a plain token
	// exchange for an API caller.
	s.mu.Lock()
	isCurrent := s.current != nil && s.current.Principal.ID == guardian.ID
	s.mu.Unlock()
	if isCurrent {
		s.setSession(session)
	}

	return session, nil
}

// ConfirmEmail validates a confirmation token and marks the guardian's
// email as confirmed.
func (s *Service) ConfirmEmail(ctx context.Context, token string) error {
	claims, err := s.jwt.ValidateConfirmationToken(ctx, token)
	if err != nil {
		return err
	}

	if err := s.guardians.ConfirmEmail(ctx, claims.GuardianID); err != nil {
		if errors.Is(err, store.ErrGuardianNotFound) {
			return identity.ErrInvalidToken
		}
		return err
	}

	return nil
}

// Authenticate validates an access token and returns the principal it
// belongs to. Used by the HTTP authentication middleware.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*identity.Principal, error) {
	claims, err := s.jwt.ValidateToken(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	guardian, err := s.guardians.GetByID(ctx, claims.GuardianID)
	if err != nil {
		if errors.Is(err, store.ErrGuardianNotFound) {
			return nil, identity.ErrInvalidToken
		}
		return nil, err
	}

	principal := principalOf(guardian)
	return &principal, nil
}

func (s *Service) establishSession(ctx context.Context, guardian *domain.Guardian) (*identity.Session, error) {
	session, err := s.buildSession(ctx, guardian)
	if err != nil {
		return nil, err
	}

	s.setSession(session)
	if s.metrics != nil {
		s.metrics.ActiveSessions.Set(1)
	}
	return session, nil
}

func (s *Service) buildSession(ctx context.Context, guardian *domain.Guardian) (*identity.Session, error) {
	access, err := s.jwt.GenerateToken(ctx, guardian.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(ctx, guardian.ID)
	if err != nil {
		return nil, err
	}

	return &identity.Session{
		Principal: principalOf(guardian),
		Token: identity.TokenMetadata{
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresAt:    time.Now().Add(s.jwt.AccessTokenLifetime()),
		},
	}, nil
}

func (s *Service) sendConfirmation(ctx context.Context, guardian *domain.Guardian) error {
	if s.sender == nil {
		return nil
	}

	token, err := s.jwt.GenerateConfirmationToken(ctx, guardian.ID)
	if err != nil {
		return err
	}
	return s.sender.SendConfirmation(ctx, guardian.Email, guardian.FullName, token)
}

func (s *Service) countAuthFailure() {
	if s.metrics != nil {
		s.metrics.AuthFailures.Inc()
	}
}

func principalOf(g *domain.Guardian) identity.Principal {
	return identity.Principal{
		ID:       g.ID,
		Email:    g.Email,
		FullName: g.FullName,
		Role:     g.Role,
	}
}
