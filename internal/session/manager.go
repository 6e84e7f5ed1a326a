// Package session tracks the authentication lifecycle of the running
// process. It consumes the identity.Provider contract and exposes a
// small state machine: Unknown before Start, Checking while the initial
// session restore is in flight, then Authenticated or Unauthenticated
// as provider notifications arrive. All changes are applied by a single
// consumer so notifications observed out of order can never regress the
// session.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/bambini-app/bambini-api/internal/identity"
)

// State is the authentication lifecycle state.
type State string

const (
	// StateUnknown is the state before Start is called.
	StateUnknown State = "unknown"
	// StateChecking is the state while the initial session restore is in
	// flight. Navigation must not redirect while checking.
	StateChecking State = "checking"
	// StateAuthenticated means an established session exists.
	StateAuthenticated State = "authenticated"
	// StateUnauthenticated means no session exists.
	StateUnauthenticated State = "unauthenticated"
)

// Snapshot is a point-in-time view of the lifecycle: the state plus the
// session when authenticated (nil otherwise).
type Snapshot struct {
	State   State
	Session *identity.Session
}

// ErrNotStarted is returned by operations that require Start to have
// been called first.
var ErrNotStarted = errors.New("session manager not started")

// Manager owns the process-wide session state. Create with NewManager,
// call Start once, and read via Current or Subscribe.
type Manager struct {
	provider identity.Provider
	logger   *slog.Logger

	// mu guards the snapshot and listener set. It is held across
	// listener dispatch so downstream observers see changes in apply
	// order.
	mu        sync.Mutex
	state     State
	session   *identity.Session
	listeners map[int]func(Snapshot)
	nextID    int

	started bool
	closed  bool
	events  chan *identity.Session
	unsub   identity.Unsubscribe
	done    chan struct{}
}

// NewManager creates a session manager over the given provider.
func NewManager(provider identity.Provider, logger *slog.Logger) (*Manager, error) {
	if provider == nil {
		return nil, errors.New("identity provider cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		provider:  provider,
		logger:    logger.With(slog.String("component", "session_manager")),
		state:     StateUnknown,
		listeners: make(map[int]func(Snapshot)),
		events:    make(chan *identity.Session, 16),
		done:      make(chan struct{}),
	}, nil
}

// Start begins the lifecycle: the state moves to Checking, the manager
// subscribes to provider notifications, and the initial session restore
// runs asynchronously. Start is a one-shot; calling it again has no
// effect.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.state = StateChecking
	m.mu.Unlock()

	// Subscribing before the restore call means no notification can be
	// missed; anything emitted while the restore is in flight is
	// buffered and applied after it, which is the correct order since
	// such a notification is newer than the restored snapshot.
	m.unsub = m.provider.Subscribe(func(session *identity.Session) {
		select {
		case m.events <- session:
		case <-m.done:
		}
	})

	go m.run(ctx)
}

func (m *Manager) run(ctx context.Context) {
	session, err := m.provider.CurrentSession(ctx)
	if err != nil {
		// A failed restore is indistinguishable from having no session;
		// the guardian signs in again.
		m.logger.Warn("session restore failed",
			slog.String("error", err.Error()))
		session = nil
	}
	m.apply(session)

	for {
		select {
		case session := <-m.events:
			m.apply(session)
		case <-m.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// apply moves the state machine forward and notifies listeners. It is
// only ever called from the consumer goroutine.
func (m *Manager) apply(session *identity.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session != nil {
		m.state = StateAuthenticated
	} else {
		m.state = StateUnauthenticated
	}
	m.session = session

	snap := Snapshot{State: m.state, Session: m.session}
	for _, fn := range m.listeners {
		fn(snap)
	}
}

// Current returns the current lifecycle snapshot.
func (m *Manager) Current() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{State: m.state, Session: m.session}
}

// Subscribe registers a listener for lifecycle changes. Listeners are
// invoked in apply order. The returned function detaches the listener.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.listeners[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// SignIn authenticates through the provider. The resulting state change
// arrives through the provider's notification stream.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	if !m.isStarted() {
		return nil, ErrNotStarted
	}
	return m.provider.SignIn(ctx, email, password)
}

// SignUp registers through the provider. When the outcome is
// confirmation-pending no session exists and the state stays
// unauthenticated.
func (m *Manager) SignUp(ctx context.Context, email, password string, profile identity.Profile) (*identity.SignUpOutcome, error) {
	if !m.isStarted() {
		return nil, ErrNotStarted
	}
	return m.provider.SignUp(ctx, email, password, profile)
}

// SignOut tears down the session. Whatever the provider's remote
// teardown does, the local state always ends unauthenticated: a failed
// remote call must not leave the process looking signed in.
func (m *Manager) SignOut(ctx context.Context) error {
	if !m.isStarted() {
		return ErrNotStarted
	}

	err := m.provider.SignOut(ctx)
	if err != nil {
		// The provider may not have emitted the session-loss
		// notification before failing; enqueue it ourselves so the
		// state still converges to unauthenticated, in order.
		select {
		case m.events <- nil:
		case <-m.done:
		}
	}
	return err
}

// Close detaches from the provider and stops the consumer. The manager
// cannot be restarted.
func (m *Manager) Close() {
	m.mu.Lock()
	if !m.started || m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	if m.unsub != nil {
		m.unsub()
	}
	close(m.done)
}

func (m *Manager) isStarted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}
