package state

import (
	"context"
	"sync"

	"github.com/example/fooddash/pkg/gateway"
	"github.com/example/fooddash/pkg/validate"
	"go.uber.org/zap"
)

// Manager constructs one App per authenticated session and hands it to the
// HTTP layer by session token. Apps are built once at session start and
// passed by reference; screens never talk to the gateway directly.
type Manager struct {
	gw   gateway.Gateway
	opts []Option

	mu   sync.Mutex
	apps map[string]*App
}

func NewManager(gw gateway.Gateway, opts ...Option) *Manager {
	return &Manager{
		gw:   gw,
		opts: opts,
		apps: make(map[string]*App),
	}
}

func (m *Manager) newApp() *App {
	return NewApp(m.gw, m.opts...)
}

func (m *Manager) store(app *App) {
	if s := app.Session(); s != nil {
		m.mu.Lock()
		m.apps[s.Token] = app
		m.mu.Unlock()
	}
}

// Login authenticates and returns a fully loaded aggregator.
func (m *Manager) Login(ctx context.Context, email, password string) (*App, error) {
	app := m.newApp()
	if err := app.Login(ctx, email, password); err != nil {
		return nil, err
	}
	m.store(app)
	return app, nil
}

// SignUp validates input locally before any remote call, then creates the
// account and returns its aggregator.
func (m *Manager) SignUp(ctx context.Context, name, email, password string) (*App, error) {
	if err := validate.SignUp(name, email, password); err != nil {
		return nil, err
	}
	app := m.newApp()
	if err := app.SignUp(ctx, name, email, password); err != nil {
		return nil, err
	}
	m.store(app)
	return app, nil
}

// Get resolves a session token to its aggregator. The session is
// revalidated with the gateway on every call, which both slides the token's
// expiry forward and lets aggregators for expired sessions be evicted
// instead of pinning their slices in memory indefinitely.
func (m *Manager) Get(ctx context.Context, token string) (*App, error) {
	session, err := m.gw.GetSession(ctx, token)
	if err != nil {
		m.mu.Lock()
		delete(m.apps, token)
		m.mu.Unlock()
		return nil, err
	}

	m.mu.Lock()
	app, ok := m.apps[token]
	m.mu.Unlock()
	if ok {
		return app, nil
	}

	app = m.newApp()
	if err := app.Resume(ctx, session); err != nil {
		return nil, err
	}
	m.store(app)
	return app, nil
}

// Logout tears down the session and drops the aggregator so no state
// survives for the next user of the token.
func (m *Manager) Logout(ctx context.Context, token string) error {
	m.mu.Lock()
	app, ok := m.apps[token]
	delete(m.apps, token)
	m.mu.Unlock()

	if !ok {
		app = m.newApp()
		session, err := m.gw.GetSession(ctx, token)
		if err != nil {
			return err
		}
		app.mu.Lock()
		app.session = session
		app.mu.Unlock()
	}
	return app.Logout(ctx)
}

// Catalog returns an unauthenticated aggregator for public product reads.
func (m *Manager) Catalog() *App {
	return m.newApp()
}

// WithNamedLogger is a convenience for cmd wiring.
func WithNamedLogger(logger *zap.Logger, name string) Option {
	return WithLogger(logger.Named(name))
}
