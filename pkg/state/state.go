// Package state implements the client state aggregator: the single source of
// truth for an authenticated user's commerce state. One App exists per
// session; every mutation writes through the gateway and then reloads the
// affected slice, so the in-memory view always matches persisted state.
package state

import (
	"context"
	"sync"

	"github.com/example/fooddash/pkg/apperr"
	"github.com/example/fooddash/pkg/config"
	"github.com/example/fooddash/pkg/gateway"
	"github.com/example/fooddash/pkg/models"
	"github.com/example/fooddash/pkg/normalize"
	"github.com/example/fooddash/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// slice names one independently reloadable subset of aggregator state.
type slice int

const (
	sliceUser slice = iota
	sliceAddresses
	sliceCart
	slicePayments
	sliceFavorites
	sliceOrders
	sliceProducts
	sliceCount
)

// FlagStore persists the onboarding marker, the Go analogue of the device
// key-value store.
type FlagStore interface {
	SetOnboardingComplete(ctx context.Context, userID string) error
	OnboardingComplete(ctx context.Context, userID string) (bool, error)
}

// AuditSink receives one entry per mutating operation.
type AuditSink interface {
	CreateAuditLog(ctx context.Context, log *repository.AuditLog) error
}

// App aggregates all user-scoped slices behind one lock. Gateway calls are
// never made while the lock is held; a reload result is applied only when it
// is the latest issued for its slice, so a slow response can never overwrite
// or shadow a fresher one, and an epoch check ensures nothing from a previous
// session leaks into the next.
type App struct {
	gw       gateway.Gateway
	flags    FlagStore
	audit    AuditSink
	logger   *zap.Logger
	checkout config.CheckoutConfig

	mu      sync.Mutex
	session *gateway.Session
	epoch   uint64
	issued  [sliceCount]uint64

	user              models.User
	onboarded         bool
	addresses         []models.Address
	selectedAddressID string
	cart              []models.CartItem
	paymentMethods    []models.PaymentMethod
	selectedPaymentID string
	favorites         map[string]struct{}
	orders            []models.Order
	products          []models.Product
}

type Option func(*App)

func WithLogger(logger *zap.Logger) Option { return func(a *App) { a.logger = logger } }
func WithFlags(flags FlagStore) Option     { return func(a *App) { a.flags = flags } }
func WithAudit(sink AuditSink) Option      { return func(a *App) { a.audit = sink } }
func WithCheckout(cfg config.CheckoutConfig) Option {
	return func(a *App) { a.checkout = cfg }
}

// NewApp builds an unauthenticated aggregator. Callers construct one per
// session and pass it by reference; there is no ambient global.
func NewApp(gw gateway.Gateway, opts ...Option) *App {
	a := &App{
		gw:        gw,
		logger:    zap.NewNop(),
		checkout:  config.CheckoutConfig{DeliveryFee: 2.0},
		favorites: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// beginReload stamps a reload attempt for one slice against the current
// epoch. Only session-independent slices use this; user-scoped reloads carry
// the epoch handed out by requireAuth so that a sign-out between the auth
// check and the reload invalidates the result.
func (a *App) beginReload(s slice) (epoch, seq uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.issued[s]++
	return a.epoch, a.issued[s]
}

// stamp records a reload attempt for one slice and returns its sequence.
func (a *App) stamp(s slice) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.issued[s]++
	return a.issued[s]
}

// commit applies a reload result unless the session changed or a newer
// reload for the same slice has been issued. Comparing against issued (not
// merely landed) sequences means a slow response is dropped as soon as a
// fresher reload is in flight, even if that reload has not returned yet.
func (a *App) commit(s slice, epoch, seq uint64, apply func()) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if epoch != a.epoch || seq < a.issued[s] {
		return false
	}
	apply()
	return true
}

// requireAuth returns the current user id together with the session epoch.
// Reloads triggered by the caller pass the epoch along so results from a
// session that has since ended are discarded instead of applied.
func (a *App) requireAuth() (string, uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return "", 0, apperr.Domain("state.requireAuth", "not authenticated", apperr.ErrUnauthenticated)
	}
	return a.session.UserID, a.epoch, nil
}

// resetLocked clears every slice. Caller holds the lock and has already
// bumped the epoch, so in-flight reloads from before the reset are dropped
// when they arrive.
func (a *App) resetLocked() {
	a.user = models.User{}
	a.onboarded = false
	a.addresses = nil
	a.selectedAddressID = ""
	a.cart = nil
	a.paymentMethods = nil
	a.selectedPaymentID = ""
	a.favorites = make(map[string]struct{})
	a.orders = nil
	a.issued = [sliceCount]uint64{}
}

// Login authenticates and loads every user-scoped slice. Auth failures
// surface to the caller for retry-by-resubmission; nothing is retried here.
func (a *App) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return apperr.Validation("state.Login", "email and password are required")
	}
	session, err := a.gw.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	return a.adopt(ctx, session)
}

// SignUp creates the account, then behaves like Login.
func (a *App) SignUp(ctx context.Context, name, email, password string) error {
	session, err := a.gw.SignUp(ctx, name, email, password)
	if err != nil {
		return err
	}
	return a.adopt(ctx, session)
}

// adopt installs a fresh session and loads all slices.
func (a *App) adopt(ctx context.Context, session *gateway.Session) error {
	a.mu.Lock()
	a.epoch++
	a.session = session
	a.resetLocked()
	a.mu.Unlock()

	a.logger.Info("Session adopted", zap.String("user_id", session.UserID))
	return a.Refresh(ctx)
}

// Resume attaches to an existing session without re-authenticating.
func (a *App) Resume(ctx context.Context, session *gateway.Session) error {
	return a.adopt(ctx, session)
}

// Logout clears all in-memory state before the remote sign-out call, so a
// subsequent login by a different user can never observe stale slices even
// while previous reloads are still in flight.
func (a *App) Logout(ctx context.Context) error {
	a.mu.Lock()
	session := a.session
	a.epoch++
	a.session = nil
	a.resetLocked()
	a.mu.Unlock()

	if session == nil {
		return nil
	}
	if err := a.gw.SignOut(ctx, session.Token); err != nil {
		a.logger.Warn("Remote sign-out failed", zap.Error(err))
		return err
	}
	a.logger.Info("Logged out", zap.String("user_id", session.UserID))
	return nil
}

// Refresh reloads every slice from the gateway, e.g. on screen focus.
func (a *App) Refresh(ctx context.Context) error {
	userID, epoch, err := a.requireAuth()
	if err != nil {
		return err
	}
	if err := a.reloadUser(ctx, userID, epoch); err != nil {
		return err
	}
	if err := a.reloadAddresses(ctx, userID, epoch); err != nil {
		return err
	}
	if err := a.reloadCart(ctx, userID, epoch); err != nil {
		return err
	}
	if err := a.reloadPaymentMethods(ctx, userID, epoch); err != nil {
		return err
	}
	if err := a.reloadFavorites(ctx, userID, epoch); err != nil {
		return err
	}
	return a.reloadOrders(ctx, userID, epoch)
}

func (a *App) reloadUser(ctx context.Context, userID string, epoch uint64) error {
	seq := a.stamp(sliceUser)
	row, err := a.gw.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	user := normalize.User(row)

	onboarded := false
	if a.flags != nil {
		if done, err := a.flags.OnboardingComplete(ctx, userID); err == nil {
			onboarded = done
		}
	}

	a.commit(sliceUser, epoch, seq, func() {
		a.user = user
		a.onboarded = onboarded
	})
	return nil
}

// UpdateProfile edits name/phone/bio/avatar and reloads the profile slice.
func (a *App) UpdateProfile(ctx context.Context, name, phone, bio, avatar string) error {
	userID, epoch, err := a.requireAuth()
	if err != nil {
		return err
	}
	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if phone != "" {
		updates["phone"] = phone
	}
	if bio != "" {
		updates["bio"] = bio
	}
	if avatar != "" {
		updates["avatar_url"] = avatar
	}
	if len(updates) == 0 {
		return apperr.Validation("state.UpdateProfile", "nothing to update")
	}
	if err := a.gw.UpdateUser(ctx, userID, updates); err != nil {
		return err
	}
	a.auditLog(userID, "update_profile", userID, bson.M{"fields": len(updates)})
	return a.reloadUser(ctx, userID, epoch)
}

// CompleteOnboarding persists the first-run flag.
func (a *App) CompleteOnboarding(ctx context.Context) error {
	userID, _, err := a.requireAuth()
	if err != nil {
		return err
	}
	if a.flags != nil {
		if err := a.flags.SetOnboardingComplete(ctx, userID); err != nil {
			return apperr.Gateway("state.CompleteOnboarding", err)
		}
	}
	a.mu.Lock()
	a.onboarded = true
	a.mu.Unlock()
	return nil
}

func (a *App) auditLog(userID, action, entityID string, data bson.M) {
	if a.audit == nil {
		return
	}
	go func() {
		err := a.audit.CreateAuditLog(context.Background(), &repository.AuditLog{
			UserID:   userID,
			Action:   action,
			EntityID: entityID,
			Data:     data,
		})
		if err != nil {
			a.logger.Warn("Audit write failed", zap.String("action", action), zap.Error(err))
		}
	}()
}

// Read accessors. Slices are copied so callers cannot observe later
// mutations mid-iteration.

func (a *App) IsAuthenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session != nil
}

func (a *App) Session() *gateway.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return nil
	}
	s := *a.session
	return &s
}

func (a *App) User() models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user
}

func (a *App) HasCompletedOnboarding() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.onboarded
}
