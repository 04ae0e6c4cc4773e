package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/buzzerapp/buzzer/pkg/domain"
)

// AuthAPI is the slice of the backend the manager needs. *client.Client
// satisfies it.
type AuthAPI interface {
	Profile(ctx context.Context, accessToken string) (*domain.UserProfile, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, accessToken string, typ domain.AccountType) error
}

// Manager owns login/logout/refresh transitions and profile hydration. All
// token writes in the program go through it; no other component touches the
// store. Safe for concurrent use; bubbletea commands run on goroutines.
type Manager struct {
	mu       sync.Mutex
	store    *Store
	api      AuthAPI
	log      zerolog.Logger
	sess     domain.Session
	onChange func(authenticated bool)
}

// NewManager creates a manager over the given store and auth API.
func NewManager(store *Store, api AuthAPI, log zerolog.Logger) *Manager {
	return &Manager{store: store, api: api, log: log}
}

// SetOnChange registers a listener invoked on every authenticated⇄anonymous
// transition. Must be called before Initialize.
func (m *Manager) SetOnChange(fn func(authenticated bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Initialize runs once at startup. It adopts a persisted session and, when
// the profile is not cached, fetches it. A failed profile fetch leaves the
// session authenticated with a nil profile; tokens are trusted and the fetch
// is retried implicitly on the next start.
func (m *Manager) Initialize(ctx context.Context) {
	sess := m.store.Load()
	if !sess.Authenticated() {
		return
	}

	m.mu.Lock()
	m.sess = sess
	fn := m.onChange
	m.mu.Unlock()
	if fn != nil {
		fn(true)
	}

	if sess.Profile != nil {
		return
	}
	m.hydrateProfile(ctx, sess.AccessToken)
}

// Login adopts a freshly issued token pair. Tokens are persisted before the
// profile fetch is attempted, so a failed fetch never leaves the session
// half-authenticated; the fetch failure itself is logged and swallowed.
func (m *Manager) Login(ctx context.Context, typ domain.AccountType, tokens domain.TokenPair) error {
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		return fmt.Errorf("session: login requires both tokens")
	}

	sess := domain.Session{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		Type:         typ,
	}

	m.mu.Lock()
	m.sess = sess
	fn := m.onChange
	m.mu.Unlock()

	if err := m.store.Save(sess); err != nil {
		m.log.Error().Err(err).Msg("persist session")
		// In-memory session stands; persistence failure only costs the
		// next reload.
	}
	if fn != nil {
		fn(true)
	}

	m.hydrateProfile(ctx, tokens.AccessToken)
	return nil
}

// Logout notifies the backend best-effort and unconditionally clears local
// state. The server call is fire-and-forget: local clear wins regardless of
// network outcome.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	sess := m.sess
	m.mu.Unlock()

	if sess.Authenticated() {
		typ := sess.Type
		if typ == "" {
			typ = domain.AccountCustomer
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := m.api.Logout(ctx, sess.AccessToken, typ); err != nil {
				m.log.Debug().Err(err).Msg("logout notify failed")
			}
		}()
	}

	m.clearLocal()
}

// AccessToken returns the current access token, or "" when anonymous.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess.AccessToken
}

// Refresh exchanges the stored refresh token for a new access token and
// reports success. On success only the access token is replaced; the refresh
// token and profile are untouched. On failure nothing is mutated; deciding
// what a failed refresh means is the gateway's job.
func (m *Manager) Refresh(ctx context.Context) bool {
	m.mu.Lock()
	refreshToken := m.sess.RefreshToken
	m.mu.Unlock()
	if refreshToken == "" {
		return false
	}

	accessToken, err := m.api.RefreshToken(ctx, refreshToken)
	if err != nil || accessToken == "" {
		if err != nil {
			m.log.Warn().Err(err).Msg("refresh access token")
		}
		return false
	}

	m.mu.Lock()
	// Logout may have raced the refresh; a dead session stays dead.
	if m.sess.RefreshToken != refreshToken {
		m.mu.Unlock()
		return false
	}
	m.sess.AccessToken = accessToken
	sess := m.sess
	m.mu.Unlock()

	if err := m.store.Save(sess); err != nil {
		m.log.Error().Err(err).Msg("persist refreshed session")
	}
	return true
}

// ForceLogout clears the session after an irrecoverable refresh failure.
// No server notification: the credentials are already dead.
func (m *Manager) ForceLogout(_ context.Context) {
	m.clearLocal()
}

// Authenticated reports whether a complete token pair is held, independent of
// profile readiness.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess.Authenticated()
}

// Profile returns the cached profile, or nil while hydration is pending or
// failed.
func (m *Manager) Profile() *domain.UserProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess.Profile
}

// Session returns a copy of the current session.
func (m *Manager) Session() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess
}

// ReloadProfile re-fetches and caches the profile, e.g. after an edit.
func (m *Manager) ReloadProfile(ctx context.Context) error {
	m.mu.Lock()
	token := m.sess.AccessToken
	m.mu.Unlock()
	if token == "" {
		return fmt.Errorf("session: not authenticated")
	}
	profile, err := m.api.Profile(ctx, token)
	if err != nil {
		return fmt.Errorf("session: reload profile: %w", err)
	}
	m.adoptProfile(profile)
	return nil
}

func (m *Manager) hydrateProfile(ctx context.Context, accessToken string) {
	profile, err := m.api.Profile(ctx, accessToken)
	if err != nil {
		m.log.Warn().Err(err).Msg("fetch profile")
		return
	}
	m.adoptProfile(profile)
}

// adoptProfile caches a fetched profile unless the session moved on while the
// fetch was in flight.
func (m *Manager) adoptProfile(profile *domain.UserProfile) {
	m.mu.Lock()
	if !m.sess.Authenticated() {
		m.mu.Unlock()
		return
	}
	m.sess.Profile = profile
	sess := m.sess
	m.mu.Unlock()

	if err := m.store.Save(sess); err != nil {
		m.log.Error().Err(err).Msg("persist profile")
	}
}

func (m *Manager) clearLocal() {
	m.mu.Lock()
	wasAuthed := m.sess.Authenticated()
	m.sess = domain.Session{}
	fn := m.onChange
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		m.log.Error().Err(err).Msg("clear session store")
	}
	if wasAuthed && fn != nil {
		fn(false)
	}
}
