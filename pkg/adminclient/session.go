package adminclient

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Session is the client-side handle on a live store session.
type Session struct {
	Token     string
	ExpiresAt *time.Time
}

// AuthState is the snapshot consumers read. Initialized distinguishes
// "unknown, do not decide yet" (false) from "known unauthenticated"
// (true with nil User).
type AuthState struct {
	User        *User
	Session     *Session
	Profile     *Profile
	Loading     bool
	Initialized bool
}

// SessionManager is the single source of truth for "who is logged in and
// are they allowed to act". All mutation flows through its methods; State
// returns copies only.
type SessionManager struct {
	client *Client

	mu          sync.Mutex
	state       AuthState
	storedToken string
	seq         uint64
	logoutSeq   uint64
}

// Option configures a SessionManager.
type Option func(*SessionManager)

// WithStoredToken seeds the manager with a previously issued token that
// Initialize will try to resolve into a session.
func WithStoredToken(token string) Option {
	return func(m *SessionManager) { m.storedToken = token }
}

// NewSessionManager constructs a SessionManager bound to an API client.
func NewSessionManager(client *Client, opts ...Option) *SessionManager {
	m := &SessionManager{client: client}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns a copy of the current auth state.
func (m *SessionManager) State() AuthState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// HasRole reports whether the current profile holds any of the given
// roles. False whenever unauthenticated. This gates UI only; the server
// re-checks every request.
func (m *SessionManager) HasRole(roles ...string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Profile == nil {
		return false
	}
	for _, role := range roles {
		if m.state.Profile.Role == role {
			return true
		}
	}
	return false
}

// Initialize resolves a pre-existing session, if any, and flips
// Initialized to true exactly once. Transport failures resolve to a known
// unauthenticated state instead of propagating.
func (m *SessionManager) Initialize(ctx context.Context) {
	m.mu.Lock()
	if m.state.Initialized {
		m.mu.Unlock()
		return
	}
	token := m.storedToken
	m.state.Loading = true
	m.mu.Unlock()

	var resolved *sessionData
	if token != "" {
		if env, err := m.client.session(ctx, token); err == nil && env.Success {
			var data sessionData
			if err := json.Unmarshal(env.Data, &data); err == nil && data.Profile != nil {
				resolved = &data
			}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if resolved != nil && resolved.Profile.Active && !blockedNow(resolved.Profile) {
		m.state.User = &resolved.User
		m.state.Session = &Session{Token: token, ExpiresAt: resolved.ExpiresAt}
		m.state.Profile = resolved.Profile
	}
	m.state.Loading = false
	m.state.Initialized = true
}

// Login authenticates and stores the resulting session. On failure the
// state stays unauthenticated and the LoginResult carries the enumerated
// error code.
func (m *SessionManager) Login(ctx context.Context, email, password string) LoginResult {
	seq := m.begin()

	env, err := m.client.login(ctx, email, password)
	if err != nil {
		m.finish(seq, nil)
		return LoginResult{ErrorCode: "NETWORK_ERROR", Message: "Error de conexión. Intenta nuevamente"}
	}

	if !env.Success {
		m.finish(seq, nil)
		result := LoginResult{ErrorCode: "NETWORK_ERROR"}
		if env.Error != nil {
			result.ErrorCode = env.Error.Code
			result.Message = env.Error.Message
			if len(env.Error.Data) > 0 {
				var detail struct {
					BlockedUntil *time.Time `json:"blockedUntil"`
				}
				if err := json.Unmarshal(env.Error.Data, &detail); err == nil {
					result.BlockedUntil = detail.BlockedUntil
				}
			}
		}
		return result
	}

	var data loginData
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" || data.Profile == nil {
		m.finish(seq, nil)
		return LoginResult{ErrorCode: "NETWORK_ERROR", Message: "Error de conexión. Intenta nuevamente"}
	}

	m.finish(seq, func() {
		m.state.User = &User{ID: data.Profile.AuthUserID, Email: data.Profile.Email}
		m.state.Session = &Session{Token: data.Token}
		m.state.Profile = data.Profile
	})
	return LoginResult{Success: true}
}

// Logout invalidates the store session and clears local state. Safe to
// call when already logged out.
func (m *SessionManager) Logout(ctx context.Context) {
	seq := m.begin()

	m.mu.Lock()
	var token string
	if m.state.Session != nil {
		token = m.state.Session.Token
	}
	m.mu.Unlock()

	if token != "" {
		// Best effort; the local state clears regardless.
		_ = m.client.logout(ctx, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.User = nil
	m.state.Session = nil
	m.state.Profile = nil
	m.state.Loading = false
	m.logoutSeq = seq
}

// RefreshProfile re-fetches the profile for the current session. If the
// session is gone or the profile has become inactive/blocked, it forces a
// logout: a session is never left authenticated against a profile known
// to be ineligible. A logout issued while the refresh is in flight wins
// regardless of completion order.
func (m *SessionManager) RefreshProfile(ctx context.Context) error {
	seq := m.begin()

	m.mu.Lock()
	var token string
	if m.state.Session != nil {
		token = m.state.Session.Token
	}
	m.mu.Unlock()

	if token == "" {
		m.finish(seq, nil)
		return nil
	}

	env, err := m.client.session(ctx, token)
	if err != nil {
		// Transport failure: keep current state, report the error.
		m.finish(seq, nil)
		return err
	}

	if !env.Success {
		// The server rejected the session (revoked, inactive, blocked).
		m.finish(seq, m.clearState)
		return nil
	}

	var data sessionData
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Profile == nil {
		m.finish(seq, m.clearState)
		return nil
	}
	if !data.Profile.Active || blockedNow(data.Profile) {
		m.finish(seq, m.clearState)
		return nil
	}

	m.finish(seq, func() {
		// Only update an intact session; a concurrent logout already won.
		if m.state.Session != nil && m.state.Session.Token == token {
			m.state.User = &data.User
			m.state.Profile = data.Profile
		}
	})
	return nil
}

// begin issues a sequence number for a state-mutating operation and marks
// the manager as loading.
func (m *SessionManager) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.state.Loading = true
	return m.seq
}

// finish applies an operation result unless a logout with a newer or equal
// sequence number has been applied since the operation began.
func (m *SessionManager) finish(seq uint64, apply func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Loading = false
	if seq <= m.logoutSeq {
		return
	}
	if apply != nil {
		apply()
	}
}

// clearState drops user/session/profile. Callers hold the mutex via finish.
func (m *SessionManager) clearState() {
	m.state.User = nil
	m.state.Session = nil
	m.state.Profile = nil
}

func blockedNow(p *Profile) bool {
	if !p.Blocked {
		return false
	}
	if p.BlockedUntil != nil && time.Now().After(*p.BlockedUntil) {
		return false
	}
	return true
}
