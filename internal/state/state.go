// Package state scopes quiz sessions, study notes and history to an
// individual browser session. All of it lives in memory; an idle user
// is evicted after the TTL.
package state

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/pavelanni/edusearch/internal/history"
	"github.com/pavelanni/edusearch/internal/notes"
	"github.com/pavelanni/edusearch/internal/quiz"
)

// DefaultTTL is how long an idle user session is retained.
const DefaultTTL = 24 * time.Hour

// ClearConfirmWindow is how long an armed history-clear request stays
// confirmable.
const ClearConfirmWindow = 60 * time.Second

// User holds all state belonging to one session token. Mu guards every
// field below it; handlers lock it for the duration of a request so
// operations on one user stay strictly sequential.
type User struct {
	Mu sync.Mutex

	Quiz    *quiz.Session
	Notes   *notes.StudyNotes
	History *history.Log

	// Limiter throttles generation requests. It synchronizes itself and
	// is not covered by Mu.
	Limiter *rate.Limiter

	clearArmedAt time.Time
}

// ArmClear opens the history-clear confirmation window. Caller holds Mu.
func (u *User) ArmClear(now time.Time) {
	u.clearArmedAt = now
}

// ClearArmed reports whether a clear armed within the confirmation
// window is still pending. Caller holds Mu.
func (u *User) ClearArmed(now time.Time) bool {
	if u.clearArmedAt.IsZero() {
		return false
	}
	return now.Sub(u.clearArmedAt) <= ClearConfirmWindow
}

// DisarmClear closes the confirmation window. Caller holds Mu.
func (u *User) DisarmClear() {
	u.clearArmedAt = time.Time{}
}

type entry struct {
	user     *User
	lastSeen time.Time
}

// Manager owns the token-to-user map. Tokens are opaque 32-byte hex
// strings carried in a cookie.
type Manager struct {
	mu    sync.Mutex
	users map[string]*entry

	ttl      time.Duration
	genRate  rate.Limit
	genBurst int

	now func() time.Time
}

// NewManager creates a manager whose users idle out after ttl and whose
// generation limiters allow genRate events with bursts of genBurst.
func NewManager(ttl time.Duration, genRate rate.Limit, genBurst int) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		users:    make(map[string]*entry),
		ttl:      ttl,
		genRate:  genRate,
		genBurst: genBurst,
		now:      time.Now,
	}
}

// Create registers a fresh user and returns its session token.
func (m *Manager) Create() (string, *User, error) {
	token, err := generateToken()
	if err != nil {
		return "", nil, err
	}
	u := &User{
		History: history.New(),
		Limiter: rate.NewLimiter(m.genRate, m.genBurst),
	}
	m.mu.Lock()
	m.users[token] = &entry{user: u, lastSeen: m.now()}
	m.mu.Unlock()
	return token, u, nil
}

// Get returns the user for token and refreshes its expiry. Unknown and
// expired tokens return false; expired ones are evicted on the spot.
func (m *Manager) Get(token string) (*User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.users[token]
	if !ok {
		return nil, false
	}
	now := m.now()
	if now.Sub(e.lastSeen) > m.ttl {
		delete(m.users, token)
		return nil, false
	}
	e.lastSeen = now
	return e.user, true
}

// Delete drops the user for token.
func (m *Manager) Delete(token string) {
	m.mu.Lock()
	delete(m.users, token)
	m.mu.Unlock()
}

// Len reports the number of live user sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// CleanupExpired evicts users idle past the TTL and returns how many.
func (m *Manager) CleanupExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	evicted := 0
	for token, e := range m.users {
		if now.Sub(e.lastSeen) > m.ttl {
			delete(m.users, token)
			evicted++
		}
	}
	return evicted
}

// StartCleanup sweeps expired users every interval until ctx is done.
func (m *Manager) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.CleanupExpired(); n > 0 {
					slog.Debug("evicted idle user sessions", "count", n)
				}
			}
		}
	}()
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

type userCtxKey struct{}

// ContextWithUser stores a user in the request context.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext retrieves the request's user from context, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}
