package session

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/volt-go/volt/pkg/httpx"
	"github.com/volt-go/volt/pkg/router"
)

// requestKey is the scratch-value key the manager uses on requests.
const requestKey = "volt.session"

// Config configures the session cookie.
type Config struct {
	// CookieName is the session cookie name. Default: "volt_session".
	CookieName string

	// TTL is the session lifetime. Default: 2 hours.
	TTL time.Duration

	// Secure marks the cookie Secure. Default: false (enable behind TLS).
	Secure bool

	// HTTPOnly marks the cookie HttpOnly. Default: true.
	HTTPOnly bool

	// SameSite is the cookie SameSite mode. Default: Lax.
	SameSite http.SameSite
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		CookieName: "volt_session",
		TTL:        2 * time.Hour,
		HTTPOnly:   true,
		SameSite:   http.SameSiteLaxMode,
	}
}

// Manager loads and creates sessions around a Store.
type Manager struct {
	store  Store
	cfg    *Config
	logger *slog.Logger
}

// NewManager creates a manager. A nil cfg uses DefaultConfig.
func NewManager(store Store, cfg *Config) *Manager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Manager{
		store:  store,
		cfg:    cfg,
		logger: slog.Default().With("component", "session"),
	}
}

// Middleware attaches a session to every request passing through it.
// It never short-circuits; a store failure degrades to a fresh session.
func (m *Manager) Middleware() router.Middleware {
	return router.MiddlewareFunc(func(req *httpx.Request) *httpx.Response {
		sess := m.load(req)
		req.Set(requestKey, sess)
		if sess.fresh {
			m.setCookie(req, sess.id)
		}
		return nil
	})
}

// FromRequest returns the session attached by the manager's middleware,
// or nil when the middleware did not run.
func FromRequest(req *httpx.Request) *Session {
	v, ok := req.Get(requestKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*Session)
	return sess
}

func (m *Manager) load(req *httpx.Request) *Session {
	if cookie := req.Cookie(m.cfg.CookieName); cookie != nil {
		values, err := m.store.Load(req.Context(), cookie.Value)
		if err == nil {
			return &Session{
				id:     cookie.Value,
				ctx:    req.Context(),
				store:  m.store,
				values: values,
			}
		}
		if err != ErrNotFound {
			m.logger.Warn("session load failed", "error", err)
		}
	}

	id := uuid.NewString()
	sess := &Session{
		id:     id,
		fresh:  true,
		ctx:    req.Context(),
		store:  m.store,
		values: make(map[string]any),
	}
	if err := m.store.Save(req.Context(), id, map[string]any{}); err != nil {
		m.logger.Warn("session create failed", "error", err)
	}
	return sess
}

func (m *Manager) setCookie(req *httpx.Request, id string) {
	cookie := &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(m.cfg.TTL.Seconds()),
		Secure:   m.cfg.Secure,
		HttpOnly: m.cfg.HTTPOnly,
		SameSite: m.cfg.SameSite,
	}
	req.AddResponseHeader("Set-Cookie", cookie.String())
}
