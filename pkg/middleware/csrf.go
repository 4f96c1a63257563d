package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"

	"github.com/volt-go/volt/pkg/httpx"
	"github.com/volt-go/volt/pkg/router"
	"github.com/volt-go/volt/pkg/session"
)

// CSRFConfig configures CSRF protection.
type CSRFConfig struct {
	// FieldName is the form field carrying the token. Default: "_token".
	FieldName string

	// HeaderName is the header carrying the token for non-form clients.
	// Default: "X-CSRF-Token".
	HeaderName string

	// SessionKey is where the token lives in the session.
	// Default: "volt.csrf".
	SessionKey string
}

func (c *CSRFConfig) defaults() {
	if c.FieldName == "" {
		c.FieldName = "_token"
	}
	if c.HeaderName == "" {
		c.HeaderName = "X-CSRF-Token"
	}
	if c.SessionKey == "" {
		c.SessionKey = "volt.csrf"
	}
}

var safeMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// CSRF builds session-bound CSRF protection. Safe methods ensure a
// token exists; mutating methods must present it via form field or
// header. The session middleware must run earlier in the chain.
func CSRF(cfg CSRFConfig) router.Middleware {
	cfg.defaults()

	return router.MiddlewareFunc(func(req *httpx.Request) *httpx.Response {
		sess := session.FromRequest(req)
		if sess == nil {
			return httpx.Text(http.StatusInternalServerError,
				"CSRF protection requires the session middleware")
		}

		if safeMethods[req.Method()] {
			if sess.GetString(cfg.SessionKey) == "" {
				sess.Set(cfg.SessionKey, uuid.NewString())
			}
			return nil
		}

		want := sess.GetString(cfg.SessionKey)
		got := req.FormValue(cfg.FieldName)
		if got == "" {
			got = req.Header(cfg.HeaderName)
		}
		if want == "" || subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
			if req.WantsJSON() {
				return httpx.JSON(http.StatusForbidden, map[string]string{"error": "CSRF token mismatch"})
			}
			return httpx.Text(http.StatusForbidden, "CSRF token mismatch")
		}
		return nil
	})
}

// Token returns the CSRF token for the request's session, for embedding
// in rendered forms. Empty when no session is attached or no token has
// been issued yet.
func Token(req *httpx.Request, sessionKey string) string {
	if sessionKey == "" {
		sessionKey = "volt.csrf"
	}
	sess := session.FromRequest(req)
	if sess == nil {
		return ""
	}
	return sess.GetString(sessionKey)
}
