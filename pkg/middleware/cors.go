package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/volt-go/volt/pkg/httpx"
	"github.com/volt-go/volt/pkg/router"
)

// CORSConfig configures cross-origin resource sharing.
type CORSConfig struct {
	// AllowedOrigins lists permitted origins. "*" permits any.
	// Default: ["*"].
	AllowedOrigins []string

	// AllowedMethods lists methods advertised on preflight.
	// Default: GET, POST, PUT, PATCH, DELETE, OPTIONS.
	AllowedMethods []string

	// AllowedHeaders lists request headers advertised on preflight.
	// Default: Content-Type, Authorization, X-Requested-With.
	AllowedHeaders []string

	// AllowCredentials adds Access-Control-Allow-Credentials. When set,
	// the allowed origin is echoed instead of "*".
	AllowCredentials bool

	// MaxAge caches preflight results in the browser. Default: 12h.
	MaxAge time.Duration
}

func (c *CORSConfig) defaults() {
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Content-Type", "Authorization", "X-Requested-With"}
	}
	if c.MaxAge == 0 {
		c.MaxAge = 12 * time.Hour
	}
}

// CORS builds the CORS middleware. Preflight requests short-circuit
// with 204; simple requests pass through with the allow-origin headers
// recorded for the final response.
//
// Preflights only reach middleware on a matched route, so register
// CORS-protected paths with Any (or an explicit OPTIONS route).
func CORS(cfg CORSConfig) router.Middleware {
	cfg.defaults()

	allowAny := false
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			allowAny = true
		}
		allowed[origin] = true
	}
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")

	return router.MiddlewareFunc(func(req *httpx.Request) *httpx.Response {
		origin := req.Header("Origin")
		if origin == "" {
			return nil
		}
		if !allowAny && !allowed[origin] {
			return nil
		}

		allowOrigin := origin
		if allowAny && !cfg.AllowCredentials {
			allowOrigin = "*"
		}

		if req.Raw().Method == http.MethodOptions && req.Header("Access-Control-Request-Method") != "" {
			resp := httpx.NoContent()
			resp.Header.Set("Access-Control-Allow-Origin", allowOrigin)
			resp.Header.Set("Access-Control-Allow-Methods", methods)
			resp.Header.Set("Access-Control-Allow-Headers", headers)
			resp.Header.Set("Access-Control-Max-Age", strconv.Itoa(int(cfg.MaxAge.Seconds())))
			if cfg.AllowCredentials {
				resp.Header.Set("Access-Control-Allow-Credentials", "true")
			}
			resp.Header.Add("Vary", "Origin")
			return resp
		}

		req.SetResponseHeader("Access-Control-Allow-Origin", allowOrigin)
		req.AddResponseHeader("Vary", "Origin")
		if cfg.AllowCredentials {
			req.SetResponseHeader("Access-Control-Allow-Credentials", "true")
		}
		return nil
	})
}
