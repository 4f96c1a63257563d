package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Methods that may be assumed via a POST override.
var overridableMethods = map[string]bool{
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// MethodOverrideHeader is the header checked for a method override when
// the raw method is POST.
const MethodOverrideHeader = "X-HTTP-Method-Override"

// MethodOverrideField is the form field checked for a method override
// when the raw method is POST.
const MethodOverrideField = "_method"

// Request is the framework's view of an inbound HTTP request.
type Request struct {
	raw    *http.Request
	method string
	path   string

	params map[string]string
	values map[string]any

	// respHeader accumulates headers that middleware wants on the
	// eventual response. The dispatcher merges them after the handler
	// runs.
	respHeader http.Header
}

// NewRequest wraps an *http.Request. The basePath prefix is stripped
// from the URL path when the application runs from a subdirectory; pass
// "" when serving from the root.
func NewRequest(r *http.Request, basePath string) *Request {
	path := r.URL.Path
	if basePath != "" && basePath != "/" {
		base := "/" + strings.Trim(basePath, "/")
		if path == base {
			path = "/"
		} else if strings.HasPrefix(path, base+"/") {
			path = path[len(base):]
		}
	}

	return &Request{
		raw:    r,
		method: effectiveMethod(r),
		path:   NormalizePath(path),
	}
}

// effectiveMethod resolves the request method, honoring the _method
// form field and the override header. Overrides apply only when the raw
// method is POST, and only for verbs that make sense to tunnel.
func effectiveMethod(r *http.Request) string {
	method := strings.ToUpper(r.Method)
	if method != http.MethodPost {
		return method
	}
	if v := r.PostFormValue(MethodOverrideField); v != "" {
		if m := strings.ToUpper(v); overridableMethods[m] {
			return m
		}
	}
	if v := r.Header.Get(MethodOverrideHeader); v != "" {
		if m := strings.ToUpper(v); overridableMethods[m] {
			return m
		}
	}
	return method
}

// NormalizePath ensures a leading slash and trims the trailing slash.
// The root path "/" is the one exception: it is never trimmed to "".
func NormalizePath(path string) string {
	if path == "" || path == "/" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return path
}

// Method returns the effective HTTP method.
func (r *Request) Method() string { return r.method }

// Path returns the normalized request path.
func (r *Request) Path() string { return r.path }

// Raw returns the underlying *http.Request.
func (r *Request) Raw() *http.Request { return r.raw }

// Context returns the underlying request context.
func (r *Request) Context() context.Context { return r.raw.Context() }

// SetParams replaces the route parameter map. Called by the dispatcher
// when a route matches.
func (r *Request) SetParams(params map[string]string) {
	r.params = params
}

// Params returns the route parameter map. Nil until a route matched.
func (r *Request) Params() map[string]string { return r.params }

// Param returns the named route parameter, or "" if absent.
func (r *Request) Param(name string) string { return r.params[name] }

// ParamDefault returns the named route parameter, or def if the
// parameter is absent or empty.
func (r *Request) ParamDefault(name, def string) string {
	if v, ok := r.params[name]; ok && v != "" {
		return v
	}
	return def
}

// Query returns the named query-string value.
func (r *Request) Query(name string) string {
	return r.raw.URL.Query().Get(name)
}

// FormValue returns the named form field from the request body or query.
func (r *Request) FormValue(name string) string {
	return r.raw.FormValue(name)
}

// Header returns the named request header.
func (r *Request) Header(name string) string {
	return r.raw.Header.Get(name)
}

// Cookie returns the named cookie, or nil if absent.
func (r *Request) Cookie(name string) *http.Cookie {
	c, err := r.raw.Cookie(name)
	if err != nil {
		return nil
	}
	return c
}

// BindJSON decodes the request body as JSON into v.
func (r *Request) BindJSON(v any) error {
	if r.raw.Body == nil {
		return fmt.Errorf("httpx: request has no body")
	}
	dec := json.NewDecoder(r.raw.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("httpx: decode body: %w", err)
	}
	return nil
}

// WantsJSON reports whether the client expects a JSON response, judged
// by the Accept header or an XMLHttpRequest marker.
func (r *Request) WantsJSON() bool {
	if strings.Contains(r.raw.Header.Get("Accept"), "application/json") {
		return true
	}
	return r.raw.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

// Set stores a scratch value on the request. Middleware uses this to
// hand data (sessions, auth identity) to later middleware and handlers.
func (r *Request) Set(key string, v any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	r.values[key] = v
}

// Get returns a scratch value stored with Set.
func (r *Request) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// SetResponseHeader records a header to be added to the response the
// dispatcher eventually returns. Middleware that passes the request
// through (CORS, sessions) uses this to decorate the final response.
func (r *Request) SetResponseHeader(key, value string) {
	if r.respHeader == nil {
		r.respHeader = make(http.Header)
	}
	r.respHeader.Set(key, value)
}

// AddResponseHeader appends a response header value without replacing
// previously recorded values for the key.
func (r *Request) AddResponseHeader(key, value string) {
	if r.respHeader == nil {
		r.respHeader = make(http.Header)
	}
	r.respHeader.Add(key, value)
}

// PendingHeaders returns headers recorded by middleware for the final
// response. May be nil.
func (r *Request) PendingHeaders() http.Header { return r.respHeader }
