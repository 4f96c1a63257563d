package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/volt-go/volt/pkg/httpx"
)

// anyMethods is the verb set registered by Any.
var anyMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodHead,
}

// GroupOptions configures a route group. Prefix and Middleware merge
// with, rather than replace, any enclosing group.
type GroupOptions struct {
	Prefix     string
	Middleware []Middleware
}

type groupFrame struct {
	prefix     string
	middleware []Middleware
}

// Router owns the route table, the group context stack, the controller
// and middleware registries, and the not-found/error hooks. Create one
// per application with New; there is no package-level state.
type Router struct {
	table  *routeTable
	groups []groupFrame

	controllers map[string]func() any
	mwFactories map[string]func() Middleware

	// mwCache memoizes one instance per named middleware, created
	// lazily on first dispatch. Guarded because instantiation happens
	// during the serving phase.
	mwMu    sync.Mutex
	mwCache map[string]Middleware

	notFound func(*httpx.Request) any
	onError  func(*httpx.Request, error) any

	debug  bool
	logger *slog.Logger
}

// New creates an empty router.
func New() *Router {
	return &Router{
		table:       newRouteTable(),
		controllers: make(map[string]func() any),
		mwFactories: make(map[string]func() Middleware),
		mwCache:     make(map[string]Middleware),
		logger:      slog.Default().With("component", "router"),
	}
}

// SetLogger replaces the router's logger.
func (r *Router) SetLogger(logger *slog.Logger) {
	r.logger = logger
}

// SetDebug toggles debug mode. In debug mode the default 500 response
// includes the error message and stack trace.
func (r *Router) SetDebug(debug bool) {
	r.debug = debug
}

// SetNotFoundHandler sets the callback invoked when no route matches.
// Its return value is normalized like a handler's; unless it returns a
// ready-made response, status 404 is forced.
func (r *Router) SetNotFoundHandler(fn func(*httpx.Request) any) {
	r.notFound = fn
}

// SetErrorHandler sets the callback invoked when middleware or a
// handler fails. Its return value is normalized like a handler's;
// unless it returns a ready-made response, status 500 is forced.
func (r *Router) SetErrorHandler(fn func(*httpx.Request, error) any) {
	r.onError = fn
}

// RegisterController registers a factory for a named controller.
// Controllers must be constructible with no arguments; the factory is
// called once per dispatch that targets the controller.
func (r *Router) RegisterController(name string, factory func() any) {
	r.controllers[name] = factory
}

// RegisterMiddleware registers a factory for a named middleware. The
// factory runs at most once; the instance is shared across requests,
// so the middleware must be stateless.
func (r *Router) RegisterMiddleware(name string, factory func() Middleware) {
	r.mwFactories[name] = factory
}

// Clear resets the route table. Registries and hooks survive; routes
// must be re-registered or loaded from a cache artifact.
func (r *Router) Clear() {
	r.table = newRouteTable()
}

// Handle registers a route for an explicit method. The enclosing group
// context contributes its prefix and its middleware (group middleware
// runs before route-specific middleware).
//
// A malformed path template panics: a broken pattern is a deploy-time
// programmer error and must not survive into the serving phase.
func (r *Router) Handle(method, path string, h Handler, mw ...Middleware) {
	group := r.currentGroup()
	full := joinPaths(group.prefix, path)

	rt := &Route{
		Method:  strings.ToUpper(method),
		Path:    full,
		Handler: h,
		Static:  !strings.Contains(full, "{"),
	}

	if !rt.Static {
		pattern, err := CompilePattern(full)
		if err != nil {
			panic(fmt.Sprintf("router: register %s %s: %v", method, full, err))
		}
		rt.pattern = pattern
	}

	if ch, ok := h.(ControllerHandler); ok {
		if err := r.validateController(ch); err != nil {
			panic(fmt.Sprintf("router: register %s %s: %v", method, full, err))
		}
	}

	chain := make([]Middleware, 0, len(group.middleware)+len(mw))
	chain = append(chain, group.middleware...)
	chain = append(chain, mw...)
	rt.Middleware = chain

	r.table.insert(rt)
}

// Get registers a GET route.
func (r *Router) Get(path string, h Handler, mw ...Middleware) {
	r.Handle(http.MethodGet, path, h, mw...)
}

// Post registers a POST route.
func (r *Router) Post(path string, h Handler, mw ...Middleware) {
	r.Handle(http.MethodPost, path, h, mw...)
}

// Put registers a PUT route.
func (r *Router) Put(path string, h Handler, mw ...Middleware) {
	r.Handle(http.MethodPut, path, h, mw...)
}

// Patch registers a PATCH route.
func (r *Router) Patch(path string, h Handler, mw ...Middleware) {
	r.Handle(http.MethodPatch, path, h, mw...)
}

// Delete registers a DELETE route.
func (r *Router) Delete(path string, h Handler, mw ...Middleware) {
	r.Handle(http.MethodDelete, path, h, mw...)
}

// Options registers an OPTIONS route.
func (r *Router) Options(path string, h Handler, mw ...Middleware) {
	r.Handle(http.MethodOptions, path, h, mw...)
}

// Head registers a HEAD route.
func (r *Router) Head(path string, h Handler, mw ...Middleware) {
	r.Handle(http.MethodHead, path, h, mw...)
}

// Any registers the handler for the standard verb set: GET, POST, PUT,
// PATCH, DELETE, OPTIONS, HEAD.
func (r *Router) Any(path string, h Handler, mw ...Middleware) {
	r.Match(anyMethods, path, h, mw...)
}

// Match registers the handler for an explicit verb set.
func (r *Router) Match(methods []string, path string, h Handler, mw ...Middleware) {
	for _, method := range methods {
		r.Handle(method, path, h, mw...)
	}
}

// Group runs body with a group context pushed on the stack. Prefixes
// concatenate outer-then-inner and middleware lists concatenate, so
// nested groups inherit from their enclosing groups. The prior context
// is restored even when body panics.
func (r *Router) Group(opts GroupOptions, body func(*Router)) {
	parent := r.currentGroup()

	frame := groupFrame{
		prefix: joinPrefixes(parent.prefix, opts.Prefix),
	}
	frame.middleware = make([]Middleware, 0, len(parent.middleware)+len(opts.Middleware))
	frame.middleware = append(frame.middleware, parent.middleware...)
	frame.middleware = append(frame.middleware, opts.Middleware...)

	r.groups = append(r.groups, frame)
	defer func() {
		r.groups = r.groups[:len(r.groups)-1]
	}()

	body(r)
}

func (r *Router) currentGroup() groupFrame {
	if len(r.groups) == 0 {
		return groupFrame{}
	}
	return r.groups[len(r.groups)-1]
}

// validateController checks a controller reference against the
// registry. References to controllers registered later (the cache-load
// case) are validated at dispatch instead.
func (r *Router) validateController(ch ControllerHandler) error {
	factory, ok := r.controllers[ch.Controller]
	if !ok {
		return nil
	}
	inst := factory()
	if inst == nil {
		return fmt.Errorf("%w: factory for %q returned nil", ErrUnknownController, ch.Controller)
	}
	if !reflect.ValueOf(inst).MethodByName(ch.Action).IsValid() {
		return fmt.Errorf("%w: %s.%s", ErrUnknownAction, ch.Controller, ch.Action)
	}
	return nil
}

// middlewareInstance resolves a named middleware, creating and caching
// the shared instance on first use.
func (r *Router) middlewareInstance(name string) (Middleware, error) {
	r.mwMu.Lock()
	defer r.mwMu.Unlock()

	if m, ok := r.mwCache[name]; ok {
		return m, nil
	}
	factory, ok := r.mwFactories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMiddleware, name)
	}
	m := factory()
	if m == nil {
		return nil, fmt.Errorf("%w: factory for %q returned nil", ErrUnknownMiddleware, name)
	}
	r.mwCache[name] = m
	return m, nil
}

// joinPaths combines a group prefix with a route template and
// normalizes the result.
func joinPaths(prefix, path string) string {
	prefix = strings.Trim(prefix, "/")
	path = strings.Trim(path, "/")
	switch {
	case prefix == "" && path == "":
		return "/"
	case prefix == "":
		return httpx.NormalizePath("/" + path)
	case path == "":
		return httpx.NormalizePath("/" + prefix)
	}
	return httpx.NormalizePath("/" + prefix + "/" + path)
}

// joinPrefixes combines an enclosing group prefix with a nested one.
// An empty side contributes nothing, so no double slashes appear.
func joinPrefixes(outer, inner string) string {
	outer = strings.Trim(outer, "/")
	inner = strings.Trim(inner, "/")
	switch {
	case outer == "":
		return inner
	case inner == "":
		return outer
	}
	return outer + "/" + inner
}
