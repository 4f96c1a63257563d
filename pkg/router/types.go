package router

import (
	"github.com/volt-go/volt/pkg/httpx"
)

// Handler is the closed set of route handler shapes: a closure
// (HandlerFunc) or a data-only controller reference (ControllerHandler).
// The dispatcher resolves the variant with a type switch.
type Handler interface {
	isHandler()
}

// HandlerFunc is the closure handler variant. The return value is
// normalized by the dispatcher: *httpx.Response passes through, string
// and []byte become HTML, maps/slices/structs become JSON, nil becomes
// 204, an error is routed to the error handler, anything else is
// stringified into HTML.
type HandlerFunc func(*httpx.Request) any

func (HandlerFunc) isHandler() {}

// ControllerHandler references a controller registered on the router by
// name plus the action method to invoke. It carries only data, so it is
// the one handler variant a route cache can persist.
type ControllerHandler struct {
	Controller string
	Action     string
}

func (ControllerHandler) isHandler() {}

// Controller builds a ControllerHandler reference.
func Controller(name, action string) Handler {
	return ControllerHandler{Controller: name, Action: action}
}

// RequestAware is an optional capability for controller types. When a
// freshly constructed controller implements it, the dispatcher injects
// the current request before invoking the action.
type RequestAware interface {
	SetRequest(*httpx.Request)
}

// Middleware is a short-circuit-capable request filter. A non-nil
// response stops the pipeline and is returned immediately; nil lets the
// request continue to the next middleware or the handler.
type Middleware interface {
	Handle(*httpx.Request) *httpx.Response
}

// MiddlewareFunc adapts a function to the Middleware interface.
type MiddlewareFunc func(*httpx.Request) *httpx.Response

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(req *httpx.Request) *httpx.Response {
	return f(req)
}

// namedMiddleware is a data-only reference into the router's middleware
// registry. Instances are created lazily on first dispatch and shared
// for the process lifetime, so registered middleware must be stateless.
type namedMiddleware struct {
	name string
}

// Handle implements Middleware. A reference is only usable through a
// Router, which resolves it against the registry before invocation.
func (m namedMiddleware) Handle(*httpx.Request) *httpx.Response {
	panic("router: named middleware " + m.name + " must be dispatched through a Router")
}

// Named references a middleware registered with RegisterMiddleware.
// Named references survive a route-cache round trip; closure middleware
// does not.
func Named(name string) Middleware {
	return namedMiddleware{name: name}
}
