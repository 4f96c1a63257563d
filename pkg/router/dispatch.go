package router

import (
	"fmt"
	"html"
	"net/http"
	"reflect"
	"runtime/debug"

	"github.com/volt-go/volt/pkg/httpx"
)

// Dispatch matches the request against the route table, runs the
// middleware pipeline, invokes the handler, and normalizes the result.
// It never panics and never returns nil: unmatched paths produce the
// not-found response, and any failure inside the pipeline or handler
// produces the error response.
func (r *Router) Dispatch(req *httpx.Request) (resp *httpx.Response) {
	defer func() {
		if rec := recover(); rec != nil {
			perr := &PanicError{Value: rec, Stack: debug.Stack()}
			r.logger.Error("dispatch panic",
				"method", req.Method(), "path", req.Path(), "panic", rec)
			resp = r.safeErrorResponse(req, perr)
			resp = finishResponse(req, resp)
		}
	}()

	method := req.Method()
	path := httpx.NormalizePath(req.Path())

	route, params := r.match(method, path)
	if route == nil {
		return finishResponse(req, r.notFoundResponse(req))
	}

	req.SetParams(params)
	return finishResponse(req, r.runRoute(req, route))
}

// match performs the tiered lookup: static, indexed dynamic, then the
// full ordered fallback scan.
func (r *Router) match(method, path string) (*Route, map[string]string) {
	if rt := r.table.staticLookup(method, path); rt != nil {
		return rt, map[string]string{}
	}

	routes := r.table.routes(method)
	tried := make(map[int]bool)

	seg := firstSegment(path)
	candidates := r.table.bucket(method, seg)
	if seg != Wildcard {
		candidates = append(append([]int(nil), candidates...), r.table.bucket(method, Wildcard)...)
	}
	for _, idx := range candidates {
		if tried[idx] {
			continue
		}
		tried[idx] = true
		rt := routes[idx]
		if params, ok := rt.pattern.Match(path); ok {
			return rt, params
		}
	}

	// Fallback scan guards against indexing edge cases where a route's
	// matcher accepts a first segment its template did not predict.
	for idx, rt := range routes {
		if rt.Static || tried[idx] {
			continue
		}
		if params, ok := rt.pattern.Match(path); ok {
			return rt, params
		}
	}
	return nil, nil
}

// runRoute executes the middleware pipeline in order and then the
// handler. The first middleware to return a response short-circuits.
func (r *Router) runRoute(req *httpx.Request, route *Route) *httpx.Response {
	for _, mw := range route.Middleware {
		instance, err := r.resolveMiddleware(mw)
		if err != nil {
			return r.safeErrorResponse(req, err)
		}
		if resp := instance.Handle(req); resp != nil {
			return resp
		}
	}

	result, err := r.invoke(req, route.Handler)
	if err != nil {
		return r.safeErrorResponse(req, err)
	}
	return r.normalize(req, result)
}

// resolveMiddleware maps a named reference to its cached instance.
// Concrete middleware values pass through.
func (r *Router) resolveMiddleware(mw Middleware) (Middleware, error) {
	if ref, ok := mw.(namedMiddleware); ok {
		return r.middlewareInstance(ref.name)
	}
	return mw, nil
}

// invoke calls the handler for its variant.
func (r *Router) invoke(req *httpx.Request, h Handler) (any, error) {
	switch h := h.(type) {
	case HandlerFunc:
		return h(req), nil
	case ControllerHandler:
		return r.invokeController(req, h)
	default:
		return nil, fmt.Errorf("router: unsupported handler %T", h)
	}
}

// invokeController instantiates the referenced controller, injects the
// request when the controller is RequestAware, and invokes the action.
func (r *Router) invokeController(req *httpx.Request, h ControllerHandler) (any, error) {
	factory, ok := r.controllers[h.Controller]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownController, h.Controller)
	}
	inst := factory()
	if inst == nil {
		return nil, fmt.Errorf("%w: factory for %q returned nil", ErrUnknownController, h.Controller)
	}

	if aware, ok := inst.(RequestAware); ok {
		aware.SetRequest(req)
	}

	method := reflect.ValueOf(inst).MethodByName(h.Action)
	if !method.IsValid() {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownAction, h.Controller, h.Action)
	}

	var out []reflect.Value
	switch method.Type().NumIn() {
	case 0:
		out = method.Call(nil)
	case 1:
		out = method.Call([]reflect.Value{reflect.ValueOf(req)})
	default:
		return nil, fmt.Errorf("%w: %s.%s takes too many arguments",
			ErrUnknownAction, h.Controller, h.Action)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0].Interface(), nil
}

// normalize converts a raw handler result into a response.
func (r *Router) normalize(req *httpx.Request, v any) *httpx.Response {
	switch v := v.(type) {
	case nil:
		return httpx.NoContent()
	case *httpx.Response:
		if v.Header == nil {
			v.Header = make(http.Header)
		}
		return v
	case string:
		return httpx.HTML(http.StatusOK, v)
	case []byte:
		return httpx.HTML(http.StatusOK, string(v))
	case error:
		return r.safeErrorResponse(req, v)
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return httpx.NoContent()
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return httpx.JSON(http.StatusOK, v)
	}
	return httpx.HTML(http.StatusOK, fmt.Sprint(v))
}

// notFoundResponse runs the configured not-found callback, or the
// built-in default. Unless the callback returned a ready-made response,
// status 404 is forced.
func (r *Router) notFoundResponse(req *httpx.Request) *httpx.Response {
	if r.notFound == nil {
		return defaultNotFound(req)
	}
	v := r.notFound(req)
	resp := r.normalize(req, v)
	if _, ready := v.(*httpx.Response); !ready {
		resp.Status = http.StatusNotFound
	}
	return resp
}

// safeErrorResponse runs the configured error callback, falling back to
// the built-in 500 page when the callback itself fails.
func (r *Router) safeErrorResponse(req *httpx.Request, err error) (resp *httpx.Response) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("error handler panic", "panic", rec)
			resp = r.defaultError(req, err)
		}
	}()

	if r.onError == nil {
		return r.defaultError(req, err)
	}
	v := r.onError(req, err)
	resp = r.normalize(req, v)
	if _, ready := v.(*httpx.Response); !ready {
		resp.Status = http.StatusInternalServerError
	}
	return resp
}

func defaultNotFound(req *httpx.Request) *httpx.Response {
	if req.WantsJSON() {
		return httpx.JSON(http.StatusNotFound, map[string]string{"error": "Not Found"})
	}
	return httpx.HTML(http.StatusNotFound,
		"<!DOCTYPE html><html><head><title>404 Not Found</title></head>"+
			"<body><h1>404 Not Found</h1></body></html>")
}

func (r *Router) defaultError(req *httpx.Request, err error) *httpx.Response {
	if req.WantsJSON() {
		body := map[string]string{"error": "Internal Server Error"}
		if r.debug {
			body["detail"] = err.Error()
		}
		return httpx.JSON(http.StatusInternalServerError, body)
	}

	if r.debug {
		detail := err.Error()
		if perr, ok := err.(*PanicError); ok {
			detail += "\n\n" + string(perr.Stack)
		}
		return httpx.HTML(http.StatusInternalServerError,
			"<!DOCTYPE html><html><head><title>500 Internal Server Error</title></head>"+
				"<body><h1>500 Internal Server Error</h1><pre>"+
				html.EscapeString(detail)+"</pre></body></html>")
	}
	return httpx.HTML(http.StatusInternalServerError,
		"<!DOCTYPE html><html><head><title>500 Internal Server Error</title></head>"+
			"<body><h1>500 Internal Server Error</h1></body></html>")
}

// finishResponse merges headers that middleware recorded on the request
// into the outgoing response.
func finishResponse(req *httpx.Request, resp *httpx.Response) *httpx.Response {
	pending := req.PendingHeaders()
	if len(pending) == 0 {
		return resp
	}
	if resp.Header == nil {
		resp.Header = make(http.Header)
	}
	for key, values := range pending {
		for _, v := range values {
			resp.Header.Add(key, v)
		}
	}
	return resp
}

