package router

// Route is a single registered route. Routes are created at
// registration time and immutable afterwards; the table owns them.
type Route struct {
	Method     string
	Path       string
	Handler    Handler
	Middleware []Middleware

	// Static is true iff Path contains no parameter placeholders.
	Static bool

	// pattern is nil for static routes.
	pattern *CompiledPattern
}

// Pattern returns the compiled matcher, or nil for static routes.
func (r *Route) Pattern() *CompiledPattern { return r.pattern }

// MiddlewareNames returns the registry names of the route's middleware.
// Closure middleware has no name and is reported as "(closure)".
func (r *Route) MiddlewareNames() []string {
	if len(r.Middleware) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.Middleware))
	for _, mw := range r.Middleware {
		if ref, ok := mw.(namedMiddleware); ok {
			names = append(names, ref.name)
			continue
		}
		names = append(names, "(closure)")
	}
	return names
}
