package router

import "sort"

// Stats is a read-only snapshot of the route table, intended for
// operational dashboards. StaticRoutes + DynamicRoutes == TotalRoutes
// after any sequence of registrations.
type Stats struct {
	TotalRoutes   int
	StaticRoutes  int
	DynamicRoutes int

	// PerMethod counts registered routes by HTTP method.
	PerMethod map[string]int

	// CachedMiddleware is the number of named middleware instances
	// created so far.
	CachedMiddleware int

	// FromCache reports whether the table was loaded from a cache
	// artifact.
	FromCache bool
}

// Stats returns the current snapshot.
func (r *Router) Stats() Stats {
	total, static, dynamic, perMethod := r.table.counts()

	r.mwMu.Lock()
	cached := len(r.mwCache)
	r.mwMu.Unlock()

	return Stats{
		TotalRoutes:      total,
		StaticRoutes:     static,
		DynamicRoutes:    dynamic,
		PerMethod:        perMethod,
		CachedMiddleware: cached,
		FromCache:        r.table.fromCache,
	}
}

// Routes returns all registered routes, ordered by method and then by
// registration order. The slice is a copy; the routes are shared.
func (r *Router) Routes() []*Route {
	methods := make([]string, 0, len(r.table.byMethod))
	for method := range r.table.byMethod {
		methods = append(methods, method)
	}
	sort.Strings(methods)

	var out []*Route
	for _, method := range methods {
		out = append(out, r.table.routes(method)...)
	}
	return out
}
