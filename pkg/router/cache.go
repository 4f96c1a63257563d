package router

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// cacheVersion identifies the artifact layout. Bump on any change to
// cacheArtifact or cacheRoute.
const cacheVersion = 1

// cacheRoute is the persisted form of one route. It only has slots for
// data: the handler is always a controller reference and the middleware
// chain is a list of registry names, so closure-backed variants are
// excluded at the type level.
type cacheRoute struct {
	Path       string   `json:"path"`
	Pattern    string   `json:"pattern,omitempty"`
	Controller string   `json:"controller"`
	Action     string   `json:"action"`
	Middleware []string `json:"middleware,omitempty"`
	Static     bool     `json:"static"`
}

// cacheArtifact is the serialized route table. Index values reference
// positions in Routes[method], which holds only the surviving
// (serializable) routes, so indices are rebuilt during serialization.
type cacheArtifact struct {
	Version      int                          `json:"version"`
	Routes       map[string][]cacheRoute      `json:"routes"`
	StaticIndex  map[string]map[string]int    `json:"staticIndex"`
	DynamicIndex map[string]map[string][]int  `json:"dynamicIndex"`
}

// CacheRoutes serializes the route table. Routes whose handler is a
// closure, or whose middleware chain contains closure middleware, are
// excluded and must be re-registered at runtime by cache-loading
// environments.
func (r *Router) CacheRoutes(w io.Writer) error {
	artifact := cacheArtifact{
		Version:      cacheVersion,
		Routes:       make(map[string][]cacheRoute),
		StaticIndex:  make(map[string]map[string]int),
		DynamicIndex: make(map[string]map[string][]int),
	}

	methods := make([]string, 0, len(r.table.byMethod))
	for method := range r.table.byMethod {
		methods = append(methods, method)
	}
	sort.Strings(methods)

	skipped := 0
	for _, method := range methods {
		for _, rt := range r.table.routes(method) {
			rec, ok := toCacheRoute(rt)
			if !ok {
				skipped++
				continue
			}
			idx := len(artifact.Routes[method])
			artifact.Routes[method] = append(artifact.Routes[method], rec)

			if rec.Static {
				if artifact.StaticIndex[method] == nil {
					artifact.StaticIndex[method] = make(map[string]int)
				}
				artifact.StaticIndex[method][rec.Path] = idx
				continue
			}
			seg := templateFirstSegment(rec.Path)
			if artifact.DynamicIndex[method] == nil {
				artifact.DynamicIndex[method] = make(map[string][]int)
			}
			artifact.DynamicIndex[method][seg] = append(artifact.DynamicIndex[method][seg], idx)
		}
	}

	if skipped > 0 {
		r.logger.Info("route cache: closure-backed routes excluded", "count", skipped)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(artifact); err != nil {
		return fmt.Errorf("router: encode route cache: %w", err)
	}
	return nil
}

// CacheRoutesFile serializes the route table to a file.
func (r *Router) CacheRoutesFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("router: create route cache: %w", err)
	}
	if err := r.CacheRoutes(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("router: close route cache: %w", err)
	}
	return nil
}

// toCacheRoute converts a route to its persisted form. ok is false when
// the route carries behavior that cannot be persisted.
func toCacheRoute(rt *Route) (cacheRoute, bool) {
	ch, ok := rt.Handler.(ControllerHandler)
	if !ok {
		return cacheRoute{}, false
	}

	names := make([]string, 0, len(rt.Middleware))
	for _, mw := range rt.Middleware {
		ref, ok := mw.(namedMiddleware)
		if !ok {
			return cacheRoute{}, false
		}
		names = append(names, ref.name)
	}

	rec := cacheRoute{
		Path:       rt.Path,
		Controller: ch.Controller,
		Action:     ch.Action,
		Middleware: names,
		Static:     rt.Static,
	}
	if rt.pattern != nil {
		rec.Pattern = rt.pattern.Source()
	}
	return rec, true
}

// LoadCachedRoutes replaces the route table with the contents of a
// cache artifact. On any structural problem the existing table is left
// untouched and an error is returned; callers fall back to live
// registration.
func (r *Router) LoadCachedRoutes(src io.Reader) error {
	var artifact cacheArtifact
	if err := json.NewDecoder(src).Decode(&artifact); err != nil {
		return fmt.Errorf("%w: %v", ErrBadCache, err)
	}
	if artifact.Version != cacheVersion {
		return fmt.Errorf("%w: version %d, want %d", ErrBadCache, artifact.Version, cacheVersion)
	}
	if artifact.Routes == nil {
		return fmt.Errorf("%w: missing routes", ErrBadCache)
	}

	table := newRouteTable()
	for method, records := range artifact.Routes {
		for _, rec := range records {
			rt, err := fromCacheRoute(method, rec)
			if err != nil {
				return err
			}
			// insert rebuilds both indices, keeping them consistent
			// with the loaded route set regardless of what the
			// artifact claims.
			table.insert(rt)
		}
	}

	if err := verifyCacheIndices(&artifact, table); err != nil {
		return err
	}

	table.fromCache = true
	r.table = table
	return nil
}

// LoadCachedRoutesFile loads a cache artifact from a file. A missing
// file is a recoverable condition reported as an error.
func (r *Router) LoadCachedRoutesFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadCache, err)
	}
	defer f.Close()
	return r.LoadCachedRoutes(f)
}

// fromCacheRoute rebuilds a route from its persisted form.
func fromCacheRoute(method string, rec cacheRoute) (*Route, error) {
	if rec.Path == "" || rec.Controller == "" || rec.Action == "" {
		return nil, fmt.Errorf("%w: incomplete route record for %s %q",
			ErrBadCache, method, rec.Path)
	}
	if rec.Static == (rec.Pattern != "") {
		return nil, fmt.Errorf("%w: route %s %q: static flag and pattern disagree",
			ErrBadCache, method, rec.Path)
	}

	rt := &Route{
		Method:  method,
		Path:    rec.Path,
		Handler: ControllerHandler{Controller: rec.Controller, Action: rec.Action},
		Static:  rec.Static,
	}
	for _, name := range rec.Middleware {
		if name == "" {
			return nil, fmt.Errorf("%w: route %s %q: empty middleware name",
				ErrBadCache, method, rec.Path)
		}
		rt.Middleware = append(rt.Middleware, Named(name))
	}

	if !rec.Static {
		pattern, err := patternFromSource(rec.Pattern)
		if err != nil {
			return nil, err
		}
		rt.pattern = pattern
	}
	return rt, nil
}

// verifyCacheIndices cross-checks the artifact's indices against the
// rebuilt table. A mismatch means the artifact was edited or generated
// by an incompatible writer.
func verifyCacheIndices(artifact *cacheArtifact, table *routeTable) error {
	for method, paths := range artifact.StaticIndex {
		routes := table.routes(method)
		for path, idx := range paths {
			if idx < 0 || idx >= len(routes) || !routes[idx].Static || routes[idx].Path != path {
				return fmt.Errorf("%w: static index entry %s %q out of sync",
					ErrBadCache, method, path)
			}
		}
	}
	for method, buckets := range artifact.DynamicIndex {
		routes := table.routes(method)
		for seg, indices := range buckets {
			for _, idx := range indices {
				if idx < 0 || idx >= len(routes) || routes[idx].Static {
					return fmt.Errorf("%w: dynamic index entry %s %q out of sync",
						ErrBadCache, method, seg)
				}
			}
		}
	}
	return nil
}
