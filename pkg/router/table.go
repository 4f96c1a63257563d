package router

// routeTable partitions registered routes into an exact-match static
// index and a first-segment-indexed dynamic structure.
//
// Invariants:
//   - static routes never appear in the dynamic index
//   - every dynamic route appears in exactly one dynamic-index bucket:
//     its literal first segment, or the wildcard bucket when the first
//     segment is itself a parameter
type routeTable struct {
	// byMethod holds routes in registration order, which is the
	// matching priority for the fallback scan.
	byMethod map[string][]*Route

	// static maps method -> exact normalized path -> route.
	static map[string]map[string]*Route

	// dynamic maps method -> first segment (or Wildcard) -> indices
	// into byMethod[method].
	dynamic map[string]map[string][]int

	fromCache bool
}

func newRouteTable() *routeTable {
	return &routeTable{
		byMethod: make(map[string][]*Route),
		static:   make(map[string]map[string]*Route),
		dynamic:  make(map[string]map[string][]int),
	}
}

// insert appends a route and updates the index it belongs to.
func (t *routeTable) insert(rt *Route) {
	idx := len(t.byMethod[rt.Method])
	t.byMethod[rt.Method] = append(t.byMethod[rt.Method], rt)

	if rt.Static {
		if t.static[rt.Method] == nil {
			t.static[rt.Method] = make(map[string]*Route)
		}
		t.static[rt.Method][rt.Path] = rt
		return
	}

	seg := templateFirstSegment(rt.Path)
	if t.dynamic[rt.Method] == nil {
		t.dynamic[rt.Method] = make(map[string][]int)
	}
	t.dynamic[rt.Method][seg] = append(t.dynamic[rt.Method][seg], idx)
}

// staticLookup returns the exact-match route for a normalized path.
func (t *routeTable) staticLookup(method, path string) *Route {
	return t.static[method][path]
}

// bucket returns dynamic candidate indices for a first segment.
func (t *routeTable) bucket(method, seg string) []int {
	return t.dynamic[method][seg]
}

// routes returns the registration-ordered routes for a method.
func (t *routeTable) routes(method string) []*Route {
	return t.byMethod[method]
}

// counts returns total/static/dynamic counts and the per-method split.
func (t *routeTable) counts() (total, static, dynamic int, perMethod map[string]int) {
	perMethod = make(map[string]int, len(t.byMethod))
	for method, routes := range t.byMethod {
		perMethod[method] = len(routes)
		total += len(routes)
		for _, rt := range routes {
			if rt.Static {
				static++
			} else {
				dynamic++
			}
		}
	}
	return total, static, dynamic, perMethod
}
