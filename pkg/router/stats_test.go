package router

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/volt-go/volt/pkg/httpx"
)

func TestStatsConsistency(t *testing.T) {
	r := New()
	r.Get("/", okHandler("root"))
	r.Get("/about", okHandler("about"))
	r.Get("/users/{id}", okHandler("user"))
	r.Post("/users", okHandler("create"))
	r.Any("/ping", okHandler("pong"))

	stats := r.Stats()
	if stats.StaticRoutes+stats.DynamicRoutes != stats.TotalRoutes {
		t.Errorf("static(%d) + dynamic(%d) != total(%d)",
			stats.StaticRoutes, stats.DynamicRoutes, stats.TotalRoutes)
	}

	sum := 0
	for _, n := range stats.PerMethod {
		sum += n
	}
	if sum != stats.TotalRoutes {
		t.Errorf("per-method sum %d != total %d", sum, stats.TotalRoutes)
	}
	if stats.PerMethod["GET"] != 4 {
		t.Errorf("GET count = %d, want 4", stats.PerMethod["GET"])
	}
	if stats.FromCache {
		t.Error("FromCache should be false for a live-registered table")
	}
}

func TestRoutesEnumeration(t *testing.T) {
	r := New()
	r.RegisterMiddleware("auth", func() Middleware {
		return MiddlewareFunc(func(*httpx.Request) *httpx.Response { return nil })
	})
	r.Post("/users", okHandler("create"))
	r.Get("/users/{id}", okHandler("show"), Named("auth"))
	r.Get("/about", okHandler("about"))

	routes := r.Routes()
	if len(routes) != 3 {
		t.Fatalf("len(routes) = %d, want 3", len(routes))
	}
	// Methods come back sorted, registration order within a method.
	if routes[0].Method != "GET" || routes[0].Path != "/users/{id}" {
		t.Errorf("routes[0] = %s %s", routes[0].Method, routes[0].Path)
	}
	if routes[2].Method != "POST" {
		t.Errorf("routes[2].Method = %s, want POST", routes[2].Method)
	}

	names := routes[0].MiddlewareNames()
	if len(names) != 1 || names[0] != "auth" {
		t.Errorf("MiddlewareNames = %v, want [auth]", names)
	}
	if routes[2].MiddlewareNames() != nil {
		t.Errorf("MiddlewareNames on bare route = %v, want nil", routes[2].MiddlewareNames())
	}
}

func TestStatsCollectorGathers(t *testing.T) {
	r := New()
	r.Get("/about", okHandler("about"))
	r.Get("/users/{id}", okHandler("user"))

	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(NewStatsCollector(r)); err != nil {
		t.Fatalf("register collector: %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	got := make(map[string]bool)
	for _, mf := range families {
		got[mf.GetName()] = true
	}
	for _, name := range []string{
		"volt_router_routes_total",
		"volt_router_routes",
		"volt_router_routes_by_method",
		"volt_router_cached_middleware",
		"volt_router_loaded_from_cache",
	} {
		if !got[name] {
			t.Errorf("metric family %q missing", name)
		}
	}
}
