package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/volt-go/volt/pkg/httpx"
)

func newTestRequest(method, target string) *httpx.Request {
	return httpx.NewRequest(httptest.NewRequest(method, target, nil), "")
}

func okHandler(body string) Handler {
	return HandlerFunc(func(*httpx.Request) any { return body })
}

func TestHandleClassifiesStatic(t *testing.T) {
	r := New()
	r.Get("/about", okHandler("about"))
	r.Get("/users/{id}", okHandler("user"))

	stats := r.Stats()
	if stats.StaticRoutes != 1 || stats.DynamicRoutes != 1 {
		t.Errorf("static=%d dynamic=%d, want 1/1", stats.StaticRoutes, stats.DynamicRoutes)
	}
}

func TestHandleNormalizesTemplate(t *testing.T) {
	r := New()
	r.Get("/users/", okHandler("list"))

	resp := r.Dispatch(newTestRequest(http.MethodGet, "/users"))
	if resp.Status != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.Status)
	}
}

func TestHandlePanicsOnMalformedTemplate(t *testing.T) {
	r := New()
	defer func() {
		if recover() == nil {
			t.Error("registering a malformed template should panic")
		}
	}()
	r.Get("/users/{id", okHandler("bad"))
}

func TestHandlePanicsOnUnknownControllerAction(t *testing.T) {
	r := New()
	r.RegisterController("users", func() any { return &testController{} })

	defer func() {
		if recover() == nil {
			t.Error("registering an unknown action should panic")
		}
	}()
	r.Get("/users", Controller("users", "NoSuchAction"))
}

func TestGroupPrefixAndMiddlewareComposition(t *testing.T) {
	r := New()

	var order []string
	mark := func(name string) Middleware {
		return MiddlewareFunc(func(*httpx.Request) *httpx.Response {
			order = append(order, name)
			return nil
		})
	}

	r.Group(GroupOptions{Prefix: "v1", Middleware: []Middleware{mark("outer")}}, func(r *Router) {
		r.Group(GroupOptions{Prefix: "api"}, func(r *Router) {
			r.Get("/users", okHandler("users"), mark("route"))
		})
	})

	resp := r.Dispatch(newTestRequest(http.MethodGet, "/v1/api/users"))
	if resp.Status != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.Status)
	}
	if got := strings.Join(order, ","); got != "outer,route" {
		t.Errorf("middleware order = %q, want outer,route", got)
	}

	// The outer prefix must not leak past the group bodies.
	resp = r.Dispatch(newTestRequest(http.MethodGet, "/users"))
	if resp.Status != http.StatusNotFound {
		t.Errorf("bare /users status = %d, want 404", resp.Status)
	}
}

func TestGroupEmptyPrefixNoDoubleSlash(t *testing.T) {
	r := New()
	r.Group(GroupOptions{}, func(r *Router) {
		r.Group(GroupOptions{Prefix: "admin"}, func(r *Router) {
			r.Get("/panel", okHandler("panel"))
		})
	})

	resp := r.Dispatch(newTestRequest(http.MethodGet, "/admin/panel"))
	if resp.Status != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.Status)
	}
}

func TestGroupRestoresContextOnPanic(t *testing.T) {
	r := New()

	func() {
		defer func() { _ = recover() }()
		r.Group(GroupOptions{Prefix: "broken"}, func(*Router) {
			panic("registration failure")
		})
	}()

	r.Get("/healthy", okHandler("ok"))
	resp := r.Dispatch(newTestRequest(http.MethodGet, "/healthy"))
	if resp.Status != http.StatusOK {
		t.Errorf("status = %d, want 200; group context leaked its prefix", resp.Status)
	}
}

func TestAnyRegistersStandardVerbs(t *testing.T) {
	r := New()
	r.Any("/ping", okHandler("pong"))

	for _, method := range []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"} {
		resp := r.Dispatch(newTestRequest(method, "/ping"))
		if resp.Status != http.StatusOK {
			t.Errorf("%s /ping status = %d, want 200", method, resp.Status)
		}
	}
}

func TestMatchRegistersExplicitVerbs(t *testing.T) {
	r := New()
	r.Match([]string{"GET", "POST"}, "/form", okHandler("form"))

	if resp := r.Dispatch(newTestRequest(http.MethodGet, "/form")); resp.Status != http.StatusOK {
		t.Errorf("GET status = %d, want 200", resp.Status)
	}
	if resp := r.Dispatch(newTestRequest(http.MethodDelete, "/form")); resp.Status != http.StatusNotFound {
		t.Errorf("DELETE status = %d, want 404", resp.Status)
	}
}

func TestClearResetsTable(t *testing.T) {
	r := New()
	r.Get("/users", okHandler("users"))
	r.Clear()

	if stats := r.Stats(); stats.TotalRoutes != 0 {
		t.Errorf("TotalRoutes after Clear = %d, want 0", stats.TotalRoutes)
	}
	if resp := r.Dispatch(newTestRequest(http.MethodGet, "/users")); resp.Status != http.StatusNotFound {
		t.Errorf("status after Clear = %d, want 404", resp.Status)
	}
}
