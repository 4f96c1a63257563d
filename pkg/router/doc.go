// Package router implements Volt's HTTP route matching and dispatch.
//
// The router provides:
//   - Declarative path templates with named, typed, and optional
//     parameters ("/users/{id}", "/posts/{slug:[a-z-]+}", "/files/{name?}")
//   - Tiered matching: exact static lookup, first-segment-indexed
//     dynamic candidates, then an ordered fallback scan
//   - Nested route groups with prefix and middleware inheritance
//   - Ordered middleware pipelines with short-circuit semantics
//   - A serializable route cache for startup-time optimization
//
// # Registration
//
// Routes are registered on a Router instance during startup:
//
//	r := router.New()
//	r.Get("/users/{id:\\d+}", router.HandlerFunc(showUser))
//	r.Group(router.GroupOptions{Prefix: "api", Middleware: []router.Middleware{auth}}, func(r *router.Router) {
//	    r.Get("/posts", router.HandlerFunc(listPosts))
//	})
//
// Handlers are either closures (HandlerFunc) or data-only controller
// references (Controller) resolved through the router's controller
// registry. Only controller-backed routes survive a cache round trip;
// closure-backed routes must be re-registered at runtime.
//
// # Dispatch
//
// Dispatch never returns an error to its caller. Unmatched paths go to
// the not-found handler, and any failure inside middleware or a handler
// is converted to a 500-class response by the error handler.
//
// Registration is a startup-phase activity and is not safe against
// concurrent dispatch. Complete all registration before serving.
package router
