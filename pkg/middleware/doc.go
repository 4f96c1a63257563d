// Package middleware ships the framework's built-in middleware: CORS,
// per-client rate limiting, CSRF protection, and request logging.
//
// All of it satisfies the router's short-circuit contract: a middleware
// returns a response to stop the pipeline or nil to let the request
// continue. Middleware that must decorate a pass-through response (CORS
// on simple requests) records headers on the request; the dispatcher
// merges them into whatever response the pipeline produces.
//
// Everything here is stateless per request and safe to register on the
// router's middleware registry, which shares one instance across the
// process.
package middleware
