// Package httpx provides the request and response values exchanged with
// the router.
//
// Request wraps *http.Request with the framework's view of a request:
// a normalized path (query stripped, base path stripped, trailing slash
// trimmed), an effective method that honors POST method overrides, the
// route parameters extracted by the router, and a scratch value store
// for middleware to hand data to handlers.
//
// Response is a plain value: status, body, headers. Handlers either
// build one with the JSON/HTML/Text/Redirect constructors or return a
// raw value and let the dispatcher normalize it.
package httpx
