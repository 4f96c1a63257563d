package middleware

import (
	"log/slog"

	"github.com/volt-go/volt/pkg/httpx"
	"github.com/volt-go/volt/pkg/router"
)

// RequestLogger logs every request entering the pipeline. Completion
// logging (status, duration) lives in the app layer, which sees the
// response; this middleware only observes the inbound side.
func RequestLogger(logger *slog.Logger) router.Middleware {
	if logger == nil {
		logger = slog.Default().With("component", "http")
	}
	return router.MiddlewareFunc(func(req *httpx.Request) *httpx.Response {
		logger.Info("request",
			"method", req.Method(),
			"path", req.Path(),
			"remote", req.Raw().RemoteAddr,
		)
		return nil
	})
}
