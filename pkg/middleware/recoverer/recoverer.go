package recoverer

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/render"
	"github.com/vadimbarashkov/link-shortener/pkg/middleware"
	"github.com/vadimbarashkov/link-shortener/pkg/response"
)

// New recovers handler panics into a 500 error document. http.ErrAbortHandler
// is re-panicked so the server can abort the connection.
func New(logger *slog.Logger) middleware.Middleware {
	const op = "middleware.recoverer.New"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger.Error(
						"something went wrong, panic occurred",
						slog.Group(op, slog.Any("err", err), slog.String("stack", string(debug.Stack()))),
					)

					render.Status(r, response.ServerErrorResponse.StatusCode)
					render.JSON(w, r, response.ServerErrorResponse)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
