package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/q-controller/facerecd/src/pkg/logging"
)

const Header = "X-Request-Id"

type idKey struct{}

// Middleware tags every request with a fresh id, echoes it in the response
// header and attaches a logger carrying it to the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(Header, id)

		logger := logging.FromContext(r.Context()).With("request_id", id)
		ctx := context.WithValue(r.Context(), idKey{}, id)
		ctx = logging.WithLogger(ctx, logger)

		logger.Debug("Request received", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(idKey{}).(string)
	return id
}

