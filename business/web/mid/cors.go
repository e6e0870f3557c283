package mid

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/francefarms/bioestate/foundation/web"
)

// Cors sets the response headers the dashboards need to call the API from
// another origin. The origin may be "*" or a comma separated list of allowed
// origins, in which case the request origin is echoed back when it matches.
func Cors(origin string) web.Middleware {
	allowed := strings.Split(origin, ",")
	for i := range allowed {
		allowed[i] = strings.TrimSpace(allowed[i])
	}

	// This is the actual middleware function to be executed.
	m := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			switch reqOrigin := r.Header.Get("Origin"); {
			case slices.Contains(allowed, "*"):
				w.Header().Set("Access-Control-Allow-Origin", "*")

			case reqOrigin != "" && slices.Contains(allowed, reqOrigin):
				w.Header().Set("Access-Control-Allow-Origin", reqOrigin)
				w.Header().Add("Vary", "Origin")
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Origin, Accept, Content-Type, Content-Length, Accept-Encoding")
			w.Header().Set("Access-Control-Max-Age", "600")

			// Call the next handler.
			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
