package mid

import (
	"context"
	"net/http"
	"strconv"

	"github.com/francefarms/bioestate/business/sys/metrics"
	"github.com/francefarms/bioestate/foundation/web"
)

// Metrics updates program counters.
func Metrics() web.Middleware {

	// This is the actual middleware function to be executed.
	m := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			// Call the next handler.
			err := handler(ctx, w, r)

			status := "0"
			if v, verr := web.GetValues(ctx); verr == nil {
				status = strconv.Itoa(v.StatusCode)
			}
			metrics.Requests.WithLabelValues(r.Method, status).Inc()

			// Return the error so it can be handled further up the chain.
			return err
		}

		return h
	}

	return m
}
