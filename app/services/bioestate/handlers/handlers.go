// Package handlers manages the different versions of the API.
package handlers

import (
	"context"
	"expvar"
	"net/http"
	"net/http/pprof"
	"os"

	"github.com/francefarms/bioestate/app/services/bioestate/handlers/debug/checkgrp"
	v1 "github.com/francefarms/bioestate/app/services/bioestate/handlers/v1"
	"github.com/francefarms/bioestate/app/services/bioestate/handlers/v1/webhookgrp"
	"github.com/francefarms/bioestate/business/core/scan"
	"github.com/francefarms/bioestate/business/sys/metrics"
	"github.com/francefarms/bioestate/business/web/mid"
	"github.com/francefarms/bioestate/foundation/events"
	"github.com/francefarms/bioestate/foundation/ledger"
	"github.com/francefarms/bioestate/foundation/nameservice"
	"github.com/francefarms/bioestate/foundation/web"
	"go.uber.org/zap"
)

// APIMuxConfig contains all the mandatory systems required by handlers.
type APIMuxConfig struct {
	Shutdown   chan os.Signal
	Log        *zap.SugaredLogger
	Scan       *scan.Core
	NS         *nameservice.NameService
	Evts       *events.Events
	Guard      webhookgrp.Guard
	MaxBytes   int64
	CORSOrigin string
}

// APIMux constructs a http.Handler with all application routes defined.
func APIMux(cfg APIMuxConfig) http.Handler {

	// Construct the web.App which holds all routes as well as common Middleware.
	app := web.NewApp(
		cfg.Shutdown,
		mid.Logger(cfg.Log),
		mid.Metrics(),
		mid.Errors(cfg.Log),
		mid.Cors(cfg.CORSOrigin),
		mid.Panics(),
	)

	// Accept CORS 'OPTIONS' preflight requests for the dashboards.
	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return nil
	}
	app.Handle(http.MethodOptions, "", "/*", h)

	// Load the v1 routes.
	v1.Routes(app, v1.Config{
		Log:      cfg.Log,
		Scan:     cfg.Scan,
		NS:       cfg.NS,
		Evts:     cfg.Evts,
		Guard:    cfg.Guard,
		MaxBytes: cfg.MaxBytes,
	})

	return app
}

// DebugStandardLibraryMux registers all the debug routes from the standard library
// into a new mux bypassing the use of the DefaultServerMux. Using the
// DefaultServerMux would be a security risk since a dependency could inject a
// handler into our service without us knowing it.
func DebugStandardLibraryMux() *http.ServeMux {
	mux := http.NewServeMux()

	// Register all the standard library debug endpoints.
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/debug/vars", expvar.Handler())

	return mux
}

// DebugMux registers all the debug standard library routes and then custom
// debug application routes for the service. This bypassing the use of the
// DefaultServerMux. Using the DefaultServerMux would be a security risk since
// a dependency could inject a handler into our service without us knowing it.
func DebugMux(build string, log *zap.SugaredLogger, lgr *ledger.Ledger) http.Handler {
	mux := DebugStandardLibraryMux()

	// Register the prometheus counters.
	mux.Handle("/metrics", metrics.Handler())

	// Register debug check endpoints.
	cgh := checkgrp.Handlers{
		Build:  build,
		Log:    log,
		Ledger: lgr,
	}
	mux.HandleFunc("/debug/readiness", cgh.Readiness)
	mux.HandleFunc("/debug/liveness", cgh.Liveness)

	return mux
}
