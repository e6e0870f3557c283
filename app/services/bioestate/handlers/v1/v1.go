// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/francefarms/bioestate/app/services/bioestate/handlers/v1/ledgergrp"
	"github.com/francefarms/bioestate/app/services/bioestate/handlers/v1/scangrp"
	"github.com/francefarms/bioestate/app/services/bioestate/handlers/v1/webhookgrp"
	"github.com/francefarms/bioestate/business/core/scan"
	"github.com/francefarms/bioestate/foundation/events"
	"github.com/francefarms/bioestate/foundation/nameservice"
	"github.com/francefarms/bioestate/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log      *zap.SugaredLogger
	Scan     *scan.Core
	NS       *nameservice.NameService
	Evts     *events.Events
	Guard    webhookgrp.Guard
	MaxBytes int64
}

// Routes binds all the version 1 routes.
func Routes(app *web.App, cfg Config) {
	whg := webhookgrp.Handlers{
		Log:   cfg.Log,
		Scan:  cfg.Scan,
		Guard: cfg.Guard,
	}

	app.Handle(http.MethodPost, version, "/whatsapp", whg.Receive)

	sgh := scangrp.Handlers{
		Log:      cfg.Log,
		Scan:     cfg.Scan,
		MaxBytes: cfg.MaxBytes,
	}

	app.Handle(http.MethodPost, version, "/scan/analyze", sgh.Analyze)
	app.Handle(http.MethodPost, version, "/scan/upload", sgh.Upload)
	app.Handle(http.MethodPost, version, "/scan/text", sgh.SubmitText)
	app.Handle(http.MethodGet, version, "/scan/profiles", sgh.Profiles)

	lgh := ledgergrp.Handlers{
		Log:  cfg.Log,
		Scan: cfg.Scan,
		NS:   cfg.NS,
		Evts: cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/ledger/list", lgh.List)
	app.Handle(http.MethodGet, version, "/ledger/latest", lgh.Latest)
	app.Handle(http.MethodGet, version, "/ledger/search/:term", lgh.Search)
	app.Handle(http.MethodGet, version, "/ledger/block/:prefix", lgh.Find)
	app.Handle(http.MethodGet, version, "/ledger/events", lgh.Events)
}
