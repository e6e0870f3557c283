// Package ledgergrp maintains the group of handlers for ledger access.
package ledgergrp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/francefarms/bioestate/business/core/scan"
	"github.com/francefarms/bioestate/business/web/errs"
	"github.com/francefarms/bioestate/foundation/events"
	"github.com/francefarms/bioestate/foundation/ledger"
	"github.com/francefarms/bioestate/foundation/nameservice"
	"github.com/francefarms/bioestate/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log  *zap.SugaredLogger
	Scan *scan.Core
	NS   *nameservice.NameService
	WS   websocket.Upgrader
	Evts *events.Events
}

// List returns every block in the ledger.
func (h Handlers) List(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blks, err := h.Scan.QueryBlocks(ctx)
	if err != nil {
		return fmt.Errorf("query blocks: %w", err)
	}

	return web.Respond(ctx, w, h.toBlocks(blks), http.StatusOK)
}

// Latest returns the last block written to the ledger.
func (h Handlers) Latest(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blk, err := h.Scan.QueryLatest(ctx)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return fmt.Errorf("query latest: %w", err)
	}

	return web.Respond(ctx, w, toBlock(blk, h.NS.Lookup(blk.Sender)), http.StatusOK)
}

// Search returns the blocks containing the term in any column.
func (h Handlers) Search(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blks, err := h.Scan.Search(ctx, web.Param(r, "term"))
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	return web.Respond(ctx, w, h.toBlocks(blks), http.StatusOK)
}

// Find returns the blocks whose hash starts with the prefix handed back to
// submitters.
func (h Handlers) Find(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blks, err := h.Scan.Find(ctx, web.Param(r, "prefix"))
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return fmt.Errorf("find: %w", err)
	}

	return web.Respond(ctx, w, h.toBlocks(blks), http.StatusOK)
}

// Events handles a web socket to provide ledger events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// The upgrade took over the connection.
	web.SetStatusCode(ctx, http.StatusSwitchingProtocols)

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// =============================================================================

func (h Handlers) toBlocks(blks []ledger.Block) blocks {
	out := blocks{
		Count:  len(blks),
		Blocks: make([]block, len(blks)),
	}

	for i, blk := range blks {
		out.Blocks[i] = toBlock(blk, h.NS.Lookup(blk.Sender))
	}

	if len(blks) > 0 {
		out.LatestBlock = blks[len(blks)-1].Hash
	}

	return out
}
