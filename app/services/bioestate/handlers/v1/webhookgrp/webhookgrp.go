// Package webhookgrp maintains the group of handlers for the inbound
// messaging webhook.
package webhookgrp

import (
	"context"
	"encoding/xml"
	"errors"
	"net/http"

	"github.com/francefarms/bioestate/business/core/scan"
	"github.com/francefarms/bioestate/business/sys/metrics"
	"github.com/francefarms/bioestate/business/web/errs"
	"github.com/francefarms/bioestate/foundation/sequence"
	"github.com/francefarms/bioestate/foundation/validate"
	"github.com/francefarms/bioestate/foundation/web"
	"go.uber.org/zap"
)

// Guard declares the behavior required to ignore redelivered messages.
type Guard interface {
	Claim(ctx context.Context, key string) (bool, error)
}

// Handlers manages the set of webhook endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	Scan  *scan.Core
	Guard Guard
}

// Receive processes a message sent to the service number. Attachments are
// stored and recorded, typed sequences are analyzed and recorded, anything
// else gets the welcome message.
func (h Handlers) Receive(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var in inbound
	if err := web.DecodeForm(r, &in); err != nil {
		if validate.IsFieldErrors(err) {
			return err
		}
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if in.media() > 0 && in.MediaURL == "" {
		return errs.NewTrusted(errors.New("media url missing for attachment"), http.StatusBadRequest)
	}

	if h.Guard != nil {
		claimed, err := h.Guard.Claim(ctx, in.MessageSid)
		switch {
		case err != nil:
			h.Log.Errorw("webhook", "traceid", v.TraceID, "status", "redelivery check failed", "sid", in.MessageSid, "ERROR", err)

		case !claimed:
			h.Log.Infow("webhook", "traceid", v.TraceID, "status", "redelivery ignored", "sid", in.MessageSid)
			metrics.Redeliveries.Inc()
			return respond(ctx, w, "")
		}
	}

	sender := in.sender()

	switch {
	case in.media() > 0:
		h.Log.Infow("webhook", "traceid", v.TraceID, "sender", sender, "media", in.MediaURL, "type", in.MediaContentType)

		report, err := h.Scan.SubmitRemote(ctx, sender, in.MediaURL, in.MediaContentType)
		if err != nil {
			h.Log.Errorw("webhook", "traceid", v.TraceID, "sender", sender, "ERROR", err)
			return respond(ctx, w, failedReply)
		}

		return respond(ctx, w, fileReply(report))

	case sequence.IsTypedSequence(in.Body):
		h.Log.Infow("webhook", "traceid", v.TraceID, "sender", sender, "text", len(in.Body))

		report, err := h.Scan.SubmitText(ctx, sender, in.Body)
		if err != nil {
			return err
		}

		return respond(ctx, w, textReply(report))
	}

	return respond(ctx, w, welcomeReply)
}

// respond sends the reply document back to the provider. An empty body
// acknowledges the message without replying.
func respond(ctx context.Context, w http.ResponseWriter, body string) error {
	doc := twiml{}
	if body != "" {
		doc.Message = &message{Body: body}
	}

	data, err := xml.Marshal(doc)
	if err != nil {
		return err
	}

	return web.RespondRaw(ctx, w, "application/xml", append([]byte(xml.Header), data...), http.StatusOK)
}
