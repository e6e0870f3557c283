// Package scangrp maintains the group of handlers for dashboard uploads.
package scangrp

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/francefarms/bioestate/business/core/scan"
	"github.com/francefarms/bioestate/business/web/errs"
	"github.com/francefarms/bioestate/foundation/media"
	"github.com/francefarms/bioestate/foundation/validate"
	"github.com/francefarms/bioestate/foundation/web"
	"go.uber.org/zap"
)

// dashboardSender is recorded for uploads that don't name a sender.
const dashboardSender = "dashboard"

// Handlers manages the set of scan endpoints.
type Handlers struct {
	Log      *zap.SugaredLogger
	Scan     *scan.Core
	MaxBytes int64
}

// Analyze computes the GC content of an uploaded FASTA file and returns the
// chart data comparing it to the reference hosts. Nothing is recorded.
func (h Handlers) Analyze(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	file, _, err := h.formFile(w, r)
	if err != nil {
		return err
	}
	defer file.Close()

	report, err := h.Scan.Analyze(ctx, file)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	return web.Respond(ctx, w, report, http.StatusOK)
}

// Upload stores an uploaded FASTA file or photo and records it in the
// ledger.
func (h Handlers) Upload(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	file, fh, err := h.formFile(w, r)
	if err != nil {
		return err
	}
	defer file.Close()

	sender := r.FormValue("sender")
	if sender == "" {
		sender = dashboardSender
	}

	// Browsers send FASTA files as octet streams so let the content decide.
	contentType := fh.Header.Get("Content-Type")
	if contentType == "application/octet-stream" {
		contentType = ""
	}

	h.Log.Infow("upload", "traceid", v.TraceID, "sender", sender, "file", fh.Filename, "size", fh.Size)

	report, err := h.Scan.SubmitFile(ctx, scan.Upload{
		Sender:      sender,
		ContentType: contentType,
		Body:        file,
	})
	if err != nil {
		if errors.Is(err, media.ErrTooLarge) {
			return errs.NewTrusted(err, http.StatusRequestEntityTooLarge)
		}
		return fmt.Errorf("upload: %w", err)
	}

	return web.Respond(ctx, w, report, http.StatusCreated)
}

// SubmitText records a typed sequence.
func (h Handlers) SubmitText(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var nt newText
	if err := web.Decode(r, &nt); err != nil {
		if validate.IsFieldErrors(err) {
			return err
		}
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	report, err := h.Scan.SubmitText(ctx, nt.Sender, nt.Sequence)
	if err != nil {
		if errors.Is(err, scan.ErrNotSequence) {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return fmt.Errorf("submit text: %w", err)
	}

	return web.Respond(ctx, w, report, http.StatusCreated)
}

// Profiles returns the reference hosts samples are compared against.
func (h Handlers) Profiles(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.Scan.Profiles(), http.StatusOK)
}

// =============================================================================

// formFile returns the file posted in the "file" field of a multipart form.
func (h Handlers) formFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}

	const maxMemory = 1 << 20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, nil, errs.NewTrusted(err, http.StatusRequestEntityTooLarge)
		}
		return nil, nil, errs.NewTrusted(fmt.Errorf("parsing upload: %w", err), http.StatusBadRequest)
	}

	file, fh, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, errs.NewTrusted(errors.New("file field is required"), http.StatusBadRequest)
		}
		return nil, nil, errs.NewTrusted(err, http.StatusBadRequest)
	}

	return file, fh, nil
}
