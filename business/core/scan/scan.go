// Package scan provides the business workflow for analyzing samples and
// recording them in the ledger.
package scan

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/francefarms/bioestate/business/sys/metrics"
	"github.com/francefarms/bioestate/foundation/ledger"
	"github.com/francefarms/bioestate/foundation/media"
	"github.com/francefarms/bioestate/foundation/sequence"
)

// ErrNotSequence is returned when typed text doesn't look like DNA.
var ErrNotSequence = errors.New("message is not a dna sequence")

// sniffSize is the number of bytes inspected to detect a content type.
const sniffSize = 3072

// Fetcher declares the behavior required to download remote media.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, string, error)
}

// EventHandler defines a function that is called when events occur in the
// processing of samples.
type EventHandler func(v string, args ...any)

// Config represents the systems required by the core.
type Config struct {
	Ledger    *ledger.Ledger
	Store     *media.Store
	Fetcher   Fetcher
	Profiles  Profiles
	EvHandler EventHandler
	Now       func() time.Time
}

// Core manages the set of APIs for sample access.
type Core struct {
	ledger   *ledger.Ledger
	store    *media.Store
	fetcher  Fetcher
	profiles Profiles
	ev       EventHandler
	now      func() time.Time
}

// NewCore constructs a core for sample api access.
func NewCore(cfg Config) *Core {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	profiles := cfg.Profiles
	if profiles.RiskThreshold <= 0 {
		profiles = DefaultProfiles()
	}

	return &Core{
		ledger:   cfg.Ledger,
		store:    cfg.Store,
		fetcher:  cfg.Fetcher,
		profiles: profiles,
		ev:       ev,
		now:      now,
	}
}

// SubmitText analyzes a typed sequence and records it in the ledger. The
// message is hashed into the block but only a marker is stored.
func (c *Core) SubmitText(ctx context.Context, sender string, msg string) (TextReport, error) {
	msg = strings.TrimSpace(msg)
	if !sequence.IsTypedSequence(msg) {
		return TextReport{}, ErrNotSequence
	}

	gc := sequence.GCContent(msg)
	risk := sequence.Classify(gc, c.profiles.RiskThreshold)

	blk, err := c.ledger.Append(ledger.Record{
		Time:    c.now(),
		Sender:  sender,
		Data:    ledger.TextData,
		Content: msg,
	})
	if err != nil {
		return TextReport{}, fmt.Errorf("recording text: %w", err)
	}

	metrics.Appends.WithLabelValues("text").Inc()
	metrics.Analyses.WithLabelValues(string(sequence.KindSequence), string(risk)).Inc()
	c.ev("scan: SubmitText: blk[%d]: sender[%s]: gc[%.1f]: risk[%s]: hash[%s]", blk.Number, sender, gc, risk, blk.Hash)

	report := TextReport{
		Sender: sender,
		GC:     gc,
		Risk:   risk,
		Block:  blk,
	}

	return report, nil
}

// SubmitFile stores the sample, records the stored path in the ledger and
// then triages the content of the file. A file that can't be read back is
// still recorded and reported as opaque.
func (c *Core) SubmitFile(ctx context.Context, up Upload) (FileReport, error) {
	now := c.now()

	br := bufio.NewReaderSize(up.Body, sniffSize)

	contentType := up.ContentType
	if contentType == "" {
		peek, _ := br.Peek(sniffSize)
		contentType = media.Detect(peek)
	}

	name := media.FileName(up.Sender, ledger.Stamp(now), contentType)
	path, err := c.store.Save(name, br)
	if err != nil {
		return FileReport{}, fmt.Errorf("storing sample: %w", err)
	}

	c.ev("scan: SubmitFile: sender[%s]: stored[%s]: type[%s]", up.Sender, path, contentType)

	blk, err := c.ledger.Append(ledger.Record{
		Time:   now,
		Sender: up.Sender,
		Data:   path,
	})
	if err != nil {
		return FileReport{}, fmt.Errorf("recording sample: %w", err)
	}

	metrics.Appends.WithLabelValues("file").Inc()

	analysis := c.triage(path, contentType)

	metrics.Analyses.WithLabelValues(string(analysis.Kind), string(analysis.Risk)).Inc()
	c.ev("scan: SubmitFile: blk[%d]: sender[%s]: analysis[%s]: hash[%s]", blk.Number, up.Sender, analysis, blk.Hash)

	report := FileReport{
		Sender:      up.Sender,
		Path:        path,
		ContentType: contentType,
		Analysis:    analysis,
		Block:       blk,
	}

	return report, nil
}

// SubmitRemote downloads the media at the url and submits it as a file.
// The declared content type wins over the one reported by the download.
func (c *Core) SubmitRemote(ctx context.Context, sender string, url string, contentType string) (FileReport, error) {
	if c.fetcher == nil {
		return FileReport{}, errors.New("no media fetcher configured")
	}

	body, fetchedType, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return FileReport{}, err
	}
	defer body.Close()

	if contentType == "" {
		contentType = fetchedType
	}

	return c.SubmitFile(ctx, Upload{
		Sender:      sender,
		ContentType: contentType,
		Body:        body,
	})
}

// Analyze computes the GC content of a FASTA document and compares it to the
// reference hosts. Nothing is stored or recorded.
func (c *Core) Analyze(ctx context.Context, r io.Reader) (Report, error) {
	seq, err := sequence.Parse(r)
	if err != nil {
		return Report{}, fmt.Errorf("parsing sequence: %w", err)
	}

	gc := sequence.GCContent(seq)

	report := Report{
		Length:      utf8.RuneCountInString(seq),
		GC:          gc,
		Risk:        sequence.Classify(gc, c.profiles.RiskThreshold),
		Comparisons: c.Compare(gc),
	}

	return report, nil
}

// Compare returns the chart data for the reference hosts followed by the
// sample.
func (c *Core) Compare(gc float64) []Comparison {
	out := make([]Comparison, 0, len(c.profiles.Hosts)+1)
	for _, h := range c.profiles.Hosts {
		out = append(out, Comparison{Name: h.Name, GC: h.GC})
	}

	return append(out, Comparison{Name: c.profiles.SampleLabel, GC: gc})
}

// Profiles returns the reference data in use.
func (c *Core) Profiles() Profiles {
	return c.profiles
}

// =============================================================================

// QueryBlocks returns every block in the ledger.
func (c *Core) QueryBlocks(ctx context.Context) ([]ledger.Block, error) {
	return c.ledger.Blocks()
}

// QueryLatest returns the last block recorded.
func (c *Core) QueryLatest(ctx context.Context) (ledger.Block, error) {
	return c.ledger.Latest()
}

// Search returns the blocks where any column contains the term.
func (c *Core) Search(ctx context.Context, term string) ([]ledger.Block, error) {
	return c.ledger.Search(term)
}

// Find returns the blocks whose hash starts with the prefix.
func (c *Core) Find(ctx context.Context, prefix string) ([]ledger.Block, error) {
	return c.ledger.Find(prefix)
}

// =============================================================================

// triage reads back the head of the stored file and classifies it.
func (c *Core) triage(path string, contentType string) sequence.Analysis {
	head, err := c.store.Head(path, sequence.HeadSize*4)
	if err != nil {
		return sequence.Analysis{Kind: sequence.KindOpaque}
	}

	if !strings.HasPrefix(contentType, "image/") {
		contentType = media.Detect(head)
	}

	return sequence.Analyze(head, contentType, c.profiles.RiskThreshold)
}
