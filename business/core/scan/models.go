package scan

import (
	"io"

	"github.com/francefarms/bioestate/foundation/ledger"
	"github.com/francefarms/bioestate/foundation/sequence"
)

// Upload is a sample file submitted for storage.
type Upload struct {
	Sender      string
	ContentType string
	Body        io.Reader
}

// TextReport is the result of submitting a typed sequence.
type TextReport struct {
	Sender string        `json:"sender"`
	GC     float64       `json:"gc"`
	Risk   sequence.Risk `json:"risk"`
	Block  ledger.Block  `json:"block"`
}

// FileReport is the result of submitting a sample file.
type FileReport struct {
	Sender      string            `json:"sender"`
	Path        string            `json:"path"`
	ContentType string            `json:"content_type"`
	Analysis    sequence.Analysis `json:"analysis"`
	Block       ledger.Block      `json:"block"`
}

// Comparison is one bar of the host versus sample chart.
type Comparison struct {
	Name string  `json:"name"`
	GC   float64 `json:"gc"`
}

// Report is the result of analyzing a sequence without recording it.
type Report struct {
	Length      int           `json:"length"`
	GC          float64       `json:"gc"`
	Risk        sequence.Risk `json:"risk"`
	Comparisons []Comparison  `json:"comparisons"`
}
