package sequence

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// HeadSize is the number of characters of a stored upload inspected by
// Analyze.
const HeadSize = 500

// Kind describes what an uploaded file turned out to contain.
type Kind string

// Set of upload kinds.
const (
	KindSequence Kind = "sequence"
	KindImage    Kind = "image"
	KindEmpty    Kind = "empty"
	KindOpaque   Kind = "opaque"
)

// Analysis is the outcome of inspecting an uploaded file.
type Analysis struct {
	Kind Kind    `json:"kind"`
	GC   float64 `json:"gc,omitempty"`
	Risk Risk    `json:"risk,omitempty"`
}

// String implements the fmt.Stringer interface.
func (a Analysis) String() string {
	if a.Kind != KindSequence {
		return string(a.Kind)
	}
	return fmt.Sprintf("%s:%.1f%%:%s", a.Kind, a.GC, a.Risk)
}

// Analyze triages the head of an uploaded file. Images detected by content
// type are reported without inspection. Anything that does not decode as
// text is opaque. Text without a FASTA header and without nucleotide letters
// is treated as a photo.
func Analyze(head []byte, contentType string, threshold float64) Analysis {
	if strings.HasPrefix(contentType, "image/") {
		return Analysis{Kind: KindImage}
	}

	head = trimPartialRune(head)
	if !utf8.Valid(head) {
		return Analysis{Kind: KindOpaque}
	}

	content := firstRunes(string(head), HeadSize)
	if !strings.HasPrefix(content, ">") && !ContainsBase(content) {
		return Analysis{Kind: KindImage}
	}

	seq, err := Parse(strings.NewReader(content))
	if err != nil || seq == "" {
		return Analysis{Kind: KindEmpty}
	}

	gc := GCContent(seq)

	return Analysis{
		Kind: KindSequence,
		GC:   gc,
		Risk: Classify(gc, threshold),
	}
}

// trimPartialRune drops an incomplete UTF-8 sequence left at the end of the
// buffer by a short read.
func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax-1 && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return b
		}
		r, _ := utf8.DecodeLastRune(b)
		if r != utf8.RuneError {
			return b
		}
		b = b[:len(b)-1]
	}
	return b
}

func firstRunes(s string, n int) string {
	var count int
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
