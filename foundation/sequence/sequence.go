// Package sequence provides naive nucleotide counting for DNA sequences
// submitted as FASTA files or typed text.
package sequence

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"unicode/utf8"
)

// DefaultRiskThreshold is the GC percentage above which a sample is
// considered high risk.
const DefaultRiskThreshold = 50.0

// Risk represents the coarse risk classification for a sample.
type Risk string

// Set of risk classifications.
const (
	RiskLow  Risk = "LOW"
	RiskHigh Risk = "HIGH"
)

// maxLine bounds a single line of a FASTA document.
const maxLine = 16 << 20

// Parse reads a FASTA document and returns the concatenated sequence. Header
// lines starting with '>' are skipped and every other line is trimmed of
// surrounding whitespace. Lines may end in "\n", "\r\n" or a bare "\r".
func Parse(r io.Reader) (string, error) {
	var b strings.Builder

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	sc.Split(scanLines)

	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, ">") {
			b.WriteString(strings.TrimSpace(line))
		}
	}

	if err := sc.Err(); err != nil {
		return "", err
	}

	return b.String(), nil
}

// scanLines is a bufio.SplitFunc that breaks on "\n", "\r\n" and "\r".
func scanLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}

		// A carriage return at the end of the buffer may be followed by a
		// line feed still to be read.
		if i+1 == len(data) && !atEOF {
			return 0, nil, nil
		}

		if i+1 < len(data) && data[i+1] == '\n' {
			return i + 2, data[:i], nil
		}
		return i + 1, data[:i], nil
	}

	if atEOF {
		return len(data), data, nil
	}

	return 0, nil, nil
}

// GCContent returns the percentage of G and C characters in the sequence.
// The count is case insensitive and an empty sequence yields zero.
func GCContent(seq string) float64 {
	n := utf8.RuneCountInString(seq)
	if n == 0 {
		return 0
	}

	var gc int
	for _, r := range seq {
		switch r {
		case 'G', 'g', 'C', 'c':
			gc++
		}
	}

	return float64(gc) / float64(n) * 100
}

// Classify returns the risk for the GC percentage using the threshold. A
// value equal to the threshold is low risk.
func Classify(gc float64, threshold float64) Risk {
	if gc > threshold {
		return RiskHigh
	}
	return RiskLow
}

// ContainsBase reports whether any of the nucleotide letters A, T, C or G
// appear in the string, ignoring case.
func ContainsBase(s string) bool {
	return strings.ContainsAny(strings.ToUpper(s), "ATCG")
}

// IsTypedSequence reports whether a free text message should be treated as
// a DNA sequence.
func IsTypedSequence(msg string) bool {
	return ContainsBase(msg) && utf8.RuneCountInString(msg) > 5
}
