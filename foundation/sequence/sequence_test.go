package sequence_test

import (
	"math"
	"strings"
	"testing"

	"github.com/francefarms/bioestate/foundation/sequence"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Parse(t *testing.T) {
	type table struct {
		name  string
		fasta string
		exp   string
	}

	tt := []table{
		{
			name:  "header",
			fasta: ">Colletotrichum capsici\nATGC\nGGCC\n",
			exp:   "ATGCGGCC",
		},
		{
			name:  "crlf",
			fasta: ">seq\r\n  atgc \r\nTTAA",
			exp:   "atgcTTAA",
		},
		{
			name:  "cr",
			fasta: ">seq1\rGGCC\rATAT\r",
			exp:   "GGCCATAT",
		},
		{
			name:  "cr-second-header",
			fasta: ">seq1\rGGCC\r>seq2 gcgc\rATAT",
			exp:   "GGCCATAT",
		},
		{
			name:  "mixed",
			fasta: ">seq1\r\nGG\rCC\nAT",
			exp:   "GGCCAT",
		},
		{
			name:  "headers-only",
			fasta: ">one\n>two\n",
			exp:   "",
		},
		{
			name:  "no-header",
			fasta: "GATTACA",
			exp:   "GATTACA",
		},
	}

	t.Log("Given the need to parse FASTA documents.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				got, err := sequence.Parse(strings.NewReader(tst.fasta))
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to parse the document: %v", failed, testID, err)
				}

				if got != tst.exp {
					t.Logf("\t%s\tTest %d:\tgot: %q", failed, testID, got)
					t.Logf("\t%s\tTest %d:\texp: %q", failed, testID, tst.exp)
					t.Fatalf("\t%s\tTest %d:\tShould get back the sequence.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get back the sequence.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_GCContent(t *testing.T) {
	type table struct {
		name string
		seq  string
		exp  float64
	}

	tt := []table{
		{name: "empty", seq: "", exp: 0},
		{name: "all-gc", seq: "GCGC", exp: 100},
		{name: "none", seq: "ATAT", exp: 0},
		{name: "half", seq: "ATGC", exp: 50},
		{name: "lowercase", seq: "atgcgc", exp: 200.0 / 3},
		{name: "unknown-bases", seq: "GCNN", exp: 50},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			got := sequence.GCContent(tst.seq)
			if math.Abs(got-tst.exp) > 1e-9 {
				t.Logf("Test %s:\tgot: %f", tst.name, got)
				t.Logf("Test %s:\texp: %f", tst.name, tst.exp)
				t.Fatalf("Test %s:\tShould get back the right percentage.", tst.name)
			}

			if got < 0 || got > 100 {
				t.Fatalf("Test %s:\tShould stay between 0 and 100: %f", tst.name, got)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_Classify(t *testing.T) {
	tt := []struct {
		gc  float64
		exp sequence.Risk
	}{
		{gc: 43.5, exp: sequence.RiskLow},
		{gc: 50, exp: sequence.RiskLow},
		{gc: 50.1, exp: sequence.RiskHigh},
	}

	for _, tst := range tt {
		if got := sequence.Classify(tst.gc, sequence.DefaultRiskThreshold); got != tst.exp {
			t.Fatalf("Should classify %.1f as %s, got %s.", tst.gc, tst.exp, got)
		}
	}
}

func Test_IsTypedSequence(t *testing.T) {
	tt := []struct {
		msg string
		exp bool
	}{
		{msg: "hello", exp: false},
		{msg: "gattaca", exp: true},
		{msg: "GATC", exp: false},
		{msg: "hi there", exp: true},
		{msg: "xyz xyz", exp: false},
	}

	for _, tst := range tt {
		if got := sequence.IsTypedSequence(tst.msg); got != tst.exp {
			t.Fatalf("Should report %v for %q, got %v.", tst.exp, tst.msg, got)
		}
	}
}
