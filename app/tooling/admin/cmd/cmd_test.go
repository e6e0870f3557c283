package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) string {
	t.Helper()

	out, _ := runOutput(t, args...)
	return out
}

func runOutput(t *testing.T, args ...string) (string, string) {
	t.Helper()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Should be able to run %v : %v", args, err)
	}

	return out.String(), errOut.String()
}

func Test_Admin(t *testing.T) {
	dir := t.TempDir()
	lp := filepath.Join(dir, "seasonal_log.csv")
	pp := filepath.Join(dir, "profiles.yaml")
	np := filepath.Join(dir, "senders.yaml")

	fasta := filepath.Join(dir, "sample.fasta")
	if err := os.WriteFile(fasta, []byte(">sample\nGGCCAT\nAT\n"), 0600); err != nil {
		t.Fatalf("Should be able to write the sample : %v", err)
	}

	out := run(t, "gc", fasta, "--profiles", pp)
	if !strings.Contains(out, "GC Content: 50.00%") || !strings.Contains(out, "Mango (Host)") {
		t.Fatalf("Should get the pathogen report : %s", out)
	}

	out, logs := runOutput(t, "ledger", "append", "--ledger", lp, "--profiles", pp, "--names", np, "--sender", "+15550001111", "--text", "GATTACAGG")
	if !strings.HasPrefix(out, "Block: ") {
		t.Fatalf("Should get the new block : %s", out)
	}
	if strings.Contains(out, `"service"`) {
		t.Fatalf("Should keep log lines out of the report : %s", out)
	}
	if !strings.Contains(logs, "SubmitText") || !strings.Contains(logs, `"service":"ADMIN"`) {
		t.Fatalf("Should write the log lines to the error stream : %s", logs)
	}
	short := strings.TrimSpace(strings.SplitN(strings.TrimPrefix(out, "Block: "), "\n", 2)[0])

	out = run(t, "ledger", "list", "--ledger", lp, "--names", np)
	if !strings.Contains(out, "1 blocks") || !strings.Contains(out, "TEXT_DATA") {
		t.Fatalf("Should list the block : %s", out)
	}

	out = run(t, "ledger", "find", short, "--ledger", lp, "--names", np)
	if !strings.Contains(out, "Hash: "+short) {
		t.Fatalf("Should find the block by its short hash : %s", out)
	}

	out = run(t, "ledger", "search", "15550001111", "--ledger", lp, "--names", np)
	if !strings.Contains(out, "1 blocks") {
		t.Fatalf("Should find the block by sender : %s", out)
	}
}
