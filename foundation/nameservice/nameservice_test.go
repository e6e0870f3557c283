package nameservice_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/francefarms/bioestate/foundation/nameservice"
)

func Test_Lookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "senders.yaml")

	doc := "senders:\n  \"whatsapp:+15550001111\": North Orchard\n  \"+15550002222\": River Estate\n"
	if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
		t.Fatalf("Should be able to write the directory: %v", err)
	}

	ns, err := nameservice.New(path)
	if err != nil {
		t.Fatalf("Should be able to load the directory: %v", err)
	}

	tt := []struct {
		sender string
		exp    string
	}{
		{sender: "+15550001111", exp: "North Orchard"},
		{sender: "whatsapp:+15550002222", exp: "River Estate"},
		{sender: "+15550003333", exp: "+15550003333"},
	}

	for _, tst := range tt {
		if got := ns.Lookup(tst.sender); got != tst.exp {
			t.Logf("got: %s", got)
			t.Logf("exp: %s", tst.exp)
			t.Fatalf("Should get back the right name for %s.", tst.sender)
		}
	}

	if len(ns.Copy()) != 2 {
		t.Fatalf("Should have two senders in the copy.")
	}
}

func Test_MissingFile(t *testing.T) {
	ns, err := nameservice.New(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Should treat a missing file as an empty directory: %v", err)
	}

	if got := ns.Lookup("+1555"); got != "+1555" {
		t.Fatalf("Should fall back to the sender, got %s.", got)
	}
}
