package ledger_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/francefarms/bioestate/foundation/ledger"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

func Test_Append(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger", "seasonal_log.csv")
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	t.Log("Given the need to append blocks to the ledger.")
	{
		lgr, err := ledger.Open(path)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to open the ledger: %v", failed, err)
		}
		defer lgr.Close()
		t.Logf("\t%s\tShould be able to open the ledger.", success)

		hash, err := lgr.LastHash()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to read the last hash: %v", failed, err)
		}
		if hash != ledger.GenesisHash {
			t.Fatalf("\t%s\tShould start from the genesis hash, got %s.", failed, hash)
		}
		t.Logf("\t%s\tShould start from the genesis hash.", success)

		first, err := lgr.Append(ledger.Record{
			Time:   now,
			Sender: "+15550001111",
			Data:   "starch_mango_database/15550001111_20250314_092653.fasta",
		})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to append the first block: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to append the first block.", success)

		exp := ledger.Hash("20250314_092653", "+15550001111", "starch_mango_database/15550001111_20250314_092653.fasta", ledger.GenesisHash)
		if first.Hash != exp || first.PrevHash != ledger.GenesisHash {
			t.Logf("\t%s\tgot: %s", failed, first.Hash)
			t.Logf("\t%s\texp: %s", failed, exp)
			t.Fatalf("\t%s\tShould hash the fields onto the genesis hash.", failed)
		}
		t.Logf("\t%s\tShould hash the fields onto the genesis hash.", success)

		second, err := lgr.Append(ledger.Record{
			Time:    now.Add(time.Second),
			Sender:  "+15550002222",
			Data:    ledger.TextData,
			Content: "GGGCCCATAT",
		})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to append the second block: %v", failed, err)
		}

		if second.PrevHash != first.Hash {
			t.Fatalf("\t%s\tShould chain the second block onto the first.", failed)
		}
		t.Logf("\t%s\tShould chain the second block onto the first.", success)

		exp = ledger.Hash("20250314_092654", "+15550002222", "GGGCCCATAT", first.Hash)
		if second.Hash != exp {
			t.Fatalf("\t%s\tShould hash the typed content rather than the stored data.", failed)
		}
		t.Logf("\t%s\tShould hash the typed content rather than the stored data.", success)

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to read the file: %v", failed, err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 || lines[0] != "timestamp,sender,data,prev_hash,hash" {
			t.Fatalf("\t%s\tShould have a header and two rows, got %q.", failed, lines)
		}
		if strings.Contains(string(data), "GGGCCCATAT") {
			t.Fatalf("\t%s\tShould not store the typed message.", failed)
		}
		t.Logf("\t%s\tShould have a header and two rows.", success)
	}
}

func Test_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seasonal_log.csv")
	now := time.Now()

	lgr, err := ledger.Open(path)
	if err != nil {
		t.Fatalf("Should be able to open the ledger: %v", err)
	}

	blk, err := lgr.Append(ledger.Record{Time: now, Sender: "dashboard", Data: "sample.fasta"})
	if err != nil {
		t.Fatalf("Should be able to append: %v", err)
	}
	lgr.Close()

	lgr, err = ledger.Open(path)
	if err != nil {
		t.Fatalf("Should be able to reopen the ledger: %v", err)
	}
	defer lgr.Close()

	hash, err := lgr.LastHash()
	if err != nil {
		t.Fatalf("Should be able to read the last hash: %v", err)
	}

	if hash != blk.Hash {
		t.Logf("got: %s", hash)
		t.Logf("exp: %s", blk.Hash)
		t.Fatalf("Should continue the chain after reopening.")
	}

	blocks, err := lgr.Blocks()
	if err != nil {
		t.Fatalf("Should be able to list blocks: %v", err)
	}

	if len(blocks) != 1 || blocks[0] != blk {
		t.Fatalf("Should get back the one block written, got %+v.", blocks)
	}
}

func Test_Lookup(t *testing.T) {
	lgr, err := ledger.Open(filepath.Join(t.TempDir(), "seasonal_log.csv"))
	if err != nil {
		t.Fatalf("Should be able to open the ledger: %v", err)
	}
	defer lgr.Close()

	if _, err := lgr.Latest(); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("Should get not found from an empty ledger, got %v.", err)
	}

	now := time.Now()
	senders := []string{"+15550001111", "+15550002222", "+15550001111"}

	var blocks []ledger.Block
	for i, sender := range senders {
		blk, err := lgr.Append(ledger.Record{Time: now.Add(time.Duration(i) * time.Second), Sender: sender, Data: ledger.TextData, Content: "ATGC"})
		if err != nil {
			t.Fatalf("Should be able to append: %v", err)
		}
		blocks = append(blocks, blk)
	}

	found, err := lgr.Search("0001111")
	if err != nil {
		t.Fatalf("Should be able to search: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("Should find the two blocks for the sender, got %d.", len(found))
	}

	found, err = lgr.Find(blocks[1].Short())
	if err != nil {
		t.Fatalf("Should be able to find by short hash: %v", err)
	}
	if len(found) != 1 || found[0].Hash != blocks[1].Hash || found[0].Number != 2 {
		t.Fatalf("Should find the second block, got %+v.", found)
	}

	if _, err := lgr.Find("zzzz"); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("Should get not found for an unknown prefix, got %v.", err)
	}

	latest, err := lgr.Latest()
	if err != nil {
		t.Fatalf("Should be able to get the latest block: %v", err)
	}
	if latest.Hash != blocks[2].Hash {
		t.Fatalf("Should get back the last block appended.")
	}
}

func Test_SingleLineFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seasonal_log.csv")

	// A file holding a single row is never chained onto.
	row := "20250101_000000,+1555,TEXT_DATA,0000000000000000,abcdef\n"
	if err := os.WriteFile(path, []byte(row), 0600); err != nil {
		t.Fatalf("Should be able to seed the file: %v", err)
	}

	lgr, err := ledger.Open(path)
	if err != nil {
		t.Fatalf("Should be able to open the ledger: %v", err)
	}
	defer lgr.Close()

	hash, err := lgr.LastHash()
	if err != nil {
		t.Fatalf("Should be able to read the last hash: %v", err)
	}

	if hash != ledger.GenesisHash {
		t.Fatalf("Should get the genesis hash, got %s.", hash)
	}
}

func Test_HeaderlessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seasonal_log.csv")

	row := "20250314_092653,+15550001111,TEXT_DATA,0000000000000000,abc123\n"
	if err := os.WriteFile(path, []byte(row), 0600); err != nil {
		t.Fatalf("Should be able to write the existing ledger: %v", err)
	}

	t.Log("Given the need to extend a ledger written without a header row.")
	{
		lgr, err := ledger.Open(path)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to open the ledger: %v", failed, err)
		}
		defer lgr.Close()

		blk, err := lgr.Append(ledger.Record{Time: time.Now(), Sender: "+15550002222", Data: ledger.TextData, Content: "GATTACA"})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to append: %v", failed, err)
		}

		blocks, err := lgr.Blocks()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to list blocks: %v", failed, err)
		}

		if len(blocks) != 2 || blocks[0].Hash != "abc123" {
			t.Fatalf("\t%s\tShould treat the first line as a block, got %+v.", failed, blocks)
		}
		t.Logf("\t%s\tShould treat the first line as a block.", success)

		last := blocks[len(blocks)-1]
		if blk.Number != 2 || last.Number != blk.Number || last.Hash != blk.Hash {
			t.Fatalf("\t%s\tShould number the new block the way listing does, append %d list %d.", failed, blk.Number, last.Number)
		}
		t.Logf("\t%s\tShould number the new block the way listing does.", success)
	}
}
