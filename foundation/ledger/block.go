package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// GenesisHash is the previous hash recorded for the first block.
const GenesisHash = "0000000000000000"

// TimeFormat is the layout of the timestamp column.
const TimeFormat = "20060102_150405"

// TextData is what gets stored in the data column for typed sequences. The
// typed message participates in the hash but is never written to disk.
const TextData = "TEXT_DATA"

// header is the first row written to a new ledger file.
var header = []string{"timestamp", "sender", "data", "prev_hash", "hash"}

// Record is the information required to append a new block.
type Record struct {
	Time    time.Time
	Sender  string
	Data    string // Written to the data column.
	Content string // Hashed in place of Data when set.
}

// Block represents a row in the ledger.
type Block struct {
	Number    int    `json:"number"`
	Timestamp string `json:"timestamp"`
	Sender    string `json:"sender"`
	Data      string `json:"data"`
	PrevHash  string `json:"prev_hash"`
	Hash      string `json:"hash"`
}

// Short returns the abbreviated hash handed back to submitters.
func (b Block) Short() string {
	const size = 10
	if len(b.Hash) < size {
		return b.Hash
	}
	return b.Hash[:size]
}

// Stamp formats the time the way the timestamp column stores it.
func Stamp(t time.Time) string {
	return t.Format(TimeFormat)
}

// Hash returns the hex encoded sha256 of the concatenated fields.
func Hash(timestamp string, sender string, content string, prevHash string) string {
	sum := sha256.Sum256([]byte(timestamp + sender + content + prevHash))
	return hex.EncodeToString(sum[:])
}

// toRow converts a block into the column order of the file.
func (b Block) toRow() []string {
	return []string{b.Timestamp, b.Sender, b.Data, b.PrevHash, b.Hash}
}

// toBlock converts a row from the file into a block. Short rows leave the
// trailing fields empty.
func toBlock(number int, row []string) Block {
	field := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	return Block{
		Number:    number,
		Timestamp: field(0),
		Sender:    field(1),
		Data:      field(2),
		PrevHash:  field(3),
		Hash:      field(4),
	}
}
