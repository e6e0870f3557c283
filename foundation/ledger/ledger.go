// Package ledger maintains an append-only CSV file where every row carries
// the hash of the row before it.
package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// ErrNotFound is returned when no block matches a lookup.
var ErrNotFound = errors.New("block not found")

// Ledger provides access to the hash-chained CSV file.
type Ledger struct {
	path string
	file *os.File
	mu   sync.Mutex
}

// Open opens the ledger file at the specified path, creating it and its
// header row when it does not exist.
func Open(path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat ledger: %w", err)
	}

	if info.Size() == 0 {
		if err := writeRow(file, header); err != nil {
			file.Close()
			return nil, fmt.Errorf("writing ledger header: %w", err)
		}
	}

	return &Ledger{path: path, file: file}, nil
}

// Path returns the location of the ledger file.
func (l *Ledger) Path() string {
	return l.path
}

// Close cleanly closes the ledger file underneath.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}

// Append adds a new block to the end of the ledger. The previous hash is
// read back from the file on every call so rows written by other tools
// sharing the file are chained onto.
func (l *Ledger) Append(rec Record) (Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := readRows(l.path)
	if err != nil {
		return Block{}, err
	}

	content := rec.Content
	if content == "" {
		content = rec.Data
	}

	prevHash := lastHash(rows)
	timestamp := Stamp(rec.Time)

	blk := Block{
		Number:    len(blockRows(rows)) + 1,
		Timestamp: timestamp,
		Sender:    rec.Sender,
		Data:      rec.Data,
		PrevHash:  prevHash,
		Hash:      Hash(timestamp, rec.Sender, content, prevHash),
	}

	if err := writeRow(l.file, blk.toRow()); err != nil {
		return Block{}, fmt.Errorf("appending block: %w", err)
	}

	return blk, nil
}

// LastHash returns the hash the next block will chain onto.
func (l *Ledger) LastHash() (string, error) {
	rows, err := readRows(l.path)
	if err != nil {
		return "", err
	}

	return lastHash(rows), nil
}

// Blocks returns every block in the ledger in file order.
func (l *Ledger) Blocks() ([]Block, error) {
	rows, err := readRows(l.path)
	if err != nil {
		return nil, err
	}

	rows = blockRows(rows)

	blocks := make([]Block, len(rows))
	for i, row := range rows {
		blocks[i] = toBlock(i+1, row)
	}

	return blocks, nil
}

// Latest returns the last block written to the ledger.
func (l *Ledger) Latest() (Block, error) {
	blocks, err := l.Blocks()
	if err != nil {
		return Block{}, err
	}

	if len(blocks) == 0 {
		return Block{}, ErrNotFound
	}

	return blocks[len(blocks)-1], nil
}

// Search returns the blocks where any column contains the term.
func (l *Ledger) Search(term string) ([]Block, error) {
	if term == "" {
		return nil, nil
	}

	blocks, err := l.Blocks()
	if err != nil {
		return nil, err
	}

	var out []Block
	for _, blk := range blocks {
		if slices.ContainsFunc(blk.toRow(), func(field string) bool {
			return strings.Contains(field, term)
		}) {
			out = append(out, blk)
		}
	}

	return out, nil
}

// Find returns the blocks whose hash starts with the prefix.
func (l *Ledger) Find(prefix string) ([]Block, error) {
	if prefix == "" {
		return nil, ErrNotFound
	}

	blocks, err := l.Blocks()
	if err != nil {
		return nil, err
	}

	var out []Block
	for _, blk := range blocks {
		if strings.HasPrefix(blk.Hash, strings.ToLower(prefix)) {
			out = append(out, blk)
		}
	}

	if len(out) == 0 {
		return nil, ErrNotFound
	}

	return out, nil
}

// =============================================================================

// readRows reads every row of the ledger file. A missing file has no rows.
func readRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		row, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("reading ledger: %w", err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// lastHash applies the chaining rule: the first line of the file is never
// chained onto, so a file with a single line yields the genesis hash.
func lastHash(rows [][]string) string {
	if len(rows) <= 1 {
		return GenesisHash
	}

	last := rows[len(rows)-1]
	return strings.TrimSpace(last[len(last)-1])
}

// blockRows drops the header row when the file has one. Files written
// without a header hold a block on every line.
func blockRows(rows [][]string) [][]string {
	if len(rows) > 0 && slices.Equal(rows[0], header) {
		return rows[1:]
	}
	return rows
}

// writeRow writes a single csv row to the writer.
func writeRow(w io.Writer, row []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(row); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
