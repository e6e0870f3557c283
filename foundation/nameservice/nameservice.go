// Package nameservice reads the sender directory file and creates a name
// service lookup for the phone numbers submitting samples.
package nameservice

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// NameService maintains a map of senders for name lookup.
type NameService struct {
	senders map[string]string
}

// New constructs a Name Service with the senders from the YAML file at the
// specified path. The file maps a phone number to an estate or grower name.
// A missing file produces an empty directory.
func New(path string) (*NameService, error) {
	ns := NameService{
		senders: make(map[string]string),
	}

	if path == "" {
		return &ns, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &ns, nil
		}
		return nil, fmt.Errorf("reading sender directory: %w", err)
	}

	var doc struct {
		Senders map[string]string `yaml:"senders"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding sender directory: %w", err)
	}

	for sender, name := range doc.Senders {
		ns.senders[normalize(sender)] = name
	}

	return &ns, nil
}

// Lookup returns the name for the specified sender.
func (ns *NameService) Lookup(sender string) string {
	name, exists := ns.senders[normalize(sender)]
	if !exists {
		return sender
	}
	return name
}

// Copy returns a copy of the map of senders and names.
func (ns *NameService) Copy() map[string]string {
	cpy := make(map[string]string, len(ns.senders))
	for sender, name := range ns.senders {
		cpy[sender] = name
	}
	return cpy
}

// normalize strips the messaging scheme so numbers match however they
// were written.
func normalize(sender string) string {
	return strings.TrimSpace(strings.TrimPrefix(sender, "whatsapp:"))
}
