package cart

import (
	"encoding/json"
	"os"
)

// Store is the persistence seam for a cart. Implementations are expected to
// be unreliable; callers treat Read and Write failures as recoverable.
type Store interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// Load builds a cart from a store. Any read error or malformed payload
// yields an empty cart rather than a failed construction.
func Load(store Store) *Cart {
	c := New()
	raw, err := store.Read()
	if err != nil || len(raw) == 0 {
		return c
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return c
	}
	for _, it := range items {
		c.Add(it)
	}
	return c
}

// Save persists the current lines. The cart has already mutated in memory by
// the time this runs, so a failure is reported but changes nothing.
func (c *Cart) Save(store Store) error {
	raw, err := json.Marshal(c.items)
	if err != nil {
		return err
	}
	return store.Write(raw)
}

// FileStore keeps the cart as a JSON file, mirroring the browser-local
// storage the storefront uses.
type FileStore struct {
	Path string
}

func (s *FileStore) Read() ([]byte, error) {
	return os.ReadFile(s.Path)
}

func (s *FileStore) Write(data []byte) error {
	return os.WriteFile(s.Path, data, 0o600)
}
