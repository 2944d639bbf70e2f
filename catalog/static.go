package catalog

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/hupe1980/contentbridge/codec"
)

// Static is an in-memory catalog, typically loaded from a manifest file.
type Static struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewStatic creates a catalog holding entries. Later duplicates win.
func NewStatic(entries ...Entry) *Static {
	s := &Static{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		s.entries[e.URI] = e
	}
	return s
}

// LoadStatic decodes a manifest (a list of entries) from r.
// A nil codec selects codec.Default.
func LoadStatic(r io.Reader, c codec.Codec) (*Static, error) {
	if c == nil {
		c = codec.Default
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("catalog: read manifest: %w", err)
	}

	var entries []Entry
	if err := c.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("catalog: decode manifest (%s): %w", c.Name(), err)
	}
	for i, e := range entries {
		if e.URI == "" {
			return nil, fmt.Errorf("catalog: manifest entry %d has no uri", i)
		}
	}
	return NewStatic(entries...), nil
}

// Lookup returns the entry for uri.
func (s *Static) Lookup(_ context.Context, uri string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[uri]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, uri)
	}
	return e, nil
}

// Put adds or replaces an entry.
func (s *Static) Put(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.URI] = e
}

// Len returns the number of entries.
func (s *Static) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
