package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Symbol is one tradable instrument. ClosePrice is the reference price used
// for order price banding and synthetic tick jitter.
type Symbol struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	ClosePrice float64 `json:"closePrice"`
}

// Catalog is the read-only set of tradable symbols, loaded once at startup.
// List order is the insertion order of the backing file. Safe for concurrent
// readers without synchronization: never mutated after construction.
type Catalog struct {
	symbols []Symbol
	index   map[string]int // symbol code -> position in symbols
}

// New builds a catalog from an ordered symbol list.
// Returns error on empty input, duplicate codes, or non-positive close prices.
func New(symbols []Symbol) (*Catalog, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	index := make(map[string]int, len(symbols))
	for i, s := range symbols {
		if s.Symbol == "" {
			return nil, fmt.Errorf("catalog entry %d has empty symbol code", i)
		}
		if s.ClosePrice <= 0 {
			return nil, fmt.Errorf("symbol %s has non-positive closePrice %v", s.Symbol, s.ClosePrice)
		}
		if _, dup := index[s.Symbol]; dup {
			return nil, fmt.Errorf("symbol %s listed twice", s.Symbol)
		}
		index[s.Symbol] = i
	}

	return &Catalog{symbols: symbols, index: index}, nil
}

// Load reads the symbol catalog from a JSON file. A missing or malformed
// file is a startup-fatal condition for the caller: no partial catalog is
// ever returned.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var symbols []Symbol
	if err := json.Unmarshal(data, &symbols); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	c, err := New(symbols)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return c, nil
}

// List returns all symbols in catalog order.
// Returns a copy of the slice to avoid caller mutation.
func (c *Catalog) List() []Symbol {
	out := make([]Symbol, len(c.symbols))
	copy(out, c.symbols)
	return out
}

// Find resolves a symbol code.
func (c *Catalog) Find(code string) (Symbol, bool) {
	i, ok := c.index[code]
	if !ok {
		return Symbol{}, false
	}
	return c.symbols[i], true
}

// Count returns the number of listed symbols.
func (c *Catalog) Count() int {
	return len(c.symbols)
}
