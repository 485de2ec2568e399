package orders

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tradedeck/tradedeck/pkg/util"
)

// Store keeps one append-only order sequence per symbol, persisted as an
// indented JSON array in <dir>/<SYMBOL>.json. Every append rewrites the
// whole document; the write goes to a temp file first and is renamed over
// the old one, so previously durable orders survive a crash mid-append.
//
// The read-modify-write-persist cycle for one symbol is not atomic, so
// appends for the same symbol are serialized behind a per-symbol mutex.
// Appends to different symbols proceed independently.
type Store struct {
	dir   string
	clock util.Clock

	mu    sync.Mutex
	locks map[string]*sync.Mutex // symbol -> append lock
}

// NewStore creates the orders directory if needed and returns a store
// stamping orders with the real wall clock.
func NewStore(dir string) (*Store, error) {
	return NewStoreWithClock(dir, util.RealClock{})
}

// NewStoreWithClock is NewStore with an injected clock for tests.
func NewStoreWithClock(dir string, clock util.Clock) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create orders dir %s: %w", dir, err)
	}
	return &Store{
		dir:   dir,
		clock: clock,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// List returns the symbol's orders in creation order. A symbol that was
// never written yields an empty sequence, not an error: the store does not
// know which symbols exist, that is the validator's job upstream.
func (s *Store) List(symbol string) ([]Order, error) {
	path, err := s.filePath(symbol)
	if err != nil {
		return []Order{}, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []Order{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read orders for %s: %w", symbol, err)
	}

	var out []Order
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse orders for %s: %w", symbol, err)
	}
	if out == nil {
		out = []Order{}
	}
	return out, nil
}

// Append assigns the next ID and current timestamp, appends the order to the
// symbol's sequence and persists the full sequence before returning.
// Next ID is last element's id + 1 (1 for an empty sequence), never a count,
// so a gap from any future deletion would not be reused.
func (s *Store) Append(symbol, side string, qty, price float64) (Order, error) {
	path, err := s.filePath(symbol)
	if err != nil {
		return Order{}, err
	}

	lock := s.symbolLock(symbol)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.List(symbol)
	if err != nil {
		return Order{}, err
	}

	var nextID int64 = 1
	if n := len(existing); n > 0 {
		nextID = existing[n-1].ID + 1
	}

	order := Order{
		ID:        nextID,
		Symbol:    symbol,
		Side:      side,
		Qty:       qty,
		Price:     price,
		Timestamp: s.clock.Now().Unix(),
	}

	updated := append(existing, order)
	if err := s.persist(path, updated); err != nil {
		return Order{}, fmt.Errorf("persist orders for %s: %w", symbol, err)
	}

	return order, nil
}

// persist writes the sequence to a temp file in the same directory and
// renames it over the target, keeping the old file intact until the new
// content is fully on disk.
func (s *Store) persist(path string, seq []Order) error {
	data, err := json.MarshalIndent(seq, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal orders: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".orders-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace orders file: %w", err)
	}
	return nil
}

func (s *Store) symbolLock(symbol string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[symbol]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[symbol] = lock
	}
	return lock
}

// filePath maps a symbol code to its backing file. Codes that would escape
// the orders directory are rejected; the catalog never contains such codes,
// this only guards raw query input reaching List.
func (s *Store) filePath(symbol string) (string, error) {
	if symbol == "" || filepath.Base(symbol) != symbol {
		return "", fmt.Errorf("invalid symbol name %q", symbol)
	}
	return filepath.Join(s.dir, symbol+".json"), nil
}
