package bank

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/abhisek/protoquiz/internal/quiz"
)

// Registry is an ordered catalogue of banks keyed by id.
type Registry struct {
	mu    sync.RWMutex
	order []string
	banks map[string]quiz.Bank
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{banks: make(map[string]quiz.Bank)}
}

// Builtin returns a registry holding the banks compiled into the binary,
// Modbus TCP first.
func Builtin() (*Registry, error) {
	r := NewRegistry()
	for _, name := range []string{"data/modbus-tcp.yaml", "data/modbus-rtu.yaml"} {
		data, err := dataFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read builtin bank: %w", err)
		}
		b, err := Parse(data, path.Base(name))
		if err != nil {
			return nil, fmt.Errorf("builtin bank: %w", err)
		}
		if err := r.Add(b); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Load returns the built-in banks plus every bank found in dir. An empty
// dir loads only the built-ins.
func Load(dir string) (*Registry, error) {
	r, err := Builtin()
	if err != nil {
		return nil, err
	}
	if dir != "" {
		if _, err := r.LoadDir(dir); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add registers b. Ids must be unique.
func (r *Registry) Add(b quiz.Bank) error {
	if err := b.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.banks[b.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateBank, b.ID)
	}
	r.banks[b.ID] = b
	r.order = append(r.order, b.ID)
	return nil
}

// LoadFile parses and registers a single bank document.
func (r *Registry) LoadFile(p string) (quiz.Bank, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return quiz.Bank{}, fmt.Errorf("read bank: %w", err)
	}
	b, err := Parse(data, p)
	if err != nil {
		return quiz.Bank{}, err
	}
	if err := r.Add(b); err != nil {
		return quiz.Bank{}, fmt.Errorf("%s: %w", p, err)
	}
	return b, nil
}

// LoadDir registers every *.yaml, *.yml and *.json file directly inside
// dir, in lexical order. It returns the number of banks added.
func (r *Registry) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read bank dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsBankFile(e.Name()) {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	n := 0
	for _, name := range files {
		if _, err := r.LoadFile(filepath.Join(dir, name)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// IsBankFile reports whether name has a bank document extension.
func IsBankFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// Get returns the bank with the given id.
func (r *Registry) Get(id string) (quiz.Bank, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.banks[id]
	if !ok {
		return quiz.Bank{}, fmt.Errorf("%w: %s", ErrUnknownBank, id)
	}
	return b, nil
}

// All returns the banks in registration order.
func (r *Registry) All() []quiz.Bank {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]quiz.Bank, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.banks[id])
	}
	return out
}

// IDs returns the registered ids in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Len returns the number of registered banks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
