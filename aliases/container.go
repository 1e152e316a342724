package aliases

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/triskis777/ketaverso-bot/interfaces"
	"github.com/triskis777/ketaverso-bot/logging"
	"github.com/triskis777/ketaverso-bot/metrics"
)

var (
	// ErrPersist is returned when the alias file could not be rewritten
	ErrPersist = errors.New("failed to persist alias table")
	// ErrInvalidAlias is returned for empty alias or target names
	ErrInvalidAlias = errors.New("invalid alias")
)

// Compile-time check to ensure Container implements AliasStore
var _ interfaces.AliasStore = (*Container)(nil)

// Container holds the current alias table behind an atomic pointer for lock-free reads.
// Writers are serialized so two confirmations never race on the file.
type Container struct {
	path    string
	table   atomic.Pointer[Table]
	writeMu sync.Mutex
}

// NewContainer creates a container backed by path, starting with an empty table
func NewContainer(path string) *Container {
	c := &Container{path: path}
	c.swap(NewTable(nil))
	return c
}

// Path returns the backing file path
func (c *Container) Path() string {
	return c.path
}

// Load reads the backing file. A missing file leaves the table empty.
func (c *Container) Load() error {
	t, err := ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.Warn("Alias file not found, starting with an empty alias table", "path", c.path)
			c.swap(NewTable(nil))
			return nil
		}
		return err
	}

	c.swap(t)
	logging.Info("Alias table loaded", "path", c.path, "aliases", t.Len(), "substances", len(t.KnownNames()))
	return nil
}

// Reload re-reads the backing file. On any failure the current table stays in place.
func (c *Container) Reload() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	t, err := ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("alias reload failed: %w", err)
	}
	c.swap(t)
	logging.Info("Alias table reloaded", "path", c.path, "aliases", t.Len())
	return nil
}

// Snapshot returns the current table. The returned table is immutable.
func (c *Container) Snapshot() *Table {
	return c.table.Load()
}

// Replace swaps in a new table without touching the file
func (c *Container) Replace(t *Table) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.swap(t)
}

func (c *Container) swap(t *Table) {
	if t == nil {
		t = NewTable(nil)
	}
	c.table.Store(t)
	metrics.AliasTableEntries.Set(float64(t.Len()))
}

// Resolve maps a normalized input through the current table
func (c *Container) Resolve(normalized string) string {
	return Resolve(normalized, c.Snapshot())
}

// KnownNames returns the distinct canonical names of the current table
func (c *Container) KnownNames() []string {
	return c.Snapshot().KnownNames()
}

// Entries returns every mapping of the current table
func (c *Container) Entries() []interfaces.AliasEntry {
	return c.Snapshot().Entries()
}

// Len returns the size of the current table
func (c *Container) Len() int {
	return c.Snapshot().Len()
}

// Put writes the table with alias -> target to disk and only then publishes it.
// When the write fails the in-memory table is left untouched.
func (c *Container) Put(alias, target string) error {
	if strings.TrimSpace(alias) == "" || strings.TrimSpace(target) == "" {
		return fmt.Errorf("%w: alias and target must not be empty", ErrInvalidAlias)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	next := c.Snapshot().With(alias, target)
	if err := WriteFile(c.path, next); err != nil {
		logging.Error("Failed to write alias file", "path", c.path, "error", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	c.swap(next)
	return nil
}
