// Package aliases owns the alias table that maps user-typed names to canonical substance names.
package aliases

import (
	"github.com/triskis777/ketaverso-bot/interfaces"
)

// Table is an immutable, insertion-ordered alias table.
// Every mutation returns a new Table so snapshots held by in-flight requests never change.
type Table struct {
	keys    []string
	targets map[string]string
}

// NewTable builds a table from entries. A repeated alias keeps its first position and its last target.
func NewTable(entries []interfaces.AliasEntry) *Table {
	t := &Table{
		keys:    make([]string, 0, len(entries)),
		targets: make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		if _, exists := t.targets[e.Alias]; !exists {
			t.keys = append(t.keys, e.Alias)
		}
		t.targets[e.Alias] = e.Target
	}
	return t
}

// Lookup returns the target for alias
func (t *Table) Lookup(alias string) (string, bool) {
	if t == nil {
		return "", false
	}
	target, ok := t.targets[alias]
	return target, ok
}

// Len returns the number of aliases
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Entries returns all mappings in table order
func (t *Table) Entries() []interfaces.AliasEntry {
	if t == nil {
		return nil
	}
	entries := make([]interfaces.AliasEntry, 0, len(t.keys))
	for _, k := range t.keys {
		entries = append(entries, interfaces.AliasEntry{Alias: k, Target: t.targets[k]})
	}
	return entries
}

// KnownNames returns the distinct targets in first-seen order
func (t *Table) KnownNames() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(t.keys))
	names := make([]string, 0, len(t.keys))
	for _, k := range t.keys {
		target := t.targets[k]
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		names = append(names, target)
	}
	return names
}

// With returns a copy of the table with alias mapped to target.
// An existing alias keeps its position.
func (t *Table) With(alias, target string) *Table {
	entries := t.Entries()
	entries = append(entries, interfaces.AliasEntry{Alias: alias, Target: target})
	return NewTable(entries)
}

// Resolve returns the canonical name for normalizedInput, falling back to the input itself.
func Resolve(normalizedInput string, table *Table) string {
	if target, ok := table.Lookup(normalizedInput); ok {
		return target
	}
	return normalizedInput
}
