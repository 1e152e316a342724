package aliases

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/triskis777/ketaverso-bot/interfaces"
)

func writeAliasFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alias.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write alias file: %v", err)
	}
	return path
}

func TestReadFilePreservesOrder(t *testing.T) {
	path := writeAliasFile(t, `{
    "zeta": "z",
    "alfa": "a",
    "éxtasis": "mdma"
}`)

	table, err := ReadFile(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := []interfaces.AliasEntry{
		{Alias: "zeta", Target: "z"},
		{Alias: "alfa", Target: "a"},
		{Alias: "éxtasis", Target: "mdma"},
	}
	if diff := cmp.Diff(want, table.Entries()); diff != "" {
		t.Errorf("Entries mismatch (-want +got):\n%s", diff)
	}
}

func TestReadFileRejectsNonObject(t *testing.T) {
	tests := []string{`["a", "b"]`, `{"a": 1}`, `{"a": "b"} {}`, `{"a": `}

	for _, content := range tests {
		path := writeAliasFile(t, content)
		if _, err := ReadFile(path); err == nil {
			t.Errorf("Expected error for %q", content)
		}
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alias.json")
	table := sampleTable().With("cocaína", "cocaine").With("a<b", "x&y")

	if err := WriteFile(path, table); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read back: %v", err)
	}
	if !strings.Contains(string(raw), `"cocaína": "cocaine"`) {
		t.Errorf("Expected unescaped unicode in file, got:\n%s", raw)
	}
	if !strings.Contains(string(raw), `"a<b": "x&y"`) {
		t.Errorf("Expected unescaped HTML characters in file, got:\n%s", raw)
	}

	reread, err := ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to parse written file: %v", err)
	}
	if diff := cmp.Diff(table.Entries(), reread.Entries()); diff != "" {
		t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestContainerLoadMissingFile(t *testing.T) {
	c := NewContainer(filepath.Join(t.TempDir(), "missing.json"))
	if err := c.Load(); err != nil {
		t.Fatalf("Expected missing file to be tolerated, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Expected empty table, got %d entries", c.Len())
	}
}

func TestContainerLoadMalformedFile(t *testing.T) {
	c := NewContainer(writeAliasFile(t, "{not json"))
	if err := c.Load(); err == nil {
		t.Fatal("Expected error for malformed alias file")
	}
}

func TestContainerPutPersistsThenPublishes(t *testing.T) {
	path := writeAliasFile(t, `{"keta": "ketamine"}`)
	c := NewContainer(path)
	if err := c.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := c.Put("metanfetamina", "methamphetamine"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if got := c.Resolve("metanfetamina"); got != "methamphetamine" {
		t.Errorf("Expected new alias to resolve, got %q", got)
	}

	onDisk, err := ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read alias file: %v", err)
	}
	if target, ok := onDisk.Lookup("metanfetamina"); !ok || target != "methamphetamine" {
		t.Errorf("Expected alias persisted to disk, got %q", target)
	}
	if target, _ := onDisk.Lookup("keta"); target != "ketamine" {
		t.Errorf("Expected existing alias kept on disk, got %q", target)
	}
}

func TestContainerPutWriteFailureKeepsTable(t *testing.T) {
	dir := t.TempDir()
	c := NewContainer(filepath.Join(dir, "gone", "alias.json"))
	c.Replace(sampleTable())

	err := c.Put("speed", "amphetamine")
	if !errors.Is(err, ErrPersist) {
		t.Fatalf("Expected ErrPersist, got %v", err)
	}

	if got := c.Resolve("speed"); got != "speed" {
		t.Errorf("In-memory table must not change on write failure, resolved to %q", got)
	}
	if c.Len() != sampleTable().Len() {
		t.Errorf("Expected %d entries, got %d", sampleTable().Len(), c.Len())
	}
}

func TestContainerPutRejectsEmpty(t *testing.T) {
	c := NewContainer(filepath.Join(t.TempDir(), "alias.json"))
	if err := c.Put("  ", "ketamine"); !errors.Is(err, ErrInvalidAlias) {
		t.Errorf("Expected ErrInvalidAlias, got %v", err)
	}
}

func TestContainerReloadKeepsTableOnError(t *testing.T) {
	path := writeAliasFile(t, `{"keta": "ketamine"}`)
	c := NewContainer(path)
	if err := c.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatalf("Failed to corrupt file: %v", err)
	}
	if err := c.Reload(); err == nil {
		t.Fatal("Expected reload error")
	}
	if got := c.Resolve("keta"); got != "ketamine" {
		t.Errorf("Expected previous table to survive, got %q", got)
	}
}

func TestContainerConcurrentReadersDuringPuts(t *testing.T) {
	c := NewContainer(filepath.Join(t.TempDir(), "alias.json"))
	c.Replace(sampleTable())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				snap := c.Snapshot()
				// a snapshot is internally consistent
				if len(snap.Entries()) != snap.Len() {
					t.Error("Snapshot entries and length disagree")
					return
				}
				_ = c.Resolve("keta")
			}
		}()
	}

	for i := 0; i < 20; i++ {
		if err := c.Put("alias"+string(rune('a'+i)), "target"); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	wg.Wait()

	if c.Len() != sampleTable().Len()+20 {
		t.Errorf("Expected %d entries, got %d", sampleTable().Len()+20, c.Len())
	}
}
