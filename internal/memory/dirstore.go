// Package memory implements the read-only stub over the external
// Markdown memory directory (spec §4.11, SLACK_MEMORY_DIR). The
// indexer described in spec.md's original-source intent is explicitly
// out of scope; this only lists and reads the flat file set so
// Bootstrap has a real memory store to wire, not a placeholder.
package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Note is one memory file's identity, without its contents.
type Note struct {
	Name    string // file name without the .md extension
	ModTime int64  // unix seconds
}

// Store lists and reads Markdown notes under a directory. The zero
// value is unusable; build with NewDirStore.
type Store struct {
	dir string
}

// NewDirStore returns a Store rooted at dir. dir is not created or
// validated here — an absent or unreadable directory simply yields an
// empty list from List, matching the "external, optional" framing of
// SLACK_MEMORY_DIR in spec §6.
func NewDirStore(dir string) *Store {
	return &Store{dir: dir}
}

// List returns every ".md" file directly under the store's directory,
// sorted by name. A missing directory yields an empty slice, not an
// error: the memory dir is optional per spec §6.
func (s *Store) List(ctx context.Context) ([]Note, error) {
	if s.dir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("memory: list %s: %w", s.dir, err)
	}

	var notes []Note
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		notes = append(notes, Note{
			Name:    strings.TrimSuffix(e.Name(), ".md"),
			ModTime: info.ModTime().Unix(),
		})
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].Name < notes[j].Name })
	return notes, nil
}

// Read returns the raw contents of "<name>.md". name must not contain
// a path separator — callers pass a name previously returned by List.
func (s *Store) Read(ctx context.Context, name string) (string, error) {
	if strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("memory: invalid note name %q", name)
	}
	path := filepath.Join(s.dir, name+".md")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("memory: read %s: %w", name, err)
	}
	return string(data), nil
}
