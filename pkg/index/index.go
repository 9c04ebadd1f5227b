// Package index implements the staging area: an ordered, append-only
// list of (path, blob-id) pairs accumulated since the last commit,
// persisted as "<path> <blob-id>" lines under .minigit/index.
package index

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Entry is a single staged (path, blob-id) pair.
type Entry struct {
	Path  string
	BlobID string
}

// FileName is the index file's name under .minigit.
const FileName = "index"

// Index is the ordered sequence of staged entries. The zero value is a
// valid empty index.
type Index struct {
	Entries []Entry
}

// Load reads the index from minigitDir/index. A missing file is
// equivalent to an empty index.
func Load(minigitDir string) (*Index, error) {
	b, err := os.ReadFile(filepath.Join(minigitDir, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return &Index{}, nil
		}
		return nil, errors.Wrap(err, "reading index")
	}

	idx := &Index{}
	scanner := bufio.NewScanner(bytes.NewReader(b))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		sp := strings.LastIndex(line, " ")
		if sp < 0 {
			return nil, errors.Errorf("malformed index line: %q", line)
		}
		idx.Entries = append(idx.Entries, Entry{Path: line[:sp], BlobID: line[sp+1:]})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scanning index")
	}
	return idx, nil
}

// Save persists the index to minigitDir/index, one "<path> <blob-id>"
// line per entry in append order.
func (idx *Index) Save(minigitDir string) error {
	var buf bytes.Buffer
	for _, e := range idx.Entries {
		buf.WriteString(e.Path)
		buf.WriteByte(' ')
		buf.WriteString(e.BlobID)
		buf.WriteByte('\n')
	}
	if err := os.WriteFile(filepath.Join(minigitDir, FileName), buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "writing index")
	}
	return nil
}

// Append adds a (path, blob-id) pair to the end of the index. It does
// NOT deduplicate by path — later entries shadow earlier ones only when
// the tree is folded.
func (idx *Index) Append(path, blobID string) {
	idx.Entries = append(idx.Entries, Entry{Path: path, BlobID: blobID})
}

// Clear truncates the index to empty.
func (idx *Index) Clear() {
	idx.Entries = nil
}

// IsEmpty reports whether the index has no staged entries.
func (idx *Index) IsEmpty() bool {
	return len(idx.Entries) == 0
}

// Tree folds the ordered index into a path -> blob-id mapping, with
// later entries winning on duplicate paths.
func (idx *Index) Tree() map[string]string {
	tree := make(map[string]string, len(idx.Entries))
	for _, e := range idx.Entries {
		tree[e.Path] = e.BlobID
	}
	return tree
}
