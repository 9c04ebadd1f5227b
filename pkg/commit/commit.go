// Package commit implements the commit envelope: a fixed textual
// serialization format, and a write-once store of commits keyed by the
// hash of their serialized bytes, mirroring the content-addressed
// object store one layer up.
package commit

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/systemshift/minigit/internal/atomicfile"
	"github.com/systemshift/minigit/internal/objhash"
	"github.com/systemshift/minigit/internal/vcserr"
)

// NoParent is the sentinel parent value for a root commit.
const NoParent = "none"

// TimeFormat is the exact layout commit timestamps are rendered in.
const TimeFormat = "2006-01-02 15:04:05"

// Commit is the immutable record bound by the tree, metadata, and up to
// two parents.
type Commit struct {
	Timestamp string
	Message   string
	Parent    string // NoParent for the root commit
	Parent2   string // "" unless this is a merge commit
	Tree      map[string]string
}

// New builds a Commit for the given tree/message/parents at the given
// wall-clock time, ready to serialize.
func New(tree map[string]string, message, parent, parent2 string, at time.Time) Commit {
	if parent == "" {
		parent = NoParent
	}
	return Commit{
		Timestamp: at.Format(TimeFormat),
		Message:   message,
		Parent:    parent,
		Parent2:   parent2,
		Tree:      tree,
	}
}

// IsMerge reports whether this is a two-parent commit.
func (c Commit) IsMerge() bool { return c.Parent2 != "" }

// Serialize renders c as its exact on-disk envelope: field headers, an
// optional parent2 line, then a "blobs:" section with tree entries
// sorted by path for deterministic commit ids.
func Serialize(c Commit) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "timestamp: %s\n", c.Timestamp)
	fmt.Fprintf(&buf, "message: %s\n", c.Message)
	fmt.Fprintf(&buf, "parent: %s\n", c.Parent)
	if c.Parent2 != "" {
		fmt.Fprintf(&buf, "parent2: %s\n", c.Parent2)
	}
	buf.WriteString("blobs:\n")

	paths := make([]string, 0, len(c.Tree))
	for p := range c.Tree {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Fprintf(&buf, "  %s %s\n", p, c.Tree[p])
	}
	return buf.Bytes()
}

// Parse reconstructs a Commit from its serialized envelope. It is
// tolerant only of the exact shape Serialize produces; any other line
// outside the blobs section fails with vcserr.ErrMalformedRecord.
func Parse(data []byte) (Commit, error) {
	c := Commit{Tree: make(map[string]string)}
	scanner := bufio.NewScanner(bytes.NewReader(data))

	inBlobs := false
	sawTimestamp, sawMessage, sawParent := false, false, false

	for scanner.Scan() {
		line := scanner.Text()
		if inBlobs {
			if line == "" {
				continue
			}
			if !strings.HasPrefix(line, "  ") {
				return Commit{}, errors.Wrapf(vcserr.ErrMalformedRecord, "blobs entry without two-space indent: %q", line)
			}
			entry := strings.TrimPrefix(line, "  ")
			sp := strings.LastIndex(entry, " ")
			if sp < 0 {
				return Commit{}, errors.Wrapf(vcserr.ErrMalformedRecord, "malformed blobs entry: %q", line)
			}
			c.Tree[entry[:sp]] = entry[sp+1:]
			continue
		}

		switch {
		case strings.HasPrefix(line, "timestamp: "):
			c.Timestamp = strings.TrimPrefix(line, "timestamp: ")
			sawTimestamp = true
		case strings.HasPrefix(line, "message: "):
			c.Message = strings.TrimPrefix(line, "message: ")
			sawMessage = true
		case strings.HasPrefix(line, "parent2: "):
			c.Parent2 = strings.TrimPrefix(line, "parent2: ")
		case strings.HasPrefix(line, "parent: "):
			c.Parent = strings.TrimPrefix(line, "parent: ")
			sawParent = true
		case line == "blobs:":
			inBlobs = true
		default:
			return Commit{}, errors.Wrapf(vcserr.ErrMalformedRecord, "unrecognized line: %q", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return Commit{}, errors.Wrap(err, "scanning commit envelope")
	}
	if !sawTimestamp || !sawMessage || !sawParent {
		return Commit{}, errors.Wrap(vcserr.ErrMalformedRecord, "commit envelope missing required field")
	}
	return c, nil
}

// Store is a write-once repository of commits keyed by the hash of
// their serialized envelope, under <minigitDir>/commits.
type Store struct {
	dir string
	log *logrus.Entry
}

// NewStore returns a Store rooted at minigitDir/commits.
func NewStore(minigitDir string) *Store {
	return &Store{dir: filepath.Join(minigitDir, "commits"), log: logrus.WithField("component", "commitstore")}
}

// Put serializes c, computes its id, and writes it if not already
// present, returning the id either way.
func (s *Store) Put(c Commit) (string, error) {
	data := Serialize(c)
	id := objhash.Sum(data)
	path := filepath.Join(s.dir, id)
	if _, err := os.Stat(path); err == nil {
		return id, nil
	}
	if err := atomicfile.Write(path, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "storing commit %s", id)
	}
	s.log.WithField("id", id).Debug("stored commit")
	return id, nil
}

// Get loads and parses the commit with the given id.
func (s *Store) Get(id string) (Commit, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, id))
	if err != nil {
		if os.IsNotExist(err) {
			return Commit{}, errors.Wrapf(vcserr.ErrObjectMissing, "commit %s", id)
		}
		return Commit{}, errors.Wrapf(vcserr.ErrIOFailure, "reading commit %s: %v", id, err)
	}
	c, err := Parse(data)
	if err != nil {
		return Commit{}, errors.Wrapf(err, "parsing commit %s", id)
	}
	return c, nil
}

// Exists reports whether a commit with the given id is present.
func (s *Store) Exists(id string) bool {
	_, err := os.Stat(filepath.Join(s.dir, id))
	return err == nil
}
