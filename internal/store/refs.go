package store

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// RefsDir is the name of the flat ref directory under .minigit.
	RefsDir = "refs"
	// HeadFile is the name of the HEAD file under .minigit.
	HeadFile = "HEAD"

	refPrefix = "ref: refs/"
)

// HeadKind is the tag of the Head state machine: HEAD is always resolved
// to one of these three states rather than left as raw, ambiguous text.
type HeadKind int

const (
	// HeadEmpty is the state of a freshly initialized repository with no commits yet.
	HeadEmpty HeadKind = iota
	// HeadAttached means HEAD follows a named ref.
	HeadAttached
	// HeadDetached means HEAD points directly at a commit id.
	HeadDetached
)

// Head is the resolved state of the HEAD slot.
type Head struct {
	Kind     HeadKind
	Ref      string // set when Kind == HeadAttached
	CommitID string // set when Kind == HeadDetached
}

// RefStore is a flat mapping from branch name to commit id, plus the
// distinguished HEAD slot, both persisted under .minigit.
type RefStore struct {
	minigitDir string
	log        *logrus.Entry
}

// NewRefStore returns a RefStore rooted at minigitDir.
func NewRefStore(minigitDir string) *RefStore {
	return &RefStore{minigitDir: minigitDir, log: logrus.WithField("component", "refstore")}
}

func (s *RefStore) refPath(name string) string {
	return filepath.Join(s.minigitDir, RefsDir, name)
}

func (s *RefStore) headPath() string {
	return filepath.Join(s.minigitDir, HeadFile)
}

// SetRef creates or overwrites the ref name to point at id.
func (s *RefStore) SetRef(name, id string) error {
	if err := writeFileAtomic(s.refPath(name), []byte(id+"\n"), 0o644); err != nil {
		return errors.Wrapf(err, "setting ref %s", name)
	}
	s.log.WithFields(logrus.Fields{"ref": name, "id": id}).Debug("ref updated")
	return nil
}

// GetRef returns the commit id a ref points to, and whether it exists.
func (s *RefStore) GetRef(name string) (string, bool, error) {
	b, err := os.ReadFile(s.refPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, "reading ref %s", name)
	}
	return strings.TrimSpace(string(b)), true, nil
}

// ListRefs returns every (name, id) pair in the flat ref namespace.
func (s *RefStore) ListRefs() (map[string]string, error) {
	dir := filepath.Join(s.minigitDir, RefsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, errors.Wrap(err, "reading refs directory")
	}

	refs := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, ok, err := s.GetRef(e.Name())
		if err != nil {
			return nil, err
		}
		if ok {
			refs[e.Name()] = id
		}
	}
	return refs, nil
}

// ReadHead resolves the current HEAD state.
func (s *RefStore) ReadHead() (Head, error) {
	b, err := os.ReadFile(s.headPath())
	if err != nil {
		if os.IsNotExist(err) {
			return Head{Kind: HeadEmpty}, nil
		}
		return Head{}, errors.Wrap(err, "reading HEAD")
	}

	content := strings.TrimSpace(string(b))
	if content == "" {
		return Head{Kind: HeadEmpty}, nil
	}
	if strings.HasPrefix(content, refPrefix) {
		name := strings.TrimPrefix(content, refPrefix)
		if name == "" {
			return Head{}, errors.New("malformed HEAD: empty ref name")
		}
		return Head{Kind: HeadAttached, Ref: name}, nil
	}
	return Head{Kind: HeadDetached, CommitID: content}, nil
}

// WriteHeadAttached points HEAD at the named ref.
func (s *RefStore) WriteHeadAttached(name string) error {
	if err := writeFileAtomic(s.headPath(), []byte(refPrefix+name+"\n"), 0o644); err != nil {
		return errors.Wrap(err, "attaching HEAD")
	}
	return nil
}

// WriteHeadDetached points HEAD directly at a commit id.
func (s *RefStore) WriteHeadDetached(id string) error {
	if err := writeFileAtomic(s.headPath(), []byte(id+"\n"), 0o644); err != nil {
		return errors.Wrap(err, "detaching HEAD")
	}
	return nil
}

// IsValidRefName reports whether name is usable as a ref: non-empty and
// free of path separators.
func IsValidRefName(name string) bool {
	return name != "" && !strings.ContainsAny(name, "/\\")
}
