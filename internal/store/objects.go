// Package store implements the two lowest layers of the repository: the
// content-addressed object store and the ref/HEAD namespace overlaid on
// top of it. Both persist under the repository's .minigit directory and
// write atomically so a concurrent reader never observes a torn file.
package store

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/systemshift/minigit/internal/objhash"
	"github.com/systemshift/minigit/internal/vcserr"
)

// ObjectsDir is the name of the objects directory under .minigit.
const ObjectsDir = "objects"

// ObjectStore is a write-once, content-addressed blob repository rooted
// at <minigitDir>/objects. Writing an object whose id already exists is
// a no-op on content.
type ObjectStore struct {
	dir string
	log *logrus.Entry
}

// NewObjectStore returns an ObjectStore rooted at minigitDir/objects.
func NewObjectStore(minigitDir string) *ObjectStore {
	return &ObjectStore{
		dir: filepath.Join(minigitDir, ObjectsDir),
		log: logrus.WithField("component", "objectstore"),
	}
}

// Put computes the object id of b and writes it if not already present,
// returning the id either way.
func (s *ObjectStore) Put(b []byte) (string, error) {
	id := objhash.Sum(b)
	if s.Exists(id) {
		return id, nil
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating objects directory")
	}
	if err := writeFileAtomic(s.path(id), b, 0o644); err != nil {
		return "", errors.Wrapf(err, "storing object %s", id)
	}
	s.log.WithField("id", id).Debug("stored object")
	return id, nil
}

// Get returns the bytes of the object with the given id, or
// vcserr.ErrObjectMissing if it is not present.
func (s *ObjectStore) Get(id string) ([]byte, error) {
	b, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(vcserr.ErrObjectMissing, "object %s", id)
		}
		return nil, errors.Wrapf(vcserr.ErrIOFailure, "reading object %s: %v", id, err)
	}
	return b, nil
}

// Exists reports whether an object with the given id is present.
func (s *ObjectStore) Exists(id string) bool {
	_, err := os.Stat(s.path(id))
	return err == nil
}

func (s *ObjectStore) path(id string) string {
	return filepath.Join(s.dir, id)
}
