// Package repo ties the object store, ref store, commit store, and
// index together into the Commit Engine, Checkout Engine, and Log
// Walker, behind a single Repository handle.
//
// Repository is an explicit value carrying the repository root path —
// every operation takes it as a receiver, there is no process-global
// repository state.
package repo

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/systemshift/minigit/internal/config"
	"github.com/systemshift/minigit/internal/store"
	"github.com/systemshift/minigit/internal/vcserr"
	"github.com/systemshift/minigit/pkg/commit"
	"github.com/systemshift/minigit/pkg/index"
)

// MinigitDir is the name of the repository metadata directory,
// the on-disk metadata directory ".minigit".
const MinigitDir = ".minigit"

// Repository is a handle onto a minigit repository rooted at Path.
type Repository struct {
	Path       string
	minigitDir string

	Objects *store.ObjectStore
	Refs    *store.RefStore
	Commits *commit.Store

	log *logrus.Entry
}

// Open returns a Repository handle for path. It does not require the
// repository to already exist — call Init first, or IsRepository to
// check.
func Open(path string) *Repository {
	clean := filepath.Clean(path)
	minigitDir := filepath.Join(clean, MinigitDir)
	return &Repository{
		Path:       clean,
		minigitDir: minigitDir,
		Objects:    store.NewObjectStore(minigitDir),
		Refs:       store.NewRefStore(minigitDir),
		Commits:    commit.NewStore(minigitDir),
		log:        logrus.WithField("repo", clean),
	}
}

// IsRepository reports whether path has a .minigit directory.
func IsRepository(path string) bool {
	_, err := os.Stat(filepath.Join(path, MinigitDir))
	return err == nil
}

// Init creates the on-disk repository layout: an empty HEAD, an empty
// index, empty objects/commits/refs directories, and a default config.
func (r *Repository) Init() error {
	if IsRepository(r.Path) {
		return errors.New("repository already exists")
	}

	dirs := []string{
		r.minigitDir,
		filepath.Join(r.minigitDir, store.ObjectsDir),
		filepath.Join(r.minigitDir, "commits"),
		filepath.Join(r.minigitDir, store.RefsDir),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return errors.Wrapf(err, "creating %s", d)
		}
	}

	// HEAD is created empty: no commits yet, nothing to attach to.
	if err := os.WriteFile(filepath.Join(r.minigitDir, store.HeadFile), []byte{}, 0o644); err != nil {
		return errors.Wrap(err, "creating HEAD")
	}
	if err := os.WriteFile(filepath.Join(r.minigitDir, index.FileName), []byte{}, 0o644); err != nil {
		return errors.Wrap(err, "creating index")
	}
	if err := config.Write(r.minigitDir, config.Default()); err != nil {
		return errors.Wrap(err, "writing config")
	}

	r.log.Info("initialized repository")
	return nil
}

// requireRepository fails fast with ErrNotARepository when .minigit is missing.
func (r *Repository) requireRepository() error {
	if !IsRepository(r.Path) {
		return errors.Wrapf(vcserr.ErrNotARepository, "%s", r.Path)
	}
	return nil
}

// loadIndex loads the staging area from disk.
func (r *Repository) loadIndex() (*index.Index, error) {
	idx, err := index.Load(r.minigitDir)
	if err != nil {
		return nil, errors.Wrap(err, "loading index")
	}
	return idx, nil
}

// headCommitID resolves HEAD to the commit id it currently points at:
// the ref's target if attached, the bare id if detached, or "" if
// empty (no commits yet).
func (r *Repository) headCommitID() (string, error) {
	h, err := r.Refs.ReadHead()
	if err != nil {
		return "", errors.Wrap(err, "reading HEAD")
	}
	switch h.Kind {
	case store.HeadEmpty:
		return "", nil
	case store.HeadDetached:
		return h.CommitID, nil
	case store.HeadAttached:
		id, ok, err := r.Refs.GetRef(h.Ref)
		if err != nil {
			return "", err
		}
		if !ok {
			// Branch was created but never committed to: same as empty.
			return "", nil
		}
		return id, nil
	}
	return "", errors.Errorf("unknown HEAD kind %d", h.Kind)
}

// Stage reads path from the working directory, stores it as a blob,
// and appends it to the index.
func (r *Repository) Stage(path string) error {
	if err := r.requireRepository(); err != nil {
		return err
	}

	content, err := os.ReadFile(filepath.Join(r.Path, path))
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(vcserr.ErrFileMissing, "%s", path)
		}
		return errors.Wrapf(vcserr.ErrIOFailure, "reading %s: %v", path, err)
	}

	blobID, err := r.Objects.Put(content)
	if err != nil {
		return errors.Wrapf(err, "storing blob for %s", path)
	}

	idx, err := r.loadIndex()
	if err != nil {
		return err
	}
	idx.Append(path, blobID)
	if err := idx.Save(r.minigitDir); err != nil {
		return errors.Wrap(err, "saving index")
	}

	r.log.WithFields(logrus.Fields{"path": path, "blob": blobID}).Debug("staged file")
	return nil
}

// Commit materializes the staged tree into a commit, chains it onto
// HEAD's current commit, advances HEAD (and the attached branch, if
// any), and clears the index.
func (r *Repository) Commit(message string) (string, error) {
	if err := r.requireRepository(); err != nil {
		return "", err
	}

	idx, err := r.loadIndex()
	if err != nil {
		return "", err
	}
	if idx.IsEmpty() {
		return "", vcserr.ErrNothingStaged
	}

	parent, err := r.headCommitID()
	if err != nil {
		return "", err
	}
	if parent == "" {
		parent = commit.NoParent
	}

	c := commit.New(idx.Tree(), message, parent, "", time.Now())
	id, err := r.Commits.Put(c)
	if err != nil {
		return "", errors.Wrap(err, "storing commit")
	}

	h, err := r.Refs.ReadHead()
	if err != nil {
		return "", err
	}
	switch h.Kind {
	case store.HeadAttached:
		if err := r.Refs.SetRef(h.Ref, id); err != nil {
			return "", err
		}
	case store.HeadEmpty, store.HeadDetached:
		// Detached HEAD stays detached, advanced to the new id; an empty
		// HEAD becomes detached on the first commit.
		if err := r.Refs.WriteHeadDetached(id); err != nil {
			return "", err
		}
	}

	idx.Clear()
	if err := idx.Save(r.minigitDir); err != nil {
		return "", errors.Wrap(err, "clearing index")
	}

	r.log.WithField("commit", id).Info("committed")
	return id, nil
}

// Branch creates a ref named name pointing at HEAD's resolved commit.
func (r *Repository) Branch(name string) error {
	if err := r.requireRepository(); err != nil {
		return err
	}
	if !store.IsValidRefName(name) {
		return errors.Errorf("invalid branch name %q", name)
	}

	id, err := r.headCommitID()
	if err != nil {
		return err
	}
	if id == "" {
		return errors.New("cannot branch: no commit history")
	}
	return r.Refs.SetRef(name, id)
}
