package repo

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Checkout resolves target (a ref name or commit id/prefix), writes
// every blob in its tree into the working directory, and points HEAD
// at it: attached if target was a ref, detached otherwise. Files
// outside the target tree are left untouched — checkout never deletes.
func (r *Repository) Checkout(target string) error {
	if err := r.requireRepository(); err != nil {
		return err
	}

	id, isRef, err := r.ResolveTarget(target)
	if err != nil {
		return err
	}

	c, err := r.Commits.Get(id)
	if err != nil {
		return errors.Wrapf(err, "loading commit %s", id)
	}

	for path, blobID := range c.Tree {
		content, err := r.Objects.Get(blobID)
		if err != nil {
			return errors.Wrapf(err, "reading blob for %s", path)
		}
		dest := filepath.Join(r.Path, path)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return errors.Wrapf(err, "creating directory for %s", path)
		}
		if err := os.WriteFile(dest, content, 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
	}

	if isRef {
		if err := r.Refs.WriteHeadAttached(target); err != nil {
			return err
		}
	} else {
		if err := r.Refs.WriteHeadDetached(id); err != nil {
			return err
		}
	}

	r.log.WithFields(logrus.Fields{"target": target, "commit": id, "attached": isRef}).Info("checked out")
	return nil
}
