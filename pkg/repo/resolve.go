package repo

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/systemshift/minigit/internal/vcserr"
)

// ResolveTarget resolves a checkout designator to a commit id and
// reports whether it was a ref name (true) or a bare/abbreviated
// commit id (false).
//
// Resolution order: an exact ref match wins over a commit id, so a
// branch named the same as a commit prefix is never ambiguous.
func (r *Repository) ResolveTarget(target string) (id string, isRef bool, err error) {
	if refID, ok, err := r.Refs.GetRef(target); err != nil {
		return "", false, err
	} else if ok {
		return refID, true, nil
	}

	full, err := r.expandCommitPrefix(target)
	if err != nil {
		return "", false, err
	}
	return full, false, nil
}

// expandCommitPrefix resolves target as either a full commit id or an
// unambiguous prefix of one. A prefix matching zero or more than one
// commit is reported as vcserr.ErrUnknownTarget.
func (r *Repository) expandCommitPrefix(target string) (string, error) {
	if r.Commits.Exists(target) {
		return target, nil
	}

	dir := filepath.Join(r.minigitDir, "commits")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrapf(vcserr.ErrUnknownTarget, "%s", target)
		}
		return "", errors.Wrap(err, "reading commits directory")
	}

	var matches []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), target) {
			matches = append(matches, e.Name())
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", errors.Wrapf(vcserr.ErrUnknownTarget, "%s", target)
	default:
		return "", errors.Wrapf(vcserr.ErrUnknownTarget, "%s is ambiguous (%d matches)", target, len(matches))
	}
}

// IsRef reports whether name is a ref stored under .minigit/refs.
func (r *Repository) IsRef(name string) (bool, error) {
	_, ok, err := r.Refs.GetRef(name)
	return ok, err
}

// abbrevLen is the number of characters a commit id is truncated to
// for display.
const abbrevLen = 8

// Abbreviate truncates a commit id to a short display form. It is a
// pure display helper only: every resolution path in this package
// still requires a full id or an unambiguous prefix (expandCommitPrefix).
func Abbreviate(id string) string {
	if len(id) > abbrevLen {
		return id[:abbrevLen]
	}
	return id
}
