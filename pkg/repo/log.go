package repo

import (
	"github.com/pkg/errors"

	"github.com/systemshift/minigit/pkg/commit"
)

// LogEntry pairs a commit with the id it was stored under, so callers
// can print both without recomputing the hash.
type LogEntry struct {
	ID     string
	Commit commit.Commit
}

// Log walks first-parent history from HEAD's current commit, newest
// first. A merge commit's second parent is never followed. The walk
// stops at commit.NoParent or at a parent id that cannot be read; a
// HEAD commit that cannot be read is returned as an error.
func (r *Repository) Log() ([]LogEntry, error) {
	if err := r.requireRepository(); err != nil {
		return nil, err
	}

	id, err := r.headCommitID()
	if err != nil {
		return nil, err
	}

	var entries []LogEntry
	for id != "" && id != commit.NoParent {
		c, err := r.Commits.Get(id)
		if err != nil {
			if len(entries) > 0 {
				break
			}
			return nil, errors.Wrapf(err, "reading commit %s", id)
		}
		entries = append(entries, LogEntry{ID: id, Commit: c})
		id = c.Parent
	}
	return entries, nil
}
