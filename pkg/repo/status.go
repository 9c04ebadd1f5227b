package repo

import (
	"github.com/systemshift/minigit/internal/store"
)

// Status is a supplemental read-only report of where HEAD points and
// what is currently staged, added because it costs nothing on top of
// the primitives above and every example driver needs something like
// it to show what a command actually did.
type Status struct {
	Head    store.Head
	Branch  string // resolved branch name if Head is attached, else ""
	Staged  []string
	HasRepo bool
}

// Status reports the repository's current HEAD state and staged paths.
func (r *Repository) Status() (Status, error) {
	if !IsRepository(r.Path) {
		return Status{HasRepo: false}, nil
	}

	h, err := r.Refs.ReadHead()
	if err != nil {
		return Status{}, err
	}

	idx, err := r.loadIndex()
	if err != nil {
		return Status{}, err
	}

	staged := make([]string, 0, len(idx.Entries))
	seen := make(map[string]bool, len(idx.Entries))
	for _, e := range idx.Entries {
		if seen[e.Path] {
			continue
		}
		seen[e.Path] = true
		staged = append(staged, e.Path)
	}

	st := Status{
		Head:    h,
		Staged:  staged,
		HasRepo: true,
	}
	if h.Kind == store.HeadAttached {
		st.Branch = h.Ref
	}
	return st, nil
}
