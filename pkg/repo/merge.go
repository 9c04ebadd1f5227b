package repo

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/systemshift/minigit/internal/store"
	"github.com/systemshift/minigit/internal/vcserr"
	"github.com/systemshift/minigit/pkg/commit"
	"github.com/systemshift/minigit/pkg/merge"
)

// MergeSimple performs an overlay merge: the union of HEAD's and
// branchName's trees, with branchName's entries winning on collision.
// It writes a two-parent commit and advances HEAD, and never touches
// the working directory.
func (r *Repository) MergeSimple(branchName string) (string, error) {
	headID, otherID, err := r.resolveMergeSides(branchName)
	if err != nil {
		return "", err
	}

	headCommit, err := r.Commits.Get(headID)
	if err != nil {
		return "", errors.Wrapf(err, "reading HEAD commit %s", headID)
	}
	otherCommit, err := r.Commits.Get(otherID)
	if err != nil {
		return "", errors.Wrapf(err, "reading commit %s", otherID)
	}

	resultTree := merge.Overlay(headCommit.Tree, otherCommit.Tree)
	message := "Merged branch '" + branchName + "'"
	return r.commitMerge(resultTree, headID, otherID, message)
}

// ThreeWayResult reports the outcome of MergeThreeWay: the resulting
// commit id plus any conflicts recorded along the way.
type ThreeWayResult struct {
	CommitID  string
	Conflicts []merge.Conflict
}

// MergeThreeWay performs a three-way merge: base is the LCA of HEAD
// and branchName. Conflicts are reported but never fatal — the merge
// always produces a commit, with the other side's value chosen for
// every conflicting path.
func (r *Repository) MergeThreeWay(branchName string) (ThreeWayResult, error) {
	headID, otherID, err := r.resolveMergeSides(branchName)
	if err != nil {
		return ThreeWayResult{}, err
	}

	baseID, ok, err := merge.LCA(r.Commits, headID, otherID)
	if err != nil {
		return ThreeWayResult{}, err
	}
	if !ok {
		return ThreeWayResult{}, errors.Wrapf(vcserr.ErrNoCommonAncestor, "%s and %s", headID, otherID)
	}

	baseCommit, err := r.Commits.Get(baseID)
	if err != nil {
		return ThreeWayResult{}, errors.Wrapf(err, "reading base commit %s", baseID)
	}
	headCommit, err := r.Commits.Get(headID)
	if err != nil {
		return ThreeWayResult{}, errors.Wrapf(err, "reading HEAD commit %s", headID)
	}
	otherCommit, err := r.Commits.Get(otherID)
	if err != nil {
		return ThreeWayResult{}, errors.Wrapf(err, "reading commit %s", otherID)
	}

	resultTree, conflicts := merge.ThreeWay(baseCommit.Tree, headCommit.Tree, otherCommit.Tree)
	message := "Merged branch '" + branchName + "'"
	id, err := r.commitMerge(resultTree, headID, otherID, message)
	if err != nil {
		return ThreeWayResult{}, err
	}
	return ThreeWayResult{CommitID: id, Conflicts: conflicts}, nil
}

// LCA reports the lowest common ancestor of HEAD and branchName, per
// the external `lca` command.
func (r *Repository) LCA(branchName string) (string, bool, error) {
	headID, otherID, err := r.resolveMergeSides(branchName)
	if err != nil {
		return "", false, err
	}
	return merge.LCA(r.Commits, headID, otherID)
}

// resolveMergeSides resolves HEAD and branchName to commit ids,
// failing with ErrRefMissing when either side cannot be found.
func (r *Repository) resolveMergeSides(branchName string) (headID, otherID string, err error) {
	if err := r.requireRepository(); err != nil {
		return "", "", err
	}

	headID, err = r.headCommitID()
	if err != nil {
		return "", "", err
	}
	if headID == "" {
		return "", "", errors.Wrap(vcserr.ErrRefMissing, "HEAD has no commit history")
	}

	otherID, ok, err := r.Refs.GetRef(branchName)
	if err != nil {
		return "", "", err
	}
	if !ok {
		return "", "", errors.Wrapf(vcserr.ErrRefMissing, "%s", branchName)
	}
	return headID, otherID, nil
}

// commitMerge builds and stores the merge commit, then advances HEAD
// the same way Commit does.
func (r *Repository) commitMerge(tree map[string]string, headID, otherID, message string) (string, error) {
	c := commit.New(tree, message, headID, otherID, time.Now())
	id, err := r.Commits.Put(c)
	if err != nil {
		return "", errors.Wrap(err, "storing merge commit")
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
	default:
		if err := r.Refs.WriteHeadDetached(id); err != nil {
			return "", err
		}
	}

	r.log.WithFields(logrus.Fields{"commit": id, "head": headID, "other": otherID}).Info("merged")
	return id, nil
}
