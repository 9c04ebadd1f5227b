package repo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeSimpleOverlay(t *testing.T) {
	dir := t.TempDir()
	r := Open(dir)
	require.NoError(t, r.Init())

	writeFile(t, dir, "base.txt", "base")
	require.NoError(t, r.Stage("base.txt"))
	_, err := r.Commit("root")
	require.NoError(t, err)
	require.NoError(t, r.Branch("main"))
	require.NoError(t, r.Refs.WriteHeadAttached("main"))

	require.NoError(t, r.Branch("feature"))

	writeFile(t, dir, "main_only.txt", "m")
	require.NoError(t, r.Stage("main_only.txt"))
	_, err = r.Commit("on main")
	require.NoError(t, err)

	require.NoError(t, r.Checkout("feature"))
	writeFile(t, dir, "feature_only.txt", "f")
	require.NoError(t, r.Stage("feature_only.txt"))
	_, err = r.Commit("on feature")
	require.NoError(t, err)

	require.NoError(t, r.Checkout("main"))
	mergeID, err := r.MergeSimple("feature")
	require.NoError(t, err)

	c, err := r.Commits.Get(mergeID)
	require.NoError(t, err)
	require.Contains(t, c.Tree, "main_only.txt")
	require.Contains(t, c.Tree, "feature_only.txt")
	require.True(t, c.IsMerge())
}

func TestMergeThreeWayNoConflict(t *testing.T) {
	dir := t.TempDir()
	r := Open(dir)
	require.NoError(t, r.Init())

	writeFile(t, dir, "a.txt", "1")
	require.NoError(t, r.Stage("a.txt"))
	writeFile(t, dir, "b.txt", "1")
	require.NoError(t, r.Stage("b.txt"))
	_, err := r.Commit("base")
	require.NoError(t, err)
	require.NoError(t, r.Branch("main"))
	require.NoError(t, r.Refs.WriteHeadAttached("main"))
	require.NoError(t, r.Branch("y"))

	writeFile(t, dir, "a.txt", "2")
	require.NoError(t, r.Stage("a.txt"))
	require.NoError(t, r.Stage("b.txt")) // unchanged, but kept in x's tree
	_, err = r.Commit("x changes a")
	require.NoError(t, err)

	require.NoError(t, r.Checkout("y"))
	writeFile(t, dir, "b.txt", "2")
	require.NoError(t, r.Stage("a.txt")) // unchanged, but kept in y's tree
	require.NoError(t, r.Stage("b.txt"))
	_, err = r.Commit("y changes b")
	require.NoError(t, err)

	require.NoError(t, r.Checkout("main"))
	result, err := r.MergeThreeWay("y")
	require.NoError(t, err)
	require.Empty(t, result.Conflicts)

	c, err := r.Commits.Get(result.CommitID)
	require.NoError(t, err)
	aBlob, err := r.Objects.Get(c.Tree["a.txt"])
	require.NoError(t, err)
	bBlob, err := r.Objects.Get(c.Tree["b.txt"])
	require.NoError(t, err)
	require.Equal(t, "2", string(aBlob))
	require.Equal(t, "2", string(bBlob))
}

func TestMergeThreeWayConflict(t *testing.T) {
	dir := t.TempDir()
	r := Open(dir)
	require.NoError(t, r.Init())

	writeFile(t, dir, "a.txt", "1")
	require.NoError(t, r.Stage("a.txt"))
	_, err := r.Commit("base")
	require.NoError(t, err)
	require.NoError(t, r.Branch("main"))
	require.NoError(t, r.Refs.WriteHeadAttached("main"))
	require.NoError(t, r.Branch("y"))

	writeFile(t, dir, "a.txt", "2")
	require.NoError(t, r.Stage("a.txt"))
	_, err = r.Commit("x changes a")
	require.NoError(t, err)

	require.NoError(t, r.Checkout("y"))
	writeFile(t, dir, "a.txt", "3")
	require.NoError(t, r.Stage("a.txt"))
	_, err = r.Commit("y changes a")
	require.NoError(t, err)

	require.NoError(t, r.Checkout("main"))
	result, err := r.MergeThreeWay("y")
	require.NoError(t, err)
	require.Len(t, result.Conflicts, 1)
	require.Equal(t, "a.txt", result.Conflicts[0].Path)

	c, err := r.Commits.Get(result.CommitID)
	require.NoError(t, err)
	aBlob, err := r.Objects.Get(c.Tree["a.txt"])
	require.NoError(t, err)
	require.Equal(t, "3", string(aBlob))
}

func TestLCAReportsCommonAncestor(t *testing.T) {
	dir := t.TempDir()
	r := Open(dir)
	require.NoError(t, r.Init())

	writeFile(t, dir, "a.txt", "1")
	require.NoError(t, r.Stage("a.txt"))
	rootID, err := r.Commit("root")
	require.NoError(t, err)
	require.NoError(t, r.Branch("main"))
	require.NoError(t, r.Refs.WriteHeadAttached("main"))
	require.NoError(t, r.Branch("other"))

	writeFile(t, dir, "a.txt", "2")
	require.NoError(t, r.Stage("a.txt"))
	_, err = r.Commit("main change")
	require.NoError(t, err)

	lca, ok, err := r.LCA("other")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, rootID, lca)
}
