// Package vcserr defines the error taxonomy shared by every core package.
//
// Callers compare against these sentinels with errors.Is; package code
// wraps them with github.com/pkg/errors.Wrap to attach the failing path
// or id before returning them.
package vcserr

import "errors"

var (
	// ErrNotARepository means .minigit is missing where one was required.
	ErrNotARepository = errors.New("not a minigit repository")
	// ErrFileMissing means a working-directory file was not found on stage.
	ErrFileMissing = errors.New("file missing from working directory")
	// ErrNothingStaged means commit was attempted with an empty index.
	ErrNothingStaged = errors.New("nothing staged")
	// ErrUnknownTarget means a checkout designator resolved to neither a ref nor a commit.
	ErrUnknownTarget = errors.New("unknown checkout target")
	// ErrRefMissing means a merge/lca was requested against a nonexistent ref.
	ErrRefMissing = errors.New("ref does not exist")
	// ErrNoCommonAncestor means a three-way merge found no lowest common ancestor.
	ErrNoCommonAncestor = errors.New("no common ancestor")
	// ErrObjectMissing means a referenced blob or commit id is not present.
	ErrObjectMissing = errors.New("object missing")
	// ErrMalformedRecord means a commit envelope failed to parse.
	ErrMalformedRecord = errors.New("malformed commit record")
	// ErrIOFailure tags an underlying storage error that isn't one of the
	// more specific kinds above (disk full, permission denied, ...).
	ErrIOFailure = errors.New("storage I/O failure")
)
