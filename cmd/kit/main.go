package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/systemshift/minigit/pkg/commit"
	"github.com/systemshift/minigit/pkg/diffengine"
	"github.com/systemshift/minigit/pkg/repo"
)

const (
	// Version of the minigit tool.
	Version = "0.1.0"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "minigit v%s: a miniature content-addressed version control system\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: minigit <command> [arguments]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  init                    Initialize a new repository\n")
		fmt.Fprintf(os.Stderr, "  stage <file>...         Add file contents to the staging area\n")
		fmt.Fprintf(os.Stderr, "  commit -m <message>     Record staged changes\n")
		fmt.Fprintf(os.Stderr, "  branch <name>           Create a branch pointing at HEAD\n")
		fmt.Fprintf(os.Stderr, "  checkout <target>       Switch to a branch or commit\n")
		fmt.Fprintf(os.Stderr, "  log                     Show commit history from HEAD\n")
		fmt.Fprintf(os.Stderr, "  diff <a> <b>            Show per-file line diffs between two commits\n")
		fmt.Fprintf(os.Stderr, "  merge_simple <branch>   Overlay merge another branch into HEAD\n")
		fmt.Fprintf(os.Stderr, "  merge_3way <branch>     Three-way merge another branch into HEAD\n")
		fmt.Fprintf(os.Stderr, "  lca <branch>            Report the lowest common ancestor with a branch\n")
		fmt.Fprintf(os.Stderr, "  status                  Show HEAD and staged paths\n")
		fmt.Fprintf(os.Stderr, "\n")
	}

	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	cwd, err := os.Getwd()
	if err != nil {
		fail("getting current working directory: %v", err)
	}

	switch cmd := flag.Arg(0); cmd {
	case "init":
		initCmd(cwd)
	case "stage":
		if flag.NArg() < 2 {
			fail("'stage' requires at least one file argument")
		}
		stageCmd(cwd, flag.Args()[1:])
	case "commit":
		fs := flag.NewFlagSet("commit", flag.ExitOnError)
		message := fs.String("m", "", "commit message")
		mustParse(fs, flag.Args()[1:])
		if *message == "" {
			fail("commit message is required (use -m \"message\")")
		}
		commitCmd(cwd, *message)
	case "branch":
		if flag.NArg() < 2 {
			fail("'branch' requires a name")
		}
		branchCmd(cwd, flag.Arg(1))
	case "checkout":
		if flag.NArg() < 2 {
			fail("'checkout' requires a ref name or commit id")
		}
		checkoutCmd(cwd, flag.Arg(1))
	case "log":
		logCmd(cwd)
	case "diff":
		if flag.NArg() != 3 {
			fail("'diff' requires exactly two commit ids")
		}
		diffCmd(cwd, flag.Arg(1), flag.Arg(2))
	case "merge_simple":
		if flag.NArg() < 2 {
			fail("'merge_simple' requires a branch name")
		}
		mergeSimpleCmd(cwd, flag.Arg(1))
	case "merge_3way":
		if flag.NArg() < 2 {
			fail("'merge_3way' requires a branch name")
		}
		mergeThreeWayCmd(cwd, flag.Arg(1))
	case "lca":
		if flag.NArg() < 2 {
			fail("'lca' requires a branch name")
		}
		lcaCmd(cwd, flag.Arg(1))
	case "status":
		statusCmd(cwd)
	case "help":
		flag.Usage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", cmd)
		flag.Usage()
		os.Exit(1)
	}
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func mustParse(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		fail("parsing %s arguments: %v", fs.Name(), err)
	}
}

func requireRepo(path string) *repo.Repository {
	if !repo.IsRepository(path) {
		fail("not a minigit repository")
	}
	return repo.Open(path)
}

func initCmd(path string) {
	r := repo.Open(path)
	if err := r.Init(); err != nil {
		fail("initializing repository: %v", err)
	}
	fmt.Printf("Initialized empty minigit repository in %s\n", path)
}

func stageCmd(path string, files []string) {
	r := requireRepo(path)
	for _, f := range files {
		if err := r.Stage(f); err != nil {
			fail("staging %s: %v", f, err)
		}
		fmt.Printf("staged %s\n", f)
	}
}

func commitCmd(path, message string) {
	r := requireRepo(path)
	id, err := r.Commit(message)
	if err != nil {
		fail("committing: %v", err)
	}
	fmt.Printf("[%s] %s\n", repo.Abbreviate(id), message)
}

func branchCmd(path, name string) {
	r := requireRepo(path)
	if err := r.Branch(name); err != nil {
		fail("creating branch %s: %v", name, err)
	}
	fmt.Printf("created branch %s\n", name)
}

func checkoutCmd(path, target string) {
	r := requireRepo(path)
	if err := r.Checkout(target); err != nil {
		fail("checking out %s: %v", target, err)
	}
	fmt.Printf("switched to %s\n", target)
}

func logCmd(path string) {
	r := requireRepo(path)
	entries, err := r.Log()
	if err != nil {
		fail("reading log: %v", err)
	}
	if len(entries) == 0 {
		fmt.Println("no commits yet")
		return
	}
	for _, e := range entries {
		printLogEntry(e)
	}
}

// printLogEntry renders a commit's exact YYYY-MM-DD HH:MM:SS timestamp
// plus a relative-time annotation layered on top via go-humanize, never
// replacing the exact field.
func printLogEntry(e repo.LogEntry) {
	relative := ""
	if ts, err := time.Parse(commit.TimeFormat, e.Commit.Timestamp); err == nil {
		relative = fmt.Sprintf(" (%s)", humanize.Time(ts))
	}
	fmt.Printf("commit %s\n", e.ID)
	fmt.Printf("Date:   %s%s\n", e.Commit.Timestamp, relative)
	fmt.Printf("\n    %s\n\n", e.Commit.Message)
}

func diffCmd(path, a, b string) {
	r := requireRepo(path)
	commitA, err := r.Commits.Get(a)
	if err != nil {
		fail("reading commit %s: %v", a, err)
	}
	commitB, err := r.Commits.Get(b)
	if err != nil {
		fail("reading commit %s: %v", b, err)
	}

	diffs, err := diffengine.Diff(r.Objects, commitA.Tree, commitB.Tree)
	if err != nil {
		fail("diffing %s..%s: %v", a, b, err)
	}
	output := diffengine.Format(diffs)
	if output == "" {
		fmt.Println("no differences")
		return
	}
	fmt.Print(output)
}

func mergeSimpleCmd(path, branch string) {
	r := requireRepo(path)
	id, err := r.MergeSimple(branch)
	if err != nil {
		fail("merging %s: %v", branch, err)
	}
	fmt.Printf("merge commit [%s]\n", repo.Abbreviate(id))
}

func mergeThreeWayCmd(path, branch string) {
	r := requireRepo(path)
	result, err := r.MergeThreeWay(branch)
	if err != nil {
		fail("merging %s: %v", branch, err)
	}
	fmt.Printf("merge commit [%s]\n", repo.Abbreviate(result.CommitID))
	if len(result.Conflicts) == 0 {
		fmt.Println("no conflicts")
		return
	}
	fmt.Printf("%d conflict(s):\n", len(result.Conflicts))
	for _, c := range result.Conflicts {
		fmt.Printf("  %s (base=%s, ours=%s, theirs=%s)\n", c.Path, c.Base, c.Head, c.Other)
	}
}

func lcaCmd(path, branch string) {
	r := requireRepo(path)
	id, ok, err := r.LCA(branch)
	if err != nil {
		fail("finding common ancestor with %s: %v", branch, err)
	}
	if !ok {
		fmt.Println("no common ancestor")
		return
	}
	fmt.Printf("%s\n", repo.Abbreviate(id))
}

func statusCmd(path string) {
	r := requireRepo(path)
	st, err := r.Status()
	if err != nil {
		fail("reading status: %v", err)
	}

	switch {
	case st.Branch != "":
		fmt.Printf("On branch %s\n", st.Branch)
	default:
		fmt.Println("HEAD detached")
	}

	if len(st.Staged) == 0 {
		fmt.Println("nothing staged")
		return
	}
	fmt.Println("staged paths:")
	for _, p := range st.Staged {
		fmt.Printf("  %s\n", p)
	}
}
