// Package vcs wraps the git invocations willdo needs: upstream diffs, the
// revision history of a tracked origin path, and per-revision patches.
package vcs

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// NoChanges is what a diff resolves to when git reports no differences (or
// fails in a way indistinguishable from that).
const NoChanges = "No changes"

// Revision is one entry of an upstream path's history.
type Revision struct {
	Hash    string
	Date    string
	Author  string
	Subject string
}

// runner executes git in a directory and returns stdout, the exit code, and
// any error that prevented the process from running at all.
type runner func(dir string, args ...string) (string, int, error)

// Git runs commands against one working tree.
type Git struct {
	dir string
	run runner
}

// New returns a Git bound to the given working tree.
func New(dir string) *Git {
	return &Git{dir: dir, run: runGit}
}

func runGit(dir string, args ...string) (string, int, error) {
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), exitErr.ExitCode(), nil
		}
		return "", -1, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return string(out), 0, nil
}

// Diff returns the upstream changes to path between two revisions. git is
// invoked with --exit-code, where status 1 means differences were found;
// every other status, including 0, reads as no changes.
func (g *Git) Diff(from, to, path string) (string, error) {
	out, code, err := g.run(g.dir, "diff", from+".."+to, "--exit-code", "--", path)
	if err != nil {
		return "", err
	}
	if code != 1 {
		return NoChanges, nil
	}
	return out, nil
}

// DiffCommand renders the invocation Diff performs, for display as a title.
func (g *Git) DiffCommand(from, to, path string) string {
	return fmt.Sprintf("git diff %s..%s -- %s", from, to, path)
}

const logFormat = "%H%x09%ad%x09%an%x09%s"

// Log lists the revisions that touched path between two revisions, newest
// first.
func (g *Git) Log(from, to, path string) ([]Revision, error) {
	out, code, err := g.run(g.dir, "log", "--format="+logFormat, "--date=short", from+".."+to, "--", path)
	if err != nil {
		return nil, err
	}
	if code != 0 {
		return nil, fmt.Errorf("git log exited with status %d", code)
	}
	return parseLog(out), nil
}

// Show returns the patch a single revision applied to path.
func (g *Git) Show(rev, path string) (string, error) {
	out, code, err := g.run(g.dir, "show", rev, "--", path)
	if err != nil {
		return "", err
	}
	if code != 0 {
		return "", fmt.Errorf("git show exited with status %d", code)
	}
	return out, nil
}

func parseLog(raw string) []Revision {
	var revs []Revision
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 4)
		if len(fields) < 4 {
			continue
		}
		revs = append(revs, Revision{
			Hash:    fields[0],
			Date:    fields[1],
			Author:  fields[2],
			Subject: fields[3],
		})
	}
	return revs
}

// RepoRoot resolves the top-level directory of the repository containing dir.
func RepoRoot(dir string) (string, error) {
	out, code, err := runGit(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	if code != 0 {
		return "", fmt.Errorf("%s is not inside a git repository", dir)
	}
	return strings.TrimSpace(out), nil
}
