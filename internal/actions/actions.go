// Package actions maps selected intake items to the operations a user can
// perform on them: claiming, merging, diffing against upstream, stamping the
// sync marker, opening, comparing, and browsing upstream history.
package actions

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/intake-toolkit/willdo/internal/copied"
	"github.com/intake-toolkit/willdo/internal/intake"
	"github.com/intake-toolkit/willdo/internal/session"
	"github.com/intake-toolkit/willdo/internal/vcs"
)

// Session is the slice of the synchronizer the dispatcher needs.
type Session interface {
	Config() session.Config
	Snapshot() *intake.ListSnapshot
	ResolveMetadata(item intake.Item) *copied.Info
	ToggleClaim(item intake.Item)
	MarkSynchronized(item intake.Item)
}

// Upstream is the slice of the upstream git tree the dispatcher needs.
type Upstream interface {
	Diff(from, to, path string) (string, error)
	DiffCommand(from, to, path string) string
	Log(from, to, path string) ([]vcs.Revision, error)
	Show(rev, path string) (string, error)
}

// Dispatcher resolves selections to per-item metadata and runs actions.
// Actions that need upstream correlation silently skip items without
// resolvable metadata.
type Dispatcher struct {
	session  Session
	upstream Upstream
}

// New builds a Dispatcher.
func New(sess Session, upstream Upstream) *Dispatcher {
	return &Dispatcher{session: sess, upstream: upstream}
}

// DiffResult is one blocking diff capture, titled by its invocation.
type DiffResult struct {
	Title  string
	Output string
}

// ToggleClaim flips the subscriber's claim on every selected item.
func (d *Dispatcher) ToggleClaim(items []intake.Item) {
	for _, item := range items {
		d.session.ToggleClaim(item)
	}
}

// MarkSynchronized stamps every selected item's marker with the current base
// commit.
func (d *Dispatcher) MarkSynchronized(items []intake.Item) {
	for _, item := range items {
		d.session.MarkSynchronized(item)
	}
}

// Diff captures the upstream changes for every selected item that has
// metadata. Blocking; run it off the consumer context.
func (d *Dispatcher) Diff(items []intake.Item) []DiffResult {
	snapshot := d.session.Snapshot()
	if snapshot == nil {
		return nil
	}
	cfg := d.session.Config()

	var results []DiffResult
	for _, item := range items {
		info := d.session.ResolveMetadata(item)
		if info == nil {
			continue
		}
		rel := upstreamRelative(info.CopiedFromPath, cfg.RepoRoot, cfg.UpstreamDir)
		out, err := d.upstream.Diff(info.LastSynchronized, snapshot.BaseCommit, rel)
		if err != nil {
			out = err.Error()
		}
		results = append(results, DiffResult{
			Title:  d.upstream.DiffCommand(info.LastSynchronized, snapshot.BaseCommit, rel),
			Output: out,
		})
	}
	return results
}

// History lists the upstream revisions that touched the item's origin path
// since it was last synchronized. Returns nil without metadata.
func (d *Dispatcher) History(item intake.Item) ([]vcs.Revision, error) {
	snapshot := d.session.Snapshot()
	info := d.session.ResolveMetadata(item)
	if snapshot == nil || info == nil {
		return nil, nil
	}
	cfg := d.session.Config()
	rel := upstreamRelative(info.CopiedFromPath, cfg.RepoRoot, cfg.UpstreamDir)
	return d.upstream.Log(info.LastSynchronized, snapshot.BaseCommit, rel)
}

// ShowRevision captures the patch one revision applied to the item's origin
// path.
func (d *Dispatcher) ShowRevision(rev vcs.Revision, item intake.Item) (string, error) {
	info := d.session.ResolveMetadata(item)
	if info == nil {
		return "", nil
	}
	cfg := d.session.Config()
	rel := upstreamRelative(info.CopiedFromPath, cfg.RepoRoot, cfg.UpstreamDir)
	return d.upstream.Show(rev.Hash, rel)
}

// Merge launches the configured merge tool on every selected item that has
// metadata, as `<tool> <local> <upstream>`. Fire-and-forget.
func (d *Dispatcher) Merge(items []intake.Item) {
	cfg := d.session.Config()
	if cfg.MergeTool == "" {
		return
	}
	for _, item := range items {
		info := d.session.ResolveMetadata(item)
		if info == nil {
			continue
		}
		local := filepath.Join(cfg.RepoRoot, filepath.FromSlash(item.Name))
		rel := upstreamRelative(info.CopiedFromPath, cfg.RepoRoot, cfg.UpstreamDir)
		upstream := filepath.Join(cfg.UpstreamDir, filepath.FromSlash(rel))

		cmd := exec.Command(cfg.MergeTool, local, upstream)
		cmd.Dir = cfg.RepoRoot
		if err := cmd.Start(); err != nil {
			log.Printf("merge %s: %v", item.Name, err)
			continue
		}
		go func() { _ = cmd.Wait() }()
	}
}

// Compare launches git difftool on every selected item that has metadata,
// over the same revision range Diff uses. Fire-and-forget.
func (d *Dispatcher) Compare(items []intake.Item) {
	for _, cmd := range d.compareCmds(items) {
		if err := cmd.Start(); err != nil {
			log.Printf("compare %s: %v", cmd.Args, err)
			continue
		}
		go func() { _ = cmd.Wait() }()
	}
}

// compareCmds builds the difftool invocations. The -C target is the resolved
// absolute upstream dir, so a repo-relative upstream_dir cannot be
// reinterpreted against the process CWD.
func (d *Dispatcher) compareCmds(items []intake.Item) []*exec.Cmd {
	snapshot := d.session.Snapshot()
	if snapshot == nil {
		return nil
	}
	cfg := d.session.Config()
	var cmds []*exec.Cmd
	for _, item := range items {
		info := d.session.ResolveMetadata(item)
		if info == nil {
			continue
		}
		rel := upstreamRelative(info.CopiedFromPath, cfg.RepoRoot, cfg.UpstreamDir)
		spec := fmt.Sprintf("%s..%s", info.LastSynchronized, snapshot.BaseCommit)

		cmd := exec.Command("git", "-C", upstreamWorkdir(cfg), "difftool", "-y", spec, "--", rel)
		cmd.Dir = cfg.RepoRoot
		cmds = append(cmds, cmd)
	}
	return cmds
}

// OpenCmd returns the editor invocation for the item's local file. The UI
// runs it in the foreground.
func (d *Dispatcher) OpenCmd(item intake.Item) *exec.Cmd {
	cfg := d.session.Config()
	local := filepath.Join(cfg.RepoRoot, filepath.FromSlash(item.Name))
	cmd := exec.Command(editor(), local)
	cmd.Dir = cfg.RepoRoot
	return cmd
}

// OpenUpstreamCmd returns the editor invocation for the item's upstream
// origin, or nil when the item has no resolvable metadata.
func (d *Dispatcher) OpenUpstreamCmd(item intake.Item) *exec.Cmd {
	info := d.session.ResolveMetadata(item)
	if info == nil {
		return nil
	}
	cfg := d.session.Config()
	rel := upstreamRelative(info.CopiedFromPath, cfg.RepoRoot, cfg.UpstreamDir)
	cmd := exec.Command(editor(), filepath.Join(cfg.UpstreamDir, filepath.FromSlash(rel)))
	cmd.Dir = cfg.RepoRoot
	return cmd
}

// upstreamWorkdir returns the absolute upstream working tree directory,
// joining a relative configured value against the repo root.
func upstreamWorkdir(cfg session.Config) string {
	dir := cfg.UpstreamDir
	if dir == "" {
		return cfg.RepoRoot
	}
	if !filepath.IsAbs(dir) {
		return filepath.Join(cfg.RepoRoot, filepath.FromSlash(dir))
	}
	return dir
}

func editor() string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	return "vi"
}

// upstreamRelative reduces a copied-from path to a path relative to the
// upstream working tree. The marker may be absolute, repo-root-relative, or
// already upstream-relative depending on who stamped it.
func upstreamRelative(copiedFrom, repoRoot, upstreamDir string) string {
	p := copied.NormalizePath(copiedFrom)
	root := copied.NormalizePath(repoRoot)
	up := copied.NormalizePath(upstreamDir)

	if root != "" {
		p = strings.TrimPrefix(p, root+"/")
	}
	if up != "" {
		if rel := strings.TrimPrefix(p, up+"/"); rel != p {
			return rel
		}
		if root != "" {
			if upRel := strings.TrimPrefix(up, root+"/"); upRel != up {
				if rel := strings.TrimPrefix(p, upRel+"/"); rel != p {
					return rel
				}
			}
		}
	}
	return p
}
