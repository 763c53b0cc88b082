package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intake-toolkit/willdo/internal/copied"
	"github.com/intake-toolkit/willdo/internal/intake"
	"github.com/intake-toolkit/willdo/internal/session"
	"github.com/intake-toolkit/willdo/internal/vcs"
)

type fakeSession struct {
	cfg      session.Config
	snapshot *intake.ListSnapshot
	info     map[string]*copied.Info
	toggled  []intake.Item
	marked   []intake.Item
}

func (s *fakeSession) Config() session.Config            { return s.cfg }
func (s *fakeSession) Snapshot() *intake.ListSnapshot    { return s.snapshot }
func (s *fakeSession) ToggleClaim(item intake.Item)      { s.toggled = append(s.toggled, item) }
func (s *fakeSession) MarkSynchronized(item intake.Item) { s.marked = append(s.marked, item) }
func (s *fakeSession) ResolveMetadata(item intake.Item) *copied.Info {
	return s.info[item.Name]
}

type fakeUpstream struct {
	diffs    map[string]string
	diffErr  error
	log      []vcs.Revision
	show     string
	diffArgs [][3]string
	logArgs  [][3]string
}

func (u *fakeUpstream) Diff(from, to, path string) (string, error) {
	u.diffArgs = append(u.diffArgs, [3]string{from, to, path})
	if u.diffErr != nil {
		return "", u.diffErr
	}
	if out, ok := u.diffs[path]; ok {
		return out, nil
	}
	return vcs.NoChanges, nil
}

func (u *fakeUpstream) DiffCommand(from, to, path string) string {
	return "git diff " + from + ".." + to + " -- " + path
}

func (u *fakeUpstream) Log(from, to, path string) ([]vcs.Revision, error) {
	u.logArgs = append(u.logArgs, [3]string{from, to, path})
	return u.log, nil
}

func (u *fakeUpstream) Show(rev, path string) (string, error) {
	return u.show, nil
}

func newFixture() (*fakeSession, *fakeUpstream, *Dispatcher) {
	sess := &fakeSession{
		cfg: session.Config{
			Identity:    "alice",
			RepoRoot:    "/repo",
			UpstreamDir: "/repo/chromium/src",
			MergeTool:   "p4merge",
		},
		snapshot: &intake.ListSnapshot{BaseCommit: "base1"},
		info: map[string]*copied.Info{
			"src/a.cc": {CopiedFromPath: "chromium/src/ui/a.cc", LastSynchronized: "old0"},
		},
	}
	upstream := &fakeUpstream{}
	return sess, upstream, New(sess, upstream)
}

func TestUpstreamRelative(t *testing.T) {
	tests := []struct {
		name       string
		copiedFrom string
		want       string
	}{
		{"absolute path under upstream", "/repo/chromium/src/ui/a.cc", "ui/a.cc"},
		{"repo-root relative", "chromium/src/ui/a.cc", "ui/a.cc"},
		{"already upstream relative", "ui/a.cc", "ui/a.cc"},
		{"backslash separators", "chromium\\src\\ui\\a.cc", "ui/a.cc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := upstreamRelative(tt.copiedFrom, "/repo", "/repo/chromium/src")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiff_CapturesOutputPerItem(t *testing.T) {
	_, upstream, d := newFixture()
	upstream.diffs = map[string]string{"ui/a.cc": "diff --git a/x b/x\n..."}

	results := d.Diff([]intake.Item{{ID: 1, Name: "src/a.cc"}})
	require.Len(t, results, 1)
	assert.Equal(t, "diff --git a/x b/x\n...", results[0].Output)
	assert.Equal(t, "git diff old0..base1 -- ui/a.cc", results[0].Title)
	require.Len(t, upstream.diffArgs, 1)
	assert.Equal(t, [3]string{"old0", "base1", "ui/a.cc"}, upstream.diffArgs[0])
}

func TestDiff_NoChanges(t *testing.T) {
	_, _, d := newFixture()
	results := d.Diff([]intake.Item{{ID: 1, Name: "src/a.cc"}})
	require.Len(t, results, 1)
	assert.Equal(t, vcs.NoChanges, results[0].Output)
}

func TestDiff_SkipsItemsWithoutMetadata(t *testing.T) {
	_, upstream, d := newFixture()
	results := d.Diff([]intake.Item{
		{ID: 2, Name: "src/unknown.cc"}, // no metadata: silent no-op
		{ID: 1, Name: "src/a.cc"},
	})
	require.Len(t, results, 1)
	require.Len(t, upstream.diffArgs, 1)
}

func TestDiff_NilSnapshot(t *testing.T) {
	sess, _, d := newFixture()
	sess.snapshot = nil
	assert.Nil(t, d.Diff([]intake.Item{{ID: 1, Name: "src/a.cc"}}))
}

func TestHistory_UsesRevisionRange(t *testing.T) {
	_, upstream, d := newFixture()
	upstream.log = []vcs.Revision{{Hash: "aaaa", Subject: "Fix"}}

	revs, err := d.History(intake.Item{ID: 1, Name: "src/a.cc"})
	require.NoError(t, err)
	require.Len(t, revs, 1)
	require.Len(t, upstream.logArgs, 1)
	assert.Equal(t, [3]string{"old0", "base1", "ui/a.cc"}, upstream.logArgs[0])
}

func TestHistory_NoMetadataIsSilentNoop(t *testing.T) {
	_, _, d := newFixture()
	revs, err := d.History(intake.Item{ID: 2, Name: "src/unknown.cc"})
	require.NoError(t, err)
	assert.Nil(t, revs)
}

func TestToggleClaimAndMark_ForwardEverySelectedItem(t *testing.T) {
	sess, _, d := newFixture()
	items := []intake.Item{{ID: 1, Name: "src/a.cc"}, {ID: 2, Name: "src/unknown.cc"}}

	d.ToggleClaim(items)
	d.MarkSynchronized(items)

	// Claim and marker updates do not require metadata.
	assert.Len(t, sess.toggled, 2)
	assert.Len(t, sess.marked, 2)
}

func TestCompareCmds_ResolvesRelativeUpstreamDir(t *testing.T) {
	sess, _, d := newFixture()
	sess.cfg.UpstreamDir = "chromium/src"

	cmds := d.compareCmds([]intake.Item{{ID: 1, Name: "src/a.cc"}})
	require.Len(t, cmds, 1)
	assert.Equal(t,
		[]string{"git", "-C", "/repo/chromium/src", "difftool", "-y", "old0..base1", "--", "ui/a.cc"},
		cmds[0].Args)
	assert.Equal(t, "/repo", cmds[0].Dir)
}

func TestCompareCmds_AbsoluteUpstreamDirKept(t *testing.T) {
	_, _, d := newFixture()

	cmds := d.compareCmds([]intake.Item{{ID: 1, Name: "src/a.cc"}})
	require.Len(t, cmds, 1)
	assert.Equal(t, "/repo/chromium/src", cmds[0].Args[2])
}

func TestCompareCmds_SkipsWithoutSnapshotOrMetadata(t *testing.T) {
	sess, _, d := newFixture()

	assert.Empty(t, d.compareCmds([]intake.Item{{ID: 2, Name: "src/unknown.cc"}}))

	sess.snapshot = nil
	assert.Empty(t, d.compareCmds([]intake.Item{{ID: 1, Name: "src/a.cc"}}))
}

func TestOpenCmd_PointsAtLocalFile(t *testing.T) {
	_, _, d := newFixture()
	cmd := d.OpenCmd(intake.Item{Name: "src/a.cc"})
	require.NotNil(t, cmd)
	assert.Contains(t, cmd.Args[len(cmd.Args)-1], "src/a.cc")
	assert.Equal(t, "/repo", cmd.Dir)
}

func TestOpenUpstreamCmd_NilWithoutMetadata(t *testing.T) {
	_, _, d := newFixture()
	assert.Nil(t, d.OpenUpstreamCmd(intake.Item{Name: "src/unknown.cc"}))

	cmd := d.OpenUpstreamCmd(intake.Item{Name: "src/a.cc"})
	require.NotNil(t, cmd)
	assert.Contains(t, cmd.Args[len(cmd.Args)-1], "ui/a.cc")
}
