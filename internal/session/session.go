// Package session holds the single piece of process-wide mutable state: the
// current subscriber, list snapshot, metadata cache and active polling task.
// All mutation goes through Session's methods, which are safe to call from
// any worker goroutine.
package session

import (
	"context"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/intake-toolkit/willdo/internal/copied"
	"github.com/intake-toolkit/willdo/internal/intake"
	"github.com/intake-toolkit/willdo/internal/poll"
	"github.com/intake-toolkit/willdo/internal/scanner"
)

// DefaultPollInterval matches the list refresh cadence of the remote service.
const DefaultPollInterval = 15 * time.Second

// Config is captured at subscription time and immutable until the next
// subscription.
type Config struct {
	Identity     string
	RepoRoot     string
	MergeTool    string
	UpstreamDir  string // upstream working tree; relative values join RepoRoot, empty means RepoRoot
	PollInterval time.Duration
}

// Consumer receives session events. Implementations must not block: events
// arrive from background workers, and a slow consumer would stall polling.
type Consumer interface {
	ListUpdated(snapshot *intake.ListSnapshot)
	MetadataUpdated(meta map[string]copied.Info)
	ErrorOccurred(message string)

	// Alive reports whether the consumer can still receive events. The
	// polling loop probes it before each cycle so a view torn down without
	// unsubscribing stops the loop on its own.
	Alive() bool
}

// Status classifies a tracked path against the snapshot's upstream marker.
type Status int

const (
	// StatusInvalid means the path has no resolvable metadata (missing on
	// disk, unreadable, or no markers).
	StatusInvalid Status = iota
	// StatusUnprocessed means the path's last-synchronized marker trails the
	// snapshot's base commit.
	StatusUnprocessed
	// StatusProcessed means the path is reconciled with the base commit.
	StatusProcessed
)

func (s Status) String() string {
	switch s {
	case StatusProcessed:
		return "processed"
	case StatusUnprocessed:
		return "unprocessed"
	default:
		return "invalid"
	}
}

// Session mediates all access to the shared synchronization state.
type Session struct {
	ctx      context.Context
	fetcher  intake.Fetcher
	resolver copied.Resolver

	mu         sync.RWMutex
	subscribed bool
	cfg        Config
	consumer   Consumer
	snapshot   *intake.ListSnapshot
	metadata   map[string]copied.Info
	scanGen    uint64
	task       *poll.Task
}

// New builds a Session. ctx bounds the lifetime of every background worker
// the session starts; it is normally the process context.
func New(ctx context.Context, fetcher intake.Fetcher, resolver copied.Resolver) *Session {
	return &Session{
		ctx:      ctx,
		fetcher:  fetcher,
		resolver: resolver,
		metadata: map[string]copied.Info{},
	}
}

// Subscribe attaches the consumer, captures cfg, and starts the repeating
// poll. Subscribing while already subscribed is a no-op: the running loop is
// kept, never doubled.
func (s *Session) Subscribe(cfg Config, consumer Consumer) {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	switch {
	case cfg.UpstreamDir == "":
		cfg.UpstreamDir = cfg.RepoRoot
	case !filepath.IsAbs(cfg.UpstreamDir):
		// A repo-relative upstream dir must not resolve against the process
		// CWD when it ends up in a git -C invocation.
		cfg.UpstreamDir = filepath.Join(cfg.RepoRoot, filepath.FromSlash(cfg.UpstreamDir))
	}

	s.mu.Lock()
	if s.subscribed {
		s.mu.Unlock()
		return
	}
	s.subscribed = true
	s.cfg = cfg
	s.consumer = consumer
	s.mu.Unlock()

	s.startRepeating(cfg.PollInterval)
}

// Unsubscribe detaches the consumer and synchronously stops the repeating
// loop: once it returns, no event reaches the detached consumer. A fetch in
// flight at that moment finishes, but its result is dropped.
func (s *Session) Unsubscribe() {
	s.mu.Lock()
	task := s.task
	s.task = nil
	s.subscribed = false
	s.consumer = nil
	s.snapshot = nil
	s.metadata = map[string]copied.Info{}
	s.mu.Unlock()

	task.Stop()
}

// startRepeating replaces the active repeating task. The previous task, if
// any, is fully stopped before the new one begins.
func (s *Session) startRepeating(interval time.Duration) {
	s.mu.Lock()
	old := s.task
	s.task = nil
	s.mu.Unlock()
	old.Stop()

	task := poll.Repeat(s.ctx, interval, s.alive, s.refreshCycle)

	s.mu.Lock()
	s.task = task
	s.mu.Unlock()
}

// Refresh performs a one-shot fetch-and-apply, independent of the repeating
// loop's cancellation.
func (s *Session) Refresh() {
	poll.Once(s.ctx, s.refreshCycle)
}

func (s *Session) refreshCycle(ctx context.Context) error {
	snapshot, err := s.fetcher.FetchLatest(ctx)
	s.ApplyListSnapshot(snapshot, err)
	return err
}

// ApplyListSnapshot merges one fetch result. Errors are forwarded as a
// display event and leave every piece of cached state untouched. A new
// snapshot replaces the old one wholesale, notifies the consumer right away,
// and kicks off a background metadata scan over the snapshot's path set;
// until that scan lands, consumers see the previous metadata.
func (s *Session) ApplyListSnapshot(snapshot *intake.ListSnapshot, err error) {
	if err != nil {
		s.emitError(err.Error())
		return
	}

	s.mu.Lock()
	if !s.subscribed {
		s.mu.Unlock()
		return
	}
	s.snapshot = snapshot
	s.scanGen++
	gen := s.scanGen
	repoRoot := s.cfg.RepoRoot
	s.mu.Unlock()

	s.deliver(func(c Consumer) { c.ListUpdated(snapshot) })

	paths := snapshot.Paths()
	go func() {
		meta := scanner.Scan(s.ctx, s.resolver, repoRoot, paths)
		s.ApplyMetadataSnapshot(gen, meta)
	}()
}

// ApplyMetadataSnapshot replaces the metadata cache wholesale and notifies
// the consumer. Results from a scan older than the current snapshot's
// generation are discarded, so a slow scan can never clobber metadata derived
// from a newer snapshot.
func (s *Session) ApplyMetadataSnapshot(gen uint64, meta map[string]copied.Info) {
	s.mu.Lock()
	if !s.subscribed || gen != s.scanGen {
		s.mu.Unlock()
		return
	}
	s.metadata = meta
	s.mu.Unlock()

	s.deliver(func(c Consumer) { c.MetadataUpdated(meta) })
}

// Rescan recomputes metadata for the current snapshot's path set without
// fetching. Used when tracked files change on disk.
func (s *Session) Rescan() {
	s.mu.RLock()
	snapshot := s.snapshot
	gen := s.scanGen
	repoRoot := s.cfg.RepoRoot
	subscribed := s.subscribed
	s.mu.RUnlock()
	if !subscribed || snapshot == nil {
		return
	}

	paths := snapshot.Paths()
	go func() {
		meta := scanner.Scan(s.ctx, s.resolver, repoRoot, paths)
		s.ApplyMetadataSnapshot(gen, meta)
	}()
}

// Classify maps an item to processed, unprocessed or invalid using the
// cached metadata and the current snapshot's base commit. Total over any
// cache state, including the window before the first scan completes.
func (s *Session) Classify(item intake.Item) Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.metadata[item.Name]
	if !ok {
		return StatusInvalid
	}
	if s.snapshot != nil && info.LastSynchronized == s.snapshot.BaseCommit {
		return StatusProcessed
	}
	return StatusUnprocessed
}

// ToggleClaim flips the subscriber's identity in the item's claim list and
// sends the result to the remote. The local snapshot is never mutated
// optimistically; a one-shot re-fetch after the remote acknowledges brings
// back server truth.
func (s *Session) ToggleClaim(item intake.Item) {
	s.mu.RLock()
	identity := s.cfg.Identity
	subscribed := s.subscribed
	s.mu.RUnlock()
	if !subscribed {
		return
	}

	next := intake.ToggleClaim(item.ClaimedBy, identity)
	poll.Once(s.ctx, func(ctx context.Context) error {
		if err := s.fetcher.UpdateClaim(ctx, item.ID, next); err != nil {
			s.emitError(err.Error())
			return err
		}
		return s.refreshCycle(ctx)
	})
}

// MarkSynchronized stamps the item's on-disk marker with the current base
// commit, then triggers a one-shot list refresh. The metadata cache is not
// touched directly; the refresh re-derives classification.
func (s *Session) MarkSynchronized(item intake.Item) {
	s.mu.RLock()
	subscribed := s.subscribed
	repoRoot := s.cfg.RepoRoot
	var base string
	if s.snapshot != nil {
		base = s.snapshot.BaseCommit
	}
	s.mu.RUnlock()
	if !subscribed || base == "" {
		return
	}

	abs := filepath.Join(repoRoot, filepath.FromSlash(item.Name))
	poll.Once(s.ctx, func(ctx context.Context) error {
		if err := s.resolver.SetLastSynchronized(abs, base); err != nil {
			log.Printf("mark synchronized %s: %v", item.Name, err)
			return err
		}
		return s.refreshCycle(ctx)
	})
}

// ResolveMetadata reads the item's copied-file metadata fresh from disk, the
// way actions want it at dispatch time. Returns nil when unavailable.
func (s *Session) ResolveMetadata(item intake.Item) *copied.Info {
	s.mu.RLock()
	repoRoot := s.cfg.RepoRoot
	s.mu.RUnlock()

	abs := filepath.Join(repoRoot, filepath.FromSlash(item.Name))
	info, err := s.resolver.Resolve(abs, repoRoot)
	if err != nil {
		return nil
	}
	return info
}

// Snapshot returns the current list snapshot, or nil before the first
// successful fetch. Snapshots are immutable once published.
func (s *Session) Snapshot() *intake.ListSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Metadata returns a copy of the current metadata cache.
func (s *Session) Metadata() map[string]copied.Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]copied.Info, len(s.metadata))
	for k, v := range s.metadata {
		out[k] = v
	}
	return out
}

// Config returns the configuration captured at subscription time.
func (s *Session) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// scanGeneration reports the generation the next metadata scan result must
// carry to be applied.
func (s *Session) scanGeneration() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scanGen
}

func (s *Session) alive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subscribed && s.consumer != nil && s.consumer.Alive()
}

func (s *Session) emitError(message string) {
	s.deliver(func(c Consumer) { c.ErrorOccurred(message) })
}

// deliver invokes fn on the consumer while holding the read lock. Unsubscribe
// takes the write lock, so once it returns no delivery is in flight and none
// can start. Consumer callbacks must not call back into the session.
func (s *Session) deliver(fn func(Consumer)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.subscribed && s.consumer != nil {
		fn(s.consumer)
	}
}
