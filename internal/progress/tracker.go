package progress

import (
	"context"
	"encoding/json"
	"io"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	// StorageKey is the local state slot holding the completed set as a JSON
	// array of entry identifiers.
	StorageKey = "wellsync_completed"
	// DayKey holds the calendar day the completed set belongs to.
	DayKey = "wellsync_completed_day"
)

// DayOf formats the local calendar day of t as stored under DayKey.
func DayOf(t time.Time) string {
	return t.Format(time.DateOnly)
}

// LocalStore is a string-keyed persistent slot store.
type LocalStore interface {
	GetState(key string) (string, error)
	SetState(key, value string) error
}

// RemoteStore mirrors the completed set for a user on the server.
type RemoteStore interface {
	GetProgress(ctx context.Context, userID string) ([]string, error)
	SyncProgress(ctx context.Context, userID string, tasks []string) error
}

// Tracker owns the completed set for the current day. Every mutation is
// written through to the local store and pushed to the remote store in the
// background. Remote state is merged by union, so it can only add members.
//
// The set is scoped to a calendar day. The first access on a later day
// starts from an empty set and pushes it to the remote store.
//
// Storage failures never reach the caller; they are logged and the tracker
// keeps working from memory.
type Tracker struct {
	local  LocalStore
	remote RemoteStore
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	now       func() time.Time
	set       Set
	day       string
	userID    string
	goal      Set
	closed    bool
	onAllDone func()
	onChange  func(Set)

	// One push worker at a time; it always sends the newest queued set.
	pending    []string
	pendingFor string
	hasPending bool
	pushing    bool
}

// NewTracker creates a tracker. remote may be nil for offline use.
func NewTracker(local LocalStore, remote RemoteStore, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Tracker{
		local:  local,
		remote: remote,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		now:    time.Now,
		set:    NewSet(),
		goal:   NewSet(),
	}
}

// SetClock replaces the clock used to decide which day the set belongs to.
func (t *Tracker) SetClock(now func() time.Time) {
	t.mu.Lock()
	t.now = now
	t.mu.Unlock()
}

// SetGoal sets the entries that make up a full day. OnAllDone fires when
// an addition completes the last of them. Members outside the goal, such
// as entries of an earlier plan, do not count.
func (t *Tracker) SetGoal(ids []string) {
	t.mu.Lock()
	t.goal = NewSet(ids...)
	t.mu.Unlock()
}

func (t *Tracker) OnAllDone(fn func()) {
	t.mu.Lock()
	t.onAllDone = fn
	t.mu.Unlock()
}

// OnChange registers a callback invoked with a snapshot whenever a remote
// merge adds members.
func (t *Tracker) OnChange(fn func(Set)) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

// Load reads the local slot and returns its contents. When a remote store
// and user are configured, the remote set is fetched in the background and
// unioned in once it arrives. Unreadable local data yields an empty set, and
// so does a set saved on an earlier day.
func (t *Tracker) Load(ctx context.Context, userID string) Set {
	set, stored, err := readSlots(t.local)
	if err != nil {
		t.logger.Warn("loading completed tasks", "error", err)
	}

	t.mu.Lock()
	today := DayOf(t.now())
	t.set = set
	t.day = today
	t.userID = userID
	stale := stored != "" && stored != today
	if stale {
		t.logger.Debug("starting a new day", "day", today, "previous", stored, "dropped", set.Len())
		t.set = NewSet()
		t.writeLocked()
		t.queuePushLocked()
	}
	snapshot := t.set.Clone()
	startFetch := !stale && t.remote != nil && userID != "" && !t.closed
	if startFetch {
		t.wg.Add(1)
	}
	t.mu.Unlock()

	if startFetch {
		go t.fetchRemote(ctx, userID, today)
	}
	return snapshot
}

// ReadLocal returns the completed set stored for day without a tracker.
// A set saved on a different day reads as empty.
func ReadLocal(local LocalStore, day time.Time) (Set, error) {
	set, stored, err := readSlots(local)
	if err != nil {
		return NewSet(), err
	}
	if stored != "" && stored != DayOf(day) {
		return NewSet(), nil
	}
	return set, nil
}

func readSlots(local LocalStore) (Set, string, error) {
	if local == nil {
		return NewSet(), "", nil
	}
	raw, err := local.GetState(StorageKey)
	if err != nil {
		return NewSet(), "", fmt.Errorf("reading completed tasks: %w", err)
	}
	day, err := local.GetState(DayKey)
	if err != nil {
		return NewSet(), "", fmt.Errorf("reading completed day: %w", err)
	}
	if raw == "" {
		return NewSet(), day, nil
	}
	var set Set
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		return NewSet(), "", fmt.Errorf("parsing completed tasks: %w", err)
	}
	if set == nil {
		set = NewSet()
	}
	return set, day, nil
}

// rolloverLocked empties the set when the clock has moved past the day it
// belongs to.
func (t *Tracker) rolloverLocked() {
	today := DayOf(t.now())
	if t.day == today {
		return
	}
	previous := t.day
	t.day = today
	if previous == "" {
		return
	}
	t.logger.Debug("starting a new day", "day", today, "previous", previous, "dropped", t.set.Len())
	t.set = NewSet()
	t.writeLocked()
	t.queuePushLocked()
}

func (t *Tracker) fetchRemote(ctx context.Context, userID, day string) {
	defer t.wg.Done()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(t.ctx, cancel)
	defer stop()

	ids, err := t.remote.GetProgress(ctx, userID)
	if err != nil {
		t.logger.Warn("fetching remote progress", "user", userID, "error", err)
		return
	}

	t.mu.Lock()
	if t.closed || t.userID != userID || t.day != day {
		t.mu.Unlock()
		t.logger.Debug("dropping late remote progress", "user", userID)
		return
	}
	added := t.set.Union(NewSet(ids...))
	if added > 0 {
		t.writeLocked()
	}
	snapshot := t.set.Clone()
	onChange := t.onChange
	t.mu.Unlock()

	t.logger.Debug("merged remote progress", "user", userID, "added", added)
	if added > 0 && onChange != nil {
		onChange(snapshot)
	}
}

// Toggle flips id's membership and reports whether it is now complete.
func (t *Tracker) Toggle(id string) bool {
	t.mu.Lock()
	t.rolloverLocked()
	done := !t.set.Has(id)
	if done {
		t.set.Add(id)
	} else {
		t.set.Remove(id)
	}
	t.writeLocked()
	t.queuePushLocked()

	celebrate := done && t.goal.Has(id) && t.allDoneLocked()
	onAllDone := t.onAllDone
	t.mu.Unlock()

	if celebrate && onAllDone != nil {
		onAllDone()
	}
	return done
}

func (t *Tracker) allDoneLocked() bool {
	if t.goal.Len() == 0 {
		return false
	}
	for id := range t.goal {
		if !t.set.Has(id) {
			return false
		}
	}
	return true
}

// queuePushLocked records the current set as the next one to push and
// starts the push worker if it is idle.
func (t *Tracker) queuePushLocked() {
	if t.remote == nil || t.userID == "" || t.closed {
		return
	}
	t.pending = t.set.Slice()
	t.pendingFor = t.userID
	t.hasPending = true
	if t.pushing {
		return
	}
	t.pushing = true
	t.wg.Add(1)
	go t.pushLoop()
}

func (t *Tracker) pushLoop() {
	defer t.wg.Done()
	for {
		t.mu.Lock()
		if !t.hasPending || t.closed {
			t.hasPending = false
			t.pushing = false
			t.mu.Unlock()
			return
		}
		userID, tasks := t.pendingFor, t.pending
		t.hasPending = false
		t.mu.Unlock()

		if err := t.remote.SyncProgress(t.ctx, userID, tasks); err != nil {
			t.logger.Warn("syncing remote progress", "user", userID, "error", err)
		}
	}
}

func (t *Tracker) IsComplete(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverLocked()
	return t.set.Has(id)
}

// Persist replaces the tracked set and writes it to the local slot.
func (t *Tracker) Persist(set Set) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.day = DayOf(t.now())
	t.set = set.Clone()
	t.writeLocked()
}

func (t *Tracker) writeLocked() {
	if t.local == nil {
		return
	}
	data, err := json.Marshal(t.set)
	if err != nil {
		t.logger.Warn("encoding completed tasks", "error", err)
		return
	}
	if err := t.local.SetState(StorageKey, string(data)); err != nil {
		t.logger.Warn("saving completed tasks", "error", err)
		return
	}
	if err := t.local.SetState(DayKey, t.day); err != nil {
		t.logger.Warn("saving completed day", "error", err)
	}
}

// Snapshot returns a copy of the current set.
func (t *Tracker) Snapshot() Set {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverLocked()
	return t.set.Clone()
}

// Wait blocks until all background fetches and pushes have finished.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

// Close cancels in-flight remote calls and discards their results.
func (t *Tracker) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	t.cancel()
	t.wg.Wait()
}
