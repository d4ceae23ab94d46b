package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/christopherklint97/wellsync/internal/config"
	"github.com/christopherklint97/wellsync/internal/schedule"
)

// AgendaFunc loads today's agenda. It is called before every wait so a
// newly generated plan is picked up without a restart.
type AgendaFunc func(ctx context.Context) ([]schedule.Entry, error)

// DoneFunc reports whether an entry is already checked off.
type DoneFunc func(id string) bool

// Scheduler sends a notification shortly before each agenda entry.
type Scheduler struct {
	agenda  AgendaFunc
	done    DoneFunc
	notify  Notifier
	lead    time.Duration
	logger  *slog.Logger
	now     func() time.Time
	pidFile string
	out     io.Writer
}

func New(cfg *config.Config, agenda AgendaFunc, done DoneFunc, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	pid, _ := pidPath()
	return &Scheduler{
		agenda:  agenda,
		done:    done,
		notify:  SendNotification,
		lead:    time.Duration(cfg.Notifications.LeadMinutes) * time.Minute,
		logger:  logger,
		now:     time.Now,
		pidFile: pid,
		out:     os.Stdout,
	}
}

func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.writePID(); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer s.removePID()

	fmt.Fprintf(s.out, "Reminders started (lead time: %s)\n", s.lead)

	fired := make(map[string]bool)
	day := dayKey(s.now())

	for {
		if ctx.Err() != nil {
			return nil
		}
		now := s.now()
		if k := dayKey(now); k != day {
			day = k
			clear(fired)
		}

		entries, err := s.agenda(ctx)
		if err != nil {
			s.logger.Warn("loading agenda", "error", err)
		}

		var (
			entry  schedule.Entry
			wakeAt time.Time
			found  bool
		)
		for _, e := range pending(entries, fired) {
			if at, ok := reminderTime(now, e, s.lead); ok {
				entry, wakeAt, found = e, at, true
				break
			}
		}
		if !found {
			wakeAt = nextMidnight(now)
			fmt.Fprintf(s.out, "Nothing left today; next check at %s\n", wakeAt.Format("Jan 2 15:04"))
		} else {
			fmt.Fprintf(s.out, "Next reminder at %s: %s\n", clockOf(wakeAt), entry)
		}

		if wait := wakeAt.Sub(now); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				fmt.Fprintln(s.out, "\nReminders stopped.")
				return nil
			case <-timer.C:
			}
		}

		if found {
			fired[entry.ID()] = true
			s.remind(entry)
		}
	}
}

func (s *Scheduler) remind(e schedule.Entry) {
	if s.done != nil && s.done(e.ID()) {
		s.logger.Debug("skipping completed entry", "id", e.ID())
		return
	}
	msg := fmt.Sprintf("Up next at %s: %s", e.Time, e.Activity)
	if e.Domain != "" {
		msg += " (" + string(e.Domain) + ")"
	}
	if err := s.notify("wellsync", msg); err != nil {
		s.logger.Warn("sending notification", "error", err)
	}
}

func pending(entries []schedule.Entry, fired map[string]bool) []schedule.Entry {
	var out []schedule.Entry
	for _, e := range entries {
		if !fired[e.ID()] {
			out = append(out, e)
		}
	}
	return out
}

// reminderTime returns when to remind about e: lead before its start, or
// immediately if that moment has passed but the entry has not started.
// Entries that already started get no reminder.
func reminderTime(now time.Time, e schedule.Entry, lead time.Duration) (time.Time, bool) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := midnight.Add(time.Duration(e.Minutes()) * time.Minute)
	if start.Before(now) {
		return time.Time{}, false
	}
	at := start.Add(-lead)
	if at.Before(now) {
		at = now
	}
	return at, true
}

func nextMidnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 1, 0, 0, now.Location()).AddDate(0, 0, 1)
}

// clockOf renders t in the same 12-hour form the timeline uses.
func clockOf(t time.Time) string {
	return schedule.FormatClock(t.Hour()*60 + t.Minute())
}

func dayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

func pidPath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "wellsync.pid"), nil
}

func (s *Scheduler) writePID() error {
	if s.pidFile == "" {
		return fmt.Errorf("no PID file location")
	}
	if err := os.MkdirAll(filepath.Dir(s.pidFile), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.pidFile, []byte(strconv.Itoa(os.Getpid())), 0644)
}

func (s *Scheduler) removePID() {
	if s.pidFile != "" {
		os.Remove(s.pidFile)
	}
}

func ReadPID() (int, error) {
	path, err := pidPath()
	if err != nil {
		return 0, err
	}
	return readPIDFile(path)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("no running reminder process found")
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID file")
	}

	return pid, nil
}
