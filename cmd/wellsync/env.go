package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"time"

	"github.com/christopherklint97/wellsync/internal/ai"
	"github.com/christopherklint97/wellsync/internal/calendar"
	"github.com/christopherklint97/wellsync/internal/config"
	"github.com/christopherklint97/wellsync/internal/plan"
	"github.com/christopherklint97/wellsync/internal/profiles"
	"github.com/christopherklint97/wellsync/internal/progress"
	"github.com/christopherklint97/wellsync/internal/schedule"
	"github.com/christopherklint97/wellsync/internal/store"
	"github.com/christopherklint97/wellsync/internal/wellness"
)

const (
	profileTimeout = 15 * time.Second
	syncTimeout    = 10 * time.Second
)

// env holds the clients and stores shared by every command.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *store.DB
	service  *wellness.Client
	profiles *profiles.Client
	tracker  *progress.Tracker
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.UserID == "" {
		return nil, fmt.Errorf("user ID not configured; run 'wellsync config set-user <id>' or set WELLSYNC_USER_ID")
	}
	return cfg, nil
}

func openEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return nil, err
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	service := newService(cfg)
	e := &env{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		service: service,
		tracker: progress.NewTracker(db, service, logger),
	}
	if cfg.Profiles.URL != "" && cfg.Profiles.AnonKey != "" {
		e.profiles = profiles.NewClient(cfg.Profiles.URL, cfg.Profiles.AnonKey,
			time.Duration(cfg.Profiles.CacheTTLSeconds)*time.Second, logger)
		e.profiles.MaxRetries = cfg.Service.MaxRetries
	}
	return e, nil
}

func newService(cfg *config.Config) *wellness.Client {
	c := wellness.NewClient(cfg.Service.BaseURL, time.Duration(cfg.Service.TimeoutSeconds)*time.Second, logger)
	c.MaxRetries = cfg.Service.MaxRetries
	return c
}

// Close lets pending progress pushes finish, then releases the database.
func (e *env) Close() {
	e.tracker.Wait()
	e.tracker.Close()
	e.db.Close()
}

// profile fetches the user's profile. Without a configured profile backend,
// or when the fetch fails, it returns nil and the caller works from the
// local cache.
func (e *env) profile(ctx context.Context) *profiles.Profile {
	if e.profiles == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, profileTimeout)
	defer cancel()

	p, err := e.profiles.Get(ctx, e.cfg.UserID)
	if err != nil {
		if !errors.Is(err, profiles.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "Warning: could not load profile: %v\n", err)
		}
		e.logger.Debug("profile unavailable", "user", e.cfg.UserID, "error", err)
		return nil
	}
	return p
}

// currentPlan returns the plan on the profile, or the newest locally cached
// plan when the profile has none.
func (e *env) currentPlan(p *profiles.Profile) (plan.Document, error) {
	if p.HasPlan() {
		return p.CurrentPlan, nil
	}
	saved, err := e.db.LatestPlan(e.cfg.UserID)
	if err != nil {
		return nil, fmt.Errorf("reading cached plan: %w", err)
	}
	if saved == nil {
		return nil, nil
	}
	return saved.Document, nil
}

// agenda loads today's plan and builds its timeline.
func (e *env) agenda(ctx context.Context) ([]schedule.Entry, plan.Document, error) {
	doc, err := e.currentPlan(e.profile(ctx))
	if err != nil {
		return nil, nil, err
	}
	if doc.Empty() {
		return nil, nil, nil
	}
	return schedule.FromPlan(plan.ExtractAll(doc)), doc, nil
}

func (e *env) generator(useAI bool) ai.Generator {
	if useAI || e.cfg.AI.Provider == ai.SourceOpenAI {
		return ai.NewOpenAI(e.cfg.AI.APIKey, e.cfg.AI.Model, e.cfg.AI.BaseURL, e.logger)
	}
	return e.service
}

// request builds a generation request from the profile. Busy blocks from
// the calendar source, if one is given, are passed as a constraint.
func (e *env) request(ctx context.Context, p *profiles.Profile, calendarSource string) wellness.GenerateRequest {
	if p == nil {
		p = &profiles.Profile{ID: e.cfg.UserID}
	}
	req := wellness.FromProfile(p)
	if calendarSource == "" {
		return req
	}

	start, end := calendar.DayWindow(time.Now())
	events, err := calendar.Fetch(ctx, calendarSource, start, end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not read calendar: %v\n", err)
		return req
	}
	if busy := calendar.FormatBusy(events); len(busy) > 0 {
		constraints := make(map[string]any, len(req.Constraints)+1)
		maps.Copy(constraints, req.Constraints)
		constraints["busy_times"] = busy
		req.Constraints = constraints
	}
	return req
}

// savePlan caches a freshly generated plan locally and stores it on the
// profile when a profile backend is configured.
func (e *env) savePlan(ctx context.Context, doc plan.Document) error {
	saved := &store.SavedPlan{
		UserID:    e.cfg.UserID,
		StateID:   wellness.StateID(doc),
		Source:    doc.Get("source").String(),
		Document:  doc,
		CreatedAt: time.Now(),
	}
	if _, err := e.db.SavePlan(saved); err != nil {
		return fmt.Errorf("caching plan: %w", err)
	}
	if e.profiles == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, profileTimeout)
	defer cancel()
	if err := e.profiles.StorePlan(ctx, e.cfg.UserID, doc); err != nil {
		return fmt.Errorf("storing plan on profile: %w", err)
	}
	return nil
}

// syncProgress loads the completed set and waits a bounded time for the
// remote copy to be merged in.
func (e *env) syncProgress(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, syncTimeout)
	defer cancel()
	e.tracker.Load(ctx, e.cfg.UserID)
	e.tracker.Wait()
}

// localCompleted reads today's completed set straight from the database,
// so long-running commands see changes made by other invocations.
func localCompleted(db *store.DB, now time.Time) progress.Set {
	set, err := progress.ReadLocal(db, now)
	if err != nil {
		logger.Debug("reading completed tasks", "error", err)
	}
	return set
}

func countDone(entries []schedule.Entry, done func(string) bool) int {
	n := 0
	for _, e := range entries {
		if done(e.ID()) {
			n++
		}
	}
	return n
}
