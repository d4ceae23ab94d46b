package tui

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/christopherklint97/wellsync/internal/ai"
	"github.com/christopherklint97/wellsync/internal/dashboard"
	"github.com/christopherklint97/wellsync/internal/plan"
	"github.com/christopherklint97/wellsync/internal/profiles"
	"github.com/christopherklint97/wellsync/internal/progress"
	"github.com/christopherklint97/wellsync/internal/schedule"
	"github.com/christopherklint97/wellsync/internal/store"
	"github.com/christopherklint97/wellsync/internal/wellness"
)

const (
	generateTimeout = 3 * time.Minute
	requestTimeout  = 15 * time.Second
)

// FeedbackSender forwards plan verdicts to the plan service.
type FeedbackSender interface {
	SubmitFeedback(ctx context.Context, stateID string, fb wellness.Feedback) error
}

// PlanWriter stores plan state on the user's profile.
type PlanWriter interface {
	StorePlan(ctx context.Context, userID string, doc plan.Document) error
	MarkAccepted(ctx context.Context, userID string, t time.Time) error
}

// History keeps generated plans and daily tallies locally.
type History interface {
	SavePlan(p *store.SavedPlan) (int64, error)
	RecordDay(userID string, day time.Time, completed, total int) error
}

// Options wires the dashboard to its collaborators. Tracker and Generator
// are required; the rest may be nil.
type Options struct {
	UserID    string
	Profile   *profiles.Profile
	Document  plan.Document
	Request   wellness.GenerateRequest
	Generator ai.Generator
	Tracker   *progress.Tracker
	Feedback  FeedbackSender
	Profiles  PlanWriter
	History   History
	Celebrate bool
	Notify    func(title, message string) error
	Now       func() time.Time
	Logger    *slog.Logger
}

type Result struct {
	State     dashboard.State
	Completed int
	Total     int
}

type generatedMsg struct {
	doc plan.Document
	err error
}

type savedMsg struct {
	err error
}

type verdictMsg struct {
	ev  dashboard.Event
	err error
}

type progressMsg struct{}

type App struct {
	opts    Options
	machine *dashboard.Machine
	spinner spinner.Model
	changes chan struct{}
	quit    chan struct{}
	once    sync.Once
	logger  *slog.Logger
	now     func() time.Time

	doc         plan.Document
	plan        plan.Plan
	agenda      []schedule.Entry
	cursor      int
	celebrating bool
	status      string
	errMsg      string
	result      *Result
}

func NewApp(opts Options) *App {
	s := spinner.New()
	s.Spinner = spinner.Dot

	a := &App{
		opts:    opts,
		machine: dashboard.NewMachine(),
		spinner: s,
		changes: make(chan struct{}, 1),
		quit:    make(chan struct{}),
		logger:  opts.Logger,
		now:     opts.Now,
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if a.now == nil {
		a.now = time.Now
	}

	opts.Tracker.SetClock(a.now)
	opts.Tracker.OnAllDone(a.celebrate)
	opts.Tracker.OnChange(func(progress.Set) {
		select {
		case a.changes <- struct{}{}:
		default:
		}
	})

	if !opts.Document.Empty() {
		accepted := opts.Profile != nil && opts.Profile.AcceptedOn(a.now())
		if _, err := a.machine.Fire(dashboard.Restore(accepted)); err == nil {
			a.setDocument(opts.Document)
		}
	}
	return a
}

func (a *App) Init() tea.Cmd {
	return a.waitForProgress()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)
	case generatedMsg:
		return a.handleGenerated(msg)
	case savedMsg:
		if msg.err != nil {
			a.status = "Plan not saved: " + msg.err.Error()
		}
		return a, nil
	case verdictMsg:
		if msg.err != nil {
			a.status = "Feedback not delivered: " + msg.err.Error()
		}
		return a, nil
	case progressMsg:
		a.recordDay()
		return a, a.waitForProgress()
	case spinner.TickMsg:
		if a.machine.State() != dashboard.Running {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) GetResult() *Result {
	if a.result == nil {
		return a.snapshot()
	}
	return a.result
}

func (a *App) snapshot() *Result {
	return &Result{State: a.machine.State(), Completed: a.completed(), Total: len(a.agenda)}
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		a.result = a.snapshot()
		a.Close()
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.agenda)-1 {
			a.cursor++
		}
	case " ", "enter":
		a.toggle()
	case "g":
		if _, err := a.machine.Fire(dashboard.Generate); err != nil {
			return a, nil
		}
		a.errMsg = ""
		a.status = ""
		a.celebrating = false
		return a, tea.Batch(a.spinner.Tick, a.generate())
	case "a":
		return a, a.decide(dashboard.Accept)
	case "m":
		return a, a.decide(dashboard.Modify)
	case "s":
		return a, a.decide(dashboard.Skip)
	}
	return a, nil
}

func (a *App) generate() tea.Cmd {
	gen := a.opts.Generator
	req := a.opts.Request
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()
		doc, err := gen.Generate(ctx, req)
		return generatedMsg{doc: doc, err: err}
	}
}

func (a *App) handleGenerated(msg generatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.machine.Fire(dashboard.Failed)
		a.errMsg = msg.err.Error()
		a.logger.Warn("generating plan", "error", msg.err)
		return a, nil
	}
	if _, err := a.machine.Fire(dashboard.Generated); err != nil {
		return a, nil
	}
	a.setDocument(msg.doc)
	return a, a.savePlan(msg.doc)
}

func (a *App) savePlan(doc plan.Document) tea.Cmd {
	userID := a.opts.UserID
	hist := a.opts.History
	writer := a.opts.Profiles
	created := a.now()
	return func() tea.Msg {
		if hist != nil {
			saved := &store.SavedPlan{
				UserID:    userID,
				StateID:   wellness.StateID(doc),
				Source:    doc.Get("source").String(),
				Document:  doc,
				CreatedAt: created,
			}
			if _, err := hist.SavePlan(saved); err != nil {
				return savedMsg{err: err}
			}
		}
		if writer != nil && userID != "" {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			if err := writer.StorePlan(ctx, userID, doc); err != nil {
				return savedMsg{err: err}
			}
		}
		return savedMsg{}
	}
}

// decide records the user's verdict on the plan being shown. Accept and
// skip keep the plan for the day; modify discards it.
func (a *App) decide(ev dashboard.Event) tea.Cmd {
	if _, err := a.machine.Fire(ev); err != nil {
		return nil
	}
	now := a.now()
	fb, _ := dashboard.FeedbackFor(ev, now)
	stateID := wellness.StateID(a.doc)

	if ev == dashboard.Modify {
		a.setDocument(nil)
		a.status = "Plan discarded. Press g to generate a new one."
	} else if a.opts.Profile != nil {
		a.opts.Profile.PlanAcceptedAt = &now
	}

	sender := a.opts.Feedback
	writer := a.opts.Profiles
	userID := a.opts.UserID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if sender != nil && stateID != "" {
			if err := sender.SubmitFeedback(ctx, stateID, fb); err != nil {
				return verdictMsg{ev: ev, err: err}
			}
		}
		if writer != nil && userID != "" && ev != dashboard.Modify {
			if err := writer.MarkAccepted(ctx, userID, now); err != nil {
				return verdictMsg{ev: ev, err: err}
			}
		}
		return verdictMsg{ev: ev}
	}
}

func (a *App) setDocument(doc plan.Document) {
	a.doc = doc
	a.cursor = 0
	if doc == nil {
		a.plan = plan.Plan{}
		a.agenda = nil
		a.opts.Tracker.SetGoal(nil)
		return
	}
	a.plan = plan.ExtractAll(doc)
	a.agenda = schedule.FromPlan(a.plan)
	a.opts.Tracker.SetGoal(schedule.IDs(a.agenda))
}

func (a *App) toggle() {
	st := a.machine.State()
	if (st != dashboard.Showing && st != dashboard.Stored) || len(a.agenda) == 0 {
		return
	}
	if !a.opts.Tracker.Toggle(a.agenda[a.cursor].ID()) {
		a.celebrating = false
	}
	a.recordDay()
}

func (a *App) completed() int {
	n := 0
	for _, e := range a.agenda {
		if a.opts.Tracker.IsComplete(e.ID()) {
			n++
		}
	}
	return n
}

func (a *App) recordDay() {
	if a.opts.History == nil || a.opts.UserID == "" || len(a.agenda) == 0 {
		return
	}
	if err := a.opts.History.RecordDay(a.opts.UserID, a.now(), a.completed(), len(a.agenda)); err != nil {
		a.logger.Warn("recording day", "error", err)
	}
}

func (a *App) celebrate() {
	a.celebrating = true
	if !a.opts.Celebrate || a.opts.Notify == nil {
		return
	}
	if err := a.opts.Notify("wellsync", "Every task for today is done. Nice work!"); err != nil {
		a.logger.Warn("sending celebration", "error", err)
	}
}

// Close stops the command waiting for remote progress. It is safe to call
// more than once.
func (a *App) Close() {
	a.once.Do(func() { close(a.quit) })
}

func (a *App) waitForProgress() tea.Cmd {
	ch, quit := a.changes, a.quit
	return func() tea.Msg {
		select {
		case <-ch:
			return progressMsg{}
		case <-quit:
			return nil
		}
	}
}
