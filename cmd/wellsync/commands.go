package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/tj/go-naturaldate"

	"github.com/christopherklint97/wellsync/internal/ai"
	"github.com/christopherklint97/wellsync/internal/calendar"
	"github.com/christopherklint97/wellsync/internal/config"
	"github.com/christopherklint97/wellsync/internal/dashboard"
	"github.com/christopherklint97/wellsync/internal/plan"
	"github.com/christopherklint97/wellsync/internal/profiles"
	"github.com/christopherklint97/wellsync/internal/schedule"
	"github.com/christopherklint97/wellsync/internal/scheduler"
	"github.com/christopherklint97/wellsync/internal/tui"
	"github.com/christopherklint97/wellsync/internal/wellness"
)

func runToday(cmd *cobra.Command, args []string) error {
	useAI, _ := cmd.Flags().GetBool("ai")
	calendarSource, _ := cmd.Flags().GetString("calendar")

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	p := e.profile(ctx)
	doc, err := e.currentPlan(p)
	if err != nil {
		return err
	}
	syncStanding(ctx, e, p)
	e.tracker.Load(ctx, e.cfg.UserID)

	opts := tui.Options{
		UserID:    e.cfg.UserID,
		Profile:   p,
		Document:  doc,
		Request:   e.request(ctx, p, calendarSource),
		Generator: e.generator(useAI),
		Tracker:   e.tracker,
		Feedback:  e.service,
		History:   e.db,
		Celebrate: e.cfg.Notifications.Celebrate,
		Notify:    scheduler.SendNotification,
		Logger:    e.logger,
	}
	if e.profiles != nil {
		opts.Profiles = e.profiles
	}

	app := tui.NewApp(opts)
	defer app.Close()
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	if res := app.GetResult(); res.Total > 0 {
		fmt.Printf("%d of %d tasks done today.\n", res.Completed, res.Total)
	}
	return nil
}

// syncStanding writes the derived streak and points back to the profile
// when they have moved.
func syncStanding(ctx context.Context, e *env, p *profiles.Profile) {
	if p == nil || e.profiles == nil {
		return
	}
	st := dashboard.Progress(p)
	if !st.NeedsUpdate {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, profileTimeout)
	defer cancel()
	if err := e.profiles.Update(ctx, e.cfg.UserID, st.UpdateFields()); err != nil {
		e.logger.Warn("updating standing", "error", err)
		return
	}
	p.Streak, p.Points, p.Achievements = st.Streak, st.Points, st.Earned
}

func runSchedule(cmd *cobra.Command, args []string) error {
	icsPath, _ := cmd.Flags().GetString("ics")

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	entries, doc, err := e.agenda(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No plan yet. Run 'wellsync generate' to create one.")
		return nil
	}
	e.syncProgress(ctx)

	now := time.Now()
	next, hasNext := schedule.Next(entries, now.Hour()*60+now.Minute())

	fmt.Println(plan.Summary(doc))
	fmt.Println()
	for i, en := range entries {
		mark := "[ ]"
		if e.tracker.IsComplete(en.ID()) {
			mark = "[x]"
		}
		pointer := "  "
		if hasNext && en == next {
			pointer = "->"
		}
		fmt.Printf("%s %2d %s %8s  %-10s %s\n", pointer, i+1, mark, en.Time, en.Domain, en.Activity)
	}
	fmt.Printf("\n%d of %d done\n", countDone(entries, e.tracker.IsComplete), len(entries))

	if icsPath == "" {
		return nil
	}
	f, err := os.Create(icsPath)
	if err != nil {
		return fmt.Errorf("creating calendar file: %w", err)
	}
	defer f.Close()

	duration := time.Duration(e.cfg.Calendar.EventMinutes) * time.Minute
	if err := calendar.Export(f, now, entries, duration); err != nil {
		return err
	}
	fmt.Printf("Wrote %d events to %s\n", len(entries), icsPath)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	d, ok := plan.ParseDomain(args[0])
	if !ok {
		return fmt.Errorf("unknown domain %q; use fitness, nutrition, sleep or mental", args[0])
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	doc, err := e.currentPlan(e.profile(cmd.Context()))
	if err != nil {
		return err
	}
	if doc.Empty() {
		fmt.Fprintln(os.Stderr, "No plan yet; showing defaults.")
	}

	data, err := json.MarshalIndent(plan.Extract(doc, d), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", d, err)
	}
	fmt.Println(string(data))
	return nil
}

func runDone(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	entries, _, err := e.agenda(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no plan for today; run 'wellsync generate' first")
	}

	entry, err := pickEntry(entries, args[0])
	if err != nil {
		return err
	}

	e.syncProgress(ctx)
	e.tracker.SetGoal(schedule.IDs(entries))
	e.tracker.OnAllDone(func() {
		fmt.Println("Every task for today is done. Nice work!")
		if e.cfg.Notifications.Celebrate {
			if err := scheduler.SendNotification("wellsync", "Every task for today is done. Nice work!"); err != nil {
				e.logger.Warn("sending celebration", "error", err)
			}
		}
	})

	if e.tracker.Toggle(entry.ID()) {
		fmt.Printf("[x] %s\n", entry)
	} else {
		fmt.Printf("[ ] %s\n", entry)
	}

	done := countDone(entries, e.tracker.IsComplete)
	if err := e.db.RecordDay(e.cfg.UserID, time.Now(), done, len(entries)); err != nil {
		e.logger.Warn("recording day", "error", err)
	}
	fmt.Printf("%d of %d done\n", done, len(entries))
	return nil
}

// pickEntry resolves a 1-based timeline position or an entry ID.
func pickEntry(entries []schedule.Entry, arg string) (schedule.Entry, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(entries) {
			return schedule.Entry{}, fmt.Errorf("entry %d out of range (1-%d)", n, len(entries))
		}
		return entries[n-1], nil
	}
	for _, en := range entries {
		if en.ID() == arg {
			return en, nil
		}
	}
	return schedule.Entry{}, fmt.Errorf("no timeline entry %q", arg)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	useAI, _ := cmd.Flags().GetBool("ai")
	calendarSource, _ := cmd.Flags().GetString("calendar")

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	req := e.request(ctx, e.profile(ctx), calendarSource)
	gen := e.generator(useAI)
	if o, ok := gen.(*ai.OpenAI); ok {
		o.OnDelta = func(string) { fmt.Fprint(os.Stderr, ".") }
	} else if !e.service.Health(ctx) {
		return fmt.Errorf("plan service at %s is not responding; try --ai", e.cfg.Service.BaseURL)
	}

	fmt.Fprintln(os.Stderr, "Generating plan...")
	doc, err := gen.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("generating plan: %w", err)
	}
	fmt.Fprintln(os.Stderr)

	if err := e.savePlan(ctx, doc); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	printPlan(doc)
	fmt.Println("\nReview it with 'wellsync today'.")
	return nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	sc, err := wellness.ParseScenario(args[0])
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Simulating %s scenario...\n", sc)
	doc, err := newService(cfg).Simulate(cmd.Context(), sc)
	if err != nil {
		return fmt.Errorf("simulating %s: %w", sc, err)
	}
	printPlan(doc)
	return nil
}

func printPlan(doc plan.Document) {
	fmt.Println(plan.Summary(doc))
	if id := wellness.StateID(doc); id != "" {
		fmt.Printf("Plan ID: %s\n", id)
	}
	fmt.Println()
	fmt.Print(schedule.Format(schedule.FromPlan(plan.ExtractAll(doc))))
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	service := newService(cfg)

	if len(args) == 0 {
		app := tui.NewChatApp(service, cfg.UserID)
		if _, err := tea.NewProgram(app).Run(); err != nil {
			return fmt.Errorf("running chat: %w", err)
		}
		return nil
	}

	reply, err := service.Chat(cmd.Context(), wellness.ChatRequest{
		Message: strings.Join(args, " "),
		UserID:  cfg.UserID,
		Context: "cli",
	})
	if err != nil {
		return fmt.Errorf("asking coach: %w", err)
	}
	fmt.Println(reply)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	sinceText, _ := cmd.Flags().GetString("since")

	now := time.Now()
	since, err := naturaldate.Parse(sinceText, now, naturaldate.WithDirection(naturaldate.Past))
	if err != nil {
		return fmt.Errorf("parsing --since %q: %w", sinceText, err)
	}
	if !since.Before(now) {
		return fmt.Errorf("--since %q is not in the past", sinceText)
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	days, err := e.db.DaysSince(e.cfg.UserID, since)
	if err != nil {
		return err
	}
	plans, err := e.db.PlansSince(e.cfg.UserID, since)
	if err != nil {
		return err
	}

	fmt.Printf("Since %s (%s):\n\n", since.Format("Mon Jan 2"), humanize.Time(since))
	var complete []time.Time
	for _, d := range days {
		mark := ""
		if d.Complete() {
			mark = "done"
			complete = append(complete, d.Date(now.Location()))
		}
		fmt.Printf("  %s  %2d/%-2d  %s\n", d.Date(now.Location()).Format("Mon Jan 02"), d.Completed, d.Total, mark)
	}
	if len(days) == 0 {
		fmt.Println("  No tracked days.")
	}

	fmt.Printf("\nCurrent streak: %d days\n", dashboard.StreakFrom(complete, now))
	fmt.Printf("Plans generated: %d\n", len(plans))

	if p := e.profile(cmd.Context()); p != nil {
		st := dashboard.Progress(p)
		fmt.Printf("Points: %s (%.0f%% to %s)\n",
			humanize.Comma(int64(st.Points)), st.LevelProgress(), humanize.Comma(int64(st.NextLevel())))
		for _, a := range st.Achievements {
			if a.Unlocked {
				fmt.Printf("  %s %s\n", a.Icon, a.Name)
			}
		}
	}
	return nil
}

func runRemindStart(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if !e.cfg.Notifications.Enabled {
		return fmt.Errorf("notifications are disabled; set notifications.enabled in the config")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	agenda := func(ctx context.Context) ([]schedule.Entry, error) {
		entries, _, err := e.agenda(ctx)
		return entries, err
	}
	done := func(id string) bool {
		return localCompleted(e.db, time.Now()).Has(id)
	}
	sched := scheduler.New(e.cfg, agenda, done, e.logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return sched.Run(ctx)
}

func runRemindStop(cmd *cobra.Command, args []string) error {
	pid, err := scheduler.ReadPID()
	if err != nil {
		return err
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("finding process %d: %w", pid, err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("sending stop signal: %w", err)
	}

	fmt.Printf("Sent stop signal to wellsync reminders (PID %d)\n", pid)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}

	shown := *cfg
	shown.Profiles.AnonKey = mask(shown.Profiles.AnonKey)
	shown.AI.APIKey = mask(shown.AI.APIKey)

	data, err := toml.Marshal(shown)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	fmt.Printf("# %s\n\n%s", path, data)
	return nil
}

func mask(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}

func runConfigSetUser(cmd *cobra.Command, args []string) error {
	if err := config.SaveUserID(args[0]); err != nil {
		return fmt.Errorf("saving user ID: %w", err)
	}
	fmt.Printf("User ID set to %s\n", args[0])
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		data, err := toml.Marshal(config.DefaultConfig())
		if err != nil {
			return fmt.Errorf("encoding default config: %w", err)
		}
		if err := os.WriteFile(configPath, data, 0644); err != nil {
			return fmt.Errorf("writing default config: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	fmt.Printf("Opening %s with %s...\n", configPath, editor)

	proc := os.ProcAttr{
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	}
	process, err := os.StartProcess(editor, []string{editor, configPath}, &proc)
	if err != nil {
		fmt.Printf("Could not open editor. Config file is at: %s\n", configPath)
		return nil
	}
	_, err = process.Wait()
	return err
}
