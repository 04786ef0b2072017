package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gin-gonic/gin"

	"github.com/nibzard/focusflow/internal/config"
	"github.com/nibzard/focusflow/internal/logging"
	"github.com/nibzard/focusflow/internal/notify"
	"github.com/nibzard/focusflow/internal/todo"
	"github.com/nibzard/focusflow/internal/ui"
	"github.com/nibzard/focusflow/internal/urgency"
	"github.com/nibzard/focusflow/internal/web"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("focusflow "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func noArgs(fs *flag.FlagSet) error {
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return nil
}

// tuiCommand launches the terminal UI. Console logs go to a file so they do
// not corrupt the screen.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("tui")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := noArgs(fs); err != nil {
		return err
	}
	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY (try 'focusflow serve' or 'focusflow demo')")
	}

	logFile, err := openLogFile(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := newLogger(cfg, logFile)

	notes := notify.NewChannel(16)
	s, err := openSession(ctx, cfg, sessionOptions{sink: notes, logger: logger})
	if err != nil {
		return err
	}
	defer s.Close()

	return ui.Run(ctx, ui.Options{
		Store:         s.store,
		Notifications: notes.C(),
		Logger:        logger,
	})
}

// serveCommand serves the HTTP API until ctx is cancelled.
func serveCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("serve")
	addr := fs.String("addr", cfg.ListenAddr, "Listen address (overrides -listen)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := noArgs(fs); err != nil {
		return err
	}
	if logging.ParseLevel(cfg.LogLevel) > logging.ParseLevel("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := newLogger(cfg, stderr)
	hub := web.NewHub(logger)
	sink, toast := web.ToastSink(hub)
	defer toast.Close()

	s, err := openSession(ctx, cfg, sessionOptions{sink: sink, logger: logger, withMetrics: true})
	if err != nil {
		return err
	}
	defer s.Close()

	srv := web.New(web.Options{
		Store:         s.store,
		Hub:           hub,
		Toast:         toast,
		Metrics:       s.metrics,
		Logger:        logger,
		AllowedOrigin: cfg.AllowedOrigin,
		Version:       Version,
	})
	return srv.Run(ctx, *addr)
}

// classifyCommand prints the urgency of each date argument.
func classifyCommand(cfg *config.Config, args []string) error {
	fs := newFlagSet("classify")
	todayArg := fs.String("today", "", "Reference day (YYYY-MM-DD, default: local today)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("classify requires at least one date (YYYY-MM-DD)")
	}

	today := urgency.Today(time.Now())
	if *todayArg != "" {
		d, err := civil.ParseDate(*todayArg)
		if err != nil {
			return fmt.Errorf("invalid -today %q, expected YYYY-MM-DD", *todayArg)
		}
		today = d
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("DUE", "DAYS", "STATUS", "SEVERITY")
	for _, arg := range fs.Args() {
		due, err := urgency.ParseDate(arg)
		if err != nil {
			return err
		}
		if due == nil {
			return errors.New("empty date")
		}
		u := urgency.Classify(due, today)
		status := u.Status
		if status == "" {
			status = "-"
		}
		t.Row(due.String(), strconv.Itoa(*u.Days), status, u.Severity.String())
	}
	fmt.Fprintf(stdout, "Today: %s\n", today)
	fmt.Fprintln(stdout, t.Render())
	return nil
}

// demoCommand runs the create/toggle/delete walkthrough against a fresh
// in-memory store and prints every step.
func demoCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("demo")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := noArgs(fs); err != nil {
		return err
	}

	demoCfg := *cfg
	demoCfg.SeedFile = ""
	sink := notify.SinkFunc(func(n notify.Notification) {
		fmt.Fprintf(stdout, "    notify [%s] %s (%s)\n", n.Severity, n.Message, n.TTL())
	})
	s, err := openSession(ctx, &demoCfg, sessionOptions{
		sink:      sink,
		logger:    newLogger(cfg, stderr),
		submitter: todo.LatencySubmitter{},
	})
	if err != nil {
		return err
	}
	defer s.Close()

	store := s.store
	today := urgency.Today(store.Now())

	step := func(format string, a ...any) {
		fmt.Fprintf(stdout, "\n> "+format+"\n", a...)
	}

	step("create %q (high priority, due today)", "Write report")
	a, err := store.Create(ctx, todo.Draft{Title: "Write report", Due: &today, Priority: todo.PriorityHigh})
	if err != nil {
		return err
	}

	step("create %q", "Review PR")
	b, err := store.Create(ctx, todo.Draft{Title: "Review PR"})
	if err != nil {
		return err
	}

	step("create %q (too short)", "ab")
	if _, err := store.Create(ctx, todo.Draft{Title: "ab"}); err != nil {
		fmt.Fprintf(stdout, "    rejected: %s\n", todo.UserMessage(err))
	}
	printTasks("tasks", store.Tasks(), today)

	step("toggle %q", a.Title)
	if _, err := store.Toggle(a.ID); err != nil {
		return err
	}
	active, completed := todo.Partition(store.Tasks())
	printTasks("active", active, today)
	printTasks("completed", completed, today)

	step("delete %q", b.Title)
	if _, err := store.Delete(b.ID); err != nil {
		return err
	}
	final := store.Tasks()
	printTasks("final", final, today)

	stats := todo.Summarize(final)
	fmt.Fprintf(stdout, "\n%d of %d completed\n", stats.Completed, stats.Total)
	if len(final) != 1 || final[0].ID != a.ID || !final[0].Completed {
		return errors.New("demo scenario ended in an unexpected state")
	}
	return nil
}

func printTasks(label string, tasks []todo.Task, today civil.Date) {
	fmt.Fprintf(stdout, "  %s:\n", label)
	if len(tasks) == 0 {
		fmt.Fprintln(stdout, "    (none)")
		return
	}
	for _, t := range tasks {
		fmt.Fprintf(stdout, "    %s\n", formatTask(t, today))
	}
}

func formatTask(t todo.Task, today civil.Date) string {
	check := " "
	if t.Completed {
		check = "x"
	}
	parts := []string{fmt.Sprintf("[%s] #%d %s", check, t.ID, t.Title), t.Priority.Label()}
	if t.Due != nil {
		due := "due " + t.Due.String()
		if u := t.Urgency(today); u.HasBadge() {
			due += " (" + u.Status + ")"
		}
		parts = append(parts, due)
	}
	return strings.Join(parts, ", ")
}

// schemaCommand prints the seed file JSON Schema.
func schemaCommand(args []string) error {
	fs := newFlagSet("schema")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := noArgs(fs); err != nil {
		return err
	}
	fmt.Fprintln(stdout, strings.TrimSpace(todo.SeedSchema()))
	return nil
}

// configCommand prints the effective configuration as TOML.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := newFlagSet("config")
	showSources := fs.Bool("sources", false, "Show where each setting came from")
	example := fs.Bool("example", false, "Print an example configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := noArgs(fs); err != nil {
		return err
	}

	if *example {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}

	out, err := cws.Config.Encode()
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, out)

	if *showSources {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "# Files:")
		if len(cws.Files) == 0 {
			fmt.Fprintln(stdout, "#   (none)")
		}
		for _, f := range cws.Files {
			fmt.Fprintf(stdout, "#   %s\n", f)
		}
		fmt.Fprintln(stdout, "# Sources:")
		for _, field := range cws.SortedSources() {
			fmt.Fprintf(stdout, "#   %-22s %s\n", field, cws.Sources[field])
		}
	}
	return nil
}

// tailCommand tails the latest session journal, or the one whose ID starts
// with the given prefix.
func tailCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("tail")
	follow := fs.Bool("f", false, "Follow the journal (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the journal (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	list := fs.Bool("list", false, "List session journals")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}

	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	sessions, err := logging.FindSessions(logDir)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(stdout, "No session journals found.")
		return nil
	}

	if *list {
		for _, s := range sessions {
			fmt.Fprintf(stdout, "%s  %s  %d bytes\n", s.ID, s.ModTime.Format(time.DateTime), s.Size)
		}
		return nil
	}

	path := sessions[0].Path
	if fs.NArg() == 1 {
		prefix := fs.Arg(0)
		path = ""
		for _, s := range sessions {
			if strings.HasPrefix(s.ID, prefix) {
				path = s.Path
				break
			}
		}
		if path == "" {
			return fmt.Errorf("no session matching %q", prefix)
		}
	}

	fmt.Fprintf(stdout, "Tailing: %s\n", path)
	if *follow {
		fmt.Fprintln(stdout, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(stdout)
	return logging.TailLog(ctx, stdout, path, *n, *follow)
}
