package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/tartampluch/go-calnav/internal/blackout"
	"github.com/tartampluch/go-calnav/internal/config"
	"github.com/tartampluch/go-calnav/internal/engine"
	"github.com/tartampluch/go-calnav/internal/i18n"
	"github.com/tartampluch/go-calnav/internal/server"
	"github.com/zalando/go-keyring"
)

// options holds the parsed command line.
type options struct {
	calendar string
	view     string
	date     string
	lang     string
	weeks    int
	firstDay int
	rtl      bool
	blackout string
	feedUser string
	serve    bool
	port     string
	interval int
	min      string
	max      string
	noPast   bool
	key      string
}

// main is the application entry point.
// It delegates execution to runMain to ensure that deferred function calls
// (like closing log files) are executed before the process terminates.
// os.Exit() does not run defers, so we must return an integer code first.
func main() {
	os.Exit(runMain())
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
// Returns config.ExitCodeSuccess on success, config.ExitCodeError on failure.
func runMain() int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	var opts options
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVer)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	flag.StringVar(&opts.calendar, config.FlagCalendar, "", config.FlagDescCal)
	flag.StringVar(&opts.view, config.FlagView, engine.Month.String(), config.FlagDescView)
	flag.StringVar(&opts.date, config.FlagDate, "", config.FlagDescDate)
	flag.StringVar(&opts.lang, config.FlagLang, config.DefaultLanguage, config.FlagDescLang)
	flag.IntVar(&opts.weeks, config.FlagWeeks, config.DefaultVisibleWeeks, config.FlagDescWeeks)
	flag.IntVar(&opts.firstDay, config.FlagFirstDay, int(time.Sunday), config.FlagDescFirst)
	flag.BoolVar(&opts.rtl, config.FlagRTL, false, config.FlagDescRTL)
	flag.StringVar(&opts.blackout, config.FlagBlackout, "", config.FlagDescBlack)
	flag.StringVar(&opts.feedUser, config.FlagFeedUser, "", config.FlagDescUser)
	flag.BoolVar(&opts.serve, config.FlagServe, false, config.FlagDescServe)
	flag.StringVar(&opts.port, config.FlagPort, config.DefaultPort, config.FlagDescPort)
	flag.IntVar(&opts.interval, config.FlagInterval, config.DefaultRefreshMin, config.FlagDescInt)
	flag.StringVar(&opts.min, config.FlagMin, "", config.FlagDescMin)
	flag.StringVar(&opts.max, config.FlagMax, "", config.FlagDescMax)
	flag.BoolVar(&opts.noPast, config.FlagNoPast, false, config.FlagDescPast)
	flag.StringVar(&opts.key, config.FlagKey, "", config.FlagDescKey)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	// Print mode keeps stdout for the rendered view.
	logOut := io.Writer(os.Stdout)
	if !opts.serve {
		logOut = os.Stderr
	}
	logCloser := setupLogging(logOut, *debugMode)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close() // Best effort close
		}()
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	// Create a root context that cancels on SIGINT (Ctrl+C) or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	if err := run(ctx, opts, os.Stdout); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run wires dependencies and either serves snapshots or prints one.
func run(ctx context.Context, opts options, out io.Writer) error {
	catalog, err := i18n.NewCatalog()
	if err != nil {
		return err
	}
	eng := engine.NewDefault()
	clock := engine.RealClock{}

	defaults, err := opts.defaults()
	if err != nil {
		return err
	}

	var src blackout.Source
	if opts.blackout != "" {
		src = blackout.SourceFor(opts.blackout, opts.feedUser, feedPassword(opts.feedUser))
	}
	loader := &blackout.Loader{Clock: clock, Fetcher: blackout.NewFeedClient()}

	if opts.serve {
		return serve(ctx, opts, eng, catalog, clock, defaults, loader, src)
	}

	var dates []time.Time
	if opts.blackout != "" {
		if dates, err = loader.Load(ctx, src); err != nil {
			return fmt.Errorf("%s: %w", config.ErrBlackoutLoad, err)
		}
	}

	state, err := opts.state(defaults, engine.Today(clock), catalog, eng.Table())
	if err != nil {
		return err
	}
	state.BlackoutDates = dates

	if opts.key != "" {
		key, ok := engine.ParseKey(opts.key)
		if !ok {
			return fmt.Errorf("%s: %q", config.ErrUnknownKey, opts.key)
		}
		state.View, state.DisplayDate = eng.HandleKey(state, eng.EffectiveDisplayDate(state), key, false)
	}

	locale := catalog.Locale(defaults.Language)
	return printSnapshot(out, eng.Snapshot(state, locale, locale.Language().String()))
}

// serve runs the view server until ctx is cancelled. SIGHUP reloads the
// blackout source immediately.
func serve(ctx context.Context, opts options, eng *engine.Engine, catalog *i18n.Catalog, clock engine.Clock,
	defaults server.Defaults, loader *blackout.Loader, src blackout.Source) error {
	if p, err := strconv.Atoi(opts.port); err != nil || p < config.MinPort || p > config.MaxPort {
		return fmt.Errorf("%s: %q", config.ErrPortInvalid, opts.port)
	}

	srv := server.NewViewServer(opts.port, eng, catalog, clock, defaults)

	if opts.blackout == "" {
		srv.Update(nil)
		return srv.Start(ctx)
	}

	hup := make(chan os.Signal, config.ChannelBufferSize)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	trigger := make(chan struct{}, config.ChannelBufferSize)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				select {
				case trigger <- struct{}{}:
				default:
				}
			}
		}
	}()

	interval := time.Duration(opts.interval) * time.Minute
	go srv.RunRefresher(ctx, loader, src, interval, trigger)

	return srv.Start(ctx)
}

// feedPassword reads the blackout feed password from the OS keyring. A
// missing entry yields an empty password.
func feedPassword(user string) string {
	if user == "" {
		return ""
	}
	pass, err := keyring.Get(config.KeyringService, user)
	if err != nil {
		slog.Warn(config.MsgPassFail,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyUser, user,
			config.LogKeyError, fmt.Errorf("%s: %w", config.ErrKeyringLookup, err),
		)
		return ""
	}
	return pass
}

// defaults converts the flags shared by both modes.
func (o options) defaults() (server.Defaults, error) {
	d := server.Defaults{
		Language:    o.lang,
		Calendar:    o.calendar,
		Weeks:       o.weeks,
		DisablePast: o.noPast,
		RightToLeft: o.rtl,
	}
	if o.firstDay < 0 || o.firstDay >= config.DaysPerWeek {
		return d, fmt.Errorf("%s: %d", config.ErrWeekday, o.firstDay)
	}
	d.FirstDayOfWeek = time.Weekday(o.firstDay)

	var err error
	if d.MinDate, err = parseBound(o.min); err != nil {
		return d, err
	}
	if d.MaxDate, err = parseBound(o.max); err != nil {
		return d, err
	}
	return d, nil
}

// state builds the view state printed in print mode.
func (o options) state(d server.Defaults, today time.Time, catalog *i18n.Catalog, table *engine.Table) (engine.ViewState, error) {
	state := d.State(today, catalog.Locale(d.Language), table)
	if o.view != "" {
		view, ok := engine.ParseView(o.view)
		if !ok {
			return state, fmt.Errorf("%s: %q", config.ErrUnknownView, o.view)
		}
		state.View = view
	}
	date, err := parseOptionalDate(o.date)
	if err != nil {
		return state, err
	}
	if !date.IsZero() {
		state.DisplayDate = date
	}
	return state, nil
}

func parseOptionalDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return engine.ParseDate(value)
}

// parseBound returns nil for an empty flag so the calendar's own limit applies.
func parseBound(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := engine.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// printVersion outputs the build information to stdout and exits.
func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyBuilt, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger.
func setupLogging(out io.Writer, debugMode bool) io.Closer {
	writers := []io.Writer{out}
	var logFile *os.File

	// Attempt to set up a file writer in the user's cache directory.
	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)

	// Ensure the directory exists with restricted permissions (700).
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
