package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"dreamlog/internal/action"
	"dreamlog/internal/autocomplete"
	"dreamlog/internal/config"
	"dreamlog/internal/display"
	"dreamlog/internal/journal"
	"dreamlog/internal/logging"
	"dreamlog/internal/storage"
)

// surface describes the front end an app is built for.
type surface struct {
	presenter display.Presenter
	notifier  display.Notifier
	debounce  bool
	// logTo receives log output; nil logs to the configured log file.
	logTo io.Writer
}

// app is the wired object graph behind every command.
type app struct {
	cfg      config.Config
	log      logging.Logger
	store    storage.Store
	repo     *storage.Repository
	learner  *autocomplete.Learner
	controls *display.ControlState
	engine   *display.Engine
	svc      *journal.Service
	router   *action.Router

	closers []io.Closer
}

func (o *rootOptions) open(ctx context.Context, s surface) (*app, error) {
	cfg, _, err := o.load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	a := &app{cfg: cfg}

	w := s.logTo
	if w == nil {
		f, err := openLogFile(cfg.LogPath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, f)
		w = f
	}
	a.log = logging.New(w, cfg.LogLevel)

	a.store = storage.Open(ctx, storage.Options{DBPath: cfg.DBPath, StoreDir: cfg.StoreDir}, a.log)
	a.closers = append(a.closers, a.store)
	a.repo = storage.NewRepository(a.store, a.log)
	a.learner = autocomplete.NewLearner(a.store)

	d := cfg.Display
	a.controls = display.NewControlState(display.Query{
		Filter: display.ParseFilterType(d.DefaultFilter),
		Sort:   display.ParseSortKey(d.DefaultSort),
		Limit:  display.ParseLimit(d.DefaultLimit, d.PageSize),
	})
	a.engine = display.NewEngine(display.Deps{
		Source:    a.repo,
		Controls:  a.controls,
		Presenter: s.presenter,
		Notifier:  s.notifier,
		Log:       a.log,
	}, settings(d))
	a.svc = journal.NewService(a.repo, a.learner, a.engine, s.notifier, a.log)
	a.router = action.NewRouter(journal.Handlers(a.svc, a.engine, a.controls, journal.HandlerOptions{Debounce: s.debounce}), a.log, d.ActionDepth)
	return a, nil
}

func settings(d config.Display) display.Settings {
	return display.Settings{
		DefaultPageSize:  d.PageSize,
		MaxVisiblePages:  d.MaxVisiblePages,
		EndlessIncrement: d.EndlessIncrement,
		ScrollThreshold:  d.ScrollThreshold,
		ScrollThrottle:   d.ScrollThrottle.Duration,
		SearchDebounce:   d.SearchDebounce.Duration,
		FilterDebounce:   d.FilterDebounce.Duration,
		DeleteTimeout:    d.DeleteTimeout.Duration,
	}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

func (a *app) Close() error {
	a.engine.Close()
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
