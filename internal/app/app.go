// Package app wires the editor core to a terminal backend, language server
// processes, the system clipboard and the config file, and runs the event
// loop that connects them.
package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/nimble/internal/config"
	"github.com/dshills/nimble/internal/editor"
	"github.com/dshills/nimble/internal/logging"
	"github.com/dshills/nimble/internal/lsp"
	"github.com/dshills/nimble/internal/renderer/backend"
)

// Defaults for Options.
const (
	DefaultBlinkInterval   = 530 * time.Millisecond
	DefaultShutdownTimeout = 2 * time.Second
)

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. Empty uses the
	// built-in defaults only.
	ConfigPath string

	// Files are files to open on startup. Missing files open empty.
	Files []string

	// Version is reported to language servers.
	Version string

	// BlinkInterval is the caret blink period.
	BlinkInterval time.Duration

	// ShutdownTimeout bounds the wait for servers to exit.
	ShutdownTimeout time.Duration

	// Spawn starts language servers. Defaults to ExecSpawn.
	Spawn SpawnFunc

	// Clipboard defaults to the system clipboard.
	Clipboard Clipboard

	// Logger defaults to a logger named "nimble".
	Logger *logging.Logger
}

// Application owns the editor and everything outside it.
type Application struct {
	mu sync.Mutex

	opts      Options
	cfg       *config.Config
	editor    *editor.Editor
	backend   backend.Backend
	servers   *ServerPool
	clipboard Clipboard
	watcher   *config.Watcher
	log       *logging.Logger

	// pending holds effects produced before the loop started.
	pending []editor.Effects

	events  chan editor.Event
	blink   *time.Ticker
	running atomic.Bool
	done    chan struct{}
	once    sync.Once
}

// New creates an application, loads the configuration and opens the
// initial files. Config errors are logged and the defaults used instead.
func New(opts Options) (*Application, error) {
	if opts.BlinkInterval <= 0 {
		opts.BlinkInterval = DefaultBlinkInterval
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}
	if opts.Clipboard == nil {
		opts.Clipboard = defaultClipboard()
	}
	if opts.Logger == nil {
		opts.Logger = logging.New("nimble")
	}

	app := &Application{
		opts:      opts,
		clipboard: opts.Clipboard,
		log:       opts.Logger.WithComponent("app"),
		events:    make(chan editor.Event, 64),
		done:      make(chan struct{}),
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		app.log.Warn("config %s: %v; using defaults", opts.ConfigPath, err)
		cfg = config.Default()
	}
	app.cfg = cfg
	app.servers = NewServerPool(opts.Spawn, app.post, opts.Logger)

	root, _ := os.Getwd()
	app.editor = editor.New(cfg, editor.Options{
		Client: lsp.ClientInfo{
			Name:      "nimble",
			Version:   opts.Version,
			ProcessID: os.Getpid(),
			RootURI:   lsp.URIFromPath(root),
		},
		Logger: opts.Logger,
		Width:  80,
		Height: 24,
	})

	for _, file := range opts.Files {
		if err := app.open(file); err != nil {
			app.log.Warn("%v", err)
		}
	}
	if app.editor.Active() == nil {
		_, eff := app.editor.Open("", "")
		app.pending = append(app.pending, eff)
	}
	return app, nil
}

// open reads path into a new document. A file that does not exist yet
// opens empty.
func (app *Application) open(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return NewOperationError("open", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return NewOperationError("open", path, err)
	}
	_, eff := app.editor.Open(abs, string(data))
	app.pending = append(app.pending, eff)
	return nil
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.backend = b
	return nil
}

// Editor returns the editor core. It must only be used from the event
// loop or before Run.
func (app *Application) Editor() *editor.Editor {
	return app.editor
}

// Config returns the configuration the application started with.
func (app *Application) Config() *config.Config {
	return app.cfg
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Run initializes the backend and runs the event loop until the editor
// quits, ctx is cancelled or Shutdown is called. A quit from the editor
// returns ErrQuit.
func (app *Application) Run(ctx context.Context) error {
	app.mu.Lock()
	b := app.backend
	app.mu.Unlock()
	if b == nil {
		return ErrNoBackend
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer b.Shutdown()
	defer app.shutdown()

	app.applyTheme(app.cfg)
	app.watch()
	go app.pollInput(b)

	w, h := b.Size()
	app.editor.HandleEvent(editor.ResizeEvent(w, h))
	for _, eff := range app.pending {
		app.apply(eff)
	}
	app.pending = nil
	b.Draw(app.editor)

	return app.eventLoop(ctx)
}

// Shutdown stops a running event loop.
func (app *Application) Shutdown() {
	app.once.Do(func() { close(app.done) })
}

// post queues an event for the loop. Events posted after shutdown are
// dropped.
func (app *Application) post(ev editor.Event) {
	select {
	case app.events <- ev:
	case <-app.done:
	}
}

// pollInput forwards backend input until the backend shuts down.
func (app *Application) pollInput(b backend.Backend) {
	for {
		ev, ok := b.PollEvent()
		if !ok {
			return
		}
		app.post(ev)
	}
}

// watch reloads the config file on change.
func (app *Application) watch() {
	if app.opts.ConfigPath == "" {
		return
	}
	w, err := config.NewWatcher(app.opts.ConfigPath, func(cfg *config.Config, err error) {
		if err != nil {
			app.log.Warn("config reload: %v", err)
			return
		}
		app.post(editor.ConfigEvent(cfg))
	}, config.WithLogger(app.opts.Logger))
	if err != nil {
		app.log.Warn("watching %s: %v", app.opts.ConfigPath, err)
		return
	}
	app.watcher = w
}

// applyTheme builds the backend colors from cfg. Invalid colors are logged
// and keep their defaults.
func (app *Application) applyTheme(cfg *config.Config) {
	theme, err := backend.NewTheme(cfg.Theme.Colors)
	if err != nil {
		app.log.Warn("theme: %v", err)
	}
	app.backend.SetTheme(theme)
}

// shutdown says goodbye to the servers and releases resources.
func (app *Application) shutdown() {
	app.apply(app.editor.Shutdown())

	ctx, cancel := context.WithTimeout(context.Background(), app.opts.ShutdownTimeout)
	defer cancel()

	app.Shutdown()
	app.servers.Close(ctx)
	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			app.log.Debug("closing watcher: %v", err)
		}
	}
	if app.blink != nil {
		app.blink.Stop()
	}
}
