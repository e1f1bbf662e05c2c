package app

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"sync"

	"github.com/dshills/nimble/internal/config"
	"github.com/dshills/nimble/internal/editor"
	"github.com/dshills/nimble/internal/logging"
	"github.com/dshills/nimble/internal/lsp"
)

// Transport is the stdio of a started language server.
type Transport struct {
	Stdout io.Reader
	Stdin  io.WriteCloser
	// Wait blocks until the server exits. It is called after Stdout ends.
	Wait func() error
	// Kill stops a server that did not exit on its own.
	Kill func() error
}

// SpawnFunc starts the server configured for a language.
type SpawnFunc func(ctx context.Context, lang config.LanguageConfig) (*Transport, error)

// ExecSpawn starts the server as a child process.
func ExecSpawn(ctx context.Context, lang config.LanguageConfig) (*Transport, error) {
	cmd := exec.CommandContext(ctx, lang.Server, lang.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &Transport{
		Stdout: stdout,
		Stdin:  stdin,
		Wait:   cmd.Wait,
		Kill:   func() error { return cmd.Process.Kill() },
	}, nil
}

// process is one running server.
type process struct {
	language  string
	conn      *lsp.Conn
	transport *Transport
	done      chan struct{}
}

// ServerPool runs language servers and feeds their messages back to the
// event loop as editor events.
type ServerPool struct {
	spawn SpawnFunc
	post  func(editor.Event)
	log   *logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	procs map[string]*process
	wg    sync.WaitGroup
}

// NewServerPool creates a pool. post must not block indefinitely.
func NewServerPool(spawn SpawnFunc, post func(editor.Event), log *logging.Logger) *ServerPool {
	if spawn == nil {
		spawn = ExecSpawn
	}
	if log == nil {
		log = logging.Null()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ServerPool{
		spawn:  spawn,
		post:   post,
		log:    log.WithComponent("servers"),
		ctx:    ctx,
		cancel: cancel,
		procs:  make(map[string]*process),
	}
}

// Start launches the server for lang unless it is already running.
func (p *ServerPool) Start(lang config.LanguageConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.procs[lang.ID]; ok {
		return nil
	}
	tr, err := p.spawn(p.ctx, lang)
	if err != nil {
		return NewOperationError("start", lang.Server, err)
	}

	conn := lsp.NewConn(tr.Stdout, tr.Stdin, tr.Stdin)
	conn.SetLogger(p.log)
	proc := &process{language: lang.ID, conn: conn, transport: tr, done: make(chan struct{})}
	p.procs[lang.ID] = proc

	p.wg.Add(1)
	go p.run(proc)
	p.log.Info("started %s for %s", lang.Server, lang.ID)
	return nil
}

// run forwards a server's messages until its output ends, then reports
// the exit.
func (p *ServerPool) run(proc *process) {
	defer p.wg.Done()

	bodies := make(chan []byte)
	errc := make(chan error, 1)
	go func() {
		errc <- proc.conn.Listen(p.ctx, bodies)
		close(bodies)
	}()
	for body := range bodies {
		p.post(editor.ServerEvent(proc.language, body))
	}
	if err := <-errc; err != nil && !errors.Is(err, context.Canceled) {
		p.log.Warn("%s: %v", proc.language, err)
	}

	_ = proc.conn.Close()
	if err := proc.transport.Wait(); err != nil {
		p.log.Debug("%s exited: %v", proc.language, err)
	}

	p.mu.Lock()
	if p.procs[proc.language] == proc {
		delete(p.procs, proc.language)
	}
	p.mu.Unlock()
	close(proc.done)

	p.post(editor.ServerExitEvent(proc.language))
}

// Send writes msg to a language's server.
func (p *ServerPool) Send(language string, msg lsp.Message) error {
	p.mu.Lock()
	proc, ok := p.procs[language]
	p.mu.Unlock()
	if !ok {
		return NewOperationError("send "+msg.Method, language, ErrServerNotRunning)
	}
	if err := proc.conn.Send(msg); err != nil {
		return NewOperationError("send "+msg.Method, language, err)
	}
	return nil
}

// Running returns the languages with a running server.
func (p *ServerPool) Running() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	langs := make([]string, 0, len(p.procs))
	for lang := range p.procs {
		langs = append(langs, lang)
	}
	return langs
}

// Close closes every server's input and waits for the servers to exit,
// killing those still running when ctx is done.
func (p *ServerPool) Close(ctx context.Context) {
	p.mu.Lock()
	procs := make([]*process, 0, len(p.procs))
	for _, proc := range p.procs {
		procs = append(procs, proc)
	}
	p.mu.Unlock()

	for _, proc := range procs {
		_ = proc.conn.Close()
	}
	for _, proc := range procs {
		select {
		case <-proc.done:
		case <-ctx.Done():
			p.log.Warn("%s did not exit, killing it", proc.language)
			if err := proc.transport.Kill(); err != nil {
				p.log.Debug("kill %s: %v", proc.language, err)
			}
		}
	}
	p.cancel()
	p.wg.Wait()
}
