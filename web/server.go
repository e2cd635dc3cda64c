package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/guslan/c8vm"
)

const DefaultDisplayWriteTimeout = 250 * time.Millisecond

type Server struct {
	*c8vm.InMemoryKeyboard
	*c8vm.DummyBuzzer

	cpu      *c8vm.Cpu
	debugger *HttpDebugger

	mux *http.ServeMux

	socket       *websocket.Conn
	wsMutex      sync.Mutex
	writeTimeout time.Duration

	// commands run on the goroutine that owns the CPU
	commands chan func(cpu *c8vm.Cpu)
}

type ServerConfig struct {
	UseDebugger bool
	// StaticDir is served at the root, empty disables it
	StaticDir string
	// DisplayWriteTimeout bounds every screen update, a client that does not keep up is dropped
	DisplayWriteTimeout time.Duration
	CpuConfigs          []c8vm.ConfigCb
}
type ServerConfigCb func(config *ServerConfig)

func NewServer(configs ...ServerConfigCb) *Server {
	config := &ServerConfig{
		UseDebugger:         false,
		StaticDir:           "./static",
		DisplayWriteTimeout: DefaultDisplayWriteTimeout,
	}
	for _, cb := range configs {
		cb(config)
	}

	s := &Server{
		InMemoryKeyboard: c8vm.NewInMemoryKeyboard(),
		DummyBuzzer:      c8vm.NewDummyBuzzer(),

		mux:          http.NewServeMux(),
		commands:     make(chan func(cpu *c8vm.Cpu)),
		writeTimeout: config.DisplayWriteTimeout,
	}

	s.cpu = c8vm.NewCpu(c8vm.NewMemory(), s, s.InMemoryKeyboard, s.DummyBuzzer, config.CpuConfigs...)
	if config.UseDebugger {
		s.debugger = NewHttpDebugger(s.cpu)
		s.mux.Handle("/debugger", s.debugger)
	}

	s.routes(config.StaticDir)

	return s
}

func (server *Server) routes(staticDir string) {
	if staticDir != "" {
		server.mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}

	server.mux.HandleFunc("/start", server.command("Starting", func(cpu *c8vm.Cpu) {
		cpu.Start()
	}))
	server.mux.HandleFunc("/stop", server.command("Stopping", func(cpu *c8vm.Cpu) {
		cpu.Stop()
	}))
	server.mux.HandleFunc("/reset", server.command("Stopping and resetting", func(cpu *c8vm.Cpu) {
		cpu.Stop()
		cpu.Reset()
	}))
	server.mux.HandleFunc("/step", server.command("Single cycle", func(cpu *c8vm.Cpu) {
		if err := cpu.LoopOnce(); err != nil {
			slog.Error("Error running a single cycle", slog.Any("error", err))
		}
	}))
	server.mux.HandleFunc("/display", server.serveDisplay)
}

// ServeHTTP implements http.Handler.
func (server *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	server.mux.ServeHTTP(w, r)
}

func (server *Server) command(msg string, cmd func(cpu *c8vm.Cpu)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Type")

		w.Header().Set("Cache-Control", "no-cache")

		slog.Info(msg)
		if err := server.do(r.Context(), cmd); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		}
	}
}

// do runs cmd on the CPU goroutine and waits for it
func (server *Server) do(ctx context.Context, cmd func(cpu *c8vm.Cpu)) error {
	done := make(chan struct{})
	wrapped := func(cpu *c8vm.Cpu) {
		defer close(done)
		cmd(cpu)
	}

	select {
	case server.commands <- wrapped:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (server *Server) Speed(s uint) {
	server.cpu.SetSpeedInHz(s)
}

// LoadProgram loads the program into memory and sets the PC to the start-of-program address.
// It must be called before Run.
func (server *Server) LoadProgram(program []byte) error {
	return server.cpu.LoadProgram(program)
}

// Run owns the CPU until the context is done: it runs the frames and the commands sent by the handlers.
// A halted CPU keeps the server up so it can be reset.
func (server *Server) Run(ctx context.Context) error {
	if err := server.cpu.Boot(); err != nil {
		return err
	}

	ticker := time.NewTicker(c8vm.FrameDuration)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil

		case cmd := <-server.commands:
			cmd(server.cpu)

		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now

			// the CPU already logged the error when it halted
			_ = server.cpu.RunFrame(elapsed)
		}
	}
}

// Listen runs the CPU and serves the frontend until the context is done
func (server *Server) Listen(ctx context.Context, port int) error {
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: server,
	}

	go func() {
		if err := server.Run(ctx); err != nil {
			slog.Error("Error running the CPU", slog.Any("error", err))
		}
		httpServer.Close()
	}()

	slog.Info("Listening on port", slog.Int("port", port))

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}
