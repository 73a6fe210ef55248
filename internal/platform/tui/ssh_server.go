package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tilt-platformer/internal/game"
	"github.com/vovakirdan/tilt-platformer/internal/levels"
	"github.com/vovakirdan/tilt-platformer/internal/multiplayer"
	"github.com/vovakirdan/tilt-platformer/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key is generated at ~/.platformer/host_key.
	HostKeyPath string

	IdleTimeout time.Duration

	Catalog     *levels.Catalog
	Store       *storage.Store // optional, owned by the caller
	Settings    game.Settings
	ScrollSpeed time.Duration
	Lobby       multiplayer.CoordinatorConfig
}

// DefaultSSHServerConfig returns a config with the stock address and timeouts.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		Settings:    game.DefaultSettings(),
		ScrollSpeed: 80 * time.Millisecond,
		Lobby:       multiplayer.DefaultCoordinatorConfig(),
	}
}

// SSHServer serves one terminal device per SSH session. Sessions can pair
// up through a shared coordinator and race each other.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	sessions *multiplayer.SessionRegistry
	coord    *multiplayer.Coordinator
	logger   *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("ssh server: no world catalog")
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "platformer-ssh",
	})

	sessions := multiplayer.NewSessionRegistry()
	srv := &SSHServer{
		config:   cfg,
		sessions: sessions,
		coord:    multiplayer.NewCoordinator(cfg.Lobby, sessions, logger.WithPrefix("lobby")),
		logger:   logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".platformer", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a device session for each SSH connection.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cs := multiplayer.NewChannelSession(multiplayer.NewSessionID(), multiplayer.DefaultEventBuffer)
	s.sessions.Register(cs)
	go func() {
		<-sshSession.Context().Done()
		s.coord.Send(multiplayer.SessionDisconnectedMsg{SessionID: cs.ID()})
		s.sessions.Unregister(cs.ID())
		cs.Close()
	}()

	model := NewSessionModel(SessionConfig{
		Catalog:     s.config.Catalog,
		Store:       s.config.Store,
		Settings:    s.config.Settings,
		ScrollSpeed: s.config.ScrollSpeed,
		Logger:      s.logger.With("user", sshSession.User()),
		Player:      sshSession.User(),
		Coordinator: s.coord,
		Session:     cs,
	}, pty.Window.Width, pty.Window.Height)

	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until SIGINT or SIGTERM.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "worlds", len(s.config.Catalog.Levels()))
	s.coord.Start()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
		s.logger.Info("shutting down...")
		return s.Shutdown()
	case err := <-errCh:
		s.coord.Stop()
		return fmt.Errorf("ssh server: %w", err)
	}
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.coord.Stop()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
