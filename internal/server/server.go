// Package server provides the local preview server for the site. Every
// page in the content directory is served through the shell, and when
// development hot reload is on, connected browsers reload over a
// WebSocket whenever a page changes.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/conneroisu/hikes/internal/config"
	"github.com/conneroisu/hikes/internal/content"
	"github.com/conneroisu/hikes/internal/document"
	"github.com/conneroisu/hikes/internal/errors"
	"github.com/conneroisu/hikes/internal/logging"
	"github.com/conneroisu/hikes/internal/site"
	"github.com/conneroisu/hikes/internal/watcher"
)

// PreviewServer serves content pages with live reload capability
type PreviewServer struct {
	config  *config.Config
	doc     *document.Document
	logger  logging.Logger
	hub     *hub
	watcher *watcher.FileWatcher

	pagesMutex sync.RWMutex
	pages      []content.Page

	serverMutex sync.Mutex
	httpServer  *http.Server

	shutdownOnce sync.Once
}

// UpdateMessage represents a message sent to the browser
type UpdateMessage struct {
	Type      string    `json:"type"`
	Paths     []string  `json:"paths,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates a preview server and loads the content directory once.
func New(cfg *config.Config, shell *site.Shell, logger logging.Logger) (*PreviewServer, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	logger = logger.WithComponent("server")

	opts := []document.Option{document.WithStylesheet(cfg.Build.Stylesheet)}
	if cfg.Development.HotReload {
		opts = append(opts, document.WithHeadComponent(reloadScript()))
	}

	s := &PreviewServer{
		config: cfg,
		doc:    document.New(shell, opts...),
		logger: logger,
		hub:    newHub(logger),
	}

	if err := s.Reload(); err != nil {
		return nil, err
	}

	if cfg.Development.HotReload {
		debounce := time.Duration(cfg.Development.DebounceMilli) * time.Millisecond
		fw, err := watcher.NewFileWatcher(debounce, logger)
		if err != nil {
			return nil, err
		}
		fw.AddFilter(watcher.AnyFilter(watcher.PageFilter, watcher.StylesheetFilter))
		fw.AddFilter(watcher.NoHiddenFilter)
		fw.AddHandler(s.handleFileChange)
		if err := fw.AddRecursive(cfg.Content.Dir); err != nil {
			_ = fw.Stop()
			return nil, errors.WrapIO(err, errors.ErrCodeFileNotFound, "watching content directory").WithPath(cfg.Content.Dir)
		}
		s.watcher = fw
	}

	return s, nil
}

// Reload re-reads the content directory.
func (s *PreviewServer) Reload() error {
	pages, err := content.Load(s.config.Content.Dir)
	if err != nil {
		return err
	}

	s.pagesMutex.Lock()
	s.pages = pages
	s.pagesMutex.Unlock()
	return nil
}

// Pages returns the currently loaded pages.
func (s *PreviewServer) Pages() []content.Page {
	s.pagesMutex.RLock()
	defer s.pagesMutex.RUnlock()
	return append([]content.Page(nil), s.pages...)
}

// Start listens on the configured address and serves until ctx is done.
func (s *PreviewServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		return errors.NewNetworkError(errors.ErrCodeInternalError, "listening on "+s.config.Address(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done or Shutdown is called.
func (s *PreviewServer) Serve(ctx context.Context, ln net.Listener) error {
	go s.hub.run(ctx)
	if s.watcher != nil {
		s.watcher.Start(ctx)
	}

	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	s.serverMutex.Lock()
	s.httpServer = server
	s.serverMutex.Unlock()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Preview server listening", "addr", ln.Addr().String(), "pages", len(s.Pages()))

	if err := server.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return errors.NewNetworkError(errors.ErrCodeInternalError, "server error", err)
	}
	return nil
}

// Shutdown stops the watcher, disconnects reload clients and drains the
// HTTP server.
func (s *PreviewServer) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info(ctx, "Shutting down preview server")

		if s.watcher != nil {
			_ = s.watcher.Stop()
		}

		s.hub.closeAll()

		s.serverMutex.Lock()
		server := s.httpServer
		s.serverMutex.Unlock()

		if server != nil {
			shutdownErr = server.Shutdown(ctx)
		}
	})

	return shutdownErr
}

func (s *PreviewServer) handleFileChange(events []watcher.ChangeEvent) error {
	ctx := context.Background()

	paths := make([]string, 0, len(events))
	for _, event := range events {
		s.logger.Debug(ctx, "File changed", "path", event.Path, "type", event.Type.String())
		paths = append(paths, event.Path)
	}

	if err := s.Reload(); err != nil {
		// A bad edit keeps the last good pages until it is fixed
		if errors.IsRecoverable(err) {
			s.logger.Warn(ctx, err, "Content reload rejected, keeping previous pages")
			return nil
		}
		return err
	}

	s.hub.broadcastMessage(UpdateMessage{
		Type:      "reload",
		Paths:     paths,
		Timestamp: time.Now(),
	})
	return nil
}
