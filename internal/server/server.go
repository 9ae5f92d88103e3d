// Package server hosts a directory of JSON files together with a manifest
// listing them, which is what the browser reads.
package server

import (
	"context"
	"mime"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"jsonview/internal/config"
	"jsonview/internal/errors"
	"jsonview/internal/log"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Config holds server configuration.
type Config struct {
	Addr     string
	Dir      string
	Manifest string   // manifest path relative to Dir
	Include  []string // globs for the generated manifest
	Watch    bool     // regenerate the manifest when files change
	CORS     bool     // allow cross-origin reads
}

// ConfigFrom picks the server settings out of the application config.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		Addr:     cfg.Server.Addr,
		Dir:      cfg.Server.Dir,
		Manifest: cfg.Source.Manifest,
		Include:  cfg.Server.Include,
		Watch:    cfg.Server.Watch,
		CORS:     cfg.Server.CORS,
	}
}

// Server serves the files below a directory and their manifest.
type Server struct {
	cfg      Config
	root     string
	manifest *Manifest
	router   chi.Router

	mu         sync.Mutex
	httpServer *http.Server
}

// New creates a server for cfg.Dir.
func New(cfg Config) (*Server, error) {
	if cfg.Manifest == "" {
		cfg.Manifest = "files.json"
	}
	cfg.Manifest = strings.TrimPrefix(path.Clean("/"+cfg.Manifest), "/")

	root, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, errors.NewFileError("invalid directory", cfg.Dir, errors.InvalidPath, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.NewFileError("cannot access directory", root, errors.FileNotFound, err)
	}
	if !info.IsDir() {
		return nil, errors.NewFileError("not a directory", root, errors.InvalidPath, nil)
	}

	manifest, err := NewManifest(root, cfg.Manifest, cfg.Include)
	if err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, root: root, manifest: manifest}
	s.router = s.buildRouter()
	return s, nil
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	if s.cfg.CORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/"+s.cfg.Manifest, s.handleManifest)
	r.Get("/*", s.handleFile)

	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Manifest returns the generated manifest.
func (s *Server) Manifest() *Manifest { return s.manifest }

// Root returns the absolute directory being served.
func (s *Server) Root() string { return s.root }

// handleManifest serves the manifest file if one exists on disk, otherwise
// the generated list.
func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	p := filepath.Join(s.root, filepath.FromSlash(s.cfg.Manifest))
	if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
		s.serveFile(w, r, p, info)
		return
	}

	data, err := s.manifest.Bytes()
	if err != nil {
		log.LogWithError(err).Error("Cannot generate manifest")
		http.Error(w, "cannot generate manifest", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(data)
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	p, ok := s.resolve(chi.URLParam(r, "*"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	info, err := os.Stat(p)
	if err != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}
	s.serveFile(w, r, p, info)
}

// resolve maps a URL path to a file below the root. Hidden segments and
// anything escaping the root are refused.
func (s *Server) resolve(name string) (string, bool) {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if name == "" {
		return "", false
	}
	for _, seg := range strings.Split(name, "/") {
		if strings.HasPrefix(seg, ".") {
			return "", false
		}
	}
	local := filepath.FromSlash(name)
	if !filepath.IsLocal(local) {
		return "", false
	}
	return filepath.Join(s.root, local), true
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, p string, info os.FileInfo) {
	f, err := os.Open(p)
	if err != nil {
		log.LogWithFields(log.F("path", p), log.F("error", err)).Warn("Cannot open file")
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	if r.URL.Query().Get("download") == "1" {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": info.Name()}))
	}
	if strings.EqualFold(filepath.Ext(p), ".json") {
		w.Header().Set("Content-Type", "application/json")
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
// With Watch set the manifest is regenerated whenever the tree changes.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	var wg sync.WaitGroup
	if s.cfg.Watch {
		w, err := NewWatcher()
		if err != nil {
			ln.Close()
			return err
		}
		if err := w.AddTree(s.root); err != nil {
			w.Stop()
			ln.Close()
			return err
		}
		if err := w.Start(); err != nil {
			w.Stop()
			ln.Close()
			return err
		}
		defer func() {
			w.Stop()
			wg.Wait()
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			for change := range w.Changes() {
				log.LogWithFields(log.F("file", change.Path), log.F("op", change.Op.String())).Debug("Directory changed")
				s.manifest.Invalidate()
			}
		}()
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	log.LogWithFields(log.F("addr", ln.Addr().String()), log.F("directory", s.root)).Info("Serving files")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	<-errCh
	log.Info("Server stopped")
	return err
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv != nil {
		return srv.Shutdown(ctx)
	}
	return nil
}

// requestLogger logs each request through the application logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.LogWithFields(
				log.F("request_id", middleware.GetReqID(r.Context())),
				log.F("method", r.Method),
				log.F("path", r.URL.Path),
				log.F("status", ww.Status()),
				log.F("bytes", ww.BytesWritten()),
				log.F("duration", time.Since(start).String()),
			).Info("Request")
		}()
		next.ServeHTTP(ww, r)
	})
}
