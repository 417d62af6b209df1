// Package ioweb serves the description browser over HTTP: a JSON API
// for status, filter options and search, plus the embedded browser
// page. This is an impure I/O package.
package ioweb

import (
	"context"
	"embed"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gndesc/pkg/config"
	"github.com/gnames/gndesc/pkg/desc"
	"github.com/gnames/gndesc/pkg/index"
	"github.com/gnames/gnfmt"
)

//go:embed static
var staticFS embed.FS

// BuildState tracks the one-time index build. The only transitions
// are Building→Ready and Building→Failed; the state never reverts.
type BuildState int32

const (
	StateBuilding BuildState = iota
	StateReady
	StateFailed
)

func (s BuildState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "building"
	}
}

// Server holds the process-wide read-only state of the browser: the
// filter index once built, and the build state request handlers
// consult. Records and index are immutable after the build, so
// concurrent requests need no locking.
type Server struct {
	cfg    *config.Config
	loader desc.Loader

	state    atomic.Int32
	idx      atomic.Pointer[index.FilterIndex]
	buildErr atomic.Pointer[string]
}

// New creates a Server. The index is not built yet; Run builds it
// according to the configured startup strategy.
func New(cfg *config.Config, loader desc.Loader) *Server {
	return &Server{cfg: cfg, loader: loader}
}

// State returns the current build state.
func (s *Server) State() BuildState {
	return BuildState(s.state.Load())
}

// BuildIndex loads the corpus and builds the filter index, then flips
// the build state to ready. It runs exactly once, either blocking
// startup or in the background.
func (s *Server) BuildIndex(ctx context.Context) error {
	start := time.Now()
	records, err := s.loader.Load(ctx)
	if err != nil {
		msg := err.Error()
		s.buildErr.Store(&msg)
		s.state.Store(int32(StateFailed))
		return err
	}

	fi := index.Build(records)
	s.idx.Store(fi)
	s.state.Store(int32(StateReady))

	slog.Info("Filter index ready",
		"records", humanize.Comma(int64(fi.Len())),
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return nil
}

// Run starts the HTTP server and blocks until ctx is canceled or the
// listener fails. In background-build mode the server accepts
// requests immediately and /api/status reports progress; otherwise
// the index is built before the listener starts, and a build failure
// is fatal.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.Server.NoIndexWait {
		go func() {
			if err := s.BuildIndex(ctx); err != nil {
				slog.Error("Background index build failed", "error", err)
			}
		}()
	} else {
		if err := s.BuildIndex(ctx); err != nil {
			return err
		}
	}

	addr := net.JoinHostPort(
		s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.Port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		slog.Info("HTTP server stopped")
		return nil
	case err := <-errCh:
		return serverStartError(addr, err)
	}
}

// Handler returns the route table of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/options", s.handleOptions)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /", s.handleHome)
	return mux
}

type statusResponse struct {
	State   string `json:"state"`
	Records int    `json:"records"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	res := statusResponse{State: s.State().String()}
	if fi := s.idx.Load(); fi != nil {
		res.Records = fi.Len()
	}
	if msg := s.buildErr.Load(); msg != nil {
		res.Error = *msg
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	fi, ok := s.readyIndex(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, fi.Options())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	fi, ok := s.readyIndex(w)
	if !ok {
		return
	}

	q := r.URL.Query()
	filters := desc.Filters{
		Tags:     splitCSV(q.Get("tags")),
		Orders:   splitCSV(q.Get("order")),
		Families: splitCSV(q.Get("family")),
		Genera:   splitCSV(q.Get("genus")),
		Sources:  splitCSV(q.Get("source")),
		MinWords: intOr(q.Get("min_words"), 0),
	}
	page := intOr(q.Get("page"), 1)

	writeJSON(w, http.StatusOK, fi.Search(filters, page))
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "page not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// readyIndex returns the filter index, or answers 503 with the build
// state when the index is not ready yet.
func (s *Server) readyIndex(w http.ResponseWriter) (*index.FilterIndex, bool) {
	fi := s.idx.Load()
	if s.State() == StateReady && fi != nil {
		return fi, true
	}

	res := statusResponse{State: s.State().String()}
	if msg := s.buildErr.Load(); msg != nil {
		res.Error = *msg
	}
	writeJSON(w, http.StatusServiceUnavailable, res)
	return nil, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	enc := gnfmt.GNjson{}
	body, err := enc.Encode(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var res []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			res = append(res, part)
		}
	}
	return res
}

func intOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return i
}
