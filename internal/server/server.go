// Package server serves the interactive orbit page.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/solarviz/orbits/internal/render"
)

const maxClickBody = 1 << 20

// Config holds HTTP server settings.
type Config struct {
	Addr              string
	PlotlyURL         string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Server serves a figure built once before startup.
type Server struct {
	cfg     Config
	logger  *slog.Logger
	metrics *Metrics

	page       []byte
	figureJSON []byte
	handler    http.Handler
}

// ClickRequest is the subset of a plotly_click event posted by the page.
type ClickRequest struct {
	Points []struct {
		CustomData []any `json:"customdata"`
	} `json:"points"`
}

// ClickResponse carries the text shown under the plot.
type ClickResponse struct {
	Text string `json:"text"`
}

// New renders fig once and prepares the routes.
func New(cfg Config, fig *render.Figure, logger *slog.Logger, metrics *Metrics) (*Server, error) {
	if fig == nil {
		return nil, errors.New("server requires a figure")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = 5 * time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	var page bytes.Buffer
	if err := render.WritePage(&page, fig, render.PageOptions{
		Interactive: true,
		PlotlyURL:   cfg.PlotlyURL,
	}); err != nil {
		return nil, err
	}
	figureJSON, err := json.Marshal(fig)
	if err != nil {
		return nil, fmt.Errorf("failed to encode figure: %w", err)
	}

	points := 0
	for _, tr := range fig.Data {
		points += len(tr.X)
	}
	metrics.SetFigureSize(len(fig.Data), len(fig.Frames), points)

	s := &Server{
		cfg:        cfg,
		logger:     logger,
		metrics:    metrics,
		page:       page.Bytes(),
		figureJSON: figureJSON,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/figure", s.handleFigure)
	mux.HandleFunc("POST /api/click", s.handleClick)
	mux.HandleFunc("GET /healthcheck", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())
	s.handler = metrics.Middleware(mux)

	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Serve listens on the configured address until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln and shuts down gracefully once ctx is done.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(ln)
	}()
	s.logger.Info("Serving orbit page", "addr", ln.Addr().String())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		s.logger.Info("Server stopped")
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(s.page)
}

func (s *Server) handleFigure(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.figureJSON)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxClickBody))
	if err := dec.Decode(&req); err != nil {
		s.logger.Debug("Rejected click payload", "error", err)
		http.Error(w, "invalid click payload", http.StatusBadRequest)
		return
	}

	text := render.NoSelectionText
	if len(req.Points) > 0 {
		text = render.DescribePoint(req.Points[0].CustomData)
	}
	writeJSON(w, http.StatusOK, ClickResponse{Text: text})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
