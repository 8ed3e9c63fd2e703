package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/uap-dashboard/internal/charts"
	"github.com/couchcryptid/uap-dashboard/internal/dashboard"
	"github.com/couchcryptid/uap-dashboard/internal/dataset"
	"github.com/couchcryptid/uap-dashboard/internal/domain"
)

// maxPNGSize caps the width and height query parameters of chart images.
const maxPNGSize = 4096

// Server exposes the dashboard page, its JSON API, static chart images, the
// live-update websocket, and the health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	svc        *dashboard.Service
	logger     *slog.Logger
}

// NewServer creates an HTTP server for svc. live serves the /ws endpoint.
func NewServer(addr string, svc *dashboard.Service, live http.Handler, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:    svc,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /api/v1/layout", s.handleLayout)
	mux.HandleFunc("GET /api/v1/charts", s.handleCharts)
	mux.HandleFunc("GET /api/v1/table", s.handleTable)
	mux.HandleFunc("GET /api/v1/validation", s.handleValidation)
	mux.HandleFunc("GET /charts/{file}", s.handleChartImage)
	mux.Handle("GET /ws", live)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := dashboard.RenderPage(&buf, s.svc.Layout()); err != nil {
		s.logger.Error("render page", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes()) //nolint:errcheck // client may have gone away
}

func (s *Server) handleLayout(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.svc.Layout())
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	figs, ok := s.figures(w, r, "http")
	if !ok {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, figs)
}

func (s *Server) handleTable(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.svc.Rows())
}

// validationReport summarizes the startup load.
type validationReport struct {
	Source       string            `json:"source"`
	LoadedAt     time.Time         `json:"loaded_at"`
	Observations int               `json:"observations"`
	Rejected     []domain.RowError `json:"rejected"`
}

func (s *Server) handleValidation(w http.ResponseWriter, _ *http.Request) {
	ds := s.svc.Dataset()
	rejected := ds.Rejected()
	if rejected == nil {
		rejected = []domain.RowError{}
	}
	sharedobs.WriteJSON(w, http.StatusOK, validationReport{
		Source:       ds.Source(),
		LoadedAt:     ds.LoadedAt(),
		Observations: ds.Len(),
		Rejected:     rejected,
	})
}

func (s *Server) handleChartImage(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(r.PathValue("file"), ".png")
	if !ok {
		writeError(w, http.StatusNotFound, "chart images are served as .png")
		return
	}
	width, err := sizeParam(r, "width", charts.DefaultWidth)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	height, err := sizeParam(r, "height", charts.DefaultHeight)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	figs, ok := s.figures(w, r, "png")
	if !ok {
		return
	}

	var buf bytes.Buffer
	err = charts.RenderPNG(&buf, name, figs, width, height)
	switch {
	case errors.Is(err, charts.ErrUnknownChart), errors.Is(err, charts.ErrNoData):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, charts.ErrNotRenderable):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.logger.Error("render chart image", "chart", name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes()) //nolint:errcheck // client may have gone away
}

// figures parses the filter query and recomputes the charts. On failure it
// writes the error response and returns false.
func (s *Server) figures(w http.ResponseWriter, r *http.Request, transport string) (charts.Figures, bool) {
	f, err := parseFilter(r, s.svc.DefaultFilter())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return charts.Figures{}, false
	}
	figs, err := s.svc.Figures(f, transport)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return charts.Figures{}, false
	}
	return figs, true
}

// parseFilter reads repeated country parameters and the inclusive year_min and
// year_max bounds. Missing parameters keep the values of def.
func parseFilter(r *http.Request, def dataset.Filter) (dataset.Filter, error) {
	q := r.URL.Query()
	f := def
	f.Countries = nil
	for _, c := range q["country"] {
		if c = strings.TrimSpace(c); c != "" {
			f.Countries = append(f.Countries, c)
		}
	}

	var err error
	if f.YearMin, err = intParam(q.Get("year_min"), "year_min", def.YearMin); err != nil {
		return dataset.Filter{}, err
	}
	if f.YearMax, err = intParam(q.Get("year_max"), "year_max", def.YearMax); err != nil {
		return dataset.Filter{}, err
	}
	return f, nil
}

func intParam(raw, name string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not an integer", name, raw)
	}
	return v, nil
}

func sizeParam(r *http.Request, name string, fallback int) (int, error) {
	v, err := intParam(r.URL.Query().Get(name), name, fallback)
	if err != nil {
		return 0, err
	}
	if v < 1 || v > maxPNGSize {
		return 0, fmt.Errorf("invalid %s: must be between 1 and %d", name, maxPNGSize)
	}
	return v, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
