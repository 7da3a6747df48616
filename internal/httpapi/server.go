package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dshills/soracore/internal/diag"
	"github.com/dshills/soracore/internal/facade"
	"github.com/dshills/soracore/internal/hub"
	"github.com/dshills/soracore/internal/metrics"
	"github.com/dshills/soracore/internal/ui"
)

// maxBody bounds request bodies.
const maxBody = 1 << 20

// FacadeInfo describes one facade.
type FacadeInfo struct {
	Name      string          `json:"name"`
	Providers []string        `json:"providers"`
	Ops       []facade.OpInfo `json:"ops"`
}

// ChannelInfo describes one channel.
type ChannelInfo struct {
	Name      string `json:"name"`
	Payload   string `json:"payload"`
	Listeners int    `json:"listeners"`
}

// VolumeRequest is the body of POST /audio/volume.
type VolumeRequest struct {
	Group string  `json:"group"`
	Value float64 `json:"value"`
}

// ScreenRequest is the body of POST /ui/screens/{screen}.
type ScreenRequest struct {
	Visible bool `json:"visible"`
}

// LevelRequest is the body of PUT /log/level.
type LevelRequest struct {
	Level string `json:"level"`
}

// Server serves the debug surface of one hub.
type Server struct {
	hub    *hub.Hub
	report diag.Reporter
	router chi.Router
}

// New builds the router for h. Request metrics are registered on the hub's
// registry, so New must be called once per hub.
func New(h *hub.Hub) *Server {
	s := &Server{
		hub:    h,
		report: diag.For(h.Sink(), "httpapi"),
	}
	s.router = s.routes(metrics.NewHTTP(h.Registry()))
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes(m *metrics.HTTP) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(loggingMiddleware(s.report))
	r.Use(metricsMiddleware(m))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if s.hub.Host.ShuttingDown() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("shutting down"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Get("/metrics", promhttp.HandlerFor(s.hub.Registry(), promhttp.HandlerOpts{}).ServeHTTP)

	r.Get("/facades", s.listFacades)
	r.Get("/channels", s.listChannels)
	r.Post("/channels/{name}/emit", s.emit)
	r.Get("/prefs", s.listPrefs)
	r.Put("/log/level", s.setLogLevel)
	r.Post("/audio/volume", s.setVolume)
	r.Post("/ui/screens/{screen}", s.showScreen)
	r.Post("/levels/{level}/load", s.loadLevel)
	return r
}

func (s *Server) listFacades(w http.ResponseWriter, r *http.Request) {
	facades := s.hub.Facades()
	out := make([]FacadeInfo, 0, len(facades))
	for _, f := range facades {
		out = append(out, FacadeInfo{Name: f.Name(), Providers: f.Active(), Ops: f.Ops()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"facades": out})
}

func (s *Server) listChannels(w http.ResponseWriter, r *http.Request) {
	names := s.hub.Catalog.Names()
	out := make([]ChannelInfo, 0, len(names))
	for _, n := range names {
		e, ok := s.hub.Catalog.Lookup(n)
		if !ok {
			continue
		}
		out = append(out, ChannelInfo{Name: n, Payload: e.PayloadType().String(), Listeners: e.Len()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"channels": out})
}

// emit decodes the optional JSON body into the channel's payload type. An
// empty body emits the zero value.
func (s *Server) emit(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	e, ok := s.hub.Catalog.Lookup(name)
	if !ok {
		writeJSONError(w, http.StatusNotFound, fmt.Sprintf("unknown channel %q", name))
		return
	}
	payload := reflect.New(e.PayloadType())
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(payload.Interface()); err != nil && !errors.Is(err, io.EOF) {
		writeJSONError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if err := e.EmitAny(payload.Elem().Interface()); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listPrefs(w http.ResponseWriter, r *http.Request) {
	out := map[string]float64{}
	for _, k := range s.hub.Prefs.Keys() {
		if v, ok := s.hub.Prefs.Float(k); ok {
			out[k] = v
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"prefs": out})
}

func (s *Server) setLogLevel(w http.ResponseWriter, r *http.Request) {
	var req LevelRequest
	if !decode(w, r, &req) {
		return
	}
	l, err := diag.ParseLevel(req.Level)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.hub.SetLogLevel(l)
	writeJSON(w, http.StatusOK, LevelRequest{Level: l.String()})
}

func (s *Server) setVolume(w http.ResponseWriter, r *http.Request) {
	var req VolumeRequest
	if !decode(w, r, &req) {
		return
	}
	g, ok := s.hub.Group(req.Group)
	if !ok {
		writeJSONError(w, http.StatusNotFound, fmt.Sprintf("unknown mixer group %q", req.Group))
		return
	}
	if math.IsNaN(req.Value) || req.Value < 0 {
		writeJSONError(w, http.StatusBadRequest, "value must be a non-negative number")
		return
	}
	s.hub.Audio.SetVolume(g, req.Value)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) showScreen(w http.ResponseWriter, r *http.Request) {
	screen, err := ui.ParseScreenType(chi.URLParam(r, "screen"))
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	var req ScreenRequest
	if !decode(w, r, &req) {
		return
	}
	s.hub.UI.ShowScreen(screen, req.Visible)
	w.WriteHeader(http.StatusNoContent)
}

// loadLevel runs the load synchronously; ?loading=false skips the loading
// screen.
func (s *Server) loadLevel(w http.ResponseWriter, r *http.Request) {
	show := true
	if v := r.URL.Query().Get("loading"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "loading must be a boolean")
			return
		}
		show = b
	}
	s.hub.Levels.Load(chi.URLParam(r, "level"), show)
	w.WriteHeader(http.StatusNoContent)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// ListenAndServe serves s on addr until ctx is done, then shuts down
// gracefully within five seconds. ready, if non-nil, receives the bound
// address once the listener is open.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("httpapi: listen %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if ready != nil {
		ready(ln.Addr())
	}
	s.report.Info("listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
