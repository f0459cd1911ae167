package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/DaigaTahkapaa/Project-2-Weather-App/internal/logger"
	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/config"
	"github.com/DaigaTahkapaa/Project-2-Weather-App/pkg/geocode"
)

// maxGeocodeLimit mirrors the cap enforced by the upstream geocoding
// endpoint, which never returns more than five candidates.
const maxGeocodeLimit = 5

// Server is the proxy's HTTP front. It exposes /api/geocode and
// /api/weather for the client and forwards them upstream with the API
// key attached server-side.
type Server struct {
	addr     string
	upstream *Upstream
	httpSrv  *http.Server
	log      *log.Logger
}

// New builds a server from its config section. The API key stays inside
// the upstream client and is never echoed back to callers.
func New(cfg config.ServerConfig, apiKey string) *Server {
	return &Server{
		addr:     cfg.ListenAddr,
		upstream: NewUpstream(cfg.UpstreamURL, apiKey, cfg.RequestTimeout()),
		log:      logger.New("proxy"),
	}
}

// Handler returns the route table. Split out from Start so tests can
// drive it through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/geocode", s.handleGeocode)
	mux.HandleFunc("/api/weather", s.handleWeather)
	return mux
}

// Start listens on the configured address and blocks until Shutdown is
// called or the listener fails.
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}
	s.log.Infof("Listening on %s", s.addr)
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	s.log.Info("Shutting down")
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing 'q' parameter")
		return
	}

	limit := maxGeocodeLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid 'limit' parameter")
			return
		}
		if n >= 1 && n <= maxGeocodeLimit {
			limit = n
		}
	}

	start := time.Now()
	locs, err := s.upstream.Geocode(r.Context(), query, limit)
	if err != nil {
		s.reportUpstreamFailure(w, r, "geocode", err)
		return
	}
	if locs == nil {
		locs = []geocode.Location{}
	}

	s.log.Debugf("Took [ %v ] to geocode '%s' (%d candidates)", time.Since(start), query, len(locs))
	writeJSON(w, http.StatusOK, locs)
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		writeError(w, http.StatusBadRequest, "invalid 'lat' parameter")
		return
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		writeError(w, http.StatusBadRequest, "invalid 'lon' parameter")
		return
	}

	units := r.URL.Query().Get("units")
	if units == "" {
		units = "metric"
	}
	if units != "metric" && units != "imperial" {
		writeError(w, http.StatusBadRequest, "invalid 'units' parameter")
		return
	}

	start := time.Now()
	body, err := s.upstream.Weather(r.Context(), lat, lon, units)
	if err != nil {
		s.reportUpstreamFailure(w, r, "weather", err)
		return
	}

	s.log.Debugf("Took [ %v ] for weather at %.4f,%.4f", time.Since(start), lat, lon)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		s.log.Errorf("Writing weather response: %v", err)
	}
}

// reportUpstreamFailure maps upstream errors onto proxy responses. When
// the client already hung up there is nobody left to answer, so the
// failure is only logged.
func (s *Server) reportUpstreamFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	if r.Context().Err() != nil {
		s.log.Debugf("Client left during %s request", op)
		return
	}

	var ue *UpstreamError
	if errors.As(err, &ue) {
		s.log.Warnf("Upstream %s failed: status %d", op, ue.Status)
		writeError(w, http.StatusBadGateway, ue.Error())
		return
	}

	s.log.Warnf("Upstream %s failed: %v", op, err)
	writeError(w, http.StatusBadGateway, "upstream request failed")
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
