package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/napolitain/ironquest/internal/app"
	"github.com/napolitain/ironquest/internal/converter"
	"github.com/napolitain/ironquest/internal/logger"
	"github.com/napolitain/ironquest/internal/models"
	"github.com/napolitain/ironquest/internal/service"
	"github.com/napolitain/ironquest/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to YAML config file")
	addr       = flag.String("addr", "", "Listen address (overrides config)")
	dataDir    = flag.String("data", "", "Path to data directory (overrides config)")
)

const (
	// maxBodyBytes bounds POSTed parameter documents
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// server implements the quest planning HTTP API
type server struct {
	svc   *service.Service
	plans *store.Store
}

func newServer(svc *service.Service, plans *store.Store) *server {
	return &server{svc: svc, plans: plans}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /quests", s.handleQuests)
	mux.HandleFunc("GET /quests/path", s.handlePath)
	mux.HandleFunc("POST /quests/path", s.handlePath)
	mux.HandleFunc("GET /quests/path/compare", s.handleCompare)
	mux.HandleFunc("GET /plans/{id}", s.handlePlan)
	return logRequests(mux)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleQuests(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	quests, err := s.svc.Quests(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, converter.ModelToQuestDTOs(quests))
}

func (s *server) handlePath(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.svc.Path(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, converter.ResultToPathDTO(result))
}

func (s *server) handleCompare(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	results, err := s.svc.Compare(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	paths := make([]converter.PathDTO, 0, len(results))
	for _, res := range results {
		paths = append(paths, converter.ModelToPathDTO(res.Path))
	}
	writeJSON(w, http.StatusOK, paths)
}

func (s *server) handlePlan(w http.ResponseWriter, r *http.Request) {
	if s.plans == nil {
		writeError(w, http.StatusNotFound, errors.New("plan history is disabled"))
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rec, err := s.plans.GetPlan(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// parseRequest reads parameters from the query string, or from a JSON body
// on POST
func parseRequest(r *http.Request) (service.Request, error) {
	var dto converter.ParametersDTO
	if r.Method == http.MethodPost {
		dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&dto); err != nil {
			return service.Request{}, err
		}
	} else {
		var err error
		if dto, err = converter.QueryToParametersDTO(r.URL.Query()); err != nil {
			return service.Request{}, err
		}
	}
	return converter.ParametersDTOToRequest(dto)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, models.ErrQuestNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUnknownAlgorithm):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrBestQuestNotFound), errors.Is(err, models.ErrLampSkillsNotFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusRecorder captures the status code for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("Handled request", "method", r.Method, "path", r.URL.Path,
			"status", rec.status, "duration", time.Since(start))
	})
}

func main() {
	flag.Parse()

	cfg, err := app.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dataDir != "" {
		cfg.Data.Dir = *dataDir
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer a.Close()

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      newServer(a.Service, a.Store).routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}
	logger.Info("HTTP server listening", "addr", ln.Addr().String(), "quests", a.Catalog.Len())

	if err := serve(ctx, httpServer, ln); err != nil {
		log.Fatalf("Failed to serve: %v", err)
	}
	logger.Info("HTTP server stopped")
}

// serve runs srv on ln until ctx is cancelled, then waits for in-flight
// requests to drain or shutdownTimeout to pass
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	// Serve returns as soon as Shutdown starts
	return <-done
}
