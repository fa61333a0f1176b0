package worker

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aerogrid/aerogrid/internal/api/middleware"
	"github.com/aerogrid/aerogrid/internal/api/response"
	"github.com/aerogrid/aerogrid/internal/ingest"
)

// maxBackfillDays caps operator-triggered backfills; the provider keeps
// roughly two years of hourly data online.
const maxBackfillDays = 730

// AdminServer exposes operator endpoints on the worker for triggering
// imports and backfills. Jobs run asynchronously; the endpoints answer
// 202 as soon as the job is started.
type AdminServer struct {
	scheduler *ingest.Scheduler
	logger    zerolog.Logger

	mu      sync.Mutex
	running bool
}

// NewAdminServer creates a new AdminServer.
func NewAdminServer(scheduler *ingest.Scheduler, logger zerolog.Logger) *AdminServer {
	return &AdminServer{scheduler: scheduler, logger: logger}
}

// Router builds the admin HTTP routes.
func (s *AdminServer) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.Recovery(s.logger))

	r.Get("/health", s.health)
	r.Post("/admin/import", s.triggerImport)
	r.Post("/admin/backfill", s.triggerBackfill)
	return r
}

// health handles GET /health for the worker's liveness probe.
func (s *AdminServer) health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// triggerImport handles POST /admin/import.
func (s *AdminServer) triggerImport(w http.ResponseWriter, r *http.Request) {
	if !s.tryStart() {
		response.JSON(w, r, http.StatusConflict, map[string]string{"status": "a job is already running"})
		return
	}

	go func() {
		defer s.finish()
		s.scheduler.RunPeriodicImport(context.Background())
	}()

	response.Accepted(w, r, map[string]string{"status": "import started"})
}

// triggerBackfill handles POST /admin/backfill?days=N.
func (s *AdminServer) triggerBackfill(w http.ResponseWriter, r *http.Request) {
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil || days < 1 || days > maxBackfillDays {
		response.BadRequest(w, r, "days must be an integer between 1 and "+strconv.Itoa(maxBackfillDays))
		return
	}

	if !s.tryStart() {
		response.JSON(w, r, http.StatusConflict, map[string]string{"status": "a job is already running"})
		return
	}

	go func() {
		defer s.finish()
		s.scheduler.RunBackfill(context.Background(), days)
	}()

	response.Accepted(w, r, map[string]interface{}{
		"status": "backfill started",
		"days":   days,
	})
}

// tryStart claims the single job slot. Backfills hammer the provider, so
// only one job runs at a time.
func (s *AdminServer) tryStart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *AdminServer) finish() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}
