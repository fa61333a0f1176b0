package worker_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/aerogrid/aerogrid/internal/ingest"
	"github.com/aerogrid/aerogrid/internal/measurement"
	"github.com/aerogrid/aerogrid/internal/station"
	"github.com/aerogrid/aerogrid/internal/worker"
)

func newAdminRouter(t *testing.T) http.Handler {
	t.Helper()

	stations := station.NewInMemoryRepository()
	measurements := measurement.NewInMemoryRepository(stations)
	reconciler := ingest.NewReconciler(ingest.ReconcilerConfig{
		Stations:     stations,
		Measurements: measurements,
		Logger:       zerolog.Nop(),
	})
	scheduler := ingest.NewScheduler(ingest.SchedulerConfig{
		Reconciler:   reconciler,
		Measurements: measurements,
		Logger:       zerolog.Nop(),
		Pacing:       time.Millisecond,
	})

	return worker.NewAdminServer(scheduler, zerolog.Nop()).Router()
}

func TestAdminServer_Health(t *testing.T) {
	router := newAdminRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminServer_TriggerImport(t *testing.T) {
	router := newAdminRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/import", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestAdminServer_TriggerBackfill_InvalidDays(t *testing.T) {
	router := newAdminRouter(t)

	for _, q := range []string{"", "days=0", "days=-1", "days=9999", "days=abc"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/backfill?"+q, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestAdminServer_TriggerBackfill(t *testing.T) {
	router := newAdminRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/backfill?days=2", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
}
