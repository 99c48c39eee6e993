//go:build integration

package router

// End-to-end run against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"asistencia/internal/infra"
	"asistencia/internal/model"
	"asistencia/internal/repository"
	"asistencia/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

type recordingWriter struct{ ranges chan string }

func (w *recordingWriter) Configured() bool { return true }

func (w *recordingWriter) UpdateValues(_ context.Context, rangeA1 string, _ [][]interface{}) error {
	w.ranges <- rangeA1
	return nil
}

func TestIntegration_PostgresRedis(t *testing.T) {
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("asistencia_test"),
		tcPostgres.WithUsername("asistencia"),
		tcPostgres.WithPassword("asistencia"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })
	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })
	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := infra.NewDatabase("postgres", pgURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(rdURL)
	require.NoError(t, err)
	seedSuperAdmin(t, db)

	configRepo := repository.NewConfigRepository(db)
	require.NoError(t, configRepo.Upsert(ctx, model.ClaveSheetsSyncEnabled, "true"))

	writer := &recordingWriter{ranges: make(chan string, 16)}
	syncWorker := worker.NewSheetsSyncWorker(writer, configRepo,
		repository.NewEmpleadoRepository(db),
		repository.NewAsistenciaRepository(db),
		repository.NewPuntoRepository(db),
	)
	dispatcher := worker.NewDispatcher(rdb, syncWorker, 1)
	workerCtx, cancel := context.WithCancel(ctx)
	workers := worker.StartWorkerPool(workerCtx, rdb, syncWorker, 1)
	t.Cleanup(func() {
		dispatcher.Wait()
		cancel()
		workers.Wait()
	})

	gin.SetMode(gin.TestMode)
	api := apiClient{t: t, r: New(testConfig(), db, rdb, dispatcher)}
	token := api.login("admin", "Admin123")

	// Attendance rule enforced by the Postgres unique index and service lock.
	code, _ := api.do(http.MethodPost, "/api/attendance", marcacion("ENTRADA"), "")
	require.Equal(t, http.StatusCreated, code)
	code, env := api.do(http.MethodPost, "/api/attendance", marcacion("ENTRADA"), "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Ya registraste entrada hoy", env.Error)

	select {
	case r := <-writer.ranges:
		assert.Equal(t, "Asistencias!A1", r)
	case <-time.After(15 * time.Second):
		t.Fatal("sync job never reached the sheet writer")
	}

	// Point replacement is transactional on Postgres too.
	code, _ = api.do(http.MethodPut, "/api/config/points",
		[]map[string]any{{"id": "p1", "nombre": "Portería", "lat": -12.0, "lng": -77.0}}, token)
	require.Equal(t, http.StatusOK, code)
	code, _ = api.do(http.MethodPut, "/api/config/points",
		[]map[string]any{{"id": "q1", "nombre": "Oficina", "lat": -12.1, "lng": -77.1, "activo": false}}, token)
	require.Equal(t, http.StatusOK, code)
	code, env = api.do(http.MethodGet, "/api/config/points", nil, "")
	require.Equal(t, http.StatusOK, code)
	var puntos []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &puntos))
	assert.Empty(t, puntos, "only the inactive q1 remains")

	code, env = api.do(http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, code)
	var h map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &h))
	assert.Equal(t, "connected", h["redis"])
	assert.EqualValues(t, 0, h["dlq"])
	assert.NotContains(t, h, "ultima_falla_sync")

	// A parked sync failure shows up in health without its error text.
	raw, _ := json.Marshal(worker.SheetsSyncPayload{Tabla: worker.TablaPuntos})
	worker.SendToDLQ(ctx, rdb, worker.QueueSheetsSync, worker.Job{Type: worker.JobSheetsSync, Payload: raw}, "quota exceeded")
	code, env = api.do(http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, code)
	var h2 struct {
		DLQ   int64 `json:"dlq"`
		Falla struct {
			Tabla   string `json:"tabla"`
			FallaEn string `json:"falla_en"`
		} `json:"ultima_falla_sync"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &h2))
	assert.EqualValues(t, 1, h2.DLQ)
	assert.Equal(t, worker.TablaPuntos, h2.Falla.Tabla)
	assert.NotEmpty(t, h2.Falla.FallaEn)
	assert.NotContains(t, string(env.Data), "quota exceeded")
}
