package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"asistencia/internal/apierror"
	"asistencia/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Service stubs ─────────────────────────────────────────────────────────────

type stubPuntoService struct {
	calls int
	got   []dto.PuntoRequest
}

func (s *stubPuntoService) Reemplazar(_ context.Context, p []dto.PuntoRequest) (*dto.PuntosGuardadosResponse, error) {
	s.calls++
	s.got = p
	return &dto.PuntosGuardadosResponse{Count: len(p)}, nil
}

func (s *stubPuntoService) ListarActivos(context.Context) ([]dto.PuntoResponse, error) {
	return []dto.PuntoResponse{}, nil
}

type stubConfigService struct{ saved map[string]string }

func (s *stubConfigService) ObtenerTodo(context.Context) (map[string]string, error) {
	return s.saved, nil
}

func (s *stubConfigService) Guardar(_ context.Context, v map[string]string) error {
	s.saved = v
	return nil
}

type stubAsistenciaService struct {
	err       error
	lastFecha string
}

func (s *stubAsistenciaService) Registrar(_ context.Context, req dto.RegistrarAsistenciaRequest) (*dto.AsistenciaResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.AsistenciaResponse{ID: "id-1", DNI: req.DNI, Tipo: req.Tipo, Fecha: req.Fecha}, nil
}

func (s *stubAsistenciaService) Listar(_ context.Context, fecha string) ([]dto.AsistenciaResponse, error) {
	s.lastFecha = fecha
	return []dto.AsistenciaResponse{}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) apierror.Envelope {
	t.Helper()
	var env apierror.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func newConfigRouter(p *stubPuntoService, s *stubConfigService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewConfigHandler(p, s)
	r.GET("/config/points", h.ListarPuntos)
	r.PUT("/config/points", h.GuardarPuntos)
	r.GET("/config/settings", h.ObtenerSettings)
	r.PUT("/config/settings", h.GuardarSettings)
	return r
}

func newAsistenciaRouter(s *stubAsistenciaService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAsistenciaHandler(s)
	r.GET("/attendance", h.Listar)
	r.POST("/attendance", h.Registrar)
	return r
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestValidFecha(t *testing.T) {
	cases := map[string]bool{
		"2024-01-10": true,
		"2024-02-29": true,
		"2023-02-29": false,
		"2024-13-01": false,
		"2024-1-10":  false,
		"10/01/2024": false,
		"":           false,
	}
	for in, want := range cases {
		assert.Equal(t, want, validFecha(in), in)
	}
}

func TestPasswordFuerte(t *testing.T) {
	assert.True(t, passwordFuerte("Admin123"))
	assert.False(t, passwordFuerte("Adm123"), "too short")
	assert.False(t, passwordFuerte("admin123"), "no upper")
	assert.False(t, passwordFuerte("ADMIN123"), "no lower")
	assert.False(t, passwordFuerte("AdminAdmin"), "no digit")
}

func TestGuardarPuntos_NegativeRadioRejected(t *testing.T) {
	p := &stubPuntoService{}
	r := newConfigRouter(p, &stubConfigService{})

	w := doJSON(r, http.MethodPut, "/config/points", []map[string]any{
		{"id": "p1", "nombre": "Portería", "lat": -12.04, "lng": -77.04, "radio": -5},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "gt", env.Fields["[0].radio"])
	assert.Zero(t, p.calls, "store untouched")
}

func TestGuardarPuntos_Valid(t *testing.T) {
	p := &stubPuntoService{}
	r := newConfigRouter(p, &stubConfigService{})

	w := doJSON(r, http.MethodPut, "/config/points", []map[string]any{
		{"id": "p1", "nombre": "Portería", "lat": 0, "lng": 0},
		{"id": "p2", "nombre": "Almacén", "lat": -12.1, "lng": -77.1, "radio": 80, "activo": false},
	})
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, map[string]any{"count": float64(2)}, env.Data)
	require.Len(t, p.got, 2)
	assert.Nil(t, p.got[0].Radio)
	require.NotNil(t, p.got[1].Activo)
	assert.False(t, *p.got[1].Activo)
}

func TestGuardarPuntos_RejectsNonArrayAndMissingCoords(t *testing.T) {
	p := &stubPuntoService{}
	r := newConfigRouter(p, &stubConfigService{})

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPut, "/config/points", map[string]any{"id": "x"}).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPut, "/config/points", "null").Code)

	w := doJSON(r, http.MethodPut, "/config/points", []map[string]any{{"id": "p1", "nombre": "Sin coords"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "required", env.Fields["[0].lat"])
	assert.Zero(t, p.calls)
}

func TestSettings_RoundTrip(t *testing.T) {
	s := &stubConfigService{}
	r := newConfigRouter(&stubPuntoService{}, s)

	w := doJSON(r, http.MethodPut, "/config/settings", map[string]string{"sheets_sync_enabled": "true"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", s.saved["sheets_sync_enabled"])

	w = doJSON(r, http.MethodPut, "/config/settings", map[string]any{"sheets_sync_enabled": true})
	assert.Equal(t, http.StatusBadRequest, w.Code, "values must be strings")
}

func TestRegistrarAsistencia_Validation(t *testing.T) {
	r := newAsistenciaRouter(&stubAsistenciaService{})

	w := doJSON(r, http.MethodPost, "/attendance", map[string]any{
		"dni": "123", "nombre": "Juan", "tipo": "ALMUERZO", "date": "2024-02-30", "time": "08:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "Datos de entrada inválidos", env.Error)
	assert.Equal(t, "dni", env.Fields["dni"])
	assert.Equal(t, "oneof", env.Fields["tipo"])
	assert.Equal(t, "fecha", env.Fields["date"])

	w = doJSON(r, http.MethodPost, "/attendance", map[string]any{
		"dni": "12345678", "nombre": "Juan", "cargo": "Operario", "tipo": "ENTRADA",
		"date": "2024-01-10", "time": "08:00", "lat": -12.04, "lng": -77.04,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRegistrarAsistencia_ConflictMessage(t *testing.T) {
	r := newAsistenciaRouter(&stubAsistenciaService{err: apierror.Conflict("Ya registraste entrada hoy")})

	w := doJSON(r, http.MethodPost, "/attendance", map[string]any{
		"dni": "12345678", "nombre": "Juan", "tipo": "ENTRADA", "date": "2024-01-10", "time": "08:00",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Ya registraste entrada hoy", decodeEnvelope(t, w).Error)
}

func TestListarAsistencia_DateQuery(t *testing.T) {
	s := &stubAsistenciaService{}
	r := newAsistenciaRouter(s)

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/attendance?date=2024-13-01", nil).Code)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/attendance?date=2024-01-10", nil).Code)
	assert.Equal(t, "2024-01-10", s.lastFecha)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/attendance", nil).Code)
	assert.Empty(t, s.lastFecha)
}

func TestRespondError_InternalDetailHiddenInRelease(t *testing.T) {
	boom := apierror.Internal("error al listar", errors.New("pq: connection refused"))
	r := newAsistenciaRouter(&stubAsistenciaService{err: boom})
	body := map[string]any{"dni": "12345678", "nombre": "Juan", "tipo": "ENTRADA", "date": "2024-01-10", "time": "08:00"}

	w := doJSON(r, http.MethodPost, "/attendance", body)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decodeEnvelope(t, w).Error, "connection refused")

	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(gin.TestMode)
	w = doJSON(r, http.MethodPost, "/attendance", body)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error interno del servidor", decodeEnvelope(t, w).Error)
}
