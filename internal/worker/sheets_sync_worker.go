package worker

// sheets_sync_worker.go
// Mirrors full-table snapshots to the Google Sheets spreadsheet.
// Disabled flag or missing credentials make the job a silent no-op.

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"asistencia/internal/dto"
	"asistencia/internal/model"
	"asistencia/internal/repository"

	"github.com/rs/zerolog/log"
)

// Tables that can be mirrored.
const (
	TablaEmpleados   = "empleados"
	TablaAsistencias = "asistencias"
	TablaPuntos      = "puntos"
)

// MaxAsistenciasSync caps the attendance snapshot to the newest records.
const MaxAsistenciasSync = 5000

const (
	rangoEmpleados   = "Empleados!A1"
	rangoAsistencias = "Asistencias!A1"
	rangoPuntos      = "Configuracion!A1"
)

// SheetsSyncPayload is the job envelope sent to QueueSheetsSync.
type SheetsSyncPayload struct {
	Tabla string `json:"tabla"`
}

// SheetWriter is the spreadsheet side of the mirror (infra.SheetsClient).
type SheetWriter interface {
	Configured() bool
	UpdateValues(ctx context.Context, rangeA1 string, rows [][]interface{}) error
}

type SheetsSyncWorker struct {
	writer      SheetWriter
	config      repository.ConfigRepository
	empleados   repository.EmpleadoRepository
	asistencias repository.AsistenciaRepository
	puntos      repository.PuntoRepository
}

func NewSheetsSyncWorker(
	writer SheetWriter,
	config repository.ConfigRepository,
	empleados repository.EmpleadoRepository,
	asistencias repository.AsistenciaRepository,
	puntos repository.PuntoRepository,
) *SheetsSyncWorker {
	return &SheetsSyncWorker{
		writer:      writer,
		config:      config,
		empleados:   empleados,
		asistencias: asistencias,
		puntos:      puntos,
	}
}

// Process pushes the snapshot named by the payload.
func (w *SheetsSyncWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload SheetsSyncPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("sheets_sync: invalid payload: %w", err)
	}

	enabled, err := w.syncEnabled(ctx)
	if err != nil {
		return err
	}
	if !enabled || !w.writer.Configured() {
		return nil
	}

	var (
		rango string
		rows  [][]interface{}
	)
	switch payload.Tabla {
	case TablaEmpleados:
		rango = rangoEmpleados
		rows, err = w.filasEmpleados(ctx)
	case TablaAsistencias:
		rango = rangoAsistencias
		rows, err = w.filasAsistencias(ctx)
	case TablaPuntos:
		rango = rangoPuntos
		rows, err = w.filasPuntos(ctx)
	default:
		return fmt.Errorf("sheets_sync: tabla desconocida %q", payload.Tabla)
	}
	if err != nil {
		return fmt.Errorf("sheets_sync: load %s: %w", payload.Tabla, err)
	}

	if err := w.writer.UpdateValues(ctx, rango, rows); err != nil {
		return fmt.Errorf("sheets_sync: update %s: %w", rango, err)
	}
	log.Debug().Str("tabla", payload.Tabla).Int("filas", len(rows)-1).Msg("sheets_sync: snapshot pushed")
	return nil
}

func (w *SheetsSyncWorker) syncEnabled(ctx context.Context) (bool, error) {
	c, err := w.config.Get(ctx, model.ClaveSheetsSyncEnabled)
	if err != nil {
		if repository.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("sheets_sync: read flag: %w", err)
	}
	return c.Value == "true", nil
}

func (w *SheetsSyncWorker) filasEmpleados(ctx context.Context) ([][]interface{}, error) {
	list, err := w.empleados.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([][]interface{}, 0, len(list)+1)
	rows = append(rows, []interface{}{"DNI", "NOMBRE", "CARGO", "AREA", "FECHA_REGISTRO"})
	for _, e := range list {
		rows = append(rows, []interface{}{e.DNI, e.Nombre, e.Cargo, e.Area, dto.ISOTime(e.FechaRegistro)})
	}
	return rows, nil
}

func (w *SheetsSyncWorker) filasAsistencias(ctx context.Context) ([][]interface{}, error) {
	list, err := w.asistencias.ListRecientes(ctx, MaxAsistenciasSync)
	if err != nil {
		return nil, err
	}
	rows := make([][]interface{}, 0, len(list)+1)
	rows = append(rows, []interface{}{"ID", "DNI", "NOMBRE", "CARGO", "TIPO", "FECHA", "HORA", "PUNTO", "LAT", "LNG", "TIMESTAMP"})
	for _, a := range list {
		rows = append(rows, []interface{}{
			a.ID.String(), a.DNI, a.Nombre, a.Cargo, a.Tipo, a.Fecha, a.Hora,
			deref(a.Punto), floatCell(a.Lat), floatCell(a.Lng), dto.ISOTime(a.Timestamp),
		})
	}
	return rows, nil
}

func (w *SheetsSyncWorker) filasPuntos(ctx context.Context) ([][]interface{}, error) {
	list, err := w.puntos.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([][]interface{}, 0, len(list)+1)
	rows = append(rows, []interface{}{"ID", "NOMBRE", "LAT", "LNG", "RADIO", "ACTIVO", "FECHA_ACTUALIZACION"})
	for _, p := range list {
		rows = append(rows, []interface{}{
			p.ID, p.Nombre,
			strconv.FormatFloat(p.Lat, 'f', -1, 64), strconv.FormatFloat(p.Lng, 'f', -1, 64),
			strconv.Itoa(p.Radio), strconv.FormatBool(p.Activo), dto.ISOTime(p.FechaActualizacion),
		})
	}
	return rows, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatCell(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
