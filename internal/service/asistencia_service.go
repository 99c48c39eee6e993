package service

import (
	"context"
	"strings"
	"time"

	"asistencia/internal/apierror"
	"asistencia/internal/dto"
	"asistencia/internal/model"
	"asistencia/internal/repository"
	"asistencia/internal/worker"
)

const (
	msgEntradaYSalida  = "Ya registraste entrada y salida hoy"
	msgEntradaRepetida = "Ya registraste entrada hoy"
	msgSalidaRepetida  = "Ya registraste salida hoy"
)

// AsistenciaService is the append-only attendance ledger.
type AsistenciaService interface {
	Registrar(ctx context.Context, req dto.RegistrarAsistenciaRequest) (*dto.AsistenciaResponse, error)
	// Listar returns records newest first; empty fecha lists every day.
	Listar(ctx context.Context, fecha string) ([]dto.AsistenciaResponse, error)
}

type asistenciaService struct {
	repo  repository.AsistenciaRepository
	sync  SyncNotifier
	locks *keyedLock
	now   func() time.Time
}

func NewAsistenciaService(repo repository.AsistenciaRepository, sync SyncNotifier) AsistenciaService {
	return &asistenciaService{
		repo:  repo,
		sync:  notifierOrNoop(sync),
		locks: newKeyedLock(),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// ── Registrar ─────────────────────────────────────────────────────────────────
// Per (dni, fecha): at most one ENTRADA and one SALIDA. A SALIDA without a
// prior ENTRADA is accepted. The check and the insert run under a per-day
// lock; the (dni, fecha, tipo) unique index covers other processes.

func (s *asistenciaService) Registrar(ctx context.Context, req dto.RegistrarAsistenciaRequest) (*dto.AsistenciaResponse, error) {
	unlock := s.locks.Lock(req.DNI + "|" + req.Fecha)
	defer unlock()

	if err := s.verificarCupo(ctx, req.DNI, req.Fecha, req.Tipo); err != nil {
		return nil, err
	}

	a := &model.Asistencia{
		DNI:       req.DNI,
		Nombre:    req.Nombre,
		Cargo:     req.Cargo,
		Tipo:      req.Tipo,
		Fecha:     req.Fecha,
		Hora:      req.Hora,
		Punto:     puntoOrNil(req.Punto),
		Lat:       req.Lat,
		Lng:       req.Lng,
		Timestamp: s.now(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if repository.IsDuplicateKey(err) {
			// Lost a race against another instance; report what is stored now.
			if cupoErr := s.verificarCupo(ctx, req.DNI, req.Fecha, req.Tipo); cupoErr != nil {
				return nil, cupoErr
			}
			return nil, apierror.Conflict(mensajeDuplicado(req.Tipo))
		}
		return nil, apierror.Internal("error al registrar asistencia", err)
	}

	s.sync.Notify(worker.TablaAsistencias)
	resp := toAsistenciaResponse(a)
	return &resp, nil
}

func (s *asistenciaService) verificarCupo(ctx context.Context, dni, fecha, tipo string) error {
	registros, err := s.repo.ListByDNIFecha(ctx, dni, fecha)
	if err != nil {
		return apierror.Internal("error al consultar asistencias", err)
	}
	var hasEntrada, hasSalida bool
	for _, r := range registros {
		switch r.Tipo {
		case model.TipoEntrada:
			hasEntrada = true
		case model.TipoSalida:
			hasSalida = true
		}
	}
	switch {
	case hasEntrada && hasSalida:
		return apierror.Conflict(msgEntradaYSalida)
	case hasEntrada && tipo == model.TipoEntrada:
		return apierror.Conflict(msgEntradaRepetida)
	case hasSalida && tipo == model.TipoSalida:
		return apierror.Conflict(msgSalidaRepetida)
	}
	return nil
}

// puntoOrNil stores a missing or blank marking point as NULL.
func puntoOrNil(p *string) *string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	return p
}

func mensajeDuplicado(tipo string) string {
	if tipo == model.TipoSalida {
		return msgSalidaRepetida
	}
	return msgEntradaRepetida
}

func (s *asistenciaService) Listar(ctx context.Context, fecha string) ([]dto.AsistenciaResponse, error) {
	list, err := s.repo.List(ctx, fecha)
	if err != nil {
		return nil, apierror.Internal("error al listar asistencias", err)
	}
	resp := make([]dto.AsistenciaResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toAsistenciaResponse(&list[i]))
	}
	return resp, nil
}

func toAsistenciaResponse(a *model.Asistencia) dto.AsistenciaResponse {
	return dto.AsistenciaResponse{
		ID:        a.ID.String(),
		DNI:       a.DNI,
		Nombre:    a.Nombre,
		Cargo:     a.Cargo,
		Tipo:      a.Tipo,
		Fecha:     a.Fecha,
		Hora:      a.Hora,
		Punto:     a.Punto,
		Lat:       a.Lat,
		Lng:       a.Lng,
		Timestamp: dto.ISOTime(a.Timestamp),
	}
}
