package service

import (
	"context"

	"asistencia/internal/apierror"
	"asistencia/internal/dto"
	"asistencia/internal/model"
	"asistencia/internal/repository"
	"asistencia/internal/worker"

	"github.com/rs/zerolog/log"
)

// PuntoService owns the set of marking points. The set is only ever replaced
// as a whole.
type PuntoService interface {
	Reemplazar(ctx context.Context, puntos []dto.PuntoRequest) (*dto.PuntosGuardadosResponse, error)
	ListarActivos(ctx context.Context) ([]dto.PuntoResponse, error)
}

type puntoService struct {
	repo repository.PuntoRepository
	sync SyncNotifier
}

func NewPuntoService(repo repository.PuntoRepository, sync SyncNotifier) PuntoService {
	return &puntoService{repo: repo, sync: notifierOrNoop(sync)}
}

func (s *puntoService) Reemplazar(ctx context.Context, puntos []dto.PuntoRequest) (*dto.PuntosGuardadosResponse, error) {
	rows := make([]model.PuntoMarcacion, 0, len(puntos))
	seen := make(map[string]struct{}, len(puntos))
	for _, p := range puntos {
		if _, dup := seen[p.ID]; dup {
			return nil, apierror.Validation("ID de punto duplicado: " + p.ID)
		}
		seen[p.ID] = struct{}{}

		radio := model.RadioPorDefecto
		if p.Radio != nil {
			radio = *p.Radio
		}
		activo := true
		if p.Activo != nil {
			activo = *p.Activo
		}
		rows = append(rows, model.PuntoMarcacion{
			ID:     p.ID,
			Nombre: p.Nombre,
			Lat:    *p.Lat,
			Lng:    *p.Lng,
			Radio:  radio,
			Activo: activo,
		})
	}

	if err := s.repo.Reemplazar(ctx, rows); err != nil {
		return nil, apierror.Internal("error al guardar puntos", err)
	}

	log.Info().Int("count", len(rows)).Msg("puntos de marcación reemplazados")
	s.sync.Notify(worker.TablaPuntos)
	return &dto.PuntosGuardadosResponse{Count: len(rows)}, nil
}

func (s *puntoService) ListarActivos(ctx context.Context) ([]dto.PuntoResponse, error) {
	list, err := s.repo.ListActivos(ctx)
	if err != nil {
		return nil, apierror.Internal("error al listar puntos", err)
	}
	resp := make([]dto.PuntoResponse, 0, len(list))
	for _, p := range list {
		resp = append(resp, dto.PuntoResponse{
			ID:     p.ID,
			Nombre: p.Nombre,
			Lat:    p.Lat,
			Lng:    p.Lng,
			Radio:  p.Radio,
			Activo: p.Activo,
		})
	}
	return resp, nil
}
