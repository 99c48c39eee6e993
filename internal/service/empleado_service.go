package service

import (
	"context"

	"asistencia/internal/apierror"
	"asistencia/internal/dto"
	"asistencia/internal/model"
	"asistencia/internal/repository"
	"asistencia/internal/worker"
)

const msgEmpleadoNoEncontrado = "Empleado no encontrado"

// EmpleadoService manages the employee roster keyed by DNI.
type EmpleadoService interface {
	Listar(ctx context.Context) ([]dto.EmpleadoResponse, error)
	Crear(ctx context.Context, req dto.CrearEmpleadoRequest) error
	Actualizar(ctx context.Context, dni string, req dto.ActualizarEmpleadoRequest) error
	Eliminar(ctx context.Context, dni string) error
}

type empleadoService struct {
	repo repository.EmpleadoRepository
	sync SyncNotifier
}

func NewEmpleadoService(repo repository.EmpleadoRepository, sync SyncNotifier) EmpleadoService {
	return &empleadoService{repo: repo, sync: notifierOrNoop(sync)}
}

func (s *empleadoService) Listar(ctx context.Context) ([]dto.EmpleadoResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, apierror.Internal("error al listar empleados", err)
	}
	resp := make([]dto.EmpleadoResponse, 0, len(list))
	for _, e := range list {
		resp = append(resp, dto.EmpleadoResponse{
			DNI:           e.DNI,
			Nombre:        e.Nombre,
			Cargo:         e.Cargo,
			Area:          e.Area,
			FechaRegistro: dto.ISOTime(e.FechaRegistro),
		})
	}
	return resp, nil
}

func (s *empleadoService) Crear(ctx context.Context, req dto.CrearEmpleadoRequest) error {
	existing, err := s.repo.FindByDNI(ctx, req.DNI)
	if err != nil && !repository.IsNotFound(err) {
		return apierror.Internal("error al buscar empleado", err)
	}
	if existing != nil {
		return apierror.Conflict("El DNI ya existe")
	}

	e := &model.Empleado{DNI: req.DNI, Nombre: req.Nombre, Cargo: req.Cargo, Area: req.Area}
	if err := s.repo.Create(ctx, e); err != nil {
		if repository.IsDuplicateKey(err) {
			return apierror.Conflict("El DNI ya existe")
		}
		return apierror.Internal("error al crear empleado", err)
	}
	s.sync.Notify(worker.TablaEmpleados)
	return nil
}

func (s *empleadoService) Actualizar(ctx context.Context, dni string, req dto.ActualizarEmpleadoRequest) error {
	if err := s.mustExist(ctx, dni); err != nil {
		return err
	}
	e := &model.Empleado{DNI: dni, Nombre: req.Nombre, Cargo: req.Cargo, Area: req.Area}
	if err := s.repo.Update(ctx, e); err != nil {
		return apierror.Internal("error al actualizar empleado", err)
	}
	s.sync.Notify(worker.TablaEmpleados)
	return nil
}

func (s *empleadoService) Eliminar(ctx context.Context, dni string) error {
	if err := s.mustExist(ctx, dni); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, dni); err != nil {
		if repository.IsNotFound(err) {
			return apierror.NotFound(msgEmpleadoNoEncontrado)
		}
		return apierror.Internal("error al eliminar empleado", err)
	}
	s.sync.Notify(worker.TablaEmpleados)
	return nil
}

func (s *empleadoService) mustExist(ctx context.Context, dni string) error {
	_, err := s.repo.FindByDNI(ctx, dni)
	if err == nil {
		return nil
	}
	if repository.IsNotFound(err) {
		return apierror.NotFound(msgEmpleadoNoEncontrado)
	}
	return apierror.Internal("error al buscar empleado", err)
}
