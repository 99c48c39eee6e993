package repository

import (
	"context"

	"asistencia/internal/model"

	"gorm.io/gorm"
)

type EmpleadoRepository interface {
	Create(ctx context.Context, e *model.Empleado) error
	FindByDNI(ctx context.Context, dni string) (*model.Empleado, error)
	List(ctx context.Context) ([]model.Empleado, error)
	Update(ctx context.Context, e *model.Empleado) error
	Delete(ctx context.Context, dni string) error
}

type empleadoRepo struct{ db *gorm.DB }

func NewEmpleadoRepository(db *gorm.DB) EmpleadoRepository { return &empleadoRepo{db: db} }

func (r *empleadoRepo) Create(ctx context.Context, e *model.Empleado) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *empleadoRepo) FindByDNI(ctx context.Context, dni string) (*model.Empleado, error) {
	var e model.Empleado
	if err := r.db.WithContext(ctx).First(&e, "dni = ?", dni).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *empleadoRepo) List(ctx context.Context) ([]model.Empleado, error) {
	var list []model.Empleado
	err := r.db.WithContext(ctx).Order("nombre asc").Find(&list).Error
	return list, err
}

func (r *empleadoRepo) Update(ctx context.Context, e *model.Empleado) error {
	return r.db.WithContext(ctx).Model(&model.Empleado{}).
		Where("dni = ?", e.DNI).
		Updates(map[string]any{"nombre": e.Nombre, "cargo": e.Cargo, "area": e.Area}).Error
}

func (r *empleadoRepo) Delete(ctx context.Context, dni string) error {
	res := r.db.WithContext(ctx).Delete(&model.Empleado{}, "dni = ?", dni)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
