package repository

import (
	"context"

	"asistencia/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AsistenciaRepository interface {
	Create(ctx context.Context, a *model.Asistencia) error
	ListByDNIFecha(ctx context.Context, dni, fecha string) ([]model.Asistencia, error)
	// List returns records newest first; empty fecha means every day.
	List(ctx context.Context, fecha string) ([]model.Asistencia, error)
	ListRecientes(ctx context.Context, limit int) ([]model.Asistencia, error)
}

// newestFirst quotes "timestamp" per dialect; it is a type name in Postgres.
var newestFirst = clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}

type asistenciaRepo struct{ db *gorm.DB }

func NewAsistenciaRepository(db *gorm.DB) AsistenciaRepository { return &asistenciaRepo{db: db} }

func (r *asistenciaRepo) Create(ctx context.Context, a *model.Asistencia) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *asistenciaRepo) ListByDNIFecha(ctx context.Context, dni, fecha string) ([]model.Asistencia, error) {
	var list []model.Asistencia
	err := r.db.WithContext(ctx).
		Where("dni = ? AND fecha = ?", dni, fecha).
		Find(&list).Error
	return list, err
}

func (r *asistenciaRepo) List(ctx context.Context, fecha string) ([]model.Asistencia, error) {
	q := r.db.WithContext(ctx).Order(newestFirst)
	if fecha != "" {
		q = q.Where("fecha = ?", fecha)
	}
	var list []model.Asistencia
	err := q.Find(&list).Error
	return list, err
}

func (r *asistenciaRepo) ListRecientes(ctx context.Context, limit int) ([]model.Asistencia, error) {
	var list []model.Asistencia
	err := r.db.WithContext(ctx).Order(newestFirst).Limit(limit).Find(&list).Error
	return list, err
}
