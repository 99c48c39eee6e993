package repository

import (
	"context"

	"asistencia/internal/model"

	"gorm.io/gorm"
)

type PuntoRepository interface {
	// Reemplazar deletes every point and inserts puntos in one transaction.
	Reemplazar(ctx context.Context, puntos []model.PuntoMarcacion) error
	ListActivos(ctx context.Context) ([]model.PuntoMarcacion, error)
	ListAll(ctx context.Context) ([]model.PuntoMarcacion, error)
}

type puntoRepo struct{ db *gorm.DB }

func NewPuntoRepository(db *gorm.DB) PuntoRepository { return &puntoRepo{db: db} }

func (r *puntoRepo) Reemplazar(ctx context.Context, puntos []model.PuntoMarcacion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&model.PuntoMarcacion{}).Error; err != nil {
			return err
		}
		if len(puntos) == 0 {
			return nil
		}
		return tx.Create(&puntos).Error
	})
}

func (r *puntoRepo) ListActivos(ctx context.Context) ([]model.PuntoMarcacion, error) {
	var list []model.PuntoMarcacion
	err := r.db.WithContext(ctx).Where("activo = ?", true).Order("nombre asc").Find(&list).Error
	return list, err
}

func (r *puntoRepo) ListAll(ctx context.Context) ([]model.PuntoMarcacion, error) {
	var list []model.PuntoMarcacion
	err := r.db.WithContext(ctx).Order("nombre asc").Find(&list).Error
	return list, err
}
