package repository

import (
	"context"

	"asistencia/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConfigRepository interface {
	ListAll(ctx context.Context) ([]model.ConfigSistema, error)
	Get(ctx context.Context, key string) (*model.ConfigSistema, error)
	Upsert(ctx context.Context, key, value string) error
}

type configRepo struct{ db *gorm.DB }

func NewConfigRepository(db *gorm.DB) ConfigRepository { return &configRepo{db: db} }

func (r *configRepo) ListAll(ctx context.Context) ([]model.ConfigSistema, error) {
	var list []model.ConfigSistema
	err := r.db.WithContext(ctx).Order("key asc").Find(&list).Error
	return list, err
}

func (r *configRepo) Get(ctx context.Context, key string) (*model.ConfigSistema, error) {
	var c model.ConfigSistema
	if err := r.db.WithContext(ctx).First(&c, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *configRepo) Upsert(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&model.ConfigSistema{Key: key, Value: value}).Error
}
