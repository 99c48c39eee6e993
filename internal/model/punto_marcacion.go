package model

import "time"

// RadioPorDefecto is the geofence radius in meters when none is given.
const RadioPorDefecto = 150

// PuntoMarcacion is a named geofenced location where workers may check in.
// The whole set is replaced on every save.
type PuntoMarcacion struct {
	ID                 string    `gorm:"type:varchar(100);primaryKey"`
	Nombre             string    `gorm:"type:varchar(200);not null"`
	Lat                float64   `gorm:"not null"`
	Lng                float64   `gorm:"not null"`
	Radio              int       `gorm:"not null;default:150"`
	Activo             bool      `gorm:"not null;index"`
	FechaActualizacion time.Time `gorm:"autoUpdateTime"`
}

func (PuntoMarcacion) TableName() string { return "puntos_marcacion" }
