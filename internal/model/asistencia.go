package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TipoEntrada = "ENTRADA"
	TipoSalida  = "SALIDA"
)

// Asistencia is one check-in or check-out event. Rows are append-only.
// idx_asistencia_dia caps each (dni, fecha) at one ENTRADA and one SALIDA.
type Asistencia struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	DNI       string    `gorm:"type:varchar(8);not null;uniqueIndex:idx_asistencia_dia,priority:1;index"`
	Nombre    string    `gorm:"type:varchar(200);not null"`
	Cargo     string    `gorm:"type:varchar(100);not null;default:''"`
	Tipo      string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_asistencia_dia,priority:3"`
	Fecha     string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_asistencia_dia,priority:2;index"`
	Hora      string    `gorm:"type:varchar(20);not null"`
	Punto     *string   `gorm:"type:varchar(100)"`
	Lat       *float64
	Lng       *float64
	Timestamp time.Time `gorm:"not null;index"`
}

func (Asistencia) TableName() string { return "asistencias" }

func (a *Asistencia) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
