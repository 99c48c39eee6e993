package model

import "time"

// Empleado is a roster entry keyed by its 8-digit DNI.
type Empleado struct {
	DNI           string    `gorm:"type:varchar(8);primaryKey"`
	Nombre        string    `gorm:"type:varchar(200);not null"`
	Cargo         string    `gorm:"type:varchar(100);not null"`
	Area          string    `gorm:"type:varchar(100);not null"`
	FechaRegistro time.Time `gorm:"autoCreateTime"`
}

func (Empleado) TableName() string { return "empleados" }
