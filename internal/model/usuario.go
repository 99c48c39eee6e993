package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles
const (
	RolAdmin      = "admin"
	RolSuperAdmin = "super_admin"
)

// EstadoUsuario is the lifecycle of an account. Accounts are never removed;
// deactivation is terminal through the API.
type EstadoUsuario string

const (
	EstadoActivo      EstadoUsuario = "activo"
	EstadoDesactivado EstadoUsuario = "desactivado"
)

// Usuario stores admin-panel users with role-based access.
// Username is stored lowercased and stays unique across deactivated rows.
type Usuario struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Username      string        `gorm:"type:varchar(50);uniqueIndex;not null"`
	PasswordHash  string        `gorm:"not null"`
	Nombre        string        `gorm:"type:varchar(200);not null"`
	Rol           string        `gorm:"type:varchar(20);not null;default:admin"`
	Estado        EstadoUsuario `gorm:"type:varchar(20);not null;default:activo;index"`
	FechaCreacion time.Time     `gorm:"autoCreateTime"`
	UpdatedAt     time.Time
}

func (Usuario) TableName() string { return "usuarios" }

func (u *Usuario) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Estado == "" {
		u.Estado = EstadoActivo
	}
	return nil
}

func (u *Usuario) Activo() bool { return u.Estado == EstadoActivo }
