// cmd/seeduser/main.go: crea/actualiza el super_admin inicial y la
// configuración por defecto.
// Uso: go run ./cmd/seeduser
package main

import (
	"context"
	"fmt"
	"log"

	"asistencia/internal/config"
	"asistencia/internal/infra"
	"asistencia/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	username := "admin"
	password := "Admin123"
	nombre := "Administrador"

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatalf("bcrypt error: %v", err)
	}

	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	ctx := context.Background()

	admin := &model.Usuario{
		Username:     username,
		Nombre:       nombre,
		PasswordHash: string(hash),
		Rol:          model.RolSuperAdmin,
		Estado:       model.EstadoActivo,
	}
	err = db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "nombre", "rol", "estado"}),
	}).Create(admin).Error
	if err != nil {
		log.Fatalf("insert error: %v", err)
	}

	// Keep an existing flag; only create it when missing.
	err = db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.ConfigSistema{Key: model.ClaveSheetsSyncEnabled, Value: "false"}).Error
	if err != nil {
		log.Fatalf("config insert error: %v", err)
	}

	fmt.Printf("✅ Usuario '%s' creado/actualizado con password '%s'\n", username, password)
}
