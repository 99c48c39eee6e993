package service

import (
	"context"
	"fmt"
	"sort"
	"unicode/utf8"

	"asistencia/internal/apierror"
	"asistencia/internal/repository"

	"github.com/rs/zerolog/log"
)

const maxClaveLen = 100

// ConfigService is the flat key/value settings store.
type ConfigService interface {
	ObtenerTodo(ctx context.Context) (map[string]string, error)
	// Guardar upserts each key on its own. A failure stops the loop but keys
	// already written stay written.
	Guardar(ctx context.Context, valores map[string]string) error
}

type configService struct {
	repo repository.ConfigRepository
}

func NewConfigService(repo repository.ConfigRepository) ConfigService {
	return &configService{repo: repo}
}

func (s *configService) ObtenerTodo(ctx context.Context) (map[string]string, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apierror.Internal("error al leer configuración", err)
	}
	out := make(map[string]string, len(list))
	for _, c := range list {
		out[c.Key] = c.Value
	}
	return out, nil
}

func (s *configService) Guardar(ctx context.Context, valores map[string]string) error {
	claves := make([]string, 0, len(valores))
	for k := range valores {
		if n := utf8.RuneCountInString(k); n == 0 || n > maxClaveLen {
			return apierror.Validation(fmt.Sprintf("Clave de configuración inválida: %q", k))
		}
		claves = append(claves, k)
	}
	sort.Strings(claves)

	for _, k := range claves {
		if err := s.repo.Upsert(ctx, k, valores[k]); err != nil {
			return apierror.Internal("error al guardar configuración", err)
		}
	}
	log.Info().Strs("keys", claves).Msg("configuración guardada")
	return nil
}
