package service

import (
	"context"
	"strings"
	"time"

	"asistencia/internal/apierror"
	"asistencia/internal/config"
	"asistencia/internal/dto"
	"asistencia/internal/model"
	"asistencia/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

const msgCredencialesInvalidas = "Usuario o contraseña incorrectos"

// AuthService covers login and the super_admin user administration.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioCreadoResponse, error)
	ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error)
	ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) error
	DesactivarUsuario(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil && !repository.IsNotFound(err) {
		return nil, apierror.Internal("error al buscar usuario", err)
	}
	if user == nil || !user.Activo() {
		log.Warn().Str("username", req.Username).Msg("login fallido: usuario no encontrado o inactivo")
		return nil, apierror.Unauthorized(msgCredencialesInvalidas)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Warn().Str("username", req.Username).Msg("login fallido: contraseña incorrecta")
		return nil, apierror.Unauthorized(msgCredencialesInvalidas)
	}

	token, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, apierror.Internal("error al firmar token", err)
	}

	log.Info().Str("username", user.Username).Str("rol", user.Rol).Msg("login exitoso")
	return &dto.LoginResponse{Token: token, User: toUsuarioResponse(user)}, nil
}

func (s *authService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioCreadoResponse, error) {
	username := strings.ToLower(req.Username)
	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil && !repository.IsNotFound(err) {
		return nil, apierror.Internal("error al buscar usuario", err)
	}
	if existing != nil {
		return nil, apierror.Conflict("El usuario ya existe")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, apierror.Internal("error al generar hash", err)
	}
	rol := req.Rol
	if rol == "" {
		rol = model.RolAdmin
	}
	user := &model.Usuario{
		Username:     username,
		Nombre:       req.Nombre,
		PasswordHash: string(hash),
		Rol:          rol,
		Estado:       model.EstadoActivo,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apierror.Conflict("El usuario ya existe")
		}
		return nil, apierror.Internal("error al crear usuario", err)
	}

	log.Info().Str("username", user.Username).Str("rol", rol).Msg("usuario creado")
	return &dto.UsuarioCreadoResponse{ID: user.ID.String()}, nil
}

func (s *authService) ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.ListActivos(ctx)
	if err != nil {
		return nil, apierror.Internal("error al listar usuarios", err)
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = toUsuarioResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) error {
	user, err := s.findUsuario(ctx, id)
	if err != nil {
		return err
	}

	if req.Username != "" {
		username := strings.ToLower(req.Username)
		if username != user.Username {
			other, err := s.repo.FindByUsername(ctx, username)
			if err != nil && !repository.IsNotFound(err) {
				return apierror.Internal("error al buscar usuario", err)
			}
			if other != nil && other.ID != user.ID {
				return apierror.Conflict("El usuario ya existe")
			}
		}
		user.Username = username
	}
	if req.Nombre != "" {
		user.Nombre = req.Nombre
	}
	if req.Rol != "" {
		user.Rol = req.Rol
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			return apierror.Internal("error al generar hash", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if repository.IsDuplicateKey(err) {
			return apierror.Conflict("El usuario ya existe")
		}
		return apierror.Internal("error al actualizar usuario", err)
	}
	log.Info().Str("id", id.String()).Str("username", user.Username).Msg("usuario actualizado")
	return nil
}

func (s *authService) DesactivarUsuario(ctx context.Context, id uuid.UUID) error {
	user, err := s.findUsuario(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Desactivar(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return apierror.NotFound("Usuario no encontrado")
		}
		return apierror.Internal("error al desactivar usuario", err)
	}
	log.Info().Str("id", id.String()).Str("username", user.Username).Msg("usuario desactivado")
	return nil
}

func (s *authService) findUsuario(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFound("Usuario no encontrado")
		}
		return nil, apierror.Internal("error al buscar usuario", err)
	}
	return user, nil
}

func (s *authService) generateToken(user *model.Usuario, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"rol":      user.Rol,
		"exp":      now.Add(duration).Unix(),
		"iat":      now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func toUsuarioResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Nombre:    u.Nombre,
		Rol:       u.Rol,
		CreatedAt: dto.ISOTime(u.FechaCreacion),
		Activo:    u.Activo(),
	}
}
