package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=1"`
}

type CrearUsuarioRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,password_fuerte"`
	Nombre   string `json:"nombre"   validate:"required,min=1,max=200"`
	Rol      string `json:"rol"      validate:"omitempty,oneof=admin super_admin"`
}

// ActualizarUsuarioRequest: empty / nil fields leave the stored value untouched.
type ActualizarUsuarioRequest struct {
	Username string  `json:"username" validate:"omitempty,min=3,max=50"`
	Password *string `json:"password" validate:"omitempty,password_fuerte"`
	Nombre   string  `json:"nombre"   validate:"omitempty,min=1,max=200"`
	Rol      string  `json:"rol"      validate:"omitempty,oneof=admin super_admin"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Nombre    string `json:"nombre"`
	Rol       string `json:"rol"`
	CreatedAt string `json:"createdAt"`
	Activo    bool   `json:"activo"`
}

type LoginResponse struct {
	Token string          `json:"token"`
	User  UsuarioResponse `json:"user"`
}

type UsuarioCreadoResponse struct {
	ID string `json:"id"`
}
