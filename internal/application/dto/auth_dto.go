package dto

import "time"

// RegisterRequest registra un tenant nuevo junto con su usuario administrador.
type RegisterRequest struct {
	TenantName string `json:"tenant_name" validate:"required"`
	Name       string `json:"name"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
}

// RegisterUserRequest agrega un usuario a un tenant existente (solo admin).
type RegisterUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"` // admin, bodeguero, vendedor; defecto vendedor
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse representación de un usuario en respuestas (sin hash).
type UserResponse struct {
	ID        string    `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse token emitido más el usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
