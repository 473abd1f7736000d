package dto

// LoginRequest acepta email, CPF o CNPJ en el campo identifier,
// con o sin puntuación.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// UserResponse es la proyección pública de un usuario. Nunca incluye
// el hash de contraseña.
type UserResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	TenantID     *string `json:"tenantId,omitempty"`
	CompanyID    *string `json:"companyId,omitempty"`
	LastSignedIn *string `json:"lastSignedIn,omitempty"`
}

// LoginResponse se devuelve tras un login exitoso. El token viaja en
// cookie, no en el cuerpo.
type LoginResponse struct {
	Success bool         `json:"success"`
	User    UserResponse `json:"user"`
}

// ChangePasswordRequest cambia la contraseña del usuario autenticado.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
