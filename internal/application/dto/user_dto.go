package dto

// CreateUserRequest da de alta un usuario dentro del tenant del
// administrador que lo crea.
type CreateUserRequest struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	CPF       string  `json:"cpf"`
	Password  string  `json:"password"`
	Role      string  `json:"role"`
	CompanyID *string `json:"companyId"`
}

// UpdateUserRequest actualiza campos mutables de un usuario. Los
// punteros nil se dejan como están.
type UpdateUserRequest struct {
	Name      *string `json:"name"`
	Role      *string `json:"role"`
	CompanyID *string `json:"companyId"`
}
