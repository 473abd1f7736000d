package dto

// ErrorResponse es el cuerpo estándar de error de la API.
// Code es un código estable para que los clientes decidan por máquina;
// Message es texto para mostrar al usuario.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PageRequest son los parámetros de paginación por query string.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize acota los valores a rangos seguros.
func (p *PageRequest) Normalize() {
	if p.Limit <= 0 || p.Limit > 200 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse envuelve una lista paginada.
type PageResponse[T any] struct {
	Items  []T `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
