package auth

import "strings"

// NormalizeIdentifier lleva un identificador de login a su forma
// canónica antes de consultar la base: se eliminan los caracteres de
// formato y, según la cantidad de dígitos restantes, se clasifica como
// CPF (11), CNPJ (14) o email (minúsculas). Así "111.444.777-35" y
// "11144477735" resuelven al mismo usuario.
func NormalizeIdentifier(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	digits := onlyDigits(trimmed)
	if len(digits) == 11 || len(digits) == 14 {
		return digits
	}
	return strings.ToLower(trimmed)
}

// IdentifierKind clasifica el identificador ya normalizado.
type IdentifierKind int

const (
	IdentifierEmail IdentifierKind = iota
	IdentifierCPF
	IdentifierCNPJ
)

// KindOf devuelve el tipo de un identificador normalizado.
func KindOf(normalized string) IdentifierKind {
	switch {
	case len(normalized) == 11 && normalized == onlyDigits(normalized):
		return IdentifierCPF
	case len(normalized) == 14 && normalized == onlyDigits(normalized):
		return IdentifierCNPJ
	default:
		return IdentifierEmail
	}
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
