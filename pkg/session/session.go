// Package session emite y valida el token de sesión firmado que viaja en la
// cookie HttpOnly. El token es stateless: no hay tabla de sesiones en el
// servidor; la revocación anticipada se resuelve con una denylist de jti.
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims incluye los claims estándar JWT más los campos propios de la sesión.
// Role y TenantID viajan en el token para que el middleware decida sin ir a la
// DB en el caso común; la existencia del usuario y el estado del tenant se
// re-verifican igualmente en cada resolve.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string  `json:"user_id"`
	TenantID  string  `json:"tenant_id"` // vacío solo para super_admin
	Role      string  `json:"role"`
	CompanyID *string `json:"company_id,omitempty"`
}

// Issue genera un token de sesión firmado (HS256) con TTL FIJO desde la
// emisión: no hay renovación deslizante, el token expira exactamente en
// iat+ttl. Devuelve también el jti para poder revocarlo en logout.
func Issue(secret, issuer, userID, tenantID, role string, companyID *string, ttl time.Duration) (token, jti string, err error) {
	if secret == "" {
		return "", "", fmt.Errorf("session: secret vacío")
	}
	now := time.Now()
	jti = uuid.New().String()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:    userID,
		TenantID:  tenantID,
		Role:      role,
		CompanyID: companyID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

// Parse valida firma y expiración y devuelve los claims.
// Cualquier byte alterado del token invalida la firma HMAC y retorna error;
// el resolutor trata todo error de aquí como sesión no autenticada.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("session: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
