package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword genera el hash bcrypt de una contraseña en claro con el
// costo configurado.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compara una contraseña en claro contra un hash
// bcrypt. Devuelve false ante cualquier discrepancia o hash corrupto.
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// NeedsRehash indica si un hash fue generado con un costo menor al
// vigente y conviene regenerarlo en el próximo login exitoso.
func NeedsRehash(hash string, cost int) bool {
	current, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return false
	}
	return current < cost
}
