package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/gestaosst/sst-api/internal/application/dto"
	"github.com/gestaosst/sst-api/internal/domain"
	"github.com/gestaosst/sst-api/internal/domain/entity"
	"github.com/gestaosst/sst-api/internal/domain/repository"
	"github.com/gestaosst/sst-api/pkg/config"
	"github.com/gestaosst/sst-api/pkg/logger"
	"github.com/gestaosst/sst-api/pkg/session"
	"github.com/google/uuid"
)

// UseCase implementa el flujo de autenticación: login con límite de
// intentos, emisión y revocación de sesiones y gestión de credenciales.
type UseCase struct {
	users     repository.UserRepository
	tenants   repository.TenantRepository
	companies repository.CompanyRepository
	limiter   LoginLimiter
	denylist  SessionDenylist
	cfg       config.SessionConfig
	authCfg   config.AuthConfig
	log       *logger.Logger
}

func NewUseCase(
	users repository.UserRepository,
	tenants repository.TenantRepository,
	companies repository.CompanyRepository,
	limiter LoginLimiter,
	denylist SessionDenylist,
	cfg config.SessionConfig,
	authCfg config.AuthConfig,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		users:     users,
		tenants:   tenants,
		companies: companies,
		limiter:   limiter,
		denylist:  denylist,
		cfg:       cfg,
		authCfg:   authCfg,
		log:       log,
	}
}

// Login valida credenciales y emite un token de sesión firmado. Todo
// camino de credencial inválida (usuario inexistente, sin contraseña,
// contraseña errada) devuelve el mismo ErrInvalidCredentials para no
// filtrar qué identificadores existen.
func (uc *UseCase) Login(ctx context.Context, req dto.LoginRequest, clientIP string) (*dto.LoginResponse, string, error) {
	identifier := NormalizeIdentifier(req.Identifier)
	if identifier == "" || req.Password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	limitKey := fmt.Sprintf("login:%s:%s", identifier, clientIP)
	allowed, _, err := uc.limiter.Check(ctx, limitKey)
	if err != nil {
		uc.log.Warn().Err(err).Msg("rate limiter no disponible, se permite el intento")
	} else if !allowed {
		return nil, "", domain.ErrTooManyAttempts
	}

	user, err := uc.users.FindByIdentifier(identifier)
	if err != nil {
		return nil, "", err
	}
	if user == nil || user.PasswordHash == nil {
		uc.recordFailure(ctx, limitKey)
		return nil, "", domain.ErrInvalidCredentials
	}
	if !VerifyPassword(req.Password, *user.PasswordHash) {
		uc.recordFailure(ctx, limitKey)
		return nil, "", domain.ErrInvalidCredentials
	}

	// El super_admin no pertenece a ningún tenant; para el resto la
	// suscripción debe estar vigente.
	if user.Role != entity.RoleSuperAdmin {
		if user.TenantID == nil {
			return nil, "", domain.ErrTenantExpired
		}
		tenant, err := uc.tenants.GetByID(*user.TenantID)
		if err != nil {
			return nil, "", err
		}
		if tenant == nil || !tenant.IsActive() {
			return nil, "", domain.ErrTenantExpired
		}
	}

	if err := uc.limiter.Clear(ctx, limitKey); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudieron limpiar los intentos de login")
	}

	// Si el hash quedó con un costo viejo se regenera ahora, que es el
	// único momento en que tenemos la contraseña en claro. Un fallo acá
	// no bloquea el login.
	if NeedsRehash(*user.PasswordHash, uc.authCfg.BcryptCost) {
		if newHash, err := HashPassword(req.Password, uc.authCfg.BcryptCost); err == nil {
			if err := uc.users.UpdatePasswordHash(user.ID, newHash); err != nil {
				uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("no se pudo actualizar el costo del hash")
			}
		}
	}

	if err := uc.users.TouchLastSignedIn(user.ID); err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("no se pudo registrar el último acceso")
	}

	tenantID := ""
	if user.TenantID != nil {
		tenantID = *user.TenantID
	}
	token, _, err := session.Issue(
		uc.cfg.Secret,
		uc.cfg.Issuer,
		user.ID,
		tenantID,
		string(user.Role),
		user.CompanyID,
		uc.cfg.TTL(),
	)
	if err != nil {
		return nil, "", err
	}

	uc.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login exitoso")

	return &dto.LoginResponse{Success: true, User: toUserResponse(user)}, token, nil
}

// Logout revoca la sesión cuyo token se recibe. Un token ya inválido
// no es error: el logout es idempotente.
func (uc *UseCase) Logout(ctx context.Context, rawToken string) error {
	claims, err := session.Parse(uc.cfg.Secret, rawToken)
	if err != nil {
		return nil
	}
	// Sin exp no hay vencimiento natural: se retiene el jti por el TTL
	// máximo de una sesión.
	remaining := uc.cfg.TTL()
	if claims.ExpiresAt != nil {
		remaining = time.Until(claims.ExpiresAt.Time)
		if remaining <= 0 {
			return nil
		}
	}
	return uc.denylist.Revoke(ctx, claims.ID, remaining)
}

// IsSessionRevoked consulta la denylist de jti. Lo usa el middleware.
func (uc *UseCase) IsSessionRevoked(ctx context.Context, jti string) (bool, error) {
	return uc.denylist.IsRevoked(ctx, jti)
}

// Me devuelve el perfil del usuario autenticado.
func (uc *UseCase) Me(userID string) (*dto.UserResponse, error) {
	user, err := uc.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ChangePassword verifica la contraseña vigente y la reemplaza.
func (uc *UseCase) ChangePassword(userID string, req dto.ChangePasswordRequest) error {
	if len(req.NewPassword) < 8 {
		return domain.ErrInvalidInput
	}
	user, err := uc.users.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	if user.PasswordHash == nil || !VerifyPassword(req.CurrentPassword, *user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}
	hash, err := HashPassword(req.NewPassword, uc.authCfg.BcryptCost)
	if err != nil {
		return err
	}
	return uc.users.UpdatePasswordHash(userID, hash)
}

func (uc *UseCase) recordFailure(ctx context.Context, key string) {
	if err := uc.limiter.RecordFailure(ctx, key); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo registrar el intento fallido")
	}
}

func toUserResponse(u *entity.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		TenantID:  u.TenantID,
		CompanyID: u.CompanyID,
	}
	if !u.LastSignedIn.IsZero() {
		s := u.LastSignedIn.Format(time.RFC3339)
		resp.LastSignedIn = &s
	}
	return resp
}

// NewUserID genera el identificador de un usuario nuevo.
func NewUserID() string {
	return uuid.NewString()
}
