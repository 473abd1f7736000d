package auth

import (
	"context"
	"testing"
	"time"

	"github.com/gestaosst/sst-api/internal/application/dto"
	"github.com/gestaosst/sst-api/internal/domain"
	"github.com/gestaosst/sst-api/internal/domain/entity"
	"github.com/gestaosst/sst-api/pkg/config"
	"github.com/gestaosst/sst-api/pkg/logger"
	"github.com/gestaosst/sst-api/pkg/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- fakes en memoria ---

type fakeUserRepo struct {
	users       map[string]*entity.User
	touched     []string
	rehashed    map[string]string
	createErr   error
	lastCreated *entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}, rehashed: map[string]string{}}
}

func (f *fakeUserRepo) Create(u *entity.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.users[u.ID] = u
	f.lastCreated = u
	return nil
}

func (f *fakeUserRepo) FindByID(id string) (*entity.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByIdentifier(identifier string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == identifier || (u.CPF != "" && u.CPF == identifier) || (u.CNPJ != "" && u.CNPJ == identifier) {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(u *entity.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) UpdatePasswordHash(id, hash string) error {
	f.rehashed[id] = hash
	if u, ok := f.users[id]; ok {
		u.PasswordHash = &hash
	}
	return nil
}

func (f *fakeUserRepo) TouchLastSignedIn(id string) error {
	f.touched = append(f.touched, id)
	return nil
}

func (f *fakeUserRepo) ListByTenant(tenantID string, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range f.users {
		if u.TenantID != nil && *u.TenantID == tenantID {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeTenantRepo struct {
	tenants map[string]*entity.Tenant
}

func (f *fakeTenantRepo) Create(t *entity.Tenant) error { f.tenants[t.ID] = t; return nil }
func (f *fakeTenantRepo) GetByID(id string) (*entity.Tenant, error) {
	return f.tenants[id], nil
}
func (f *fakeTenantRepo) Update(t *entity.Tenant) error { f.tenants[t.ID] = t; return nil }
func (f *fakeTenantRepo) UpdateStatus(id, status string) error {
	if t, ok := f.tenants[id]; ok {
		t.Status = status
	}
	return nil
}
func (f *fakeTenantRepo) Delete(id string) error                           { delete(f.tenants, id); return nil }
func (f *fakeTenantRepo) List(limit, offset int) ([]*entity.Tenant, error) { return nil, nil }

type fakeCompanyRepo struct {
	companies map[string]*entity.Company
}

func (f *fakeCompanyRepo) Create(c *entity.Company) error { f.companies[c.ID] = c; return nil }
func (f *fakeCompanyRepo) GetByID(id string) (*entity.Company, error) {
	return f.companies[id], nil
}
func (f *fakeCompanyRepo) GetByCNPJ(tenantID, cnpj string) (*entity.Company, error) {
	return nil, nil
}
func (f *fakeCompanyRepo) Update(c *entity.Company) error { f.companies[c.ID] = c; return nil }
func (f *fakeCompanyRepo) ListByTenant(tenantID string, limit, offset int) ([]*entity.Company, error) {
	return nil, nil
}

type fakeLimiter struct {
	blocked  bool
	failures []string
	cleared  []string
}

func (f *fakeLimiter) Check(ctx context.Context, key string) (bool, time.Duration, error) {
	if f.blocked {
		return false, time.Minute, nil
	}
	return true, 0, nil
}
func (f *fakeLimiter) RecordFailure(ctx context.Context, key string) error {
	f.failures = append(f.failures, key)
	return nil
}
func (f *fakeLimiter) Clear(ctx context.Context, key string) error {
	f.cleared = append(f.cleared, key)
	return nil
}

type fakeDenylist struct {
	revoked map[string]bool
}

func (f *fakeDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	f.revoked[jti] = true
	return nil
}
func (f *fakeDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return f.revoked[jti], nil
}

// --- armado ---

const testSecret = "clave-de-prueba-para-tests"

func mustHash(t *testing.T, plain string) *string {
	t.Helper()
	h, err := HashPassword(plain, bcrypt.MinCost)
	require.NoError(t, err)
	return &h
}

func strPtr(s string) *string { return &s }

type fixture struct {
	uc       *UseCase
	users    *fakeUserRepo
	tenants  *fakeTenantRepo
	limiter  *fakeLimiter
	denylist *fakeDenylist
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := newFakeUserRepo()
	tenants := &fakeTenantRepo{tenants: map[string]*entity.Tenant{}}
	companies := &fakeCompanyRepo{companies: map[string]*entity.Company{}}
	limiter := &fakeLimiter{}
	denylist := &fakeDenylist{revoked: map[string]bool{}}

	tenants.tenants["t-1"] = &entity.Tenant{
		ID:                "t-1",
		Name:              "Clínica Vida",
		Plan:              entity.PlanBasico,
		Status:            entity.TenantActive,
		SubscriptionStart: time.Now().Add(-24 * time.Hour),
	}

	uc := NewUseCase(users, tenants, companies, limiter, denylist,
		config.SessionConfig{Secret: testSecret, Issuer: "sst-api", TTLDays: 30, CookieName: "sst_session"},
		config.AuthConfig{BcryptCost: bcrypt.MinCost, LoginMaxAttempts: 5, LoginWindowMins: 15},
		logger.Nop(),
	)
	return &fixture{uc: uc, users: users, tenants: tenants, limiter: limiter, denylist: denylist}
}

func (fx *fixture) addUser(t *testing.T, u *entity.User) {
	t.Helper()
	require.NoError(t, fx.users.Create(u))
}

// --- tests ---

func TestLogin_ExitosoConCPFFormateado(t *testing.T) {
	fx := newFixture(t)
	fx.addUser(t, &entity.User{
		ID:           "u-1",
		TenantID:     strPtr("t-1"),
		CPF:          "11144477735",
		Email:        "maria@empresa.com.br",
		PasswordHash: mustHash(t, "secreta123"),
		Name:         "María",
		Role:         entity.RoleGestor,
	})

	resp, token, err := fx.uc.Login(context.Background(), dto.LoginRequest{
		Identifier: "111.444.777-35",
		Password:   "secreta123",
	}, "10.0.0.1")

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "u-1", resp.User.ID)
	assert.NotEmpty(t, token)

	claims, err := session.Parse(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "t-1", claims.TenantID)
	assert.Equal(t, string(entity.RoleGestor), claims.Role)

	assert.Contains(t, fx.users.touched, "u-1")
	assert.Len(t, fx.limiter.cleared, 1)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	fx := newFixture(t)

	resp, token, err := fx.uc.Login(context.Background(), dto.LoginRequest{
		Identifier: "nadie@empresa.com.br",
		Password:   "loquesea",
	}, "10.0.0.1")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Nil(t, resp)
	assert.Empty(t, token)
	assert.Len(t, fx.limiter.failures, 1)
}

func TestLogin_UsuarioSinContrasena(t *testing.T) {
	// Usuario creado vía OAuth: sin hash local, el login por
	// contraseña falla igual que si no existiera.
	fx := newFixture(t)
	fx.addUser(t, &entity.User{
		ID:       "u-2",
		TenantID: strPtr("t-1"),
		Email:    "oauth@empresa.com.br",
		Role:     entity.RoleUser,
	})

	_, _, err := fx.uc.Login(context.Background(), dto.LoginRequest{
		Identifier: "oauth@empresa.com.br",
		Password:   "loquesea",
	}, "10.0.0.1")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_ContrasenaIncorrecta(t *testing.T) {
	fx := newFixture(t)
	fx.addUser(t, &entity.User{
		ID:           "u-1",
		TenantID:     strPtr("t-1"),
		Email:        "maria@empresa.com.br",
		PasswordHash: mustHash(t, "secreta123"),
		Role:         entity.RoleGestor,
	})

	_, _, err := fx.uc.Login(context.Background(), dto.LoginRequest{
		Identifier: "maria@empresa.com.br",
		Password:   "incorrecta",
	}, "10.0.0.1")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Len(t, fx.limiter.failures, 1)
}

func TestLogin_TenantExpirado(t *testing.T) {
	fx := newFixture(t)
	fx.tenants.tenants["t-1"].Status = entity.TenantExpired
	fx.addUser(t, &entity.User{
		ID:           "u-1",
		TenantID:     strPtr("t-1"),
		Email:        "maria@empresa.com.br",
		PasswordHash: mustHash(t, "secreta123"),
		Role:         entity.RoleGestor,
	})

	_, token, err := fx.uc.Login(context.Background(), dto.LoginRequest{
		Identifier: "maria@empresa.com.br",
		Password:   "secreta123",
	}, "10.0.0.1")

	assert.ErrorIs(t, err, domain.ErrTenantExpired)
	assert.Empty(t, token)
}

func TestLogin_SuperAdminSinTenant(t *testing.T) {
	fx := newFixture(t)
	fx.addUser(t, &entity.User{
		ID:           "root",
		Email:        "root@sst.com.br",
		PasswordHash: mustHash(t, "secreta123"),
		Role:         entity.RoleSuperAdmin,
	})

	resp, token, err := fx.uc.Login(context.Background(), dto.LoginRequest{
		Identifier: "root@sst.com.br",
		Password:   "secreta123",
	}, "10.0.0.1")

	require.NoError(t, err)
	assert.True(t, resp.Success)

	claims, err := session.Parse(testSecret, token)
	require.NoError(t, err)
	assert.Empty(t, claims.TenantID)
}

func TestLogin_BloqueadoPorIntentos(t *testing.T) {
	fx := newFixture(t)
	fx.limiter.blocked = true

	_, _, err := fx.uc.Login(context.Background(), dto.LoginRequest{
		Identifier: "maria@empresa.com.br",
		Password:   "secreta123",
	}, "10.0.0.1")

	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)
}

func TestLogin_ReHashDeCostoViejo(t *testing.T) {
	fx := newFixture(t)
	fx.uc.authCfg.BcryptCost = bcrypt.MinCost + 1

	oldHash, err := HashPassword("secreta123", bcrypt.MinCost)
	require.NoError(t, err)
	fx.addUser(t, &entity.User{
		ID:           "u-1",
		TenantID:     strPtr("t-1"),
		Email:        "maria@empresa.com.br",
		PasswordHash: &oldHash,
		Role:         entity.RoleGestor,
	})

	_, _, err = fx.uc.Login(context.Background(), dto.LoginRequest{
		Identifier: "maria@empresa.com.br",
		Password:   "secreta123",
	}, "10.0.0.1")

	require.NoError(t, err)
	newHash, ok := fx.users.rehashed["u-1"]
	require.True(t, ok, "el hash debió regenerarse con el costo nuevo")
	cost, err := bcrypt.Cost([]byte(newHash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)
	assert.True(t, VerifyPassword("secreta123", newHash))
}

func TestLogout_RevocaLaSesion(t *testing.T) {
	fx := newFixture(t)
	token, jti, err := session.Issue(testSecret, "sst-api", "u-1", "t-1", string(entity.RoleGestor), nil, time.Hour)
	require.NoError(t, err)

	require.NoError(t, fx.uc.Logout(context.Background(), token))

	revoked, err := fx.uc.IsSessionRevoked(context.Background(), jti)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestLogout_TokenInvalidoEsIdempotente(t *testing.T) {
	fx := newFixture(t)
	assert.NoError(t, fx.uc.Logout(context.Background(), "basura"))
	assert.NoError(t, fx.uc.Logout(context.Background(), ""))
}

func TestLogout_TokenSinExpiracion(t *testing.T) {
	// Un token firmado con el secreto real pero sin exp no vence nunca
	// solo; el logout lo revoca reteniendo el jti por el TTL máximo.
	fx := newFixture(t)
	claims := session.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   "sst-api",
			Subject:  "u-1",
			ID:       "jti-sin-exp",
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		UserID:   "u-1",
		TenantID: "t-1",
		Role:     string(entity.RoleGestor),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	require.NoError(t, fx.uc.Logout(context.Background(), token))

	revoked, err := fx.uc.IsSessionRevoked(context.Background(), "jti-sin-exp")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestChangePassword_ContrasenaActualIncorrecta(t *testing.T) {
	fx := newFixture(t)
	fx.addUser(t, &entity.User{
		ID:           "u-1",
		TenantID:     strPtr("t-1"),
		Email:        "maria@empresa.com.br",
		PasswordHash: mustHash(t, "secreta123"),
		Role:         entity.RoleGestor,
	})

	err := fx.uc.ChangePassword("u-1", dto.ChangePasswordRequest{
		CurrentPassword: "incorrecta",
		NewPassword:     "nuevaclave9",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestChangePassword_Exitoso(t *testing.T) {
	fx := newFixture(t)
	fx.addUser(t, &entity.User{
		ID:           "u-1",
		TenantID:     strPtr("t-1"),
		Email:        "maria@empresa.com.br",
		PasswordHash: mustHash(t, "secreta123"),
		Role:         entity.RoleGestor,
	})

	require.NoError(t, fx.uc.ChangePassword("u-1", dto.ChangePasswordRequest{
		CurrentPassword: "secreta123",
		NewPassword:     "nuevaclave9",
	}))
	assert.True(t, VerifyPassword("nuevaclave9", *fx.users.users["u-1"].PasswordHash))
}

func TestCreateUser_EmpresaDeOtroTenant(t *testing.T) {
	fx := newFixture(t)
	companies := fx.uc.companies.(*fakeCompanyRepo)
	companies.companies["c-ajena"] = &entity.Company{ID: "c-ajena", TenantID: "t-otro"}

	admin := entity.Principal{UserID: "adm", TenantID: "t-1", Role: entity.RoleAdmin}
	_, err := fx.uc.CreateUser(admin, dto.CreateUserRequest{
		Name:      "Pedro",
		Email:     "pedro@empresa.com.br",
		Password:  "clave12345",
		Role:      string(entity.RoleTecnico),
		CompanyID: strPtr("c-ajena"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateUser_HeredaElTenantDelCreador(t *testing.T) {
	fx := newFixture(t)
	admin := entity.Principal{UserID: "adm", TenantID: "t-1", Role: entity.RoleAdmin}

	resp, err := fx.uc.CreateUser(admin, dto.CreateUserRequest{
		Name:     "Pedro",
		Email:    "Pedro@Empresa.com.BR",
		Password: "clave12345",
		Role:     string(entity.RoleTecnico),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.TenantID)
	assert.Equal(t, "t-1", *resp.TenantID)
	// El email se guarda normalizado.
	assert.Equal(t, "pedro@empresa.com.br", resp.Email)
}

func TestCreateUser_CreadorSinTenant(t *testing.T) {
	// El super_admin no pertenece a ningún tenant: un usuario creado por
	// él quedaría sin tenant, así que el alta se rechaza.
	fx := newFixture(t)
	root := entity.Principal{UserID: "root", Role: entity.RoleSuperAdmin}

	_, err := fx.uc.CreateUser(root, dto.CreateUserRequest{
		Name:     "Pedro",
		Email:    "pedro@empresa.com.br",
		Password: "clave12345",
		Role:     string(entity.RoleTecnico),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, fx.users.lastCreated)
}

func TestCreateUser_NoPermiteSuperAdmin(t *testing.T) {
	fx := newFixture(t)
	admin := entity.Principal{UserID: "adm", TenantID: "t-1", Role: entity.RoleAdmin}

	_, err := fx.uc.CreateUser(admin, dto.CreateUserRequest{
		Name:     "Intruso",
		Email:    "intruso@empresa.com.br",
		Password: "clave12345",
		Role:     string(entity.RoleSuperAdmin),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
