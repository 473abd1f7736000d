package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestaosst/sst-api/internal/application/auth"
	"github.com/gestaosst/sst-api/internal/application/authz"
	"github.com/gestaosst/sst-api/internal/domain"
	"github.com/gestaosst/sst-api/internal/domain/entity"
	apphttp "github.com/gestaosst/sst-api/internal/interfaces/http"
	"github.com/gestaosst/sst-api/pkg/config"
	"github.com/gestaosst/sst-api/pkg/logger"
	"github.com/gestaosst/sst-api/pkg/session"
)

const (
	testSecret   = "test-secret-key-for-unit-tests"
	testCookie   = "sst_session"
	testUserID   = "00000000-0000-0000-0000-000000000001"
	testTenantID = "00000000-0000-0000-0000-000000000002"
)

// --- fakes mínimos: el middleware solo usa FindByID y GetByID ---

type stubUserRepo struct {
	user *entity.User
}

func (s *stubUserRepo) Create(*entity.User) error { return nil }
func (s *stubUserRepo) FindByID(id string) (*entity.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, nil
}
func (s *stubUserRepo) FindByIdentifier(string) (*entity.User, error) { return nil, nil }
func (s *stubUserRepo) Update(*entity.User) error                     { return nil }
func (s *stubUserRepo) UpdatePasswordHash(string, string) error       { return nil }
func (s *stubUserRepo) TouchLastSignedIn(string) error                { return nil }
func (s *stubUserRepo) ListByTenant(string, int, int) ([]*entity.User, error) {
	return nil, nil
}

type stubTenantRepo struct {
	tenant *entity.Tenant
}

func (s *stubTenantRepo) Create(*entity.Tenant) error { return nil }
func (s *stubTenantRepo) GetByID(id string) (*entity.Tenant, error) {
	if s.tenant != nil && s.tenant.ID == id {
		return s.tenant, nil
	}
	return nil, nil
}
func (s *stubTenantRepo) Update(*entity.Tenant) error             { return nil }
func (s *stubTenantRepo) UpdateStatus(string, string) error       { return nil }
func (s *stubTenantRepo) Delete(string) error                     { return nil }
func (s *stubTenantRepo) List(int, int) ([]*entity.Tenant, error) { return nil, nil }

type stubDenylist struct {
	revoked map[string]bool
}

func (s *stubDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	s.revoked[jti] = true
	return nil
}
func (s *stubDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.revoked[jti], nil
}

type stubCompanyRepo struct{}

func (s *stubCompanyRepo) Create(*entity.Company) error { return nil }
func (s *stubCompanyRepo) GetByID(string) (*entity.Company, error) {
	return nil, nil
}
func (s *stubCompanyRepo) GetByCNPJ(string, string) (*entity.Company, error) {
	return nil, nil
}
func (s *stubCompanyRepo) Update(*entity.Company) error { return nil }
func (s *stubCompanyRepo) ListByTenant(string, int, int) ([]*entity.Company, error) {
	return nil, nil
}

type stubLimiter struct{}

func (s *stubLimiter) Check(context.Context, string) (bool, time.Duration, error) {
	return true, 0, nil
}
func (s *stubLimiter) RecordFailure(context.Context, string) error { return nil }
func (s *stubLimiter) Clear(context.Context, string) error         { return nil }

// testWorld agrupa el estado que manipulan los tests.
type testWorld struct {
	users    *stubUserRepo
	tenants  *stubTenantRepo
	denylist *stubDenylist
}

func activeWorld() *testWorld {
	return &testWorld{
		users: &stubUserRepo{user: &entity.User{
			ID:       testUserID,
			TenantID: strPtr(testTenantID),
			Role:     entity.RoleGestor,
			Name:     "María",
		}},
		tenants: &stubTenantRepo{tenant: &entity.Tenant{
			ID:     testTenantID,
			Status: entity.TenantActive,
		}},
		denylist: &stubDenylist{revoked: map[string]bool{}},
	}
}

func strPtr(s string) *string { return &s }

// buildTestApp arma una app Fiber con una ruta protegida por el
// middleware de sesión y, opcionalmente, por una operación.
func buildTestApp(w *testWorld, extra ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := []fiber.Handler{apphttp.SessionMiddleware(apphttp.SessionDeps{
		Cfg:      config.SessionConfig{Secret: testSecret, CookieName: testCookie, TTLDays: 30},
		Users:    w.users,
		Tenants:  w.tenants,
		Denylist: w.denylist,
		Log:      logger.Nop(),
	})}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		p, _ := apphttp.GetPrincipal(c)
		return c.JSON(fiber.Map{"userId": p.UserID, "tenantId": p.TenantID, "role": string(p.Role)})
	})
	app.Get("/protected", handlers...)
	return app
}

func issueToken(t *testing.T, role entity.Role, ttl time.Duration) (string, string) {
	t.Helper()
	token, jti, err := session.Issue(testSecret, "sst-api-test", testUserID, testTenantID, string(role), nil, ttl)
	require.NoError(t, err)
	return token, jti
}

// buildMeApp arma la ruta pública /api/auth/me tal como la registra el
// router: resolución de sesión laxa, el handler responde null si no hay.
func buildMeApp(w *testWorld) *fiber.App {
	cfg := config.SessionConfig{Secret: testSecret, CookieName: testCookie, TTLDays: 30}
	uc := auth.NewUseCase(w.users, w.tenants, &stubCompanyRepo{}, &stubLimiter{}, w.denylist,
		cfg, config.AuthConfig{}, logger.Nop())
	h := apphttp.NewAuthHandler(uc, cfg, false)

	app := fiber.New()
	app.Get("/api/auth/me", apphttp.OptionalSession(apphttp.SessionDeps{
		Cfg:      cfg,
		Users:    w.users,
		Tenants:  w.tenants,
		Denylist: w.denylist,
		Log:      logger.Nop(),
	}), h.Me)
	return app
}

func doRequest(t *testing.T, app *fiber.App, cookie string) *http.Response {
	t.Helper()
	return doGet(t, app, "/protected", cookie)
}

func doGet(t *testing.T, app *fiber.App, path, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: cookie})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) (code, message string) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Code, out.Message
}

// --- tests ---

func TestSessionMiddleware_SinCookie(t *testing.T) {
	app := buildTestApp(activeWorld())

	resp := doRequest(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	code, message := decodeError(t, resp)
	assert.Equal(t, domain.CodeUnauthenticated, code)
	assert.Equal(t, domain.SentinelUnauthenticated, message)
}

func TestSessionMiddleware_TokenManipulado(t *testing.T) {
	app := buildTestApp(activeWorld())
	token, _ := issueToken(t, entity.RoleGestor, time.Hour)

	// Alterar un byte del payload invalida la firma.
	tampered := []byte(token)
	tampered[len(tampered)/2] ^= 0x01

	resp := doRequest(t, app, string(tampered))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	_, message := decodeError(t, resp)
	assert.Equal(t, domain.SentinelUnauthenticated, message)
}

func TestSessionMiddleware_TokenVencido(t *testing.T) {
	app := buildTestApp(activeWorld())
	token, _ := issueToken(t, entity.RoleGestor, -time.Minute)

	resp := doRequest(t, app, token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSessionMiddleware_SesionRevocada(t *testing.T) {
	w := activeWorld()
	app := buildTestApp(w)
	token, jti := issueToken(t, entity.RoleGestor, time.Hour)
	w.denylist.revoked[jti] = true

	resp := doRequest(t, app, token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	_, message := decodeError(t, resp)
	assert.Equal(t, domain.SentinelUnauthenticated, message)
}

func TestSessionMiddleware_UsuarioBorrado(t *testing.T) {
	w := activeWorld()
	w.users.user = nil
	app := buildTestApp(w)
	token, _ := issueToken(t, entity.RoleGestor, time.Hour)

	resp := doRequest(t, app, token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSessionMiddleware_TenantExpirado(t *testing.T) {
	// Token válido pero el tenant dejó de estar activo: mismo 401
	// centinela, el token no se distingue de uno inválido.
	w := activeWorld()
	w.tenants.tenant.Status = entity.TenantExpired
	app := buildTestApp(w)
	token, _ := issueToken(t, entity.RoleGestor, time.Hour)

	resp := doRequest(t, app, token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	_, message := decodeError(t, resp)
	assert.Equal(t, domain.SentinelUnauthenticated, message)
}

func TestSessionMiddleware_SesionValida(t *testing.T) {
	app := buildTestApp(activeWorld())
	token, _ := issueToken(t, entity.RoleGestor, time.Hour)

	resp := doRequest(t, app, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, testUserID, out["userId"])
	assert.Equal(t, testTenantID, out["tenantId"])
	assert.Equal(t, string(entity.RoleGestor), out["role"])
}

func TestMe_SinSesionRespondeNull(t *testing.T) {
	// /auth/me es público: el cliente lo consulta para saber si hay
	// sesión, así que la respuesta anónima es null, no el 401 centinela.
	app := buildMeApp(activeWorld())

	resp := doGet(t, app, "/api/auth/me", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "null", string(body))
}

func TestMe_TokenVencidoRespondeNull(t *testing.T) {
	app := buildMeApp(activeWorld())
	token, _ := issueToken(t, entity.RoleGestor, -time.Minute)

	resp := doGet(t, app, "/api/auth/me", token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "null", string(body))
}

func TestMe_ConSesionDevuelveElPerfil(t *testing.T) {
	app := buildMeApp(activeWorld())
	token, _ := issueToken(t, entity.RoleGestor, time.Hour)

	resp := doGet(t, app, "/api/auth/me", token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, testUserID, out.ID)
	assert.Equal(t, "María", out.Name)
}

func TestRequireOperation_GestorBloqueadoEnGestionDeUsuarios(t *testing.T) {
	app := buildTestApp(activeWorld(), apphttp.RequireOperation(authz.OpUsersManage))
	token, _ := issueToken(t, entity.RoleGestor, time.Hour)

	resp := doRequest(t, app, token)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	code, _ := decodeError(t, resp)
	assert.Equal(t, string(domain.DenyRoleNotPermitted), code)
}

func TestRequireOperation_AdminPermitido(t *testing.T) {
	w := activeWorld()
	w.users.user.Role = entity.RoleAdmin
	app := buildTestApp(w, apphttp.RequireOperation(authz.OpUsersManage))
	token, _ := issueToken(t, entity.RoleAdmin, time.Hour)

	resp := doRequest(t, app, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireSuperAdmin_AdminDeTenantBloqueado(t *testing.T) {
	w := activeWorld()
	w.users.user.Role = entity.RoleTenantAdmin
	app := buildTestApp(w, apphttp.RequireSuperAdmin())
	token, _ := issueToken(t, entity.RoleTenantAdmin, time.Hour)

	resp := doRequest(t, app, token)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	code, _ := decodeError(t, resp)
	assert.Equal(t, string(domain.DenyRoleNotPermitted), code)
}
