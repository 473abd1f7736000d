package usecase

import (
	"testing"

	"github.com/gestaosst/sst-api/internal/application/dto"
	"github.com/gestaosst/sst-api/internal/domain"
	"github.com/gestaosst/sst-api/internal/domain/entity"
	"github.com/gestaosst/sst-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeRepo struct {
	companies map[string]*entity.Company
	created   []*entity.Employee
}

func (f *fakeEmployeeRepo) Create(e *entity.Employee) error {
	company, ok := f.companies[e.CompanyID]
	if !ok {
		return domain.ErrNotFound
	}
	// El tenant sale de la empresa, como hace el INSERT real.
	e.TenantID = company.TenantID
	f.created = append(f.created, e)
	return nil
}

func (f *fakeEmployeeRepo) GetByID(id string) (*entity.Employee, error) {
	for _, e := range f.created {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeEmployeeRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Employee, error) {
	var out []*entity.Employee
	for _, e := range f.created {
		if e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeCompanyRepo struct {
	companies map[string]*entity.Company
}

func (f *fakeCompanyRepo) Create(c *entity.Company) error { f.companies[c.ID] = c; return nil }
func (f *fakeCompanyRepo) GetByID(id string) (*entity.Company, error) {
	return f.companies[id], nil
}
func (f *fakeCompanyRepo) GetByCNPJ(tenantID, cnpj string) (*entity.Company, error) {
	for _, c := range f.companies {
		if c.TenantID == tenantID && c.CNPJ == cnpj {
			return c, nil
		}
	}
	return nil, nil
}
func (f *fakeCompanyRepo) Update(c *entity.Company) error { f.companies[c.ID] = c; return nil }
func (f *fakeCompanyRepo) ListByTenant(tenantID string, limit, offset int) ([]*entity.Company, error) {
	return nil, nil
}

func newEmployeeFixture() (*EmployeeUseCase, *fakeEmployeeRepo) {
	companies := map[string]*entity.Company{
		"c-1": {ID: "c-1", TenantID: "t-1", Name: "Constructora Sur", CNPJ: "11222333000181"},
		"c-2": {ID: "c-2", TenantID: "t-2", Name: "Ajena SA", CNPJ: "99888777000166"},
	}
	repo := &fakeEmployeeRepo{companies: companies}
	uc := NewEmployeeUseCase(repo, &fakeCompanyRepo{companies: companies}, logger.Nop())
	return uc, repo
}

func TestEmployeeCreate_DerivaElTenantDeLaEmpresa(t *testing.T) {
	uc, repo := newEmployeeFixture()
	actor := entity.Principal{UserID: "u-1", TenantID: "t-1", Role: entity.RoleGestor}

	resp, err := uc.Create(actor, dto.CreateEmployeeRequest{
		CompanyID: "c-1",
		Name:      "João",
		CPF:       "111.444.777-35",
	})
	require.NoError(t, err)
	assert.Equal(t, "t-1", resp.TenantID)
	assert.Equal(t, "11144477735", resp.CPF)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "t-1", repo.created[0].TenantID)
}

func TestEmployeeCreate_EmpresaDeOtroTenant(t *testing.T) {
	uc, _ := newEmployeeFixture()
	actor := entity.Principal{UserID: "u-1", TenantID: "t-1", Role: entity.RoleGestor}

	_, err := uc.Create(actor, dto.CreateEmployeeRequest{
		CompanyID: "c-2",
		Name:      "João",
		CPF:       "11144477735",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEmployeeCreate_EmpresaInexistente(t *testing.T) {
	uc, _ := newEmployeeFixture()
	actor := entity.Principal{UserID: "u-1", TenantID: "t-1", Role: entity.RoleGestor}

	_, err := uc.Create(actor, dto.CreateEmployeeRequest{
		CompanyID: "c-nope",
		Name:      "João",
		CPF:       "11144477735",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEmployeeCreate_CPFInvalido(t *testing.T) {
	uc, _ := newEmployeeFixture()
	actor := entity.Principal{UserID: "u-1", TenantID: "t-1", Role: entity.RoleGestor}

	_, err := uc.Create(actor, dto.CreateEmployeeRequest{
		CompanyID: "c-1",
		Name:      "João",
		CPF:       "123",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompanyCreate_CNPJDuplicadoEnElTenant(t *testing.T) {
	companies := &fakeCompanyRepo{companies: map[string]*entity.Company{
		"c-1": {ID: "c-1", TenantID: "t-1", CNPJ: "11222333000181"},
	}}
	uc := NewCompanyUseCase(companies, newFakeTenantRepo(), logger.Nop())
	actor := entity.Principal{UserID: "u-1", TenantID: "t-1", Role: entity.RoleAdmin}

	_, err := uc.Create(actor, dto.CreateCompanyRequest{
		Name: "Duplicada",
		CNPJ: "11.222.333/0001-81",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// El mismo CNPJ en otro tenant sí es válido.
	otro := entity.Principal{UserID: "u-2", TenantID: "t-2", Role: entity.RoleAdmin}
	resp, err := uc.Create(otro, dto.CreateCompanyRequest{
		Name: "Filial",
		CNPJ: "11.222.333/0001-81",
	})
	require.NoError(t, err)
	assert.Equal(t, "t-2", resp.TenantID)
}
