package rbac

import (
	"testing"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/stretchr/testify/assert"

	"go-pto/internal/domain"
)

type fakeRBACRepository struct {
	employeeRoles   []EmployeeRoleRow
	rolePermissions []RolePermissionRow
}

func (f *fakeRBACRepository) GetEmployeeRoles(companyID string) ([]EmployeeRoleRow, error) {
	return f.employeeRoles, nil
}

func (f *fakeRBACRepository) GetRolePermissions(companyID string) ([]RolePermissionRow, error) {
	return f.rolePermissions, nil
}

func (f *fakeRBACRepository) ListRoles(companyID string) ([]RoleRow, error) { return nil, nil }
func (f *fakeRBACRepository) GetRoleByID(id string) (*RoleRow, error)       { return nil, nil }
func (f *fakeRBACRepository) GetRoleByName(c, n string) (*RoleRow, error)   { return nil, nil }
func (f *fakeRBACRepository) CreateRole(role *RoleRow) error                { return nil }
func (f *fakeRBACRepository) UpdateRole(role *RoleRow) error                { return nil }
func (f *fakeRBACRepository) DeleteRole(id string) error                    { return nil }
func (f *fakeRBACRepository) ListPermissions() ([]PermissionRow, error)     { return nil, nil }

func newTestEnforcer(t *testing.T) *casbin.Enforcer {
	modelText := `[request_definition]
r = sub, dom, obj, act

[policy_definition]
p = sub, dom, obj, act

[role_definition]
g = _, _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub, r.dom) && r.dom == p.dom && r.obj == p.obj && r.act == p.act
`

	m, err := model.NewModelFromString(modelText)
	assert.NoError(t, err)

	e, err := casbin.NewEnforcer(m)
	assert.NoError(t, err)

	return e
}

func TestRBACService_Enforce(t *testing.T) {
	repo := &fakeRBACRepository{
		employeeRoles: []EmployeeRoleRow{
			{EmployeeID: "emp-1", RoleID: "role-manager"},
		},
		rolePermissions: []RolePermissionRow{
			{RoleID: "role-manager", Resource: "leave_request", Action: "approve"},
			{RoleID: "role-manager", Resource: "leave_request", Action: "read"},
		},
	}
	service := NewService(repo, newTestEnforcer(t))

	allowed, err := service.Enforce(domain.EnforceRequest{
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		Resource:   "leave_request",
		Action:     "approve",
	})
	assert.NoError(t, err)
	assert.True(t, allowed)

	denied, err := service.Enforce(domain.EnforceRequest{
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		Resource:   "leave_policy",
		Action:     "manage",
	})
	assert.NoError(t, err)
	assert.False(t, denied)
}

func TestRBACService_EnforceUnknownEmployee(t *testing.T) {
	repo := &fakeRBACRepository{
		rolePermissions: []RolePermissionRow{
			{RoleID: "role-manager", Resource: "leave_request", Action: "approve"},
		},
	}
	service := NewService(repo, newTestEnforcer(t))

	allowed, err := service.Enforce(domain.EnforceRequest{
		EmployeeID: "emp-unassigned",
		CompanyID:  "company-1",
		Resource:   "leave_request",
		Action:     "approve",
	})
	assert.NoError(t, err)
	assert.False(t, allowed)
}
