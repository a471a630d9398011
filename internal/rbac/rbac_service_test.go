package rbac_test

import (
	"context"
	"testing"

	"github.com/masad-stock/mutech-civil-hrm/internal/rbac"

	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	rbac.Repository
	GetUserRoleNamesFn   func(ctx context.Context, userID string) ([]string, error)
	GetRolePermissionsFn func(ctx context.Context, roleNames []string) ([]rbac.RolePermissionRow, error)
}

func (f *fakeRepo) GetUserRoleNames(ctx context.Context, userID string) ([]string, error) {
	return f.GetUserRoleNamesFn(ctx, userID)
}
func (f *fakeRepo) GetRolePermissions(ctx context.Context, roleNames []string) ([]rbac.RolePermissionRow, error) {
	return f.GetRolePermissionsFn(ctx, roleNames)
}

func newService(t *testing.T, repo rbac.Repository) rbac.Service {
	t.Helper()
	enforcer, err := rbac.NewEnforcer()
	assert.NoError(t, err)
	return rbac.NewService(repo, enforcer)
}

func TestHasPermission(t *testing.T) {
	ctx := context.Background()

	accountantRepo := &fakeRepo{
		GetUserRoleNamesFn: func(ctx context.Context, userID string) ([]string, error) {
			return []string{"accountant"}, nil
		},
		GetRolePermissionsFn: func(ctx context.Context, roleNames []string) ([]rbac.RolePermissionRow, error) {
			return []rbac.RolePermissionRow{
				{RoleName: "accountant", Resource: "employees", Action: "view_salary"},
				{RoleName: "accountant", Resource: "reports", Action: "view"},
			}, nil
		},
	}

	t.Run("granted through an assigned role", func(t *testing.T) {
		svc := newService(t, accountantRepo)
		allowed, err := svc.HasPermission(ctx, "user-1", "employees.view_salary")
		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("permission not carried by any role", func(t *testing.T) {
		svc := newService(t, accountantRepo)
		allowed, err := svc.HasPermission(ctx, "user-1", "employees.delete")
		assert.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("user with no roles", func(t *testing.T) {
		repo := &fakeRepo{
			GetUserRoleNamesFn: func(ctx context.Context, userID string) ([]string, error) {
				return nil, nil
			},
			GetRolePermissionsFn: func(ctx context.Context, roleNames []string) ([]rbac.RolePermissionRow, error) {
				return nil, nil
			},
		}
		svc := newService(t, repo)
		allowed, err := svc.HasPermission(ctx, "user-2", "employees.view")
		assert.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("malformed permission name matches nothing", func(t *testing.T) {
		svc := newService(t, accountantRepo)
		allowed, err := svc.HasPermission(ctx, "user-1", "employees")
		assert.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("policy reload picks up role changes", func(t *testing.T) {
		roles := []string{"accountant"}
		repo := &fakeRepo{
			GetUserRoleNamesFn: func(ctx context.Context, userID string) ([]string, error) {
				return roles, nil
			},
			GetRolePermissionsFn: func(ctx context.Context, roleNames []string) ([]rbac.RolePermissionRow, error) {
				if len(roleNames) == 0 {
					return nil, nil
				}
				return []rbac.RolePermissionRow{
					{RoleName: "accountant", Resource: "reports", Action: "view"},
				}, nil
			},
		}

		svc := newService(t, repo)
		allowed, err := svc.HasPermission(ctx, "user-1", "reports.view")
		assert.NoError(t, err)
		assert.True(t, allowed)

		roles = nil
		allowed, err = svc.HasPermission(ctx, "user-1", "reports.view")
		assert.NoError(t, err)
		assert.False(t, allowed)
	})
}

func TestHasRole(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{
		GetUserRoleNamesFn: func(ctx context.Context, userID string) ([]string, error) {
			return []string{"hr_manager", "employee"}, nil
		},
	}
	svc := newService(t, repo)

	has, err := svc.HasRole(ctx, "user-1", "hr_manager")
	assert.NoError(t, err)
	assert.True(t, has)

	has, err = svc.HasRole(ctx, "user-1", "admin")
	assert.NoError(t, err)
	assert.False(t, has)
}
