package rbac_test

import (
	"context"
	"testing"

	"github.com/masad-stock/mutech-civil-hrm/internal/rbac"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// seedStore backs the seeder fakes with in-memory tables so a second run
// sees what the first one wrote.
type seedStore struct {
	rbac.Repository
	permissions map[string]*rbac.Permission
	roles       map[string]*rbac.Role
	links       map[uuid.UUID][]uuid.UUID

	permissionCreates int
	roleCreates       int
}

func newSeedStore() *seedStore {
	return &seedStore{
		permissions: make(map[string]*rbac.Permission),
		roles:       make(map[string]*rbac.Role),
		links:       make(map[uuid.UUID][]uuid.UUID),
	}
}

func (s *seedStore) FindPermissionByName(ctx context.Context, name string) (*rbac.Permission, error) {
	if p, ok := s.permissions[name]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *seedStore) CreatePermission(ctx context.Context, perm *rbac.Permission) error {
	s.permissions[perm.Name] = perm
	s.permissionCreates++
	return nil
}

func (s *seedStore) FindRoleByName(ctx context.Context, name string) (*rbac.Role, error) {
	if r, ok := s.roles[name]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *seedStore) CreateRole(ctx context.Context, role *rbac.Role) error {
	s.roles[role.Name] = role
	s.roleCreates++
	return nil
}

func (s *seedStore) ReplaceRolePermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error {
	s.links[roleID] = append([]uuid.UUID(nil), permissionIDs...)
	return nil
}

func TestSeederInitialize(t *testing.T) {
	ctx := context.Background()
	store := newSeedStore()
	seeder := rbac.NewSeeder(store)

	assert.NoError(t, seeder.Initialize(ctx))

	assert.Len(t, store.permissions, len(rbac.PermissionCatalog))
	assert.Len(t, store.roles, len(rbac.RoleCatalog))
	assert.Equal(t, len(rbac.PermissionCatalog), store.permissionCreates)
	assert.Equal(t, len(rbac.RoleCatalog), store.roleCreates)

	// Every catalog role link resolves to real permission ids.
	for _, def := range rbac.RoleCatalog {
		role := store.roles[def.Name]
		assert.NotNil(t, role)
		assert.Len(t, store.links[role.ID], len(def.Permissions))
	}

	firstLinks := make(map[uuid.UUID][]uuid.UUID, len(store.links))
	for id, perms := range store.links {
		firstLinks[id] = append([]uuid.UUID(nil), perms...)
	}

	// A second run must not create anything new and must rebuild the exact
	// same role→permission mapping.
	assert.NoError(t, seeder.Initialize(ctx))

	assert.Equal(t, len(rbac.PermissionCatalog), store.permissionCreates)
	assert.Equal(t, len(rbac.RoleCatalog), store.roleCreates)
	assert.Equal(t, firstLinks, store.links)
}

func TestSeederRestoresEditedLinks(t *testing.T) {
	ctx := context.Background()
	store := newSeedStore()
	seeder := rbac.NewSeeder(store)

	assert.NoError(t, seeder.Initialize(ctx))

	// Simulate a manual grant drifting a seeded role off the catalog.
	employee := store.roles["employee"]
	assert.NotNil(t, employee)
	original := append([]uuid.UUID(nil), store.links[employee.ID]...)
	store.links[employee.ID] = append(store.links[employee.ID], uuid.New())

	assert.NoError(t, seeder.Initialize(ctx))
	assert.Equal(t, original, store.links[employee.ID])
}
