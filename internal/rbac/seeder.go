package rbac

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seeder installs the static catalog. Safe to run on every boot: permissions
// and roles are created only when absent, while role→permission links are
// cleared and rebuilt so the catalog stays the source of truth.
type Seeder struct {
	repo   Repository
	logger *zap.Logger
}

func NewSeeder(repo Repository, logger ...*zap.Logger) *Seeder {
	l := zap.L().Named("rbac.seeder")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.seeder")
	}
	return &Seeder{repo: repo, logger: l}
}

func (s *Seeder) Initialize(ctx context.Context) error {
	permIDs, err := s.seedPermissions(ctx)
	if err != nil {
		return err
	}

	return s.seedRoles(ctx, permIDs)
}

func (s *Seeder) seedPermissions(ctx context.Context) (map[string]uuid.UUID, error) {
	ids := make(map[string]uuid.UUID, len(PermissionCatalog))

	for _, def := range PermissionCatalog {
		existing, err := s.repo.FindPermissionByName(ctx, def.Name)
		if err == nil {
			ids[def.Name] = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		resource, action, _ := strings.Cut(def.Name, ".")
		perm := &Permission{
			ID:          uuid.New(),
			Name:        def.Name,
			Description: def.Description,
			Resource:    resource,
			Action:      action,
		}
		if err := s.repo.CreatePermission(ctx, perm); err != nil {
			return nil, err
		}
		ids[def.Name] = perm.ID
	}

	s.logger.Info("permissions seeded", zap.Int("count", len(ids)))
	return ids, nil
}

func (s *Seeder) seedRoles(ctx context.Context, permIDs map[string]uuid.UUID) error {
	for _, def := range RoleCatalog {
		role, err := s.repo.FindRoleByName(ctx, def.Name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			role = &Role{
				ID:          uuid.New(),
				Name:        def.Name,
				Description: def.Description,
				IsActive:    true,
			}
			if err := s.repo.CreateRole(ctx, role); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		ids := make([]uuid.UUID, 0, len(def.Permissions))
		for _, permName := range def.Permissions {
			id, ok := permIDs[permName]
			if !ok {
				s.logger.Warn("role references unknown permission",
					zap.String("role", def.Name),
					zap.String("permission", permName),
				)
				continue
			}
			ids = append(ids, id)
		}

		// Authoritative rebuild: manual edits to a seeded role do not survive.
		if err := s.repo.ReplaceRolePermissions(ctx, role.ID, ids); err != nil {
			return err
		}
	}

	s.logger.Info("roles seeded", zap.Int("count", len(RoleCatalog)))
	return nil
}
