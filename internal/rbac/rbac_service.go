package rbac

import (
	"context"
	"strings"
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

type Service interface {
	// HasPermission reports whether any role attached to the user carries the
	// named permission (exact resource.action match).
	HasPermission(ctx context.Context, userID, permissionName string) (bool, error)
	// HasRole reports whether the user is assigned the named role.
	HasRole(ctx context.Context, userID, roleName string) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.Mutex
	logger   *zap.Logger
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

func (s *service) HasPermission(ctx context.Context, userID, permissionName string) (bool, error) {
	resource, action, ok := strings.Cut(permissionName, ".")
	if !ok {
		// permissions are always resource.action; anything else matches nothing
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadUserPolicyUnlocked(ctx, userID); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(userID, resource, action)
	if err != nil {
		s.logger.Error("enforce failed",
			zap.String("user_id", userID),
			zap.String("permission", permissionName),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("enforce result",
		zap.String("user_id", userID),
		zap.String("permission", permissionName),
		zap.Bool("allowed", allowed),
	)

	return allowed, nil
}

func (s *service) HasRole(ctx context.Context, userID, roleName string) (bool, error) {
	roles, err := s.repo.GetUserRoleNames(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, r := range roles {
		if r == roleName {
			return true, nil
		}
	}
	return false, nil
}

// loadUserPolicyUnlocked rebuilds the enforcer with the user's effective
// role and permission set. Re-read on every check so role edits take effect
// immediately; the middleware calls this at most once per request.
func (s *service) loadUserPolicyUnlocked(ctx context.Context, userID string) error {
	s.enforcer.ClearPolicy()

	roleNames, err := s.repo.GetUserRoleNames(ctx, userID)
	if err != nil {
		return err
	}

	for _, role := range roleNames {
		if _, err := s.enforcer.AddGroupingPolicy(userID, role); err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions(ctx, roleNames)
	if err != nil {
		return err
	}

	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.RoleName, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	return nil
}
