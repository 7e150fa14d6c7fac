package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/adminhub/admin-system/internal/core/domain"
	"github.com/adminhub/admin-system/internal/core/ports"
)

// RoleService owns the role/permission graph.
type RoleService struct {
	roles  ports.RoleRepository
	users  ports.UserRepository
	menus  ports.MenuRepository
	audit  ports.AuditRecorder
	logger zerolog.Logger
}

func NewRoleService(roles ports.RoleRepository, users ports.UserRepository, menus ports.MenuRepository, audit ports.AuditRecorder, logger zerolog.Logger) *RoleService {
	return &RoleService{roles: roles, users: users, menus: menus, audit: audit, logger: logger}
}

func (s *RoleService) List(ctx context.Context, search string, page, pageSize int) ([]domain.Role, int64, error) {
	return s.roles.List(ctx, search, page, pageSize)
}

func (s *RoleService) Get(ctx context.Context, id int64) (*domain.Role, error) {
	return s.roles.FindByID(ctx, id)
}

func (s *RoleService) Create(ctx context.Context, input ports.RoleInput) (*domain.Role, error) {
	code, err := s.validateCode(ctx, input.Code, 0)
	if err != nil {
		return nil, err
	}

	role := &domain.Role{
		Name:   input.Name,
		Code:   code,
		Status: domain.RoleStatusEnabled,
		Remark: input.Remark,
	}
	if input.Status != nil {
		role.Status = *input.Status
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *RoleService) Update(ctx context.Context, id int64, input ports.RoleInput) (*domain.Role, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role.IsSystem {
		return nil, domain.ErrSystemRoleImmutable
	}

	if input.Code != "" && domain.NormalizeRoleCode(input.Code) != role.Code {
		code, err := s.validateCode(ctx, input.Code, role.ID)
		if err != nil {
			return nil, err
		}
		role.Code = code
	}
	if input.Name != "" {
		role.Name = input.Name
	}
	if input.Status != nil {
		role.Status = *input.Status
	}
	if input.Remark != "" {
		role.Remark = input.Remark
	}

	if err := s.roles.Update(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// Delete soft-deletes the role. Roles still held by any user are protected.
func (s *RoleService) Delete(ctx context.Context, id int64) error {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return domain.ErrSystemRoleImmutable
	}

	count, err := s.roles.AssignmentCount(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d assignments", domain.ErrRoleInUse, count)
	}
	return s.roles.SoftDelete(ctx, id)
}

func (s *RoleService) ToggleStatus(ctx context.Context, id int64) (*domain.Role, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role.IsSystem {
		return nil, domain.ErrSystemRoleImmutable
	}

	if role.Status == domain.RoleStatusEnabled {
		role.Status = domain.RoleStatusDisabled
	} else {
		role.Status = domain.RoleStatusEnabled
	}
	if err := s.roles.Update(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// CanAssignAdmin reports whether the actor may include the admin role in an
// assignment: admins always may, everyone else only when the requested set
// does not contain the admin role's id.
func (s *RoleService) CanAssignAdmin(ctx context.Context, actor *domain.Identity, roleIDs []int64) (bool, error) {
	if actor != nil && actor.IsAdmin() {
		return true, nil
	}

	adminRole, err := s.roles.FindByCode(ctx, domain.RoleCodeAdmin)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	for _, id := range roleIDs {
		if id == adminRole.ID {
			return false, nil
		}
	}
	return true, nil
}

// AssignRoles replaces the user's entire role set in one transaction. Ids
// that do not resolve to a live role are silently skipped — a deliberate
// leniency kept for client compatibility — and the applied set is returned so
// strict clients can detect the skips.
func (s *RoleService) AssignRoles(ctx context.Context, actor *domain.Identity, userID int64, roleIDs []int64) ([]int64, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ok, err := s.CanAssignAdmin(ctx, actor, roleIDs)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: only admins may grant the admin role", domain.ErrForbidden)
	}

	applied, err := s.roles.FilterExisting(ctx, roleIDs)
	if err != nil {
		return nil, err
	}
	if err := s.users.ReplaceRoles(ctx, userID, applied); err != nil {
		return nil, err
	}

	event := domain.AuditEvent{
		Action:     domain.AuditActionUpdate,
		Module:     domain.AuditModuleUser,
		ResourceID: strconv.FormatInt(userID, 10),
		Detail:     fmt.Sprintf("roles of %s replaced with %v", user.Username, applied),
		Success:    true,
		Timestamp:  time.Now().UTC(),
	}
	if actor != nil {
		event.ActorID = actor.UserID
		event.Actor = actor.Username
	}
	s.audit.Record(event)

	return applied, nil
}

func (s *RoleService) MenuIDs(ctx context.Context, roleID int64) ([]int64, error) {
	if _, err := s.roles.FindByID(ctx, roleID); err != nil {
		return nil, err
	}
	return s.roles.MenuIDs(ctx, roleID)
}

// ReplaceMenus rewrites the role's grant set. Menu ids that do not resolve to
// a live menu are skipped, mirroring the role-assignment leniency.
func (s *RoleService) ReplaceMenus(ctx context.Context, actor *domain.Identity, roleID int64, menuIDs []int64) error {
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return err
	}

	live, err := s.menus.ListByIDs(ctx, menuIDs)
	if err != nil {
		return err
	}
	applied := make([]int64, 0, len(live))
	for _, m := range live {
		applied = append(applied, m.ID)
	}
	if err := s.roles.ReplaceMenus(ctx, roleID, applied); err != nil {
		return err
	}

	event := domain.AuditEvent{
		Action:     domain.AuditActionUpdate,
		Module:     domain.AuditModuleRole,
		ResourceID: strconv.FormatInt(roleID, 10),
		Detail:     fmt.Sprintf("menus of role %s replaced with %v", role.Code, applied),
		Success:    true,
		Timestamp:  time.Now().UTC(),
	}
	if actor != nil {
		event.ActorID = actor.UserID
		event.Actor = actor.Username
	}
	s.audit.Record(event)
	return nil
}

// validateCode normalizes the code and enforces the reserved-word and
// uniqueness rules. selfID excludes the role being renamed from the
// uniqueness check.
func (s *RoleService) validateCode(ctx context.Context, code string, selfID int64) (string, error) {
	normalized := domain.NormalizeRoleCode(code)
	if normalized == "" {
		return "", fmt.Errorf("%w: empty role code", domain.ErrValidation)
	}
	if domain.IsReservedRoleCode(normalized) {
		return "", domain.ErrReservedRoleCode
	}

	existing, err := s.roles.FindByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return normalized, nil
		}
		return "", err
	}
	if existing.ID != selfID {
		return "", domain.ErrRoleExists
	}
	return normalized, nil
}
