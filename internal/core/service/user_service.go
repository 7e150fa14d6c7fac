package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/adminhub/admin-system/internal/core/domain"
	"github.com/adminhub/admin-system/internal/core/ports"
)

// UserService owns account management around the credential store.
type UserService struct {
	users  ports.UserRepository
	audit  ports.AuditRecorder
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, audit ports.AuditRecorder, logger zerolog.Logger) *UserService {
	return &UserService{users: users, audit: audit, logger: logger}
}

func (s *UserService) Signup(ctx context.Context, input ports.SignupInput) (*domain.User, error) {
	if _, err := s.users.FindByUsername(ctx, input.Username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     input.Username,
		PasswordHash: string(hash),
		Email:        input.Email,
		Phone:        input.Phone,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{
		ActorID:    user.ID,
		Actor:      user.Username,
		Action:     domain.AuditActionCreate,
		Module:     domain.AuditModuleUser,
		ResourceID: strconv.FormatInt(user.ID, 10),
		Detail:     "signup",
		Success:    true,
		Timestamp:  time.Now().UTC(),
	})
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, search string, page, pageSize int) ([]domain.User, int64, error) {
	return s.users.List(ctx, search, page, pageSize)
}

// UpdateProfile lets a user edit their own profile; editing someone else
// requires the admin role. Status changes are admin-only regardless of
// target.
func (s *UserService) UpdateProfile(ctx context.Context, actor *domain.Identity, id int64, input ports.ProfileInput) (*domain.User, error) {
	if actor == nil || (actor.UserID != id && !actor.IsAdmin()) {
		return nil, domain.ErrForbidden
	}
	if input.Status != nil && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins may change account status", domain.ErrForbidden)
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Status != nil {
		user.Status = *input.Status
	}
	if input.Comment != nil {
		user.Comment = *input.Comment
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.recordMutation(actor, domain.AuditActionUpdate, user.ID, "profile updated")
	return user, nil
}

// ChangePassword verifies the old password when the actor changes their own;
// an admin resetting another account skips the verification.
func (s *UserService) ChangePassword(ctx context.Context, actor *domain.Identity, id int64, oldPassword, newPassword string) error {
	if actor == nil || (actor.UserID != id && !actor.IsAdmin()) {
		return domain.ErrForbidden
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if actor.UserID == id {
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
			return domain.ErrInvalidCredentials
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, id, string(hash)); err != nil {
		return err
	}

	s.recordMutation(actor, domain.AuditActionUpdate, id, "password changed")
	return nil
}

// HardDelete permanently removes an account. Admin-role holders are refused,
// and the account must be vacated of role assignments first.
func (s *UserService) HardDelete(ctx context.Context, actor *domain.Identity, id int64) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	roles, err := s.users.RolesFor(ctx, id)
	if err != nil {
		return err
	}
	for _, r := range roles {
		if r.Code == domain.RoleCodeAdmin {
			return domain.ErrAdminUndeletable
		}
	}
	if len(roles) > 0 {
		return fmt.Errorf("%w: clear the user's roles first", domain.ErrUserHasRoles)
	}

	if err := s.users.HardDelete(ctx, id); err != nil {
		return err
	}

	s.recordMutation(actor, domain.AuditActionDelete, id, fmt.Sprintf("user %s permanently removed", user.Username))
	return nil
}

func (s *UserService) recordMutation(actor *domain.Identity, action string, resourceID int64, detail string) {
	event := domain.AuditEvent{
		Action:     action,
		Module:     domain.AuditModuleUser,
		ResourceID: strconv.FormatInt(resourceID, 10),
		Detail:     detail,
		Success:    true,
		Timestamp:  time.Now().UTC(),
	}
	if actor != nil {
		event.ActorID = actor.UserID
		event.Actor = actor.Username
	}
	s.audit.Record(event)
}
