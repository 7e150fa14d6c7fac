package gormdb

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/adminhub/admin-system/internal/core/domain"
)

// RoleRepository is the gorm-backed role store.
type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) FindByID(ctx context.Context, id int64) (*domain.Role, error) {
	var role domain.Role
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

func (r *RoleRepository) FindByCode(ctx context.Context, code string) (*domain.Role, error) {
	var role domain.Role
	err := r.db.WithContext(ctx).Where("code = ?", domain.NormalizeRoleCode(code)).First(&role).Error
	if err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

func (r *RoleRepository) List(ctx context.Context, search string, page, pageSize int) ([]domain.Role, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Role{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR code LIKE ? OR remark LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var roles []domain.Role
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&roles).Error
	if err != nil {
		return nil, 0, err
	}
	return roles, total, nil
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *RoleRepository) Update(ctx context.Context, role *domain.Role) error {
	return r.db.WithContext(ctx).Save(role).Error
}

func (r *RoleRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Role{}, id).Error
}

func (r *RoleRepository) AssignmentCount(ctx context.Context, roleID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.UserRole{}).
		Where("role_id = ?", roleID).
		Count(&count).Error
	return count, err
}

// FilterExisting returns the subset of ids that resolve to live roles,
// preserving input order and dropping duplicates.
func (r *RoleRepository) FilterExisting(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var found []int64
	err := r.db.WithContext(ctx).Model(&domain.Role{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error
	if err != nil {
		return nil, err
	}

	live := make(map[int64]struct{}, len(found))
	for _, id := range found {
		live[id] = struct{}{}
	}

	result := make([]int64, 0, len(found))
	for _, id := range ids {
		if _, ok := live[id]; ok {
			result = append(result, id)
			delete(live, id)
		}
	}
	return result, nil
}

func (r *RoleRepository) MenuIDs(ctx context.Context, roleID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&domain.RoleMenu{}).
		Where("role_id = ?", roleID).
		Pluck("menu_id", &ids).Error
	return ids, err
}

// ReplaceMenus rewrites the role's grant set atomically.
func (r *RoleRepository) ReplaceMenus(ctx context.Context, roleID int64, menuIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", roleID).Delete(&domain.RoleMenu{}).Error; err != nil {
			return fmt.Errorf("clear menu grants: %w", err)
		}
		if len(menuIDs) == 0 {
			return nil
		}
		rows := make([]domain.RoleMenu, 0, len(menuIDs))
		for _, menuID := range menuIDs {
			rows = append(rows, domain.RoleMenu{RoleID: roleID, MenuID: menuID})
		}
		return tx.Create(&rows).Error
	})
}
