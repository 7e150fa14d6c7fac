package gormdb

import (
	"context"

	"gorm.io/gorm"

	"github.com/adminhub/admin-system/internal/core/domain"
	"github.com/adminhub/admin-system/internal/core/ports"
)

// MenuRepository is the gorm-backed menu store.
type MenuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

func (r *MenuRepository) FindByID(ctx context.Context, id int64) (*domain.Menu, error) {
	var menu domain.Menu
	if err := r.db.WithContext(ctx).First(&menu, id).Error; err != nil {
		return nil, translate(err)
	}
	return &menu, nil
}

func (r *MenuRepository) List(ctx context.Context, search string) ([]domain.Menu, error) {
	q := r.db.WithContext(ctx).Model(&domain.Menu{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR path LIKE ? OR component LIKE ? OR perms LIKE ?", like, like, like, like)
	}

	var menus []domain.Menu
	if err := q.Order("order_num ASC, id ASC").Find(&menus).Error; err != nil {
		return nil, err
	}
	return menus, nil
}

func (r *MenuRepository) ListEnabled(ctx context.Context) ([]domain.Menu, error) {
	var menus []domain.Menu
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.MenuStatusEnabled).
		Order("order_num ASC, id ASC").
		Find(&menus).Error
	if err != nil {
		return nil, err
	}
	return menus, nil
}

func (r *MenuRepository) ListByIDs(ctx context.Context, ids []int64) ([]domain.Menu, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var menus []domain.Menu
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("order_num ASC, id ASC").
		Find(&menus).Error
	if err != nil {
		return nil, err
	}
	return menus, nil
}

func (r *MenuRepository) Create(ctx context.Context, menu *domain.Menu) error {
	return r.db.WithContext(ctx).Create(menu).Error
}

func (r *MenuRepository) Update(ctx context.Context, menu *domain.Menu) error {
	return r.db.WithContext(ctx).Save(menu).Error
}

func (r *MenuRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Menu{}, id).Error
}

// ApplyReorder writes order/parent for each item in one transaction so a
// failed batch leaves the previous ordering intact.
func (r *MenuRepository) ApplyReorder(ctx context.Context, items []ports.MenuReorderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			res := tx.Model(&domain.Menu{}).
				Where("id = ?", item.ID).
				Updates(map[string]interface{}{
					"order_num": item.OrderNum,
					"parent_id": item.ParentID,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return domain.ErrNotFound
			}
		}
		return nil
	})
}

func (r *MenuRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Menu{}).Count(&count).Error
	return count, err
}
