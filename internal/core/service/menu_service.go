package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/adminhub/admin-system/internal/core/domain"
	"github.com/adminhub/admin-system/internal/core/ports"
)

// MenuService owns the menu hierarchy and the per-user navigation forest.
type MenuService struct {
	menus  ports.MenuRepository
	roles  ports.RoleRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewMenuService(menus ports.MenuRepository, roles ports.RoleRepository, users ports.UserRepository, logger zerolog.Logger) *MenuService {
	return &MenuService{menus: menus, roles: roles, users: users, logger: logger}
}

// BuildTree groups a flat menu list into a forest by parent id in a single
// pass; input order does not matter. Siblings are ordered by order_num
// ascending, ties broken by id, so output is deterministic. A node whose
// parent is not part of the input set is promoted to root — this is what
// makes the function reusable for per-role forests where ancestors are not
// automatically granted.
func BuildTree(menus []domain.Menu) []*domain.MenuNode {
	nodes := make(map[int64]*domain.MenuNode, len(menus))
	for i := range menus {
		nodes[menus[i].ID] = &domain.MenuNode{Menu: menus[i]}
	}

	var roots []*domain.MenuNode
	for _, node := range nodes {
		if !node.IsRoot() {
			if parent, ok := nodes[*node.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortForest(roots)
	return roots
}

func sortForest(nodes []*domain.MenuNode) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].OrderNum != nodes[j].OrderNum {
			return nodes[i].OrderNum < nodes[j].OrderNum
		}
		return nodes[i].ID < nodes[j].ID
	})
	for _, n := range nodes {
		sortForest(n.Children)
	}
}

func (s *MenuService) Tree(ctx context.Context, search string) ([]*domain.MenuNode, error) {
	menus, err := s.menus.List(ctx, search)
	if err != nil {
		return nil, err
	}
	return BuildTree(menus), nil
}

func (s *MenuService) EnabledTree(ctx context.Context) ([]*domain.MenuNode, error) {
	menus, err := s.menus.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTree(menus), nil
}

func (s *MenuService) Get(ctx context.Context, id int64) (*domain.Menu, error) {
	return s.menus.FindByID(ctx, id)
}

func (s *MenuService) Create(ctx context.Context, input ports.MenuInput) (*domain.Menu, error) {
	if err := s.checkParent(ctx, input.ParentID); err != nil {
		return nil, err
	}

	menu := &domain.Menu{
		Name:      input.Name,
		Icon:      input.Icon,
		ParentID:  input.ParentID,
		OrderNum:  input.OrderNum,
		Path:      input.Path,
		Component: input.Component,
		Perms:     input.Perms,
		Status:    domain.MenuStatusEnabled,
		Remark:    input.Remark,
	}
	if input.Status != nil {
		menu.Status = *input.Status
	}
	if err := s.menus.Create(ctx, menu); err != nil {
		return nil, err
	}
	return menu, nil
}

func (s *MenuService) Update(ctx context.Context, id int64, input ports.MenuInput) (*domain.Menu, error) {
	menu, err := s.menus.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if parentChanged(menu.ParentID, input.ParentID) {
		ok, err := s.ValidateNoCycle(ctx, id, input.ParentID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrMenuCycle
		}
		if err := s.checkParent(ctx, input.ParentID); err != nil {
			return nil, err
		}
		menu.ParentID = input.ParentID
	}

	if input.Name != "" {
		menu.Name = input.Name
	}
	menu.Icon = input.Icon
	menu.OrderNum = input.OrderNum
	menu.Path = input.Path
	menu.Component = input.Component
	menu.Perms = input.Perms
	menu.Remark = input.Remark
	if input.Status != nil {
		menu.Status = *input.Status
	}

	if err := s.menus.Update(ctx, menu); err != nil {
		return nil, err
	}
	return menu, nil
}

func (s *MenuService) Delete(ctx context.Context, id int64) error {
	if _, err := s.menus.FindByID(ctx, id); err != nil {
		return err
	}
	return s.menus.SoftDelete(ctx, id)
}

// Reorder applies order/parent to each item. Every parent reassignment is
// cycle-validated up front; nothing is written when any item would corrupt
// the hierarchy.
func (s *MenuService) Reorder(ctx context.Context, items []ports.MenuReorderItem) error {
	for _, item := range items {
		menu, err := s.menus.FindByID(ctx, item.ID)
		if err != nil {
			return err
		}
		if !parentChanged(menu.ParentID, item.ParentID) {
			continue
		}
		ok, err := s.ValidateNoCycle(ctx, item.ID, item.ParentID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: menu %d under %v", domain.ErrMenuCycle, item.ID, item.ParentID)
		}
	}
	return s.menus.ApplyReorder(ctx, items)
}

// ValidateNoCycle walks the ancestor chain from the candidate parent upward.
// The walk is bounded by the live node count so it terminates even if the
// stored graph is already corrupted.
func (s *MenuService) ValidateNoCycle(ctx context.Context, menuID int64, candidateParentID *int64) (bool, error) {
	if candidateParentID == nil || *candidateParentID == 0 {
		return true, nil
	}
	if *candidateParentID == menuID {
		return false, nil
	}

	bound, err := s.menus.Count(ctx)
	if err != nil {
		return false, err
	}

	current := *candidateParentID
	for steps := int64(0); steps <= bound; steps++ {
		ancestor, err := s.menus.FindByID(ctx, current)
		if errors.Is(err, domain.ErrNotFound) {
			// A dangling parent reference terminates the chain; no cycle.
			return true, nil
		}
		if err != nil {
			return false, err
		}
		if ancestor.IsRoot() {
			return true, nil
		}
		if *ancestor.ParentID == menuID {
			return false, nil
		}
		current = *ancestor.ParentID
	}

	// Walk exceeded the node count: a pre-existing cycle. Refuse the write.
	s.logger.Warn().Int64("menu_id", menuID).Int64("parent_id", *candidateParentID).Msg("ancestor walk exceeded node count, graph may contain a cycle")
	return false, nil
}

// EffectiveMenusForUser unions the menu grants of the user's roles and builds
// the forest over exactly that set. Ancestors are not implicitly granted;
// granted children of an ungranted parent surface as roots.
func (s *MenuService) EffectiveMenusForUser(ctx context.Context, userID int64) ([]*domain.MenuNode, error) {
	roles, err := s.users.RolesFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{})
	var granted []int64
	for _, role := range roles {
		ids, err := s.roles.MenuIDs(ctx, role.ID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				granted = append(granted, id)
			}
		}
	}
	if len(granted) == 0 {
		return []*domain.MenuNode{}, nil
	}

	menus, err := s.menus.ListByIDs(ctx, granted)
	if err != nil {
		return nil, err
	}

	enabled := menus[:0]
	for _, m := range menus {
		if m.Status == domain.MenuStatusEnabled {
			enabled = append(enabled, m)
		}
	}
	return BuildTree(enabled), nil
}

func (s *MenuService) checkParent(ctx context.Context, parentID *int64) error {
	if parentID == nil || *parentID == 0 {
		return nil
	}
	if _, err := s.menus.FindByID(ctx, *parentID); err != nil {
		return fmt.Errorf("parent menu: %w", err)
	}
	return nil
}

func parentChanged(current, next *int64) bool {
	norm := func(p *int64) int64 {
		if p == nil {
			return 0
		}
		return *p
	}
	return norm(current) != norm(next)
}
