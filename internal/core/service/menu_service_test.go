package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/adminhub/admin-system/internal/core/domain"
	"github.com/adminhub/admin-system/internal/core/ports"
)

func newTestMenuService(menus *memMenuRepo, roles *memRoleRepo, users *memUserRepo) *MenuService {
	return NewMenuService(menus, roles, users, zerolog.Nop())
}

func ptr(v int64) *int64 { return &v }

func TestBuildTree_OrdersSiblingsAndNestsChildren(t *testing.T) {
	menus := []domain.Menu{
		{ID: 1, Name: "System", OrderNum: 2},
		{ID: 2, Name: "Dashboard", OrderNum: 1},
		{ID: 3, Name: "Users", OrderNum: 1, ParentID: ptr(1)},
		{ID: 4, Name: "Roles", OrderNum: 2, ParentID: ptr(1)},
	}

	forest := BuildTree(menus)
	if len(forest) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(forest))
	}
	if forest[0].ID != 2 || forest[1].ID != 1 {
		t.Fatalf("roots out of order: [%d %d]", forest[0].ID, forest[1].ID)
	}
	children := forest[1].Children
	if len(children) != 2 || children[0].ID != 3 || children[1].ID != 4 {
		t.Fatalf("unexpected children: %+v", children)
	}
}

func TestBuildTree_TiesBrokenByID(t *testing.T) {
	menus := []domain.Menu{
		{ID: 9, Name: "B", OrderNum: 5},
		{ID: 3, Name: "A", OrderNum: 5},
	}
	forest := BuildTree(menus)
	if forest[0].ID != 3 || forest[1].ID != 9 {
		t.Fatalf("equal order numbers must fall back to id order: [%d %d]", forest[0].ID, forest[1].ID)
	}
}

func TestBuildTree_OrphanPromotedToRoot(t *testing.T) {
	// Parent 1 is absent from the input set (ungranted or deleted); its child
	// must surface as a root instead of disappearing.
	menus := []domain.Menu{
		{ID: 2, Name: "Dashboard", OrderNum: 1},
		{ID: 3, Name: "Users", OrderNum: 2, ParentID: ptr(1)},
	}
	forest := BuildTree(menus)
	if len(forest) != 2 {
		t.Fatalf("expected orphan to be promoted, got %d roots", len(forest))
	}
	if forest[1].ID != 3 || len(forest[1].Children) != 0 {
		t.Fatalf("unexpected forest: %+v", forest)
	}
}

func TestBuildTree_ZeroParentIsRoot(t *testing.T) {
	menus := []domain.Menu{{ID: 1, Name: "Home", ParentID: ptr(0)}}
	forest := BuildTree(menus)
	if len(forest) != 1 || forest[0].ID != 1 {
		t.Fatalf("parent_id 0 must behave as root, got %+v", forest)
	}
}

func TestMenuService_Create_MissingParent(t *testing.T) {
	svc := newTestMenuService(newMemMenuRepo(), newMemRoleRepo(), newMemUserRepo())
	if _, err := svc.Create(context.Background(), ports.MenuInput{Name: "Orphan", ParentID: ptr(42)}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing parent, got %v", err)
	}
}

func TestMenuService_Update_SelfParentRejected(t *testing.T) {
	menus := newMemMenuRepo()
	m := menus.addMenu(domain.Menu{Name: "Node", Status: domain.MenuStatusEnabled})
	svc := newTestMenuService(menus, newMemRoleRepo(), newMemUserRepo())

	if _, err := svc.Update(context.Background(), m.ID, ports.MenuInput{Name: "Node", ParentID: ptr(m.ID)}); !errors.Is(err, domain.ErrMenuCycle) {
		t.Fatalf("expected ErrMenuCycle, got %v", err)
	}
}

func TestMenuService_Update_DeepCycleRejected(t *testing.T) {
	menus := newMemMenuRepo()
	// Chain a -> x -> y (a is the root ancestor).
	a := menus.addMenu(domain.Menu{Name: "a", Status: domain.MenuStatusEnabled})
	x := menus.addMenu(domain.Menu{Name: "x", ParentID: ptr(a.ID), Status: domain.MenuStatusEnabled})
	y := menus.addMenu(domain.Menu{Name: "y", ParentID: ptr(x.ID), Status: domain.MenuStatusEnabled})
	svc := newTestMenuService(menus, newMemRoleRepo(), newMemUserRepo())

	// Reparenting a under its own descendant closes the loop.
	if _, err := svc.Update(context.Background(), a.ID, ports.MenuInput{Name: "a", ParentID: ptr(y.ID)}); !errors.Is(err, domain.ErrMenuCycle) {
		t.Fatalf("expected ErrMenuCycle for deep cycle, got %v", err)
	}

	// A sibling move within the chain stays legal.
	if _, err := svc.Update(context.Background(), y.ID, ports.MenuInput{Name: "y", ParentID: ptr(a.ID)}); err != nil {
		t.Fatalf("legal reparent rejected: %v", err)
	}
}

func TestMenuService_ValidateNoCycle_StoreFailureRejects(t *testing.T) {
	menus := newMemMenuRepo()
	a := menus.addMenu(domain.Menu{Name: "a", Status: domain.MenuStatusEnabled})
	b := menus.addMenu(domain.Menu{Name: "b", ParentID: ptr(a.ID), Status: domain.MenuStatusEnabled})
	svc := newTestMenuService(menus, newMemRoleRepo(), newMemUserRepo())

	// An unreachable store must never report a reparent as cycle-free. Only a
	// confirmed missing row may terminate the ancestor walk.
	menus.findErr = errBackendDown
	ok, err := svc.ValidateNoCycle(context.Background(), a.ID, ptr(b.ID))
	if ok {
		t.Fatalf("store failure must not validate as cycle-free")
	}
	if !errors.Is(err, errBackendDown) {
		t.Fatalf("expected the store error to surface, got %v", err)
	}

	menus.findErr = nil
	if ok, err := svc.ValidateNoCycle(context.Background(), a.ID, ptr(b.ID)); ok || err != nil {
		t.Fatalf("a->b->a must still be detected as a cycle: ok=%v err=%v", ok, err)
	}
}

func TestMenuService_Reorder_AppliesOrderAndParent(t *testing.T) {
	menus := newMemMenuRepo()
	a := menus.addMenu(domain.Menu{Name: "a", OrderNum: 1, Status: domain.MenuStatusEnabled})
	b := menus.addMenu(domain.Menu{Name: "b", OrderNum: 2, Status: domain.MenuStatusEnabled})
	svc := newTestMenuService(menus, newMemRoleRepo(), newMemUserRepo())

	err := svc.Reorder(context.Background(), []ports.MenuReorderItem{
		{ID: a.ID, OrderNum: 2},
		{ID: b.ID, OrderNum: 1, ParentID: ptr(a.ID)},
	})
	if err != nil {
		t.Fatalf("Reorder returned error: %v", err)
	}

	moved, err := svc.Get(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if moved.OrderNum != 1 || moved.ParentID == nil || *moved.ParentID != a.ID {
		t.Fatalf("reorder not applied: %+v", moved)
	}
}

func TestMenuService_Reorder_OneCycleRejectsWholeBatch(t *testing.T) {
	menus := newMemMenuRepo()
	a := menus.addMenu(domain.Menu{Name: "a", OrderNum: 1, Status: domain.MenuStatusEnabled})
	b := menus.addMenu(domain.Menu{Name: "b", OrderNum: 2, ParentID: ptr(a.ID), Status: domain.MenuStatusEnabled})
	svc := newTestMenuService(menus, newMemRoleRepo(), newMemUserRepo())

	err := svc.Reorder(context.Background(), []ports.MenuReorderItem{
		{ID: a.ID, OrderNum: 9},                    // harmless on its own
		{ID: a.ID, OrderNum: 1, ParentID: ptr(b.ID)}, // closes a cycle
	})
	if !errors.Is(err, domain.ErrMenuCycle) {
		t.Fatalf("expected ErrMenuCycle, got %v", err)
	}
	if len(menus.reordered) != 0 {
		t.Fatalf("nothing may be written when any item is invalid")
	}

	untouched, _ := svc.Get(context.Background(), a.ID)
	if untouched.OrderNum != 1 {
		t.Fatalf("order must be unchanged after rejected batch: %+v", untouched)
	}
}

func TestMenuService_Delete_SoftDeletesAndPromotesChildren(t *testing.T) {
	menus := newMemMenuRepo()
	parent := menus.addMenu(domain.Menu{Name: "parent", OrderNum: 1, Status: domain.MenuStatusEnabled})
	child := menus.addMenu(domain.Menu{Name: "child", OrderNum: 1, ParentID: ptr(parent.ID), Status: domain.MenuStatusEnabled})
	svc := newTestMenuService(menus, newMemRoleRepo(), newMemUserRepo())

	if err := svc.Delete(context.Background(), parent.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	forest, err := svc.Tree(context.Background(), "")
	if err != nil {
		t.Fatalf("Tree returned error: %v", err)
	}
	if len(forest) != 1 || forest[0].ID != child.ID {
		t.Fatalf("child of deleted parent must surface at root: %+v", forest)
	}
}

func TestMenuService_EffectiveMenusForUser(t *testing.T) {
	menus := newMemMenuRepo()
	roles := newMemRoleRepo()
	users := newMemUserRepo()

	system := menus.addMenu(domain.Menu{Name: "System", OrderNum: 1, Status: domain.MenuStatusEnabled})
	userMgmt := menus.addMenu(domain.Menu{Name: "Users", OrderNum: 1, ParentID: ptr(system.ID), Status: domain.MenuStatusEnabled})
	reports := menus.addMenu(domain.Menu{Name: "Reports", OrderNum: 2, Status: domain.MenuStatusEnabled})
	hidden := menus.addMenu(domain.Menu{Name: "Hidden", OrderNum: 3, Status: domain.MenuStatusDisabled})

	viewer := roles.addRole(domain.Role{Name: "Viewer", Code: "viewer", Status: domain.RoleStatusEnabled})
	editor := roles.addRole(domain.Role{Name: "Editor", Code: "editor", Status: domain.RoleStatusEnabled})
	roles.menuGrants[viewer.ID] = []int64{reports.ID, hidden.ID}
	// Editor gets the child but not its parent.
	roles.menuGrants[editor.ID] = []int64{userMgmt.ID, reports.ID}

	account := users.addUser(domain.User{Username: "bob", Status: domain.UserStatusActive})
	users.roles[viewer.ID] = *viewer
	users.roles[editor.ID] = *editor
	users.grants[account.ID] = []int64{viewer.ID, editor.ID}

	svc := newTestMenuService(menus, roles, users)
	forest, err := svc.EffectiveMenusForUser(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("EffectiveMenusForUser returned error: %v", err)
	}

	// Union of both roles, disabled menu dropped, ungranted parent means the
	// child is promoted to root.
	if len(forest) != 2 {
		t.Fatalf("expected 2 roots, got %d: %+v", len(forest), forest)
	}
	if forest[0].ID != userMgmt.ID || forest[1].ID != reports.ID {
		t.Fatalf("unexpected roots: [%d %d]", forest[0].ID, forest[1].ID)
	}
	for _, node := range forest {
		if node.ID == hidden.ID {
			t.Fatalf("disabled menu leaked into the forest")
		}
	}
}

func TestMenuService_EffectiveMenusForUser_NoRoles(t *testing.T) {
	users := newMemUserRepo()
	account := users.addUser(domain.User{Username: "bob", Status: domain.UserStatusActive})
	svc := newTestMenuService(newMemMenuRepo(), newMemRoleRepo(), users)

	forest, err := svc.EffectiveMenusForUser(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("EffectiveMenusForUser returned error: %v", err)
	}
	if len(forest) != 0 {
		t.Fatalf("expected empty forest, got %+v", forest)
	}
}
