package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/adminhub/admin-system/internal/core/domain"
	"github.com/adminhub/admin-system/internal/core/ports"
)

// In-memory fakes shared by the service tests. They implement the repository
// ports over plain maps so service behavior can be exercised without a
// database.

func deletedNow() gorm.DeletedAt {
	return gorm.DeletedAt{Time: time.Now().UTC(), Valid: true}
}

// --- user repository ---

type memUserRepo struct {
	mu     sync.Mutex
	seq    int64
	users  map[int64]*domain.User
	roles  map[int64]domain.Role // role catalog consulted by RolesFor
	grants map[int64][]int64     // userID -> roleIDs

	lastLoginErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		users:  make(map[int64]*domain.User),
		roles:  make(map[int64]domain.Role),
		grants: make(map[int64][]int64),
	}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func (r *memUserRepo) addUser(u domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == 0 {
		r.seq++
		u.ID = r.seq
	} else if u.ID > r.seq {
		r.seq = u.ID
	}
	r.users[u.ID] = &u
	return cloneUser(&u)
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username && !u.DeletedAt.Valid {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.DeletedAt.Valid {
		return nil, domain.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *memUserRepo) List(_ context.Context, _ string, _, _ int) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.users {
		if !u.DeletedAt.Valid {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	created := r.addUser(*user)
	user.ID = created.ID
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *memUserRepo) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	if r.lastLoginErr != nil {
		return r.lastLoginErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.LastLoginAt = &at
	return nil
}

func (r *memUserRepo) HardDelete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.users, id)
	delete(r.grants, id)
	return nil
}

func (r *memUserRepo) RolesFor(_ context.Context, userID int64) ([]domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Role
	for _, roleID := range r.grants[userID] {
		if role, ok := r.roles[roleID]; ok && !role.DeletedAt.Valid {
			out = append(out, role)
		}
	}
	return out, nil
}

func (r *memUserRepo) ReplaceRoles(_ context.Context, userID int64, roleIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grants[userID] = append([]int64(nil), roleIDs...)
	return nil
}

// --- role repository ---

type memRoleRepo struct {
	mu          sync.Mutex
	seq         int64
	roles       map[int64]*domain.Role
	assignments map[int64]int64   // roleID -> holder count
	menuGrants  map[int64][]int64 // roleID -> menuIDs
}

func newMemRoleRepo() *memRoleRepo {
	return &memRoleRepo{
		roles:       make(map[int64]*domain.Role),
		assignments: make(map[int64]int64),
		menuGrants:  make(map[int64][]int64),
	}
}

func (r *memRoleRepo) addRole(role domain.Role) *domain.Role {
	r.mu.Lock()
	defer r.mu.Unlock()
	if role.ID == 0 {
		r.seq++
		role.ID = r.seq
	} else if role.ID > r.seq {
		r.seq = role.ID
	}
	r.roles[role.ID] = &role
	clone := role
	return &clone
}

func (r *memRoleRepo) FindByID(_ context.Context, id int64) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[id]
	if !ok || role.DeletedAt.Valid {
		return nil, domain.ErrNotFound
	}
	clone := *role
	return &clone, nil
}

func (r *memRoleRepo) FindByCode(_ context.Context, code string) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, role := range r.roles {
		if role.Code == code && !role.DeletedAt.Valid {
			clone := *role
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memRoleRepo) List(_ context.Context, _ string, _, _ int) ([]domain.Role, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Role
	for _, role := range r.roles {
		if !role.DeletedAt.Valid {
			out = append(out, *role)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *memRoleRepo) Create(_ context.Context, role *domain.Role) error {
	created := r.addRole(*role)
	role.ID = created.ID
	return nil
}

func (r *memRoleRepo) Update(_ context.Context, role *domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roles[role.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *role
	r.roles[role.ID] = &clone
	return nil
}

func (r *memRoleRepo) SoftDelete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[id]
	if !ok {
		return domain.ErrNotFound
	}
	role.DeletedAt = deletedNow()
	return nil
}

func (r *memRoleRepo) AssignmentCount(_ context.Context, roleID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.assignments[roleID], nil
}

func (r *memRoleRepo) FilterExisting(_ context.Context, ids []int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[int64]struct{}, len(ids))
	var out []int64
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		if role, ok := r.roles[id]; ok && !role.DeletedAt.Valid {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *memRoleRepo) MenuIDs(_ context.Context, roleID int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.menuGrants[roleID]...), nil
}

func (r *memRoleRepo) ReplaceMenus(_ context.Context, roleID int64, menuIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.menuGrants[roleID] = append([]int64(nil), menuIDs...)
	return nil
}

// --- menu repository ---

type memMenuRepo struct {
	mu    sync.Mutex
	seq   int64
	menus map[int64]*domain.Menu

	reordered [][]ports.MenuReorderItem
	findErr   error
}

func newMemMenuRepo() *memMenuRepo {
	return &memMenuRepo{menus: make(map[int64]*domain.Menu)}
}

func (r *memMenuRepo) addMenu(m domain.Menu) *domain.Menu {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == 0 {
		r.seq++
		m.ID = r.seq
	} else if m.ID > r.seq {
		r.seq = m.ID
	}
	r.menus[m.ID] = &m
	clone := m
	return &clone
}

func (r *memMenuRepo) FindByID(_ context.Context, id int64) (*domain.Menu, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.menus[id]
	if !ok || m.DeletedAt.Valid {
		return nil, domain.ErrNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *memMenuRepo) List(_ context.Context, _ string) ([]domain.Menu, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Menu
	for _, m := range r.menus {
		if !m.DeletedAt.Valid {
			out = append(out, *m)
		}
	}
	sortMenus(out)
	return out, nil
}

func (r *memMenuRepo) ListEnabled(_ context.Context) ([]domain.Menu, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Menu
	for _, m := range r.menus {
		if !m.DeletedAt.Valid && m.Status == domain.MenuStatusEnabled {
			out = append(out, *m)
		}
	}
	sortMenus(out)
	return out, nil
}

func (r *memMenuRepo) ListByIDs(_ context.Context, ids []int64) ([]domain.Menu, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Menu
	for _, id := range ids {
		if m, ok := r.menus[id]; ok && !m.DeletedAt.Valid {
			out = append(out, *m)
		}
	}
	sortMenus(out)
	return out, nil
}

func (r *memMenuRepo) Create(_ context.Context, menu *domain.Menu) error {
	created := r.addMenu(*menu)
	menu.ID = created.ID
	return nil
}

func (r *memMenuRepo) Update(_ context.Context, menu *domain.Menu) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.menus[menu.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *menu
	r.menus[menu.ID] = &clone
	return nil
}

func (r *memMenuRepo) SoftDelete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.menus[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.DeletedAt = deletedNow()
	return nil
}

func (r *memMenuRepo) ApplyReorder(_ context.Context, items []ports.MenuReorderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reordered = append(r.reordered, items)
	for _, item := range items {
		m, ok := r.menus[item.ID]
		if !ok {
			return domain.ErrNotFound
		}
		m.OrderNum = item.OrderNum
		m.ParentID = item.ParentID
	}
	return nil
}

func (r *memMenuRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.menus {
		if !m.DeletedAt.Valid {
			n++
		}
	}
	return n, nil
}

func sortMenus(menus []domain.Menu) {
	sort.Slice(menus, func(i, j int) bool {
		if menus[i].OrderNum != menus[j].OrderNum {
			return menus[i].OrderNum < menus[j].OrderNum
		}
		return menus[i].ID < menus[j].ID
	})
}

// --- revocation list ---

type memRevocationList struct {
	mu      sync.Mutex
	revoked map[string]bool

	revokeErr error
	lookupErr error
}

func newMemRevocationList() *memRevocationList {
	return &memRevocationList{revoked: make(map[string]bool)}
}

func (r *memRevocationList) Revoke(_ context.Context, jti string, _ time.Duration) error {
	if r.revokeErr != nil {
		return r.revokeErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[jti] = true
	return nil
}

func (r *memRevocationList) IsRevoked(_ context.Context, jti string) (bool, error) {
	if r.lookupErr != nil {
		return false, r.lookupErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revoked[jti], nil
}

// --- audit recorder ---

type memAuditRecorder struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (r *memAuditRecorder) Record(event domain.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *memAuditRecorder) last() (domain.AuditEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return domain.AuditEvent{}, false
	}
	return r.events[len(r.events)-1], true
}

var errBackendDown = errors.New("backend down")
