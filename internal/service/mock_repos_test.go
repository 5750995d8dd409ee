package service

import (
	"context"
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/zhanghx0905/AssetManagementBackend/internal/model"
	"github.com/zhanghx0905/AssetManagementBackend/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	nextID uint
	users  map[uint]*model.User
	depts  *mockDepartmentRepo
}

func newMockUserRepo(depts *mockDepartmentRepo) *mockUserRepo {
	return &mockUserRepo{nextID: 1, users: make(map[uint]*model.User), depts: depts}
}

func (m *mockUserRepo) fillDepartment(user *model.User) {
	if m.depts == nil {
		return
	}
	if d, ok := m.depts.depts[user.DepartmentID]; ok {
		user.Department = d
	}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	} else if user.ID >= m.nextID {
		m.nextID = user.ID + 1
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		m.fillDepartment(u)
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			m.fillDepartment(u)
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	ids := make([]uint, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	res := make([]model.User, 0, len(ids))
	for _, id := range ids {
		m.fillDepartment(m.users[id])
		res = append(res, *m.users[id])
	}
	return res, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id uint) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) FindRoleHolder(_ context.Context, departmentID uint, role string) (*model.User, error) {
	ids := make([]uint, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		u := m.users[id]
		if u.DepartmentID != departmentID || !u.Active {
			continue
		}
		for _, r := range u.Roles {
			if r == role {
				return u, nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock DepartmentRepository ──

type mockDepartmentRepo struct {
	mu     sync.Mutex
	nextID uint
	depts  map[uint]*model.Department
	users  *mockUserRepo
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{nextID: 1, depts: make(map[uint]*model.Department)}
}

func (m *mockDepartmentRepo) Create(_ context.Context, dept *model.Department) error {
	// 互斥锁扮演唯一索引的角色，并发同名插入只会成功一个
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.depts {
		if d.Name == dept.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if dept.ID == 0 {
		dept.ID = m.nextID
		m.nextID++
	} else if dept.ID >= m.nextID {
		m.nextID = dept.ID + 1
	}
	m.depts[dept.ID] = dept
	return nil
}

func (m *mockDepartmentRepo) GetByID(_ context.Context, id uint) (*model.Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.depts[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) GetByName(_ context.Context, name string) (*model.Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.depts {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) ListAll(_ context.Context) ([]model.Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]uint, 0, len(m.depts))
	for id := range m.depts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	res := make([]model.Department, 0, len(ids))
	for _, id := range ids {
		res = append(res, *m.depts[id])
	}
	return res, nil
}

func (m *mockDepartmentRepo) Update(_ context.Context, dept *model.Department) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.depts {
		if d.ID != dept.ID && d.Name == dept.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	m.depts[dept.ID] = dept
	return nil
}

func (m *mockDepartmentRepo) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.depts, id)
	return nil
}

func (m *mockDepartmentRepo) CountUsers(_ context.Context, departmentID uint) (int64, error) {
	var count int64
	if m.users == nil {
		return 0, nil
	}
	for _, u := range m.users.users {
		if u.DepartmentID == departmentID {
			count++
		}
	}
	return count, nil
}

// ── Mock CategoryRepository ──

type mockCategoryRepo struct {
	nextID     uint
	categories map[uint]*model.AssetCategory
	assets     *mockAssetRepo
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{nextID: 1, categories: make(map[uint]*model.AssetCategory)}
}

func (m *mockCategoryRepo) Create(_ context.Context, category *model.AssetCategory) error {
	for _, c := range m.categories {
		if c.Name == category.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if category.ID == 0 {
		category.ID = m.nextID
		m.nextID++
	} else if category.ID >= m.nextID {
		m.nextID = category.ID + 1
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id uint) (*model.AssetCategory, error) {
	if c, ok := m.categories[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCategoryRepo) GetByName(_ context.Context, name string) (*model.AssetCategory, error) {
	for _, c := range m.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCategoryRepo) ListAll(_ context.Context) ([]model.AssetCategory, error) {
	ids := make([]uint, 0, len(m.categories))
	for id := range m.categories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	res := make([]model.AssetCategory, 0, len(ids))
	for _, id := range ids {
		res = append(res, *m.categories[id])
	}
	return res, nil
}

func (m *mockCategoryRepo) Update(_ context.Context, category *model.AssetCategory) error {
	for _, c := range m.categories {
		if c.ID != category.ID && c.Name == category.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepo) Delete(_ context.Context, id uint) error {
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepo) CountAssets(_ context.Context, categoryID uint) (int64, error) {
	var count int64
	if m.assets == nil {
		return 0, nil
	}
	for _, a := range m.assets.assets {
		if a.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

// ── Mock AssetRepository ──

type mockAssetRepo struct {
	nextID     uint
	assets     map[uint]*model.Asset
	users      *mockUserRepo
	categories *mockCategoryRepo
	histories  *mockHistoryRepo
}

func newMockAssetRepo(users *mockUserRepo, categories *mockCategoryRepo, histories *mockHistoryRepo) *mockAssetRepo {
	return &mockAssetRepo{
		nextID:     1,
		assets:     make(map[uint]*model.Asset),
		users:      users,
		categories: categories,
		histories:  histories,
	}
}

func (m *mockAssetRepo) fill(asset *model.Asset) {
	if c, ok := m.categories.categories[asset.CategoryID]; ok {
		asset.Category = c
	}
	if u, ok := m.users.users[asset.OwnerID]; ok {
		m.users.fillDepartment(u)
		asset.Owner = u
	}
}

func (m *mockAssetRepo) sortedIDs() []uint {
	ids := make([]uint, 0, len(m.assets))
	for id := range m.assets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (m *mockAssetRepo) Create(_ context.Context, asset *model.Asset) error {
	if asset.ID == 0 {
		asset.ID = m.nextID
		m.nextID++
	} else if asset.ID >= m.nextID {
		m.nextID = asset.ID + 1
	}
	m.assets[asset.ID] = asset
	return nil
}

func (m *mockAssetRepo) GetByID(_ context.Context, id uint) (*model.Asset, error) {
	if a, ok := m.assets[id]; ok {
		m.fill(a)
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssetRepo) ListAll(_ context.Context) ([]model.Asset, error) {
	res := make([]model.Asset, 0, len(m.assets))
	for _, id := range m.sortedIDs() {
		res = append(res, *m.assets[id])
	}
	return res, nil
}

func (m *mockAssetRepo) Update(_ context.Context, asset *model.Asset) error {
	m.assets[asset.ID] = asset
	return nil
}

func (m *mockAssetRepo) Query(_ context.Context, filters repository.AssetFilters) ([]model.Asset, error) {
	var res []model.Asset
	for _, id := range m.sortedIDs() {
		a := m.assets[id]
		if filters.NameContains != "" && !contains(a.Name, filters.NameContains) {
			continue
		}
		if filters.DescriptionContains != "" && !contains(a.Description, filters.DescriptionContains) {
			continue
		}
		if filters.CategoryID != nil && a.CategoryID != *filters.CategoryID {
			continue
		}
		if filters.Status != "" && a.Status != filters.Status {
			continue
		}
		if filters.DepartmentID != nil {
			owner, ok := m.users.users[a.OwnerID]
			if !ok || owner.DepartmentID != *filters.DepartmentID {
				continue
			}
		}
		m.fill(a)
		res = append(res, *a)
	}
	return res, nil
}

func (m *mockAssetRepo) ListIdle(_ context.Context, departmentID, categoryID uint) ([]model.Asset, error) {
	var res []model.Asset
	for _, id := range m.sortedIDs() {
		a := m.assets[id]
		if a.Status != model.AssetIdle || a.CategoryID != categoryID {
			continue
		}
		owner, ok := m.users.users[a.OwnerID]
		if !ok || owner.DepartmentID != departmentID {
			continue
		}
		m.fill(a)
		res = append(res, *a)
	}
	return res, nil
}

func (m *mockAssetRepo) ApplyStatusOwner(_ context.Context, ids []uint, status string, ownerID uint, histories []model.HistoryRecord) error {
	for _, id := range ids {
		a, ok := m.assets[id]
		if !ok {
			return gorm.ErrRecordNotFound
		}
		a.OwnerID = ownerID
		if status != "" {
			a.Status = status
		}
	}
	for i := range histories {
		record := histories[i]
		m.histories.append(&record)
	}
	return nil
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

// ── Mock IssueRepository ──

type mockIssueRepo struct {
	mu     sync.Mutex
	nextID uint
	issues map[uint]*model.Issue
	users  *mockUserRepo
	assets *mockAssetRepo
}

func newMockIssueRepo(users *mockUserRepo, assets *mockAssetRepo) *mockIssueRepo {
	return &mockIssueRepo{nextID: 1, issues: make(map[uint]*model.Issue), users: users, assets: assets}
}

func (m *mockIssueRepo) fill(issue *model.Issue) {
	if u, ok := m.users.users[issue.InitiatorID]; ok {
		issue.Initiator = u
	}
	if u, ok := m.users.users[issue.HandlerID]; ok {
		issue.Handler = u
	}
	if issue.AssigneeID != nil {
		if u, ok := m.users.users[*issue.AssigneeID]; ok {
			issue.Assignee = u
		}
	}
	if a, ok := m.assets.assets[issue.AssetID]; ok {
		issue.Asset = a
	}
}

func (m *mockIssueRepo) CreateIfNoOpen(_ context.Context, issue *model.Issue) error {
	// 互斥锁扮演数据库行锁的角色，并发创建在这里串行化
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assets.assets[issue.AssetID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, existing := range m.issues {
		if existing.InitiatorID == issue.InitiatorID &&
			existing.AssetID == issue.AssetID &&
			existing.Status == model.IssueDoing {
			return repository.ErrOpenIssueExists
		}
	}
	issue.ID = m.nextID
	m.nextID++
	m.issues[issue.ID] = issue
	return nil
}

func (m *mockIssueRepo) GetByID(_ context.Context, id uint) (*model.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if issue, ok := m.issues[id]; ok {
		m.fill(issue)
		return issue, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockIssueRepo) Update(_ context.Context, issue *model.Issue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issues[issue.ID] = issue
	return nil
}

func (m *mockIssueRepo) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.issues, id)
	return nil
}

func (m *mockIssueRepo) sortedIDs() []uint {
	ids := make([]uint, 0, len(m.issues))
	for id := range m.issues {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (m *mockIssueRepo) ListByHandler(_ context.Context, handlerID uint, status string) ([]model.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []model.Issue
	for _, id := range m.sortedIDs() {
		issue := m.issues[id]
		if issue.HandlerID != handlerID {
			continue
		}
		if status != "" && issue.Status != status {
			continue
		}
		m.fill(issue)
		res = append(res, *issue)
	}
	return res, nil
}

func (m *mockIssueRepo) ListByInitiator(_ context.Context, initiatorID uint) ([]model.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []model.Issue
	for _, id := range m.sortedIDs() {
		issue := m.issues[id]
		if issue.InitiatorID != initiatorID {
			continue
		}
		m.fill(issue)
		res = append(res, *issue)
	}
	return res, nil
}

// ── Mock RequireIssueRepository ──

type mockRequireIssueRepo struct {
	mu         sync.Mutex
	nextID     uint
	issues     map[uint]*model.RequireIssue
	assigned   map[uint][]uint // issueID -> assetIDs
	users      *mockUserRepo
	categories *mockCategoryRepo
	assets     *mockAssetRepo
}

func newMockRequireIssueRepo(users *mockUserRepo, categories *mockCategoryRepo, assets *mockAssetRepo) *mockRequireIssueRepo {
	return &mockRequireIssueRepo{
		nextID:     1,
		issues:     make(map[uint]*model.RequireIssue),
		assigned:   make(map[uint][]uint),
		users:      users,
		categories: categories,
		assets:     assets,
	}
}

func (m *mockRequireIssueRepo) fill(issue *model.RequireIssue) {
	if u, ok := m.users.users[issue.InitiatorID]; ok {
		issue.Initiator = u
	}
	if u, ok := m.users.users[issue.HandlerID]; ok {
		issue.Handler = u
	}
	if c, ok := m.categories.categories[issue.CategoryID]; ok {
		issue.Category = c
	}
	issue.Assets = nil
	for _, assetID := range m.assigned[issue.ID] {
		if a, ok := m.assets.assets[assetID]; ok {
			issue.Assets = append(issue.Assets, *a)
		}
	}
}

func (m *mockRequireIssueRepo) CreateIfNoOpen(_ context.Context, issue *model.RequireIssue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories.categories[issue.CategoryID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, existing := range m.issues {
		if existing.InitiatorID == issue.InitiatorID &&
			existing.CategoryID == issue.CategoryID &&
			existing.Status == model.IssueDoing {
			return repository.ErrOpenIssueExists
		}
	}
	issue.ID = m.nextID
	m.nextID++
	m.issues[issue.ID] = issue
	return nil
}

func (m *mockRequireIssueRepo) GetByID(_ context.Context, id uint) (*model.RequireIssue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if issue, ok := m.issues[id]; ok {
		m.fill(issue)
		return issue, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRequireIssueRepo) Update(_ context.Context, issue *model.RequireIssue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issues[issue.ID] = issue
	return nil
}

func (m *mockRequireIssueRepo) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.issues, id)
	delete(m.assigned, id)
	return nil
}

func (m *mockRequireIssueRepo) AppendAssets(_ context.Context, issueID uint, assetIDs []uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[uint]bool)
	for _, id := range m.assigned[issueID] {
		seen[id] = true
	}
	for _, id := range assetIDs {
		if !seen[id] {
			m.assigned[issueID] = append(m.assigned[issueID], id)
			seen[id] = true
		}
	}
	return nil
}

func (m *mockRequireIssueRepo) ListByHandler(_ context.Context, handlerID uint, status string) ([]model.RequireIssue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []model.RequireIssue
	ids := make([]uint, 0, len(m.issues))
	for id := range m.issues {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		issue := m.issues[id]
		if issue.HandlerID != handlerID {
			continue
		}
		if status != "" && issue.Status != status {
			continue
		}
		m.fill(issue)
		res = append(res, *issue)
	}
	return res, nil
}

func (m *mockRequireIssueRepo) ListByInitiator(_ context.Context, initiatorID uint) ([]model.RequireIssue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []model.RequireIssue
	ids := make([]uint, 0, len(m.issues))
	for id := range m.issues {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		issue := m.issues[id]
		if issue.InitiatorID != initiatorID {
			continue
		}
		m.fill(issue)
		res = append(res, *issue)
	}
	return res, nil
}

// ── Mock HistoryRepository ──

type mockHistoryRepo struct {
	nextID  uint
	records []model.HistoryRecord
}

func newMockHistoryRepo() *mockHistoryRepo {
	return &mockHistoryRepo{nextID: 1}
}

func (m *mockHistoryRepo) append(record *model.HistoryRecord) {
	record.ID = m.nextID
	m.nextID++
	m.records = append(m.records, *record)
}

func (m *mockHistoryRepo) Create(_ context.Context, record *model.HistoryRecord) error {
	m.append(record)
	return nil
}

func (m *mockHistoryRepo) ListByAsset(_ context.Context, assetID uint) ([]model.HistoryRecord, error) {
	var res []model.HistoryRecord
	for _, r := range m.records {
		if r.AssetID == assetID {
			res = append(res, r)
		}
	}
	return res, nil
}

// ── Mock CustomAttrRepository ──

type mockCustomAttrRepo struct {
	nextID uint
	attrs  map[string]*model.CustomAttr
	values map[uint]map[uint]string // assetID -> attrID -> value
}

func newMockCustomAttrRepo() *mockCustomAttrRepo {
	return &mockCustomAttrRepo{
		nextID: 1,
		attrs:  make(map[string]*model.CustomAttr),
		values: make(map[uint]map[uint]string),
	}
}

func (m *mockCustomAttrRepo) GetOrCreate(_ context.Context, name string) (*model.CustomAttr, error) {
	if attr, ok := m.attrs[name]; ok {
		return attr, nil
	}
	attr := &model.CustomAttr{Name: name}
	attr.ID = m.nextID
	m.nextID++
	m.attrs[name] = attr
	return attr, nil
}

func (m *mockCustomAttrRepo) SetValue(_ context.Context, assetID, attrID uint, value string) error {
	if m.values[assetID] == nil {
		m.values[assetID] = make(map[uint]string)
	}
	m.values[assetID][attrID] = value
	return nil
}

func (m *mockCustomAttrRepo) MapByAsset(_ context.Context, assetID uint) (map[string]string, error) {
	res := make(map[string]string)
	for name, attr := range m.attrs {
		if v, ok := m.values[assetID][attr.ID]; ok {
			res[name] = v
		}
	}
	return res, nil
}

// ── Mock SessionStore ──

type mockSessionStore struct {
	tokens map[uint]string
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{tokens: make(map[uint]string)}
}

func (m *mockSessionStore) DeleteSession(_ context.Context, userID uint) error {
	delete(m.tokens, userID)
	return nil
}

// ── 测试夹具 ──

type mocks struct {
	users      *mockUserRepo
	depts      *mockDepartmentRepo
	categories *mockCategoryRepo
	assets     *mockAssetRepo
	issues     *mockIssueRepo
	requires   *mockRequireIssueRepo
	histories  *mockHistoryRepo
	attrs      *mockCustomAttrRepo
	sessions   *mockSessionStore
}

func newMocks() (*mocks, *repository.Repository) {
	depts := newMockDepartmentRepo()
	users := newMockUserRepo(depts)
	depts.users = users
	categories := newMockCategoryRepo()
	histories := newMockHistoryRepo()
	assets := newMockAssetRepo(users, categories, histories)
	categories.assets = assets
	issues := newMockIssueRepo(users, assets)
	requires := newMockRequireIssueRepo(users, categories, assets)
	attrs := newMockCustomAttrRepo()

	m := &mocks{
		users:      users,
		depts:      depts,
		categories: categories,
		assets:     assets,
		issues:     issues,
		requires:   requires,
		histories:  histories,
		attrs:      attrs,
		sessions:   newMockSessionStore(),
	}
	repo := &repository.Repository{
		User:         users,
		Department:   depts,
		Category:     categories,
		Asset:        assets,
		Issue:        issues,
		RequireIssue: requires,
		History:      histories,
		CustomAttr:   attrs,
	}
	return m, repo
}
