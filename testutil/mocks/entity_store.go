// =============================================================================
// 🪪 MockEntityStore - 实体存储模拟实现
// =============================================================================
// 内存实体表，支持注入插入冲突来模拟并发创建竞争
// =============================================================================
package mocks

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/yaazhan/kingmem/entity"
	"github.com/yaazhan/kingmem/types"
)

// MockEntityStore 是实体存储的模拟实现
type MockEntityStore struct {
	mu sync.Mutex

	byName map[string]*types.Entity

	// 错误注入
	findErr   error
	insertErr error

	// 冲突注入：下一次 Insert 返回 ErrConflict，并以 winner 入库
	conflictWinner *types.Entity

	insertCalls int
	findCalls   int
}

// NewMockEntityStore 创建新的 MockEntityStore
func NewMockEntityStore() *MockEntityStore {
	return &MockEntityStore{byName: make(map[string]*types.Entity)}
}

// WithEntity 预存实体
func (m *MockEntityStore) WithEntity(e *types.Entity) *MockEntityStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	m.byName[e.CanonicalName] = e
	return m
}

// WithFindError 设置查找错误
func (m *MockEntityStore) WithFindError(err error) *MockEntityStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findErr = err
	return m
}

// WithInsertError 设置插入错误
func (m *MockEntityStore) WithInsertError(err error) *MockEntityStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertErr = err
	return m
}

// WithInsertConflict 注入一次插入冲突；winner 为并发获胜方写入的记录
func (m *MockEntityStore) WithInsertConflict(winner *types.Entity) *MockEntityStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	if winner.CreatedAt.IsZero() {
		winner.CreatedAt = time.Now().UTC()
	}
	m.conflictWinner = winner
	return m
}

// FindByCanonicalName 实现 entity.Store
func (m *MockEntityStore) FindByCanonicalName(ctx context.Context, name string) (*types.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCalls++
	if m.findErr != nil {
		return nil, m.findErr
	}
	if e, ok := m.byName[name]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, entity.ErrNotFound
}

// FindByAliasContains 实现 entity.Store
func (m *MockEntityStore) FindByAliasContains(ctx context.Context, alias string) (*types.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, e := range m.byName {
		if slices.Contains(e.Aliases, alias) {
			cp := *e
			return &cp, nil
		}
	}
	return nil, entity.ErrNotFound
}

// Insert 实现 entity.Store
func (m *MockEntityStore) Insert(ctx context.Context, e *types.Entity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertCalls++
	if m.insertErr != nil {
		return m.insertErr
	}
	if m.conflictWinner != nil {
		m.byName[m.conflictWinner.CanonicalName] = m.conflictWinner
		m.conflictWinner = nil
		return entity.ErrConflict
	}
	if _, exists := m.byName[e.CanonicalName]; exists {
		return entity.ErrConflict
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	cp := *e
	m.byName[e.CanonicalName] = &cp
	return nil
}

// GetByID 实现 entity.Store
func (m *MockEntityStore) GetByID(ctx context.Context, id string) (*types.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, e := range m.byName {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, entity.ErrNotFound
}

// InsertCalls 返回 Insert 调用次数
func (m *MockEntityStore) InsertCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertCalls
}

// Count 返回实体条数
func (m *MockEntityStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byName)
}
