// =============================================================================
// 🧠 MockStore - 持久记忆存储模拟实现
// =============================================================================
// 用于测试的持久存储模拟，支持错误注入与调用记录
//
// 使用方法:
//
//	store := mocks.NewMockStore().WithSearchResults(results)
//	hits, _ := store.Search(ctx, "query", scope, 10)
//	store.SearchScopes() // 断言隔离边界
// =============================================================================
package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/yaazhan/kingmem/memory"
)

// MockStore 是持久记忆存储的模拟实现
type MockStore struct {
	mu sync.Mutex

	// 预设结果
	searchResults []memory.StoreResult
	getAllResults []memory.StoreResult

	// 错误注入
	searchErr error
	addErr    error
	deleteErr error

	// 调用记录
	searchCalls   int
	addCalls      int
	deleteCalls   int
	searchQueries []string
	searchScopes  []memory.Scope
	searchLimits  []int
	added         []string
	deleted       []string
}

// NewMockStore 创建新的 MockStore
func NewMockStore() *MockStore {
	return &MockStore{}
}

// WithSearchResults 预设 Search 返回结果
func (m *MockStore) WithSearchResults(results []memory.StoreResult) *MockStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchResults = append([]memory.StoreResult{}, results...)
	return m
}

// WithGetAllResults 预设 GetAll 返回结果
func (m *MockStore) WithGetAllResults(results []memory.StoreResult) *MockStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getAllResults = append([]memory.StoreResult{}, results...)
	return m
}

// WithSearchError 设置 Search 方法的错误
func (m *MockStore) WithSearchError(err error) *MockStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchErr = err
	return m
}

// WithAddError 设置 Add 方法的错误
func (m *MockStore) WithAddError(err error) *MockStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addErr = err
	return m
}

// WithDeleteError 设置 Delete 方法的错误
func (m *MockStore) WithDeleteError(err error) *MockStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteErr = err
	return m
}

// Add 实现 memory.Store
func (m *MockStore) Add(ctx context.Context, content string, scope memory.Scope, metadata map[string]any, enableGraph bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addCalls++
	if m.addErr != nil {
		return "", m.addErr
	}
	m.added = append(m.added, content)
	return fmt.Sprintf("store_%d", m.addCalls), nil
}

// Search 实现 memory.Store
func (m *MockStore) Search(ctx context.Context, query string, scope memory.Scope, limit int) ([]memory.StoreResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchCalls++
	m.searchQueries = append(m.searchQueries, query)
	m.searchScopes = append(m.searchScopes, scope)
	m.searchLimits = append(m.searchLimits, limit)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	out := append([]memory.StoreResult{}, m.searchResults...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetAll 实现 memory.Store
func (m *MockStore) GetAll(ctx context.Context, scope memory.Scope, limit int) ([]memory.StoreResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]memory.StoreResult{}, m.getAllResults...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete 实现 memory.Store
func (m *MockStore) Delete(ctx context.Context, storeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, storeID)
	return nil
}

// SearchCalls 返回 Search 调用次数
func (m *MockStore) SearchCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searchCalls
}

// SearchQueries 返回历次 Search 的查询串
func (m *MockStore) SearchQueries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.searchQueries...)
}

// SearchScopes 返回历次 Search 的作用域
func (m *MockStore) SearchScopes() []memory.Scope {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]memory.Scope{}, m.searchScopes...)
}

// SearchLimits 返回历次 Search 的 limit
func (m *MockStore) SearchLimits() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int{}, m.searchLimits...)
}

// Added 返回已写入的内容
func (m *MockStore) Added() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.added...)
}

// Deleted 返回已删除的 store id
func (m *MockStore) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.deleted...)
}
