// =============================================================================
// 🗺️ MockPlanner - 检索策展器模拟实现
// =============================================================================
package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/yaazhan/kingmem/memory"
	"github.com/yaazhan/kingmem/types"
)

// MockPlanner 是检索策展器的模拟实现
type MockPlanner struct {
	mu sync.Mutex

	plan  *types.SearchPlan
	err   error
	delay time.Duration

	calls    int
	requests []memory.PlanRequest
}

// NewMockPlanner 创建新的 MockPlanner
func NewMockPlanner() *MockPlanner {
	return &MockPlanner{}
}

// WithPlan 预设返回的检索计划
func (m *MockPlanner) WithPlan(plan *types.SearchPlan) *MockPlanner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plan = plan
	return m
}

// WithError 设置 PlanSearch 的错误
func (m *MockPlanner) WithError(err error) *MockPlanner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithDelay 设置响应延迟，用于超时测试
func (m *MockPlanner) WithDelay(d time.Duration) *MockPlanner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
	return m
}

// PlanSearch 实现 memory.Planner
func (m *MockPlanner) PlanSearch(ctx context.Context, req memory.PlanRequest) (*types.SearchPlan, error) {
	m.mu.Lock()
	m.calls++
	m.requests = append(m.requests, req)
	plan, err, delay := m.plan, m.err, m.delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// Calls 返回调用次数
func (m *MockPlanner) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Requests 返回历次请求
func (m *MockPlanner) Requests() []memory.PlanRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]memory.PlanRequest{}, m.requests...)
}
