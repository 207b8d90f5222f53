// MockTransport 是厂商集成层的测试模拟实现。
//
// 支持固定结局、错误注入与按次数脚本化的轮询序列。
package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/BaSui01/videoflow/client"
	"github.com/BaSui01/videoflow/payload"
)

// MockTransport 是 client.Transport 的模拟实现。
type MockTransport struct {
	mu sync.Mutex

	// SubmitFunc / PollFunc 为 nil 时走默认行为
	SubmitFunc func(ctx context.Context, p payload.Payload) (client.JobHandle, error)
	PollFunc   func(ctx context.Context, h client.JobHandle) (*client.TaskStatus, error)

	// 默认行为配置
	PollsUntilDone int     // 完成前返回 processing 的次数
	Cost           float64 // 终态上报的成本
	OutputURL      string  // 完成时返回的输出 URL
	FailWith       string  // 非空时远端以该消息报告失败

	// 调用记录
	submitCalls int
	pollCalls   int
	payloads    []payload.Payload
}

// Submit 实现 client.Transport。
func (m *MockTransport) Submit(ctx context.Context, p payload.Payload) (client.JobHandle, error) {
	m.mu.Lock()
	m.submitCalls++
	n := m.submitCalls
	m.payloads = append(m.payloads, p)
	m.mu.Unlock()

	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, p)
	}
	return client.JobHandle{TaskID: fmt.Sprintf("task-%d", n)}, nil
}

// Poll 实现 client.Transport。
func (m *MockTransport) Poll(ctx context.Context, h client.JobHandle) (*client.TaskStatus, error) {
	m.mu.Lock()
	m.pollCalls++
	n := m.pollCalls
	m.mu.Unlock()

	if m.PollFunc != nil {
		return m.PollFunc(ctx, h)
	}

	if n <= m.PollsUntilDone {
		return &client.TaskStatus{State: client.TaskProcessing}, nil
	}
	if m.FailWith != "" {
		return &client.TaskStatus{
			State:        client.TaskFailed,
			CostUSD:      m.Cost,
			ErrorMessage: m.FailWith,
		}, nil
	}
	out := m.OutputURL
	if out == "" {
		out = "https://cdn.example.com/out.mp4"
	}
	return &client.TaskStatus{
		State:     client.TaskCompleted,
		OutputURL: out,
		CostUSD:   m.Cost,
	}, nil
}

// SubmitCalls 返回提交调用次数。
func (m *MockTransport) SubmitCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submitCalls
}

// PollCalls 返回轮询调用次数。
func (m *MockTransport) PollCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pollCalls
}

// LastPayload 返回最近一次提交的载荷，未提交过则为 nil。
func (m *MockTransport) LastPayload() payload.Payload {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.payloads) == 0 {
		return nil
	}
	return m.payloads[len(m.payloads)-1]
}

// Reset 清空调用记录。
func (m *MockTransport) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitCalls = 0
	m.pollCalls = 0
	m.payloads = nil
}

// MockCreditChecker 是 client.CreditChecker 的模拟实现。
type MockCreditChecker struct {
	mu    sync.Mutex
	Err   error
	calls int
}

// Check 实现 client.CreditChecker。
func (m *MockCreditChecker) Check(ctx context.Context, modelID string, duration int) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.Err
}

// Calls 返回检查调用次数。
func (m *MockCreditChecker) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
