package client

import (
	"context"

	"github.com/BaSui01/videoflow/payload"
)

// TaskState 是远端上报的任务状态。
type TaskState string

const (
	TaskCreated    TaskState = "created"
	TaskProcessing TaskState = "processing"
	TaskCompleted  TaskState = "completed"
	TaskFailed     TaskState = "failed"
)

// Terminal 报告该状态是否为远端终态。
func (s TaskState) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

// JobHandle 标识一次已提交的远端生成任务。
type JobHandle struct {
	TaskID string
	Model  string
}

// TaskStatus 是一次轮询得到的远端任务快照。
// 失败时 CostUSD 仍可能携带部分上报的成本。
type TaskStatus struct {
	State        TaskState
	OutputURL    string
	CostUSD      float64
	DurationSecs float64
	ErrorMessage string
}

// Transport 是厂商集成层的边界接口：一次提交、多次轮询。
// HTTP 细节、鉴权与额度检查都在实现内部，核心编排层不感知。
type Transport interface {
	// Submit 发起一次生成，恰好一次网络调用。
	Submit(ctx context.Context, p payload.Payload) (JobHandle, error)

	// Poll 查询任务状态，恰好一次网络调用。
	Poll(ctx context.Context, h JobHandle) (*TaskStatus, error)
}

// CreditChecker 是外部计费/额度检查组件的边界接口。
// 返回非 nil 错误表示否决本次提交。
type CreditChecker interface {
	Check(ctx context.Context, modelID string, duration int) error
}
