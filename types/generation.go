package types

import "time"

// GenerationStatus is the lifecycle state of a generation job.
type GenerationStatus string

const (
	StatusSubmitted GenerationStatus = "submitted"
	StatusPolling   GenerationStatus = "polling"
	StatusCompleted GenerationStatus = "completed"
	StatusFailed    GenerationStatus = "failed"
	StatusTimedOut  GenerationStatus = "timed_out"
)

// Terminal reports whether the status is a terminal state.
func (s GenerationStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusTimedOut
}

// GenerationRequest 是调用方创建的单次生成请求。
// Duration 为请求值，提交前会被夹取到模型支持的最近时长。
type GenerationRequest struct {
	JobID           string `json:"job_id,omitempty" yaml:"job_id,omitempty"`
	ModelID         string `json:"model_id" yaml:"model_id"`
	Prompt          string `json:"prompt" yaml:"prompt"`
	Duration        int    `json:"duration" yaml:"duration"`
	AspectRatio     string `json:"aspect_ratio" yaml:"aspect_ratio"`
	Resolution      string `json:"resolution" yaml:"resolution"`
	StartFrameURL   string `json:"start_frame_url,omitempty" yaml:"start_frame_url,omitempty"`
	EndFrameURL     string `json:"end_frame_url,omitempty" yaml:"end_frame_url,omitempty"`
	AudioRequested  bool   `json:"audio_requested,omitempty" yaml:"audio_requested,omitempty"`
	SkipCreditCheck bool   `json:"skip_credit_check,omitempty" yaml:"skip_credit_check,omitempty"`
}

// GenerationResult 在任务生命周期内被写入，调用方持有所有权。
// 即使任务失败，部分上报的成本也会被记录。
type GenerationResult struct {
	JobID          string           `json:"job_id"`
	ModelID        string           `json:"model_id"`
	Status         GenerationStatus `json:"status"`
	OutputURL      string           `json:"output_url,omitempty"`
	ActualDuration int              `json:"actual_duration,omitempty"`
	CostUSD        float64          `json:"cost_usd,omitempty"`
	ErrorMessage   string           `json:"error_message,omitempty"`
	Warnings       []string         `json:"warnings,omitempty"`
	Attempts       int              `json:"attempts"`
	CompletedAt    time.Time        `json:"completed_at,omitempty"`
}

// BatchReport 汇总一次批量执行：结果顺序与输入请求顺序严格一致。
// 不变式: SuccessCount + FailureCount == len(Results)；
// TotalCostUSD 只累计最终成功条目的成本。
type BatchReport struct {
	Results      []*GenerationResult `json:"results"`
	SuccessCount int                 `json:"success_count"`
	FailureCount int                 `json:"failure_count"`
	TotalCostUSD float64             `json:"total_cost_usd"`
}
