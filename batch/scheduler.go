package batch

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/BaSui01/videoflow/capability"
	"github.com/BaSui01/videoflow/internal/metrics"
	"github.com/BaSui01/videoflow/retry"
	"github.com/BaSui01/videoflow/types"
)

// Generator 是调度器驱动的单次生成入口。
// *client.Client 实现该接口。
type Generator interface {
	// Preflight 在任何网络调用之前校验请求
	Preflight(req *types.GenerationRequest) (*capability.ModelCapability, error)
	// Generate 执行一次完整的生成，result 永不为 nil
	Generate(ctx context.Context, req *types.GenerationRequest) (*types.GenerationResult, error)
}

// Config 配置批调度器。
type Config struct {
	// InterItemDelay 是相邻两个走网络的条目之间的固定间隔（重试不计）。
	InterItemDelay time.Duration `json:"inter_item_delay" yaml:"inter_item_delay"`
	// MaxRetries 是 PROVIDER/TIMEOUT 类错误的额外尝试次数。
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
	// InitialBackoff 是首次重试前的退避延迟，逐次按 BackoffMultiplier 倍增。
	InitialBackoff    time.Duration `json:"initial_backoff" yaml:"initial_backoff"`
	MaxBackoff        time.Duration `json:"max_backoff" yaml:"max_backoff"`
	BackoffMultiplier float64       `json:"backoff_multiplier" yaml:"backoff_multiplier"`
	// Concurrency > 1 时启用有界工作池变体，默认严格串行。
	Concurrency int `json:"concurrency" yaml:"concurrency"`
	// PerProviderLimit 限制工作池变体中同一厂商的并发在途数。
	PerProviderLimit int `json:"per_provider_limit" yaml:"per_provider_limit"`
}

// DefaultConfig 返回默认批配置：严格串行，条目间隔 1s，
// 重试 1 次、10s 起步退避翻倍。
func DefaultConfig() Config {
	return Config{
		InterItemDelay:    time.Second,
		MaxRetries:        1,
		InitialBackoff:    10 * time.Second,
		MaxBackoff:        80 * time.Second,
		BackoffMultiplier: 2.0,
		Concurrency:       1,
		PerProviderLimit:  1,
	}
}

// Scheduler 按输入顺序处理一组生成请求并产出聚合报告。
//
// 默认严格串行：任意时刻至多一个生成在途，以尊重厂商限流，
// 且上游生成本身以分钟计，并行收益有限。条目间固定间隔由
// rate.Limiter 保证，且只对真正走网络的条目计数——预检失败
// 的条目当场记为失败，不占配额。
type Scheduler struct {
	gen       Generator
	cfg       Config
	limiter   *rate.Limiter
	collector *metrics.Collector
	logger    *zap.Logger
}

// Option 配置 Scheduler 的可选依赖。
type Option func(*Scheduler)

// WithMetrics 挂接指标收集器。
func WithMetrics(m *metrics.Collector) Option {
	return func(s *Scheduler) { s.collector = m }
}

// NewScheduler 创建批调度器。
func NewScheduler(gen Generator, cfg Config, logger *zap.Logger, opts ...Option) *Scheduler {
	if cfg.InterItemDelay <= 0 {
		cfg.InterItemDelay = time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 10 * time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 80 * time.Second
	}
	if cfg.BackoffMultiplier < 1.0 {
		cfg.BackoffMultiplier = 2.0
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.PerProviderLimit < 1 {
		cfg.PerProviderLimit = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Scheduler{
		gen:     gen,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(cfg.InterItemDelay), 1),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run 处理全部请求并返回聚合报告。
// 结果与输入同序；SuccessCount+FailureCount 恒等于 len(reqs)；
// TotalCostUSD 只累计最终成功条目的成本。取消时剩余条目记为
// 失败后返回，报告不丢条目。
func (s *Scheduler) Run(ctx context.Context, reqs []*types.GenerationRequest) (*types.BatchReport, error) {
	if s.cfg.Concurrency > 1 {
		return s.runPooled(ctx, reqs)
	}

	report := &types.BatchReport{
		Results: make([]*types.GenerationResult, 0, len(reqs)),
	}

	s.logger.Info("批处理开始",
		zap.Int("items", len(reqs)),
		zap.Duration("inter_item_delay", s.cfg.InterItemDelay),
	)

	var canceled bool
	for i, req := range reqs {
		if ctx.Err() != nil {
			canceled = true
			s.record(report, canceledResult(req, ctx.Err()))
			continue
		}

		result := s.runItem(ctx, req)
		s.record(report, result)

		s.logger.Info("批条目完成",
			zap.Int("index", i),
			zap.String("job_id", result.JobID),
			zap.String("status", string(result.Status)),
			zap.Int("attempts", result.Attempts),
		)
	}

	s.collector.RecordBatchRun()
	s.logger.Info("批处理结束",
		zap.Int("success", report.SuccessCount),
		zap.Int("failure", report.FailureCount),
		zap.Float64("total_cost_usd", report.TotalCostUSD),
	)

	if canceled {
		return report, types.NewError(types.ErrProvider, "batch canceled before completion").
			WithCause(ctx.Err()).WithRetryable(false)
	}
	return report, nil
}

// runItem 处理单个条目：预检 → 限速等待 → 带重试地生成。
// 预检失败不消耗网络调用也不触发重试。
func (s *Scheduler) runItem(ctx context.Context, req *types.GenerationRequest) *types.GenerationResult {
	if _, err := s.gen.Preflight(req); err != nil {
		s.logger.Warn("预检失败，跳过提交",
			zap.String("job_id", req.JobID),
			zap.String("model", req.ModelID),
			zap.Error(err),
		)
		return failedResult(req, err)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return canceledResult(req, err)
	}

	return s.runAttempts(ctx, req)
}

// runAttempts 执行一次生成，PROVIDER/TIMEOUT 类错误按策略重试，
// VALIDATION/CONFIGURATION 永不重试。
func (s *Scheduler) runAttempts(ctx context.Context, req *types.GenerationRequest) *types.GenerationResult {
	retryer := retry.NewBackoffRetryer(&retry.Policy{
		MaxRetries:   s.cfg.MaxRetries,
		InitialDelay: s.cfg.InitialBackoff,
		MaxDelay:     s.cfg.MaxBackoff,
		Multiplier:   s.cfg.BackoffMultiplier,
		RetryIf:      types.IsRetryable,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			s.logger.Warn("生成失败，退避后重试",
				zap.String("job_id", req.JobID),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(err),
			)
		},
	}, s.logger)

	var last *types.GenerationResult
	attempts := 0
	result, err := retry.DoWithResultTyped(retryer, ctx, func() (*types.GenerationResult, error) {
		attempts++
		r, e := s.gen.Generate(ctx, req)
		last = r
		return r, e
	})
	if err != nil {
		// 重试耗尽或不可重试：保留最后一次的终态（含部分成本）
		if last == nil {
			last = failedResult(req, err)
		}
		last.Attempts = attempts
		return last
	}
	result.Attempts = attempts
	return result
}

func (s *Scheduler) record(report *types.BatchReport, result *types.GenerationResult) {
	report.Results = append(report.Results, result)
	if result.Status == types.StatusCompleted {
		report.SuccessCount++
		report.TotalCostUSD += result.CostUSD
		s.collector.RecordBatchItem("success")
	} else {
		report.FailureCount++
		s.collector.RecordBatchItem("failure")
	}
}

func failedResult(req *types.GenerationRequest, err error) *types.GenerationResult {
	return &types.GenerationResult{
		JobID:        req.JobID,
		ModelID:      req.ModelID,
		Status:       types.StatusFailed,
		ErrorMessage: err.Error(),
		CompletedAt:  time.Now(),
	}
}

func canceledResult(req *types.GenerationRequest, cause error) *types.GenerationResult {
	return failedResult(req, types.NewError(types.ErrProvider, "batch canceled").
		WithCause(cause).WithRetryable(false))
}
