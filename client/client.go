package client

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/BaSui01/videoflow/capability"
	"github.com/BaSui01/videoflow/internal/metrics"
	"github.com/BaSui01/videoflow/payload"
	"github.com/BaSui01/videoflow/types"
)

// Config 配置生成客户端。
type Config struct {
	// Timeout 是单次生成从提交到终态的轮询上限。
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
	// PollInterval 是两次状态查询之间的固定间隔。
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval"`
}

// DefaultConfig 返回默认客户端配置。
func DefaultConfig() Config {
	return Config{
		Timeout:      300 * time.Second,
		PollInterval: 5 * time.Second,
	}
}

// Client 驱动单次生成任务的完整生命周期：
// 预检 → 构建载荷 → 提交 → 轮询 → 终态分类。
type Client struct {
	registry  *capability.Registry
	builder   *payload.Builder
	transport Transport
	credit    CreditChecker
	collector *metrics.Collector
	tracer    trace.Tracer
	logger    *zap.Logger
	cfg       Config
}

// Option 配置 Client 的可选依赖。
type Option func(*Client)

// WithCreditChecker 挂接外部计费检查组件。
func WithCreditChecker(cc CreditChecker) Option {
	return func(c *Client) { c.credit = cc }
}

// WithMetrics 挂接指标收集器。
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) { c.collector = m }
}

// NewClient 创建生成客户端。
func NewClient(registry *capability.Registry, transport Transport, cfg Config, logger *zap.Logger, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 300 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		registry:  registry,
		builder:   payload.NewBuilder(logger),
		transport: transport,
		tracer:    otel.Tracer("videoflow/client"),
		logger:    logger,
		cfg:       cfg,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry 返回客户端使用的能力注册表。
func (c *Client) Registry() *capability.Registry {
	return c.registry
}

// Preflight 在任何网络调用之前校验请求。
// 时长先夹取再校验——时长不在集合内不算错误而是被吸附；
// 画幅比/分辨率越界则按字段报错。
func (c *Client) Preflight(req *types.GenerationRequest) (*capability.ModelCapability, error) {
	cap, err := c.registry.Lookup(req.ModelID)
	if err != nil {
		return nil, err
	}
	clamped := cap.ClampDuration(req.Duration)
	if err := c.registry.ValidateRequest(req.ModelID, clamped, req.AspectRatio, req.Resolution); err != nil {
		return nil, err
	}
	return cap, nil
}

// Generate 执行一次完整的生成。返回值 result 永不为 nil；
// 非成功时 err 携带分类后的 *types.Error，result 同步记录终态
// （包括失败时部分上报的成本）。
func (c *Client) Generate(ctx context.Context, req *types.GenerationRequest) (*types.GenerationResult, error) {
	if req.JobID == "" {
		req.JobID = uuid.NewString()
	}

	result := &types.GenerationResult{
		JobID:   req.JobID,
		ModelID: req.ModelID,
		Status:  types.StatusSubmitted,
	}

	ctx, span := c.tracer.Start(ctx, "videoflow.Generate",
		trace.WithAttributes(
			attribute.String("video.model_id", req.ModelID),
			attribute.String("video.job_id", req.JobID),
		))
	defer span.End()

	start := time.Now()
	err := c.generate(ctx, req, result)
	result.CompletedAt = time.Now()
	result.Attempts = 1

	if err != nil {
		result.ErrorMessage = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	c.collector.RecordGeneration(req.ModelID, string(result.Status), time.Since(start), result.CostUSD)

	return result, err
}

func (c *Client) generate(ctx context.Context, req *types.GenerationRequest, result *types.GenerationResult) error {
	cap, err := c.Preflight(req)
	if err != nil {
		result.Status = types.StatusFailed
		return err
	}

	if c.credit != nil && !req.SkipCreditCheck {
		if err := c.credit.Check(ctx, req.ModelID, cap.ClampDuration(req.Duration)); err != nil {
			result.Status = types.StatusFailed
			return types.NewError(types.ErrCreditDenied, "credit check vetoed submission").WithCause(err)
		}
	}

	dims := capability.Dimensions{}
	if !cap.OmitDimensions {
		if dims, err = c.registry.ResolveDimensions(req.ModelID, req.AspectRatio, req.Resolution); err != nil {
			result.Status = types.StatusFailed
			return err
		}
	}

	p, warnings, err := c.builder.Build(req, cap, dims)
	if err != nil {
		result.Status = types.StatusFailed
		return err
	}
	result.Warnings = warnings
	result.ActualDuration = cap.ClampDuration(req.Duration)

	c.collector.RecordSubmitAttempt(req.ModelID)
	handle, err := c.transport.Submit(ctx, p)
	if err != nil {
		result.Status = types.StatusFailed
		c.logger.Error("生成提交失败",
			zap.String("job_id", req.JobID),
			zap.String("model", req.ModelID),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("生成已提交，开始轮询",
		zap.String("job_id", req.JobID),
		zap.String("model", req.ModelID),
		zap.String("task_id", handle.TaskID),
	)
	result.Status = types.StatusPolling

	return c.awaitResult(ctx, cap, handle, result)
}

// awaitResult 以固定间隔轮询直到远端终态或超时。
// 超时返回 TIMEOUT（可重试），绝不静默转为成功；外层取消立即停止轮询。
func (c *Client) awaitResult(ctx context.Context, cap *capability.ModelCapability, handle JobHandle, result *types.GenerationResult) error {
	pollCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-pollCtx.Done():
			if ctx.Err() != nil {
				// 外层取消，不是超时
				result.Status = types.StatusFailed
				return types.NewError(types.ErrProvider, "generation canceled").
					WithCause(ctx.Err()).WithRetryable(false).WithProvider(cap.Provider)
			}
			result.Status = types.StatusTimedOut
			return types.NewError(types.ErrTimeout,
				fmt.Sprintf("generation did not reach a terminal state within %s", c.cfg.Timeout)).
				WithProvider(cap.Provider)

		case <-ticker.C:
			c.collector.RecordPoll(cap.ID)
			status, err := c.transport.Poll(pollCtx, handle)
			if err != nil {
				// 单次轮询失败视为瞬态，交由超时兜底
				c.logger.Warn("轮询失败，继续重试",
					zap.String("task_id", handle.TaskID),
					zap.Error(err),
				)
				continue
			}

			// 即使失败也记录远端上报的部分成本
			if status.CostUSD > 0 {
				result.CostUSD = status.CostUSD
			}

			switch status.State {
			case TaskCompleted:
				result.Status = types.StatusCompleted
				result.OutputURL = status.OutputURL
				if status.DurationSecs > 0 {
					result.ActualDuration = int(math.Round(status.DurationSecs))
				}
				return nil
			case TaskFailed:
				result.Status = types.StatusFailed
				msg := status.ErrorMessage
				if msg == "" {
					msg = "provider reported failure without detail"
				}
				return types.NewError(types.ErrProvider, msg).WithProvider(cap.Provider)
			}
			// created / processing：继续轮询
		}
	}
}
