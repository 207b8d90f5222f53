package batch

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BaSui01/videoflow/types"
)

// runPooled 是有界工作池变体：整体并发由 Concurrency 限制，
// 同一厂商的在途数另由 PerProviderLimit 限制，保留串行模式
// 对厂商限流的初衷。结果按输入下标回填，报告契约与串行一致，
// 聚合在 Wait 之后单线程完成，无需加锁。
func (s *Scheduler) runPooled(ctx context.Context, reqs []*types.GenerationRequest) (*types.BatchReport, error) {
	results := make([]*types.GenerationResult, len(reqs))
	providerSlots := make(map[string]chan struct{})

	// 预检串行先行：失败条目当场落位，不进工作池
	type pending struct {
		index    int
		provider string
	}
	var queue []pending
	for i, req := range reqs {
		cap, err := s.gen.Preflight(req)
		if err != nil {
			results[i] = failedResult(req, err)
			continue
		}
		if _, ok := providerSlots[cap.Provider]; !ok {
			providerSlots[cap.Provider] = make(chan struct{}, s.cfg.PerProviderLimit)
		}
		queue = append(queue, pending{index: i, provider: cap.Provider})
	}

	s.logger.Info("批处理开始（工作池）",
		zap.Int("items", len(reqs)),
		zap.Int("concurrency", s.cfg.Concurrency),
		zap.Int("per_provider_limit", s.cfg.PerProviderLimit),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for _, item := range queue {
		req := reqs[item.index]
		index := item.index
		slot := providerSlots[item.provider]

		g.Go(func() error {
			select {
			case slot <- struct{}{}:
				defer func() { <-slot }()
			case <-gctx.Done():
				results[index] = canceledResult(req, gctx.Err())
				return nil
			}

			if err := s.limiter.Wait(gctx); err != nil {
				results[index] = canceledResult(req, err)
				return nil
			}

			results[index] = s.runAttempts(gctx, req)
			// 单条失败不终止整批，错误体现在该条结果里
			return nil
		})
	}
	_ = g.Wait()

	report := &types.BatchReport{
		Results: make([]*types.GenerationResult, 0, len(reqs)),
	}
	for i, r := range results {
		if r == nil {
			// 取消时未被调度到的条目
			r = canceledResult(reqs[i], ctx.Err())
		}
		s.record(report, r)
	}

	s.collector.RecordBatchRun()
	s.logger.Info("批处理结束（工作池）",
		zap.Int("success", report.SuccessCount),
		zap.Int("failure", report.FailureCount),
		zap.Float64("total_cost_usd", report.TotalCostUSD),
	)

	if ctx.Err() != nil {
		return report, types.NewError(types.ErrProvider, "batch canceled before completion").
			WithCause(ctx.Err()).WithRetryable(false)
	}
	return report, nil
}
