package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Collector 指标收集器
type Collector struct {
	// 生成任务指标
	generationsTotal   *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	generationCost     *prometheus.CounterVec
	pollsTotal         *prometheus.CounterVec
	submitAttempts     *prometheus.CounterVec

	// 批处理指标
	batchItemsTotal *prometheus.CounterVec
	batchRunsTotal  prometheus.Counter

	logger *zap.Logger
}

// NewCollector 创建指标收集器并注册到 reg。
// reg 为 nil 时使用默认注册表；测试应传入独立的 prometheus.NewRegistry()。
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Total number of video generation jobs by terminal status",
		},
		[]string{"model", "status"},
	)

	c.generationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Wall-clock duration of generation jobs (submit to terminal state)",
			Buckets:   []float64{5, 15, 30, 60, 120, 180, 300, 600},
		},
		[]string{"model"},
	)

	c.generationCost = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_cost_usd_total",
			Help:      "Total reported generation cost in USD",
		},
		[]string{"model"},
	)

	c.pollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_total",
			Help:      "Total number of status poll calls",
		},
		[]string{"model"},
	)

	c.submitAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submit_attempts_total",
			Help:      "Total number of submission attempts including retries",
		},
		[]string{"model"},
	)

	c.batchItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_items_total",
			Help:      "Total number of batch items by outcome",
		},
		[]string{"outcome"},
	)

	c.batchRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_runs_total",
			Help:      "Total number of batch runs",
		},
	)

	reg.MustRegister(
		c.generationsTotal,
		c.generationDuration,
		c.generationCost,
		c.pollsTotal,
		c.submitAttempts,
		c.batchItemsTotal,
		c.batchRunsTotal,
	)

	return c
}

// RecordGeneration 记录一次生成任务的终态、耗时与成本。
func (c *Collector) RecordGeneration(model, status string, elapsed time.Duration, costUSD float64) {
	if c == nil {
		return
	}
	c.generationsTotal.WithLabelValues(model, status).Inc()
	c.generationDuration.WithLabelValues(model).Observe(elapsed.Seconds())
	if costUSD > 0 {
		c.generationCost.WithLabelValues(model).Add(costUSD)
	}
}

// RecordPoll 记录一次状态轮询。
func (c *Collector) RecordPoll(model string) {
	if c == nil {
		return
	}
	c.pollsTotal.WithLabelValues(model).Inc()
}

// RecordSubmitAttempt 记录一次提交尝试（含重试）。
func (c *Collector) RecordSubmitAttempt(model string) {
	if c == nil {
		return
	}
	c.submitAttempts.WithLabelValues(model).Inc()
}

// RecordBatchItem 记录批处理条目结果。
func (c *Collector) RecordBatchItem(outcome string) {
	if c == nil {
		return
	}
	c.batchItemsTotal.WithLabelValues(outcome).Inc()
}

// RecordBatchRun 记录一次批处理执行。
func (c *Collector) RecordBatchRun() {
	if c == nil {
		return
	}
	c.batchRunsTotal.Inc()
}
