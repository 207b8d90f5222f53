// Package videoflow provides a top-level convenience entry point for
// provider-agnostic video generation with minimal boilerplate.
//
// Usage:
//
//	import "github.com/BaSui01/videoflow"
//
//	vf, err := videoflow.New(videoflow.WithAPIKey("sk-..."))
//	result, err := vf.Generate(ctx, req)
//	report, err := vf.RunBatch(ctx, reqs)
//
// New wires the capability registry, payload builder, generation client
// and batch scheduler together; use the subpackages directly when you
// need finer control.
package videoflow

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/BaSui01/videoflow/batch"
	"github.com/BaSui01/videoflow/capability"
	"github.com/BaSui01/videoflow/client"
	"github.com/BaSui01/videoflow/config"
	"github.com/BaSui01/videoflow/internal/metrics"
	"github.com/BaSui01/videoflow/types"
)

// Orchestrator bundles the registry, the generation client and the
// batch scheduler behind one handle.
type Orchestrator struct {
	registry  *capability.Registry
	client    *client.Client
	scheduler *batch.Scheduler
}

type settings struct {
	cfg       *config.Config
	catalog   []*capability.ModelCapability
	transport client.Transport
	credit    client.CreditChecker
	logger    *zap.Logger
	promReg   prometheus.Registerer
}

// Option configures the orchestrator created by [New].
type Option func(*settings)

// WithConfig supplies a full configuration, typically from config.MustLoad.
func WithConfig(cfg *config.Config) Option {
	return func(s *settings) { s.cfg = cfg }
}

// WithAPIKey overrides the provider API key.
func WithAPIKey(key string) Option {
	return func(s *settings) { s.cfg.Provider.APIKey = key }
}

// WithCatalog replaces the built-in model capability catalog.
func WithCatalog(catalog []*capability.ModelCapability) Option {
	return func(s *settings) { s.catalog = catalog }
}

// WithTransport sets a pre-built transport, bypassing the HTTP default.
func WithTransport(t client.Transport) Option {
	return func(s *settings) { s.transport = t }
}

// WithCreditChecker hooks an external billing veto before submission.
func WithCreditChecker(cc client.CreditChecker) Option {
	return func(s *settings) { s.credit = cc }
}

// WithLogger sets a custom zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithMetrics registers prometheus collectors on the given registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *settings) { s.promReg = reg }
}

// New creates an orchestrator over the built-in catalog and an HTTP
// transport. The zero-option form works with configuration from
// environment variables.
func New(opts ...Option) (*Orchestrator, error) {
	s := &settings{
		cfg:     config.DefaultConfig(),
		catalog: capability.DefaultCatalog(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	registry, err := capability.NewRegistry(s.catalog, s.logger)
	if err != nil {
		return nil, err
	}

	transport := s.transport
	if transport == nil {
		transport = client.NewHTTPTransport(s.cfg.Provider.ToHTTP(), s.logger)
	}

	clientOpts := []client.Option{}
	batchOpts := []batch.Option{}
	if s.credit != nil {
		clientOpts = append(clientOpts, client.WithCreditChecker(s.credit))
	}
	if s.promReg != nil {
		collector := metrics.NewCollector(s.cfg.Metrics.Namespace, s.promReg, s.logger)
		clientOpts = append(clientOpts, client.WithMetrics(collector))
		batchOpts = append(batchOpts, batch.WithMetrics(collector))
	}

	gen := client.NewClient(registry, transport, s.cfg.Client.ToClient(), s.logger, clientOpts...)
	scheduler := batch.NewScheduler(gen, s.cfg.Batch.ToBatch(), s.logger, batchOpts...)

	return &Orchestrator{
		registry:  registry,
		client:    gen,
		scheduler: scheduler,
	}, nil
}

// Registry returns the capability registry.
func (o *Orchestrator) Registry() *capability.Registry {
	return o.registry
}

// Client returns the generation client.
func (o *Orchestrator) Client() *client.Client {
	return o.client
}

// Scheduler returns the batch scheduler.
func (o *Orchestrator) Scheduler() *batch.Scheduler {
	return o.scheduler
}

// Generate runs a single generation end to end.
func (o *Orchestrator) Generate(ctx context.Context, req *types.GenerationRequest) (*types.GenerationResult, error) {
	return o.client.Generate(ctx, req)
}

// RunBatch processes a list of requests and returns the aggregate report.
func (o *Orchestrator) RunBatch(ctx context.Context, reqs []*types.GenerationRequest) (*types.BatchReport, error) {
	return o.scheduler.Run(ctx, reqs)
}
