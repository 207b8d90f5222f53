// =============================================================================
// VideoFlow 主入口
// =============================================================================
// 批量视频生成命令行工具，包含模型目录查看、单次生成与批处理
//
// 使用方法:
//
//	videoflow run --manifest batch.yaml     # 运行批处理清单
//	videoflow run --config config.yaml --manifest batch.yaml
//	videoflow models                        # 列出可用模型
//	videoflow version                       # 显示版本信息
// =============================================================================

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/BaSui01/videoflow"
	"github.com/BaSui01/videoflow/config"
	"github.com/BaSui01/videoflow/internal/telemetry"
	"github.com/BaSui01/videoflow/types"
)

// =============================================================================
// 📦 版本信息（构建时注入）
// =============================================================================

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// =============================================================================
// 🎯 主函数
// =============================================================================

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		runBatch(os.Args[2:])
	case "models":
		runModels(os.Args[2:])
	case "version":
		printVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// =============================================================================
// 🎬 run 命令
// =============================================================================

// manifest 是批处理清单文件的结构。
type manifest struct {
	Requests []*types.GenerationRequest `yaml:"requests"`
}

func runBatch(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	manifestPath := fs.String("manifest", "", "Path to batch manifest (YAML)")
	fs.Parse(args)

	if *manifestPath == "" {
		fmt.Fprintln(os.Stderr, "run requires --manifest")
		os.Exit(1)
	}

	cfg := loadConfig(*configPath)
	logger := initLogger(cfg.Log)
	defer logger.Sync()

	// 遥测初始化
	providers, err := telemetry.Init(cfg.Telemetry, logger)
	if err != nil {
		logger.Fatal("遥测初始化失败", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(ctx); err != nil {
			logger.Warn("遥测关闭失败", zap.Error(err))
		}
	}()

	opts := []videoflow.Option{
		videoflow.WithConfig(cfg),
		videoflow.WithLogger(logger),
	}

	// 指标端点
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		opts = append(opts, videoflow.WithMetrics(reg))
		go serveMetrics(cfg.Metrics.Port, reg, logger)
	}

	vf, err := videoflow.New(opts...)
	if err != nil {
		logger.Fatal("初始化失败", zap.Error(err))
	}

	m, err := loadManifest(*manifestPath)
	if err != nil {
		logger.Fatal("清单加载失败", zap.String("path", *manifestPath), zap.Error(err))
	}
	if len(m.Requests) == 0 {
		logger.Fatal("清单为空", zap.String("path", *manifestPath))
	}

	// Ctrl-C 优雅停止：取消后剩余条目记为失败并汇总
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, runErr := vf.RunBatch(ctx, m.Requests)
	printReport(report)

	if runErr != nil {
		logger.Warn("批处理提前结束", zap.Error(runErr))
		os.Exit(1)
	}
	if report.FailureCount > 0 {
		os.Exit(1)
	}
}

func loadConfig(path string) *config.Config {
	loader := config.NewLoader().WithValidator((*config.Config).Validate)
	if path != "" {
		loader = loader.WithConfigPath(path)
	}
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func loadManifest(path string) (*manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

func printReport(report *types.BatchReport) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "JOB\tMODEL\tSTATUS\tATTEMPTS\tCOST\tOUTPUT")
	for _, r := range report.Results {
		out := r.OutputURL
		if out == "" {
			out = r.ErrorMessage
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t$%.4f\t%s\n",
			r.JobID, r.ModelID, r.Status, r.Attempts, r.CostUSD, out)
	}
	w.Flush()
	fmt.Printf("\nsuccess=%d failure=%d total_cost=$%.4f\n",
		report.SuccessCount, report.FailureCount, report.TotalCostUSD)
}

func serveMetrics(port int, reg *prometheus.Registry, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	addr := fmt.Sprintf(":%d", port)
	logger.Info("指标端点启动", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("指标端点退出", zap.Error(err))
	}
}

// =============================================================================
// 📋 models 命令
// =============================================================================

func runModels(args []string) {
	fs := flag.NewFlagSet("models", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	logger := initLogger(cfg.Log)
	defer logger.Sync()

	vf, err := videoflow.New(videoflow.WithConfig(cfg), videoflow.WithLogger(logger))
	if err != nil {
		logger.Fatal("初始化失败", zap.Error(err))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROVIDER\tDURATIONS\tASPECTS\tRESOLUTIONS\tAUDIO\tDEFAULT")
	for _, c := range vf.Registry().List() {
		def := ""
		if c.Default {
			def = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%v\t%v\t%v\t%v\t%s\n",
			c.ID, c.Provider, c.Durations, c.AspectRatios, c.Resolutions, c.HasAudio, def)
	}
	w.Flush()
}

// =============================================================================
// 🔧 日志初始化
// =============================================================================

func initLogger(cfg config.LogConfig) *zap.Logger {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var encoderConfig zapcore.EncoderConfig
	if cfg.Format == "console" {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Format == "console",
		Encoding:         "json",
		EncoderConfig:    encoderConfig,
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    !cfg.EnableCaller,
	}
	if cfg.Format == "console" {
		zapConfig.Encoding = "console"
	}
	if !cfg.EnableStacktrace {
		zapConfig.DisableStacktrace = true
	}

	logger, err := zapConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// =============================================================================
// 🔍 辅助命令
// =============================================================================

func printVersion() {
	fmt.Printf("videoflow %s (built %s, commit %s)\n", Version, BuildTime, GitCommit)
}

func printUsage() {
	fmt.Println(`videoflow - provider-agnostic video generation orchestration

Usage:
  videoflow run --manifest batch.yaml [--config config.yaml]
  videoflow models [--config config.yaml]
  videoflow version
  videoflow help`)
}
