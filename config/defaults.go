// =============================================================================
// 📦 VideoFlow 默认配置
// =============================================================================
// 提供所有配置项的合理默认值
// =============================================================================
package config

import "time"

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Provider:  DefaultProviderConfig(),
		Client:    DefaultClientConfig(),
		Batch:     DefaultBatchConfig(),
		Log:       DefaultLogConfig(),
		Metrics:   DefaultMetricsConfig(),
		Telemetry: DefaultTelemetryConfig(),
	}
}

// DefaultProviderConfig 返回默认厂商集成配置
func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		APIKey:         "",
		BaseURL:        "https://api.runware.ai",
		RequestTimeout: 30 * time.Second,
	}
}

// DefaultClientConfig 返回默认客户端配置
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:      300 * time.Second,
		PollInterval: 5 * time.Second,
	}
}

// DefaultBatchConfig 返回默认批调度配置
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		InterItemDelay:    time.Second,
		MaxRetries:        1,
		InitialBackoff:    10 * time.Second,
		MaxBackoff:        80 * time.Second,
		BackoffMultiplier: 2.0,
		Concurrency:       1,
		PerProviderLimit:  1,
	}
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:            "info",
		Format:           "json",
		OutputPaths:      []string{"stdout"},
		EnableCaller:     true,
		EnableStacktrace: false,
	}
}

// DefaultMetricsConfig 返回默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:   false,
		Namespace: "videoflow",
		Port:      9091,
	}
}

// DefaultTelemetryConfig 返回默认遥测配置
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:      false,
		OTLPEndpoint: "localhost:4317",
		ServiceName:  "videoflow",
		SampleRate:   0.1,
	}
}
