package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/videoflow/payload"
	"github.com/BaSui01/videoflow/types"
)

// HTTPConfig 配置 HTTP 传输层。
type HTTPConfig struct {
	APIKey  string        `json:"api_key" yaml:"api_key"`
	BaseURL string        `json:"base_url" yaml:"base_url"`
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// HTTPTransport 通过聚合网关的任务 API 提交与轮询生成任务。
// 端点: POST /v1/tasks 提交，GET /v1/tasks/{id} 轮询。
type HTTPTransport struct {
	cfg    HTTPConfig
	client *http.Client
	logger *zap.Logger
}

// NewHTTPTransport 创建 HTTP 传输层。
func NewHTTPTransport(cfg HTTPConfig, logger *zap.Logger) *HTTPTransport {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.videoflow.dev"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HTTPTransport{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// taskResponse 是任务 API 的响应体。
type taskResponse struct {
	Data struct {
		ID       string   `json:"id"`
		Model    string   `json:"model"`
		Status   string   `json:"status"` // created, processing, completed, failed
		Outputs  []string `json:"outputs"`
		Cost     float64  `json:"cost"`
		Duration float64  `json:"duration"`
		Error    string   `json:"error"`
	} `json:"data"`
}

// Submit 实现 Transport.Submit。
func (t *HTTPTransport) Submit(ctx context.Context, p payload.Payload) (JobHandle, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return JobHandle{}, types.NewError(types.ErrProvider, "failed to encode payload").
			WithCause(err).WithRetryable(false)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(t.cfg.BaseURL, "/")+"/v1/tasks", bytes.NewReader(body))
	if err != nil {
		return JobHandle{}, types.NewError(types.ErrProvider, "failed to create request").WithCause(err)
	}
	t.setHeaders(httpReq)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return JobHandle{}, types.NewError(types.ErrProvider, "submit request failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		errBody, _ := io.ReadAll(resp.Body)
		e := types.NewError(types.ErrProvider,
			fmt.Sprintf("submit rejected: status=%d body=%s", resp.StatusCode, string(errBody)))
		// 4xx 是请求本身的问题，重试不会改变结果
		if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			e = e.WithRetryable(false)
		}
		return JobHandle{}, e
	}

	var tr taskResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return JobHandle{}, types.NewError(types.ErrProvider, "failed to decode submit response").WithCause(err)
	}
	if tr.Data.ID == "" {
		return JobHandle{}, types.NewError(types.ErrProvider, "submit response missing task id")
	}

	t.logger.Debug("任务已提交",
		zap.String("task_id", tr.Data.ID),
		zap.String("model", tr.Data.Model),
	)
	return JobHandle{TaskID: tr.Data.ID, Model: tr.Data.Model}, nil
}

// Poll 实现 Transport.Poll。
func (t *HTTPTransport) Poll(ctx context.Context, h JobHandle) (*TaskStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/v1/tasks/%s", strings.TrimRight(t.cfg.BaseURL, "/"), h.TaskID), nil)
	if err != nil {
		return nil, types.NewError(types.ErrProvider, "failed to create poll request").WithCause(err)
	}
	t.setHeaders(httpReq)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, types.NewError(types.ErrProvider, "poll request failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, types.NewError(types.ErrProvider,
			fmt.Sprintf("poll rejected: status=%d body=%s", resp.StatusCode, string(errBody)))
	}

	var tr taskResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, types.NewError(types.ErrProvider, "failed to decode poll response").WithCause(err)
	}

	return &TaskStatus{
		State:        TaskState(tr.Data.Status),
		OutputURL:    firstOf(tr.Data.Outputs),
		CostUSD:      tr.Data.Cost,
		DurationSecs: tr.Data.Duration,
		ErrorMessage: tr.Data.Error,
	}, nil
}

func (t *HTTPTransport) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+t.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
}

func firstOf(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}
