package client_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/videoflow/capability"
	"github.com/BaSui01/videoflow/client"
	"github.com/BaSui01/videoflow/testutil/fixtures"
	"github.com/BaSui01/videoflow/testutil/mocks"
	"github.com/BaSui01/videoflow/types"
)

func fastConfig() client.Config {
	return client.Config{
		Timeout:      200 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
	}
}

func newTestClient(t *testing.T, transport client.Transport, opts ...client.Option) *client.Client {
	t.Helper()
	reg, err := capability.NewRegistry(fixtures.Catalog(), zap.NewNop())
	require.NoError(t, err)
	return client.NewClient(reg, transport, fastConfig(), zap.NewNop(), opts...)
}

func TestGenerate_Success(t *testing.T) {
	transport := &mocks.MockTransport{PollsUntilDone: 2, Cost: 0.42}
	c := newTestClient(t, transport)

	result, err := c.Generate(context.Background(), fixtures.Request("job-1"))
	require.NoError(t, err)

	assert.Equal(t, types.StatusCompleted, result.Status)
	assert.Equal(t, "job-1", result.JobID)
	assert.Equal(t, "https://cdn.example.com/out.mp4", result.OutputURL)
	assert.InDelta(t, 0.42, result.CostUSD, 1e-9)
	assert.Equal(t, 5, result.ActualDuration)
	assert.Equal(t, 1, transport.SubmitCalls())
	assert.GreaterOrEqual(t, transport.PollCalls(), 3)
}

func TestGenerate_RoundsReportedDuration(t *testing.T) {
	transport := &mocks.MockTransport{
		PollFunc: func(ctx context.Context, h client.JobHandle) (*client.TaskStatus, error) {
			return &client.TaskStatus{
				State:        client.TaskCompleted,
				OutputURL:    "https://cdn.example.com/v.mp4",
				DurationSecs: 5.8,
			}, nil
		},
	}
	c := newTestClient(t, transport)

	result, err := c.Generate(context.Background(), fixtures.Request("job-1"))
	require.NoError(t, err)
	// 远端上报 5.8s，就近取整而不是截断
	assert.Equal(t, 6, result.ActualDuration)
}

func TestGenerate_AssignsJobID(t *testing.T) {
	transport := &mocks.MockTransport{}
	c := newTestClient(t, transport)

	req := fixtures.Request("")
	result, err := c.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, result.JobID)
}

func TestGenerate_UnknownModel_NoNetworkCall(t *testing.T) {
	transport := &mocks.MockTransport{}
	c := newTestClient(t, transport)

	req := fixtures.Request("job-1")
	req.ModelID = "nonexistent-model"

	result, err := c.Generate(context.Background(), req)
	require.Error(t, err)

	assert.Equal(t, types.ErrConfiguration, types.GetErrorCode(err))
	assert.Equal(t, types.StatusFailed, result.Status)
	assert.Equal(t, 0, transport.SubmitCalls(), "configuration errors must not consume a network call")
	assert.Equal(t, 0, transport.PollCalls())
}

func TestGenerate_ValidationFailure_NoNetworkCall(t *testing.T) {
	transport := &mocks.MockTransport{}
	c := newTestClient(t, transport)

	req := fixtures.Request("job-1")
	req.AspectRatio = "4:3" // fixture-basic 不支持

	result, err := c.Generate(context.Background(), req)
	require.Error(t, err)

	var e *types.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, types.ErrValidation, e.Code)
	assert.Equal(t, "aspect_ratio", e.Field)
	assert.Equal(t, types.StatusFailed, result.Status)
	assert.Equal(t, 0, transport.SubmitCalls())
}

func TestGenerate_ClampsDuration(t *testing.T) {
	transport := &mocks.MockTransport{}
	c := newTestClient(t, transport)

	req := fixtures.Request("job-1")
	req.Duration = 7 // [5,10] 夹取到 5

	result, err := c.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 5, result.ActualDuration)
	assert.Equal(t, 5, transport.LastPayload()["duration"])
}

func TestGenerate_ProviderFailure_CapturesCost(t *testing.T) {
	transport := &mocks.MockTransport{FailWith: "content policy rejection", Cost: 0.05}
	c := newTestClient(t, transport)

	result, err := c.Generate(context.Background(), fixtures.Request("job-1"))
	require.Error(t, err)

	assert.Equal(t, types.ErrProvider, types.GetErrorCode(err))
	assert.True(t, types.IsRetryable(err))
	assert.Equal(t, types.StatusFailed, result.Status)
	assert.Contains(t, result.ErrorMessage, "content policy rejection")
	// 失败时也要保留部分上报的成本
	assert.InDelta(t, 0.05, result.CostUSD, 1e-9)
}

func TestGenerate_Timeout(t *testing.T) {
	transport := &mocks.MockTransport{
		PollFunc: func(ctx context.Context, h client.JobHandle) (*client.TaskStatus, error) {
			return &client.TaskStatus{State: client.TaskProcessing}, nil
		},
	}
	c := newTestClient(t, transport)

	result, err := c.Generate(context.Background(), fixtures.Request("job-1"))
	require.Error(t, err)

	assert.Equal(t, types.ErrTimeout, types.GetErrorCode(err))
	assert.True(t, types.IsRetryable(err), "timeouts follow the provider retry policy")
	assert.Equal(t, types.StatusTimedOut, result.Status)
}

func TestGenerate_CancellationStopsPolling(t *testing.T) {
	transport := &mocks.MockTransport{
		PollFunc: func(ctx context.Context, h client.JobHandle) (*client.TaskStatus, error) {
			return &client.TaskStatus{State: client.TaskProcessing}, nil
		},
	}
	reg, err := capability.NewRegistry(fixtures.Catalog(), zap.NewNop())
	require.NoError(t, err)
	c := client.NewClient(reg, transport,
		client.Config{Timeout: 10 * time.Second, PollInterval: 5 * time.Millisecond}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	result, err := c.Generate(ctx, fixtures.Request("job-1"))
	require.Error(t, err)

	assert.Less(t, time.Since(start), 2*time.Second, "cancellation must stop polling promptly")
	assert.Equal(t, types.StatusFailed, result.Status)
	assert.False(t, types.IsRetryable(err), "caller cancellation is not retryable")
}

func TestGenerate_PollErrorsAreTransient(t *testing.T) {
	calls := 0
	transport := &mocks.MockTransport{
		PollFunc: func(ctx context.Context, h client.JobHandle) (*client.TaskStatus, error) {
			calls++
			if calls < 3 {
				return nil, types.NewError(types.ErrProvider, "connection reset")
			}
			return &client.TaskStatus{State: client.TaskCompleted, OutputURL: "https://cdn.example.com/v.mp4"}, nil
		},
	}
	c := newTestClient(t, transport)

	result, err := c.Generate(context.Background(), fixtures.Request("job-1"))
	require.NoError(t, err, "single poll failures ride through until timeout")
	assert.Equal(t, types.StatusCompleted, result.Status)
}

func TestGenerate_EndFrameDowngrade(t *testing.T) {
	transport := &mocks.MockTransport{}
	c := newTestClient(t, transport)

	req := &types.GenerationRequest{
		JobID:         "job-1",
		ModelID:       "fixture-nolast",
		Prompt:        "x",
		Duration:      6,
		AspectRatio:   "16:9",
		Resolution:    "720p",
		StartFrameURL: "https://cdn.example.com/a.png",
		EndFrameURL:   "https://cdn.example.com/b.png",
	}

	result, err := c.Generate(context.Background(), req)
	require.NoError(t, err, "unsupported end frame must downgrade, not fail")

	assert.Equal(t, types.StatusCompleted, result.Status)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "start frame only")
	assert.Equal(t, 1, transport.SubmitCalls())
}

func TestGenerate_CreditCheck(t *testing.T) {
	t.Run("veto blocks submission", func(t *testing.T) {
		transport := &mocks.MockTransport{}
		checker := &mocks.MockCreditChecker{Err: errors.New("insufficient credits")}
		c := newTestClient(t, transport, client.WithCreditChecker(checker))

		result, err := c.Generate(context.Background(), fixtures.Request("job-1"))
		require.Error(t, err)
		assert.Equal(t, types.ErrCreditDenied, types.GetErrorCode(err))
		assert.False(t, types.IsRetryable(err))
		assert.Equal(t, types.StatusFailed, result.Status)
		assert.Equal(t, 0, transport.SubmitCalls())
	})

	t.Run("skip flag bypasses the checker", func(t *testing.T) {
		transport := &mocks.MockTransport{}
		checker := &mocks.MockCreditChecker{Err: errors.New("insufficient credits")}
		c := newTestClient(t, transport, client.WithCreditChecker(checker))

		req := fixtures.Request("job-1")
		req.SkipCreditCheck = true

		_, err := c.Generate(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 0, checker.Calls())
	})
}
