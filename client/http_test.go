package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/videoflow/payload"
	"github.com/BaSui01/videoflow/types"
)

func TestHTTPTransport_Submit(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"data":{"id":"task-123","model":"bytedance:2@1","status":"created"}}`))
	}))
	defer srv.Close()

	tr := NewHTTPTransport(HTTPConfig{APIKey: "sk-test", BaseURL: srv.URL}, zap.NewNop())

	handle, err := tr.Submit(context.Background(), payload.Payload{
		"taskType":       "videoInference",
		"taskUUID":       "u-1",
		"positivePrompt": "p",
	})
	require.NoError(t, err)

	assert.Equal(t, "task-123", handle.TaskID)
	assert.Equal(t, "bytedance:2@1", handle.Model)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "/v1/tasks", gotPath)
	assert.Equal(t, "videoInference", gotBody["taskType"])
}

func TestHTTPTransport_Submit_ClientErrorNotRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad prompt", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	tr := NewHTTPTransport(HTTPConfig{BaseURL: srv.URL}, zap.NewNop())
	_, err := tr.Submit(context.Background(), payload.Payload{})
	require.Error(t, err)

	assert.Equal(t, types.ErrProvider, types.GetErrorCode(err))
	assert.False(t, types.IsRetryable(err), "4xx responses are caller errors")
}

func TestHTTPTransport_Submit_ServerErrorRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream blew up", http.StatusBadGateway)
	}))
	defer srv.Close()

	tr := NewHTTPTransport(HTTPConfig{BaseURL: srv.URL}, zap.NewNop())
	_, err := tr.Submit(context.Background(), payload.Payload{})
	require.Error(t, err)
	assert.True(t, types.IsRetryable(err))
}

func TestHTTPTransport_Submit_RateLimitRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	tr := NewHTTPTransport(HTTPConfig{BaseURL: srv.URL}, zap.NewNop())
	_, err := tr.Submit(context.Background(), payload.Payload{})
	require.Error(t, err)
	assert.True(t, types.IsRetryable(err), "429 is transient")
}

func TestHTTPTransport_Submit_MissingTaskID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	tr := NewHTTPTransport(HTTPConfig{BaseURL: srv.URL}, zap.NewNop())
	_, err := tr.Submit(context.Background(), payload.Payload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing task id")
}

func TestHTTPTransport_Poll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/tasks/task-123", r.URL.Path)
		w.Write([]byte(`{"data":{
			"id":"task-123",
			"status":"completed",
			"outputs":["https://cdn.example.com/v.mp4","https://cdn.example.com/v2.mp4"],
			"cost":0.37,
			"duration":5
		}}`))
	}))
	defer srv.Close()

	tr := NewHTTPTransport(HTTPConfig{BaseURL: srv.URL}, zap.NewNop())
	status, err := tr.Poll(context.Background(), JobHandle{TaskID: "task-123"})
	require.NoError(t, err)

	assert.Equal(t, TaskCompleted, status.State)
	assert.Equal(t, "https://cdn.example.com/v.mp4", status.OutputURL)
	assert.InDelta(t, 0.37, status.CostUSD, 1e-9)
	assert.InDelta(t, 5.0, status.DurationSecs, 1e-9)
	assert.True(t, status.State.Terminal())
}

func TestHTTPTransport_Poll_Failed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"id":"task-123","status":"failed","cost":0.02,"error":"content policy"}}`))
	}))
	defer srv.Close()

	tr := NewHTTPTransport(HTTPConfig{BaseURL: srv.URL}, zap.NewNop())
	status, err := tr.Poll(context.Background(), JobHandle{TaskID: "task-123"})
	require.NoError(t, err)

	assert.Equal(t, TaskFailed, status.State)
	assert.Equal(t, "content policy", status.ErrorMessage)
	assert.InDelta(t, 0.02, status.CostUSD, 1e-9)
}

func TestHTTPTransport_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	tr := NewHTTPTransport(HTTPConfig{BaseURL: srv.URL}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tr.Poll(ctx, JobHandle{TaskID: "task-123"})
	require.Error(t, err)
}
