package taskapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akyairhashvil/taskwatch/internal/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithHTTPClient(srv.Client()), WithRetry(1, time.Millisecond)}, opts...)
	c, err := New(srv.URL, "/api", opts...)
	require.NoError(t, err)
	return c
}

func writeEnvelope(w http.ResponseWriter, code int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"code": code, "message": message, "data": data})
}

func TestListTasks(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/admin/task/copy/undone", r.URL.Path)
		assert.Equal(t, "tok", r.Header.Get("Authorization"))
		writeEnvelope(w, 200, "success", []map[string]any{
			{"id": 7, "name": "copy [/a](/b/c) to [/d](/e)", "state": "running", "progress": 42.5},
			{"id": 3, "name": "other", "state": "pending"},
		})
	}, WithToken("tok"))

	tasks, err := c.ListTasks(context.Background(), "copy", models.Undone)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, int64(7), tasks[0].ID)
	assert.Equal(t, models.StateRunning, tasks[0].State)
	assert.Equal(t, 42.5, tasks[0].Progress)
	assert.Equal(t, "copy", tasks[1].Type)
}

func TestListTasksNullData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 200, "success", nil)
	})
	tasks, err := c.ListTasks(context.Background(), "copy", models.Done)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestListTasksApplicationFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 500, "storage not found", nil)
	})
	_, err := c.ListTasks(context.Background(), "copy", models.Done)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.Code)
	assert.Contains(t, err.Error(), "storage not found")
	assert.True(t, IsAPIError(err))
}

func TestListTasksRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "<html>bad gateway</html>")
			return
		}
		writeEnvelope(w, 200, "success", []map[string]any{{"id": 1, "name": "n", "state": "pending"}})
	}))
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, "/api", WithHTTPClient(srv.Client()), WithRetry(3, time.Millisecond))
	require.NoError(t, err)

	tasks, err := c.ListTasks(context.Background(), "copy", models.Undone)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClearDone(t *testing.T) {
	var hit atomic.Bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/admin/task/upload/clear_done", r.URL.Path)
		hit.Store(true)
		writeEnvelope(w, 200, "success", nil)
	})
	require.NoError(t, c.ClearDone(context.Background(), "upload"))
	assert.True(t, hit.Load())
}

func TestDeleteTask(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/admin/task/copy/delete", r.URL.Path)
		assert.Equal(t, "12", r.URL.Query().Get("tid"))
		writeEnvelope(w, 200, "success", nil)
	})
	require.NoError(t, c.DeleteTask(context.Background(), "copy", 12))
}

func TestDeleteTaskUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	err := c.DeleteTask(context.Background(), "copy", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))

	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, int64(1), opErr.ID)
}

func TestListTasksUnauthorizedAfterRetries(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	}, WithRetry(2, time.Millisecond))
	_, err := c.ListTasks(context.Background(), "copy", models.Undone)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 2, calls)
}

func TestEnvelopeUnauthorizedCode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 401, "token is expired", nil)
	})
	err := c.ClearDone(context.Background(), "copy")
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestCopy(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/fs/copy", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var got models.CopyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, models.CopyRequest{SrcDir: "/a/b", DstDir: "/d/e", Names: []string{"c"}}, got)
		writeEnvelope(w, 200, "success", nil)
	})
	err := c.Copy(context.Background(), models.CopyRequest{SrcDir: "/a/b", DstDir: "/d/e", Names: []string{"c"}})
	require.NoError(t, err)
}

func TestRequestTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}, WithTimeout(20*time.Millisecond))

	err := c.ClearDone(context.Background(), "copy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("not a url", "/api")
	require.Error(t, err)
}
