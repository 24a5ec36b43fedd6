package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akyairhashvil/taskwatch/internal/config"
	"github.com/akyairhashvil/taskwatch/internal/models"
	"github.com/akyairhashvil/taskwatch/internal/taskapi"
	"github.com/akyairhashvil/taskwatch/internal/tasks"
	"github.com/akyairhashvil/taskwatch/internal/testutil"
	"github.com/akyairhashvil/taskwatch/internal/tui"
)

type harness struct {
	app     *App
	svc     *testutil.FakeService
	out     *bytes.Buffer
	errOut  *bytes.Buffer
	cfgPath string
	dir     string
	got     config.Settings
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	for _, env := range []string{config.EnvServer, config.EnvToken, config.EnvTypes} {
		t.Setenv(env, "")
	}
	dir := t.TempDir()
	cfg := strings.Join([]string{
		"server: http://alist.test",
		"token: file-token",
		"types: [copy, upload]",
		"poll_interval: 10ms",
		"history_path: " + filepath.Join(dir, "data", "history.db"),
		"report_dir: " + filepath.Join(dir, "reports"),
	}, "\n")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	h := &harness{
		svc:     testutil.NewFakeService(),
		out:     &bytes.Buffer{},
		errOut:  &bytes.Buffer{},
		cfgPath: cfgPath,
		dir:     dir,
	}
	h.svc.AddTask("copy", models.Done, testutil.NewTask(3).Failed("storage offline").Build())
	h.svc.AddTask("copy", models.Done, testutil.NewTask(1).Succeeded().Build())
	h.svc.AddTask("copy", models.Undone, testutil.NewTask(5).WithState(models.StateRunning).Build())

	h.app = NewApp(func(s config.Settings, _ *slog.Logger) (taskapi.Service, error) {
		h.got = s
		return h.svc, nil
	}, h.out, h.errOut)
	h.app.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	h.app.readToken = func(_ io.Writer) (string, error) { return "prompted", nil }
	return h
}

func (h *harness) run(args ...string) int {
	h.out.Reset()
	h.errOut.Reset()
	return h.app.Run(context.Background(), append([]string{"--config", h.cfgPath}, args...))
}

func TestListSortedByID(t *testing.T) {
	h := newHarness(t)
	code := h.run("list", "copy", "done")
	require.Equal(t, Success, code, h.errOut.String())

	out := h.out.String()
	first := strings.Index(out, "file1.txt")
	third := strings.Index(out, "file3.txt")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, third)
	assert.Less(t, first, third)
	assert.Contains(t, out, "storage offline")
}

func TestListDefaultsToUndone(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, Success, h.run("list", "copy"))
	assert.Contains(t, h.out.String(), "file5.txt")
	assert.NotContains(t, h.out.String(), "file1.txt")
}

func TestListFilterAndJSON(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, Success, h.run("list", "copy", "done", "--filter", "state:errored", "--json"))

	var got []models.Task
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
}

func TestListUserErrors(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, UserError, h.run("list", "copy", "sideways"))
	assert.Contains(t, h.errOut.String(), "invalid list")
	assert.Equal(t, UserError, h.run("list", "torrent"))
	assert.Contains(t, h.errOut.String(), "unknown task type")
	assert.Equal(t, UserError, h.run("list"))
	assert.Equal(t, UserError, h.run("bogus"))
}

func TestFlagsOverrideConfig(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, Success, h.run("--server", "https://other.test", "--token", "flag-token", "--types", "copy", "list", "copy"))
	assert.Equal(t, "https://other.test", h.got.Server)
	assert.Equal(t, "flag-token", h.got.Token)
	assert.Equal(t, []string{"copy"}, h.got.Types)
}

func TestAskTokenPrompts(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, Success, h.run("--ask-token", "list", "copy"))
	assert.Equal(t, "prompted", h.got.Token)
}

func TestMissingServerIsConfigError(t *testing.T) {
	h := newHarness(t)
	empty := filepath.Join(h.dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("types: [copy]\n"), 0o600))

	code := h.app.Run(context.Background(), []string{"--config", empty, "list", "copy"})
	assert.Equal(t, AuthError, code)
	assert.Contains(t, h.errOut.String(), "server is not set")
}

func TestUnauthorizedExitCode(t *testing.T) {
	h := newHarness(t)
	h.svc.ListErr = taskapi.ErrUnauthorized
	assert.Equal(t, AuthError, h.run("list", "copy"))
	assert.Contains(t, h.errOut.String(), "hint:")
}

func TestClearCompleteRecordsHistory(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, Success, h.run("clear-complete", "copy"), h.errOut.String())
	assert.Equal(t, []int64{1}, h.svc.Deleted())
	assert.Contains(t, h.out.String(), "clear_complete copy: 1 ok, 0 failed")

	require.Equal(t, Success, h.run("history"))
	assert.Contains(t, h.out.String(), "clear_complete")
	assert.Contains(t, h.out.String(), "copy")
}

func TestRetryFailedPartialFailure(t *testing.T) {
	h := newHarness(t)
	h.svc.AddTask("copy", models.Done, testutil.NewTask(4).WithName("upload without layout").Failed("x").Build())

	code := h.run("retry-failed", "copy")
	assert.Equal(t, BackendError, code)
	out := h.out.String()
	assert.Contains(t, out, "1 ok, 1 failed")
	assert.Contains(t, out, "task 4")
	assert.Len(t, h.svc.Copies(), 1)

	_, rest, found := strings.Cut(out, "(run ")
	require.True(t, found, out)
	runID, _, _ := strings.Cut(rest, ")")

	require.Equal(t, Success, h.run("history", "--limit", "1"))
	assert.Contains(t, h.out.String(), "retry_failed")

	require.Equal(t, Success, h.run("history", "--run", runID))
	assert.Contains(t, h.out.String(), "task name does not describe a copy")
}

func TestClear(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, Success, h.run("clear", "copy"))
	assert.Equal(t, 1, h.svc.ClearCalls)
	assert.Contains(t, h.out.String(), "0 left")
}

func TestClearFailureIsBackendError(t *testing.T) {
	h := newHarness(t)
	h.svc.ClearErr = &taskapi.APIError{Op: "clear copy", Code: 500, Message: "boom"}
	assert.Equal(t, BackendError, h.run("clear", "copy"))
}

func TestWatchPollsUntilDeadline(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, Success, h.run("watch", "copy", "--for", "80ms"))
	assert.GreaterOrEqual(t, h.svc.Calls(), 2)
	assert.Contains(t, h.out.String(), "copy: 1 running")
}

func TestReportWritesPDF(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, Success, h.run("report"))
	path := strings.TrimSpace(h.out.String())
	assert.Equal(t, filepath.Join(h.dir, "reports", "taskwatch_report_20260301_100000.pdf"), path)
	_, err := os.Stat(path)
	require.NoError(t, err)
	// two types, both halves
	assert.Equal(t, 4, h.svc.Calls())
}

func TestRootRunsDashboard(t *testing.T) {
	h := newHarness(t)
	var ran tea.Model
	h.app.runTUI = func(_ context.Context, m tea.Model) error {
		ran = m
		return nil
	}
	require.Equal(t, Success, h.run())
	_, ok := ran.(tui.Model)
	assert.True(t, ok)
	_, err := os.Stat(filepath.Join(h.dir, "data", config.LogFileName))
	assert.NoError(t, err)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, Success},
		{"unauthorized", &taskapi.OpError{Op: "delete", Err: taskapi.ErrUnauthorized}, AuthError},
		{"api", &taskapi.APIError{Op: "list", Code: 500}, BackendError},
		{"transport", &taskapi.OpError{Op: "list", Err: errors.New("connection refused")}, BackendError},
		{"bulk", &tasks.BulkError{Action: "retry_failed", Failed: 1, Total: 2, Err: errors.New("x")}, BackendError},
		{"unavailable", tasks.ErrActionUnavailable, UserError},
		{"plain", errors.New(`unknown command "x"`), UserError},
		{"explicit", NewCLIError(AuthError, "bad config", "", nil), AuthError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExitCode(tc.err))
		})
	}
}
