package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/easeplay/internal/errors"
	"github.com/agbru/easeplay/internal/orchestration"
)

func newApp(t *testing.T, args ...string) (*Application, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	var errBuf bytes.Buffer
	a, err := New(append([]string{"easeplay"}, args...), &errBuf)
	require.NoError(t, err)
	return a, &errBuf
}

func TestNew_Help(t *testing.T) {
	var errBuf bytes.Buffer
	_, err := New([]string{"easeplay", "--help"}, &errBuf)
	require.Error(t, err)
	assert.True(t, IsHelpError(err))
	assert.Contains(t, errBuf.String(), "Usage: easeplay")
}

func TestNew_BadFlag(t *testing.T) {
	var errBuf bytes.Buffer
	_, err := New([]string{"easeplay", "--no-such-flag"}, &errBuf)
	require.Error(t, err)
	var cfgErr apperrors.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
	assert.False(t, IsHelpError(err))
}

func TestRun_Version(t *testing.T) {
	a, _ := newApp(t, "--version")
	var out bytes.Buffer
	assert.Equal(t, apperrors.ExitSuccess, a.Run(context.Background(), &out))
	assert.Contains(t, out.String(), "easeplay ")
}

func TestRun_Completion(t *testing.T) {
	a, _ := newApp(t, "--completion", "bash")
	var out bytes.Buffer
	assert.Equal(t, apperrors.ExitSuccess, a.Run(context.Background(), &out))
	assert.Contains(t, out.String(), "easeplay")

	a, errBuf := newApp(t, "--completion", "tcsh")
	assert.Equal(t, apperrors.ExitErrorConfig, a.Run(context.Background(), &out))
	assert.Contains(t, errBuf.String(), "Error generating completion")
}

func TestRun_InvalidCurve(t *testing.T) {
	a, errBuf := newApp(t, "--accel", "0.7", "--decel", "0.6")
	var out bytes.Buffer
	assert.Equal(t, apperrors.ExitErrorConfig, a.Run(context.Background(), &out))
	assert.Contains(t, errBuf.String(), "Status: Failure.")
	assert.Empty(t, out.String())
}

func TestRun_QuietForward(t *testing.T) {
	a, _ := newApp(t, "--from", "0", "--to", "20", "--duration", "40ms", "-q")
	var out bytes.Buffer
	require.Equal(t, apperrors.ExitSuccess, a.Run(context.Background(), &out))
	assert.Equal(t, "20\n", out.String())
}

func TestRun_QuietReverse(t *testing.T) {
	a, _ := newApp(t, "--from", "5", "--to", "25", "--duration", "40ms", "--reverse", "-q")
	var out bytes.Buffer
	require.Equal(t, apperrors.ExitSuccess, a.Run(context.Background(), &out))
	assert.Equal(t, "5\n", out.String())
}

func TestRun_Degenerate(t *testing.T) {
	a, _ := newApp(t, "--from", "7", "--to", "7", "-q")
	var out bytes.Buffer
	require.Equal(t, apperrors.ExitSuccess, a.Run(context.Background(), &out))
	assert.Equal(t, "7\n", out.String())
}

func TestRun_FullOutput(t *testing.T) {
	a, _ := newApp(t, "--from", "0", "--to", "30", "--duration", "60ms", "--accel", "0.3", "--decel", "0.3", "-v")
	var out bytes.Buffer
	require.Equal(t, apperrors.ExitSuccess, a.Run(context.Background(), &out))

	got := out.String()
	for _, want := range []string{"Playing 0 → 30", "--- Starting Playback ---", "Final value:", "Curve factors"} {
		assert.Contains(t, got, want)
	}
}

func TestRun_Timeout(t *testing.T) {
	a, errBuf := newApp(t, "--to", "1000", "--duration", "10s", "--timeout", "30ms", "-q")
	var out bytes.Buffer
	assert.Equal(t, apperrors.ExitErrorTimeout, a.Run(context.Background(), &out))
	assert.Contains(t, errBuf.String(), "Status: Timeout.")
}

func TestRun_Canceled(t *testing.T) {
	a, _ := newApp(t, "--to", "1000", "--duration", "10s", "-q")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	assert.Equal(t, apperrors.ExitErrorCanceled, a.Run(ctx, &out))
}

func TestRun_WithMetricsServer(t *testing.T) {
	a, errBuf := newApp(t, "--to", "10", "--duration", "30ms", "--metrics-addr", "127.0.0.1:0", "-q")
	var out bytes.Buffer
	require.Equal(t, apperrors.ExitSuccess, a.Run(context.Background(), &out))
	assert.Equal(t, "10\n", out.String())
	assert.Contains(t, errBuf.String(), "metrics server listening")
}

func TestHasVersionFlag(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"--to", "5"}, false},
		{[]string{"--version"}, true},
		{[]string{"-q", "-V"}, true},
		{[]string{"--", "--version"}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HasVersionFlag(tt.args), strings.Join(tt.args, " "))
	}
}

func TestPrintVersion(t *testing.T) {
	var out bytes.Buffer
	PrintVersion(&out)
	assert.Contains(t, out.String(), "commit:")
	assert.Contains(t, out.String(), "go:")
}

func TestRun_UnknownTheme(t *testing.T) {
	a, errBuf := newApp(t, "--theme", "neon")
	a.Config.NoColor = false
	t.Setenv("NO_COLOR", "")
	os.Unsetenv("NO_COLOR")
	var out bytes.Buffer
	assert.Equal(t, apperrors.ExitErrorConfig, a.Run(context.Background(), &out))
	assert.Contains(t, errBuf.String(), "unknown theme")
}

func TestRun_JSONLogs(t *testing.T) {
	a, errBuf := newApp(t, "--to", "10", "--duration", "20ms", "--log-format", "json", "-q")
	var out bytes.Buffer
	require.Equal(t, apperrors.ExitSuccess, a.Run(context.Background(), &out))
	assert.Contains(t, errBuf.String(), `"message":"playback complete"`)
	assert.Contains(t, errBuf.String(), `"final":10`)
}

func TestRun_UnknownLogFormat(t *testing.T) {
	a, errBuf := newApp(t, "--log-format", "xml")
	var out bytes.Buffer
	assert.Equal(t, apperrors.ExitErrorConfig, a.Run(context.Background(), &out))
	assert.Contains(t, errBuf.String(), "unknown log format")
}

// scaledClock runs speed times faster than real time.
type scaledClock struct {
	origin time.Time
	speed  int64
}

func (c scaledClock) Now() int64       { return int64(time.Since(c.origin)) * c.speed }
func (c scaledClock) Frequency() int64 { return int64(time.Second) }

func TestRun_WithSessionOptions(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var errBuf bytes.Buffer
	clk := scaledClock{origin: time.Now(), speed: 100}
	a, err := New([]string{"easeplay", "--to", "20", "--duration", "10s", "-q"}, &errBuf,
		WithSessionOptions(orchestration.WithClock(clk)))
	require.NoError(t, err)

	var out bytes.Buffer
	start := time.Now()
	require.Equal(t, apperrors.ExitSuccess, a.Run(context.Background(), &out))
	assert.Equal(t, "20\n", out.String())
	assert.Less(t, time.Since(start), 5*time.Second)
}
