//go:build !windows

package supervisor

import (
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuangxunian/claude-code-router/internal/registry"
)

func newTestSupervisor(t *testing.T) (*Supervisor, *registry.Registry) {
	t.Helper()
	reg := registry.New(t.TempDir())
	return New(reg, ""), reg
}

// spawnSleeper starts a short-lived helper process the tests can probe and
// signal. It is cleaned up on test exit.
func spawnSleeper(t *testing.T) int {
	t.Helper()
	cmd := exec.Command("sleep", "60")
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	})
	return cmd.Process.Pid
}

func TestIsRunningNoRecord(t *testing.T) {
	sup, _ := newTestSupervisor(t)
	assert.False(t, sup.IsRunning())
}

func TestIsRunningLivePID(t *testing.T) {
	sup, reg := newTestSupervisor(t)
	require.NoError(t, reg.WritePID(os.Getpid()))
	assert.True(t, sup.IsRunning())
}

func TestIsRunningDeadPID(t *testing.T) {
	sup, reg := newTestSupervisor(t)

	cmd := exec.Command("sleep", "0.01")
	require.NoError(t, cmd.Start())
	pid := cmd.Process.Pid
	require.NoError(t, cmd.Wait())

	require.NoError(t, reg.WritePID(pid))
	assert.False(t, sup.IsRunning())

	// The stale record is left for the caller; IsRunning itself never cleans.
	_, err := reg.ReadPID()
	assert.NoError(t, err)
}

func TestIsRunningMalformedRecord(t *testing.T) {
	dir := t.TempDir()
	reg := registry.New(dir)
	sup := New(reg, "")

	require.NoError(t, os.WriteFile(reg.PIDFile(), []byte("garbage"), 0o644))
	assert.False(t, sup.IsRunning())
}

func TestWaitUntilReadyTimesOut(t *testing.T) {
	sup, _ := newTestSupervisor(t)

	start := time.Now()
	ok := sup.WaitUntilReady(context.Background(), 500*time.Millisecond, 0)
	elapsed := time.Since(start)

	assert.False(t, ok)
	assert.Less(t, elapsed, 2*time.Second, "timeout must be bounded")
	assert.GreaterOrEqual(t, elapsed, 500*time.Millisecond)
}

func TestWaitUntilReadyAlreadyLive(t *testing.T) {
	sup, reg := newTestSupervisor(t)
	require.NoError(t, reg.WritePID(os.Getpid()))

	ok := sup.WaitUntilReady(context.Background(), 2*time.Second, 0)
	assert.True(t, ok)
}

func TestWaitUntilReadyBecomesLive(t *testing.T) {
	sup, reg := newTestSupervisor(t)

	go func() {
		time.Sleep(250 * time.Millisecond)
		_ = reg.WritePID(os.Getpid())
	}()

	ok := sup.WaitUntilReady(context.Background(), 3*time.Second, 0)
	assert.True(t, ok)
}

func TestWaitUntilReadyCanceled(t *testing.T) {
	sup, _ := newTestSupervisor(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sup.WaitUntilReady(ctx, time.Minute, time.Second))
}

func TestStartSpawnsAndRecordsPID(t *testing.T) {
	sup, reg := newTestSupervisor(t)
	// Stand in for the real binary; the child exits on its own right away.
	sleepPath, err := exec.LookPath("sleep")
	require.NoError(t, err)
	sup.exe = sleepPath

	pid, err := sup.Start()
	require.NoError(t, err)
	assert.Greater(t, pid, 0)

	recorded, err := reg.ReadPID()
	require.NoError(t, err)
	assert.Equal(t, pid, recorded)
}

func TestStartSpawnFailure(t *testing.T) {
	sup, reg := newTestSupervisor(t)
	sup.exe = "/nonexistent/ccr-binary"

	_, err := sup.Start()
	require.Error(t, err)

	// A failed spawn must not leave a pid record behind.
	_, err = reg.ReadPID()
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestStartDetached(t *testing.T) {
	sup, reg := newTestSupervisor(t)
	sleepPath, err := exec.LookPath("sleep")
	require.NoError(t, err)
	sup.exe = sleepPath

	require.NoError(t, sup.StartDetached())

	// The detached child owns the pid bookkeeping, not this call.
	_, err = reg.ReadPID()
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestStartDetachedSpawnFailure(t *testing.T) {
	sup, _ := newTestSupervisor(t)
	sup.exe = "/nonexistent/ccr-binary"
	assert.Error(t, sup.StartDetached())
}

func TestStopSignalsAndCleans(t *testing.T) {
	sup, reg := newTestSupervisor(t)
	pid := spawnSleeper(t)
	require.NoError(t, reg.WritePID(pid))
	require.NoError(t, os.WriteFile(reg.RefCountFile(), []byte("2"), 0o644))

	stopped := sup.Stop()
	assert.True(t, stopped)

	_, err := reg.ReadPID()
	assert.ErrorIs(t, err, registry.ErrNotFound)
	_, err = os.Stat(reg.RefCountFile())
	assert.True(t, os.IsNotExist(err))
}

func TestStopIsIdempotent(t *testing.T) {
	sup, reg := newTestSupervisor(t)
	pid := spawnSleeper(t)
	require.NoError(t, reg.WritePID(pid))

	assert.True(t, sup.Stop())
	// Second stop finds nothing to signal but still succeeds quietly.
	assert.False(t, sup.Stop())

	_, err := reg.ReadPID()
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestStopCleansStaleRecord(t *testing.T) {
	sup, reg := newTestSupervisor(t)

	cmd := exec.Command("sleep", "0.01")
	require.NoError(t, cmd.Start())
	pid := cmd.Process.Pid
	require.NoError(t, cmd.Wait())

	require.NoError(t, reg.WritePID(pid))
	stopped := sup.Stop()
	assert.False(t, stopped)

	// Cleanup ran even though the signal failed.
	_, err := reg.ReadPID()
	assert.ErrorIs(t, err, registry.ErrNotFound)
}
