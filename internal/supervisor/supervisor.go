// Package supervisor starts, probes, and stops the detached router service.
// Readiness is inferred from process liveness (the recorded pid answers a
// zero-effect signal) rather than an application-level health check; a fixed
// settle delay papers over the gap between "alive" and "accepting requests".
package supervisor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/shuangxunian/claude-code-router/internal/registry"
)

const (
	pollInterval = 100 * time.Millisecond
	settleDelay  = 500 * time.Millisecond
)

// Supervisor owns the service lifecycle: spawn detached, probe liveness,
// signal termination, and keep the registry records in sync.
type Supervisor struct {
	reg    *registry.Registry
	logDir string

	// exe overrides the spawned executable; empty means this binary.
	exe string
}

// New returns a Supervisor backed by reg. Service stdout/stderr goes to a
// log file under logDir; empty logDir discards service output.
func New(reg *registry.Registry, logDir string) *Supervisor {
	return &Supervisor{reg: reg, logDir: logDir}
}

// IsRunning reports whether the recorded service process is alive. A missing
// record, a malformed record, and a dead pid all read as "not running";
// probing a nonexistent process is an expected outcome, never an error. The
// stale record, if any, is left in place for the caller to clean up.
func (s *Supervisor) IsRunning() bool {
	pid, err := s.reg.ReadPID()
	if err != nil {
		return false
	}
	return pidAlive(pid)
}

// Start spawns the service as a fully detached process running this binary's
// serve command, records its pid, and returns the pid without waiting. It
// does not confirm readiness; callers that need the service pair this with
// WaitUntilReady.
func (s *Supervisor) Start() (int, error) {
	pid, err := s.spawnDetached("serve")
	if err != nil {
		return 0, err
	}
	if err := s.reg.WritePID(pid); err != nil {
		return 0, err
	}
	return pid, nil
}

// StartDetached re-invokes this binary's own start command as a detached
// process. The child performs the actual spawn and pid bookkeeping, so the
// caller can go straight into a readiness wait.
func (s *Supervisor) StartDetached() error {
	_, err := s.spawnDetached("start")
	return err
}

func (s *Supervisor) spawnDetached(args ...string) (int, error) {
	executable := s.exe
	if executable == "" {
		var err error
		executable, err = os.Executable()
		if err != nil {
			return 0, fmt.Errorf("failed to get executable path: %w", err)
		}
	}

	// #nosec 204
	cmd := exec.Command(executable, args...)
	configureDetachAttrs(cmd)
	cmd.Stdin = nil

	if s.logDir != "" {
		if err := os.MkdirAll(s.logDir, 0o755); err == nil {
			logPath := filepath.Join(s.logDir, "ccr.out.log")
			// #nosec 304
			if logF, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
				cmd.Stdout = logF
				cmd.Stderr = logF
				defer func() { _ = logF.Close() }()
			}
		}
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start service process: %w", err)
	}

	pid := cmd.Process.Pid
	// Detach: the service outlives this invocation and is never reaped here.
	_ = cmd.Process.Release()
	return pid, nil
}

// WaitUntilReady polls liveness every 100ms until the service is up or
// timeout elapses. The initial delay runs unconditionally so a freshly
// spawned process gets a chance to register before the first probe. Returns
// false on timeout or context cancellation.
func (s *Supervisor) WaitUntilReady(ctx context.Context, timeout, initialDelay time.Duration) bool {
	if !sleepCtx(ctx, initialDelay) {
		return false
	}

	deadline := time.Now().Add(timeout)
	for {
		if s.IsRunning() {
			// Alive is not yet accepting; give it a moment.
			sleepCtx(ctx, settleDelay)
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		if !sleepCtx(ctx, pollInterval) {
			return false
		}
	}
}

// Stop sends a termination signal to the recorded pid, then unconditionally
// clears the pid and reference-count records. The returned bool reports
// whether the signal landed on a live process; cleanup runs either way so a
// dead service never leaves a stale record behind.
func (s *Supervisor) Stop() bool {
	stopped := false
	if pid, err := s.reg.ReadPID(); err == nil {
		if err := terminate(pid); err == nil {
			stopped = true
		}
	}

	// Cleanup is best effort and must always run after the signal attempt.
	_ = s.reg.ClearPID()
	s.reg.ClearReferenceCount()
	return stopped
}

// sleepCtx sleeps for d unless ctx is canceled first; reports whether the
// full duration elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
