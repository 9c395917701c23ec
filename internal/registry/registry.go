// Package registry persists the service's process-id record and the
// advisory reference-count record. It is pure storage: every read goes back
// to disk, nothing is cached, and a missing or garbled record is reported as
// ErrNotFound rather than failing the caller.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"
)

// ErrNotFound is returned when no pid record exists or its content does not
// parse as a pid. Both cases mean the same thing to callers: no service is
// registered.
var ErrNotFound = errors.New("registry: pid record not found")

const (
	pidFileName      = "ccr.pid"
	refCountFileName = "ccr.refcount"
)

// Registry reads and writes the persisted records under a single directory.
type Registry struct {
	dir string
}

// New returns a Registry rooted at dir. The directory is created lazily on
// the first write.
func New(dir string) *Registry {
	return &Registry{dir: dir}
}

// PIDFile returns the path of the pid record.
func (r *Registry) PIDFile() string {
	return filepath.Join(r.dir, pidFileName)
}

// RefCountFile returns the path of the reference-count record.
func (r *Registry) RefCountFile() string {
	return filepath.Join(r.dir, refCountFileName)
}

// WritePID persists pid, replacing any prior record. The write is atomic so
// a concurrent reader never observes a partially written file.
func (r *Registry) WritePID(pid int) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create registry dir: %w", err)
	}
	if err := renameio.WriteFile(r.PIDFile(), []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return fmt.Errorf("write pid record: %w", err)
	}
	return nil
}

// ReadPID returns the recorded pid. Absent and malformed records both yield
// ErrNotFound; the stored pid may be stale, which is for the caller to probe.
func (r *Registry) ReadPID() (int, error) {
	b, err := os.ReadFile(r.PIDFile())
	if err != nil {
		return 0, ErrNotFound
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil || pid <= 0 {
		return 0, ErrNotFound
	}
	return pid, nil
}

// ClearPID deletes the pid record. Deleting an absent record succeeds.
func (r *Registry) ClearPID() error {
	if err := os.Remove(r.PIDFile()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear pid record: %w", err)
	}
	return nil
}

// ClearReferenceCount deletes the reference-count record. Best effort: the
// counter is advisory and its cleanup never fails the stop flow.
func (r *Registry) ClearReferenceCount() {
	_ = os.Remove(r.RefCountFile())
}
