// Package lifecycle is riftd's daemon pidfile/health/supervisor
// plumbing, adapted from the teacher's cmd/texelation/lifecycle
// package: the logic is domain-agnostic process supervision, so it
// transfers to a reactor daemon with only the server-specific bits
// (ServerOptions, the health check transport) generalised.
package lifecycle

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// PIDFile manages process ID file operations.
type PIDFile interface {
	Write(pid int) error
	Read() (int, error)
	Remove() error
	Exists() bool
	IsProcessRunning() bool
	Path() string
}

type standardPIDFile struct {
	path string
}

func NewPIDFile(path string) PIDFile {
	return &standardPIDFile{path: path}
}

func (p *standardPIDFile) Path() string {
	return p.path
}

func (p *standardPIDFile) Write(pid int) error {
	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create PID directory: %w", err)
	}
	content := fmt.Sprintf("%d\n", pid)
	if err := os.WriteFile(p.path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("write PID file: %w", err)
	}
	return nil
}

func (p *standardPIDFile) Read() (int, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, err
	}
	pidStr := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		return 0, fmt.Errorf("invalid PID format: %w", err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("invalid PID value: %d", pid)
	}
	return pid, nil
}

func (p *standardPIDFile) Remove() error {
	err := os.Remove(p.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (p *standardPIDFile) Exists() bool {
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *standardPIDFile) IsProcessRunning() bool {
	pid, err := p.Read()
	if err != nil || pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
