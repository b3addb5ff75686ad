package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/riftwm/riftwm/internal/lifecycle"
)

// sidecarDaemonManager starts riftd by locating a sibling binary next
// to riftctl's own executable, the same lookup the teacher's
// handleServerOnly (cmd/texelation/main.go) uses to find texel-server:
// a sibling in the same directory, falling back to ./bin/<name>, erroring
// if neither exists. The teacher's lifecycle.standardDaemonManager.Start
// can't be reused for riftctl directly — it re-execs os.Executable(),
// which would relaunch riftctl itself rather than riftd — so Start and
// Restart are overridden here while GetState/GetPID/Stop, which never
// touch os.Executable, delegate straight through to it.
type sidecarDaemonManager struct {
	inner   lifecycle.DaemonManager
	pidFile lifecycle.PIDFile
}

func newSidecarDaemonManager(pidFile lifecycle.PIDFile, socketPath string, health lifecycle.HealthChecker) lifecycle.DaemonManager {
	return &sidecarDaemonManager{inner: lifecycle.NewDaemonManager(pidFile, socketPath, health), pidFile: pidFile}
}

func (d *sidecarDaemonManager) GetState(ctx context.Context) (lifecycle.DaemonState, error) {
	return d.inner.GetState(ctx)
}

func (d *sidecarDaemonManager) GetPID() int { return d.inner.GetPID() }

func (d *sidecarDaemonManager) Stop(ctx context.Context) error { return d.inner.Stop(ctx) }

func (d *sidecarDaemonManager) Start(ctx context.Context, opts lifecycle.ServerOptions) error {
	if d.pidFile.IsProcessRunning() {
		return fmt.Errorf("riftd already running (PID %d)", d.GetPID())
	}

	bin, err := findRiftd()
	if err != nil {
		return err
	}

	args := []string{"--socket", opts.SocketPath}
	if opts.SnapshotPath != "" {
		args = append(args, "--snapshot", opts.SnapshotPath)
	}
	if opts.ConfigPath != "" {
		args = append(args, "--config", opts.ConfigPath)
	}
	if opts.FromScratch {
		args = append(args, "--from-scratch")
	}
	if opts.VerboseLogs {
		args = append(args, "--verbose")
	}

	var logFile *os.File
	if opts.LogFilePath != "" {
		logFile, err = os.OpenFile(opts.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
	}

	cmd := exec.Command(bin, args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.Stdin = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("fork riftd: %w", err)
	}
	pid := cmd.Process.Pid
	if err := d.pidFile.Write(pid); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("write PID file: %w", err)
	}
	if err := cmd.Process.Release(); err != nil {
		return fmt.Errorf("release process: %w", err)
	}
	return nil
}

func (d *sidecarDaemonManager) Restart(ctx context.Context, opts lifecycle.ServerOptions) error {
	if err := d.inner.Stop(ctx); err != nil {
		return err
	}
	return d.Start(ctx, opts)
}

// findRiftd resolves the riftd binary relative to riftctl's own
// executable path: a sibling file first, then ./bin/riftd, erroring with
// both locations named if neither is found.
func findRiftd() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve riftctl executable path: %w", err)
	}
	sibling := filepath.Join(filepath.Dir(exe), "riftd")
	if info, err := os.Stat(sibling); err == nil && !info.IsDir() {
		return sibling, nil
	}
	fallback := filepath.Join(".", "bin", "riftd")
	if info, err := os.Stat(fallback); err == nil && !info.IsDir() {
		return fallback, nil
	}
	return "", fmt.Errorf("riftd binary not found (looked in %s and %s)", sibling, fallback)
}
