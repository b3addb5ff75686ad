// Package launcher is the startup-command launcher spec.md §1 lists as an
// external collaborator: it spawns configured startup commands (apps to
// launch automatically once the reactor is up) attached to a pty, the
// same way the teacher spawns its shell app
// (apps/texelterm/term.go's startPTY).
package launcher

import (
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
)

// Command is one configured startup command.
type Command struct {
	Path string
	Args []string
	Dir  string
	Env  []string
}

// Process is a running startup command attached to a pty.
type Process struct {
	cmd *exec.Cmd
	pty *os.File

	mu     sync.Mutex
	closed bool
}

// Launcher spawns Commands. DefaultEnv is appended to every command's
// environment (e.g. TERM=xterm-256color), mirroring the teacher's
// loadShellEnvironment appending TERM/TEXEL_PANE_ID on top of whatever
// the caller supplied.
type Launcher struct {
	DefaultEnv []string
}

func New(defaultEnv []string) *Launcher {
	return &Launcher{DefaultEnv: defaultEnv}
}

// Spawn starts command with the given initial pty size.
func (l *Launcher) Spawn(command Command, cols, rows int) (*Process, error) {
	cmd := exec.Command(command.Path, command.Args...)
	cmd.Dir = command.Dir
	cmd.Env = append(append([]string{}, command.Env...), l.DefaultEnv...)
	if len(cmd.Env) == 0 {
		cmd.Env = os.Environ()
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, fmt.Errorf("launcher: start %s: %w", command.Path, err)
	}
	return &Process{cmd: cmd, pty: ptmx}, nil
}

// Resize notifies the pty of a terminal size change (window resize).
func (p *Process) Resize(cols, rows int) error {
	return pty.Setsize(p.pty, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

// PTY exposes the pty master end for reading output / writing input.
func (p *Process) PTY() *os.File { return p.pty }

// Wait blocks until the command exits.
func (p *Process) Wait() error {
	return p.cmd.Wait()
}

// Close terminates the process and releases the pty, safe to call more
// than once.
func (p *Process) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	return p.pty.Close()
}

// Pid reports the spawned process's pid, or 0 before Spawn completes.
func (p *Process) Pid() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}
