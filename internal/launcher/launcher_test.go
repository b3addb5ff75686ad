package launcher

import (
	"bufio"
	"strings"
	"testing"
)

func TestSpawnRunsCommandAndProducesOutput(t *testing.T) {
	l := New([]string{"TERM=xterm-256color"})

	proc, err := l.Spawn(Command{Path: "/bin/echo", Args: []string{"hello-from-launcher"}}, 80, 24)
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}
	defer proc.Close()

	if proc.Pid() == 0 {
		t.Fatal("expected a non-zero pid once spawned")
	}

	scanner := bufio.NewScanner(proc.PTY())
	var output string
	if scanner.Scan() {
		output = scanner.Text()
	}
	if !strings.Contains(output, "hello-from-launcher") {
		t.Fatalf("expected pty output to contain the echoed text, got %q", output)
	}

	if err := proc.Wait(); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	l := New(nil)
	proc, err := l.Spawn(Command{Path: "/bin/sleep", Args: []string{"5"}}, 80, 24)
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}

	if err := proc.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := proc.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got: %v", err)
	}
}
