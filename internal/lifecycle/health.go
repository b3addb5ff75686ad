package lifecycle

import (
	"context"
	"fmt"
	"net"
	"time"
)

// HealthChecker verifies the riftd daemon is responsive.
type HealthChecker interface {
	Check(ctx context.Context, socketPath string) error
}

// SocketHealthChecker checks liveness by dialing the IPC socket riftd
// listens on. Accepting the connection is sufficient to prove the
// reactor's event loop is alive and serving ipc.Request frames — a full
// request/reply round trip isn't needed for a liveness probe, matching
// the teacher's own SocketHealthChecker reasoning
// (cmd/texelation/lifecycle/health.go). The teacher's second checker,
// ProtocolHealthChecker, sent an actual ping/pong message over its
// binary protocol package; that package no longer exists here (its
// framing lives in internal/ipc now), and a socket-accept check already
// covers the liveness case this daemon needs, so it isn't reintroduced
// as a request/reply ping — see DESIGN.md.
type SocketHealthChecker struct {
	timeout time.Duration
}

func NewSocketHealthChecker(timeout time.Duration) HealthChecker {
	return &SocketHealthChecker{timeout: timeout}
}

func (h *SocketHealthChecker) Check(ctx context.Context, socketPath string) error {
	deadline := time.Now().Add(h.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	dialer := net.Dialer{Deadline: deadline}
	conn, err := dialer.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return fmt.Errorf("connect to socket: %w", err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}
	return nil
}
