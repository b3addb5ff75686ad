package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/riftwm/riftwm/internal/ipc"
)

// client is riftctl's unix-socket round trip: dial, write one frame,
// read one frame back. internal/ipc.AwaitReply is a reply-timeout
// helper for the daemon's own in-process reply channel, not a socket
// client, so this is new, grounded on the grid-cli example's own
// internal/client connection pattern (dial, write request, read one
// response) adapted to riftwm's binary frame envelope instead of that
// example's JSON-lines transport.
type client struct {
	conn      net.Conn
	sessionID uuid.UUID
	seq       uint64
}

func dial(socketPath string, timeout time.Duration) (*client, error) {
	conn, err := net.DialTimeout("unix", socketPath, timeout)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", socketPath, err)
	}
	return &client{conn: conn, sessionID: ipc.NewSessionID()}, nil
}

func (c *client) Close() error {
	return c.conn.Close()
}

// Send writes one request frame and blocks for the matching response
// frame, bounded by ctx.
func (c *client) Send(ctx context.Context, req ipc.Request) (ipc.Response, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetDeadline(deadline)
	}

	payload, err := ipc.Encode(req)
	if err != nil {
		return ipc.Response{}, fmt.Errorf("encode request: %w", err)
	}
	c.seq++
	hdr := ipc.Header{Version: ipc.Version, Flags: ipc.FlagChecksum, SessionID: c.sessionID, Sequence: c.seq}
	if err := ipc.WriteFrame(c.conn, hdr, payload); err != nil {
		return ipc.Response{}, fmt.Errorf("write request frame: %w", err)
	}

	_, respPayload, err := ipc.ReadFrame(c.conn)
	if err != nil {
		return ipc.Response{}, fmt.Errorf("read response frame: %w", err)
	}

	var resp ipc.Response
	if err := json.Unmarshal(respPayload, &resp); err != nil {
		return ipc.Response{}, fmt.Errorf("decode response: %w", err)
	}
	return resp, nil
}
