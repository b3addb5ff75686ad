package ipc

import (
	"context"
	"fmt"
	"time"
)

// ReplyTimeout is the bounded wait spec §5 mandates for IPC callers: "IPC
// callers block on the reply with a bounded timeout (5s); exceeding it
// returns a timeout error without affecting the reactor."
const ReplyTimeout = 5 * time.Second

// ErrReplyTimeout is returned by AwaitReply when no reply arrives within
// ReplyTimeout.
var ErrReplyTimeout = fmt.Errorf("ipc: reply timed out after %s", ReplyTimeout)

// AwaitReply blocks on reply (the one-shot channel a query handler
// replies through) for at most ReplyTimeout. Timing out never cancels
// or otherwise touches the reactor's own processing of the request — the
// reactor simply has no listener left for the late reply.
func AwaitReply(ctx context.Context, reply <-chan Response) (Response, error) {
	timer := time.NewTimer(ReplyTimeout)
	defer timer.Stop()

	select {
	case resp := <-reply:
		return resp, nil
	case <-timer.C:
		return Response{}, ErrReplyTimeout
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}
