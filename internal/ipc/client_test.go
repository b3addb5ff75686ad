package ipc

import (
	"context"
	"errors"
	"testing"
)

func TestAwaitReplyReturnsReplyWhenSentBeforeTimeout(t *testing.T) {
	reply := make(chan Response, 1)
	reply <- Ok("done")

	resp, err := AwaitReply(context.Background(), reply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success || resp.Data != "done" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAwaitReplyRespectsContextCancellation(t *testing.T) {
	reply := make(chan Response)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := AwaitReply(ctx, reply)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
