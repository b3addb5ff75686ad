// Package ipc implements the wire protocol for the query/command surface
// spec §6 describes: JSON-encoded request/response pairs, each query
// translating to one reactor event with a reply channel. The frame
// envelope (frame.go) is adapted from the teacher's protocol.go; the
// Request/Response shapes below are new, taken straight from spec §6's
// recognised-request list.
package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/riftwm/riftwm/internal/model"
)

// RequestKind enumerates the recognised IPC requests (spec §6).
type RequestKind string

const (
	ReqSubscribe              RequestKind = "Subscribe"
	ReqUnsubscribe            RequestKind = "Unsubscribe"
	ReqSubscribeCli           RequestKind = "SubscribeCli"
	ReqUnsubscribeCli         RequestKind = "UnsubscribeCli"
	ReqListCliSubscriptions   RequestKind = "ListCliSubscriptions"
	ReqGetWorkspaces          RequestKind = "GetWorkspaces"
	ReqGetDisplays            RequestKind = "GetDisplays"
	ReqGetWindows             RequestKind = "GetWindows"
	ReqGetWindowInfo          RequestKind = "GetWindowInfo"
	ReqGetLayoutState         RequestKind = "GetLayoutState"
	ReqGetApplications        RequestKind = "GetApplications"
	ReqGetMetrics             RequestKind = "GetMetrics"
	ReqGetConfig              RequestKind = "GetConfig"
	ReqExecuteCommand         RequestKind = "ExecuteCommand"
)

// Request is the tagged union of every recognised IPC request. Only the
// fields relevant to Kind are populated; this flat-struct-plus-Kind
// shape (rather than a Go interface per variant) keeps JSON
// (de)serialization a single, schema-stable `json.Unmarshal` call, which
// matters for a wire format external tooling also needs to parse.
type Request struct {
	Kind RequestKind `json:"kind"`

	Event   string `json:"event,omitempty"`
	Command string `json:"command,omitempty"`
	Args    []string `json:"args,omitempty"`

	SpaceID    *model.SpaceID `json:"space_id,omitempty"`
	WindowID   *model.WindowID `json:"window_id,omitempty"`
}

// Response is Success{data} or Error{error} (spec §6).
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func Ok(data any) Response { return Response{Success: true, Data: data} }

func Fail(err error) Response {
	if err == nil {
		return Response{Success: true}
	}
	return Response{Success: false, Error: err.Error()}
}

// ErrUnknownRequestKind is returned by Decode when the JSON payload's
// "kind" field does not match any RequestKind above.
var ErrUnknownRequestKind = fmt.Errorf("ipc: unknown request kind")

// Decode parses a JSON request payload, validating the Kind discriminant.
func Decode(payload []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return Request{}, fmt.Errorf("ipc: decode request: %w", err)
	}
	switch req.Kind {
	case ReqSubscribe, ReqUnsubscribe, ReqSubscribeCli, ReqUnsubscribeCli,
		ReqListCliSubscriptions, ReqGetWorkspaces, ReqGetDisplays, ReqGetWindows,
		ReqGetWindowInfo, ReqGetLayoutState, ReqGetApplications, ReqGetMetrics,
		ReqGetConfig, ReqExecuteCommand:
		return req, nil
	default:
		return Request{}, fmt.Errorf("%w: %q", ErrUnknownRequestKind, req.Kind)
	}
}

// Encode serializes a Response to JSON.
func Encode(resp Response) ([]byte, error) {
	return json.Marshal(resp)
}
