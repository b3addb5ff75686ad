package ipc

import (
	"testing"

	"github.com/riftwm/riftwm/internal/model"
)

func TestDecodeGetWindowInfoRoundTrips(t *testing.T) {
	w := model.WindowID{Pid: 7, Index: 2}
	payload, err := Encode(Ok(w))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	_ = payload

	raw := []byte(`{"kind":"GetWindowInfo","window_id":{"Pid":7,"Index":2}}`)
	req, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if req.Kind != ReqGetWindowInfo || req.WindowID == nil || *req.WindowID != w {
		t.Fatalf("expected decoded request to carry window id %v, got %+v", w, req)
	}
}

func TestDecodeUnknownKindFails(t *testing.T) {
	_, err := Decode([]byte(`{"kind":"DoSomethingUnrecognised"}`))
	if err == nil {
		t.Fatal("expected an error for an unrecognised request kind")
	}
}

func TestEncodeSuccessAndFailureResponses(t *testing.T) {
	ok, err := Encode(Ok("hello"))
	if err != nil || len(ok) == 0 {
		t.Fatalf("expected a non-empty success encoding, err=%v", err)
	}

	failResp := Fail(errTest)
	if failResp.Success {
		t.Fatal("expected Fail() to report Success=false")
	}
	if failResp.Error != errTest.Error() {
		t.Fatalf("expected error message to round-trip, got %q", failResp.Error)
	}
}

var errTest = fmtError("boom")

type fmtError string

func (e fmtError) Error() string { return string(e) }
