package ipc

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestWriteReadFrameRoundTrip(t *testing.T) {
	session := uuid.New()
	hdr := Header{Version: Version, Flags: FlagChecksum, Sequence: 42, SessionID: session}
	payload := []byte(`{"kind":"GetWorkspaces"}`)

	buf := &bytes.Buffer{}
	if err := WriteFrame(buf, hdr, payload); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, gotPayload, err := ReadFrame(buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got.Sequence != hdr.Sequence || got.SessionID != hdr.SessionID {
		t.Fatalf("header mismatch: %+v vs %+v", got, hdr)
	}
	if !bytes.Equal(gotPayload, payload) {
		t.Fatalf("payload mismatch: %q vs %q", gotPayload, payload)
	}
}

func TestReadFrameInvalidMagic(t *testing.T) {
	data := make([]byte, headerSize)
	if _, _, err := ReadFrame(bytes.NewReader(data)); !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("expected ErrInvalidMagic, got %v", err)
	}
}

func TestReadFrameChecksumMismatch(t *testing.T) {
	hdr := Header{Version: Version, Flags: FlagChecksum, SessionID: uuid.New()}
	payload := []byte("ping")
	buf := &bytes.Buffer{}
	if err := WriteFrame(buf, hdr, payload); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	raw := buf.Bytes()
	raw[len(raw)-1] ^= 0xFF

	if _, _, err := ReadFrame(bytes.NewReader(raw)); !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("expected checksum mismatch, got %v", err)
	}
}

func TestReadFrameUnsupportedVersion(t *testing.T) {
	hdr := Header{Version: Version, SessionID: uuid.New()}
	buf := &bytes.Buffer{}
	if err := WriteFrame(buf, hdr, nil); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data := buf.Bytes()
	data[4] = Version + 1

	if _, _, err := ReadFrame(bytes.NewReader(data)); !errors.Is(err, ErrUnsupportedVer) {
		t.Fatalf("expected unsupported version, got %v", err)
	}
}

func TestReadFrameShortPayload(t *testing.T) {
	hdr := Header{Version: Version, Flags: FlagChecksum, SessionID: uuid.New()}
	payload := []byte("payload")
	buf := &bytes.Buffer{}
	if err := WriteFrame(buf, hdr, payload); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	truncated := buf.Bytes()[:headerSize+2]
	if _, _, err := ReadFrame(bytes.NewReader(truncated)); !errors.Is(err, ErrShortPayload) {
		t.Fatalf("expected short payload error, got %v", err)
	}
}
