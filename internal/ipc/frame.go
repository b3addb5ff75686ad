// Frame envelope for the IPC transport. Adapted from the teacher's
// protocol.go wire framing (protocol/protocol.go): a fixed binary header
// (magic, version, session id, sequence, payload length, checksum)
// followed by a payload. The teacher's payload is its own binary pane
// protocol; here the payload is a JSON-encoded Request/Response (spec
// §6), and SessionID is a github.com/google/uuid identity rather than an
// opaque 16-byte handle — the two are the same width, so uuid.UUID drops
// straight into the header's SessionID field.
package ipc

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"

	"github.com/google/uuid"
)

const (
	magic      uint32 = 0x52465457 // "RFTW"
	headerSize        = 4 + 1 + 1 + 16 + 8 + 4 + 4 // magic+version+flags+session+seq+len+checksum
)

const FlagChecksum uint8 = 0x01

// Version is the negotiated IPC protocol version implemented here.
const Version uint8 = 0

// Header mirrors protocol.Header's shape, minus the teacher's pane
// MessageType (IPC requests carry their own Kind inside the JSON
// payload instead of a wire-level enum).
type Header struct {
	Version    uint8
	Flags      uint8
	SessionID  uuid.UUID
	Sequence   uint64
	PayloadLen uint32
	Checksum   uint32
}

var (
	ErrInvalidMagic     = errors.New("ipc: invalid magic")
	ErrUnsupportedVer   = errors.New("ipc: unsupported version")
	ErrShortPayload     = errors.New("ipc: payload shorter than declared length")
	ErrChecksumMismatch = errors.New("ipc: checksum mismatch")
)

// WriteFrame serializes hdr and payload to w, computing the checksum
// when FlagChecksum is set.
func WriteFrame(w io.Writer, hdr Header, payload []byte) error {
	buf := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(buf[0:4], magic)
	buf[4] = hdr.Version
	buf[5] = hdr.Flags
	copy(buf[6:22], hdr.SessionID[:])
	binary.LittleEndian.PutUint64(buf[22:30], hdr.Sequence)
	binary.LittleEndian.PutUint32(buf[30:34], uint32(len(payload)))

	checksum := hdr.Checksum
	if hdr.Flags&FlagChecksum != 0 {
		crc := crc32.NewIEEE()
		_, _ = crc.Write(buf[4:34])
		if len(payload) > 0 {
			_, _ = crc.Write(payload)
		}
		checksum = crc.Sum32()
	}
	binary.LittleEndian.PutUint32(buf[34:38], checksum)

	if _, err := w.Write(buf); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	_, err := w.Write(payload)
	return err
}

// ReadFrame reads one header + payload from r.
func ReadFrame(r io.Reader) (Header, []byte, error) {
	var hdr Header
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return hdr, nil, err
	}

	if binary.LittleEndian.Uint32(buf[0:4]) != magic {
		return hdr, nil, ErrInvalidMagic
	}
	hdr.Version = buf[4]
	hdr.Flags = buf[5]
	copy(hdr.SessionID[:], buf[6:22])
	hdr.Sequence = binary.LittleEndian.Uint64(buf[22:30])
	hdr.PayloadLen = binary.LittleEndian.Uint32(buf[30:34])
	hdr.Checksum = binary.LittleEndian.Uint32(buf[34:38])

	if hdr.Version != Version {
		return hdr, nil, ErrUnsupportedVer
	}

	payload := make([]byte, hdr.PayloadLen)
	if hdr.PayloadLen > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return hdr, nil, ErrShortPayload
			}
			return hdr, nil, err
		}
	}

	if hdr.Flags&FlagChecksum != 0 {
		crc := crc32.NewIEEE()
		_, _ = crc.Write(buf[4:34])
		if len(payload) > 0 {
			_, _ = crc.Write(payload)
		}
		if crc.Sum32() != hdr.Checksum {
			return hdr, nil, ErrChecksumMismatch
		}
	}

	return hdr, payload, nil
}

// NewSessionID mints a fresh connection/session identity.
func NewSessionID() uuid.UUID {
	return uuid.New()
}
