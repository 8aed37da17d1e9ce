package rmp

import "encoding/binary"

// MessageType identifies the two frame kinds on the wire.
type MessageType uint8

const (
	// MessageData carries an application payload awaiting acknowledgement.
	MessageData MessageType = 0x00
	// MessageAck acknowledges a MessageData frame by sequence number.
	MessageAck MessageType = 0x01
)

func (t MessageType) String() string {
	switch t {
	case MessageData:
		return "DATA"
	case MessageAck:
		return "ACK"
	default:
		return "UNKNOWN"
	}
}

// FrameHeaderSize is the fixed 5-byte prefix: a 4-byte sequence number
// followed by a 1-byte message type. Payload length is implicit from
// the size of the datagram carrying the frame.
const FrameHeaderSize = 5

// encode produces the wire bytes for a frame: the 5-byte header
// followed by payload. The sequence number is written in the host's
// native byte order, matching the original C implementation's
// memcpy-the-struct framing — this is an intentional incompatibility
// with cross-platform deployments (see the wire format note in the
// package's design notes) rather than an oversight.
func encode(seq uint32, typ MessageType, payload []byte) []byte {
	buf := make([]byte, FrameHeaderSize+len(payload))
	binary.NativeEndian.PutUint32(buf[0:4], seq)
	buf[4] = byte(typ)
	copy(buf[FrameHeaderSize:], payload)
	return buf
}

// decode splits a received datagram into its header fields and
// payload. It returns ErrShortFrame if the datagram is smaller than
// FrameHeaderSize; the payload slice aliases the input and must be
// copied by the caller before retaining it.
func decode(data []byte) (seq uint32, typ MessageType, payload []byte, err error) {
	if len(data) < FrameHeaderSize {
		return 0, 0, nil, ErrShortFrame
	}
	seq = binary.NativeEndian.Uint32(data[0:4])
	typ = MessageType(data[4])
	payload = data[FrameHeaderSize:]
	return seq, typ, payload, nil
}
