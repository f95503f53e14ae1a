package protocol

import "errors"

var (
	// ErrFrameTooShort means the datagram is too small to contain the
	// declared header or channel data. The frame is dropped whole; no
	// partial relay writes happen.
	ErrFrameTooShort = errors.New("frame too short")

	// ErrHeaderMismatch means the magic, opcode, protocol version or
	// universe did not match. The datagram belongs to someone else.
	ErrHeaderMismatch = errors.New("header mismatch")
)
