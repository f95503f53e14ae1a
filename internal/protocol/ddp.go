package protocol

import (
	"encoding/binary"
	"fmt"
)

// DDP constants.
const (
	// DDPPort is the standard DDP UDP port.
	DDPPort = 4048

	// ddpHeaderLen is the fixed DDP header size; channel data follows.
	ddpHeaderLen = 10
)

// DDPFrame is a parsed DDP datagram. Offset is the starting channel index
// into the protocol-wide channel stream; Payload holds DataLen channel
// bytes (one byte per logical channel, no pixel unpacking).
type DDPFrame struct {
	Offset  uint32
	DataLen uint16
	Payload []byte

	// Clamped is set when the declared data length exceeded the datagram
	// and was reduced to fit. Non-fatal.
	Clamped bool
}

// ParseDDP validates a DDP datagram header. The payload slice aliases buf.
// The declared data length is clamped downward (never upward) to the bytes
// actually present.
func ParseDDP(buf []byte) (*DDPFrame, error) {
	if len(buf) <= ddpHeaderLen {
		return nil, fmt.Errorf("%w: ddp frame is %d bytes, need more than %d", ErrFrameTooShort, len(buf), ddpHeaderLen)
	}

	frame := &DDPFrame{
		Offset:  binary.BigEndian.Uint32(buf[2:6]),
		DataLen: binary.BigEndian.Uint16(buf[6:8]),
	}
	if int(frame.DataLen) > len(buf)-ddpHeaderLen {
		frame.DataLen = uint16(len(buf) - ddpHeaderLen)
		frame.Clamped = true
	}
	frame.Payload = buf[ddpHeaderLen : ddpHeaderLen+int(frame.DataLen)]
	return frame, nil
}

// Channels extracts the raw channel bytes for up to relayCount relays.
// Relay i reads stream channel Offset+i; decoding stops at the first
// channel past the declared payload, so later relays keep their previous
// state rather than being forced off.
func (f *DDPFrame) Channels(relayCount int) []byte {
	values := make([]byte, 0, relayCount)
	for i := 0; i < relayCount; i++ {
		chanIndex := f.Offset + uint32(i)
		if chanIndex >= uint32(f.DataLen) {
			break
		}
		values = append(values, f.Payload[chanIndex])
	}
	return values
}
