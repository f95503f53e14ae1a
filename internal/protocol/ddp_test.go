package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// buildDDP assembles a DDP datagram with the given header offset, declared
// data length and payload bytes.
func buildDDP(t *testing.T, offset uint32, dataLen uint16, payload []byte) []byte {
	t.Helper()

	buf := make([]byte, 10+len(payload))
	binary.BigEndian.PutUint32(buf[2:6], offset)
	binary.BigEndian.PutUint16(buf[6:8], dataLen)
	copy(buf[10:], payload)
	return buf
}

func TestParseDDP(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		expectError bool
		errorIs     error
		offset      uint32
		dataLen     uint16
		clamped     bool
	}{
		{
			name:    "offset 0 dataLen 8",
			data:    buildDDP(t, 0, 8, []byte{0, 255, 0, 255, 0, 255, 0, 255}),
			offset:  0,
			dataLen: 8,
		},
		{
			name:    "declared length clamped down",
			data:    buildDDP(t, 0, 100, []byte{1, 2, 3, 4}),
			offset:  0,
			dataLen: 4,
			clamped: true,
		},
		{
			name:    "declared length smaller than payload never grows",
			data:    buildDDP(t, 0, 2, []byte{1, 2, 3, 4}),
			offset:  0,
			dataLen: 2,
		},
		{
			name:    "nonzero offset preserved",
			data:    buildDDP(t, 3, 8, []byte{1, 2, 3, 4, 5, 6, 7, 8}),
			offset:  3,
			dataLen: 8,
		},
		{
			name:        "header only",
			data:        make([]byte, 10),
			expectError: true,
			errorIs:     ErrFrameTooShort,
		},
		{
			name:        "shorter than header",
			data:        []byte{0, 0, 0},
			expectError: true,
			errorIs:     ErrFrameTooShort,
		},
		{
			name:        "empty datagram",
			data:        nil,
			expectError: true,
			errorIs:     ErrFrameTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := ParseDDP(tt.data)

			if tt.expectError {
				if err == nil {
					t.Fatalf("Expected error but got none")
				}
				if tt.errorIs != nil && !errors.Is(err, tt.errorIs) {
					t.Errorf("Expected error %v, got %v", tt.errorIs, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Expected no error but got: %v", err)
			}
			if frame.Offset != tt.offset {
				t.Errorf("Offset = %d, expected %d", frame.Offset, tt.offset)
			}
			if frame.DataLen != tt.dataLen {
				t.Errorf("DataLen = %d, expected %d", frame.DataLen, tt.dataLen)
			}
			if frame.Clamped != tt.clamped {
				t.Errorf("Clamped = %v, expected %v", frame.Clamped, tt.clamped)
			}
			if len(frame.Payload) != int(tt.dataLen) {
				t.Errorf("len(Payload) = %d, expected %d", len(frame.Payload), tt.dataLen)
			}
		})
	}
}

func TestDDPChannels(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		relayCount int
		expected   []byte
	}{
		{
			name:       "full eight channels",
			data:       buildDDP(t, 0, 8, []byte{0, 255, 0, 255, 0, 255, 0, 255}),
			relayCount: 8,
			expected:   []byte{0, 255, 0, 255, 0, 255, 0, 255},
		},
		{
			name:       "offset shifts stream index",
			data:       buildDDP(t, 2, 6, []byte{10, 20, 30, 40, 50, 60}),
			relayCount: 8,
			// relay i reads stream channel 2+i; stops once 2+i >= 6
			expected: []byte{30, 40, 50, 60},
		},
		{
			name:       "offset beyond payload yields nothing",
			data:       buildDDP(t, 100, 8, []byte{1, 2, 3, 4, 5, 6, 7, 8}),
			relayCount: 8,
			expected:   []byte{},
		},
		{
			name:       "clamped length bounds extraction",
			data:       buildDDP(t, 0, 100, []byte{128, 0, 128}),
			relayCount: 8,
			expected:   []byte{128, 0, 128},
		},
		{
			name:       "relay count limits extraction",
			data:       buildDDP(t, 0, 8, []byte{1, 2, 3, 4, 5, 6, 7, 8}),
			relayCount: 3,
			expected:   []byte{1, 2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := ParseDDP(tt.data)
			if err != nil {
				t.Fatalf("ParseDDP failed: %v", err)
			}
			got := frame.Channels(tt.relayCount)
			if !bytes.Equal(got, tt.expected) {
				t.Errorf("Channels(%d) = %v, expected %v", tt.relayCount, got, tt.expected)
			}
		})
	}
}
