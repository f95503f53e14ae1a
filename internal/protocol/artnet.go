package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Art-Net constants.
const (
	// ArtNetPort is the well-known Art-Net UDP port (0x1936).
	ArtNetPort = 6454

	// OpDMX is the ArtDMX opcode, transmitted little-endian.
	OpDMX = 0x5000

	// artNetStartAddress is the offset of the first channel byte.
	artNetStartAddress = 18

	// artNetMinVersion is the lowest accepted protocol revision.
	artNetMinVersion = 14
)

var artNetMagic = []byte("Art-Net\x00")

// ArtNetConfig narrows which ArtDMX frames this device answers to.
type ArtNetConfig struct {
	Universe uint16
	Subnet   uint8
}

// ParseArtNet validates an Art-Net datagram against cfg and extracts the
// raw channel bytes for relayCount relays. The returned slice aliases buf
// and must be consumed before the buffer is reused.
//
// Validation failures return ErrHeaderMismatch (wrong magic, opcode,
// version or universe) or ErrFrameTooShort (not enough channel bytes).
// Either way no channel data is returned.
func ParseArtNet(buf []byte, cfg ArtNetConfig, relayCount int) ([]byte, error) {
	if len(buf) < artNetStartAddress {
		return nil, fmt.Errorf("%w: artnet frame is %d bytes, need %d", ErrFrameTooShort, len(buf), artNetStartAddress)
	}
	if !bytes.Equal(buf[0:8], artNetMagic) {
		return nil, fmt.Errorf("%w: bad artnet magic", ErrHeaderMismatch)
	}
	if buf[11] < artNetMinVersion {
		return nil, fmt.Errorf("%w: artnet protocol revision %d below %d", ErrHeaderMismatch, buf[11], artNetMinVersion)
	}
	if opcode := binary.LittleEndian.Uint16(buf[8:10]); opcode != OpDMX {
		return nil, fmt.Errorf("%w: opcode 0x%04x is not ArtDMX", ErrHeaderMismatch, opcode)
	}
	if buf[14]&0x0F != byte(cfg.Universe)&0x0F {
		return nil, fmt.Errorf("%w: universe nibble 0x%x does not match configured 0x%x",
			ErrHeaderMismatch, buf[14]&0x0F, byte(cfg.Universe)&0x0F)
	}
	// Kept bit-for-bit from the deployed controller: the operand is a single
	// byte, so the shift always yields 0 and only subnet 0 ever matches.
	if buf[14]>>8 != cfg.Subnet {
		return nil, fmt.Errorf("%w: subnet mismatch", ErrHeaderMismatch)
	}
	if len(buf) < artNetStartAddress+relayCount {
		return nil, fmt.Errorf("%w: artnet frame is %d bytes, need %d channel bytes",
			ErrFrameTooShort, len(buf), relayCount)
	}
	return buf[artNetStartAddress : artNetStartAddress+relayCount], nil
}
