package protocol

// SACNPort is the E1.31 UDP port. The socket itself belongs to the
// external streaming receiver; this package only maps its decoded
// property values onto relays.
const SACNPort = 5568

// SACNChannels maps an E1.31 property-value array onto relay channel
// bytes. propertyValues[0] is the DMX start code; indices 1..K are DMX
// channels 1..K. startChannel is the 1-based DMX channel of relay 0.
// Mapping stops at the end of the universe: short universes are expected,
// not an error, and unreaped relays keep their previous state.
func SACNChannels(propertyValues []byte, startChannel uint16, relayCount int) []byte {
	values := make([]byte, 0, relayCount)
	for i := 0; i < relayCount; i++ {
		ch := int(startChannel) + i
		if ch >= len(propertyValues) {
			break
		}
		values = append(values, propertyValues[ch])
	}
	return values
}
