package discovery

// Descriptor is the device description sent back to discovery probes.
// The field names are the wire contract: xLights and FPP look these up
// verbatim, so the device reports itself as an ESPixelStick.
type Descriptor struct {
	Type     string `json:"type"`
	Vendor   string `json:"vendor"`
	Model    string `json:"model"`
	Variant  string `json:"variant"`
	Version  string `json:"version"`
	Name     string `json:"name"`
	Hostname string `json:"hostname"`
	Addr     string `json:"addr"`

	Protocols ProtocolSupport `json:"protocols"`
	Outputs   []Output        `json:"outputs"`
}

// ProtocolSupport advertises which inbound protocols the device decodes.
type ProtocolSupport struct {
	E131   bool `json:"e131"`
	ArtNet bool `json:"artnet"`
	DDP    bool `json:"ddp"`
}

// Output describes one logical output block.
type Output struct {
	Type          string `json:"type"`
	ChannelStart  uint16 `json:"channel_start"`
	ChannelCount  int    `json:"channel_count"`
	Universe      uint16 `json:"universe"`
	UniverseCount int    `json:"universe_count"`
}

// NewDescriptor builds the fixed-shape descriptor for this device. All
// three protocols are always advertised and the single output block
// mirrors the relay binding.
func NewDescriptor(hostname, addr, version string, universe, startChannel uint16, relayCount int) Descriptor {
	return Descriptor{
		Type:     "ESPixelStick",
		Vendor:   "ESPixelStick",
		Model:    "ESPixelStick-4.x",
		Variant:  "ESP32",
		Version:  version,
		Name:     hostname,
		Hostname: hostname,
		Addr:     addr,
		Protocols: ProtocolSupport{
			E131:   true,
			ArtNet: true,
			DDP:    true,
		},
		Outputs: []Output{
			{
				Type:          "DDP",
				ChannelStart:  startChannel,
				ChannelCount:  relayCount,
				Universe:      universe,
				UniverseCount: 1,
			},
		},
	}
}
