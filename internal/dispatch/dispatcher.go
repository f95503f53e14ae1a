package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/noman1228/RelayCtlr/internal/protocol"
	"github.com/noman1228/RelayCtlr/internal/relay"
	"github.com/noman1228/RelayCtlr/internal/watchdog"
)

// Protocol labels used in logs and metrics.
const (
	ProtocolArtNet = "artnet"
	ProtocolSACN   = "sacn"
	ProtocolDDP    = "ddp"
)

// Source is a non-blocking datagram transport. Poll returns (nil, nil)
// when no datagram is pending.
type Source interface {
	Poll() ([]byte, error)
}

// Queue is the buffered feed from the external sACN streaming receiver.
type Queue interface {
	Pull() (values []byte, ok bool)
	Pending() int
}

// Observer receives dispatch events. Satisfied by *metrics.Metrics; may
// be nil.
type Observer interface {
	RecordFrameDecoded(protocol string)
	RecordFrameDropped(protocol string)
	RecordClamp()
	SetRelayState(index int, on bool)
	SetStale(stale bool)
	SetSACNQueueDepth(depth int)
}

// Config holds the universe binding the dispatcher decodes against.
type Config struct {
	Universe     uint16
	Subnet       uint8
	StartChannel uint16 // 1-based DMX channel of relay 0
	TickInterval time.Duration
}

// Dispatcher is the single writer of the relay table. One Tick handles at
// most one Art-Net datagram, or the whole pending sACN queue, or one DDP
// datagram, in that priority order.
type Dispatcher struct {
	cfg    Config
	table  *relay.Table
	dog    *watchdog.Watchdog
	artnet Source
	sacn   Queue
	ddp    Source
	logger *slog.Logger
	obs    Observer
}

// New assembles a dispatcher. Any of artnet, sacn, ddp may be nil, in
// which case that source is skipped; obs may be nil.
func New(cfg Config, table *relay.Table, dog *watchdog.Watchdog,
	artnet Source, sacn Queue, ddp Source, logger *slog.Logger, obs Observer) *Dispatcher {

	return &Dispatcher{
		cfg:    cfg,
		table:  table,
		dog:    dog,
		artnet: artnet,
		sacn:   sacn,
		ddp:    ddp,
		logger: logger,
		obs:    obs,
	}
}

// Run drives Tick at the configured interval until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	interval := d.cfg.TickInterval
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	d.logger.Info("dispatcher started",
		slog.Duration("tick_interval", interval),
		slog.Int("relays", d.table.Len()),
		slog.Int("universe", int(d.cfg.Universe)),
		slog.Int("start_channel", int(d.cfg.StartChannel)),
	)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("dispatcher stopped",
				slog.Uint64("frames_decoded", d.dog.Counter()),
			)
			return
		case <-ticker.C:
			d.Tick()
		}
	}
}

// Tick runs one receive cycle. Exported so tests can drive the scheduler
// deterministically.
func (d *Dispatcher) Tick() {
	status := d.dog.Check()
	if d.obs != nil {
		d.obs.SetStale(status == watchdog.Stale)
		if d.sacn != nil {
			d.obs.SetSACNQueueDepth(d.sacn.Pending())
		}
	}

	// Art-Net wins the tick whenever a datagram is pending, parseable or not.
	if d.pollArtNet() {
		return
	}
	// Drain every queued sACN frame; they arrive faster than the poll cadence.
	if d.drainSACN() > 0 {
		return
	}
	d.pollDDP()
}

func (d *Dispatcher) pollArtNet() bool {
	if d.artnet == nil {
		return false
	}
	buf, err := d.artnet.Poll()
	if err != nil {
		d.logger.Error("Art-Net transport failed", slog.String("error", err.Error()))
		return false
	}
	if buf == nil {
		return false
	}

	values, err := protocol.ParseArtNet(buf, protocol.ArtNetConfig{
		Universe: d.cfg.Universe,
		Subnet:   d.cfg.Subnet,
	}, d.table.Len())
	if err != nil {
		d.drop(ProtocolArtNet, len(buf), err)
		return true
	}

	d.apply(ProtocolArtNet, values)
	return true
}

func (d *Dispatcher) drainSACN() int {
	if d.sacn == nil {
		return 0
	}
	processed := 0
	for {
		values, ok := d.sacn.Pull()
		if !ok {
			return processed
		}
		channels := protocol.SACNChannels(values, d.cfg.StartChannel, d.table.Len())
		d.apply(ProtocolSACN, channels)
		processed++
	}
}

func (d *Dispatcher) pollDDP() {
	if d.ddp == nil {
		return
	}
	buf, err := d.ddp.Poll()
	if err != nil {
		d.logger.Error("DDP transport failed", slog.String("error", err.Error()))
		return
	}
	if buf == nil {
		return
	}

	frame, err := protocol.ParseDDP(buf)
	if err != nil {
		d.drop(ProtocolDDP, len(buf), err)
		return
	}
	if frame.Clamped {
		d.logger.Debug("DDP declared length clamped",
			slog.Int("data_len", int(frame.DataLen)),
		)
		if d.obs != nil {
			d.obs.RecordClamp()
		}
	}

	d.apply(ProtocolDDP, frame.Channels(d.table.Len()))
}

// apply decodes channel values into the relay table and advances the
// activity counter. Called once per successfully parsed frame.
func (d *Dispatcher) apply(proto string, values []byte) {
	d.table.ApplyChannels(values)
	d.dog.Mark()

	if d.obs != nil {
		d.obs.RecordFrameDecoded(proto)
		for i, v := range values {
			if i >= d.table.Len() {
				break
			}
			d.obs.SetRelayState(i, relay.DecodeChannel(v))
		}
	}

	d.logger.Debug("frame decoded",
		slog.String("protocol", proto),
		slog.Int("channels", len(values)),
		slog.Uint64("counter", d.dog.Counter()),
	)
}

// drop records a malformed datagram. No relay state changes and the
// activity counter holds still.
func (d *Dispatcher) drop(proto string, size int, err error) {
	if d.obs != nil {
		d.obs.RecordFrameDropped(proto)
	}
	d.logger.Debug("frame dropped",
		slog.String("protocol", proto),
		slog.Int("packet_size", size),
		slog.String("error", err.Error()),
	)
}
