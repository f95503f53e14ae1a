package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the relay controller.
type Metrics struct {
	// Frame metrics, labeled by protocol (artnet, sacn, ddp)
	FramesDecoded *prometheus.CounterVec
	FramesDropped *prometheus.CounterVec

	// DDP length clamps (non-fatal)
	FramesClamped prometheus.Counter

	// Relay state
	RelayState *prometheus.GaugeVec

	// Watchdog
	WatchdogStale prometheus.Gauge
	FrameCounter  prometheus.Counter

	// sACN queue
	SACNQueueDepth prometheus.Gauge

	// Discovery
	DiscoveryProbes  prometheus.Counter
	DiscoveryReplies prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		FramesDecoded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "relayctl_frames_decoded_total",
			Help: "Total number of successfully decoded frames",
		}, []string{"protocol"}),
		FramesDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "relayctl_frames_dropped_total",
			Help: "Total number of malformed or mismatched frames dropped",
		}, []string{"protocol"}),
		FramesClamped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relayctl_ddp_frames_clamped_total",
			Help: "Total number of DDP frames whose declared length was clamped",
		}),
		RelayState: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "relayctl_relay_state",
			Help: "Current logical relay state (1 = on)",
		}, []string{"relay"}),
		WatchdogStale: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "relayctl_watchdog_stale",
			Help: "1 when no valid frame has arrived within the watchdog timeout",
		}),
		FrameCounter: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relayctl_activity_counter_total",
			Help: "Monotonic count of decoded frames across all protocols",
		}),
		SACNQueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "relayctl_sacn_queue_depth",
			Help: "Pending frames in the sACN receive queue",
		}),
		DiscoveryProbes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relayctl_discovery_probes_total",
			Help: "Total number of discovery probes received",
		}),
		DiscoveryReplies: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relayctl_discovery_replies_total",
			Help: "Total number of discovery descriptor replies sent",
		}),
	}
}

// RecordFrameDecoded counts one decoded frame for a protocol and advances
// the activity counter.
func (m *Metrics) RecordFrameDecoded(protocol string) {
	m.FramesDecoded.WithLabelValues(protocol).Inc()
	m.FrameCounter.Inc()
}

// RecordFrameDropped counts one dropped frame for a protocol.
func (m *Metrics) RecordFrameDropped(protocol string) {
	m.FramesDropped.WithLabelValues(protocol).Inc()
}

// RecordClamp counts one DDP length clamp.
func (m *Metrics) RecordClamp() {
	m.FramesClamped.Inc()
}

// SetRelayState mirrors one relay's logical state.
func (m *Metrics) SetRelayState(index int, on bool) {
	v := 0.0
	if on {
		v = 1.0
	}
	m.RelayState.WithLabelValues(strconv.Itoa(index)).Set(v)
}

// SetStale mirrors the watchdog status.
func (m *Metrics) SetStale(stale bool) {
	if stale {
		m.WatchdogStale.Set(1)
	} else {
		m.WatchdogStale.Set(0)
	}
}

// SetSACNQueueDepth mirrors the sACN queue depth.
func (m *Metrics) SetSACNQueueDepth(depth int) {
	m.SACNQueueDepth.Set(float64(depth))
}

// RecordDiscoveryProbe counts one inbound probe.
func (m *Metrics) RecordDiscoveryProbe() {
	m.DiscoveryProbes.Inc()
}

// RecordDiscoveryReply counts one descriptor reply.
func (m *Metrics) RecordDiscoveryReply() {
	m.DiscoveryReplies.Inc()
}
