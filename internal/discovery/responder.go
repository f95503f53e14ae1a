// Package discovery answers xLights/FPP discovery probes with a device
// descriptor. Any datagram on the discovery port counts as a probe; the
// payload is never inspected.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"
)

// Port is the FPP/xLights discovery UDP port.
const Port = 32320

// Counter receives probe/reply events. Satisfied by *metrics.Metrics;
// may be nil.
type Counter interface {
	RecordDiscoveryProbe()
	RecordDiscoveryReply()
}

// Responder listens for discovery probes and replies with the descriptor.
type Responder struct {
	conn       *net.UDPConn
	descriptor Descriptor
	logger     *slog.Logger
	counter    Counter

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewResponder opens the discovery socket on bindAddr:port. Production
// deployments use Port; tests may pass 0 for an ephemeral port.
func NewResponder(bindAddr string, port int, descriptor Descriptor, logger *slog.Logger, counter Counter) (*Responder, error) {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", bindAddr, port))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve discovery address: %w", err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on discovery port %d: %w", port, err)
	}
	return &Responder{
		conn:       conn,
		descriptor: descriptor,
		logger:     logger,
		counter:    counter,
	}, nil
}

// Start launches the probe loop.
func (r *Responder) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.wg.Add(1)
	go r.probeLoop(ctx)

	r.logger.Info("discovery responder started",
		slog.String("address", r.conn.LocalAddr().String()),
	)
}

// Stop shuts the responder down and waits for the loop to exit.
func (r *Responder) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.conn.Close()
	r.wg.Wait()
	r.logger.Info("discovery responder stopped")
}

func (r *Responder) probeLoop(ctx context.Context) {
	defer r.wg.Done()

	buf := make([]byte, 512)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := r.conn.SetReadDeadline(time.Now().Add(1 * time.Second)); err != nil {
			r.logger.Error("failed to set discovery read deadline", slog.String("error", err.Error()))
			return
		}

		n, remoteAddr, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			select {
			case <-ctx.Done():
				return
			default:
				r.logger.Error("discovery read failed", slog.String("error", err.Error()))
				continue
			}
		}

		if r.counter != nil {
			r.counter.RecordDiscoveryProbe()
		}
		r.logger.Debug("discovery probe received",
			slog.String("remote_addr", remoteAddr.String()),
			slog.Int("packet_size", n),
		)
		r.reply(remoteAddr)
	}
}

// reply sends the descriptor back to the prober.
func (r *Responder) reply(remoteAddr *net.UDPAddr) {
	payload, err := json.Marshal(r.descriptor)
	if err != nil {
		r.logger.Error("failed to encode descriptor", slog.String("error", err.Error()))
		return
	}
	if _, err := r.conn.WriteToUDP(payload, remoteAddr); err != nil {
		r.logger.Warn("failed to send discovery reply",
			slog.String("remote_addr", remoteAddr.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	if r.counter != nil {
		r.counter.RecordDiscoveryReply()
	}
}
