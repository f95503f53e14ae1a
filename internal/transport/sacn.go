package transport

import (
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"

	"github.com/Hundemeier/go-sacn/sacn"
)

// sacnQueueDepth matches the reference deployment's E1.31 queue size.
const sacnQueueDepth = 10

// SACNSource wraps the external E1.31 streaming receiver. The receiver
// owns the multicast socket, sequence checking and priority arbitration;
// this wrapper buffers its change callbacks into a queue the dispatcher
// drains each tick.
type SACNSource struct {
	socket   *sacn.ReceiverSocket
	universe uint16
	logger   *slog.Logger
	frames   chan []byte
	dropped  atomic.Uint64
}

// NewSACNSource joins the multicast group for universe and starts
// queueing property-value frames. ifi may be nil on hosts where the OS
// picks the multicast interface.
func NewSACNSource(bind string, universe uint16, ifi *net.Interface, logger *slog.Logger) (*SACNSource, error) {
	socket, err := sacn.NewReceiverSocket(bind, ifi)
	if err != nil {
		return nil, fmt.Errorf("failed to open sACN receiver: %w", err)
	}

	s := &SACNSource{
		socket:   socket,
		universe: universe,
		logger:   logger,
		frames:   make(chan []byte, sacnQueueDepth),
	}

	socket.SetOnChangeCallback(func(old sacn.DataPacket, newest sacn.DataPacket) {
		if newest.Universe() != universe {
			return
		}
		s.enqueue(newest)
	})
	socket.SetTimeoutCallback(func(univ uint16) {
		logger.Warn("sACN universe timed out", slog.Int("universe", int(univ)))
	})
	socket.JoinUniverse(universe)

	logger.Info("sACN receiver joined universe",
		slog.Int("universe", int(universe)),
	)
	return s, nil
}

// enqueue rebuilds the property-value array (start code first, DMX
// channels after it) and queues it without blocking the receiver's
// callback goroutine. When the queue is full the oldest pending frame is
// dropped in favor of the newer one.
func (s *SACNSource) enqueue(p sacn.DataPacket) {
	data := p.Data()
	values := make([]byte, 0, len(data)+1)
	values = append(values, p.DmxStartCode())
	values = append(values, data...)

	for {
		select {
		case s.frames <- values:
			return
		default:
		}
		select {
		case <-s.frames:
			s.dropped.Add(1)
			s.logger.Warn("sACN queue full, dropping oldest frame",
				slog.Int("universe", int(s.universe)),
			)
		default:
		}
	}
}

// Pull returns the next queued property-value frame, or ok=false when the
// queue is empty. Never blocks.
func (s *SACNSource) Pull() (values []byte, ok bool) {
	select {
	case values = <-s.frames:
		return values, true
	default:
		return nil, false
	}
}

// Pending returns the current queue depth.
func (s *SACNSource) Pending() int {
	return len(s.frames)
}

// Dropped returns how many frames were discarded to make room for newer ones.
func (s *SACNSource) Dropped() uint64 {
	return s.dropped.Load()
}

// Close leaves the universe and shuts the receiver socket down.
func (s *SACNSource) Close() {
	s.socket.LeaveUniverse(s.universe)
	s.socket.Close()
}
