package transport

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// ErrUnavailable means the transport could not deliver a readable buffer.
// The dispatcher treats it like any other per-datagram failure: log, skip,
// move on.
var ErrUnavailable = errors.New("transport unavailable")

// maxDatagram bounds a single read. Matches the reference controller's
// receive buffer.
const maxDatagram = 640

// UDPSource is a poll-driven UDP listener. Poll never blocks: it either
// returns one pending datagram or reports that nothing is waiting.
type UDPSource struct {
	conn *net.UDPConn
	buf  []byte
}

// ListenUDP opens a UDP socket on bindAddr:port for polling.
func ListenUDP(bindAddr string, port int) (*UDPSource, error) {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", bindAddr, port))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve UDP address: %w", err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on UDP port %d: %w", port, err)
	}
	return &UDPSource{
		conn: conn,
		buf:  make([]byte, maxDatagram),
	}, nil
}

// Poll checks for one pending datagram. Returns (nil, nil) when nothing is
// waiting. The returned slice is valid until the next Poll call.
func (s *UDPSource) Poll() ([]byte, error) {
	if err := s.conn.SetReadDeadline(time.Now()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	n, _, err := s.conn.ReadFromUDP(s.buf)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return s.buf[:n], nil
}

// LocalAddr returns the bound address.
func (s *UDPSource) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

// Close releases the socket.
func (s *UDPSource) Close() error {
	return s.conn.Close()
}
