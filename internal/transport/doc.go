// Package transport provides the non-blocking datagram sources the
// dispatcher polls each tick: raw UDP sockets for Art-Net and DDP, and a
// queue in front of the external sACN streaming receiver.
package transport
