// Package dispatch drives the per-tick receive cycle: recompute the
// watchdog, then poll the three protocol sources in strict priority order
// (Art-Net, then the sACN queue, then DDP) and write decoded channel data
// into the relay table.
package dispatch
