// Package protocol implements frame validation and channel extraction for
// the three inbound lighting protocols: Art-Net, DDP, and sACN/E1.31.
// Each parser maps a validated frame to the raw channel bytes that drive
// the relay table; the threshold decode itself lives in the relay package.
package protocol
