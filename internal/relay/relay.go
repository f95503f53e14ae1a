package relay

import (
	"fmt"
	"sync"
)

// MaxRelays is the compile-time upper bound on the relay count.
const MaxRelays = 16

// DecodeChannel maps a raw channel value to a logical relay state.
// Every protocol path must go through this single threshold rule.
func DecodeChannel(value byte) bool {
	return value > 127
}

// Table is the fixed-size logical relay state table. It is created once
// at startup with all relays off and is never resized. Exactly one
// goroutine writes to it; readers take snapshots.
type Table struct {
	mu     sync.RWMutex
	states []bool
}

// NewTable creates a table with n relays, all off.
func NewTable(n int) (*Table, error) {
	if n < 1 || n > MaxRelays {
		return nil, fmt.Errorf("relay count must be between 1 and %d, got %d", MaxRelays, n)
	}
	return &Table{states: make([]bool, n)}, nil
}

// Len returns the number of relays in the table.
func (t *Table) Len() int {
	return len(t.states)
}

// Set writes the logical state of relay index. Out-of-range indices are
// ignored, matching the reference controller's unmapped-relay behavior.
func (t *Table) Set(index int, on bool) {
	if index < 0 || index >= len(t.states) {
		return
	}
	t.mu.Lock()
	t.states[index] = on
	t.mu.Unlock()
}

// SetAll writes every relay to the same state.
func (t *Table) SetAll(on bool) {
	t.mu.Lock()
	for i := range t.states {
		t.states[i] = on
	}
	t.mu.Unlock()
}

// Get returns the logical state of relay index, false if out of range.
func (t *Table) Get(index int) bool {
	if index < 0 || index >= len(t.states) {
		return false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.states[index]
}

// Snapshot returns a copy of all relay states.
func (t *Table) Snapshot() []bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]bool, len(t.states))
	copy(out, t.states)
	return out
}

// ApplyChannels decodes len(values) channel bytes into relays [0, len(values)).
// Values beyond the table length are ignored. Relays past the end of values
// keep their previous state.
func (t *Table) ApplyChannels(values []byte) {
	t.mu.Lock()
	for i, v := range values {
		if i >= len(t.states) {
			break
		}
		t.states[i] = DecodeChannel(v)
	}
	t.mu.Unlock()
}
