package relay

import "testing"

func TestDecodeChannel(t *testing.T) {
	// Exhaustive: the threshold rule is the contract.
	for b := 0; b < 256; b++ {
		expected := b > 127
		if DecodeChannel(byte(b)) != expected {
			t.Errorf("DecodeChannel(%d) = %v, expected %v", b, !expected, expected)
		}
	}
}

func TestDecodeChannelBoundary(t *testing.T) {
	if DecodeChannel(127) {
		t.Error("DecodeChannel(127) = true, expected false")
	}
	if !DecodeChannel(128) {
		t.Error("DecodeChannel(128) = false, expected true")
	}
}

func TestNewTable(t *testing.T) {
	tests := []struct {
		name        string
		count       int
		expectError bool
	}{
		{name: "reference deployment size", count: 8, expectError: false},
		{name: "maximum size", count: MaxRelays, expectError: false},
		{name: "single relay", count: 1, expectError: false},
		{name: "zero relays", count: 0, expectError: true},
		{name: "negative count", count: -1, expectError: true},
		{name: "over maximum", count: MaxRelays + 1, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewTable(tt.count)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error but got: %v", err)
			}
			if table.Len() != tt.count {
				t.Errorf("Len() = %d, expected %d", table.Len(), tt.count)
			}
			for i := 0; i < tt.count; i++ {
				if table.Get(i) {
					t.Errorf("relay %d initialized on, expected off", i)
				}
			}
		})
	}
}

func TestTableSetGet(t *testing.T) {
	table, err := NewTable(8)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}

	table.Set(3, true)
	if !table.Get(3) {
		t.Error("Get(3) = false after Set(3, true)")
	}
	if table.Get(2) || table.Get(4) {
		t.Error("neighboring relays changed by Set(3, true)")
	}

	table.Set(3, false)
	if table.Get(3) {
		t.Error("Get(3) = true after Set(3, false)")
	}

	// Out-of-range writes are ignored, not panics.
	table.Set(-1, true)
	table.Set(8, true)
	table.Set(100, true)
	for i := 0; i < 8; i++ {
		if table.Get(i) {
			t.Errorf("relay %d changed by out-of-range Set", i)
		}
	}

	if table.Get(-1) || table.Get(8) {
		t.Error("out-of-range Get should return false")
	}
}

func TestTableSetAll(t *testing.T) {
	table, _ := NewTable(4)
	table.SetAll(true)
	for i := 0; i < 4; i++ {
		if !table.Get(i) {
			t.Errorf("relay %d off after SetAll(true)", i)
		}
	}
	table.SetAll(false)
	for i := 0; i < 4; i++ {
		if table.Get(i) {
			t.Errorf("relay %d on after SetAll(false)", i)
		}
	}
}

func TestTableSnapshot(t *testing.T) {
	table, _ := NewTable(4)
	table.Set(0, true)
	table.Set(2, true)

	snap := table.Snapshot()
	expected := []bool{true, false, true, false}
	for i, want := range expected {
		if snap[i] != want {
			t.Errorf("Snapshot()[%d] = %v, expected %v", i, snap[i], want)
		}
	}

	// Snapshot is a copy, not a view.
	snap[1] = true
	if table.Get(1) {
		t.Error("mutating a snapshot changed table state")
	}
}

func TestTableApplyChannels(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		initial  []bool
		values   []byte
		expected []bool
	}{
		{
			name:     "full width",
			count:    8,
			values:   []byte{200, 0, 255, 0, 0, 0, 0, 0},
			expected: []bool{true, false, true, false, false, false, false, false},
		},
		{
			name:     "short values leave tail unchanged",
			count:    4,
			initial:  []bool{false, false, true, true},
			values:   []byte{255, 255},
			expected: []bool{true, true, true, true},
		},
		{
			name:     "excess values ignored",
			count:    2,
			values:   []byte{255, 0, 255, 255},
			expected: []bool{true, false},
		},
		{
			name:     "empty values are a no-op",
			count:    2,
			initial:  []bool{true, false},
			values:   nil,
			expected: []bool{true, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewTable(tt.count)
			if err != nil {
				t.Fatalf("NewTable failed: %v", err)
			}
			for i, on := range tt.initial {
				table.Set(i, on)
			}
			table.ApplyChannels(tt.values)
			snap := table.Snapshot()
			for i, want := range tt.expected {
				if snap[i] != want {
					t.Errorf("relay %d = %v, expected %v", i, snap[i], want)
				}
			}
		})
	}
}
