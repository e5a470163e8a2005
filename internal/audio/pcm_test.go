package audio

import (
	"encoding/binary"
	"testing"
)

func TestToInt16_Clamps(t *testing.T) {
	got := ToInt16([]float32{0, 0.5, 1.5, -2, -1})
	want := []int16{0, 16383, 32767, -32768, -32768}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestToLinear16_LittleEndian(t *testing.T) {
	b := ToLinear16([]float32{1, -1})
	if len(b) != 4 {
		t.Fatalf("expected 4 bytes, got %d", len(b))
	}
	if v := int16(binary.LittleEndian.Uint16(b[0:])); v != 32767 {
		t.Fatalf("unexpected first sample: %d", v)
	}
	if v := int16(binary.LittleEndian.Uint16(b[2:])); v != -32768 {
		t.Fatalf("unexpected second sample: %d", v)
	}
}

func TestInputOnly(t *testing.T) {
	devices := InputOnly([]DeviceInfo{
		{Name: "Built-in Microphone", MaxInputChannels: 1},
		{Name: "Speakers", MaxInputChannels: 0},
		{Name: "Zoom Audio", MaxInputChannels: 2},
	})
	if len(devices) != 2 || devices[0].Name != "Built-in Microphone" || devices[1].Name != "Zoom Audio" {
		t.Fatalf("unexpected input devices: %+v", devices)
	}
}
