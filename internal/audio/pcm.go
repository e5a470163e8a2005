package audio

import "encoding/binary"

func clampPCM(v float32) int16 {
	if v >= 1 {
		return 32767
	}
	if v <= -1 {
		return -32768
	}
	return int16(v * 32767)
}

// ToInt16 converts normalized float32 samples to signed 16-bit PCM.
func ToInt16(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		out[i] = clampPCM(s)
	}
	return out
}

// ToLinear16 encodes samples as little-endian LINEAR16 bytes.
func ToLinear16(samples []float32) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(clampPCM(s)))
	}
	return buf
}
