package common

import "bytes"

const (
	HeaderSize = 8
	RecordSize = 5
	// Only triples whose L1 norm is strictly above this are kept.
	MagnitudeThreshold = 0.01
	// Delimiters above MaxDelimiter act exactly like it.
	MaxDelimiter = 5
)

var ZstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

func IsZstd(prefix []byte) bool {
	return bytes.HasPrefix(prefix, ZstdMagic)
}

// FrameTime returns the simulation time of frame nr.
func FrameTime(nr int, timeStep float32) float64 {
	return float64(nr) * float64(timeStep)
}
