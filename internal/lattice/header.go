package lattice

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/Eyevinn/emfield-tools/common"
)

// Header is the fixed 8-byte preamble of a lattice stream.
type Header struct {
	LatticeDensity float32
	TimeStep       float32
}

// ParseHeader decodes the header from the first 8 bytes of buf.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < common.HeaderSize {
		return Header{}, fmt.Errorf("%w: need %d bytes, got %d", ErrMalformedHeader, common.HeaderSize, len(buf))
	}
	return Header{
		LatticeDensity: math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4])),
		TimeStep:       math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8])),
	}, nil
}

func ReadHeader(r io.Reader) (Header, error) {
	var buf [common.HeaderSize]byte
	n, err := io.ReadFull(r, buf[:])
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Header{}, fmt.Errorf("%w: need %d bytes, got %d", ErrMalformedHeader, common.HeaderSize, n)
		}
		return Header{}, fmt.Errorf("reading header: %w", err)
	}
	return ParseHeader(buf[:])
}

func (h Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, common.HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(h.LatticeDensity))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(h.TimeStep))
	return buf, nil
}

// Spacing is the distance between neighbouring lattice points. A zero density
// gives an infinite spacing; that is left to the caller.
func (h Header) Spacing() float64 {
	return 1.0 / float64(h.LatticeDensity)
}

func (h Header) FrameTime(nr int) float64 {
	return common.FrameTime(nr, h.TimeStep)
}
