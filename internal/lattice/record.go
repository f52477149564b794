package lattice

import (
	"encoding/binary"
	"math"

	"github.com/Eyevinn/emfield-tools/common"
)

const (
	DelimNone      uint8 = 0
	DelimToggle    uint8 = 1
	DelimNextX     uint8 = 2
	DelimNextRow   uint8 = 3
	DelimNextPlane uint8 = 4
	DelimFrameEnd  uint8 = common.MaxDelimiter
)

// Record is one scalar component followed by its control byte.
type Record struct {
	Value     float32
	Delimiter uint8
}

// parseRecord expects at least common.RecordSize bytes.
func parseRecord(b []byte) Record {
	return Record{
		Value:     math.Float32frombits(binary.LittleEndian.Uint32(b[0:4])),
		Delimiter: b[4],
	}
}

func (r Record) appendTo(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(r.Value))
	return append(dst, r.Delimiter)
}

func (r Record) MarshalBinary() ([]byte, error) {
	return r.appendTo(make([]byte, 0, common.RecordSize)), nil
}
