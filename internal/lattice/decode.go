package lattice

import (
	"github.com/Eyevinn/emfield-tools/common"
)

type DecodeOptions struct {
	// SealTail treats the end of the stream as a frame delimiter instead of
	// reporting ErrUnsealedFrame.
	SealTail bool
}

// Decode decodes a fully buffered stream. On error, the frames sealed before
// the failure are returned together with it.
func Decode(data []byte, opts DecodeOptions) (Header, []Frame, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return Header{}, nil, err
	}
	d := NewDecoder(h)
	body := data[common.HeaderSize:]
	var frames []Frame
	for off := 0; off < len(body); off += common.RecordSize {
		if rem := len(body) - off; rem < common.RecordSize {
			return h, frames, &TruncatedRecordError{Offset: int64(common.HeaderSize + off), Remaining: rem}
		}
		if f, ok := d.Apply(parseRecord(body[off:])); ok {
			frames = append(frames, f)
		}
	}
	f, ok, err := d.finish(opts)
	if err != nil {
		return h, frames, err
	}
	if ok {
		frames = append(frames, f)
	}
	return h, frames, nil
}
