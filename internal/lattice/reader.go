package lattice

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Eyevinn/emfield-tools/common"
)

const readBufferSize = 1000 * common.RecordSize

// Reader decodes frames from a stream as they are sealed. Records are always
// read whole, short reads from the underlying reader are buffered.
type Reader struct {
	rd     *bufio.Reader
	dec    *Decoder
	opts   DecodeOptions
	offset int64
	err    error
	buf    [common.RecordSize]byte
}

// NewReader reads the header from r and returns a Reader positioned at the
// first record.
func NewReader(r io.Reader, opts DecodeOptions) (*Reader, error) {
	rd := bufio.NewReaderSize(r, readBufferSize)
	h, err := ReadHeader(rd)
	if err != nil {
		return nil, err
	}
	return &Reader{
		rd:     rd,
		dec:    NewDecoder(h),
		opts:   opts,
		offset: common.HeaderSize,
	}, nil
}

func (r *Reader) Header() Header {
	return r.dec.Header()
}

// Next returns the next sealed frame, or io.EOF once the stream is cleanly
// exhausted. Any other error is terminal and returned by later calls too.
func (r *Reader) Next() (Frame, error) {
	if r.err != nil {
		return Frame{}, r.err
	}
	for {
		n, err := io.ReadFull(r.rd, r.buf[:])
		switch {
		case err == io.EOF:
			return r.finish()
		case err == io.ErrUnexpectedEOF:
			r.err = &TruncatedRecordError{Offset: r.offset, Remaining: n}
			return Frame{}, r.err
		case err != nil:
			r.err = fmt.Errorf("reading record at offset %d: %w", r.offset, err)
			return Frame{}, r.err
		}
		r.offset += common.RecordSize
		if f, ok := r.dec.Apply(parseRecord(r.buf[:])); ok {
			return f, nil
		}
	}
}

func (r *Reader) finish() (Frame, error) {
	r.err = io.EOF
	f, ok, err := r.dec.finish(r.opts)
	if err != nil {
		r.err = err
		return Frame{}, err
	}
	if ok {
		return f, nil
	}
	return Frame{}, io.EOF
}

// ReadAll drains r. Like Decode, it returns the frames sealed before an error.
func ReadAll(r io.Reader, opts DecodeOptions) (Header, []Frame, error) {
	fr, err := NewReader(r, opts)
	if err != nil {
		return Header{}, nil, err
	}
	var frames []Frame
	for {
		f, err := fr.Next()
		if err == io.EOF {
			return fr.Header(), frames, nil
		}
		if err != nil {
			return fr.Header(), frames, err
		}
		frames = append(frames, f)
	}
}
