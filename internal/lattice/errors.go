package lattice

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedHeader = errors.New("malformed header")
	ErrTruncatedRecord = errors.New("truncated record")
	ErrUnsealedFrame   = errors.New("unsealed frame")
)

// TruncatedRecordError reports 1-4 dangling bytes where a record was expected.
type TruncatedRecordError struct {
	Offset    int64 // stream offset of the partial record
	Remaining int
}

func (e *TruncatedRecordError) Error() string {
	return fmt.Sprintf("%s: %d dangling bytes at offset %d", ErrTruncatedRecord, e.Remaining, e.Offset)
}

func (e *TruncatedRecordError) Is(target error) bool {
	return target == ErrTruncatedRecord
}

// UnsealedFrameError is returned when the stream ends after records that were
// never closed by a frame delimiter. Frame holds what had been accumulated.
type UnsealedFrameError struct {
	Frame   Frame
	Records int
}

func (e *UnsealedFrameError) Error() string {
	return fmt.Sprintf("%s: stream ended %d records into frame %d", ErrUnsealedFrame, e.Records, e.Frame.Index)
}

func (e *UnsealedFrameError) Is(target error) bool {
	return target == ErrUnsealedFrame
}
