package lattice

import (
	"math"

	"github.com/Eyevinn/emfield-tools/common"
	slices "golang.org/x/exp/slices"
	"gonum.org/v1/gonum/spatial/r3"
)

// Sample is a lattice point whose field value passed the magnitude filter.
type Sample struct {
	Position r3.Vec
	Vector   r3.Vec
}

// Frame is the sparse state of both fields at one time step.
type Frame struct {
	Index int
	Time  float64
	E     []Sample
	B     []Sample
}

// Decoder is the record-by-record state machine. It is not safe for
// concurrent use.
type Decoder struct {
	header    Header
	cur       cursor
	component int
	pendingU  float32
	pendingV  float32
	e         []Sample
	b         []Sample
	records   int
	frames    int
}

func NewDecoder(h Header) *Decoder {
	return &Decoder{
		header: h,
		cur:    cursor{field: common.FieldE, spacing: h.Spacing()},
	}
}

// Apply consumes one record. If the record sealed a frame, the frame is
// returned and ownership of its sample slices passes to the caller.
func (d *Decoder) Apply(r Record) (Frame, bool) {
	d.records++
	switch d.component {
	case 0:
		d.pendingU = r.Value
	case 1:
		d.pendingV = r.Value
	default:
		d.emit(r.Value)
	}
	d.component = (d.component + 1) % 3

	d.cur.advance(r.Delimiter)
	if !d.cur.seal {
		return Frame{}, false
	}
	d.cur.seal = false
	return d.seal(), true
}

// Flush seals the frame under construction if any record has been consumed
// since the last seal.
func (d *Decoder) Flush() (Frame, bool) {
	if d.records == 0 {
		return Frame{}, false
	}
	return d.seal(), true
}

func (d *Decoder) Header() Header { return d.header }

func (d *Decoder) Field() common.Field { return d.cur.field }

func (d *Decoder) Component() int { return d.component }

func (d *Decoder) Position() r3.Vec { return d.cur.pos }

// Pending is the number of records consumed since the last sealed frame.
func (d *Decoder) Pending() int { return d.records }

// Frames is the number of frames sealed so far.
func (d *Decoder) Frames() int { return d.frames }

func (d *Decoder) emit(w float32) {
	if !aboveThreshold(d.pendingU, d.pendingV, w) {
		return
	}
	s := Sample{
		Position: d.cur.pos,
		Vector:   r3.Vec{X: float64(d.pendingU), Y: float64(d.pendingV), Z: float64(w)},
	}
	if d.cur.field == common.FieldE {
		d.e = append(d.e, s)
	} else {
		d.b = append(d.b, s)
	}
}

// aboveThreshold compares the L1 norm strictly, so NaN components never pass.
func aboveThreshold(u, v, w float32) bool {
	sum := math.Abs(float64(u)) + math.Abs(float64(v)) + math.Abs(float64(w))
	return sum > common.MagnitudeThreshold
}

func (d *Decoder) current() Frame {
	return Frame{
		Index: d.frames,
		Time:  d.header.FrameTime(d.frames),
		E:     slices.Clip(d.e),
		B:     slices.Clip(d.b),
	}
}

// seal hands the accumulated samples off. Position is left untouched.
func (d *Decoder) seal() Frame {
	f := d.current()
	d.e, d.b = nil, nil
	d.records = 0
	d.frames++
	return f
}

// finish handles the end of the stream.
func (d *Decoder) finish(opts DecodeOptions) (Frame, bool, error) {
	if d.records == 0 {
		return Frame{}, false, nil
	}
	if opts.SealTail {
		f := d.seal()
		return f, true, nil
	}
	return Frame{}, false, &UnsealedFrameError{Frame: d.current(), Records: d.records}
}
