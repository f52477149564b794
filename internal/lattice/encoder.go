package lattice

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Eyevinn/emfield-tools/common"
	"gonum.org/v1/gonum/spatial/r3"
)

// Grid is a dense lattice of E and B values, stored x fastest, then y, then z.
type Grid struct {
	NX, NY, NZ int
	E          []r3.Vec
	B          []r3.Vec
}

func NewGrid(nx, ny, nz int) *Grid {
	n := nx * ny * nz
	return &Grid{NX: nx, NY: ny, NZ: nz, E: make([]r3.Vec, n), B: make([]r3.Vec, n)}
}

func (g *Grid) Index(x, y, z int) int {
	return (z*g.NY+y)*g.NX + x
}

func (g *Grid) Set(x, y, z int, e, b r3.Vec) {
	i := g.Index(x, y, z)
	g.E[i] = e
	g.B[i] = b
}

// nodeDelimiter closes the B triple of node (x, y, z).
func (g *Grid) nodeDelimiter(x, y, z int) uint8 {
	lastX := x == g.NX-1
	lastY := y == g.NY-1
	switch {
	case lastX && lastY && z == g.NZ-1:
		return DelimFrameEnd
	case lastX && lastY:
		return DelimNextPlane
	case lastX:
		return DelimNextRow
	}
	return DelimNextX
}

// Encoder writes a lattice stream. Output is buffered; call Flush when done.
type Encoder struct {
	w       *bufio.Writer
	buf     []byte
	records int64
	err     error
}

// NewEncoder writes the header to w.
func NewEncoder(w io.Writer, h Header) (*Encoder, error) {
	e := &Encoder{w: bufio.NewWriter(w), buf: make([]byte, 0, common.RecordSize)}
	hdr, _ := h.MarshalBinary()
	if _, err := e.w.Write(hdr); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	return e, nil
}

func (e *Encoder) WriteRecord(r Record) error {
	if e.err != nil {
		return e.err
	}
	e.buf = r.appendTo(e.buf[:0])
	if _, err := e.w.Write(e.buf); err != nil {
		e.err = fmt.Errorf("writing record %d: %w", e.records, err)
		return e.err
	}
	e.records++
	return nil
}

// WriteGrid writes every node of g as one frame: the E triple with
// delimiters 0, 0, 1 followed by the B triple whose last delimiter moves to
// the next node, row, plane or frame.
func (e *Encoder) WriteGrid(g *Grid) error {
	if g.NX <= 0 || g.NY <= 0 || g.NZ <= 0 {
		return fmt.Errorf("empty grid %dx%dx%d", g.NX, g.NY, g.NZ)
	}
	for z := 0; z < g.NZ; z++ {
		for y := 0; y < g.NY; y++ {
			for x := 0; x < g.NX; x++ {
				i := g.Index(x, y, z)
				e.writeTriple(g.E[i], DelimToggle)
				e.writeTriple(g.B[i], g.nodeDelimiter(x, y, z))
			}
		}
	}
	return e.err
}

func (e *Encoder) writeTriple(v r3.Vec, last uint8) {
	_ = e.WriteRecord(Record{Value: float32(v.X), Delimiter: DelimNone})
	_ = e.WriteRecord(Record{Value: float32(v.Y), Delimiter: DelimNone})
	_ = e.WriteRecord(Record{Value: float32(v.Z), Delimiter: last})
}

// Records is the number of records written so far.
func (e *Encoder) Records() int64 {
	return e.records
}

func (e *Encoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}
