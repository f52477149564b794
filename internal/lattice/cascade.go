package lattice

import (
	"github.com/Eyevinn/emfield-tools/common"
	"gonum.org/v1/gonum/spatial/r3"
)

// cursor is the part of the decoder state driven by delimiters: the target
// field, the lattice position and a pending frame seal.
type cursor struct {
	field   common.Field
	pos     r3.Vec
	spacing float64
	seal    bool
}

// transition is one rung of the delimiter cascade.
type transition struct {
	threshold uint8
	name      string
	apply     func(c *cursor)
}

// cascade is evaluated top-down and every rung at or below the delimiter
// fires, so a higher delimiter always includes the effects of the lower ones.
var cascade = []transition{
	{DelimToggle, "toggle field", func(c *cursor) {
		c.field = c.field.Toggle()
	}},
	{DelimNextX, "advance x", func(c *cursor) {
		c.pos.X += c.spacing
	}},
	{DelimNextRow, "wrap x, advance y", func(c *cursor) {
		c.pos.X = 0
		c.pos.Y += c.spacing
	}},
	{DelimNextPlane, "wrap y, advance z", func(c *cursor) {
		c.pos.Y = 0
		c.pos.Z += c.spacing
	}},
	{DelimFrameEnd, "seal frame", func(c *cursor) {
		c.seal = true
	}},
}

// advance applies all transitions triggered by delim.
func (c *cursor) advance(delim uint8) {
	for _, t := range cascade {
		if delim < t.threshold {
			continue
		}
		t.apply(c)
	}
}
