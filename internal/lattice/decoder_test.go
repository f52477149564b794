package lattice

import (
	"errors"
	"math"
	"testing"

	"github.com/Eyevinn/emfield-tools/common"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func buildStream(t *testing.T, h Header, recs ...Record) []byte {
	t.Helper()
	buf, err := h.MarshalBinary()
	require.NoError(t, err)
	for _, r := range recs {
		buf = r.appendTo(buf)
	}
	return buf
}

func rec(v float32, d uint8) Record {
	return Record{Value: v, Delimiter: d}
}

func sample(x, y, z, u, v, w float64) Sample {
	return Sample{Position: r3.Vec{X: x, Y: y, Z: z}, Vector: r3.Vec{X: u, Y: v, Z: w}}
}

func TestEndToEndSingleFrame(t *testing.T) {
	h := Header{LatticeDensity: 1, TimeStep: 0.5}
	data := buildStream(t, h, rec(1, 0), rec(1, 0), rec(1, 5))

	gotHeader, frames, err := Decode(data, DecodeOptions{})
	require.NoError(t, err)
	require.Equal(t, h, gotHeader)
	require.Len(t, frames, 1)
	require.Equal(t, 0, frames[0].Index)
	require.Equal(t, 0.0, frames[0].Time)
	require.Equal(t, []Sample{sample(0, 0, 0, 1, 1, 1)}, frames[0].E)
	require.Empty(t, frames[0].B)

	d := NewDecoder(h)
	for _, r := range []Record{rec(1, 0), rec(1, 0)} {
		_, sealed := d.Apply(r)
		require.False(t, sealed)
	}
	_, sealed := d.Apply(rec(1, 5))
	require.True(t, sealed)
	require.Equal(t, common.FieldB, d.Field())
	require.Equal(t, r3.Vec{X: 0, Y: 0, Z: 1}, d.Position())
	require.Equal(t, 1, d.Frames())
	require.Equal(t, 0, d.Pending())
}

func TestMagnitudeThreshold(t *testing.T) {
	cases := []struct {
		name    string
		u, v, w float32
		keep    bool
	}{
		{"exactly threshold", 0.01, 0, 0, false},
		{"just above", 0.010001, 0, 0, true},
		{"split just above", 0, 0.005, 0.006, true},
		{"zero", 0, 0, 0, false},
		{"negative", -1, 0, 0, true},
		{"mixed signs", 0.004, -0.004, 0.004, true},
		{"nan", float32(math.NaN()), 1, 1, false},
		{"inf", float32(math.Inf(-1)), 0, 0, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := NewDecoder(Header{LatticeDensity: 1, TimeStep: 1})
			d.Apply(rec(c.u, 0))
			d.Apply(rec(c.v, 0))
			f, sealed := d.Apply(rec(c.w, 5))
			require.True(t, sealed)
			if c.keep {
				require.Len(t, f.E, 1)
			} else {
				require.Empty(t, f.E)
			}
		})
	}
}

func TestDelimiterCascadeOnDecoder(t *testing.T) {
	d := NewDecoder(Header{LatticeDensity: 2, TimeStep: 1})
	d.cur.pos = r3.Vec{X: 1.5, Y: 2, Z: 3}
	d.Apply(rec(0, 0))
	d.Apply(rec(0, 0))
	require.Equal(t, 2, d.Component())
	require.Equal(t, common.FieldE, d.Field())

	_, sealed := d.Apply(rec(0, 4))
	require.False(t, sealed)
	require.Equal(t, common.FieldB, d.Field())
	require.Equal(t, r3.Vec{X: 0, Y: 0, Z: 3.5}, d.Position())
	require.Equal(t, 0, d.Component())
}

func TestSealKeepsPosition(t *testing.T) {
	h := Header{LatticeDensity: 2, TimeStep: 0.25}
	data := buildStream(t, h,
		rec(1, 0), rec(0, 0), rec(0, 5),
		rec(0, 0), rec(2, 0), rec(0, 5),
	)
	_, frames, err := Decode(data, DecodeOptions{})
	require.NoError(t, err)
	require.Len(t, frames, 2)

	require.Equal(t, []Sample{sample(0, 0, 0, 1, 0, 0)}, frames[0].E)
	require.Empty(t, frames[0].B)

	// the first seal toggled to B and carried z forward by one spacing
	require.Empty(t, frames[1].E)
	require.Equal(t, []Sample{sample(0, 0, 0.5, 0, 2, 0)}, frames[1].B)
	require.Equal(t, 1, frames[1].Index)
	require.Equal(t, 0.25, frames[1].Time)
}

func TestComponentCycling(t *testing.T) {
	d := NewDecoder(Header{LatticeDensity: 1, TimeStep: 1})
	for i, want := range []int{1, 2, 0} {
		d.Apply(rec(float32(i+1), 0))
		require.Equal(t, want, d.Component())
	}
	require.Equal(t, 3, d.Pending())
	f, ok := d.Flush()
	require.True(t, ok)
	require.Equal(t, []Sample{sample(0, 0, 0, 1, 2, 3)}, f.E)

	_, ok = d.Flush()
	require.False(t, ok)
}

func TestToggleMidTripleCompletesInOtherField(t *testing.T) {
	d := NewDecoder(Header{LatticeDensity: 1, TimeStep: 1})
	d.Apply(rec(1, DelimToggle))
	require.Equal(t, common.FieldB, d.Field())
	d.Apply(rec(2, 0))
	d.Apply(rec(3, 0))
	f, ok := d.Flush()
	require.True(t, ok)
	require.Empty(t, f.E)
	require.Equal(t, []Sample{sample(0, 0, 0, 1, 2, 3)}, f.B)
}

func TestSealedFramesAreIndependent(t *testing.T) {
	d := NewDecoder(Header{LatticeDensity: 1, TimeStep: 1})
	d.Apply(rec(1, 0))
	d.Apply(rec(1, 0))
	first, _ := d.Apply(rec(1, 5))
	d.Apply(rec(0, 0))
	d.Apply(rec(0, 0))
	d.Apply(rec(0, 1))
	d.Apply(rec(2, 0))
	d.Apply(rec(2, 0))
	second, _ := d.Apply(rec(2, 5))

	require.Equal(t, []Sample{sample(0, 0, 0, 1, 1, 1)}, first.E)
	require.Empty(t, first.B)
	require.Equal(t, []Sample{sample(0, 0, 1, 2, 2, 2)}, second.E)
	require.Empty(t, second.B)
}

func TestDecodeEmptyBody(t *testing.T) {
	data := buildStream(t, Header{LatticeDensity: 1, TimeStep: 1})
	_, frames, err := Decode(data, DecodeOptions{})
	require.NoError(t, err)
	require.Empty(t, frames)
}

func TestDecodeMalformedHeader(t *testing.T) {
	_, frames, err := Decode([]byte{1, 2, 3}, DecodeOptions{})
	require.ErrorIs(t, err, ErrMalformedHeader)
	require.Nil(t, frames)
}

func TestDecodeTruncatedRecord(t *testing.T) {
	h := Header{LatticeDensity: 1, TimeStep: 1}
	full := buildStream(t, h, rec(1, 0), rec(1, 0), rec(1, 5))
	for dangling := 1; dangling < 5; dangling++ {
		data := append(append([]byte{}, full...), make([]byte, dangling)...)
		_, frames, err := Decode(data, DecodeOptions{SealTail: true})
		require.ErrorIs(t, err, ErrTruncatedRecord)
		require.NotErrorIs(t, err, ErrUnsealedFrame)
		var te *TruncatedRecordError
		require.True(t, errors.As(err, &te))
		require.Equal(t, int64(8+15), te.Offset)
		require.Equal(t, dangling, te.Remaining)
		require.Len(t, frames, 1, "sealed frames survive truncation")
	}
}

func TestDecodeUnsealedTail(t *testing.T) {
	h := Header{LatticeDensity: 1, TimeStep: 2}
	data := buildStream(t, h,
		rec(1, 0), rec(1, 0), rec(1, 5),
		rec(3, 0), rec(0, 0), rec(0, 0), rec(9, 0),
	)

	_, frames, err := Decode(data, DecodeOptions{})
	require.ErrorIs(t, err, ErrUnsealedFrame)
	require.Len(t, frames, 1)
	var ue *UnsealedFrameError
	require.True(t, errors.As(err, &ue))
	require.Equal(t, 4, ue.Records)
	require.Equal(t, 1, ue.Frame.Index)
	require.Equal(t, []Sample{sample(0, 0, 1, 3, 0, 0)}, ue.Frame.B)

	_, frames, err = Decode(data, DecodeOptions{SealTail: true})
	require.NoError(t, err)
	require.Len(t, frames, 2)
	require.Equal(t, 2.0, frames[1].Time)
	require.Equal(t, []Sample{sample(0, 0, 1, 3, 0, 0)}, frames[1].B)
}

func TestDelimiterAboveFrameEnd(t *testing.T) {
	h := Header{LatticeDensity: 1, TimeStep: 1}
	five := buildStream(t, h, rec(1, 0), rec(1, 0), rec(1, 5), rec(1, 0), rec(1, 0), rec(1, 5))
	many := buildStream(t, h, rec(1, 0), rec(1, 0), rec(1, 200), rec(1, 0), rec(1, 0), rec(1, 6))

	_, want, err := Decode(five, DecodeOptions{})
	require.NoError(t, err)
	_, got, err := Decode(many, DecodeOptions{})
	require.NoError(t, err)
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("frames differ (-want +got):\n%s", diff)
	}
}
