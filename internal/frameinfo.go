package internal

import (
	"math"

	"github.com/Eyevinn/emfield-tools/internal/lattice"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

type HeaderInfo struct {
	LatticeDensity float32 `json:"latticeDensity"`
	// nil when the density gives no finite spacing
	LatticeSpacing *float64 `json:"latticeSpacing,omitempty"`
	TimeStep       float32  `json:"timeStep"`
}

type FrameSummary struct {
	Frame int     `json:"frame"`
	Time  float64 `json:"time"`
	NrE   int     `json:"nrE"`
	NrB   int     `json:"nrB"`
	MaxE  float64 `json:"maxE,omitempty"`
	MeanE float64 `json:"meanE,omitempty"`
	MaxB  float64 `json:"maxB,omitempty"`
	MeanB float64 `json:"meanB,omitempty"`
}

type FrameData struct {
	Frame int          `json:"frame"`
	Time  float64      `json:"time"`
	E     []SampleData `json:"E"`
	B     []SampleData `json:"B"`
}

type SampleData struct {
	Pos [3]float64 `json:"pos"`
	Vec [3]float64 `json:"vec"`
}

func ToHeaderInfo(h lattice.Header) HeaderInfo {
	info := HeaderInfo{LatticeDensity: h.LatticeDensity, TimeStep: h.TimeStep}
	if spacing := h.Spacing(); isFinite(spacing) {
		info.LatticeSpacing = &spacing
	}
	return info
}

func ToFrameSummary(f lattice.Frame) FrameSummary {
	s := FrameSummary{Frame: f.Index, Time: f.Time, NrE: len(f.E), NrB: len(f.B)}
	s.MaxE, s.MeanE = magnitudeSummary(magnitudes(f.E))
	s.MaxB, s.MeanB = magnitudeSummary(magnitudes(f.B))
	return s
}

func ToFrameData(f lattice.Frame) FrameData {
	return FrameData{
		Frame: f.Index,
		Time:  f.Time,
		E:     toSampleData(f.E),
		B:     toSampleData(f.B),
	}
}

func toSampleData(samples []lattice.Sample) []SampleData {
	out := make([]SampleData, 0, len(samples))
	for _, s := range samples {
		out = append(out, SampleData{
			Pos: [3]float64{s.Position.X, s.Position.Y, s.Position.Z},
			Vec: [3]float64{s.Vector.X, s.Vector.Y, s.Vector.Z},
		})
	}
	return out
}

// magnitudes returns the Euclidean norms of the sample vectors.
func magnitudes(samples []lattice.Sample) []float64 {
	mags := make([]float64, 0, len(samples))
	for _, s := range samples {
		mags = append(mags, r3.Norm(s.Vector))
	}
	return mags
}

// magnitudeSummary ignores non-finite values. Both results are 0 if nothing
// is left.
func magnitudeSummary(mags []float64) (maxMag, meanMag float64) {
	finite := finiteOnly(mags)
	if len(finite) == 0 {
		return 0, 0
	}
	return floats.Max(finite), stat.Mean(finite, nil)
}

func finiteOnly(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if isFinite(v) {
			out = append(out, v)
		}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
