package internal

import (
	"fmt"

	"github.com/Eyevinn/emfield-tools/internal/lattice"
	"gonum.org/v1/gonum/floats"
)

type StreamStatistics struct {
	NrFrames       int     `json:"nrFrames"`
	Duration       float64 `json:"duration"`
	NrSamplesE     int     `json:"nrSamplesE"`
	NrSamplesB     int     `json:"nrSamplesB"`
	MaxMagnitudeE  float64 `json:"maxMagnitudeE,omitempty"`
	MeanMagnitudeE float64 `json:"meanMagnitudeE,omitempty"`
	MaxMagnitudeB  float64 `json:"maxMagnitudeB,omitempty"`
	MeanMagnitudeB float64 `json:"meanMagnitudeB,omitempty"`
	// Running sums, folded into the means when printed
	sumE      float64
	sumB      float64
	finiteE   int
	finiteB   int
	nonFinite int
	TimeStep  float32 `json:"-"`
	// Errors
	Errors []string `json:"errors,omitempty"`
}

func (s *StreamStatistics) AddFrame(f lattice.Frame) {
	s.NrFrames++
	s.NrSamplesE += len(f.E)
	s.NrSamplesB += len(f.B)
	s.MaxMagnitudeE, s.sumE, s.finiteE = s.accumulate(magnitudes(f.E), s.MaxMagnitudeE, s.sumE, s.finiteE)
	s.MaxMagnitudeB, s.sumB, s.finiteB = s.accumulate(magnitudes(f.B), s.MaxMagnitudeB, s.sumB, s.finiteB)
}

func (s *StreamStatistics) accumulate(mags []float64, maxMag, sum float64, n int) (float64, float64, int) {
	finite := finiteOnly(mags)
	s.nonFinite += len(mags) - len(finite)
	if len(finite) == 0 {
		return maxMag, sum, n
	}
	if m := floats.Max(finite); m > maxMag {
		maxMag = m
	}
	return maxMag, sum + floats.Sum(finite), n + len(finite)
}

func (s *StreamStatistics) calculateMeans() {
	if s.finiteE > 0 {
		s.MeanMagnitudeE = s.sumE / float64(s.finiteE)
	}
	if s.finiteB > 0 {
		s.MeanMagnitudeB = s.sumB / float64(s.finiteB)
	}
	s.Duration = float64(s.NrFrames) * float64(s.TimeStep)
	if s.nonFinite > 0 {
		s.Errors = append(s.Errors, fmt.Sprintf("%d samples with non-finite magnitude", s.nonFinite))
	}
}

func (p *JsonPrinter) PrintStatistics(s StreamStatistics, show bool) {
	s.calculateMeans()
	p.Print(s, show)
}
