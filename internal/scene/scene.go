// Package scene describes static E/B lattices in YAML and rasterises them
// into lattice streams.
package scene

import (
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/emfield-tools/internal/lattice"
	slices "golang.org/x/exp/slices"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

var axes = []string{"x", "y", "z"}

type Scene struct {
	Lattice  Lattice `yaml:"lattice"`
	TimeStep float32 `yaml:"time_step"`
	// Frames is the number of times the lattice is written. Defaults to 1.
	Frames int     `yaml:"frames"`
	Points []Point `yaml:"points"`
	Planes []Plane `yaml:"planes"`
}

type Lattice struct {
	Size    []int   `yaml:"size"` // nx, ny, nz
	Density float32 `yaml:"density"`
}

// Point sets a single node.
type Point struct {
	Location []int     `yaml:"location"`
	E        []float64 `yaml:"E"`
	B        []float64 `yaml:"B"`
}

// Plane sets every node whose coordinate along Axis equals Location.
type Plane struct {
	Axis     string    `yaml:"axis"`
	Location int       `yaml:"location"`
	E        []float64 `yaml:"E"`
	B        []float64 `yaml:"B"`
}

func Load(path string) (Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Scene{}, err
	}
	s, err := Parse(raw)
	if err != nil {
		return Scene{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func Parse(raw []byte) (Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Scene{}, err
	}
	if s.Frames == 0 {
		s.Frames = 1
	}
	if err := s.Validate(); err != nil {
		return Scene{}, err
	}
	return s, nil
}

func (s Scene) Validate() error {
	if len(s.Lattice.Size) != 3 {
		return fmt.Errorf("lattice size must have 3 entries, got %d", len(s.Lattice.Size))
	}
	for _, n := range s.Lattice.Size {
		if n <= 0 {
			return fmt.Errorf("lattice size %v must be positive", s.Lattice.Size)
		}
	}
	if s.Lattice.Density <= 0 {
		return fmt.Errorf("lattice density must be positive, got %v", s.Lattice.Density)
	}
	if s.Frames < 0 {
		return fmt.Errorf("negative frame count %d", s.Frames)
	}
	for i, p := range s.Points {
		if len(p.Location) != 3 {
			return fmt.Errorf("point %d: location must have 3 entries", i)
		}
		for k, c := range p.Location {
			if c < 0 || c >= s.Lattice.Size[k] {
				return fmt.Errorf("point %d: location %v outside lattice %v", i, p.Location, s.Lattice.Size)
			}
		}
		if err := checkVectors(p.E, p.B); err != nil {
			return fmt.Errorf("point %d: %w", i, err)
		}
	}
	for i, p := range s.Planes {
		if !slices.Contains(axes, p.Axis) {
			return fmt.Errorf("plane %d: unknown axis %q", i, p.Axis)
		}
		k := slices.Index(axes, p.Axis)
		if p.Location < 0 || p.Location >= s.Lattice.Size[k] {
			return fmt.Errorf("plane %d: location %d outside lattice along %s", i, p.Location, p.Axis)
		}
		if err := checkVectors(p.E, p.B); err != nil {
			return fmt.Errorf("plane %d: %w", i, err)
		}
	}
	return nil
}

// checkVectors accepts missing vectors, which mean zero.
func checkVectors(e, b []float64) error {
	if len(e) != 0 && len(e) != 3 {
		return fmt.Errorf("E must have 3 components, got %d", len(e))
	}
	if len(b) != 0 && len(b) != 3 {
		return fmt.Errorf("B must have 3 components, got %d", len(b))
	}
	return nil
}

func toVec(c []float64) r3.Vec {
	if len(c) != 3 {
		return r3.Vec{}
	}
	return r3.Vec{X: c[0], Y: c[1], Z: c[2]}
}

func (s Scene) Header() lattice.Header {
	return lattice.Header{LatticeDensity: s.Lattice.Density, TimeStep: s.TimeStep}
}

// Grid rasterises the scene. Planes are applied before points, each in file
// order, so later entries win.
func (s Scene) Grid() *lattice.Grid {
	nx, ny, nz := s.Lattice.Size[0], s.Lattice.Size[1], s.Lattice.Size[2]
	g := lattice.NewGrid(nx, ny, nz)
	for _, p := range s.Planes {
		e, b := toVec(p.E), toVec(p.B)
		for z := 0; z < nz; z++ {
			for y := 0; y < ny; y++ {
				for x := 0; x < nx; x++ {
					if onPlane(p, x, y, z) {
						g.Set(x, y, z, e, b)
					}
				}
			}
		}
	}
	for _, p := range s.Points {
		g.Set(p.Location[0], p.Location[1], p.Location[2], toVec(p.E), toVec(p.B))
	}
	return g
}

func onPlane(p Plane, x, y, z int) bool {
	switch p.Axis {
	case "x":
		return x == p.Location
	case "y":
		return y == p.Location
	case "z":
		return z == p.Location
	}
	return false
}

// Encode writes the scene as a lattice stream with Frames identical frames.
func (s Scene) Encode(w io.Writer) error {
	enc, err := lattice.NewEncoder(w, s.Header())
	if err != nil {
		return err
	}
	g := s.Grid()
	for i := 0; i < s.Frames; i++ {
		if err := enc.WriteGrid(g); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return enc.Flush()
}
