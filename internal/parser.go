package internal

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Eyevinn/emfield-tools/internal/lattice"
	"github.com/Eyevinn/emfield-tools/internal/scene"
	slices "golang.org/x/exp/slices"
)

// ErrNoLatticeSpacing is returned when the header density (zero, NaN) does
// not give a finite lattice spacing, so sample positions cannot be printed.
var ErrNoLatticeSpacing = errors.New("lattice density gives no finite lattice spacing")

// ParseAll decodes every frame of the stream and prints what the options ask
// for. A decode error ends the loop; statistics gathered so far are still
// printed and the error is returned.
func ParseAll(ctx context.Context, w io.Writer, f io.Reader, o Options) error {
	rd, closeStream, err := openStream(f)
	if err != nil {
		return err
	}
	defer closeStream()
	fr, err := lattice.NewReader(rd, lattice.DecodeOptions{SealTail: o.SealTail})
	if err != nil {
		return err
	}
	jp := &JsonPrinter{W: w, Indent: o.Indent}
	jp.PrintHeader(fr.Header(), o.ShowHeader)

	statistics := StreamStatistics{TimeStep: fr.Header().TimeStep}
	if !isFinite(fr.Header().Spacing()) {
		err := fmt.Errorf("%w: density %v", ErrNoLatticeSpacing, fr.Header().LatticeDensity)
		statistics.Errors = append(statistics.Errors, err.Error())
		jp.PrintStatistics(statistics, o.ShowStatistics)
		return err
	}

	selected := ParseFramesFromString(o.Frames)
	var decodeErr error
dataLoop:
	for {
		// Check if context was cancelled
		select {
		case <-ctx.Done():
			break dataLoop
		default:
		}

		frame, err := fr.Next()
		if err == io.EOF {
			break dataLoop
		}
		if err != nil {
			decodeErr = fmt.Errorf("decoding frame %d: %w", statistics.NrFrames, err)
			statistics.Errors = append(statistics.Errors, err.Error())
			break dataLoop
		}
		statistics.AddFrame(frame)

		if len(selected) == 0 || slices.Contains(selected, frame.Index) {
			jp.PrintFrameSummary(frame, o.ShowFrames)
			jp.PrintFrame(frame, o.ShowSamples)
		}

		// Keep looping if MaxNrFrames equals 0
		if o.MaxNrFrames > 0 && statistics.NrFrames >= o.MaxNrFrames {
			break dataLoop
		}
	}

	jp.PrintStatistics(statistics, o.ShowStatistics)
	if decodeErr != nil {
		return decodeErr
	}
	return jp.Error()
}

// ParseInfo prints the stream header only.
func ParseInfo(ctx context.Context, w io.Writer, f io.Reader, o Options) error {
	rd, closeStream, err := openStream(f)
	if err != nil {
		return err
	}
	defer closeStream()
	h, err := lattice.ReadHeader(rd)
	if err != nil {
		return err
	}
	jp := &JsonPrinter{W: w, Indent: o.Indent}
	jp.PrintHeader(h, true)
	return jp.Error()
}

type EncodeSummary struct {
	LatticeDensity float32 `json:"latticeDensity"`
	TimeStep       float32 `json:"timeStep"`
	Size           []int   `json:"size"`
	NrFrames       int     `json:"nrFrames"`
	Bytes          int64   `json:"bytes"`
	Compressed     bool    `json:"compressed,omitempty"`
}

// EncodeScene reads a YAML scene from f and writes it as a lattice stream to
// streamWriter. A summary is printed to textWriter.
func EncodeScene(ctx context.Context, textWriter io.Writer, streamWriter io.Writer, f io.Reader, o Options) error {
	raw, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("reading scene: %w", err)
	}
	s, err := scene.Parse(raw)
	if err != nil {
		return fmt.Errorf("parsing scene: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil
	}

	cw := &countingWriter{w: streamWriter}
	out, closeOut, err := wrapOutput(cw, o.Zstd)
	if err != nil {
		return err
	}
	if err := s.Encode(out); err != nil {
		_ = closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}

	jp := &JsonPrinter{W: textWriter, Indent: o.Indent}
	jp.Print(EncodeSummary{
		LatticeDensity: s.Lattice.Density,
		TimeStep:       s.TimeStep,
		Size:           s.Lattice.Size,
		NrFrames:       s.Frames,
		Bytes:          cw.n,
		Compressed:     o.Zstd,
	}, true)
	return jp.Error()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
