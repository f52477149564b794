package internal

import (
	"encoding/json"
	"io"

	"github.com/Eyevinn/emfield-tools/internal/lattice"
)

type JsonPrinter struct {
	W        io.Writer
	Indent   bool
	AccError error
}

// Print writes data as one JSON line. After the first failure nothing more is
// written and the error is kept for Error.
func (p *JsonPrinter) Print(data any, show bool) {
	if !show || p.AccError != nil {
		return
	}
	enc := json.NewEncoder(p.W)
	if p.Indent {
		enc.SetIndent("", "  ")
	}
	p.AccError = enc.Encode(data)
}

func (p *JsonPrinter) PrintHeader(h lattice.Header, show bool) {
	p.Print(ToHeaderInfo(h), show)
}

func (p *JsonPrinter) PrintFrameSummary(f lattice.Frame, show bool) {
	if !show {
		return
	}
	p.Print(ToFrameSummary(f), show)
}

func (p *JsonPrinter) PrintFrame(f lattice.Frame, show bool) {
	if !show {
		return
	}
	p.Print(ToFrameData(f), show)
}

func (p *JsonPrinter) Error() error {
	return p.AccError
}
