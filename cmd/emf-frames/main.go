package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/Eyevinn/emfield-tools/internal"
)

var usg = `Usage of %s:

%s prints the reconstructed E and B samples of each frame as JSON lines,
one line per frame with positions and vectors.
`

func parseOptions() internal.Options {
	opts := internal.Options{ShowSamples: true}
	flag.IntVar(&opts.MaxNrFrames, "max", 0, "max nr frames to parse")
	flag.StringVar(&opts.Frames, "select", "", "frame numbers to print (split by space), e.g. \"0 5 10\"")
	flag.BoolVar(&opts.ShowHeader, "header", false, "print the stream header first")
	flag.BoolVar(&opts.ShowStatistics, "stats", false, "print stream statistics last")
	flag.BoolVar(&opts.SealTail, "sealtail", false, "treat end of stream as the end of the last frame")
	flag.BoolVar(&opts.Indent, "indent", false, "indent JSON output")
	flag.BoolVar(&opts.Version, "version", false, "print version")

	flag.Usage = func() {
		parts := strings.Split(os.Args[0], "/")
		name := parts[len(parts)-1]
		fmt.Fprintf(os.Stderr, usg, name, name)
		fmt.Fprintf(os.Stderr, "\nRun as: %s [options] file.emf (- for stdin) with options:\n\n", name)
		flag.PrintDefaults()
	}

	flag.Parse()
	return opts
}

func printFrames(ctx context.Context, w io.Writer, f io.Reader, o internal.Options) error {
	return internal.ParseAll(ctx, w, f, o)
}

func main() {
	o, inFile := internal.ParseParams(parseOptions)
	err := internal.Execute(os.Stdout, o, inFile, printFrames)
	if err != nil {
		log.Fatal(err)
	}
}
