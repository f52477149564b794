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

%s lists information about E/B lattice streams: header, per-frame sample
counts and magnitudes, and statistics for the whole stream.
zstd-compressed streams are detected and decompressed.
`

func parseOptions() internal.Options {
	opts := internal.Options{ShowHeader: true, ShowStatistics: true}
	flag.IntVar(&opts.MaxNrFrames, "max", 0, "max nr frames to parse")
	flag.BoolVar(&opts.ShowFrames, "frames", false, "show per-frame summaries")
	flag.BoolVar(&opts.SealTail, "sealtail", false, "treat end of stream as the end of the last frame")
	flag.BoolVar(&opts.Indent, "indent", false, "indent JSON output")
	flag.BoolVar(&opts.Version, "version", false, "print version")
	headerOnly := flag.Bool("header", false, "only show the header")

	flag.Usage = func() {
		parts := strings.Split(os.Args[0], "/")
		name := parts[len(parts)-1]
		fmt.Fprintf(os.Stderr, usg, name, name)
		fmt.Fprintf(os.Stderr, "\nRun as: %s [options] file.emf (- for stdin) with options:\n\n", name)
		flag.PrintDefaults()
	}

	flag.Parse()
	if *headerOnly {
		opts.ShowFrames = false
		opts.ShowStatistics = false
	}
	return opts
}

func parseInfo(ctx context.Context, w io.Writer, f io.Reader, o internal.Options) error {
	if !o.ShowFrames && !o.ShowStatistics {
		return internal.ParseInfo(ctx, w, f, o)
	}
	return internal.ParseAll(ctx, w, f, o)
}

func main() {
	o, inFile := internal.ParseParams(parseOptions)
	err := internal.Execute(os.Stdout, o, inFile, parseInfo)
	if err != nil {
		log.Fatal(err)
	}
}
