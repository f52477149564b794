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

%s writes a static E/B lattice described in a YAML scene file as a lattice
stream, repeating it for the configured number of frames.
`

func parseOptions() internal.Options {
	opts := internal.Options{}
	flag.StringVar(&opts.OutPutTo, "output", "-", "write the stream into the given file (filepath) or stdout (-)")
	flag.BoolVar(&opts.Zstd, "zstd", false, "compress the stream with zstd")
	flag.BoolVar(&opts.Indent, "indent", false, "indent JSON output")
	flag.BoolVar(&opts.Version, "version", false, "print version")

	flag.Usage = func() {
		parts := strings.Split(os.Args[0], "/")
		name := parts[len(parts)-1]
		fmt.Fprintf(os.Stderr, usg, name, name)
		fmt.Fprintf(os.Stderr, "\nRun as: %s [options] scene.yaml (- for stdin) with options:\n\n", name)
		flag.PrintDefaults()
	}

	flag.Parse()
	return opts
}

func encode(ctx context.Context, w io.Writer, f io.Reader, o internal.Options) error {
	var textOutput io.Writer
	var streamOutput io.Writer
	// If we output to a file, print the summary to stdout
	if o.OutPutTo != "-" {
		if err := internal.RemoveFileIfExists(o.OutPutTo); err != nil {
			return err
		}
		file, err := internal.CreateOutputFile(o.OutPutTo)
		if err != nil {
			return err
		}
		defer file.Close()
		streamOutput = file
		textOutput = w
	} else { // If we output to stdout, print the summary to stderr
		streamOutput = w
		textOutput = os.Stderr
	}

	return internal.EncodeScene(ctx, textOutput, streamOutput, f, o)
}

func main() {
	o, inFile := internal.ParseParams(parseOptions)
	err := internal.Execute(os.Stdout, o, inFile, encode)
	if err != nil {
		log.Fatal(err)
	}
}
