package internal

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/Eyevinn/emfield-tools/common"
	"github.com/klauspost/compress/zstd"
)

const inputBufferSize = 1000 * common.RecordSize

type Options struct {
	MaxNrFrames    int
	Version        bool
	Indent         bool
	ShowHeader     bool
	ShowFrames     bool
	ShowSamples    bool
	ShowStatistics bool
	SealTail       bool
	Frames         string
	OutPutTo       string
	Zstd           bool
}

func CreateFullOptions(max int) Options {
	return Options{MaxNrFrames: max, ShowHeader: true, ShowFrames: true, ShowSamples: true, ShowStatistics: true}
}

type OptionParseFunc func() Options
type RunableFunc func(ctx context.Context, w io.Writer, f io.Reader, o Options) error

// openStream returns a reader over the lattice stream in f, decompressing it
// if it starts with a zstd frame.
func openStream(f io.Reader) (io.Reader, func(), error) {
	rd := bufio.NewReaderSize(f, inputBufferSize)
	// A short or failing peek is left to the header reader to report.
	prefix, _ := rd.Peek(len(common.ZstdMagic))
	if !common.IsZstd(prefix) {
		return rd, func() {}, nil
	}
	dec, err := zstd.NewReader(rd)
	if err != nil {
		return nil, nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	return dec, dec.Close, nil
}

// wrapOutput compresses w with zstd if requested. The returned close function
// must be called to flush the compressed stream.
func wrapOutput(w io.Writer, compress bool) (io.Writer, func() error, error) {
	if !compress {
		return w, func() error { return nil }, nil
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, nil, fmt.Errorf("creating zstd writer: %w", err)
	}
	return enc, enc.Close, nil
}

func RemoveFileIfExists(file string) error {
	err := os.Remove(file)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func CreateOutputFile(file string) (*os.File, error) {
	fo, err := os.OpenFile(file, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}
	return fo, nil
}

// ParseFramesFromString parses space separated frame numbers. Words that are
// not non-negative integers are skipped.
func ParseFramesFromString(input string) []int {
	words := strings.Fields(input)
	var frames []int
	for _, word := range words {
		number, err := strconv.Atoi(word)
		if err != nil || number < 0 {
			continue
		}
		frames = append(frames, number)
	}
	return frames
}

func toolName() string {
	return filepath.Base(os.Args[0])
}

func ParseParams(function OptionParseFunc) (o Options, inFile string) {
	o = function()
	if o.Version {
		fmt.Printf("%s version %s\n", toolName(), GetVersion())
		os.Exit(0)
	}
	if len(flag.Args()) < 1 {
		flag.Usage()
		os.Exit(1)
	}
	inFile = flag.Args()[0]
	return o, inFile
}

func Execute(w io.Writer, o Options, inFile string, function RunableFunc) error {
	// Create a cancellable context so that reading can stop between frames
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ch)
	go func() {
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
	}()

	var f io.Reader
	if inFile == "-" {
		f = os.Stdin
	} else {
		fh, err := os.Open(inFile)
		if err != nil {
			return err
		}
		f = fh
		defer fh.Close()
	}

	return function(ctx, w, f, o)
}
