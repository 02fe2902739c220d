// Command tableswab reverses the byte order of fixed-width groups in a
// binary table file.
//
//	tableswab -w 4 -o 128 -n 0 in.bin out.bin
//
// Input defaults to stdin and output to stdout when the file arguments
// are omitted.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/beetlebugorg/geotable/pkg/geotable"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.ReadCloser, stdout io.WriteCloser, stderr io.Writer) int {
	name := filepath.Base(os.Args[0])
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := geotable.DefaultSwapOptions()
	verbose := fs.Bool("v", false, "log progress and warnings at debug level")
	fs.IntVar(&opts.Width, "w", opts.Width, "swap width in bytes (2, 4 or 8)")
	fs.Int64Var(&opts.Offset, "o", 0, "bytes to copy unchanged before swapping")
	fs.Int64Var(&opts.Length, "n", 0, "bytes to swap; 0 swaps to end of input")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [options] [input [output]]\n\n", name)
		fmt.Fprintf(stderr, "Reverse the byte order of every width-sized group in a window of a binary file.\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 2 {
		fs.Usage()
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	opts.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	src := stdin
	if fs.NArg() >= 1 && fs.Arg(0) != "-" {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", name, err)
			return 1
		}
		src = f
	}
	dst := stdout
	if fs.NArg() == 2 && fs.Arg(1) != "-" {
		f, err := os.Create(fs.Arg(1))
		if err != nil {
			src.Close()
			fmt.Fprintf(stderr, "%s: %v\n", name, err)
			return 1
		}
		dst = f
	}

	if err := geotable.SwapBytes(dst, src, opts); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return 1
	}
	return 0
}
