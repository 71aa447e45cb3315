package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	cfg "pedro.to/rollstats/config"
	"pedro.to/rollstats/driver"
	"pedro.to/rollstats/logger"
)

const (
	exitOK    = 0
	exitParse = 1
	exitUsage = 2
	exitWrite = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	logger.SetOutput(zerolog.ConsoleWriter{Out: stderr, NoColor: true, TimeFormat: "15:04:05"})
	l := logger.New("rollstats", "main")

	var (
		precision int
		format    string
		seed      string
		verbose   bool
	)
	fs := flag.NewFlagSet("rollstats", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&precision, "precision", cfg.Precision, "decimals printed for mean and stdev")
	fs.StringVar(&format, "format", cfg.Format, "output format: text or json")
	fs.StringVar(&seed, "seed", "", "comma separated initial window, as long as <wsize>")
	fs.BoolVar(&verbose, "v", cfg.Debug, "debug logging")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "syntax: rollstats [flags] <wsize> [<num>...]\n\n")
		fmt.Fprintf(fs.Output(), "Reads samples from stdin when no <num> is given.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if verbose {
		logger.SetLevel(int8(zerolog.DebugLevel))
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return exitUsage
	}

	wsize, err := driver.ParseWindowSize(fs.Arg(0))
	if err != nil {
		l.Error().Err(err).Msg("invalid window size")
		return exitUsage
	}
	opts := driver.Options{Precision: precision, Format: format}
	if seed != "" {
		if opts.Seed, err = driver.ParseSeed(seed); err != nil {
			l.Error().Err(err).Msg("invalid seed")
			return exitUsage
		}
	}

	out := bufio.NewWriter(stdout)
	d, err := driver.New(wsize, out, opts)
	if err != nil {
		l.Error().Err(err).Msg("invalid configuration")
		return exitUsage
	}

	if fs.NArg() > 1 {
		err = d.FeedAll(fs.Args()[1:])
	} else {
		l.Debug().Msg("reading samples from stdin")
		err = d.FeedReader(stdin)
	}
	if err != nil {
		// keep the lines printed so far ahead of the error
		if ferr := out.Flush(); ferr != nil {
			l.Error().Err(ferr).Msg("write results")
		}
		l.Error().Stack().Err(err).Int("printed", d.Fed()).Msg("parse error")
		return exitParse
	}
	if err := out.Flush(); err != nil {
		l.Error().Err(err).Int("samples", d.Fed()).Msg("write results")
		return exitWrite
	}
	l.Debug().Int("samples", d.Fed()).Msg("done")
	return exitOK
}

func init() {
	cfg.Setup()
}
