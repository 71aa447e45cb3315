// Package driver feeds textual samples to a rolling window and prints one
// line per sample:
//
//	<index>: <sample> --> <mean> ± <stdev>
package driver

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"pedro.to/rollstats/config"
	"pedro.to/rollstats/logger"
	"pedro.to/rollstats/rollstats"
)

type Options struct {
	// Decimals for mean and stdev
	Precision int
	// config.FormatText or config.FormatJSON
	Format string
	// Initial window contents. Must be as long as the window.
	Seed []float64
}

// Result is one NDJSON line of the json format.
type Result struct {
	Index  int     `json:"index"`
	Sample float64 `json:"sample"`
	Mean   float64 `json:"mean"`
	Stdev  float64 `json:"stdev"`
}

type Driver struct {
	stats *rollstats.Stats
	out   io.Writer
	enc   *json.Encoder
	opts  Options
	index int
	state rollstats.State
	l     zerolog.Logger
}

func New(wsize int, out io.Writer, opts Options) (*Driver, error) {
	return NewWithLogger(wsize, out, opts, logger.New("", "driver"))
}

func NewWithLogger(wsize int, out io.Writer, opts Options, l zerolog.Logger) (*Driver, error) {
	if opts.Precision < 0 {
		return nil, errors.Wrapf(rollstats.ErrInvalidConfiguration, "negative precision %d", opts.Precision)
	}
	if opts.Format == "" {
		opts.Format = config.FormatText
	}
	if opts.Format != config.FormatText && opts.Format != config.FormatJSON {
		return nil, errors.Wrapf(rollstats.ErrInvalidConfiguration, "unknown format %q", opts.Format)
	}

	var (
		s   *rollstats.Stats
		err error
	)
	if len(opts.Seed) > 0 {
		if len(opts.Seed) != wsize {
			return nil, errors.Wrapf(rollstats.ErrInvalidConfiguration,
				"seed has %d samples, window size is %d", len(opts.Seed), wsize)
		}
		s, err = rollstats.NewSeeded(opts.Seed)
	} else {
		s, err = rollstats.New(wsize)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "window size %d", wsize)
	}

	d := &Driver{
		stats: s,
		out:   out,
		opts:  opts,
		state: s.State(),
		l:     l,
	}
	if opts.Format == config.FormatJSON {
		d.enc = json.NewEncoder(out)
	}
	d.l.Debug().
		Int("wsize", s.Cap()).
		Str("state", d.state.String()).
		Msg("window ready")
	return d, nil
}

// Feed parses `tok`, updates the window and writes the result line.
func (d *Driver) Feed(tok string) error {
	x, err := ParseSample(tok)
	if err != nil {
		return errors.Wrapf(err, "sample %d", d.index)
	}
	mean, stdev, err := d.stats.Update(x)
	if err != nil {
		return errors.Wrapf(err, "sample %d %q", d.index, tok)
	}

	if st := d.stats.State(); st != d.state {
		d.l.Debug().Int("index", d.index).Msgf("window %s -> %s", d.state, st)
		d.state = st
	}
	if err := d.write(Result{Index: d.index, Sample: x, Mean: mean, Stdev: stdev}); err != nil {
		return errors.Wrap(err, "write result")
	}
	d.index++
	return nil
}

// FeedAll feeds every token in order, stopping at the first error.
func (d *Driver) FeedAll(tokens []string) error {
	for _, tok := range tokens {
		if err := d.Feed(tok); err != nil {
			return err
		}
	}
	return nil
}

// FeedReader feeds whitespace separated tokens read from `r`.
func (d *Driver) FeedReader(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		if err := d.Feed(sc.Text()); err != nil {
			return err
		}
	}
	return errors.Wrap(sc.Err(), "read samples")
}

// Fed returns how many samples were printed.
func (d *Driver) Fed() int {
	return d.index
}

func (d *Driver) write(res Result) error {
	if d.enc != nil {
		return d.enc.Encode(res)
	}
	_, err := fmt.Fprintf(d.out, "%d: %s --> %.*f ± %.*f\n",
		res.Index,
		strconv.FormatFloat(res.Sample, 'f', -1, 64),
		d.opts.Precision, res.Mean,
		d.opts.Precision, res.Stdev,
	)
	return err
}

// ParseWindowSize accepts a positive integer, or a float that is truncated
// toward zero (3.7 -> 3).
func ParseWindowSize(tok string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
	if err != nil {
		return 0, errors.Wrapf(rollstats.ErrInvalidConfiguration, "parse window size %q", tok)
	}
	f = math.Trunc(f)
	if math.IsNaN(f) || f < 1 || f > math.MaxInt32 {
		return 0, errors.Wrapf(rollstats.ErrInvalidConfiguration, "window size %q", tok)
	}
	return int(f), nil
}

func ParseSample(tok string) (float64, error) {
	x, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
	if err != nil {
		return 0, errors.Wrapf(rollstats.ErrInvalidSample, "parse %q", tok)
	}
	return x, nil
}

// ParseSeed parses a comma separated list of samples, "10,10,10".
func ParseSeed(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errors.Wrap(rollstats.ErrInsufficientSeed, "empty seed")
	}
	parts := strings.Split(s, ",")
	seed := make([]float64, 0, len(parts))
	for _, p := range parts {
		x, err := ParseSample(p)
		if err != nil {
			return nil, errors.Wrap(err, "seed")
		}
		seed = append(seed, x)
	}
	return seed, nil
}
