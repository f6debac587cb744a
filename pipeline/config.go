package pipeline

import (
	"errors"
	"fmt"
	"runtime"

	"aptatrim/trim"
)

// DefaultMaxShift bounds how far a constant region may drift from its
// anchored position before the matcher gives up on that end. Sixteen bases
// absorbs the leading junk seen in real pools without letting the pattern
// wander into the insert.
const DefaultMaxShift = 16

// MaxLengthLimit is the absolute ceiling on the insert length window. Pool
// inserts are tens of bases long; a window beyond this is a caller typo and
// is rejected before any record is read.
const MaxLengthLimit = 500

// ErrInvalidConfig wraps every parameter validation failure, so callers can
// tell a bad request apart from a bad input stream.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config carries the batch-wide parameters. It is immutable for the
// duration of one Process call; per-record processing never mutates it.
type Config struct {
	Const5P string // 5' constant region; empty disables 5' trimming
	Const3P string // 3' constant region; empty disables 3' trimming

	// MinLength and MaxLength bound the trimmed insert, inclusive.
	// MaxLength may not exceed MaxLengthLimit.
	MinLength int
	MaxLength int

	// MaxErrorRate is the trimming mismatch budget as a fraction of the
	// pattern length, in [0,1). floor(rate*len) mismatches are tolerated.
	MaxErrorRate float64

	// QualityCutoff rejects FASTQ reads whose average per-base error
	// probability exceeds it. Zero disables the filter; FASTA reads carry
	// no qualities and are never affected.
	QualityCutoff float64

	// MaxShift is how far a constant region may slide from its anchor.
	// Zero demands strict anchoring, negative lifts the bound.
	MaxShift int

	// Threads is the worker count; values below 1 mean one worker per CPU.
	Threads int
}

// Validate rejects bad parameter combinations before any record is read.
func (c *Config) Validate() error {
	if c.MinLength < 0 || c.MaxLength < 0 {
		return fmt.Errorf("%w: lengths must not be negative (min %d, max %d)", ErrInvalidConfig, c.MinLength, c.MaxLength)
	}
	if c.MinLength > c.MaxLength {
		return fmt.Errorf("%w: min length %d greater than max length %d", ErrInvalidConfig, c.MinLength, c.MaxLength)
	}
	if c.MaxLength > MaxLengthLimit {
		return fmt.Errorf("%w: max length %d exceeds the limit of %d", ErrInvalidConfig, c.MaxLength, MaxLengthLimit)
	}
	if c.MaxErrorRate < 0 || c.MaxErrorRate >= 1 {
		return fmt.Errorf("%w: max error rate %g outside [0,1)", ErrInvalidConfig, c.MaxErrorRate)
	}
	if c.QualityCutoff < 0 || c.QualityCutoff > 1 {
		return fmt.Errorf("%w: quality cutoff %g outside [0,1]", ErrInvalidConfig, c.QualityCutoff)
	}
	return nil
}

func (c *Config) threads() int {
	if c.Threads > 0 {
		return c.Threads
	}
	return runtime.NumCPU()
}

func (c *Config) trimmer() *trim.Trimmer {
	return &trim.Trimmer{
		Five:     trim.NewPattern(c.Const5P, c.MaxErrorRate),
		Three:    trim.NewPattern(c.Const3P, c.MaxErrorRate),
		MaxShift: c.MaxShift,
	}
}
