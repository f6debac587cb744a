// aptatrim trims the constant flanking regions from aptamer/SELEX
// sequencing pools and filters the inserts by length and quality.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"

	"aptatrim/pipeline"
	"aptatrim/seqio"
)

// Color functions for terminal output
var (
	bold    = color.New(color.Bold).SprintFunc()
	red     = color.New(color.FgRed).SprintFunc()
	magenta = color.New(color.FgMagenta).SprintFunc()
)

func main() {
	var (
		inFile        string
		outFile       string
		const5p       string
		const3p       string
		minLength     int
		maxLength     int
		maxError      float64
		qualityCutoff float64
		maxShift      int
		threads       int
		outFormat     string
		quiet         bool
	)

	rootCmd := &cobra.Command{
		Use:   "aptatrim",
		Short: bold("Trim constant regions and filter aptamer sequencing reads"),
		Long: `aptatrim reads an aptamer/SELEX pool in FASTA or FASTQ format (plain,
gzip- or zstd-compressed), strips the 5' and 3' constant regions with a
bounded mismatch budget, keeps inserts within the requested length window,
and reports a per-read average error estimate when quality scores are
present. Accepted inserts are written as FASTA (or FASTQ, preserving the
trimmed quality window) in input order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg := pipeline.Config{
				Const5P:       const5p,
				Const3P:       const3p,
				MinLength:     minLength,
				MaxLength:     maxLength,
				MaxErrorRate:  maxError,
				QualityCutoff: qualityCutoff,
				MaxShift:      maxShift,
				Threads:       threads,
			}
			return run(inFile, outFile, cfg, outFormat, quiet)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&inFile, "in", "i", "-", "Input FASTA/FASTQ file, plain or gzip/zstd compressed (use - for stdin)")
	flags.StringVarP(&outFile, "out", "o", "-", "Output file (use - for stdout)")
	flags.StringVarP(&const5p, "const5p", "5", "", "5' constant region to trim (empty = no 5' trimming)")
	flags.StringVarP(&const3p, "const3p", "3", "", "3' constant region to trim (empty = no 3' trimming)")
	flags.IntVarP(&minLength, "min-length", "m", 10, "Minimum insert length after trimming")
	flags.IntVarP(&maxLength, "max-length", "M", 100, "Maximum insert length after trimming")
	flags.Float64VarP(&maxError, "max-error", "e", 0.1, "Trimming mismatch budget, as a fraction of the pattern length")
	flags.Float64VarP(&qualityCutoff, "quality-cutoff", "q", 0, "Reject reads whose average error probability exceeds this (0 = disabled)")
	flags.IntVar(&maxShift, "shift", pipeline.DefaultMaxShift, "How far a constant region may slide from its anchored position (-1 = unbounded)")
	flags.IntVarP(&threads, "threads", "t", 0, "Worker goroutines (0 = one per CPU)")
	flags.StringVarP(&outFormat, "format", "f", "fasta", "Output format: fasta or fastq")
	flags.BoolVar(&quiet, "quiet", false, "Suppress the processing summary")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		os.Exit(1)
	}
}

func run(inFile, outFile string, cfg pipeline.Config, outFormat string, quiet bool) error {
	switch outFormat {
	case "fasta", "fastq":
	default:
		return fmt.Errorf("invalid output format %q (expected fasta or fastq)", outFormat)
	}

	infh, err := xopen.Ropen(inFile)
	if err != nil {
		return fmt.Errorf("opening input: %v", err)
	}
	defer infh.Close()

	reader, err := seqio.NewReader(infh)
	if err != nil {
		return err
	}

	src := pipeline.RecordSource(reader)
	if outFormat == "fastq" {
		// Settle the format question on the first record, before the batch
		// burns any CPU.
		rec, rerr := reader.Read()
		var recErr *seqio.RecordError
		if rerr != nil && rerr != io.EOF && !errors.As(rerr, &recErr) {
			return rerr
		}
		if reader.Format() != seqio.FormatFastq {
			return fmt.Errorf("fastq output requires FASTQ input (no quality scores to write)")
		}
		src = &peekedReader{rec: rec, err: rerr, r: reader}
	}

	result, err := pipeline.Process(src, cfg)
	if err != nil {
		return err
	}

	outfh, err := xopen.Wopen(outFile)
	if err != nil {
		return fmt.Errorf("creating output file: %v", err)
	}
	defer outfh.Close()

	if outFormat == "fastq" {
		for i := range result.Accepted {
			rec := &result.Accepted[i]
			fx := &fastx.Record{
				Name: []byte(rec.ID),
				Seq:  &seq.Seq{Seq: []byte(rec.Sequence), Qual: []byte(rec.Quality)},
			}
			fx.FormatToWriter(outfh, 0)
		}
	} else if err := result.ExportFasta(outfh); err != nil {
		return fmt.Errorf("writing output: %v", err)
	}

	if !quiet {
		printSummary(result)
	}
	return nil
}

// peekedReader replays the record (or per-record error) consumed while
// probing the input format, then hands off to the reader.
type peekedReader struct {
	rec    *seqio.Record
	err    error
	served bool
	r      *seqio.Reader
}

func (p *peekedReader) Read() (*seqio.Record, error) {
	if !p.served {
		p.served = true
		return p.rec, p.err
	}
	return p.r.Read()
}

// printSummary reports retention totals and per-reason rejection counts on
// stderr, keeping stdout free for sequence output.
func printSummary(result *pipeline.BatchResult) {
	pct := 0.0
	if result.TotalInput > 0 {
		pct = float64(result.TotalAccepted) / float64(result.TotalInput) * 100
	}
	fmt.Fprintln(os.Stderr, bold(fmt.Sprintf("Retained %d of %d reads (%.2f%%)", result.TotalAccepted, result.TotalInput, pct)))
	for _, reason := range []pipeline.RejectReason{
		pipeline.RejectMalformed,
		pipeline.RejectEmptyAfterTrim,
		pipeline.RejectLength,
		pipeline.RejectQuality,
	} {
		if n := result.Rejections[reason]; n > 0 {
			fmt.Fprintln(os.Stderr, magenta(fmt.Sprintf("  %s: %d", reason, n)))
		}
	}
}
