package seqio

import (
	"bufio"
	"io"
)

// FastaWriter serializes records as FASTA text: a '>'-prefixed header line
// followed by the sequence on a single line. Output written here re-parses
// through Reader with identical IDs and sequences.
type FastaWriter struct {
	w *bufio.Writer
}

func NewFastaWriter(w io.Writer) *FastaWriter {
	return &FastaWriter{w: bufio.NewWriter(w)}
}

// Write emits one record. Quality has no FASTA representation and is never
// written.
func (fw *FastaWriter) Write(id string, seq []byte) error {
	if err := fw.w.WriteByte('>'); err != nil {
		return err
	}
	if _, err := fw.w.WriteString(id); err != nil {
		return err
	}
	if err := fw.w.WriteByte('\n'); err != nil {
		return err
	}
	if _, err := fw.w.Write(seq); err != nil {
		return err
	}
	return fw.w.WriteByte('\n')
}

// Flush drains buffered output to the underlying writer.
func (fw *FastaWriter) Flush() error { return fw.w.Flush() }
