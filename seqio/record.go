// Package seqio reads and writes FASTA/FASTQ sequence records.
//
// The reader is streaming: it holds one record's bytes at a time and can
// recover from individual malformed records, which makes it suitable for
// large, occasionally messy sequencing pools. Compressed input (gzip, zstd)
// is detected by magic bytes and decompressed transparently.
package seqio

// Record is a single read as it appears in the input stream.
type Record struct {
	ID   string
	Seq  []byte
	Qual []byte // nil for FASTA records, same length as Seq for FASTQ
}
