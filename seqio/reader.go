package seqio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
)

// Format identifies the record layout of an input stream.
type Format int

const (
	FormatUnknown Format = iota
	FormatFasta
	FormatFastq
)

// maxLineSize caps a single input line. Pool reads are short; anything
// beyond this is not a read library.
const maxLineSize = 4 << 20

// RecordError reports a single malformed record. The reader consumes the
// offending lines and stays usable, so a caller may count the error and keep
// reading the records that follow.
type RecordError struct {
	Line int // 1-based line number where the record starts
	Msg  string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record at line %d: %s", e.Line, e.Msg)
}

// Reader parses FASTA or FASTQ records from a byte stream. The format is
// detected from the first record header; compression is detected from the
// leading magic bytes, never from a file name.
type Reader struct {
	sc      *bufio.Scanner
	format  Format
	lineNum int
	line    []byte
	peeked  bool
	err     error // sticky stream-level error from the scanner
}

// NewReader wraps r, sniffing and undoing gzip/zstd compression. The error
// return covers decompression setup only; parse errors surface from Read.
func NewReader(r io.Reader) (*Reader, error) {
	src, err := sniffCompression(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{sc: sc}, nil
}

// sniffCompression peeks at the stream's magic bytes and, when they announce
// a known compression container, interposes the matching decompressor.
func sniffCompression(br *bufio.Reader) (io.Reader, error) {
	magic, err := br.Peek(4)
	if len(magic) == 0 {
		if err == io.EOF {
			return br, nil // empty stream, the parser will report EOF
		}
		return nil, fmt.Errorf("reading input: %w", err)
	}
	switch {
	case len(magic) >= 2 && magic[0] == 0x1f && magic[1] == 0x8b:
		gr, err := pgzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		return gr, nil
	case len(magic) >= 4 && magic[0] == 0x28 && magic[1] == 0xb5 && magic[2] == 0x2f && magic[3] == 0xfd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		return zr, nil
	}
	return br, nil
}

// Format returns the detected input format. FormatUnknown until the first
// record has been read.
func (r *Reader) Format() Format { return r.format }

// next yields the following line with the trailing \r stripped. The returned
// slice aliases the scanner's buffer and is only valid until the next call.
func (r *Reader) next() ([]byte, bool) {
	if r.peeked {
		r.peeked = false
		return r.line, true
	}
	if !r.sc.Scan() {
		r.err = r.sc.Err()
		return nil, false
	}
	r.lineNum++
	r.line = bytes.TrimRight(r.sc.Bytes(), "\r")
	return r.line, true
}

// unread pushes the current line back so the next call to next returns it.
func (r *Reader) unread() { r.peeked = true }

// skipBlank advances to the first line with visible content.
func (r *Reader) skipBlank() ([]byte, bool) {
	for {
		line, ok := r.next()
		if !ok {
			return nil, false
		}
		if t := bytes.TrimSpace(line); len(t) > 0 {
			return t, true
		}
	}
}

// eofErr distinguishes a clean end of stream from an unreadable one.
func (r *Reader) eofErr() error {
	if r.err != nil {
		return fmt.Errorf("reading input: %w", r.err)
	}
	return io.EOF
}

// truncated classifies a record cut off mid-way: a stream error if the
// scanner failed, otherwise a recoverable per-record error.
func (r *Reader) truncated(start int, what string) error {
	if r.err != nil {
		return fmt.Errorf("reading input: %w", r.err)
	}
	return &RecordError{Line: start, Msg: "truncated record: missing " + what}
}

// Read returns the next record. It returns io.EOF at the end of the stream,
// a *RecordError for a malformed record (reading may continue), and any
// other error for an unreadable stream.
func (r *Reader) Read() (*Record, error) {
	line, ok := r.skipBlank()
	if !ok {
		return nil, r.eofErr()
	}
	if r.format == FormatUnknown {
		switch line[0] {
		case '>':
			r.format = FormatFasta
		case '@':
			r.format = FormatFastq
		default:
			return nil, fmt.Errorf("unrecognized sequence format: line %d starts with %q, want '>' or '@'", r.lineNum, line[0])
		}
	}
	if r.format == FormatFasta {
		return r.readFasta(line)
	}
	return r.readFastq(line)
}

// headerID extracts the record identifier: the first whitespace-delimited
// token after the marker character.
func headerID(header []byte) string {
	fields := bytes.Fields(header[1:])
	if len(fields) == 0 {
		return ""
	}
	return string(fields[0])
}

func (r *Reader) readFasta(header []byte) (*Record, error) {
	start := r.lineNum
	if header[0] != '>' {
		// Stray data between records. Skip ahead to the next header so the
		// following Read can resynchronize.
		for {
			line, ok := r.next()
			if !ok {
				break
			}
			if len(line) > 0 && line[0] == '>' {
				r.unread()
				break
			}
		}
		return nil, &RecordError{Line: start, Msg: "expected FASTA header starting with '>'"}
	}

	id := headerID(header)
	var seq []byte
	for {
		line, ok := r.next()
		if !ok {
			break
		}
		if len(line) > 0 && line[0] == '>' {
			r.unread()
			break
		}
		seq = append(seq, bytes.TrimSpace(line)...)
	}
	if len(seq) == 0 && !r.peeked {
		// Header-only fragment at the end of the stream.
		return nil, r.eofErr()
	}
	return &Record{ID: id, Seq: seq}, nil
}

func (r *Reader) readFastq(header []byte) (*Record, error) {
	start := r.lineNum
	if header[0] != '@' {
		return nil, &RecordError{Line: start, Msg: "expected FASTQ header starting with '@'"}
	}
	id := headerID(header)

	line, ok := r.next()
	if !ok {
		return nil, r.truncated(start, "sequence line")
	}
	seq := append([]byte(nil), bytes.TrimSpace(line)...)

	line, ok = r.next()
	if !ok {
		return nil, r.truncated(start, "'+' separator line")
	}
	if len(line) == 0 || line[0] != '+' {
		return nil, &RecordError{Line: start, Msg: "expected '+' separator line"}
	}

	line, ok = r.next()
	if !ok {
		return nil, r.truncated(start, "quality line")
	}
	qual := append([]byte(nil), bytes.TrimSpace(line)...)

	if len(qual) != len(seq) {
		return nil, &RecordError{
			Line: start,
			Msg:  fmt.Sprintf("quality length %d does not match sequence length %d", len(qual), len(seq)),
		}
	}
	return &Record{ID: id, Seq: seq, Qual: qual}, nil
}
