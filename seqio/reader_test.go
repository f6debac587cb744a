package seqio

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r *Reader) []*Record {
	t.Helper()
	var recs []*Record
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return recs
		}
		require.NoError(t, err)
		recs = append(recs, rec)
	}
}

func TestReadFasta(t *testing.T) {
	in := ">seq1 first sequence\n" +
		"ACGT\n" +
		"ACGT\n" +
		">seq2\n" +
		"TTTT\n"
	r, err := NewReader(strings.NewReader(in))
	require.NoError(t, err)

	recs := readAll(t, r)
	require.Len(t, recs, 2)
	assert.Equal(t, "seq1", recs[0].ID)
	assert.Equal(t, "ACGTACGT", string(recs[0].Seq))
	assert.Nil(t, recs[0].Qual)
	assert.Equal(t, "seq2", recs[1].ID)
	assert.Equal(t, "TTTT", string(recs[1].Seq))
	assert.Equal(t, FormatFasta, r.Format())
}

func TestReadFastq(t *testing.T) {
	in := "@read1 lane=1\n" +
		"ACGT\n" +
		"+\n" +
		"IIII\n" +
		"@read2\n" +
		"GG\n" +
		"+read2\n" +
		"!!\n"
	r, err := NewReader(strings.NewReader(in))
	require.NoError(t, err)

	recs := readAll(t, r)
	require.Len(t, recs, 2)
	assert.Equal(t, "read1", recs[0].ID)
	assert.Equal(t, "ACGT", string(recs[0].Seq))
	assert.Equal(t, "IIII", string(recs[0].Qual))
	assert.Equal(t, "read2", recs[1].ID)
	assert.Equal(t, "!!", string(recs[1].Qual))
	assert.Equal(t, FormatFastq, r.Format())
}

func TestReadFastqQualityLengthMismatch(t *testing.T) {
	in := "@bad\n" +
		"ACGT\n" +
		"+\n" +
		"II\n" + // two quality bytes for four bases
		"@good\n" +
		"ACGT\n" +
		"+\n" +
		"IIII\n"
	r, err := NewReader(strings.NewReader(in))
	require.NoError(t, err)

	_, err = r.Read()
	var recErr *RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Contains(t, recErr.Msg, "quality length")

	// The reader must stay usable and deliver the next record.
	rec, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, "good", rec.ID)

	_, err = r.Read()
	assert.Equal(t, io.EOF, err)
}

func TestReadFastqTruncated(t *testing.T) {
	in := "@ok\nACGT\n+\nIIII\n@cut\nACGT\n+\n"
	r, err := NewReader(strings.NewReader(in))
	require.NoError(t, err)

	rec, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, "ok", rec.ID)

	_, err = r.Read()
	var recErr *RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Contains(t, recErr.Msg, "truncated")

	_, err = r.Read()
	assert.Equal(t, io.EOF, err)
}

func TestReadSkipsTrailingFragments(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"Trailing blank lines", ">a\nACGT\n\n\n   \n"},
		{"Header-only trailing fragment", ">a\nACGT\n>orphan\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(strings.NewReader(tt.in))
			require.NoError(t, err)
			recs := readAll(t, r)
			require.Len(t, recs, 1)
			assert.Equal(t, "a", recs[0].ID)
		})
	}
}

func TestReadCRLF(t *testing.T) {
	in := "@r\r\nACGT\r\n+\r\nIIII\r\n"
	r, err := NewReader(strings.NewReader(in))
	require.NoError(t, err)
	recs := readAll(t, r)
	require.Len(t, recs, 1)
	assert.Equal(t, "ACGT", string(recs[0].Seq))
	assert.Equal(t, "IIII", string(recs[0].Qual))
}

func TestReadUnrecognizedFormat(t *testing.T) {
	r, err := NewReader(strings.NewReader("this is not sequence data\n"))
	require.NoError(t, err)
	_, err = r.Read()
	require.Error(t, err)
	var recErr *RecordError
	assert.False(t, errors.As(err, &recErr), "format detection failure must be stream-level")
	assert.Contains(t, err.Error(), "unrecognized sequence format")
}

func TestReadEmptyInput(t *testing.T) {
	r, err := NewReader(strings.NewReader(""))
	require.NoError(t, err)
	_, err = r.Read()
	assert.Equal(t, io.EOF, err)
}

func TestReadGzipBySignature(t *testing.T) {
	var buf bytes.Buffer
	gw := pgzip.NewWriter(&buf)
	_, err := gw.Write([]byte(">z\nACGTACGT\n"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	// No file name in sight: detection must work from the magic bytes.
	r, err := NewReader(&buf)
	require.NoError(t, err)
	recs := readAll(t, r)
	require.Len(t, recs, 1)
	assert.Equal(t, "z", recs[0].ID)
	assert.Equal(t, "ACGTACGT", string(recs[0].Seq))
}

func TestReadZstdBySignature(t *testing.T) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = zw.Write([]byte("@z\nACGT\n+\nIIII\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	r, err := NewReader(&buf)
	require.NoError(t, err)
	recs := readAll(t, r)
	require.Len(t, recs, 1)
	assert.Equal(t, "ACGT", string(recs[0].Seq))
	assert.Equal(t, "IIII", string(recs[0].Qual))
}

func TestReadTruncatedGzipIsStreamError(t *testing.T) {
	var buf bytes.Buffer
	gw := pgzip.NewWriter(&buf)
	_, err := gw.Write([]byte(">z\nACGTACGTACGTACGTACGTACGTACGT\n"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	cut := buf.Bytes()[:buf.Len()-6] // chop the gzip trailer

	r, err := NewReader(bytes.NewReader(cut))
	require.NoError(t, err)
	for {
		_, err = r.Read()
		if err != nil {
			break
		}
	}
	require.Error(t, err)
	assert.NotEqual(t, io.EOF, err)
	var recErr *RecordError
	assert.False(t, errors.As(err, &recErr), "decompression failure must be stream-level")
}
