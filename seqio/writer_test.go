package seqio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastaWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	fw := NewFastaWriter(&buf)
	require.NoError(t, fw.Write("seq1", []byte("ACGTACGT")))
	require.NoError(t, fw.Write("seq2", []byte("TTTT")))
	require.NoError(t, fw.Flush())

	assert.Equal(t, ">seq1\nACGTACGT\n>seq2\nTTTT\n", buf.String())

	r, err := NewReader(&buf)
	require.NoError(t, err)
	recs := readAll(t, r)
	require.Len(t, recs, 2)
	assert.Equal(t, "seq1", recs[0].ID)
	assert.Equal(t, "ACGTACGT", string(recs[0].Seq))
	assert.Equal(t, "seq2", recs[1].ID)
	assert.Equal(t, "TTTT", string(recs[1].Seq))
}
