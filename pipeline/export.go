package pipeline

import (
	"io"

	"aptatrim/seqio"
)

// ExportFasta renders the accepted records as FASTA, in their stored order.
// Quality windows and error estimates have no FASTA representation and are
// dropped; re-parsing the output yields the same IDs and sequences.
func (r *BatchResult) ExportFasta(w io.Writer) error {
	fw := seqio.NewFastaWriter(w)
	for i := range r.Accepted {
		if err := fw.Write(r.Accepted[i].ID, []byte(r.Accepted[i].Sequence)); err != nil {
			return err
		}
	}
	return fw.Flush()
}
