package trim

import (
	"errors"

	"aptatrim/seqio"
)

// ErrEmptyInsert marks a read whose constant regions cover the whole
// sequence, leaving nothing to keep.
var ErrEmptyInsert = errors.New("trimming consumed the whole read")

// Trimmer strips the 5' and 3' constant regions from reads. An empty
// pattern disables trimming at that end.
type Trimmer struct {
	Five     Pattern
	Three    Pattern
	MaxShift int // window drift allowance passed to Find
}

// Trim removes both constant regions and returns the insert between them.
// The 5' region is located first; the 3' region is searched in the
// remainder, so a 3' match inside the 5' region is impossible. Quality
// bytes, when present, are sliced with exactly the insert's coordinates.
//
// The returned record shares underlying storage with rec.
func (t *Trimmer) Trim(rec *seqio.Record) (*seqio.Record, error) {
	start, end := 0, len(rec.Seq)
	if m := Find(rec.Seq, t.Five, FivePrime, t.MaxShift); m.Found {
		start = m.Pos + m.Length
	}
	if m := Find(rec.Seq[start:end], t.Three, ThreePrime, t.MaxShift); m.Found {
		end = start + m.Pos
	}
	if start >= end {
		return nil, ErrEmptyInsert
	}
	out := &seqio.Record{ID: rec.ID, Seq: rec.Seq[start:end]}
	if rec.Qual != nil {
		out.Qual = rec.Qual[start:end]
	}
	return out, nil
}
