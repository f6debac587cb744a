// Package trim locates and removes the constant flanking regions of pool
// reads. Matching is an anchored, budgeted Hamming scan: constant regions
// are short and error rates low, so counting mismatches over a sliding
// window beats a full alignment on both simplicity and speed. This routine
// runs once per read per end and dominates batch CPU time, so the scan
// allocates nothing per candidate offset and bails out of a window as soon
// as it cannot beat the best placement seen.
package trim

// End selects which end of a read a constant region is anchored to.
type End int

const (
	FivePrime End = iota
	ThreePrime
)

// Pattern is a constant region to strip from one end of a read.
type Pattern struct {
	Seq          []byte
	MaxErrorRate float64 // allowed mismatch fraction of the pattern length, in [0,1)
}

func NewPattern(s string, maxErrorRate float64) Pattern {
	return Pattern{Seq: []byte(s), MaxErrorRate: maxErrorRate}
}

// Budget is the absolute mismatch allowance: floor(rate * length).
func (p Pattern) Budget() int {
	return int(p.MaxErrorRate * float64(len(p.Seq)))
}

// Match describes the best placement found for a pattern.
type Match struct {
	Found  bool
	Pos    int // start of the matched span in the haystack
	Errors int // mismatches in the matched span
	Length int // span length; shorter than the pattern only at a read edge
}

// baseEq reports whether two bases match. Comparison is case-insensitive and
// 'N' never matches anything, itself included.
func baseEq(a, b byte) bool {
	if a >= 'a' && a <= 'z' {
		a -= 'a' - 'A'
	}
	if b >= 'a' && b <= 'z' {
		b -= 'a' - 'A'
	}
	return a == b && a != 'N'
}

// countMismatches compares window against the pattern prefix of equal length,
// stopping once the count reaches limit (a worse-or-equal score cannot
// replace the current best).
func countMismatches(window, pattern []byte, limit int) int {
	e := 0
	for i := range pattern {
		if !baseEq(window[i], pattern[i]) {
			e++
			if e >= limit {
				return e
			}
		}
	}
	return e
}

// Find locates p near the given end of seq. The 5' end anchors the pattern
// at position 0 and slides rightward; the 3' end anchors it flush with the
// end of seq and slides leftward. maxShift bounds how many positions the
// window may drift from the anchor; negative means unbounded.
//
// Among placements within the mismatch budget the one with the fewest
// errors wins; ties go to the placement closest to the anchor, which trims
// the least. When seq is shorter than the pattern the anchored comparison
// covers the shortened overlap against the pattern prefix, so partial
// constant regions at read edges are still found; slid placements always
// compare the full pattern.
func Find(seq []byte, p Pattern, end End, maxShift int) Match {
	plen := len(p.Seq)
	if plen == 0 || len(seq) == 0 {
		return Match{}
	}
	budget := p.Budget()
	best := Match{Errors: budget + 1}

	if end == FivePrime {
		// A window may be shorter than the pattern only when the whole
		// haystack is: once the window has slid off the anchor it must be
		// full length, or a 1-base tail overlap scoring zero errors would
		// outrank an in-budget anchored match and overtrim.
		maxOff := len(seq) - plen
		if maxOff < 0 {
			maxOff = 0
		}
		limit := maxShift
		if limit < 0 || limit > maxOff {
			limit = maxOff
		}
		for off := 0; off <= limit; off++ {
			n := plen
			if off+n > len(seq) {
				n = len(seq) - off
			}
			e := countMismatches(seq[off:off+n], p.Seq[:n], best.Errors)
			if e < best.Errors {
				best = Match{Pos: off, Errors: e, Length: n}
				if e == 0 {
					break
				}
			}
		}
	} else {
		anchor := len(seq) - plen
		if anchor < 0 {
			anchor = 0
		}
		limit := maxShift
		if limit < 0 || limit > anchor {
			limit = anchor
		}
		for off := 0; off <= limit; off++ {
			pos := anchor - off
			n := plen
			if pos+n > len(seq) {
				n = len(seq) - pos
			}
			e := countMismatches(seq[pos:pos+n], p.Seq[:n], best.Errors)
			if e < best.Errors {
				best = Match{Pos: pos, Errors: e, Length: n}
				if e == 0 {
					break
				}
			}
		}
	}

	if best.Errors > budget {
		return Match{}
	}
	best.Found = true
	return best
}
