// Package quality converts Phred+33 quality strings to error probabilities.
package quality

import "math"

// PhredOffset is the ASCII offset of the standard Sanger/Illumina encoding.
const PhredOffset = 33

// maxQualByte is '~', the last printable quality character (Phred 93).
const maxQualByte = 126

var errorProbs [256]float64

func init() {
	// Pre-compute error probabilities for Phred scores. Bytes outside the
	// printable Phred+33 range decode to the worst case (p = 1), so a stray
	// corrupt quality character degrades the read's score instead of
	// discarding the read.
	for i := range errorProbs {
		if i < PhredOffset || i > maxQualByte {
			errorProbs[i] = 1.0
			continue
		}
		errorProbs[i] = math.Pow(10, float64(i-PhredOffset)/-10)
	}
}

// ErrorProb returns the error probability encoded by one quality byte.
func ErrorProb(q byte) float64 { return errorProbs[q] }

// AvgError returns the arithmetic mean error probability over qual.
// An empty window scores 0.
func AvgError(qual []byte) float64 {
	if len(qual) == 0 {
		return 0
	}
	var sum float64
	for _, q := range qual {
		sum += errorProbs[q]
	}
	return sum / float64(len(qual))
}
