package pipeline

// RejectReason classifies why a record was dropped from a batch. The string
// form is stable and readable, suitable for summaries and API payloads.
type RejectReason string

const (
	RejectMalformed      RejectReason = "malformed_record"
	RejectEmptyAfterTrim RejectReason = "empty_after_trim"
	RejectLength         RejectReason = "length_out_of_range"
	RejectQuality        RejectReason = "low_quality"
)

// ProcessedRecord is one accepted read after trimming and filtering.
type ProcessedRecord struct {
	ID       string
	Sequence string
	Length   int // always len(Sequence)

	// Quality is the trimmed quality window and AvgError its mean per-base
	// error probability. Both are meaningful only when HasQuality is set,
	// i.e. the source record was FASTQ.
	Quality    string
	AvgError   float64
	HasQuality bool
}

// BatchResult aggregates one Process invocation.
// TotalInput == TotalAccepted + the sum over Rejections always holds.
type BatchResult struct {
	Accepted      []ProcessedRecord // in input order
	TotalInput    int
	TotalAccepted int
	Rejections    map[RejectReason]int // only reasons that occurred
}
