package report

import "sort"

// Outcome records what happened to a single source file.
type Outcome struct {
	SrcPath    string
	OutPath    string // empty when nothing was written
	SrcBytes   int64
	OutBytes   int64 // equals SrcBytes when the file was skipped
	Changed    bool
	SkipReason string // non-empty iff Changed is false
	OutputHash string // xxhash64 of the written bytes
}

// SavedBytes returns the byte reduction, never negative.
func (o Outcome) SavedBytes() int64 {
	if o.OutBytes >= o.SrcBytes {
		return 0
	}
	return o.SrcBytes - o.OutBytes
}

// SavedPercent returns the reduction as a percentage of the source size.
func (o Outcome) SavedPercent() float64 {
	if o.SrcBytes == 0 {
		return 0
	}
	return float64(o.SavedBytes()) / float64(o.SrcBytes) * 100
}

// Summary aggregates one batch.
type Summary struct {
	TotalFiles    int
	Processed     int
	Skipped       int
	TotalSrcBytes int64
	TotalOutBytes int64
}

// SavedBytes returns the total byte reduction, never negative.
func (s Summary) SavedBytes() int64 {
	if s.TotalOutBytes >= s.TotalSrcBytes {
		return 0
	}
	return s.TotalSrcBytes - s.TotalOutBytes
}

// SavedPercent returns the total reduction as a percentage.
func (s Summary) SavedPercent() float64 {
	if s.TotalSrcBytes == 0 {
		return 0
	}
	return float64(s.SavedBytes()) / float64(s.TotalSrcBytes) * 100
}

// BuildSummary folds outcomes into aggregate counters. Skipped files count
// their source size on both sides, so the totals reflect what a consumer
// of the whole output set actually gains.
func BuildSummary(outcomes []Outcome) Summary {
	var s Summary
	s.TotalFiles = len(outcomes)
	for _, o := range outcomes {
		if o.Changed {
			s.Processed++
		} else {
			s.Skipped++
		}
		s.TotalSrcBytes += o.SrcBytes
		s.TotalOutBytes += o.OutBytes
	}
	return s
}

// ReasonCount pairs a skip reason with how often it occurred.
type ReasonCount struct {
	Reason string
	Count  int
}

// SkipBreakdown tallies skip reasons, most frequent first, ties by name.
func SkipBreakdown(outcomes []Outcome) []ReasonCount {
	counts := make(map[string]int)
	for _, o := range outcomes {
		if !o.Changed && o.SkipReason != "" {
			counts[o.SkipReason]++
		}
	}
	if len(counts) == 0 {
		return nil
	}
	result := make([]ReasonCount, 0, len(counts))
	for reason, n := range counts {
		result = append(result, ReasonCount{Reason: reason, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Reason < result[j].Reason
	})
	return result
}
