/*
overlap.go - Pairwise overlap detection for one employee's day

PURPOSE:
  Given the shift entries one employee holds on one day, report every pair
  whose scheduled ranges overlap. Split shifts (non-overlapping entries on
  the same date) are legal; interior overlap is not.

COMPLEXITY:
  All-pairs O(n²). n is the number of shifts per employee per day, which is
  always small, so nothing cleverer is warranted.

DETERMINISM:
  Pairs are reported in input order (i < j), and each pair carries both
  entries' input indexes so violation messages are reproducible.
*/
package schedule

// OverlapPair identifies two overlapping entries by their input indexes and
// scheduled time ranges.
type OverlapPair struct {
	FirstIndex  int
	SecondIndex int
	First       TimeRange
	Second      TimeRange
}

// indexedRange ties a time range back to its position in the submitted batch.
type indexedRange struct {
	Index int
	Range TimeRange
}

// detectOverlaps runs the all-pairs comparison over one employee's ranges
// for one day, in input order.
func detectOverlaps(ranges []indexedRange) []OverlapPair {
	var pairs []OverlapPair
	for i := 0; i < len(ranges); i++ {
		for j := i + 1; j < len(ranges); j++ {
			if ranges[i].Range.Overlaps(ranges[j].Range) {
				pairs = append(pairs, OverlapPair{
					FirstIndex:  ranges[i].Index,
					SecondIndex: ranges[j].Index,
					First:       ranges[i].Range,
					Second:      ranges[j].Range,
				})
			}
		}
	}
	return pairs
}

// DetectEntryOverlaps reports every overlapping pair among entries, which
// must all belong to one employee on one day. Indexes refer to positions in
// the entries slice.
func DetectEntryOverlaps(entries []*ShiftEntry) []OverlapPair {
	ranges := make([]indexedRange, len(entries))
	for i, e := range entries {
		ranges[i] = indexedRange{Index: i, Range: e.ScheduledRange()}
	}
	return detectOverlaps(ranges)
}
