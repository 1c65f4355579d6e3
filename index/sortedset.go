package index

import "sort"

// ssNode is one position in the (score, value) ordered slice.
type ssNode struct {
	value string
	score float64
}

// SortedSetIndex is a dual-indexed structure: a value->score hash for
// O(1) membership and a (score, value) ordered slice for range scans.
// Every insertion that replaces an existing value's score removes the old
// slice position before inserting the new one.
type SortedSetIndex struct {
	byValue map[string]float64
	ordered []ssNode
}

// NewSortedSetIndex creates an empty SortedSetIndex.
func NewSortedSetIndex() *SortedSetIndex {
	return &SortedSetIndex{byValue: make(map[string]float64)}
}

// Upsert sets value's score, repositioning it in the ordered slice if it
// already existed with a different score.
func (s *SortedSetIndex) Upsert(value string, score float64) {
	if old, ok := s.byValue[value]; ok {
		if old == score {
			return
		}
		s.removeOrdered(value, old)
	}
	s.byValue[value] = score
	s.insertOrdered(value, score)
}

// Remove drops value from the set entirely.
func (s *SortedSetIndex) Remove(value string) bool {
	score, ok := s.byValue[value]
	if !ok {
		return false
	}
	delete(s.byValue, value)
	s.removeOrdered(value, score)
	return true
}

// Score returns value's score and whether it is a member.
func (s *SortedSetIndex) Score(value string) (float64, bool) {
	score, ok := s.byValue[value]
	return score, ok
}

// Len reports the number of members.
func (s *SortedSetIndex) Len() int {
	return len(s.byValue)
}

// Range returns members in [start,stop] positions (inclusive, 0-based,
// negative indices counting from the end, list-semantics à la Redis
// ZRANGE) ordered by (score, value).
func (s *SortedSetIndex) Range(start, stop int) []ssNode {
	n := len(s.ordered)
	start = normalizeIndex(start, n)
	stop = normalizeIndex(stop, n)
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || n == 0 {
		return nil
	}
	out := make([]ssNode, stop-start+1)
	copy(out, s.ordered[start:stop+1])
	return out
}

func normalizeIndex(i, n int) int {
	if i < 0 {
		i = n + i
	}
	return i
}

func (s *SortedSetIndex) insertOrdered(value string, score float64) {
	pos := sort.Search(len(s.ordered), func(i int) bool {
		if s.ordered[i].score != score {
			return s.ordered[i].score > score
		}
		return s.ordered[i].value >= value
	})
	s.ordered = append(s.ordered, ssNode{})
	copy(s.ordered[pos+1:], s.ordered[pos:])
	s.ordered[pos] = ssNode{value: value, score: score}
}

func (s *SortedSetIndex) removeOrdered(value string, score float64) {
	pos := sort.Search(len(s.ordered), func(i int) bool {
		if s.ordered[i].score != score {
			return s.ordered[i].score > score
		}
		return s.ordered[i].value >= value
	})
	if pos < len(s.ordered) && s.ordered[pos].value == value {
		s.ordered = append(s.ordered[:pos], s.ordered[pos+1:]...)
	}
}
