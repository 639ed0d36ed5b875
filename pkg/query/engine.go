package query

import (
	"sort"
	"strings"

	"github.com/schoolbench/srms/pkg/codec"
)

// Engine runs searches, sorts and statistics over one in-memory snapshot.
// It never touches the store: callers take a snapshot with ReadAll and,
// if an ordering should be persisted, write it back explicitly.
type Engine struct {
	snapshot []codec.Student
}

// NewEngine creates an engine over the given snapshot.
func NewEngine(snapshot []codec.Student) *Engine {
	return &Engine{snapshot: snapshot}
}

// SearchByName returns every record whose name contains the query,
// case-insensitively. An empty query matches everything.
func (e *Engine) SearchByName(q string) []codec.Student {
	q = strings.ToLower(q)
	var hits []codec.Student
	for _, s := range e.snapshot {
		if strings.Contains(strings.ToLower(s.Name), q) {
			hits = append(hits, s)
		}
	}
	return hits
}

// SearchByRoll returns the record with the given roll. Rolls are unique,
// so the first hit is the only hit.
func (e *Engine) SearchByRoll(roll int) (codec.Student, bool) {
	for _, s := range e.snapshot {
		if s.Roll == roll {
			return s, true
		}
	}
	return codec.Student{}, false
}

// SearchByPercentage returns every record with lo <= percentage <= hi,
// bounds inclusive.
func (e *Engine) SearchByPercentage(lo, hi float64) []codec.Student {
	var hits []codec.Student
	for _, s := range e.snapshot {
		if s.Percentage >= lo && s.Percentage <= hi {
			hits = append(hits, s)
		}
	}
	return hits
}

// SearchByGrade returns every record whose grade matches, ignoring case.
func (e *Engine) SearchByGrade(grade string) []codec.Student {
	var hits []codec.Student
	for _, s := range e.snapshot {
		if strings.EqualFold(s.Grade, grade) {
			hits = append(hits, s)
		}
	}
	return hits
}

// Sort returns a sorted copy of the snapshot. The sort is stable, so
// records comparing equal keep their snapshot order.
func (e *Engine) Sort(order SortOrder) ([]codec.Student, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}

	sorted := make([]codec.Student, len(e.snapshot))
	copy(sorted, e.snapshot)

	switch order {
	case SortRollAsc:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Roll < sorted[j].Roll })
	case SortRollDesc:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Roll > sorted[j].Roll })
	case SortNameAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
		})
	case SortTotalDesc:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Total > sorted[j].Total })
	}
	return sorted, nil
}

// Statistics aggregates the snapshot. ok is false for an empty snapshot,
// in which case the stats are zero-valued.
func (e *Engine) Statistics() (Stats, bool) {
	if len(e.snapshot) == 0 {
		return Stats{}, false
	}

	stats := Stats{
		Count: len(e.snapshot),
		Max:   e.snapshot[0],
		Min:   e.snapshot[0],
	}
	sum := 0.0
	for _, s := range e.snapshot {
		sum += s.Percentage
		// Strict comparisons: an earlier record with an equal
		// percentage is kept.
		if s.Percentage > stats.Max.Percentage {
			stats.Max = s
		}
		if s.Percentage < stats.Min.Percentage {
			stats.Min = s
		}
		if s.Percentage >= PassThreshold {
			stats.PassCount++
		}
	}
	stats.AveragePercentage = sum / float64(stats.Count)
	stats.FailCount = stats.Count - stats.PassCount
	return stats, true
}
