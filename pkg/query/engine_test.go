package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolbench/srms/pkg/codec"
)

// student builds a record whose percentage equals pct by giving every
// subject that mark.
func student(roll int, name string, pct float64) codec.Student {
	s := codec.Student{Roll: roll, Name: name, Marks: [codec.Subjects]float64{pct, pct, pct}}
	codec.Calculate(&s)
	return s
}

func TestEngine_SearchByName(t *testing.T) {
	e := NewEngine([]codec.Student{
		student(1, "Alice Johnson", 90),
		student(2, "Bob", 60),
		student(3, "alina", 70),
	})

	hits := e.SearchByName("ali")
	require.Len(t, hits, 2)
	assert.Equal(t, 1, hits[0].Roll)
	assert.Equal(t, 3, hits[1].Roll)

	assert.Len(t, e.SearchByName("ALICE"), 1, "match is case-insensitive")
	assert.Len(t, e.SearchByName(""), 3, "empty query matches everything")
	assert.Empty(t, e.SearchByName("zzz"))
}

func TestEngine_SearchByRoll(t *testing.T) {
	e := NewEngine([]codec.Student{
		student(1, "Alice", 90),
		student(2, "Bob", 60),
	})

	s, ok := e.SearchByRoll(2)
	require.True(t, ok)
	assert.Equal(t, "Bob", s.Name)

	_, ok = e.SearchByRoll(99)
	assert.False(t, ok)
}

func TestEngine_SearchByPercentage_InclusiveBounds(t *testing.T) {
	e := NewEngine([]codec.Student{
		student(1, "a", 50),
		student(2, "b", 60),
		student(3, "c", 70),
	})

	hits := e.SearchByPercentage(50, 60)
	require.Len(t, hits, 2)
	assert.Equal(t, 1, hits[0].Roll)
	assert.Equal(t, 2, hits[1].Roll)

	assert.Empty(t, e.SearchByPercentage(71, 100))
}

func TestEngine_SearchByGrade(t *testing.T) {
	e := NewEngine([]codec.Student{
		student(1, "a", 95), // A+
		student(2, "b", 85), // A
		student(3, "c", 92), // A+
	})

	hits := e.SearchByGrade("a+")
	require.Len(t, hits, 2)
	assert.Equal(t, 1, hits[0].Roll)
	assert.Equal(t, 3, hits[1].Roll)

	assert.Len(t, e.SearchByGrade("A"), 1)
	assert.Empty(t, e.SearchByGrade("B"))
}

func TestEngine_Sort(t *testing.T) {
	snapshot := []codec.Student{
		student(2, "bob", 60),
		student(3, "Alice", 90),
		student(1, "carol", 70),
	}
	e := NewEngine(snapshot)

	rolls := func(students []codec.Student) []int {
		out := make([]int, len(students))
		for i, s := range students {
			out[i] = s.Roll
		}
		return out
	}

	sorted, err := e.Sort(SortRollAsc)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, rolls(sorted))

	sorted, err = e.Sort(SortRollDesc)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1}, rolls(sorted))

	sorted, err = e.Sort(SortNameAsc)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1}, rolls(sorted), "name sort is case-insensitive")

	sorted, err = e.Sort(SortTotalDesc)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, rolls(sorted))

	// Snapshot itself is untouched.
	assert.Equal(t, []int{2, 3, 1}, rolls(snapshot))

	_, err = e.Sort(SortOrder(42))
	assert.Error(t, err)
}

func TestEngine_Sort_EqualTotalsKeepSnapshotOrder(t *testing.T) {
	e := NewEngine([]codec.Student{
		student(5, "first", 70),
		student(9, "second", 70),
		student(2, "third", 80),
	})

	sorted, err := e.Sort(SortTotalDesc)
	require.NoError(t, err)
	require.Len(t, sorted, 3)
	assert.Equal(t, 2, sorted[0].Roll)
	assert.Equal(t, 5, sorted[1].Roll, "earlier of the tied records comes first")
	assert.Equal(t, 9, sorted[2].Roll)
}

func TestEngine_Statistics(t *testing.T) {
	e := NewEngine([]codec.Student{
		student(1, "low", 40),
		student(2, "mid", 70),
		student(3, "also70", 70),
	})

	stats, ok := e.Statistics()
	require.True(t, ok)
	assert.Equal(t, 3, stats.Count)
	assert.InDelta(t, 60.0, stats.AveragePercentage, 1e-9)
	assert.Equal(t, 2, stats.Max.Roll, "first of the tied maxima wins")
	assert.Equal(t, 1, stats.Min.Roll)
	assert.Equal(t, 2, stats.PassCount)
	assert.Equal(t, 1, stats.FailCount)
}

func TestEngine_Statistics_Empty(t *testing.T) {
	stats, ok := NewEngine(nil).Statistics()
	assert.False(t, ok)
	assert.Zero(t, stats.Count)
}

func TestEngine_Statistics_ExactPassBoundary(t *testing.T) {
	e := NewEngine([]codec.Student{
		student(1, "edge", 50),
		student(2, "under", 49.99),
	})

	stats, ok := e.Statistics()
	require.True(t, ok)
	assert.Equal(t, 1, stats.PassCount)
	assert.Equal(t, 1, stats.FailCount)
}
