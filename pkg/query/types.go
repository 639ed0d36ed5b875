package query

import (
	"fmt"

	"github.com/schoolbench/srms/pkg/codec"
)

// SortOrder selects one of the supported orderings.
type SortOrder int

const (
	SortRollAsc SortOrder = iota
	SortRollDesc
	SortNameAsc
	SortTotalDesc
)

// Validate checks that the order is one of the supported values.
func (o SortOrder) Validate() error {
	switch o {
	case SortRollAsc, SortRollDesc, SortNameAsc, SortTotalDesc:
		return nil
	default:
		return fmt.Errorf("invalid sort order: %d", int(o))
	}
}

func (o SortOrder) String() string {
	switch o {
	case SortRollAsc:
		return "roll ascending"
	case SortRollDesc:
		return "roll descending"
	case SortNameAsc:
		return "name ascending"
	case SortTotalDesc:
		return "total descending"
	default:
		return fmt.Sprintf("sort order %d", int(o))
	}
}

// Stats aggregates one snapshot. Max and Min hold the first record in
// snapshot order carrying the highest and lowest percentage; ties keep
// the earlier record.
type Stats struct {
	Count             int
	AveragePercentage float64
	Max               codec.Student
	Min               codec.Student
	PassCount         int
	FailCount         int
}

// PassThreshold is the percentage at or above which a record counts as a
// pass.
const PassThreshold = 50.0
