package codec

import (
	"fmt"
	"strconv"
	"strings"
)

// Subjects is the number of graded subjects per student record.
const Subjects = 3

// SubjectNames lists the graded subjects in mark order.
var SubjectNames = [Subjects]string{"Math", "Science", "English"}

// Delimiter separates the fields of the on-disk line format.
const Delimiter = "|"

// Student represents one student record. Total, Percentage and Grade are
// derived from Marks; they are recomputed on every decode and mutation and
// never trusted from disk.
type Student struct {
	Roll       int
	Name       string
	Marks      [Subjects]float64
	Total      float64
	Percentage float64
	Grade      string
}

// Calculate recomputes Total, Percentage and Grade from Marks.
func Calculate(s *Student) {
	s.Total = 0
	for _, m := range s.Marks {
		s.Total += m
	}
	s.Percentage = s.Total / (100 * Subjects) * 100
	s.Grade = gradeFor(s.Percentage)
}

// gradeFor maps a percentage to a letter grade, highest threshold first.
func gradeFor(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A+"
	case percentage >= 80:
		return "A"
	case percentage >= 70:
		return "B"
	case percentage >= 60:
		return "C"
	case percentage >= 50:
		return "D"
	default:
		return "F"
	}
}

// ValidName reports whether name is acceptable for storage. Names must be
// non-empty and must not contain the field delimiter, which would corrupt
// the line on the next read.
func ValidName(name string) bool {
	return name != "" && !strings.Contains(name, Delimiter)
}

// ValidMark reports whether a mark is within the 0-100 range.
func ValidMark(mark float64) bool {
	return mark >= 0 && mark <= 100
}

// StudentCodec handles serialization and deserialization of student records.
type StudentCodec struct{}

// NewStudentCodec creates a new student codec instance.
func NewStudentCodec() *StudentCodec {
	return &StudentCodec{}
}

// Encode serializes a student into its line format:
// roll|name|mark1|mark2|mark3 (marks with two fractional digits).
func (c *StudentCodec) Encode(s Student) string {
	fields := make([]string, 0, 2+Subjects)
	fields = append(fields, strconv.Itoa(s.Roll), s.Name)
	for _, m := range s.Marks {
		fields = append(fields, strconv.FormatFloat(m, 'f', 2, 64))
	}
	return strings.Join(fields, Delimiter)
}

// Decode parses one line into a Student. The roll and name tokens are
// required; missing or unparsable mark tokens default to 0.0 so a short
// line still yields a usable record. Derived fields are always recomputed.
func (c *StudentCodec) Decode(line string) (Student, error) {
	line = strings.TrimRight(line, "\r\n")
	tokens := strings.Split(line, Delimiter)
	if len(tokens) < 2 {
		return Student{}, fmt.Errorf("line has %d fields, need at least roll and name", len(tokens))
	}

	roll, err := strconv.Atoi(strings.TrimSpace(tokens[0]))
	if err != nil {
		return Student{}, fmt.Errorf("invalid roll %q: %w", tokens[0], err)
	}
	if tokens[1] == "" {
		return Student{}, fmt.Errorf("empty name for roll %d", roll)
	}

	s := Student{Roll: roll, Name: tokens[1]}
	for i := 0; i < Subjects; i++ {
		if 2+i >= len(tokens) {
			break
		}
		m, err := strconv.ParseFloat(strings.TrimSpace(tokens[2+i]), 64)
		if err != nil {
			continue
		}
		s.Marks[i] = m
	}
	Calculate(&s)
	return s, nil
}
