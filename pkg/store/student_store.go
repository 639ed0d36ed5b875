package store

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/schoolbench/srms/pkg/codec"
)

// StudentStore owns the student record file. It is the sole writer of that
// file; readers get an in-memory snapshot and persist changes through
// Append or Overwrite.
type StudentStore struct {
	path  string
	codec *codec.StudentCodec
	log   *slog.Logger
}

// NewStudentStore creates a student store over the configured file.
func NewStudentStore(config StudentStoreConfig) *StudentStore {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &StudentStore{
		path:  config.FilePath,
		codec: codec.NewStudentCodec(),
		log:   logger,
	}
}

// Path returns the path of the backing file.
func (st *StudentStore) Path() string {
	return st.path
}

// ReadAll returns every decodable record in file order. A missing file is
// an empty store, not an error. Malformed lines are skipped so one bad
// line never takes down the whole load.
func (st *StudentStore) ReadAll() ([]codec.Student, error) {
	f, err := os.Open(st.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []codec.Student{}, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", st.path, err)
	}
	defer f.Close()

	var students []codec.Student
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		s, err := st.codec.Decode(line)
		if err != nil {
			st.log.Warn("skipping malformed record", "file", st.path, "line", lineNo, "err", err)
			continue
		}
		students = append(students, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", st.path, err)
	}
	if students == nil {
		students = []codec.Student{}
	}
	return students, nil
}

// Exists reports whether a record with the given roll is on disk. It scans
// a fresh read so the answer always reflects the latest file state.
func (st *StudentStore) Exists(roll int) (bool, error) {
	students, err := st.ReadAll()
	if err != nil {
		return false, err
	}
	for _, s := range students {
		if s.Roll == roll {
			return true, nil
		}
	}
	return false, nil
}

// Find returns the record with the given roll, or ErrRollNotFound.
func (st *StudentStore) Find(roll int) (codec.Student, error) {
	students, err := st.ReadAll()
	if err != nil {
		return codec.Student{}, err
	}
	for _, s := range students {
		if s.Roll == roll {
			return s, nil
		}
	}
	return codec.Student{}, ErrRollNotFound
}

// Append writes one encoded record to the end of the file, creating it if
// needed. Uniqueness of the roll is the caller's check-then-act via Exists.
func (st *StudentStore) Append(s codec.Student) error {
	f, err := os.OpenFile(st.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s for append: %w", st.path, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, st.codec.Encode(s)); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	return nil
}

// Overwrite replaces the whole file with the given records, in the given
// order. The rewrite goes through a temp file and rename, so a crash
// mid-write cannot leave a partial file behind. This is the only mutation
// primitive for update, delete, sort-persist and delete-all.
func (st *StudentStore) Overwrite(students []codec.Student) error {
	return writeFileAtomic(st.path, func(f *os.File) error {
		w := bufio.NewWriter(f)
		for _, s := range students {
			if _, err := fmt.Fprintln(w, st.codec.Encode(s)); err != nil {
				return fmt.Errorf("failed to write record: %w", err)
			}
		}
		return w.Flush()
	})
}

// DeleteAll truncates the store to empty.
func (st *StudentStore) DeleteAll() error {
	return st.Overwrite(nil)
}
