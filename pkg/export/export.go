// Package export writes snapshot-derived report files and performs
// file-level backup, restore and mask operations on the student file.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/schoolbench/srms/pkg/codec"
)

// Errors
var (
	ErrNoSource = errors.New("student file not found")
	ErrNoBackup = errors.New("backup file not found")
)

// Config holds the file paths the subsystem operates on.
type Config struct {
	StudentFile   string
	BackupFile    string
	CSVFile       string
	ReportFile    string
	MaskChunkSize int // defaults to 4096
}

// Exporter implements export, backup, restore and the mask toggle.
type Exporter struct {
	config Config
	log    *slog.Logger
}

// New creates an exporter. A nil logger falls back to slog.Default().
func New(config Config, logger *slog.Logger) *Exporter {
	if config.MaskChunkSize <= 0 {
		config.MaskChunkSize = 4096
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{config: config, log: logger}
}

// Export writes the CSV file and the human-readable report from the same
// snapshot. The semantics are both-or-neither: both outputs are staged as
// temp files and only renamed into place once both writes succeeded.
func (e *Exporter) Export(snapshot []codec.Student) error {
	now := time.Now()

	csvTmp, err := e.stage(e.config.CSVFile, func(w *bufio.Writer) error {
		return writeCSV(w, snapshot)
	})
	if err != nil {
		return fmt.Errorf("failed to write CSV export: %w", err)
	}

	reportTmp, err := e.stage(e.config.ReportFile, func(w *bufio.Writer) error {
		return writeReport(w, snapshot, now)
	})
	if err != nil {
		os.Remove(csvTmp)
		return fmt.Errorf("failed to write report: %w", err)
	}

	if err := os.Rename(csvTmp, e.config.CSVFile); err != nil {
		os.Remove(csvTmp)
		os.Remove(reportTmp)
		return fmt.Errorf("failed to finalize CSV export: %w", err)
	}
	if err := os.Rename(reportTmp, e.config.ReportFile); err != nil {
		os.Remove(reportTmp)
		return fmt.Errorf("failed to finalize report: %w", err)
	}

	e.log.Info("exported snapshot", "records", len(snapshot),
		"csv", e.config.CSVFile, "report", e.config.ReportFile)
	return nil
}

// stage writes content to a temp file next to target and returns the temp
// path. The caller renames or removes it.
func (e *Exporter) stage(target string, write func(w *bufio.Writer) error) (string, error) {
	dir := filepath.Dir(target)
	f, err := os.CreateTemp(dir, "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return "", err
	}
	w := bufio.NewWriter(f)
	if err := write(w); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// writeCSV emits the tabular export. Names are always quoted, matching
// the documented header format Roll,Name,<subjects>,Total,Percentage,Grade.
func writeCSV(w *bufio.Writer, snapshot []codec.Student) error {
	if _, err := fmt.Fprint(w, "Roll,Name"); err != nil {
		return err
	}
	for _, subject := range codec.SubjectNames {
		if _, err := fmt.Fprintf(w, ",%s", subject); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ",Total,Percentage,Grade"); err != nil {
		return err
	}

	for _, s := range snapshot {
		if _, err := fmt.Fprintf(w, "%d,\"%s\"", s.Roll, s.Name); err != nil {
			return err
		}
		for _, m := range s.Marks {
			if _, err := fmt.Fprintf(w, ",%.2f", m); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, ",%.2f,%.2f,%s\n", s.Total, s.Percentage, s.Grade); err != nil {
			return err
		}
	}
	return nil
}

// writeReport emits the plain-text report with a generation timestamp and
// a separator line after every record.
func writeReport(w *bufio.Writer, snapshot []codec.Student, now time.Time) error {
	if _, err := fmt.Fprintf(w, "Student Report Generated on %s\n\n", now.Format(time.ANSIC)); err != nil {
		return err
	}
	for _, s := range snapshot {
		if _, err := fmt.Fprintf(w, "Roll: %d\nName: %s\n", s.Roll, s.Name); err != nil {
			return err
		}
		for i, subject := range codec.SubjectNames {
			if _, err := fmt.Fprintf(w, "%s: %.2f\n", subject, s.Marks[i]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "Total: %.2f\nPercentage: %.2f\nGrade: %s\n-----------------\n",
			s.Total, s.Percentage, s.Grade); err != nil {
			return err
		}
	}
	return nil
}

// Backup copies the student file verbatim to the backup path. A missing
// source is ErrNoSource.
func (e *Exporter) Backup() error {
	if err := copyFile(e.config.StudentFile, e.config.BackupFile); err != nil {
		if os.IsNotExist(err) {
			return ErrNoSource
		}
		return fmt.Errorf("backup failed: %w", err)
	}
	e.log.Info("backup written", "file", e.config.BackupFile)
	return nil
}

// Restore copies the backup over the student file, replacing it entirely.
// A missing backup is ErrNoBackup. Asking the user for confirmation is
// the caller's job.
func (e *Exporter) Restore() error {
	if err := copyFile(e.config.BackupFile, e.config.StudentFile); err != nil {
		if os.IsNotExist(err) {
			return ErrNoBackup
		}
		return fmt.Errorf("restore failed: %w", err)
	}
	e.log.Info("restore complete", "file", e.config.StudentFile)
	return nil
}

// copyFile replaces dst with a byte-identical copy of src, staged through
// a temp file so dst is never left half-written.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	dir := filepath.Dir(dst)
	out, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(out.Name())
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return err
	}
	if err := os.Rename(out.Name(), dst); err != nil {
		os.Remove(out.Name())
		return err
	}
	return nil
}

// MaskToggle XORs every byte of the student file with key, in place, in
// fixed-size chunks, seeking back to each chunk's start before writing.
// Applying the same key twice restores the original bytes. This is a
// reversible masking transform, not encryption: it hides the records from
// casual inspection and nothing more.
func (e *Exporter) MaskToggle(key byte) error {
	f, err := os.OpenFile(e.config.StudentFile, os.O_RDWR, 0644)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNoSource
		}
		return fmt.Errorf("failed to open %s: %w", e.config.StudentFile, err)
	}
	defer f.Close()

	buf := make([]byte, e.config.MaskChunkSize)
	var pos int64
	for {
		n, err := f.ReadAt(buf, pos)
		if n > 0 {
			for i := 0; i < n; i++ {
				buf[i] ^= key
			}
			if _, werr := f.WriteAt(buf[:n], pos); werr != nil {
				return fmt.Errorf("failed to write masked chunk at %d: %w", pos, werr)
			}
			pos += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read chunk at %d: %w", pos, err)
		}
	}

	e.log.Info("mask toggled", "file", e.config.StudentFile, "bytes", pos)
	return nil
}
