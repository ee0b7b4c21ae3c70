package usecase

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"flightlog-service/internal/domain/entity"
)

// ImportError reports a malformed backup file. The import is aborted as a
// whole; no partial replace happens.
type ImportError struct {
	Err error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("backup import failed: %v", e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// BackupFilename returns the date-stamped export filename
func BackupFilename(now time.Time) string {
	return fmt.Sprintf("flight-reports-%s.json", now.Format("2006-01-02"))
}

// WriteBackup writes the collection as an indented JSON array
func WriteBackup(w io.Writer, reports []*entity.FlightReport) error {
	if reports == nil {
		reports = []*entity.FlightReport{}
	}
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// ReadBackup parses a backup file. Any JSON array of report objects is
// accepted; anything else aborts with an ImportError.
func ReadBackup(r io.Reader) ([]*entity.FlightReport, error) {
	var reports []*entity.FlightReport
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&reports); err != nil {
		return nil, &ImportError{Err: err}
	}
	if reports == nil {
		reports = []*entity.FlightReport{}
	}
	return reports, nil
}
