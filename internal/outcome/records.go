package outcome

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"photosort/internal/config"
)

// Status of a recorded session attempt.
type Status string

const (
	StatusDone   Status = "done"
	StatusFailed Status = "failed"
)

// Record is one parsed outcome record file.
type Record struct {
	SessionID  string
	SubjectID  string
	Status     Status
	FilesMoved int
	Error      string
	RecordedAt time.Time
	Path       string
}

// List reads the done and error folders and returns all parseable records,
// newest session first. Unreadable files are skipped; the folders hold only
// what the recorder wrote, but a half-deleted file must not break listing.
func List(cfg *config.Config) ([]Record, error) {
	var records []Record

	done, err := readFolder(cfg.DoneDir(), StatusDone)
	if err != nil {
		return nil, err
	}
	records = append(records, done...)

	failed, err := readFolder(cfg.ErrorDir(), StatusFailed)
	if err != nil {
		return nil, err
	}
	records = append(records, failed...)

	sort.Slice(records, func(i, j int) bool {
		return records[i].SessionID > records[j].SessionID
	})
	return records, nil
}

// Counts returns the number of success and failure records.
func Counts(cfg *config.Config) (done, failed int, err error) {
	records, err := List(cfg)
	if err != nil {
		return 0, 0, err
	}
	for _, record := range records {
		if record.Status == StatusDone {
			done++
		} else {
			failed++
		}
	}
	return done, failed, nil
}

func readFolder(dir string, status Status) ([]Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read outcome folder %s: %w", dir, err)
	}

	var records []Record
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		body, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		record := parseRecord(string(body))
		record.Status = status
		record.Path = path
		if record.SessionID == "" {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func parseRecord(body string) Record {
	var record Record
	for _, line := range strings.Split(body, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "session":
			record.SessionID = value
		case "subject":
			record.SubjectID = value
		case "files_moved":
			if n, err := strconv.Atoi(value); err == nil {
				record.FilesMoved = n
			}
		case "error":
			record.Error = value
		case "completed_at", "failed_at":
			if ts, err := time.Parse(time.RFC3339, value); err == nil {
				record.RecordedAt = ts
			}
		}
	}
	return record
}
