package session

import (
	"path/filepath"
	"strings"
	"time"

	"photosort/internal/imagefile"
)

// idFormat keys sessions by the marker capture time at second precision.
// Two markers captured in the same second therefore collide; the archiver
// detects that and rejects the later session instead of overwriting.
const idFormat = "20060102_150405"

// dateFormat names the per-date destination folder.
const dateFormat = "2006.01.02"

// Trigger is the transient event produced when a marker is detected. It
// drives exactly one pipeline run and is never persisted.
type Trigger struct {
	SubjectID  string
	MarkerPath string
	CapturedAt time.Time
}

// ID derives the deterministic session identifier for a marker capture time.
func ID(capturedAt time.Time) string {
	return capturedAt.Format(idFormat)
}

// ID returns the session identifier this trigger will produce.
func (t Trigger) ID() string {
	return ID(t.CapturedAt)
}

// Session is the unit of work triggered by one marker. Once the candidate
// set is computed the session is a fixed snapshot; archiving and organizing
// never re-query the directory.
type Session struct {
	ID         string
	SubjectID  string
	MarkerPath string
	CapturedAt time.Time
	Candidates []imagefile.ImageFile
}

// New builds a session from a trigger and its collected candidates.
func New(trigger Trigger, candidates []imagefile.ImageFile) Session {
	return Session{
		ID:         ID(trigger.CapturedAt),
		SubjectID:  trigger.SubjectID,
		MarkerPath: trigger.MarkerPath,
		CapturedAt: trigger.CapturedAt,
		Candidates: candidates,
	}
}

// DateFolder returns the YYYY.MM.DD destination folder name for the session.
func (s Session) DateFolder() string {
	return s.CapturedAt.Format(dateFormat)
}

// MarkerName returns the relocated marker filename: prefix + subject id +
// the marker's original extension.
func (s Session) MarkerName(prefix string) string {
	ext := strings.ToLower(filepath.Ext(s.MarkerPath))
	return prefix + s.SubjectID + ext
}
