package logging

// Canonical attribute keys shared across components so log lines stay
// greppable regardless of which stage emitted them.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldSessionID = "session_id"
	FieldSubjectID = "subject_id"
	FieldFile      = "file"
)
