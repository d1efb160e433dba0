package common

import (
	"time"

	"github.com/google/uuid"
)

// NewRunID generates the RunID used as the output subdirectory name,
// format YYYYMMDD_HHMMSS per spec.md section 6.
func NewRunID(now time.Time) string {
	return now.Format("20060102_150405")
}

// NewFailureLogID generates a unique id for one failure-log entry, kept
// in the same "prefix_uuid" style the teacher used for document ids.
func NewFailureLogID() string {
	return "fail_" + uuid.New().String()
}
