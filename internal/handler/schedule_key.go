package handler

import (
	"fmt"
	"net/url"
	"strings"
)

// scheduleKeySeparator joins the two halves of a persisted schedule's
// composite key into the single path segment the HTTP driver's :id
// parameter carries, since academic_year and semester_label together (not
// either alone) identify one stored ledger.
const scheduleKeySeparator = "~"

// encodeScheduleKey renders a schedule's composite key as a URL path
// segment.
func encodeScheduleKey(academicYear, semesterLabel string) string {
	return url.PathEscape(academicYear) + scheduleKeySeparator + url.PathEscape(semesterLabel)
}

// decodeScheduleKey parses a path segment produced by encodeScheduleKey back
// into its two halves.
func decodeScheduleKey(raw string) (academicYear, semesterLabel string, err error) {
	parts := strings.SplitN(raw, scheduleKeySeparator, 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("malformed schedule id %q", raw)
	}
	academicYear, err = url.PathUnescape(parts[0])
	if err != nil {
		return "", "", fmt.Errorf("malformed schedule id %q: %w", raw, err)
	}
	semesterLabel, err = url.PathUnescape(parts[1])
	if err != nil {
		return "", "", fmt.Errorf("malformed schedule id %q: %w", raw, err)
	}
	if academicYear == "" || semesterLabel == "" {
		return "", "", fmt.Errorf("malformed schedule id %q", raw)
	}
	return academicYear, semesterLabel, nil
}
