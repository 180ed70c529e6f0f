package driven

import "time"

// MetricsRecorder receives connector pipeline measurements.
type MetricsRecorder interface {
	// AuthAttempt records one Authenticate outcome ("success", "required", "invalid", "error").
	AuthAttempt(connector, outcome string)

	// DocumentsFetched records how many documents a connector produced.
	DocumentsFetched(connector string, count int)

	// FetchDuration records how long a connector's fetch took.
	FetchDuration(connector string, d time.Duration)
}
