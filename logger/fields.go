package logger

import (
	"time"
)

// Standard field key constants for structured logging.
const (
	FieldComponent     = "component"
	FieldOperation     = "operation"
	FieldStatus        = "status"
	FieldError         = "error"
	FieldDuration      = "duration_ms"
	FieldMeetingID     = "meeting_id"
	FieldProcessID     = "process_id"
	FieldScanSource    = "scan_source"
	FieldSegmentNumber = "segment_number"
	FieldSummaryType   = "summary_type"
	FieldSubscriberID  = "subscriber_id"
	FieldEventType     = "event_type"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("done", logger.Fields("op", "save", "id", 42))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// DurationFields creates fields for a timed operation.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldDuration:  d.Milliseconds(),
	}
}

// MeetingFields creates fields for an operation scoped to a meeting.
func MeetingFields(meetingID, op string) map[string]interface{} {
	return map[string]interface{}{
		FieldMeetingID: meetingID,
		FieldOperation: op,
	}
}
