package detection

import (
	"context"
	"errors"
)

// Common detection errors.
var (
	// ErrSourceNotFound indicates the named scan source is not registered.
	ErrSourceNotFound = errors.New("detection source not found")
	// ErrScanFailed indicates a scan cycle could not query the source.
	ErrScanFailed = errors.New("detection scan failed")
)

// Instance represents one observed meeting-application instance, as reported
// by an OS-level window/process probe.
type Instance struct {
	// ProcessID is the external correlation key for the application instance.
	ProcessID string
	// WindowTitle is the observed window title, used as the meeting title.
	WindowTitle string
	// ParticipantCount is the number of participants visible to the probe.
	ParticipantCount int
}

// Source yields, per scan, the set of meeting-application instances
// currently running. The probe mechanism itself (window enumeration,
// process tables, accessibility APIs) lives outside the core.
type Source interface {
	// Name returns the source's unique name.
	Name() string

	// Scan returns the currently observed instances. A transient probe miss
	// should be returned as an error; the scan loop retries on schedule.
	Scan(ctx context.Context) ([]Instance, error)
}
