// Package detection defines the scan-source contract the meeting lifecycle
// manager consumes. A Source reports the meeting-application instances
// currently visible on the host; diffing observed instances against tracked
// meetings happens in the meeting package, not here.
package detection
