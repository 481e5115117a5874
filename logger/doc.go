// Package logger provides structured logging for the meetscribe core
// using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields keyed by the domain
// constants in fields.go (meeting_id, segment_number, scan_source, ...).
//
// # Usage
//
//	log := logger.Get("lifecycle")
//	log.Info("meeting detected", logger.MeetingFields(id, "scan"))
package logger
