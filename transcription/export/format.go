package export

import (
	"strings"

	"github.com/kbukum/meetscribe/errors"
)

// Format is a transcript export format.
type Format string

const (
	FormatTXT  Format = "txt"
	FormatSRT  Format = "srt"
	FormatVTT  Format = "vtt"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatDOCX Format = "docx"
)

// Formats lists every supported export format.
func Formats() []Format {
	return []Format{FormatTXT, FormatSRT, FormatVTT, FormatJSON, FormatCSV, FormatDOCX}
}

// ParseFormat normalizes and validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatTXT, FormatSRT, FormatVTT, FormatJSON, FormatCSV, FormatDOCX:
		return f, nil
	}
	return "", errors.InvalidInput("format", "must be one of txt, srt, vtt, json, csv, docx")
}

// ContentType returns the MIME content-type hint for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatTXT:
		return "text/plain; charset=utf-8"
	case FormatSRT:
		return "application/x-subrip"
	case FormatVTT:
		return "text/vtt"
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/octet-stream"
}

// Extension returns the conventional file extension for the format.
func (f Format) Extension() string {
	return "." + string(f)
}
