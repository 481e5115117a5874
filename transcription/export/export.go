package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kbukum/meetscribe/errors"
	"github.com/kbukum/meetscribe/observability"
	"github.com/kbukum/meetscribe/pipeline"
	"github.com/kbukum/meetscribe/transcription"
)

// SegmentSource yields a meeting's persisted segments in segment-number
// order. *transcription.Manager satisfies it.
type SegmentSource interface {
	Segments(meetingID string) *pipeline.Pipeline[transcription.Segment]
}

// Transcript renders a meeting's ordered transcript in the given format and
// returns the bytes plus a content-type hint. Fails with NoTranscript if the
// meeting has no segments.
func Transcript(ctx context.Context, src SegmentSource, meetingID string, format Format) ([]byte, string, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanExport)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrMeetingID, meetingID)
	observability.SetSpanAttribute(ctx, observability.AttrExportFormat, string(format))

	segments, err := pipeline.Collect(ctx, src.Segments(meetingID))
	if err != nil {
		return nil, "", errors.Repository("load segments", err).WithMeeting(meetingID)
	}
	if len(segments) == 0 {
		return nil, "", errors.NoTranscript(meetingID)
	}

	data, err := Render(segments, format)
	if err != nil {
		return nil, "", err
	}
	return data, format.ContentType(), nil
}

// Render serializes segments, which must already be in segment-number order.
func Render(segments []transcription.Segment, format Format) ([]byte, error) {
	switch format {
	case FormatTXT:
		return renderTXT(segments), nil
	case FormatSRT:
		return renderSRT(segments), nil
	case FormatVTT:
		return renderVTT(segments), nil
	case FormatJSON:
		return json.MarshalIndent(segments, "", "  ")
	case FormatCSV:
		return renderCSV(segments)
	case FormatDOCX:
		return renderDOCX(segments)
	}
	return nil, errors.InvalidInput("format", "unsupported format "+string(format))
}

func renderTXT(segments []transcription.Segment) []byte {
	var b strings.Builder
	for _, seg := range segments {
		if seg.SpeakerID != "" {
			b.WriteString(seg.SpeakerID)
			b.WriteString(": ")
		}
		b.WriteString(seg.Text)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func renderSRT(segments []transcription.Segment) []byte {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(strconv.Itoa(seg.SegmentNumber))
		b.WriteByte('\n')
		b.WriteString(srtTimestamp(seg.StartOffsetMs))
		b.WriteString(" --> ")
		b.WriteString(srtTimestamp(seg.EndOffsetMs))
		b.WriteByte('\n')
		b.WriteString(seg.Text)
		b.WriteString("\n\n")
	}
	return []byte(b.String())
}

func renderVTT(segments []transcription.Segment) []byte {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, seg := range segments {
		// Cue identifier carries the segment number for round-tripping.
		b.WriteString(strconv.Itoa(seg.SegmentNumber))
		b.WriteByte('\n')
		b.WriteString(vttTimestamp(seg.StartOffsetMs))
		b.WriteString(" --> ")
		b.WriteString(vttTimestamp(seg.EndOffsetMs))
		b.WriteByte('\n')
		if seg.SpeakerID != "" {
			b.WriteString("<v " + seg.SpeakerID + ">" + seg.Text + "</v>")
		} else {
			b.WriteString(seg.Text)
		}
		b.WriteString("\n\n")
	}
	return []byte(b.String())
}

func renderCSV(segments []transcription.Segment) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{
		"segment_number", "start_offset_ms", "end_offset_ms",
		"speaker_id", "confidence", "language", "text",
	}); err != nil {
		return nil, err
	}
	for _, seg := range segments {
		if err := w.Write([]string{
			strconv.Itoa(seg.SegmentNumber),
			strconv.FormatInt(seg.StartOffsetMs, 10),
			strconv.FormatInt(seg.EndOffsetMs, 10),
			seg.SpeakerID,
			strconv.FormatFloat(seg.Confidence, 'f', -1, 64),
			seg.Language,
			seg.Text,
		}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// srtTimestamp renders milliseconds as HH:MM:SS,mmm.
func srtTimestamp(ms int64) string {
	return timestamp(ms, ',')
}

// vttTimestamp renders milliseconds as HH:MM:SS.mmm.
func vttTimestamp(ms int64) string {
	return timestamp(ms, '.')
}

func timestamp(ms int64, sep byte) string {
	h := ms / 3600000
	m := (ms % 3600000) / 60000
	s := (ms % 60000) / 1000
	frac := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", h, m, s, sep, frac)
}
