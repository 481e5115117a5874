package export

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/meetscribe/errors"
	"github.com/kbukum/meetscribe/pipeline"
	"github.com/kbukum/meetscribe/transcription"
)

func sampleSegments() []transcription.Segment {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	return []transcription.Segment{
		{
			ID: "s1", MeetingID: "m1", SegmentNumber: 1,
			StartOffsetMs: 0, EndOffsetMs: 1250,
			Text: "hello everyone", Confidence: 0.92,
			SpeakerID: "spk-1", IsFinal: true, Language: "en", CreatedAt: now,
		},
		{
			ID: "s2", MeetingID: "m1", SegmentNumber: 2,
			StartOffsetMs: 1300, EndOffsetMs: 3605,
			Text: "let's get started", Confidence: 0.87,
			IsFinal: true, Language: "en", CreatedAt: now.Add(2 * time.Second),
		},
		{
			ID: "s3", MeetingID: "m1", SegmentNumber: 3,
			StartOffsetMs: 3_661_000, EndOffsetMs: 3_662_500,
			Text: "wrapping up", Confidence: 0.95,
			SpeakerID: "spk-2", IsFinal: true, Language: "en", CreatedAt: now.Add(time.Hour),
		},
	}
}

// sliceSource serves a fixed transcript.
type sliceSource struct {
	segments []transcription.Segment
}

func (s *sliceSource) Segments(string) *pipeline.Pipeline[transcription.Segment] {
	return pipeline.FromSlice(s.segments)
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats() {
		got, err := ParseFormat(strings.ToUpper(string(f)))
		require.NoError(t, err)
		assert.Equal(t, f, got)
		assert.NotEmpty(t, f.ContentType())
	}

	_, err := ParseFormat("mp3")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
}

func TestSRTRoundTrip(t *testing.T) {
	segments := sampleSegments()
	data, err := Render(segments, FormatSRT)
	require.NoError(t, err)

	cues, err := ParseSRT(data)
	require.NoError(t, err)
	assert.True(t, CuesMatch(cues, segments), "SRT round-trip must preserve numbers, offsets, and text")
}

func TestVTTRoundTrip(t *testing.T) {
	segments := sampleSegments()
	data, err := Render(segments, FormatVTT)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("WEBVTT\n")), "VTT output must start with the WEBVTT header")

	cues, err := ParseVTT(data)
	require.NoError(t, err)
	assert.True(t, CuesMatch(cues, segments), "VTT round-trip must preserve numbers, offsets, and text")

	// Voice spans restore speaker attribution.
	require.Len(t, cues, 3)
	assert.Equal(t, "spk-1", cues[0].SpeakerID)
	assert.Empty(t, cues[1].SpeakerID)
	assert.Equal(t, "spk-2", cues[2].SpeakerID)
}

func TestSRTTimestampFormat(t *testing.T) {
	data, err := Render(sampleSegments(), FormatSRT)
	require.NoError(t, err)

	// 3_661_000 ms is 1h 1m 1s.
	assert.Contains(t, string(data), "01:01:01,000 --> 01:01:02,500")
	assert.Contains(t, string(data), "00:00:00,000 --> 00:00:01,250")
}

func TestJSONRoundTrip(t *testing.T) {
	segments := sampleSegments()
	data, err := Render(segments, FormatJSON)
	require.NoError(t, err)

	var decoded []transcription.Segment
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, segments, decoded)
}

func TestCSVShape(t *testing.T) {
	data, err := Render(sampleSegments(), FormatCSV)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "segment_number,start_offset_ms,end_offset_ms,speaker_id,confidence,language,text", lines[0])
	assert.Equal(t, "1,0,1250,spk-1,0.92,en,hello everyone", lines[1])
}

func TestTXTOutput(t *testing.T) {
	data, err := Render(sampleSegments(), FormatTXT)
	require.NoError(t, err)

	want := "spk-1: hello everyone\nlet's get started\nspk-2: wrapping up\n"
	assert.Equal(t, want, string(data))
}

func TestDOCXIsValidArchive(t *testing.T) {
	data, err := Render(sampleSegments(), FormatDOCX)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["[Content_Types].xml"])
	assert.True(t, names["word/document.xml"])

	doc, err := zr.Open("word/document.xml")
	require.NoError(t, err)
	defer doc.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(doc)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "hello everyone")
	assert.Contains(t, buf.String(), "spk-2: wrapping up")
}

func TestTranscript(t *testing.T) {
	src := &sliceSource{segments: sampleSegments()}

	data, contentType, err := Transcript(context.Background(), src, "m1", FormatSRT)
	require.NoError(t, err)
	assert.Equal(t, "application/x-subrip", contentType)
	assert.NotEmpty(t, data)
}

func TestTranscriptNoSegments(t *testing.T) {
	src := &sliceSource{}

	_, _, err := Transcript(context.Background(), src, "m1", FormatTXT)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNoTranscript))
}

func TestParseSRTMalformed(t *testing.T) {
	cases := map[string]string{
		"bad number": "one\n00:00:00,000 --> 00:00:01,000\nhi\n",
		"bad timing": "1\n00:00:00,000 -> 00:00:01,000\nhi\n",
		"bad clock":  "1\n00:00,000 --> 00:00:01,000\nhi\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSRT([]byte(input))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
		})
	}
}

func TestParseVTTRequiresHeader(t *testing.T) {
	_, err := ParseVTT([]byte("1\n00:00:00.000 --> 00:00:01.000\nhi\n"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
}
