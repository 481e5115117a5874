package export

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/kbukum/meetscribe/errors"
	"github.com/kbukum/meetscribe/transcription"
)

// Cue is one subtitle cue recovered from SRT or VTT data: the fields those
// formats can carry losslessly.
type Cue struct {
	SegmentNumber int
	StartOffsetMs int64
	EndOffsetMs   int64
	SpeakerID     string
	Text          string
}

// ParseSRT parses SRT data back into cues. The cue index is the original
// segment number.
func ParseSRT(data []byte) ([]Cue, error) {
	return parseCues(data, ',', false)
}

// ParseVTT parses WebVTT data back into cues. The cue identifier is the
// original segment number; voice spans restore speaker attribution.
func ParseVTT(data []byte) ([]Cue, error) {
	rest, ok := bytes.CutPrefix(data, []byte("WEBVTT"))
	if !ok {
		return nil, errors.InvalidInput("vtt", "missing WEBVTT header")
	}
	return parseCues(rest, '.', true)
}

func parseCues(data []byte, fracSep byte, voiceSpans bool) ([]Cue, error) {
	var cues []Cue
	scanner := bufio.NewScanner(bytes.NewReader(data))

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		number, err := strconv.Atoi(line)
		if err != nil {
			return nil, errors.InvalidInput("cue", "expected cue number, got "+strconv.Quote(line))
		}

		if !scanner.Scan() {
			return nil, errors.InvalidInput("cue", "missing timing line")
		}
		start, end, err := parseTiming(strings.TrimSpace(scanner.Text()), fracSep)
		if err != nil {
			return nil, err
		}

		var textLines []string
		for scanner.Scan() {
			text := scanner.Text()
			if strings.TrimSpace(text) == "" {
				break
			}
			textLines = append(textLines, text)
		}

		cue := Cue{
			SegmentNumber: number,
			StartOffsetMs: start,
			EndOffsetMs:   end,
			Text:          strings.Join(textLines, "\n"),
		}
		if voiceSpans {
			cue.SpeakerID, cue.Text = splitVoiceSpan(cue.Text)
		}
		cues = append(cues, cue)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.InvalidInput("cue", err.Error())
	}
	return cues, nil
}

func parseTiming(line string, fracSep byte) (int64, int64, error) {
	parts := strings.Split(line, " --> ")
	if len(parts) != 2 {
		return 0, 0, errors.InvalidInput("cue", "malformed timing line "+strconv.Quote(line))
	}
	start, err := parseTimestamp(parts[0], fracSep)
	if err != nil {
		return 0, 0, err
	}
	end, err := parseTimestamp(parts[1], fracSep)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// parseTimestamp reads HH:MM:SS<sep>mmm into milliseconds.
func parseTimestamp(ts string, fracSep byte) (int64, error) {
	main, frac, ok := strings.Cut(ts, string(fracSep))
	if !ok {
		return 0, errors.InvalidInput("cue", "malformed timestamp "+strconv.Quote(ts))
	}
	clock := strings.Split(main, ":")
	if len(clock) != 3 {
		return 0, errors.InvalidInput("cue", "malformed timestamp "+strconv.Quote(ts))
	}

	var parts [4]int64
	for i, raw := range append(clock, frac) {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			return 0, errors.InvalidInput("cue", "malformed timestamp "+strconv.Quote(ts))
		}
		parts[i] = v
	}
	return parts[0]*3600000 + parts[1]*60000 + parts[2]*1000 + parts[3], nil
}

// splitVoiceSpan extracts "<v speaker>text</v>" if present.
func splitVoiceSpan(text string) (speaker, content string) {
	if !strings.HasPrefix(text, "<v ") {
		return "", text
	}
	rest := strings.TrimPrefix(text, "<v ")
	speaker, content, ok := strings.Cut(rest, ">")
	if !ok {
		return "", text
	}
	return speaker, strings.TrimSuffix(content, "</v>")
}

// CuesMatch reports whether parsed cues reproduce the segments' numbers,
// offsets, and text exactly, in order.
func CuesMatch(cues []Cue, segments []transcription.Segment) bool {
	if len(cues) != len(segments) {
		return false
	}
	for i, cue := range cues {
		seg := segments[i]
		if cue.SegmentNumber != seg.SegmentNumber ||
			cue.StartOffsetMs != seg.StartOffsetMs ||
			cue.EndOffsetMs != seg.EndOffsetMs ||
			cue.Text != seg.Text {
			return false
		}
	}
	return true
}
