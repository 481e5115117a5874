package summary

import (
	"fmt"
	"strings"

	"github.com/kbukum/meetscribe/transcription"
)

const systemPrompt = "You are an assistant that analyzes meeting transcripts. " +
	"Base every statement on the transcript alone and never invent content."

// instructions maps each summary type to its generation instruction. CUSTOM is
// absent; its instruction is supplied by the caller.
var instructions = map[Type]string{
	TypeFull: "Write a comprehensive summary of the meeting. Cover every topic " +
		"discussed, who raised it, and how the discussion concluded.",
	TypeKeyPoints: "List the key points of the meeting as concise bullet points, " +
		"one point per line.",
	TypeDecisions: "List only the decisions that were made in the meeting. For " +
		"each decision include who made or confirmed it. If no decisions were " +
		"made, say so.",
	TypeActionItems: "List the action items from the meeting. For each item " +
		"include the owner and, when mentioned, the deadline. If there are no " +
		"action items, say so.",
	TypeExecutive: "Write a short executive summary of the meeting: two or three " +
		"paragraphs covering purpose, outcomes, and next steps, suitable for " +
		"someone who did not attend.",
	TypeTechnical: "Write a technical summary of the meeting. Preserve technical " +
		"detail: system names, figures, design choices, and open technical " +
		"questions.",
}

// buildPrompt assembles the user prompt for one summary type from the rendered
// transcript. For CUSTOM the caller's prompt replaces the built-in instruction.
func buildPrompt(t Type, transcript, customPrompt string) (string, error) {
	instruction := customPrompt
	if t != TypeCustom {
		var ok bool
		instruction, ok = instructions[t]
		if !ok {
			return "", fmt.Errorf("no instruction for summary type %q", t)
		}
	}

	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n\nTranscript:\n")
	b.WriteString(transcript)
	return b.String(), nil
}

// renderTranscript flattens ordered segments into prompt text, one utterance
// per line, optionally prefixed with the utterance's start offset.
func renderTranscript(segments []transcription.Segment, includeTimestamps bool) string {
	var b strings.Builder
	for _, seg := range segments {
		if includeTimestamps {
			b.WriteString("[")
			b.WriteString(offsetClock(seg.StartOffsetMs))
			b.WriteString("] ")
		}
		if seg.SpeakerID != "" {
			b.WriteString(seg.SpeakerID)
			b.WriteString(": ")
		}
		b.WriteString(seg.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func offsetClock(ms int64) string {
	total := ms / 1000
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}
