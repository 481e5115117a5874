package transcription

import (
	"github.com/kbukum/meetscribe/validation"
)

// ThresholdPolicy controls what happens to candidates whose confidence is
// below the session threshold.
type ThresholdPolicy string

const (
	// ThresholdDrop discards below-threshold candidates. They are counted
	// in stats but never persisted.
	ThresholdDrop ThresholdPolicy = "drop"
	// ThresholdKeep stores below-threshold candidates as non-final
	// segments.
	ThresholdKeep ThresholdPolicy = "keep"
)

// SessionConfig configures a transcription session. The zero value plus
// ApplyDefaults yields a usable English session with no filtering.
type SessionConfig struct {
	// Language is the expected language of the audio (e.g. "en").
	Language string `json:"language" mapstructure:"language" validate:"required"`
	// EnableDiarization attributes segments to distinct speakers.
	EnableDiarization bool `json:"enable_diarization" mapstructure:"enable_diarization"`
	// ConfidenceThreshold is the minimum confidence to keep a candidate.
	ConfidenceThreshold float64 `json:"confidence_threshold" mapstructure:"confidence_threshold" validate:"gte=0,lte=1"`
	// ThresholdPolicy selects drop or keep for below-threshold candidates.
	ThresholdPolicy ThresholdPolicy `json:"threshold_policy" mapstructure:"threshold_policy" validate:"omitempty,oneof=drop keep"`
	// EnablePunctuation requests punctuation restoration from the decoder.
	EnablePunctuation bool `json:"enable_punctuation" mapstructure:"enable_punctuation"`
	// EnableCapitalization requests capitalization from the decoder.
	EnableCapitalization bool `json:"enable_capitalization" mapstructure:"enable_capitalization"`
	// EnableTimestamps requests word-level timestamps from the decoder.
	EnableTimestamps bool `json:"enable_timestamps" mapstructure:"enable_timestamps"`
	// MaxSpeakers bounds diarization; 0 means unbounded.
	MaxSpeakers int `json:"max_speakers" mapstructure:"max_speakers" validate:"gte=0,lte=32"`
	// Model is the decoder model identifier.
	Model string `json:"model,omitempty" mapstructure:"model"`
}

// ApplyDefaults applies default values to unset fields.
func (c *SessionConfig) ApplyDefaults() {
	if c.Language == "" {
		c.Language = "en"
	}
	if c.ThresholdPolicy == "" {
		c.ThresholdPolicy = ThresholdDrop
	}
}

// Validate checks the config and returns a typed validation error on failure.
func (c SessionConfig) Validate() error {
	return validation.Validate(c)
}
