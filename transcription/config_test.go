package transcription

import (
	"testing"

	"github.com/kbukum/meetscribe/errors"
)

func TestSessionConfigDefaults(t *testing.T) {
	var cfg SessionConfig
	cfg.ApplyDefaults()

	if cfg.Language != "en" {
		t.Errorf("expected default language 'en', got %q", cfg.Language)
	}
	if cfg.ThresholdPolicy != ThresholdDrop {
		t.Errorf("expected default policy drop, got %q", cfg.ThresholdPolicy)
	}
	if cfg.ConfidenceThreshold != 0 {
		t.Errorf("expected zero threshold by default, got %g", cfg.ConfidenceThreshold)
	}
}

func TestSessionConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SessionConfig
		wantErr bool
	}{
		{"defaults are valid", SessionConfig{Language: "en"}, false},
		{"full config", SessionConfig{Language: "de", ConfidenceThreshold: 0.7, ThresholdPolicy: ThresholdKeep, MaxSpeakers: 8}, false},
		{"missing language", SessionConfig{}, true},
		{"threshold above one", SessionConfig{Language: "en", ConfidenceThreshold: 1.2}, true},
		{"negative threshold", SessionConfig{Language: "en", ConfidenceThreshold: -0.1}, true},
		{"unknown policy", SessionConfig{Language: "en", ThresholdPolicy: "maybe"}, true},
		{"too many speakers", SessionConfig{Language: "en", MaxSpeakers: 64}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if !errors.HasCode(err, errors.ErrCodeValidation) {
					t.Errorf("expected validation code, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSegmentWordCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"hello", 1},
		{"hello there world", 3},
		{"  spaced   out  ", 2},
	}
	for _, tt := range tests {
		if got := (Segment{Text: tt.text}).WordCount(); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
