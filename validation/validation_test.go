package validation

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/kbukum/meetscribe/errors"
)

func TestValidatorRequired(t *testing.T) {
	v := New()
	v.Required("language", "en")
	if v.HasErrors() {
		t.Error("expected no errors for valid input")
	}

	v2 := New()
	v2.Required("language", "")
	if !v2.HasErrors() {
		t.Error("expected error for empty required field")
	}

	v3 := New()
	v3.Required("language", "   ")
	if !v3.HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestValidatorRequiredUUID(t *testing.T) {
	validUUID := uuid.New().String()

	v := New()
	v.RequiredUUID("meeting_id", validUUID)
	if v.HasErrors() {
		t.Errorf("expected no errors for valid UUID, got %v", v.Errors())
	}

	v2 := New()
	v2.RequiredUUID("meeting_id", "")
	if !v2.HasErrors() {
		t.Error("expected error for empty UUID")
	}

	v3 := New()
	v3.RequiredUUID("meeting_id", "not-a-uuid")
	if !v3.HasErrors() {
		t.Error("expected error for invalid UUID")
	}

	v4 := New()
	v4.RequiredUUID("meeting_id", uuid.Nil.String())
	if !v4.HasErrors() {
		t.Error("expected error for nil UUID")
	}
}

func TestValidatorMaxLength(t *testing.T) {
	v := New()
	v.MaxLength("prompt", "short", 10)
	if v.HasErrors() {
		t.Error("expected no error for string within max length")
	}

	v2 := New()
	v2.MaxLength("prompt", "this is too long", 5)
	if !v2.HasErrors() {
		t.Error("expected error for string exceeding max length")
	}
}

func TestValidatorRange(t *testing.T) {
	v := New()
	v.Range("max_speakers", 4, 1, 32)
	if v.HasErrors() {
		t.Error("expected no error for value in range")
	}

	v2 := New()
	v2.Range("max_speakers", 0, 1, 32)
	if !v2.HasErrors() {
		t.Error("expected error for value below range")
	}

	v3 := New()
	v3.Range("max_speakers", 33, 1, 32)
	if !v3.HasErrors() {
		t.Error("expected error for value above range")
	}
}

func TestValidatorRangeFloat(t *testing.T) {
	v := New()
	v.RangeFloat("confidence_threshold", 0.7, 0, 1)
	if v.HasErrors() {
		t.Error("expected no error for value in range")
	}

	v2 := New()
	v2.RangeFloat("confidence_threshold", 1.5, 0, 1)
	if !v2.HasErrors() {
		t.Error("expected error for value above range")
	}

	v3 := New()
	v3.RangeFloat("confidence_threshold", -0.1, 0, 1)
	if !v3.HasErrors() {
		t.Error("expected error for value below range")
	}
}

func TestValidatorMinMax(t *testing.T) {
	v := New()
	v.Min("buffer_size", 5, 1)
	v.Max("buffer_size", 5, 10)
	if v.HasErrors() {
		t.Error("expected no errors")
	}

	v2 := New()
	v2.Min("buffer_size", 0, 1)
	if !v2.HasErrors() {
		t.Error("expected error for value below min")
	}

	v3 := New()
	v3.Max("buffer_size", 11, 10)
	if !v3.HasErrors() {
		t.Error("expected error for value above max")
	}
}

func TestValidatorOneOf(t *testing.T) {
	v := New()
	v.OneOf("format", "srt", []string{"txt", "srt", "vtt"})
	if v.HasErrors() {
		t.Error("expected no error for valid oneOf value")
	}

	v2 := New()
	v2.OneOf("format", "mp3", []string{"txt", "srt", "vtt"})
	if !v2.HasErrors() {
		t.Error("expected error for invalid oneOf value")
	}

	// Empty should be skipped
	v3 := New()
	v3.OneOf("format", "", []string{"txt"})
	if v3.HasErrors() {
		t.Error("expected no error for empty oneOf value")
	}
}

func TestValidatorCustom(t *testing.T) {
	v := New()
	v.Custom(true, "field", "should pass")
	if v.HasErrors() {
		t.Error("expected no error for true condition")
	}

	v2 := New()
	v2.Custom(false, "field", "custom error")
	if !v2.HasErrors() {
		t.Error("expected error for false condition")
	}
	if v2.Errors()[0].Message != "custom error" {
		t.Errorf("expected 'custom error', got %q", v2.Errors()[0].Message)
	}
}

func TestValidatorValidate(t *testing.T) {
	v := New()
	v.Required("language", "en")
	appErr := v.Validate()
	if appErr != nil {
		t.Error("expected nil for valid input")
	}

	v2 := New()
	v2.Required("language", "")
	v2.Required("model", "")
	appErr2 := v2.Validate()
	if appErr2 == nil {
		t.Fatal("expected error")
	}
	if appErr2.Details == nil {
		t.Fatal("expected details in error")
	}
	if !strings.Contains(appErr2.Message, "language") || !strings.Contains(appErr2.Message, "model") {
		t.Errorf("expected both fields in message, got %q", appErr2.Message)
	}
}

func TestValidatorChaining(t *testing.T) {
	v := New()
	result := v.Required("language", "en").MaxLength("language", "en", 16).Min("max_speakers", 4, 1)
	if result != v {
		t.Error("expected chaining to return same validator")
	}
	if v.HasErrors() {
		t.Error("expected no errors for valid chained validation")
	}
}

func TestStructValidateValid(t *testing.T) {
	type config struct {
		Language  string  `json:"language" validate:"required"`
		Threshold float64 `json:"threshold" validate:"gte=0,lte=1"`
	}

	if err := Validate(config{Language: "en", Threshold: 0.5}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	type config struct {
		Language  string  `json:"language" validate:"required"`
		Threshold float64 `json:"threshold" validate:"gte=0,lte=1"`
	}

	err := Validate(config{Threshold: 1.5})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.HasCode(err, errors.ErrCodeValidation) {
		t.Errorf("expected validation error code, got %v", err)
	}
	if !strings.Contains(err.Error(), "language") || !strings.Contains(err.Error(), "threshold") {
		t.Errorf("expected both field names in message, got %q", err.Error())
	}
}
