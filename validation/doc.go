// Package validation provides input validation for session and summary
// configuration.
//
// It supports struct tag validation (via the validator library) and
// programmatic validation with error collection. Both report failures as
// typed validation errors carrying per-field detail.
//
// # Struct Tag Validation
//
//	type SessionConfig struct {
//	    Language            string  `validate:"required"`
//	    ConfidenceThreshold float64 `validate:"gte=0,lte=1"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.RequiredUUID("meeting_id", id).RangeFloat("confidence_threshold", th, 0, 1)
//	err := v.Validate()
package validation
