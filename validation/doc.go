// Package validation provides input validation for request DTOs and jobs.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection.
//
// # Struct Tag Validation
//
//	type segment struct {
//	    Start *float64 `json:"start" validate:"required"`
//	    Text  *string  `json:"text" validate:"required"`
//	}
//	fieldErrs := validation.Check(seg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("audio_path", job.AudioPath).OptionalUUID("id", job.ID)
//	err := v.Validate()
package validation
