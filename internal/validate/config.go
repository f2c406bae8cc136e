// Package validate provides configuration validation utilities for tetanus.
//
// This file implements common validation patterns used by the CLI flag layer and
// the settings loader. All functions lean on the go-playground/validator library
// for standardized validation behavior.
package validate

import (
	"fmt"
	"time"
)

// ValidateRequiredString validates that a string field is not empty.
func ValidateRequiredString(value, fieldName string) error {
	if err := ValidateField(value, "required"); err != nil {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidatePositiveTimeout validates that a timeout duration is positive (> 0).
// Used for the dialog poll interval and the sandbox step timeout.
func ValidatePositiveTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s must be positive", name)
	}
	return nil
}
