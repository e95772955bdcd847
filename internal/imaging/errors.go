package imaging

import (
	"errors"
	"fmt"
)

// Error kinds shared by the analysis pipeline and its collaborators.
//
// Callers classify failures with errors.Is:
//
//	if errors.Is(err, imaging.ErrValidation) {
//	    // reject the input, do not retry
//	}
var (
	// ErrValidation marks malformed or zero-area input.
	ErrValidation = errors.New("validation error")

	// ErrContract marks a violated internal contract, such as a mask whose
	// dimensions differ from its source image. It indicates a bug.
	ErrContract = errors.New("internal contract violation")

	// ErrConfig marks an out-of-range tunable parameter.
	ErrConfig = errors.New("configuration error")
)

// ValidationError reports input that was rejected before processing.
type ValidationError struct {
	Field  string // Offending input, e.g. "image" or "latitude"
	Reason string // Human-readable cause
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid builds a *ValidationError with a formatted reason.
func Invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ContractError reports an internal inconsistency between pipeline stages.
type ContractError struct {
	Op     string // Operation that detected the violation
	Reason string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: internal contract violation: %s", e.Op, e.Reason)
}

// Is reports whether target is ErrContract.
func (e *ContractError) Is(target error) bool { return target == ErrContract }

// ConfigError reports a tunable parameter outside its valid range.
type ConfigError struct {
	Param  string // Parameter name as it appears in configuration, e.g. "overlay.alpha"
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Param, e.Reason)
}

// Is reports whether target is ErrConfig.
func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// BadConfig builds a *ConfigError with a formatted reason.
func BadConfig(param, format string, args ...interface{}) error {
	return &ConfigError{Param: param, Reason: fmt.Sprintf(format, args...)}
}
