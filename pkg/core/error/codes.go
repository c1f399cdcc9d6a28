package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"

	// Source access
	CodeIO            Code = "IO_ERROR"
	CodeCyclicInclude Code = "CYCLIC_INCLUDE"

	// Programming contract violations inside the front end
	CodeContractViolation Code = "CONTRACT_VIOLATION"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeMissingConfig Code = "MISSING_CONFIG"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Persistence and services
	CodeDatabaseError      Code = "DATABASE_ERROR"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// DefaultSeverity returns the severity usually associated with the code
func (c Code) DefaultSeverity() Severity {
	switch c {
	case CodeContractViolation, CodeInternal:
		return SeverityCritical
	case CodeIO, CodeDatabaseError, CodeServiceUnavailable:
		return SeverityHigh
	case CodeNotFound, CodeInvalidInput, CodeCyclicInclude:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// IsRetryable reports whether an operation failing with this code may succeed later
func (c Code) IsRetryable() bool {
	switch c {
	case CodeIO, CodeDatabaseError, CodeServiceUnavailable:
		return true
	default:
		return false
	}
}
