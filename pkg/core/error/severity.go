package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates a condition the caller can usually report and skip
	SeverityLow Severity = iota

	// SeverityMedium indicates a failure of a single operation
	SeverityMedium

	// SeverityHigh indicates a failure of an external resource (file system, database)
	SeverityHigh

	// SeverityCritical indicates a broken invariant inside the front end
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should be surfaced loudly
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}
