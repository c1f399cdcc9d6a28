// ============================================================================
// Royale ActionScript Front End (asfront)
// ============================================================================
//
// Package:     version
// Description: Central version management for the front end components
// License:     Apache-2.0
// ============================================================================

package version

// Version constants for the front end
const (
	// Release version of the asfront tools
	Release = "0.9.0"

	// Component versions
	Tokenizer = "0.9.0"
	Parser    = "0.9.0"
	Store     = "0.2.0"
	Service   = "0.3.0"

	// StoreSchema is bumped whenever the history tables change
	StoreSchema = 1
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "tokenizer":
		return Tokenizer
	case "parser":
		return Parser
	case "store":
		return Store
	case "service":
		return Service
	default:
		return Release
	}
}
