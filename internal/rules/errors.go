package rules

import "fmt"

// NoMonitorsAvailableError reports an empty candidate pool for a requested
// mode. Not retryable without a topology change.
type NoMonitorsAvailableError struct {
	Mode DisplayMode
}

func (e *NoMonitorsAvailableError) Error() string {
	return fmt.Sprintf("no monitors available for %s mode", e.Mode)
}

// InsufficientMonitorsError reports that join or mirror was requested with
// fewer than the two required device classes present.
type InsufficientMonitorsError struct {
	Available int
	Required  int
	Mode      DisplayMode
}

func (e *InsufficientMonitorsError) Error() string {
	return fmt.Sprintf("insufficient monitors (%d available, %d required) for %s mode: both internal and external monitors are needed",
		e.Available, e.Required, e.Mode)
}

// NoMonitorsMatchError reports that no rule in the chain fired. In watch mode
// this is a soft no-op for the cycle; one-shot invocations treat it as fatal.
type NoMonitorsMatchError struct {
	Rules []Rule
}

func (e *NoMonitorsMatchError) Error() string {
	if len(e.Rules) == 1 {
		return "no monitors match the specified filter criteria"
	}
	return fmt.Sprintf("no matching monitor configuration found for the %d specified rules", len(e.Rules))
}

// InvalidPatternError is reserved for malformed pattern syntax. ParsePattern
// is total, so this kind is currently unreachable; it exists so callers can
// branch on it if pattern parsing ever becomes strict.
type InvalidPatternError struct {
	Pattern string
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern: %q", e.Pattern)
}
