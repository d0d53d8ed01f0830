package rules

import "github.com/dra11y/way-display/internal/state"

// Resolve picks exactly one display mode for the classified monitor sets.
//
// With no rules, external wins whenever an external monitor is connected.
// A single rule is an explicit command and fails loudly when its constraints
// cannot be met. A multi-rule chain is a best-effort cascade: each rule that
// cannot fire is skipped silently and only total exhaustion is an error.
func Resolve(ruleSet []Rule, internal, external []state.Monitor) (DisplayMode, error) {
	if len(ruleSet) == 0 {
		if len(external) == 0 {
			return ModeInternal, nil
		}
		return ModeExternal, nil
	}

	if len(ruleSet) == 1 {
		return resolveSingle(ruleSet[0], internal, external)
	}

	for _, rule := range ruleSet {
		pool := candidatePool(rule.Mode, internal, external)
		if !rule.Pattern.IsEmpty() {
			if len(pool) == 0 {
				continue
			}
			if !anyMatch(rule.Pattern, pool) {
				continue
			}
			if requiresBothClasses(rule.Mode) && (len(internal) == 0 || len(external) == 0) {
				continue
			}
			return rule.Mode, nil
		}

		// Default rules carry no pattern; only availability gates them.
		switch rule.Mode {
		case ModeExternal:
			if len(external) > 0 {
				return ModeExternal, nil
			}
		case ModeInternal:
			if len(internal) > 0 {
				return ModeInternal, nil
			}
		case ModeJoin, ModeMirror:
			if len(internal) > 0 && len(external) > 0 {
				return rule.Mode, nil
			}
		}
	}

	return 0, &NoMonitorsMatchError{Rules: ruleSet}
}

func resolveSingle(rule Rule, internal, external []state.Monitor) (DisplayMode, error) {
	pool := candidatePool(rule.Mode, internal, external)
	if len(pool) == 0 {
		return 0, &NoMonitorsAvailableError{Mode: rule.Mode}
	}
	if !rule.Pattern.IsEmpty() && !anyMatch(rule.Pattern, pool) {
		return 0, &NoMonitorsMatchError{Rules: []Rule{rule}}
	}
	if requiresBothClasses(rule.Mode) && (len(internal) == 0 || len(external) == 0) {
		return 0, &InsufficientMonitorsError{
			Available: classesPresent(internal, external),
			Required:  2,
			Mode:      rule.Mode,
		}
	}
	return rule.Mode, nil
}

func candidatePool(mode DisplayMode, internal, external []state.Monitor) []state.Monitor {
	switch mode {
	case ModeExternal:
		return external
	case ModeInternal:
		return internal
	default:
		combined := make([]state.Monitor, 0, len(internal)+len(external))
		combined = append(combined, internal...)
		combined = append(combined, external...)
		return combined
	}
}

func anyMatch(pattern MonitorPattern, monitors []state.Monitor) bool {
	for _, m := range monitors {
		if pattern.Matches(m) {
			return true
		}
	}
	return false
}

func requiresBothClasses(mode DisplayMode) bool {
	return mode == ModeJoin || mode == ModeMirror
}

func classesPresent(internal, external []state.Monitor) int {
	n := 0
	if len(internal) > 0 {
		n++
	}
	if len(external) > 0 {
		n++
	}
	return n
}
