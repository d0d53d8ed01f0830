// Package rules decides which display mode to apply for the currently
// connected monitors. An ordered rule list is evaluated first-match-wins;
// the decision itself is pure and does no I/O.
package rules

import "fmt"

// DisplayMode is the outcome of rule resolution, not a property of a monitor.
type DisplayMode int

const (
	ModeExternal DisplayMode = iota
	ModeInternal
	ModeJoin
	ModeMirror
)

func (m DisplayMode) String() string {
	switch m {
	case ModeExternal:
		return "external"
	case ModeInternal:
		return "internal"
	case ModeJoin:
		return "join"
	case ModeMirror:
		return "mirror"
	default:
		return fmt.Sprintf("DisplayMode(%d)", int(m))
	}
}

// ParseDisplayMode converts a mode name as accepted on the command line.
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch s {
	case "external":
		return ModeExternal, nil
	case "internal":
		return ModeInternal, nil
	case "join":
		return ModeJoin, nil
	case "mirror":
		return ModeMirror, nil
	default:
		return 0, fmt.Errorf("unknown display mode %q", s)
	}
}

// Rule pairs a target mode with a monitor-selection pattern.
type Rule struct {
	Mode    DisplayMode
	Pattern MonitorPattern
}

// AutoSpec is the raw rule input of the auto command: pattern strings per
// mode plus a default mode fired when nothing else matches.
type AutoSpec struct {
	External []string
	Internal []string
	Join     []string
	Mirror   []string
	Default  DisplayMode
}

// Rules assembles the ordered rule chain: mirror rules first, then join,
// external, internal, and finally an empty-pattern default rule that always
// passes pattern matching.
func (a AutoSpec) Rules() []Rule {
	var out []Rule
	for _, s := range a.Mirror {
		out = append(out, Rule{Mode: ModeMirror, Pattern: ParsePattern(s)})
	}
	for _, s := range a.Join {
		out = append(out, Rule{Mode: ModeJoin, Pattern: ParsePattern(s)})
	}
	for _, s := range a.External {
		out = append(out, Rule{Mode: ModeExternal, Pattern: ParsePattern(s)})
	}
	for _, s := range a.Internal {
		out = append(out, Rule{Mode: ModeInternal, Pattern: ParsePattern(s)})
	}
	out = append(out, Rule{Mode: a.Default})
	return out
}
