package rules

import (
	"strings"

	"github.com/dra11y/way-display/internal/state"
)

// MonitorPattern selects physical monitors. Connector and Vendor require
// exact equality; Product, Serial and Name match by case-sensitive substring.
// The zero value matches every monitor and is the sentinel for default rules.
type MonitorPattern struct {
	Connector string
	Vendor    string
	Product   string
	Serial    string
	Name      string
}

// IsEmpty reports whether no field is set.
func (p MonitorPattern) IsEmpty() bool {
	return p == MonitorPattern{}
}

// Matches evaluates the pattern against a monitor. All set fields must match.
func (p MonitorPattern) Matches(m state.Monitor) bool {
	if p.IsEmpty() {
		return true
	}
	if p.Connector != "" && m.Connector != p.Connector {
		return false
	}
	if p.Vendor != "" && m.Vendor != p.Vendor {
		return false
	}
	if p.Product != "" && !strings.Contains(m.Product, p.Product) {
		return false
	}
	if p.Serial != "" && !strings.Contains(m.Serial, p.Serial) {
		return false
	}
	if p.Name != "" && !strings.Contains(m.DisplayName, p.Name) {
		return false
	}
	return true
}

// ParsePattern parses strings of the form "field=value" where field is one of
// connector, vendor, product, serial or name. Anything else, including an
// unrecognized field prefix, degrades to a name-only pattern holding the whole
// input, so parsing never fails.
func ParsePattern(s string) MonitorPattern {
	field, value, ok := strings.Cut(s, "=")
	if !ok {
		return MonitorPattern{Name: s}
	}
	value = strings.TrimSpace(value)
	switch strings.TrimSpace(field) {
	case "connector":
		return MonitorPattern{Connector: value}
	case "vendor":
		return MonitorPattern{Vendor: value}
	case "product":
		return MonitorPattern{Product: value}
	case "serial":
		return MonitorPattern{Serial: value}
	case "name":
		return MonitorPattern{Name: value}
	default:
		return MonitorPattern{Name: s}
	}
}

func (p MonitorPattern) String() string {
	if p.IsEmpty() {
		return "(any)"
	}
	parts := make([]string, 0, 5)
	if p.Connector != "" {
		parts = append(parts, "connector="+p.Connector)
	}
	if p.Vendor != "" {
		parts = append(parts, "vendor="+p.Vendor)
	}
	if p.Product != "" {
		parts = append(parts, "product="+p.Product)
	}
	if p.Serial != "" {
		parts = append(parts, "serial="+p.Serial)
	}
	if p.Name != "" {
		parts = append(parts, "name="+p.Name)
	}
	return strings.Join(parts, ",")
}
