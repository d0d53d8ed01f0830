// Package state holds the immutable snapshot of the compositor's monitor
// topology. A snapshot is rebuilt from scratch on every fetch; monitors have
// no identity across snapshots beyond connector-string equality.
package state

// Mode is a supported resolution/refresh/scale combination for a physical
// monitor. ID is compositor-assigned and opaque; it is only ever copied back
// verbatim when selecting the mode, never synthesized.
type Mode struct {
	ID              string
	Width           int
	Height          int
	RefreshRate     float64
	IsCurrent       bool
	IsPreferred     bool
	PreferredScale  float64
	SupportedScales []float64
}

// ConnectorInfo identifies a physical monitor. Connector and Vendor are
// exact-match fields; Product and Serial are matched by substring.
type ConnectorInfo struct {
	Connector string
	Vendor    string
	Product   string
	Serial    string
}

// Monitor is a physical display as reported by the compositor.
type Monitor struct {
	ConnectorInfo
	DisplayName string
	Builtin     bool
	Modes       []Mode
}

// LogicalMonitor is a compositor-reported placement of one or more physical
// monitors in the logical coordinate space. Used for comparison and printing
// only; submissions use layout descriptors instead.
type LogicalMonitor struct {
	X         int
	Y         int
	Scale     float64
	Transform uint32
	Primary   bool
	Monitors  []ConnectorInfo
}

// Snapshot is one full read of compositor state. Serial is an optimistic
// concurrency token and must be echoed unchanged on the next apply.
type Snapshot struct {
	Serial          uint32
	Monitors        []Monitor
	LogicalMonitors []LogicalMonitor
}

// CurrentMode returns the monitor's active mode, or nil.
func (m *Monitor) CurrentMode() *Mode {
	for i := range m.Modes {
		if m.Modes[i].IsCurrent {
			return &m.Modes[i]
		}
	}
	return nil
}

// PreferredMode returns the mode flagged preferred, falling back to the first
// mode in snapshot order. Returns nil for a monitor with no modes.
func (m *Monitor) PreferredMode() *Mode {
	for i := range m.Modes {
		if m.Modes[i].IsPreferred {
			return &m.Modes[i]
		}
	}
	if len(m.Modes) > 0 {
		return &m.Modes[0]
	}
	return nil
}

// ModeByID returns the monitor's mode with the given id, or nil.
func (m *Monitor) ModeByID(id string) *Mode {
	for i := range m.Modes {
		if m.Modes[i].ID == id {
			return &m.Modes[i]
		}
	}
	return nil
}

// MonitorByConnector returns the physical monitor on the given connector, or nil.
func (s *Snapshot) MonitorByConnector(connector string) *Monitor {
	for i := range s.Monitors {
		if s.Monitors[i].Connector == connector {
			return &s.Monitors[i]
		}
	}
	return nil
}

// Classify partitions monitors into built-in and external sets, preserving
// snapshot order within each.
func Classify(monitors []Monitor) (internal, external []Monitor) {
	for _, m := range monitors {
		if m.Builtin {
			internal = append(internal, m)
		} else {
			external = append(external, m)
		}
	}
	return internal, external
}

// MonitorsEqual reports whether two monitor sets describe the same hardware,
// including their mode lists. The IsCurrent flag is excluded: it flips on
// every apply, ours included, and would make the watch loop chase its own
// tail. Used to ignore change signals that carry no hotplug.
func MonitorsEqual(a, b []Monitor) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !monitorEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func monitorEqual(a, b Monitor) bool {
	if a.ConnectorInfo != b.ConnectorInfo || a.DisplayName != b.DisplayName || a.Builtin != b.Builtin {
		return false
	}
	if len(a.Modes) != len(b.Modes) {
		return false
	}
	for i := range a.Modes {
		if !modeEqual(a.Modes[i], b.Modes[i]) {
			return false
		}
	}
	return true
}

func modeEqual(a, b Mode) bool {
	if a.ID != b.ID || a.Width != b.Width || a.Height != b.Height ||
		a.RefreshRate != b.RefreshRate ||
		a.IsPreferred != b.IsPreferred || a.PreferredScale != b.PreferredScale {
		return false
	}
	if len(a.SupportedScales) != len(b.SupportedScales) {
		return false
	}
	for i := range a.SupportedScales {
		if a.SupportedScales[i] != b.SupportedScales[i] {
			return false
		}
	}
	return true
}
