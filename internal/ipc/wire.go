package ipc

import (
	"github.com/godbus/dbus/v5"

	"github.com/dra11y/way-display/internal/layout"
	"github.com/dra11y/way-display/internal/state"
)

// Raw positional tuples of the DisplayConfig wire interface. They exist only
// in this package; everything above the proxy sees structured state types.

type connectorTuple struct {
	Connector string
	Vendor    string
	Product   string
	Serial    string
}

type modeTuple struct {
	ID              string
	Width           int32
	Height          int32
	RefreshRate     float64
	PreferredScale  float64
	SupportedScales []float64
	Properties      map[string]dbus.Variant
}

type monitorTuple struct {
	Info       connectorTuple
	Modes      []modeTuple
	Properties map[string]dbus.Variant
}

type logicalMonitorTuple struct {
	X          int32
	Y          int32
	Scale      float64
	Transform  uint32
	Primary    bool
	Monitors   []connectorTuple
	Properties map[string]dbus.Variant
}

// applyAssignmentTuple and applyLogicalTuple are the submit-side shapes of
// ApplyMonitorsConfig: a(iiduba(ssa{sv})).
type applyAssignmentTuple struct {
	Connector  string
	ModeID     string
	Properties map[string]dbus.Variant
}

type applyLogicalTuple struct {
	X         int32
	Y         int32
	Scale     float64
	Transform uint32
	Primary   bool
	Monitors  []applyAssignmentTuple
}

func connectorFromWire(t connectorTuple) state.ConnectorInfo {
	return state.ConnectorInfo{
		Connector: t.Connector,
		Vendor:    t.Vendor,
		Product:   t.Product,
		Serial:    t.Serial,
	}
}

func modeFromWire(t modeTuple) state.Mode {
	return state.Mode{
		ID:              t.ID,
		Width:           int(t.Width),
		Height:          int(t.Height),
		RefreshRate:     t.RefreshRate,
		IsCurrent:       boolProp(t.Properties, "is-current"),
		IsPreferred:     boolProp(t.Properties, "is-preferred"),
		PreferredScale:  t.PreferredScale,
		SupportedScales: t.SupportedScales,
	}
}

func monitorFromWire(t monitorTuple) state.Monitor {
	modes := make([]state.Mode, 0, len(t.Modes))
	for _, m := range t.Modes {
		modes = append(modes, modeFromWire(m))
	}
	return state.Monitor{
		ConnectorInfo: connectorFromWire(t.Info),
		DisplayName:   stringProp(t.Properties, "display-name"),
		Builtin:       boolProp(t.Properties, "is-builtin"),
		Modes:         modes,
	}
}

func logicalFromWire(t logicalMonitorTuple) state.LogicalMonitor {
	monitors := make([]state.ConnectorInfo, 0, len(t.Monitors))
	for _, m := range t.Monitors {
		monitors = append(monitors, connectorFromWire(m))
	}
	return state.LogicalMonitor{
		X:         int(t.X),
		Y:         int(t.Y),
		Scale:     t.Scale,
		Transform: t.Transform,
		Primary:   t.Primary,
		Monitors:  monitors,
	}
}

func snapshotFromWire(serial uint32, monitors []monitorTuple, logical []logicalMonitorTuple) *state.Snapshot {
	snap := &state.Snapshot{Serial: serial}
	for _, m := range monitors {
		snap.Monitors = append(snap.Monitors, monitorFromWire(m))
	}
	for _, l := range logical {
		snap.LogicalMonitors = append(snap.LogicalMonitors, logicalFromWire(l))
	}
	return snap
}

func logicalToWire(l layout.LogicalMonitor) applyLogicalTuple {
	monitors := make([]applyAssignmentTuple, 0, len(l.Monitors))
	for _, a := range l.Monitors {
		monitors = append(monitors, applyAssignmentTuple{
			Connector:  a.Connector,
			ModeID:     a.ModeID,
			Properties: map[string]dbus.Variant{},
		})
	}
	return applyLogicalTuple{
		X:         int32(l.X),
		Y:         int32(l.Y),
		Scale:     l.Scale,
		Transform: l.Transform,
		Primary:   l.Primary,
		Monitors:  monitors,
	}
}

func boolProp(props map[string]dbus.Variant, key string) bool {
	v, ok := props[key]
	if !ok {
		return false
	}
	b, ok := v.Value().(bool)
	return ok && b
}

func stringProp(props map[string]dbus.Variant, key string) string {
	v, ok := props[key]
	if !ok {
		return ""
	}
	s, _ := v.Value().(string)
	return s
}
