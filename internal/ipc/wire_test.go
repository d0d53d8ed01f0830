package ipc

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/google/go-cmp/cmp"

	"github.com/dra11y/way-display/internal/layout"
	"github.com/dra11y/way-display/internal/state"
)

func TestMonitorFromWire(t *testing.T) {
	tuple := monitorTuple{
		Info: connectorTuple{Connector: "eDP-1", Vendor: "BOE", Product: "0x095f", Serial: "0x0000"},
		Modes: []modeTuple{
			{
				ID:              "1920x1080@60.000",
				Width:           1920,
				Height:          1080,
				RefreshRate:     60.0,
				PreferredScale:  1.0,
				SupportedScales: []float64{1.0, 1.25},
				Properties: map[string]dbus.Variant{
					"is-current":   dbus.MakeVariant(true),
					"is-preferred": dbus.MakeVariant(true),
				},
			},
			{
				ID:             "1280x720@60.000",
				Width:          1280,
				Height:         720,
				RefreshRate:    60.0,
				PreferredScale: 1.0,
			},
		},
		Properties: map[string]dbus.Variant{
			"is-builtin":   dbus.MakeVariant(true),
			"display-name": dbus.MakeVariant("Built-in display"),
		},
	}

	want := state.Monitor{
		ConnectorInfo: state.ConnectorInfo{Connector: "eDP-1", Vendor: "BOE", Product: "0x095f", Serial: "0x0000"},
		DisplayName:   "Built-in display",
		Builtin:       true,
		Modes: []state.Mode{
			{
				ID: "1920x1080@60.000", Width: 1920, Height: 1080, RefreshRate: 60.0,
				IsCurrent: true, IsPreferred: true, PreferredScale: 1.0,
				SupportedScales: []float64{1.0, 1.25},
			},
			{
				ID: "1280x720@60.000", Width: 1280, Height: 720, RefreshRate: 60.0,
				PreferredScale: 1.0,
			},
		},
	}
	if diff := cmp.Diff(want, monitorFromWire(tuple)); diff != "" {
		t.Fatalf("monitor mismatch (-want +got):\n%s", diff)
	}
}

func TestMonitorFromWireMissingProperties(t *testing.T) {
	// Compositors are free to omit optional properties; absent flags read as
	// false and absent names as empty.
	got := monitorFromWire(monitorTuple{
		Info:  connectorTuple{Connector: "DP-1"},
		Modes: []modeTuple{{ID: "m1", Width: 800, Height: 600, RefreshRate: 60.0, PreferredScale: 1.0}},
	})
	if got.Builtin || got.DisplayName != "" {
		t.Fatalf("expected zero-value defaults, got %+v", got)
	}
	if got.Modes[0].IsCurrent || got.Modes[0].IsPreferred {
		t.Fatalf("expected mode flags to default false, got %+v", got.Modes[0])
	}
}

func TestSnapshotFromWire(t *testing.T) {
	snap := snapshotFromWire(
		42,
		[]monitorTuple{{Info: connectorTuple{Connector: "DP-1"}}},
		[]logicalMonitorTuple{{
			X: 100, Y: 0, Scale: 1.5, Transform: 0, Primary: true,
			Monitors: []connectorTuple{{Connector: "DP-1"}},
		}},
	)
	if snap.Serial != 42 {
		t.Fatalf("serial must pass through unchanged, got %d", snap.Serial)
	}
	if len(snap.Monitors) != 1 || snap.Monitors[0].Connector != "DP-1" {
		t.Fatalf("unexpected monitors: %+v", snap.Monitors)
	}
	logical := snap.LogicalMonitors
	if len(logical) != 1 || logical[0].X != 100 || logical[0].Scale != 1.5 || !logical[0].Primary {
		t.Fatalf("unexpected logical monitors: %+v", logical)
	}
	if len(logical[0].Monitors) != 1 || logical[0].Monitors[0].Connector != "DP-1" {
		t.Fatalf("unexpected logical assignment: %+v", logical[0].Monitors)
	}
}

func TestLogicalToWire(t *testing.T) {
	tuple := logicalToWire(layout.LogicalMonitor{
		X: 1920, Y: 0, Scale: 2.0, Transform: 0, Primary: false,
		Monitors: []layout.MonitorAssignment{
			{Connector: "DP-1", ModeID: "3840x2160@60.000"},
		},
	})
	want := applyLogicalTuple{
		X: 1920, Y: 0, Scale: 2.0, Transform: 0, Primary: false,
		Monitors: []applyAssignmentTuple{
			{Connector: "DP-1", ModeID: "3840x2160@60.000", Properties: map[string]dbus.Variant{}},
		},
	}
	if diff := cmp.Diff(want, tuple); diff != "" {
		t.Fatalf("tuple mismatch (-want +got):\n%s", diff)
	}
}
