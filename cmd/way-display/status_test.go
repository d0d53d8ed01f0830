package main

import (
	"bytes"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/dra11y/way-display/internal/rules"
	"github.com/dra11y/way-display/internal/state"
)

func fixtureSnapshot() *state.Snapshot {
	return &state.Snapshot{
		Serial: 12,
		Monitors: []state.Monitor{
			{
				ConnectorInfo: state.ConnectorInfo{Connector: "eDP-1", Vendor: "BOE", Product: "0x095f", Serial: "0x0000"},
				DisplayName:   "Built-in display",
				Builtin:       true,
				Modes: []state.Mode{
					{ID: "edp-1080p", Width: 1920, Height: 1080, RefreshRate: 60.0, IsCurrent: true, IsPreferred: true, PreferredScale: 1.0},
					{ID: "edp-720p", Width: 1280, Height: 720, RefreshRate: 60.0, PreferredScale: 1.0},
				},
			},
			{
				ConnectorInfo: state.ConnectorInfo{Connector: "DP-1", Vendor: "ACR", Product: "Acer H236HL", Serial: "LX1AA0014210"},
				DisplayName:   "Acer H236HL",
				Modes: []state.Mode{
					{ID: "dp-1080p", Width: 1920, Height: 1080, RefreshRate: 60.0, IsCurrent: true, IsPreferred: true, PreferredScale: 1.0},
				},
			},
		},
		LogicalMonitors: []state.LogicalMonitor{
			{
				X: 0, Y: 0, Scale: 1.0, Primary: true,
				Monitors: []state.ConnectorInfo{{Connector: "DP-1"}},
			},
		},
	}
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, fixtureSnapshot(), false)
	out := buf.String()

	for _, want := range []string{
		"=== Current Monitor Status ===",
		"Internal Monitors: 1",
		"External Monitors: 1",
		"Connector: eDP-1",
		"Current Mode: 1920x1080 @ 60.00Hz",
		"Logical Monitors: 1",
		"Position: (0, 0)",
		"Display: Acer H236HL",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("status output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Available Modes") {
		t.Fatalf("mode listing should be off by default:\n%s", out)
	}
}

func TestPrintStatusWithModes(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, fixtureSnapshot(), true)
	out := buf.String()
	if !strings.Contains(out, "Available Modes (* = current, P = preferred)") {
		t.Fatalf("expected mode listing:\n%s", out)
	}
	if !strings.Contains(out, "* P  1. 1920x1080 @ 60.00Hz") {
		t.Fatalf("expected marked current/preferred mode:\n%s", out)
	}
}

func TestWriteStatusYAMLRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := writeStatusYAML(&buf, fixtureSnapshot(), true); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	var doc statusDoc
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	if doc.Serial != 12 {
		t.Fatalf("expected serial 12, got %d", doc.Serial)
	}
	if len(doc.Internal) != 1 || doc.Internal[0].Connector != "eDP-1" {
		t.Fatalf("unexpected internal monitors: %+v", doc.Internal)
	}
	if len(doc.External) != 1 || doc.External[0].CurrentMode == nil || doc.External[0].CurrentMode.Width != 1920 {
		t.Fatalf("unexpected external monitors: %+v", doc.External)
	}
	if len(doc.Internal[0].Modes) != 2 {
		t.Fatalf("expected full mode list with --modes, got %+v", doc.Internal[0].Modes)
	}
	if len(doc.Logical) != 1 || doc.Logical[0].Connectors[0] != "DP-1" {
		t.Fatalf("unexpected logical monitors: %+v", doc.Logical)
	}
}

func TestPatternReport(t *testing.T) {
	var buf bytes.Buffer
	pattern := rules.MonitorPattern{Name: "Acer"}
	printPatternReport(&buf, pattern, fixtureSnapshot())
	out := buf.String()

	if !strings.Contains(out, "1. Acer H236HL (DP-1)") {
		t.Fatalf("expected matched external monitor:\n%s", out)
	}
	if !strings.Contains(out, "All 1 filtered out") {
		t.Fatalf("expected internal monitor filtered out:\n%s", out)
	}
	if !strings.Contains(out, "Summary: 1 of 2 monitors matched the pattern") {
		t.Fatalf("expected summary line:\n%s", out)
	}
}
