package layout

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dra11y/way-display/internal/rules"
	"github.com/dra11y/way-display/internal/state"
)

func fullHDPanel() state.Monitor {
	return state.Monitor{
		ConnectorInfo: state.ConnectorInfo{Connector: "eDP-1"},
		Builtin:       true,
		Modes: []state.Mode{
			{ID: "edp-1080p60", Width: 1920, Height: 1080, RefreshRate: 60.0, IsPreferred: true, PreferredScale: 1.0},
			{ID: "edp-1080p48", Width: 1920, Height: 1080, RefreshRate: 48.0, PreferredScale: 1.0},
			{ID: "edp-720p60", Width: 1280, Height: 720, RefreshRate: 60.0, PreferredScale: 1.0},
		},
	}
}

func fourKMonitor() state.Monitor {
	return state.Monitor{
		ConnectorInfo: state.ConnectorInfo{Connector: "DP-1"},
		Modes: []state.Mode{
			{ID: "dp-4k60", Width: 3840, Height: 2160, RefreshRate: 60.0, IsPreferred: true, PreferredScale: 2.0},
			{ID: "dp-1080p120", Width: 1920, Height: 1080, RefreshRate: 120.0, PreferredScale: 1.0},
			{ID: "dp-1080p60", Width: 1920, Height: 1080, RefreshRate: 60.0, PreferredScale: 1.0},
		},
	}
}

func TestJoinedPlacesMonitorsLeftToRight(t *testing.T) {
	got, err := Synthesize(rules.ModeJoin, []state.Monitor{fullHDPanel(), fourKMonitor()})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	want := []LogicalMonitor{
		{X: 0, Y: 0, Scale: 1.0, Primary: true, Monitors: []MonitorAssignment{{Connector: "eDP-1", ModeID: "edp-1080p60"}}},
		{X: 1920, Y: 0, Scale: 2.0, Monitors: []MonitorAssignment{{Connector: "DP-1", ModeID: "dp-4k60"}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}
}

func TestJoinedScaleDividesLogicalWidth(t *testing.T) {
	// The 4K monitor at scale 2.0 occupies 1920 logical pixels, so a third
	// monitor after it starts at 1920+1920.
	third := fullHDPanel()
	third.Connector = "HDMI-1"
	third.Builtin = false
	got, err := Synthesize(rules.ModeExternal, []state.Monitor{fullHDPanel(), fourKMonitor(), third})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 logical monitors, got %d", len(got))
	}
	if got[2].X != 3840 {
		t.Fatalf("expected third monitor at x=3840, got %d", got[2].X)
	}
	if got[1].Primary || got[2].Primary {
		t.Fatalf("only the leftmost monitor should be primary")
	}
}

func TestJoinedSkipsModelessMonitors(t *testing.T) {
	modeless := state.Monitor{ConnectorInfo: state.ConnectorInfo{Connector: "DP-2"}}
	got, err := Synthesize(rules.ModeJoin, []state.Monitor{modeless, fourKMonitor()})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if len(got) != 1 || got[0].Monitors[0].Connector != "DP-1" {
		t.Fatalf("expected the modeless monitor to be skipped, got %+v", got)
	}
	if !got[0].Primary || got[0].X != 0 {
		t.Fatalf("surviving monitor should anchor the layout, got %+v", got[0])
	}
}

func TestJoinedNoUsableModes(t *testing.T) {
	modeless := state.Monitor{ConnectorInfo: state.ConnectorInfo{Connector: "DP-2"}}
	_, err := Synthesize(rules.ModeJoin, []state.Monitor{modeless})
	var noModes *NoUsableModesError
	if !errors.As(err, &noModes) {
		t.Fatalf("expected NoUsableModesError, got %v", err)
	}
}

func TestMirroredPicksHighestCommonResolution(t *testing.T) {
	// 3840x2160 is not common; 1920x1080 is the best shared resolution.
	// Each monitor contributes its highest-refresh mode at that resolution.
	got, err := Synthesize(rules.ModeMirror, []state.Monitor{fullHDPanel(), fourKMonitor()})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	want := []LogicalMonitor{{
		X: 0, Y: 0, Scale: 1.0, Primary: true,
		Monitors: []MonitorAssignment{
			{Connector: "eDP-1", ModeID: "edp-1080p60"},
			{Connector: "DP-1", ModeID: "dp-1080p120"},
		},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}
}

func TestMirroredReferenceIsFirstExternal(t *testing.T) {
	// The external's preferred scale at the chosen resolution drives the
	// logical scale even when the built-in monitor comes first.
	ext := fourKMonitor()
	ext.Modes = []state.Mode{
		{ID: "dp-1080p60", Width: 1920, Height: 1080, RefreshRate: 60.0, IsPreferred: true, PreferredScale: 1.5},
	}
	got, err := Synthesize(rules.ModeMirror, []state.Monitor{fullHDPanel(), ext})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if got[0].Scale != 1.5 {
		t.Fatalf("expected reference scale 1.5, got %v", got[0].Scale)
	}
}

func TestMirroredClampsScaleToOne(t *testing.T) {
	a := fullHDPanel()
	a.Builtin = false
	a.Modes[0].PreferredScale = 0.75
	b := fullHDPanel()
	b.Connector = "DP-3"
	got, err := Synthesize(rules.ModeMirror, []state.Monitor{a, b})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if got[0].Scale != 1.0 {
		t.Fatalf("expected scale clamped to 1.0, got %v", got[0].Scale)
	}
}

func TestMirroredNoCommonResolutions(t *testing.T) {
	tiny := state.Monitor{
		ConnectorInfo: state.ConnectorInfo{Connector: "DP-4"},
		Modes: []state.Mode{
			{ID: "dp4-xga", Width: 1024, Height: 768, RefreshRate: 60.0, PreferredScale: 1.0},
		},
	}
	_, err := Synthesize(rules.ModeMirror, []state.Monitor{fullHDPanel(), tiny})
	var noCommon *NoCommonResolutionsError
	if !errors.As(err, &noCommon) {
		t.Fatalf("expected NoCommonResolutionsError, got %v", err)
	}
}

func TestMirroredEmptyInput(t *testing.T) {
	_, err := Synthesize(rules.ModeMirror, nil)
	var noModes *NoUsableModesError
	if !errors.As(err, &noModes) {
		t.Fatalf("expected NoUsableModesError, got %v", err)
	}
}
