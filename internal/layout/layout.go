// Package layout synthesizes logical-monitor layouts for submission to the
// compositor and verifies applied configurations against intent. All
// functions are pure computations over an already-fetched snapshot.
package layout

import (
	"math"
	"sort"

	"github.com/dra11y/way-display/internal/rules"
	"github.com/dra11y/way-display/internal/state"
)

// MonitorAssignment binds one physical monitor, by connector, to a mode.
// ModeID is copied verbatim from the source snapshot.
type MonitorAssignment struct {
	Connector string
	ModeID    string
}

// LogicalMonitor is a to-apply descriptor. Transform is always 0 (normal
// orientation); rotation is out of scope.
type LogicalMonitor struct {
	X         int
	Y         int
	Scale     float64
	Transform uint32
	Primary   bool
	Monitors  []MonitorAssignment
}

// NoUsableModesError reports that no candidate monitor offered any mode.
type NoUsableModesError struct{}

func (e *NoUsableModesError) Error() string {
	return "no valid monitor configuration could be created: no monitor has any modes"
}

// NoCommonResolutionsError reports that mirroring is impossible because the
// target monitors share no resolution.
type NoCommonResolutionsError struct{}

func (e *NoCommonResolutionsError) Error() string {
	return "could not find a common resolution for all monitors to mirror; try join mode instead"
}

// Synthesize produces the logical layout for a resolved mode over the
// monitors chosen for it: a single shared logical monitor for mirror, one
// logical monitor per physical monitor placed left to right otherwise.
func Synthesize(mode rules.DisplayMode, monitors []state.Monitor) ([]LogicalMonitor, error) {
	if mode == rules.ModeMirror {
		return mirrored(monitors)
	}
	return joined(monitors)
}

// joined lays monitors out side by side. Each monitor uses its preferred mode
// (or its first listed mode) and contributes round(width/scale) logical
// pixels of width; monitors with no modes are skipped.
func joined(monitors []state.Monitor) ([]LogicalMonitor, error) {
	var out []LogicalMonitor
	currentX := 0
	for _, monitor := range monitors {
		mode := monitor.PreferredMode()
		if mode == nil {
			continue
		}
		logicalWidth := int(math.Round(float64(mode.Width) / mode.PreferredScale))
		out = append(out, LogicalMonitor{
			X:         currentX,
			Y:         0,
			Scale:     mode.PreferredScale,
			Transform: 0,
			Primary:   len(out) == 0,
			Monitors: []MonitorAssignment{
				{Connector: monitor.Connector, ModeID: mode.ID},
			},
		})
		currentX += logicalWidth
	}
	if len(out) == 0 {
		return nil, &NoUsableModesError{}
	}
	return out, nil
}

type resolution struct {
	width  int
	height int
}

// mirrored builds a single logical monitor covering every input monitor at
// their highest common resolution. The reference monitor is the first
// external one when present; externals typically report the richer mode list.
func mirrored(monitors []state.Monitor) ([]LogicalMonitor, error) {
	if len(monitors) == 0 {
		return nil, &NoUsableModesError{}
	}
	reference := &monitors[0]
	for i := range monitors {
		if !monitors[i].Builtin {
			reference = &monitors[i]
			break
		}
	}

	common := commonResolutions(reference, monitors)
	if len(common) == 0 {
		return nil, &NoCommonResolutionsError{}
	}
	// Highest pixel count wins; equal-pixel candidates keep the reference
	// monitor's mode order.
	sort.SliceStable(common, func(i, j int) bool {
		return common[i].width*common[i].height > common[j].width*common[j].height
	})
	chosen := common[0]

	assignments := make([]MonitorAssignment, 0, len(monitors))
	for _, monitor := range monitors {
		mode := bestRefreshMode(monitor, chosen)
		assignments = append(assignments, MonitorAssignment{
			Connector: monitor.Connector,
			ModeID:    mode.ID,
		})
	}

	scale := 1.0
	for i := range reference.Modes {
		m := &reference.Modes[i]
		if m.Width == chosen.width && m.Height == chosen.height {
			// Never mirror below 1.0; a sub-1.0 preferred scale would
			// pixel-double the mirrored image relative to the others.
			scale = math.Max(m.PreferredScale, 1.0)
			break
		}
	}

	return []LogicalMonitor{{
		X:         0,
		Y:         0,
		Scale:     scale,
		Transform: 0,
		Primary:   true,
		Monitors:  assignments,
	}}, nil
}

// commonResolutions returns the reference monitor's resolutions supported by
// every monitor in the set, deduplicated, in reference mode order.
func commonResolutions(reference *state.Monitor, monitors []state.Monitor) []resolution {
	var out []resolution
	seen := make(map[resolution]struct{})
	for _, mode := range reference.Modes {
		res := resolution{width: mode.Width, height: mode.Height}
		if _, ok := seen[res]; ok {
			continue
		}
		seen[res] = struct{}{}
		supported := true
		for _, monitor := range monitors {
			if !supportsResolution(monitor, res) {
				supported = false
				break
			}
		}
		if supported {
			out = append(out, res)
		}
	}
	return out
}

func supportsResolution(monitor state.Monitor, res resolution) bool {
	for _, mode := range monitor.Modes {
		if mode.Width == res.width && mode.Height == res.height {
			return true
		}
	}
	return false
}

// bestRefreshMode picks the monitor's highest-refresh mode at the given
// resolution. NaN refresh rates compare as equal rather than panicking.
// The caller guarantees at least one mode matches.
func bestRefreshMode(monitor state.Monitor, res resolution) *state.Mode {
	var best *state.Mode
	for i := range monitor.Modes {
		m := &monitor.Modes[i]
		if m.Width != res.width || m.Height != res.height {
			continue
		}
		if best == nil || m.RefreshRate > best.RefreshRate {
			best = m
		}
	}
	return best
}
