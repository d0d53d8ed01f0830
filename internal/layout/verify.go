package layout

import (
	"math"

	"github.com/dra11y/way-display/internal/state"
)

// scaleTolerance absorbs float drift in compositor-reported scales.
const scaleTolerance = 0.001

// Verify reports whether the snapshot reflects the intended layout: same
// logical monitor count, and every intended descriptor present with matching
// geometry, scale, flags, and active modes. The search is existential, not
// positional, so compositor reordering of logical monitors is tolerated.
func Verify(snapshot *state.Snapshot, intended []LogicalMonitor) bool {
	if len(snapshot.LogicalMonitors) != len(intended) {
		return false
	}
	for _, want := range intended {
		if !anyLogicalMatches(snapshot, want) {
			return false
		}
	}
	return true
}

func anyLogicalMatches(snapshot *state.Snapshot, want LogicalMonitor) bool {
	for _, current := range snapshot.LogicalMonitors {
		if logicalMatches(snapshot, current, want) {
			return true
		}
	}
	return false
}

func logicalMatches(snapshot *state.Snapshot, current state.LogicalMonitor, want LogicalMonitor) bool {
	if current.X != want.X || current.Y != want.Y {
		return false
	}
	if math.Abs(current.Scale-want.Scale) > scaleTolerance {
		return false
	}
	if current.Transform != want.Transform || current.Primary != want.Primary {
		return false
	}
	if len(current.Monitors) != len(want.Monitors) {
		return false
	}
	for _, assignment := range want.Monitors {
		if !hasConnector(current, assignment.Connector) {
			return false
		}
		monitor := snapshot.MonitorByConnector(assignment.Connector)
		if monitor == nil {
			return false
		}
		mode := monitor.ModeByID(assignment.ModeID)
		if mode == nil || !mode.IsCurrent {
			return false
		}
	}
	return true
}

func hasConnector(logical state.LogicalMonitor, connector string) bool {
	for _, info := range logical.Monitors {
		if info.Connector == connector {
			return true
		}
	}
	return false
}
