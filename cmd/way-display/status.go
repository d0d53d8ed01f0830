package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dra11y/way-display/internal/state"
)

func newStatusCmd(a *app) *cobra.Command {
	var (
		showModes  bool
		yamlOutput bool
	)
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show current monitor configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			client, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer client.Close()
			snapshot, err := client.CurrentState()
			if err != nil {
				return err
			}
			if yamlOutput {
				return writeStatusYAML(cmd.OutOrStdout(), snapshot, showModes)
			}
			printStatus(cmd.OutOrStdout(), snapshot, showModes)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&showModes, "modes", "m", false, "include available display modes")
	cmd.Flags().BoolVar(&yamlOutput, "yaml", false, "emit machine-readable YAML")
	return cmd
}

func printStatus(w io.Writer, snapshot *state.Snapshot, showModes bool) {
	fmt.Fprintln(w, "=== Current Monitor Status ===")
	internal, external := state.Classify(snapshot.Monitors)

	fmt.Fprintf(w, "Internal Monitors: %d\n", len(internal))
	for i, m := range internal {
		printMonitor(w, i, m, showModes)
	}
	fmt.Fprintf(w, "\nExternal Monitors: %d\n", len(external))
	for i, m := range external {
		printMonitor(w, i, m, showModes)
	}

	fmt.Fprintf(w, "\nLogical Monitors: %d\n", len(snapshot.LogicalMonitors))
	for i, logical := range snapshot.LogicalMonitors {
		printLogicalMonitor(w, i, logical, snapshot)
	}
}

func printMonitor(w io.Writer, i int, m state.Monitor, showModes bool) {
	fmt.Fprintf(w, "  %d. %s\n", i+1, m.DisplayName)
	fmt.Fprintf(w, "     Connector: %s\n", m.Connector)
	fmt.Fprintf(w, "     Vendor: %s\n", m.Vendor)
	fmt.Fprintf(w, "     Product: %s\n", m.Product)
	fmt.Fprintf(w, "     Serial: %s\n", m.Serial)
	if mode := m.CurrentMode(); mode != nil {
		fmt.Fprintf(w, "     Current Mode: %dx%d @ %.2fHz\n", mode.Width, mode.Height, mode.RefreshRate)
	}
	if showModes {
		printModes(w, m)
	}
}

// printModes lists modes sorted by pixel count then refresh rate, both
// descending, with current (*) and preferred (P) markers.
func printModes(w io.Writer, m state.Monitor) {
	fmt.Fprintln(w, "     Available Modes (* = current, P = preferred):")
	modes := append([]state.Mode(nil), m.Modes...)
	sort.SliceStable(modes, func(i, j int) bool {
		pi, pj := modes[i].Width*modes[i].Height, modes[j].Width*modes[j].Height
		if pi != pj {
			return pi > pj
		}
		return modes[i].RefreshRate > modes[j].RefreshRate
	})
	for i, mode := range modes {
		current := " "
		if mode.IsCurrent {
			current = "*"
		}
		preferred := " "
		if mode.IsPreferred {
			preferred = "P"
		}
		fmt.Fprintf(w, "     %s %s %2d. %dx%d @ %.2fHz\n",
			current, preferred, i+1, mode.Width, mode.Height, mode.RefreshRate)
		if mode.PreferredScale != 1.0 {
			fmt.Fprintf(w, "             Scale: %.2f\n", mode.PreferredScale)
		}
	}
}

func printLogicalMonitor(w io.Writer, i int, logical state.LogicalMonitor, snapshot *state.Snapshot) {
	fmt.Fprintf(w, "  %d. Position: (%d, %d)\n", i+1, logical.X, logical.Y)
	fmt.Fprintf(w, "     Scale: %g\n", logical.Scale)
	fmt.Fprintf(w, "     Primary: %t\n", logical.Primary)
	fmt.Fprintf(w, "     Transform: %d\n", logical.Transform)
	fmt.Fprintln(w, "     Assigned Monitors:")
	for j, info := range logical.Monitors {
		fmt.Fprintf(w, "     %d. Connector: %s\n", j+1, info.Connector)
		if monitor := snapshot.MonitorByConnector(info.Connector); monitor != nil {
			fmt.Fprintf(w, "        Display: %s\n", monitor.DisplayName)
			if mode := monitor.CurrentMode(); mode != nil {
				fmt.Fprintf(w, "        Mode: %dx%d @ %.2fHz\n", mode.Width, mode.Height, mode.RefreshRate)
			}
		}
	}
}

// YAML status document, for scripting against the tool's output.

type statusDoc struct {
	Serial   uint32       `yaml:"serial"`
	Internal []monitorDoc `yaml:"internal"`
	External []monitorDoc `yaml:"external"`
	Logical  []logicalDoc `yaml:"logicalMonitors"`
}

type monitorDoc struct {
	Connector   string    `yaml:"connector"`
	Vendor      string    `yaml:"vendor"`
	Product     string    `yaml:"product"`
	Serial      string    `yaml:"serial"`
	DisplayName string    `yaml:"displayName"`
	CurrentMode *modeDoc  `yaml:"currentMode,omitempty"`
	Modes       []modeDoc `yaml:"modes,omitempty"`
}

type modeDoc struct {
	ID        string  `yaml:"id"`
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	RefreshHz float64 `yaml:"refreshHz"`
	Scale     float64 `yaml:"scale"`
	Current   bool    `yaml:"current,omitempty"`
	Preferred bool    `yaml:"preferred,omitempty"`
}

type logicalDoc struct {
	X          int      `yaml:"x"`
	Y          int      `yaml:"y"`
	Scale      float64  `yaml:"scale"`
	Transform  uint32   `yaml:"transform"`
	Primary    bool     `yaml:"primary"`
	Connectors []string `yaml:"connectors"`
}

func writeStatusYAML(w io.Writer, snapshot *state.Snapshot, showModes bool) error {
	internal, external := state.Classify(snapshot.Monitors)
	doc := statusDoc{
		Serial:   snapshot.Serial,
		Internal: monitorDocs(internal, showModes),
		External: monitorDocs(external, showModes),
	}
	for _, logical := range snapshot.LogicalMonitors {
		connectors := make([]string, 0, len(logical.Monitors))
		for _, info := range logical.Monitors {
			connectors = append(connectors, info.Connector)
		}
		doc.Logical = append(doc.Logical, logicalDoc{
			X:          logical.X,
			Y:          logical.Y,
			Scale:      logical.Scale,
			Transform:  logical.Transform,
			Primary:    logical.Primary,
			Connectors: connectors,
		})
	}
	return yaml.NewEncoder(w).Encode(doc)
}

func monitorDocs(monitors []state.Monitor, showModes bool) []monitorDoc {
	docs := make([]monitorDoc, 0, len(monitors))
	for _, m := range monitors {
		doc := monitorDoc{
			Connector:   m.Connector,
			Vendor:      m.Vendor,
			Product:     m.Product,
			Serial:      m.Serial,
			DisplayName: m.DisplayName,
		}
		if mode := m.CurrentMode(); mode != nil {
			d := newModeDoc(*mode)
			doc.CurrentMode = &d
		}
		if showModes {
			for _, mode := range m.Modes {
				doc.Modes = append(doc.Modes, newModeDoc(mode))
			}
		}
		docs = append(docs, doc)
	}
	return docs
}

func newModeDoc(mode state.Mode) modeDoc {
	return modeDoc{
		ID:        mode.ID,
		Width:     mode.Width,
		Height:    mode.Height,
		RefreshHz: mode.RefreshRate,
		Scale:     mode.PreferredScale,
		Current:   mode.IsCurrent,
		Preferred: mode.IsPreferred,
	}
}
