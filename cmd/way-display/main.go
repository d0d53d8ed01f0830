package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dra11y/way-display/internal/detect"
	"github.com/dra11y/way-display/internal/engine"
	"github.com/dra11y/way-display/internal/ipc"
	"github.com/dra11y/way-display/internal/rules"
	"github.com/dra11y/way-display/internal/util"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the persistent flags shared by every subcommand.
type app struct {
	watch    bool
	dryRun   bool
	logLevel string
	logger   *util.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "way-display",
		Short:         "Manage display (monitor) selection in Wayland environments",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger = util.NewLogger(util.ParseLogLevel(a.logLevel))
		},
	}
	root.PersistentFlags().BoolVarP(&a.watch, "watch", "w", false, "watch for monitor changes and re-apply rules")
	root.PersistentFlags().BoolVarP(&a.dryRun, "dry-run", "t", false, "print what would be done without making changes")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level (debug|info|warn|error)")

	root.AddCommand(
		newStatusCmd(a),
		newModeCmd(a, rules.ModeExternal, "Use only the external monitor (if connected)"),
		newModeCmd(a, rules.ModeInternal, "Use only the internal monitor (if present)"),
		newModeCmd(a, rules.ModeJoin, "Enable internal and external monitors side by side"),
		newModeCmd(a, rules.ModeMirror, "Mirror internal and external monitors at their best common resolution"),
		newTestCmd(a),
		newAutoCmd(a),
	)
	return root
}

// connect detects the desktop environment and opens the DisplayConfig proxy.
func (a *app) connect(ctx context.Context) (*ipc.Client, error) {
	desktop := detect.Detect(os.Getenv)
	cfg, err := desktop.BusConfig()
	if err != nil {
		return nil, err
	}
	a.logger.Debugf("detected %s session, using %s", desktop, cfg.Service)
	return ipc.Connect(ctx, cfg, a.logger)
}

// runRules executes the rule set once, or continuously under --watch. A
// transport failure in watch mode tears down the connection and rebuilds the
// whole subscription; resolution failures in one-shot mode exit non-zero.
func (a *app) runRules(ruleSet []rules.Rule) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		client, err := a.connect(ctx)
		if err != nil {
			return err
		}
		eng := engine.New(client, a.logger, ruleSet, a.dryRun)
		if !a.watch {
			err := eng.ApplyOnce()
			client.Close()
			return err
		}
		err = eng.Watch(ctx)
		client.Close()
		if ctx.Err() != nil {
			a.logger.Infof("shutting down")
			return nil
		}
		if ipc.IsTransport(err) {
			a.logger.Warnf("connection lost, reconnecting: %v", err)
			continue
		}
		return err
	}
}

func newModeCmd(a *app, mode rules.DisplayMode, short string) *cobra.Command {
	var pattern rules.MonitorPattern
	cmd := &cobra.Command{
		Use:   mode.String(),
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRules([]rules.Rule{{Mode: mode, Pattern: pattern}})
		},
	}
	addPatternFlags(cmd, &pattern)
	return cmd
}

func newAutoCmd(a *app) *cobra.Command {
	var (
		name        string
		spec        rules.AutoSpec
		defaultMode string
	)
	cmd := &cobra.Command{
		Use:     "auto",
		Aliases: []string{"rules"},
		Short:   "Run multiple rules in sequence (first match wins)",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := rules.ParseDisplayMode(defaultMode)
			if err != nil {
				return err
			}
			spec.Default = mode
			if name != "" {
				a.logger.Infof("applying rule set %q", name)
			}
			return a.runRules(spec.Rules())
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "descriptive name for this rule set")
	cmd.Flags().StringArrayVar(&spec.External, "external", nil, "use external display when PATTERN matches")
	cmd.Flags().StringArrayVar(&spec.Internal, "internal", nil, "use internal display when PATTERN matches")
	cmd.Flags().StringArrayVar(&spec.Join, "join", nil, "join displays when PATTERN matches")
	cmd.Flags().StringArrayVar(&spec.Mirror, "mirror", nil, "mirror displays when PATTERN matches")
	cmd.Flags().StringVar(&defaultMode, "default", "external", "default mode if no patterns match")
	return cmd
}

func addPatternFlags(cmd *cobra.Command, p *rules.MonitorPattern) {
	cmd.Flags().StringVar(&p.Connector, "connector", "", `exact match by connector name (e.g. "DP-6", "HDMI-1")`)
	cmd.Flags().StringVar(&p.Vendor, "vendor", "", `exact match by vendor code (e.g. "ACR", "DEL")`)
	cmd.Flags().StringVar(&p.Product, "product", "", `partial match by product name (e.g. "ET430K")`)
	cmd.Flags().StringVar(&p.Serial, "serial", "", `partial match by serial number (e.g. "0x714")`)
	cmd.Flags().StringVar(&p.Name, "name", "", `partial match by display name (e.g. "Acer")`)
}
