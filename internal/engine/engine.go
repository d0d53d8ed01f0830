// Package engine runs the resolve/synthesize/apply/verify cycle against the
// compositor, once or continuously on hotplug notifications. All suspension
// (bus calls, signal waits, retry backoff) happens here; the rule resolver
// and layout synthesizer it drives are pure.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/dra11y/way-display/internal/layout"
	"github.com/dra11y/way-display/internal/rules"
	"github.com/dra11y/way-display/internal/state"
	"github.com/dra11y/way-display/internal/util"
)

// applyAttempts bounds the re-apply loop after a failed verification.
const applyAttempts = 3

// MethodTemporary is the ApplyMonitorsConfig method for a non-persistent
// configuration, mirrored here so the engine does not import the transport
// package.
const MethodTemporary uint32 = 1

// DisplayConfig abstracts the compositor proxy the engine drives.
type DisplayConfig interface {
	CurrentState() (*state.Snapshot, error)
	Apply(serial uint32, method uint32, monitors []layout.LogicalMonitor) error
	Subscribe(ctx context.Context) (<-chan struct{}, error)
}

// FailedVerificationError reports that every apply attempt succeeded at the
// bus level but post-apply state never matched the intended layout.
type FailedVerificationError struct {
	Attempts int
}

func (e *FailedVerificationError) Error() string {
	return fmt.Sprintf("monitor configuration was applied but failed verification after %d attempts", e.Attempts)
}

// Engine ties the rule set to a DisplayConfig proxy.
type Engine struct {
	client DisplayConfig
	logger *util.Logger
	rules  []rules.Rule
	dryRun bool
}

// New creates an engine for the given rule set.
func New(client DisplayConfig, logger *util.Logger, ruleSet []rules.Rule, dryRun bool) *Engine {
	return &Engine{client: client, logger: logger, rules: ruleSet, dryRun: dryRun}
}

// ApplyOnce fetches a fresh snapshot and runs one full cycle.
func (e *Engine) ApplyOnce() error {
	snapshot, err := e.client.CurrentState()
	if err != nil {
		return err
	}
	return e.applyCycle(snapshot)
}

// applyCycle resolves a mode for the snapshot, synthesizes the layout,
// submits it, and verifies the result; a mismatch retries the whole cycle on
// a fresh snapshot because the first snapshot's serial is spent.
func (e *Engine) applyCycle(snapshot *state.Snapshot) error {
	for attempt := 1; ; attempt++ {
		intended, err := e.plan(snapshot)
		if err != nil {
			return err
		}
		if e.dryRun {
			for i, lm := range intended {
				e.logger.Infof("would apply logical monitor %d: pos=(%d,%d) scale=%.2f primary=%t monitors=%d",
					i+1, lm.X, lm.Y, lm.Scale, lm.Primary, len(lm.Monitors))
			}
			e.logger.Infof("dry run: no changes applied")
			return nil
		}
		if err := e.client.Apply(snapshot.Serial, MethodTemporary, intended); err != nil {
			return err
		}
		applied, err := e.client.CurrentState()
		if err != nil {
			return err
		}
		if layout.Verify(applied, intended) {
			e.logger.Infof("monitor configuration applied")
			return nil
		}
		if attempt == applyAttempts {
			return &FailedVerificationError{Attempts: applyAttempts}
		}
		e.logger.Warnf("applied configuration did not match intent (attempt %d/%d), retrying", attempt, applyAttempts)
		snapshot = applied
	}
}

// plan resolves the target mode and synthesizes its layout.
func (e *Engine) plan(snapshot *state.Snapshot) ([]layout.LogicalMonitor, error) {
	internal, external := state.Classify(snapshot.Monitors)
	mode, err := rules.Resolve(e.rules, internal, external)
	if err != nil {
		return nil, err
	}

	var targets []state.Monitor
	switch mode {
	case rules.ModeExternal:
		targets = external
	case rules.ModeInternal:
		targets = internal
	default:
		targets = snapshot.Monitors
	}

	intended, err := layout.Synthesize(mode, targets)
	if err != nil {
		return nil, err
	}
	e.logger.Infof("switching to %s mode (%d logical monitors)", mode, len(intended))
	for i, lm := range intended {
		e.logger.Debugf("logical monitor %d: pos=(%d,%d) scale=%.2f primary=%t monitors=%d",
			i+1, lm.X, lm.Y, lm.Scale, lm.Primary, len(lm.Monitors))
	}
	return intended, nil
}

// Watch applies the rules once, then re-evaluates on every MonitorsChanged
// notification until the context ends. Resolution failures are soft: the
// cycle is skipped and watching continues. Transport failures are returned so
// the caller can rebuild the connection.
func (e *Engine) Watch(ctx context.Context) error {
	events, err := e.client.Subscribe(ctx)
	if err != nil {
		return err
	}

	snapshot, err := e.client.CurrentState()
	if err != nil {
		return err
	}
	lastMonitors := snapshot.Monitors
	if err := e.applyCycle(snapshot); err != nil {
		if !IsResolutionError(err) {
			return err
		}
		e.logger.Infof("waiting for matching monitors: %v", err)
	}

	e.logger.Infof("watching for monitor configuration changes")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-events:
			if !ok {
				return fmt.Errorf("monitor change stream closed")
			}
			snapshot, err := e.client.CurrentState()
			if err != nil {
				return err
			}
			if state.MonitorsEqual(snapshot.Monitors, lastMonitors) {
				continue
			}
			lastMonitors = snapshot.Monitors
			e.logger.Infof("monitor topology changed")
			if err := e.applyCycle(snapshot); err != nil {
				if !IsResolutionError(err) {
					return err
				}
				e.logger.Infof("no configuration applied this cycle: %v", err)
			}
		}
	}
}

// IsResolutionError reports whether err is a deterministic resolution or
// synthesis failure: retrying it without a topology change is pointless, but
// a watch loop can treat it as "do nothing this round".
func IsResolutionError(err error) bool {
	var (
		noMonitors   *rules.NoMonitorsAvailableError
		insufficient *rules.InsufficientMonitorsError
		noMatch      *rules.NoMonitorsMatchError
		noCommon     *layout.NoCommonResolutionsError
		noModes      *layout.NoUsableModesError
	)
	return errors.As(err, &noMonitors) ||
		errors.As(err, &insufficient) ||
		errors.As(err, &noMatch) ||
		errors.As(err, &noCommon) ||
		errors.As(err, &noModes)
}
