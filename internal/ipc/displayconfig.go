// Package ipc talks to the compositor's DisplayConfig service on the session
// bus. It owns connection bootstrap, the wire tuple shapes, and the
// MonitorsChanged subscription; the decision logic above it never sees D-Bus.
package ipc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/dra11y/way-display/internal/detect"
	"github.com/dra11y/way-display/internal/layout"
	"github.com/dra11y/way-display/internal/state"
	"github.com/dra11y/way-display/internal/util"
)

// Apply methods accepted by ApplyMonitorsConfig.
const (
	MethodVerify     uint32 = 0
	MethodTemporary  uint32 = 1
	MethodPersistent uint32 = 2
)

const (
	connectAttempts = 3
	connectBackoff  = time.Second
	signalBuffer    = 16
)

// TransportError wraps any bus-level failure. Transport errors are the only
// retryable kind; everything the pure core returns is deterministic.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("dbus %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is (or wraps) a bus transport failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// Client is a DisplayConfig proxy bound to one desktop environment's service.
type Client struct {
	conn   *dbus.Conn
	cfg    detect.BusConfig
	logger *util.Logger
}

// Connect opens the session bus with bounded retry and returns a proxy for
// the environment's DisplayConfig service.
func Connect(ctx context.Context, cfg detect.BusConfig, logger *util.Logger) (*Client, error) {
	var conn *dbus.Conn
	err := util.Retry(ctx, connectAttempts, connectBackoff, func(error) bool { return true }, func() error {
		c, err := dbus.SessionBus()
		if err != nil {
			logger.Warnf("session bus connect failed: %v", err)
			return &TransportError{Op: "connect", Err: err}
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, cfg: cfg, logger: logger}, nil
}

// Close releases the bus connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) object() dbus.BusObject {
	return c.conn.Object(c.cfg.Service, dbus.ObjectPath(c.cfg.Path))
}

// CurrentState fetches a full snapshot: serial, physical monitors with their
// mode lists, and the current logical monitor layout.
func (c *Client) CurrentState() (*state.Snapshot, error) {
	call := c.object().Call(c.cfg.Interface+".GetCurrentState", 0)
	if call.Err != nil {
		return nil, &TransportError{Op: "GetCurrentState", Err: call.Err}
	}
	var (
		serial   uint32
		monitors []monitorTuple
		logical  []logicalMonitorTuple
		props    map[string]dbus.Variant
	)
	if err := call.Store(&serial, &monitors, &logical, &props); err != nil {
		return nil, &TransportError{Op: "GetCurrentState decode", Err: err}
	}
	return snapshotFromWire(serial, monitors, logical), nil
}

// Apply submits a logical-monitor layout. The serial must come unchanged from
// the snapshot the layout was synthesized against; the compositor rejects
// stale serials, which is the concurrency control for racing hotplug events.
func (c *Client) Apply(serial uint32, method uint32, monitors []layout.LogicalMonitor) error {
	tuples := make([]applyLogicalTuple, 0, len(monitors))
	for _, m := range monitors {
		tuples = append(tuples, logicalToWire(m))
	}
	call := c.object().Call(c.cfg.Interface+".ApplyMonitorsConfig", 0,
		serial, method, tuples, map[string]dbus.Variant{})
	if call.Err != nil {
		return &TransportError{Op: "ApplyMonitorsConfig", Err: call.Err}
	}
	return nil
}

// Subscribe streams MonitorsChanged notifications until the context is
// cancelled. The payload carries no information; each tick means "topology
// may have changed, re-fetch state".
func (c *Client) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	if err := c.conn.AddMatchSignal(
		dbus.WithMatchObjectPath(dbus.ObjectPath(c.cfg.Path)),
		dbus.WithMatchInterface(c.cfg.Interface),
		dbus.WithMatchMember("MonitorsChanged"),
	); err != nil {
		return nil, &TransportError{Op: "AddMatchSignal", Err: err}
	}
	signals := make(chan *dbus.Signal, signalBuffer)
	c.conn.Signal(signals)

	events := make(chan struct{})
	go func() {
		defer close(events)
		defer c.conn.RemoveSignal(signals)
		member := c.cfg.Interface + ".MonitorsChanged"
		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-signals:
				if !ok {
					return
				}
				if sig.Name != member {
					continue
				}
				select {
				case events <- struct{}{}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return events, nil
}
