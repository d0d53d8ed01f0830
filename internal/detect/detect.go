// Package detect identifies the desktop environment so the right
// DisplayConfig bus service can be targeted.
package detect

import (
	"fmt"
	"strings"
)

type Kind int

const (
	Gnome Kind = iota
	Cinnamon
	Unknown
)

// Desktop is the detected session environment. Raw keeps the reported
// session name for diagnostics when the environment is unsupported.
type Desktop struct {
	Kind Kind
	Raw  string
}

func (d Desktop) String() string {
	switch d.Kind {
	case Gnome:
		return "gnome"
	case Cinnamon:
		return "cinnamon"
	default:
		return d.Raw
	}
}

// BusConfig addresses a compositor's DisplayConfig service on the session bus.
type BusConfig struct {
	Service   string
	Path      string
	Interface string
}

// UnsupportedDesktopError reports a session with no known DisplayConfig service.
type UnsupportedDesktopError struct {
	Desktop string
}

func (e *UnsupportedDesktopError) Error() string {
	return fmt.Sprintf("unsupported desktop: %q", e.Desktop)
}

// Detect classifies the session from environment variables. The lookup
// function is injected so callers and tests control the environment.
func Detect(lookup func(string) string) Desktop {
	session := strings.ToLower(lookup("XDG_SESSION_DESKTOP"))
	switch {
	case strings.Contains(session, "cinnamon"):
		return Desktop{Kind: Cinnamon, Raw: session}
	case strings.Contains(session, "gnome"):
		return Desktop{Kind: Gnome, Raw: session}
	default:
		return Desktop{Kind: Unknown, Raw: session}
	}
}

// BusConfig returns the addressing constants for the detected environment.
func (d Desktop) BusConfig() (BusConfig, error) {
	switch d.Kind {
	case Gnome:
		return BusConfig{
			Service:   "org.gnome.Mutter.DisplayConfig",
			Path:      "/org/gnome/Mutter/DisplayConfig",
			Interface: "org.gnome.Mutter.DisplayConfig",
		}, nil
	case Cinnamon:
		return BusConfig{
			Service:   "org.cinnamon.Muffin.DisplayConfig",
			Path:      "/org/cinnamon/Muffin/DisplayConfig",
			Interface: "org.cinnamon.Muffin.DisplayConfig",
		}, nil
	default:
		return BusConfig{}, &UnsupportedDesktopError{Desktop: d.Raw}
	}
}
