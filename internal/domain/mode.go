package domain

import (
	"fmt"
	"strings"
)

// Mode is the kind of movement a Leg represents.
// The set is closed: every switch over Mode handles all four values and
// panics on anything else, since an unknown mode means an upstream bug.
type Mode int

const (
	ModeAccess Mode = iota + 1
	ModeEgress
	ModeTransfer
	ModeTrip
)

func (m Mode) String() string {
	switch m {
	case ModeAccess:
		return "access"
	case ModeEgress:
		return "egress"
	case ModeTransfer:
		return "transfer"
	case ModeTrip:
		return "trip"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Parse a mode name as used on the wire ("access", "egress", "transfer", "trip").
// "transit" is accepted as an alias for "trip".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "access":
		return ModeAccess, nil
	case "egress":
		return ModeEgress, nil
	case "transfer":
		return ModeTransfer, nil
	case "trip", "transit":
		return ModeTrip, nil
	default:
		return 0, fmt.Errorf("parse mode: unknown mode %q", s)
	}
}

func unknownMode(m Mode) string {
	return fmt.Sprintf("domain: leg has unrecognized mode %d", int(m))
}

// BuildPhase tells which search pass is assembling a Path.
type BuildPhase int

const (
	// Labeling assembles in the direction the label-correcting search explores.
	PhaseLabeling BuildPhase = iota
	// Enumerating assembles by walking a finished label structure.
	PhaseEnumerating
)

func (b BuildPhase) String() string {
	if b == PhaseEnumerating {
		return "enumerating"
	}
	return "labeling"
}

// Parse a build phase name; the empty string means enumerating, which is how
// completed itineraries are normally extracted.
func ParseBuildPhase(s string) (BuildPhase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "enumerating":
		return PhaseEnumerating, nil
	case "labeling":
		return PhaseLabeling, nil
	default:
		return 0, fmt.Errorf("parse build phase: unknown phase %q", s)
	}
}
