package config

import "fmt"

// Kind classifies a dataset error. Each kind maps to its own process exit
// code.
type Kind int

const (
	KindMissingFile Kind = iota + 1
	KindOpen
	KindExtension
	KindMalformed
	KindMass
	KindPosition
	KindVelocity
	KindAttribute
	KindPxRadius
)

func (k Kind) String() string {
	switch k {
	case KindMissingFile:
		return "missing file"
	case KindOpen:
		return "cannot open"
	case KindExtension:
		return "unsupported format"
	case KindMalformed:
		return "malformed document"
	case KindMass:
		return "bad mass"
	case KindPosition:
		return "bad position"
	case KindVelocity:
		return "bad velocity"
	case KindAttribute:
		return "bad attribute"
	case KindPxRadius:
		return "negative px_radius"
	default:
		return "unknown"
	}
}

// ExitCode is the process exit status for errors of this kind.
func (k Kind) ExitCode() int {
	switch k {
	case KindMissingFile:
		return 1
	case KindOpen:
		return 2
	case KindExtension:
		return 3
	case KindMalformed:
		return 4
	case KindMass:
		return 5
	case KindPosition:
		return 6
	case KindVelocity, KindAttribute:
		return 7
	case KindPxRadius:
		return 8
	default:
		return 1
	}
}

type ConfigError struct {
	Kind   Kind
	Path   string
	Object string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := e.Kind.String()
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Object != "" {
		msg += fmt.Sprintf(" (object %q)", e.Object)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) ExitCode() int { return e.Kind.ExitCode() }
