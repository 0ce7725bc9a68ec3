package core

import "fmt"

// LineStatus is the coverage status of one source line in one view.
// The values combine bitwise: not-covered | fully-covered == partly-covered.
type LineStatus int

// Line statuses.
const (
	Empty         LineStatus = 0
	NotCovered    LineStatus = 1
	FullyCovered  LineStatus = 2
	PartlyCovered LineStatus = 3
)

func (s LineStatus) String() string {
	switch s {
	case Empty:
		return "empty"
	case NotCovered:
		return "not-covered"
	case FullyCovered:
		return "fully-covered"
	case PartlyCovered:
		return "partly-covered"
	default:
		return fmt.Sprintf("LineStatus(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s LineStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *LineStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "empty":
		*s = Empty
	case "not-covered":
		*s = NotCovered
	case "fully-covered":
		*s = FullyCovered
	case "partly-covered":
		*s = PartlyCovered
	default:
		return fmt.Errorf("unknown line status %q", string(text))
	}
	return nil
}
