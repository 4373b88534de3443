package random

import (
	"encoding/binary"
	"math"
	"time"
)

// Source identifies where a contribution came from. Each source rotates
// through the pools independently.
type Source int

const (
	SourceHost Source = iota
	SourcePointer
	SourceKeyboard
	SourceTouch
	SourceMotion
	SourceTiming
	SourceCaller
)

// EventKind is a kind of user-interaction sample.
type EventKind int

const (
	PointerMove EventKind = iota + 1
	KeyPress
	TouchMove
	Orientation
	Acceleration
	PageLoad
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case PointerMove:
		return "pointer_move"
	case KeyPress:
		return "key_press"
	case TouchMove:
		return "touch_move"
	case Orientation:
		return "orientation"
	case Acceleration:
		return "acceleration"
	case PageLoad:
		return "page_load"
	default:
		return "unknown"
	}
}

// Weight returns the entropy credited to one event of this kind, in bits.
func (k EventKind) Weight() int {
	switch k {
	case PointerMove, PageLoad:
		return 2
	case KeyPress, TouchMove:
		return 1
	case Orientation, Acceleration:
		return 3
	default:
		return 0
	}
}

func (k EventKind) source() Source {
	switch k {
	case PointerMove:
		return SourcePointer
	case KeyPress:
		return SourceKeyboard
	case TouchMove:
		return SourceTouch
	case Orientation, Acceleration:
		return SourceMotion
	default:
		return SourceTiming
	}
}

// Event is one interaction sample. X, Y and Z carry coordinates, rotation
// angles or acceleration components depending on Kind; unused axes are zero.
// At is when the host observed the event. Zero means now.
type Event struct {
	Kind    EventKind
	X, Y, Z float64
	At      time.Time
}

// encode serializes the event for hashing into a pool.
func (e Event) encode() []byte {
	b := make([]byte, 0, 40)
	b = binary.BigEndian.AppendUint64(b, uint64(e.Kind))
	b = binary.BigEndian.AppendUint64(b, math.Float64bits(e.X))
	b = binary.BigEndian.AppendUint64(b, math.Float64bits(e.Y))
	b = binary.BigEndian.AppendUint64(b, math.Float64bits(e.Z))
	b = binary.BigEndian.AppendUint64(b, uint64(e.At.UnixNano()))
	return b
}
