package canvas

// Modifiers is a bit set of keyboard modifiers held during an event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModMeta
	ModAlt
)

// Has reports whether every bit of m2 is set in m.
func (m Modifiers) Has(m2 Modifiers) bool { return m&m2 == m2 }

// Command reports whether Ctrl or Meta (Cmd on macOS) is held.
func (m Modifiers) Command() bool { return m&(ModCtrl|ModMeta) != 0 }

// PointerEvent is a mouse or pen event. X and Y are screen pixels relative to the top-left
// corner of page Page at the current zoom. While a gesture is in progress, move and up
// events are interpreted relative to the page the gesture started on.
type PointerEvent struct {
	Page   int       `json:"page"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Mods   Modifiers `json:"mods"`
	Clicks int       `json:"clicks"`
}

// KeyEvent is a key press. Key uses DOM KeyboardEvent.key names ("Delete", "ArrowUp", "z").
// InEditable is set when focus is inside an editable field of the host.
type KeyEvent struct {
	Key        string    `json:"key"`
	Mods       Modifiers `json:"mods"`
	InEditable bool      `json:"inEditable"`
}

// WheelEvent is a scroll wheel event. Positive DeltaY scrolls down.
type WheelEvent struct {
	DeltaY float64   `json:"deltaY"`
	Mods   Modifiers `json:"mods"`
}
