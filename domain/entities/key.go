package entities

// Key is a named non-printable key. Adapters translate it to their
// backend's representation.
type Key string

const (
	KeyEnter      Key = "Enter"
	KeyTab        Key = "Tab"
	KeyEscape     Key = "Escape"
	KeyBackspace  Key = "Backspace"
	KeyDelete     Key = "Delete"
	KeySpace      Key = "Space"
	KeyArrowUp    Key = "ArrowUp"
	KeyArrowDown  Key = "ArrowDown"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
	KeyHome       Key = "Home"
	KeyEnd        Key = "End"
	KeyPageUp     Key = "PageUp"
	KeyPageDown   Key = "PageDown"
	KeyShift      Key = "Shift"
	KeyControl    Key = "Control"
	KeyAlt        Key = "Alt"
	KeyMeta       Key = "Meta"
)
