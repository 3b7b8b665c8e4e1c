// Package modal manages a stack of dialogs: open, close, minimize, maximize,
// bring to front, keyboard and backdrop dismissal, focus trapping, and scroll
// locking. Rendering is left to the caller.
package modal

import (
	"errors"
	"time"
)

// ErrMissingID is returned when opening a modal without an id.
var ErrMissingID = errors.New("modal id is required")

// Size is the requested dialog size.
type Size string

// Supported sizes.
const (
	SizeSmall  Size = "sm"
	SizeMedium Size = "md"
	SizeLarge  Size = "lg"
	SizeXL     Size = "xl"
	SizeFull   Size = "full"
)

// Valid reports whether s is a known size.
func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge, SizeXL, SizeFull:
		return true
	}
	return false
}

// Config describes a modal to open. Nil flags default to true.
type Config struct {
	ID      string
	Title   string
	Content any
	Size    Size

	Closable         *bool
	Backdrop         *bool
	BackdropClosable *bool
	Keyboard         *bool

	// InitialFocus names the element focused on entry. Empty means the
	// first focusable element.
	InitialFocus string

	OnOpen  func(id string)
	OnClose func(id string)
}

// Record is the state of one registered modal. Records returned by the
// Controller are copies.
type Record struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content any    `json:"content,omitempty"`
	Size    Size   `json:"size"`

	IsOpen      bool `json:"is_open"`
	IsMinimized bool `json:"is_minimized"`
	IsMaximized bool `json:"is_maximized"`
	StackIndex  int  `json:"stack_index"`

	Closable         bool `json:"closable"`
	Backdrop         bool `json:"backdrop"`
	BackdropClosable bool `json:"backdrop_closable"`
	Keyboard         bool `json:"keyboard"`

	InitialFocus string    `json:"initial_focus,omitempty"`
	OpenedAt     time.Time `json:"opened_at"`

	// restoreFocus is the element that held focus before this modal opened.
	restoreFocus string
	onClose      func(id string)
	// seq orders records by first insertion for capacity eviction.
	seq uint64
}

// Visible reports whether the record is open and not minimized.
func (r *Record) Visible() bool {
	return r.IsOpen && !r.IsMinimized
}

func flag(v *bool) bool {
	return v == nil || *v
}

// Bool returns a pointer to b, for Config flags.
func Bool(b bool) *bool {
	return &b
}

// Key names the keyboard keys the controller reacts to.
type Key string

// Handled keys.
const (
	KeyEscape Key = "Escape"
	KeyTab    Key = "Tab"
)
