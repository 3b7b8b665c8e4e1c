package modal

// FocusHost is the view layer's focus surface. Element identifiers are opaque
// strings chosen by the host.
type FocusHost interface {
	// ActiveElement returns the currently focused element, or "".
	ActiveElement() string
	// Focus moves keyboard focus to element.
	Focus(element string)
	// Focusables lists the focusable elements inside modalID, in tab order.
	Focusables(modalID string) []string
}

// ScrollLocker suppresses background scrolling while a modal is visible.
type ScrollLocker interface {
	LockScroll()
	UnlockScroll()
}

// FocusTrap cycles Tab and Shift+Tab within one modal's focusable elements.
type FocusTrap struct {
	host    FocusHost
	modalID string
}

// NewFocusTrap creates a trap for modalID.
func NewFocusTrap(host FocusHost, modalID string) *FocusTrap {
	return &FocusTrap{host: host, modalID: modalID}
}

// ModalID returns the trapped modal.
func (t *FocusTrap) ModalID() string {
	return t.modalID
}

// Activate focuses initial if it is focusable in the modal, else the first
// focusable element. It reports whether focus moved.
func (t *FocusTrap) Activate(initial string) bool {
	elements := t.host.Focusables(t.modalID)
	if len(elements) == 0 {
		return false
	}
	target := elements[0]
	if initial != "" {
		for _, el := range elements {
			if el == initial {
				target = el
				break
			}
		}
	}
	t.host.Focus(target)
	return true
}

// Cycle moves focus to the next (or previous, with shift) focusable element,
// wrapping at both ends. Focus outside the modal is pulled back in. It reports
// whether the key was consumed.
func (t *FocusTrap) Cycle(shift bool) bool {
	elements := t.host.Focusables(t.modalID)
	if len(elements) == 0 {
		return false
	}
	current := t.host.ActiveElement()
	idx := -1
	for i, el := range elements {
		if el == current {
			idx = i
			break
		}
	}

	var next int
	switch {
	case idx < 0 && shift:
		next = len(elements) - 1
	case idx < 0:
		next = 0
	case shift:
		next = (idx - 1 + len(elements)) % len(elements)
	default:
		next = (idx + 1) % len(elements)
	}
	t.host.Focus(elements[next])
	return true
}
