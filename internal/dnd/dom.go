package dnd

// Event names bound by [Coordinator.Attach].
const (
	EventDragStart = "dragstart"
	EventDragEnter = "dragenter"
	EventDragOver  = "dragover"
	EventDragLeave = "dragleave"
	EventDrop      = "drop"
	EventDragEnd   = "dragend"
)

// Marker class tokens.
const (
	ClassActive = "active-drag-target"
	ClassOver   = "over"
)

const (
	// DraggableSelector matches member elements on the page.
	DraggableSelector = ".draggable"

	payloadFormat = "text/html"
	effectMove    = "move"
)

// Handler reacts to one delivered drag event.
type Handler func(DragEvent)

// Element is the part of a DOM element the coordinator touches.
type Element interface {
	// AddEventListener registers h for the named event.
	AddEventListener(event string, h Handler) error
	// AddClass adds a class token. Adding a present token is a no-op.
	AddClass(token string) error
	// RemoveClass removes a class token. Removing an absent token is a no-op.
	RemoveClass(token string) error
	// InnerHTML returns the element's serialized content.
	InnerHTML() (string, error)
	// SetInnerHTML replaces the element's content.
	SetInnerHTML(html string) error
	// Equal reports whether other refers to the same underlying element.
	Equal(other Element) bool
	// Contains reports whether other is this element or one of its descendants.
	Contains(other Element) bool
}

// DataTransfer is the platform carrier attached to one drag gesture.
type DataTransfer interface {
	SetEffectAllowed(effect string)
	SetDropEffect(effect string)
	SetData(format, data string) error
	GetData(format string) (string, error)
}

// DragEvent is one delivered drag event.
//
// Target and DataTransfer report false when the platform delivered an event without an
// element target or without a transfer carrier. RelatedTarget is the node the pointer moved
// to on dragleave, unresolved, and reports false when the pointer left the document.
type DragEvent interface {
	Type() string
	Target() (Element, bool)
	RelatedTarget() (Element, bool)
	DataTransfer() (DataTransfer, bool)
	PreventDefault()
	StopPropagation()
}
