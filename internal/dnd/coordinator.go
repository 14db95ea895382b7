package dnd

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"
)

// Session is a snapshot of the coordinator's drag state.
type Session struct {
	Active bool
	Source Element
}

// Coordinator arbitrates one drag-and-swap operation at a time across a fixed member set.
//
// The zero value is not usable; construct one with [NewCoordinator].
type Coordinator struct {
	members  []Element
	attached bool
	session  Session
	logger   *log.Logger
}

// NewCoordinator creates an idle [Coordinator]. A nil logger discards output.
func NewCoordinator(logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Coordinator{logger: logger}
}

// Session returns the current drag session.
func (c *Coordinator) Session() Session {
	return c.session
}

// Members returns the elements participating in drag and drop.
func (c *Coordinator) Members() []Element {
	return append([]Element(nil), c.members...)
}

// Attach registers every drag handler on every element.
//
// Registration continues past failures: an element whose registration fails is left out of the
// member set (handlers already bound to it stay bound) and the failure is returned as a
// [*BindingError], joined with any others.
func (c *Coordinator) Attach(elements []Element) error {
	if c.attached {
		return ErrAlreadyAttached
	}
	if len(elements) == 0 {
		return &BindingError{Index: -1, Err: ErrNoElements}
	}
	c.attached = true

	handlers := []struct {
		event string
		fn    Handler
	}{
		{EventDragStart, c.DragStart},
		{EventDragEnter, c.DragEnter},
		{EventDragOver, c.DragOver},
		{EventDragLeave, c.DragLeave},
		{EventDrop, c.Drop},
		{EventDragEnd, c.DragEnd},
	}

	var errs []error
	for i, el := range elements {
		var failed error
		for _, h := range handlers {
			if err := el.AddEventListener(h.event, h.fn); err != nil {
				failed = &BindingError{Index: i, Event: h.event, Err: err}
				break
			}
		}
		if failed != nil {
			c.logger.Error("failed to bind drag handlers", "element", i, "error", failed)
			errs = append(errs, failed)
			continue
		}
		c.members = append(c.members, el)
	}

	c.logger.Debug("drag handlers attached", "members", len(c.members), "failed", len(errs))
	return errors.Join(errs...)
}

// DragStart opens a session on the event target unless one is already active.
func (c *Coordinator) DragStart(ev DragEvent) {
	if c.session.Active {
		c.logger.Debug("dragstart ignored, session already active")
		return
	}

	el, dt, ok := c.resolve(ev)
	if !ok {
		return
	}
	if !c.isMember(el) {
		c.logger.Debug("dragstart ignored, target is not draggable")
		return
	}

	c.mark(el, ClassActive)
	dt.SetEffectAllowed(effectMove)

	if content, err := el.InnerHTML(); err != nil {
		c.logger.Warn("failed to read drag source content", "error", err)
	} else if err := dt.SetData(payloadFormat, content); err != nil {
		c.logger.Warn("failed to set transfer payload", "error", err)
	}

	c.session = Session{Active: true, Source: el}
	c.logger.Debug("drag started")
}

// DragEnter marks the hovered element while a session is active.
//
// Drags that did not start on a member, such as files from the desktop, leave markers alone.
func (c *Coordinator) DragEnter(ev DragEvent) {
	if !c.session.Active {
		c.logger.Debug("dragenter ignored, no active session")
		return
	}
	el, ok := ev.Target()
	if !ok {
		c.logger.Debug("dragenter skipped", "error", ErrTransferUnavailable)
		return
	}
	c.mark(el, ClassOver)
}

// DragOver suppresses the default action so the platform will deliver drop.
//
// It must run on every dragover delivery.
func (c *Coordinator) DragOver(ev DragEvent) {
	ev.PreventDefault()
	dt, ok := ev.DataTransfer()
	if !ok {
		c.logger.Debug("dragover without transfer", "error", ErrTransferUnavailable)
		return
	}
	dt.SetDropEffect(effectMove)
}

// DragLeave unmarks the element the pointer left.
//
// Moving between an element and its own child nodes keeps the marker: the browser delivers the
// enter for the new node before the leave for the old one, and both resolve to the same member.
func (c *Coordinator) DragLeave(ev DragEvent) {
	ev.StopPropagation()
	el, ok := ev.Target()
	if !ok {
		c.logger.Debug("dragleave skipped", "error", ErrTransferUnavailable)
		return
	}
	if related, ok := ev.RelatedTarget(); ok && el.Contains(related) {
		return
	}
	c.unmark(el, ClassOver)
}

// Drop swaps the contents of the drag source and the drop target.
//
// The target receives the payload captured at dragstart and the source receives the target's
// prior content. The session stays active until dragend.
func (c *Coordinator) Drop(ev DragEvent) {
	ev.PreventDefault()

	el, dt, ok := c.resolve(ev)
	if !ok {
		return
	}
	if !c.isMember(el) {
		c.logger.Debug("drop ignored, target is not draggable")
		return
	}

	source := c.session.Source
	if source == nil {
		c.logger.Debug("drop without a source")
		return
	}

	prior, err := el.InnerHTML()
	if err != nil {
		c.logger.Warn("failed to read drop target content", "error", err)
		return
	}
	payload, err := dt.GetData(payloadFormat)
	if err != nil {
		c.logger.Warn("failed to read transfer payload", "error", err)
		return
	}

	if err := source.SetInnerHTML(prior); err != nil {
		c.logger.Warn("failed to write drag source content", "error", err)
	}
	if err := el.SetInnerHTML(payload); err != nil {
		c.logger.Warn("failed to write drop target content", "error", err)
	}

	c.session.Source = nil
	c.logger.Info("dropped on draggable")
}

// DragEnd closes the session and clears every marker.
func (c *Coordinator) DragEnd(ev DragEvent) {
	for _, m := range c.members {
		c.unmark(m, ClassOver)
		c.unmark(m, ClassActive)
	}

	if el, ok := ev.Target(); ok {
		c.unmark(el, ClassActive)
	} else {
		c.logger.Debug("dragend without target", "error", ErrTransferUnavailable)
	}

	c.session = Session{}
	c.logger.Debug("drag ended")
}

// resolve returns the event's element target and transfer carrier.
func (c *Coordinator) resolve(ev DragEvent) (Element, DataTransfer, bool) {
	el, ok := ev.Target()
	if !ok {
		c.logger.Debug(ev.Type()+" skipped, no element target", "error", ErrTransferUnavailable)
		return nil, nil, false
	}
	dt, ok := ev.DataTransfer()
	if !ok {
		c.logger.Debug(ev.Type()+" skipped, no data transfer", "error", ErrTransferUnavailable)
		return nil, nil, false
	}
	return el, dt, true
}

func (c *Coordinator) isMember(el Element) bool {
	for _, m := range c.members {
		if m.Equal(el) {
			return true
		}
	}
	return false
}

func (c *Coordinator) mark(el Element, token string) {
	if err := el.AddClass(token); err != nil {
		c.logger.Warn("failed to add marker", "class", token, "error", err)
	}
}

func (c *Coordinator) unmark(el Element, token string) {
	if err := el.RemoveClass(token); err != nil {
		c.logger.Warn("failed to remove marker", "class", token, "error", err)
	}
}

// Bind attaches a new coordinator to elements.
//
// A page with no draggable elements is not an error: Bind returns a nil coordinator and a nil
// error. Elements that fail to bind are logged and left out; an error is returned only when
// none could be bound.
func Bind(elements []Element, logger *log.Logger) (*Coordinator, error) {
	c := NewCoordinator(logger)
	if err := c.Attach(elements); err != nil {
		if errors.Is(err, ErrNoElements) {
			c.logger.Info("no draggable elements on this page")
			return nil, nil
		}
		if len(c.members) == 0 {
			return nil, err
		}
		c.logger.Error("some elements are not draggable", "error", err)
	}
	return c, nil
}
