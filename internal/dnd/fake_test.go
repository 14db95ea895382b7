package dnd

import (
	"errors"
	"testing"
)

// fakeElement is an in-memory DOM element.
type fakeElement struct {
	name      string
	html      string
	classes   map[string]bool
	listeners map[string][]Handler

	children []*fakeElement

	failListen string // event name whose registration fails
	failClass  error
	failRead   error
}

func newFakeElement(name, html string) *fakeElement {
	return &fakeElement{
		name:      name,
		html:      html,
		classes:   map[string]bool{},
		listeners: map[string][]Handler{},
	}
}

func (e *fakeElement) AddEventListener(event string, h Handler) error {
	if event == e.failListen {
		return errors.New("listener rejected")
	}
	e.listeners[event] = append(e.listeners[event], h)
	return nil
}

func (e *fakeElement) AddClass(token string) error {
	if e.failClass != nil {
		return e.failClass
	}
	e.classes[token] = true
	return nil
}

func (e *fakeElement) RemoveClass(token string) error {
	if e.failClass != nil {
		return e.failClass
	}
	delete(e.classes, token)
	return nil
}

func (e *fakeElement) InnerHTML() (string, error) {
	if e.failRead != nil {
		return "", e.failRead
	}
	return e.html, nil
}

func (e *fakeElement) SetInnerHTML(html string) error {
	e.html = html
	return nil
}

func (e *fakeElement) Equal(other Element) bool {
	o, ok := other.(*fakeElement)
	return ok && o == e
}

func (e *fakeElement) Contains(other Element) bool {
	if e.Equal(other) {
		return true
	}
	for _, child := range e.children {
		if child.Contains(other) {
			return true
		}
	}
	return false
}

// child appends a descendant node that is not itself a member.
func (e *fakeElement) child(name string) *fakeElement {
	c := newFakeElement(name, "")
	e.children = append(e.children, c)
	return c
}

func (e *fakeElement) has(token string) bool {
	return e.classes[token]
}

type fakeTransfer struct {
	data          map[string]string
	effectAllowed string
	dropEffect    string
	setErr        error
}

func newFakeTransfer() *fakeTransfer {
	return &fakeTransfer{data: map[string]string{}}
}

func (d *fakeTransfer) SetEffectAllowed(effect string) { d.effectAllowed = effect }
func (d *fakeTransfer) SetDropEffect(effect string)    { d.dropEffect = effect }

func (d *fakeTransfer) SetData(format, data string) error {
	if d.setErr != nil {
		return d.setErr
	}
	d.data[format] = data
	return nil
}

func (d *fakeTransfer) GetData(format string) (string, error) {
	v, ok := d.data[format]
	if !ok {
		return "", errors.New("no data for " + format)
	}
	return v, nil
}

type fakeEvent struct {
	typ       string
	target    Element
	related   Element
	transfer  DataTransfer
	prevented bool
	stopped   bool
}

func (ev *fakeEvent) Type() string { return ev.typ }

func (ev *fakeEvent) Target() (Element, bool) {
	return ev.target, ev.target != nil
}

func (ev *fakeEvent) RelatedTarget() (Element, bool) {
	return ev.related, ev.related != nil
}

func (ev *fakeEvent) DataTransfer() (DataTransfer, bool) {
	return ev.transfer, ev.transfer != nil
}

func (ev *fakeEvent) PreventDefault()  { ev.prevented = true }
func (ev *fakeEvent) StopPropagation() { ev.stopped = true }

// gesture plays one drag gesture the way a browser delivers it.
//
// drop is only deliverable onto an element whose latest dragover had its default action suppressed.
type gesture struct {
	t          *testing.T
	transfer   *fakeTransfer
	droppable  map[*fakeElement]bool
	deliveries []*fakeEvent
}

func newGesture(t *testing.T) *gesture {
	t.Helper()
	return &gesture{t: t, transfer: newFakeTransfer(), droppable: map[*fakeElement]bool{}}
}

func (g *gesture) dispatch(el *fakeElement, typ string) *fakeEvent {
	return g.deliver(el, &fakeEvent{typ: typ, target: el, transfer: g.transfer})
}

// deliver runs the listeners registered on el for ev.
//
// A member's listeners see events from its child nodes already resolved to the member, the way
// the page adapter resolves targets with closest().
func (g *gesture) deliver(el *fakeElement, ev *fakeEvent) *fakeEvent {
	for _, h := range el.listeners[ev.typ] {
		h(ev)
	}
	g.deliveries = append(g.deliveries, ev)
	return ev
}

func (g *gesture) start(el *fakeElement) *fakeEvent { return g.dispatch(el, EventDragStart) }
func (g *gesture) enter(el *fakeElement) *fakeEvent { return g.dispatch(el, EventDragEnter) }
func (g *gesture) leave(el *fakeElement) *fakeEvent { return g.dispatch(el, EventDragLeave) }
func (g *gesture) end(el *fakeElement) *fakeEvent   { return g.dispatch(el, EventDragEnd) }

// leaveTo delivers dragleave on el as the pointer moves onto related. A nil related means the
// pointer left the document.
func (g *gesture) leaveTo(el, related *fakeElement) *fakeEvent {
	ev := &fakeEvent{typ: EventDragLeave, target: el, transfer: g.transfer}
	if related != nil {
		ev.related = related
	}
	return g.deliver(el, ev)
}

func (g *gesture) over(el *fakeElement) *fakeEvent {
	ev := g.dispatch(el, EventDragOver)
	g.droppable[el] = ev.prevented
	return ev
}

func (g *gesture) drop(el *fakeElement) *fakeEvent {
	g.t.Helper()
	if !g.droppable[el] {
		g.t.Fatalf("drop onto %s is not deliverable: no default-prevented dragover", el.name)
	}
	return g.dispatch(el, EventDrop)
}

// attachAll builds a coordinator bound to els and fails the test on any binding error.
func attachAll(t *testing.T, els ...*fakeElement) *Coordinator {
	t.Helper()
	c := NewCoordinator(nil)
	members := make([]Element, len(els))
	for i, el := range els {
		members[i] = el
	}
	if err := c.Attach(members); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	return c
}

// assertClean checks that no element carries a marker and the session is idle.
func assertClean(t *testing.T, c *Coordinator, els ...*fakeElement) {
	t.Helper()
	for _, el := range els {
		if el.has(ClassOver) {
			t.Errorf("%s still carries %q", el.name, ClassOver)
		}
		if el.has(ClassActive) {
			t.Errorf("%s still carries %q", el.name, ClassActive)
		}
	}
	if s := c.Session(); s.Active || s.Source != nil {
		t.Errorf("expected idle session, got active=%v source=%v", s.Active, s.Source)
	}
}
