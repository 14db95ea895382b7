//go:build js && wasm

package dnd

import (
	"fmt"
	"syscall/js"
)

// QuerySelectorAll returns the elements of the global document matching selector.
//
// Event targets of the returned elements resolve to their closest ancestor matching selector,
// so a drag over a child node is reported against the member card that contains it.
func QuerySelectorAll(selector string) (elements []Element, err error) {
	defer catch(&err)

	doc := js.Global().Get("document")
	if !doc.Truthy() {
		return nil, fmt.Errorf("no document on window")
	}

	nodes := doc.Call("querySelectorAll", selector)
	n := nodes.Get("length").Int()
	elements = make([]Element, 0, n)
	for i := range n {
		elements = append(elements, &jsElement{v: nodes.Call("item", i), selector: selector})
	}
	return elements, nil
}

type jsElement struct {
	v        js.Value
	selector string
	// funcs keeps registered callbacks alive for the lifetime of the page.
	funcs []js.Func
}

func (e *jsElement) AddEventListener(event string, h Handler) (err error) {
	defer catch(&err)

	fn := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			h(&jsEvent{v: args[0], selector: e.selector})
		}
		return nil
	})
	e.v.Call("addEventListener", event, fn)
	e.funcs = append(e.funcs, fn)
	return nil
}

func (e *jsElement) AddClass(token string) (err error) {
	defer catch(&err)
	e.v.Get("classList").Call("add", token)
	return nil
}

func (e *jsElement) RemoveClass(token string) (err error) {
	defer catch(&err)
	e.v.Get("classList").Call("remove", token)
	return nil
}

func (e *jsElement) InnerHTML() (html string, err error) {
	defer catch(&err)
	return e.v.Get("innerHTML").String(), nil
}

func (e *jsElement) SetInnerHTML(html string) (err error) {
	defer catch(&err)
	e.v.Set("innerHTML", html)
	return nil
}

func (e *jsElement) Equal(other Element) bool {
	o, ok := other.(*jsElement)
	return ok && e.v.Equal(o.v)
}

func (e *jsElement) Contains(other Element) (inside bool) {
	defer func() {
		if recover() != nil {
			inside = false
		}
	}()

	o, ok := other.(*jsElement)
	if !ok {
		return false
	}
	return e.v.Call("contains", o.v).Bool()
}

type jsEvent struct {
	v        js.Value
	selector string
}

func (ev *jsEvent) Type() string {
	return ev.v.Get("type").String()
}

func (ev *jsEvent) Target() (el Element, ok bool) {
	defer func() {
		if recover() != nil {
			el, ok = nil, false
		}
	}()

	t := ev.v.Get("target")
	if t.Type() != js.TypeObject || t.Get("closest").Type() != js.TypeFunction {
		return nil, false
	}
	if member := t.Call("closest", ev.selector); member.Truthy() {
		t = member
	}
	return &jsElement{v: t, selector: ev.selector}, true
}

// RelatedTarget returns the raw node the pointer moved to, without member resolution.
func (ev *jsEvent) RelatedTarget() (Element, bool) {
	t := ev.v.Get("relatedTarget")
	if t.Type() != js.TypeObject {
		return nil, false
	}
	return &jsElement{v: t, selector: ev.selector}, true
}

func (ev *jsEvent) DataTransfer() (DataTransfer, bool) {
	dt := ev.v.Get("dataTransfer")
	if !dt.Truthy() {
		return nil, false
	}
	return jsDataTransfer{v: dt}, true
}

func (ev *jsEvent) PreventDefault() {
	ev.v.Call("preventDefault")
}

func (ev *jsEvent) StopPropagation() {
	ev.v.Call("stopPropagation")
}

type jsDataTransfer struct {
	v js.Value
}

func (d jsDataTransfer) SetEffectAllowed(effect string) {
	d.v.Set("effectAllowed", effect)
}

func (d jsDataTransfer) SetDropEffect(effect string) {
	d.v.Set("dropEffect", effect)
}

func (d jsDataTransfer) SetData(format, data string) (err error) {
	defer catch(&err)
	d.v.Call("setData", format, data)
	return nil
}

func (d jsDataTransfer) GetData(format string) (data string, err error) {
	defer catch(&err)
	return d.v.Call("getData", format).String(), nil
}

// catch turns a JavaScript exception raised by a syscall/js call into an error.
func catch(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if jsErr, ok := r.(js.Error); ok {
		*err = jsErr
		return
	}
	*err = fmt.Errorf("dom: %v", r)
}
