// Package dnd makes a fixed set of page elements mutually drag-and-drop swappable.
//
// # Coordinator
//
// A [Coordinator] owns the single drag session for the page. [Coordinator.Attach] binds the
// six drag handlers to every member element once; afterwards the coordinator is purely event driven.
//
// A session starts on the first dragstart over a member element and ends on dragend:
//
//	Idle --dragstart(E)--> Dragging   mark E "active-drag-target", snapshot E's content
//	Dragging --dragenter(T)--> mark T "over"
//	Dragging --dragover(T)--> suppress the default action, drop effect "move"
//	Dragging --dragleave(T)--> stop propagation, unmark T "over"
//	Dragging --drop(T)--> swap source and T contents, forget the source
//	Dragging --dragend--> Idle         clear every marker, reset the session
//
// A dragstart delivered while a session is active is ignored.
// Drops onto elements outside the member set are ignored.
//
// # Cleanup
//
// dragend is the only place that restores the page: it runs whether or not a drop happened,
// and it clears markers on every member, so a failed marker toggle or an unreadable transfer
// payload earlier in the gesture never leaves stale state behind.
//
// # Platform bindings
//
// The coordinator only sees the [Element], [DragEvent] and [DataTransfer] interfaces.
// Under GOOS=js GOARCH=wasm the package provides adapters over syscall/js (see [QuerySelectorAll]);
// tests drive the coordinator with an in-memory fake.
//
// Handlers run to completion on the browser's event loop, so the session needs no locking.
// Nothing in this package may hand a handler off to a goroutine.
package dnd
