package interp

import "fmt"

// Handle identifies a heap object. Handles grow monotonically and are never
// reused within a run, so a stale handle is always detectable.
type Handle uint64

// ObjectKind enumerates heap object shapes.
type ObjectKind uint8

const (
	ObjInvalid ObjectKind = iota
	ObjString
	ObjList
)

// Object is one heap allocation.
type Object struct {
	Kind  ObjectKind
	Alive bool
	Str   string
	List  []Value
}

// Heap stores every owned runtime object.
type Heap struct {
	next Handle
	objs map[Handle]*Object

	// Allocs and Frees count heap traffic for leak checks in tests.
	Allocs uint64
	Frees  uint64
}

func NewHeap() *Heap {
	return &Heap{
		next: 1,
		objs: make(map[Handle]*Object, 64),
	}
}

func (h *Heap) alloc(kind ObjectKind) (Handle, *Object) {
	handle := h.next
	h.next++
	obj := &Object{Kind: kind, Alive: true}
	h.objs[handle] = obj
	h.Allocs++
	return handle, obj
}

func (h *Heap) AllocString(s string) Handle {
	handle, obj := h.alloc(ObjString)
	obj.Str = s
	return handle
}

func (h *Heap) AllocList(elems []Value) Handle {
	handle, obj := h.alloc(ObjList)
	obj.List = append([]Value(nil), elems...)
	return handle
}

// Get panics on a dead or unknown handle: the static checks are supposed to
// make that unreachable, so it is a bug in the evaluator, not user error.
func (h *Heap) Get(handle Handle) *Object {
	obj, ok := h.objs[handle]
	if !ok {
		panic(fmt.Sprintf("interp: unknown handle %d", handle))
	}
	if !obj.Alive {
		panic(fmt.Sprintf("interp: use of freed handle %d", handle))
	}
	return obj
}

// Free marks the object dead. The entry stays so later misuse is caught.
func (h *Heap) Free(handle Handle) {
	obj, ok := h.objs[handle]
	if !ok || !obj.Alive {
		panic(fmt.Sprintf("interp: double free of handle %d", handle))
	}
	obj.Alive = false
	h.Frees++
}

// Live counts objects still alive; a finished run should report zero.
func (h *Heap) Live() int {
	n := 0
	for _, obj := range h.objs {
		if obj.Alive {
			n++
		}
	}
	return n
}
