package types

// IsCopy reports whether values of the type are duplicated on assignment
// instead of moved. Scalars and shared references are copy; so is a tuple
// whose elements are all copy. Heap-owning types (string, lists) move, and
// so does &mut because exclusivity would not survive duplication.
func (in *Interner) IsCopy(id TypeID) bool {
	t, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch t.Kind {
	case KindUnit, KindBool, KindInt, KindUint, KindFloat, KindChar:
		return true
	case KindRef:
		return !t.Mutable
	case KindTuple:
		for _, e := range in.TupleElems(id) {
			if !in.IsCopy(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsHeap reports whether the type owns heap storage and therefore has a
// drop obligation.
func (in *Interner) IsHeap(id TypeID) bool {
	t, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch t.Kind {
	case KindString, KindList:
		return true
	case KindTuple:
		for _, e := range in.TupleElems(id) {
			if in.IsHeap(e) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// IsRef reports whether the type is a reference of either flavor.
func (in *Interner) IsRef(id TypeID) bool {
	t, ok := in.Lookup(id)
	return ok && t.Kind == KindRef
}

// IsSliceable reports whether values of the type support [lo..hi].
func (in *Interner) IsSliceable(id TypeID) bool {
	t, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch t.Kind {
	case KindString, KindList:
		return true
	case KindRef:
		return in.IsSliceable(t.Elem)
	default:
		return false
	}
}
