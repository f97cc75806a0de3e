package types

import "testing"

func TestInternDedup(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	l1 := in.Intern(MakeList(b.Int))
	l2 := in.Intern(MakeList(b.Int))
	if l1 != l2 {
		t.Errorf("[int] interned twice: %d vs %d", l1, l2)
	}
	if l1 == in.Intern(MakeList(b.String)) {
		t.Error("[int] and [string] share a TypeID")
	}

	r1 := in.Intern(MakeRef(b.String, false))
	r2 := in.Intern(MakeRef(b.String, true))
	if r1 == r2 {
		t.Error("&string and &mut string share a TypeID")
	}

	t1 := in.InternTuple([]TypeID{b.Int, b.Bool})
	t2 := in.InternTuple([]TypeID{b.Int, b.Bool})
	t3 := in.InternTuple([]TypeID{b.Bool, b.Int})
	if t1 != t2 {
		t.Errorf("(int, bool) interned twice: %d vs %d", t1, t2)
	}
	if t1 == t3 {
		t.Error("(int, bool) and (bool, int) share a TypeID")
	}
	got := in.TupleElems(t1)
	if len(got) != 2 || got[0] != b.Int || got[1] != b.Bool {
		t.Errorf("TupleElems = %v", got)
	}
}

func TestIsCopy(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	list := in.Intern(MakeList(b.Int))
	sharedRef := in.Intern(MakeRef(b.String, false))
	mutRef := in.Intern(MakeRef(b.String, true))
	copyTuple := in.InternTuple([]TypeID{b.Int, b.Char})
	moveTuple := in.InternTuple([]TypeID{b.Int, b.String})

	tests := []struct {
		name string
		id   TypeID
		want bool
	}{
		{"int", b.Int, true},
		{"bool", b.Bool, true},
		{"char", b.Char, true},
		{"unit", b.Unit, true},
		{"string", b.String, false},
		{"list", list, false},
		{"shared ref", sharedRef, true},
		{"mut ref", mutRef, false},
		{"tuple of copies", copyTuple, true},
		{"tuple with string", moveTuple, false},
	}
	for _, tt := range tests {
		if got := in.IsCopy(tt.id); got != tt.want {
			t.Errorf("IsCopy(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsHeapAndSliceable(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	list := in.Intern(MakeList(b.Int))
	refList := in.Intern(MakeRef(list, false))
	heapTuple := in.InternTuple([]TypeID{b.Int, b.String})

	if !in.IsHeap(b.String) || !in.IsHeap(list) || !in.IsHeap(heapTuple) {
		t.Error("heap classification missed an owning type")
	}
	if in.IsHeap(b.Int) || in.IsHeap(refList) {
		t.Error("heap classification flagged a non-owning type")
	}
	if !in.IsSliceable(list) || !in.IsSliceable(b.String) || !in.IsSliceable(refList) {
		t.Error("sliceable classification missed a target")
	}
	if in.IsSliceable(b.Int) {
		t.Error("int reported sliceable")
	}
}

func TestFormat(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	list := in.Intern(MakeList(b.Int))
	mutRef := in.Intern(MakeRef(list, true))
	tup := in.InternTuple([]TypeID{b.String, list})

	tests := []struct {
		id   TypeID
		want string
	}{
		{b.Unit, "()"},
		{b.String, "string"},
		{list, "[int]"},
		{mutRef, "&mut [int]"},
		{tup, "(string, [int])"},
	}
	for _, tt := range tests {
		if got := in.Format(tt.id); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
