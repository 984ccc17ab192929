package types

import "testing"

func TestNeedsDestructionCoversWeakPtrLikeStrongPtr(t *testing.T) {
	tbl := NewTable()
	class := tbl.NewClass("Thing", 0)

	if !tbl.NeedsDestruction(tbl.GetStrongPtr(class)) {
		t.Fatalf("expected a StrongPtr to need destruction")
	}
	if !tbl.NeedsDestruction(tbl.GetWeakPtr(class)) {
		t.Fatalf("expected a WeakPtr to need destruction")
	}
	if tbl.NeedsDestruction(tbl.GetRawPtr(class)) {
		t.Fatalf("a RawPtr does not own its pointee, should not need destruction")
	}
}

func TestNeedsDestructionRecursesThroughFieldsAndParent(t *testing.T) {
	tbl := NewTable()
	held := tbl.NewClass("Held", 0)
	parent := tbl.NewClass("Base", 0)
	tbl.Class(parent).AddField("owned", tbl.GetWeakPtr(held), 0)
	child := tbl.NewClass("Derived", parent)

	if !tbl.NeedsDestruction(child) {
		t.Fatalf("expected a derived class to need destruction via an inherited weak-ptr field")
	}
}

func TestCanWidenToQualifiedDropsQualifierBitsOnly(t *testing.T) {
	tbl := NewTable()
	base := tbl.GetFloat()
	uniformReadOnly := tbl.GetQualified(base, Uniform|ReadOnly)
	readOnly := tbl.GetQualified(base, ReadOnly)

	if !tbl.CanWidenTo(uniformReadOnly, readOnly) {
		t.Fatalf("expected Qualified(T, Uniform|ReadOnly) to widen to Qualified(T, ReadOnly): dropping a bit is safe")
	}
	if tbl.CanWidenTo(readOnly, uniformReadOnly) {
		t.Fatalf("did not expect Qualified(T, ReadOnly) to widen to Qualified(T, Uniform|ReadOnly): adding a bit is not safe")
	}
}
