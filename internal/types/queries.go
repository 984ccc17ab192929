package types

import "fmt"

// String renders a human-readable rendition of h, used in diagnostic text
// and in snapshot-tested golden output.
func (t *Table) String(h Handle) string {
	ty := t.Get(h)
	switch ty.kind {
	case KindBool:
		return "bool"
	case KindInteger:
		return integerName(ty.bits, ty.signed)
	case KindFloatingPoint:
		if ty.bits == 64 {
			return "double"
		}
		return "float"
	case KindVoid:
		return "void"
	case KindAuto:
		return "auto"
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindVector:
		return fmt.Sprintf("%s%d", t.String(ty.component), ty.length)
	case KindMatrix:
		return fmt.Sprintf("%s%dx%d", t.String(ty.component), ty.length, ty.length)
	case KindArray:
		if ty.length == 0 {
			return t.String(ty.element) + "[]"
		}
		return fmt.Sprintf("%s[%d]", t.String(ty.element), ty.length)
	case KindClass, KindClassTemplate:
		if ty.class == nil {
			return "<class>"
		}
		name := ty.class.Name
		if len(ty.class.TemplateArgValues) > 0 {
			name += "<"
			for i, a := range ty.class.TemplateArgValues {
				if i > 0 {
					name += ", "
				}
				name += t.String(a)
			}
			name += ">"
		}
		return name
	case KindEnum:
		if ty.enum == nil {
			return "<enum>"
		}
		return ty.enum.Name
	case KindStrongPtr:
		return t.String(ty.pointee) + "^"
	case KindWeakPtr:
		return t.String(ty.pointee) + "*"
	case KindRawPtr:
		return t.String(ty.pointee) + "&"
	case KindQualified:
		q := ty.qualifiers.String()
		if q == "" {
			return t.String(ty.base)
		}
		return q + " " + t.String(ty.base)
	case KindFormalTemplateArg:
		return ty.name
	case KindUnresolvedScopedType:
		return t.String(ty.base) + "." + ty.name
	default:
		return fmt.Sprintf("<type kind %d>", int(ty.kind))
	}
}

func integerName(bits int, signed bool) string {
	switch {
	case bits == 8 && signed:
		return "byte"
	case bits == 8:
		return "ubyte"
	case bits == 16 && signed:
		return "short"
	case bits == 16:
		return "ushort"
	case bits == 32 && signed:
		return "int"
	case bits == 32:
		return "uint"
	default:
		return fmt.Sprintf("int%d", bits)
	}
}

// IsScalar reports whether h is a Bool, Integer, or FloatingPoint type —
// the set of component types a Vector/Matrix may be built from.
func (t *Table) IsScalar(h Handle) bool {
	switch t.Get(h).kind {
	case KindBool, KindInteger, KindFloatingPoint:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether h is an Integer or FloatingPoint type.
func (t *Table) IsNumeric(h Handle) bool {
	switch t.Get(h).kind {
	case KindInteger, KindFloatingPoint:
		return true
	default:
		return false
	}
}

// IsIntegerVector reports whether h is a Vector whose component is Integer.
func (t *Table) IsIntegerVector(h Handle) bool {
	ty := t.Get(h)
	return ty.kind == KindVector && t.Get(ty.component).kind == KindInteger
}

// IsFloatVector reports whether h is a Vector whose component is FloatingPoint.
func (t *Table) IsFloatVector(h Handle) bool {
	ty := t.Get(h)
	return ty.kind == KindVector && t.Get(ty.component).kind == KindFloatingPoint
}

// IsPtr reports whether h is a StrongPtr, WeakPtr, or RawPtr.
func (t *Table) IsPtr(h Handle) bool {
	switch t.Get(h).kind {
	case KindStrongPtr, KindWeakPtr, KindRawPtr:
		return true
	default:
		return false
	}
}

// Pointee returns the pointee of a StrongPtr/WeakPtr/RawPtr type, or 0.
func (t *Table) Pointee(h Handle) Handle {
	ty := t.Get(h)
	if !t.IsPtr(h) {
		return 0
	}
	return ty.pointee
}

// NeedsDestruction reports whether a value of type h owns a resource that
// must be released on scope exit — a StrongPtr or WeakPtr directly, or a
// class holding one (directly or via a parent or a nested class field),
// matching the destructor-insertion invariant of the Semantic Pass (spec
// §4.4.6: "contains a strong/weak pointer, or has a class destructor in
// the transitive closure").
func (t *Table) NeedsDestruction(h Handle) bool {
	ty := t.Get(h)
	switch ty.kind {
	case KindStrongPtr, KindWeakPtr:
		return true
	case KindClass:
		if ty.class == nil {
			return false
		}
		for _, m := range ty.class.Methods {
			if m.IsDestructor() {
				return true
			}
		}
		for _, f := range ty.class.Fields {
			if t.NeedsDestruction(f.Type) {
				return true
			}
		}
		if ty.class.Parent != 0 {
			return t.NeedsDestruction(ty.class.Parent)
		}
		return false
	case KindArray:
		return t.NeedsDestruction(ty.element)
	default:
		return false
	}
}

// ArrayLength reports the declared length of an Array type (0 for the
// unsized array variant).
func (t *Table) ArrayLength(h Handle) int {
	return t.Get(h).length
}

// Element returns the element type of an Array, or 0 for any other kind.
func (t *Table) Element(h Handle) Handle {
	ty := t.Get(h)
	if ty.kind != KindArray {
		return 0
	}
	return ty.element
}

// Component returns the component type of a Vector, or the column type of
// a Matrix; 0 for any other kind.
func (t *Table) Component(h Handle) Handle {
	ty := t.Get(h)
	if ty.kind != KindVector && ty.kind != KindMatrix {
		return 0
	}
	return ty.component
}

// VectorLength returns the component count of a Vector, or the column
// count of a Matrix; 0 for any other kind.
func (t *Table) VectorLength(h Handle) int {
	ty := t.Get(h)
	if ty.kind != KindVector && ty.kind != KindMatrix {
		return 0
	}
	return ty.length
}

// ContainsRawPtr reports whether h transitively contains a raw pointer,
// through fields or array elements — the predicate used to reject
// allocations that would permit dangling references (spec §4.1).
func (t *Table) ContainsRawPtr(h Handle) bool {
	ty := t.Get(h)
	switch ty.kind {
	case KindRawPtr:
		return true
	case KindArray:
		return t.ContainsRawPtr(ty.element)
	case KindClass:
		if ty.class == nil {
			return false
		}
		for _, f := range ty.class.Fields {
			if t.ContainsRawPtr(f.Type) {
				return true
			}
		}
		if ty.class.Parent != 0 {
			return t.ContainsRawPtr(ty.class.Parent)
		}
		return false
	case KindQualified:
		return t.ContainsRawPtr(ty.base)
	default:
		return false
	}
}

// ContainsRuntimeArray reports whether h transitively contains an
// unsized ("runtime-sized") array through a field — the predicate the
// API Validator uses to reject a uniform Buffer<T> whose T embeds one
// (spec §4.6: "a uniform buffer's T may not transitively contain
// runtime-sized arrays").
func (t *Table) ContainsRuntimeArray(h Handle) bool {
	ty := t.Get(h)
	switch ty.kind {
	case KindArray:
		if ty.length == 0 {
			return true
		}
		return t.ContainsRuntimeArray(ty.element)
	case KindClass:
		if ty.class == nil {
			return false
		}
		for _, f := range ty.class.Fields {
			if t.ContainsRuntimeArray(f.Type) {
				return true
			}
		}
		if ty.class.Parent != 0 {
			return t.ContainsRuntimeArray(ty.class.Parent)
		}
		return false
	case KindQualified:
		return t.ContainsRuntimeArray(ty.base)
	default:
		return false
	}
}

// IsPOD reports whether h is plain-old-data: a type with no destructor
// requirements and no virtual dispatch, and therefore safe to bit-copy and
// to place inside a Uniform/Storage buffer without special handling.
func (t *Table) IsPOD(h Handle) bool {
	ty := t.Get(h)
	switch ty.kind {
	case KindBool, KindInteger, KindFloatingPoint, KindVector, KindMatrix, KindEnum:
		return true
	case KindArray:
		return t.IsPOD(ty.element)
	case KindClass:
		if ty.class == nil {
			return true
		}
		for _, m := range ty.class.Methods {
			if m.IsVirtual() {
				return false
			}
		}
		for _, f := range ty.class.Fields {
			if !t.IsPOD(f.Type) {
				return false
			}
		}
		if ty.class.Parent != 0 && !t.IsPOD(ty.class.Parent) {
			return false
		}
		return true
	case KindQualified:
		return t.IsPOD(ty.base)
	default:
		return false
	}
}

// IsReadable/IsWriteable report whether a Qualified type's access mode
// permits the operation; an unqualified type is both readable and
// writeable by default.
func (t *Table) IsReadable(h Handle) bool {
	ty := t.Get(h)
	if ty.kind != KindQualified {
		return true
	}
	if ty.qualifiers&WriteOnly != 0 {
		return false
	}
	return true
}

func (t *Table) IsWriteable(h Handle) bool {
	ty := t.Get(h)
	if ty.kind != KindQualified {
		return true
	}
	if ty.qualifiers&ReadOnly != 0 {
		return false
	}
	return true
}

// CanWidenTo reports whether a value of type src may be implicitly widened
// to dst: byte/short/int/long chains widen within signedness, and any
// integer widens to any floating-point type, whatever its width. Identical
// types always widen to themselves (a no-op conversion).
func (t *Table) CanWidenTo(src, dst Handle) bool {
	if src == dst {
		return true
	}
	srcTy, dstTy := t.Get(src), t.Get(dst)

	if srcTy.kind == KindNull && (dstTy.kind == KindStrongPtr || dstTy.kind == KindWeakPtr || dstTy.kind == KindRawPtr) {
		return true
	}

	if srcTy.kind == KindInteger && dstTy.kind == KindInteger {
		return srcTy.signed == dstTy.signed && srcTy.bits <= dstTy.bits
	}
	if srcTy.kind == KindInteger && dstTy.kind == KindFloatingPoint {
		return true
	}
	if srcTy.kind == KindFloatingPoint && dstTy.kind == KindFloatingPoint {
		return srcTy.bits <= dstTy.bits
	}
	if srcTy.kind == KindClass && dstTy.kind == KindClass {
		// Widening from a derived class to an ancestor.
		cur := srcTy.class
		for cur != nil && cur.Parent != 0 {
			if cur.Parent == dst {
				return true
			}
			cur = t.Get(cur.Parent).class
		}
		return false
	}
	if srcTy.kind == KindQualified && dstTy.kind == KindQualified && srcTy.base == dstTy.base {
		// Qualified(T, Q).can_widen_to(Qualified(T, Q')) iff every bit set
		// in Q' is also set in Q (spec §3.1) — dropping a qualifier bit
		// (e.g. uniform+readonly -> readonly) is always safe, adding one
		// that wasn't there is not.
		return dstTy.qualifiers&^srcTy.qualifiers == 0
	}
	return false
}
