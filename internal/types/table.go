package types

import (
	"github.com/quill-lang/quillc/internal/arena"
)

// Type is the tagged-variant representation of every type expressible in
// Quill (spec §3.1). Rather than a class hierarchy of kind-specific
// structs, Type is realized the way the teacher's bytecode.Value realizes
// its own runtime tagged union: one flat struct whose active fields are
// determined by Kind, with every query routed through the owning Table so
// that recursive structure (a vector's component, an array's element, a
// pointer's pointee) is always resolved by Handle, never by embedding a
// raw pointer that could escape the arena.
type Type struct {
	kind Kind

	// Integer
	bits   int
	signed bool

	// Vector: component + length. Matrix: component is the column Handle,
	// length is the number of columns.
	component Handle
	length    int

	// Array: element + length (0 means unsized) + layout.
	element Handle
	layout  MemoryLayout

	// Qualified
	base       Handle
	qualifiers Qualifier

	// StrongPtr / WeakPtr / RawPtr
	pointee Handle

	// Class / ClassTemplate
	class *ClassInfo

	// Enum
	enum *EnumInfo

	// FormalTemplateArg / UnresolvedScopedType
	name string
}

// Kind reports the active variant.
func (t Type) Kind() Kind { return t.kind }

// Table is the interning table every Type construction routes through.
// "Distinct references compare equal iff the types are semantically
// identical" (spec §3.1) — Handle equality is Type equality.
type Table struct {
	arena *arena.Arena[Type]

	integerTypes       map[integerKey]Handle
	floatingPointTypes map[integerKey]Handle
	vectorTypes        map[vectorKey]Handle
	matrixTypes        map[vectorKey]Handle
	arrayTypes         map[arrayKey]Handle
	qualTypes          map[qualKey]Handle
	strongPtrs         map[Handle]Handle
	weakPtrs           map[Handle]Handle
	rawPtrs            map[Handle]Handle
	formalArgs         map[string]Handle
	scopedTypes        map[scopedKey]Handle

	boolH   Handle
	stringH Handle
	voidH   Handle
	autoH   Handle
	nullH   Handle

	instanceQueue []Handle
}

type integerKey struct {
	bits   int
	signed bool
}

type vectorKey struct {
	component Handle
	length    int
}

type arrayKey struct {
	element Handle
	length  int
	layout  MemoryLayout
}

type qualKey struct {
	base       Handle
	qualifiers Qualifier
}

type scopedKey struct {
	base Handle
	id   string
}

// NewTable constructs a Table with every built-in primitive already interned.
func NewTable() *Table {
	t := &Table{
		arena:              arena.New[Type](),
		integerTypes:       make(map[integerKey]Handle),
		floatingPointTypes: make(map[integerKey]Handle),
		vectorTypes:        make(map[vectorKey]Handle),
		matrixTypes:    make(map[vectorKey]Handle),
		arrayTypes:     make(map[arrayKey]Handle),
		qualTypes:      make(map[qualKey]Handle),
		strongPtrs:     make(map[Handle]Handle),
		weakPtrs:       make(map[Handle]Handle),
		rawPtrs:        make(map[Handle]Handle),
		formalArgs:     make(map[string]Handle),
		scopedTypes:    make(map[scopedKey]Handle),
	}
	t.boolH = t.arena.Put(Type{kind: KindBool})
	t.stringH = t.arena.Put(Type{kind: KindString})
	t.voidH = t.arena.Put(Type{kind: KindVoid})
	t.autoH = t.arena.Put(Type{kind: KindAuto})
	t.nullH = t.arena.Put(Type{kind: KindNull})
	return t
}

// Get dereferences h. A Handle always belongs to exactly one Table.
func (t *Table) Get(h Handle) Type { return t.arena.Get(h) }

// GetBool, GetString, GetVoid, GetAuto, GetNull return the table's
// singleton instances of the corresponding primitive kinds.
func (t *Table) GetBool() Handle   { return t.boolH }
func (t *Table) GetString() Handle { return t.stringH }
func (t *Table) GetVoid() Handle   { return t.voidH }
func (t *Table) GetAuto() Handle   { return t.autoH }
func (t *Table) GetNull() Handle   { return t.nullH }

// GetInteger interns an integer type of the given bit width and signedness.
func (t *Table) GetInteger(bits int, signed bool) Handle {
	key := integerKey{bits, signed}
	if h, ok := t.integerTypes[key]; ok {
		return h
	}
	h := t.arena.Put(Type{kind: KindInteger, bits: bits, signed: signed})
	t.integerTypes[key] = h
	return h
}

// GetInt, GetUInt, GetByte, GetUByte, GetShort, GetUShort are the common
// fixed-width integer shorthands used throughout the rest of the CORE.
func (t *Table) GetInt() Handle    { return t.GetInteger(32, true) }
func (t *Table) GetUInt() Handle   { return t.GetInteger(32, false) }
func (t *Table) GetByte() Handle   { return t.GetInteger(8, true) }
func (t *Table) GetUByte() Handle  { return t.GetInteger(8, false) }
func (t *Table) GetShort() Handle  { return t.GetInteger(16, true) }
func (t *Table) GetUShort() Handle { return t.GetInteger(16, false) }

// GetFloatingPoint interns a floating-point type of the given bit width.
// Keyed in its own map (rather than integerTypes) so a 32-bit float and a
// 32-bit integer never collide despite sharing a bit width.
func (t *Table) GetFloatingPoint(bits int) Handle {
	key := integerKey{bits: bits}
	if h, ok := t.floatingPointTypes[key]; ok {
		return h
	}
	h := t.arena.Put(Type{kind: KindFloatingPoint, bits: bits})
	t.floatingPointTypes[key] = h
	return h
}

// GetFloat, GetDouble are the 32-bit and 64-bit floating-point shorthands.
func (t *Table) GetFloat() Handle  { return t.GetFloatingPoint(32) }
func (t *Table) GetDouble() Handle { return t.GetFloatingPoint(64) }

// GetVector interns a vector type; fails (ok=false) for length outside {2,3,4}.
func (t *Table) GetVector(component Handle, length int) (Handle, bool) {
	if length < 2 || length > 4 {
		return Handle(0), false
	}
	key := vectorKey{component, length}
	if h, ok := t.vectorTypes[key]; ok {
		return h, true
	}
	h := t.arena.Put(Type{kind: KindVector, component: component, length: length})
	t.vectorTypes[key] = h
	return h, true
}

// GetMatrix interns a matrix type over column vectors; fails for a column
// count outside {2,3,4}, matching GetVector's constraint.
func (t *Table) GetMatrix(column Handle, numColumns int) (Handle, bool) {
	if numColumns < 2 || numColumns > 4 {
		return Handle(0), false
	}
	key := vectorKey{column, numColumns}
	if h, ok := t.matrixTypes[key]; ok {
		return h, true
	}
	h := t.arena.Put(Type{kind: KindMatrix, component: column, length: numColumns})
	t.matrixTypes[key] = h
	return h, true
}

// GetArray interns an array type. length == 0 denotes the unsized array
// (spec §3.1: "permitted only as the last field of a class or as a slice;
// not allocable as a local").
func (t *Table) GetArray(element Handle, length int, layout MemoryLayout) Handle {
	key := arrayKey{element, length, layout}
	if h, ok := t.arrayTypes[key]; ok {
		return h
	}
	h := t.arena.Put(Type{kind: KindArray, element: element, length: length, layout: layout})
	t.arrayTypes[key] = h
	return h
}

// GetStrongPtr, GetWeakPtr, GetRawPtr intern the three pointer flavors.
func (t *Table) GetStrongPtr(pointee Handle) Handle {
	return t.internPtr(t.strongPtrs, KindStrongPtr, pointee)
}
func (t *Table) GetWeakPtr(pointee Handle) Handle {
	return t.internPtr(t.weakPtrs, KindWeakPtr, pointee)
}
func (t *Table) GetRawPtr(pointee Handle) Handle {
	return t.internPtr(t.rawPtrs, KindRawPtr, pointee)
}

func (t *Table) internPtr(m map[Handle]Handle, kind Kind, pointee Handle) Handle {
	if h, ok := m[pointee]; ok {
		return h
	}
	h := t.arena.Put(Type{kind: kind, pointee: pointee})
	m[pointee] = h
	return h
}

// GetQualified returns typ unchanged if qual == 0; otherwise it pushes the
// qualifier inward through arrays (qualifying the element type, not the
// array itself) and interns the (possibly-unwrapped) qualified type.
func (t *Table) GetQualified(typ Handle, qual Qualifier) Handle {
	if qual == 0 {
		return typ
	}
	ty := t.Get(typ)
	if ty.kind == KindArray {
		qualElem := t.GetQualified(ty.element, qual)
		return t.GetArray(qualElem, ty.length, ty.layout)
	}
	if ty.kind == KindQualified {
		// Combine with any existing qualifiers on the same base, rather than
		// nesting Qualified(Qualified(...)).
		return t.GetQualified(ty.base, ty.qualifiers|qual)
	}
	key := qualKey{typ, qual}
	if h, ok := t.qualTypes[key]; ok {
		return h
	}
	h := t.arena.Put(Type{kind: KindQualified, base: typ, qualifiers: qual})
	t.qualTypes[key] = h
	return h
}

// GetUnqualifiedType strips a Qualified wrapper, if present, and reports
// the qualifier bits that were removed.
func (t *Table) GetUnqualifiedType(typ Handle) (Handle, Qualifier) {
	ty := t.Get(typ)
	if ty.kind != KindQualified {
		return typ, 0
	}
	return ty.base, ty.qualifiers
}

// GetFormalTemplateArg interns a named formal template argument placeholder.
func (t *Table) GetFormalTemplateArg(name string) Handle {
	if h, ok := t.formalArgs[name]; ok {
		return h
	}
	h := t.arena.Put(Type{kind: KindFormalTemplateArg, name: name})
	t.formalArgs[name] = h
	return h
}

// GetUnresolvedScopedType interns `base.id`, a scoped-name reference that
// cannot be resolved until base's template argument is substituted.
func (t *Table) GetUnresolvedScopedType(base Handle, id string) Handle {
	key := scopedKey{base, id}
	if h, ok := t.scopedTypes[key]; ok {
		return h
	}
	h := t.arena.Put(Type{kind: KindUnresolvedScopedType, base: base, name: id})
	t.scopedTypes[key] = h
	return h
}
