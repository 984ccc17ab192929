package types

// Layout computes byte offsets, sizes, and alignments for every class the
// Table has interned, always under LayoutDefault; array sizes are computed
// on demand by sizeAndAlign rather than stored. The storage-class-dependent
// rounding (under Uniform layout every array stride and every class's
// overall alignment rounds up to 16 bytes; under Storage and Default,
// elements pack to their natural alignment) applies only through LayoutAs
// with an explicit layout.
//
// Fields and methods are still being appended to ClassInfo until the
// Semantic Pass and class-template instance queue have both drained, so
// offsets computed any earlier see a partial body. Nothing in this module
// calls Layout; internal/nativeemit lays types out through LayoutAs.
func (t *Table) Layout() {
	t.arena.All(func(h Handle, ty Type) {
		if ty.kind == KindClass && ty.class != nil {
			t.layoutClass(ty.class, LayoutDefault)
		}
	})
}

// LayoutAs computes (and caches, if layout differs from a previously
// computed one) class h's field offsets for a specific storage layout,
// used when the same class type is bound as both an unqualified local and
// a Uniform-qualified buffer element.
func (t *Table) LayoutAs(h Handle, layout MemoryLayout) (size, align int) {
	ty := t.Get(h)
	if ty.kind != KindClass || ty.class == nil {
		size, align = t.sizeAndAlign(h, layout)
		return
	}
	t.layoutClass(ty.class, layout)
	return ty.class.SizeBytes, ty.class.AlignBytes
}

func (t *Table) layoutClass(c *ClassInfo, layout MemoryLayout) {
	offset := 0
	maxAlign := 1
	if c.Parent != 0 {
		if parent := t.Class(c.Parent); parent != nil {
			t.layoutClass(parent, layout)
			offset = parent.SizeBytes
			maxAlign = parent.AlignBytes
		}
	}

	paddedIndex := 0
	for i := range c.Fields {
		f := &c.Fields[i]
		size, align := t.sizeAndAlign(f.Type, layout)
		if align > maxAlign {
			maxAlign = align
		}
		aligned := alignUp(offset, align)
		f.Padding = aligned - offset
		f.Offset = aligned
		f.PaddedIndex = paddedIndex
		paddedIndex++
		offset = aligned + size
	}

	if layout == LayoutUniform && maxAlign < 16 {
		maxAlign = 16
	}
	c.SizeBytes = alignUp(offset, maxAlign)
	c.AlignBytes = maxAlign
	c.Layout = layout
}

// sizeAndAlign returns the size and alignment, in bytes, of h under the
// given storage layout. Scalars size per their bit width; vectors align to
// the next power-of-two multiple of their component size (vec3 aligns like
// vec4, per the std140/std430-style rules this mirrors); arrays stride each
// element to its own alignment, rounded to 16 bytes under Uniform layout.
func (t *Table) sizeAndAlign(h Handle, layout MemoryLayout) (size, align int) {
	ty := t.Get(h)
	switch ty.kind {
	case KindBool:
		return 4, 4
	case KindInteger, KindFloatingPoint:
		b := ty.bits / 8
		if b == 0 {
			b = 4
		}
		return b, b
	case KindVector:
		compSize, _ := t.sizeAndAlign(ty.component, layout)
		n := ty.length
		alignN := n
		if alignN == 3 {
			alignN = 4
		}
		return compSize * n, compSize * alignN
	case KindMatrix:
		colSize, colAlign := t.sizeAndAlign(ty.component, layout)
		_ = colSize
		stride := colAlign
		if layout == LayoutUniform && stride < 16 {
			stride = 16
		}
		return stride * ty.length, stride
	case KindArray:
		elemSize, elemAlign := t.sizeAndAlign(ty.element, layout)
		if layout == LayoutUniform && elemAlign < 16 {
			elemAlign = 16
		}
		stride := alignUp(elemSize, elemAlign)
		n := ty.length
		return stride * n, elemAlign
	case KindClass:
		if ty.class != nil {
			t.layoutClass(ty.class, layout)
			return ty.class.SizeBytes, ty.class.AlignBytes
		}
		return 0, 1
	case KindEnum:
		return 4, 4
	case KindStrongPtr, KindWeakPtr, KindRawPtr:
		return 8, 8
	case KindQualified:
		return t.sizeAndAlign(ty.base, layout)
	default:
		return 0, 1
	}
}

func alignUp(offset, align int) int {
	if align <= 1 {
		return offset
	}
	return (offset + align - 1) / align * align
}
