// Package types implements the CORE's type table: the canonical,
// deduplicated representation of every type that can appear in a Quill
// program, including generic class templates and their instantiations,
// pointer flavors, qualified types, arrays, vectors, and matrices.
//
// Every Type is interned: distinct Handles compare equal iff the types
// they denote are semantically identical, and construction always routes
// through the Table, never bypasses it (spec §3.1).
package types

import (
	"fmt"

	"github.com/quill-lang/quillc/internal/arena"
)

// Handle is a non-owning reference to an interned Type.
type Handle = arena.Handle

// Kind discriminates the tagged variant a Type represents.
type Kind int

const (
	KindBool Kind = iota
	KindInteger
	KindFloatingPoint
	KindVoid
	KindAuto
	KindNull
	KindString
	KindVector
	KindMatrix
	KindArray
	KindClass
	KindClassTemplate
	KindEnum
	KindStrongPtr
	KindWeakPtr
	KindRawPtr
	KindQualified
	KindFormalTemplateArg
	KindUnresolvedScopedType
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "Bool"
	case KindInteger:
		return "Integer"
	case KindFloatingPoint:
		return "FloatingPoint"
	case KindVoid:
		return "Void"
	case KindAuto:
		return "Auto"
	case KindNull:
		return "Null"
	case KindString:
		return "String"
	case KindVector:
		return "Vector"
	case KindMatrix:
		return "Matrix"
	case KindArray:
		return "Array"
	case KindClass:
		return "Class"
	case KindClassTemplate:
		return "ClassTemplate"
	case KindEnum:
		return "Enum"
	case KindStrongPtr:
		return "StrongPtr"
	case KindWeakPtr:
		return "WeakPtr"
	case KindRawPtr:
		return "RawPtr"
	case KindQualified:
		return "Qualified"
	case KindFormalTemplateArg:
		return "FormalTemplateArg"
	case KindUnresolvedScopedType:
		return "UnresolvedScopedType"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MemoryLayout controls alignment/stride rules for array elements and
// class fields once the layout pass has run (spec §3.1, Layout computation).
type MemoryLayout int

const (
	LayoutDefault MemoryLayout = iota
	LayoutStorage
	LayoutUniform
)

func (m MemoryLayout) String() string {
	switch m {
	case LayoutStorage:
		return "storage"
	case LayoutUniform:
		return "uniform"
	default:
		return "default"
	}
}

// Qualifier is a flag set tagged onto a type carrying access mode and
// storage class (spec §3.1: "at most one storage class and at most one
// access mode per qualified type").
type Qualifier uint32

const (
	Uniform Qualifier = 1 << iota
	Storage
	Vertex
	Index
	Sampleable
	Renderable
	ReadOnly
	WriteOnly
	ReadWrite
	Coherent
)

var qualifierNames = []struct {
	bit  Qualifier
	name string
}{
	{Uniform, "uniform"},
	{Storage, "storage"},
	{Vertex, "vertex"},
	{Index, "index"},
	{Sampleable, "sampleable"},
	{Renderable, "renderable"},
	{ReadOnly, "readonly"},
	{WriteOnly, "writeonly"},
	{ReadWrite, "readwrite"},
	{Coherent, "coherent"},
}

// StorageClassMask is the subset of qualifier bits that name a storage
// class; at most one of these may be set on a qualified type.
const StorageClassMask = Uniform | Storage | Vertex | Index

// AccessModeMask is the subset of qualifier bits that name an access mode;
// at most one of these may be set on a qualified type.
const AccessModeMask = ReadOnly | WriteOnly | ReadWrite

// String renders the set bits in declaration order, e.g. "uniform readonly".
func (q Qualifier) String() string {
	if q == 0 {
		return ""
	}
	out := ""
	for _, qn := range qualifierNames {
		if q&qn.bit != 0 {
			if out != "" {
				out += " "
			}
			out += qn.name
		}
	}
	return out
}

// HasSingleStorageClass reports whether at most one storage-class bit is set.
func (q Qualifier) HasSingleStorageClass() bool {
	return bitCount(uint32(q&StorageClassMask)) <= 1
}

// HasSingleAccessMode reports whether at most one access-mode bit is set.
func (q Qualifier) HasSingleAccessMode() bool {
	return bitCount(uint32(q&AccessModeMask)) <= 1
}

func bitCount(v uint32) int {
	n := 0
	for v != 0 {
		n++
		v &= v - 1
	}
	return n
}
