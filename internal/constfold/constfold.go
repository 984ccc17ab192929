// Package constfold implements the Constant Folder (spec §4.5): a
// recursive function that, given a buffer and a byte offset, writes the concrete
// bytes of a constant expression according to the target type's layout
// instead of emitting runtime instructions for it. Folding failure is a
// signal the caller falls back on, never a diagnostic — an expression
// this package cannot fold may still be perfectly valid, just not
// foldable at compile time.
//
// Grounded on the teacher's internal/bytecode package: the same
// little-endian, fixed-width encode-to-byte-slice style
// (`binary.LittleEndian.PutUint32` et al.) that package uses to
// serialize bytecode instructions is reused here to serialize constant
// values instead.
package constfold

import (
	"encoding/binary"
	"math"

	"github.com/quill-lang/quillc/internal/ast"
	"github.com/quill-lang/quillc/internal/types"
)

// Fold attempts to write the bytes of expr (as typed and laid out by
// the Semantic Pass and internal/types.Layout) into buf starting at
// offset, according to dst's memory layout. It reports false if expr is
// not a compile-time constant this folder recognizes — the caller must
// then fall back to runtime evaluation, not treat this as an error.
func Fold(tbl *types.Table, tree *ast.Tree, expr ast.Handle, dst types.Handle, buf []byte, offset int) bool {
	if expr == 0 {
		return false
	}
	e := tree.Expr(expr)

	switch e.Kind {
	case ast.ExprIntegerLiteral:
		return foldInteger(tbl, dst, e.IntValue, buf, offset)
	case ast.ExprFloatLiteral:
		return foldFloat(tbl, dst, e.FloatValue, buf, offset)
	case ast.ExprBoolLiteral:
		if offset >= len(buf) {
			return false
		}
		if e.BoolValue {
			buf[offset] = 1
		} else {
			buf[offset] = 0
		}
		return true
	case ast.ExprEnumLiteral:
		enum := tbl.Enum(e.Type)
		if enum == nil {
			return false
		}
		v, ok := enum.FindValue(e.Name)
		if !ok {
			return false
		}
		return foldInteger(tbl, tbl.GetInt(), int64(v), buf, offset)
	case ast.ExprCast:
		return foldCast(tbl, tree, e, dst, buf, offset)
	case ast.ExprUnaryOp:
		return foldUnary(tbl, tree, e, buf, offset)
	case ast.ExprBinaryOp:
		return foldBinary(tbl, tree, e, buf, offset)
	case ast.ExprInitializerList:
		return foldInitializerList(tbl, tree, e, dst, buf, offset)
	default:
		return false
	}
}

func foldInteger(tbl *types.Table, dst types.Handle, v int64, buf []byte, offset int) bool {
	ty := tbl.Get(dst)
	bits := 32
	if ty.Kind() == types.KindInteger {
		bits = bitsOf(tbl, dst)
	} else if ty.Kind() == types.KindFloatingPoint {
		return foldFloat(tbl, dst, float64(v), buf, offset)
	}
	n := bits / 8
	if offset+n > len(buf) {
		return false
	}
	switch n {
	case 1:
		buf[offset] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(buf[offset:], uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(buf[offset:], uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(buf[offset:], uint64(v))
	default:
		return false
	}
	return true
}

func foldFloat(tbl *types.Table, dst types.Handle, v float64, buf []byte, offset int) bool {
	ty := tbl.Get(dst)
	if ty.Kind() == types.KindInteger {
		return foldInteger(tbl, dst, int64(v), buf, offset)
	}
	if bitsOf(tbl, dst) == 64 {
		if offset+8 > len(buf) {
			return false
		}
		binary.LittleEndian.PutUint64(buf[offset:], math.Float64bits(v))
		return true
	}
	if offset+4 > len(buf) {
		return false
	}
	binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(float32(v)))
	return true
}

// bitsOf reports the storage width (in bits) of a scalar type by
// round-tripping it through the table's own string rendering is
// overkill; instead probe via the well-known singleton accessors so
// this package never needs to reach into types' unexported fields.
func bitsOf(tbl *types.Table, h types.Handle) int {
	switch h {
	case tbl.GetByte(), tbl.GetUByte():
		return 8
	case tbl.GetShort(), tbl.GetUShort():
		return 16
	case tbl.GetDouble():
		return 64
	default:
		return 32
	}
}

// foldCast folds a cast that is transparent at the representation level
// (int<->int widening/narrowing, int<->float, float<->float) by folding
// the operand directly against the cast's own result type.
func foldCast(tbl *types.Table, tree *ast.Tree, e ast.Expr, _ types.Handle, buf []byte, offset int) bool {
	inner := tree.Expr(e.RHS)
	switch inner.Kind {
	case ast.ExprIntegerLiteral:
		return foldInteger(tbl, e.Type, inner.IntValue, buf, offset)
	case ast.ExprFloatLiteral:
		return foldFloat(tbl, e.Type, inner.FloatValue, buf, offset)
	default:
		return false
	}
}

func foldUnary(tbl *types.Table, tree *ast.Tree, e ast.Expr, buf []byte, offset int) bool {
	inner := tree.Expr(e.RHS)
	switch inner.Kind {
	case ast.ExprIntegerLiteral:
		v := inner.IntValue
		switch e.UnOp {
		case ast.OpNeg:
			v = -v
		case ast.OpBitNot:
			v = ^v
		}
		return foldInteger(tbl, e.Type, v, buf, offset)
	case ast.ExprFloatLiteral:
		v := inner.FloatValue
		if e.UnOp == ast.OpNeg {
			v = -v
		}
		return foldFloat(tbl, e.Type, v, buf, offset)
	default:
		return false
	}
}

func foldBinary(tbl *types.Table, tree *ast.Tree, e ast.Expr, buf []byte, offset int) bool {
	l := tree.Expr(e.LHS)
	r := tree.Expr(e.RHS)

	if l.Kind == ast.ExprIntegerLiteral && r.Kind == ast.ExprIntegerLiteral {
		v, ok := foldIntOp(e.BinOp, l.IntValue, r.IntValue)
		if !ok {
			return false
		}
		return foldInteger(tbl, e.Type, v, buf, offset)
	}
	if isNumericLiteral(l.Kind) && isNumericLiteral(r.Kind) {
		lv, rv := literalFloat(l), literalFloat(r)
		v, ok := foldFloatOp(e.BinOp, lv, rv)
		if !ok {
			return false
		}
		return foldFloat(tbl, e.Type, v, buf, offset)
	}
	return false
}

func isNumericLiteral(k ast.ExprKind) bool {
	return k == ast.ExprIntegerLiteral || k == ast.ExprFloatLiteral
}

func literalFloat(e ast.Expr) float64 {
	if e.Kind == ast.ExprIntegerLiteral {
		return float64(e.IntValue)
	}
	return e.FloatValue
}

func foldIntOp(op ast.BinaryOp, a, b int64) (int64, bool) {
	switch op {
	case ast.OpAdd:
		return a + b, true
	case ast.OpSub:
		return a - b, true
	case ast.OpMul:
		return a * b, true
	case ast.OpDiv:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case ast.OpMod:
		if b == 0 {
			return 0, false
		}
		return a % b, true
	case ast.OpBitAnd:
		return a & b, true
	case ast.OpBitOr:
		return a | b, true
	case ast.OpBitXor:
		return a ^ b, true
	case ast.OpShl:
		return a << uint(b), true
	case ast.OpShr:
		return a >> uint(b), true
	default:
		return 0, false
	}
}

func foldFloatOp(op ast.BinaryOp, a, b float64) (float64, bool) {
	switch op {
	case ast.OpAdd:
		return a + b, true
	case ast.OpSub:
		return a - b, true
	case ast.OpMul:
		return a * b, true
	case ast.OpDiv:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	default:
		return 0, false
	}
}

// foldInitializerList folds an already-widened element-wise class, array,
// or vector initializer by folding each element against its field's (or
// element's) offset, as computed by internal/types.Layout.
func foldInitializerList(tbl *types.Table, tree *ast.Tree, e ast.Expr, dst types.Handle, buf []byte, offset int) bool {
	ty := tbl.Get(dst)
	switch ty.Kind() {
	case types.KindClass:
		class := tbl.Class(dst)
		if class == nil || len(class.Fields) != len(e.Elements) {
			return false
		}
		for i, f := range class.Fields {
			if !Fold(tbl, tree, e.Elements[i], f.Type, buf, offset+f.Offset) {
				return false
			}
		}
		return true
	case types.KindArray, types.KindVector:
		elem := tbl.Element(dst)
		stride := 0
		if ty.Kind() == types.KindVector {
			elem = tbl.Component(dst)
		}
		stride = elementStride(tbl, elem)
		if stride == 0 {
			return false
		}
		for i, el := range e.Elements {
			if !Fold(tbl, tree, el, elem, buf, offset+i*stride) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// elementStride reports the byte width of a scalar element type, used to
// stride through an array/vector's flat Elements slice; non-scalar
// (nested class/array) elements are not supported by this simplified
// stride calculation and signal a fold failure to their caller.
func elementStride(tbl *types.Table, elem types.Handle) int {
	switch tbl.Get(elem).Kind() {
	case types.KindBool:
		return 4
	case types.KindInteger, types.KindFloatingPoint:
		return bitsOf(tbl, elem) / 8
	default:
		return 0
	}
}
