package semantic

import (
	"github.com/quill-lang/quillc/internal/ast"
	"github.com/quill-lang/quillc/internal/source"
	"github.com/quill-lang/quillc/internal/types"
)

// widen inserts the minimal necessary conversion to bring expr to dst
// (spec §4.4.3): a no-op if types already match; list-expression
// resolution if the source is an unresolved list; a pointer dereference
// for smart-to-raw; a sized-array-to-slice conversion; otherwise an
// explicit CastExpr. Widening never elides a user-written cast — it only
// ever wraps, never drops, e.Kind == ast.ExprCast nodes.
func (p *Pass) widen(expr ast.Handle, dst types.Handle, loc source.Location) ast.Handle {
	if expr == 0 || dst == 0 {
		return expr
	}
	e := p.Tree.Expr(expr)

	if e.Kind.IsUnresolved() && (e.Kind == ast.ExprUnresolvedListExpr || e.Kind == ast.ExprUnresolvedInitializer) {
		return p.resolveListExpr(expr, dst, loc)
	}

	if e.Type == dst {
		return expr
	}

	srcTy := p.Types.Get(e.Type)
	dstTy := p.Types.Get(dst)

	if (srcTy.Kind() == types.KindStrongPtr || srcTy.Kind() == types.KindWeakPtr) && dstTy.Kind() == types.KindRawPtr {
		deref := ast.Expr{Kind: ast.ExprSmartToRawPtr, RHS: expr, Type: dst, Loc: loc}
		return p.Tree.PutExpr(deref)
	}

	if srcTy.Kind() == types.KindArray && dstTy.Kind() == types.KindArray && p.Types.ArrayLength(dst) == 0 {
		slice := ast.Expr{Kind: ast.ExprSlice, Base: expr, Type: dst, Loc: loc}
		return p.Tree.PutExpr(slice)
	}

	if !p.Types.CanWidenTo(e.Type, dst) {
		p.errorfDetail(loc,
			"Expected: "+p.Types.String(dst)+"\nGot: "+p.Types.String(e.Type),
			"type mismatch")
		return expr
	}

	cast := ast.Expr{Kind: ast.ExprCast, RHS: expr, Type: dst, Loc: loc}
	return p.Tree.PutExpr(cast)
}

// resolveListExpr implements spec §4.4.4: a list expression `{ a, b, c }`
// resolved against a concrete target type — class (named/positional,
// inheritance order, defaults for missing fields), array/vector (one-
// element broadcast or exact element count), or a raw pointer to an
// unsized array (length determines the allocation size).
func (p *Pass) resolveListExpr(expr ast.Handle, dst types.Handle, loc source.Location) ast.Handle {
	e := p.Tree.Expr(expr)
	dstTy := p.Types.Get(dst)

	switch dstTy.Kind() {
	case types.KindClass:
		return p.resolveListForClass(e, dst, loc)
	case types.KindArray, types.KindVector:
		return p.resolveListForArray(e, dst, loc)
	case types.KindRawPtr:
		pointee := p.Types.Pointee(dst)
		if p.Types.Get(pointee).Kind() == types.KindArray && p.Types.ArrayLength(pointee) == 0 {
			alloc := ast.Expr{Kind: ast.ExprHeapAlloc, Elements: e.Elements, Type: dst, Loc: loc}
			return p.Tree.PutExpr(alloc)
		}
	}
	p.errorf(loc, "cannot resolve list expression against type %s", p.Types.String(dst))
	return expr
}

func (p *Pass) resolveListForClass(e ast.Expr, dst types.Handle, loc source.Location) ast.Handle {
	class := p.Types.Class(dst)
	if class == nil {
		p.errorf(loc, "%s is not a class", p.Types.String(dst))
		return p.Tree.PutExpr(e)
	}
	fields := allFieldsInInheritanceOrder(p.Types, dst)

	byName := len(e.FieldNames) > 0
	values := make([]ast.Handle, len(fields))
	if byName {
		named := make(map[string]ast.Handle, len(e.FieldNames))
		for i, n := range e.FieldNames {
			if i < len(e.Elements) {
				named[n] = e.Elements[i]
			}
		}
		for i, f := range fields {
			if v, ok := named[f.Name]; ok {
				values[i] = p.widen(v, f.Type, loc)
			} else if f.DefaultValue != 0 {
				values[i] = f.DefaultValue
			} else {
				values[i] = p.Tree.PutExpr(ast.Expr{Kind: ast.ExprLoad, Type: f.Type, Loc: loc})
			}
		}
	} else {
		if len(e.Elements) != len(fields) {
			p.errorf(loc, "%s literal expects %d field(s), got %d", class.Name, len(fields), len(e.Elements))
		}
		for i, f := range fields {
			if i < len(e.Elements) {
				values[i] = p.widen(e.Elements[i], f.Type, loc)
			} else if f.DefaultValue != 0 {
				values[i] = f.DefaultValue
			}
		}
	}

	out := ast.Expr{Kind: ast.ExprInitializerList, Elements: values, Type: dst, Loc: loc}
	return p.Tree.PutExpr(out)
}

func allFieldsInInheritanceOrder(tbl *types.Table, class types.Handle) []types.Field {
	ty := tbl.Get(class)
	if ty.Kind() != types.KindClass || tbl.Class(class) == nil {
		return nil
	}
	info := tbl.Class(class)
	var out []types.Field
	if info.Parent != 0 {
		out = append(out, allFieldsInInheritanceOrder(tbl, info.Parent)...)
	}
	return append(out, info.Fields...)
}

func (p *Pass) resolveListForArray(e ast.Expr, dst types.Handle, loc source.Location) ast.Handle {
	dstTy := p.Types.Get(dst)
	var n int
	if dstTy.Kind() == types.KindArray {
		n = p.Types.ArrayLength(dst)
	} else {
		n = p.Types.VectorLength(dst)
	}
	elemType := p.arrayOrVectorElement(dst)

	values := make([]ast.Handle, 0, len(e.Elements))
	if len(e.Elements) == 1 && n > 1 {
		// One-element broadcast.
		for i := 0; i < n; i++ {
			values = append(values, p.widen(e.Elements[0], elemType, loc))
		}
	} else {
		if n != 0 && len(e.Elements) != n {
			p.errorf(loc, "expected %d element(s), got %d", n, len(e.Elements))
		}
		for _, el := range e.Elements {
			values = append(values, p.widen(el, elemType, loc))
		}
	}
	out := ast.Expr{Kind: ast.ExprInitializerList, Elements: values, Type: dst, Loc: loc}
	return p.Tree.PutExpr(out)
}

func (p *Pass) arrayOrVectorElement(h types.Handle) types.Handle {
	ty := p.Types.Get(h)
	switch ty.Kind() {
	case types.KindArray:
		return p.Types.Element(h)
	case types.KindVector:
		return p.Types.Component(h)
	default:
		return h
	}
}
