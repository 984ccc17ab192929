package semantic

import (
	"github.com/quill-lang/quillc/internal/ast"
	"github.com/quill-lang/quillc/internal/types"
)

// VisitExpr dispatches to the Semantic Pass's per-kind handling, falling
// back to ast.Default's identity copy for expression kinds that carry no
// resolution rule of their own.
func (p *Pass) VisitExpr(t *ast.Tree, h ast.Handle) ast.Handle {
	if h == 0 {
		return 0
	}
	e := t.Expr(h)
	switch e.Kind {
	case ast.ExprUnresolvedIdentifier:
		return p.resolveIdentifier(t, e)
	case ast.ExprUnresolvedDot:
		return p.resolveDot(t, e)
	case ast.ExprUnresolvedStaticDot:
		return p.resolveStaticDot(t, e)
	case ast.ExprUnresolvedMethodCall:
		return p.resolveMethodCall(t, e, false)
	case ast.ExprUnresolvedStaticMethodCall:
		return p.resolveMethodCall(t, e, true)
	case ast.ExprUnresolvedNewExpr:
		return p.resolveNewExpr(t, e)
	case ast.ExprBinaryOp:
		return p.resolveBinaryOp(t, e)
	case ast.ExprUnaryOp:
		return p.resolveUnaryOp(t, e)
	default:
		return p.Default.VisitExpr(t, h)
	}
}

// resolveIdentifier implements spec §4.4.1: an unresolved bare identifier
// is looked up in the scope stack and replaced by the expression it was
// bound to, with the reference's own location stamped on (not the
// location the variable was declared at).
func (p *Pass) resolveIdentifier(t *ast.Tree, e ast.Expr) ast.Handle {
	if ref, ok := p.Scope.LookupExpr(e.Name); ok {
		return ast.ResolveExpr(t, p, ref, e.Loc)
	}
	p.errorf(e.Loc, "undefined identifier %q", e.Name)
	return t.PutExpr(ast.Expr{Kind: ast.ExprLoad, Name: e.Name, Loc: e.Loc})
}

// resolveDot implements the member half of spec §4.4.2: the base value's
// type determines whether Name is a vector swizzle or a class field. This
// is the read-position form; resolveDotTarget is its store-position
// counterpart (spec §4.4.2/§8: a store through a swizzle with a repeated
// component is rejected, a plain read like v.xx is not).
func (p *Pass) resolveDot(t *ast.Tree, e ast.Expr) ast.Handle {
	return p.resolveDotKind(t, e, false)
}

// resolveDotTarget resolves e as a store target: identical to resolveDot
// except a swizzle with a duplicate component index is a Semantic-fatal
// error rather than an accepted read.
func (p *Pass) resolveDotTarget(t *ast.Tree, e ast.Expr) ast.Handle {
	return p.resolveDotKind(t, e, true)
}

func (p *Pass) resolveDotKind(t *ast.Tree, e ast.Expr, store bool) ast.Handle {
	base := p.VisitExpr(t, e.Base)
	baseType := t.Expr(base).Type
	baseTy := p.Types.Get(baseType)

	if baseTy.Kind() == types.KindVector && isSwizzle(e.Name) {
		length := p.Types.VectorLength(baseType)
		var idx []int
		var ok bool
		if store {
			idx, ok = swizzleIndicesUnique(e.Name, length)
			if !ok && len(e.Name) > 1 {
				p.errorf(e.Loc, "swizzle store %q assigns the same component more than once", e.Name)
				return base
			}
		} else {
			idx, ok = swizzleIndices(e.Name, length)
		}
		if !ok {
			p.errorf(e.Loc, "invalid swizzle %q on a %d-component vector", e.Name, length)
			return base
		}
		component := p.Types.Component(baseType)
		resultType := component
		if len(idx) > 1 {
			vec, ok := p.Types.GetVector(component, len(idx))
			if !ok {
				p.errorf(e.Loc, "invalid swizzle %q: %d components is not a valid vector length", e.Name, len(idx))
				return base
			}
			resultType = vec
		}
		return t.PutExpr(ast.Expr{Kind: ast.ExprSwizzle, Base: base, Indices: idx, Type: resultType, Loc: e.Loc})
	}

	if class := p.Types.Class(baseType); class != nil {
		if f, ok := class.FindField(p.Types, e.Name); ok {
			return t.PutExpr(ast.Expr{Kind: ast.ExprFieldAccess, Base: base, Name: e.Name, Type: f.Type, Loc: e.Loc})
		}
	}

	p.errorf(e.Loc, "%s has no member %q", p.Types.String(baseType), e.Name)
	return base
}

// resolveStaticDot resolves a TypeName.Member reference — today, an enum
// value. e.Base carries the still-unresolved identifier node that names
// the type, which is looked up as a type binding rather than a value
// binding (so it is never passed through resolveIdentifier, which would
// reject it as an undefined value).
func (p *Pass) resolveStaticDot(t *ast.Tree, e ast.Expr) ast.Handle {
	typ, name, ok := p.staticClassFromBase(t, e.Base)
	if !ok {
		p.errorf(e.Loc, "%q is not a type", name)
		return 0
	}
	if p.Types.Get(typ).Kind() == types.KindEnum {
		if enum := p.Types.Enum(typ); enum != nil {
			if _, ok := enum.FindValue(e.Name); ok {
				return t.PutExpr(ast.Expr{Kind: ast.ExprEnumLiteral, Name: e.Name, Type: typ, Loc: e.Loc})
			}
		}
	}
	p.errorf(e.Loc, "%s has no static member %q", p.Types.String(typ), e.Name)
	return 0
}

func (p *Pass) staticClassFromBase(t *ast.Tree, base ast.Handle) (types.Handle, string, bool) {
	be := t.Expr(base)
	if be.Kind != ast.ExprUnresolvedIdentifier {
		return 0, "", false
	}
	typ, ok := p.Scope.LookupType(be.Name)
	return typ, be.Name, ok
}

// resolveMethodCall implements the call half of spec §4.4.2: instance
// calls resolve the base expression then search its class (and parent
// chain) for an overload matching the call's argument count; static
// calls (Math.sqrt(x), Device.createBuffer(...)) resolve the callee by
// type name instead of by value.
func (p *Pass) resolveMethodCall(t *ast.Tree, e ast.Expr, static bool) ast.Handle {
	var base ast.Handle
	var baseType types.Handle

	if static {
		typ, name, ok := p.staticClassFromBase(t, e.Base)
		if !ok {
			p.errorf(e.Loc, "%q is not a type", name)
			return 0
		}
		baseType = typ
	} else {
		base = p.VisitExpr(t, e.Base)
		baseType = t.Expr(base).Type
	}

	m, found, ambiguous := p.findMethod(baseType, e.Name, len(e.Args))
	if ambiguous {
		p.errorf(e.Loc, "unresolved method overload: %s.%s has no overload taking %d argument(s)", p.Types.String(baseType), e.Name, len(e.Args))
		return 0
	}
	if !found {
		p.errorf(e.Loc, "%s has no method %q taking %d argument(s)", p.Types.String(baseType), e.Name, len(e.Args))
		return 0
	}

	args := make([]ast.Handle, len(e.Args))
	for i, a := range e.Args {
		resolved := p.VisitExpr(t, a)
		if i < len(m.FormalArgs) {
			resolved = p.widen(resolved, m.FormalArgs[i].Type, e.Loc)
		}
		args[i] = resolved
	}

	return t.PutExpr(ast.Expr{Kind: ast.ExprMethodCall, Base: base, Name: e.Name, Args: args, Type: m.ReturnType, Loc: e.Loc})
}

// findMethod walks class's parent chain looking for an overload named
// name with the matching arity, preferring the most-derived declaration.
// The most-derived class declaring any overload named name shadows its
// parents' overloads of the same name (ordinary name hiding): once a
// level contributes a nonempty overload set, arity resolution happens
// against that set alone, never falling through to an ancestor's
// overloads of the same name.
//
// Returns (method, found, ambiguous). found is false only when no class
// in the chain declares any overload named name at all. ambiguous is
// true when the name resolves to a class but none of its overloads at
// that level match argc — spec §7's "unresolved method overload"
// Semantic-fatal error, not a plain "no such method".
func (p *Pass) findMethod(classType types.Handle, name string, argc int) (m types.Method, found bool, ambiguous bool) {
	cur := classType
	for cur != 0 {
		class := p.Types.Class(cur)
		if class == nil {
			return types.Method{}, false, false
		}
		overloads := class.FindMethods(name)
		if len(overloads) > 0 {
			for _, o := range overloads {
				if len(o.FormalArgs) == argc {
					return *o, true, false
				}
			}
			return types.Method{}, true, true
		}
		cur = class.Parent
	}
	return types.Method{}, false, false
}

// resolveNewExpr implements heap allocation (spec §3.1's StrongPtr
// construction): `new T{...}` widens its initializer list against T and
// wraps the result in a HeapAlloc producing a StrongPtr<T>; `new T[n]`
// allocates an unsized array of length n instead.
func (p *Pass) resolveNewExpr(t *ast.Tree, e ast.Expr) ast.Handle {
	target := e.Type

	if e.Count != 0 {
		count := p.VisitExpr(t, e.Count)
		arrTy := p.Types.GetArray(target, 0, types.LayoutDefault)
		return t.PutExpr(ast.Expr{Kind: ast.ExprHeapAlloc, Count: count, Type: p.Types.GetStrongPtr(arrTy), Loc: e.Loc})
	}

	list := t.PutExpr(ast.Expr{Kind: ast.ExprUnresolvedInitializer, Elements: e.Elements, FieldNames: e.FieldNames, Loc: e.Loc})
	init := p.widen(list, target, e.Loc)
	return t.PutExpr(ast.Expr{Kind: ast.ExprHeapAlloc, RHS: init, Type: p.Types.GetStrongPtr(target), Loc: e.Loc})
}

// resolveBinaryOp implements spec §4.4.9: comparisons produce bool after
// widening both operands to a common numeric type; logical operators
// widen both operands to bool; arithmetic/bitwise operators widen to
// whichever operand type the other can widen to (a vector paired with
// its own scalar component type stays vector-typed).
func (p *Pass) resolveBinaryOp(t *ast.Tree, e ast.Expr) ast.Handle {
	lhs := p.VisitExpr(t, e.LHS)
	rhs := p.VisitExpr(t, e.RHS)
	lty := t.Expr(lhs).Type
	rty := t.Expr(rhs).Type

	switch e.BinOp {
	case ast.OpEq, ast.OpNe, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		common, ok := p.binaryResultType(lty, rty)
		if !ok {
			p.errorf(e.Loc, "cannot compare %s and %s", p.Types.String(lty), p.Types.String(rty))
			return lhs
		}
		lhs, rhs = p.widen(lhs, common, e.Loc), p.widen(rhs, common, e.Loc)
		return t.PutExpr(ast.Expr{Kind: ast.ExprBinaryOp, BinOp: e.BinOp, LHS: lhs, RHS: rhs, Type: p.Types.GetBool(), Loc: e.Loc})
	case ast.OpAnd, ast.OpOr:
		lhs = p.widen(lhs, p.Types.GetBool(), e.Loc)
		rhs = p.widen(rhs, p.Types.GetBool(), e.Loc)
		return t.PutExpr(ast.Expr{Kind: ast.ExprBinaryOp, BinOp: e.BinOp, LHS: lhs, RHS: rhs, Type: p.Types.GetBool(), Loc: e.Loc})
	default:
		result, ok := p.binaryResultType(lty, rty)
		if !ok {
			p.errorf(e.Loc, "invalid operand types %s, %s for operator", p.Types.String(lty), p.Types.String(rty))
			return lhs
		}
		lhs, rhs = p.widen(lhs, result, e.Loc), p.widen(rhs, result, e.Loc)
		return t.PutExpr(ast.Expr{Kind: ast.ExprBinaryOp, BinOp: e.BinOp, LHS: lhs, RHS: rhs, Type: result, Loc: e.Loc})
	}
}

// binaryResultType picks the operand type the other widens to, with a
// vector-times-its-own-scalar-component special case (a Vector paired
// with the matching scalar stays vector-typed rather than failing to
// widen in either direction).
func (p *Pass) binaryResultType(a, b types.Handle) (types.Handle, bool) {
	if a == b {
		return a, true
	}
	if p.Types.Get(a).Kind() == types.KindVector && p.Types.Component(a) == b {
		return a, true
	}
	if p.Types.Get(b).Kind() == types.KindVector && p.Types.Component(b) == a {
		return b, true
	}
	if p.Types.CanWidenTo(a, b) {
		return b, true
	}
	if p.Types.CanWidenTo(b, a) {
		return a, true
	}
	return 0, false
}

// resolveUnaryOp widens a Not operand to bool; arithmetic negation and
// bitwise-not keep the operand's own type.
func (p *Pass) resolveUnaryOp(t *ast.Tree, e ast.Expr) ast.Handle {
	rhs := p.VisitExpr(t, e.RHS)
	rty := t.Expr(rhs).Type
	resultType := rty

	if e.UnOp == ast.OpNot {
		rhs = p.widen(rhs, p.Types.GetBool(), e.Loc)
		resultType = p.Types.GetBool()
	} else if !p.Types.IsNumeric(rty) && !p.Types.IsIntegerVector(rty) && !p.Types.IsFloatVector(rty) {
		p.errorf(e.Loc, "operator requires a numeric operand, got %s", p.Types.String(rty))
	}

	return t.PutExpr(ast.Expr{Kind: ast.ExprUnaryOp, UnOp: e.UnOp, RHS: rhs, Type: resultType, Loc: e.Loc})
}

func isSwizzle(name string) bool {
	if name == "" || len(name) > 4 {
		return false
	}
	for _, c := range name {
		switch c {
		case 'x', 'y', 'z', 'w', 'r', 'g', 'b', 'a', 's', 't', 'p', 'q':
		default:
			return false
		}
	}
	return true
}

// swizzleIndices maps each character of a swizzle name to its component
// index under the x/r/s, y/g/t, z/b/p, w/a/q aliasing (spec §4.4.2).
func swizzleIndices(name string, length int) ([]int, bool) {
	idx := make([]int, 0, len(name))
	for _, c := range name {
		var i int
		switch c {
		case 'x', 'r', 's':
			i = 0
		case 'y', 'g', 't':
			i = 1
		case 'z', 'b', 'p':
			i = 2
		case 'w', 'a', 'q':
			i = 3
		}
		if i >= length {
			return nil, false
		}
		idx = append(idx, i)
	}
	return idx, true
}

// swizzleIndicesUnique is swizzleIndices plus a duplicate-index check,
// used for store-position swizzles (spec §4.4.2/§8: "a swizzle store
// with a repeated component is rejected") — a read-position swizzle like
// v.xx is fine, but v.xx = ... would assign the same component twice.
func swizzleIndicesUnique(name string, length int) ([]int, bool) {
	idx, ok := swizzleIndices(name, length)
	if !ok {
		return nil, false
	}
	seen := make(map[int]bool, len(idx))
	for _, i := range idx {
		if seen[i] {
			return nil, false
		}
		seen[i] = true
	}
	return idx, true
}
