package semantic

import (
	"github.com/quill-lang/quillc/internal/ast"
	"github.com/quill-lang/quillc/internal/source"
	"github.com/quill-lang/quillc/internal/types"
)

// resolveClassBody implements spec §4.4.8's lazy class-body resolution:
// run once per concrete class (never per template), walking each method's
// statement body with self and the method's formal arguments bound in
// scope. Fields are not bound by bare name (method bodies reach them
// through self), and field default-value expressions are not visited
// here; they are only widened when a constructor prologue is built.
// Called both for top-level class definitions (visitClassDefPlaceholder)
// and for template instances drained off the instance queue (Run), so a
// class template's body is type-checked once per instantiation rather
// than once at the template declaration site.
//
// Before methods resolve, a missing-but-needed destructor is synthesized
// (so it too passes through the ordinary per-method resolution below);
// after methods resolve, field layout is validated so an unsized array
// can only be the trailing field (§4.4.8).
func (p *Pass) resolveClassBody(class types.Handle) {
	info := p.Types.Class(class)
	if info == nil || info.IsResolved() {
		return
	}
	info.MarkResolved()

	p.synthesizeDestructor(class, info)

	for i := range info.Methods {
		p.resolveMethod(class, info, &info.Methods[i])
	}

	p.validateTrailingUnsizedArray(info)
}

// synthesizeDestructor implements spec §4.4.8/§4.4.6: if class (or any of
// its fields, transitively) needs destruction and it has no destructor
// yet, one is added; whether synthesized or user-declared, a Destroy is
// appended for every own field (not inherited — a derived class's
// destructor chains to its parent's own some other way, same as the
// original this is grounded on) whose type needs destruction. A purely
// forward-declared user destructor (no body) is left untouched, matching
// resolveMethod's own forward-declaration skip.
func (p *Pass) synthesizeDestructor(class types.Handle, info *types.ClassInfo) {
	if !p.Types.NeedsDestruction(class) {
		return
	}

	var destructor *types.Method
	for i := range info.Methods {
		if info.Methods[i].IsDestructor() {
			destructor = &info.Methods[i]
			break
		}
	}
	if destructor == nil {
		destructor = info.AddMethod(types.Method{
			Name:       "~" + info.Name,
			Modifiers:  types.ModDestructor,
			ReturnType: p.Types.GetVoid(),
			Stmts:      p.Tree.PutStmt(ast.Stmt{Kind: ast.StmtCompound}),
		})
	}
	if destructor.Stmts == 0 {
		return
	}

	self := p.Tree.PutExpr(ast.Expr{Kind: ast.ExprLoad, Name: "self", Type: class})
	body := p.Tree.Stmt(destructor.Stmts)
	for _, f := range info.Fields {
		if !p.Types.NeedsDestruction(f.Type) {
			continue
		}
		fieldRef := p.Tree.PutExpr(ast.Expr{Kind: ast.ExprFieldAccess, Base: self, Name: f.Name, Type: f.Type})
		body.Stmts = append(body.Stmts, p.Tree.PutStmt(ast.Stmt{Kind: ast.StmtDestroy, DestroyVar: fieldRef}))
	}
	destructor.Stmts = p.Tree.PutStmt(body)
}

// validateTrailingUnsizedArray implements the last clause of spec §4.4.8:
// among a class's own declared fields (inherited fields are each
// validated against their own declaring class), an unsized array may
// only be the last one, since anything declared after it would have no
// fixed offset.
func (p *Pass) validateTrailingUnsizedArray(info *types.ClassInfo) {
	for i, f := range info.Fields {
		if p.Types.Get(f.Type).Kind() != types.KindArray || p.Types.ArrayLength(f.Type) != 0 {
			continue
		}
		if i != len(info.Fields)-1 {
			p.errorf(source.Unknown, "unsized array field %q is only allowed as the last field of %s", f.Name, info.Name)
		}
	}
}

func (p *Pass) resolveMethod(class types.Handle, info *types.ClassInfo, m *types.Method) {
	if m.Stmts == 0 {
		return // forward declaration with no body (native/intrinsic method)
	}

	savedClass, savedReturn, savedDepth := p.currentClass, p.currentReturn, p.methodScopeDepth
	p.currentClass = class
	p.currentReturn = m.ReturnType

	p.Scope.Push()
	if !m.IsStatic() {
		self := p.Tree.PutExpr(ast.Expr{Kind: ast.ExprLoad, Name: "self", Type: class})
		p.Scope.DefineExpr("self", class, self, 0)
	}
	for _, a := range m.FormalArgs {
		ref := p.Tree.PutExpr(ast.Expr{Kind: ast.ExprLoad, Name: a.Name, Type: a.Type})
		p.Scope.DefineExpr(a.Name, a.Type, ref, 0)
	}
	p.methodScopeDepth = p.Scope.Depth() - 1 // unwind stops before this frame, not including it

	m.Stmts = p.VisitStmt(p.Tree, m.Stmts)

	if m.IsConstructor() {
		m.Stmts = p.synthesizeConstructorBody(class, m)
	}

	p.Scope.Pop()
	p.currentClass, p.currentReturn, p.methodScopeDepth = savedClass, savedReturn, savedDepth

	if p.Types.Get(m.ReturnType).Kind() == types.KindRawPtr && !m.IsConstructor() {
		p.errorf(source.Unknown, "%s.%s cannot return a raw pointer", info.Name, m.Name)
	}
}

// synthesizeConstructorBody implements spec §4.4.8's constructor prologue
// and epilogue: prepend a Store of a fully field-initialized value (each
// field's own default, or a recursive zero value, honoring inheritance)
// into self, and append a Return of self — so every constructor, however
// little its own body does, leaves self fully constructed and hands it
// back to the caller (spec's "constructors... implicitly return
// self for chaining").
func (p *Pass) synthesizeConstructorBody(class types.Handle, m *types.Method) ast.Handle {
	t := p.Tree
	self := t.PutExpr(ast.Expr{Kind: ast.ExprLoad, Name: "self", Type: class})

	loc := t.Stmt(m.Stmts).Loc
	prologue := t.PutStmt(ast.Stmt{
		Kind:   ast.StmtStore,
		Target: self,
		Value:  p.buildDefaultClassInitializer(class, loc),
	})
	epilogue := t.PutStmt(ast.Stmt{Kind: ast.StmtReturn, ReturnValue: self})

	body := t.Stmt(m.Stmts)
	body.Stmts = append(append([]ast.Handle{prologue}, body.Stmts...), epilogue)
	return t.PutStmt(body)
}

// buildDefaultClassInitializer builds the ExprInitializerList every
// constructor's synthesized prologue stores into self: one value per
// field in inheritance order, each field's own DefaultValue widened if
// declared, otherwise a recursively built zero value (spec's
// MakeDefaultInitializer/AddDefaultInitializers equivalent).
func (p *Pass) buildDefaultClassInitializer(classType types.Handle, loc source.Location) ast.Handle {
	fields := allFieldsInInheritanceOrder(p.Types, classType)
	values := make([]ast.Handle, len(fields))
	for i, f := range fields {
		if f.DefaultValue != 0 {
			values[i] = p.widen(f.DefaultValue, f.Type, loc)
		} else {
			values[i] = p.zeroValue(p.Tree, f.Type, loc)
		}
	}
	return p.Tree.PutExpr(ast.Expr{Kind: ast.ExprInitializerList, Elements: values, Type: classType, Loc: loc})
}

// zeroValue builds a zero-valued expression of typ: a numeric/bool
// literal, a null pointer literal, or a recursively zero-filled
// initializer list for a class/array/vector field that itself has no
// default (spec §4.4.8, mirroring MakeDefaultInitializer's recursion into
// a nested class's own fields).
func (p *Pass) zeroValue(t *ast.Tree, typ types.Handle, loc source.Location) ast.Handle {
	switch p.Types.Get(typ).Kind() {
	case types.KindBool:
		return t.PutExpr(ast.Expr{Kind: ast.ExprBoolLiteral, Type: typ, Loc: loc})
	case types.KindFloatingPoint:
		return t.PutExpr(ast.Expr{Kind: ast.ExprFloatLiteral, Type: typ, Loc: loc})
	case types.KindStrongPtr, types.KindWeakPtr, types.KindRawPtr, types.KindNull:
		return t.PutExpr(ast.Expr{Kind: ast.ExprNullLiteral, Type: typ, Loc: loc})
	case types.KindClass:
		return p.buildDefaultClassInitializer(typ, loc)
	case types.KindArray:
		n := p.Types.ArrayLength(typ)
		elem := p.Types.Element(typ)
		elems := make([]ast.Handle, n)
		for i := range elems {
			elems[i] = p.zeroValue(t, elem, loc)
		}
		return t.PutExpr(ast.Expr{Kind: ast.ExprInitializerList, Elements: elems, Type: typ, Loc: loc})
	case types.KindVector:
		n := p.Types.VectorLength(typ)
		comp := p.Types.Component(typ)
		elems := make([]ast.Handle, n)
		for i := range elems {
			elems[i] = p.zeroValue(t, comp, loc)
		}
		return t.PutExpr(ast.Expr{Kind: ast.ExprInitializerList, Elements: elems, Type: typ, Loc: loc})
	default: // Integer, Enum
		return t.PutExpr(ast.Expr{Kind: ast.ExprIntegerLiteral, Type: typ, Loc: loc})
	}
}
