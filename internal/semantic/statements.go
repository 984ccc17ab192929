package semantic

import (
	"github.com/quill-lang/quillc/internal/ast"
	"github.com/quill-lang/quillc/internal/scope"
	"github.com/quill-lang/quillc/internal/source"
	"github.com/quill-lang/quillc/internal/types"
)

// VisitStmt dispatches to the Semantic Pass's per-kind handling, falling
// back to ast.Default's identity copy for statement kinds with no
// special resolution rule.
func (p *Pass) VisitStmt(t *ast.Tree, h ast.Handle) ast.Handle {
	if h == 0 {
		return 0
	}
	s := t.Stmt(h)
	switch s.Kind {
	case ast.StmtCompound:
		return p.visitCompound(t, s)
	case ast.StmtVarDecl:
		return p.visitVarDecl(t, s)
	case ast.StmtReturn:
		return p.visitReturn(t, s)
	case ast.StmtStore:
		return p.visitStore(t, s)
	case ast.StmtClassDefPlaceholder:
		return p.visitClassDefPlaceholder(t, s)
	default:
		return p.Default.VisitStmt(t, h)
	}
}

// visitCompound implements spec §4.4.6: push a scope, resolve every
// statement, then append Destroy statements in reverse declaration order
// for every destructible local — unless the body already contains a
// return, whose own unwind splice (§4.4.7) has already handled it.
func (p *Pass) visitCompound(t *ast.Tree, s ast.Stmt) ast.Handle {
	p.Scope.Push()
	resolved := make([]ast.Handle, 0, len(s.Stmts))
	containsReturn := false
	for _, c := range s.Stmts {
		out := p.VisitStmt(t, c)
		if out == 0 {
			continue
		}
		resolved = append(resolved, out)
		if t.Stmt(out).Kind == ast.StmtReturn {
			containsReturn = true
		}
	}
	vars := p.Scope.Pop()

	if !containsReturn {
		for i := len(vars) - 1; i >= 0; i-- {
			if p.Types.NeedsDestruction(vars[i].Type) {
				resolved = append(resolved, p.emitDestroy(vars[i]))
			}
		}
	}

	s.Stmts = resolved
	return t.PutStmt(s)
}

func (p *Pass) emitDestroy(v scope.Var) ast.Handle {
	ref := t0(p).PutExpr(ast.Expr{Kind: ast.ExprLoad, Name: v.Name, Type: v.Type})
	return t0(p).PutStmt(ast.Stmt{Kind: ast.StmtDestroy, DestroyVar: ref})
}

func t0(p *Pass) *ast.Tree { return p.Tree }

// visitVarDecl implements spec §4.4.5: redefinition/void/zero-length-
// array/raw-pointer-without-initializer/raw-pointer-containment rejects,
// Auto inference from the initializer, Store-or-zero-init synthesis, and
// scope registration.
func (p *Pass) visitVarDecl(t *ast.Tree, s ast.Stmt) ast.Handle {
	declType := s.VarType
	var init ast.Handle
	if s.Init != 0 {
		init = p.VisitExpr(t, s.Init)
	}

	if declType == p.Types.GetAuto() {
		if init == 0 {
			p.errorf(s.Loc, "cannot infer type: %q has no initializer", s.VarName)
			return 0
		}
		declType = t.Expr(init).Type
	}

	if declType == p.Types.GetVoid() {
		p.errorf(s.Loc, "variable %q cannot have type void", s.VarName)
		return 0
	}
	if p.Types.Get(declType).Kind() == types.KindRawPtr && init == 0 {
		p.errorf(s.Loc, "raw-pointer variable %q requires an initializer", s.VarName)
		return 0
	}
	if p.Types.Get(declType).Kind() != types.KindRawPtr && p.Types.ContainsRawPtr(declType) {
		p.errorf(s.Loc, "%q has a type that transitively contains a raw pointer", s.VarName)
		return 0
	}
	if arr := p.Types.Get(declType); arr.Kind() == types.KindArray && p.Types.ArrayLength(declType) == 0 {
		p.errorf(s.Loc, "unsized array %q is not allocable as a local", s.VarName)
		return 0
	}

	if init != 0 {
		init = p.widen(init, declType, s.Loc)
	}

	var h ast.Handle
	if init != 0 {
		h = t.PutStmt(ast.Stmt{Kind: ast.StmtVarDecl, Loc: s.Loc, VarName: s.VarName, VarType: declType, Init: init})
	} else {
		h = p.synthesizeNoInitDecl(t, s.VarName, declType, s.Loc)
	}

	ref := t.PutExpr(ast.Expr{Kind: ast.ExprLoad, Name: s.VarName, Type: declType, Loc: s.Loc})
	if !p.Scope.DefineExpr(s.VarName, declType, ref, h) {
		p.errorf(s.Loc, "redefinition of %q in this scope", s.VarName)
		return 0
	}
	return h
}

// synthesizeNoInitDecl implements spec §4.4.5's differentiated behavior
// for a declaration with no initializer: a class gets a whole-variable
// zero-init followed by per-field default stores honoring inheritance
// order, an array gets a zero-init followed by a for-loop over its
// elements only when the element type is a class or array, and anything
// else keeps the
// single generic StmtZeroInit the rest of the pipeline already expects
// for a plain local (spec's own §4.4.6 destructor-insertion check keys
// off VarType regardless of which branch below produced the statement).
func (p *Pass) synthesizeNoInitDecl(t *ast.Tree, name string, declType types.Handle, loc source.Location) ast.Handle {
	self := t.PutExpr(ast.Expr{Kind: ast.ExprLoad, Name: name, Type: declType, Loc: loc})

	switch p.Types.Get(declType).Kind() {
	case types.KindClass:
		fields := p.initializeClassFields(t, self, declType, loc)
		return t.PutStmt(ast.Stmt{Kind: ast.StmtCompound, Loc: loc, Stmts: append([]ast.Handle{
			t.PutStmt(ast.Stmt{Kind: ast.StmtZeroInit, Loc: loc, VarName: name, VarType: declType}),
		}, fields...)})
	case types.KindArray:
		stmts := []ast.Handle{t.PutStmt(ast.Stmt{Kind: ast.StmtZeroInit, Loc: loc, VarName: name, VarType: declType})}
		if loop := p.initializeArrayElements(t, self, declType, loc); loop != 0 {
			stmts = append(stmts, loop)
		}
		return t.PutStmt(ast.Stmt{Kind: ast.StmtCompound, Loc: loc, Stmts: stmts})
	default:
		return t.PutStmt(ast.Stmt{Kind: ast.StmtZeroInit, Loc: loc, VarName: name, VarType: declType})
	}
}

// initializeClassFields builds one Store per field of classType (in
// inheritance order, via allFieldsInInheritanceOrder) that declares a
// DefaultValue, widened to the field's type; fields with no default that
// are themselves a class recurse so a nested class's own field defaults
// are honored too. Fields with neither a default nor a nested default
// keep the zero-fill a caller already applied to the whole variable.
func (p *Pass) initializeClassFields(t *ast.Tree, target ast.Handle, classType types.Handle, loc source.Location) []ast.Handle {
	var out []ast.Handle
	for _, f := range allFieldsInInheritanceOrder(p.Types, classType) {
		fieldTarget := t.PutExpr(ast.Expr{Kind: ast.ExprFieldAccess, Base: target, Name: f.Name, Type: f.Type, Loc: loc})
		if f.DefaultValue != 0 {
			out = append(out, t.PutStmt(ast.Stmt{Kind: ast.StmtStore, Loc: loc, Target: fieldTarget, Value: p.widen(f.DefaultValue, f.Type, loc)}))
			continue
		}
		if p.Types.Get(f.Type).Kind() == types.KindClass {
			out = append(out, p.initializeClassFields(t, fieldTarget, f.Type, loc)...)
		}
	}
	return out
}

// initializeArrayElements synthesizes the for-loop spec §4.4.5 names for
// a no-initializer array declaration: `for (int i = 0; i < n; i++)` over
// target's elements, recursing into initializeClassFields (or a nested
// array's own loop) for any per-element default; returns 0 when the
// element type carries no default anywhere, since the caller's whole-
// variable zero-fill already covers that case.
func (p *Pass) initializeArrayElements(t *ast.Tree, target ast.Handle, arrType types.Handle, loc source.Location) ast.Handle {
	n := p.Types.ArrayLength(arrType)
	elem := p.Types.Element(arrType)
	elemKind := p.Types.Get(elem).Kind()
	if elemKind != types.KindClass && elemKind != types.KindArray {
		return 0
	}

	idxType := p.Types.GetInt()
	idxName := "__init_i"
	zero := t.PutExpr(ast.Expr{Kind: ast.ExprIntegerLiteral, IntValue: 0, Type: idxType, Loc: loc})
	one := t.PutExpr(ast.Expr{Kind: ast.ExprIntegerLiteral, IntValue: 1, Type: idxType, Loc: loc})
	limit := t.PutExpr(ast.Expr{Kind: ast.ExprIntegerLiteral, IntValue: int64(n), Type: idxType, Loc: loc})
	idxRef := func() ast.Handle { return t.PutExpr(ast.Expr{Kind: ast.ExprLoad, Name: idxName, Type: idxType, Loc: loc}) }

	init := t.PutStmt(ast.Stmt{Kind: ast.StmtVarDecl, Loc: loc, VarName: idxName, VarType: idxType, Init: zero})
	cond := t.PutExpr(ast.Expr{Kind: ast.ExprBinaryOp, BinOp: ast.OpLt, LHS: idxRef(), RHS: limit, Type: p.Types.GetBool(), Loc: loc})
	post := t.PutStmt(ast.Stmt{Kind: ast.StmtStore, Loc: loc, Target: idxRef(), Value: t.PutExpr(ast.Expr{Kind: ast.ExprBinaryOp, BinOp: ast.OpAdd, LHS: idxRef(), RHS: one, Type: idxType, Loc: loc})})

	elemTarget := t.PutExpr(ast.Expr{Kind: ast.ExprArrayAccess, Base: target, Index: idxRef(), Type: elem, Loc: loc})

	var bodyStmts []ast.Handle
	if elemKind == types.KindClass {
		bodyStmts = p.initializeClassFields(t, elemTarget, elem, loc)
	} else if loop := p.initializeArrayElements(t, elemTarget, elem, loc); loop != 0 {
		bodyStmts = []ast.Handle{loop}
	}
	if len(bodyStmts) == 0 {
		return 0
	}

	body := t.PutStmt(ast.Stmt{Kind: ast.StmtCompound, Loc: loc, Stmts: bodyStmts})
	return t.PutStmt(ast.Stmt{Kind: ast.StmtFor, Loc: loc, ForInit: init, ForCond: cond, ForPost: post, ForBody: body})
}

// visitStore implements the store half of spec §4.4.2/§4.4.3: the target
// resolves through resolveDotTarget rather than the ordinary read path so
// a swizzle with a repeated component (v.xx = ...) is a Semantic-fatal
// error instead of silently aliasing the same component twice, then the
// value widens to the resolved target's type.
func (p *Pass) visitStore(t *ast.Tree, s ast.Stmt) ast.Handle {
	target := p.resolveStoreTarget(t, s.Target)
	value := p.VisitExpr(t, s.Value)
	value = p.widen(value, t.Expr(target).Type, s.Loc)
	return t.PutStmt(ast.Stmt{Kind: ast.StmtStore, Loc: s.Loc, Target: target, Value: value})
}

// resolveStoreTarget dispatches an unresolved store target to its
// store-aware resolver; every other expression kind resolves the same
// way whether read or stored to.
func (p *Pass) resolveStoreTarget(t *ast.Tree, h ast.Handle) ast.Handle {
	if h == 0 {
		return 0
	}
	e := t.Expr(h)
	if e.Kind == ast.ExprUnresolvedDot {
		return p.resolveDotTarget(t, e)
	}
	return p.VisitExpr(t, h)
}

// visitReturn implements spec §4.4.7: type-check against the enclosing
// method's declared return type, then splice a scope-unwind Destroy
// sequence from innermost scope outward (up to, not including, the
// method-body scope) before the typed Return.
func (p *Pass) visitReturn(t *ast.Tree, s ast.Stmt) ast.Handle {
	var value ast.Handle
	if s.ReturnValue != 0 {
		value = p.VisitExpr(t, s.ReturnValue)
		value = p.widen(value, p.currentReturn, s.Loc)
	}

	var unwind []ast.Handle
	for _, frame := range p.Scope.VarsAbove(p.methodScopeDepth) {
		for i := len(frame) - 1; i >= 0; i-- {
			if p.Types.NeedsDestruction(frame[i].Type) {
				unwind = append(unwind, p.emitDestroy(frame[i]))
			}
		}
	}

	out := ast.Stmt{Kind: ast.StmtReturn, Loc: s.Loc, ReturnValue: value, ReturnUnwind: unwind}
	return t.PutStmt(out)
}

func (p *Pass) visitClassDefPlaceholder(t *ast.Tree, s ast.Stmt) ast.Handle {
	if p.Types.Class(s.ClassType) != nil && len(p.Types.Class(s.ClassType).TemplateArgs) > 0 {
		// Template: record, defer resolution to instantiation time.
		return t.PutStmt(s)
	}
	p.resolveClassBody(s.ClassType)
	return t.PutStmt(s)
}
