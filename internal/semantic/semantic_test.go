package semantic

import (
	"testing"

	"github.com/quill-lang/quillc/internal/ast"
	"github.com/quill-lang/quillc/internal/builtins"
	"github.com/quill-lang/quillc/internal/diag"
	"github.com/quill-lang/quillc/internal/source"
	"github.com/quill-lang/quillc/internal/types"
)

func newPass() (*Pass, *ast.Tree, *types.Table) {
	tbl := types.NewTable()
	native := builtins.Register(tbl)
	tree := ast.NewTree()
	sink := diag.NewSink()
	return New(tree, tbl, native, sink), tree, tbl
}

func TestVarDeclAutoInfersFromInitializer(t *testing.T) {
	p, tree, tbl := newPass()

	lit := tree.PutExpr(ast.Expr{Kind: ast.ExprIntegerLiteral, IntValue: 42, Type: tbl.GetInt()})
	decl := tree.PutStmt(ast.Stmt{Kind: ast.StmtVarDecl, VarName: "x", VarType: tbl.GetAuto(), Init: lit})

	out := p.VisitStmt(tree, decl)
	if out == 0 {
		t.Fatalf("expected a resolved statement handle")
	}
	resolved := tree.Stmt(out)
	if resolved.VarType != tbl.GetInt() {
		t.Fatalf("expected inferred type int, got %s", tbl.String(resolved.VarType))
	}
	if p.Sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", p.Sink.Diagnostics())
	}

	if ref, ok := p.Scope.LookupExpr("x"); !ok || ref == 0 {
		t.Fatalf("expected %q bound in scope after declaration", "x")
	}
}

func TestVarDeclRejectsRawPointerWithoutInitializer(t *testing.T) {
	p, tree, tbl := newPass()
	pointee := tbl.GetInt()
	raw := tbl.GetRawPtr(pointee)

	decl := tree.PutStmt(ast.Stmt{Kind: ast.StmtVarDecl, VarName: "p", VarType: raw})
	p.VisitStmt(tree, decl)

	if !p.Sink.HasErrors() {
		t.Fatalf("expected an error for a raw-pointer local with no initializer")
	}
}

func TestIdentifierResolutionStampsReferenceLocation(t *testing.T) {
	p, tree, tbl := newPass()

	lit := tree.PutExpr(ast.Expr{Kind: ast.ExprIntegerLiteral, IntValue: 1, Type: tbl.GetInt()})
	decl := tree.PutStmt(ast.Stmt{Kind: ast.StmtVarDecl, VarName: "x", VarType: tbl.GetAuto(), Init: lit})
	p.VisitStmt(tree, decl)

	useLoc := source.Location{File: "b.ql", Line: 5, Column: 2}
	use := tree.PutExpr(ast.Expr{Kind: ast.ExprUnresolvedIdentifier, Name: "x", Loc: useLoc})
	resolvedHandle := p.VisitExpr(tree, use)
	resolved := tree.Expr(resolvedHandle)
	if resolved.Type != tbl.GetInt() {
		t.Fatalf("expected identifier to resolve to int, got %s", tbl.String(resolved.Type))
	}
	if resolved.Loc != useLoc {
		t.Fatalf("expected resolved location %+v, got %+v", useLoc, resolved.Loc)
	}
}

func TestUndefinedIdentifierReportsError(t *testing.T) {
	p, tree, _ := newPass()
	use := tree.PutExpr(ast.Expr{Kind: ast.ExprUnresolvedIdentifier, Name: "nope"})
	p.VisitExpr(tree, use)
	if !p.Sink.HasErrors() {
		t.Fatalf("expected an undefined-identifier error")
	}
}

func TestCompoundAppendsDestroyForStrongPtrLocalsInReverseOrder(t *testing.T) {
	p, tree, tbl := newPass()
	class := tbl.NewClass("Thing", 0)
	strongCls := tbl.GetStrongPtr(class)

	declA := tree.PutStmt(ast.Stmt{Kind: ast.StmtVarDecl, VarName: "a", VarType: strongCls})
	declB := tree.PutStmt(ast.Stmt{Kind: ast.StmtVarDecl, VarName: "b", VarType: strongCls})
	body := tree.PutStmt(ast.Stmt{Kind: ast.StmtCompound, Stmts: []ast.Handle{declA, declB}})

	out := p.VisitStmt(tree, body)
	resolved := tree.Stmt(out)

	if len(resolved.Stmts) != 4 {
		t.Fatalf("expected 2 decls + 2 destroys, got %d statements", len(resolved.Stmts))
	}
	firstDestroy := tree.Stmt(resolved.Stmts[2])
	secondDestroy := tree.Stmt(resolved.Stmts[3])
	if firstDestroy.Kind != ast.StmtDestroy || secondDestroy.Kind != ast.StmtDestroy {
		t.Fatalf("expected trailing Destroy statements")
	}
	if tree.Expr(firstDestroy.DestroyVar).Name != "b" {
		t.Fatalf("expected reverse declaration order, destroy of %q first", "b")
	}
	if tree.Expr(secondDestroy.DestroyVar).Name != "a" {
		t.Fatalf("expected reverse declaration order, destroy of %q second", "a")
	}
}

func TestCompoundSkipsDestroySynthesisWhenBodyReturns(t *testing.T) {
	p, tree, tbl := newPass()
	class := tbl.NewClass("Thing", 0)
	strongCls := tbl.GetStrongPtr(class)

	decl := tree.PutStmt(ast.Stmt{Kind: ast.StmtVarDecl, VarName: "a", VarType: strongCls})
	ret := tree.PutStmt(ast.Stmt{Kind: ast.StmtReturn})
	body := tree.PutStmt(ast.Stmt{Kind: ast.StmtCompound, Stmts: []ast.Handle{decl, ret}})

	p.currentReturn = tbl.GetVoid()
	out := p.VisitStmt(tree, body)
	resolved := tree.Stmt(out)

	if len(resolved.Stmts) != 2 {
		t.Fatalf("expected no extra Destroy appended after an explicit return, got %d statements", len(resolved.Stmts))
	}
}

func TestResolveClassBodySynthesizesConstructorPrologueAndEpilogue(t *testing.T) {
	p, tree, tbl := newPass()
	class := tbl.NewClass("Vec2", 0)
	info := tbl.Class(class)
	info.AddField("x", tbl.GetFloat(), 0)
	info.AddField("y", tbl.GetFloat(), 0)
	info.AddMethod(types.Method{
		Name:       "Vec2",
		Modifiers:  types.ModConstructor,
		ReturnType: class,
		Stmts:      tree.PutStmt(ast.Stmt{Kind: ast.StmtCompound}),
	})

	p.resolveClassBody(class)
	if p.Sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", p.Sink.Diagnostics())
	}

	m := info.Methods[0]
	body := tree.Stmt(m.Stmts)
	if len(body.Stmts) != 2 {
		t.Fatalf("expected a 2-statement body (store prologue, return epilogue), got %d", len(body.Stmts))
	}
	prologue := tree.Stmt(body.Stmts[0])
	if prologue.Kind != ast.StmtStore {
		t.Fatalf("expected the first statement to be the self-store prologue, got %v", prologue.Kind)
	}
	if tree.Expr(prologue.Value).Type != class {
		t.Fatalf("expected the prologue's stored value to be class-typed")
	}
	epilogue := tree.Stmt(body.Stmts[1])
	if epilogue.Kind != ast.StmtReturn {
		t.Fatalf("expected the last statement to be the self-return epilogue, got %v", epilogue.Kind)
	}
	if tree.Expr(epilogue.ReturnValue).Name != "self" {
		t.Fatalf("expected the epilogue to return self")
	}
}

func TestResolveClassBodySynthesizesDestructorForStrongPtrField(t *testing.T) {
	p, tree, tbl := newPass()
	held := tbl.NewClass("Held", 0)
	class := tbl.NewClass("Owner", 0)
	info := tbl.Class(class)
	info.AddField("child", tbl.GetStrongPtr(held), 0)

	p.resolveClassBody(class)
	if p.Sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", p.Sink.Diagnostics())
	}

	var destructor *types.Method
	for i := range info.Methods {
		if info.Methods[i].IsDestructor() {
			destructor = &info.Methods[i]
		}
	}
	if destructor == nil {
		t.Fatalf("expected a synthesized destructor")
	}
	body := tree.Stmt(destructor.Stmts)
	if len(body.Stmts) != 1 {
		t.Fatalf("expected a single Destroy statement for the strong-ptr field, got %d", len(body.Stmts))
	}
	if tree.Stmt(body.Stmts[0]).Kind != ast.StmtDestroy {
		t.Fatalf("expected a Destroy statement")
	}
}

func TestResolveClassBodyRejectsUnsizedArrayNotLast(t *testing.T) {
	p, _, tbl := newPass()
	class := tbl.NewClass("Bad", 0)
	info := tbl.Class(class)
	info.AddField("items", tbl.GetArray(tbl.GetInt(), 0, types.LayoutDefault), 0)
	info.AddField("trailer", tbl.GetInt(), 0)

	p.resolveClassBody(class)
	if !p.Sink.HasErrors() {
		t.Fatalf("expected an error for a non-trailing unsized array field")
	}
}

func TestResolveClassBodyRejectsRawPointerReturnExceptForConstructor(t *testing.T) {
	p, tree, tbl := newPass()
	pointee := tbl.GetInt()
	class := tbl.NewClass("Thing", 0)
	info := tbl.Class(class)
	info.AddMethod(types.Method{
		Name:       "borrow",
		ReturnType: tbl.GetRawPtr(pointee),
		Stmts:      tree.PutStmt(ast.Stmt{Kind: ast.StmtCompound}),
	})

	p.resolveClassBody(class)
	if !p.Sink.HasErrors() {
		t.Fatalf("expected an error for a non-constructor method returning a raw pointer")
	}
}

func TestFindMethodReportsAmbiguousOverloadOnArityMismatch(t *testing.T) {
	p, tree, tbl := newPass()
	class := tbl.NewClass("Thing", 0)
	info := tbl.Class(class)
	info.AddMethod(types.Method{
		Name:       "scale",
		ReturnType: tbl.GetVoid(),
		FormalArgs: []types.FormalArg{{Name: "f", Type: tbl.GetFloat()}},
	})
	info.MarkResolved()

	self := tree.PutExpr(ast.Expr{Kind: ast.ExprLoad, Type: class})
	call := tree.PutExpr(ast.Expr{Kind: ast.ExprUnresolvedMethodCall, Base: self, Name: "scale"})

	p.VisitExpr(tree, call)
	if !p.Sink.HasErrors() {
		t.Fatalf("expected an unresolved-overload error for a call with the wrong argument count")
	}
}

func TestSwizzleStoreRejectsDuplicateComponents(t *testing.T) {
	p, tree, tbl := newPass()
	vec4, _ := tbl.GetVector(tbl.GetFloat(), 4)

	base := tree.PutExpr(ast.Expr{Kind: ast.ExprLoad, Type: vec4})
	target := ast.Expr{Kind: ast.ExprUnresolvedDot, Base: base, Name: "xx"}

	p.resolveDotTarget(tree, target)
	if !p.Sink.HasErrors() {
		t.Fatalf("expected an error storing through a duplicate-component swizzle")
	}
}

func TestSwizzleReadAllowsDuplicateComponents(t *testing.T) {
	p, tree, tbl := newPass()
	vec4, _ := tbl.GetVector(tbl.GetFloat(), 4)

	base := tree.PutExpr(ast.Expr{Kind: ast.ExprLoad, Type: vec4})
	target := ast.Expr{Kind: ast.ExprUnresolvedDot, Base: base, Name: "xx"}

	p.resolveDot(tree, target)
	if p.Sink.HasErrors() {
		t.Fatalf("unexpected errors reading a duplicate-component swizzle: %v", p.Sink.Diagnostics())
	}
}

func TestSwizzleAcceptsStpqAliases(t *testing.T) {
	p, tree, tbl := newPass()
	vec4, _ := tbl.GetVector(tbl.GetFloat(), 4)

	base := tree.PutExpr(ast.Expr{Kind: ast.ExprLoad, Type: vec4})
	target := ast.Expr{Kind: ast.ExprUnresolvedDot, Base: base, Name: "stpq"}

	out := p.resolveDot(tree, target)
	if p.Sink.HasErrors() {
		t.Fatalf("unexpected errors resolving stpq swizzle: %v", p.Sink.Diagnostics())
	}
	if tree.Expr(out).Type != vec4 {
		t.Fatalf("expected stpq to resolve to the full 4-component vector type")
	}
}

func TestVarDeclWithNoInitializerZeroInitsClassFieldsRecursively(t *testing.T) {
	p, tree, tbl := newPass()
	class := tbl.NewClass("Point", 0)
	info := tbl.Class(class)
	info.AddField("x", tbl.GetFloat(), 0)
	info.AddField("y", tbl.GetFloat(), 0)

	decl := tree.PutStmt(ast.Stmt{Kind: ast.StmtVarDecl, VarName: "p", VarType: class})
	out := p.VisitStmt(tree, decl)
	if p.Sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", p.Sink.Diagnostics())
	}

	resolved := tree.Stmt(out)
	if resolved.Kind != ast.StmtCompound {
		t.Fatalf("expected a compound of zero-init plus per-field synthesis, got %v", resolved.Kind)
	}
	if len(resolved.Stmts) == 0 || tree.Stmt(resolved.Stmts[0]).Kind != ast.StmtZeroInit {
		t.Fatalf("expected a whole-variable zero-init as the first statement")
	}
}
