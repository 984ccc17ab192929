package ast

import (
	"testing"

	"github.com/quill-lang/quillc/internal/source"
)

func TestTreePutGet(t *testing.T) {
	tr := NewTree()
	lit := tr.PutExpr(Expr{Kind: ExprIntegerLiteral, IntValue: 42})
	if got := tr.Expr(lit).IntValue; got != 42 {
		t.Errorf("IntValue = %d, want 42", got)
	}

	decl := tr.PutStmt(Stmt{Kind: StmtVarDecl, VarName: "x", Init: lit})
	s := tr.Stmt(decl)
	if s.VarName != "x" || s.Init != lit {
		t.Errorf("unexpected stmt: %+v", s)
	}
}

type countingVisitor struct {
	Default
	exprsSeen int
}

func newCountingVisitor() *countingVisitor {
	v := &countingVisitor{}
	v.Self = v
	return v
}

func (v *countingVisitor) VisitExpr(t *Tree, h Handle) Handle {
	v.exprsSeen++
	return v.Default.VisitExpr(t, h)
}

func TestCopyVisitorRecursesIntoChildren(t *testing.T) {
	tr := NewTree()
	lhs := tr.PutExpr(Expr{Kind: ExprIntegerLiteral, IntValue: 1})
	rhs := tr.PutExpr(Expr{Kind: ExprIntegerLiteral, IntValue: 2})
	add := tr.PutExpr(Expr{Kind: ExprBinaryOp, BinOp: OpAdd, LHS: lhs, RHS: rhs})

	v := newCountingVisitor()
	out := v.VisitExpr(tr, add)

	if out == add {
		t.Errorf("Copy Visitor must allocate a fresh handle, got the same handle back")
	}
	if v.exprsSeen != 3 {
		t.Errorf("exprsSeen = %d, want 3 (root + 2 children)", v.exprsSeen)
	}
	copied := tr.Expr(out)
	if tr.Expr(copied.LHS).IntValue != 1 || tr.Expr(copied.RHS).IntValue != 2 {
		t.Errorf("copied children lost their values")
	}
}

func TestResolveExprStampsReferenceLocation(t *testing.T) {
	tr := NewTree()
	orig := tr.PutExpr(Expr{Kind: ExprIntegerLiteral, IntValue: 7, Loc: source.Location{File: "a.ql", Line: 1, Column: 1}})

	v := &Default{}
	v.Self = v
	refLoc := source.Location{File: "b.ql", Line: 9, Column: 3}
	out := ResolveExpr(tr, v, orig, refLoc)

	if got := tr.Expr(out).Loc; got != refLoc {
		t.Errorf("Loc = %+v, want %+v", got, refLoc)
	}
}

func TestResolveExprKeepsDefiningLocationWhenRefInvalid(t *testing.T) {
	tr := NewTree()
	origLoc := source.Location{File: "a.ql", Line: 1, Column: 1}
	orig := tr.PutExpr(Expr{Kind: ExprIntegerLiteral, IntValue: 7, Loc: origLoc})

	v := &Default{}
	v.Self = v
	out := ResolveExpr(tr, v, orig, source.Unknown)

	if got := tr.Expr(out).Loc; got != origLoc {
		t.Errorf("Loc = %+v, want preserved %+v", got, origLoc)
	}
}
