package constfold

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/quill-lang/quillc/internal/ast"
	"github.com/quill-lang/quillc/internal/types"
)

func TestFoldIntegerLiteral(t *testing.T) {
	tbl := types.NewTable()
	tree := ast.NewTree()
	lit := tree.PutExpr(ast.Expr{Kind: ast.ExprIntegerLiteral, IntValue: 42})

	buf := make([]byte, 4)
	if !Fold(tbl, tree, lit, tbl.GetInt(), buf, 0) {
		t.Fatalf("expected a literal to fold")
	}
	if got := int32(binary.LittleEndian.Uint32(buf)); got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestFoldFloatLiteral(t *testing.T) {
	tbl := types.NewTable()
	tree := ast.NewTree()
	lit := tree.PutExpr(ast.Expr{Kind: ast.ExprFloatLiteral, FloatValue: 1.5})

	buf := make([]byte, 4)
	if !Fold(tbl, tree, lit, tbl.GetFloat(), buf, 0) {
		t.Fatalf("expected a literal to fold")
	}
	got := math.Float32frombits(binary.LittleEndian.Uint32(buf))
	if got != 1.5 {
		t.Fatalf("got %v, want 1.5", got)
	}
}

func TestFoldBinaryArithmeticOnLiterals(t *testing.T) {
	tbl := types.NewTable()
	tree := ast.NewTree()
	lhs := tree.PutExpr(ast.Expr{Kind: ast.ExprIntegerLiteral, IntValue: 3})
	rhs := tree.PutExpr(ast.Expr{Kind: ast.ExprIntegerLiteral, IntValue: 4})
	add := tree.PutExpr(ast.Expr{Kind: ast.ExprBinaryOp, BinOp: ast.OpAdd, LHS: lhs, RHS: rhs, Type: tbl.GetInt()})

	buf := make([]byte, 4)
	if !Fold(tbl, tree, add, tbl.GetInt(), buf, 0) {
		t.Fatalf("expected constant addition to fold")
	}
	if got := int32(binary.LittleEndian.Uint32(buf)); got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}

func TestFoldFailsOnNonConstantExpression(t *testing.T) {
	tbl := types.NewTable()
	tree := ast.NewTree()
	load := tree.PutExpr(ast.Expr{Kind: ast.ExprLoad, Name: "x", Type: tbl.GetInt()})

	buf := make([]byte, 4)
	if Fold(tbl, tree, load, tbl.GetInt(), buf, 0) {
		t.Fatalf("expected a runtime load to signal fold failure")
	}
}

func TestFoldDivisionByZeroSignalsFailureNotError(t *testing.T) {
	tbl := types.NewTable()
	tree := ast.NewTree()
	lhs := tree.PutExpr(ast.Expr{Kind: ast.ExprIntegerLiteral, IntValue: 1})
	rhs := tree.PutExpr(ast.Expr{Kind: ast.ExprIntegerLiteral, IntValue: 0})
	div := tree.PutExpr(ast.Expr{Kind: ast.ExprBinaryOp, BinOp: ast.OpDiv, LHS: lhs, RHS: rhs, Type: tbl.GetInt()})

	buf := make([]byte, 4)
	if Fold(tbl, tree, div, tbl.GetInt(), buf, 0) {
		t.Fatalf("expected division by zero to signal fold failure")
	}
}
