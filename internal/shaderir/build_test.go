package shaderir

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/kr/pretty"
	"github.com/tidwall/gjson"

	"github.com/quill-lang/quillc/internal/ast"
	"github.com/quill-lang/quillc/internal/builtins"
	"github.com/quill-lang/quillc/internal/shaderprep"
	"github.com/quill-lang/quillc/internal/types"
)

func newBuilder() (*Builder, *types.Table, *builtins.NativeClasses, *ast.Tree) {
	tbl := types.NewTable()
	native := builtins.Register(tbl)
	tree := ast.NewTree()
	return New(tree, tbl, native), tbl, native, tree
}

func TestBuildEmitsFAddForFloatAddition(t *testing.T) {
	b, tbl, _, tree := newBuilder()
	f := tbl.GetFloat()

	lhs := tree.PutExpr(ast.Expr{Kind: ast.ExprLoad, Name: "__input_a", Type: f})
	rhs := tree.PutExpr(ast.Expr{Kind: ast.ExprLoad, Name: "__input_b", Type: f})
	add := tree.PutExpr(ast.Expr{Kind: ast.ExprBinaryOp, BinOp: ast.OpAdd, LHS: lhs, RHS: rhs, Type: f})
	ret := tree.PutStmt(ast.Stmt{Kind: ast.StmtReturn, ReturnValue: add})

	ep := &shaderprep.EntryPoint{Stage: types.ShaderStageFragment, Body: ret}
	m := b.Build("main", ep)

	fn := m.Functions[0]
	var sawFAdd bool
	for _, inst := range fn.Instructions {
		if inst.Op == OpFAdd {
			sawFAdd = true
		}
	}
	if !sawFAdd {
		t.Fatalf("expected an OpFAdd instruction, got %# v", pretty.Formatter(fn.Instructions))
	}
}

func TestBuildRecognizesMathIntrinsic(t *testing.T) {
	b, tbl, native, tree := newBuilder()
	f := tbl.GetFloat()

	mathRef := tree.PutExpr(ast.Expr{Kind: ast.ExprLoad, Name: "Math", Type: native.Math})
	arg := tree.PutExpr(ast.Expr{Kind: ast.ExprFloatLiteral, FloatValue: 1.0, Type: f})
	call := tree.PutExpr(ast.Expr{Kind: ast.ExprMethodCall, Base: mathRef, Name: "Sqrt", Args: []ast.Handle{arg}, Type: f})
	ret := tree.PutStmt(ast.Stmt{Kind: ast.StmtReturn, ReturnValue: call})

	ep := &shaderprep.EntryPoint{Stage: types.ShaderStageFragment, Body: ret}
	m := b.Build("main", ep)

	var sawExtInst bool
	for _, inst := range m.Functions[0].Instructions {
		if inst.Op == OpExtInst && inst.Imm == "Sqrt" {
			sawExtInst = true
		}
	}
	if !sawExtInst {
		t.Fatalf("expected Math.Sqrt to lower to an OpExtInst Sqrt, got %# v", pretty.Formatter(m.Functions[0].Instructions))
	}
}

func TestDumpProducesValidJSONWithExecutionModel(t *testing.T) {
	b, tbl, _, tree := newBuilder()
	f := tbl.GetFloat()
	lit := tree.PutExpr(ast.Expr{Kind: ast.ExprFloatLiteral, FloatValue: 1.0, Type: f})
	ret := tree.PutStmt(ast.Stmt{Kind: ast.StmtReturn, ReturnValue: lit})

	ep := &shaderprep.EntryPoint{Stage: types.ShaderStageVertex, Body: ret}
	m := b.Build("vs_main", ep)

	var buf bytes.Buffer
	if err := m.Dump(&buf); err != nil {
		t.Fatalf("Dump returned an error: %v", err)
	}
	out := buf.String()

	if got := gjson.Get(out, "entryPoint").String(); got != "vs_main" {
		t.Fatalf("entryPoint = %q, want vs_main (dump: %s)", got, out)
	}
	if got := gjson.Get(out, "executionModel").String(); got != "Vertex" {
		t.Fatalf("executionModel = %q, want Vertex (dump: %s)", got, out)
	}
	if got := gjson.Get(out, "functions.0.name").String(); got != "vs_main" {
		t.Fatalf("functions.0.name = %q, want vs_main (dump: %s)", got, out)
	}
}

// TestDumpSnapshotMatchesUnlitFragmentStage exercises the full
// Prepare -> Build -> Dump chain against a fixed fragment-stage shape
// and pins the resulting JSON as a snapshot, the way the teacher pins
// interpreter output in internal/interp's fixture suite.
func TestDumpSnapshotMatchesUnlitFragmentStage(t *testing.T) {
	b, tbl, native, tree := newBuilder()
	f := tbl.GetFloat()
	f2, _ := tbl.GetVector(f, 2)
	f4, _ := tbl.GetVector(f, 4)
	tex := native.SampleableTexture2D

	uv := tree.PutExpr(ast.Expr{Kind: ast.ExprLoad, Name: "__input_uv", Type: f2})
	albedo := tree.PutExpr(ast.Expr{Kind: ast.ExprLoad, Name: "__bindgroup_0_albedo", Type: tex})
	sample := tree.PutExpr(ast.Expr{Kind: ast.ExprMethodCall, Base: albedo, Name: "Sample", Args: []ast.Handle{uv}, Type: f4})
	ret := tree.PutStmt(ast.Stmt{Kind: ast.StmtReturn, ReturnValue: sample})

	ep := &shaderprep.EntryPoint{
		Stage:      types.ShaderStageFragment,
		Inputs:     []shaderprep.Var{{Name: "uv", Type: f2}},
		BindGroups: [][]shaderprep.Var{{{Name: "albedo", Type: tex}}},
		Body:       ret,
	}
	m := b.Build("fs_main", ep)

	var buf bytes.Buffer
	if err := m.Dump(&buf); err != nil {
		t.Fatalf("Dump returned an error: %v", err)
	}
	snaps.MatchSnapshot(t, buf.String())
}
