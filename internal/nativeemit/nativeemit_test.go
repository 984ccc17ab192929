package nativeemit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/quill-lang/quillc/internal/ast"
	"github.com/quill-lang/quillc/internal/types"
)

func TestDumpBuilderRendersMethodSignature(t *testing.T) {
	tbl := types.NewTable()
	class := tbl.NewClass("Vec3", 0)
	tree := ast.NewTree()
	body := tree.PutStmt(ast.Stmt{Kind: ast.StmtCompound})
	info := tbl.Class(class)
	info.AddMethod(types.Method{
		Name:       "Add",
		ReturnType: class,
		FormalArgs: []types.FormalArg{{Name: "other", Type: class}},
		Stmts:      body,
	})
	info.MarkResolved()

	var buf bytes.Buffer
	driver := NewDriver(tbl, NewDumpBuilder(tbl, &buf))
	if err := driver.EmitClass(tree, class); err != nil {
		t.Fatalf("EmitClass returned an error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Vec3.Add(other Vec3) Vec3") {
		t.Fatalf("unexpected dump output: %q", out)
	}
}

func TestEmitClassSkipsDeviceOnlyAndShaderStageMethods(t *testing.T) {
	tbl := types.NewTable()
	class := tbl.NewClass("Pipeline", 0)
	tree := ast.NewTree()
	body := tree.PutStmt(ast.Stmt{Kind: ast.StmtCompound})
	info := tbl.Class(class)
	info.AddMethod(types.Method{Name: "VertexMain", ShaderStage: types.ShaderStageVertex, Stmts: body})
	info.AddMethod(types.Method{Name: "Intrinsic", Modifiers: types.ModDeviceOnly, Stmts: body})
	info.AddMethod(types.Method{Name: "Host", Stmts: body})
	info.MarkResolved()

	var buf bytes.Buffer
	driver := NewDriver(tbl, NewDumpBuilder(tbl, &buf))
	if err := driver.EmitClass(tree, class); err != nil {
		t.Fatalf("EmitClass returned an error: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "VertexMain") || strings.Contains(out, "Intrinsic") {
		t.Fatalf("expected shader-stage and device-only methods to be skipped, got %q", out)
	}
	if !strings.Contains(out, "Host") {
		t.Fatalf("expected the ordinary host method to be emitted, got %q", out)
	}
}

func TestDumpBuilderTracesConstantFoldedVarDecl(t *testing.T) {
	tbl := types.NewTable()
	i32 := tbl.GetInt()
	class := tbl.NewClass("Counter", 0)
	tree := ast.NewTree()

	lit := tree.PutExpr(ast.Expr{Kind: ast.ExprIntegerLiteral, IntValue: 7, Type: i32})
	decl := tree.PutStmt(ast.Stmt{Kind: ast.StmtVarDecl, VarName: "limit", VarType: i32, Init: lit})
	body := tree.PutStmt(ast.Stmt{Kind: ast.StmtCompound, Stmts: []ast.Handle{decl}})

	info := tbl.Class(class)
	info.AddMethod(types.Method{Name: "Run", ReturnType: i32, Stmts: body})
	info.MarkResolved()

	var buf bytes.Buffer
	driver := NewDriver(tbl, NewDumpBuilder(tbl, &buf))
	if err := driver.EmitClass(tree, class); err != nil {
		t.Fatalf("EmitClass returned an error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "const limit") {
		t.Fatalf("expected a folded constant trace line for limit, got %q", out)
	}
}
