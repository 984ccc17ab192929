package shaderprep

import (
	"testing"

	"github.com/quill-lang/quillc/internal/ast"
	"github.com/quill-lang/quillc/internal/builtins"
	"github.com/quill-lang/quillc/internal/types"
)

func newPass() (*Pass, *types.Table, *builtins.NativeClasses, *ast.Tree) {
	tbl := types.NewTable()
	native := builtins.Register(tbl)
	tree := ast.NewTree()
	return New(tree, tbl, native), tbl, native, tree
}

func TestPrepareClassifiesBuiltinByName(t *testing.T) {
	p, tbl, _, _ := newPass()
	m := &types.Method{
		ShaderStage: types.ShaderStageVertex,
		FormalArgs: []types.FormalArg{
			{Name: "vertexIndex", Type: tbl.GetUInt()},
		},
	}
	ep := p.Prepare(m)
	if len(ep.Builtins) != 1 || ep.Builtins[0].Name != "vertexIndex" {
		t.Fatalf("expected vertexIndex to be classified as a builtin, got %+v", ep.Builtins)
	}
	if len(ep.Inputs) != 0 {
		t.Fatalf("did not expect vertexIndex to also land in Inputs")
	}
}

func TestPrepareClassifiesBindGroupResourceArgument(t *testing.T) {
	p, tbl, native, _ := newPass()
	elem := tbl.GetQualified(tbl.GetArray(tbl.GetFloat(), 0, types.LayoutDefault), types.Uniform)
	bufInst := tbl.GetClassTemplateInstance(native.Buffer, []types.Handle{elem})
	strongPtr := tbl.GetStrongPtr(bufInst)

	m := &types.Method{
		ShaderStage: types.ShaderStageFragment,
		FormalArgs:  []types.FormalArg{{Name: "params", Type: strongPtr}},
	}
	ep := p.Prepare(m)
	if len(ep.BindGroups) != 1 || len(ep.BindGroups[0]) != 1 || ep.BindGroups[0][0].Name != "params" {
		t.Fatalf("expected params to land in a single bind group, got %+v", ep.BindGroups)
	}
}

func TestPrepareClassifiesWriteOnlyArgumentAsOutput(t *testing.T) {
	p, tbl, _, _ := newPass()
	f4, _ := tbl.GetVector(tbl.GetFloat(), 4)
	out := tbl.GetQualified(f4, types.WriteOnly)

	m := &types.Method{
		ShaderStage: types.ShaderStageVertex,
		FormalArgs:  []types.FormalArg{{Name: "color", Type: out}},
	}
	ep := p.Prepare(m)
	if len(ep.Outputs) != 1 || ep.Outputs[0].Name != "color" {
		t.Fatalf("expected color to be classified as an output, got %+v", ep.Outputs)
	}
}

func TestPrepareRewritesLoadOfFormalToSynthesizedName(t *testing.T) {
	p, tbl, _, tree := newPass()
	f4, _ := tbl.GetVector(tbl.GetFloat(), 4)

	load := tree.PutExpr(ast.Expr{Kind: ast.ExprLoad, Name: "normal", Type: f4})
	ret := tree.PutStmt(ast.Stmt{Kind: ast.StmtReturn, ReturnValue: load})

	m := &types.Method{
		ShaderStage: types.ShaderStageVertex,
		FormalArgs:  []types.FormalArg{{Name: "normal", Type: f4}},
		Stmts:       ret,
	}
	ep := p.Prepare(m)

	rewritten := tree.Stmt(ep.Body)
	loadedExpr := tree.Expr(rewritten.ReturnValue)
	if loadedExpr.Name != "__input_normal" {
		t.Fatalf("expected load of formal 'normal' to be renamed, got %q", loadedExpr.Name)
	}
}
