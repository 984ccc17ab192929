// Package demoprogram builds small, fully-formed programs directly
// against the type table and AST arena, standing in for the lexer/
// parser the CORE's input boundary names but explicitly excludes from
// this repository's scope (spec §1: "Deliberately OUT of scope: the
// lexer/parser producing the raw AST"). The CLI driver (cmd/quillc)
// selects one of these by name instead of reading source text, so the
// full pipeline — Semantic Pass, Constant Folder, API Validator,
// Shader Prep, Shader IR, Native Emitter — has something concrete to
// run end to end.
package demoprogram

import (
	"fmt"

	"github.com/quill-lang/quillc/internal/ast"
	"github.com/quill-lang/quillc/internal/builtins"
	"github.com/quill-lang/quillc/internal/types"
)

// Program is one named, buildable demo.
type Program struct {
	Name        string
	Description string
	Build       func(tree *ast.Tree, tbl *types.Table, native *builtins.NativeClasses) (class types.Handle, err error)
}

// Registry indexes every demo program by name for the CLI's --program flag.
var Registry = map[string]Program{}

func register(p Program) { Registry[p.Name] = p }

func init() {
	register(Program{
		Name:        "vec-add",
		Description: "a host class Vec3 with an Add method returning the component-wise sum",
		Build:       buildVecAdd,
	})
	register(Program{
		Name:        "unlit-shader",
		Description: "a RenderPipeline class with Vertex and Fragment entry points",
		Build:       buildUnlitShader,
	})
}

// buildVecAdd constructs:
//
//	class Vec3 {
//	  float x, y, z;
//	  Vec3 Add(Vec3 other) { return Vec3{x + other.x, y + other.y, z + other.z}; }
//	}
func buildVecAdd(tree *ast.Tree, tbl *types.Table, native *builtins.NativeClasses) (types.Handle, error) {
	f := tbl.GetFloat()
	class := tbl.NewClass("Vec3", 0)
	info := tbl.Class(class)
	info.AddField("x", f, 0)
	info.AddField("y", f, 0)
	info.AddField("z", f, 0)

	self := tree.PutExpr(ast.Expr{Kind: ast.ExprLoad, Name: "self", Type: class})
	other := tree.PutExpr(ast.Expr{Kind: ast.ExprLoad, Name: "other", Type: class})

	field := func(base ast.Handle, name string) ast.Handle {
		return tree.PutExpr(ast.Expr{Kind: ast.ExprFieldAccess, Base: base, Name: name, Type: f})
	}
	add := func(a, b ast.Handle) ast.Handle {
		return tree.PutExpr(ast.Expr{Kind: ast.ExprBinaryOp, BinOp: ast.OpAdd, LHS: a, RHS: b, Type: f})
	}

	sumX := add(field(self, "x"), field(other, "x"))
	sumY := add(field(self, "y"), field(other, "y"))
	sumZ := add(field(self, "z"), field(other, "z"))

	result := tree.PutExpr(ast.Expr{
		Kind: ast.ExprInitializerList, Type: class,
		Elements: []ast.Handle{sumX, sumY, sumZ},
	})
	ret := tree.PutStmt(ast.Stmt{Kind: ast.StmtReturn, ReturnValue: result})
	body := tree.PutStmt(ast.Stmt{Kind: ast.StmtCompound, Stmts: []ast.Handle{ret}})

	info.AddMethod(types.Method{
		Name:       "Add",
		ReturnType: class,
		FormalArgs: []types.FormalArg{{Name: "other", Type: class}},
		Stmts:      body,
	})
	info.MarkResolved()
	return class, nil
}

// buildUnlitShader constructs a pipeline class whose Vertex method passes
// a clip-space position through and whose Fragment method samples a
// bound texture, exercising shaderprep's Input/Output/BindGroup/Builtin
// split and shaderir's texture-sample intrinsic recognition.
func buildUnlitShader(tree *ast.Tree, tbl *types.Table, native *builtins.NativeClasses) (types.Handle, error) {
	f4, ok := tbl.GetVector(tbl.GetFloat(), 4)
	if !ok {
		return 0, fmt.Errorf("demoprogram: vec4 is unavailable")
	}
	f2, ok := tbl.GetVector(tbl.GetFloat(), 2)
	if !ok {
		return 0, fmt.Errorf("demoprogram: vec2 is unavailable")
	}

	pipeline := tbl.NewClass("UnlitPipeline", 0)
	info := tbl.Class(pipeline)

	clipPos := tree.PutExpr(ast.Expr{Kind: ast.ExprLoad, Name: "clipPosition", Type: f4})
	vsBody := tree.PutStmt(ast.Stmt{
		Kind: ast.StmtCompound,
		Stmts: []ast.Handle{
			tree.PutStmt(ast.Stmt{Kind: ast.StmtReturn, ReturnValue: clipPos}),
		},
	})
	info.AddMethod(types.Method{
		Name:        "VertexMain",
		Modifiers:   0,
		ReturnType:  f4,
		ShaderStage: types.ShaderStageVertex,
		FormalArgs:  []types.FormalArg{{Name: "clipPosition", Type: f4}, {Name: "position", Type: f4}},
		Stmts:       vsBody,
	})

	texRef := tree.PutExpr(ast.Expr{Kind: ast.ExprLoad, Name: "albedo", Type: native.SampleableTexture2D})
	uv := tree.PutExpr(ast.Expr{Kind: ast.ExprLoad, Name: "uv", Type: f2})
	sample := tree.PutExpr(ast.Expr{
		Kind: ast.ExprMethodCall, Base: texRef, Name: "Sample",
		Args: []ast.Handle{uv}, Type: f4,
	})
	fsBody := tree.PutStmt(ast.Stmt{
		Kind:  ast.StmtCompound,
		Stmts: []ast.Handle{tree.PutStmt(ast.Stmt{Kind: ast.StmtReturn, ReturnValue: sample})},
	})
	info.AddMethod(types.Method{
		Name:        "FragmentMain",
		ReturnType:  f4,
		ShaderStage: types.ShaderStageFragment,
		FormalArgs:  []types.FormalArg{{Name: "uv", Type: f2}, {Name: "albedo", Type: native.SampleableTexture2D}},
		Stmts:       fsBody,
	})

	info.MarkResolved()
	return pipeline, nil
}
