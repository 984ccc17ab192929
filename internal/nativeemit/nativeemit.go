// Package nativeemit defines the boundary between the CORE and the
// native/host code generator (spec §4.9, expanded by §6.6): the CORE
// never emits machine code itself, it only hands the generator
// fully-resolved methods through the IRBuilder interface. A real
// backend is out of scope (spec §1); this package ships one reference
// implementation, DumpBuilder, that records a human-readable trace of
// the calls it receives for use in tests and `-d` dumps of the host
// path.
package nativeemit

import (
	"fmt"
	"io"

	"github.com/quill-lang/quillc/internal/ast"
	"github.com/quill-lang/quillc/internal/constfold"
	"github.com/quill-lang/quillc/internal/types"
)

// IRBuilder is the interface the CORE drives once a class's methods
// have cleared the Semantic Pass, Constant Folder, and API Validator.
// The CORE's AST representation uses an arena-resident Tree with
// integer Handles rather than the boundary description's pointer-based
// `*ast.Arena`/`ast.MethodHandle`, so EmitMethod takes the Tree plus
// the owning class and method directly.
type IRBuilder interface {
	EmitMethod(tree *ast.Tree, class types.Handle, method *types.Method) error
}

// DumpBuilder renders every EmitMethod call as text to W: one line naming
// the class, method, formal arguments, and return type, followed by one
// indented line per initialized VarDecl in the method body.
type DumpBuilder struct {
	Types *types.Table
	W     io.Writer
}

// NewDumpBuilder builds a DumpBuilder bound to tbl, writing to w.
func NewDumpBuilder(tbl *types.Table, w io.Writer) *DumpBuilder {
	return &DumpBuilder{Types: tbl, W: w}
}

// EmitMethod implements IRBuilder by writing the signature trace line,
// then one traceVarDecl line per VarDecl found in the body.
func (d *DumpBuilder) EmitMethod(tree *ast.Tree, class types.Handle, method *types.Method) error {
	info := d.Types.Class(class)
	name := "?"
	if info != nil {
		name = info.Name
	}

	args := make([]string, len(method.FormalArgs))
	for i, a := range method.FormalArgs {
		args[i] = fmt.Sprintf("%s %s", a.Name, d.Types.String(a.Type))
	}

	_, err := fmt.Fprintf(d.W, "%s.%s(%s) %s\n", name, method.Name, joinArgs(args), d.Types.String(method.ReturnType))
	if err != nil {
		return err
	}

	for _, decl := range collectVarDecls(tree, method.Stmts) {
		if err := d.traceVarDecl(tree, decl); err != nil {
			return err
		}
	}
	return nil
}

// traceVarDecl reports whether decl's initializer is a compile-time
// constant the Constant Folder can resolve (spec §4.5), falling back to
// a runtime-initialized trace line when it is not: folding failure is
// informational here, never an error, matching constfold.Fold's own
// "caller falls back, never a diagnostic" contract.
func (d *DumpBuilder) traceVarDecl(tree *ast.Tree, decl ast.Stmt) error {
	if decl.Init == 0 {
		return nil
	}
	size, _ := d.Types.LayoutAs(decl.VarType, types.LayoutDefault)
	if size <= 0 {
		return nil
	}
	buf := make([]byte, size)
	if constfold.Fold(d.Types, tree, decl.Init, decl.VarType, buf, 0) {
		_, err := fmt.Fprintf(d.W, "  const %s %s = %x\n", decl.VarName, d.Types.String(decl.VarType), buf)
		return err
	}
	_, err := fmt.Fprintf(d.W, "  %s %s (runtime-initialized)\n", decl.VarName, d.Types.String(decl.VarType))
	return err
}

// collectVarDecls walks root (a statement handle, usually a Compound)
// gathering every VarDecl statement reachable. This is a plain
// read-only recursion rather than the ast.Visitor Copy Visitor
// internal/semantic and internal/shaderprep use for their rewriting
// passes: that visitor reallocates every node it visits (t.PutStmt),
// which would needlessly grow the arena on every trace dump.
func collectVarDecls(tree *ast.Tree, root ast.Handle) []ast.Stmt {
	var decls []ast.Stmt
	var walk func(h ast.Handle)
	walk = func(h ast.Handle) {
		if h == 0 {
			return
		}
		s := tree.Stmt(h)
		if s.Kind == ast.StmtVarDecl {
			decls = append(decls, s)
		}
		walk(s.Then)
		walk(s.Else)
		walk(s.ForInit)
		walk(s.ForPost)
		walk(s.ForBody)
		for _, c := range s.Stmts {
			walk(c)
		}
	}
	walk(root)
	return decls
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += ", "
		}
		out += a
	}
	return out
}

// Driver walks every non-device-only, non-shader-stage method of every
// resolved class and hands it to an IRBuilder (spec §4.9: the CORE's
// side of the boundary, draining resolved methods to the generator
// once emission begins).
type Driver struct {
	Types   *types.Table
	Builder IRBuilder
}

// NewDriver builds a Driver bound to tbl and b.
func NewDriver(tbl *types.Table, b IRBuilder) *Driver {
	return &Driver{Types: tbl, Builder: b}
}

// EmitClass emits every eligible method of class.
func (d *Driver) EmitClass(tree *ast.Tree, class types.Handle) error {
	info := d.Types.Class(class)
	if info == nil {
		return nil
	}
	for i := range info.Methods {
		m := &info.Methods[i]
		if m.IsDeviceOnly() || m.ShaderStage != types.ShaderStageNone || m.Stmts == 0 {
			continue
		}
		if err := d.Builder.EmitMethod(tree, class, m); err != nil {
			return fmt.Errorf("emit %s.%s: %w", info.Name, m.Name, err)
		}
	}
	return nil
}
