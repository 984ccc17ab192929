// Package shaderprep implements the Shader Preparation Pass (spec
// §4.7): given a fully-typed method tagged Vertex/Fragment/Compute, it
// splits the formal argument list into inputs, outputs, bind groups,
// and built-ins (in source order), rewrites in-body references to those
// formals as loads from / stores to the synthesized stage variables,
// and flattens smart-pointer dereferences to raw access since the
// shader IR has no pointer flavor beyond raw.
//
// Grounded on _examples/original_source/ast/shader_prep_pass.h/cc: the
// Go `Var`/`EntryPoint` shapes mirror that file's `VarVector`/
// `BindGroupList` output accessors (`GetInputs`/`GetOutputs`/
// `GetBindGroups`/`GetBuiltInVars`), and `Prepare`'s argument
// classification follows `ExtractPipelineVars`/`ExtractBuiltInVars`.
package shaderprep

import (
	"fmt"

	"github.com/quill-lang/quillc/internal/ast"
	"github.com/quill-lang/quillc/internal/builtins"
	"github.com/quill-lang/quillc/internal/types"
)

// builtinNames maps a formal argument's name to the well-known slot ID
// the spec requires built-ins to be mapped to (spec §4.7.1, §6.5's full
// built-in slot table).
var builtinNames = map[string]string{
	"vertexIndex":          "VertexIndex",
	"instanceIndex":        "InstanceIndex",
	"position":             "Position",
	"pointSize":            "PointSize",
	"fragCoord":            "FragCoord",
	"frontFacing":          "FrontFacing",
	"fragDepth":            "FragDepth",
	"localInvocationId":    "LocalInvocationId",
	"localInvocationIndex": "LocalInvocationIndex",
	"globalInvocationId":   "GlobalInvocationId",
	"workgroupId":          "WorkgroupId",
	"numWorkgroups":        "NumWorkgroups",
	"sampleIndex":          "SampleIndex",
	"sampleMaskIn":         "SampleMaskIn",
	"sampleMaskOut":        "SampleMaskOut",
}

// Var is one synthesized stage variable: an input, output, bind-group
// member, or built-in.
type Var struct {
	Name string
	Type types.Handle
	Slot string // the built-in's well-known slot ID, set only for Builtins
}

// EntryPoint is the prepared form of one Vertex/Fragment/Compute method:
// its formals reclassified into spec §4.7.1's four categories, and its
// body rewritten to reference the synthesized variables instead of the
// original formal arguments.
type EntryPoint struct {
	Stage      types.ShaderStage
	Inputs     []Var
	Outputs    []Var
	BindGroups [][]Var
	Builtins   []Var
	Body       ast.Handle
}

// Pass prepares entry-point methods for the Shader IR Emitter.
type Pass struct {
	Tree   *ast.Tree
	Types  *types.Table
	Native *builtins.NativeClasses
}

// New builds a Pass bound to tree/tbl/native.
func New(tree *ast.Tree, tbl *types.Table, native *builtins.NativeClasses) *Pass {
	return &Pass{Tree: tree, Types: tbl, Native: native}
}

// Prepare implements spec §4.7 end to end for one entry-point method.
func (p *Pass) Prepare(m *types.Method) *EntryPoint {
	ep := &EntryPoint{Stage: m.ShaderStage}
	renames := make(map[string]string)
	var group []Var

	for _, arg := range m.FormalArgs {
		switch p.classify(arg) {
		case argBuiltin:
			slot := builtinNames[arg.Name]
			ep.Builtins = append(ep.Builtins, Var{Name: arg.Name, Type: arg.Type, Slot: slot})
			renames[arg.Name] = "__builtin_" + arg.Name
		case argBindGroup:
			group = append(group, Var{Name: arg.Name, Type: arg.Type})
			renames[arg.Name] = "__bindgroup_" + arg.Name
		case argOutput:
			ep.Outputs = append(ep.Outputs, Var{Name: arg.Name, Type: arg.Type})
			renames[arg.Name] = "__output_" + arg.Name
		default:
			ep.Inputs = append(ep.Inputs, Var{Name: arg.Name, Type: arg.Type})
			renames[arg.Name] = "__input_" + arg.Name
		}
	}
	if len(group) > 0 {
		ep.BindGroups = append(ep.BindGroups, group)
	}

	ep.Body = p.rewriteBody(m.Stmts, renames)
	return ep
}

type argClass int

const (
	argInput argClass = iota
	argOutput
	argBindGroup
	argBuiltin
)

// classify implements spec §4.7.1's split: a name in builtinNames is a
// built-in regardless of type; a resource-class type (Buffer, BindGroup,
// Sampler, SampleableTextureN, or a strong/weak pointer to one) is a
// bind-group member; a WriteOnly-qualified type is an output; anything
// else is an input.
func (p *Pass) classify(arg types.FormalArg) argClass {
	if _, ok := builtinNames[arg.Name]; ok {
		return argBuiltin
	}
	base := arg.Type
	if p.Types.IsPtr(base) {
		base = p.Types.Pointee(base)
	}
	unqualified, quals := p.Types.GetUnqualifiedType(base)
	if p.isResourceType(unqualified) {
		return argBindGroup
	}
	if quals&types.WriteOnly != 0 {
		return argOutput
	}
	return argInput
}

func (p *Pass) isResourceType(h types.Handle) bool {
	class := p.Types.Class(h)
	if class != nil && class.Template != 0 {
		switch class.Template {
		case p.Native.Buffer, p.Native.BindGroup:
			return true
		}
	}
	switch h {
	case p.Native.Sampler, p.Native.SampleableTexture1D, p.Native.SampleableTexture2D,
		p.Native.SampleableTexture2DArray, p.Native.SampleableTexture3D, p.Native.SampleableTextureCube:
		return true
	}
	return false
}

// rewriteBody copies body, renaming every Load/Store/VarDecl reference to
// a formal argument's original name to its synthesized stage-variable
// name (spec §4.7.2), and flattening smart-pointer dereferences to raw
// pointer access (spec §4.7.3) since the shader IR has no pointer flavor
// beyond raw.
func (p *Pass) rewriteBody(body ast.Handle, renames map[string]string) ast.Handle {
	if body == 0 {
		return 0
	}
	rw := &bodyRewriter{tree: p.Tree, renames: renames}
	rw.Self = rw
	return rw.VisitStmt(p.Tree, body)
}

type bodyRewriter struct {
	ast.Default
	tree    *ast.Tree
	renames map[string]string
}

func (r *bodyRewriter) VisitExpr(t *ast.Tree, h ast.Handle) ast.Handle {
	if h == 0 {
		return 0
	}
	e := t.Expr(h)
	switch e.Kind {
	case ast.ExprLoad:
		if n, ok := r.renames[e.Name]; ok {
			e.Name = n
			return t.PutExpr(e)
		}
	case ast.ExprSmartToRawPtr:
		// Pointer flattening (spec §4.7.3): a smart-to-raw dereference
		// collapses to its underlying raw operand directly.
		return r.VisitExpr(t, e.RHS)
	}
	return r.Default.VisitExpr(t, h)
}

func (r *bodyRewriter) VisitStmt(t *ast.Tree, h ast.Handle) ast.Handle {
	if h == 0 {
		return 0
	}
	s := t.Stmt(h)
	if s.Kind == ast.StmtVarDecl || s.Kind == ast.StmtZeroInit {
		if n, ok := r.renames[s.VarName]; ok {
			s.VarName = n
			if s.Init != 0 {
				s.Init = r.VisitExpr(t, s.Init)
			}
			return t.PutStmt(s)
		}
	}
	return r.Default.VisitStmt(t, h)
}

// BindGroupName renders a diagnostic/dump-friendly label for bind group
// index i, e.g. "group0".
func BindGroupName(i int) string { return fmt.Sprintf("group%d", i) }
