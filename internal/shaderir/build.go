package shaderir

import (
	"fmt"

	"github.com/quill-lang/quillc/internal/ast"
	"github.com/quill-lang/quillc/internal/builtins"
	"github.com/quill-lang/quillc/internal/shaderprep"
	"github.com/quill-lang/quillc/internal/types"
)

// Builder lowers one prepared entry point into a Module.
type Builder struct {
	Tree   *ast.Tree
	Types  *types.Table
	Native *builtins.NativeClasses

	fn *Function
}

// New builds a Builder bound to tree/tbl/native.
func New(tree *ast.Tree, tbl *types.Table, native *builtins.NativeClasses) *Builder {
	return &Builder{Tree: tree, Types: tbl, Native: native}
}

// Build implements spec §4.8 end to end: interface-variable decoration
// assignment (location/descriptor-set/binding, Flat for integer
// varyings), the execution-model header, and body lowering.
func (b *Builder) Build(name string, ep *shaderprep.EntryPoint) *Module {
	m := &Module{EntryPoint: name}

	switch ep.Stage {
	case types.ShaderStageVertex:
		m.ExecutionModel = ExecutionModelVertex
	case types.ShaderStageFragment:
		m.ExecutionModel = ExecutionModelFragment
		m.OriginUpperLeft = true
	case types.ShaderStageCompute:
		m.ExecutionModel = ExecutionModelGLCompute
		m.WorkgroupSize = [3]int{1, 1, 1}
	}

	for i, v := range ep.Inputs {
		m.Inputs = append(m.Inputs, b.decorateVarying(v, i))
	}
	for i, v := range ep.Outputs {
		m.Outputs = append(m.Outputs, b.decorateVarying(v, i))
	}
	for g, group := range ep.BindGroups {
		var decorated []InterfaceVar
		for binding, v := range group {
			decorated = append(decorated, InterfaceVar{
				Name: "__bindgroup_" + v.Name, Type: v.Type,
				DescriptorSet: g, Binding: binding,
			})
		}
		m.BindGroups = append(m.BindGroups, decorated)
	}
	for _, v := range ep.Builtins {
		m.Builtins = append(m.Builtins, InterfaceVar{Name: v.Slot, Type: v.Type})
	}

	b.fn = &Function{Name: name}
	b.emitStmt(ep.Body)
	m.Functions = append(m.Functions, *b.fn)
	return m
}

// decorateVarying assigns location=i (spec §4.8) and sets Flat when the
// varying's type is integral (the Flat-decoration rule: integer-typed
// varyings must be flat-interpolated since GPUs default to linear/perspective
// interpolation, which is undefined for integers).
func (b *Builder) decorateVarying(v shaderprep.Var, i int) InterfaceVar {
	return InterfaceVar{
		Name:     "__" + v.Name,
		Type:     v.Type,
		Location: i,
		Flat:     b.Types.IsIntegerVector(v.Type) || isIntegerScalar(b.Types, v.Type),
	}
}

func isIntegerScalar(tbl *types.Table, h types.Handle) bool {
	return tbl.Get(h).Kind() == types.KindInteger
}

func (b *Builder) emit(i Instruction) { b.fn.Instructions = append(b.fn.Instructions, i) }

func (b *Builder) emitStmt(h ast.Handle) {
	if h == 0 {
		return
	}
	s := b.Tree.Stmt(h)
	switch s.Kind {
	case ast.StmtCompound:
		for _, child := range s.Stmts {
			b.emitStmt(child)
		}
	case ast.StmtVarDecl:
		if s.Init != 0 {
			b.emitExpr(s.Init)
			b.emit(Instruction{Op: OpStore, Type: s.VarType, Imm: s.VarName})
		}
	case ast.StmtZeroInit:
		b.emit(Instruction{Op: OpConstant, Type: s.VarType, Imm: "0"})
		b.emit(Instruction{Op: OpStore, Type: s.VarType, Imm: s.VarName})
	case ast.StmtStore:
		b.emitExpr(s.Value)
		b.emit(Instruction{Op: OpStore, Imm: b.varName(s.Target)})
	case ast.StmtExpr:
		b.emitExpr(s.Target)
	case ast.StmtIf:
		b.emitExpr(s.Cond)
		mergeLabel := len(b.fn.Instructions)
		b.emit(Instruction{Op: OpSelectionMerge})
		b.emit(Instruction{Op: OpBranchConditional})
		b.emitStmt(s.Then)
		b.emitStmt(s.Else)
		b.emit(Instruction{Op: OpLabel, Imm: fmt.Sprintf("merge%d", mergeLabel)})
	case ast.StmtWhile:
		loopLabel := len(b.fn.Instructions)
		b.emit(Instruction{Op: OpLoopMerge})
		b.emitExpr(s.Cond)
		b.emit(Instruction{Op: OpBranchConditional})
		b.emitStmt(s.Then)
		b.emit(Instruction{Op: OpBranch, Imm: fmt.Sprintf("loop%d", loopLabel)})
	case ast.StmtDoWhile:
		loopLabel := len(b.fn.Instructions)
		b.emit(Instruction{Op: OpLoopMerge})
		b.emitStmt(s.Then)
		b.emitExpr(s.Cond)
		b.emit(Instruction{Op: OpBranchConditional, Imm: fmt.Sprintf("loop%d", loopLabel)})
	case ast.StmtFor:
		b.emitStmt(s.ForInit)
		loopLabel := len(b.fn.Instructions)
		b.emit(Instruction{Op: OpLoopMerge})
		b.emitExpr(s.ForCond)
		b.emit(Instruction{Op: OpBranchConditional})
		b.emitStmt(s.ForBody)
		b.emitStmt(s.ForPost)
		b.emit(Instruction{Op: OpBranch, Imm: fmt.Sprintf("loop%d", loopLabel)})
	case ast.StmtReturn:
		for _, d := range s.ReturnUnwind {
			b.emitStmt(d)
		}
		if s.ReturnValue != 0 {
			b.emitExpr(s.ReturnValue)
			b.emit(Instruction{Op: OpReturnValue})
		} else {
			b.emit(Instruction{Op: OpReturn})
		}
	case ast.StmtDestroy:
		// Destructor calls lower to ordinary function calls; the shader
		// target never reaches this for non-POD types (spec §4.6 rejects
		// non-POD shader-visible state), so this is a structural no-op here.
	}
}

// varName extracts the load target name from a Store's Target handle —
// after shaderprep's rewrite every Store target is a bare ExprLoad.
func (b *Builder) varName(h ast.Handle) string {
	e := b.Tree.Expr(h)
	return e.Name
}

func (b *Builder) emitExpr(h ast.Handle) {
	if h == 0 {
		return
	}
	e := b.Tree.Expr(h)
	switch e.Kind {
	case ast.ExprIntegerLiteral:
		b.emit(Instruction{Op: OpConstant, Type: e.Type, Imm: fmt.Sprintf("%d", e.IntValue)})
	case ast.ExprFloatLiteral:
		b.emit(Instruction{Op: OpConstant, Type: e.Type, Imm: fmt.Sprintf("%g", e.FloatValue)})
	case ast.ExprBoolLiteral:
		b.emit(Instruction{Op: OpConstant, Type: e.Type, Imm: fmt.Sprintf("%t", e.BoolValue)})
	case ast.ExprEnumLiteral:
		b.emit(Instruction{Op: OpConstant, Type: e.Type, Imm: e.Name})
	case ast.ExprLoad:
		b.emit(Instruction{Op: OpLoad, Type: e.Type, Imm: e.Name})
	case ast.ExprCast:
		b.emitExpr(e.RHS)
	case ast.ExprSmartToRawPtr, ast.ExprRawToSmartPtr:
		b.emitExpr(e.RHS)
	case ast.ExprSwizzle:
		b.emitExpr(e.Base)
		b.emit(Instruction{Op: OpVectorShuffle, Type: e.Type, Args: e.Indices})
	case ast.ExprExtractElement:
		b.emitExpr(e.Base)
		b.emit(Instruction{Op: OpCompositeExtract, Type: e.Type, Args: e.Indices})
	case ast.ExprFieldAccess:
		b.emitExpr(e.Base)
		b.emit(Instruction{Op: OpCompositeExtract, Type: e.Type, Imm: e.Name})
	case ast.ExprArrayAccess:
		b.emitExpr(e.Base)
		b.emitExpr(e.Index)
		b.emit(Instruction{Op: OpCompositeExtract, Type: e.Type})
	case ast.ExprInitializerList:
		for _, el := range e.Elements {
			b.emitExpr(el)
		}
		b.emit(Instruction{Op: OpConstantComposite, Type: e.Type, Args: []int{len(e.Elements)}})
	case ast.ExprBinaryOp:
		b.emitExpr(e.LHS)
		b.emitExpr(e.RHS)
		b.emit(Instruction{Op: binaryOpcode(b.Types, e.BinOp, e.Type), Type: e.Type})
	case ast.ExprUnaryOp:
		b.emitExpr(e.RHS)
		b.emit(Instruction{Op: unaryOpcode(b.Types, e.UnOp, e.Type), Type: e.Type})
	case ast.ExprMethodCall:
		b.emitMethodCall(e)
	default:
		// Unresolved*/heap-alloc/temp-var variants never reach the Shader
		// Prep output; a method call into host-only APIs is rejected
		// upstream by the API Validator.
	}
}

func (b *Builder) emitMethodCall(e ast.Expr) {
	baseExpr := b.Tree.Expr(e.Base)
	if baseExpr.Kind == ast.ExprLoad {
		if className := b.classNameOf(baseExpr.Type); className != "" {
			if isTextureArrayClass(className) && e.Name == textureSampleMethod {
				b.emitArgs(e.Args)
				b.emit(Instruction{Op: OpImageSampleImplicitLod, Type: e.Type, Imm: baseExpr.Name})
				return
			}
			if isSampleableTexture(className) && e.Name == textureSampleMethod {
				b.emitArgs(e.Args)
				b.emit(Instruction{Op: OpImageSampleImplicitLod, Type: e.Type, Imm: baseExpr.Name})
				return
			}
		}
	}
	if b.classNameOf(baseExpr.Type) == "Math" {
		if ext, ok := mathIntrinsics[e.Name]; ok {
			b.emitArgs(e.Args)
			b.emit(Instruction{Op: OpExtInst, Type: e.Type, Imm: ext})
			return
		}
	}
	b.emitExpr(e.Base)
	b.emitArgs(e.Args)
	b.emit(Instruction{Op: OpFunctionCall, Type: e.Type, Imm: e.Name})
}

func (b *Builder) emitArgs(args []ast.Handle) {
	for _, a := range args {
		b.emitExpr(a)
	}
}

func (b *Builder) classNameOf(h types.Handle) string {
	class := b.Types.Class(h)
	if class == nil {
		return ""
	}
	return class.Name
}

func isSampleableTexture(name string) bool {
	switch name {
	case "SampleableTexture1D", "SampleableTexture2D", "SampleableTexture2DArray",
		"SampleableTexture3D", "SampleableTextureCube":
		return true
	}
	return false
}

// binaryOpcode picks the float/signed/unsigned variant of op per spec
// §4.8 ("float vs int, signed vs unsigned, vector/matrix ops").
func binaryOpcode(tbl *types.Table, op ast.BinaryOp, resultType types.Handle) Opcode {
	isFloat := isFloatOperand(tbl, resultType)
	isUnsigned := !isFloat && isUnsignedOperand(tbl, resultType)

	switch op {
	case ast.OpAdd:
		if isFloat {
			return OpFAdd
		}
		return OpIAdd
	case ast.OpSub:
		if isFloat {
			return OpFSub
		}
		return OpISub
	case ast.OpMul:
		if isFloat {
			return OpFMul
		}
		return OpIMul
	case ast.OpDiv:
		if isFloat {
			return OpFDiv
		}
		if isUnsigned {
			return OpUDiv
		}
		return OpSDiv
	case ast.OpMod:
		if isUnsigned {
			return OpUMod
		}
		return OpSMod
	case ast.OpBitAnd:
		return OpBitwiseAnd
	case ast.OpBitOr:
		return OpBitwiseOr
	case ast.OpBitXor:
		return OpBitwiseXor
	case ast.OpShl:
		return OpShiftLeftLogical
	case ast.OpShr:
		if isUnsigned {
			return OpShiftRightLogical
		}
		return OpShiftRightArithmetic
	case ast.OpAnd:
		return OpLogicalAnd
	case ast.OpOr:
		return OpLogicalOr
	case ast.OpEq:
		if isFloat {
			return OpFOrdEqual
		}
		return OpIEqual
	case ast.OpNe:
		if isFloat {
			return OpFOrdNotEqual
		}
		return OpINotEqual
	case ast.OpLt:
		if isFloat {
			return OpFOrdLessThan
		}
		if isUnsigned {
			return OpULessThan
		}
		return OpSLessThan
	case ast.OpLe:
		if isFloat {
			return OpFOrdLessThanEqual
		}
		if isUnsigned {
			return OpULessThanEqual
		}
		return OpSLessThanEqual
	case ast.OpGt:
		if isFloat {
			return OpFOrdGreaterThan
		}
		if isUnsigned {
			return OpUGreaterThan
		}
		return OpSGreaterThan
	case ast.OpGe:
		if isFloat {
			return OpFOrdGreaterThanEqual
		}
		if isUnsigned {
			return OpUGreaterThanEqual
		}
		return OpSGreaterThanEqual
	}
	return OpIAdd
}

func unaryOpcode(tbl *types.Table, op ast.UnaryOp, operandType types.Handle) Opcode {
	switch op {
	case ast.OpNeg:
		if isFloatOperand(tbl, operandType) {
			return OpFNegate
		}
		return OpSNegate
	case ast.OpNot:
		return OpLogicalNot
	case ast.OpBitNot:
		return OpNot
	}
	return OpSNegate
}

func isFloatOperand(tbl *types.Table, h types.Handle) bool {
	ty := tbl.Get(h)
	switch ty.Kind() {
	case types.KindFloatingPoint:
		return true
	case types.KindVector:
		return tbl.Get(tbl.Component(h)).Kind() == types.KindFloatingPoint
	case types.KindMatrix:
		return true
	}
	return false
}

func isUnsignedOperand(tbl *types.Table, h types.Handle) bool {
	component := h
	if tbl.Get(h).Kind() == types.KindVector {
		component = tbl.Component(h)
	}
	switch component {
	case tbl.GetUInt(), tbl.GetUByte(), tbl.GetUShort():
		return true
	}
	return false
}
