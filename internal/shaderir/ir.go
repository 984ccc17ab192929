// Package shaderir implements the Shader IR Emitter (spec §4.8): it
// lowers a prepared shaderprep.EntryPoint into a stack-based, typed
// instruction sequence in the shape of a SPIR-V module (interned
// result types, decorated interface variables, structured control
// flow via merge instructions), without depending on any actual SPIR-V
// library — the corpus has none, so the module is a plain Go value
// tree the caller can serialize however it likes (Dump renders it as
// JSON for the `-d` dump flag).
package shaderir

import "github.com/quill-lang/quillc/internal/types"

// Opcode names a stack-machine instruction, named after its closest
// SPIR-V counterpart (spec §4.8: "a stack-based, SPIR-V-like IR").
type Opcode int

const (
	OpLoad Opcode = iota
	OpStore
	OpConstant
	OpConstantComposite

	OpFAdd
	OpIAdd
	OpFSub
	OpISub
	OpFMul
	OpIMul
	OpFDiv
	OpSDiv
	OpUDiv
	OpFMod
	OpSMod
	OpUMod

	OpBitwiseAnd
	OpBitwiseOr
	OpBitwiseXor
	OpShiftLeftLogical
	OpShiftRightLogical
	OpShiftRightArithmetic

	OpFOrdEqual
	OpINotEqual
	OpFOrdNotEqual
	OpIEqual
	OpFOrdLessThan
	OpSLessThan
	OpULessThan
	OpFOrdLessThanEqual
	OpSLessThanEqual
	OpULessThanEqual
	OpFOrdGreaterThan
	OpSGreaterThan
	OpUGreaterThan
	OpFOrdGreaterThanEqual
	OpSGreaterThanEqual
	OpUGreaterThanEqual

	OpLogicalAnd
	OpLogicalOr
	OpLogicalNot
	OpFNegate
	OpSNegate
	OpNot // bitwise complement

	OpVectorShuffle
	OpCompositeExtract
	OpCompositeConstruct

	OpExtInst // GLSL.std.450-style intrinsic call, Imm names the intrinsic
	OpImageSampleImplicitLod
	OpFunctionCall

	OpSelectionMerge
	OpBranchConditional
	OpBranch
	OpLoopMerge
	OpLabel

	OpReturn
	OpReturnValue
)

// Instruction is one stack-machine step. Its stack operands are implicit,
// by convention of the opcode; the struct records no operand count.
type Instruction struct {
	Op   Opcode
	Type types.Handle // result type, zero for control-flow instructions
	Imm  string       // literal text: intrinsic name, label name, constant text
	Args []int        // integer operands: shuffle/extract indices, or a composite's element count
}

// ExecutionModel is the shader stage header SPIR-V would emit as an
// OpEntryPoint execution model (spec §4.8: "execution-model headers").
type ExecutionModel int

const (
	ExecutionModelVertex ExecutionModel = iota
	ExecutionModelFragment
	ExecutionModelGLCompute
)

func (m ExecutionModel) String() string {
	switch m {
	case ExecutionModelVertex:
		return "Vertex"
	case ExecutionModelFragment:
		return "Fragment"
	case ExecutionModelGLCompute:
		return "GLCompute"
	default:
		return "Unknown"
	}
}

// InterfaceVar is one decorated Input/Output/bind-group interface
// variable (spec §4.8: "location=N / descriptor_set=G, binding=B
// decorations" plus the Flat decoration rule for integer varyings).
type InterfaceVar struct {
	Name          string
	Type          types.Handle
	Location      int  // Input/Output only
	DescriptorSet int  // bind-group variables only
	Binding       int  // bind-group variables only
	Flat          bool // set for integer-typed Input/Output varyings
}

// Function is one emitted shader function: its body, as a flat
// instruction sequence (structured control flow is expressed via
// OpSelectionMerge/OpLoopMerge markers rather than a CFG of blocks).
type Function struct {
	Name         string
	Instructions []Instruction
}

// Module is one compiled shader entry point.
type Module struct {
	EntryPoint      string
	ExecutionModel  ExecutionModel
	OriginUpperLeft bool  // Fragment only (spec §4.8)
	WorkgroupSize   [3]int // Compute only

	Inputs     []InterfaceVar
	Outputs    []InterfaceVar
	BindGroups [][]InterfaceVar
	Builtins   []InterfaceVar

	Functions []Function
}
