package shaderir

import (
	"fmt"
	"io"

	"github.com/tidwall/sjson"
)

// opcodeNames renders an Opcode the way a human-readable shader IR dump
// would: its SPIR-V-style mnemonic.
var opcodeNames = map[Opcode]string{
	OpLoad: "OpLoad", OpStore: "OpStore", OpConstant: "OpConstant",
	OpConstantComposite: "OpConstantComposite",
	OpFAdd:              "OpFAdd", OpIAdd: "OpIAdd", OpFSub: "OpFSub", OpISub: "OpISub",
	OpFMul: "OpFMul", OpIMul: "OpIMul", OpFDiv: "OpFDiv", OpSDiv: "OpSDiv", OpUDiv: "OpUDiv",
	OpFMod: "OpFMod", OpSMod: "OpSMod", OpUMod: "OpUMod",
	OpBitwiseAnd: "OpBitwiseAnd", OpBitwiseOr: "OpBitwiseOr", OpBitwiseXor: "OpBitwiseXor",
	OpShiftLeftLogical: "OpShiftLeftLogical", OpShiftRightLogical: "OpShiftRightLogical",
	OpShiftRightArithmetic: "OpShiftRightArithmetic",
	OpFOrdEqual:             "OpFOrdEqual", OpINotEqual: "OpINotEqual", OpFOrdNotEqual: "OpFOrdNotEqual",
	OpIEqual: "OpIEqual", OpFOrdLessThan: "OpFOrdLessThan", OpSLessThan: "OpSLessThan",
	OpULessThan: "OpULessThan", OpFOrdLessThanEqual: "OpFOrdLessThanEqual",
	OpSLessThanEqual: "OpSLessThanEqual", OpULessThanEqual: "OpULessThanEqual",
	OpFOrdGreaterThan: "OpFOrdGreaterThan", OpSGreaterThan: "OpSGreaterThan",
	OpUGreaterThan: "OpUGreaterThan", OpFOrdGreaterThanEqual: "OpFOrdGreaterThanEqual",
	OpSGreaterThanEqual: "OpSGreaterThanEqual", OpUGreaterThanEqual: "OpUGreaterThanEqual",
	OpLogicalAnd: "OpLogicalAnd", OpLogicalOr: "OpLogicalOr", OpLogicalNot: "OpLogicalNot",
	OpFNegate: "OpFNegate", OpSNegate: "OpSNegate", OpNot: "OpNot",
	OpVectorShuffle: "OpVectorShuffle", OpCompositeExtract: "OpCompositeExtract",
	OpCompositeConstruct: "OpCompositeConstruct",
	OpExtInst:            "OpExtInst", OpImageSampleImplicitLod: "OpImageSampleImplicitLod",
	OpFunctionCall: "OpFunctionCall",
	OpSelectionMerge:   "OpSelectionMerge", OpBranchConditional: "OpBranchConditional",
	OpBranch: "OpBranch", OpLoopMerge: "OpLoopMerge", OpLabel: "OpLabel",
	OpReturn: "OpReturn", OpReturnValue: "OpReturnValue",
}

// Dump renders m as JSON, built incrementally via sjson.SetBytes rather
// than a single struct marshal (spec §4.12: "a `Dump(w io.Writer) error`
// method").
func (m *Module) Dump(w io.Writer) error {
	buf := []byte("{}")
	var err error

	set := func(path string, value any) {
		if err != nil {
			return
		}
		buf, err = sjson.SetBytes(buf, path, value)
	}

	set("entryPoint", m.EntryPoint)
	set("executionModel", m.ExecutionModel.String())
	if m.ExecutionModel == ExecutionModelFragment {
		set("originUpperLeft", m.OriginUpperLeft)
	}
	if m.ExecutionModel == ExecutionModelGLCompute {
		set("workgroupSize", m.WorkgroupSize[:])
	}

	for i, v := range m.Inputs {
		setVarying(&buf, &err, fmt.Sprintf("inputs.%d", i), v)
	}
	for i, v := range m.Outputs {
		setVarying(&buf, &err, fmt.Sprintf("outputs.%d", i), v)
	}
	for g, group := range m.BindGroups {
		for i, v := range group {
			set(fmt.Sprintf("bindGroups.%d.%d.name", g, i), v.Name)
			set(fmt.Sprintf("bindGroups.%d.%d.descriptorSet", g, i), v.DescriptorSet)
			set(fmt.Sprintf("bindGroups.%d.%d.binding", g, i), v.Binding)
		}
	}
	for i, v := range m.Builtins {
		set(fmt.Sprintf("builtins.%d.name", i), v.Name)
	}

	for fi, fn := range m.Functions {
		set(fmt.Sprintf("functions.%d.name", fi), fn.Name)
		for ii, inst := range fn.Instructions {
			base := fmt.Sprintf("functions.%d.instructions.%d", fi, ii)
			set(base+".op", opcodeNames[inst.Op])
			if inst.Imm != "" {
				set(base+".imm", inst.Imm)
			}
			if len(inst.Args) > 0 {
				set(base+".args", inst.Args)
			}
		}
	}

	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

func setVarying(buf *[]byte, err *error, path string, v InterfaceVar) {
	if *err != nil {
		return
	}
	*buf, *err = sjson.SetBytes(*buf, path+".name", v.Name)
	if *err != nil {
		return
	}
	*buf, *err = sjson.SetBytes(*buf, path+".location", v.Location)
	if *err != nil {
		return
	}
	if v.Flat {
		*buf, *err = sjson.SetBytes(*buf, path+".flat", true)
	}
}
