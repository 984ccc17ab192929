// Package apivalidate implements the API Validator (spec §4.6): it
// drains the Semantic Pass's pending-validation queue and, for every
// queued (type, location) pair, checks the structural rules a
// Buffer/BindGroup/RenderPipeline/ComputePipeline/RenderPass/
// ComputePass template instance must satisfy. Grounded on
// _examples/original_source/ast/api_validator.cc, which runs this exact
// rule set against the same six template names.
package apivalidate

import (
	"github.com/quill-lang/quillc/internal/builtins"
	"github.com/quill-lang/quillc/internal/diag"
	"github.com/quill-lang/quillc/internal/semantic"
	"github.com/quill-lang/quillc/internal/source"
	"github.com/quill-lang/quillc/internal/types"
)

// Validator checks queued template instances against the Native class
// registry's structural rules.
type Validator struct {
	Types  *types.Table
	Native *builtins.NativeClasses
	Sink   *diag.Sink
}

// New builds a Validator bound to tbl, native, and sink.
func New(tbl *types.Table, native *builtins.NativeClasses, sink *diag.Sink) *Validator {
	return &Validator{Types: tbl, Native: native, Sink: sink}
}

// Run validates every entry queued by the Semantic Pass.
func (v *Validator) Run(pending []semantic.PendingValidation) {
	for _, p := range pending {
		v.validate(p.Type, p.Loc)
	}
}

func (v *Validator) validate(instance types.Handle, loc source.Location) {
	ty := v.Types.Get(instance)
	if ty.Kind() != types.KindClass {
		return
	}
	class := v.Types.Class(instance)
	if class == nil || class.Template == 0 {
		return
	}

	switch class.Template {
	case v.Native.Buffer:
		v.validateBuffer(class, loc)
	case v.Native.BindGroup:
		v.validateBindGroup(class, loc)
	case v.Native.RenderPipeline:
		v.validateRenderPipeline(class, loc)
	case v.Native.ComputePipeline:
		v.validateComputePipeline(class, loc)
	case v.Native.RenderPass:
		v.validatePipelineFieldsOnly(class, loc, "RenderPass", v.Native.RenderPipeline)
	case v.Native.ComputePass:
		v.validatePipelineFieldsOnly(class, loc, "ComputePass", v.Native.ComputePipeline)
	}
}

func elementType(class *types.ClassInfo) types.Handle {
	if len(class.TemplateArgValues) == 0 {
		return 0
	}
	return class.TemplateArgValues[0]
}

// validateBuffer implements spec §4.6's Buffer<T> rule: exactly one of
// Vertex/Index/Uniform/Storage, never combined with
// HostReadable/HostWriteable, and a storage-class-specific constraint on T.
func (v *Validator) validateBuffer(class *types.ClassInfo, loc source.Location) {
	elem := elementType(class)
	base, _ := v.Types.GetUnqualifiedType(elem)
	quals := bufferQualifiers(v.Types, elem)

	if bitCount(quals&types.StorageClassMask) != 1 {
		v.errorf(loc, "Buffer<T>: exactly one of Vertex, Index, Uniform, Storage is required, got %q", quals.String())
		return
	}
	if quals&(types.ReadOnly|types.WriteOnly|types.ReadWrite) != 0 {
		// HostReadable/HostWriteable are represented by the access-mode bits
		// at the type-qualifier level; a buffer qualifier may not also
		// carry them (spec: "no mix with HostReadable/HostWriteable").
		v.errorf(loc, "Buffer<T>: storage-class qualifier may not also carry a host access-mode qualifier")
		return
	}

	switch {
	case quals&types.Vertex != 0:
		if !isRuntimeArrayOfPrimitiveOrClass(v.Types, base) {
			v.errorf(loc, "vertex Buffer<T>: T must be a runtime-sized array of primitives or a class of primitives")
		}
	case quals&types.Index != 0:
		if !isRuntimeArrayOf(v.Types, base, v.Types.GetUInt()) && !isRuntimeArrayOf(v.Types, base, v.Types.GetUShort()) {
			v.errorf(loc, "index Buffer<T>: T must be a runtime-sized array of uint or ushort")
		}
	case quals&types.Uniform != 0:
		if v.Types.ContainsRuntimeArray(base) {
			v.errorf(loc, "uniform Buffer<T>: T may not transitively contain a runtime-sized array")
		}
	case quals&types.Storage != 0:
		// Storage buffers are permissive (spec: "storage is permissive").
	}
}

// bufferQualifiers returns the qualifiers of a Buffer's element type.
// GetQualified pushes qualifiers into an array's element type, so for an
// array they are read off its innermost element.
func bufferQualifiers(tbl *types.Table, elem types.Handle) types.Qualifier {
	for tbl.Get(elem).Kind() == types.KindArray {
		elem = tbl.Element(elem)
	}
	_, quals := tbl.GetUnqualifiedType(elem)
	return quals
}

func isRuntimeArrayOf(tbl *types.Table, h, want types.Handle) bool {
	ty := tbl.Get(h)
	if ty.Kind() != types.KindArray || tbl.ArrayLength(h) != 0 {
		return false
	}
	elem, _ := tbl.GetUnqualifiedType(tbl.Element(h))
	return elem == want
}

func isRuntimeArrayOfPrimitiveOrClass(tbl *types.Table, h types.Handle) bool {
	ty := tbl.Get(h)
	if ty.Kind() != types.KindArray || tbl.ArrayLength(h) != 0 {
		return false
	}
	elem, _ := tbl.GetUnqualifiedType(tbl.Element(h))
	elemTy := tbl.Get(elem)
	if tbl.IsScalar(elem) || elemTy.Kind() == types.KindVector {
		return true
	}
	if elemTy.Kind() == types.KindClass {
		return classIsOfPrimitives(tbl, elem)
	}
	return false
}

func classIsOfPrimitives(tbl *types.Table, h types.Handle) bool {
	class := tbl.Class(h)
	if class == nil {
		return false
	}
	for _, f := range class.Fields {
		fty := tbl.Get(f.Type)
		if !(tbl.IsScalar(f.Type) || fty.Kind() == types.KindVector || fty.Kind() == types.KindMatrix) {
			return false
		}
	}
	return true
}

// validateBindGroup implements spec §4.6's BindGroup<Struct> rule: every
// field must be a strong pointer to a resource class (Uniform/Storage
// Buffer, Sampler, or a SampleableTextureN).
func (v *Validator) validateBindGroup(class *types.ClassInfo, loc source.Location) {
	elem := elementType(class)
	strct := v.Types.Class(elem)
	if strct == nil {
		v.errorf(loc, "BindGroup<Struct>: template argument must be a class")
		return
	}
	for _, f := range strct.Fields {
		if !v.isResourceStrongPointer(f.Type) {
			v.errorf(loc, "BindGroup<Struct>: field %q must be a strong pointer to a resource class", f.Name)
		}
	}
}

func (v *Validator) isResourceStrongPointer(h types.Handle) bool {
	if v.Types.Get(h).Kind() != types.KindStrongPtr {
		return false
	}
	pointee := v.Types.Pointee(h)
	class := v.Types.Class(pointee)
	if class == nil {
		return false
	}
	if class.Template == v.Native.Buffer {
		quals := bufferQualifiers(v.Types, elementType(class))
		return quals&(types.Uniform|types.Storage) != 0
	}
	switch pointee {
	case v.Native.Sampler, v.Native.SampleableTexture1D, v.Native.SampleableTexture2D,
		v.Native.SampleableTexture2DArray, v.Native.SampleableTexture3D, v.Native.SampleableTextureCube:
		return true
	}
	return false
}

// validateRenderPipeline implements spec §4.6's RenderPipeline<P> rule.
func (v *Validator) validateRenderPipeline(class *types.ClassInfo, loc source.Location) {
	elem := elementType(class)
	p := v.Types.Class(elem)
	if p == nil {
		v.errorf(loc, "RenderPipeline<P>: template argument must be a class")
		return
	}
	for _, f := range p.Fields {
		if !v.isRenderPipelineField(f.Type) {
			v.errorf(loc, "RenderPipeline<P>: field %q must be VertexInput, an index Buffer, ColorAttachment, DepthStencilAttachment, or BindGroup", f.Name)
		}
	}
	if !v.hasStageMethod(elem, types.ShaderStageVertex) {
		v.errorf(loc, "RenderPipeline<P>: P must contain at least one Vertex method")
	}
	if !v.hasStageMethod(elem, types.ShaderStageFragment) {
		v.errorf(loc, "RenderPipeline<P>: P must contain at least one Fragment method")
	}
}

func (v *Validator) isRenderPipelineField(h types.Handle) bool {
	switch h {
	case v.Native.VertexInput, v.Native.ColorAttachment, v.Native.DepthStencilAttachment:
		return true
	}
	if class := v.Types.Class(h); class != nil {
		if class.Template == v.Native.BindGroup {
			return true
		}
		if class.Template == v.Native.Buffer {
			quals := bufferQualifiers(v.Types, elementType(class))
			return quals&types.Index != 0
		}
	}
	return false
}

// validateComputePipeline implements spec §4.6's ComputePipeline<P> rule.
func (v *Validator) validateComputePipeline(class *types.ClassInfo, loc source.Location) {
	elem := elementType(class)
	p := v.Types.Class(elem)
	if p == nil {
		v.errorf(loc, "ComputePipeline<P>: template argument must be a class")
		return
	}
	for _, f := range p.Fields {
		fc := v.Types.Class(f.Type)
		if fc == nil || fc.Template != v.Native.BindGroup {
			v.errorf(loc, "ComputePipeline<P>: field %q must be a BindGroup", f.Name)
		}
	}
	if !v.hasStageMethod(elem, types.ShaderStageCompute) {
		v.errorf(loc, "ComputePipeline<P>: P must contain a Compute method")
	}
}

// validatePipelineFieldsOnly implements spec §4.6's rule for
// RenderPass<P>/ComputePass<P>: revalidate only the field-typing rules of
// their pipeline argument, skipping the stage-method-presence checks
// (those were already enforced when the pipeline itself was validated).
func (v *Validator) validatePipelineFieldsOnly(class *types.ClassInfo, loc source.Location, name string, pipelineTemplate types.Handle) {
	elem := elementType(class)
	pc := v.Types.Class(elem)
	if pc == nil || pc.Template != pipelineTemplate {
		v.errorf(loc, "%s<P>: template argument must be a matching pipeline instance", name)
		return
	}
	if pipelineTemplate == v.Native.RenderPipeline {
		for _, f := range pc.Fields {
			if !v.isRenderPipelineField(f.Type) {
				v.errorf(loc, "%s<P>: field %q of P must satisfy RenderPipeline's field rule", name, f.Name)
			}
		}
		return
	}
	for _, f := range pc.Fields {
		fc := v.Types.Class(f.Type)
		if fc == nil || fc.Template != v.Native.BindGroup {
			v.errorf(loc, "%s<P>: field %q of P must be a BindGroup", name, f.Name)
		}
	}
}

func (v *Validator) hasStageMethod(class types.Handle, stage types.ShaderStage) bool {
	cur := class
	for cur != 0 {
		info := v.Types.Class(cur)
		if info == nil {
			return false
		}
		for _, m := range info.Methods {
			if m.ShaderStage == stage {
				return true
			}
		}
		cur = info.Parent
	}
	return false
}

func (v *Validator) errorf(loc source.Location, format string, args ...any) {
	v.Sink.Errorf(diag.KindAPIValidator, loc, format, args...)
}

func bitCount(q types.Qualifier) int {
	n := 0
	for q != 0 {
		n++
		q &= q - 1
	}
	return n
}
