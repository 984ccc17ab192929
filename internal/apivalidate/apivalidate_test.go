package apivalidate

import (
	"testing"

	"github.com/quill-lang/quillc/internal/builtins"
	"github.com/quill-lang/quillc/internal/diag"
	"github.com/quill-lang/quillc/internal/semantic"
	"github.com/quill-lang/quillc/internal/types"
)

func newValidator() (*Validator, *types.Table, *builtins.NativeClasses) {
	tbl := types.NewTable()
	native := builtins.Register(tbl)
	sink := diag.NewSink()
	return New(tbl, native, sink), tbl, native
}

func TestVertexBufferAcceptsRuntimeArrayOfVector(t *testing.T) {
	v, tbl, native := newValidator()
	f4, _ := tbl.GetVector(tbl.GetFloat(), 4)
	elem := tbl.GetQualified(tbl.GetArray(f4, 0, types.LayoutDefault), types.Vertex)
	inst := tbl.GetClassTemplateInstance(native.Buffer, []types.Handle{elem})

	v.Run([]semantic.PendingValidation{{Type: inst}})
	if v.Sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", v.Sink.Diagnostics())
	}
}

func TestBufferRejectsMultipleStorageClasses(t *testing.T) {
	v, tbl, native := newValidator()
	elem := tbl.GetQualified(tbl.GetArray(tbl.GetFloat(), 0, types.LayoutDefault), types.Vertex|types.Storage)
	inst := tbl.GetClassTemplateInstance(native.Buffer, []types.Handle{elem})

	v.Run([]semantic.PendingValidation{{Type: inst}})
	if !v.Sink.HasErrors() {
		t.Fatalf("expected an error for a buffer tagged with two storage classes")
	}
}

func TestIndexBufferRejectsNonIntegerElement(t *testing.T) {
	v, tbl, native := newValidator()
	elem := tbl.GetQualified(tbl.GetArray(tbl.GetFloat(), 0, types.LayoutDefault), types.Index)
	inst := tbl.GetClassTemplateInstance(native.Buffer, []types.Handle{elem})

	v.Run([]semantic.PendingValidation{{Type: inst}})
	if !v.Sink.HasErrors() {
		t.Fatalf("expected an error for an index buffer over floats")
	}
}

func TestUniformBufferRejectsEmbeddedRuntimeArray(t *testing.T) {
	v, tbl, native := newValidator()
	inner := tbl.NewClass("Inner", 0)
	tbl.Class(inner).AddField("values", tbl.GetArray(tbl.GetFloat(), 0, types.LayoutDefault), 0)

	elem := tbl.GetQualified(inner, types.Uniform)
	inst := tbl.GetClassTemplateInstance(native.Buffer, []types.Handle{elem})

	v.Run([]semantic.PendingValidation{{Type: inst}})
	if !v.Sink.HasErrors() {
		t.Fatalf("expected an error for a uniform buffer embedding a runtime-sized array")
	}
}

func TestBindGroupRejectsNonResourceField(t *testing.T) {
	v, tbl, native := newValidator()
	strct := tbl.NewClass("Bindings", 0)
	tbl.Class(strct).AddField("x", tbl.GetInt(), 0)

	inst := tbl.GetClassTemplateInstance(native.BindGroup, []types.Handle{strct})
	v.Run([]semantic.PendingValidation{{Type: inst}})
	if !v.Sink.HasErrors() {
		t.Fatalf("expected an error for a BindGroup field that isn't a resource strong pointer")
	}
}

func TestRenderPipelineRequiresVertexAndFragmentMethods(t *testing.T) {
	v, tbl, native := newValidator()
	p := tbl.NewClass("Pipeline", 0)

	inst := tbl.GetClassTemplateInstance(native.RenderPipeline, []types.Handle{p})
	v.Run([]semantic.PendingValidation{{Type: inst}})
	if !v.Sink.HasErrors() {
		t.Fatalf("expected an error for a render pipeline with no Vertex/Fragment methods")
	}
}
