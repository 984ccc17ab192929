// Package builtins defines the fixed set of native classes the initial
// symbol scope is seeded with before the Semantic Pass runs (spec §6.1:
// "a parsed AST arena plus an initial symbol scope populated with the
// built-in types, the native classes... and their method signatures").
//
// This is the "static (process-wide) registry of native class pointers"
// design note (spec §9), re-expressed as a NativeClasses struct built once
// during type-table initialization and passed by reference to every pass
// that needs it, grounded on the teacher's registerBuiltinExceptionTypes/
// registerBuiltinInterfaces pattern: a fixed, hand-built bootstrap set
// registered once on construction rather than discovered from source.
package builtins

import "github.com/quill-lang/quillc/internal/types"

// NativeClasses holds the handle of every native class and class template
// known to the compiler, keyed by name for the Semantic Pass's initial
// scope population and by field for the API Validator's structural checks
// (it needs to recognize, specifically, Buffer/BindGroup/RenderPipeline/
// ComputePipeline/RenderPass/ComputePass instances).
type NativeClasses struct {
	Buffer          types.Handle // ClassTemplate<T>
	BindGroup       types.Handle // ClassTemplate<T>
	RenderPipeline  types.Handle // ClassTemplate<P>
	ComputePipeline types.Handle // ClassTemplate<P>
	RenderPass      types.Handle // ClassTemplate<P>
	ComputePass      types.Handle // ClassTemplate<P>

	Sampler                 types.Handle
	SampleableTexture1D     types.Handle
	SampleableTexture2D     types.Handle
	SampleableTexture2DArray types.Handle
	SampleableTexture3D     types.Handle
	SampleableTextureCube   types.Handle

	VertexInput            types.Handle
	ColorAttachment        types.Handle
	DepthStencilAttachment types.Handle

	Math   types.Handle
	System types.Handle
	Device types.Handle
	Window types.Handle

	// ByName indexes every class above (and the simple, non-template
	// native classes) for the initial scope's identifier->type binding.
	ByName map[string]types.Handle
}

// Register builds the fixed native-class set inside tbl and returns it.
// Call once per compilation, immediately after types.NewTable().
func Register(tbl *types.Table) *NativeClasses {
	nc := &NativeClasses{ByName: make(map[string]types.Handle)}

	nc.Buffer = newTemplate(tbl, nc, "Buffer", "T")
	nc.BindGroup = newTemplate(tbl, nc, "BindGroup", "T")
	nc.RenderPipeline = newTemplate(tbl, nc, "RenderPipeline", "P")
	nc.ComputePipeline = newTemplate(tbl, nc, "ComputePipeline", "P")
	nc.RenderPass = newTemplate(tbl, nc, "RenderPass", "P")
	nc.ComputePass = newTemplate(tbl, nc, "ComputePass", "P")

	nc.Sampler = newOpaque(tbl, nc, "Sampler")
	nc.SampleableTexture1D = newOpaque(tbl, nc, "SampleableTexture1D")
	nc.SampleableTexture2D = newOpaque(tbl, nc, "SampleableTexture2D")
	nc.SampleableTexture2DArray = newOpaque(tbl, nc, "SampleableTexture2DArray")
	nc.SampleableTexture3D = newOpaque(tbl, nc, "SampleableTexture3D")
	nc.SampleableTextureCube = newOpaque(tbl, nc, "SampleableTextureCube")

	nc.VertexInput = newOpaque(tbl, nc, "VertexInput")
	nc.ColorAttachment = newOpaque(tbl, nc, "ColorAttachment")
	nc.DepthStencilAttachment = newOpaque(tbl, nc, "DepthStencilAttachment")

	nc.Math = newStaticAPI(tbl, nc, "Math")
	registerMathMethods(tbl, nc.Math)

	nc.System = newStaticAPI(tbl, nc, "System")
	tbl.Class(nc.System).MarkResolved()
	nc.Device = newStaticAPI(tbl, nc, "Device")
	tbl.Class(nc.Device).MarkResolved()
	nc.Window = newStaticAPI(tbl, nc, "Window")
	tbl.Class(nc.Window).MarkResolved()

	return nc
}

func newTemplate(tbl *types.Table, nc *NativeClasses, name string, templateArg string) types.Handle {
	h := tbl.NewClassTemplate(name, []string{templateArg})
	nc.ByName[name] = h
	return h
}

func newOpaque(tbl *types.Table, nc *NativeClasses, name string) types.Handle {
	h := tbl.NewClass(name, 0)
	tbl.Class(h).MarkResolved()
	nc.ByName[name] = h
	return h
}

func newStaticAPI(tbl *types.Table, nc *NativeClasses, name string) types.Handle {
	h := tbl.NewClass(name, 0)
	nc.ByName[name] = h
	return h
}

// registerMathMethods adds the native (bodyless, Static|DeviceOnly) method
// signatures for the Math intrinsic class: the unary float->float family
// plus a couple of common binaries.
func registerMathMethods(tbl *types.Table, math types.Handle) {
	info := tbl.Class(math)
	f := tbl.GetFloat()
	unary := []string{"Sin", "Cos", "Tan", "Sqrt", "Abs", "Floor", "Ceil", "Exp", "Log", "Normalize"}
	for _, name := range unary {
		info.AddMethod(types.Method{
			Name:       name,
			Modifiers:  types.ModStatic | types.ModDeviceOnly,
			ReturnType: f,
			FormalArgs: []types.FormalArg{{Name: "x", Type: f}},
		})
	}
	binary := []string{"Min", "Max", "Pow", "Dot", "Cross", "Reflect"}
	for _, name := range binary {
		info.AddMethod(types.Method{
			Name:       name,
			Modifiers:  types.ModStatic | types.ModDeviceOnly,
			ReturnType: f,
			FormalArgs: []types.FormalArg{{Name: "a", Type: f}, {Name: "b", Type: f}},
		})
	}
	info.AddMethod(types.Method{
		Name:       "Length",
		Modifiers:  types.ModStatic | types.ModDeviceOnly,
		ReturnType: f,
		FormalArgs: []types.FormalArg{{Name: "v", Type: f}},
	})
	info.AddMethod(types.Method{
		Name:       "Refract",
		Modifiers:  types.ModStatic | types.ModDeviceOnly,
		ReturnType: f,
		FormalArgs: []types.FormalArg{{Name: "i", Type: f}, {Name: "n", Type: f}, {Name: "eta", Type: f}},
	})
	info.AddMethod(types.Method{
		Name:       "Clamp",
		Modifiers:  types.ModStatic | types.ModDeviceOnly,
		ReturnType: f,
		FormalArgs: []types.FormalArg{{Name: "x", Type: f}, {Name: "lo", Type: f}, {Name: "hi", Type: f}},
	})
	info.AddMethod(types.Method{
		Name:       "Inverse",
		Modifiers:  types.ModStatic | types.ModDeviceOnly,
		ReturnType: f,
		FormalArgs: []types.FormalArg{{Name: "m", Type: f}},
	})
	info.AddMethod(types.Method{
		Name:       "Transpose",
		Modifiers:  types.ModStatic | types.ModDeviceOnly,
		ReturnType: f,
		FormalArgs: []types.FormalArg{{Name: "m", Type: f}},
	})
	info.MarkResolved()
}
