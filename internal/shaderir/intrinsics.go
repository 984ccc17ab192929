package shaderir

// mathIntrinsics maps a Math.<Name> static method call (spec §4.8: "Math
// intrinsic recognition") to the ExtInst name the IR records in
// Instruction.Imm. Grounded on the unary/binary method families
// internal/builtins registers on the native Math class.
var mathIntrinsics = map[string]string{
	"Sin": "Sin", "Cos": "Cos", "Tan": "Tan", "Sqrt": "Sqrt",
	"Abs": "FAbs", "Floor": "Floor", "Ceil": "Ceil", "Exp": "Exp", "Log": "Log",
	"Normalize": "Normalize", "Length": "Length",
	"Min": "FMin", "Max": "FMax", "Pow": "Pow", "Dot": "Dot", "Cross": "Cross",
	"Reflect": "Reflect", "Refract": "Refract", "Clamp": "FClamp",
	"Inverse": "MatrixInverse", "Transpose": "Transpose",
}

// textureSampleMethod names the SampleableTextureN method that lowers to
// an image-sample instruction.
const textureSampleMethod = "Sample"

// isTextureArrayClass reports whether name is the 2D-array texture
// class. emitMethodCall lowers its Sample exactly like the other texture
// classes: the arguments are pushed as given and no layer index is
// packed into the sample coordinate.
func isTextureArrayClass(name string) bool {
	return name == "SampleableTexture2DArray"
}
