package cmd

import "testing"

func TestCompileHostProgramSucceeds(t *testing.T) {
	programName = "vec-add"
	verbose = false
	dumpIR = false
	dumpSymbols = false
	outPath = ""
	className = ""
	methodName = ""

	if err := runCompile(nil, nil); err != nil {
		t.Fatalf("runCompile returned an error for the host demo program: %v", err)
	}
}

func TestCompileShaderProgramSucceeds(t *testing.T) {
	programName = "unlit-shader"
	verbose = true
	dumpIR = true
	outPath = ""
	className = ""
	methodName = "VertexMain"

	if err := runCompile(nil, nil); err != nil {
		t.Fatalf("runCompile returned an error for the shader demo program: %v", err)
	}
}

func TestCompileRejectsUnknownProgram(t *testing.T) {
	programName = "does-not-exist"
	if err := runCompile(nil, nil); err == nil {
		t.Fatalf("expected an error for an unregistered demo program name")
	} else if ExitCode(err) != 3 {
		t.Fatalf("expected exit code 3 for an unknown program, got %d", ExitCode(err))
	}
}
