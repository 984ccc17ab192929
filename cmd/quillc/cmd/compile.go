package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quill-lang/quillc/internal/apivalidate"
	"github.com/quill-lang/quillc/internal/ast"
	"github.com/quill-lang/quillc/internal/builtins"
	"github.com/quill-lang/quillc/internal/config"
	"github.com/quill-lang/quillc/internal/demoprogram"
	"github.com/quill-lang/quillc/internal/diag"
	"github.com/quill-lang/quillc/internal/nativeemit"
	"github.com/quill-lang/quillc/internal/semantic"
	"github.com/quill-lang/quillc/internal/shaderir"
	"github.com/quill-lang/quillc/internal/shaderprep"
	"github.com/quill-lang/quillc/internal/types"
)

var (
	outPath      string
	headerPath   string
	className    string
	methodName   string
	dumpIR       bool
	dumpSymbols  bool
	searchPaths  []string
	configPath   string
	programName  string
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Run the CORE pipeline over a demo program (spec §6.4's flag table)",
	RunE:  runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&outPath, "output", "o", "", "object output path")
	compileCmd.Flags().StringVarP(&headerPath, "header", "h", "", "host-bindings header output path (emitter-dependent)")
	compileCmd.Flags().StringVarP(&className, "class", "c", "", "shader emission: name of the class to locate the entry-point method on")
	compileCmd.Flags().StringVarP(&methodName, "method", "m", "", "name of that method")
	compileCmd.Flags().BoolVarP(&dumpIR, "dump-ir", "d", false, "dump IR for inspection instead of writing a file")
	compileCmd.Flags().BoolVarP(&dumpSymbols, "dump-symbols", "s", false, "dump the final symbol table")
	compileCmd.Flags().StringArrayVarP(&searchPaths, "include", "I", nil, "add to include-search path (consumed by the parser, not the core)")
	compileCmd.Flags().StringVar(&configPath, "config", "", "load a quill.yaml project file")
	compileCmd.Flags().StringVar(&programName, "program", "vec-add", "name of the demo program to build and compile (the lexer/parser is out of this repository's scope; see internal/demoprogram)")
}

func runCompile(_ *cobra.Command, _ []string) error {
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		searchPaths, outPath, headerPath = cfg.Merge(searchPaths, outPath, headerPath)
	}

	prog, ok := demoprogram.Registry[programName]
	if !ok {
		return fail(3, "unknown demo program %q", programName)
	}

	tbl := types.NewTable()
	native := builtins.Register(tbl)
	tree := ast.NewTree()
	sink := diag.NewSink()

	class, err := prog.Build(tree, tbl, native)
	if err != nil {
		return fail(2, "building demo program %q: %v", programName, err)
	}

	pass := semantic.New(tree, tbl, native, sink)
	pass.Run(nil)
	if sink.HasErrors() {
		fmt.Fprint(os.Stderr, sink.Format())
		return fail(2, "semantic analysis failed: %s", sink.Summary())
	}

	validator := apivalidate.New(tbl, native, sink)
	validator.Run(pass.Helpers.PendingAPIValidation)
	if sink.HasErrors() {
		fmt.Fprint(os.Stderr, sink.Format())
		return fail(2, "API validation failed: %s", sink.Summary())
	}

	if dumpSymbols {
		fmt.Fprintln(os.Stdout, tbl.String(class))
	}

	if verbose {
		return emitShader(tree, tbl, native, class)
	}
	return emitNative(tree, tbl, class)
}

func emitNative(tree *ast.Tree, tbl *types.Table, class types.Handle) error {
	var w *os.File = os.Stdout
	if outPath != "" && !dumpIR {
		f, err := os.Create(outPath)
		if err != nil {
			return fail(4, "creating %s: %v", outPath, err)
		}
		defer f.Close()
		w = f
	}

	driver := nativeemit.NewDriver(tbl, nativeemit.NewDumpBuilder(tbl, w))
	if err := driver.EmitClass(tree, class); err != nil {
		return fail(4, "native emission failed: %v", err)
	}
	return nil
}

func emitShader(tree *ast.Tree, tbl *types.Table, native *builtins.NativeClasses, defaultClass types.Handle) error {
	target := defaultClass
	if className != "" {
		info := tbl.Class(defaultClass)
		if info == nil || info.Name != className {
			return fail(3, "class %q not found", className)
		}
	}
	info := tbl.Class(target)
	if info == nil {
		return fail(3, "class %q not found", className)
	}

	var method *types.Method
	for i := range info.Methods {
		if info.Methods[i].ShaderStage == types.ShaderStageNone {
			continue
		}
		if methodName == "" || info.Methods[i].Name == methodName {
			method = &info.Methods[i]
			break
		}
	}
	if method == nil {
		return fail(4, "entry-point method %q not found on class %q", methodName, info.Name)
	}

	prep := shaderprep.New(tree, tbl, native)
	ep := prep.Prepare(method)

	builder := shaderir.New(tree, tbl, native)
	module := builder.Build(method.Name, ep)

	if dumpIR {
		return module.Dump(os.Stdout)
	}

	if outPath == "" {
		return module.Dump(os.Stdout)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fail(4, "creating %s: %v", outPath, err)
	}
	defer f.Close()
	return module.Dump(f)
}
