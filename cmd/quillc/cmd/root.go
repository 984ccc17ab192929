package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// Version information (set by build flags), matching the teacher's
// cmd/dwscript/cmd version-stamping convention.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:     "quillc",
	Short:   "Quill CORE compiler driver",
	Long:    `quillc drives the Quill CORE: Semantic Pass, Constant Folder, API Validator, Shader Preparation, and either the Shader IR Emitter or the Native Emitter boundary.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "emit shader IR instead of a host object (spec §6.4 -v)")
}

// exitError carries the exit code spec §6.4 assigns to each failure class.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func fail(code int, format string, args ...any) error {
	return &exitError{code: code, err: fmt.Errorf(format, args...)}
}

// ExitCode extracts the process exit code spec §6.4 assigns to err's
// failure class, defaulting to 1 for an unclassified error.
func ExitCode(err error) int {
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return 1
}
