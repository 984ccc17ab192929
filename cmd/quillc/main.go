package main

import (
	"fmt"
	"os"

	"github.com/quill-lang/quillc/cmd/quillc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cmd.ExitCode(err))
	}
}
