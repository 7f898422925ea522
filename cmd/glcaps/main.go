// Command glcaps inspects glfx backends.
//
// Usage:
//
//	glcaps caps --version 4.3          # capability table of one version
//	glcaps versions                    # which versions a backend can host
//	glcaps smoke --objects 1000        # allocation and leak reclamation run
//
// Settings are read from a YAML file (--config) and overridden by flags.
package main

import (
	"fmt"
	"os"

	_ "github.com/gogpu/glfx/backend/native"
	_ "github.com/gogpu/glfx/backend/recorder"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "glcaps:", err)
		os.Exit(1)
	}
}
