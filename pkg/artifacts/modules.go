// pkg/artifacts/modules.go
package artifacts

import (
	"fmt"
	"os"
)

// WriteModules writes the Tcl environment-modules file that makes a
// build reachable with "module load".
func WriteModules(path, version, slepcdir string) error {
	content := "#%Module\n\n" +
		"proc ModulesHelp { } {\n" +
		"    puts stderr \"This module sets the path and environment variables for slepc-" + version + "\"\n" +
		"    puts stderr \"     see http://slepc.upv.es/ for more information\"\n" +
		"    puts stderr \"\"\n}\n" +
		"module-whatis \"SLEPc - Scalable Library for Eigenvalue Problem Computations\"\n\n" +
		"module load petsc\n" +
		"set slepc_dir " + slepcdir + "\n" +
		"setenv SLEPC_DIR $slepc_dir\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	return nil
}
