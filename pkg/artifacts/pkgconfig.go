// pkg/artifacts/pkgconfig.go
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WritePkgConfig writes the SLEPc.pc pkg-config entry. In-tree builds
// expose both the arch include directory and the source tree headers.
func WritePkgConfig(path, slepcVersion, petscVersion, prefixdir, slepcdir string, isInstall bool) error {
	var b strings.Builder
	b.WriteString("Name: SLEPc, the Scalable Library for Eigenvalue Problem Computations\n")
	b.WriteString("Description: A parallel library to compute eigenvalues and eigenvectors of large, sparse matrices with iterative methods. It is based on PETSc.\n")
	fmt.Fprintf(&b, "Version: %s\n", slepcVersion)
	fmt.Fprintf(&b, "Requires: PETSc = %s\n", petscVersion)
	b.WriteString("Cflags: -I" + filepath.Join(prefixdir, "include"))
	if !isInstall {
		b.WriteString(" -I" + filepath.Join(slepcdir, "include"))
	}
	b.WriteString("\n")
	b.WriteString("Libs: -L" + filepath.Join(prefixdir, "lib") + " -lslepc\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	return nil
}
