// internal/cli/version.go
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/neonkingfr/slepc/pkg/petsc"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of the SLEPc source tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := os.Getenv("SLEPC_DIR")
		if dir == "" {
			var err error
			if dir, err = os.Getwd(); err != nil {
				return err
			}
		}
		v, err := petsc.ReadVersionHeader(filepath.Join(dir, "include", "slepcversion.h"), "SLEPC")
		if err != nil {
			return fmt.Errorf("%s does not look like a SLEPc source tree: %w", dir, err)
		}
		release := "release"
		if !v.Release {
			release = "development"
		}
		fmt.Printf("SLEPc %s (%s)\n", v.Full(), release)
		fmt.Println("Scalable Library for Eigenvalue Problem Computations")
		fmt.Println("http://slepc.upv.es/")
		return nil
	},
}
