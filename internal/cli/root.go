// internal/cli/root.go
package cli

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/neonkingfr/slepc/pkg/configure"
	"github.com/neonkingfr/slepc/pkg/logging"
	"github.com/neonkingfr/slepc/pkg/packages"
)

var (
	debug bool
	opts  = configure.Options{
		Catalog: packages.Catalog(),
		Sowing:  packages.NewSowing(),
	}
)

// rootCmd is the configure entry point; running it performs the whole
// configuration pass.
var rootCmd = &cobra.Command{
	Use:   "configure",
	Short: "SLEPc configuration tool",
	Long: `configure - SLEPc configuration tool

Probes the PETSc installation and the optional external eigensolver
packages, detects the Fortran name-mangling convention of the host
toolchain, and writes the build files for the SLEPc makefiles.

Run from the top of the SLEPc source tree with SLEPC_DIR, PETSC_DIR
and PETSC_ARCH set.

` + packageHelp(),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		lg := logging.New(&logging.Config{Debug: debug})
		opts.Args = os.Args[1:]
		return configure.Run(cmd.Context(), lg, &opts)
	},
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	fs := rootCmd.Flags()
	fs.BoolVar(&opts.Clean, "with-clean", false, "Delete prior build files including externalpackages")
	fs.StringVar(&opts.Prefix, "prefix", "", "Specify location to install SLEPc (e.g., /usr/local)")
	fs.StringVar(&opts.DataDir, "DATAFILESPATH", "", "Specify location of datafiles (for SLEPc developers)")
	fs.DurationVar(&opts.Timeout, "link-timeout", time.Minute, "Time limit for one compile and link trial")
	fs.BoolVar(&debug, "debug", false, "enable debug logging")

	for _, pk := range opts.Catalog {
		pk.RegisterFlags(fs)
	}
	opts.Sowing.RegisterFlags(fs)

	rootCmd.AddCommand(versionCmd)
}

// packageHelp renders the per-package option listing the way the
// packages describe themselves.
func packageHelp() string {
	var b strings.Builder
	for _, pk := range opts.Catalog {
		pk.ShowHelp(&b)
	}
	opts.Sowing.ShowHelp(&b)
	return b.String()
}
