// pkg/configure/finish.go
package configure

import (
	"context"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/neonkingfr/slepc/pkg/artifacts"
)

// cmakeFiles finishes the CMake fragment and, when the PETSc build
// itself uses CMake, probes whether a CMake build of SLEPc can be
// bootstrapped. Failure here only disables the CMake build.
func (c *configurer) cmakeFiles(ctx context.Context) error {
	c.lg.NewSection("Creating CMake files...")
	if err := c.cmake.Summary(); err != nil {
		return c.fatal(ErrArtifact, err.Error())
	}
	if err := c.cmake.Close(); err != nil {
		return c.fatal(ErrArtifact, err.Error())
	}

	if c.conf.IsInstall || !c.conf.BuildUsingCMake {
		return nil
	}
	cmakeBin, err := exec.LookPath("cmake")
	if err != nil {
		c.lg.Warn("CMake builds are not available (cmake not found)\nYou can ignore this warning (use default build), or try reconfiguring PETSc")
		return nil
	}
	cmd := exec.CommandContext(ctx, cmakeBin, "--version")
	out, err := cmd.CombinedOutput()
	c.lg.Write(string(out))
	if err != nil {
		c.lg.Warn("CMake builds are not available (initialization failed)\nYou can ignore this warning (use default build), or try reconfiguring PETSc")
		return nil
	}
	c.cmakeOK = true
	if err := c.vars.Set("SLEPC_BUILD_USING_CMAKE", "1"); err != nil {
		return c.fatal(ErrArtifact, err.Error())
	}
	return nil
}

// finish writes the modules, pkg-config and report files and closes
// every open artifact.
func (c *configurer) finish() error {
	version := c.tree.Version.Full()
	modname := version
	if samePath(c.dirs.Arch, c.tree.Prefix) {
		modname = version + "-" + c.archname
	}
	moddir := c.slepcdir
	if c.isInstall {
		moddir = c.tree.Prefix
	}
	if err := artifacts.WriteModules(filepath.Join(c.dirs.Modules, modname), version, moddir); err != nil {
		return c.fatal(ErrArtifact, err.Error())
	}

	err := artifacts.WritePkgConfig(filepath.Join(c.dirs.PkgConfig, "SLEPc.pc"),
		version, c.conf.Version.Full(), c.tree.Prefix, c.slepcdir, c.isInstall)
	if err != nil {
		return c.fatal(ErrArtifact, err.Error())
	}

	if err := c.writeReport(); err != nil {
		return err
	}

	if err := c.vars.Close(); err != nil {
		return c.fatal(ErrArtifact, err.Error())
	}
	if err := c.header.Close(); err != nil {
		return c.fatal(ErrArtifact, err.Error())
	}
	return nil
}

// writeReport saves the machine-readable record of the run.
func (c *configurer) writeReport() error {
	report := &artifacts.Report{
		Timestamp:    time.Now().Format(time.RFC3339),
		SlepcDir:     c.slepcdir,
		SlepcVersion: c.tree.Version.Full(),
		PetscDir:     c.petscdir,
		PetscVersion: c.conf.Version.Full(),
		Arch:         c.archname,
		Prefix:       c.tree.Prefix,
		Precision:    c.conf.Precision,
		Scalar:       c.conf.Scalar,
	}
	for _, out := range c.outcomes {
		report.Packages = append(report.Packages, artifacts.PackageReport{
			Name:     out.Package,
			Found:    out.Found,
			Dir:      out.Dir,
			Flags:    out.Flags,
			Mangling: string(out.Mangling),
			Missing:  out.Missing,
		})
	}
	if err := artifacts.WriteReport(filepath.Join(c.dirs.Conf, "configure.yaml"), report); err != nil {
		return c.fatal(ErrArtifact, err.Error())
	}
	return nil
}
