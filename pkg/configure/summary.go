// pkg/configure/summary.go
package configure

import (
	"strings"
	"time"
)

// gitDateLayout matches the %ci format the repository metadata uses.
const gitDateLayout = "2006-01-02 15:04:05 -0700"

// summary prints the final configuration banner and the build
// instructions.
func (c *configurer) summary() {
	c.lg.NewSection("\n")
	c.lg.Println(strings.Repeat("=", 79))
	c.lg.Println("SLEPc Configuration")
	c.lg.Println(strings.Repeat("=", 79))
	c.lg.Println("")
	c.lg.Println("SLEPc directory:")
	c.lg.Println(" " + c.slepcdir)
	if c.tree.Repo.IsRepo {
		c.lg.Println("  It is a git repository on branch: " + c.tree.Repo.Branch)
	}
	if !samePath(c.dirs.Arch, c.tree.Prefix) {
		c.lg.Println("SLEPc prefix directory:")
		c.lg.Println(" " + c.tree.Prefix)
	}
	c.lg.Println("PETSc directory:")
	c.lg.Println(" " + c.petscdir)
	if c.conf.Repo.IsRepo {
		c.lg.Println("  It is a git repository on branch: " + c.conf.Repo.Branch)
	}
	c.repoSyncWarning()
	if c.conf.IsInstall && !samePath(c.dirs.Arch, c.tree.Prefix) {
		c.lg.Println("Prefix install with " + c.conf.Precision + " precision " + c.conf.Scalar + " numbers")
	} else {
		c.lg.Println("Architecture \"" + c.archname + "\" with " + c.conf.Precision + " precision " + c.conf.Scalar + " numbers")
	}
	for _, pk := range c.opts.Catalog {
		pk.ShowInfo(c.lg)
	}
	c.lg.Write("\nFinishing Configure Run at " + time.Now().Format(time.ANSIC))
	c.lg.Write(strings.Repeat("=", 79))

	buildtype := "legacy"
	switch {
	case c.conf.MakeIsGNUMake:
		buildtype = "gnumake"
	case c.cmakeOK:
		buildtype = "cmake"
	}
	banner := "xxx" + strings.Repeat("=", 73) + "xxx"
	c.lg.Console("")
	c.lg.Console(banner)
	c.lg.Console(" Configure stage complete. Now build the SLEPc library with (" + buildtype + " build):")
	if c.conf.IsInstall {
		c.lg.Console("   make SLEPC_DIR=$PWD PETSC_DIR=" + c.petscdir)
	} else {
		c.lg.Console("   make SLEPC_DIR=$PWD PETSC_DIR=" + c.petscdir + " PETSC_ARCH=" + c.archname)
	}
	c.lg.Console(banner)
	c.lg.Console("")
}

// repoSyncWarning flags PETSc and SLEPc checkouts whose last commits
// are more than thirty days apart; mixing them tends to hit interface
// drift. Maintenance branches move slowly enough to skip the check.
func (c *configurer) repoSyncWarning() {
	if !c.conf.Repo.IsRepo || !c.tree.Repo.IsRepo {
		return
	}
	if c.conf.Repo.Branch == "maint" || c.tree.Repo.Branch == "maint" {
		return
	}
	pd, err := time.Parse(gitDateLayout, c.conf.Repo.Date)
	if err != nil {
		return
	}
	sd, err := time.Parse(gitDateLayout, c.tree.Repo.Date)
	if err != nil {
		return
	}
	delta := pd.Sub(sd)
	if delta < 0 {
		delta = -delta
	}
	if delta > 30*24*time.Hour {
		c.lg.Warn("your PETSc and SLEPc repos may not be in sync (more than 30 days apart)")
	}
}
