// pkg/configure/configure.go
// Package configure drives a full configuration run: environment
// validation, PETSc loading, external package probing, and emission of
// the build artifacts.
package configure

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/neonkingfr/slepc/pkg/artifacts"
	"github.com/neonkingfr/slepc/pkg/fetch"
	"github.com/neonkingfr/slepc/pkg/logging"
	"github.com/neonkingfr/slepc/pkg/packages"
	"github.com/neonkingfr/slepc/pkg/petsc"
	"github.com/neonkingfr/slepc/pkg/probe"
	"github.com/neonkingfr/slepc/pkg/registry"
	"github.com/neonkingfr/slepc/pkg/source"
)

// Options are the run-level settings not owned by any package.
type Options struct {
	// Clean removes a previous arch directory before configuring.
	Clean bool

	// Prefix is the installation prefix; empty for in-tree builds.
	Prefix string

	// DataDir points at the developer test datafiles.
	DataDir string

	// Timeout bounds one link trial.
	Timeout time.Duration

	// Catalog is the package processing order. Defaults to
	// packages.Catalog().
	Catalog []packages.Package

	// Sowing builds bfort when Fortran stub generation needs it. Its
	// download flag is registered with the rest of the catalog but it
	// runs outside the probe loop.
	Sowing *packages.Sowing

	// Args are the command-line arguments recorded in the transcript.
	Args []string
}

// Run performs one configure pass and returns the fatal error that
// ended it, if any. All diagnostics land in lg.
func Run(ctx context.Context, lg *logging.Log, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Catalog == nil {
		opts.Catalog = packages.Catalog()
	}
	if opts.Sowing == nil {
		opts.Sowing = packages.NewSowing()
	}
	c := &configurer{lg: lg, opts: opts}
	return c.run(ctx)
}

// configurer carries the state threaded through the run steps.
type configurer struct {
	lg   *logging.Log
	opts *Options

	slepcdir string
	petscdir string
	archname string

	// isInstall records whether the user asked for a prefix install,
	// captured before the prefix defaults to the arch directory.
	isInstall bool

	tree *source.Tree
	conf *petsc.Conf
	dirs *dirs

	prober  *probe.Prober
	fetcher *fetch.Fetcher
	pins    *registry.Registry

	vars    *artifacts.Variables
	header  *artifacts.Header
	cmake   *artifacts.CMake
	cmakeOK bool

	outcomes []*probe.Outcome
}

// fatal records msg in the transcript and returns the kind-tagged
// error the run terminates with.
func (c *configurer) fatal(kind error, msg string) error {
	logged := c.lg.Fatal(msg)
	if kind == nil {
		return logged
	}
	return fmt.Errorf("%w: %v", kind, logged)
}

func (c *configurer) run(ctx context.Context) error {
	c.lg.Print("Checking environment...")
	if err := c.environment(ctx); err != nil {
		return err
	}
	if err := c.directories(); err != nil {
		return err
	}
	if err := c.openTranscript(); err != nil {
		return err
	}
	if err := c.openArtifacts(); err != nil {
		return err
	}
	if err := c.checkPetsc(ctx); err != nil {
		return err
	}
	if err := c.baseVariables(); err != nil {
		return err
	}
	if err := c.processPackages(ctx); err != nil {
		return err
	}
	if err := c.fortranStubs(ctx); err != nil {
		return err
	}
	if err := c.cmakeFiles(ctx); err != nil {
		return err
	}
	if err := c.finish(); err != nil {
		return err
	}
	c.summary()
	return nil
}

// environment resolves SLEPC_DIR and PETSC_DIR, loads both trees and
// rejects combinations this SLEPc version cannot be built against.
func (c *configurer) environment(ctx context.Context) error {
	if dir := os.Getenv("SLEPC_DIR"); dir != "" {
		if !source.Valid(dir) {
			return c.fatal(ErrEnvironment, "SLEPC_DIR environment variable is not valid")
		}
		if cwd, err := os.Getwd(); err == nil && !samePath(cwd, dir) {
			return c.fatal(ErrEnvironment, "SLEPC_DIR is not the current directory")
		}
		c.slepcdir = dir
	} else {
		cwd, err := os.Getwd()
		if err != nil || !source.Valid(cwd) {
			return c.fatal(ErrEnvironment, "current directory is not a SLEPc source tree")
		}
		c.slepcdir = cwd
	}

	tree, err := source.Load(ctx, c.slepcdir)
	if err != nil {
		return c.fatal(ErrEnvironment, err.Error())
	}
	tree.Prefix = c.opts.Prefix
	tree.DataDir = c.opts.DataDir
	c.tree = tree

	c.petscdir = os.Getenv("PETSC_DIR")
	if c.petscdir == "" && c.opts.Prefix != "" {
		c.petscdir = c.opts.Prefix
		os.Setenv("PETSC_DIR", c.petscdir)
	}
	if c.petscdir == "" {
		return c.fatal(ErrEnvironment, "PETSC_DIR environment variable is not set")
	}
	if fi, err := os.Stat(c.petscdir); err != nil || !fi.IsDir() {
		return c.fatal(ErrEnvironment, "PETSC_DIR environment variable is not valid")
	}

	conf, err := petsc.Load(ctx, c.petscdir)
	if err != nil {
		return c.fatal(ErrEnvironment, err.Error())
	}
	c.conf = conf

	if conf.Version.Compare(tree.Version) < 0 {
		return c.fatal(ErrIncompatible, "this SLEPc version is not compatible with PETSc version "+conf.Version.Short())
	}
	switch conf.Precision {
	case "double", "single", "__float128":
	default:
		return c.fatal(ErrIncompatible, "this SLEPc version does not work with "+conf.Precision+" precision")
	}
	c.isInstall = tree.IsInstall()
	if c.isInstall && !conf.IsInstall {
		return c.fatal(ErrIncompatible, "SLEPc cannot be configured for non-source installation if PETSc is not configured in the same way")
	}

	c.archname = conf.Arch
	if conf.IsInstall {
		c.archname = "installed-" + conf.Arch
	}
	return nil
}

// directories builds the arch tree, honoring the clean request. A
// previous configuration with external packages forces a clean when
// this run names none, otherwise stale link lines would survive.
func (c *configurer) directories() error {
	d, err := createDirs(c.slepcdir, c.archname)
	if err != nil {
		return c.fatal(ErrEnvironment, err.Error())
	}
	clean := c.opts.Clean
	if d.Existed && !clean && hadExternalPackages(d.Conf) && !c.anyExternalRequested() {
		c.lg.Console("WARNING: forcing --with-clean=1 because previous configuration had external packages")
		clean = true
	}
	if d.Existed && clean {
		if err := d.remove(); err != nil {
			return c.fatal(ErrEnvironment, err.Error())
		}
		if d, err = createDirs(c.slepcdir, c.archname); err != nil {
			return c.fatal(ErrEnvironment, err.Error())
		}
	}
	c.dirs = d

	if c.tree.Prefix == "" {
		c.tree.Prefix = d.Arch
	}
	return nil
}

// anyExternalRequested reports whether any probed package was asked
// for on the command line. LAPACK does not count: it is always
// checked and leaves no external link lines behind.
func (c *configurer) anyExternalRequested() bool {
	for _, pk := range c.opts.Catalog {
		if pk.Name() != "lapack" && pk.Requested() {
			return true
		}
	}
	return false
}

// openTranscript attaches the log file and records the run preamble.
func (c *configurer) openTranscript() error {
	if err := c.lg.Open(c.slepcdir, c.dirs.Conf, "configure.log"); err != nil {
		return c.fatal(ErrArtifact, err.Error())
	}
	cwd, _ := os.Getwd()
	c.lg.Write(strings.Repeat("=", 80))
	c.lg.Write("Starting Configure Run at " + time.Now().Format(time.ANSIC))
	c.lg.Write("Configure Options: " + strings.Join(c.opts.Args, " "))
	c.lg.Write("Working directory: " + cwd)
	c.lg.Write("make: " + c.conf.Make)
	c.lg.Write("PETSc source directory: " + c.petscdir)
	c.lg.Write("PETSc install directory: " + c.conf.DestDir)
	c.lg.Write("PETSc version: " + c.conf.Version.Full())
	if !c.conf.IsInstall {
		c.lg.Write("PETSc architecture: " + c.conf.Arch)
	}
	c.lg.Write("SLEPc source directory: " + c.slepcdir)
	c.lg.Write("SLEPc install directory: " + c.tree.Prefix)
	c.lg.Write("SLEPc version: " + c.tree.Version.Full())
	return nil
}

// openArtifacts creates the output writers and the probing machinery.
func (c *configurer) openArtifacts() error {
	var err error
	if c.vars, err = artifacts.CreateVariables(filepath.Join(c.dirs.Conf, "slepcvariables")); err != nil {
		return c.fatal(ErrArtifact, err.Error())
	}
	if err = os.WriteFile(filepath.Join(c.dirs.Conf, "slepcrules"), nil, 0o644); err != nil {
		return c.fatal(ErrArtifact, "cannot create rules file in "+c.dirs.Conf+": "+err.Error())
	}
	if c.header, err = artifacts.CreateHeader(filepath.Join(c.dirs.Include, "slepcconf.h")); err != nil {
		return c.fatal(ErrArtifact, err.Error())
	}
	if c.cmake, err = artifacts.CreateCMake(filepath.Join(c.dirs.Conf, "SLEPcConfig.cmake")); err != nil {
		return c.fatal(ErrArtifact, err.Error())
	}

	// Installed PETSc keeps no arch in the environment, so record the
	// effective one in a global fragment the makefiles can include.
	if c.conf.IsInstall {
		globdir := filepath.Join(c.slepcdir, "lib", "slepc-conf")
		if err := os.MkdirAll(globdir, 0o755); err != nil {
			return c.fatal(ErrArtifact, "cannot create configuration file in "+globdir+": "+err.Error())
		}
		glob, err := artifacts.CreateVariables(filepath.Join(globdir, "slepcvariables"))
		if err != nil {
			return c.fatal(ErrArtifact, err.Error())
		}
		serr := glob.Set("SLEPC_DIR", c.slepcdir)
		if serr == nil {
			serr = glob.Set("PETSC_ARCH", c.archname)
		}
		if cerr := glob.Close(); serr == nil {
			serr = cerr
		}
		if serr != nil {
			return c.fatal(ErrArtifact, serr.Error())
		}
	}

	c.prober = probe.New(&probe.Config{
		Make:    c.conf.Make,
		SLFlag:  c.conf.SLFlag,
		Dir:     filepath.Join(c.dirs.Conf, "checklink"),
		Timeout: c.opts.Timeout,
		Trace:   c.lg.Trace,
	})
	if err := c.prober.Setup(c.conf.VariablesInclude(), c.conf.RulesInclude()); err != nil {
		return c.fatal(ErrEnvironment, err.Error())
	}

	if c.pins, err = registry.Load(); err != nil {
		return c.fatal(nil, err.Error())
	}
	c.fetcher = fetch.New(&fetch.Config{
		CacheDir: filepath.Join(c.dirs.Arch, "externalpackages", "downloads"),
		Logger:   c.lg.Trace,
	})
	return nil
}

// checkPetsc verifies the host installation is usable before any
// package is probed against it.
func (c *configurer) checkPetsc(ctx context.Context) error {
	c.lg.NewSection("Checking PETSc installation...")
	if c.conf.Version.Compare(c.tree.Version) > 0 {
		c.lg.Println("WARNING: PETSc version " + c.conf.Version.Short() + " is newer than SLEPc version " + c.tree.Version.Short())
	}
	if c.conf.Version.Release != c.tree.Version.Release {
		return c.fatal(ErrIncompatible, "cannot mix release and development versions of SLEPc and PETSc")
	}
	if c.conf.IsInstall && !samePath(c.conf.DestDir, c.petscdir) {
		c.lg.Println("WARNING: PETSC_DIR does not point to PETSc installation path")
	}
	res, err := c.conf.Check(ctx, c.prober)
	if err != nil {
		return c.fatal(nil, err.Error())
	}
	c.lg.Write(res.Output)
	if !res.OK {
		c.lg.SetLastFailed()
		return c.fatal(ErrIncompatible, "unable to link with PETSc")
	}
	return nil
}

// baseVariables writes the package-independent slepcvariables lines.
func (c *configurer) baseVariables() error {
	set := func(key, value string) error {
		if err := c.vars.Set(key, value); err != nil {
			return c.fatal(ErrArtifact, err.Error())
		}
		return nil
	}
	if err := set("SLEPC_DESTDIR", c.tree.Prefix); err != nil {
		return err
	}
	if c.conf.IsInstall {
		if err := set("INSTALLED_PETSC", "1"); err != nil {
			return err
		}
	}
	if c.tree.DataDir != "" {
		if err := set("DATAFILESPATH", c.tree.DataDir); err != nil {
			return err
		}
	}
	if err := set("TEST_RUNS", strings.Join(testRuns(c.conf, c.tree.DataDir), " ")); err != nil {
		return err
	}

	if err := c.header.DefineLibDir(filepath.Join(c.tree.Prefix, "lib")); err != nil {
		return c.fatal(ErrArtifact, err.Error())
	}
	if c.tree.Repo.IsRepo {
		if err := c.header.DefineGit(c.tree.Repo.Rev, c.tree.Repo.Date); err != nil {
			return c.fatal(ErrArtifact, err.Error())
		}
	}

	if c.conf.SingleLib {
		if err := set("SHLIBS", "libslepc"); err != nil {
			return err
		}
		if err := set("LIBNAME", filepath.Join("${INSTALL_LIB_DIR}", "libslepc.${AR_LIB_SUFFIX}")); err != nil {
			return err
		}
		link := "${CC_LINKER_SLFLAG}${SLEPC_LIB_DIR} -L${SLEPC_LIB_DIR} -lslepc ${SLEPC_EXTERNAL_LIB} ${PETSC_KSP_LIB}"
		for _, module := range []string{"SYS", "MFN", "EPS", "SVD", "PEP", "NEP"} {
			if err := set("SLEPC_"+module+"_LIB", link); err != nil {
				return err
			}
		}
		if err := set("SLEPC_LIB", link); err != nil {
			return err
		}
	}
	return nil
}

// testRuns filters the PETSc test classes down to the ones SLEPc
// supports, sorted so repeated runs emit identical lines.
func testRuns(conf *petsc.Conf, dataDir string) []string {
	supported := map[string]bool{
		"C": true, "F90": true, "Fortran": true,
		"C_Complex": true, "Fortran_Complex": true,
		"C_NoComplex": true, "Fortran_NoComplex": true,
	}
	seen := make(map[string]bool)
	var runs []string
	add := func(r string) {
		if !seen[r] {
			seen[r] = true
			runs = append(runs, r)
		}
	}
	for _, r := range strings.Fields(conf.TestRuns) {
		if supported[r] {
			add(r)
		}
	}
	if conf.Precision != "__float128" {
		add("C_NoF128")
	}
	if dataDir != "" {
		add("DATAFILESPATH")
	}
	sort.Strings(runs)
	return runs
}

// processPackages runs the catalog in its fixed order, emitting each
// outcome into the artifacts as it lands.
func (c *configurer) processPackages(ctx context.Context) error {
	env := &packages.Env{
		Petsc:   c.conf,
		Slepc:   c.tree,
		Prober:  c.prober,
		Fetcher: c.fetcher,
		Pins:    c.pins,
		Log:     c.lg,
		ArchDir: c.dirs.Arch,
	}

	if err := c.prefetch(ctx); err != nil {
		return err
	}

	for _, pk := range c.opts.Catalog {
		out, err := pk.Process(ctx, env)
		if err != nil {
			var se *probe.SearchError
			if errors.As(err, &se) {
				c.lg.Write(se.Transcript)
				c.lg.Println("ERROR: Unable to link with library " + se.Package)
				c.lg.Println("ERROR: In directories " + strings.Join(se.Dirs, " "))
				c.lg.Println("ERROR: With flags " + strings.Join(se.Flags, " "))
				c.lg.SetLastFailed()
				return fmt.Errorf("%w: %v", se, c.lg.Fatal(""))
			}
			return c.fatal(nil, err.Error())
		}
		if out == nil {
			continue
		}
		c.outcomes = append(c.outcomes, out)
		if err := c.emit(out); err != nil {
			return err
		}
	}
	return nil
}

// prefetch downloads every requested archive concurrently so the
// sequential package pass finds them cached. Emission order is
// untouched: nothing is written here.
func (c *configurer) prefetch(ctx context.Context) error {
	pkgs := append([]packages.Package{}, c.opts.Catalog...)
	pkgs = append(pkgs, c.opts.Sowing)
	var reqs []fetch.Request
	for _, pk := range pkgs {
		d, ok := pk.(packages.Downloader)
		if !ok || !pk.Requested() {
			continue
		}
		req, err := d.PrefetchRequest(c.pins)
		if err != nil {
			return c.fatal(nil, err.Error())
		}
		reqs = append(reqs, req)
	}
	if len(reqs) == 0 {
		return nil
	}
	if err := c.fetcher.Prefetch(ctx, reqs); err != nil {
		return c.fatal(nil, err.Error())
	}
	return nil
}

// emit renders one outcome into the header, variables and CMake
// artifacts. LAPACK contributes only the missing-routine defines.
func (c *configurer) emit(out *probe.Outcome) error {
	if out.Package == "lapack" {
		for _, routine := range out.Missing {
			if err := c.header.MissingLapack(strings.ToUpper(routine)); err != nil {
				return c.fatal(ErrArtifact, err.Error())
			}
		}
		return nil
	}
	name := strings.ToUpper(out.Package)
	if err := c.header.Package(name, out.Mangling); err != nil {
		return c.fatal(ErrArtifact, err.Error())
	}
	if err := c.vars.Set(name+"_LIB", strings.Join(out.Flags, " ")); err != nil {
		return c.fatal(ErrArtifact, err.Error())
	}
	if err := c.cmake.Have(name); err != nil {
		return c.fatal(ErrArtifact, err.Error())
	}
	if err := c.cmake.FindPackage(name, out.Dir, baseNames(out.Libs)); err != nil {
		return c.fatal(ErrArtifact, err.Error())
	}
	if out.IncludeDir != "" {
		if err := c.cmake.Include(name, out.IncludeDir); err != nil {
			return c.fatal(ErrArtifact, err.Error())
		}
	}
	return nil
}

// baseNames strips the -l prefix so CMake's find_library sees plain
// library names.
func baseNames(libs []string) []string {
	names := make([]string, len(libs))
	for i, l := range libs {
		names[i] = strings.TrimPrefix(l, "-l")
	}
	return names
}

// samePath compares two paths after resolving symlinks.
func samePath(a, b string) bool {
	ra, err := filepath.EvalSymlinks(a)
	if err != nil {
		ra = filepath.Clean(a)
	}
	rb, err := filepath.EvalSymlinks(b)
	if err != nil {
		rb = filepath.Clean(b)
	}
	return ra == rb
}
