// pkg/packages/download.go
package packages

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/neonkingfr/slepc/pkg/fetch"
	"github.com/neonkingfr/slepc/pkg/logging"
	"github.com/neonkingfr/slepc/pkg/probe"
	"github.com/neonkingfr/slepc/pkg/registry"
)

// download is the embedded state shared by packages installed from a
// pinned upstream release. The flag accepts a bare form, a boolean,
// or an alternative archive URL.
type download struct {
	name string

	flagval string
	outcome *probe.Outcome
}

func (d *download) Name() string {
	return d.name
}

func (d *download) RegisterFlags(fs *pflag.FlagSet) {
	u := strings.ToUpper(d.name)
	fs.StringVar(&d.flagval, "download-"+d.name, "", "Download and install "+u)
	fs.Lookup("download-" + d.name).NoOptDefVal = "1"
}

func (d *download) Requested() bool {
	switch strings.ToLower(d.flagval) {
	case "", "0", "no", "false":
		return false
	}
	return true
}

// url returns the user-supplied archive location, when one was given
// instead of a boolean.
func (d *download) url() string {
	switch strings.ToLower(d.flagval) {
	case "", "0", "1", "no", "yes", "true", "false":
		return ""
	}
	return d.flagval
}

// pin resolves the package release, honoring a URL override. An
// overridden location replaces the pinned mirrors and has no pinned
// checksum, so verification is skipped for it.
func (d *download) pin(pins *registry.Registry) (registry.Pin, error) {
	pin, err := pins.Lookup(d.name)
	if err != nil {
		return registry.Pin{}, err
	}
	if u := d.url(); u != "" {
		pin.URL = u
		pin.Mirrors = nil
		pin.SHA256 = ""
	}
	return pin, nil
}

// PrefetchRequest names the archive the package will need.
func (d *download) PrefetchRequest(pins *registry.Registry) (fetch.Request, error) {
	pin, err := d.pin(pins)
	if err != nil {
		return fetch.Request{}, err
	}
	return fetch.Request{URL: pin.URL, Mirrors: pin.Mirrors, SHA256: pin.SHA256}, nil
}

// fetchSource downloads and unpacks the release under the arch
// external packages directory, returning the source root.
func (d *download) fetchSource(ctx context.Context, env *Env) (string, error) {
	pin, err := d.pin(env.Pins)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(env.ArchDir, "externalpackages")
	req := fetch.Request{URL: pin.URL, Mirrors: pin.Mirrors, SHA256: pin.SHA256}
	return env.Fetcher.Fetch(ctx, req, pin.Dirname, dest)
}

func (d *download) ShowHelp(w io.Writer) {
	u := strings.ToUpper(d.name)
	fmt.Fprintf(w, "%s:\n", u)
	fmt.Fprintf(w, "%-35s: Download and install %s in SLEPc directory\n", "  --download-"+d.name, u)
}

func (d *download) ShowInfo(lg *logging.Log) {
	if d.outcome == nil || !d.outcome.Found {
		return
	}
	lg.Println(strings.ToUpper(d.name) + " library flags:")
	lg.Println(" " + strings.Join(d.outcome.Flags, " "))
}

// copyFile installs src at dst, creating the destination directory.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

// copyHeaders installs every .h file under srcdir into dstdir, flat.
func copyHeaders(srcdir, dstdir string) error {
	return filepath.WalkDir(srcdir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".h") {
			return nil
		}
		return copyFile(path, filepath.Join(dstdir, d.Name()))
	})
}
