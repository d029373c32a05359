// pkg/fetch/extract.go
package fetch

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// Extract unpacks a tar archive (gzip or xz compressed) under dest,
// refusing entries that would escape it.
func Extract(archive, dest string) error {
	f, err := os.Open(archive)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	var tr *tar.Reader
	switch {
	case strings.HasSuffix(archive, ".tar.gz"), strings.HasSuffix(archive, ".tgz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("reading gzip stream: %w", err)
		}
		defer gz.Close()
		tr = tar.NewReader(gz)
	case strings.HasSuffix(archive, ".tar.xz"):
		xzr, err := xz.NewReader(f)
		if err != nil {
			return fmt.Errorf("reading xz stream: %w", err)
		}
		tr = tar.NewReader(xzr)
	case strings.HasSuffix(archive, ".tar"):
		tr = tar.NewReader(f)
	default:
		return fmt.Errorf("unsupported archive format: %s", filepath.Base(archive))
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	root := filepath.Clean(dest) + string(os.PathSeparator)

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}
		name := strings.TrimPrefix(hdr.Name, "./")
		if name == "" || name == "." {
			continue
		}
		target := filepath.Join(dest, name)
		if !strings.HasPrefix(target, root) {
			return fmt.Errorf("archive entry escapes destination: %s", hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating directory %s: %w", name, err)
			}
		case tar.TypeSymlink:
			if filepath.IsAbs(hdr.Linkname) {
				return fmt.Errorf("archive symlink %s points outside destination", hdr.Name)
			}
			resolved := filepath.Join(filepath.Dir(target), hdr.Linkname)
			if !strings.HasPrefix(resolved, root) {
				return fmt.Errorf("archive symlink %s points outside destination", hdr.Name)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("creating directory for %s: %w", name, err)
			}
			os.Remove(target)
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return fmt.Errorf("creating symlink %s: %w", name, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("creating directory for %s: %w", name, err)
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode)&0o777)
			if err != nil {
				return fmt.Errorf("creating %s: %w", name, err)
			}
			written, err := io.Copy(out, tr)
			if err != nil {
				out.Close()
				return fmt.Errorf("extracting %s: %w", name, err)
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("extracting %s: %w", name, err)
			}
			if written != hdr.Size {
				return fmt.Errorf("extracting %s: wrote %d of %d bytes", name, written, hdr.Size)
			}
		}
	}
}
