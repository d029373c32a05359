// pkg/fetch/fetch.go
// Package fetch downloads and unpacks the pinned external package
// releases.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds one archive download.
const DefaultTimeout = 5 * time.Minute

// Config controls a Fetcher.
type Config struct {
	// CacheDir is where archives land; reused downloads are verified
	// before being trusted.
	CacheDir string

	// Timeout bounds one download. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Logger receives progress lines.
	Logger *log.Logger
}

// Request names one archive to download, with any mirror locations to
// fall back on.
type Request struct {
	URL     string
	Mirrors []string
	SHA256  string
}

// Fetcher downloads archives over HTTP.
type Fetcher struct {
	client *http.Client
	cache  string
	logger *log.Logger
}

// New returns a Fetcher for cfg, filling defaults for unset fields.
func New(cfg *Config) *Fetcher {
	if cfg == nil {
		cfg = &Config{}
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	cache := cfg.CacheDir
	if cache == "" {
		cache = filepath.Join(os.TempDir(), "slepc-downloads")
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		cache:  cache,
		logger: logger,
	}
}

// Download fetches the requested archive into the cache and returns
// its path, trying each mirror in order after the primary URL fails.
func (f *Fetcher) Download(ctx context.Context, req Request) (string, error) {
	var lastErr error
	for _, url := range append([]string{req.URL}, req.Mirrors...) {
		if ctx.Err() != nil {
			break
		}
		dest, err := f.download(ctx, url, req.SHA256)
		if err == nil {
			return dest, nil
		}
		f.logger.Printf("%v", err)
		lastErr = err
	}
	return "", lastErr
}

// download fetches one url into the cache. A cached archive matching
// the checksum is reused. With no pinned checksum verification is
// skipped.
func (f *Fetcher) download(ctx context.Context, url, sha string) (string, error) {
	if err := os.MkdirAll(f.cache, 0o755); err != nil {
		return "", fmt.Errorf("creating download directory: %w", err)
	}
	dest := filepath.Join(f.cache, path.Base(url))

	if _, err := os.Stat(dest); err == nil {
		if sha == "" || verifySHA256(dest, sha) == nil {
			f.logger.Printf("using cached %s", filepath.Base(dest))
			return dest, nil
		}
		os.Remove(dest)
	}

	f.logger.Printf("downloading %s", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: unexpected status %s", url, resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", dest, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(dest)
		return "", fmt.Errorf("saving %s: %w", filepath.Base(dest), err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("saving %s: %w", filepath.Base(dest), err)
	}

	if sha == "" {
		f.logger.Printf("no checksum pinned for %s, skipping verification", filepath.Base(dest))
		return dest, nil
	}
	if err := verifySHA256(dest, sha); err != nil {
		os.Remove(dest)
		return "", err
	}
	return dest, nil
}

// Fetch downloads an archive and unpacks it under destDir, returning
// the unpacked source root named by dirname.
func (f *Fetcher) Fetch(ctx context.Context, req Request, dirname, destDir string) (string, error) {
	archive, err := f.Download(ctx, req)
	if err != nil {
		return "", err
	}
	if err := Extract(archive, destDir); err != nil {
		return "", fmt.Errorf("extracting %s: %w", filepath.Base(archive), err)
	}
	root := filepath.Join(destDir, dirname)
	if _, err := os.Stat(root); err != nil {
		return "", fmt.Errorf("archive did not unpack to %s: %w", dirname, err)
	}
	return root, nil
}

// Prefetch downloads every request concurrently, so the sequential
// package pass finds the archives already cached.
func (f *Fetcher) Prefetch(ctx context.Context, reqs []Request) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, r := range reqs {
		r := r
		g.Go(func() error {
			_, err := f.Download(ctx, r)
			return err
		})
	}
	return g.Wait()
}

// verifySHA256 compares the file's digest with the expected hex
// string.
func verifySHA256(path, expected string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s for verification: %w", path, err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return fmt.Errorf("hashing %s: %w", path, err)
	}
	actual := hex.EncodeToString(hasher.Sum(nil))
	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("checksum mismatch for %s: expected %s, got %s", filepath.Base(path), expected, actual)
	}
	return nil
}
