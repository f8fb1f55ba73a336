// Package fetcher downloads package files to disk with a bounded worker
// pool. It exists for the CLI's fetch command; the identification core never
// touches the filesystem.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/cmeister2/remote-package/internal/logger"
	"github.com/cmeister2/remote-package/internal/netutil"
)

// Options tunes a Fetch run. Zero values get sensible defaults.
type Options struct {
	// Workers is the number of concurrent downloads. Defaults to 4.
	Workers int
	// Client is the HTTP client to use. Defaults to netutil.NewClient(0).
	Client *http.Client
	// Attempts is the per-file retry budget. Defaults to
	// netutil.DefaultAttempts.
	Attempts int
	// Quiet suppresses the progress bar.
	Quiet bool
}

// Fetch downloads each URL into destDir using a pool of workers and returns
// the paths of the files that made it. Files are written under a temporary
// name and renamed into place only once fully written, so destDir never
// holds a half-downloaded package. Individual failures are logged and
// counted; Fetch returns an aggregate error if any file failed.
func Fetch(ctx context.Context, urls []string, destDir string, opts Options) ([]string, error) {
	log := logger.Logger()

	workers := opts.Workers
	if workers < 1 {
		workers = 4
	}
	if workers > len(urls) {
		workers = len(urls)
	}
	client := opts.Client
	if client == nil {
		client = netutil.NewClient(0)
	}
	attempts := opts.Attempts
	if attempts < 1 {
		attempts = netutil.DefaultAttempts
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("creating destination directory: %w", err)
	}

	bar := newBar(len(urls), opts.Quiet)

	jobs := make(chan string, len(urls))
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		done   []string
		failed int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for url := range jobs {
				name := path.Base(url)
				bar.Describe(fmt.Sprintf("downloading %s", name))

				dest, err := fetchOne(ctx, client, url, destDir, attempts)
				mu.Lock()
				if err != nil {
					log.Errorf("downloading %s failed: %v", url, err)
					failed++
				} else {
					done = append(done, dest)
				}
				mu.Unlock()
				bar.Add(1)
			}
		}()
	}

	for _, u := range urls {
		jobs <- u
	}
	close(jobs)
	wg.Wait()
	bar.Finish()

	if failed > 0 {
		return done, fmt.Errorf("%d of %d downloads failed", failed, len(urls))
	}
	return done, nil
}

// fetchOne downloads url into destDir. The body is streamed into a part file
// named after a fresh UUID; the final name only appears once the file is
// complete.
func fetchOne(ctx context.Context, client *http.Client, url, destDir string, attempts int) (string, error) {
	resp, err := netutil.Get(ctx, client, url, attempts)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	name := path.Base(url)
	destPath := filepath.Join(destDir, name)
	partPath := filepath.Join(destDir, fmt.Sprintf(".%s.%s.part", name, uuid.NewString()))

	out, err := os.Create(partPath)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(partPath)
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(partPath)
		return "", err
	}
	if err := os.Rename(partPath, destPath); err != nil {
		os.Remove(partPath)
		return "", err
	}
	return destPath, nil
}

func newBar(total int, quiet bool) *progressbar.ProgressBar {
	if quiet {
		return progressbar.NewOptions(total, progressbar.OptionSetWriter(io.Discard))
	}
	return progressbar.NewOptions(total,
		progressbar.OptionFullWidth(),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetDescription("downloading"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
}
