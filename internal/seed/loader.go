// Package seed loads the initial task table from a file, a glob of files,
// a URL or the bundled sample.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/colonyops/gantt/internal/core/schedule"
)

//go:embed sample.csv
var sampleCSV []byte

// ErrNoMatches is returned when a seed pattern matches no files.
var ErrNoMatches = errors.New("seed pattern matched no files")

// maxBodyBytes caps a fetched seed.
const maxBodyBytes = 8 << 20

// Source selects where the seed comes from. Path and URL are mutually
// exclusive; with neither set the bundled sample is used.
type Source struct {
	Path    string
	URL     string
	Timeout time.Duration
}

// Kind names the source for logs.
func (s Source) Kind() string {
	switch {
	case s.URL != "":
		return "url"
	case s.Path != "":
		return "path"
	default:
		return "sample"
	}
}

// Loader reads seed tables.
type Loader struct {
	client *http.Client
	logger zerolog.Logger
}

// NewLoader returns a loader using client for URL sources. A nil client
// uses http.DefaultClient.
func NewLoader(client *http.Client, logger zerolog.Logger) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{client: client, logger: logger}
}

// Load returns the raw table described by src. The table is not coerced.
func (l *Loader) Load(ctx context.Context, src Source) (schedule.RawTable, error) {
	var (
		table schedule.RawTable
		err   error
	)

	switch src.Kind() {
	case "url":
		table, err = l.fetch(ctx, src.URL, src.Timeout)
	case "path":
		table, err = l.readGlob(src.Path)
	default:
		table, err = Sample()
	}
	if err != nil {
		return nil, err
	}

	l.logger.Debug().
		Str("kind", src.Kind()).
		Int("rows", len(table)).
		Msg("seed loaded")
	return table, nil
}

// Sample returns the bundled sample table.
func Sample() (schedule.RawTable, error) {
	return DecodeCSV(bytes.NewReader(sampleCSV))
}

func (l *Loader) fetch(ctx context.Context, rawURL string, timeout time.Duration) (schedule.RawTable, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse seed url: %w", err)
	}
	dec, err := DecoderFor(u.Path)
	if err != nil {
		return nil, err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build seed request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch seed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch seed: unexpected status %s", resp.Status)
	}

	table, err := dec(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", rawURL, err)
	}
	return table, nil
}

// DirPattern returns a glob matching every seed file directly inside dir.
func DirPattern(dir string) string {
	exts := make([]string, 0, len(decoders))
	for _, ext := range Formats() {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	return filepath.Join(dir, "*.{"+strings.Join(exts, ",")+"}")
}

// HasMatches reports whether pattern matches at least one file.
func HasMatches(pattern string) bool {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	return err == nil && len(matches) > 0
}

// readGlob expands pattern and concatenates the tables of every match in
// lexical order.
func (l *Loader) readGlob(pattern string) (schedule.RawTable, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expand seed pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoMatches, pattern)
	}
	slices.Sort(matches)

	table := schedule.RawTable{}
	for _, path := range matches {
		rows, err := readFile(path)
		if err != nil {
			return nil, err
		}
		l.logger.Debug().Str("file", path).Int("rows", len(rows)).Msg("seed file read")
		table = append(table, rows...)
	}
	return table, nil
}

func readFile(path string) (schedule.RawTable, error) {
	dec, err := DecoderFor(path)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed: %w", err)
	}
	defer func() { _ = f.Close() }()

	table, err := dec(f)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", path, err)
	}
	return table, nil
}
