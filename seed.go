package uecomplete

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	uert "github.com/jward/uecomplete/internal/runtime"
	"github.com/jward/uecomplete/internal/store"
)

// WithScriptsFS loads seed scripts from fsys. The embedded scripts.FS is the
// default.
func WithScriptsFS(fsys fs.FS) Option {
	return func(e *Engine) {
		e.scriptsFS = fsys
		e.scriptsDir = ""
	}
}

// WithScriptsDir loads seed scripts from a directory on disk instead of the
// embedded copy.
func WithScriptsDir(dir string) Option {
	return func(e *Engine) {
		e.scriptsDir = dir
		e.scriptsFS = nil
	}
}

// WithSeedScript selects the script run per header, relative to the scripts
// source or absolute. Defaults to seed/unreal.risor.
func WithSeedScript(path string) Option {
	return func(e *Engine) {
		e.seedScript = path
	}
}

// WithSeedParallelism bounds how many headers are scripted at once.
// Defaults to runtime.NumCPU().
func WithSeedParallelism(n int) Option {
	return func(e *Engine) {
		e.parallelism = n
	}
}

// skipDirs are never descended into when seeding a directory.
var skipDirs = map[string]bool{
	"Binaries":         true,
	"Intermediate":     true,
	"Saved":            true,
	"DerivedDataCache": true,
	"node_modules":     true,
}

// seedItem holds everything a seed worker needs for one header.
type seedItem struct {
	path  string
	batch *store.BatchedStore
}

// SeedFiles migrates the database and runs the seed script on every header
// in paths. Headers are scripted in parallel, each into its own
// BatchedStore, and committed serially, one transaction per header.
// Non-header paths are ignored. A failing header does not stop the others;
// the first failure is returned with the count.
func (e *Engine) SeedFiles(ctx context.Context, paths []string) error {
	if err := e.store.Migrate(); err != nil {
		return fmt.Errorf("uecomplete: migrate: %w", err)
	}

	var items []seedItem
	for _, path := range paths {
		if _, ok := uert.LanguageForFile(path); !ok {
			continue
		}
		items = append(items, seedItem{path: path, batch: store.NewBatchedStore(e.store)})
	}
	if len(items) == 0 {
		return nil
	}

	numWorkers := e.parallelism
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	numWorkers = min(numWorkers, len(items))

	workCh := make(chan seedItem, len(items))
	for _, item := range items {
		workCh <- item
	}
	close(workCh)

	type result struct {
		item seedItem
		err  error
	}
	resultCh := make(chan result, len(items))

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workCh {
				resultCh <- result{item: item, err: e.seedFile(ctx, item)}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	var errs []error
	for res := range resultCh {
		if res.err != nil {
			errs = append(errs, fmt.Errorf("seed %s: %w", res.item.path, res.err))
			continue
		}
		if err := e.store.CommitBatch(res.item.batch); err != nil {
			errs = append(errs, fmt.Errorf("commit %s: %w", res.item.path, err))
			continue
		}
		e.logger.Debug("seeded header", "path", res.item.path)
	}

	if len(errs) > 0 {
		return fmt.Errorf("seeding had %d error(s): %w", len(errs), errs[0])
	}
	e.logger.Info("seeded symbol database", "headers", len(items))
	return nil
}

// seedFile runs the seed script for one header. Each call creates its own
// Runtime so parsed trees never cross goroutines.
func (e *Engine) seedFile(ctx context.Context, item seedItem) error {
	rtOpts := []uert.RuntimeOption{
		uert.WithWriter(item.batch),
		uert.WithRuntimeLogger(e.logger),
	}
	if e.scriptsFS != nil {
		rtOpts = append(rtOpts, uert.WithRuntimeFS(e.scriptsFS))
	}
	rt := uert.NewRuntime(e.store, e.scriptsDir, rtOpts...)

	extras := map[string]any{"file_path": item.path}
	if err := rt.RunScript(ctx, e.seedScript, extras); err != nil {
		return fmt.Errorf("seed script: %w", err)
	}
	return nil
}

// SeedDirectory seeds from every header under root. Inside a git work tree
// the file list comes from git ls-files so ignored files are skipped;
// otherwise the tree is walked, skipping hidden directories and Unreal
// build output.
func (e *Engine) SeedDirectory(ctx context.Context, root string) error {
	paths, err := gitListHeaders(root)
	if err != nil {
		paths, err = walkListHeaders(root)
		if err != nil {
			return err
		}
	}
	return e.SeedFiles(ctx, paths)
}

// gitListHeaders lists tracked and untracked, non-ignored headers under root.
func gitListHeaders(root string) ([]string, error) {
	cmd := exec.Command("git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	var paths []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		absPath := filepath.Join(root, line)
		if _, ok := uert.LanguageForFile(absPath); ok {
			paths = append(paths, absPath)
		}
	}
	return paths, nil
}

func walkListHeaders(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := uert.LanguageForFile(path); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return paths, nil
}
