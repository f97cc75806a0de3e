package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"rill/internal/diag"
	"rill/internal/pipeline"
	"rill/internal/source"
)

// DirOptions configures a parallel directory check.
type DirOptions struct {
	Options
	// Jobs limits worker parallelism. Zero means GOMAXPROCS.
	Jobs int
	// Sink receives progress events. May be nil.
	Sink pipeline.Sink
	// Cache, when non-nil, is consulted per file by content hash.
	Cache *DiskCache
}

// FileResult is the outcome for one file of a directory check.
type FileResult struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	// Cached is true when the result was replayed from the disk cache.
	Cached bool
}

// ListFiles returns every *.rl file under dir, sorted for determinism.
func ListFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".rl") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// CheckDir checks every *.rl file under dir in parallel. Results come back
// in path order regardless of worker scheduling.
func CheckDir(ctx context.Context, dir string, opts DirOptions) (*source.FileSet, []FileResult, error) {
	files, err := ListFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	fileSet := source.NewFileSet()
	fileSet.SetBaseDir(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	maxDiags := opts.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = DefaultMaxDiagnostics
	}

	// Loading happens up front on one goroutine: the FileSet is not
	// safe for concurrent mutation.
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = id
		pipeline.Notify(opts.Sink, pipeline.Event{File: path, Status: pipeline.StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Slots are per-goroutine unique, so no mutex is needed.
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if loadErr, hadError := loadErrors[path]; hadError {
				bag := diag.NewBag(maxDiags)
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{},
					"failed to load file: "+loadErr.Error()))
				results[i] = FileResult{Path: path, Bag: bag}
				pipeline.Notify(opts.Sink, pipeline.Event{
					File: path, Status: pipeline.StatusError, Err: loadErr,
				})
				return nil
			}

			results[i] = checkOne(fileSet, path, fileIDs[path], maxDiags, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

func checkOne(fileSet *source.FileSet, path string, fileID source.FileID, maxDiags int, opts DirOptions) FileResult {
	file := fileSet.Get(fileID)
	started := time.Now()

	if opts.Cache != nil {
		var payload DiskPayload
		if hit, err := opts.Cache.Get(file.Hash, &payload); err == nil && hit {
			bag := replayBag(&payload, fileID, maxDiags)
			status := pipeline.StatusDone
			if bag.HasErrors() {
				status = pipeline.StatusError
			}
			pipeline.Notify(opts.Sink, pipeline.Event{
				File: path, Stage: pipeline.StageCheck, Status: status,
				Elapsed: time.Since(started),
			})
			return FileResult{Path: path, FileID: fileID, Bag: bag, Cached: true}
		}
	}

	for _, stage := range []pipeline.Stage{
		pipeline.StageTokenize, pipeline.StageParse,
		pipeline.StageResolve, pipeline.StageCheck,
	} {
		pipeline.Notify(opts.Sink, pipeline.Event{File: path, Stage: stage, Status: pipeline.StatusWorking})
	}
	res := checkLoaded(fileSet, fileID, Options{MaxDiagnostics: maxDiags, RequireMain: opts.RequireMain})

	if opts.Cache != nil {
		// Best effort: a failed write only costs the next run a re-check.
		_ = opts.Cache.Put(file.Hash, flattenBag(path, file.Hash, res.Bag))
	}

	status := pipeline.StatusDone
	if res.Bag.HasErrors() {
		status = pipeline.StatusError
	}
	pipeline.Notify(opts.Sink, pipeline.Event{
		File: path, Stage: pipeline.StageCheck, Status: status,
		Elapsed: time.Since(started),
	})
	return FileResult{Path: path, FileID: fileID, Bag: res.Bag}
}
