package driver

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"karta"
	"karta/internal/diag"
	"karta/internal/observ"
	"karta/internal/source"
	"karta/internal/trace"
)

// CheckOptions configures Check.
type CheckOptions struct {
	Options
	Jobs     int // <= 0 means GOMAXPROCS
	Cache    *DiskCache
	Progress ProgressSink
	Timer    *observ.Timer
}

// FileResult is the outcome for one input path.
type FileResult struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	Nodes  int
	Atoms  int
	Cached bool
	Failed bool
}

type CheckResult struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// Failed counts the files that did not produce a document.
func (r *CheckResult) Failed() int {
	n := 0
	for i := range r.Files {
		if r.Files[i].Failed {
			n++
		}
	}
	return n
}

// Check parses every path in parallel. Results keep the order of paths.
// The returned error is only set when ctx is cancelled.
func Check(ctx context.Context, paths []string, opts CheckOptions) (*CheckResult, error) {
	tracer := trace.FromContext(ctx)
	root := trace.Begin(tracer, trace.ScopeCommand, "check", trace.CurrentSpan(ctx))
	defer root.End("")
	ctx = trace.WithSpan(ctx, root)

	fileSet := source.NewFileSet()
	results := make([]FileResult, len(paths))
	files := make([]*source.File, len(paths))

	doneLoad := opts.Timer.Track("load")
	for i, path := range paths {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})
		file, err := loadFile(fileSet, path, opts.Options)
		if err != nil {
			bag := diag.NewBag(opts.MaxDiagnostics)
			id := loadFailure(fileSet, bag, path, err)
			results[i] = FileResult{Path: path, FileID: id, Bag: bag, Failed: true}
			emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
			continue
		}
		files[i] = file
		results[i] = FileResult{Path: path, FileID: file.ID}
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusDone})
	}
	doneLoad(itoa(len(paths)) + " files")

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	doneParse := opts.Timer.Track("parse")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))

	for i, file := range files {
		if file == nil {
			continue
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// индекс i уникален, мьютекс не нужен
			results[i] = checkFile(gctx, file, results[i].Path, opts)
			return nil
		})
	}
	err := g.Wait()
	doneParse("")

	root.WithExtra("files", itoa(len(paths)))
	return &CheckResult{FileSet: fileSet, Files: results}, err
}

func checkFile(ctx context.Context, file *source.File, path string, opts CheckOptions) FileResult {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, path, trace.CurrentSpan(ctx))
	defer span.End("")

	res := FileResult{Path: path, FileID: file.ID, Bag: diag.NewBag(opts.MaxDiagnostics)}
	started := time.Now()

	var key Digest
	if opts.Cache != nil {
		emit(opts.Progress, Event{File: path, Stage: StageCache, Status: StatusWorking})
		key = CacheKey(file.Hash, opts.Options)
		var payload DiskPayload
		if ok, err := opts.Cache.Get(key, &payload); err == nil && ok {
			replayDiagnostics(res.Bag, file.ID, payload.Diagnostics)
			res.Nodes = payload.Nodes
			res.Atoms = payload.Atoms
			res.Failed = payload.Broken
			res.Cached = true
			span.WithExtra("cache", "hit")
			emit(opts.Progress, Event{File: path, Stage: StageCache, Status: StatusDone, Elapsed: time.Since(started)})
			return res
		}
		span.WithExtra("cache", "miss")
	}

	emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusWorking})
	doc, err := karta.ParseSourceFile(file, opts.docOptions(res.Bag)...)
	if err != nil {
		res.Failed = true
		trace.Error(trace.FromContext(ctx), trace.ScopeFile, path, err, span.ID())
	} else {
		res.Nodes = doc.Len()
		res.Atoms = doc.Atoms().Len()
		span.WithExtra("nodes", itoa(res.Nodes))
	}

	if opts.Cache != nil {
		payload := &DiskPayload{
			Path:        path,
			Nodes:       res.Nodes,
			Atoms:       res.Atoms,
			Broken:      res.Failed,
			Diagnostics: cachedDiagnostics(res.Bag),
		}
		if err := opts.Cache.Put(key, payload); err != nil {
			trace.Error(trace.FromContext(ctx), trace.ScopeFile, "cache put", err, span.ID())
			res.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{File: file.ID}, "cache write failed: "+err.Error()))
		}
	}

	status := StatusDone
	if res.Failed {
		status = StatusError
	}
	emit(opts.Progress, Event{File: path, Stage: StageParse, Status: status, Err: err, Elapsed: time.Since(started)})
	return res
}

func replayDiagnostics(bag *diag.Bag, file source.FileID, items []CachedDiagnostic) {
	for _, c := range items {
		bag.Add(diag.New(diag.Severity(c.Severity), diag.Code(c.Code), source.Span{File: file, Start: c.Start, End: c.End}, c.Message))
	}
}
