// Package core runs path resolution for many local files concurrently.
package core

import (
	"context"
	"errors"
	"sync"

	"github.com/Digital-Shane/kinopoisk-meta/internal/provider"
	"github.com/Digital-Shane/kinopoisk-meta/internal/provider/local"
	"github.com/hashicorp/go-hclog"
	"github.com/mhmtszr/concurrent-swiss-map"
)

// DefaultWorkerCount bounds concurrent lookups when no count is configured
const DefaultWorkerCount = 4

// Engine resolves a batch of paths on a bounded worker pool while exposing
// progress snapshots.
type Engine struct {
	workerCount int
	resolver    *local.Resolver
	svc         provider.Service
	logger      hclog.Logger

	results *csmap.CsMap[string, Result]

	summaryMu sync.RWMutex
	summary   Summary

	fatalMu sync.Mutex
	fatal   error
}

// Config configures an Engine
type Config struct {
	Resolver    *local.Resolver
	Service     provider.Service
	Logger      hclog.Logger
	WorkerCount int
}

// Result is the outcome for one path
type Result struct {
	Path       string
	Resolution *local.Resolution
	Err        error
}

// Summary captures batch progress at a point in time
type Summary struct {
	TotalItems     int
	ProcessedItems int
	ActiveWorkers  int
	WorkerLimit    int
	ErrorCount     int
	LastItem       string
	Done           bool
	Canceled       bool
}

// Event is a progress update emitted by the engine
type Event struct {
	Summary Summary
	Err     error
}

// NewEngine constructs an engine with defaults applied
func NewEngine(cfg Config) *Engine {
	workerCount := cfg.WorkerCount
	if workerCount <= 0 {
		workerCount = DefaultWorkerCount
	}
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	resolver := cfg.Resolver
	if resolver == nil {
		resolver = local.NewResolver(logger)
	}

	return &Engine{
		workerCount: workerCount,
		resolver:    resolver,
		svc:         cfg.Service,
		logger:      logger.Named("engine"),
		results:     csmap.Create[string, Result](),
		summary:     Summary{WorkerLimit: workerCount},
	}
}

// Start resolves paths and returns a stream of progress events. The stream is
// closed once every path is processed or the batch stops early.
func (e *Engine) Start(ctx context.Context, paths []string) <-chan Event {
	events := make(chan Event, 128)
	go e.run(ctx, paths, events)
	return events
}

// Run resolves paths and blocks until the batch ends. It returns the results
// in input order and the error that stopped the batch, if any.
func (e *Engine) Run(ctx context.Context, paths []string) ([]Result, error) {
	for range e.Start(ctx, paths) {
	}
	return e.Results(paths), e.Err()
}

// Results returns the processed results for paths in the given order; paths
// never reached are left out.
func (e *Engine) Results(paths []string) []Result {
	out := make([]Result, 0, len(paths))
	for _, path := range paths {
		if res, ok := e.results.Load(path); ok {
			out = append(out, res)
		}
	}
	return out
}

// Err returns the cancellation or throttling error that stopped the batch
func (e *Engine) Err() error {
	e.fatalMu.Lock()
	defer e.fatalMu.Unlock()
	return e.fatal
}

// SummarySnapshot returns the latest progress summary
func (e *Engine) SummarySnapshot() Summary {
	e.summaryMu.RLock()
	defer e.summaryMu.RUnlock()
	return e.summary
}

func (e *Engine) run(parent context.Context, paths []string, events chan Event) {
	defer close(events)

	// A fatal lookup error stops the workers still queued
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	unique := dedupe(paths)
	workerCount := min(e.workerCount, len(unique))

	e.summaryMu.Lock()
	e.summary.TotalItems = len(unique)
	e.summary.ActiveWorkers = workerCount
	e.summaryMu.Unlock()
	e.emit(events, nil)

	workCh := make(chan string)
	resultCh := make(chan Result)
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go e.worker(ctx, &wg, workCh, resultCh)
	}

	go func() {
		defer close(workCh)
		for _, path := range unique {
			select {
			case workCh <- path:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	for res := range resultCh {
		if provider.IsFatal(res.Err) {
			e.setFatal(res.Err)
			cancel()
			continue
		}
		e.processResult(res)
		e.emit(events, nil)
	}

	// Workers drop queued paths silently once the caller cancels
	if err := parent.Err(); err != nil && e.SummarySnapshot().ProcessedItems < len(unique) {
		e.setFatal(err)
	}

	e.summaryMu.Lock()
	e.summary.ActiveWorkers = 0
	e.summary.Done = true
	e.summary.Canceled = e.Err() != nil
	e.summaryMu.Unlock()
	emitFinal(events, Event{Summary: e.SummarySnapshot(), Err: e.Err()})
}

func (e *Engine) worker(ctx context.Context, wg *sync.WaitGroup, workCh <-chan string, resultCh chan<- Result) {
	defer wg.Done()

	for path := range workCh {
		if ctx.Err() != nil {
			return
		}
		res, err := e.resolver.Resolve(ctx, e.svc, path)
		if err != nil && !provider.IsFatal(err) {
			e.logger.Debug("path skipped", "path", path, "error", err)
		}
		// Results are always delivered so the collector sees fatal errors
		resultCh <- Result{Path: path, Resolution: res, Err: err}
	}
}

func (e *Engine) processResult(res Result) {
	e.results.Store(res.Path, res)

	e.summaryMu.Lock()
	e.summary.ProcessedItems++
	if res.Err != nil {
		e.summary.ErrorCount++
	}
	e.summary.LastItem = res.Path
	e.summaryMu.Unlock()
}

func (e *Engine) setFatal(err error) {
	e.fatalMu.Lock()
	defer e.fatalMu.Unlock()
	if e.fatal == nil || errors.Is(e.fatal, context.Canceled) {
		e.fatal = err
	}
}

func (e *Engine) emit(events chan<- Event, err error) {
	ev := Event{Summary: e.SummarySnapshot(), Err: err}
	select {
	case events <- ev:
	default:
		// Slow readers only miss intermediate snapshots
	}
}

// emitFinal delivers the terminal event without blocking, evicting buffered
// snapshots when the buffer is full.
func emitFinal(events chan Event, ev Event) {
	for {
		select {
		case events <- ev:
			return
		default:
		}
		select {
		case <-events:
		default:
		}
	}
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
