package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ppiankov/satrarity/internal/index"
	"github.com/ppiankov/satrarity/internal/model"
)

// Resolver builds the result for one outpoint
type Resolver interface {
	ResolveReference(ctx context.Context, outpoint index.OutPoint) (*model.ReferenceResult, error)
}

// ResolveJob resolves one outpoint of a batch
type ResolveJob struct {
	Position int
	OutPoint index.OutPoint
	Resolver Resolver
	tracker  *failureTracker
}

// Execute runs the resolver unless an earlier position already failed
func (j *ResolveJob) Execute(ctx context.Context) Result {
	if j.tracker != nil && j.tracker.failedBefore(j.Position) {
		return &ResolveResult{OutPoint: j.OutPoint, Skipped: true}
	}

	result, err := j.Resolver.ResolveReference(ctx, j.OutPoint)
	if err != nil {
		if j.tracker != nil {
			j.tracker.fail(j.Position)
		}
		return &ResolveResult{OutPoint: j.OutPoint, Error: err}
	}
	return &ResolveResult{OutPoint: j.OutPoint, Result: result}
}

// ResolveResult is the outcome of one ResolveJob
type ResolveResult struct {
	OutPoint index.OutPoint
	Result   *model.ReferenceResult
	Skipped  bool
	Error    error
}

// GetError returns the resolver error
func (r *ResolveResult) GetError() error {
	return r.Error
}

// failureTracker records the lowest failed position of a batch
type failureTracker struct {
	mu     sync.Mutex
	lowest int
}

func newFailureTracker() *failureTracker {
	return &failureTracker{lowest: -1}
}

func (f *failureTracker) fail(position int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lowest < 0 || position < f.lowest {
		f.lowest = position
	}
}

func (f *failureTracker) failedBefore(position int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lowest >= 0 && f.lowest < position
}

// BatchProcessor resolves many outpoints concurrently
type BatchProcessor struct {
	resolver    Resolver
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(resolver Resolver, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		resolver:    resolver,
		concurrency: concurrency,
	}
}

// Resolve resolves every outpoint. It is all or nothing: on failure the error of
// the earliest failing outpoint in input order is returned and jobs queued after
// a failure are skipped.
func (b *BatchProcessor) Resolve(ctx context.Context, outpoints []index.OutPoint) ([]*ResolveResult, error) {
	if len(outpoints) == 0 {
		return []*ResolveResult{}, nil
	}

	workers := b.concurrency
	if workers > len(outpoints) {
		workers = len(outpoints)
	}

	pool := NewPoolWithContext(ctx, workers)
	pool.Start()
	defer pool.Shutdown()

	tracker := newFailureTracker()
	for i, op := range outpoints {
		pool.Submit(&ResolveJob{
			Position: i,
			OutPoint: op,
			Resolver: b.resolver,
			tracker:  tracker,
		})
	}

	results := pool.Wait()

	resolved := make([]*ResolveResult, len(results))
	for i, result := range results {
		if result == nil {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("resolve %s: not executed", outpoints[i])
		}
		r := result.(*ResolveResult)
		if r.Error != nil {
			return nil, r.Error
		}
		resolved[i] = r
	}
	return resolved, nil
}

// ReadReferencesFromFile reads references from a file, one per line. Blank lines
// and # comments are skipped and duplicates are dropped.
func ReadReferencesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var refs []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			refs = append(refs, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return refs, nil
}
