package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/satrarity/internal/index"
	"github.com/ppiankov/satrarity/internal/model"
)

// fakeResolver serves canned results and errors
type fakeResolver struct {
	mu    sync.Mutex
	known map[index.OutPoint]bool
	errs  map[index.OutPoint]error
	delay map[index.OutPoint]time.Duration
	calls []index.OutPoint
}

func (f *fakeResolver) ResolveReference(ctx context.Context, op index.OutPoint) (*model.ReferenceResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	d := f.delay[op]
	f.mu.Unlock()

	if d > 0 {
		time.Sleep(d)
	}
	if err, ok := f.errs[op]; ok {
		return nil, err
	}
	if !f.known[op] {
		return nil, fmt.Errorf("%w: %s", index.ErrUnknownReference, op)
	}
	return &model.ReferenceResult{
		Reference: op.String(),
		Ranges:    []model.RangeReport{{Start: uint64(op.Vout) * 1000, End: uint64(op.Vout)*1000 + 10}},
	}, nil
}

func outpoint(n int) index.OutPoint {
	return index.OutPoint{TxID: strings.Repeat(fmt.Sprintf("%x", n%16), 64), Vout: uint32(n)}
}

func newFakeResolver(n int) *fakeResolver {
	f := &fakeResolver{
		known: make(map[index.OutPoint]bool),
		errs:  make(map[index.OutPoint]error),
		delay: make(map[index.OutPoint]time.Duration),
	}
	for i := 0; i < n; i++ {
		f.known[outpoint(i)] = true
	}
	return f
}

func TestBatchProcessor_Resolve(t *testing.T) {
	resolver := newFakeResolver(8)
	processor := NewBatchProcessor(resolver, 3)

	ops := make([]index.OutPoint, 8)
	for i := range ops {
		ops[i] = outpoint(i)
	}
	// early jobs finish last
	resolver.delay[ops[0]] = 30 * time.Millisecond

	results, err := processor.Resolve(context.Background(), ops)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(results) != len(ops) {
		t.Fatalf("expected %d results, got %d", len(ops), len(results))
	}
	for i, res := range results {
		if res.OutPoint != ops[i] {
			t.Errorf("result %d is for %s, want %s", i, res.OutPoint, ops[i])
		}
		if res.Result.Reference != ops[i].String() {
			t.Errorf("result %d has reference %s", i, res.Result.Reference)
		}
	}
}

func TestBatchProcessor_Resolve_Empty(t *testing.T) {
	processor := NewBatchProcessor(newFakeResolver(0), 2)

	results, err := processor.Resolve(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_Resolve_FirstErrorInInputOrder(t *testing.T) {
	resolver := newFakeResolver(6)
	errEarly := errors.New("early failure")
	errLate := errors.New("late failure")
	resolver.errs[outpoint(1)] = errEarly
	resolver.errs[outpoint(4)] = errLate
	// the later failure finishes first
	resolver.delay[outpoint(1)] = 50 * time.Millisecond

	processor := NewBatchProcessor(resolver, 6)
	ops := []index.OutPoint{outpoint(0), outpoint(1), outpoint(2), outpoint(3), outpoint(4), outpoint(5)}

	_, err := processor.Resolve(context.Background(), ops)
	if !errors.Is(err, errEarly) {
		t.Errorf("expected early failure, got %v", err)
	}
}

func TestBatchProcessor_Resolve_SkipsAfterFailure(t *testing.T) {
	resolver := newFakeResolver(20)

	ops := []index.OutPoint{outpoint(99)}
	for i := 0; i < 20; i++ {
		ops = append(ops, outpoint(i))
	}

	processor := NewBatchProcessor(resolver, 1)
	_, err := processor.Resolve(context.Background(), ops)
	if !errors.Is(err, index.ErrUnknownReference) {
		t.Fatalf("expected ErrUnknownReference, got %v", err)
	}

	resolver.mu.Lock()
	calls := len(resolver.calls)
	resolver.mu.Unlock()
	if calls != 1 {
		t.Errorf("expected jobs after the failure to be skipped, got %d calls", calls)
	}
}

func TestResolveResult_GetError(t *testing.T) {
	r1 := &ResolveResult{}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("lookup failed")
	r2 := &ResolveResult{Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp(t.TempDir(), "refs")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpfile.Name()
}

func TestReadReferencesFromFile(t *testing.T) {
	a := outpoint(1).String()
	b := outpoint(2).String()
	path := writeTemp(t, a+"\n# comment\n   \n"+b+"   \n"+a+"\n")

	refs, err := ReadReferencesFromFile(path)
	if err != nil {
		t.Fatalf("ReadReferencesFromFile failed: %v", err)
	}

	expected := []string{a, b}
	if len(refs) != len(expected) {
		t.Fatalf("expected %d references, got %d", len(expected), len(refs))
	}
	for i, ref := range refs {
		if ref != expected[i] {
			t.Errorf("expected %s at index %d, got %s", expected[i], i, ref)
		}
	}
}

func TestReadReferencesFromFile_NonExistent(t *testing.T) {
	_, err := ReadReferencesFromFile("non_existent_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestReadReferencesFromFile_Empty(t *testing.T) {
	refs, err := ReadReferencesFromFile(writeTemp(t, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("expected 0 references, got %d", len(refs))
	}
}
