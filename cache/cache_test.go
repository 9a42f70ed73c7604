package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	mserrors "github.com/modscope/modscope/errors"
)

// countingEvaluator parses "name=value" lines and counts evaluations.
type countingEvaluator struct {
	calls atomic.Int32
}

func (e *countingEvaluator) Evaluate(ctx context.Context, path string, src []byte) (map[string]any, error) {
	e.calls.Add(1)
	out := make(map[string]any)
	for _, line := range strings.Split(string(src), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("bad line %q", line)
		}
		out[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return out, nil
}

func writeModule(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGetOrLoad_EvaluatesOnce(t *testing.T) {
	ctx := context.Background()
	path := writeModule(t, t.TempDir(), "m.mod", "a=1\nb=2\n")

	eval := &countingEvaluator{}
	c := New(eval, DefaultOptions())

	ns1, err := c.GetOrLoad(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	ns2, err := c.GetOrLoad(ctx, path)
	if err != nil {
		t.Fatal(err)
	}

	if eval.calls.Load() != 1 {
		t.Errorf("evaluations = %d, want 1", eval.calls.Load())
	}
	if ns1 != ns2 {
		t.Error("second load returned a different namespace object")
	}
	if v, _ := ns1.Get("a"); v != "1" {
		t.Errorf("Get(a) = %v", v)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Evaluations != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestGetOrLoad_StalenessContentMode(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := writeModule(t, dir, "m.mod", "a=1\n")

	eval := &countingEvaluator{}
	c := New(eval, Options{Mode: Content})

	if _, err := c.GetOrLoad(ctx, path); err != nil {
		t.Fatal(err)
	}
	writeModule(t, dir, "m.mod", "a=2\n")

	ns, err := c.GetOrLoad(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if eval.calls.Load() != 2 {
		t.Errorf("evaluations = %d, want 2 after content change", eval.calls.Load())
	}
	if v, _ := ns.Get("a"); v != "2" {
		t.Errorf("Get(a) = %v after reload", v)
	}
}

func TestGetOrLoad_StalenessModTimeMode(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := writeModule(t, dir, "m.mod", "a=1\n")

	eval := &countingEvaluator{}
	c := New(eval, Options{Mode: ModTime})

	if _, err := c.GetOrLoad(ctx, path); err != nil {
		t.Fatal(err)
	}

	// Push mtime forward explicitly so the test is immune to timestamp
	// granularity.
	writeModule(t, dir, "m.mod", "a=2\n")
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	if _, err := c.GetOrLoad(ctx, path); err != nil {
		t.Fatal(err)
	}
	if eval.calls.Load() != 2 {
		t.Errorf("evaluations = %d, want 2 after mtime change", eval.calls.Load())
	}
}

func TestGetOrLoad_UnchangedEqualContentDifferentMtime(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := writeModule(t, dir, "m.mod", "a=1\n")

	eval := &countingEvaluator{}
	c := New(eval, Options{Mode: Content})

	if _, err := c.GetOrLoad(ctx, path); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetOrLoad(ctx, path); err != nil {
		t.Fatal(err)
	}

	if eval.calls.Load() != 1 {
		t.Errorf("content mode re-evaluated on pure mtime change: %d evaluations", eval.calls.Load())
	}
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	path := writeModule(t, t.TempDir(), "m.mod", "a=1\n")

	eval := &countingEvaluator{}
	c := New(eval, DefaultOptions())

	if _, err := c.GetOrLoad(ctx, path); err != nil {
		t.Fatal(err)
	}
	if !c.Invalidate(path) {
		t.Error("Invalidate = false for cached path")
	}
	if c.Invalidate(path) {
		t.Error("second Invalidate = true")
	}
	if _, err := c.GetOrLoad(ctx, path); err != nil {
		t.Fatal(err)
	}
	if eval.calls.Load() != 2 {
		t.Errorf("evaluations = %d, want 2 after invalidate", eval.calls.Load())
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	a := writeModule(t, dir, "a.mod", "x=1\n")
	b := writeModule(t, dir, "b.mod", "y=1\n")

	eval := &countingEvaluator{}
	c := New(eval, DefaultOptions())
	c.GetOrLoad(ctx, a)
	c.GetOrLoad(ctx, b)

	if c.Len() != 2 {
		t.Errorf("Len = %d", c.Len())
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len = %d after Clear", c.Len())
	}
}

func TestGetOrLoad_MissingFile(t *testing.T) {
	c := New(&countingEvaluator{}, DefaultOptions())
	_, err := c.GetOrLoad(context.Background(), filepath.Join(t.TempDir(), "missing.mod"))
	if !errors.Is(err, &mserrors.Error{Phase: mserrors.PhaseLoad, Kind: mserrors.KindInvalidInput}) {
		t.Errorf("err = %v, want load error", err)
	}
}

func TestGetOrLoad_EvaluationErrorWrapped(t *testing.T) {
	path := writeModule(t, t.TempDir(), "m.mod", "not an assignment\n")
	c := New(&countingEvaluator{}, DefaultOptions())

	_, err := c.GetOrLoad(context.Background(), path)
	if !errors.Is(err, &mserrors.Error{Phase: mserrors.PhaseEvaluate, Kind: mserrors.KindEvaluation}) {
		t.Fatalf("err = %v, want evaluation error", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q does not name the failing path", err)
	}
}

// chainingEvaluator imports another module during evaluation.
type chainingEvaluator struct {
	cache *Cache
}

func (e *chainingEvaluator) Evaluate(ctx context.Context, path string, src []byte) (map[string]any, error) {
	out := map[string]any{"self": path}
	dep := strings.TrimSpace(string(src))
	if dep == "" {
		return out, nil
	}
	depPath := filepath.Join(filepath.Dir(path), dep)
	ns, err := e.cache.GetOrLoad(ctx, depPath)
	if err != nil {
		return nil, err
	}
	out["dep"], _ = ns.Get("self")
	return out, nil
}

func TestGetOrLoad_ChainedImports(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "b.mod", "")
	a := writeModule(t, dir, "a.mod", "b.mod")

	e := &chainingEvaluator{}
	c := New(e, DefaultOptions())
	e.cache = c

	ns, err := c.GetOrLoad(context.Background(), a)
	if err != nil {
		t.Fatal(err)
	}
	dep, _ := ns.Get("dep")
	if dep != filepath.Join(dir, "b.mod") {
		t.Errorf("dep = %v", dep)
	}
}

func TestGetOrLoad_CycleDetected(t *testing.T) {
	dir := t.TempDir()
	a := writeModule(t, dir, "a.mod", "b.mod")
	writeModule(t, dir, "b.mod", "a.mod")

	e := &chainingEvaluator{}
	c := New(e, DefaultOptions())
	e.cache = c

	_, err := c.GetOrLoad(context.Background(), a)
	var cyc *mserrors.CyclicImportError
	if !errors.As(err, &cyc) {
		t.Fatalf("err = %v, want CyclicImportError", err)
	}
	if len(cyc.Chain) != 3 || cyc.Chain[0] != a || cyc.Chain[2] != a {
		t.Errorf("chain = %v", cyc.Chain)
	}
}

func TestGetOrLoad_SelfImportCycle(t *testing.T) {
	dir := t.TempDir()
	a := writeModule(t, dir, "a.mod", "a.mod")

	e := &chainingEvaluator{}
	c := New(e, DefaultOptions())
	e.cache = c

	_, err := c.GetOrLoad(context.Background(), a)
	if !errors.Is(err, &mserrors.CyclicImportError{}) {
		t.Fatalf("err = %v, want CyclicImportError", err)
	}
}

// slowEvaluator blocks long enough for racers to pile up.
type slowEvaluator struct {
	calls atomic.Int32
}

func (e *slowEvaluator) Evaluate(ctx context.Context, path string, src []byte) (map[string]any, error) {
	e.calls.Add(1)
	time.Sleep(20 * time.Millisecond)
	return map[string]any{"x": 1}, nil
}

func TestGetOrLoad_ConcurrentSingleEvaluation(t *testing.T) {
	path := writeModule(t, t.TempDir(), "m.mod", "x=1\n")

	eval := &slowEvaluator{}
	c := New(eval, DefaultOptions())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.GetOrLoad(context.Background(), path); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if eval.calls.Load() != 1 {
		t.Errorf("evaluations = %d, want 1 under concurrency", eval.calls.Load())
	}
}
