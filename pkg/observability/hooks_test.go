package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	e := NoopEngineHooks{}
	e.OnLanes(10, 2, time.Millisecond)
	e.OnRows(12, 480, time.Millisecond)
	e.OnIndex(7, 140, time.Millisecond)
	e.OnSessionStart("s1", "b1", "none")
	e.OnSessionEnd("s1", "b1", "drag-commit", time.Second)
	e.OnCommitApplied("b1", true, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "snapshot")
	c.OnCacheMiss(ctx, "snapshot")
	c.OnCacheSet(ctx, "snapshot", 1024)

	NoopServerHooks{}.OnRequest(ctx, "GET", "/layout", 200, time.Millisecond)
}

type testEngineHooks struct {
	NoopEngineHooks
	mu      sync.Mutex
	commits []string
}

func (h *testEngineHooks) OnCommitApplied(bookingID string, _ bool, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commits = append(h.commits, bookingID)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Engine() should return NoopEngineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	custom := &testEngineHooks{}
	SetEngineHooks(custom)
	Engine().OnCommitApplied("b1", true, nil)
	if len(custom.commits) != 1 || custom.commits[0] != "b1" {
		t.Errorf("custom hooks not called: %v", custom.commits)
	}

	// nil keeps the current hooks
	SetEngineHooks(nil)
	if Engine() != EngineHooks(custom) {
		t.Error("SetEngineHooks(nil) replaced the registered hooks")
	}

	Reset()
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Reset() should restore NoopEngineHooks")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)

	h.OnLanes(3, 1, time.Millisecond)
	h.OnCommitApplied("b7", false, errors.New("booking gone"))
	h.OnCacheMiss(context.Background(), "snapshot")

	out := buf.String()
	for _, want := range []string{"lanes", "recomputed=1", "commit rejected", "b7", "cache miss", "snapshot"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestConcurrentHookAccess(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetCacheHooks(NoopCacheHooks{})
		}()
		go func() {
			defer wg.Done()
			Cache().OnCacheHit(context.Background(), "snapshot")
		}()
	}
	wg.Wait()
}
