package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlightCollapsesConcurrentCalls(t *testing.T) {
	var g SingleFlight
	var executions atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	leaderDone := make(chan struct{})
	go func() {
		defer close(leaderDone)
		val, err, shared := g.Do("key", func() (any, error) {
			executions.Add(1)
			close(started)
			<-release
			return "result", nil
		})
		if err != nil || shared || val != "result" {
			t.Errorf("leader = (%v, %v, %t), want (result, nil, false)", val, err, shared)
		}
	}()

	<-started

	const followers = 7
	var wg sync.WaitGroup
	var sharedCount atomic.Int32
	for i := 0; i < followers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			val, err, shared := g.Do("key", func() (any, error) {
				executions.Add(1)
				return "late", nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if shared {
				sharedCount.Add(1)
				if val != "result" {
					t.Errorf("shared val = %v, want result", val)
				}
			}
		}()
	}

	// Let the followers pile onto the in-flight call before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	<-leaderDone

	if sharedCount.Load() == 0 {
		t.Fatal("expected at least one follower to share the leader's result")
	}
	if got := executions.Load(); got != int32(1+followers)-sharedCount.Load() {
		t.Fatalf("executions = %d with %d shared followers", got, sharedCount.Load())
	}
}

func TestSingleFlightDistinctKeysRunIndependently(t *testing.T) {
	var g SingleFlight

	a, err, sharedA := g.Do("a", func() (any, error) { return 1, nil })
	if err != nil || sharedA || a != 1 {
		t.Fatalf("a = (%v, %v, %t)", a, err, sharedA)
	}
	b, err, sharedB := g.Do("b", func() (any, error) { return 2, nil })
	if err != nil || sharedB || b != 2 {
		t.Fatalf("b = (%v, %v, %t)", b, err, sharedB)
	}

	// After completion the key is free again.
	again, err, sharedAgain := g.Do("a", func() (any, error) { return 3, nil })
	if err != nil || sharedAgain || again != 3 {
		t.Fatalf("second a = (%v, %v, %t)", again, err, sharedAgain)
	}
}
