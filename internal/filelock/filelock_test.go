package filelock

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

func TestDoSerializes(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := Do(path, func() error {
				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
			if err != nil {
				t.Errorf("Do: %v", err)
			}
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Fatalf("max concurrent holders = %d, want 1", maxSeen)
	}
}

func TestDoReturnsCallbackError(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")
	want := errors.New("boom")

	if err := Do(path, func() error { return want }); !errors.Is(err, want) {
		t.Fatalf("Do error = %v, want %v", err, want)
	}
	// The lock must be free again.
	if err := Do(path, func() error { return nil }); err != nil {
		t.Fatalf("second Do: %v", err)
	}
}
