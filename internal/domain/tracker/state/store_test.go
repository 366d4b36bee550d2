package state

import (
	"sync"
	"testing"
)

func TestStore_SetGetClear(t *testing.T) {
	s := NewStore[int64, string]()

	if _, ok := s.Get(1); ok {
		t.Error("Expected empty store to miss")
	}

	s.Set(1, "a")
	if v, ok := s.Get(1); !ok || v != "a" {
		t.Errorf("Expected \"a\", got: %q (%v)", v, ok)
	}

	// Last writer wins
	s.Set(1, "b")
	if v, _ := s.Get(1); v != "b" {
		t.Errorf("Expected \"b\", got: %q", v)
	}

	v, ok := s.Clear(1)
	if !ok || v != "b" {
		t.Errorf("Expected Clear to return \"b\", got: %q (%v)", v, ok)
	}
	if _, ok := s.Clear(1); ok {
		t.Error("Expected second Clear to miss")
	}
	if s.Len() != 0 {
		t.Errorf("Expected empty store, got len %d", s.Len())
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore[int, int]()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Set(i, i*2)
			s.Get(i)
		}(i)
	}
	wg.Wait()

	if s.Len() != 50 {
		t.Errorf("Expected 50 entries, got: %d", s.Len())
	}
}
