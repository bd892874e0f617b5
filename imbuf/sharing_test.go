package imbuf

import (
	"sync"
	"testing"
)

func TestSharingReleaseOnLastUser(t *testing.T) {
	releases := 0
	s := NewSharing(func() { releases++ })

	s.AddUser()
	s.AddUser()
	if s.Users() != 3 {
		t.Fatalf("Users() = %d, want 3", s.Users())
	}

	if s.RemoveUserAndDeleteIfLast() {
		t.Error("reported last while two holders remained")
	}
	if s.RemoveUserAndDeleteIfLast() {
		t.Error("reported last while one holder remained")
	}
	if releases != 0 {
		t.Fatalf("release ran %d times before the last user", releases)
	}

	if !s.RemoveUserAndDeleteIfLast() {
		t.Error("last removal not reported")
	}
	if releases != 1 {
		t.Errorf("release ran %d times, want 1", releases)
	}
}

func TestSharingNilRelease(t *testing.T) {
	s := NewSharing(nil)
	if !s.RemoveUserAndDeleteIfLast() {
		t.Error("last removal not reported")
	}
}

func TestSharingConcurrentUsers(t *testing.T) {
	var mu sync.Mutex
	releases := 0
	s := NewSharing(func() {
		mu.Lock()
		releases++
		mu.Unlock()
	})

	const extra = 32
	var wg sync.WaitGroup
	for range extra {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddUser()
		}()
	}
	wg.Wait()

	for range extra + 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.RemoveUserAndDeleteIfLast()
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if releases != 1 {
		t.Errorf("release ran %d times, want exactly 1", releases)
	}
}
