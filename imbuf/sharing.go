package imbuf

import "sync/atomic"

// Sharing is a reference-counted control block that lets several buffer
// slots, possibly across different ImBufs, hold the same region without
// copying it. The release closure runs exactly once, when the last user is
// removed.
//
// A Sharing block starts with one user: the party that created it. Every
// slot registered through an AssignShared* entry point adds a user; every
// slot teardown removes one.
type Sharing struct {
	users   atomic.Int64
	release func()
}

// NewSharing creates a control block with a single initial user.
func NewSharing(release func()) *Sharing {
	s := &Sharing{release: release}
	s.users.Store(1)
	return s
}

// AddUser registers an additional holder of the shared region.
func (s *Sharing) AddUser() {
	s.users.Add(1)
}

// RemoveUserAndDeleteIfLast drops one holder and reports whether it was the
// last one, in which case the region has been released.
func (s *Sharing) RemoveUserAndDeleteIfLast() bool {
	if s.users.Add(-1) > 0 {
		return false
	}
	if s.release != nil {
		s.release()
	}
	return true
}

// Users returns the current number of holders.
func (s *Sharing) Users() int {
	return int(s.users.Load())
}
