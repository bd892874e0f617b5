package imbuf

import (
	"sync"

	"github.com/feilipingmian/imbuf/internal/mem"
)

// displayCache holds display-ready conversions of the pixel planes, keyed
// by view name. Entries are invalidated whenever a pixel slot changes and
// freed with the buffer. Duplication never carries the cache over.
type displayCache struct {
	mu    sync.Mutex
	views map[string][]uint8
}

// DisplayBuffer returns the cached display conversion for view, building
// and caching it on a miss. The build result is copied into an owned region
// so teardown accounting covers it. Returns nil when build returns nil.
func (ibuf *ImBuf) DisplayBuffer(view string, build func() []uint8) []uint8 {
	if ibuf.display == nil {
		ibuf.display = &displayCache{views: make(map[string][]uint8)}
	}
	c := ibuf.display

	c.mu.Lock()
	defer c.mu.Unlock()

	if data, ok := c.views[view]; ok {
		return data
	}
	data := build()
	if data == nil {
		return nil
	}
	owned := mem.Dup(data, "imbuf display buffer")
	c.views[view] = owned
	return owned
}

// invalidateDisplayCache drops every cached display conversion. Called by
// every operation that replaces or mutates a pixel slot.
func (ibuf *ImBuf) invalidateDisplayCache() {
	if ibuf.display == nil {
		return
	}
	c := ibuf.display
	c.mu.Lock()
	for view, data := range c.views {
		mem.Free(data)
		delete(c.views, view)
	}
	c.mu.Unlock()
}

// freeDisplayCache releases the cache at teardown.
func (ibuf *ImBuf) freeDisplayCache() {
	ibuf.invalidateDisplayCache()
	ibuf.display = nil
}
