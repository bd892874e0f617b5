// Package mem provides tagged, zero-initialized allocation with live
// accounting for the image buffer container.
//
// Every pixel, depth and encoded region is allocated through this package
// under a human-readable tag. The package keeps a table of live regions so
// callers can query a region's recorded size, detect leaks in tests, and
// report per-tag usage for diagnostics. Freeing a region removes its
// accounting entry; the memory itself is reclaimed by the garbage collector
// once no references remain.
package mem

import (
	"sync"
	"unsafe"
)

// Element constrains the scalar element types stored in image buffer
// regions: byte pixels, 32-bit float pixels, and 32-bit integer depth.
type Element interface {
	~uint8 | ~int32 | ~float32
}

// allocation is one live region's accounting record.
type allocation struct {
	bytes int
	tag   string
}

var (
	mu   sync.Mutex
	live = map[uintptr]allocation{}
)

// SizeOf returns the in-memory size of one element of type T in bytes.
func SizeOf[T Element]() int {
	var v T
	return int(unsafe.Sizeof(v))
}

// regionKey identifies a region by the address of its backing array.
// Zero-capacity slices share a runtime sentinel address and are never
// tracked, so callers must not pass them here.
func regionKey[T Element](s []T) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(s)))
}

// Calloc allocates a zero-initialized region of n elements and records it
// under tag. Returns nil when n is not positive.
func Calloc[T Element](n int, tag string) []T {
	if n <= 0 {
		return nil
	}
	s := make([]T, n)
	mu.Lock()
	live[regionKey(s)] = allocation{bytes: n * SizeOf[T](), tag: tag}
	mu.Unlock()
	return s
}

// CallocBytes allocates a zero-initialized byte region recorded under tag.
func CallocBytes(n int, tag string) []byte {
	return Calloc[byte](n, tag)
}

// Dup allocates a region of the same length as s under tag and copies its
// contents. Returns nil for an empty source.
func Dup[T Element](s []T, tag string) []T {
	d := Calloc[T](len(s), tag)
	copy(d, s)
	return d
}

// Free ends the accounting of a region. It reports whether the region was
// tracked; freeing an untracked or empty region is a no-op. The memory is
// returned to the runtime once no references remain.
func Free[T Element](s []T) bool {
	if cap(s) == 0 {
		return false
	}
	key := regionKey(s)
	mu.Lock()
	_, ok := live[key]
	if ok {
		delete(live, key)
	}
	mu.Unlock()
	return ok
}

// Len returns the recorded byte length of a tracked region, or -1 when the
// region was not allocated through this package (or is empty).
func Len[T Element](s []T) int {
	if cap(s) == 0 {
		return -1
	}
	mu.Lock()
	a, ok := live[regionKey(s)]
	mu.Unlock()
	if !ok {
		return -1
	}
	return a.bytes
}

// InUse reports the number of live regions and their total size in bytes.
func InUse() (regions, bytes int) {
	mu.Lock()
	defer mu.Unlock()
	for _, a := range live {
		regions++
		bytes += a.bytes
	}
	return regions, bytes
}

// TagBytes reports the total live bytes recorded under tag.
func TagBytes(tag string) int {
	mu.Lock()
	defer mu.Unlock()
	total := 0
	for _, a := range live {
		if a.tag == tag {
			total += a.bytes
		}
	}
	return total
}
