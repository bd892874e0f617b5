// Package imbuf implements the reference-counted, multi-representation
// image buffer container.
//
// # Overview
//
// An [ImBuf] aggregates up to five independently-owned regions of one image:
// byte pixels, float pixels, integer depth, float depth, and an encoded
// (compressed) byte stream, plus a chain of downsampled mipmap levels.
// Codec readers and writers, the UI and scripting layers populate one or
// more of these slots, pass the buffer around by reference-counted handle,
// and release it; the last release tears down every slot and the mipmap
// chain.
//
// # Ownership model
//
// Each slot carries its own ownership variant:
//   - owned: allocated through the package's guarded allocator and freed
//     when the slot is cleared or the buffer is torn down.
//   - borrowed: the region belongs to someone else; it is never freed here
//     and must not be mutated in place.
//   - shared: one of several holders of the same region, arbitrated by a
//     [Sharing] control block whose last user frees the region.
//   - foreign: produced by an external decoder and released through its own
//     closure, never through the general allocator.
//
// The intended mutation discipline is copy-on-write: call the
// MakeWritable* entry points (or [ImBuf.MakeSingleUser]) before writing
// pixels on a buffer that may have other holders.
//
// # Concurrency
//
// The reference counter is guarded by a per-buffer mutex, so [ImBuf.Ref],
// [ImBuf.Free] and [ImBuf.MakeSingleUser] are safe to call from any
// goroutine. All other state (slots, flags, metadata) is deliberately
// unsynchronized; concurrent mutation of a shared buffer is a caller
// responsibility, to be avoided via the copy-on-write discipline above.
package imbuf
