package imbuf

import "golang.org/x/text/unicode/norm"

// Metadata is the ordered key/value store attached to a buffer. Keys arrive
// from file-format text chunks and are NFC-normalized, so lookups succeed
// regardless of the Unicode composition the codec emitted.
//
// A buffer's metadata is never carried over by [ImBuf.Dup]; only
// [ImBuf.MakeSingleUser] copies it onto the duplicate.
type Metadata struct {
	keys   []string
	values map[string]string
}

// newMetadata creates an empty store.
func newMetadata() *Metadata {
	return &Metadata{values: make(map[string]string)}
}

// EnsureMetadata returns the buffer's metadata store, creating it when the
// buffer has none yet.
func (ibuf *ImBuf) EnsureMetadata() *Metadata {
	if ibuf.metadata == nil {
		ibuf.metadata = newMetadata()
	}
	return ibuf.metadata
}

// Metadata returns the buffer's metadata store, or nil when none exists.
func (ibuf *ImBuf) Metadata() *Metadata { return ibuf.metadata }

// GetMetadata looks up the value stored under key.
func (ibuf *ImBuf) GetMetadata(key string) (string, bool) {
	if ibuf.metadata == nil {
		return "", false
	}
	v, ok := ibuf.metadata.values[norm.NFC.String(key)]
	return v, ok
}

// SetMetadata stores value under key, replacing any previous value.
func (ibuf *ImBuf) SetMetadata(key, value string) {
	m := ibuf.EnsureMetadata()
	k := norm.NFC.String(key)
	if _, exists := m.values[k]; !exists {
		m.keys = append(m.keys, k)
	}
	m.values[k] = value
}

// DelMetadata removes the entry stored under key, if any.
func (ibuf *ImBuf) DelMetadata(key string) {
	if ibuf.metadata == nil {
		return
	}
	k := norm.NFC.String(key)
	if _, exists := ibuf.metadata.values[k]; !exists {
		return
	}
	delete(ibuf.metadata.values, k)
	for i, existing := range ibuf.metadata.keys {
		if existing == k {
			ibuf.metadata.keys = append(ibuf.metadata.keys[:i], ibuf.metadata.keys[i+1:]...)
			break
		}
	}
}

// CopyMetadata replaces the buffer's metadata with a copy of src's. A src
// without metadata clears the destination store.
func (ibuf *ImBuf) CopyMetadata(src *ImBuf) {
	if src == nil || src.metadata == nil {
		ibuf.metadata = nil
		return
	}
	m := newMetadata()
	m.keys = append(m.keys, src.metadata.keys...)
	for k, v := range src.metadata.values {
		m.values[k] = v
	}
	ibuf.metadata = m
}

// ForeachMetadata calls fn for every entry in insertion order.
func (ibuf *ImBuf) ForeachMetadata(fn func(key, value string)) {
	if ibuf.metadata == nil {
		return
	}
	for _, k := range ibuf.metadata.keys {
		fn(k, ibuf.metadata.values[k])
	}
}
