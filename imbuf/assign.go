package imbuf

// The Assign*/AssignShared*/Steal*/MakeWritable* families below are the
// whole contract external format readers and writers rely on to hand pixel
// data into or out of a buffer without knowing its internal layout. The
// semantics are uniform across the four plane kinds:
//
//   - Assign frees the current plane, installs the region with the given
//     ownership tag and maintains the validity flag; nil data leaves the
//     plane empty.
//   - AssignShared routes through the shared-ownership registration path.
//   - Steal transfers an exclusively owned region to the caller and clears
//     the flag; borrowed and shared planes are refused.
//   - MakeWritable guarantees in-place mutation is safe; it clears no flags.

// AssignByteBuffer frees the current byte plane and installs data with the
// given ownership.
func (ibuf *ImBuf) AssignByteBuffer(data []uint8, own Ownership) {
	ibuf.byteBuffer.assign(data, own)
	ibuf.setFlag(FlagRect, ibuf.byteBuffer.data != nil)
	ibuf.invalidateDisplayCache()
}

// AssignFloatBuffer frees the current float plane and installs data with
// the given ownership.
func (ibuf *ImBuf) AssignFloatBuffer(data []float32, own Ownership) {
	ibuf.floatBuffer.assign(data, own)
	ibuf.setFlag(FlagRectFloat, ibuf.floatBuffer.data != nil)
	ibuf.invalidateDisplayCache()
}

// AssignZBuffer frees the current integer depth plane and installs data
// with the given ownership.
func (ibuf *ImBuf) AssignZBuffer(data []int32, own Ownership) {
	ibuf.zBuffer.assign(data, own)
	ibuf.setFlag(FlagZBuf, ibuf.zBuffer.data != nil)
}

// AssignZBufferFloat frees the current float depth plane and installs data
// with the given ownership.
func (ibuf *ImBuf) AssignZBufferFloat(data []float32, own Ownership) {
	ibuf.zBufferFloat.assign(data, own)
	ibuf.setFlag(FlagZBufFloat, ibuf.zBufferFloat.data != nil)
}

// AssignSharedByteBuffer registers the byte plane as an additional holder
// of a shared region. A nil sharing block demands nil data.
func (ibuf *ImBuf) AssignSharedByteBuffer(data []uint8, sharing *Sharing) {
	ibuf.byteBuffer.assignShared(data, sharing)
	ibuf.setFlag(FlagRect, ibuf.byteBuffer.data != nil)
	ibuf.invalidateDisplayCache()
}

// AssignSharedFloatBuffer registers the float plane as an additional holder
// of a shared region. A nil sharing block demands nil data.
func (ibuf *ImBuf) AssignSharedFloatBuffer(data []float32, sharing *Sharing) {
	ibuf.floatBuffer.assignShared(data, sharing)
	ibuf.setFlag(FlagRectFloat, ibuf.floatBuffer.data != nil)
	ibuf.invalidateDisplayCache()
}

// AssignSharedZBuffer registers the integer depth plane as an additional
// holder of a shared region. A nil sharing block demands nil data.
func (ibuf *ImBuf) AssignSharedZBuffer(data []int32, sharing *Sharing) {
	ibuf.zBuffer.assignShared(data, sharing)
	ibuf.setFlag(FlagZBuf, ibuf.zBuffer.data != nil)
}

// AssignSharedZBufferFloat registers the float depth plane as an additional
// holder of a shared region. A nil sharing block demands nil data.
func (ibuf *ImBuf) AssignSharedZBufferFloat(data []float32, sharing *Sharing) {
	ibuf.zBufferFloat.assignShared(data, sharing)
	ibuf.setFlag(FlagZBufFloat, ibuf.zBufferFloat.data != nil)
}

// StealByteBuffer transfers the byte plane to the caller. Stealing a
// borrowed or shared plane fails, returns nil and leaves the plane intact.
func (ibuf *ImBuf) StealByteBuffer() []uint8 {
	data := ibuf.byteBuffer.steal()
	if data != nil {
		ibuf.flags &^= FlagRect
		ibuf.invalidateDisplayCache()
	}
	return data
}

// StealFloatBuffer transfers the float plane to the caller. Stealing a
// borrowed or shared plane fails, returns nil and leaves the plane intact.
func (ibuf *ImBuf) StealFloatBuffer() []float32 {
	data := ibuf.floatBuffer.steal()
	if data != nil {
		ibuf.flags &^= FlagRectFloat
		ibuf.invalidateDisplayCache()
	}
	return data
}

// StealZBuffer transfers the integer depth plane to the caller. Stealing a
// borrowed or shared plane fails, returns nil and leaves the plane intact.
func (ibuf *ImBuf) StealZBuffer() []int32 {
	data := ibuf.zBuffer.steal()
	if data != nil {
		ibuf.flags &^= FlagZBuf
	}
	return data
}

// StealZBufferFloat transfers the float depth plane to the caller. Stealing
// a borrowed or shared plane fails, returns nil and leaves the plane intact.
func (ibuf *ImBuf) StealZBufferFloat() []float32 {
	data := ibuf.zBufferFloat.steal()
	if data != nil {
		ibuf.flags &^= FlagZBufFloat
	}
	return data
}

// StealEncodedBuffer transfers the encoded region to the caller and resets
// the used size and capacity bookkeeping.
func (ibuf *ImBuf) StealEncodedBuffer() []uint8 {
	data := ibuf.encodedBuffer.steal()
	if data != nil {
		ibuf.encodedSize = 0
		ibuf.encodedBufferSize = 0
		ibuf.flags &^= FlagMem
	}
	return data
}

// MakeWritableByteBuffer guarantees the byte plane can be mutated in place
// without affecting any other holder.
func (ibuf *ImBuf) MakeWritableByteBuffer() {
	ibuf.byteBuffer.makeWritable("imbuf byte pixels")
}

// MakeWritableFloatBuffer guarantees the float plane can be mutated in
// place without affecting any other holder.
func (ibuf *ImBuf) MakeWritableFloatBuffer() {
	ibuf.floatBuffer.makeWritable("imbuf float pixels")
}

// MakeWritableZBuffer guarantees the integer depth plane can be mutated in
// place without affecting any other holder.
func (ibuf *ImBuf) MakeWritableZBuffer() {
	ibuf.zBuffer.makeWritable("imbuf z buffer")
}

// MakeWritableZBufferFloat guarantees the float depth plane can be mutated
// in place without affecting any other holder.
func (ibuf *ImBuf) MakeWritableZBufferFloat() {
	ibuf.zBufferFloat.makeWritable("imbuf float z buffer")
}

// AssignForeignData installs a region produced by an external decoder along
// with the matching release routine. The region is released through that
// closure at teardown, never through the general allocator.
func (ibuf *ImBuf) AssignForeignData(data []uint8, release func([]uint8)) {
	ibuf.foreign.assignForeign(data, release)
}

// ForeignData returns the externally decoded region, or nil.
func (ibuf *ImBuf) ForeignData() []uint8 { return ibuf.foreign.data }

// setFlag sets or clears one validity flag bit.
func (ibuf *ImBuf) setFlag(f Flags, on bool) {
	if on {
		ibuf.flags |= f
	} else {
		ibuf.flags &^= f
	}
}
