package imbuf

import "sync"

// Flags records which representations of the image are currently valid.
type Flags uint32

const (
	// FlagRect marks a valid byte-pixel plane.
	FlagRect Flags = 1 << iota

	// FlagRectFloat marks a valid float-pixel plane.
	FlagRectFloat

	// FlagZBuf marks a valid integer depth plane.
	FlagZBuf

	// FlagZBufFloat marks a valid float depth plane.
	FlagZBufFloat

	// FlagMem marks a valid encoded (compressed) byte region.
	FlagMem
)

// FileType identifies the on-disk format associated with the buffer.
type FileType uint8

const (
	// FileTypeNone means no format has been associated yet.
	FileTypeNone FileType = iota

	// FileTypePNG is the default format for newly created buffers.
	FileTypePNG

	// FileTypeJPEG is the JPEG format.
	FileTypeJPEG

	// FileTypeOpenEXR is the OpenEXR high-dynamic-range format.
	FileTypeOpenEXR

	// FileTypeDDS is the DirectDraw Surface format, whose decoder supplies
	// foreign-allocated data.
	FileTypeDDS
)

// FormatOptions carries per-format write options.
type FormatOptions struct {
	// Quality is the codec-specific compression setting.
	Quality int

	// Flag holds codec-specific option bits.
	Flag uint32
}

const (
	// MipmapLevels is the fixed capacity of the mipmap chain.
	MipmapLevels = 20

	// DefaultChannels is the channel count of a freshly created buffer.
	DefaultChannels = 4

	// DefaultQuality sets compression to a low ratio that is cheap to encode.
	DefaultQuality = 15

	// DefaultDPI is the pixel density assumed when none is known.
	DefaultDPI = 72.0

	// metersPerInch converts the DPI default to pixels per meter.
	metersPerInch = 0.0254
)

// ImBuf is the reference-counted container aggregating all pixel, depth and
// encoded representations of one image.
//
// Buffers are created with [New] (or the NewFrom* constructors), handed
// around by handle with [ImBuf.Ref], and torn down by [ImBuf.Free] when the
// last holder releases them.
type ImBuf struct {
	x, y     uint
	planes   uint8
	channels uint
	flags    Flags

	byteBuffer    buffer[uint8]
	floatBuffer   buffer[float32]
	zBuffer       buffer[int32]
	zBufferFloat  buffer[float32]
	encodedBuffer buffer[uint8]

	encodedSize       uint // bytes in use
	encodedBufferSize uint // bytes allocated

	// The chain has fixed capacity and an advisory count: partial
	// regeneration can leave live levels past mipTot, so teardown scans the
	// whole array.
	mipmap [MipmapLevels]*ImBuf
	mipTot int

	// refcounter counts additional holders beyond the creator; 0 means the
	// creator is the sole owner. Guarded by mu; nothing else is.
	mu         sync.Mutex
	refcounter int

	filePath string
	fileType FileType
	foptions FormatOptions
	ppm      [2]float64

	metadata *Metadata
	display  *displayCache

	// foreign holds a region produced by an external decoder (for example
	// the DDS reader). It is released through its own closure at teardown.
	foreign buffer[uint8]
}

// New creates a buffer of the given dimensions and allocates the planes
// requested by flags. planes above 32 imply an integer depth plane whenever
// the byte plane is allocated.
//
// On any plane allocation failure the partially constructed buffer is torn
// down and an error returned.
func New(x, y uint, planes uint8, flags Flags) (*ImBuf, error) {
	ibuf := &ImBuf{
		x:        x,
		y:        y,
		planes:   planes,
		channels: DefaultChannels,
		fileType: FileTypePNG,
		foptions: FormatOptions{Quality: DefaultQuality},
		ppm:      [2]float64{DefaultDPI / metersPerInch, DefaultDPI / metersPerInch},
	}

	if err := ibuf.addPlanes(flags); err != nil {
		ibuf.Free()
		return nil, err
	}
	return ibuf, nil
}

// addPlanes allocates the planes named by flags.
func (ibuf *ImBuf) addPlanes(flags Flags) error {
	if flags&FlagRect != 0 {
		if err := ibuf.AddRect(); err != nil {
			return err
		}
	}
	if flags&FlagRectFloat != 0 {
		if err := ibuf.AddRectFloat(ibuf.channels); err != nil {
			return err
		}
	}
	if flags&FlagZBuf != 0 {
		if err := ibuf.AddZBuf(); err != nil {
			return err
		}
	}
	if flags&FlagZBufFloat != 0 {
		if err := ibuf.AddZBufFloat(); err != nil {
			return err
		}
	}
	return nil
}

// Width returns the image width in pixels.
func (ibuf *ImBuf) Width() uint { return ibuf.x }

// Height returns the image height in pixels.
func (ibuf *ImBuf) Height() uint { return ibuf.y }

// Planes returns the bit-depth indicator of the buffer.
func (ibuf *ImBuf) Planes() uint8 { return ibuf.planes }

// Channels returns the channel count of the float plane.
func (ibuf *ImBuf) Channels() uint { return ibuf.channels }

// Flags returns the validity flags of the buffer's representations.
func (ibuf *ImBuf) Flags() Flags { return ibuf.flags }

// Bytes returns the byte-pixel plane, or nil when it is not populated.
// Call [ImBuf.MakeWritableByteBuffer] before mutating it in place.
func (ibuf *ImBuf) Bytes() []uint8 { return ibuf.byteBuffer.data }

// FloatPixels returns the float-pixel plane, or nil when not populated.
func (ibuf *ImBuf) FloatPixels() []float32 { return ibuf.floatBuffer.data }

// ZBuf returns the integer depth plane, or nil when not populated.
func (ibuf *ImBuf) ZBuf() []int32 { return ibuf.zBuffer.data }

// ZBufFloat returns the float depth plane, or nil when not populated.
func (ibuf *ImBuf) ZBufFloat() []float32 { return ibuf.zBufferFloat.data }

// FilePath returns the path the buffer was loaded from or will be saved to.
func (ibuf *ImBuf) FilePath() string { return ibuf.filePath }

// SetFilePath records the path associated with the buffer.
func (ibuf *ImBuf) SetFilePath(path string) { ibuf.filePath = path }

// FileType returns the on-disk format associated with the buffer.
func (ibuf *ImBuf) FileType() FileType { return ibuf.fileType }

// SetFileType records the on-disk format associated with the buffer.
func (ibuf *ImBuf) SetFileType(t FileType) { ibuf.fileType = t }

// Options returns the per-format write options.
func (ibuf *ImBuf) Options() FormatOptions { return ibuf.foptions }

// SetOptions replaces the per-format write options.
func (ibuf *ImBuf) SetOptions(o FormatOptions) { ibuf.foptions = o }

// PPM returns the pixel density in pixels per meter, per axis.
func (ibuf *ImBuf) PPM() [2]float64 { return ibuf.ppm }

// SetPPM records the pixel density in pixels per meter, per axis.
func (ibuf *ImBuf) SetPPM(ppm [2]float64) { ibuf.ppm = ppm }

// RefCount returns the number of additional holders beyond the creator.
func (ibuf *ImBuf) RefCount() int {
	ibuf.mu.Lock()
	defer ibuf.mu.Unlock()
	return ibuf.refcounter
}

// AddRect allocates the byte-pixel plane. An existing byte plane is freed
// first, but mipmaps are kept: the plane is often added just to give a
// float image a display buffer. When planes exceeds 32 the integer depth
// plane is allocated along with it.
func (ibuf *ImBuf) AddRect() error {
	if ibuf == nil {
		return ErrNilBuffer
	}
	ibuf.byteBuffer.free()
	if err := ibuf.byteBuffer.alloc(ibuf.x, ibuf.y, 4, "imbuf byte pixels"); err != nil {
		return err
	}
	ibuf.flags |= FlagRect
	ibuf.invalidateDisplayCache()

	if ibuf.planes > 32 {
		return ibuf.AddZBuf()
	}
	return nil
}

// AddRectFloat allocates the float-pixel plane with the given channel
// count. An existing float plane is freed first, together with the mipmap
// chain derived from it.
func (ibuf *ImBuf) AddRectFloat(channels uint) error {
	if ibuf == nil {
		return ErrNilBuffer
	}
	if ibuf.floatBuffer.data != nil {
		ibuf.FreeRectFloat()
	}
	if err := ibuf.floatBuffer.alloc(ibuf.x, ibuf.y, channels, "imbuf float pixels"); err != nil {
		return err
	}
	ibuf.channels = channels
	ibuf.flags |= FlagRectFloat
	ibuf.invalidateDisplayCache()
	return nil
}

// AddZBuf allocates the integer depth plane, freeing any existing one.
func (ibuf *ImBuf) AddZBuf() error {
	if ibuf == nil {
		return ErrNilBuffer
	}
	ibuf.FreeZBuf()
	if err := ibuf.zBuffer.alloc(ibuf.x, ibuf.y, 1, "imbuf z buffer"); err != nil {
		return err
	}
	ibuf.flags |= FlagZBuf
	return nil
}

// AddZBufFloat allocates the float depth plane, freeing any existing one.
func (ibuf *ImBuf) AddZBufFloat() error {
	if ibuf == nil {
		return ErrNilBuffer
	}
	ibuf.FreeZBufFloat()
	if err := ibuf.zBufferFloat.alloc(ibuf.x, ibuf.y, 1, "imbuf float z buffer"); err != nil {
		return err
	}
	ibuf.flags |= FlagZBufFloat
	return nil
}

// FreeRect frees the byte-pixel plane and the mipmap chain derived from it.
func (ibuf *ImBuf) FreeRect() {
	if ibuf == nil {
		return
	}
	ibuf.byteBuffer.free()
	ibuf.freeMipmaps()
	ibuf.flags &^= FlagRect
	ibuf.invalidateDisplayCache()
}

// FreeRectFloat frees the float-pixel plane and the mipmap chain derived
// from it.
func (ibuf *ImBuf) FreeRectFloat() {
	if ibuf == nil {
		return
	}
	ibuf.floatBuffer.free()
	ibuf.freeMipmaps()
	ibuf.flags &^= FlagRectFloat
	ibuf.invalidateDisplayCache()
}

// FreeZBuf frees the integer depth plane.
func (ibuf *ImBuf) FreeZBuf() {
	if ibuf == nil {
		return
	}
	ibuf.zBuffer.free()
	ibuf.flags &^= FlagZBuf
}

// FreeZBufFloat frees the float depth plane.
func (ibuf *ImBuf) FreeZBufFloat() {
	if ibuf == nil {
		return
	}
	ibuf.zBufferFloat.free()
	ibuf.flags &^= FlagZBufFloat
}

// freeAll frees every slot of the buffer.
func (ibuf *ImBuf) freeAll() {
	ibuf.FreeRect()
	ibuf.FreeRectFloat()
	ibuf.FreeZBuf()
	ibuf.FreeZBufFloat()
	ibuf.freeEncoded()
}
