package reader

import (
	"github.com/pkg/errors"
)

var (
	// ErrTruncatedInput indicates fewer than HeaderLen bytes were available for the header
	ErrTruncatedInput = errors.New("zboot: truncated header")
	// ErrNotZbootImage indicates one or more magic numbers did not match
	ErrNotZbootImage = errors.New("zboot: input is not a kernel EFI image")
)

const (
	// HeaderLen is the fixed on-disk size of a zboot header.
	HeaderLen = 64

	msdosMagicLen      = 2
	reserved0Len       = 2
	zimgLen            = 4
	reserved1Len       = 8
	compressionTypeLen = 32
	linuxMagicLen      = 4
)

var (
	// MSDOSMagic is the PE/COFF MS-DOS stub magic number.
	MSDOSMagic = [msdosMagicLen]byte{'M', 'Z'}
	// ZImgMagic marks a Linux EFI zboot image.
	ZImgMagic = [zimgLen]byte{'z', 'i', 'm', 'g'}
	// LinuxMagic is the Linux header magic for an EFI PE/COFF image
	// targeting an unspecified architecture.
	LinuxMagic = [linuxMagicLen]byte{0xcd, 0x23, 0x82, 0x81}
)

// Compression types the kernel's zboot build is known to emit.
var knownCompressions = []string{"gzip", "lz4", "lzma", "lzo", "xz", "zstd", "bzip2"}

// RawHeader is a zboot header exactly as it is laid out on disk.
// Integer fields are kept in their little-endian byte order; see Normalize.
//
// The de facto definition of the format lives in the kernel tree at
// drivers/firmware/efi/libstub/zboot-header.S.
type RawHeader struct {
	MSDOSMagic      [msdosMagicLen]byte
	Reserved0       [reserved0Len]byte
	ZImg            [zimgLen]byte
	PayloadOffset   [4]byte
	PayloadSize     [4]byte
	Reserved1       [reserved1Len]byte
	CompressionType [compressionTypeLen]byte
	LinuxMagic      [linuxMagicLen]byte
	PEHeaderOffset  [4]byte
}

// Header is a validated zboot header with integers in native byte order.
type Header struct {
	// PayloadOffset is the offset of the compressed payload from the start of the image.
	PayloadOffset uint32
	// PayloadSize is the length in bytes of the compressed payload.
	PayloadSize uint32
	// PEHeaderOffset is the offset of the embedded PE header. Extraction does not use it.
	PEHeaderOffset uint32

	CompressionType [compressionTypeLen]byte
}
