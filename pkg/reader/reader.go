package reader

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// ReadHeader reads exactly HeaderLen bytes from r and splits them into the
// fields of a RawHeader. The read cursor of r advances by HeaderLen.
func ReadHeader(r io.Reader) (*RawHeader, error) {
	var buf [HeaderLen]byte
	n, err := io.ReadFull(r, buf[:])
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return nil, errors.Wrapf(ErrTruncatedInput, "read %d of %d bytes", n, HeaderLen)
	}
	if err != nil {
		return nil, errors.Wrap(err, "error reading EFI zboot header")
	}

	h := &RawHeader{}
	b := readBuf(buf[:])
	copy(h.MSDOSMagic[:], b.sub(msdosMagicLen))
	copy(h.Reserved0[:], b.sub(reserved0Len))
	copy(h.ZImg[:], b.sub(zimgLen))
	copy(h.PayloadOffset[:], b.sub(4))
	copy(h.PayloadSize[:], b.sub(4))
	copy(h.Reserved1[:], b.sub(reserved1Len))
	copy(h.CompressionType[:], b.sub(compressionTypeLen))
	copy(h.LinuxMagic[:], b.sub(linuxMagicLen))
	copy(h.PEHeaderOffset[:], b.sub(4))
	return h, nil
}

// Validate checks the three magic numbers. A mismatch in any of them yields
// ErrNotZbootImage; which one failed is only logged at debug level.
func (h *RawHeader) Validate() error {
	var failed []string
	if h.MSDOSMagic != MSDOSMagic {
		failed = append(failed, "msdos magic")
	}
	if h.ZImg != ZImgMagic {
		failed = append(failed, "zimg")
	}
	if h.LinuxMagic != LinuxMagic {
		failed = append(failed, "linux magic")
	}
	if len(failed) > 0 {
		log.Debugf("zboot header magic mismatch (fields: %s)", strings.Join(failed, ", "))
		return ErrNotZbootImage
	}
	return nil
}

// Normalize converts the little-endian integer fields to native integers.
func (h *RawHeader) Normalize() Header {
	return Header{
		PayloadOffset:   binary.LittleEndian.Uint32(h.PayloadOffset[:]),
		PayloadSize:     binary.LittleEndian.Uint32(h.PayloadSize[:]),
		PEHeaderOffset:  binary.LittleEndian.Uint32(h.PEHeaderOffset[:]),
		CompressionType: h.CompressionType,
	}
}

// Compression returns the compression algorithm name with its NUL padding
// and any trailing bytes outside printable ASCII removed.
func (h Header) Compression() string {
	b := h.CompressionType[:]
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	for len(b) > 0 && !isPrintASCII(b[len(b)-1]) {
		b = b[:len(b)-1]
	}
	return string(b)
}

func isPrintASCII(c byte) bool {
	return c >= 0x20 && c < 0x7f
}

// IsKnownCompression reports whether name is a compression type that kernel
// zboot images are built with.
func IsKnownCompression(name string) bool {
	return lo.Contains(knownCompressions, name)
}

type readBuf []byte

func (b *readBuf) sub(n int) readBuf {
	b2 := (*b)[:n]
	*b = (*b)[n:]
	return b2
}
