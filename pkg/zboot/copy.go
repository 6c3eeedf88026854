package zboot

import (
	"io"

	"github.com/samber/lo"
)

// DefaultBufferSize bounds the memory used while copying a payload.
const DefaultBufferSize = 16384

// CopyPayload copies exactly length bytes starting at offset in the input to
// the current position of out, bufSize bytes at a time. A zero length seeks
// and copies nothing.
func CopyPayload(in io.ReadSeeker, out io.Writer, offset, length int64, bufSize int) error {
	if offset < 0 || length < 0 {
		return &OpError{Op: "seek", Offset: offset, Kind: ErrSeek}
	}
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	if _, err := in.Seek(offset, io.SeekStart); err != nil {
		return &OpError{Op: "seek", Offset: offset, Kind: ErrSeek, Err: err}
	}

	buf := make([]byte, lo.Min([]int64{length, int64(bufSize)}))
	pos := offset
	for remaining := length; remaining > 0; {
		size := lo.Min([]int64{remaining, int64(len(buf))})

		n, err := io.ReadFull(in, buf[:size])
		if err != nil {
			return &OpError{Op: "read", Offset: pos + int64(n), Kind: ErrShortRead, Err: err}
		}

		n, err = out.Write(buf[:size])
		if err == nil && int64(n) != size {
			err = io.ErrShortWrite
		}
		if err != nil {
			return &OpError{Op: "write", Offset: pos + int64(n), Kind: ErrWrite, Err: err}
		}

		pos += size
		remaining -= size
	}
	return nil
}
