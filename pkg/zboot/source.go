package zboot

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/alec-rabold/zbootspy/pkg/aws"
	"github.com/pkg/errors"
)

const s3Scheme = "s3://"

// Source is a seekable input image.
type Source interface {
	io.ReadSeeker
	io.Closer
}

// parseS3URI splits s3://bucket/key. ok is false for anything that is not an S3 URI.
func parseS3URI(path string) (bucket, key string, ok bool, err error) {
	if !strings.HasPrefix(path, s3Scheme) {
		return "", "", false, nil
	}
	rest := strings.TrimPrefix(path, s3Scheme)
	i := strings.IndexByte(rest, '/')
	if i <= 0 || i == len(rest)-1 {
		return "", "", true, errors.Errorf("invalid S3 URI %q, expected s3://bucket/key", path)
	}
	return rest[:i], rest[i+1:], true, nil
}

// OpenSource opens a local file or, for s3://bucket/key paths, a ranged S3
// object reader. newClient is only called for S3 paths.
func OpenSource(ctx context.Context, path string, newClient func() *aws.Client) (Source, error) {
	bucket, key, isS3, err := parseS3URI(path)
	if err != nil {
		return nil, errors.Wrap(ErrInputOpen, err.Error())
	}
	if isS3 {
		r, err := newClient().NewObjectReader(ctx, bucket, key)
		if err != nil {
			return nil, errors.Wrapf(ErrInputOpen, "error opening %s: %v", path, err)
		}
		return r, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrInputOpen, "error opening %s: %v", path, err)
	}
	if info, err := f.Stat(); err == nil && info.IsDir() {
		f.Close()
		return nil, errors.Wrapf(ErrInputOpen, "error opening %s: is a directory", path)
	}
	return f, nil
}
