package aws

import (
	"context"
	"io"

	"github.com/pkg/errors"
)

// ObjectReader reads an S3 object through ranged GET requests, so only the
// bytes actually read are downloaded.
type ObjectReader struct {
	client *Client
	ctx    context.Context
	bucket string
	key    string
	size   int64
	pos    int64
}

// NewObjectReader looks up the object size and returns a reader positioned at offset 0.
func (c *Client) NewObjectReader(ctx context.Context, bucket, key string) (*ObjectReader, error) {
	head, err := c.GetHeadObject(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	if head.ContentLength == nil {
		return nil, errors.Errorf("S3 object has no content length (bucket: %s)(key: %s)", bucket, key)
	}
	return &ObjectReader{
		client: c,
		ctx:    ctx,
		bucket: bucket,
		key:    key,
		size:   *head.ContentLength,
	}, nil
}

// Size returns the object size reported by S3.
func (o *ObjectReader) Size() int64 { return o.size }

// Read implements io.Reader with a single ranged GET per call.
func (o *ObjectReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if o.pos >= o.size {
		return 0, io.EOF
	}
	end := o.pos + int64(len(p))
	if end > o.size {
		end = o.size
	}
	output, err := o.client.GetS3ObjectWithRange(o.ctx, o.bucket, o.key, o.pos, end-1)
	if err != nil {
		return 0, err
	}
	defer output.Body.Close()

	n, err := io.ReadFull(output.Body, p[:end-o.pos])
	o.pos += int64(n)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return n, err
}

// Seek implements io.Seeker. Positions past the end of the object are rejected.
func (o *ObjectReader) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = o.pos + offset
	case io.SeekEnd:
		abs = o.size + offset
	default:
		return 0, errors.Errorf("invalid whence %d", whence)
	}
	if abs < 0 {
		return 0, errors.Errorf("negative position %d", abs)
	}
	if abs > o.size {
		return 0, errors.Errorf("position %d beyond object size %d", abs, o.size)
	}
	o.pos = abs
	return abs, nil
}

// Close is a no-op; every range request closes its own response body.
func (o *ObjectReader) Close() error { return nil }
