package zboot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"testing"

	awssdk "github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// testImage builds a zboot image with the given payload placed at offset.
// size is written into the header as is, so it may disagree with the payload.
func testImage(compression string, offset, size uint32, payload []byte) []byte {
	img := make([]byte, int(offset)+len(payload))
	if len(img) < 64 {
		img = append(img, make([]byte, 64-len(img))...)
	}
	copy(img[0:], "MZ")
	copy(img[4:], "zimg")
	binary.LittleEndian.PutUint32(img[8:], offset)
	binary.LittleEndian.PutUint32(img[12:], size)
	copy(img[24:], compression)
	copy(img[56:], []byte{0xcd, 0x23, 0x82, 0x81})
	binary.LittleEndian.PutUint32(img[60:], 0x40)
	copy(img[offset:], payload)
	return img
}

func testPayload(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(i*7 + 3)
	}
	return p
}

func writeTempFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(path, data, 0644))
	return path
}

type fakeS3 struct {
	s3iface.S3API
	objects map[string][]byte
	getErr  error
}

func (f *fakeS3) HeadObjectWithContext(_ awssdk.Context, in *s3.HeadObjectInput, _ ...request.Option) (*s3.HeadObjectOutput, error) {
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, errors.New("NotFound")
	}
	return &s3.HeadObjectOutput{ContentLength: awssdk.Int64(int64(len(data)))}, nil
}

func (f *fakeS3) GetObjectWithContext(_ awssdk.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data := f.objects[*in.Bucket+"/"+*in.Key]
	var start, end int64
	if _, err := fmt.Sscanf(*in.Range, "bytes=%d-%d", &start, &end); err != nil {
		return nil, err
	}
	return &s3.GetObjectOutput{Body: ioutil.NopCloser(bytes.NewReader(data[start : end+1]))}, nil
}
