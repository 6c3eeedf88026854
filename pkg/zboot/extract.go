package zboot

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alec-rabold/zbootspy/pkg/aws"
	"github.com/alec-rabold/zbootspy/pkg/reader"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Config holds the Extractor settings
type Config struct {
	// BufferSize is the copy buffer size; DefaultBufferSize when zero.
	BufferSize int
	// Force allows an existing output file to be overwritten.
	Force bool
	// Region overrides the AWS region used for s3:// inputs.
	Region string
	// S3 is used for s3:// inputs instead of a client built from the environment.
	S3 *aws.Client
}

// Extractor reads EFI zboot headers and copies out the compressed payload
type Extractor struct {
	ctx    context.Context
	config Config
}

// NewExtractor creates a new instance of Extractor
func NewExtractor(ctx context.Context, config Config) *Extractor {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultBufferSize
	}
	return &Extractor{
		ctx:    ctx,
		config: config,
	}
}

func (x *Extractor) s3Client() *aws.Client {
	if x.config.S3 == nil {
		x.config.S3 = aws.NewClient(x.config.Region)
	}
	return x.config.S3
}

// Run opens input, reports its header to report and, when output is not
// empty, copies the payload into it. The header is fully validated before
// the output is touched.
func (x *Extractor) Run(input, output string, report io.Writer) (reader.Header, error) {
	src, err := OpenSource(x.ctx, input, x.s3Client)
	if err != nil {
		return reader.Header{}, err
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.Errorf("error closing input (name: %s), err: %v", input, err)
		}
	}()

	hdr, err := ReadHeader(src)
	if err != nil {
		if !errors.Is(err, reader.ErrTruncatedInput) && !errors.Is(err, reader.ErrNotZbootImage) {
			// the input opened but cannot be read, e.g. a failed S3 range request
			err = errors.Wrapf(ErrInputOpen, "error reading %s: %v", input, err)
		}
		return reader.Header{}, err
	}
	if err := WriteReport(report, hdr); err != nil {
		return hdr, errors.Wrap(err, "error writing report")
	}
	if output == "" {
		return hdr, nil
	}
	return hdr, x.ExtractFile(src, hdr, output)
}

// ReadHeader reads, validates and normalizes the header at the start of r.
func ReadHeader(r io.Reader) (reader.Header, error) {
	raw, err := reader.ReadHeader(r)
	if err != nil {
		return reader.Header{}, err
	}
	if err := raw.Validate(); err != nil {
		return reader.Header{}, err
	}

	hdr := raw.Normalize()
	log.Debugf("zboot header (compression: %s)(payload offset: %d)(payload size: %d)(pe header offset: %d)",
		hdr.Compression(), hdr.PayloadOffset, hdr.PayloadSize, hdr.PEHeaderOffset)
	if name := hdr.Compression(); !reader.IsKnownCompression(name) {
		log.Warnf("unknown compression type %q, payload is copied as is", name)
	}
	return hdr, nil
}

// WriteReport prints the compression type, payload offset and payload size.
func WriteReport(w io.Writer, hdr reader.Header) error {
	_, err := fmt.Fprintf(w, "Compression:    %s\nPayload offset: %d Bytes\nPayload size:   %d Bytes\n",
		hdr.Compression(), hdr.PayloadOffset, hdr.PayloadSize)
	return err
}

// Extract copies the payload described by hdr from src to w.
func (x *Extractor) Extract(src io.ReadSeeker, hdr reader.Header, w io.Writer) error {
	return CopyPayload(src, w, int64(hdr.PayloadOffset), int64(hdr.PayloadSize), x.config.BufferSize)
}

// ExtractFile copies the payload into the file at output. On failure the
// partially written file is removed.
func (x *Extractor) ExtractFile(src io.ReadSeeker, hdr reader.Header, output string) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !x.config.Force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(output, flags, 0644)
	if err != nil {
		return errors.Wrapf(ErrOutputOpen, "error opening %s: %v", output, err)
	}

	err = x.Extract(src, hdr, f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = &OpError{Op: "close", Offset: int64(hdr.PayloadOffset) + int64(hdr.PayloadSize), Kind: ErrWrite, Err: cerr}
	}
	if err != nil {
		if rerr := os.Remove(output); rerr != nil {
			log.Errorf("error removing partial output (name: %s), err: %v", output, rerr)
		}
		return err
	}
	return nil
}
