package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Client is an abstraction layer for interacting with AWS services.
type Client struct {
	s3 s3iface.S3API
}

// NewClient creates a new AWS client, expecting that the environment variables configure the settings.
// A non-empty region overrides the configured one.
func NewClient(region string) *Client {
	cfg := awssdk.Config{}
	if region != "" {
		cfg.Region = awssdk.String(region)
	}
	sess := session.Must(session.NewSessionWithOptions(session.Options{
		Config:            cfg,
		SharedConfigState: session.SharedConfigEnable,
	}))
	return NewClientWithAPI(s3.New(sess))
}

// NewClientWithAPI wraps an existing S3 API implementation.
func NewClientWithAPI(api s3iface.S3API) *Client {
	return &Client{s3: api}
}

// GetHeadObject fetches the object metadata.
func (c *Client) GetHeadObject(ctx context.Context, bucket, key string) (*s3.HeadObjectOutput, error) {
	output, err := c.s3.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error getting S3 head object (bucket: %s)(key: %s)", bucket, key)
	}
	return output, nil
}

// GetS3ObjectWithRange fetches the inclusive byte range [start, end] of an object.
func (c *Client) GetS3ObjectWithRange(ctx context.Context, bucket, key string, start, end int64) (*s3.GetObjectOutput, error) {
	byteRange := fmt.Sprintf("bytes=%d-%d", start, end)
	log.Debugf("fetching S3 object range (bucket: %s)(key: %s)(range: %s)", bucket, key, byteRange)
	output, err := c.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Range:  &byteRange,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error getting S3 object (bucket: %s)(key: %s)(range: %s)", bucket, key, byteRange)
	}
	return output, nil
}
