// Package storage keeps uploaded campaign documents in S3-compatible object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/hebed-ai/hebed/internal/config"
)

// PresignTTL is how long a signed document URL stays valid. Links are signed per read,
// so only the key is ever persisted.
const PresignTTL = time.Hour

// S3 implements document storage for S3-compatible providers.
type S3 struct {
	api        s3iface.S3API
	uploader   *s3manager.Uploader
	bucket     string
	prefix     string
	publicBase string
}

func NewS3(c config.StorageConfig) (*S3, error) {
	cfg := aws.NewConfig().
		WithRegion(c.Region).
		WithLogger(s3logger{}).
		WithLogLevel(aws.LogOff)
	if c.EndpointURL != "" {
		cfg = cfg.WithEndpoint(c.EndpointURL).WithS3ForcePathStyle(true)
	}

	sess, err := session.NewSessionWithOptions(session.Options{Config: *cfg})
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize S3 session")
	}

	api := s3.New(sess)
	return &S3{
		api:        api,
		uploader:   s3manager.NewUploaderWithClient(api),
		bucket:     c.Bucket,
		prefix:     c.Prefix,
		publicBase: strings.TrimSuffix(c.PublicBaseURL, "/"),
	}, nil
}

// Upload stores a document under a fresh key in the campaign's folder and returns the key
func (s *S3) Upload(ctx context.Context, campaignID int64, filename, contentType string, reader io.Reader) (string, error) {
	key := s.buildKey(campaignID, filename)
	logger := log.WithField("key", key)

	logger.Infof("uploading document to %s", s.bucket)
	r := &readerWithN{Reader: reader}
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to upload document")
	}
	logger.Debugf("written %d bytes", r.n)

	return key, nil
}

// URL returns a public URL when a public base is configured, otherwise a presigned one
func (s *S3) URL(key string) (string, error) {
	if s.publicBase != "" {
		return s.publicBase + "/" + key, nil
	}

	req, _ := s.api.GetObjectRequest(&s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	url, err := req.Presign(PresignTTL)
	if err != nil {
		return "", errors.Wrapf(err, "failed to presign %s", key)
	}
	return url, nil
}

func (s *S3) buildKey(campaignID int64, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	name := fmt.Sprintf("campaigns/%d/%s%s", campaignID, uuid.NewString(), ext)
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

type readerWithN struct {
	io.Reader
	n int
}

func (r *readerWithN) Read(p []byte) (n int, err error) {
	n, err = r.Reader.Read(p)
	r.n += n
	return
}

type s3logger struct{}

func (s s3logger) Log(args ...interface{}) {
	log.Debug(args...)
}
