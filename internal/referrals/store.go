// Package referrals archives referral documents attached to inbound booking
// emails. Documents land in S3 under date-partitioned keys so clinic staff
// can find them by the day the message arrived.
package referrals

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/oakfield-labs/clinic-scheduler/pkg/logging"
)

// S3API is the subset of the S3 client used by Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store writes referral documents to S3. With no bucket configured every
// operation is a no-op, so callers never need to branch.
type Store struct {
	bucket string
	client S3API
	logger *logging.Logger
	now    func() time.Time
}

// NewStore creates a referral Store. An empty bucket disables archiving.
func NewStore(client S3API, bucket string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{bucket: bucket, client: client, logger: logger, now: time.Now}
}

// Enabled reports whether archiving is configured.
func (s *Store) Enabled() bool {
	return s != nil && s.bucket != "" && s.client != nil
}

// Archive stores one document and returns its S3 key.
func (s *Store) Archive(ctx context.Context, messageID, filename, contentType string, data []byte) (string, error) {
	if !s.Enabled() {
		return "", nil
	}

	now := s.now().UTC()
	key := fmt.Sprintf("referrals/v1/by-date/%d/%02d/%02d/%s/%s",
		now.Year(), now.Month(), now.Day(), sanitizeSegment(messageID), sanitizeSegment(filename))

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("referrals: s3 put %s: %w", key, err)
	}

	s.logger.Info("referral document archived", "key", key, "bytes", len(data))
	return key, nil
}

// sanitizeSegment keeps key segments flat: path separators and control
// characters collapse to underscores.
func sanitizeSegment(seg string) string {
	seg = strings.TrimSpace(seg)
	if seg == "" {
		return "unnamed"
	}
	var b strings.Builder
	for _, r := range seg {
		switch {
		case r == '/' || r == '\\' || r < 0x20:
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
