// Package artifacts resolves trained artifacts to local files and loads each of them
// once per process.
package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	ierrors "github.com/Meesho/BharatMLStack/housing-inference/internal/errors"
	"github.com/Meesho/BharatMLStack/housing-inference/pkg/metric"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Ref names an artifact by its object-store key and the local path it is cached at.
type Ref struct {
	Key  string
	Path string
}

// Fetcher copies one remote object into w.
type Fetcher interface {
	Fetch(ctx context.Context, bucket, key string, w io.WriterAt) error
}

type S3Fetcher struct {
	down *s3manager.Downloader
}

func NewS3Fetcher(region string) (*S3Fetcher, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, err
	}
	cli := s3.New(sess, aws.NewConfig().WithRegion(region))
	return &S3Fetcher{down: s3manager.NewDownloaderWithClient(cli)}, nil
}

func (f *S3Fetcher) Fetch(ctx context.Context, bucket, key string, w io.WriterAt) error {
	_, err := f.down.DownloadWithContext(ctx, w, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	var aerr awserr.Error
	if errors.As(err, &aerr) && (aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == "NotFound") {
		return fmt.Errorf("s3://%s/%s: %w", bucket, key, ierrors.ErrArtifactNotFound)
	}
	return err
}

// Store downloads an artifact the first time its local path is missing and never again
// once the file exists. A store without a fetcher only serves local files.
type Store struct {
	bucket  string
	fetcher Fetcher
	group   singleflight.Group
}

func NewLocalStore() *Store {
	return &Store{}
}

func NewStore(bucket string, fetcher Fetcher) *Store {
	return &Store{bucket: bucket, fetcher: fetcher}
}

func (s *Store) Remote() bool {
	return s.fetcher != nil && s.bucket != ""
}

// Resolve returns the local path of ref, downloading it first when needed. A local file
// that is missing without a remote to fetch from is reported as ErrArtifactNotFound.
func (s *Store) Resolve(ctx context.Context, ref Ref) (string, error) {
	if exists(ref.Path) {
		return ref.Path, nil
	}
	if !s.Remote() {
		return "", fmt.Errorf("%s: %w", ref.Path, ierrors.ErrArtifactNotFound)
	}
	_, err, _ := s.group.Do(ref.Path, func() (interface{}, error) {
		if exists(ref.Path) {
			return nil, nil
		}
		return nil, s.download(ctx, ref)
	})
	if err != nil {
		return "", err
	}
	return ref.Path, nil
}

func (s *Store) download(ctx context.Context, ref Ref) error {
	start := time.Now()
	if err := os.MkdirAll(filepath.Dir(ref.Path), os.ModePerm); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(ref.Path), filepath.Base(ref.Path)+".*.part")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	err = s.fetcher.Fetch(ctx, s.bucket, ref.Key, tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	metric.Incr(metric.ArtifactDownloadCount, metric.BuildTag(metric.NewTag(metric.TagSource, ref.Key), metric.NewTag(metric.TagReason, status)))
	if err != nil {
		log.Error().Err(err).Str("bucket", s.bucket).Str("key", ref.Key).Msg("artifact download failed")
		return fmt.Errorf("downloading %s: %w", ref.Key, err)
	}
	if err := os.Rename(tmp.Name(), ref.Path); err != nil {
		return err
	}
	metric.Timing(metric.ArtifactDownloadLatency, time.Since(start), metric.BuildTag(metric.NewTag(metric.TagSource, ref.Key)))
	log.Info().Str("bucket", s.bucket).Str("key", ref.Key).Str("path", ref.Path).Msg("artifact downloaded")
	return nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
