package geotable

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pierrec/lz4/v4"
)

// Source opens tables by name.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// readCloser pairs a decoding reader with the closers of every layer.
type readCloser struct {
	io.Reader
	closers []func() error
}

func (r *readCloser) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Decompress inspects the first bytes of rc and returns a reader that
// transparently decodes gzip, zstd or lz4 streams. Other input is passed
// through. Closing the result closes rc.
func Decompress(rc io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	head, err := br.Peek(4)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read table header: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, magicGzip):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return &readCloser{Reader: zr, closers: []func() error{zr.Close, rc.Close}}, nil
	case bytes.HasPrefix(head, magicZstd):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return &readCloser{Reader: zr, closers: []func() error{
			func() error { zr.Close(); return nil },
			rc.Close,
		}}, nil
	case bytes.HasPrefix(head, magicLZ4):
		return &readCloser{Reader: lz4.NewReader(br), closers: []func() error{rc.Close}}, nil
	default:
		return &readCloser{Reader: br, closers: []func() error{rc.Close}}, nil
	}
}

// FileSource opens tables from a directory.
type FileSource struct {
	Root string
}

// Open opens name below Root, decompressing as needed.
func (s FileSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.Root, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	rc, err := Decompress(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return rc, nil
}

// ObjectSource opens tables stored in an S3-compatible bucket.
type ObjectSource struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewObjectSource wraps an existing client. prefix is prepended to every
// table name (e.g. "surveys/2024/").
func NewObjectSource(client *minio.Client, bucket, prefix string) *ObjectSource {
	return &ObjectSource{client: client, bucket: bucket, prefix: prefix}
}

// DialObjectSource connects to endpoint with static credentials.
func DialObjectSource(endpoint, accessKey, secretKey string, secure bool, bucket, prefix string) (*ObjectSource, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}
	return NewObjectSource(client, bucket, prefix), nil
}

func (s *ObjectSource) key(name string) string {
	return path.Join(s.prefix, name)
}

// Open streams the object holding name, decompressing as needed.
func (s *ObjectSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := s.key(name)
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, objectError(name, err)
	}
	// GetObject is lazy; Stat surfaces a missing key before reading.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, objectError(name, err)
	}
	rc, err := Decompress(obj)
	if err != nil {
		obj.Close()
		return nil, err
	}
	return rc, nil
}

// List returns the names of all tables below the source prefix.
func (s *ObjectSource) List(ctx context.Context) ([]string, error) {
	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		name := strings.TrimPrefix(strings.TrimPrefix(obj.Key, s.prefix), "/")
		if name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func objectError(name string, err error) error {
	code := minio.ToErrorResponse(err).Code
	if code == "NoSuchKey" || code == "NotFound" {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return fmt.Errorf("failed to open object %s: %w", name, err)
}
