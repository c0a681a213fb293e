package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// GCSStore uploads avatars to a bucket under avatars/ and returns their public URL.
type GCSStore struct {
	Client *storage.Client
	Bucket string
}

func NewGCSStore(client *storage.Client, bucket string) *GCSStore {
	return &GCSStore{Client: client, Bucket: bucket}
}

func (s *GCSStore) Save(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	objectPath := "avatars/" + uuid.NewString() + strings.ToLower(filepath.Ext(filename))

	wc := s.Client.Bucket(s.Bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // avatars are small, one request
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}
	return s.PublicURL(objectPath), nil
}

// Delete removes the object behind a URL returned by Save.
func (s *GCSStore) Delete(ctx context.Context, ref string) error {
	objectPath, ok := strings.CutPrefix(ref, s.PublicURL(""))
	if !ok || objectPath == "" {
		return fmt.Errorf("not an avatar of bucket %s: %q", s.Bucket, ref)
	}
	err := s.Client.Bucket(s.Bucket).Object(objectPath).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete %s: %w", objectPath, err)
	}
	return nil
}

// PublicURL assumes the bucket grants public read.
func (s *GCSStore) PublicURL(objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.Bucket, objectPath)
}
