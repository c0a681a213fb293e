// Package blobstore stores uploaded avatar files and returns the reference
// that ends up on the user record.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// LocalStore writes files into Dir; they are served statically under URLPrefix.
//
// File names are the upload time in unix milliseconds plus the original
// extension, so two uploads in the same millisecond collide. The second one
// fails instead of overwriting the first.
type LocalStore struct {
	Dir       string
	URLPrefix string
	now       func() time.Time
}

func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &LocalStore{Dir: dir, URLPrefix: strings.TrimRight(urlPrefix, "/"), now: time.Now}, nil
}

func (s *LocalStore) Save(_ context.Context, r io.Reader, filename, _ string) (string, error) {
	name := strconv.FormatInt(s.now().UnixMilli(), 10) + strings.ToLower(filepath.Ext(filename))

	f, err := os.OpenFile(filepath.Join(s.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return s.URLPrefix + "/" + name, nil
}

// Delete removes the file behind a reference returned by Save.
func (s *LocalStore) Delete(_ context.Context, ref string) error {
	name, ok := strings.CutPrefix(ref, s.URLPrefix+"/")
	if !ok || name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("not a local avatar reference: %q", ref)
	}
	if err := os.Remove(filepath.Join(s.Dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
