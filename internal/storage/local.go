package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Local stores objects under <base>/<bucket>/<path> and builds URLs that the
// HTTP server serves back from /media/<bucket>/<path>.
type Local struct {
	BasePath      string
	Bucket        string
	PublicBaseURL string
}

func (l Local) Name() string {
	return l.Bucket
}

func (l Local) Root() string {
	return filepath.Join(l.BasePath, l.Bucket)
}

func (l Local) Put(ctx context.Context, path, contentType string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean, err := CleanPath(path)
	if err != nil {
		return err
	}
	target := filepath.Join(l.Root(), filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return classify(err)
	}
	file, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return classify(err)
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		_ = os.Remove(target)
		return err
	}
	return file.Close()
}

func (l Local) PublicURL(path string) string {
	return fmt.Sprintf("%s/media/%s/%s", l.PublicBaseURL, l.Bucket, path)
}

func classify(err error) error {
	switch {
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %v", ErrPolicyDenied, err)
	case errors.Is(err, os.ErrExist):
		return fmt.Errorf("%w: %v", ErrExists, err)
	}
	return err
}
