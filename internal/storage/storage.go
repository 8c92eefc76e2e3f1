// Package storage writes uploaded assets to a public bucket.
package storage

import (
	"context"
	"errors"
	"strings"
)

// Bucket is a write-once object store that hands out public URLs.
type Bucket interface {
	Put(ctx context.Context, path, contentType string, data []byte) error
	PublicURL(path string) string
	Name() string
}

var (
	// ErrPolicyDenied is returned when the backend refuses the write for
	// permission or policy reasons, as opposed to a transport failure.
	ErrPolicyDenied = errors.New("storage policy denied the write")
	ErrExists       = errors.New("object already exists")
	ErrInvalidPath  = errors.New("invalid object path")
)

// CleanPath normalises an object path and rejects traversal.
func CleanPath(path string) (string, error) {
	path = strings.Trim(strings.ReplaceAll(path, `\`, "/"), "/")
	if path == "" {
		return "", ErrInvalidPath
	}
	for _, part := range strings.Split(path, "/") {
		if part == "" || part == "." || part == ".." {
			return "", ErrInvalidPath
		}
	}
	return path, nil
}
