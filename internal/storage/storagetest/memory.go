// Package storagetest provides an in-memory storage.Bucket for tests.
package storagetest

import (
	"context"
	"sync"

	"portfolio-backend-go/internal/storage"
)

type Object struct {
	ContentType string
	Data        []byte
}

type Bucket struct {
	mu      sync.Mutex
	name    string
	objects map[string]Object
	err     error
}

func New(name string) *Bucket {
	return &Bucket{name: name, objects: map[string]Object{}}
}

// FailWith makes every following Put return err.
func (b *Bucket) FailWith(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
}

func (b *Bucket) Name() string {
	return b.name
}

func (b *Bucket) Put(ctx context.Context, path, contentType string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	clean, err := storage.CleanPath(path)
	if err != nil {
		return err
	}
	if _, ok := b.objects[clean]; ok {
		return storage.ErrExists
	}
	b.objects[clean] = Object{ContentType: contentType, Data: append([]byte(nil), data...)}
	return nil
}

func (b *Bucket) PublicURL(path string) string {
	return "https://cdn.test/" + b.name + "/" + path
}

func (b *Bucket) Objects() map[string]Object {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]Object, len(b.objects))
	for k, v := range b.objects {
		out[k] = v
	}
	return out
}
