package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
)

// Supabase writes to a Supabase Storage bucket. Public URLs assume the
// bucket is marked public.
type Supabase struct {
	Client *storage_go.Client
	Bucket string
}

func NewSupabase(client *storage_go.Client, bucket string) Supabase {
	return Supabase{Client: client, Bucket: bucket}
}

func (s Supabase) Name() string {
	return s.Bucket
}

func (s Supabase) Put(ctx context.Context, path, contentType string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean, err := CleanPath(path)
	if err != nil {
		return err
	}
	upsert := false
	_, err = s.Client.UploadFile(s.Bucket, clean, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return classifyRemote(err)
	}
	return nil
}

func (s Supabase) PublicURL(path string) string {
	return s.Client.GetPublicUrl(s.Bucket, path).SignedURL
}

// Storage errors only carry a message; row-level-security and auth failures
// are recognised by their text.
func classifyRemote(err error) error {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"row-level security", "unauthorized", "permission denied", "403"} {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %v", ErrPolicyDenied, err)
		}
	}
	if strings.Contains(msg, "already exists") || strings.Contains(msg, "duplicate") {
		return fmt.Errorf("%w: %v", ErrExists, err)
	}
	return err
}
