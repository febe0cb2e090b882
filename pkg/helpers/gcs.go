package helpers

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// UploadObject uploads bytes from r into bucket/objectPath with the provided contentType
func UploadObject(ctx context.Context, client *storage.Client, bucket, objectPath, contentType string, r io.Reader) (string, error) {
	wc := client.Bucket(bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return PublicURL(bucket, objectPath), nil
}

// DecodeImageDataURI splits a "data:image/<fmt>;base64,<payload>" string
// into content type and decoded bytes. Profile pictures arrive as data
// URIs from the client and are offloaded to object storage when a bucket
// is configured.
func DecodeImageDataURI(uri string) (contentType string, data []byte, err error) {
	if !strings.HasPrefix(uri, "data:image/") {
		return "", nil, errors.New("not an image data uri")
	}
	rest := strings.TrimPrefix(uri, "data:")
	sep := strings.Index(rest, ";base64,")
	if sep < 0 {
		return "", nil, errors.New("data uri is not base64 encoded")
	}
	contentType = rest[:sep]
	data, err = base64.StdEncoding.DecodeString(rest[sep+len(";base64,"):])
	if err != nil {
		return "", nil, err
	}
	return contentType, data, nil
}

// UploadImageDataURI decodes a data URI and stores it as an object,
// returning the public URL.
func UploadImageDataURI(ctx context.Context, client *storage.Client, bucket, objectPath, uri string) (string, error) {
	contentType, data, err := DecodeImageDataURI(uri)
	if err != nil {
		return "", err
	}
	return UploadObject(ctx, client, bucket, objectPath, contentType, bytes.NewReader(data))
}

// PublicURL builds a public URL for an object (assuming public read access or signed URLs)
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}
