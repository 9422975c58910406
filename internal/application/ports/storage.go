package ports

import (
	"context"
	"io"
)

// BlobStorage almacenamiento de objetos (imágenes de productos y tiendas).
type BlobStorage interface {
	Upload(ctx context.Context, bucket, path, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, bucket string, paths ...string) error
	PublicURL(bucket, path string) string
}
