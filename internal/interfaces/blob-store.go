package interfaces

import (
	"context"

	"github.com/SundayYogurt/bachelor-point/internal/blobstore"
)

// BlobStore is the subset of *blobstore.Store the lifecycle services depend on.
type BlobStore interface {
	Store(ctx context.Context, payload string, ns blobstore.Namespace) (string, error)
	Resolve(ctx context.Context, value string, ns blobstore.Namespace) (string, error)
	Remove(ctx context.Context, ref string)
}
