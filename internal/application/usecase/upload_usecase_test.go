package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/domain"
)

func newUploadUseCase() (*UploadUseCase, *fakeStorage) {
	storage := &fakeStorage{uploads: map[string][]byte{}}
	uc := NewUploadUseCase(storage)
	uc.now = func() time.Time { return time.UnixMilli(1714550400000) }
	return uc, storage
}

func TestUploadUseCase_UploadImage(t *testing.T) {
	uc, storage := newUploadUseCase()

	got, err := uc.UploadImage(context.Background(), "store-1", ImageUpload{
		Bucket:      BucketProductImages,
		Folder:      "/dal/",
		Filename:    "toor.JPEG",
		ContentType: "image/jpeg; charset=binary",
		Size:        4,
		Body:        strings.NewReader("\xff\xd8\xff\xe0"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.Path, "store-1/dal/"), got.Path)
	assert.True(t, strings.HasSuffix(got.Path, "-1714550400000.jpeg"), got.Path)
	assert.Equal(t, "https://cdn.test/product-images/"+got.Path, got.URL)
	assert.Len(t, storage.uploads["product-images/"+got.Path], 4)
}

func TestUploadUseCase_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		in      ImageUpload
		wantErr error
	}{
		{"bucket desconocido", ImageUpload{Bucket: "avatars", ContentType: "image/png"}, domain.ErrInvalidBucket},
		{"demasiado grande", ImageUpload{Bucket: BucketStoreImages, ContentType: "image/png", Size: MaxImageSize + 1}, domain.ErrFileTooLarge},
		{"tipo no permitido", ImageUpload{Bucket: BucketStoreImages, ContentType: "image/gif", Size: 10}, domain.ErrUnsupportedFileType},
		{"carpeta fuera de la tienda", ImageUpload{Bucket: BucketStoreImages, ContentType: "image/webp", Folder: "../store-2"}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, storage := newUploadUseCase()
			tt.in.Body = strings.NewReader("x")
			_, err := uc.UploadImage(context.Background(), "store-1", tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, storage.uploads)
		})
	}
}

func TestUploadUseCase_DeleteImageScopedToStore(t *testing.T) {
	uc, storage := newUploadUseCase()
	ctx := context.Background()

	err := uc.DeleteImage(ctx, "store-1", dto.DeleteImageRequest{Bucket: BucketProductImages, Path: "store-2/a.png"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = uc.DeleteImage(ctx, "store-1", dto.DeleteImageRequest{Bucket: BucketProductImages, Path: "store-1/../store-2/a.png"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, uc.DeleteImage(ctx, "store-1", dto.DeleteImageRequest{Bucket: BucketProductImages, Path: "/store-1/dal/a.png"}))
	assert.Equal(t, []string{"product-images/store-1/dal/a.png"}, storage.deleted)
}
