package usecase

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
	"github.com/jhoicas/kirana-admin-api/internal/domain"
)

// MaxImageSize tamaño máximo de una imagen subida (5 MB).
const MaxImageSize = 5 << 20

// Buckets de imágenes.
const (
	BucketProductImages = "product-images"
	BucketStoreImages   = "store-images"
)

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ImageUpload archivo recibido en un multipart.
type ImageUpload struct {
	Bucket      string
	Folder      string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadUseCase subida y borrado de imágenes. Todas las rutas quedan bajo {storeID}/.
type UploadUseCase struct {
	storage ports.BlobStorage
	now     func() time.Time
}

// NewUploadUseCase construye el caso de uso.
func NewUploadUseCase(storage ports.BlobStorage) *UploadUseCase {
	return &UploadUseCase{storage: storage, now: time.Now}
}

// UploadImage valida tamaño y tipo y guarda el archivo como <aleatorio base36>-<unix ms>.<ext>.
func (uc *UploadUseCase) UploadImage(ctx context.Context, storeID string, in ImageUpload) (*dto.UploadImageResponse, error) {
	if !isImageBucket(in.Bucket) {
		return nil, domain.ErrInvalidBucket
	}
	if in.Size > MaxImageSize {
		return nil, domain.ErrFileTooLarge
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(in.ContentType, ";")[0]))
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	if ext == "jpg" && strings.EqualFold(path.Ext(in.Filename), ".jpeg") {
		ext = "jpeg"
	}
	folder, err := cleanFolder(in.Folder)
	if err != nil {
		return nil, err
	}
	name, err := uc.objectName(ext)
	if err != nil {
		return nil, err
	}
	p := path.Join(storeID, folder, name)
	if err := uc.storage.Upload(ctx, in.Bucket, p, contentType, io.LimitReader(in.Body, MaxImageSize+1), in.Size); err != nil {
		return nil, err
	}
	return &dto.UploadImageResponse{URL: uc.storage.PublicURL(in.Bucket, p), Path: p}, nil
}

// DeleteImage borra una imagen de la tienda. Rutas de otra tienda devuelven ErrNotFound.
func (uc *UploadUseCase) DeleteImage(ctx context.Context, storeID string, in dto.DeleteImageRequest) error {
	if !isImageBucket(in.Bucket) {
		return domain.ErrInvalidBucket
	}
	p := path.Clean(strings.TrimPrefix(in.Path, "/"))
	if !strings.HasPrefix(p, storeID+"/") {
		return domain.ErrNotFound
	}
	return uc.storage.Delete(ctx, in.Bucket, p)
}

func (uc *UploadUseCase) objectName(ext string) (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("upload: nombre aleatorio: %w", err)
	}
	random := strconv.FormatUint(binary.BigEndian.Uint64(b[:]), 36)
	return fmt.Sprintf("%s-%d.%s", random, uc.now().UnixMilli(), ext), nil
}

func isImageBucket(b string) bool {
	return b == BucketProductImages || b == BucketStoreImages
}

// cleanFolder normaliza la carpeta opcional y rechaza rutas que salgan de la tienda.
func cleanFolder(folder string) (string, error) {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		return "", nil
	}
	for _, part := range strings.Split(folder, "/") {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `\`) {
			return "", domain.ErrInvalidInput
		}
	}
	return folder, nil
}
