package dto

// UploadImageResponse respuesta de POST /api/uploads/images.
type UploadImageResponse struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// DeleteImageRequest body de DELETE /api/uploads/images.
type DeleteImageRequest struct {
	Bucket string `json:"bucket" validate:"required,oneof=product-images store-images"`
	Path   string `json:"path" validate:"required,max=300"`
}
