package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/application/usecase"
)

// UploadHandler imágenes de productos y de la tienda.
type UploadHandler struct {
	uc *usecase.UploadUseCase
	v  *Validator
}

// NewUploadHandler construye el handler.
func NewUploadHandler(uc *usecase.UploadUseCase, v *Validator) *UploadHandler {
	return &UploadHandler{uc: uc, v: v}
}

// UploadImage godoc
// @Summary      Subir imagen
// @Description  Máximo 5 MB. Tipos: image/jpeg, image/jpg, image/png, image/webp.
// @Tags         uploads
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file    formData  file    true   "Imagen"
// @Param        bucket  formData  string  true   "product-images | store-images"
// @Param        folder  formData  string  false  "Subcarpeta"
// @Success      201  {object}  dto.UploadImageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      413  {object}  dto.ErrorResponse
// @Failure      415  {object}  dto.ErrorResponse
// @Router       /api/uploads/images [post]
func (h *UploadHandler) UploadImage(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo requerido en el campo 'file'"})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()

	out, err := h.uc.UploadImage(c.UserContext(), GetStoreID(c), usecase.ImageUpload{
		Bucket:      c.FormValue("bucket"),
		Folder:      c.FormValue("folder"),
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DeleteImage godoc
// @Summary      Eliminar imagen
// @Tags         uploads
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.DeleteImageRequest  true  "bucket, path"
// @Success      204
// @Failure      400  {object}  dto.ValidationErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/uploads/images [delete]
func (h *UploadHandler) DeleteImage(c *fiber.Ctx) error {
	var in dto.DeleteImageRequest
	if ok, err := bindBody(c, h.v, &in); !ok {
		return err
	}
	if err := h.uc.DeleteImage(c.UserContext(), GetStoreID(c), in); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
