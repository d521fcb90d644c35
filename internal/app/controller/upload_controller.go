package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scentvault/scentvault-backend/internal/app/service"
	"github.com/scentvault/scentvault-backend/internal/middleware"
)

type UploadController struct {
	uploadService service.UploadService
}

func NewUploadController(uploadService service.UploadService) *UploadController {
	return &UploadController{
		uploadService: uploadService,
	}
}

// PresignUpload generates a presigned PUT URL for catalog images (Admin only)
// POST /api/v1/admin/uploads/presign
func (ctrl *UploadController) PresignUpload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.UploadRequest
	if !bindJSON(c, &req) {
		return
	}

	upload, err := ctrl.uploadService.PresignImage(req)
	if err != nil {
		respondServiceError(c, err, "presign upload")
		return
	}

	log.Info("Presigned URL generated successfully", map[string]interface{}{
		"key":          upload.Key,
		"content_type": req.ContentType,
	})

	c.JSON(http.StatusOK, upload)
}
