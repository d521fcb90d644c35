package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scentvault/scentvault-backend/internal/app/service"
	"github.com/scentvault/scentvault-backend/internal/middleware"
)

// AuthController local user record and profile for identity-provider sessions
type AuthController struct {
	authService   service.AuthService
	uploadService service.UploadService
}

func NewAuthController(authService service.AuthService, uploadService service.UploadService) *AuthController {
	return &AuthController{
		authService:   authService,
		uploadService: uploadService,
	}
}

type UpdateAvatarRequest struct {
	URL string `json:"url" binding:"required,absurl"`
}

// Sync returns the local user for the token subject (created on first call by the auth middleware)
// POST /api/v1/auth/sync
func (ctrl *AuthController) Sync(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		respondServiceError(c, err, "sync user")
		return
	}

	log.Info("User synced", map[string]interface{}{
		"user_id":      user.ID,
		"is_anonymous": user.IsAnonymous,
	})

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// GetMe returns the current user
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		respondServiceError(c, err, "fetch user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// PresignAvatar issues an upload URL under avatars/{userID}
// POST /api/v1/users/me/avatar/presign
func (ctrl *AuthController) PresignAvatar(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req service.UploadRequest
	if !bindJSON(c, &req) {
		return
	}

	upload, err := ctrl.uploadService.PresignAvatar(userID, req)
	if err != nil {
		respondServiceError(c, err, "presign avatar upload")
		return
	}

	c.JSON(http.StatusOK, upload)
}

// UpdateAvatar stores the uploaded avatar URL
// PUT /api/v1/users/me/avatar
func (ctrl *AuthController) UpdateAvatar(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateAvatarRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := ctrl.authService.UpdateAvatar(userID, req.URL)
	if err != nil {
		respondServiceError(c, err, "update user avatar")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// RemoveAvatar
// DELETE /api/v1/users/me/avatar
func (ctrl *AuthController) RemoveAvatar(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := ctrl.authService.RemoveAvatar(userID)
	if err != nil {
		respondServiceError(c, err, "delete user avatar")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}
