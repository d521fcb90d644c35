package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/scentvault/scentvault-backend/internal/storage"
	"github.com/scentvault/scentvault-backend/pkg/logger"
)

var (
	ErrInvalidFileType    = errors.New("only image files are allowed")
	ErrFileTooLarge       = errors.New("file exceeds maximum size")
	ErrInvalidFolder      = errors.New("invalid upload folder")
	ErrStorageUnavailable = errors.New("upload storage is not configured")
)

// MaxUploadSize 이미지 최대 크기 (5MB)
const MaxUploadSize int64 = 5 * 1024 * 1024

const presignTimeout = 5 * time.Second

// 관리자 업로드 폴더
var uploadFolders = map[string]bool{
	"notes":     true,
	"bottles":   true,
	"retailers": true,
}

// ObjectStorage presigned 업로드 URL 발급 (S3 구현: storage.S3Storage)
type ObjectStorage interface {
	PresignUpload(ctx context.Context, folder, filename, contentType string, size int64) (*storage.PresignedUpload, error)
}

type UploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size" binding:"required,min=1"`
	Folder      string `json:"folder"`
}

type UploadService interface {
	PresignImage(req UploadRequest) (*storage.PresignedUpload, error)
	PresignAvatar(userID uint, req UploadRequest) (*storage.PresignedUpload, error)
}

type uploadService struct {
	storage ObjectStorage
}

func NewUploadService(store ObjectStorage) UploadService {
	return &uploadService{storage: store}
}

func validateUpload(req UploadRequest) error {
	if !strings.HasPrefix(strings.ToLower(req.ContentType), "image/") {
		return fmt.Errorf("%w: %s", ErrInvalidFileType, req.ContentType)
	}
	if req.Size > MaxUploadSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, req.Size, MaxUploadSize)
	}
	return nil
}

func (s *uploadService) PresignImage(req UploadRequest) (*storage.PresignedUpload, error) {
	if !uploadFolders[req.Folder] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFolder, req.Folder)
	}
	return s.presign(req.Folder, req)
}

func (s *uploadService) PresignAvatar(userID uint, req UploadRequest) (*storage.PresignedUpload, error) {
	return s.presign(fmt.Sprintf("avatars/%d", userID), req)
}

func (s *uploadService) presign(folder string, req UploadRequest) (*storage.PresignedUpload, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	if err := validateUpload(req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), presignTimeout)
	defer cancel()

	upload, err := s.storage.PresignUpload(ctx, folder, req.Filename, req.ContentType, req.Size)
	if err != nil {
		logger.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"folder":       folder,
			"content_type": req.ContentType,
		})
		return nil, err
	}

	logger.Info("Presigned URL generated", map[string]interface{}{
		"folder": folder,
		"key":    upload.Key,
	})
	return upload, nil
}
