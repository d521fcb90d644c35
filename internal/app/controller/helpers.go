package controller

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/scentvault/scentvault-backend/internal/app/service"
	"github.com/scentvault/scentvault-backend/internal/errors"
	"github.com/scentvault/scentvault-backend/internal/middleware"
	"github.com/scentvault/scentvault-backend/pkg/util"
	"gorm.io/gorm"
)

// serviceError 서비스 sentinel 에러 → HTTP 응답 매핑
type serviceError struct {
	target  error
	status  int
	code    string
	message string
}

var serviceErrors = []serviceError{
	{service.ErrFragranceNotFound, http.StatusNotFound, errors.FragranceNotFound, "향수를 찾을 수 없습니다"},
	{service.ErrCommentNotFound, http.StatusNotFound, errors.ReviewNotFound, "리뷰를 찾을 수 없습니다"},
	{service.ErrNoteNotFound, http.StatusNotFound, errors.NoteNotFound, "노트를 찾을 수 없습니다"},
	{service.ErrRetailerNotFound, http.StatusNotFound, errors.RetailerNotFound, "판매처를 찾을 수 없습니다"},
	{service.ErrLinkNotFound, http.StatusNotFound, errors.FragranceLinkNotFound, "판매 링크를 찾을 수 없습니다"},
	{service.ErrBrandNotFound, http.StatusNotFound, errors.ResourceNotFound, "브랜드를 찾을 수 없습니다"},
	{service.ErrUserNotFound, http.StatusNotFound, errors.ResourceNotFound, "사용자를 찾을 수 없습니다"},

	{service.ErrAnonymousUser, http.StatusForbidden, errors.AuthAnonymous, "익명 계정으로는 리뷰를 작성할 수 없습니다"},

	{service.ErrBrandRequired, http.StatusBadRequest, errors.FragranceBrandMissing, "브랜드를 지정해주세요"},
	{service.ErrUnknownNote, http.StatusBadRequest, errors.NoteNotFound, "존재하지 않는 노트입니다"},
	{service.ErrInvalidCategory, http.StatusBadRequest, errors.NoteInvalidCategory, "카테고리는 top, heart, base 중 하나여야 합니다"},
	{service.ErrEmptyName, http.StatusBadRequest, errors.ValidationRequired, "이름을 입력해주세요"},
	{service.ErrEmptyContent, http.StatusBadRequest, errors.ReviewEmptyContent, "리뷰 내용을 입력해주세요"},
	{service.ErrInvalidRating, http.StatusBadRequest, errors.ReviewInvalidRating, "평점은 1에서 5 사이의 정수여야 합니다"},
	{service.ErrOwnComment, http.StatusBadRequest, errors.ReviewOwnComment, "본인 리뷰에는 도움이 됨을 표시할 수 없습니다"},
	{service.ErrAlreadyMarkedHelpful, http.StatusBadRequest, errors.ReviewAlreadyHelpful, "이미 도움이 됨으로 표시한 리뷰입니다"},
	{service.ErrInvalidURL, http.StatusBadRequest, errors.ValidationInvalidURL, "올바른 URL 형식이 아닙니다"},
	{service.ErrInvalidAvatarURL, http.StatusBadRequest, errors.ValidationInvalidURL, "올바른 URL 형식이 아닙니다"},
	{service.ErrUnknownBulkAction, http.StatusBadRequest, errors.BulkUnknownAction, "알 수 없는 작업입니다"},
	{service.ErrEmptyBulkPayload, http.StatusBadRequest, errors.BulkEmptyPayload, "작업 데이터가 없습니다"},
	{service.ErrBulkTooLarge, http.StatusBadRequest, errors.ValidationInvalidRange, "한 번에 처리할 수 있는 항목 수를 초과했습니다"},
	{service.ErrInvalidFileType, http.StatusBadRequest, errors.UploadInvalidFileType, "이미지 파일만 업로드할 수 있습니다"},
	{service.ErrFileTooLarge, http.StatusBadRequest, errors.UploadFileTooLarge, "파일 크기는 5MB 이하여야 합니다"},
	{service.ErrInvalidFolder, http.StatusBadRequest, errors.ValidationInvalidInput, "업로드 폴더는 notes, bottles, retailers 중 하나여야 합니다"},

	{service.ErrStorageUnavailable, http.StatusServiceUnavailable, errors.InternalConfigError, "업로드 저장소가 설정되지 않았습니다"},
}

// respondServiceError 서비스 에러를 상태 코드/에러 코드로 변환해 응답
// 알 수 없는 에러는 500 + 일반 메시지 (상세는 로그에만 남김)
func respondServiceError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	for _, se := range serviceErrors {
		if stderrors.Is(err, se.target) {
			log.Warn("Request rejected", map[string]interface{}{
				"context": context,
				"code":    se.code,
				"error":   err.Error(),
			})
			errors.RespondWithError(c, se.status, se.code, se.message)
			return
		}
	}

	// 이름 중복은 context 로 노트/판매처 코드 구분
	if stderrors.Is(err, service.ErrDuplicateName) {
		info := errors.ParseError(gorm.ErrDuplicatedKey, context)
		errors.RespondWithError(c, http.StatusBadRequest, info.Code, info.Message)
		return
	}

	log.Error("Request failed", err, map[string]interface{}{
		"context": context,
	})
	errors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
}

// bindJSON 요청 본문 바인딩, 실패 시 400 응답 후 false
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		})
		if fields := util.ValidationFields(err); fields != nil {
			errors.RespondWithValidationError(c, fields)
			return false
		}
		errors.BadRequest(c, errors.ValidationInvalidInput, "요청 형식이 올바르지 않습니다")
		return false
	}
	return true
}

// parseID 경로 파라미터 ID 파싱, 실패 시 400 응답 후 false
func parseID(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID format", map[string]interface{}{
			"param": param,
			"value": raw,
		})
		errors.BadRequest(c, errors.ValidationInvalidID, "잘못된 ID입니다")
		return 0, false
	}
	return uint(id), true
}

// queryInt 정수 쿼리 파라미터 (없거나 잘못되면 기본값)
func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// requireUserID 인증된 사용자 ID, 없으면 401 응답 후 false
func requireUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "")
		return 0, false
	}
	return userID, true
}
