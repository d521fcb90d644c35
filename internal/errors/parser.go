package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// IsDuplicateKey unique 제약 위반 여부
// TranslateError 가 켜져 있지 않은 연결(드라이버 원문 에러)도 처리함
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "duplicate key") || strings.Contains(lower, "unique constraint")
}

// ParseError 에러를 파싱하여 사용자 친화적인 메시지와 코드로 변환
// 내부 정보(SQL, 제약 이름)는 응답에 노출하지 않음
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "서버 오류가 발생했습니다",
		}
	}

	errStrLower := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return getNotFoundInfo(context)
	}

	if IsDuplicateKey(err) {
		return parseDuplicateKeyError(errStrLower, context)
	}

	if errors.Is(err, gorm.ErrForeignKeyViolated) || strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "참조하는 데이터를 찾을 수 없습니다",
		}
	}

	if strings.Contains(errStrLower, "not null constraint") || strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "필수 항목이 누락되었습니다",
		}
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "외부 서비스 연결에 실패했습니다. 잠시 후 다시 시도해주세요",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// parseDuplicateKeyError Unique constraint 위반 에러 파싱
func parseDuplicateKeyError(errLower string, context string) ErrorInfo {
	contextLower := strings.ToLower(context)

	if strings.Contains(errLower, "comment_helpful") || strings.Contains(errLower, "idx_comment_user_helpful") {
		return ErrorInfo{Code: ReviewAlreadyHelpful, Message: "이미 도움이 됨으로 표시한 리뷰입니다"}
	}
	if strings.Contains(errLower, "notes.name") || strings.Contains(errLower, "idx_notes_name") || strings.Contains(contextLower, "note") {
		return ErrorInfo{Code: NoteNameExists, Message: "이미 존재하는 노트 이름입니다"}
	}
	if strings.Contains(errLower, "retailers.name") || strings.Contains(errLower, "idx_retailers_name") || strings.Contains(contextLower, "retailer") {
		return ErrorInfo{Code: RetailerNameExists, Message: "이미 존재하는 판매처 이름입니다"}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "이미 존재하는 데이터입니다",
	}
}

// getNotFoundInfo context에 따른 Not Found 코드/메시지
func getNotFoundInfo(context string) ErrorInfo {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "fragrance") || strings.Contains(contextLower, "향수"):
		return ErrorInfo{Code: FragranceNotFound, Message: "향수를 찾을 수 없습니다"}
	case strings.Contains(contextLower, "comment") || strings.Contains(contextLower, "리뷰"):
		return ErrorInfo{Code: ReviewNotFound, Message: "리뷰를 찾을 수 없습니다"}
	case strings.Contains(contextLower, "note") || strings.Contains(contextLower, "노트"):
		return ErrorInfo{Code: NoteNotFound, Message: "노트를 찾을 수 없습니다"}
	case strings.Contains(contextLower, "retailer") || strings.Contains(contextLower, "판매처"):
		return ErrorInfo{Code: RetailerNotFound, Message: "판매처를 찾을 수 없습니다"}
	case strings.Contains(contextLower, "user") || strings.Contains(contextLower, "사용자"):
		return ErrorInfo{Code: ResourceNotFound, Message: "사용자를 찾을 수 없습니다"}
	}

	return ErrorInfo{Code: ResourceNotFound, Message: "요청한 데이터를 찾을 수 없습니다"}
}

// getDefaultErrorMessage context에 따른 기본 에러 메시지
func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") || strings.Contains(contextLower, "생성") || strings.Contains(contextLower, "등록") {
		return "등록 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	}
	if strings.Contains(contextLower, "update") || strings.Contains(contextLower, "수정") {
		return "수정 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	}
	if strings.Contains(contextLower, "delete") || strings.Contains(contextLower, "삭제") {
		return "삭제 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	}

	return "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
}

// ParseAndRespond 에러를 파싱하여 응답 반환 (헬퍼 함수)
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
