package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED"  // 로그인 필요
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED" // 토큰 만료
	AuthTokenInvalid = "AUTH_TOKEN_INVALID" // 잘못된 토큰
	AuthAnonymous    = "AUTH_ANONYMOUS"     // 익명 세션은 허용되지 않음

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // 접근 권한 없음
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // 권한 정보 없음
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // 관리자만 가능

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // 잘못된 입력
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // 잘못된 ID
	ValidationInvalidURL   = "VALIDATION_INVALID_URL"   // 절대 URL 아님
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE" // 범위 초과
	ValidationRequired     = "VALIDATION_REQUIRED"      // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌

	// ==================== 향수 (FRAGRANCE_) ====================
	FragranceNotFound     = "FRAGRANCE_NOT_FOUND"      // 향수 없음
	FragranceBrandMissing = "FRAGRANCE_BRAND_REQUIRED" // 브랜드 미지정
	FragranceLinkNotFound = "FRAGRANCE_LINK_NOT_FOUND" // 판매 링크 없음

	// ==================== 리뷰 (REVIEW_) ====================
	ReviewNotFound       = "REVIEW_NOT_FOUND"       // 리뷰 없음
	ReviewInvalidRating  = "REVIEW_INVALID_RATING"  // 잘못된 평점
	ReviewEmptyContent   = "REVIEW_EMPTY_CONTENT"   // 내용 없음
	ReviewAlreadyHelpful = "REVIEW_ALREADY_HELPFUL" // 이미 도움됨 표시
	ReviewOwnComment     = "REVIEW_OWN_COMMENT"     // 본인 리뷰

	// ==================== 노트 (NOTE_) ====================
	NoteNotFound        = "NOTE_NOT_FOUND"        // 노트 없음
	NoteInvalidCategory = "NOTE_INVALID_CATEGORY" // 잘못된 카테고리
	NoteNameExists      = "NOTE_NAME_EXISTS"      // 노트 이름 중복

	// ==================== 판매처 (RETAILER_) ====================
	RetailerNotFound   = "RETAILER_NOT_FOUND"   // 판매처 없음
	RetailerNameExists = "RETAILER_NAME_EXISTS" // 판매처 이름 중복

	// ==================== 일괄 작업 (BULK_) ====================
	BulkUnknownAction = "BULK_UNKNOWN_ACTION" // 알 수 없는 작업
	BulkEmptyPayload  = "BULK_EMPTY_PAYLOAD"  // 작업 데이터 없음

	// ==================== 업로드 (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // 잘못된 파일 형식
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"    // 파일 너무 큼
	UploadFailed          = "UPLOAD_FAILED"            // 업로드 실패

	// ==================== 요청 제한 ====================
	RateLimited = "RATE_LIMITED" // 요청 한도 초과

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // 외부 API 오류
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"   // 설정 오류
)
