package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/scentvault/scentvault-backend/internal/app/model"
	"github.com/scentvault/scentvault-backend/internal/app/repository"
	apperrors "github.com/scentvault/scentvault-backend/internal/errors"
	"github.com/scentvault/scentvault-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound      = errors.New("comment not found")
	ErrAnonymousUser        = errors.New("anonymous sessions cannot post reviews")
	ErrEmptyContent         = errors.New("content is required")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrOwnComment           = errors.New("cannot mark own comment as helpful")
	ErrAlreadyMarkedHelpful = errors.New("already marked as helpful")
)

// 피드 이벤트 타입
const (
	EventCommentCreated = "comment.created"
	EventCommentDeleted = "comment.deleted"
)

// ReviewEvent 실시간 리뷰 피드 메시지
type ReviewEvent struct {
	Type        string         `json:"type"`
	FragranceID uint           `json:"fragrance_id"`
	CommentID   uint           `json:"comment_id"`
	Comment     *model.Comment `json:"comment,omitempty"`
	RatingAvg   *float64       `json:"rating_avg"`
	ReviewCount int            `json:"review_count"`
}

// ReviewFeed 향수별 실시간 피드 발행 (websocket hub)
// Publish 는 블로킹되지 않아야 함
type ReviewFeed interface {
	Publish(fragranceID uint, message interface{})
}

type CommentInput struct {
	FragranceID uint   `json:"fragrance_id" binding:"required"`
	Content     string `json:"content" binding:"required"`
	Rating      *int   `json:"rating" binding:"required,min=1,max=5"`
}

// CommentPage 리뷰 목록 응답
type CommentPage struct {
	Comments []model.Comment `json:"comments"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

type CommentService interface {
	CreateComment(userID uint, input CommentInput) (*model.Comment, error)
	DeleteComment(id uint) error
	MarkHelpful(commentID, userID uint) error
	ListByFragrance(fragranceID uint, page, pageSize int) (*CommentPage, error)
}

type commentService struct {
	commentRepo   repository.CommentRepository
	fragranceRepo repository.FragranceRepository
	userRepo      repository.UserRepository
	ratings       RatingService
	feed          ReviewFeed
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	fragranceRepo repository.FragranceRepository,
	userRepo repository.UserRepository,
	ratings RatingService,
	feed ReviewFeed,
) CommentService {
	return &commentService{
		commentRepo:   commentRepo,
		fragranceRepo: fragranceRepo,
		userRepo:      userRepo,
		ratings:       ratings,
		feed:          feed,
	}
}

// CreateComment 리뷰 작성: 향수 확인, 리뷰 저장, 평점 재계산을 한 트랜잭션에서 처리
func (s *commentService) CreateComment(userID uint, input CommentInput) (*model.Comment, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.IsAnonymous {
		return nil, ErrAnonymousUser
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if input.Rating == nil || *input.Rating < 1 || *input.Rating > 5 {
		return nil, ErrInvalidRating
	}

	comment := &model.Comment{
		FragranceID: input.FragranceID,
		UserID:      userID,
		Content:     content,
		Rating:      input.Rating,
	}

	var summary *RatingSummary
	err = s.commentRepo.Transaction(func(tx *gorm.DB) error {
		exists, err := s.fragranceRepo.WithTx(tx).Exists(input.FragranceID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrFragranceNotFound
		}

		if err := s.commentRepo.WithTx(tx).Create(comment); err != nil {
			return err
		}

		recomputed, err := s.ratings.Recompute(tx, comment.FragranceID, RatingTriggerCommentCreated)
		if err != nil {
			return err
		}
		summary = &recomputed
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrFragranceNotFound) {
			return nil, err
		}
		logger.Error("Failed to create comment", err, map[string]interface{}{
			"fragrance_id": input.FragranceID,
			"user_id":      userID,
		})
		return nil, err
	}

	comment.User = *user
	logger.Info("Comment created", map[string]interface{}{
		"comment_id":   comment.ID,
		"fragrance_id": comment.FragranceID,
		"user_id":      userID,
	})

	s.publish(EventCommentCreated, comment, summary)
	return comment, nil
}

// DeleteComment 리뷰 삭제 (관리자): 도움됨 투표 삭제, 평점이 있던 리뷰면 재계산
func (s *commentService) DeleteComment(id uint) error {
	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	var summary *RatingSummary
	err = s.commentRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.commentRepo.WithTx(tx).Delete(id); err != nil {
			return err
		}
		if comment.Rating == nil {
			return nil
		}

		recomputed, err := s.ratings.Recompute(tx, comment.FragranceID, RatingTriggerCommentDeleted)
		if err != nil {
			return err
		}
		summary = &recomputed
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		logger.Error("Failed to delete comment", err, map[string]interface{}{
			"comment_id": id,
		})
		return err
	}

	logger.Info("Comment deleted", map[string]interface{}{
		"comment_id":   id,
		"fragrance_id": comment.FragranceID,
	})

	s.publish(EventCommentDeleted, comment, summary)
	return nil
}

// MarkHelpful 도움됨 표시 (사용자당 한 번, 본인 리뷰 불가)
func (s *commentService) MarkHelpful(commentID, userID uint) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.UserID == userID {
		return ErrOwnComment
	}

	if err := s.commentRepo.AddHelpfulVote(commentID, userID); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return fmt.Errorf("comment %d: %w", commentID, ErrAlreadyMarkedHelpful)
		}
		logger.Error("Failed to mark comment helpful", err, map[string]interface{}{
			"comment_id": commentID,
			"user_id":    userID,
		})
		return err
	}
	return nil
}

func (s *commentService) ListByFragrance(fragranceID uint, page, pageSize int) (*CommentPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > MaxListLimit {
		pageSize = 20
	}

	exists, err := s.fragranceRepo.Exists(fragranceID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrFragranceNotFound
	}

	comments, total, err := s.commentRepo.ListByFragrance(fragranceID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.Comment{}
	}

	return &CommentPage{
		Comments: comments,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *commentService) publish(eventType string, comment *model.Comment, summary *RatingSummary) {
	if s.feed == nil {
		return
	}

	event := ReviewEvent{
		Type:        eventType,
		FragranceID: comment.FragranceID,
		CommentID:   comment.ID,
	}
	if eventType == EventCommentCreated {
		event.Comment = comment
	}

	if summary != nil {
		event.RatingAvg = summary.RatingAvg
		event.ReviewCount = summary.ReviewCount
	} else if fragrance, err := s.fragranceRepo.FindByID(comment.FragranceID); err == nil {
		event.RatingAvg = fragrance.RatingAvg
		event.ReviewCount = fragrance.ReviewCount
	}

	s.feed.Publish(comment.FragranceID, event)
}
