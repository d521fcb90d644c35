package repository

import (
	"github.com/scentvault/scentvault-backend/internal/app/model"
	"github.com/scentvault/scentvault-backend/pkg/logger"
	"gorm.io/gorm"
)

// RatingStats 향수의 평점 집계 원본 값
type RatingStats struct {
	Count int64
	Sum   int64
}

type CommentRepository interface {
	WithTx(tx *gorm.DB) CommentRepository
	Transaction(fn func(tx *gorm.DB) error) error

	Create(comment *model.Comment) error
	FindByID(id uint) (*model.Comment, error)
	ListByFragrance(fragranceID uint, offset, limit int) ([]model.Comment, int64, error)
	Delete(id uint) error
	RatingStats(fragranceID uint) (RatingStats, error)
	AddHelpfulVote(commentID, userID uint) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) WithTx(tx *gorm.DB) CommentRepository {
	return &commentRepository{db: tx}
}

func (r *commentRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// Create 리뷰 생성
func (r *commentRepository) Create(comment *model.Comment) error {
	if err := r.db.Omit("User", "Votes").Create(comment).Error; err != nil {
		logger.Error("Failed to create comment", err, map[string]interface{}{
			"fragrance_id": comment.FragranceID,
			"user_id":      comment.UserID,
		})
		return err
	}
	return nil
}

// FindByID ID로 리뷰 조회 (작성자 포함)
func (r *commentRepository) FindByID(id uint) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByFragrance 향수별 리뷰 목록 (최신순)
func (r *commentRepository) ListByFragrance(fragranceID uint, offset, limit int) ([]model.Comment, int64, error) {
	var comments []model.Comment
	var total int64

	query := r.db.Model(&model.Comment{}).Where("fragrance_id = ?", fragranceID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		logger.Error("Failed to list comments", err, map[string]interface{}{
			"fragrance_id": fragranceID,
		})
		return nil, 0, err
	}

	return comments, total, nil
}

// Delete 리뷰와 도움됨 투표를 함께 삭제
func (r *commentRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&model.CommentHelpful{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Comment{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// RatingStats 평점이 있는 리뷰의 개수와 합계
func (r *commentRepository) RatingStats(fragranceID uint) (RatingStats, error) {
	var stats RatingStats
	err := r.db.Model(&model.Comment{}).
		Select("COUNT(rating) AS count, COALESCE(SUM(rating), 0) AS sum").
		Where("fragrance_id = ? AND rating IS NOT NULL", fragranceID).
		Scan(&stats).Error
	if err != nil {
		logger.Error("Failed to aggregate ratings", err, map[string]interface{}{
			"fragrance_id": fragranceID,
		})
		return RatingStats{}, err
	}
	return stats, nil
}

// AddHelpfulVote 도움됨 투표 생성 + 카운터 증가 (단일 트랜잭션)
// 같은 사용자의 두 번째 투표는 unique 제약 위반으로 실패하고 카운터는 변하지 않음
func (r *commentRepository) AddHelpfulVote(commentID, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		vote := model.CommentHelpful{CommentID: commentID, UserID: userID}
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}

		return tx.Model(&model.Comment{}).
			Where("id = ?", commentID).
			UpdateColumn("helpful_count", gorm.Expr("helpful_count + ?", 1)).Error
	})
}
