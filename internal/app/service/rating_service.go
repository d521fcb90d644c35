package service

import (
	"github.com/scentvault/scentvault-backend/internal/app/repository"
	"github.com/scentvault/scentvault-backend/internal/metrics"
	"github.com/scentvault/scentvault-backend/pkg/logger"
	"gorm.io/gorm"
)

// 재계산 트리거 (메트릭 라벨)
const (
	RatingTriggerCommentCreated = "comment_created"
	RatingTriggerCommentDeleted = "comment_deleted"
	RatingTriggerRepair         = "repair"
)

// RatingSummary 재계산된 향수 평점 집계
type RatingSummary struct {
	FragranceID uint     `json:"fragrance_id"`
	RatingAvg   *float64 `json:"rating_avg"`
	ReviewCount int      `json:"review_count"`
}

// StaleRating 리뷰가 없는데 평점이 남아 있던 향수 (수정 전 값 포함)
type StaleRating struct {
	ID        uint     `json:"id"`
	Name      string   `json:"name"`
	Brand     string   `json:"brand"`
	OldRating *float64 `json:"old_rating"`
}

// RepairResult 일괄 재계산 결과 (행 단위 실패는 계속 진행)
type RepairResult struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

type RatingService interface {
	// Recompute 평점 있는 리뷰 전체로 rating_avg / review_count 를 다시 계산
	// tx 가 주어지면 호출자의 트랜잭션 안에서 실행됨
	Recompute(tx *gorm.DB, fragranceID uint, trigger string) (RatingSummary, error)
	FixZeroRatings() ([]StaleRating, error)
	RecomputeAll() (RepairResult, error)
}

type ratingService struct {
	fragranceRepo repository.FragranceRepository
	commentRepo   repository.CommentRepository
}

func NewRatingService(fragranceRepo repository.FragranceRepository, commentRepo repository.CommentRepository) RatingService {
	return &ratingService{
		fragranceRepo: fragranceRepo,
		commentRepo:   commentRepo,
	}
}

// averageRating count 가 0 이면 nil (0 이 아님)
func averageRating(stats repository.RatingStats) *float64 {
	if stats.Count == 0 {
		return nil
	}
	avg := float64(stats.Sum) / float64(stats.Count)
	return &avg
}

func (s *ratingService) Recompute(tx *gorm.DB, fragranceID uint, trigger string) (RatingSummary, error) {
	comments := s.commentRepo
	fragrances := s.fragranceRepo
	if tx != nil {
		comments = comments.WithTx(tx)
		fragrances = fragrances.WithTx(tx)
	}

	stats, err := comments.RatingStats(fragranceID)
	if err != nil {
		return RatingSummary{}, err
	}

	summary := RatingSummary{
		FragranceID: fragranceID,
		RatingAvg:   averageRating(stats),
		ReviewCount: int(stats.Count),
	}

	if err := fragrances.UpdateRating(fragranceID, summary.RatingAvg, summary.ReviewCount); err != nil {
		logger.Error("Failed to store recomputed rating", err, map[string]interface{}{
			"fragrance_id": fragranceID,
		})
		return RatingSummary{}, err
	}

	metrics.RecordRatingRecompute(trigger)
	logger.Debug("Rating recomputed", map[string]interface{}{
		"fragrance_id": fragranceID,
		"review_count": summary.ReviewCount,
		"trigger":      trigger,
	})
	return summary, nil
}

func (s *ratingService) FixZeroRatings() ([]StaleRating, error) {
	stale, err := s.fragranceRepo.FindWithStaleRating()
	if err != nil {
		logger.Error("Failed to find stale ratings", err)
		return nil, err
	}

	fixed := make([]StaleRating, 0, len(stale))
	for _, f := range stale {
		if err := s.fragranceRepo.UpdateRating(f.ID, nil, 0); err != nil {
			logger.Error("Failed to clear stale rating", err, map[string]interface{}{
				"fragrance_id": f.ID,
			})
			continue
		}
		fixed = append(fixed, StaleRating{
			ID:        f.ID,
			Name:      f.Name,
			Brand:     f.Brand.Name,
			OldRating: f.RatingAvg,
		})
	}

	logger.Info("Stale ratings fixed", map[string]interface{}{
		"found": len(stale),
		"fixed": len(fixed),
	})
	return fixed, nil
}

func (s *ratingService) RecomputeAll() (RepairResult, error) {
	ids, err := s.fragranceRepo.ListIDs()
	if err != nil {
		logger.Error("Failed to list fragrances for rating repair", err)
		return RepairResult{}, err
	}

	var result RepairResult
	for _, id := range ids {
		err := s.fragranceRepo.Transaction(func(tx *gorm.DB) error {
			_, err := s.Recompute(tx, id, RatingTriggerRepair)
			return err
		})
		if err != nil {
			result.Failed++
			continue
		}
		result.Processed++
	}

	logger.Info("Ratings recomputed", map[string]interface{}{
		"processed": result.Processed,
		"failed":    result.Failed,
	})
	return result, nil
}
