package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/scentvault/scentvault-backend/internal/app/repository"
	"github.com/scentvault/scentvault-backend/internal/metrics"
	"github.com/scentvault/scentvault-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrUnknownBulkAction = errors.New("unknown bulk action")
	ErrEmptyBulkPayload  = errors.New("bulk payload must be an array")
	ErrBulkTooLarge      = errors.New("bulk payload too large")
)

type BulkAction string

const (
	BulkClearImages          BulkAction = "clear-images"
	BulkUpdateImages         BulkAction = "update-images"
	BulkFixImageURLs         BulkAction = "fix-image-urls"
	BulkUpdateImagesFromJSON BulkAction = "update-images-from-json"
	BulkFixZeroRatings       BulkAction = "fix-zero-ratings"
	BulkRecomputeRatings     BulkAction = "recompute-ratings"
)

// MaxBulkRows 요청 하나에 허용되는 최대 행 수 (큰 데이터셋은 클라이언트가 나눠서 전송)
const MaxBulkRows = 1000

// 외부 데이터셋의 사용할 수 없는 placeholder 이미지 패턴 (LIKE)
var placeholderImagePatterns = []string{"%fimgs.net%", "o.%.jpg"}

// ImageUpdate update-images 항목: 이름 + 브랜드 정확히 일치
type ImageUpdate struct {
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	ImageURL string `json:"image_url"`
}

// DatasetEntry update-images-from-json 항목 (향수 데이터셋 형식)
type DatasetEntry struct {
	Perfume string `json:"perfume"`
	Brand   string `json:"brand"`
	Image   string `json:"image,omitempty"`
}

type BulkRequest struct {
	Action  BulkAction     `json:"action" binding:"required"`
	Updates []ImageUpdate  `json:"updates"`
	Data    []DatasetEntry `json:"data"`
}

// BulkSummary 작업 결과: 실제로 반영된 만큼만 집계됨
type BulkSummary struct {
	Action    BulkAction    `json:"action"`
	Cleared   int64         `json:"cleared"`
	Updated   int           `json:"updated"`
	Skipped   int           `json:"skipped"`
	NotFound  int           `json:"not_found"`
	Failed    int           `json:"failed"`
	Processed int           `json:"processed"`
	Errors    []string      `json:"errors"`
	Fixed     []StaleRating `json:"fixed,omitempty"`
	Message   string        `json:"message"`
}

// Add 청크별 결과 합산
func (s *BulkSummary) Add(other BulkSummary) {
	if s.Action == "" {
		s.Action = other.Action
	}
	s.Cleared += other.Cleared
	s.Updated += other.Updated
	s.Skipped += other.Skipped
	s.NotFound += other.NotFound
	s.Failed += other.Failed
	s.Processed += other.Processed
	s.Errors = append(s.Errors, other.Errors...)
	s.Fixed = append(s.Fixed, other.Fixed...)
}

type BulkService interface {
	Execute(req BulkRequest) (*BulkSummary, error)
}

type bulkService struct {
	fragranceRepo repository.FragranceRepository
	ratings       RatingService
	cache         *cacheGuard
}

func NewBulkService(fragranceRepo repository.FragranceRepository, ratings RatingService, cache SearchCache) BulkService {
	return &bulkService{
		fragranceRepo: fragranceRepo,
		ratings:       ratings,
		cache:         cacheOrNoop(cache),
	}
}

func (s *bulkService) Execute(req BulkRequest) (*BulkSummary, error) {
	var (
		summary *BulkSummary
		err     error
	)

	switch req.Action {
	case BulkClearImages:
		summary, err = s.clearImages()
	case BulkUpdateImages:
		if req.Updates == nil {
			return nil, fmt.Errorf("updates: %w", ErrEmptyBulkPayload)
		}
		if len(req.Updates) > MaxBulkRows {
			return nil, fmt.Errorf("%w: %d rows (max %d)", ErrBulkTooLarge, len(req.Updates), MaxBulkRows)
		}
		summary = s.updateImages(req.Updates)
	case BulkFixImageURLs:
		summary, err = s.fixImageURLs()
	case BulkUpdateImagesFromJSON:
		if req.Data == nil {
			return nil, fmt.Errorf("data: %w", ErrEmptyBulkPayload)
		}
		if len(req.Data) > MaxBulkRows {
			return nil, fmt.Errorf("%w: %d rows (max %d)", ErrBulkTooLarge, len(req.Data), MaxBulkRows)
		}
		summary = s.updateImagesFromDataset(req.Data)
	case BulkFixZeroRatings:
		summary, err = s.fixZeroRatings()
	case BulkRecomputeRatings:
		summary, err = s.recomputeRatings()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBulkAction, req.Action)
	}
	if err != nil {
		logger.Error("Bulk operation failed", err, map[string]interface{}{
			"action": req.Action,
		})
		return nil, err
	}

	summary.Action = req.Action
	if summary.Errors == nil {
		summary.Errors = []string{}
	}
	if summary.Cleared > 0 || summary.Updated > 0 {
		s.cache.invalidate(string(req.Action))
	}

	logger.Info("Bulk operation completed", map[string]interface{}{
		"action":    req.Action,
		"cleared":   summary.Cleared,
		"updated":   summary.Updated,
		"skipped":   summary.Skipped,
		"not_found": summary.NotFound,
		"failed":    summary.Failed,
	})
	return summary, nil
}

func (s *bulkService) clearImages() (*BulkSummary, error) {
	cleared, err := s.fragranceRepo.ClearImages()
	if err != nil {
		return nil, err
	}

	metrics.RecordBulkRows(string(BulkClearImages), "cleared", int(cleared))
	return &BulkSummary{
		Cleared: cleared,
		Message: fmt.Sprintf("Cleared images from %d fragrances", cleared),
	}, nil
}

func (s *bulkService) fixImageURLs() (*BulkSummary, error) {
	cleared, err := s.fragranceRepo.ClearImagesMatching(placeholderImagePatterns)
	if err != nil {
		return nil, err
	}

	metrics.RecordBulkRows(string(BulkFixImageURLs), "cleared", int(cleared))
	return &BulkSummary{
		Cleared: cleared,
		Message: fmt.Sprintf("Cleared %d placeholder images", cleared),
	}, nil
}

// updateImages 이름 + 브랜드로 찾아 이미지 덮어쓰기 (행 단위 커밋)
func (s *bulkService) updateImages(updates []ImageUpdate) *BulkSummary {
	summary := &BulkSummary{}
	for _, u := range updates {
		name := strings.TrimSpace(u.Name)
		brand := strings.TrimSpace(u.Brand)

		fragrance, err := s.fragranceRepo.FindByNameAndBrand(name, brand, false)
		if err != nil {
			summary.Failed++
			if errors.Is(err, gorm.ErrRecordNotFound) {
				summary.Errors = append(summary.Errors, fmt.Sprintf("Not found: %s by %s", name, brand))
			} else {
				summary.Errors = append(summary.Errors, fmt.Sprintf("Error updating %s: %v", name, err))
			}
			continue
		}

		imageURL := strings.TrimSpace(u.ImageURL)
		var image *string
		if imageURL != "" {
			image = &imageURL
		}
		if err := s.fragranceRepo.UpdateImage(fragrance.ID, image); err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("Error updating %s: %v", name, err))
			continue
		}
		summary.Updated++
	}

	metrics.RecordBulkRows(string(BulkUpdateImages), "updated", summary.Updated)
	metrics.RecordBulkRows(string(BulkUpdateImages), "failed", summary.Failed)
	summary.Message = fmt.Sprintf("Updated %d fragrances, %d failed", summary.Updated, summary.Failed)
	return summary
}

// updateImagesFromDataset 이미지가 없는 향수에만 데이터셋 이미지를 채움 (기존 이미지는 덮어쓰지 않음)
func (s *bulkService) updateImagesFromDataset(entries []DatasetEntry) *BulkSummary {
	summary := &BulkSummary{}
	for _, entry := range entries {
		image := strings.TrimSpace(entry.Image)
		if image == "" {
			summary.Skipped++
			continue
		}

		fragrance, err := s.fragranceRepo.FindByNameAndBrand(strings.TrimSpace(entry.Perfume), strings.TrimSpace(entry.Brand), true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				summary.NotFound++
			} else {
				summary.Failed++
			}
			continue
		}

		if err := s.fragranceRepo.UpdateImage(fragrance.ID, &image); err != nil {
			summary.Failed++
			continue
		}
		summary.Updated++
	}

	action := string(BulkUpdateImagesFromJSON)
	metrics.RecordBulkRows(action, "updated", summary.Updated)
	metrics.RecordBulkRows(action, "skipped", summary.Skipped)
	metrics.RecordBulkRows(action, "not_found", summary.NotFound)
	metrics.RecordBulkRows(action, "failed", summary.Failed)
	summary.Message = fmt.Sprintf(
		"Updated %d fragrances with images. Skipped %d (no image). Not found/already has image: %d.",
		summary.Updated, summary.Skipped, summary.NotFound,
	)
	return summary
}

func (s *bulkService) fixZeroRatings() (*BulkSummary, error) {
	fixed, err := s.ratings.FixZeroRatings()
	if err != nil {
		return nil, err
	}

	metrics.RecordBulkRows(string(BulkFixZeroRatings), "updated", len(fixed))
	return &BulkSummary{
		Updated: len(fixed),
		Fixed:   fixed,
		Message: fmt.Sprintf("Fixed %d fragrances with a rating but no reviews", len(fixed)),
	}, nil
}

func (s *bulkService) recomputeRatings() (*BulkSummary, error) {
	result, err := s.ratings.RecomputeAll()
	if err != nil {
		return nil, err
	}

	metrics.RecordBulkRows(string(BulkRecomputeRatings), "updated", result.Processed)
	metrics.RecordBulkRows(string(BulkRecomputeRatings), "failed", result.Failed)
	return &BulkSummary{
		Processed: result.Processed,
		Failed:    result.Failed,
		Message:   fmt.Sprintf("Recomputed ratings for %d fragrances, %d failed", result.Processed, result.Failed),
	}, nil
}
