package repository

import (
	"strings"

	"github.com/scentvault/scentvault-backend/internal/app/model"
	"github.com/scentvault/scentvault-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FragranceSort string

const (
	FragranceSortRating FragranceSort = "rating"
	FragranceSortName   FragranceSort = "name"
	FragranceSortYear   FragranceSort = "year"
)

// 평점 내림차순 (평점 없는 향수는 마지막), 동점이면 리뷰 수
const ratingOrder = "fragrances.rating_avg IS NULL, fragrances.rating_avg DESC, fragrances.review_count DESC"

type FragranceFilter struct {
	Search string // 이름/브랜드명/설명 부분 일치 (대소문자 무시)
	Brand  string // 브랜드 이름 (정확히 일치)
	Gender string
	SortBy FragranceSort
	Limit  int
	Offset int
}

type FragranceRepository interface {
	WithTx(tx *gorm.DB) FragranceRepository
	Transaction(fn func(tx *gorm.DB) error) error

	Create(fragrance *model.Fragrance) error
	Update(fragrance *model.Fragrance) error
	Delete(id uint) error
	FindByID(id uint) (*model.Fragrance, error)
	Exists(id uint) (bool, error)
	List(filter FragranceFilter) ([]model.Fragrance, int64, error)
	Search(query string, limit int) ([]model.Fragrance, error)
	FindByNameAndBrand(name, brandName string, withoutImageOnly bool) (*model.Fragrance, error)

	ReplaceNotes(fragranceID uint, links []model.FragranceNote) error

	UpdateImage(id uint, imageURL *string) error
	ClearImages() (int64, error)
	ClearImagesMatching(patterns []string) (int64, error)

	UpdateRating(id uint, avg *float64, count int) error
	ListIDs() ([]uint, error)
	FindWithStaleRating() ([]model.Fragrance, error)
}

type fragranceRepository struct {
	db *gorm.DB
}

func NewFragranceRepository(db *gorm.DB) FragranceRepository {
	return &fragranceRepository{db: db}
}

func (r *fragranceRepository) WithTx(tx *gorm.DB) FragranceRepository {
	return &fragranceRepository{db: tx}
}

func (r *fragranceRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func (r *fragranceRepository) Create(fragrance *model.Fragrance) error {
	logger.Debug("Creating fragrance in database", map[string]interface{}{
		"name":     fragrance.Name,
		"brand_id": fragrance.BrandID,
	})

	if err := r.db.Omit(clause.Associations).Create(fragrance).Error; err != nil {
		logger.Error("Failed to create fragrance in database", err, map[string]interface{}{
			"name":     fragrance.Name,
			"brand_id": fragrance.BrandID,
		})
		return err
	}

	logger.Debug("Fragrance created in database", map[string]interface{}{
		"fragrance_id": fragrance.ID,
	})
	return nil
}

// 관리자가 수정 가능한 컬럼 (평점 집계 컬럼은 Recompute 만 갱신)
var fragranceEditableColumns = []string{
	"name", "brand_id", "year", "gender", "concentration", "description", "bottle_image_url", "updated_at",
}

// Update 향수 기본 필드만 저장 (노트/판매처는 별도 관리)
func (r *fragranceRepository) Update(fragrance *model.Fragrance) error {
	err := r.db.Model(fragrance).
		Omit(clause.Associations).
		Select(fragranceEditableColumns).
		Updates(fragrance).Error
	if err != nil {
		logger.Error("Failed to update fragrance in database", err, map[string]interface{}{
			"fragrance_id": fragrance.ID,
		})
		return err
	}
	return nil
}

// Delete 향수와 소유 데이터(노트 연결, 판매 링크, 리뷰, 도움됨 투표)를 한 트랜잭션에서 삭제
func (r *fragranceRepository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var fragrance model.Fragrance
		if err := tx.First(&fragrance, id).Error; err != nil {
			return err
		}

		commentIDs := tx.Model(&model.Comment{}).Select("id").Where("fragrance_id = ?", id)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&model.CommentHelpful{}).Error; err != nil {
			return err
		}
		if err := tx.Where("fragrance_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("fragrance_id = ?", id).Delete(&model.FragranceNote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("fragrance_id = ?", id).Delete(&model.FragranceRetailer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&fragrance).Error
	})
	if err != nil {
		logger.Error("Failed to delete fragrance", err, map[string]interface{}{
			"fragrance_id": id,
		})
		return err
	}

	logger.Info("Fragrance deleted", map[string]interface{}{
		"fragrance_id": id,
	})
	return nil
}

func (r *fragranceRepository) FindByID(id uint) (*model.Fragrance, error) {
	var fragrance model.Fragrance
	err := r.db.
		Preload("Brand").
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("fragrance_notes.id ASC")
		}).
		Preload("Notes.Note").
		Preload("Retailers", func(db *gorm.DB) *gorm.DB {
			return db.Order("fragrance_retailers.price IS NULL, fragrance_retailers.price ASC")
		}).
		Preload("Retailers.Retailer").
		First(&fragrance, id).Error
	if err != nil {
		return nil, err
	}
	return &fragrance, nil
}

func (r *fragranceRepository) Exists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Fragrance{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *fragranceRepository) List(filter FragranceFilter) ([]model.Fragrance, int64, error) {
	logger.Debug("Listing fragrances with filter", map[string]interface{}{
		"search": filter.Search,
		"brand":  filter.Brand,
		"gender": filter.Gender,
		"sort":   filter.SortBy,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})

	query := r.db.Model(&model.Fragrance{}).
		Joins("JOIN brands ON brands.id = fragrances.brand_id")

	if filter.Search != "" {
		like := containsPattern(filter.Search)
		query = query.Where(
			"LOWER(fragrances.name) LIKE ? OR LOWER(brands.name) LIKE ? OR LOWER(COALESCE(fragrances.description, '')) LIKE ?",
			like, like, like,
		)
	}
	if filter.Brand != "" {
		query = query.Where("brands.name = ?", filter.Brand)
	}
	if filter.Gender != "" {
		query = query.Where("fragrances.gender = ?", filter.Gender)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count fragrances", err)
		return nil, 0, err
	}

	switch filter.SortBy {
	case FragranceSortName:
		query = query.Order("fragrances.name ASC")
	case FragranceSortYear:
		query = query.Order("fragrances.year IS NULL, fragrances.year DESC, fragrances.name ASC")
	default:
		query = query.Order(ratingOrder)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var fragrances []model.Fragrance
	err := query.Select("fragrances.*").
		Preload("Brand").
		Preload("Notes.Note").
		Find(&fragrances).Error
	if err != nil {
		logger.Error("Failed to list fragrances", err)
		return nil, 0, err
	}

	return fragrances, total, nil
}

// Search 자동완성 검색: 향수 이름, 브랜드 이름, 노트 이름 부분 일치
func (r *fragranceRepository) Search(q string, limit int) ([]model.Fragrance, error) {
	like := containsPattern(q)

	noteMatches := r.db.Model(&model.FragranceNote{}).
		Select("fragrance_notes.fragrance_id").
		Joins("JOIN notes ON notes.id = fragrance_notes.note_id").
		Where("LOWER(notes.name) LIKE ?", like)

	var fragrances []model.Fragrance
	err := r.db.Model(&model.Fragrance{}).
		Select("fragrances.*").
		Joins("JOIN brands ON brands.id = fragrances.brand_id").
		Where("LOWER(fragrances.name) LIKE ? OR LOWER(brands.name) LIKE ? OR fragrances.id IN (?)", like, like, noteMatches).
		Preload("Brand").
		Order(ratingOrder).
		Limit(limit).
		Find(&fragrances).Error
	if err != nil {
		logger.Error("Failed to search fragrances", err, map[string]interface{}{
			"query": q,
		})
		return nil, err
	}
	return fragrances, nil
}

// FindByNameAndBrand 이름 + 브랜드 이름 정확히 일치하는 향수 조회
// withoutImageOnly 이면 이미지가 없는 향수만 대상
func (r *fragranceRepository) FindByNameAndBrand(name, brandName string, withoutImageOnly bool) (*model.Fragrance, error) {
	query := r.db.Model(&model.Fragrance{}).
		Select("fragrances.*").
		Joins("JOIN brands ON brands.id = fragrances.brand_id").
		Where("fragrances.name = ? AND brands.name = ?", name, brandName)
	if withoutImageOnly {
		query = query.Where("fragrances.bottle_image_url IS NULL OR fragrances.bottle_image_url = ''")
	}

	var fragrance model.Fragrance
	if err := query.First(&fragrance).Error; err != nil {
		return nil, err
	}
	return &fragrance, nil
}

// ReplaceNotes 향수의 노트 연결 전체 교체 (삭제 후 삽입, 단일 트랜잭션)
// 실패하면 이전 연결이 그대로 유지됨
func (r *fragranceRepository) ReplaceNotes(fragranceID uint, links []model.FragranceNote) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("fragrance_id = ?", fragranceID).Delete(&model.FragranceNote{}).Error; err != nil {
			return err
		}
		if len(links) == 0 {
			return nil
		}

		rows := make([]model.FragranceNote, len(links))
		for i, link := range links {
			rows[i] = model.FragranceNote{
				FragranceID: fragranceID,
				NoteID:      link.NoteID,
				Category:    link.Category,
				Intensity:   link.Intensity,
			}
		}
		return tx.Omit("Note").Create(&rows).Error
	})
	if err != nil {
		logger.Error("Failed to replace fragrance notes", err, map[string]interface{}{
			"fragrance_id": fragranceID,
			"links":        len(links),
		})
		return err
	}

	logger.Debug("Fragrance notes replaced", map[string]interface{}{
		"fragrance_id": fragranceID,
		"links":        len(links),
	})
	return nil
}

func (r *fragranceRepository) UpdateImage(id uint, imageURL *string) error {
	result := r.db.Model(&model.Fragrance{}).Where("id = ?", id).Update("bottle_image_url", imageURL)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearImages 이미지가 있는 모든 향수의 이미지를 제거
func (r *fragranceRepository) ClearImages() (int64, error) {
	result := r.db.Model(&model.Fragrance{}).
		Where("bottle_image_url IS NOT NULL").
		Update("bottle_image_url", nil)
	return result.RowsAffected, result.Error
}

// ClearImagesMatching LIKE 패턴 중 하나와 일치하는 이미지를 제거
func (r *fragranceRepository) ClearImagesMatching(patterns []string) (int64, error) {
	if len(patterns) == 0 {
		return 0, nil
	}

	conditions := make([]string, len(patterns))
	args := make([]interface{}, len(patterns))
	for i, p := range patterns {
		conditions[i] = "bottle_image_url LIKE ?"
		args[i] = p
	}

	result := r.db.Model(&model.Fragrance{}).
		Where(strings.Join(conditions, " OR "), args...).
		Update("bottle_image_url", nil)
	return result.RowsAffected, result.Error
}

// UpdateRating 집계 평점 저장 (avg 와 count 는 항상 함께 갱신)
func (r *fragranceRepository) UpdateRating(id uint, avg *float64, count int) error {
	return r.db.Model(&model.Fragrance{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"rating_avg":   avg,
			"review_count": count,
		}).Error
}

func (r *fragranceRepository) ListIDs() ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&model.Fragrance{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// FindWithStaleRating 리뷰가 없는데 평점이 남아 있는 향수
func (r *fragranceRepository) FindWithStaleRating() ([]model.Fragrance, error) {
	var fragrances []model.Fragrance
	err := r.db.Preload("Brand").
		Where("review_count = 0 AND rating_avg IS NOT NULL").
		Find(&fragrances).Error
	if err != nil {
		return nil, err
	}
	return fragrances, nil
}

func containsPattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}
