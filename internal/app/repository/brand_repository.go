package repository

import (
	"github.com/scentvault/scentvault-backend/internal/app/model"
	"github.com/scentvault/scentvault-backend/pkg/logger"
	"gorm.io/gorm"
)

type BrandRepository interface {
	WithTx(tx *gorm.DB) BrandRepository
	UpsertByName(name string) (*model.Brand, error)
	FindByID(id uint) (*model.Brand, error)
	FindByName(name string) (*model.Brand, error)
	ListWithCounts() ([]model.Brand, error)
}

type brandRepository struct {
	db *gorm.DB
}

func NewBrandRepository(db *gorm.DB) BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) WithTx(tx *gorm.DB) BrandRepository {
	return &brandRepository{db: tx}
}

// UpsertByName 이름으로 브랜드를 찾거나 생성 (원자적)
func (r *brandRepository) UpsertByName(name string) (*model.Brand, error) {
	var brand model.Brand
	if err := upsertByName(r.db, &model.Brand{Name: name}, &brand, name); err != nil {
		logger.Error("Failed to upsert brand", err, map[string]interface{}{
			"name": name,
		})
		return nil, err
	}
	return &brand, nil
}

func (r *brandRepository) FindByID(id uint) (*model.Brand, error) {
	var brand model.Brand
	if err := r.db.First(&brand, id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *brandRepository) FindByName(name string) (*model.Brand, error) {
	var brand model.Brand
	if err := r.db.Where("name = ?", name).First(&brand).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

// ListWithCounts 브랜드 목록 (이름순) + 브랜드별 향수 수
func (r *brandRepository) ListWithCounts() ([]model.Brand, error) {
	var brands []model.Brand
	if err := r.db.Order("name ASC").Find(&brands).Error; err != nil {
		logger.Error("Failed to list brands", err)
		return nil, err
	}

	var rows []struct {
		BrandID uint
		Count   int64
	}
	err := r.db.Model(&model.Fragrance{}).
		Select("brand_id, COUNT(*) AS count").
		Group("brand_id").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to count fragrances per brand", err)
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.BrandID] = row.Count
	}
	for i := range brands {
		brands[i].FragranceCount = counts[brands[i].ID]
	}

	return brands, nil
}
