package repository

import (
	"github.com/scentvault/scentvault-backend/internal/app/model"
	"github.com/scentvault/scentvault-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RetailerRepository interface {
	WithTx(tx *gorm.DB) RetailerRepository
	UpsertByName(name, websiteURL string) (*model.Retailer, error)
	Create(retailer *model.Retailer) error
	Update(retailer *model.Retailer) error
	Delete(id uint) (int64, error)
	FindByID(id uint) (*model.Retailer, error)
	List() ([]model.Retailer, error)

	UpsertLink(link *model.FragranceRetailer) (*model.FragranceRetailer, error)
	FindLink(fragranceID, linkID uint) (*model.FragranceRetailer, error)
	DeleteLink(fragranceID, linkID uint) error
}

type retailerRepository struct {
	db *gorm.DB
}

func NewRetailerRepository(db *gorm.DB) RetailerRepository {
	return &retailerRepository{db: db}
}

func (r *retailerRepository) WithTx(tx *gorm.DB) RetailerRepository {
	return &retailerRepository{db: tx}
}

// UpsertByName 이름으로 판매처를 찾거나 생성 (기존 판매처의 website 는 유지)
func (r *retailerRepository) UpsertByName(name, websiteURL string) (*model.Retailer, error) {
	var retailer model.Retailer
	row := &model.Retailer{Name: name, WebsiteURL: websiteURL}
	if err := upsertByName(r.db, row, &retailer, name); err != nil {
		logger.Error("Failed to upsert retailer", err, map[string]interface{}{
			"name": name,
		})
		return nil, err
	}
	return &retailer, nil
}

func (r *retailerRepository) Create(retailer *model.Retailer) error {
	if err := r.db.Create(retailer).Error; err != nil {
		logger.Error("Failed to create retailer", err, map[string]interface{}{
			"name": retailer.Name,
		})
		return err
	}
	return nil
}

func (r *retailerRepository) Update(retailer *model.Retailer) error {
	if err := r.db.Omit("Links").Save(retailer).Error; err != nil {
		logger.Error("Failed to update retailer", err, map[string]interface{}{
			"retailer_id": retailer.ID,
		})
		return err
	}
	return nil
}

// Delete 판매처와 상품 링크를 함께 삭제하고, 삭제된 링크 수를 반환
func (r *retailerRepository) Delete(id uint) (int64, error) {
	var removedLinks int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var retailer model.Retailer
		if err := tx.First(&retailer, id).Error; err != nil {
			return err
		}

		result := tx.Where("retailer_id = ?", id).Delete(&model.FragranceRetailer{})
		if result.Error != nil {
			return result.Error
		}
		removedLinks = result.RowsAffected

		return tx.Delete(&retailer).Error
	})
	if err != nil {
		logger.Error("Failed to delete retailer", err, map[string]interface{}{
			"retailer_id": id,
		})
		return 0, err
	}

	logger.Info("Retailer deleted", map[string]interface{}{
		"retailer_id":   id,
		"removed_links": removedLinks,
	})
	return removedLinks, nil
}

func (r *retailerRepository) FindByID(id uint) (*model.Retailer, error) {
	var retailer model.Retailer
	if err := r.db.First(&retailer, id).Error; err != nil {
		return nil, err
	}
	return &retailer, nil
}

func (r *retailerRepository) List() ([]model.Retailer, error) {
	var retailers []model.Retailer
	if err := r.db.Order("name ASC").Find(&retailers).Error; err != nil {
		logger.Error("Failed to list retailers", err)
		return nil, err
	}
	return retailers, nil
}

// UpsertLink (향수, 판매처) 쌍마다 링크 하나: 이미 있으면 URL/가격/통화를 갱신
func (r *retailerRepository) UpsertLink(link *model.FragranceRetailer) (*model.FragranceRetailer, error) {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fragrance_id"}, {Name: "retailer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"product_url", "price", "currency", "updated_at"}),
	}).Omit("Retailer").Create(link).Error
	if err != nil {
		logger.Error("Failed to upsert fragrance retailer link", err, map[string]interface{}{
			"fragrance_id": link.FragranceID,
			"retailer_id":  link.RetailerID,
		})
		return nil, err
	}

	var saved model.FragranceRetailer
	err = r.db.Preload("Retailer").
		Where("fragrance_id = ? AND retailer_id = ?", link.FragranceID, link.RetailerID).
		First(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *retailerRepository) FindLink(fragranceID, linkID uint) (*model.FragranceRetailer, error) {
	var link model.FragranceRetailer
	err := r.db.Preload("Retailer").
		Where("id = ? AND fragrance_id = ?", linkID, fragranceID).
		First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *retailerRepository) DeleteLink(fragranceID, linkID uint) error {
	result := r.db.Where("id = ? AND fragrance_id = ?", linkID, fragranceID).Delete(&model.FragranceRetailer{})
	if result.Error != nil {
		logger.Error("Failed to delete fragrance retailer link", result.Error, map[string]interface{}{
			"fragrance_id": fragranceID,
			"link_id":      linkID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
