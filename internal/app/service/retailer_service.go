package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/scentvault/scentvault-backend/internal/app/model"
	"github.com/scentvault/scentvault-backend/internal/app/repository"
	apperrors "github.com/scentvault/scentvault-backend/internal/errors"
	"github.com/scentvault/scentvault-backend/pkg/logger"
	"github.com/scentvault/scentvault-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrRetailerNotFound = errors.New("retailer not found")
	ErrLinkNotFound     = errors.New("retailer link not found")
	ErrInvalidURL       = errors.New("url must be an absolute URL")
)

// RetailerInput 관리자 판매처 생성/수정 입력
type RetailerInput struct {
	Name       string  `json:"name" binding:"required"`
	WebsiteURL string  `json:"website_url" binding:"required,absurl"`
	LogoURL    *string `json:"logo_url"`
}

// LinkInput 상품 URL 로 향수-판매처 링크 추가
type LinkInput struct {
	URL      string   `json:"url" binding:"required"`
	Price    *float64 `json:"price" binding:"omitempty,min=0"`
	Currency *string  `json:"currency" binding:"omitempty,len=3"`
}

type RetailerService interface {
	ResolveRetailer(tx *gorm.DB, name, websiteURL string) (*model.Retailer, error)

	List() ([]model.Retailer, error)
	Create(input RetailerInput) (*model.Retailer, error)
	Update(id uint, input RetailerInput) (*model.Retailer, error)
	Delete(id uint) (int64, error)

	AddLink(fragranceID uint, input LinkInput) (*model.FragranceRetailer, error)
	DeleteLink(fragranceID, linkID uint) error
}

type retailerService struct {
	retailerRepo  repository.RetailerRepository
	fragranceRepo repository.FragranceRepository
}

func NewRetailerService(retailerRepo repository.RetailerRepository, fragranceRepo repository.FragranceRepository) RetailerService {
	return &retailerService{
		retailerRepo:  retailerRepo,
		fragranceRepo: fragranceRepo,
	}
}

// ResolveRetailer 이름 기반 원자적 upsert (기존 판매처는 변경하지 않음)
func (s *retailerService) ResolveRetailer(tx *gorm.DB, name, websiteURL string) (*model.Retailer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("retailer: %w", ErrEmptyName)
	}

	retailers := s.retailerRepo
	if tx != nil {
		retailers = retailers.WithTx(tx)
	}
	return retailers.UpsertByName(name, websiteURL)
}

func (s *retailerService) List() ([]model.Retailer, error) {
	return s.retailerRepo.List()
}

func validateRetailerInput(input *RetailerInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.WebsiteURL = strings.TrimSpace(input.WebsiteURL)
	if input.Name == "" {
		return fmt.Errorf("retailer: %w", ErrEmptyName)
	}
	if !util.IsAbsoluteURL(input.WebsiteURL) {
		return fmt.Errorf("website_url: %w", ErrInvalidURL)
	}
	return nil
}

func (s *retailerService) Create(input RetailerInput) (*model.Retailer, error) {
	if err := validateRetailerInput(&input); err != nil {
		return nil, err
	}

	retailer := &model.Retailer{
		Name:       input.Name,
		WebsiteURL: input.WebsiteURL,
		LogoURL:    emptyToNil(input.LogoURL),
	}
	if err := s.retailerRepo.Create(retailer); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, fmt.Errorf("retailer %q: %w", input.Name, ErrDuplicateName)
		}
		return nil, err
	}

	logger.Info("Retailer created", map[string]interface{}{
		"retailer_id": retailer.ID,
		"name":        retailer.Name,
	})
	return retailer, nil
}

func (s *retailerService) Update(id uint, input RetailerInput) (*model.Retailer, error) {
	if err := validateRetailerInput(&input); err != nil {
		return nil, err
	}

	retailer, err := s.retailerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRetailerNotFound
		}
		return nil, err
	}

	retailer.Name = input.Name
	retailer.WebsiteURL = input.WebsiteURL
	retailer.LogoURL = emptyToNil(input.LogoURL)

	if err := s.retailerRepo.Update(retailer); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, fmt.Errorf("retailer %q: %w", input.Name, ErrDuplicateName)
		}
		return nil, err
	}
	return retailer, nil
}

func (s *retailerService) Delete(id uint) (int64, error) {
	removed, err := s.retailerRepo.Delete(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrRetailerNotFound
		}
		return 0, err
	}
	return removed, nil
}

// AddLink 상품 URL 에서 판매처를 추정해 resolve 한 뒤 링크를 upsert
func (s *retailerService) AddLink(fragranceID uint, input LinkInput) (*model.FragranceRetailer, error) {
	productURL := strings.TrimSpace(input.URL)
	if !util.IsAbsoluteURL(productURL) {
		return nil, fmt.Errorf("url: %w", ErrInvalidURL)
	}

	exists, err := s.fragranceRepo.Exists(fragranceID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrFragranceNotFound
	}

	identity := util.ClassifyRetailerURL(productURL)

	var link *model.FragranceRetailer
	err = s.fragranceRepo.Transaction(func(tx *gorm.DB) error {
		retailer, err := s.ResolveRetailer(tx, identity.Name, identity.Website)
		if err != nil {
			return err
		}

		link, err = s.retailerRepo.WithTx(tx).UpsertLink(&model.FragranceRetailer{
			FragranceID: fragranceID,
			RetailerID:  retailer.ID,
			ProductURL:  productURL,
			Price:       input.Price,
			Currency:    emptyToNil(input.Currency),
		})
		return err
	})
	if err != nil {
		logger.Error("Failed to add retailer link", err, map[string]interface{}{
			"fragrance_id": fragranceID,
			"url":          productURL,
		})
		return nil, err
	}

	logger.Info("Retailer link added", map[string]interface{}{
		"fragrance_id": fragranceID,
		"retailer":     link.Retailer.Name,
		"link_id":      link.ID,
	})
	return link, nil
}

func (s *retailerService) DeleteLink(fragranceID, linkID uint) error {
	if err := s.retailerRepo.DeleteLink(fragranceID, linkID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLinkNotFound
		}
		return err
	}
	return nil
}
