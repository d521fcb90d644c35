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
	ErrEmptyName       = errors.New("name is required")
	ErrInvalidCategory = errors.New("invalid note category")
	ErrDuplicateName   = errors.New("name already exists")
	ErrNoteNotFound    = errors.New("note not found")
)

// NoteInput 관리자 노트 생성/수정 입력
type NoteInput struct {
	Name        string             `json:"name" binding:"required"`
	Category    model.NoteCategory `json:"category" binding:"required,note_category"`
	Description *string            `json:"description"`
	ImageURL    *string            `json:"image_url"`
}

// NoteDetail 노트 + 해당 노트를 포함한 향수
type NoteDetail struct {
	model.Note
	Fragrances []model.Fragrance `json:"fragrances"`
}

type TaxonomyService interface {
	// 이름 기반 resolver: 원자적 upsert, 기존 행은 변경하지 않음
	ResolveBrand(tx *gorm.DB, name string) (*model.Brand, error)
	ResolveNote(tx *gorm.DB, name string, category model.NoteCategory) (*model.Note, error)

	ListBrands() ([]model.Brand, error)
	ListNotes(category *model.NoteCategory) ([]model.Note, error)
	GetNote(id uint) (*NoteDetail, error)
	CreateNote(input NoteInput) (*model.Note, error)
	UpdateNote(id uint, input NoteInput) (*model.Note, error)
	DeleteNote(id uint) (int64, error)
}

type taxonomyService struct {
	brandRepo repository.BrandRepository
	noteRepo  repository.NoteRepository
	cache     *cacheGuard
}

func NewTaxonomyService(brandRepo repository.BrandRepository, noteRepo repository.NoteRepository, cache SearchCache) TaxonomyService {
	return &taxonomyService{
		brandRepo: brandRepo,
		noteRepo:  noteRepo,
		cache:     cacheOrNoop(cache),
	}
}

func (s *taxonomyService) brands(tx *gorm.DB) repository.BrandRepository {
	if tx != nil {
		return s.brandRepo.WithTx(tx)
	}
	return s.brandRepo
}

func (s *taxonomyService) notes(tx *gorm.DB) repository.NoteRepository {
	if tx != nil {
		return s.noteRepo.WithTx(tx)
	}
	return s.noteRepo
}

func (s *taxonomyService) ResolveBrand(tx *gorm.DB, name string) (*model.Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("brand: %w", ErrEmptyName)
	}
	return s.brands(tx).UpsertByName(name)
}

func (s *taxonomyService) ResolveNote(tx *gorm.DB, name string, category model.NoteCategory) (*model.Note, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("note: %w", ErrEmptyName)
	}
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	return s.notes(tx).UpsertByName(name, category)
}

func (s *taxonomyService) ListBrands() ([]model.Brand, error) {
	return s.brandRepo.ListWithCounts()
}

func (s *taxonomyService) ListNotes(category *model.NoteCategory) ([]model.Note, error) {
	if category != nil && !category.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, *category)
	}
	return s.noteRepo.List(category)
}

func (s *taxonomyService) GetNote(id uint) (*NoteDetail, error) {
	note, err := s.noteRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}

	fragrances, err := s.noteRepo.FindFragrances(id)
	if err != nil {
		return nil, err
	}

	return &NoteDetail{Note: *note, Fragrances: fragrances}, nil
}

func validateNoteInput(input *NoteInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return fmt.Errorf("note: %w", ErrEmptyName)
	}
	if !input.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, input.Category)
	}
	return nil
}

func (s *taxonomyService) CreateNote(input NoteInput) (*model.Note, error) {
	if err := validateNoteInput(&input); err != nil {
		return nil, err
	}

	note := &model.Note{
		Name:        input.Name,
		Category:    input.Category,
		Description: input.Description,
		ImageURL:    input.ImageURL,
	}
	if err := s.noteRepo.Create(note); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, fmt.Errorf("note %q: %w", input.Name, ErrDuplicateName)
		}
		return nil, err
	}

	s.cache.invalidate("note_created")
	logger.Info("Note created", map[string]interface{}{
		"note_id":  note.ID,
		"name":     note.Name,
		"category": note.Category,
	})
	return note, nil
}

func (s *taxonomyService) UpdateNote(id uint, input NoteInput) (*model.Note, error) {
	if err := validateNoteInput(&input); err != nil {
		return nil, err
	}

	note, err := s.noteRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}

	note.Name = input.Name
	note.Category = input.Category
	note.Description = input.Description
	note.ImageURL = input.ImageURL

	if err := s.noteRepo.Update(note); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, fmt.Errorf("note %q: %w", input.Name, ErrDuplicateName)
		}
		return nil, err
	}

	s.cache.invalidate("note_updated")
	return note, nil
}

func (s *taxonomyService) DeleteNote(id uint) (int64, error) {
	removed, err := s.noteRepo.Delete(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNoteNotFound
		}
		return 0, err
	}

	s.cache.invalidate("note_deleted")
	return removed, nil
}
