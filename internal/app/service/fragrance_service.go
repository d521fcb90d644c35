package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/scentvault/scentvault-backend/internal/app/model"
	"github.com/scentvault/scentvault-backend/internal/app/repository"
	"github.com/scentvault/scentvault-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrFragranceNotFound = errors.New("fragrance not found")
	ErrBrandNotFound     = errors.New("brand not found")
	ErrBrandRequired     = errors.New("brand_id or brand_name is required")
	ErrUnknownNote       = errors.New("unknown note")
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 100
	SearchMinLength  = 2
	SearchLimit      = 10
)

type FragranceSort string

const (
	FragranceSortRating FragranceSort = "rating"
	FragranceSortName   FragranceSort = "name"
	FragranceSortYear   FragranceSort = "year"
)

type FragranceListOptions struct {
	Search string
	Brand  string
	Gender string
	Sort   FragranceSort
	Limit  int
	Offset int
}

// FragranceList 목록 응답
type FragranceList struct {
	Fragrances []model.Fragrance `json:"fragrances"`
	Total      int64             `json:"total"`
	Limit      int               `json:"limit"`
	Offset     int               `json:"offset"`
}

// NoteEntry 향수에 연결할 노트 (note_id 또는 새 노트 이름 note_name)
type NoteEntry struct {
	NoteID    *uint              `json:"note_id"`
	NoteName  string             `json:"note_name"`
	Category  model.NoteCategory `json:"category" binding:"required,note_category"`
	Intensity *int               `json:"intensity" binding:"omitempty,min=1,max=5"`
}

// FragranceInput 관리자 향수 생성/수정 입력
// 수정 시 Notes 가 nil 이면 기존 노트 유지, 빈 배열이면 모두 제거
type FragranceInput struct {
	Name           string      `json:"name" binding:"required"`
	BrandID        *uint       `json:"brand_id"`
	BrandName      string      `json:"brand_name"`
	Year           *int        `json:"year" binding:"omitempty,min=1000,max=2100"`
	Gender         *string     `json:"gender"`
	Concentration  *string     `json:"concentration"`
	Description    *string     `json:"description"`
	BottleImageURL *string     `json:"bottle_image_url"`
	Notes          []NoteEntry `json:"notes" binding:"omitempty,dive"`
}

type FragranceService interface {
	List(opts FragranceListOptions) (*FragranceList, error)
	Get(id uint) (*model.Fragrance, error)
	Search(query string) ([]model.Fragrance, error)
	Create(input FragranceInput) (*model.Fragrance, error)
	Update(id uint, input FragranceInput) (*model.Fragrance, error)
	Delete(id uint) error
}

type fragranceService struct {
	fragranceRepo repository.FragranceRepository
	brandRepo     repository.BrandRepository
	noteRepo      repository.NoteRepository
	taxonomy      TaxonomyService
	cache         *cacheGuard
}

func NewFragranceService(
	fragranceRepo repository.FragranceRepository,
	brandRepo repository.BrandRepository,
	noteRepo repository.NoteRepository,
	taxonomy TaxonomyService,
	cache SearchCache,
) FragranceService {
	return &fragranceService{
		fragranceRepo: fragranceRepo,
		brandRepo:     brandRepo,
		noteRepo:      noteRepo,
		taxonomy:      taxonomy,
		cache:         cacheOrNoop(cache),
	}
}

func (s *fragranceService) List(opts FragranceListOptions) (*FragranceList, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultListLimit
	}
	if opts.Limit > MaxListLimit {
		opts.Limit = MaxListLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	filter := repository.FragranceFilter{
		Search: strings.TrimSpace(opts.Search),
		Brand:  strings.TrimSpace(opts.Brand),
		Gender: strings.TrimSpace(opts.Gender),
		Limit:  opts.Limit,
		Offset: opts.Offset,
	}

	switch opts.Sort {
	case FragranceSortName:
		filter.SortBy = repository.FragranceSortName
	case FragranceSortYear:
		filter.SortBy = repository.FragranceSortYear
	default:
		filter.SortBy = repository.FragranceSortRating
	}

	fragrances, total, err := s.fragranceRepo.List(filter)
	if err != nil {
		logger.Error("Failed to list fragrances", err)
		return nil, err
	}

	return &FragranceList{
		Fragrances: fragrances,
		Total:      total,
		Limit:      opts.Limit,
		Offset:     opts.Offset,
	}, nil
}

func (s *fragranceService) Get(id uint) (*model.Fragrance, error) {
	fragrance, err := s.fragranceRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFragranceNotFound
		}
		logger.Error("Failed to get fragrance", err, map[string]interface{}{
			"fragrance_id": id,
		})
		return nil, err
	}
	return fragrance, nil
}

// Search 자동완성: 2자 미만이면 빈 결과, 평점순 상위 10개
func (s *fragranceService) Search(query string) ([]model.Fragrance, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < SearchMinLength {
		return []model.Fragrance{}, nil
	}

	var cached []model.Fragrance
	if s.cache.lookup(query, &cached) {
		return cached, nil
	}

	results, err := s.fragranceRepo.Search(query, SearchLimit)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []model.Fragrance{}
	}

	s.cache.store(query, results)
	return results, nil
}

func (s *fragranceService) Create(input FragranceInput) (*model.Fragrance, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("fragrance: %w", ErrEmptyName)
	}

	var fragranceID uint
	err := s.fragranceRepo.Transaction(func(tx *gorm.DB) error {
		brand, err := s.resolveBrand(tx, input)
		if err != nil {
			return err
		}

		fragrance := &model.Fragrance{BrandID: brand.ID}
		applyFragranceInput(fragrance, input)
		if err := s.fragranceRepo.WithTx(tx).Create(fragrance); err != nil {
			return err
		}
		fragranceID = fragrance.ID

		if len(input.Notes) == 0 {
			return nil
		}
		return s.replaceNotes(tx, fragrance.ID, input.Notes)
	})
	if err != nil {
		logger.Error("Failed to create fragrance", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}

	s.cache.invalidate("fragrance_created")
	logger.Info("Fragrance created", map[string]interface{}{
		"fragrance_id": fragranceID,
		"name":         input.Name,
	})
	return s.Get(fragranceID)
}

func (s *fragranceService) Update(id uint, input FragranceInput) (*model.Fragrance, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("fragrance: %w", ErrEmptyName)
	}

	err := s.fragranceRepo.Transaction(func(tx *gorm.DB) error {
		fragrances := s.fragranceRepo.WithTx(tx)
		fragrance, err := fragrances.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFragranceNotFound
			}
			return err
		}

		if input.BrandID != nil || strings.TrimSpace(input.BrandName) != "" {
			brand, err := s.resolveBrand(tx, input)
			if err != nil {
				return err
			}
			fragrance.BrandID = brand.ID
			fragrance.Brand = *brand
		}

		applyFragranceInput(fragrance, input)
		if err := fragrances.Update(fragrance); err != nil {
			return err
		}

		if input.Notes == nil {
			return nil
		}
		return s.replaceNotes(tx, id, input.Notes)
	})
	if err != nil {
		if !errors.Is(err, ErrFragranceNotFound) {
			logger.Error("Failed to update fragrance", err, map[string]interface{}{
				"fragrance_id": id,
			})
		}
		return nil, err
	}

	s.cache.invalidate("fragrance_updated")
	return s.Get(id)
}

func (s *fragranceService) Delete(id uint) error {
	if err := s.fragranceRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFragranceNotFound
		}
		return err
	}

	s.cache.invalidate("fragrance_deleted")
	return nil
}

func applyFragranceInput(f *model.Fragrance, input FragranceInput) {
	f.Name = input.Name
	f.Year = input.Year
	f.Gender = emptyToNil(input.Gender)
	f.Concentration = emptyToNil(input.Concentration)
	f.Description = emptyToNil(input.Description)
	f.BottleImageURL = emptyToNil(input.BottleImageURL)
}

// resolveBrand brand_id 가 있으면 존재 확인, 없으면 brand_name 으로 resolve
func (s *fragranceService) resolveBrand(tx *gorm.DB, input FragranceInput) (*model.Brand, error) {
	if input.BrandID != nil {
		brand, err := s.brandRepo.WithTx(tx).FindByID(*input.BrandID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: id %d", ErrBrandNotFound, *input.BrandID)
			}
			return nil, err
		}
		return brand, nil
	}

	if strings.TrimSpace(input.BrandName) == "" {
		return nil, ErrBrandRequired
	}
	return s.taxonomy.ResolveBrand(tx, input.BrandName)
}

// replaceNotes 노트 항목을 resolve 한 뒤 연결 전체 교체 (중복 노트는 첫 항목만)
func (s *fragranceService) replaceNotes(tx *gorm.DB, fragranceID uint, entries []NoteEntry) error {
	var ids []uint
	for _, e := range entries {
		if e.NoteID != nil {
			ids = append(ids, *e.NoteID)
		}
	}

	known := make(map[uint]bool, len(ids))
	if len(ids) > 0 {
		notes, err := s.noteRepo.WithTx(tx).FindByIDs(ids)
		if err != nil {
			return err
		}
		for _, n := range notes {
			known[n.ID] = true
		}
	}

	seen := make(map[uint]bool, len(entries))
	links := make([]model.FragranceNote, 0, len(entries))
	for _, e := range entries {
		var noteID uint
		switch {
		case e.NoteID != nil:
			if !known[*e.NoteID] {
				return fmt.Errorf("%w: id %d", ErrUnknownNote, *e.NoteID)
			}
			noteID = *e.NoteID
		case strings.TrimSpace(e.NoteName) != "":
			note, err := s.taxonomy.ResolveNote(tx, e.NoteName, e.Category)
			if err != nil {
				return err
			}
			noteID = note.ID
		default:
			return fmt.Errorf("%w: note_id or note_name is required", ErrUnknownNote)
		}

		if !e.Category.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidCategory, e.Category)
		}
		if seen[noteID] {
			continue
		}
		seen[noteID] = true

		links = append(links, model.FragranceNote{
			NoteID:    noteID,
			Category:  e.Category,
			Intensity: e.Intensity,
		})
	}

	return s.fragranceRepo.WithTx(tx).ReplaceNotes(fragranceID, links)
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
