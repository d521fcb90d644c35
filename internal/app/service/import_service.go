package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/scentvault/scentvault-backend/internal/app/model"
	"github.com/scentvault/scentvault-backend/internal/app/repository"
	"github.com/scentvault/scentvault-backend/internal/metrics"
	"github.com/scentvault/scentvault-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrImportNameBrandRequired = errors.New("name and brand are required")

// 가져오기 시 연결되는 노트 강도 기본값
const importNoteIntensity = 3

// ImportNotes 카테고리별 노트 이름
type ImportNotes struct {
	Top   []string `json:"top"`
	Heart []string `json:"heart"`
	Base  []string `json:"base"`
}

// ImportEntry 카탈로그 가져오기 항목
type ImportEntry struct {
	Name           string       `json:"name"`
	Brand          string       `json:"brand"`
	Year           *int         `json:"year"`
	Gender         *string      `json:"gender"`
	Concentration  *string      `json:"concentration"`
	Description    *string      `json:"description"`
	BottleImageURL *string      `json:"bottle_image_url"`
	Notes          *ImportNotes `json:"notes"`
}

type ImportRequest struct {
	Fragrances []ImportEntry `json:"fragrances"`
}

// ImportResult 항목 단위 결과 (실패한 항목은 errors 에 기록)
type ImportResult struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

type ImportService interface {
	Import(entries []ImportEntry) *ImportResult
}

type importService struct {
	fragranceRepo repository.FragranceRepository
	taxonomy      TaxonomyService
	cache         *cacheGuard
}

func NewImportService(fragranceRepo repository.FragranceRepository, taxonomy TaxonomyService, cache SearchCache) ImportService {
	return &importService{
		fragranceRepo: fragranceRepo,
		taxonomy:      taxonomy,
		cache:         cacheOrNoop(cache),
	}
}

// Import 항목마다 별도 트랜잭션 (한 항목의 실패는 다른 항목에 영향 없음)
func (s *importService) Import(entries []ImportEntry) *ImportResult {
	result := &ImportResult{Errors: []string{}}

	for i, entry := range entries {
		if err := s.importEntry(entry); err != nil {
			result.Failed++
			label := strings.TrimSpace(entry.Name)
			if label == "" {
				label = fmt.Sprintf("Fragrance at index %d", i)
			}
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", label, err))
			metrics.RecordImportEntry(false)
			continue
		}
		result.Success++
		metrics.RecordImportEntry(true)
	}

	if result.Success > 0 {
		s.cache.invalidate("import")
	}

	logger.Info("Catalog import completed", map[string]interface{}{
		"entries": len(entries),
		"success": result.Success,
		"failed":  result.Failed,
	})
	return result
}

func (s *importService) importEntry(entry ImportEntry) error {
	name := strings.TrimSpace(entry.Name)
	brandName := strings.TrimSpace(entry.Brand)
	if name == "" || brandName == "" {
		return ErrImportNameBrandRequired
	}

	return s.fragranceRepo.Transaction(func(tx *gorm.DB) error {
		brand, err := s.taxonomy.ResolveBrand(tx, brandName)
		if err != nil {
			return err
		}

		fragrance := &model.Fragrance{
			Name:           name,
			BrandID:        brand.ID,
			Year:           entry.Year,
			Gender:         emptyToNil(entry.Gender),
			Concentration:  emptyToNil(entry.Concentration),
			Description:    emptyToNil(entry.Description),
			BottleImageURL: emptyToNil(entry.BottleImageURL),
		}
		if err := s.fragranceRepo.WithTx(tx).Create(fragrance); err != nil {
			return err
		}

		if entry.Notes == nil {
			return nil
		}

		links, err := s.resolveNotes(tx, entry.Notes)
		if err != nil {
			return err
		}
		if len(links) == 0 {
			return nil
		}
		return s.fragranceRepo.WithTx(tx).ReplaceNotes(fragrance.ID, links)
	})
}

// resolveNotes 이름을 노트로 resolve (같은 노트가 여러 번 나오면 첫 카테고리만 연결)
func (s *importService) resolveNotes(tx *gorm.DB, notes *ImportNotes) ([]model.FragranceNote, error) {
	groups := []struct {
		category model.NoteCategory
		names    []string
	}{
		{model.NoteTop, notes.Top},
		{model.NoteHeart, notes.Heart},
		{model.NoteBase, notes.Base},
	}

	seen := make(map[uint]bool)
	var links []model.FragranceNote
	for _, g := range groups {
		for _, name := range g.names {
			if strings.TrimSpace(name) == "" {
				continue
			}

			note, err := s.taxonomy.ResolveNote(tx, name, g.category)
			if err != nil {
				return nil, err
			}
			if seen[note.ID] {
				continue
			}
			seen[note.ID] = true

			intensity := importNoteIntensity
			links = append(links, model.FragranceNote{
				NoteID:    note.ID,
				Category:  g.category,
				Intensity: &intensity,
			})
		}
	}
	return links, nil
}
