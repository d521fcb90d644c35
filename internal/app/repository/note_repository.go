package repository

import (
	"github.com/scentvault/scentvault-backend/internal/app/model"
	"github.com/scentvault/scentvault-backend/pkg/logger"
	"gorm.io/gorm"
)

type NoteRepository interface {
	WithTx(tx *gorm.DB) NoteRepository
	UpsertByName(name string, category model.NoteCategory) (*model.Note, error)
	Create(note *model.Note) error
	Update(note *model.Note) error
	Delete(id uint) (int64, error)
	FindByID(id uint) (*model.Note, error)
	FindByIDs(ids []uint) ([]model.Note, error)
	List(category *model.NoteCategory) ([]model.Note, error)
	FindFragrances(noteID uint) ([]model.Fragrance, error)
}

type noteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) WithTx(tx *gorm.DB) NoteRepository {
	return &noteRepository{db: tx}
}

// UpsertByName 이름으로 노트를 찾거나 생성
// 이미 존재하는 노트는 최초 등록된 카테고리를 유지함
func (r *noteRepository) UpsertByName(name string, category model.NoteCategory) (*model.Note, error) {
	var note model.Note
	if err := upsertByName(r.db, &model.Note{Name: name, Category: category}, &note, name); err != nil {
		logger.Error("Failed to upsert note", err, map[string]interface{}{
			"name":     name,
			"category": category,
		})
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) Create(note *model.Note) error {
	if err := r.db.Create(note).Error; err != nil {
		logger.Error("Failed to create note", err, map[string]interface{}{
			"name": note.Name,
		})
		return err
	}
	return nil
}

func (r *noteRepository) Update(note *model.Note) error {
	if err := r.db.Omit("Links").Save(note).Error; err != nil {
		logger.Error("Failed to update note", err, map[string]interface{}{
			"note_id": note.ID,
		})
		return err
	}
	return nil
}

// Delete 노트와 연결된 향수-노트 행을 함께 삭제하고, 삭제된 연결 수를 반환
func (r *noteRepository) Delete(id uint) (int64, error) {
	var removedLinks int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var note model.Note
		if err := tx.First(&note, id).Error; err != nil {
			return err
		}

		result := tx.Where("note_id = ?", id).Delete(&model.FragranceNote{})
		if result.Error != nil {
			return result.Error
		}
		removedLinks = result.RowsAffected

		return tx.Delete(&note).Error
	})
	if err != nil {
		logger.Error("Failed to delete note", err, map[string]interface{}{
			"note_id": id,
		})
		return 0, err
	}

	logger.Info("Note deleted", map[string]interface{}{
		"note_id":       id,
		"removed_links": removedLinks,
	})
	return removedLinks, nil
}

func (r *noteRepository) FindByID(id uint) (*model.Note, error) {
	var note model.Note
	if err := r.db.First(&note, id).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) FindByIDs(ids []uint) ([]model.Note, error) {
	var notes []model.Note
	if len(ids) == 0 {
		return notes, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// List 노트 목록 (카테고리 필터 선택)
func (r *noteRepository) List(category *model.NoteCategory) ([]model.Note, error) {
	query := r.db.Model(&model.Note{})
	if category != nil {
		query = query.Where("category = ?", *category)
	}

	var notes []model.Note
	if err := query.Order("name ASC").Find(&notes).Error; err != nil {
		logger.Error("Failed to list notes", err)
		return nil, err
	}
	return notes, nil
}

// FindFragrances 노트가 포함된 향수 목록 (평점순)
func (r *noteRepository) FindFragrances(noteID uint) ([]model.Fragrance, error) {
	var fragrances []model.Fragrance
	err := r.db.Model(&model.Fragrance{}).
		Preload("Brand").
		Where("fragrances.id IN (?)", r.db.Model(&model.FragranceNote{}).
			Select("fragrance_id").
			Where("note_id = ?", noteID)).
		Order(ratingOrder).
		Find(&fragrances).Error
	if err != nil {
		logger.Error("Failed to find fragrances by note", err, map[string]interface{}{
			"note_id": noteID,
		})
		return nil, err
	}
	return fragrances, nil
}
