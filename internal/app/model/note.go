package model

import (
	"time"
)

// NoteCategory 노트 단계 (향의 전개 순서)
type NoteCategory string

const (
	NoteTop   NoteCategory = "top"   // 첫 인상
	NoteHeart NoteCategory = "heart" // 중심
	NoteBase  NoteCategory = "base"  // 잔향
)

// NoteCategories 허용되는 노트 카테고리 목록 (전개 순서)
var NoteCategories = []NoteCategory{NoteTop, NoteHeart, NoteBase}

// IsValid 허용된 카테고리인지 확인
func (c NoteCategory) IsValid() bool {
	switch c {
	case NoteTop, NoteHeart, NoteBase:
		return true
	}
	return false
}

// Note 향 노트 (원료/묘사어)
type Note struct {
	ID          uint         `gorm:"primarykey" json:"id"`
	Name        string       `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"` // 노트 이름 (고유)
	Category    NoteCategory `gorm:"type:varchar(10);not null;index" json:"category"`   // 최초 등록 시 카테고리
	Description *string      `gorm:"type:text" json:"description"`
	ImageURL    *string      `json:"image_url"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	Links []FragranceNote `gorm:"foreignKey:NoteID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Note) TableName() string {
	return "notes"
}

// FragranceNote 향수-노트 연결 (카테고리/강도 포함)
// 수정 시 전체 삭제 후 재생성되므로 행 ID는 안정적이지 않음
type FragranceNote struct {
	ID          uint         `gorm:"primarykey" json:"id"`
	FragranceID uint         `gorm:"not null;index" json:"fragrance_id"`
	NoteID      uint         `gorm:"not null;index" json:"note_id"`
	Category    NoteCategory `gorm:"type:varchar(10);not null" json:"category"`
	Intensity   *int         `json:"intensity"` // 1-5
	CreatedAt   time.Time    `json:"created_at"`

	Note Note `gorm:"foreignKey:NoteID" json:"note"`
}

func (FragranceNote) TableName() string {
	return "fragrance_notes"
}
