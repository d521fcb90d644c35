package model

import (
	"time"
)

// Fragrance 향수 카탈로그 항목 (노트/판매처/리뷰의 집계 루트)
type Fragrance struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	Name           string    `gorm:"type:varchar(200);not null;index:idx_fragrance_name_brand" json:"name"`
	BrandID        uint      `gorm:"not null;index:idx_fragrance_name_brand" json:"brand_id"`
	Year           *int      `json:"year"`
	Gender         *string   `gorm:"type:varchar(20);index" json:"gender"`
	Concentration  *string   `gorm:"type:varchar(50)" json:"concentration"`
	Description    *string   `gorm:"type:text" json:"description"`
	BottleImageURL *string   `json:"bottle_image_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// 파생 값: 리뷰 작성/삭제 시 재계산됨
	// RatingAvg 는 ReviewCount 가 0 이면 반드시 nil
	RatingAvg   *float64 `json:"rating_avg"`
	ReviewCount int      `gorm:"not null;default:0" json:"review_count"`

	Brand     Brand               `gorm:"foreignKey:BrandID" json:"brand"`
	Notes     []FragranceNote     `gorm:"foreignKey:FragranceID;constraint:OnDelete:CASCADE" json:"notes,omitempty"`
	Retailers []FragranceRetailer `gorm:"foreignKey:FragranceID;constraint:OnDelete:CASCADE" json:"retailers,omitempty"`
	Comments  []Comment           `gorm:"foreignKey:FragranceID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Fragrance) TableName() string {
	return "fragrances"
}

// HasImage 이미지가 등록되어 있는지 확인
func (f *Fragrance) HasImage() bool {
	return f.BottleImageURL != nil && *f.BottleImageURL != ""
}
