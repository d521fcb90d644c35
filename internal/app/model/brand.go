package model

import (
	"time"
)

// Brand 향수 브랜드 (공유 참조 데이터)
type Brand struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(200);uniqueIndex;not null" json:"name"` // 브랜드 이름 (고유)
	Country     *string   `gorm:"type:varchar(100)" json:"country"`                   // 국가
	Description *string   `gorm:"type:text" json:"description"`                       // 설명
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	FragranceCount int64 `gorm:"-" json:"fragrance_count"` // 목록 조회 시 집계 값
}

func (Brand) TableName() string {
	return "brands"
}
