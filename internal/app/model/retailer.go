package model

import (
	"time"
)

// Retailer 판매처
type Retailer struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Name       string    `gorm:"type:varchar(200);uniqueIndex;not null" json:"name"`
	WebsiteURL string    `gorm:"not null" json:"website_url"`
	LogoURL    *string   `json:"logo_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Links []FragranceRetailer `gorm:"foreignKey:RetailerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Retailer) TableName() string {
	return "retailers"
}

// FragranceRetailer 향수-판매처 상품 링크 (향수/판매처 쌍마다 하나)
type FragranceRetailer struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	FragranceID uint      `gorm:"not null;uniqueIndex:idx_fragrance_retailer" json:"fragrance_id"`
	RetailerID  uint      `gorm:"not null;uniqueIndex:idx_fragrance_retailer;index" json:"retailer_id"`
	ProductURL  string    `gorm:"not null" json:"product_url"`
	Price       *float64  `json:"price"`
	Currency    *string   `gorm:"type:varchar(10)" json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Retailer Retailer `gorm:"foreignKey:RetailerID" json:"retailer"`
}

func (FragranceRetailer) TableName() string {
	return "fragrance_retailers"
}
