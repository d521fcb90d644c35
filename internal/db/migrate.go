package db

import (
	"github.com/scentvault/scentvault-backend/internal/app/model"
	"github.com/scentvault/scentvault-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Models returns every model managed by AutoMigrate, parents before children
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Brand{},
		&model.Note{},
		&model.Retailer{},
		&model.Fragrance{},
		&model.FragranceNote{},
		&model.FragranceRetailer{},
		&model.Comment{},
		&model.CommentHelpful{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds reference taxonomy (brands, notes) if missing. Safe to run repeatedly.
func Seed() error {
	return seedTaxonomy(DB)
}

func strPtr(s string) *string {
	return &s
}

func seedTaxonomy(db *gorm.DB) error {
	logger.Info("Seeding reference taxonomy...")

	brands := []model.Brand{
		{Name: "Chanel", Country: strPtr("France"), Description: strPtr("French luxury fashion house founded by Coco Chanel")},
		{Name: "Dior", Country: strPtr("France"), Description: strPtr("French luxury goods company controlled by LVMH")},
		{Name: "Tom Ford", Country: strPtr("USA"), Description: strPtr("American luxury brand known for sophisticated fragrances")},
		{Name: "Yves Saint Laurent", Country: strPtr("France"), Description: strPtr("French luxury fashion house founded by Yves Saint Laurent")},
		{Name: "Creed", Country: strPtr("France"), Description: strPtr("Anglo-French luxury perfume house")},
	}

	notes := []model.Note{
		{Name: "Bergamot", Category: model.NoteTop},
		{Name: "Lemon", Category: model.NoteTop},
		{Name: "Lavender", Category: model.NoteTop},
		{Name: "Rose", Category: model.NoteHeart},
		{Name: "Jasmine", Category: model.NoteHeart},
		{Name: "Iris", Category: model.NoteHeart},
		{Name: "Patchouli", Category: model.NoteBase},
		{Name: "Vanilla", Category: model.NoteBase},
		{Name: "Sandalwood", Category: model.NoteBase},
		{Name: "Musk", Category: model.NoteBase},
		{Name: "Amber", Category: model.NoteBase},
		{Name: "Cedarwood", Category: model.NoteBase},
		{Name: "Vetiver", Category: model.NoteBase},
	}

	// 이름 기준 upsert: 기존 행은 변경하지 않음
	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}

	brandResult := db.Clauses(onConflict).Create(&brands)
	if brandResult.Error != nil {
		logger.Error("Failed to seed brands", brandResult.Error)
		return brandResult.Error
	}

	noteResult := db.Clauses(onConflict).Create(&notes)
	if noteResult.Error != nil {
		logger.Error("Failed to seed notes", noteResult.Error)
		return noteResult.Error
	}

	logger.Info("Reference taxonomy seeded successfully", map[string]interface{}{
		"brands_inserted": brandResult.RowsAffected,
		"notes_inserted":  noteResult.RowsAffected,
	})
	return nil
}
