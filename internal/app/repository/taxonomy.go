package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// upsertByName INSERT ... ON CONFLICT (name) DO NOTHING 후 이름으로 다시 조회
// 기존 행은 변경되지 않으며, dest 에는 실제 저장된 행이 채워짐
func upsertByName(db *gorm.DB, row interface{}, dest interface{}, name string) error {
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(row).Error
	if err != nil {
		return err
	}

	return db.Where("name = ?", name).First(dest).Error
}
