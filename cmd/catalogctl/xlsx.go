package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scentvault/scentvault-backend/internal/app/service"
	"github.com/xuri/excelize/v2"
)

// 첫 행 헤더 이름으로 컬럼을 찾음 (순서 무관, 대소문자 무시)
const (
	colName          = "name"
	colBrand         = "brand"
	colYear          = "year"
	colGender        = "gender"
	colConcentration = "concentration"
	colDescription   = "description"
	colImage         = "bottle_image_url"
	colTopNotes      = "top_notes"
	colHeartNotes    = "heart_notes"
	colBaseNotes     = "base_notes"
)

func readCatalogXLSX(filePath string) ([]service.ImportEntry, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	// 첫 번째 시트 이름 가져오기
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	return parseCatalogRows(rows)
}

func parseCatalogRows(rows [][]string) ([]service.ImportEntry, error) {
	columns := make(map[string]int)
	for i, header := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = i
	}
	if _, ok := columns[colName]; !ok {
		return nil, fmt.Errorf("missing %q column", colName)
	}
	if _, ok := columns[colBrand]; !ok {
		return nil, fmt.Errorf("missing %q column", colBrand)
	}

	cell := func(row []string, key string) string {
		i, ok := columns[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	optional := func(row []string, key string) *string {
		if v := cell(row, key); v != "" {
			return &v
		}
		return nil
	}

	var entries []service.ImportEntry
	for _, row := range rows[1:] {
		// 빈 행 스킵 (이름/브랜드 누락 행은 가져오기 결과에서 실패로 보고됨)
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}

		entry := service.ImportEntry{
			Name:           cell(row, colName),
			Brand:          cell(row, colBrand),
			Gender:         optional(row, colGender),
			Concentration:  optional(row, colConcentration),
			Description:    optional(row, colDescription),
			BottleImageURL: optional(row, colImage),
		}
		if year, err := strconv.Atoi(cell(row, colYear)); err == nil {
			entry.Year = &year
		}

		notes := service.ImportNotes{
			Top:   splitList(cell(row, colTopNotes)),
			Heart: splitList(cell(row, colHeartNotes)),
			Base:  splitList(cell(row, colBaseNotes)),
		}
		if len(notes.Top)+len(notes.Heart)+len(notes.Base) > 0 {
			entry.Notes = &notes
		}

		entries = append(entries, entry)
	}
	return entries, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
