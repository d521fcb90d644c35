package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/scentvault/scentvault-backend/config"
	"github.com/scentvault/scentvault-backend/internal/app/repository"
	"github.com/scentvault/scentvault-backend/internal/app/service"
	"github.com/scentvault/scentvault-backend/internal/db"
	"github.com/scentvault/scentvault-backend/pkg/logger"
)

const usage = `Usage:
  catalogctl import <catalog.xlsx|catalog.json>
  catalogctl sync-images [-url URL] [-token TOKEN] [-chunk N] <dataset.json>
  catalogctl bulk [-url URL] [-token TOKEN] <clear-images|fix-image-urls|fix-zero-ratings|recompute-ratings>`

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	logger.Initialize(logger.Config{Level: "info", Format: "console", EnableColor: true})

	var err error
	switch os.Args[1] {
	case "import":
		err = runImport(os.Args[2:])
	case "sync-images":
		err = runSyncImages(os.Args[2:])
	case "bulk":
		err = runBulk(os.Args[2:])
	default:
		log.Fatal(usage)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// runImport 카탈로그 파일을 DB 에 직접 가져옴 (서버와 같은 검증 경로)
func runImport(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%s", usage)
	}
	filePath := args[0]

	var (
		entries []service.ImportEntry
		err     error
	)
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx":
		fmt.Printf("Reading XLSX file: %s\n", filePath)
		entries, err = readCatalogXLSX(filePath)
	case ".json":
		fmt.Printf("Reading JSON file: %s\n", filePath)
		entries, err = readCatalogJSON(filePath)
	default:
		return fmt.Errorf("unsupported file type: %s", filePath)
	}
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no fragrances found in %s", filePath)
	}

	fmt.Printf("Total fragrances to import: %d\n", len(entries))

	// 사용자 확인
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := db.Initialize(&cfg.Database); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	fragranceRepo := repository.NewFragranceRepository(db.GetDB())
	taxonomy := service.NewTaxonomyService(
		repository.NewBrandRepository(db.GetDB()),
		repository.NewNoteRepository(db.GetDB()),
		nil,
	)
	importService := service.NewImportService(fragranceRepo, taxonomy, nil)

	result := &service.ImportResult{Errors: []string{}}
	for start := 0; start < len(entries); start += service.MaxBulkRows {
		end := min(start+service.MaxBulkRows, len(entries))
		chunk := importService.Import(entries[start:end])
		result.Success += chunk.Success
		result.Failed += chunk.Failed
		result.Errors = append(result.Errors, chunk.Errors...)
		fmt.Printf("Processed %d/%d fragrances...\n", end, len(entries))
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Imported: %d\n", result.Success)
	fmt.Printf("  Failed: %d\n", result.Failed)
	for _, e := range result.Errors {
		fmt.Printf("  - %s\n", e)
	}
	return nil
}

func readCatalogJSON(filePath string) ([]service.ImportEntry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// {"fragrances": [...]} 또는 배열 그대로
	var req service.ImportRequest
	if err := json.Unmarshal(data, &req); err == nil && req.Fragrances != nil {
		return req.Fragrances, nil
	}
	var entries []service.ImportEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}
	return entries, nil
}

func remoteFlags(name string) (*flag.FlagSet, *string, *string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	baseURL := fs.String("url", envOr("CATALOG_API_URL", "http://localhost:8080"), "API base URL")
	token := fs.String("token", os.Getenv("CATALOG_API_TOKEN"), "admin bearer token")
	return fs, baseURL, token
}

// runSyncImages 데이터셋 이미지를 청크 단위로 서버에 반영
func runSyncImages(args []string) error {
	fs, baseURL, token := remoteFlags("sync-images")
	chunkSize := fs.Int("chunk", service.MaxBulkRows, "rows per request")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%s", usage)
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}
	var dataset []service.DatasetEntry
	if err := json.Unmarshal(data, &dataset); err != nil {
		return fmt.Errorf("failed to parse dataset: %w", err)
	}

	client := newBulkClient(*baseURL, *token, 2*time.Minute)
	summary, err := client.SyncImages(dataset, *chunkSize, func(done, total int) {
		fmt.Printf("Processed %d/%d rows...\n", done, total)
	})
	if err != nil {
		return err
	}
	printSummary(summary)
	return nil
}

func runBulk(args []string) error {
	fs, baseURL, token := remoteFlags("bulk")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%s", usage)
	}

	client := newBulkClient(*baseURL, *token, 2*time.Minute)
	summary, err := client.Execute(service.BulkRequest{Action: service.BulkAction(fs.Arg(0))})
	if err != nil {
		return err
	}
	printSummary(summary)
	return nil
}

func printSummary(s *service.BulkSummary) {
	fmt.Printf("\nSummary (%s):\n", s.Action)
	fmt.Printf("  Updated: %d\n", s.Updated)
	fmt.Printf("  Cleared: %d\n", s.Cleared)
	fmt.Printf("  Skipped: %d\n", s.Skipped)
	fmt.Printf("  Not found: %d\n", s.NotFound)
	fmt.Printf("  Failed: %d\n", s.Failed)
	fmt.Printf("  Processed: %d\n", s.Processed)
	for _, e := range s.Errors {
		fmt.Printf("  - %s\n", e)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
