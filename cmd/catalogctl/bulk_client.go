package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/scentvault/scentvault-backend/internal/app/service"
	apperrors "github.com/scentvault/scentvault-backend/internal/errors"
)

const bulkPath = "/api/v1/admin/bulk-operations"

// bulkClient admin bulk-operations endpoint client
type bulkClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newBulkClient(baseURL, token string, timeout time.Duration) *bulkClient {
	return &bulkClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *bulkClient) Execute(req service.BulkRequest) (*service.BulkSummary, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.baseURL+bulkPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("bulk request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apperrors.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("bulk request rejected (%d %s): %s", resp.StatusCode, apiErr.Error, apiErr.Message)
		}
		return nil, fmt.Errorf("bulk request rejected: status %d", resp.StatusCode)
	}

	var summary service.BulkSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("failed to decode bulk summary: %w", err)
	}
	return &summary, nil
}

// SyncImages 서버 행 수 제한에 맞춰 데이터셋을 나눠 보내고 결과를 합산
func (c *bulkClient) SyncImages(dataset []service.DatasetEntry, chunkSize int, progress func(done, total int)) (*service.BulkSummary, error) {
	if chunkSize <= 0 || chunkSize > service.MaxBulkRows {
		chunkSize = service.MaxBulkRows
	}

	total := &service.BulkSummary{Action: service.BulkUpdateImagesFromJSON, Errors: []string{}}
	for start := 0; start < len(dataset); start += chunkSize {
		end := min(start+chunkSize, len(dataset))
		summary, err := c.Execute(service.BulkRequest{
			Action: service.BulkUpdateImagesFromJSON,
			Data:   dataset[start:end],
		})
		if err != nil {
			return total, fmt.Errorf("rows %d-%d: %w", start, end-1, err)
		}
		total.Add(*summary)
		if progress != nil {
			progress(end, len(dataset))
		}
	}
	return total, nil
}
