package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scentvault/scentvault-backend/internal/app/service"
	"github.com/scentvault/scentvault-backend/internal/errors"
	"github.com/scentvault/scentvault-backend/internal/middleware"
)

// MaintenanceController bulk image/rating maintenance and catalog import (Admin only)
type MaintenanceController struct {
	bulkService   service.BulkService
	importService service.ImportService
}

func NewMaintenanceController(bulkService service.BulkService, importService service.ImportService) *MaintenanceController {
	return &MaintenanceController{
		bulkService:   bulkService,
		importService: importService,
	}
}

// BulkOperation runs one maintenance action; rows are applied independently
// POST /api/v1/admin/bulk-operations
func (ctrl *MaintenanceController) BulkOperation(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.BulkRequest
	if !bindJSON(c, &req) {
		return
	}

	summary, err := ctrl.bulkService.Execute(req)
	if err != nil {
		respondServiceError(c, err, "bulk operation")
		return
	}

	log.Info("Bulk operation finished", map[string]interface{}{
		"action":    summary.Action,
		"updated":   summary.Updated,
		"cleared":   summary.Cleared,
		"skipped":   summary.Skipped,
		"not_found": summary.NotFound,
		"failed":    summary.Failed,
	})

	c.JSON(http.StatusOK, summary)
}

// Import creates fragrances with brands and notes, one transaction per entry
// POST /api/v1/admin/import
func (ctrl *MaintenanceController) Import(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.ImportRequest
	if !bindJSON(c, &req) {
		return
	}
	if len(req.Fragrances) == 0 {
		errors.BadRequest(c, errors.BulkEmptyPayload, "가져올 향수가 없습니다")
		return
	}
	if len(req.Fragrances) > service.MaxBulkRows {
		errors.BadRequest(c, errors.ValidationInvalidRange, "한 번에 처리할 수 있는 항목 수를 초과했습니다")
		return
	}

	result := ctrl.importService.Import(req.Fragrances)

	log.Info("Catalog import finished", map[string]interface{}{
		"success": result.Success,
		"failed":  result.Failed,
	})

	c.JSON(http.StatusOK, result)
}
