package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scentvault/scentvault-backend/internal/app/service"
	"github.com/scentvault/scentvault-backend/internal/middleware"
)

// RetailerController retailers and fragrance purchase links (Admin only)
type RetailerController struct {
	retailerService service.RetailerService
}

func NewRetailerController(retailerService service.RetailerService) *RetailerController {
	return &RetailerController{
		retailerService: retailerService,
	}
}

// ListRetailers
// GET /api/v1/admin/retailers
func (ctrl *RetailerController) ListRetailers(c *gin.Context) {
	retailers, err := ctrl.retailerService.List()
	if err != nil {
		respondServiceError(c, err, "fetch retailers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"retailers": retailers,
		"count":     len(retailers),
	})
}

// CreateRetailer
// POST /api/v1/admin/retailers
func (ctrl *RetailerController) CreateRetailer(c *gin.Context) {
	var req service.RetailerInput
	if !bindJSON(c, &req) {
		return
	}

	retailer, err := ctrl.retailerService.Create(req)
	if err != nil {
		respondServiceError(c, err, "create retailer")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"retailer": retailer,
	})
}

// UpdateRetailer
// PUT /api/v1/admin/retailers/:id
func (ctrl *RetailerController) UpdateRetailer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.RetailerInput
	if !bindJSON(c, &req) {
		return
	}

	retailer, err := ctrl.retailerService.Update(id, req)
	if err != nil {
		respondServiceError(c, err, "update retailer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"retailer": retailer,
	})
}

// DeleteRetailer removes a retailer and all of its links
// DELETE /api/v1/admin/retailers/:id
func (ctrl *RetailerController) DeleteRetailer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	removed, err := ctrl.retailerService.Delete(id)
	if err != nil {
		respondServiceError(c, err, "delete retailer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "판매처가 삭제되었습니다",
		"removed_links": removed,
	})
}

// AddLink classifies the product URL, resolves the retailer and upserts the link
// POST /api/v1/admin/fragrances/:id/links
func (ctrl *RetailerController) AddLink(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	fragranceID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.LinkInput
	if !bindJSON(c, &req) {
		return
	}

	link, err := ctrl.retailerService.AddLink(fragranceID, req)
	if err != nil {
		respondServiceError(c, err, "create fragrance retailer link")
		return
	}

	log.Info("Retailer link saved", map[string]interface{}{
		"fragrance_id": fragranceID,
		"link_id":      link.ID,
		"retailer_id":  link.RetailerID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"link": link,
	})
}

// DeleteLink
// DELETE /api/v1/admin/fragrances/:id/links/:linkId
func (ctrl *RetailerController) DeleteLink(c *gin.Context) {
	fragranceID, ok := parseID(c, "id")
	if !ok {
		return
	}
	linkID, ok := parseID(c, "linkId")
	if !ok {
		return
	}

	if err := ctrl.retailerService.DeleteLink(fragranceID, linkID); err != nil {
		respondServiceError(c, err, "delete fragrance retailer link")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "판매 링크가 삭제되었습니다",
	})
}
