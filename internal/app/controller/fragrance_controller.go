package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scentvault/scentvault-backend/internal/app/service"
	"github.com/scentvault/scentvault-backend/internal/middleware"
)

type FragranceController struct {
	fragranceService service.FragranceService
}

func NewFragranceController(fragranceService service.FragranceService) *FragranceController {
	return &FragranceController{
		fragranceService: fragranceService,
	}
}

// ListFragrances returns a filtered, sorted page of fragrances
// GET /api/v1/fragrances?search=&brand=&gender=&sort=rating|name|year&limit=&offset=
func (ctrl *FragranceController) ListFragrances(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	opts := service.FragranceListOptions{
		Search: c.Query("search"),
		Brand:  c.Query("brand"),
		Gender: c.Query("gender"),
		Sort:   service.FragranceSort(c.DefaultQuery("sort", string(service.FragranceSortRating))),
		Limit:  queryInt(c, "limit", service.DefaultListLimit),
		Offset: queryInt(c, "offset", 0),
	}

	result, err := ctrl.fragranceService.List(opts)
	if err != nil {
		respondServiceError(c, err, "fetch fragrances")
		return
	}

	log.Info("Fragrances fetched successfully", map[string]interface{}{
		"count": len(result.Fragrances),
		"total": result.Total,
	})

	c.JSON(http.StatusOK, result)
}

// GetFragrance returns a fragrance with brand, notes and retailer links
// GET /api/v1/fragrances/:id
func (ctrl *FragranceController) GetFragrance(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	fragrance, err := ctrl.fragranceService.Get(id)
	if err != nil {
		respondServiceError(c, err, "fetch fragrance")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fragrance": fragrance,
	})
}

// Search autocompletes fragrances by name, brand or note
// GET /api/v1/search?q=
func (ctrl *FragranceController) Search(c *gin.Context) {
	results, err := ctrl.fragranceService.Search(c.Query("q"))
	if err != nil {
		respondServiceError(c, err, "search fragrances")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
	})
}

// CreateFragrance creates a fragrance with its notes (Admin only)
// POST /api/v1/admin/fragrances
func (ctrl *FragranceController) CreateFragrance(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.FragranceInput
	if !bindJSON(c, &req) {
		return
	}

	fragrance, err := ctrl.fragranceService.Create(req)
	if err != nil {
		respondServiceError(c, err, "create fragrance")
		return
	}

	log.Info("Fragrance created successfully", map[string]interface{}{
		"fragrance_id": fragrance.ID,
		"name":         fragrance.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":   "향수가 등록되었습니다",
		"fragrance": fragrance,
	})
}

// UpdateFragrance updates a fragrance; notes are replaced when provided (Admin only)
// PUT /api/v1/admin/fragrances/:id
func (ctrl *FragranceController) UpdateFragrance(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.FragranceInput
	if !bindJSON(c, &req) {
		return
	}

	fragrance, err := ctrl.fragranceService.Update(id, req)
	if err != nil {
		respondServiceError(c, err, "update fragrance")
		return
	}

	log.Info("Fragrance updated successfully", map[string]interface{}{
		"fragrance_id": fragrance.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":   "향수가 수정되었습니다",
		"fragrance": fragrance,
	})
}

// DeleteFragrance deletes a fragrance and its associations (Admin only)
// DELETE /api/v1/admin/fragrances/:id
func (ctrl *FragranceController) DeleteFragrance(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.fragranceService.Delete(id); err != nil {
		respondServiceError(c, err, "delete fragrance")
		return
	}

	log.Info("Fragrance deleted successfully", map[string]interface{}{
		"fragrance_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "향수가 삭제되었습니다",
	})
}
