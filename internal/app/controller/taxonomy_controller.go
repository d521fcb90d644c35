package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scentvault/scentvault-backend/internal/app/model"
	"github.com/scentvault/scentvault-backend/internal/app/service"
	"github.com/scentvault/scentvault-backend/internal/middleware"
)

// TaxonomyController brands and notes
type TaxonomyController struct {
	taxonomyService service.TaxonomyService
}

func NewTaxonomyController(taxonomyService service.TaxonomyService) *TaxonomyController {
	return &TaxonomyController{
		taxonomyService: taxonomyService,
	}
}

// ListBrands returns brands with their fragrance counts
// GET /api/v1/brands
func (ctrl *TaxonomyController) ListBrands(c *gin.Context) {
	brands, err := ctrl.taxonomyService.ListBrands()
	if err != nil {
		respondServiceError(c, err, "fetch brands")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brands": brands,
		"count":  len(brands),
	})
}

// ListNotes returns notes, optionally filtered by category
// GET /api/v1/notes?category=top|heart|base
func (ctrl *TaxonomyController) ListNotes(c *gin.Context) {
	var category *model.NoteCategory
	if raw := c.Query("category"); raw != "" {
		cat := model.NoteCategory(raw)
		category = &cat
	}

	notes, err := ctrl.taxonomyService.ListNotes(category)
	if err != nil {
		respondServiceError(c, err, "fetch notes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notes": notes,
		"count": len(notes),
	})
}

// GetNote returns a note with the fragrances that contain it
// GET /api/v1/notes/:id
func (ctrl *TaxonomyController) GetNote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	note, err := ctrl.taxonomyService.GetNote(id)
	if err != nil {
		respondServiceError(c, err, "fetch note")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"note": note,
	})
}

// CreateNote (Admin only)
// POST /api/v1/admin/notes
func (ctrl *TaxonomyController) CreateNote(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.NoteInput
	if !bindJSON(c, &req) {
		return
	}

	note, err := ctrl.taxonomyService.CreateNote(req)
	if err != nil {
		respondServiceError(c, err, "create note")
		return
	}

	log.Info("Note created successfully", map[string]interface{}{
		"note_id": note.ID,
		"name":    note.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"note": note,
	})
}

// UpdateNote (Admin only)
// PUT /api/v1/admin/notes/:id
func (ctrl *TaxonomyController) UpdateNote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.NoteInput
	if !bindJSON(c, &req) {
		return
	}

	note, err := ctrl.taxonomyService.UpdateNote(id, req)
	if err != nil {
		respondServiceError(c, err, "update note")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"note": note,
	})
}

// DeleteNote removes a note and its fragrance associations (Admin only)
// DELETE /api/v1/admin/notes/:id
func (ctrl *TaxonomyController) DeleteNote(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	removed, err := ctrl.taxonomyService.DeleteNote(id)
	if err != nil {
		respondServiceError(c, err, "delete note")
		return
	}

	log.Info("Note deleted successfully", map[string]interface{}{
		"note_id":              id,
		"removed_associations": removed,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":              "노트가 삭제되었습니다",
		"removed_associations": removed,
	})
}
