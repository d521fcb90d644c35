package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/scentvault/scentvault-backend/internal/app/model"
	apperrors "github.com/scentvault/scentvault-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxonomyController_Notes(t *testing.T) {
	env := setupControllerTest(t)
	admin := env.createUser(t, "admin", model.RoleAdmin, false)

	ctrl := NewTaxonomyController(env.taxonomy)
	router := newRouter(admin)
	router.GET("/notes", ctrl.ListNotes)
	router.GET("/notes/:id", ctrl.GetNote)
	router.POST("/admin/notes", ctrl.CreateNote)
	router.PUT("/admin/notes/:id", ctrl.UpdateNote)
	router.DELETE("/admin/notes/:id", ctrl.DeleteNote)

	w := performJSON(router, http.MethodPost, "/admin/notes", map[string]interface{}{"name": "Vetiver", "category": "base"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(decodeBody(t, w)["note"].(map[string]interface{})["id"].(float64))

	w = performJSON(router, http.MethodPost, "/admin/notes", map[string]interface{}{"name": "Vetiver", "category": "top"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.NoteNameExists, decodeBody(t, w)["error"])

	w = performJSON(router, http.MethodGet, "/notes?category=base", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, decodeBody(t, w)["count"])

	w = performJSON(router, http.MethodGet, "/notes?category=middle", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.NoteInvalidCategory, decodeBody(t, w)["error"])

	w = performJSON(router, http.MethodPut, fmt.Sprintf("/admin/notes/%d", id), map[string]interface{}{
		"name": "Vetiver", "category": "heart", "description": "Earthy grass root",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "heart", decodeBody(t, w)["note"].(map[string]interface{})["category"])

	w = performJSON(router, http.MethodGet, fmt.Sprintf("/notes/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Vetiver", decodeBody(t, w)["note"].(map[string]interface{})["name"])

	w = performJSON(router, http.MethodDelete, fmt.Sprintf("/admin/notes/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performJSON(router, http.MethodGet, fmt.Sprintf("/notes/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.NoteNotFound, decodeBody(t, w)["error"])
}

func TestTaxonomyController_ListBrands(t *testing.T) {
	env := setupControllerTest(t)
	env.createFragrance(t, "Eros", "Versace", nil)
	env.createFragrance(t, "Dylan Blue", "Versace", nil)

	ctrl := NewTaxonomyController(env.taxonomy)
	router := newRouter(nil)
	router.GET("/brands", ctrl.ListBrands)

	w := performJSON(router, http.MethodGet, "/brands", nil)
	require.Equal(t, http.StatusOK, w.Code)

	brands := decodeBody(t, w)["brands"].([]interface{})
	require.Len(t, brands, 1)
	assert.Equal(t, 2.0, brands[0].(map[string]interface{})["fragrance_count"])
}
