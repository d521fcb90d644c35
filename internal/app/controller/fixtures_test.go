package controller

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/scentvault/scentvault-backend/internal/app/model"
	"github.com/scentvault/scentvault-backend/internal/app/repository"
	"github.com/scentvault/scentvault-backend/internal/app/service"
	"github.com/scentvault/scentvault-backend/internal/db"
	"github.com/scentvault/scentvault-backend/internal/middleware"
	"github.com/scentvault/scentvault-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testEnv real services over an in-memory database
type testEnv struct {
	db         *gorm.DB
	fragrances repository.FragranceRepository
	brands     repository.BrandRepository
	users      repository.UserRepository

	taxonomy service.TaxonomyService
	catalog  service.FragranceService
	ratings  service.RatingService
	comments service.CommentService
	retailer service.RetailerService
	bulk     service.BulkService
	imports  service.ImportService
	auth     service.AuthService
}

func setupControllerTest(t *testing.T) *testEnv {
	require.NoError(t, util.RegisterCustomValidators())

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	fragranceRepo := repository.NewFragranceRepository(testDB)
	brandRepo := repository.NewBrandRepository(testDB)
	noteRepo := repository.NewNoteRepository(testDB)
	commentRepo := repository.NewCommentRepository(testDB)
	retailerRepo := repository.NewRetailerRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)

	taxonomy := service.NewTaxonomyService(brandRepo, noteRepo, nil)
	ratings := service.NewRatingService(fragranceRepo, commentRepo)

	return &testEnv{
		db:         testDB,
		fragrances: fragranceRepo,
		brands:     brandRepo,
		users:      userRepo,
		taxonomy:   taxonomy,
		catalog:    service.NewFragranceService(fragranceRepo, brandRepo, noteRepo, taxonomy, nil),
		ratings:    ratings,
		comments:   service.NewCommentService(commentRepo, fragranceRepo, userRepo, ratings, nil),
		retailer:   service.NewRetailerService(retailerRepo, fragranceRepo),
		bulk:       service.NewBulkService(fragranceRepo, ratings, nil),
		imports:    service.NewImportService(fragranceRepo, taxonomy, nil),
		auth:       service.NewAuthService(userRepo, nil),
	}
}

// newRouter gin engine acting as the given user (nil = guest)
func newRouter(user *model.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if user != nil {
		router.Use(func(c *gin.Context) {
			c.Set(middleware.UserIDKey, user.ID)
			c.Set(middleware.UserRoleKey, user.Role)
			c.Set(middleware.IsAnonymousKey, user.IsAnonymous)
			c.Next()
		})
	}
	return router
}

func (e *testEnv) createUser(t *testing.T, authID string, role model.UserRole, anonymous bool) *model.User {
	user := &model.User{
		AuthID:      authID,
		Email:       authID + "@example.com",
		Name:        authID,
		Role:        role,
		IsAnonymous: anonymous,
	}
	require.NoError(t, e.users.Create(user))
	return user
}

func (e *testEnv) createFragrance(t *testing.T, name, brandName string, image *string) *model.Fragrance {
	brand, err := e.brands.UpsertByName(brandName)
	require.NoError(t, err)

	fragrance := &model.Fragrance{
		Name:           name,
		BrandID:        brand.ID,
		BottleImageURL: image,
	}
	require.NoError(t, e.fragrances.Create(fragrance))
	return fragrance
}

func performJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func strPtr(v string) *string {
	return &v
}
