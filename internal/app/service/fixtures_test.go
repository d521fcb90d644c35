package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/scentvault/scentvault-backend/internal/app/model"
	"github.com/scentvault/scentvault-backend/internal/app/repository"
	"github.com/scentvault/scentvault-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testDeps struct {
	db         *gorm.DB
	fragrances repository.FragranceRepository
	brands     repository.BrandRepository
	notes      repository.NoteRepository
	retailers  repository.RetailerRepository
	comments   repository.CommentRepository
	users      repository.UserRepository
	cache      *fakeSearchCache
	feed       *recordingFeed
}

func setupServiceTest(t *testing.T) *testDeps {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return &testDeps{
		db:         testDB,
		fragrances: repository.NewFragranceRepository(testDB),
		brands:     repository.NewBrandRepository(testDB),
		notes:      repository.NewNoteRepository(testDB),
		retailers:  repository.NewRetailerRepository(testDB),
		comments:   repository.NewCommentRepository(testDB),
		users:      repository.NewUserRepository(testDB),
		cache:      newFakeSearchCache(),
		feed:       &recordingFeed{},
	}
}

func (d *testDeps) taxonomyService() TaxonomyService {
	return NewTaxonomyService(d.brands, d.notes, d.cache)
}

func (d *testDeps) fragranceService() FragranceService {
	return NewFragranceService(d.fragrances, d.brands, d.notes, d.taxonomyService(), d.cache)
}

func (d *testDeps) ratingService() RatingService {
	return NewRatingService(d.fragrances, d.comments)
}

func (d *testDeps) commentService() CommentService {
	return NewCommentService(d.comments, d.fragrances, d.users, d.ratingService(), d.feed)
}

func createTestUser(t *testing.T, d *testDeps, authID string, anonymous bool) *model.User {
	user := &model.User{
		AuthID:      authID,
		Email:       authID + "@example.com",
		Name:        authID,
		Role:        model.RoleUser,
		IsAnonymous: anonymous,
	}
	require.NoError(t, d.users.Create(user))
	return user
}

func createTestFragrance(t *testing.T, d *testDeps, name, brandName string, image *string) *model.Fragrance {
	brand, err := d.brands.UpsertByName(brandName)
	require.NoError(t, err)

	fragrance := &model.Fragrance{
		Name:           name,
		BrandID:        brand.ID,
		BottleImageURL: image,
	}
	require.NoError(t, d.fragrances.Create(fragrance))
	return fragrance
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

// fakeSearchCache in-memory SearchCache counting invalidations
type fakeSearchCache struct {
	mu            sync.Mutex
	entries       map[string][]byte
	invalidations int
}

func newFakeSearchCache() *fakeSearchCache {
	return &fakeSearchCache{entries: make(map[string][]byte)}
}

func (c *fakeSearchCache) Get(_ context.Context, query string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.entries[query]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *fakeSearchCache) Set(_ context.Context, query string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[query] = data
	return nil
}

func (c *fakeSearchCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]byte)
	c.invalidations++
	return nil
}

func (c *fakeSearchCache) Invalidations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidations
}

// recordingFeed captures published review events
type recordingFeed struct {
	mu     sync.Mutex
	events []ReviewEvent
}

func (f *recordingFeed) Publish(_ uint, message interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if event, ok := message.(ReviewEvent); ok {
		f.events = append(f.events, event)
	}
}

func (f *recordingFeed) Events() []ReviewEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ReviewEvent(nil), f.events...)
}
