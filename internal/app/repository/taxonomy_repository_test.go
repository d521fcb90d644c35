package repository

import (
	"sync"
	"testing"

	"github.com/scentvault/scentvault-backend/internal/app/model"
	"github.com/scentvault/scentvault-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTaxonomyTest(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func TestNoteRepository_UpsertByName_Idempotent(t *testing.T) {
	testDB := setupTaxonomyTest(t)
	repo := NewNoteRepository(testDB)

	first, err := repo.UpsertByName("Rose", model.NoteHeart)
	require.NoError(t, err)

	// existing note keeps its original category
	second, err := repo.UpsertByName("Rose", model.NoteTop)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, model.NoteHeart, second.Category)

	var count int64
	require.NoError(t, testDB.Model(&model.Note{}).Where("name = ?", "Rose").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestBrandRepository_UpsertByName_Concurrent(t *testing.T) {
	testDB := setupTaxonomyTest(t)
	repo := NewBrandRepository(testDB)

	const workers = 8
	ids := make([]uint, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			brand, err := repo.UpsertByName("Maison Margiela")
			errs[i] = err
			if brand != nil {
				ids[i] = brand.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var count int64
	require.NoError(t, testDB.Model(&model.Brand{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestBrandRepository_ListWithCounts(t *testing.T) {
	testDB := setupTaxonomyTest(t)
	repo := NewBrandRepository(testDB)

	dior := createBrand(t, testDB, "Dior")
	createBrand(t, testDB, "Chanel")
	createFragrance(t, testDB, "Sauvage", dior)
	createFragrance(t, testDB, "Fahrenheit", dior)

	brands, err := repo.ListWithCounts()
	require.NoError(t, err)
	require.Len(t, brands, 2)
	assert.Equal(t, "Chanel", brands[0].Name)
	assert.Equal(t, int64(0), brands[0].FragranceCount)
	assert.Equal(t, "Dior", brands[1].Name)
	assert.Equal(t, int64(2), brands[1].FragranceCount)
}

func TestNoteRepository_ListAndFragrances(t *testing.T) {
	testDB := setupTaxonomyTest(t)
	repo := NewNoteRepository(testDB)

	rose, err := repo.UpsertByName("Rose", model.NoteHeart)
	require.NoError(t, err)
	_, err = repo.UpsertByName("Lemon", model.NoteTop)
	require.NoError(t, err)

	heart := model.NoteHeart
	hearts, err := repo.List(&heart)
	require.NoError(t, err)
	require.Len(t, hearts, 1)
	assert.Equal(t, "Rose", hearts[0].Name)

	all, err := repo.List(nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	fragrance := createFragrance(t, testDB, "Portrait of a Lady", createBrand(t, testDB, "Frederic Malle"))
	require.NoError(t, NewFragranceRepository(testDB).ReplaceNotes(fragrance.ID, []model.FragranceNote{
		{NoteID: rose.ID, Category: model.NoteHeart},
	}))

	fragrances, err := repo.FindFragrances(rose.ID)
	require.NoError(t, err)
	require.Len(t, fragrances, 1)
	assert.Equal(t, "Frederic Malle", fragrances[0].Brand.Name)
}

func TestNoteRepository_Delete(t *testing.T) {
	testDB := setupTaxonomyTest(t)
	repo := NewNoteRepository(testDB)

	note, err := repo.UpsertByName("Oud", model.NoteBase)
	require.NoError(t, err)
	brand := createBrand(t, testDB, "Tom Ford")
	for _, name := range []string{"Oud Wood", "Tuscan Leather"} {
		f := createFragrance(t, testDB, name, brand)
		require.NoError(t, NewFragranceRepository(testDB).ReplaceNotes(f.ID, []model.FragranceNote{
			{NoteID: note.ID, Category: model.NoteBase},
		}))
	}

	removed, err := repo.Delete(note.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, err = repo.FindByID(note.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.Delete(note.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRetailerRepository_UpsertLink(t *testing.T) {
	testDB := setupTaxonomyTest(t)
	repo := NewRetailerRepository(testDB)

	fragrance := createFragrance(t, testDB, "Bleu", createBrand(t, testDB, "Chanel"))
	retailer, err := repo.UpsertByName("Sephora", "https://www.sephora.com")
	require.NoError(t, err)

	price := 120.0
	link, err := repo.UpsertLink(&model.FragranceRetailer{
		FragranceID: fragrance.ID,
		RetailerID:  retailer.ID,
		ProductURL:  "https://www.sephora.com/p/bleu",
		Price:       &price,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sephora", link.Retailer.Name)

	// same pair updates in place
	newPrice := 99.0
	updated, err := repo.UpsertLink(&model.FragranceRetailer{
		FragranceID: fragrance.ID,
		RetailerID:  retailer.ID,
		ProductURL:  "https://www.sephora.com/p/bleu-edp",
		Price:       &newPrice,
		Currency:    strPtr("USD"),
	})
	require.NoError(t, err)
	assert.Equal(t, link.ID, updated.ID)
	assert.Equal(t, "https://www.sephora.com/p/bleu-edp", updated.ProductURL)
	assert.Equal(t, 99.0, *updated.Price)
	assert.Equal(t, "USD", *updated.Currency)

	var count int64
	require.NoError(t, testDB.Model(&model.FragranceRetailer{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err = repo.FindLink(fragrance.ID+1, link.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.DeleteLink(fragrance.ID, link.ID))
	assert.ErrorIs(t, repo.DeleteLink(fragrance.ID, link.ID), gorm.ErrRecordNotFound)
}

func TestRetailerRepository_Delete(t *testing.T) {
	testDB := setupTaxonomyTest(t)
	repo := NewRetailerRepository(testDB)

	retailer, err := repo.UpsertByName("Macys", "https://www.macys.com")
	require.NoError(t, err)
	fragrance := createFragrance(t, testDB, "Sauvage", createBrand(t, testDB, "Dior"))
	_, err = repo.UpsertLink(&model.FragranceRetailer{FragranceID: fragrance.ID, RetailerID: retailer.ID, ProductURL: "https://www.macys.com/p/1"})
	require.NoError(t, err)

	removed, err := repo.Delete(retailer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	list, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCommentRepository_HelpfulVoteOnce(t *testing.T) {
	testDB := setupTaxonomyTest(t)
	repo := NewCommentRepository(testDB)
	users := NewUserRepository(testDB)

	author := &model.User{AuthID: "author"}
	voter := &model.User{AuthID: "voter"}
	require.NoError(t, users.Create(author))
	require.NoError(t, users.Create(voter))

	fragrance := createFragrance(t, testDB, "Mojave Ghost", createBrand(t, testDB, "Byredo"))
	comment := &model.Comment{FragranceID: fragrance.ID, UserID: author.ID, Content: "Airy"}
	require.NoError(t, repo.Create(comment))

	require.NoError(t, repo.AddHelpfulVote(comment.ID, voter.ID))

	err := repo.AddHelpfulVote(comment.ID, voter.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	found, err := repo.FindByID(comment.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, found.HelpfulCount)
	assert.Equal(t, "author", found.User.AuthID)
}

func TestCommentRepository_RatingStatsAndList(t *testing.T) {
	testDB := setupTaxonomyTest(t)
	repo := NewCommentRepository(testDB)

	user := &model.User{AuthID: "reviewer"}
	require.NoError(t, NewUserRepository(testDB).Create(user))
	fragrance := createFragrance(t, testDB, "Santal 33", createBrand(t, testDB, "Le Labo"))

	for _, c := range []*model.Comment{
		{FragranceID: fragrance.ID, UserID: user.ID, Content: "a", Rating: intPtr(5)},
		{FragranceID: fragrance.ID, UserID: user.ID, Content: "b", Rating: intPtr(2)},
		{FragranceID: fragrance.ID, UserID: user.ID, Content: "c"},
	} {
		require.NoError(t, repo.Create(c))
	}

	stats, err := repo.RatingStats(fragrance.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Count)
	assert.Equal(t, int64(7), stats.Sum)

	empty, err := repo.RatingStats(fragrance.ID + 100)
	require.NoError(t, err)
	assert.Equal(t, RatingStats{}, empty)

	list, total, err := repo.ListByFragrance(fragrance.ID, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0].Content)
}
