package repository

import (
	"errors"
	"testing"

	"github.com/scentvault/scentvault-backend/internal/app/model"
	"github.com/scentvault/scentvault-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupFragranceTest(t *testing.T) (*gorm.DB, FragranceRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return testDB, NewFragranceRepository(testDB)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func createBrand(t *testing.T, testDB *gorm.DB, name string) *model.Brand {
	brand, err := NewBrandRepository(testDB).UpsertByName(name)
	require.NoError(t, err)
	return brand
}

func createFragrance(t *testing.T, testDB *gorm.DB, name string, brand *model.Brand) *model.Fragrance {
	fragrance := &model.Fragrance{Name: name, BrandID: brand.ID}
	require.NoError(t, NewFragranceRepository(testDB).Create(fragrance))
	return fragrance
}

func TestFragranceRepository_CreateAndFindByID(t *testing.T) {
	testDB, repo := setupFragranceTest(t)

	brand := createBrand(t, testDB, "Chanel")
	fragrance := &model.Fragrance{
		Name:        "No. 5",
		BrandID:     brand.ID,
		Year:        intPtr(1921),
		Description: strPtr("Aldehydic floral"),
	}
	require.NoError(t, repo.Create(fragrance))
	assert.NotZero(t, fragrance.ID)

	found, err := repo.FindByID(fragrance.ID)
	require.NoError(t, err)
	assert.Equal(t, "No. 5", found.Name)
	assert.Equal(t, "Chanel", found.Brand.Name)
	assert.Nil(t, found.RatingAvg)
	assert.Equal(t, 0, found.ReviewCount)

	_, err = repo.FindByID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFragranceRepository_ReplaceNotes(t *testing.T) {
	testDB, repo := setupFragranceTest(t)
	noteRepo := NewNoteRepository(testDB)

	fragrance := createFragrance(t, testDB, "Sauvage", createBrand(t, testDB, "Dior"))
	bergamot, err := noteRepo.UpsertByName("Bergamot", model.NoteTop)
	require.NoError(t, err)
	vanilla, err := noteRepo.UpsertByName("Vanilla", model.NoteBase)
	require.NoError(t, err)

	err = repo.ReplaceNotes(fragrance.ID, []model.FragranceNote{
		{NoteID: bergamot.ID, Category: model.NoteTop, Intensity: intPtr(4)},
		{NoteID: vanilla.ID, Category: model.NoteBase},
	})
	require.NoError(t, err)

	found, err := repo.FindByID(fragrance.ID)
	require.NoError(t, err)
	require.Len(t, found.Notes, 2)
	assert.Equal(t, "Bergamot", found.Notes[0].Note.Name)
	assert.Equal(t, 4, *found.Notes[0].Intensity)

	// second replace swaps the whole set
	err = repo.ReplaceNotes(fragrance.ID, []model.FragranceNote{
		{NoteID: vanilla.ID, Category: model.NoteHeart},
	})
	require.NoError(t, err)

	found, err = repo.FindByID(fragrance.ID)
	require.NoError(t, err)
	require.Len(t, found.Notes, 1)
	assert.Equal(t, vanilla.ID, found.Notes[0].NoteID)
	assert.Equal(t, model.NoteHeart, found.Notes[0].Category)

	// empty set clears all links
	require.NoError(t, repo.ReplaceNotes(fragrance.ID, nil))
	found, err = repo.FindByID(fragrance.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Notes)
}

func failNoteInserts(t *testing.T, testDB *gorm.DB) {
	err := testDB.Callback().Create().Before("gorm:create").Register("test:fail_fragrance_notes", func(tx *gorm.DB) {
		if tx.Statement.Table == "fragrance_notes" {
			_ = tx.AddError(errors.New("injected insert failure"))
		}
	})
	require.NoError(t, err)
}

func TestFragranceRepository_ReplaceNotes_RollsBackOnFailure(t *testing.T) {
	testDB, repo := setupFragranceTest(t)
	noteRepo := NewNoteRepository(testDB)

	fragrance := createFragrance(t, testDB, "Aventus", createBrand(t, testDB, "Creed"))
	pineapple, err := noteRepo.UpsertByName("Pineapple", model.NoteTop)
	require.NoError(t, err)
	birch, err := noteRepo.UpsertByName("Birch", model.NoteHeart)
	require.NoError(t, err)
	musk, err := noteRepo.UpsertByName("Musk", model.NoteBase)
	require.NoError(t, err)

	require.NoError(t, repo.ReplaceNotes(fragrance.ID, []model.FragranceNote{
		{NoteID: pineapple.ID, Category: model.NoteTop},
		{NoteID: birch.ID, Category: model.NoteHeart},
	}))

	failNoteInserts(t, testDB)

	err = repo.ReplaceNotes(fragrance.ID, []model.FragranceNote{
		{NoteID: musk.ID, Category: model.NoteBase},
	})
	require.Error(t, err)

	// delete was rolled back: previous set intact, never a mix
	var links []model.FragranceNote
	require.NoError(t, testDB.Where("fragrance_id = ?", fragrance.ID).Order("id").Find(&links).Error)
	require.Len(t, links, 2)
	assert.Equal(t, pineapple.ID, links[0].NoteID)
	assert.Equal(t, birch.ID, links[1].NoteID)
}

func TestFragranceRepository_ReplaceNotes_FailureWithoutPreviousSet(t *testing.T) {
	testDB, repo := setupFragranceTest(t)

	fragrance := createFragrance(t, testDB, "Black Orchid", createBrand(t, testDB, "Tom Ford"))
	note, err := NewNoteRepository(testDB).UpsertByName("Truffle", model.NoteTop)
	require.NoError(t, err)

	failNoteInserts(t, testDB)

	err = repo.ReplaceNotes(fragrance.ID, []model.FragranceNote{{NoteID: note.ID, Category: model.NoteTop}})
	require.Error(t, err)

	var count int64
	require.NoError(t, testDB.Model(&model.FragranceNote{}).Where("fragrance_id = ?", fragrance.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFragranceRepository_List(t *testing.T) {
	testDB, repo := setupFragranceTest(t)

	chanel := createBrand(t, testDB, "Chanel")
	dior := createBrand(t, testDB, "Dior")

	noFive := createFragrance(t, testDB, "No. 5", chanel)
	coco := createFragrance(t, testDB, "Coco Mademoiselle", chanel)
	sauvage := createFragrance(t, testDB, "Sauvage", dior)

	require.NoError(t, repo.UpdateRating(coco.ID, floatPtr(4.5), 2))
	require.NoError(t, repo.UpdateRating(sauvage.ID, floatPtr(3.0), 1))
	require.NoError(t, testDB.Model(noFive).Updates(map[string]interface{}{"year": 1921, "gender": "female"}).Error)
	require.NoError(t, testDB.Model(sauvage).Updates(map[string]interface{}{"year": 2015, "gender": "male"}).Error)

	t.Run("default sort is rating with unrated last", func(t *testing.T) {
		list, total, err := repo.List(FragranceFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, list, 3)
		assert.Equal(t, coco.ID, list[0].ID)
		assert.Equal(t, sauvage.ID, list[1].ID)
		assert.Equal(t, noFive.ID, list[2].ID)
		assert.Equal(t, "Chanel", list[0].Brand.Name)
	})

	t.Run("search matches brand name case-insensitively", func(t *testing.T) {
		list, total, err := repo.List(FragranceFilter{Search: "CHAN"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, list, 2)
	})

	t.Run("brand and gender filters", func(t *testing.T) {
		list, total, err := repo.List(FragranceFilter{Brand: "Dior", Gender: "male"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, list, 1)
		assert.Equal(t, "Sauvage", list[0].Name)
	})

	t.Run("year sort puts unknown year last", func(t *testing.T) {
		list, _, err := repo.List(FragranceFilter{SortBy: FragranceSortYear})
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, sauvage.ID, list[0].ID)
		assert.Equal(t, noFive.ID, list[1].ID)
		assert.Equal(t, coco.ID, list[2].ID)
	})

	t.Run("pagination keeps total", func(t *testing.T) {
		list, total, err := repo.List(FragranceFilter{SortBy: FragranceSortName, Limit: 1, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, list, 1)
		assert.Equal(t, "No. 5", list[0].Name)
	})
}

func TestFragranceRepository_Search(t *testing.T) {
	testDB, repo := setupFragranceTest(t)

	fragrance := createFragrance(t, testDB, "Shalimar", createBrand(t, testDB, "Guerlain"))
	createFragrance(t, testDB, "Light Blue", createBrand(t, testDB, "Dolce & Gabbana"))

	vanilla, err := NewNoteRepository(testDB).UpsertByName("Vanilla", model.NoteBase)
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceNotes(fragrance.ID, []model.FragranceNote{{NoteID: vanilla.ID, Category: model.NoteBase}}))

	byNote, err := repo.Search("vanil", 10)
	require.NoError(t, err)
	require.Len(t, byNote, 1)
	assert.Equal(t, "Shalimar", byNote[0].Name)

	byBrand, err := repo.Search("guer", 10)
	require.NoError(t, err)
	assert.Len(t, byBrand, 1)

	none, err := repo.Search("zzz", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFragranceRepository_DeleteCascades(t *testing.T) {
	testDB, repo := setupFragranceTest(t)

	fragrance := createFragrance(t, testDB, "Tobacco Vanille", createBrand(t, testDB, "Tom Ford"))
	other := createFragrance(t, testDB, "Oud Wood", createBrand(t, testDB, "Tom Ford"))

	note, err := NewNoteRepository(testDB).UpsertByName("Tobacco", model.NoteTop)
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceNotes(fragrance.ID, []model.FragranceNote{{NoteID: note.ID, Category: model.NoteTop}}))

	retailers := NewRetailerRepository(testDB)
	retailer, err := retailers.UpsertByName("Sephora", "https://www.sephora.com")
	require.NoError(t, err)
	_, err = retailers.UpsertLink(&model.FragranceRetailer{FragranceID: fragrance.ID, RetailerID: retailer.ID, ProductURL: "https://www.sephora.com/p/1"})
	require.NoError(t, err)

	user := &model.User{AuthID: "author"}
	require.NoError(t, NewUserRepository(testDB).Create(user))
	voter := &model.User{AuthID: "voter"}
	require.NoError(t, NewUserRepository(testDB).Create(voter))

	comments := NewCommentRepository(testDB)
	comment := &model.Comment{FragranceID: fragrance.ID, UserID: user.ID, Content: "Rich", Rating: intPtr(5)}
	require.NoError(t, comments.Create(comment))
	require.NoError(t, comments.AddHelpfulVote(comment.ID, voter.ID))
	keep := &model.Comment{FragranceID: other.ID, UserID: user.ID, Content: "Smoky"}
	require.NoError(t, comments.Create(keep))

	require.NoError(t, repo.Delete(fragrance.ID))

	for _, m := range []interface{}{&model.FragranceNote{}, &model.FragranceRetailer{}, &model.CommentHelpful{}} {
		var count int64
		require.NoError(t, testDB.Model(m).Count(&count).Error)
		assert.Zero(t, count)
	}

	var remaining []model.Comment
	require.NoError(t, testDB.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, keep.ID, remaining[0].ID)

	// shared taxonomy survives
	_, err = NewNoteRepository(testDB).FindByID(note.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, repo.Delete(fragrance.ID), gorm.ErrRecordNotFound)
}

func TestFragranceRepository_FindByNameAndBrand(t *testing.T) {
	testDB, repo := setupFragranceTest(t)

	chanel := createBrand(t, testDB, "Chanel")
	withImage := createFragrance(t, testDB, "Bleu", chanel)
	require.NoError(t, repo.UpdateImage(withImage.ID, strPtr("https://cdn.example.com/bleu.jpg")))
	createFragrance(t, testDB, "Chance", chanel)

	found, err := repo.FindByNameAndBrand("Bleu", "Chanel", false)
	require.NoError(t, err)
	assert.Equal(t, withImage.ID, found.ID)

	_, err = repo.FindByNameAndBrand("Bleu", "Chanel", true)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindByNameAndBrand("Chance", "Chanel", true)
	assert.NoError(t, err)

	_, err = repo.FindByNameAndBrand("Chance", "Dior", false)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFragranceRepository_ImageMaintenance(t *testing.T) {
	testDB, repo := setupFragranceTest(t)

	brand := createBrand(t, testDB, "Dior")
	bad := createFragrance(t, testDB, "Fahrenheit", brand)
	thumb := createFragrance(t, testDB, "Dune", brand)
	good := createFragrance(t, testDB, "Poison", brand)
	createFragrance(t, testDB, "J'adore", brand)

	require.NoError(t, repo.UpdateImage(bad.ID, strPtr("https://fimgs.net/mdimg/perfume/375x500.1.jpg")))
	require.NoError(t, repo.UpdateImage(thumb.ID, strPtr("o.123.jpg")))
	require.NoError(t, repo.UpdateImage(good.ID, strPtr("https://cdn.example.com/poison.jpg")))

	cleared, err := repo.ClearImagesMatching([]string{"%fimgs.net%", "o.%.jpg"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), cleared)

	found, err := repo.FindByID(good.ID)
	require.NoError(t, err)
	assert.True(t, found.HasImage())

	cleared, err = repo.ClearImages()
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)

	assert.ErrorIs(t, repo.UpdateImage(9999, nil), gorm.ErrRecordNotFound)
}

func TestFragranceRepository_FindWithStaleRating(t *testing.T) {
	testDB, repo := setupFragranceTest(t)

	brand := createBrand(t, testDB, "Creed")
	stale := createFragrance(t, testDB, "Aventus", brand)
	ok := createFragrance(t, testDB, "Silver Mountain Water", brand)

	require.NoError(t, repo.UpdateRating(stale.ID, floatPtr(0), 0))
	require.NoError(t, repo.UpdateRating(ok.ID, floatPtr(4), 1))

	list, err := repo.FindWithStaleRating()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, stale.ID, list[0].ID)

	ids, err := repo.ListIDs()
	require.NoError(t, err)
	assert.Equal(t, []uint{stale.ID, ok.ID}, ids)
}

func floatPtr(f float64) *float64 { return &f }
