package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tourcatalog/internal/db/dbtest"
	"tourcatalog/internal/model"
)

type catalogFixture struct {
	db         *gorm.DB
	museums    model.Category
	parks      model.Category
	nevsky     model.MetroStation
	admiralty  model.MetroStation
	hermitage  model.Attraction
	russianMus model.Attraction
	summerGdn  model.Attraction
	draft      model.Attraction
}

func strPtr(s string) *string { return &s }
func uintPtr(v uint) *uint    { return &v }

func flagPtr(f model.AccessibilityFlag) *model.AccessibilityFlag { return &f }

// seedCatalog inserts a small catalog with deterministic creation times.
func seedCatalog(t *testing.T) *catalogFixture {
	t.Helper()
	gormDB := dbtest.New(t)
	f := &catalogFixture{db: gormDB}
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	f.museums = model.Category{Name: "Museums", Slug: "museums"}
	f.parks = model.Category{Name: "Parks", Slug: "parks"}
	require.NoError(t, gormDB.Create(&f.museums).Error)
	require.NoError(t, gormDB.Create(&f.parks).Error)

	f.nevsky = model.MetroStation{Name: "Nevsky Prospekt", Line: "2", Color: "#0078C9"}
	f.admiralty = model.MetroStation{Name: "Admiralteyskaya", Line: "5", Color: "#702785"}
	require.NoError(t, gormDB.Create(&f.nevsky).Error)
	require.NoError(t, gormDB.Create(&f.admiralty).Error)

	f.hermitage = model.Attraction{
		Name:                 "State Hermitage Museum",
		ShortDescription:     "One of the largest art museums in the world",
		FullDescription:      "Housed in the Winter Palace.",
		TicketPrice:          decimal.RequireFromString("500.00"),
		CategoryID:           f.museums.ID,
		MetroStationID:       &f.admiralty.ID,
		WheelchairAccessible: true,
		HasAudioGuide:        true,
		HasElevator:          true,
		IsPublished:          true,
		CreatedAt:            base,
		Images: []model.AttractionImage{
			{URL: "/img/hermitage-2.jpg", SortOrder: 2},
			{URL: "/img/hermitage-1.jpg", IsPrimary: true, SortOrder: 1},
		},
	}
	f.russianMus = model.Attraction{
		Name:                "Russian Museum",
		ShortDescription:    "Russian art collection",
		FullDescription:     "Near the HERMITAGE, in the Mikhailovsky Palace.",
		CategoryID:          f.museums.ID,
		MetroStationID:      &f.nevsky.ID,
		SignLanguageSupport: true,
		IsPublished:         true,
		CreatedAt:           base.Add(24 * time.Hour),
	}
	f.summerGdn = model.Attraction{
		Name:             "Summer Garden",
		ShortDescription: "Oldest park in the city, 100% free_entry",
		CategoryID:       f.parks.ID,
		IsPublished:      true,
		CreatedAt:        base.Add(48 * time.Hour),
	}
	f.draft = model.Attraction{
		Name:                 "Hermitage Storage (draft)",
		ShortDescription:     "Not yet published",
		CategoryID:           f.museums.ID,
		WheelchairAccessible: true,
		IsPublished:          false,
		CreatedAt:            base.Add(72 * time.Hour),
	}

	repo := NewAttractionRepository(gormDB)
	ctx := context.Background()
	for _, a := range []*model.Attraction{&f.hermitage, &f.russianMus, &f.summerGdn, &f.draft} {
		require.NoError(t, repo.Create(ctx, a))
	}
	return f
}

func names(items []model.Attraction) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.Name)
	}
	return out
}

func TestAttractionRepository_SearchPublished_NeverReturnsDrafts(t *testing.T) {
	f := seedCatalog(t)
	repo := NewAttractionRepository(f.db)

	filters := []model.AttractionFilter{
		model.DefaultAttractionFilter(),
		func() model.AttractionFilter {
			fl := model.DefaultAttractionFilter()
			fl.SearchText = strPtr("hermitage")
			return fl
		}(),
		func() model.AttractionFilter {
			fl := model.DefaultAttractionFilter()
			fl.CategoryID = uintPtr(f.museums.ID)
			fl.Accessibility = flagPtr(model.AccessibilityWheelchair)
			return fl
		}(),
		func() model.AttractionFilter {
			fl := model.DefaultAttractionFilter()
			fl.Sort = model.SortByNewest
			fl.Limit = model.MaxLimit
			return fl
		}(),
	}

	for _, filter := range filters {
		items, total, err := repo.SearchPublished(context.Background(), filter)
		require.NoError(t, err)
		assert.LessOrEqual(t, total, int64(3))
		for _, a := range items {
			assert.True(t, a.IsPublished, "unpublished %q leaked", a.Name)
			assert.NotEqual(t, f.draft.ID, a.ID)
		}
	}
}

func TestAttractionRepository_SearchPublished_TextMatchesAnyDescription(t *testing.T) {
	f := seedCatalog(t)
	repo := NewAttractionRepository(f.db)

	filter := model.DefaultAttractionFilter()
	filter.SearchText = strPtr("HeRmItAgE")

	items, total, err := repo.SearchPublished(context.Background(), filter)
	require.NoError(t, err)

	assert.Equal(t, int64(2), total)
	assert.Equal(t, []string{"Russian Museum", "State Hermitage Museum"}, names(items))
	for _, a := range items {
		haystack := strings.ToLower(a.Name + " " + a.ShortDescription + " " + a.FullDescription)
		assert.Contains(t, haystack, "hermitage")
	}
}

func TestAttractionRepository_SearchPublished_EscapesWildcards(t *testing.T) {
	f := seedCatalog(t)
	repo := NewAttractionRepository(f.db)

	filter := model.DefaultAttractionFilter()
	filter.SearchText = strPtr("100%")
	items, _, err := repo.SearchPublished(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, []string{"Summer Garden"}, names(items))

	filter.SearchText = strPtr("%")
	items, _, err = repo.SearchPublished(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, []string{"Summer Garden"}, names(items))

	filter.SearchText = strPtr("free_e")
	items, _, err = repo.SearchPublished(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, []string{"Summer Garden"}, names(items))

	// "park in" would match k_i if the underscore were a wildcard.
	filter.SearchText = strPtr("k_i")
	items, _, err = repo.SearchPublished(context.Background(), filter)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAttractionRepository_SearchPublished_Filters(t *testing.T) {
	f := seedCatalog(t)
	repo := NewAttractionRepository(f.db)

	tests := []struct {
		name   string
		modify func(*model.AttractionFilter)
		want   []string
	}{
		{
			name:   "category",
			modify: func(fl *model.AttractionFilter) { fl.CategoryID = uintPtr(f.parks.ID) },
			want:   []string{"Summer Garden"},
		},
		{
			name:   "metro",
			modify: func(fl *model.AttractionFilter) { fl.MetroStationID = uintPtr(f.nevsky.ID) },
			want:   []string{"Russian Museum"},
		},
		{
			name:   "wheelchair",
			modify: func(fl *model.AttractionFilter) { fl.Accessibility = flagPtr(model.AccessibilityWheelchair) },
			want:   []string{"State Hermitage Museum"},
		},
		{
			name:   "audio",
			modify: func(fl *model.AttractionFilter) { fl.Accessibility = flagPtr(model.AccessibilityAudio) },
			want:   []string{"State Hermitage Museum"},
		},
		{
			name:   "sign language",
			modify: func(fl *model.AttractionFilter) { fl.Accessibility = flagPtr(model.AccessibilitySignLanguage) },
			want:   []string{"Russian Museum"},
		},
		{
			name: "conjunction yields nothing",
			modify: func(fl *model.AttractionFilter) {
				fl.CategoryID = uintPtr(f.parks.ID)
				fl.MetroStationID = uintPtr(f.nevsky.ID)
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := model.DefaultAttractionFilter()
			tt.modify(&filter)

			items, total, err := repo.SearchPublished(context.Background(), filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(items))
			assert.Equal(t, int64(len(tt.want)), total)
		})
	}
}

func TestAttractionRepository_SearchPublished_Ordering(t *testing.T) {
	f := seedCatalog(t)
	repo := NewAttractionRepository(f.db)

	tests := []struct {
		sort model.SortMode
		want []string
	}{
		{model.SortByName, []string{"Russian Museum", "State Hermitage Museum", "Summer Garden"}},
		{model.SortByNewest, []string{"Summer Garden", "Russian Museum", "State Hermitage Museum"}},
		{model.SortByOldest, []string{"State Hermitage Museum", "Russian Museum", "Summer Garden"}},
		{model.SortByCategory, []string{"Russian Museum", "State Hermitage Museum", "Summer Garden"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			filter := model.DefaultAttractionFilter()
			filter.Sort = tt.sort

			items, _, err := repo.SearchPublished(context.Background(), filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(items))
		})
	}
}

func TestAttractionRepository_SearchPublished_Pagination(t *testing.T) {
	f := seedCatalog(t)
	repo := NewAttractionRepository(f.db)

	filter := model.DefaultAttractionFilter()
	filter.Limit = 2

	page1, total, err := repo.SearchPublished(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{"Russian Museum", "State Hermitage Museum"}, names(page1))

	filter.Page = 2
	page2, total, err := repo.SearchPublished(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{"Summer Garden"}, names(page2))

	filter.Page = 5
	page5, total, err := repo.SearchPublished(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Empty(t, page5)
}

func TestAttractionRepository_SearchPublished_LoadsPrimaryImageOnly(t *testing.T) {
	f := seedCatalog(t)
	repo := NewAttractionRepository(f.db)

	items, _, err := repo.SearchPublished(context.Background(), model.DefaultAttractionFilter())
	require.NoError(t, err)

	byName := map[string]model.Attraction{}
	for _, a := range items {
		byName[a.Name] = a
	}

	hermitage := byName["State Hermitage Museum"]
	require.NotNil(t, hermitage.Category)
	assert.Equal(t, "Museums", hermitage.Category.Name)
	require.NotNil(t, hermitage.MetroStation)
	assert.Equal(t, "Admiralteyskaya", hermitage.MetroStation.Name)
	require.NotNil(t, hermitage.PrimaryImage)
	assert.Equal(t, "/img/hermitage-1.jpg", hermitage.PrimaryImage.URL)
	assert.Empty(t, hermitage.Images)

	garden := byName["Summer Garden"]
	assert.Nil(t, garden.MetroStation)
	assert.Nil(t, garden.PrimaryImage)
	assert.True(t, garden.TicketPrice.IsZero())
}

func TestAttractionRepository_SearchAll_IncludesDrafts(t *testing.T) {
	f := seedCatalog(t)
	repo := NewAttractionRepository(f.db)

	filter := model.DefaultAttractionFilter()
	filter.SearchText = strPtr("storage")

	items, total, err := repo.SearchAll(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, f.draft.ID, items[0].ID)
}

func TestAttractionRepository_FindPublishedByID(t *testing.T) {
	f := seedCatalog(t)
	repo := NewAttractionRepository(f.db)
	ctx := context.Background()

	got, err := repo.FindPublishedByID(ctx, f.hermitage.ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 2)
	assert.True(t, got.Images[0].IsPrimary)
	assert.True(t, got.TicketPrice.Equal(decimal.RequireFromString("500")))

	_, err = repo.FindPublishedByID(ctx, f.draft.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	draft, err := repo.FindByID(ctx, f.draft.ID)
	require.NoError(t, err)
	assert.False(t, draft.IsPublished)
}

func TestAttractionRepository_SetPublishedAndDelete(t *testing.T) {
	f := seedCatalog(t)
	repo := NewAttractionRepository(f.db)
	ctx := context.Background()

	require.NoError(t, repo.SetPublished(ctx, f.draft.ID, true))
	_, err := repo.FindPublishedByID(ctx, f.draft.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, f.hermitage.ID))
	_, err = repo.FindByID(ctx, f.hermitage.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var images int64
	require.NoError(t, f.db.Model(&model.AttractionImage{}).Where("attraction_id = ?", f.hermitage.ID).Count(&images).Error)
	assert.Zero(t, images)

	assert.ErrorIs(t, repo.Delete(ctx, f.hermitage.ID), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.SetPublished(ctx, 9999, true), gorm.ErrRecordNotFound)
}

func TestAttractionRepository_UpdateKeepsRelations(t *testing.T) {
	f := seedCatalog(t)
	repo := NewAttractionRepository(f.db)
	ctx := context.Background()

	loaded, err := repo.FindByID(ctx, f.russianMus.ID)
	require.NoError(t, err)
	loaded.Name = "State Russian Museum"
	loaded.MetroStationID = nil
	require.NoError(t, repo.Update(ctx, loaded))

	got, err := repo.FindByID(ctx, f.russianMus.ID)
	require.NoError(t, err)
	assert.Equal(t, "State Russian Museum", got.Name)
	assert.Nil(t, got.MetroStationID)
	assert.Equal(t, f.russianMus.CreatedAt.Unix(), got.CreatedAt.Unix())
}

func TestAttractionRepository_SearchPublished_FoldsCyrillicCase(t *testing.T) {
	f := seedCatalog(t)
	repo := NewAttractionRepository(f.db)

	hermitage := model.Attraction{
		Name:             "Эрмитаж",
		ShortDescription: "Главный музей Петербурга",
		CategoryID:       f.museums.ID,
		IsPublished:      true,
	}
	require.NoError(t, f.db.Create(&hermitage).Error)

	for _, query := range []string{"Эрмитаж", "эрмитаж", "ЭРМИТАЖ", "мит"} {
		filter := model.DefaultAttractionFilter()
		filter.SearchText = strPtr(query)

		items, total, err := repo.SearchPublished(context.Background(), filter)
		require.NoError(t, err, query)
		assert.Equal(t, int64(1), total, query)
		assert.Equal(t, []string{"Эрмитаж"}, names(items), query)
	}

	filter := model.DefaultAttractionFilter()
	filter.SearchText = strPtr("ГЛАВНЫЙ МУЗЕЙ")
	items, _, err := repo.SearchPublished(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, []string{"Эрмитаж"}, names(items))
}
