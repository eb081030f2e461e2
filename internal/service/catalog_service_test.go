package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourcatalog/internal/db/dbtest"
	apperrors "tourcatalog/internal/errors"
	"tourcatalog/internal/logging"
	"tourcatalog/internal/model"
	"tourcatalog/internal/repository"
)

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	return repository.NewStore(dbtest.New(t))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Museums", "museums"},
		{"  Parks & Gardens ", "parks-gardens"},
		{"Cathedrals--and  Churches!", "cathedrals-and-churches"},
		{"Музеи", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), tt.in)
	}
}

func TestCatalog_CategoryLifecycle(t *testing.T) {
	store := newTestStore(t)
	svc := NewCatalogService(store, nil, logging.Discard())
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, CategoryInput{Name: " Parks & Gardens ", Icon: "tree"})
	require.NoError(t, err)
	assert.Equal(t, "Parks & Gardens", created.Name)
	assert.Equal(t, "parks-gardens", created.Slug)

	_, err = svc.CreateCategory(ctx, CategoryInput{Name: "Parks & Gardens"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	updated, err := svc.UpdateCategory(ctx, created.ID, CategoryInput{Name: "Parks", Slug: "parks"})
	require.NoError(t, err)
	assert.Equal(t, "parks", updated.Slug)
	assert.Empty(t, updated.Icon)

	_, err = svc.UpdateCategory(ctx, 999, CategoryInput{Name: "Nope"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Parks", categories[0].Name)

	require.NoError(t, svc.DeleteCategory(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteCategory(ctx, created.ID), apperrors.ErrNotFound)

	categories, err = svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)
	assert.NotNil(t, categories)
}

func TestCatalog_CategoryValidation(t *testing.T) {
	svc := NewCatalogService(newTestStore(t), nil, logging.Discard())

	_, err := svc.CreateCategory(context.Background(), CategoryInput{Name: "  ", Slug: "Bad Slug"})

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("name"))
	assert.True(t, verr.Has("slug"))
}

func TestCatalog_DeleteReferencedCategoryConflicts(t *testing.T) {
	store := newTestStore(t)
	svc := NewCatalogService(store, nil, logging.Discard())
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, CategoryInput{Name: "Museums"})
	require.NoError(t, err)
	require.NoError(t, store.Attractions.Create(ctx, &model.Attraction{Name: "Hermitage", CategoryID: category.ID}))

	assert.ErrorIs(t, svc.DeleteCategory(ctx, category.ID), apperrors.ErrConflict)
}

func TestCatalog_DeleteMetroStationDetachesAttractions(t *testing.T) {
	store := newTestStore(t)
	svc := NewCatalogService(store, nil, logging.Discard())
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, CategoryInput{Name: "Museums"})
	require.NoError(t, err)
	station, err := svc.CreateMetroStation(ctx, MetroStationInput{Name: "Nevsky Prospekt", Line: "2", Color: "#0078c9"})
	require.NoError(t, err)
	assert.Equal(t, "#0078C9", station.Color)

	attraction := &model.Attraction{Name: "Kazan Cathedral", CategoryID: category.ID, MetroStationID: &station.ID}
	require.NoError(t, store.Attractions.Create(ctx, attraction))

	require.NoError(t, svc.DeleteMetroStation(ctx, station.ID))

	reloaded, err := store.Attractions.FindByID(ctx, attraction.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.MetroStationID)

	stations, err := svc.ListMetroStations(ctx)
	require.NoError(t, err)
	assert.Empty(t, stations)
}

func TestCatalog_MetroStationUpdate(t *testing.T) {
	svc := NewCatalogService(newTestStore(t), nil, logging.Discard())
	ctx := context.Background()

	station, err := svc.CreateMetroStation(ctx, MetroStationInput{Name: "Admiralteyskaya"})
	require.NoError(t, err)

	updated, err := svc.UpdateMetroStation(ctx, station.ID, MetroStationInput{Name: "Admiralteyskaya", Line: "5", Color: "#702785"})
	require.NoError(t, err)
	assert.Equal(t, "5", updated.Line)

	_, err = svc.UpdateMetroStation(ctx, 42, MetroStationInput{Name: "Ghost"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.CreateMetroStation(ctx, MetroStationInput{Name: " "})
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}
