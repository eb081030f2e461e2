package service

import (
	"context"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tourcatalog/internal/errors"
	"tourcatalog/internal/logging"
	"tourcatalog/internal/model"
	"tourcatalog/internal/repository"
)

type adminFixture struct {
	store   *repository.Store
	svc     AttractionAdminService
	museums *model.Category
	nevsky  *model.MetroStation
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	ctx := context.Background()
	store := newTestStore(t)

	museums := &model.Category{Name: "Museums", Slug: "museums"}
	require.NoError(t, store.Categories.Create(ctx, museums))
	nevsky := &model.MetroStation{Name: "Nevsky Prospekt", Line: "2"}
	require.NoError(t, store.MetroStations.Create(ctx, nevsky))

	return &adminFixture{
		store:   store,
		svc:     NewAttractionAdminService(store, logging.Discard()),
		museums: museums,
		nevsky:  nevsky,
	}
}

func (f *adminFixture) input(name string) AttractionInput {
	return AttractionInput{
		Name:             name,
		ShortDescription: "Art and culture",
		TicketPrice:      decimal.RequireFromString("500.50"),
		CategoryID:       f.museums.ID,
		MetroStationID:   &f.nevsky.ID,
		HasElevator:      true,
	}
}

func TestAttractionAdmin_CreateWithImages(t *testing.T) {
	f := newAdminFixture(t)
	in := f.input(" State Hermitage ")
	in.Images = []ImageInput{
		{URL: "https://img.test/h-2.jpg", SortOrder: 2},
		{URL: "https://img.test/h-1.jpg", SortOrder: 1},
	}

	created, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "State Hermitage", created.Name)
	assert.False(t, created.IsPublished)
	assert.True(t, decimal.RequireFromString("500.5").Equal(created.TicketPrice))
	require.NotNil(t, created.Category)
	assert.Equal(t, "Museums", created.Category.Name)
	require.NotNil(t, created.MetroStation)
	require.Len(t, created.Images, 2)
	assert.Equal(t, "https://img.test/h-2.jpg", created.Images[0].URL)
	assert.True(t, created.Images[0].IsPrimary)
	require.NotNil(t, created.PrimaryImage)
	assert.Equal(t, created.Images[0].ID, created.PrimaryImage.ID)
}

func TestAttractionAdmin_CreateValidation(t *testing.T) {
	f := newAdminFixture(t)
	missingStation := uint(404)

	tests := []struct {
		name       string
		mutate     func(in *AttractionInput)
		wantFields []string
	}{
		{
			name:       "blank name and negative price",
			mutate:     func(in *AttractionInput) { in.Name = " "; in.TicketPrice = decimal.NewFromInt(-1) },
			wantFields: []string{"name", "ticket_price"},
		},
		{
			name:       "unknown references",
			mutate:     func(in *AttractionInput) { in.CategoryID = 999; in.MetroStationID = &missingStation },
			wantFields: []string{"category_id", "metro_station_id"},
		},
		{
			name:       "missing category",
			mutate:     func(in *AttractionInput) { in.CategoryID = 0 },
			wantFields: []string{"category_id"},
		},
		{
			name: "two primary images",
			mutate: func(in *AttractionInput) {
				in.Images = []ImageInput{{URL: "a", IsPrimary: true}, {URL: "b", IsPrimary: true}}
			},
			wantFields: []string{"images"},
		},
		{
			name:       "blank image url",
			mutate:     func(in *AttractionInput) { in.Images = []ImageInput{{URL: "a"}, {URL: " "}} },
			wantFields: []string{"images[1].url"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := f.input("Kunstkamera")
			tt.mutate(&in)

			_, err := f.svc.Create(context.Background(), in)

			var verr *apperrors.ValidationError
			require.ErrorAs(t, err, &verr)
			for _, field := range tt.wantFields {
				assert.True(t, verr.Has(field), field)
			}
		})
	}
}

func TestAttractionAdmin_UpdatePublishDelete(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	in := f.input("Kunstkamera")
	in.Images = []ImageInput{{URL: "https://img.test/k.jpg"}}
	created, err := f.svc.Create(ctx, in)
	require.NoError(t, err)

	in.Name = "Kunstkamera Museum"
	in.MetroStationID = nil
	in.Images = nil
	updated, err := f.svc.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Kunstkamera Museum", updated.Name)
	assert.Nil(t, updated.MetroStation)
	assert.Len(t, updated.Images, 1, "update keeps existing images")

	published, err := f.svc.SetPublished(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, published.IsPublished)

	page, err := f.svc.List(ctx, url.Values{"search": {"kunst"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Pagination.TotalItems)

	require.NoError(t, f.svc.Delete(ctx, created.ID))
	_, err = f.svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, created.ID), apperrors.ErrNotFound)
	_, err = f.svc.SetPublished(ctx, created.ID, false)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAttractionAdmin_ListIncludesDrafts(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	draft := f.input("Draft Palace")
	_, err := f.svc.Create(ctx, draft)
	require.NoError(t, err)
	live := f.input("Live Palace")
	live.IsPublished = true
	_, err = f.svc.Create(ctx, live)
	require.NoError(t, err)

	page, err := f.svc.List(ctx, url.Values{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Pagination.TotalItems)

	_, err = f.svc.List(ctx, url.Values{"sort": {"price"}})
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}
