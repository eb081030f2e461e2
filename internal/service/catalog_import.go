package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gorm.io/gorm"

	apperrors "tourcatalog/internal/errors"
	"tourcatalog/internal/model"
	"tourcatalog/internal/repository"
)

// BundleAttraction is an attraction in a catalog bundle. Category and metro
// station are referenced by slug and name instead of by ID.
type BundleAttraction struct {
	AttractionInput
	Category     string `json:"category" validate:"required"`
	MetroStation string `json:"metro_station,omitempty"`
}

// CatalogBundle is the seed and import format of the catalog.
type CatalogBundle struct {
	Categories    []CategoryInput     `json:"categories" validate:"dive"`
	MetroStations []MetroStationInput `json:"metro_stations" validate:"dive"`
	Attractions   []BundleAttraction  `json:"attractions" validate:"dive"`
}

// ImportSummary counts what an import changed.
type ImportSummary struct {
	CategoriesCreated    int `json:"categories_created"`
	CategoriesUpdated    int `json:"categories_updated"`
	MetroStationsCreated int `json:"metro_stations_created"`
	MetroStationsUpdated int `json:"metro_stations_updated"`
	AttractionsCreated   int `json:"attractions_created"`
	AttractionsUpdated   int `json:"attractions_updated"`
}

// DecodeCatalogBundle reads a JSON bundle, rejecting unknown fields.
func DecodeCatalogBundle(r io.Reader) (*CatalogBundle, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var bundle CatalogBundle
	if err := dec.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("decode catalog bundle: %w", err)
	}
	return &bundle, nil
}

// ImportService upserts catalog bundles.
type ImportService interface {
	// Import upserts categories by slug, metro stations by name and
	// attractions by name, all in one transaction. Images of an existing
	// attraction are kept.
	Import(ctx context.Context, bundle *CatalogBundle) (*ImportSummary, error)
}

type importService struct {
	store   *repository.Store
	catalog CatalogService
	logger  *slog.Logger
}

// NewImportService builds the import service. catalog is used to drop cached
// reference lists after a successful import.
func NewImportService(store *repository.Store, catalog CatalogService, logger *slog.Logger) ImportService {
	return &importService{
		store:   store,
		catalog: catalog,
		logger:  logger.With(slog.String("component", "catalog_import")),
	}
}

func (s *importService) Import(ctx context.Context, bundle *CatalogBundle) (*ImportSummary, error) {
	summary := &ImportSummary{}

	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx *repository.Store) error {
		for i, in := range bundle.Categories {
			created, err := upsertCategory(ctx, tx, in)
			if err != nil {
				return withIndex("categories", i, err)
			}
			count(created, &summary.CategoriesCreated, &summary.CategoriesUpdated)
		}

		for i, in := range bundle.MetroStations {
			created, err := upsertMetroStation(ctx, tx, in)
			if err != nil {
				return withIndex("metro_stations", i, err)
			}
			count(created, &summary.MetroStationsCreated, &summary.MetroStationsUpdated)
		}

		for i, in := range bundle.Attractions {
			created, err := upsertAttraction(ctx, tx, in)
			if err != nil {
				return withIndex("attractions", i, err)
			}
			count(created, &summary.AttractionsCreated, &summary.AttractionsUpdated)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.catalog != nil {
		s.catalog.InvalidateReferenceCache(ctx)
	}
	s.logger.InfoContext(ctx, "catalog imported",
		slog.Int("categories", len(bundle.Categories)),
		slog.Int("metro_stations", len(bundle.MetroStations)),
		slog.Int("attractions", len(bundle.Attractions)),
		slog.Int("attractions_created", summary.AttractionsCreated),
	)
	return summary, nil
}

func count(created bool, createdN, updatedN *int) {
	if created {
		*createdN++
	} else {
		*updatedN++
	}
}

// withIndex prefixes validation fields with the bundle position of the entry.
func withIndex(section string, i int, err error) error {
	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	prefixed := &apperrors.ValidationError{}
	for _, f := range verr.Fields {
		prefixed.Add(fmt.Sprintf("%s[%d].%s", section, i, f.Field), f.Reason)
	}
	return prefixed
}

func upsertCategory(ctx context.Context, tx *repository.Store, in CategoryInput) (bool, error) {
	candidate := &model.Category{}
	if err := applyCategoryInput(candidate, in); err != nil {
		return false, err
	}

	existing, err := tx.Categories.FindBySlug(ctx, candidate.Slug)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return true, writeError("create category", tx.Categories.Create(ctx, candidate))
	case err != nil:
		return false, apperrors.NewStoreError("find category", err)
	}

	existing.Name = candidate.Name
	existing.Description = candidate.Description
	existing.Icon = candidate.Icon
	return false, writeError("update category", tx.Categories.Update(ctx, existing))
}

func upsertMetroStation(ctx context.Context, tx *repository.Store, in MetroStationInput) (bool, error) {
	candidate := &model.MetroStation{}
	if err := applyMetroStationInput(candidate, in); err != nil {
		return false, err
	}

	existing, err := tx.MetroStations.FindByName(ctx, candidate.Name)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return true, writeError("create metro station", tx.MetroStations.Create(ctx, candidate))
	case err != nil:
		return false, apperrors.NewStoreError("find metro station", err)
	}

	existing.Line = candidate.Line
	existing.Color = candidate.Color
	return false, writeError("update metro station", tx.MetroStations.Update(ctx, existing))
}

func upsertAttraction(ctx context.Context, tx *repository.Store, in BundleAttraction) (bool, error) {
	input := in.AttractionInput

	category, err := tx.Categories.FindBySlug(ctx, in.Category)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.NewStoreError("find category", err)
		}
		verr := &apperrors.ValidationError{}
		verr.Add("category", fmt.Sprintf("unknown category slug %q", in.Category))
		return false, verr
	}
	input.CategoryID = category.ID

	input.MetroStationID = nil
	if in.MetroStation != "" {
		station, err := tx.MetroStations.FindByName(ctx, in.MetroStation)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return false, apperrors.NewStoreError("find metro station", err)
			}
			verr := &apperrors.ValidationError{}
			verr.Add("metro_station", fmt.Sprintf("unknown metro station %q", in.MetroStation))
			return false, verr
		}
		input.MetroStationID = &station.ID
	}

	existing, err := tx.Attractions.FindByName(ctx, input.Name)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		attraction := &model.Attraction{}
		if err := applyAttractionInput(ctx, tx, attraction, input); err != nil {
			return false, err
		}
		images, err := buildImages(input.Images)
		if err != nil {
			return false, err
		}
		attraction.Images = images
		return true, writeError("create attraction", tx.Attractions.Create(ctx, attraction))
	case err != nil:
		return false, apperrors.NewStoreError("find attraction", err)
	}

	if err := applyAttractionInput(ctx, tx, existing, input); err != nil {
		return false, err
	}
	return false, writeError("update attraction", tx.Attractions.Update(ctx, existing))
}
