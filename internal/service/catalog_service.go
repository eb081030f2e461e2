package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"tourcatalog/internal/cache"
	apperrors "tourcatalog/internal/errors"
	"tourcatalog/internal/model"
	"tourcatalog/internal/repository"
)

const (
	referenceCacheTTL     = 5 * time.Minute
	categoriesCacheKey    = "catalog:categories"
	metroStationsCacheKey = "catalog:metro_stations"
)

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	slugSplitter = regexp.MustCompile(`[^a-z0-9]+`)
)

// CategoryInput is the writable part of a category.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Slug        string `json:"slug" validate:"omitempty,max=255"`
	Description string `json:"description"`
	Icon        string `json:"icon" validate:"max=100"`
}

// MetroStationInput is the writable part of a metro station.
type MetroStationInput struct {
	Name  string `json:"name" validate:"required,max=255"`
	Line  string `json:"line" validate:"max=100"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// CatalogService serves reference data and manages categories and metro
// stations. Lists are cached in Redis and dropped on every write.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListMetroStations(ctx context.Context) ([]model.MetroStation, error)

	CreateCategory(ctx context.Context, in CategoryInput) (*model.Category, error)
	UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*model.Category, error)
	// DeleteCategory fails with ErrConflict while attractions reference it.
	DeleteCategory(ctx context.Context, id uint) error

	CreateMetroStation(ctx context.Context, in MetroStationInput) (*model.MetroStation, error)
	UpdateMetroStation(ctx context.Context, id uint, in MetroStationInput) (*model.MetroStation, error)
	// DeleteMetroStation detaches the station from its attractions first.
	DeleteMetroStation(ctx context.Context, id uint) error

	// InvalidateReferenceCache drops the cached lists.
	InvalidateReferenceCache(ctx context.Context)
}

type catalogService struct {
	store  *repository.Store
	cache  *cache.Client
	logger *slog.Logger
}

// NewCatalogService builds the catalog reference service.
func NewCatalogService(store *repository.Store, cache *cache.Client, logger *slog.Logger) CatalogService {
	return &catalogService{
		store:  store,
		cache:  cache,
		logger: logger.With(slog.String("component", "catalog")),
	}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return cachedList(ctx, s.cache, categoriesCacheKey, func() ([]model.Category, error) {
		categories, err := s.store.Categories.List(ctx)
		return categories, apperrors.NewStoreError("list categories", err)
	})
}

func (s *catalogService) ListMetroStations(ctx context.Context) ([]model.MetroStation, error) {
	return cachedList(ctx, s.cache, metroStationsCacheKey, func() ([]model.MetroStation, error) {
		stations, err := s.store.MetroStations.List(ctx)
		return stations, apperrors.NewStoreError("list metro stations", err)
	})
}

// cachedList serves a JSON list from Redis, loading and caching it on a miss.
func cachedList[T any](ctx context.Context, c *cache.Client, key string, load func() ([]T, error)) ([]T, error) {
	if data, _ := c.Get(ctx, key); data != nil {
		var cached []T
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	items, err := load()
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	if payload, err := json.Marshal(items); err == nil {
		_ = c.Set(ctx, key, payload, referenceCacheTTL)
	}
	return items, nil
}

func (s *catalogService) InvalidateReferenceCache(ctx context.Context) {
	_ = s.cache.Delete(ctx, categoriesCacheKey)
	_ = s.cache.Delete(ctx, metroStationsCacheKey)
}

func (s *catalogService) CreateCategory(ctx context.Context, in CategoryInput) (*model.Category, error) {
	category := &model.Category{}
	if err := applyCategoryInput(category, in); err != nil {
		return nil, err
	}
	if err := s.store.Categories.Create(ctx, category); err != nil {
		return nil, writeError("create category", err)
	}
	s.InvalidateReferenceCache(ctx)
	s.logger.InfoContext(ctx, "category created", slog.Uint64("id", uint64(category.ID)), slog.String("slug", category.Slug))
	return category, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*model.Category, error) {
	category, err := s.store.Categories.FindByID(ctx, id)
	if err != nil {
		return nil, readError("find category", err)
	}
	if err := applyCategoryInput(category, in); err != nil {
		return nil, err
	}
	if err := s.store.Categories.Update(ctx, category); err != nil {
		return nil, writeError("update category", err)
	}
	s.InvalidateReferenceCache(ctx)
	return category, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uint) error {
	count, err := s.store.Categories.CountAttractions(ctx, id)
	if err != nil {
		return apperrors.NewStoreError("count category attractions", err)
	}
	if count > 0 {
		return apperrors.ErrConflict
	}
	if err := s.store.Categories.Delete(ctx, id); err != nil {
		return writeError("delete category", err)
	}
	s.InvalidateReferenceCache(ctx)
	s.logger.InfoContext(ctx, "category deleted", slog.Uint64("id", uint64(id)))
	return nil
}

func (s *catalogService) CreateMetroStation(ctx context.Context, in MetroStationInput) (*model.MetroStation, error) {
	station := &model.MetroStation{}
	if err := applyMetroStationInput(station, in); err != nil {
		return nil, err
	}
	if err := s.store.MetroStations.Create(ctx, station); err != nil {
		return nil, writeError("create metro station", err)
	}
	s.InvalidateReferenceCache(ctx)
	return station, nil
}

func (s *catalogService) UpdateMetroStation(ctx context.Context, id uint, in MetroStationInput) (*model.MetroStation, error) {
	station, err := s.store.MetroStations.FindByID(ctx, id)
	if err != nil {
		return nil, readError("find metro station", err)
	}
	if err := applyMetroStationInput(station, in); err != nil {
		return nil, err
	}
	if err := s.store.MetroStations.Update(ctx, station); err != nil {
		return nil, writeError("update metro station", err)
	}
	s.InvalidateReferenceCache(ctx)
	return station, nil
}

func (s *catalogService) DeleteMetroStation(ctx context.Context, id uint) error {
	if err := s.store.MetroStations.Delete(ctx, id); err != nil {
		return writeError("delete metro station", err)
	}
	s.InvalidateReferenceCache(ctx)
	s.logger.InfoContext(ctx, "metro station deleted", slog.Uint64("id", uint64(id)))
	return nil
}

func applyCategoryInput(category *model.Category, in CategoryInput) error {
	verr := &apperrors.ValidationError{}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		verr.Add("name", "is required")
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if !slugPattern.MatchString(slug) {
		verr.Add("slug", "must contain lowercase letters, digits and single dashes")
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	category.Name = name
	category.Slug = slug
	category.Description = strings.TrimSpace(in.Description)
	category.Icon = strings.TrimSpace(in.Icon)
	return nil
}

func applyMetroStationInput(station *model.MetroStation, in MetroStationInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		verr := &apperrors.ValidationError{}
		verr.Add("name", "is required")
		return verr
	}
	station.Name = name
	station.Line = strings.TrimSpace(in.Line)
	station.Color = strings.ToUpper(strings.TrimSpace(in.Color))
	return nil
}

// Slugify lowercases s and joins its ASCII alphanumeric runs with dashes.
func Slugify(s string) string {
	return strings.Trim(slugSplitter.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// readError maps a lookup failure.
func readError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	return apperrors.NewStoreError(op, err)
}

// writeError maps a write failure.
func writeError(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperrors.ErrConflict
	default:
		return apperrors.NewStoreError(op, err)
	}
}
