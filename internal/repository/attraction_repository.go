package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tourcatalog/internal/model"
)

// likeEscape is the LIKE escape character. Backslash is avoided because MySQL
// and SQLite disagree on how to write it inside a string literal.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// AttractionRepository defines attraction persistence operations.
type AttractionRepository interface {
	// SearchPublished returns one page of published attractions matching filter
	// together with the total number of matches.
	SearchPublished(ctx context.Context, filter model.AttractionFilter) ([]model.Attraction, int64, error)
	// SearchAll is SearchPublished without the publication constraint (admin listing).
	SearchAll(ctx context.Context, filter model.AttractionFilter) ([]model.Attraction, int64, error)
	FindByID(ctx context.Context, id uint) (*model.Attraction, error)
	FindPublishedByID(ctx context.Context, id uint) (*model.Attraction, error)
	FindByName(ctx context.Context, name string) (*model.Attraction, error)
	Create(ctx context.Context, attraction *model.Attraction) error
	Update(ctx context.Context, attraction *model.Attraction) error
	SetPublished(ctx context.Context, id uint, published bool) error
	Delete(ctx context.Context, id uint) error
	// WithTransaction executes fn with a repository bound to a single transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo AttractionRepository) error) error
}

type attractionRepository struct {
	db *gorm.DB
}

// NewAttractionRepository creates a new attraction repository.
func NewAttractionRepository(db *gorm.DB) AttractionRepository {
	return &attractionRepository{db: db}
}

// SearchPublished runs the public catalog query. is_published = true is always applied.
func (r *attractionRepository) SearchPublished(ctx context.Context, filter model.AttractionFilter) ([]model.Attraction, int64, error) {
	return r.search(ctx, filter, true)
}

// SearchAll lists attractions regardless of publication state.
func (r *attractionRepository) SearchAll(ctx context.Context, filter model.AttractionFilter) ([]model.Attraction, int64, error) {
	return r.search(ctx, filter, false)
}

func (r *attractionRepository) search(ctx context.Context, filter model.AttractionFilter, publishedOnly bool) ([]model.Attraction, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&model.Attraction{}).
		Scopes(attractionFilterScopes(filter, publishedOnly)...).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var attractions []model.Attraction
	if total == 0 {
		return attractions, 0, nil
	}

	err := base.
		Scopes(withListingRelations).
		Order(attractionOrder(filter.Sort)).
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&attractions).Error
	if err != nil {
		return nil, 0, err
	}
	return attractions, total, nil
}

// attractionFilterScopes turns a filter into a conjunction of predicates.
func attractionFilterScopes(filter model.AttractionFilter, publishedOnly bool) []func(*gorm.DB) *gorm.DB {
	var scopes []func(*gorm.DB) *gorm.DB

	if publishedOnly {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("attractions.is_published = ?", true)
		})
	}

	if filter.CategoryID != nil {
		categoryID := *filter.CategoryID
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("attractions.category_id = ?", categoryID)
		})
	}

	if filter.MetroStationID != nil {
		metroID := *filter.MetroStationID
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("attractions.metro_station_id = ?", metroID)
		})
	}

	if filter.SearchText != nil && *filter.SearchText != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(*filter.SearchText)) + "%"
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where(
				"(LOWER(attractions.name) LIKE ? ESCAPE '"+likeEscape+"'"+
					" OR LOWER(attractions.short_description) LIKE ? ESCAPE '"+likeEscape+"'"+
					" OR LOWER(attractions.full_description) LIKE ? ESCAPE '"+likeEscape+"')",
				pattern, pattern, pattern,
			)
		})
	}

	if filter.Accessibility != nil {
		if column, ok := filter.Accessibility.Column(); ok {
			scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
				return db.Where(clause.Eq{Column: clause.Column{Table: "attractions", Name: column}, Value: true})
			})
		}
	}

	return scopes
}

// attractionOrder maps a sort mode to a deterministic ORDER BY; id breaks ties.
func attractionOrder(mode model.SortMode) string {
	switch mode {
	case model.SortByNewest:
		return "attractions.created_at DESC, attractions.id DESC"
	case model.SortByOldest:
		return "attractions.created_at ASC, attractions.id ASC"
	case model.SortByCategory:
		return "attractions.category_id ASC, attractions.name ASC, attractions.id ASC"
	default:
		return "attractions.name ASC, attractions.id ASC"
	}
}

// withListingRelations loads category, metro station and only the primary image.
func withListingRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("MetroStation").
		Preload("PrimaryImage", "is_primary = ?", true)
}

// withDetailRelations loads category, metro station and every image, primary first.
func withDetailRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("MetroStation").
		Preload("PrimaryImage", "is_primary = ?", true).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, sort_order ASC, id ASC")
		})
}

// FindByID finds an attraction by ID regardless of publication state.
func (r *attractionRepository) FindByID(ctx context.Context, id uint) (*model.Attraction, error) {
	var attraction model.Attraction
	if err := r.db.WithContext(ctx).Scopes(withDetailRelations).First(&attraction, id).Error; err != nil {
		return nil, err
	}
	return &attraction, nil
}

// FindPublishedByID finds a published attraction by ID.
func (r *attractionRepository) FindPublishedByID(ctx context.Context, id uint) (*model.Attraction, error) {
	var attraction model.Attraction
	err := r.db.WithContext(ctx).
		Scopes(withDetailRelations).
		Where("is_published = ?", true).
		First(&attraction, id).Error
	if err != nil {
		return nil, err
	}
	return &attraction, nil
}

// FindByName finds an attraction by exact name (used by catalog import).
func (r *attractionRepository) FindByName(ctx context.Context, name string) (*model.Attraction, error) {
	var attraction model.Attraction
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&attraction).Error; err != nil {
		return nil, err
	}
	return &attraction, nil
}

// Create creates a new attraction together with its images.
func (r *attractionRepository) Create(ctx context.Context, attraction *model.Attraction) error {
	return r.db.WithContext(ctx).
		Omit("Category", "MetroStation", "PrimaryImage").
		Create(attraction).Error
}

// Update saves scalar fields of an existing attraction. Associations are left untouched.
func (r *attractionRepository) Update(ctx context.Context, attraction *model.Attraction) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(attraction).Error
}

// SetPublished flips the publication state.
func (r *attractionRepository) SetPublished(ctx context.Context, id uint, published bool) error {
	res := r.db.WithContext(ctx).Model(&model.Attraction{}).
		Where("id = ?", id).
		Update("is_published", published)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an attraction and its image records.
func (r *attractionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attraction_id = ?", id).Delete(&model.AttractionImage{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Attraction{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// WithTransaction executes a function within a database transaction.
func (r *attractionRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo AttractionRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &attractionRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
