package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "tourcatalog/internal/errors"
	"tourcatalog/internal/model"
	"tourcatalog/internal/repository"
)

// ImageInput references an image attached to a new attraction.
type ImageInput struct {
	URL       string `json:"url" validate:"required,max=1000"`
	AltText   string `json:"alt_text" validate:"max=255"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

// AttractionInput is the writable part of an attraction.
type AttractionInput struct {
	Name             string          `json:"name" validate:"required,max=255"`
	ShortDescription string          `json:"short_description" validate:"max=500"`
	FullDescription  string          `json:"full_description"`
	Address          string          `json:"address" validate:"max=500"`
	WorkingHours     string          `json:"working_hours" validate:"max=255"`
	Website          string          `json:"website" validate:"omitempty,url,max=500"`
	Latitude         *float64        `json:"latitude" validate:"omitempty,latitude"`
	Longitude        *float64        `json:"longitude" validate:"omitempty,longitude"`
	TicketPrice      decimal.Decimal `json:"ticket_price" swaggertype:"string"`
	CategoryID       uint            `json:"category_id"`
	MetroStationID   *uint           `json:"metro_station_id"`

	WheelchairAccessible bool `json:"wheelchair_accessible"`
	HasAudioGuide        bool `json:"has_audio_guide"`
	HasElevator          bool `json:"has_elevator"`
	SignLanguageSupport  bool `json:"sign_language_support"`
	IsPublished          bool `json:"is_published"`

	// Images are only read on create.
	Images []ImageInput `json:"images" validate:"omitempty,dive"`
}

// AttractionAdminService manages attractions for the CMS.
type AttractionAdminService interface {
	// List returns attractions in any publication state, using the same query
	// parameters as the public catalog.
	List(ctx context.Context, raw url.Values) (*model.PaginationResult, error)
	Get(ctx context.Context, id uint) (*model.Attraction, error)
	Create(ctx context.Context, in AttractionInput) (*model.Attraction, error)
	Update(ctx context.Context, id uint, in AttractionInput) (*model.Attraction, error)
	SetPublished(ctx context.Context, id uint, published bool) (*model.Attraction, error)
	Delete(ctx context.Context, id uint) error
}

type attractionAdminService struct {
	store  *repository.Store
	logger *slog.Logger
}

// NewAttractionAdminService builds the CMS attraction service.
func NewAttractionAdminService(store *repository.Store, logger *slog.Logger) AttractionAdminService {
	return &attractionAdminService{
		store:  store,
		logger: logger.With(slog.String("component", "attraction_admin")),
	}
}

func (s *attractionAdminService) List(ctx context.Context, raw url.Values) (*model.PaginationResult, error) {
	filter, err := NormalizeAttractionQuery(raw)
	if err != nil {
		return nil, err
	}
	items, total, err := s.store.Attractions.SearchAll(ctx, filter)
	if err != nil {
		return nil, apperrors.NewStoreError("list attractions", err)
	}
	return model.NewPaginationResult(items, filter.Page, filter.Limit, total), nil
}

func (s *attractionAdminService) Get(ctx context.Context, id uint) (*model.Attraction, error) {
	attraction, err := s.store.Attractions.FindByID(ctx, id)
	if err != nil {
		return nil, readError("find attraction", err)
	}
	return attraction, nil
}

func (s *attractionAdminService) Create(ctx context.Context, in AttractionInput) (*model.Attraction, error) {
	attraction := &model.Attraction{}
	if err := applyAttractionInput(ctx, s.store, attraction, in); err != nil {
		return nil, err
	}
	images, err := buildImages(in.Images)
	if err != nil {
		return nil, err
	}
	attraction.Images = images

	if err := s.store.Attractions.Create(ctx, attraction); err != nil {
		return nil, writeError("create attraction", err)
	}
	s.logger.InfoContext(ctx, "attraction created",
		slog.Uint64("id", uint64(attraction.ID)),
		slog.Bool("published", attraction.IsPublished),
	)
	return s.Get(ctx, attraction.ID)
}

func (s *attractionAdminService) Update(ctx context.Context, id uint, in AttractionInput) (*model.Attraction, error) {
	attraction, err := s.store.Attractions.FindByID(ctx, id)
	if err != nil {
		return nil, readError("find attraction", err)
	}
	if err := applyAttractionInput(ctx, s.store, attraction, in); err != nil {
		return nil, err
	}
	if err := s.store.Attractions.Update(ctx, attraction); err != nil {
		return nil, writeError("update attraction", err)
	}
	return s.Get(ctx, id)
}

func (s *attractionAdminService) SetPublished(ctx context.Context, id uint, published bool) (*model.Attraction, error) {
	if err := s.store.Attractions.SetPublished(ctx, id, published); err != nil {
		return nil, writeError("set attraction published", err)
	}
	s.logger.InfoContext(ctx, "attraction publication changed",
		slog.Uint64("id", uint64(id)),
		slog.Bool("published", published),
	)
	return s.Get(ctx, id)
}

func (s *attractionAdminService) Delete(ctx context.Context, id uint) error {
	if err := s.store.Attractions.Delete(ctx, id); err != nil {
		return writeError("delete attraction", err)
	}
	s.logger.InfoContext(ctx, "attraction deleted", slog.Uint64("id", uint64(id)))
	return nil
}

// applyAttractionInput validates in and copies it onto attraction. Category
// and metro station references are checked against store.
func applyAttractionInput(ctx context.Context, store *repository.Store, attraction *model.Attraction, in AttractionInput) error {
	verr := &apperrors.ValidationError{}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		verr.Add("name", "is required")
	}
	if in.TicketPrice.IsNegative() {
		verr.Add("ticket_price", "must not be negative")
	}

	if in.CategoryID == 0 {
		verr.Add("category_id", "is required")
	} else if _, err := store.Categories.FindByID(ctx, in.CategoryID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewStoreError("find category", err)
		}
		verr.Add("category_id", "unknown category")
	}

	if in.MetroStationID != nil {
		if _, err := store.MetroStations.FindByID(ctx, *in.MetroStationID); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewStoreError("find metro station", err)
			}
			verr.Add("metro_station_id", "unknown metro station")
		}
	}

	if err := verr.OrNil(); err != nil {
		return err
	}

	attraction.Name = name
	attraction.ShortDescription = strings.TrimSpace(in.ShortDescription)
	attraction.FullDescription = strings.TrimSpace(in.FullDescription)
	attraction.Address = strings.TrimSpace(in.Address)
	attraction.WorkingHours = strings.TrimSpace(in.WorkingHours)
	attraction.Website = strings.TrimSpace(in.Website)
	attraction.Latitude = in.Latitude
	attraction.Longitude = in.Longitude
	attraction.TicketPrice = in.TicketPrice.Round(2)
	attraction.CategoryID = in.CategoryID
	attraction.MetroStationID = in.MetroStationID
	attraction.WheelchairAccessible = in.WheelchairAccessible
	attraction.HasAudioGuide = in.HasAudioGuide
	attraction.HasElevator = in.HasElevator
	attraction.SignLanguageSupport = in.SignLanguageSupport
	attraction.IsPublished = in.IsPublished

	// Stale relations must not override the new foreign keys.
	attraction.Category = nil
	attraction.MetroStation = nil
	return nil
}

// buildImages converts image inputs. At most one image may be primary; when
// none is marked the first one becomes primary.
func buildImages(inputs []ImageInput) ([]model.AttractionImage, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	images := make([]model.AttractionImage, 0, len(inputs))
	primaries := 0
	for i, in := range inputs {
		src := strings.TrimSpace(in.URL)
		if src == "" {
			verr := &apperrors.ValidationError{}
			verr.Add(fmt.Sprintf("images[%d].url", i), "is required")
			return nil, verr
		}
		if in.IsPrimary {
			primaries++
		}
		images = append(images, model.AttractionImage{
			URL:       src,
			AltText:   strings.TrimSpace(in.AltText),
			IsPrimary: in.IsPrimary,
			SortOrder: in.SortOrder,
		})
	}

	if primaries > 1 {
		verr := &apperrors.ValidationError{}
		verr.Add("images", "at most one image can be primary")
		return nil, verr
	}
	if primaries == 0 {
		images[0].IsPrimary = true
	}
	return images, nil
}
