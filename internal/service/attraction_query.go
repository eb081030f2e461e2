package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	apperrors "tourcatalog/internal/errors"
	"tourcatalog/internal/metrics"
	"tourcatalog/internal/model"
	"tourcatalog/internal/repository"
)

// MaxSearchLength bounds the free-text search term, in characters.
const MaxSearchLength = 200

// maxPage keeps the row offset well inside int range.
const maxPage = 1<<31 - 1

// queryField describes one optional catalog query parameter. apply is only
// called with a non-blank, trimmed value and returns a rejection reason, or ""
// when the value was accepted and written into the filter.
type queryField struct {
	key   string
	apply func(value string, f *model.AttractionFilter) string
}

// attractionQueryFields is the schema of the public catalog query string.
// Adding a filter means adding an entry here.
var attractionQueryFields = []queryField{
	{key: "page", apply: intInRange(1, maxPage, "must be a positive integer", func(f *model.AttractionFilter, v int) { f.Page = v })},
	{key: "limit", apply: intInRange(1, model.MaxLimit, fmt.Sprintf("must be an integer between 1 and %d", model.MaxLimit), func(f *model.AttractionFilter, v int) { f.Limit = v })},
	{key: "search", apply: searchText},
	{key: "category", apply: positiveID(func(f *model.AttractionFilter, v uint) { f.CategoryID = &v })},
	{key: "metro", apply: positiveID(func(f *model.AttractionFilter, v uint) { f.MetroStationID = &v })},
	{key: "accessibility", apply: oneOf(model.AccessibilityFlags, func(f *model.AttractionFilter, v model.AccessibilityFlag) { f.Accessibility = &v })},
	{key: "sort", apply: oneOf(model.SortModes, func(f *model.AttractionFilter, v model.SortMode) { f.Sort = v })},
}

// NormalizeAttractionQuery turns untrusted query parameters into a filter.
// Missing, empty and whitespace-only values leave the field at its default.
// Every rejected field is reported in one *errors.ValidationError.
func NormalizeAttractionQuery(raw url.Values) (model.AttractionFilter, error) {
	filter := model.DefaultAttractionFilter()
	verr := &apperrors.ValidationError{}

	for _, field := range attractionQueryFields {
		value := strings.TrimSpace(raw.Get(field.key))
		if value == "" {
			continue
		}
		if reason := field.apply(value, &filter); reason != "" {
			verr.Add(field.key, reason)
		}
	}

	if err := verr.OrNil(); err != nil {
		return model.DefaultAttractionFilter(), err
	}
	return filter, nil
}

func intInRange(lo, hi int, reason string, set func(*model.AttractionFilter, int)) func(string, *model.AttractionFilter) string {
	return func(value string, f *model.AttractionFilter) string {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < int64(lo) || n > int64(hi) {
			return reason
		}
		set(f, int(n))
		return ""
	}
}

func positiveID(set func(*model.AttractionFilter, uint)) func(string, *model.AttractionFilter) string {
	return func(value string, f *model.AttractionFilter) string {
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil || n == 0 {
			return "must be a positive integer"
		}
		set(f, uint(n))
		return ""
	}
}

func oneOf[T ~string](allowed []T, set func(*model.AttractionFilter, T)) func(string, *model.AttractionFilter) string {
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	reason := "must be one of: " + strings.Join(names, ", ")

	return func(value string, f *model.AttractionFilter) string {
		for _, a := range allowed {
			if string(a) == value {
				set(f, a)
				return ""
			}
		}
		return reason
	}
}

func searchText(value string, f *model.AttractionFilter) string {
	if utf8.RuneCountInString(value) > MaxSearchLength {
		return fmt.Sprintf("must be at most %d characters", MaxSearchLength)
	}
	f.SearchText = &value
	return ""
}

// AttractionQueryService serves the public catalog.
type AttractionQueryService interface {
	// Query normalizes raw query parameters and runs the search.
	Query(ctx context.Context, raw url.Values) (*model.PaginationResult, error)
	// Search runs a normalized filter against published attractions.
	Search(ctx context.Context, filter model.AttractionFilter) (*model.PaginationResult, error)
	// GetPublished returns one published attraction with all of its images.
	GetPublished(ctx context.Context, id uint) (*model.Attraction, error)
}

type attractionQueryService struct {
	repo   repository.AttractionRepository
	logger *slog.Logger
}

// NewAttractionQueryService builds the public catalog service.
func NewAttractionQueryService(repo repository.AttractionRepository, logger *slog.Logger) AttractionQueryService {
	return &attractionQueryService{
		repo:   repo,
		logger: logger.With(slog.String("component", "attraction_query")),
	}
}

func (s *attractionQueryService) Query(ctx context.Context, raw url.Values) (*model.PaginationResult, error) {
	filter, err := NormalizeAttractionQuery(raw)
	if err != nil {
		metrics.SearchTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, err
	}
	return s.Search(ctx, filter)
}

func (s *attractionQueryService) Search(ctx context.Context, filter model.AttractionFilter) (*model.PaginationResult, error) {
	start := time.Now()
	items, total, err := s.repo.SearchPublished(ctx, filter)
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SearchTotal.WithLabelValues(metrics.OutcomeError).Inc()
		s.logger.ErrorContext(ctx, "search attractions failed", slog.Any("error", err))
		return nil, apperrors.NewStoreError("search attractions", err)
	}
	metrics.SearchTotal.WithLabelValues(metrics.OutcomeOK).Inc()

	s.logger.DebugContext(ctx, "search attractions",
		slog.Int("page", filter.Page),
		slog.Int("limit", filter.Limit),
		slog.String("sort", string(filter.Sort)),
		slog.Int64("total", total),
	)
	return model.NewPaginationResult(items, filter.Page, filter.Limit, total), nil
}

func (s *attractionQueryService) GetPublished(ctx context.Context, id uint) (*model.Attraction, error) {
	attraction, err := s.repo.FindPublishedByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("get attraction", err)
	}
	return attraction, nil
}
