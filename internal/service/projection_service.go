package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"prefslots/internal/models"
)

// ErrInvalidCoordinate is returned for latitudes or longitudes outside their valid range.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// ProjectionService places arbitrary coordinates on a published prefecture layout
type ProjectionService struct {
	repo LayoutRepository
}

// LayoutRepository interface for dependency injection
type LayoutRepository interface {
	FindLayout(ctx context.Context, prefecture string) (*models.PrefectureLayout, error)
}

// NewProjectionService creates a new projection service
func NewProjectionService(repo LayoutRepository) *ProjectionService {
	return &ProjectionService{repo: repo}
}

// Project maps lat/lng with the bounds and pad the prefecture was generated with.
// Points outside the prefecture extent are clamped to the padded layout.
func (s *ProjectionService) Project(ctx context.Context, prefecture string, lat, lng float64) (*models.Position, error) {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return nil, fmt.Errorf("service: %w: latitude %f", ErrInvalidCoordinate, lat)
	}
	if math.IsNaN(lng) || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("service: %w: longitude %f", ErrInvalidCoordinate, lng)
	}
	prefecture, err := normalizePrefecture(prefecture)
	if err != nil {
		return nil, err
	}

	layout, err := s.repo.FindLayout(ctx, prefecture)
	if err != nil {
		return nil, fmt.Errorf("service: failed to find layout: %w", err)
	}

	pos := Project(layout.Bounds, layout.Pad, lat, lng)
	pos.LeftPct = clamp(pos.LeftPct, layout.Pad, 100-layout.Pad)
	pos.TopPct = clamp(pos.TopPct, layout.Pad, 100-layout.Pad)
	return &pos, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
