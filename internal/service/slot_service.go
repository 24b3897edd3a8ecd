package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"prefslots/internal/models"

	"golang.org/x/text/unicode/norm"
)

// ErrInvalidPrefecture is returned for a blank prefecture name.
var ErrInvalidPrefecture = errors.New("prefecture cannot be empty")

// SlotService serves published slot layouts
type SlotService struct {
	repo SlotRepository
}

// SlotRepository interface for dependency injection
type SlotRepository interface {
	ListLayouts(ctx context.Context) ([]models.PrefectureLayout, error)
	FindLayout(ctx context.Context, prefecture string) (*models.PrefectureLayout, error)
}

// NewSlotService creates a new slot service
func NewSlotService(repo SlotRepository) *SlotService {
	return &SlotService{repo: repo}
}

// Table returns every published prefecture keyed by name
func (s *SlotService) Table(ctx context.Context) (map[string][]models.Slot, error) {
	layouts, err := s.repo.ListLayouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list layouts: %w", err)
	}

	return models.SlotTable{Layouts: layouts}.SlotMap(), nil
}

// Slots returns the slots of a single prefecture
func (s *SlotService) Slots(ctx context.Context, prefecture string) ([]models.Slot, error) {
	prefecture, err := normalizePrefecture(prefecture)
	if err != nil {
		return nil, err
	}

	layout, err := s.repo.FindLayout(ctx, prefecture)
	if err != nil {
		return nil, fmt.Errorf("service: failed to find layout: %w", err)
	}

	return layout.Slots, nil
}

// normalizePrefecture matches the trimmed NFC form the dataset stores names in.
func normalizePrefecture(prefecture string) (string, error) {
	prefecture = norm.NFC.String(strings.TrimSpace(prefecture))
	if prefecture == "" {
		return "", fmt.Errorf("service: %w", ErrInvalidPrefecture)
	}
	return prefecture, nil
}
