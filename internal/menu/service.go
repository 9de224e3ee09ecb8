// Package menu manages the priced item catalog orders are built from.
package menu

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
)

var (
	ErrNotFound    = errors.New("menu item not found")
	ErrInvalidItem = errors.New("menu item must have a name and a non-negative price")
)

// Repository is the persistence surface for menu items.
type Repository interface {
	FindMenuItem(ctx context.Context, id string) (*Item, error)
	UpsertMenuItem(ctx context.Context, item *Item) error
	ListMenuItems(ctx context.Context) ([]Item, error)
	DeleteMenuItem(ctx context.Context, id string) error
}

// CreateInput carries the fields accepted when adding an item.
// Available defaults to true when omitted.
type CreateInput struct {
	Name      string
	Price     int64
	Category  string
	Available *bool
}

// UpdateInput carries a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Name      *string
	Price     *int64
	Category  *string
	Available *bool
}

type Service interface {
	Create(ctx context.Context, input CreateInput) (*Item, error)
	Get(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context) ([]Item, error)
	Update(ctx context.Context, id string, input UpdateInput) (*Item, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
	now  func() int64
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		now:  func() int64 { return time.Now().UnixMilli() },
	}
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Item, error) {
	if input.Name == "" || input.Price < 0 {
		return nil, ErrInvalidItem
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("menu: failed to generate item id: %w", err)
	}

	available := true
	if input.Available != nil {
		available = *input.Available
	}

	now := s.now()
	item := &Item{
		ID:        id.String(),
		Name:      input.Name,
		Price:     input.Price,
		Category:  input.Category,
		Available: available,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.UpsertMenuItem(ctx, item); err != nil {
		return nil, fmt.Errorf("menu: failed to save item: %w", err)
	}
	return item, nil
}

func (s *service) Get(ctx context.Context, id string) (*Item, error) {
	item, err := s.repo.FindMenuItem(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("menu: failed to find item %s: %w", id, err)
	}
	return item, nil
}

func (s *service) List(ctx context.Context) ([]Item, error) {
	items, err := s.repo.ListMenuItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("menu: failed to list items: %w", err)
	}
	return items, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdateInput) (*Item, error) {
	item, err := s.repo.FindMenuItem(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("menu: failed to find item %s: %w", id, err)
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Price != nil {
		item.Price = *input.Price
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.Available != nil {
		item.Available = *input.Available
	}
	if item.Name == "" || item.Price < 0 {
		return nil, ErrInvalidItem
	}
	item.UpdatedAt = s.now()

	if err := s.repo.UpsertMenuItem(ctx, item); err != nil {
		return nil, fmt.Errorf("menu: failed to save item %s: %w", id, err)
	}
	return item, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteMenuItem(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("menu: failed to delete item %s: %w", id, err)
	}
	return nil
}
