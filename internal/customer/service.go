package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/Raghav1000000000/cafe/internal/phone"
)

// ErrNotFound is returned when no customer exists for a phone key.
var ErrNotFound = errors.New("customer not found")

// Repository is the slice of the store this package needs.
type Repository interface {
	FindCustomer(ctx context.Context, phone string) (*Customer, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
}

type Service interface {
	// Get looks up a customer by phone in any accepted form; the lookup key
	// is the normalized number.
	Get(ctx context.Context, rawPhone string) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
}

type service struct {
	repo       Repository
	normalizer *phone.Normalizer
}

func NewService(repo Repository, normalizer *phone.Normalizer) Service {
	return &service{repo: repo, normalizer: normalizer}
}

func (s *service) Get(ctx context.Context, rawPhone string) (*Customer, error) {
	if !s.normalizer.IsValid(rawPhone) {
		return nil, phone.ErrInvalidPhone
	}
	normalized := s.normalizer.Normalize(rawPhone)

	c, err := s.repo.FindCustomer(ctx, normalized)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch customer %s: %w", normalized, err)
	}
	return c, nil
}

func (s *service) List(ctx context.Context) ([]Customer, error) {
	customers, err := s.repo.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list customers: %w", err)
	}
	return customers, nil
}
