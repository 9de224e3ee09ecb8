package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Raghav1000000000/cafe/internal/bill"
)

var ErrInvalidDate = errors.New("invalid report date, expected YYYY-MM-DD")

// Repository is the bill read path the aggregator consumes.
type Repository interface {
	ListBills(ctx context.Context) ([]bill.Bill, error)
}

type Service interface {
	// Daily builds the report for the given YYYY-MM-DD date in the local
	// timezone. An empty date means today.
	Daily(ctx context.Context, date string) (*Report, error)
}

type service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		loc:  time.Local,
		now:  time.Now,
	}
}

func (s *service) Daily(ctx context.Context, date string) (*Report, error) {
	day := s.now().In(s.loc)
	if date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, s.loc)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
		}
		day = parsed
	}

	bills, err := s.repo.ListBills(ctx)
	if err != nil {
		return nil, fmt.Errorf("report: failed to list bills: %w", err)
	}

	rep := Aggregate(bills, day)
	return &rep, nil
}
