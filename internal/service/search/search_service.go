package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/repository"
)

type SearchUseCase interface {
	Suggest(query string, limit int) []Suggestion
	Search(ctx context.Context, email string, criteria Criteria) ([]domain.Flight, error)
}

// FlightLister is the part of the flight service search reads from.
type FlightLister interface {
	List(ctx context.Context) ([]domain.Flight, error)
}

// Criteria is the raw search form.
type Criteria struct {
	From   string
	To     string
	Date   string
	Direct bool
}

type SearchService struct {
	directory *Directory
	flights   FlightLister
	params    repository.SearchParamsRepository
	log       *slog.Logger
	now       func() time.Time
}

func NewSearchService(directory *Directory, flights FlightLister, params repository.SearchParamsRepository, log *slog.Logger) *SearchService {
	return &SearchService{
		directory: directory,
		flights:   flights,
		params:    params,
		log:       log,
		now:       time.Now,
	}
}

func (s *SearchService) Suggest(query string, limit int) []Suggestion {
	return s.directory.Suggest(query, limit)
}

// Search resolves both cities before anything is persisted.
func (s *SearchService) Search(ctx context.Context, email string, criteria Criteria) ([]domain.Flight, error) {
	from, err := s.directory.Resolve(criteria.From)
	if err != nil {
		return nil, err
	}
	to, err := s.directory.Resolve(criteria.To)
	if err != nil {
		return nil, err
	}

	date := strings.TrimSpace(criteria.Date)
	if date != "" {
		if _, err := time.Parse(DateLayout, date); err != nil {
			return nil, domain.NewValidationError("date", "must be a date in YYYY-MM-DD format")
		}
	}

	params := domain.SearchParams{
		From:        criteria.From,
		To:          criteria.To,
		Date:        date,
		Direct:      criteria.Direct,
		SubmittedAt: s.now().UTC(),
	}
	if err := s.params.Save(ctx, email, params); err != nil {
		return nil, fmt.Errorf("save search params: %w", err)
	}

	flights, err := s.flights.List(ctx)
	if err != nil {
		return nil, err
	}

	result := Filter{From: from, To: to, Date: date, Direct: criteria.Direct}.Apply(flights)
	s.log.Debug("flight search", "from", from, "to", to, "results", len(result))
	return result, nil
}

var _ SearchUseCase = (*SearchService)(nil)
