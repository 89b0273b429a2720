package service

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/alpercimsit/emlak-website/internal/logging"
	"github.com/alpercimsit/emlak-website/internal/model"
	"github.com/alpercimsit/emlak-website/internal/repository"
)

// ErrListingNotFound is returned for unknown ids, and for hidden listings requested anonymously.
var ErrListingNotFound = errors.New("listing not found")

// SortOrder selects the single sort key of a listing query.
type SortOrder string

const (
	SortPriceAsc  SortOrder = "priceAsc"
	SortPriceDesc SortOrder = "priceDesc"
	SortDateAsc   SortOrder = "dateAsc"
	SortDateDesc  SortOrder = "dateDesc"
)

// ParseSortOrder matches case-insensitively and falls back to SortPriceAsc.
func ParseSortOrder(v string) SortOrder {
	for _, o := range []SortOrder{SortPriceAsc, SortPriceDesc, SortDateAsc, SortDateDesc} {
		if strings.EqualFold(v, string(o)) {
			return o
		}
	}
	return SortPriceAsc
}

// ListingQuery holds the optional filters of a list call. Zero values mean "no filter".
type ListingQuery struct {
	MinPrice      *float64
	MaxPrice      *float64
	EmlakTipi     string
	Il            string
	Ilce          string
	Sort          SortOrder
	IncludeHidden bool
}

// ListingService filters, sorts and mutates the listing collection.
type ListingService struct {
	repo   *repository.ListingRepository
	now    func() time.Time
	logger *logging.Logger
}

func NewListingService(repo *repository.ListingRepository, logger *logging.Logger) *ListingService {
	return &ListingService{
		repo:   repo,
		now:    time.Now,
		logger: logger.With("component", "listings"),
	}
}

// List returns the listings matching q in the requested order. Never nil.
func (s *ListingService) List(q ListingQuery) []model.Listing {
	snapshot := s.repo.Snapshot()
	out := make([]model.Listing, 0, len(snapshot))
	for _, l := range snapshot {
		if q.matches(&l) {
			out = append(out, l)
		}
	}

	slices.SortStableFunc(out, comparator(q.Sort))
	return out
}

func (q ListingQuery) matches(l *model.Listing) bool {
	if l.Gizli && !q.IncludeHidden {
		return false
	}
	if q.MinPrice != nil && (l.Fiyat == nil || float64(*l.Fiyat) < *q.MinPrice) {
		return false
	}
	if q.MaxPrice != nil && (l.Fiyat == nil || float64(*l.Fiyat) > *q.MaxPrice) {
		return false
	}
	return containsFold(l.EmlakTipi, q.EmlakTipi) &&
		containsFold(l.Il, q.Il) &&
		containsFold(l.Ilce, q.Ilce)
}

// containsFold is a case-insensitive substring match; an empty needle matches anything.
func containsFold(field *string, needle string) bool {
	if needle == "" {
		return true
	}
	if field == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*field), strings.ToLower(needle))
}

func comparator(order SortOrder) func(a, b model.Listing) int {
	switch order {
	case SortPriceDesc:
		return func(a, b model.Listing) int { return compareNullsLast(a.Fiyat, b.Fiyat, true, cmp.Compare[int64]) }
	case SortDateAsc:
		return func(a, b model.Listing) int {
			return compareNullsLast(a.IlanTarihi, b.IlanTarihi, false, compareDateTime)
		}
	case SortDateDesc:
		return func(a, b model.Listing) int {
			return compareNullsLast(a.IlanTarihi, b.IlanTarihi, true, compareDateTime)
		}
	default:
		return func(a, b model.Listing) int { return compareNullsLast(a.Fiyat, b.Fiyat, false, cmp.Compare[int64]) }
	}
}

// compareNullsLast orders nil after every value regardless of direction.
func compareNullsLast[T any](a, b *T, desc bool, compare func(x, y T) int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case desc:
		return compare(*b, *a)
	default:
		return compare(*a, *b)
	}
}

func compareDateTime(x, y model.DateTime) int {
	return x.Compare(y.Time)
}

// Get returns one listing. Hidden listings are only visible with includeHidden.
func (s *ListingService) Get(id int64, includeHidden bool) (model.Listing, error) {
	l, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Listing{}, ErrListingNotFound
		}
		return model.Listing{}, fmt.Errorf("ListingService.Get: %w", err)
	}
	if l.Gizli && !includeHidden {
		return model.Listing{}, ErrListingNotFound
	}
	return l, nil
}

// Create stores l with the next sequential id, stamping the creation time when absent.
func (s *ListingService) Create(l model.Listing) model.Listing {
	if l.IlanTarihi == nil {
		created := model.NewDateTime(s.now())
		l.IlanTarihi = &created
	}
	l.SetPhotos(l.Photos())
	stored := s.repo.Create(l)
	s.logger.Info("listing created", "id", stored.IlanNo, "photos", len(stored.Photos()))
	return stored
}

// Delete removes the listing with the given id.
func (s *ListingService) Delete(id int64) error {
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrListingNotFound
		}
		return fmt.Errorf("ListingService.Delete: %w", err)
	}
	s.logger.Info("listing deleted", "id", id)
	return nil
}

// Count returns the number of stored listings, hidden ones included.
func (s *ListingService) Count() int {
	return s.repo.Count()
}
