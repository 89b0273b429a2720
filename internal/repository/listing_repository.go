package repository

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/alpercimsit/emlak-website/internal/model"
)

// ErrNotFound is returned when no listing carries the requested id.
var ErrNotFound = errors.New("listing not found")

// ListingRepository keeps listings in insertion order behind a copy-on-write slice.
// Readers load the current snapshot without locking; writers serialize on mu,
// build a fresh slice and publish it atomically, so a snapshot is never mutated.
type ListingRepository struct {
	mu       sync.Mutex
	listings atomic.Pointer[[]model.Listing]
}

func NewListingRepository() *ListingRepository {
	r := &ListingRepository{}
	empty := []model.Listing{}
	r.listings.Store(&empty)
	return r
}

// Snapshot returns the current collection. Callers must treat it as read-only.
func (r *ListingRepository) Snapshot() []model.Listing {
	return *r.listings.Load()
}

// Count returns the number of stored listings.
func (r *ListingRepository) Count() int {
	return len(r.Snapshot())
}

// GetByID returns a copy of the listing with the given id.
func (r *ListingRepository) GetByID(id int64) (model.Listing, error) {
	for _, l := range r.Snapshot() {
		if l.IlanNo == id {
			return l, nil
		}
	}
	return model.Listing{}, ErrNotFound
}

// Create appends l, overwriting its id with max(existing)+1 (1 when empty),
// and returns the stored record.
func (r *ListingRepository) Create(l model.Listing) model.Listing {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := *r.listings.Load()
	l.IlanNo = nextID(current)

	next := make([]model.Listing, len(current), len(current)+1)
	copy(next, current)
	next = append(next, l)
	r.listings.Store(&next)
	return l
}

// Delete removes the first listing matching id.
func (r *ListingRepository) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := *r.listings.Load()
	idx := -1
	for i, l := range current {
		if l.IlanNo == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}

	next := make([]model.Listing, 0, len(current)-1)
	next = append(next, current[:idx]...)
	next = append(next, current[idx+1:]...)
	r.listings.Store(&next)
	return nil
}

func nextID(listings []model.Listing) int64 {
	var maxID int64
	for _, l := range listings {
		if l.IlanNo > maxID {
			maxID = l.IlanNo
		}
	}
	return maxID + 1
}
